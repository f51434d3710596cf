package conformance

import (
	"context"
	"log/slog"
	"math"
	"slices"

	"pgregory.net/rapid"

	"github.com/skosovsky/minischema"
)

// Local is the Oracle name used for minischema itself in a Disagreement.
const Local = "minischema"

// Config controls CrossCheck.
type Config struct {
	// Samples is the number of generated instances (and as many probes) to check.
	// Zero means 100.
	Samples int
	// Seed offsets the per-sample rapid seeds; equal seeds replay the same run.
	Seed int
	// Oracles to compare against. Nil means DefaultOracles.
	Oracles []Oracle
	// Options apply to every check, validation and export, e.g.
	// minischema.WithMaxDepth for schemas nested deeper than the default.
	Options []minischema.Option
	// Logger receives a summary and one warning per disagreement. Nil means slog.Default().
	Logger *slog.Logger
}

// Disagreement is one instance on which an oracle and minischema differ.
type Disagreement struct {
	Sample   int
	Probe    bool // true for probe values, false for values drawn from the schema
	Instance any
	Oracle   string
	LocalErr error // nil when minischema accepted
	Err      error // nil when the oracle accepted
}

// Report summarises a CrossCheck run.
type Report struct {
	Checked       int
	Skipped       int // instances holding NaN or infinities, which JSON cannot carry
	Disagreements []Disagreement
}

// OK reports whether no disagreement was found.
func (r *Report) OK() bool { return len(r.Disagreements) == 0 }

// CrossCheck draws cfg.Samples instances from minischema.FromSchema(s) and as
// many probe values from Values, validates each with minischema and with every
// oracle, and records where verdicts differ. A generated instance that
// minischema itself rejects is recorded with Oracle set to Local.
func CrossCheck(ctx context.Context, s minischema.Schema, cfg Config) (*Report, error) {
	gen, err := minischema.FromSchema(s, cfg.Options...)
	if err != nil {
		return nil, err
	}
	if cfg.Samples <= 0 {
		cfg.Samples = 100
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	oracles := cfg.Oracles
	if oracles == nil {
		if oracles, err = DefaultOracles(s, cfg.Options...); err != nil {
			return nil, err
		}
	}
	probes := Values(probeDepth(s))

	report := &Report{}
	for i := range cfg.Samples {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		seed := cfg.Seed + i
		for _, c := range []struct {
			probe bool
			gen   *rapid.Generator[any]
		}{{false, gen}, {true, probes}} {
			v := c.gen.Example(seed)
			if !finite(v) {
				report.Skipped++
				continue
			}
			report.Checked++
			localErr := minischema.Explain(s, v, cfg.Options...)
			if localErr != nil && !minischema.IsMismatch(localErr) {
				return report, localErr
			}
			if !c.probe && localErr != nil {
				report.add(cfg.Logger, Disagreement{Sample: i, Instance: v, Oracle: Local, LocalErr: localErr})
			}
			for _, o := range oracles {
				oracleErr := o.Validate(v)
				if (localErr == nil) != (oracleErr == nil) {
					report.add(cfg.Logger, Disagreement{
						Sample: i, Probe: c.probe, Instance: v,
						Oracle: o.Name(), LocalErr: localErr, Err: oracleErr,
					})
				}
			}
		}
	}
	cfg.Logger.Info("crosscheck finished",
		"checked", report.Checked,
		"skipped", report.Skipped,
		"disagreements", len(report.Disagreements))
	return report, nil
}

func (r *Report) add(logger *slog.Logger, d Disagreement) {
	logger.Warn("verdicts differ",
		"sample", d.Sample,
		"probe", d.Probe,
		"oracle", d.Oracle,
		"instance", d.Instance,
		"local_error", d.LocalErr,
		"oracle_error", d.Err)
	r.Disagreements = append(r.Disagreements, d)
}

// Values returns a generator of arbitrary instance-shaped values: nil, bool,
// finite float64, string and []any nested up to maxDepth levels. Most of them
// do not conform to any given schema, which exercises the rejection paths.
func Values(maxDepth int) *rapid.Generator[any] {
	scalars := []*rapid.Generator[any]{
		rapid.Just[any](nil),
		box(rapid.Bool()),
		box(rapid.Float64Range(-math.MaxFloat64, math.MaxFloat64)),
		box(rapid.String()),
	}
	g := rapid.OneOf(scalars...)
	for range maxDepth {
		g = rapid.OneOf(slices.Concat(scalars, []*rapid.Generator[any]{box(rapid.SliceOfN(g, 0, 4))})...)
	}
	return g
}

// probeDepth nests probes one level deeper than the schema so too-deep values
// are also tried.
func probeDepth(s minischema.Schema) int {
	depth := 1
	for {
		a, ok := s.(minischema.Array)
		if !ok {
			if p, isPtr := s.(*minischema.Array); isPtr && p != nil {
				a, ok = *p, true
			}
		}
		if !ok {
			return depth
		}
		depth++
		s = a.Items
	}
}

func finite(v any) bool {
	switch v := v.(type) {
	case float64:
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	case []any:
		for _, item := range v {
			if !finite(item) {
				return false
			}
		}
	}
	return true
}

func box[V any](g *rapid.Generator[V]) *rapid.Generator[any] {
	return rapid.Map(g, func(v V) any { return v })
}

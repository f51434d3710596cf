// Command minischema checks schema files, validates JSON instances, prints
// sample instances and cross-checks the validator against standard JSON
// Schema implementations.
//
// Usage:
//
//	minischema [global flags] <command> [flags] <schema-file> [args]
//
// Commands:
//
//	check      <schema>              check that the schema is well formed
//	validate   <schema> <instance>   validate a JSON instance file ("-" for stdin)
//	sample     [-n N] [-seed S] <schema>
//	export     <schema>              print the schema as draft 2020-12 JSON Schema
//	crosscheck [-n N] [-seed S] <schema>
//
// Global flags:
//
//	-max-depth N   maximum array nesting (default $MINISCHEMA_MAX_DEPTH or 64)
//	-name NAME     treat the schema file as a catalog and use entry NAME
//	-v             debug logging
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/skosovsky/minischema"
	"github.com/skosovsky/minischema/conformance"
)

const envMaxDepth = "MINISCHEMA_MAX_DEPTH"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type app struct {
	maxDepth int
	name     string
	logger   *slog.Logger
	stdin    io.Reader
	stdout   io.Writer
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("minischema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	maxDepth := fs.Int("max-depth", defaultMaxDepth(), "maximum array nesting")
	name := fs.String("name", "", "catalog entry to use")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	a := &app{
		maxDepth: *maxDepth,
		name:     *name,
		logger:   slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		stdin:    stdin,
		stdout:   stdout,
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(stderr, "usage: minischema [flags] check|validate|sample|export|crosscheck ...")
		return 2
	}
	cmd, cmdArgs := rest[0], rest[1:]
	var err error
	switch cmd {
	case "check":
		err = a.check(cmdArgs)
	case "validate":
		err = a.validate(cmdArgs)
	case "sample":
		err = a.sample(cmdArgs)
	case "export":
		err = a.export(cmdArgs)
	case "crosscheck":
		err = a.crosscheck(ctx, cmdArgs)
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
	if err != nil {
		a.logger.Error(cmd+" failed", "error", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

var errUsage = errors.New("usage")

func defaultMaxDepth() int {
	if v := os.Getenv(envMaxDepth); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return minischema.DefaultMaxDepth
}

func (a *app) options() []minischema.Option {
	return []minischema.Option{minischema.WithMaxDepth(a.maxDepth)}
}

// loadSchema reads a single schema file, or one entry of a catalog when -name is set.
func (a *app) loadSchema(path string) (minischema.Schema, error) {
	if a.name == "" {
		return minischema.LoadFile(path, a.options()...)
	}
	reg, err := minischema.LoadCatalogFile(path,
		minischema.WithRegistryMaxDepth(a.maxDepth),
		minischema.WithRegistryLogger(a.logger))
	if err != nil {
		return nil, err
	}
	s, ok := reg.Get(a.name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", minischema.ErrSchemaNotFound, a.name, reg.Names())
	}
	return s, nil
}

func (a *app) check(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: check <schema>", errUsage)
	}
	s, err := a.loadSchema(args[0])
	if err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "ok %s\n", data)
	return nil
}

func (a *app) validate(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: validate <schema> <instance.json|->", errUsage)
	}
	s, err := a.loadSchema(args[0])
	if err != nil {
		return err
	}
	var data []byte
	if args[1] == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(args[1])
	}
	if err != nil {
		return err
	}
	dec, err := minischema.NewDecoder(s, a.options()...)
	if err != nil {
		return err
	}
	if _, err := dec.Decode(data); err != nil {
		fmt.Fprintf(a.stdout, "invalid: %v\n", err)
		return err
	}
	fmt.Fprintln(a.stdout, "valid")
	return nil
}

func (a *app) sample(args []string) error {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	n := fs.Int("n", 5, "number of instances")
	seed := fs.Int("seed", 0, "first rapid seed")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: sample [-n N] [-seed S] <schema>", errUsage)
	}
	s, err := a.loadSchema(fs.Arg(0))
	if err != nil {
		return err
	}
	gen, err := minischema.FromSchema(s, a.options()...)
	if err != nil {
		return err
	}
	for i := range *n {
		v := gen.Example(*seed + i)
		data, err := json.Marshal(v)
		if err != nil {
			// NaN-free but possibly infinite; JSON has no spelling for that.
			fmt.Fprintf(a.stdout, "%v\n", v)
			continue
		}
		fmt.Fprintf(a.stdout, "%s\n", data)
	}
	return nil
}

func (a *app) export(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: export <schema>", errUsage)
	}
	s, err := a.loadSchema(args[0])
	if err != nil {
		return err
	}
	data, err := minischema.ExportDocument(s, a.options()...)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s\n", data)
	return nil
}

func (a *app) crosscheck(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("crosscheck", flag.ContinueOnError)
	n := fs.Int("n", 100, "number of samples")
	seed := fs.Int("seed", 0, "first rapid seed")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: crosscheck [-n N] [-seed S] <schema>", errUsage)
	}
	s, err := a.loadSchema(fs.Arg(0))
	if err != nil {
		return err
	}
	report, err := conformance.CrossCheck(ctx, s, conformance.Config{
		Samples: *n,
		Seed:    *seed,
		Options: a.options(),
		Logger:  a.logger,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "checked %d, skipped %d, disagreements %d\n",
		report.Checked, report.Skipped, len(report.Disagreements))
	if !report.OK() {
		return fmt.Errorf("%d disagreements", len(report.Disagreements))
	}
	return nil
}

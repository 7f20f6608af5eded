// Command arrowjq translates JavaScript arrow functions into jq filters.
//
//	arrowjq 'x => x.items.filter(i => i.active).map(i => i.name)'
//	arrowjq -file lambdas.txt
//	arrowjq -file lambdas.txt -watch
//
// In -file mode every non-blank line that does not start with # or // is a
// program. Filters are printed to stdout in input order; failures go to
// stderr as file:line: message.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thisisjab/arrowjq/config"
	"github.com/thisisjab/arrowjq/engine"
	"github.com/thisisjab/arrowjq/source"
	"github.com/thisisjab/arrowjq/translator"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "arrowjq: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("arrowjq", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: arrowjq [-config path] 'x => x.a'\n       arrowjq [-config path] -file path [-watch]\n")
		fs.PrintDefaults()
	}

	cfgPath := fs.String("config", "", "path to config file")
	file := fs.String("file", "", "translate every program in `path`, one per line (- for stdin)")
	watch := fs.Bool("watch", false, "with -file, translate again whenever the file changes")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	switch {
	case *file == "" && *watch:
		return errors.New("-watch requires -file")
	case *file == "" && fs.NArg() != 1:
		return errors.New("expected exactly one program argument")
	case *file != "" && fs.NArg() != 0:
		return errors.New("-file cannot be combined with a program argument")
	case *file == "-" && *watch:
		return errors.New("-watch cannot be used with standard input")
	}

	if *file == "" {
		filter, err := translator.Translate(fs.Arg(0))
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, filter)
		return nil
	}

	cfg := config.Default()
	// Without a config file, keep stderr for translation errors.
	cfg.Logger.Level = "warn"
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}

	// stdout carries filters, so logs always go to stderr.
	handler, err := cfg.Logger.Handler(stderr)
	if err != nil {
		return fmt.Errorf("cannot create logger: %w", err)
	}
	logger := slog.New(handler)

	eng, err := engine.New(cfg.Batch, logger)
	if err != nil {
		return fmt.Errorf("cannot create engine: %w", err)
	}

	if *file == "-" {
		results, err := eng.RunSource(ctx, source.NewReaderSource("<stdin>", stdin))
		if err != nil {
			return err
		}
		return report(results, stdout, stderr)
	}

	src := source.NewFileSource(logger, *file)

	if !*watch {
		results, err := eng.RunSource(ctx, src)
		if err != nil {
			return err
		}
		return report(results, stdout, stderr)
	}

	logger.Info("watching file", "path", *file)

	err = src.Watch(ctx, func(jobs []engine.Job) {
		results, err := eng.Run(ctx, jobs)
		if err != nil {
			logger.Warn("translation interrupted", "path", *file, "error", err)
			return
		}
		report(results, stdout, stderr) //nolint:errcheck
	})
	if errors.Is(err, context.Canceled) {
		logger.Info("stopped watching file", "path", *file)
		return nil
	}
	return err
}

// report prints every filter to stdout and every failure to stderr. It
// returns an error when at least one program failed.
func report(results []engine.Result, stdout, stderr io.Writer) error {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "%s:%d: %v\n", r.Job.Source, r.Job.Line, r.Err)
			continue
		}
		fmt.Fprintln(stdout, r.Filter)
	}

	if failed := engine.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d programs failed to translate", failed, len(results))
	}
	return nil
}

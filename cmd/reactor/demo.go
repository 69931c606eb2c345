package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vango-dev/reactor/internal/demo"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/tracing"
)

type demoOptions struct {
	list  bool
	debug bool
	trace bool
}

func demoCmd() *cobra.Command {
	var opts demoOptions

	cmd := &cobra.Command{
		Use:   "demo [name...]",
		Short: "Run the bundled demo programs",
		Long: `Run one or more demo programs and print what their effects observe.

With no names every demo runs, in alphabetical order.

Examples:
  reactor demo --list
  reactor demo computed
  reactor demo store counter --debug
  reactor demo nested --trace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout(), cmd.ErrOrStderr(), args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "List the demos and exit")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "Log every subscription, write and run to stderr")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Write an OpenTelemetry span per run to stderr")

	return cmd
}

func runDemo(stdout, stderr io.Writer, names []string, opts demoOptions) error {
	if opts.list {
		for _, s := range demo.All() {
			fmt.Fprintf(stdout, "  %-16s %s\n", s.Name, s.Description)
		}
		return nil
	}

	if len(names) == 0 {
		for _, s := range demo.All() {
			names = append(names, s.Name)
		}
	}

	level := slog.LevelWarn
	if opts.debug {
		level = slog.LevelDebug
	}
	rtOpts := []reactive.Option{
		reactive.WithLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))),
	}
	if opts.debug {
		rtOpts = append(rtOpts, reactive.WithDebug(reactive.DebugConfig{
			LogTrack:      true,
			LogTrigger:    true,
			LogEffectRuns: true,
		}))
	}
	if opts.trace {
		tp, err := stderrTracerProvider(stderr)
		if err != nil {
			return err
		}
		defer func() { _ = tp.Shutdown(context.Background()) }()
		rtOpts = append(rtOpts, reactive.WithObserver(tracing.New(tracing.WithTracerProvider(tp))))
	}

	for i, name := range names {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		fmt.Fprintln(stdout, paint("1", "▸ "+name))
		if err := demo.Run(stdout, name, rtOpts...); err != nil {
			return err
		}
	}
	return nil
}

// stderrTracerProvider exports every span synchronously as JSON to w.
func stderrTracerProvider(w io.Writer) (*sdktrace.TracerProvider, error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp)), nil
}

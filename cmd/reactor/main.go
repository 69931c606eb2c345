package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// colors is false when stdout is not a terminal.
var colors = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func main() {
	setColors(colors)

	if err := rootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reactor",
		Short: "A push-based dependency-tracking engine for Go",
		Long: `reactor runs programs built on the reactive engine.

Effects subscribe to exactly the values they read and re-run when
one of them is written. Features include:

  • Observable maps and structs with per-key subscriptions
  • Refs and lazily cached computed values
  • Scopes that stop groups of effects together
  • Prometheus metrics and OpenTelemetry spans for every run`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var noColor bool
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setColors(colors && !noColor)
	}

	cmd.AddCommand(
		demoCmd(),
		serveCmd(),
		initCmd(),
		explainCmd(),
		versionCmd(),
	)
	return cmd
}

func setColors(on bool) {
	colors = on
	if on {
		errors.EnableColors()
	} else {
		errors.DisableColors()
	}
}

func paint(code, text string) string {
	if !colors {
		return text
	}
	return "\033[" + code + "m" + text + "\033[0m"
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("%s %s\n", paint("32", "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

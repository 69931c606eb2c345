package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe an error code",
		Long: `Describe the error codes reported by the engine and the CLI.

Without arguments, every code is listed with its category and message.

Examples:
  reactor explain
  reactor explain R003`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := ""
			if len(args) == 1 {
				code = args[0]
			}
			return runExplain(os.Stdout, code)
		},
	}
}

func runExplain(w io.Writer, code string) error {
	if code == "" {
		for _, c := range errors.GetAllCodes() {
			tmpl, _ := errors.GetTemplate(c)
			fmt.Fprintf(w, "%s  %-8s %s\n", paint("1", c), tmpl.Category, tmpl.Message)
		}
		return nil
	}

	code = strings.ToUpper(code)
	tmpl, ok := errors.GetTemplate(code)
	if !ok {
		return errors.New("X004").
			WithDetailf("no error code %q", code).
			WithSuggestion("Run `reactor explain` to list every code")
	}
	fmt.Fprintf(w, "%s %s\n\n", paint("1", code+":"), tmpl.Message)
	fmt.Fprintf(w, "  Category:   %s\n", tmpl.Category)
	fmt.Fprintf(w, "  Learn more: %s\n", tmpl.DocURL)
	return nil
}

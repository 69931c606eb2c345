package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		asYAML bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default configuration file",
		Long: `Write reactor.json (or reactor.yaml with --yaml) holding every
setting at its default value.

Examples:
  reactor init
  reactor init --yaml ./deploy`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, asYAML, force)
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Write reactor.yaml instead of reactor.json")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func runInit(dir string, asYAML, force bool) error {
	name := config.ConfigFileName
	if asYAML {
		name = "reactor.yaml"
	}
	path := filepath.Join(dir, name)

	if _, err := os.Stat(path); err == nil && !force {
		return errors.New("X002").
			WithDetail(path).
			WithSuggestion("Pass --force to overwrite it")
	}

	if err := config.New().SaveTo(path); err != nil {
		return err
	}
	success("Wrote %s", path)
	return nil
}

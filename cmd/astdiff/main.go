// Package main provides the astdiff CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astdiff/pkg/version"
)

// exitCodeValidationFailure is the exit code for validation failures.
const exitCodeValidationFailure = 2

var (
	cfgFile string //nolint:gochecknoglobals // CLI flag variable
	verbose bool   //nolint:gochecknoglobals // CLI flag variable
	noColor bool   //nolint:gochecknoglobals // CLI flag variable
)

func main() {
	version.InitBinaryVersion()

	rootCmd := buildRootCmd()

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if errors.Is(err, errValidationFailed) {
			os.Exit(exitCodeValidationFailure)
		}

		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "astdiff",
		Short: "Structural diffing for serialized syntax trees",
		Long: `Astdiff matches and diffs language-independent syntax trees.

Commands:
  match     Match two trees and print the node mapping
  diff      Compute a structural edit script between two trees
  validate  Validate a serialized tree against the document schema`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if noColor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., ./config, /etc/astdiff)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(matchCmd())
	rootCmd.AddCommand(diffCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "astdiff %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}

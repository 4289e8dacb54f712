// Package cmd implements the diophantus command-line entry point: a single
// command that reads an input program's syntax tree and writes the
// compiled report and equation file into an output/ directory (spec.md
// §6).
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/diophantus-project/diophantus/internal/compiler"
)

const maxOutputBytesFlag = "max-output-bytes"

var rootCmd = &cobra.Command{
	Use:   "diophantus <input.json>",
	Short: "Compile a restricted C loop into a Diophantine equation system",
	Long: `Diophantus reads the JSON syntax tree of a restricted imperative program
and produces two artifacts under output/: a typeset human report showing
the full derivation, and a machine equation file an evaluator can execute
to reproduce the original program's state transitions.

Example:
  diophantus program.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompile(args[0])
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command, printing the categorized error line
// spec.md §7 requires on failure and exiting nonzero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().Int64(maxOutputBytesFlag, compiler.DefaultMaxOutputBytes,
		"combined size safeguard for both output artifacts, in bytes")
	_ = viper.BindPFlag(maxOutputBytesFlag, rootCmd.Flags().Lookup(maxOutputBytesFlag))
}

func runCompile(inputPath string) error {
	art, err := compiler.Compile(inputPath, compiler.Options{
		MaxOutputBytes: viper.GetInt64(maxOutputBytesFlag),
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll("output", 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	reportPath := filepath.Join("output", base+"_report.txt")
	equationsPath := filepath.Join("output", base+"_equations.txt")

	if err := os.WriteFile(reportPath, []byte(art.Report), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.WriteFile(equationsPath, []byte(art.Equations), 0o644); err != nil {
		return fmt.Errorf("write equation file: %w", err)
	}

	for _, w := range art.Warnings {
		color.Yellow("warning: %s", w.String())
	}
	color.Green("compiled %s -> %s, %s", inputPath, reportPath, equationsPath)
	return nil
}

// reportError prints the single error-category line spec.md §7 requires.
// Each compileerr.Kind's message template already carries its category
// prefix (e.g. "input-not-found: %s"), so the typed error's own text is
// the category line.
func reportError(err error) {
	color.Red("%s", err)
}

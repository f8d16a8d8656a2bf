package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"krllint/internal/diagfmt"
	"krllint/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file>",
	Short: "Parse a KRL source file and print its syntax tree",
	Long:  `Parse builds the syntax tree of one KRL file. Syntax errors are printed to stderr; the tree is printed even when recovery was needed.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	result, err := driver.Parse(cmd.Context(), filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	diags := result.Bag.Finalize()
	if len(diags) > 0 && !quiet {
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		opts := diagfmt.PrettyOpts{Color: color, Context: 2}
		if err := diagfmt.Pretty(cmd.ErrOrStderr(), diags, result.FileSet, opts); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = diagfmt.FormatASTPretty(out, result.Builder, result.FileID, result.FileSet)
	case "json":
		err = diagfmt.FormatASTJSON(out, result.Builder, result.FileID, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return exitError{code: exitFindings}
	}
	return nil
}

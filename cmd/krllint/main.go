package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"krllint/internal/version"
)

// Exit statuses of the lint command.
const (
	exitClean    = 0
	exitFindings = 1
	exitFailure  = 2
)

// exitError carries a process exit status out of a command.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

var rootCmd = &cobra.Command{
	Use:   "krllint [flags] <path...>",
	Short: "Static analyzer for KUKA Robot Language sources",
	Long: `krllint checks KRL programs (.src, .sub, .dat) for syntax errors and
rule violations. Directories are searched recursively.

Exit status: 0 clean, 1 findings at or above --fail-on, 2 tool failure.`,
	Args:              cobra.ArbitraryArgs,
	RunE:              runLint,
	PersistentPreRunE: setupCommand,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// init registers subcommands and global flags.
func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "print phase timings to stderr")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of findings to show (0 = config value)")
	rootCmd.PersistentFlags().String("config", "", "config file (default: discover .krllint.toml or .krllint.jsonc)")
	rootCmd.PersistentFlags().Bool("no-config", false, "ignore config files")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to file ('-' for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept in ring mode")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a pprof CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a pprof heap profile to file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
}

// main runs the root command and turns the outcome into the process exit
// status. Errors that are not an exitError are tool failures.
func main() {
	err := rootCmd.Execute()
	closeTracing()
	stopProfiling(rootCmd)
	if err == nil {
		os.Exit(exitClean)
	}
	var ee exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	fmt.Fprintf(os.Stderr, "krllint: %v\n", err)
	os.Exit(exitFailure)
}

func setupCommand(cmd *cobra.Command, _ []string) error {
	if err := setupProfiling(cmd); err != nil {
		return err
	}
	return setupTracing(cmd)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color for output written to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(f) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

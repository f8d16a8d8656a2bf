package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"krllint/internal/config"
	"krllint/internal/diag"
	"krllint/internal/diagfmt"
	"krllint/internal/driver"
	"krllint/internal/lint"
	"krllint/internal/version"
)

// init registers the lint flags on the root command. Flags that were not
// given leave the config file value alone.
func init() {
	flags := rootCmd.Flags()
	flags.String("output-format", "", "report format (text|colorized|pretty|json|sarif)")
	flags.IntP("jobs", "j", 0, "max parallel workers (0=auto)")
	flags.StringSlice("enable", nil, "enable rules by id or name (repeatable)")
	flags.StringSlice("disable", nil, "disable rules by id or name (repeatable)")
	flags.String("fail-on", "", "lowest severity that makes the exit status 1 (error|warning|info)")
	flags.Bool("fail-fast", false, "stop after the first tool failure")
	flags.Bool("fix", false, "apply always-safe fixes in place")
	flags.Bool("cache", false, "reuse results of unchanged files")
	flags.Bool("clear-cache", false, "drop the result cache before the run")
	flags.String("ui", "off", "progress view on stderr (auto|on|off)")
	flags.Bool("with-notes", false, "include notes in pretty and json output")
}

// runLint executes the root command: it resolves the configuration, lints
// the given paths and writes the report to stdout. The exit status is
// carried back to main as an exitError.
func runLint(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	if len(args) == 0 {
		return errors.New("no input paths (see krllint --help)")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyLintFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, err := diagfmt.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	fixFlag, err := cmd.Flags().GetBool("fix")
	if err != nil {
		return fmt.Errorf("failed to get fix flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	cache, err := openCache(cmd, cfg)
	if err != nil {
		return err
	}

	rules := lint.DefaultRules()
	opts := driver.Options{Config: cfg, Rules: rules, Fix: fixFlag, Cache: cache, Progress: runProgress}

	var report *driver.Report
	if mode.tui() {
		report, err = runLintWithUI(cmd.Context(), "krllint", args, opts)
	} else {
		report, err = driver.Run(cmd.Context(), args, opts)
	}
	if err != nil {
		if errors.Is(err, driver.ErrNoInputs) {
			return fmt.Errorf("%w in %v", err, args)
		}
		return err
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	errColor, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}

	cat := lint.NewCatalogue(rules)
	enabled := enabledIDs(rules, cfg)
	fmtOpts := diagfmt.Options{
		Text: diagfmt.TextOpts{PathMode: diagfmt.PathModeRelative},
		Pretty: diagfmt.PrettyOpts{
			Color:     color,
			Context:   1,
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: withNotes,
			ShowFixes: !fixFlag,
		},
		JSON: diagfmt.JSONOpts{
			PathMode:     diagfmt.PathModeRelative,
			IncludeNotes: withNotes,
			RuleName:     ruleNameLookup(cat),
		},
		Sarif: diagfmt.SarifRunMeta{
			ToolName:       "krllint",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
			Rules:          sarifRules(rules, enabled),
			PathMode:       diagfmt.PathModeRelative,
		},
	}

	// json и sarif несут всё в одном документе; текстовые форматы
	// отправляют сбои инструмента в stderr
	switch format {
	case diagfmt.FormatJSON, diagfmt.FormatSarif:
		if err := diagfmt.Write(stdout, format, report.Diagnostics, report.FileSet, fmtOpts); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	default:
		if err := diagfmt.Write(stdout, format, report.Findings(), report.FileSet, fmtOpts); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		if failures := report.Failures(); len(failures) > 0 {
			failFormat := diagfmt.FormatText
			if errColor {
				failFormat = diagfmt.FormatColorized
			}
			if err := diagfmt.Write(stderr, failFormat, failures, report.FileSet, fmtOpts); err != nil {
				return fmt.Errorf("failed to write failures: %w", err)
			}
		}
	}

	if !quiet && (format == diagfmt.FormatText || format == diagfmt.FormatColorized || format == diagfmt.FormatPretty) {
		printSummary(stderr, report)
	}
	if timings && report.Timer != nil {
		fmt.Fprint(stderr, report.Timer.Summary())
	}

	code := report.ExitCode()
	if code == exitFailure {
		dumpTrace(stderr)
	}
	if code != exitClean {
		return exitError{code: code}
	}
	return nil
}

// loadConfig resolves --no-config, --config and discovery from the working
// directory, in that order, and applies --max-diagnostics.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	root := cmd.Root().PersistentFlags()
	noConfig, err := root.GetBool("no-config")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-config flag: %w", err)
	}
	path, err := root.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg *config.Config
	switch {
	case noConfig:
		cfg = config.Default()
	case path != "":
		cfg, err = config.Load(path)
	default:
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", wdErr)
		}
		cfg, err = config.Discover(wd)
	}
	if err != nil {
		return nil, err
	}

	if root.Changed("max-diagnostics") {
		if cfg.Output.MaxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	return cfg, nil
}

// applyLintFlags writes the flags the user actually gave into cfg.
// --enable and --disable extend the config lists.
func applyLintFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("output-format") {
		if cfg.Output.Format, err = flags.GetString("output-format"); err != nil {
			return fmt.Errorf("failed to get output-format flag: %w", err)
		}
	}
	if flags.Changed("jobs") {
		if cfg.Lint.Jobs, err = flags.GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("fail-on") {
		if cfg.Lint.FailOn, err = flags.GetString("fail-on"); err != nil {
			return fmt.Errorf("failed to get fail-on flag: %w", err)
		}
	}
	if flags.Changed("fail-fast") {
		if cfg.Lint.FailFast, err = flags.GetBool("fail-fast"); err != nil {
			return fmt.Errorf("failed to get fail-fast flag: %w", err)
		}
	}
	if flags.Changed("cache") {
		if cfg.Lint.Cache, err = flags.GetBool("cache"); err != nil {
			return fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	enable, err := flags.GetStringSlice("enable")
	if err != nil {
		return fmt.Errorf("failed to get enable flag: %w", err)
	}
	disable, err := flags.GetStringSlice("disable")
	if err != nil {
		return fmt.Errorf("failed to get disable flag: %w", err)
	}
	cfg.Lint.Enable = append(cfg.Lint.Enable, enable...)
	cfg.Lint.Disable = append(cfg.Lint.Disable, disable...)
	return nil
}

// openCache returns nil when caching is off. A cache directory that cannot
// be created only disables caching.
func openCache(cmd *cobra.Command, cfg *config.Config) (*driver.DiskCache, error) {
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	if !cfg.Lint.Cache && !clearCache {
		return nil, nil
	}
	cache, err := driver.OpenDiskCache("krllint")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "krllint: cache disabled: %v\n", err)
		return nil, nil
	}
	if clearCache {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to clear cache %s: %w", filepath.Join(cache.Dir(), "results"), err)
		}
	}
	if !cfg.Lint.Cache {
		return nil, nil
	}
	return cache, nil
}

// ruleNameLookup maps rule codes to their kebab-case names for JSON output.
func ruleNameLookup(cat *lint.Catalogue) func(diag.Code) string {
	names := make(map[diag.Code]string, len(cat.Rules()))
	for _, r := range cat.Rules() {
		m := r.Meta()
		names[m.Code] = m.Name
	}
	return func(code diag.Code) string { return names[code] }
}

// enabledIDs reports which rules the configuration turns on. An invalid
// configuration was already rejected by the driver.
func enabledIDs(rules []lint.Rule, cfg *config.Config) map[string]bool {
	out := make(map[string]bool, len(rules))
	configured, err := lint.Configure(rules, cfg)
	if err != nil {
		return out
	}
	for _, c := range configured {
		out[c.Rule.Meta().ID()] = true
	}
	return out
}

func sarifRules(rules []lint.Rule, enabled map[string]bool) []diagfmt.SarifRule {
	out := make([]diagfmt.SarifRule, 0, len(rules))
	for _, r := range rules {
		m := r.Meta()
		out = append(out, diagfmt.SarifRule{
			ID:          m.ID(),
			Name:        m.Name,
			Description: m.Description,
			Level:       m.DefaultSeverity,
			Enabled:     enabled[m.ID()],
		})
	}
	return out
}

func printSummary(w io.Writer, report *driver.Report) {
	findings := 0
	for _, d := range report.Findings() {
		if d.Code < diag.ObsInfo {
			findings++
		}
	}
	failures := len(report.Failures())
	fixed := 0
	if report.Fixes != nil {
		fixed = len(report.Fixes.Applied)
	}
	msg := fmt.Sprintf("%d %s in %d %s", findings, plural(findings, "finding", "findings"),
		len(report.Files), plural(len(report.Files), "file", "files"))
	if fixed > 0 {
		msg += fmt.Sprintf(", %d fixed", fixed)
	}
	if failures > 0 {
		msg += fmt.Sprintf(", %d %s", failures, plural(failures, "failure", "failures"))
	}
	fmt.Fprintln(w, msg)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

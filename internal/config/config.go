// Package config loads krllint settings from .krllint.toml or .krllint.jsonc.
package config

import (
	"errors"
	"fmt"
	"strings"

	"krllint/internal/diag"
)

// File names looked up by Find, in order of preference.
const (
	TOMLName  = ".krllint.toml"
	JSONCName = ".krllint.jsonc"
)

// ErrUnknownKey marks a key the configuration schema does not define.
var ErrUnknownKey = errors.New("unknown key")

// Error is a configuration problem. The CLI exits with status 2 on it
// before any file is read.
type Error struct {
	Path string // config file, empty for flags
	Key  string // dotted key, e.g. "rules.KRL009.max-length"
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	if e.Key != "" {
		b.WriteString(e.Key)
		b.WriteString(": ")
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Config mirrors the file layout:
//
//	[output]  format, max-diagnostics
//	[files]   include, exclude
//	[lint]    enable, disable, fail-on, jobs, fail-fast, cache
//	[rules.<id or name>]  enabled, severity, <option> = value
type Config struct {
	Path string `toml:"-" json:"-"`

	Output OutputConfig `toml:"output" json:"output"`
	Files  FilesConfig  `toml:"files" json:"files"`
	Lint   LintConfig   `toml:"lint" json:"lint"`
	// Rules are validated against the rule catalogue by lint.Configure.
	Rules map[string]map[string]any `toml:"rules" json:"rules"`
}

type OutputConfig struct {
	Format         string `toml:"format" json:"format"`
	MaxDiagnostics int    `toml:"max-diagnostics" json:"max-diagnostics"`
}

type FilesConfig struct {
	Include []string `toml:"include" json:"include"`
	Exclude []string `toml:"exclude" json:"exclude"`
}

type LintConfig struct {
	Enable   []string `toml:"enable" json:"enable"`
	Disable  []string `toml:"disable" json:"disable"`
	FailOn   string   `toml:"fail-on" json:"fail-on"`
	Jobs     int      `toml:"jobs" json:"jobs"`
	FailFast bool     `toml:"fail-fast" json:"fail-fast"`
	Cache    bool     `toml:"cache" json:"cache"`
}

// DefaultInclude are the globs used when [files].include is empty.
var DefaultInclude = []string{"**/*.src", "**/*.sub", "**/*.dat"}

// Default returns the configuration used without a config file.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Format: "text"},
		Files:  FilesConfig{Include: append([]string(nil), DefaultInclude...)},
		Lint:   LintConfig{FailOn: "warning"},
	}
}

// Severity keys inside a [rules.X] table; everything else is a rule option.
const (
	KeyEnabled  = "enabled"
	KeySeverity = "severity"
)

// FailOnSeverity parses [lint].fail-on.
func (c *Config) FailOnSeverity() (diag.Severity, error) {
	sev, err := diag.ParseSeverity(c.Lint.FailOn)
	if err != nil {
		return sev, &Error{Path: c.Path, Key: "lint.fail-on", Err: err}
	}
	return sev, nil
}

// Validate checks the values that do not depend on the rule catalogue.
func (c *Config) Validate() error {
	if _, err := c.FailOnSeverity(); err != nil {
		return err
	}
	switch c.Output.Format {
	case "text", "colorized", "pretty", "json", "sarif":
	default:
		return &Error{Path: c.Path, Key: "output.format",
			Err: fmt.Errorf("unknown format %q (want text, colorized, pretty, json or sarif)", c.Output.Format)}
	}
	if c.Lint.Jobs < 0 {
		return &Error{Path: c.Path, Key: "lint.jobs", Err: fmt.Errorf("must not be negative, got %d", c.Lint.Jobs)}
	}
	if c.Output.MaxDiagnostics < 0 {
		return &Error{Path: c.Path, Key: "output.max-diagnostics",
			Err: fmt.Errorf("must not be negative, got %d", c.Output.MaxDiagnostics)}
	}
	for i, g := range append(append([]string(nil), c.Files.Include...), c.Files.Exclude...) {
		if strings.TrimSpace(g) == "" {
			return &Error{Path: c.Path, Key: "files", Err: fmt.Errorf("glob #%d is empty", i+1)}
		}
	}
	return nil
}

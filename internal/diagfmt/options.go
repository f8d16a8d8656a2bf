package diagfmt

import (
	"krllint/internal/diag"
	"krllint/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeRelative prints paths relative to the FileSet base directory.
	PathModeRelative PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeBasename
	PathModeAuto
)

var pathStyles = [...]source.PathStyle{
	PathModeRelative: source.PathRelative,
	PathModeAbsolute: source.PathAbsolute,
	PathModeBasename: source.PathBase,
	PathModeAuto:     source.PathShort,
}

func (m PathMode) format(f *source.File, fs *source.FileSet) string {
	if int(m) >= len(pathStyles) {
		m = PathModeRelative
	}
	return fs.DisplayPath(f.ID, pathStyles[m])
}

// TextOpts configures the one-line-per-diagnostic formats.
type TextOpts struct {
	Color    bool
	PathMode PathMode
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int8 // строк контекста вокруг первичного диапазона
	PathMode    PathMode
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	Max          int // обрезка вывода, не Bag
	IncludeNotes bool
	// RuleName maps a code to its rule name; nil falls back to the code title.
	RuleName func(diag.Code) string
}

// SarifRule describes one reportingDescriptor of the tool component.
type SarifRule struct {
	ID          string
	Name        string
	Description string
	Level       diag.Severity
	Enabled     bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
	Rules          []SarifRule
	PathMode       PathMode
}

// Options bundles the per-format options for Write.
type Options struct {
	Text   TextOpts
	Pretty PrettyOpts
	JSON   JSONOpts
	Sarif  SarifRunMeta
}

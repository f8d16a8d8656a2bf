package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"krllint/internal/diag"
	"krllint/internal/source"
)

// Format selects a report renderer.
type Format uint8

const (
	FormatText Format = iota
	FormatColorized
	FormatPretty
	FormatJSON
	FormatSarif
)

var formatNames = [...]string{
	FormatText:      "text",
	FormatColorized: "colorized",
	FormatPretty:    "pretty",
	FormatJSON:      "json",
	FormatSarif:     "sarif",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", f)
}

// Formats lists the accepted format names in display order.
func Formats() []string {
	return append([]string(nil), formatNames[:]...)
}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range formatNames {
		if n == name {
			return Format(i), nil
		}
	}
	return FormatText, fmt.Errorf("unknown output format %q (want %s)", s, strings.Join(formatNames[:], ", "))
}

// Write renders diags in the chosen format. diags are expected sorted.
func Write(w io.Writer, format Format, diags []diag.Diagnostic, fs *source.FileSet, opts Options) error {
	switch format {
	case FormatText:
		text := opts.Text
		text.Color = false
		return Text(w, diags, fs, text)
	case FormatColorized:
		text := opts.Text
		text.Color = true
		return Text(w, diags, fs, text)
	case FormatPretty:
		return Pretty(w, diags, fs, opts.Pretty)
	case FormatJSON:
		return JSON(w, diags, fs, opts.JSON)
	case FormatSarif:
		return Sarif(w, diags, fs, opts.Sarif)
	}
	return fmt.Errorf("unsupported output format %s", format)
}

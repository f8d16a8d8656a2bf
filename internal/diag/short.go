package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"krllint/internal/source"
)

// shortLine is one row of the short form: "severity CODE path:line:col message".
type shortLine struct {
	label, code, path string
	line, col         uint32
	msg               string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.label, l.code, l.path, l.line, l.col, l.msg)
}

// FormatShortDiagnostics prints one line per diagnostic, and per note when
// includeNotes is set, sorted by position. Golden tests compare against it.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var rows []shortLine
	add := func(label string, code Code, sp source.Span, msg string) {
		if int(sp.File) >= fs.Len() {
			return
		}
		start, _ := fs.Resolve(sp)
		rows = append(rows, shortLine{
			label: label,
			code:  code.ID(),
			path:  shortPath(fs.DisplayPath(sp.File, source.PathRelative)),
			line:  start.Line,
			col:   start.Col,
			msg:   SanitizeMessage(msg),
		})
	}
	for _, d := range diags {
		add(d.Severity.Label(), d.Code, d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				add("note", d.Code, n.Span, n.Msg)
			}
		}
	}

	slices.SortStableFunc(rows, func(a, b shortLine) int {
		return cmp.Or(
			strings.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			strings.Compare(a.code, b.code),
			strings.Compare(a.msg, b.msg),
		)
	})
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.String()
	}
	return strings.Join(out, "\n")
}

func shortPath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

// SanitizeMessage folds a message onto one line.
func SanitizeMessage(msg string) string {
	return strings.TrimSpace(strings.Join(strings.FieldsFunc(msg, func(r rune) bool {
		return r == '\n' || r == '\r'
	}), " "))
}

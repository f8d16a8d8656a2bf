package diagfmt

import (
	"encoding/json"
	"io"

	"krllint/internal/diag"
	"krllint/internal/source"
)

// EditJSON is one text edit of a fix.
type EditJSON struct {
	Line      uint32 `json:"line"`
	Column    uint32 `json:"column"`
	EndLine   uint32 `json:"end_line"`
	EndColumn uint32 `json:"end_column"`
	NewText   string `json:"new_text"`
	OldText   string `json:"old_text,omitempty"`
}

// FixJSON представляет предложение по исправлению для JSON
type FixJSON struct {
	ID            string     `json:"id,omitempty"`
	Title         string     `json:"title"`
	Kind          string     `json:"kind"`
	Applicability string     `json:"applicability"`
	IsPreferred   bool       `json:"is_preferred,omitempty"`
	Edits         []EditJSON `json:"edits"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	File    string `json:"file"`
	Line    uint32 `json:"line"`
	Column  uint32 `json:"column"`
	Message string `json:"message"`
}

// DiagnosticJSON is one element of the JSON report array.
type DiagnosticJSON struct {
	File      string     `json:"file"`
	Line      uint32     `json:"line"`
	Column    uint32     `json:"column"`
	EndLine   uint32     `json:"end_line"`
	EndColumn uint32     `json:"end_column"`
	Severity  string     `json:"severity"`
	Rule      string     `json:"rule"`
	Name      string     `json:"name"`
	Message   string     `json:"message"`
	Notes     []NoteJSON `json:"notes,omitempty"`
	Fixes     []FixJSON  `json:"fixes"`
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(diags []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) []DiagnosticJSON {
	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]DiagnosticJSON, 0, n)
	for _, d := range diags[:n] {
		start, end := fs.Resolve(d.Primary)
		item := DiagnosticJSON{
			File:      opts.PathMode.format(fs.Get(d.Primary.File), fs),
			Line:      start.Line,
			Column:    start.Col,
			EndLine:   end.Line,
			EndColumn: end.Col,
			Severity:  d.Severity.Label(),
			Rule:      d.Rule(),
			Name:      ruleName(d.Code, opts.RuleName),
			Message:   d.Message,
			Fixes:     make([]FixJSON, 0, len(d.Fixes)),
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				ns, _ := fs.Resolve(note.Span)
				item.Notes = append(item.Notes, NoteJSON{
					File:    opts.PathMode.format(fs.Get(note.Span.File), fs),
					Line:    ns.Line,
					Column:  ns.Col,
					Message: note.Msg,
				})
			}
		}
		for _, f := range d.Fixes {
			fj := FixJSON{
				ID:            f.ID,
				Title:         f.Title,
				Kind:          f.Kind.String(),
				Applicability: f.Applicability.String(),
				IsPreferred:   f.IsPreferred,
				Edits:         make([]EditJSON, 0, len(f.Edits)),
			}
			for _, e := range f.Edits {
				es, ee := fs.Resolve(e.Span)
				fj.Edits = append(fj.Edits, EditJSON{
					Line:      es.Line,
					Column:    es.Col,
					EndLine:   ee.Line,
					EndColumn: ee.Col,
					NewText:   e.NewText,
					OldText:   e.OldText,
				})
			}
			item.Fixes = append(item.Fixes, fj)
		}
		out = append(out, item)
	}
	return out
}

func ruleName(code diag.Code, lookup func(diag.Code) string) string {
	if lookup != nil {
		if name := lookup(code); name != "" {
			return name
		}
	}
	return code.Title()
}

// JSON выводит отчёт массивом объектов, по одному на диагностику.
func JSON(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(diags, fs, opts))
}

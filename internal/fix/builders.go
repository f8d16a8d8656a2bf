package fix

import (
	"fmt"

	"krllint/internal/diag"
	"krllint/internal/source"
)

// ID names the fix a code proposes at sp. Two rules never share a code, so
// equal IDs mean the same edit and the engine applies it once.
func ID(code diag.Code, sp source.Span) string {
	return fmt.Sprintf("%s@%d:%d-%d", code.ID(), sp.File, sp.Start, sp.End)
}

// Option adjusts a fix after the defaults are set.
type Option func(*diag.Fix)

func Applicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) { f.Applicability = app }
}

func Kind(kind diag.FixKind) Option {
	return func(f *diag.Fix) { f.Kind = kind }
}

// Preferred marks the fix an editor should offer first.
func Preferred() Option {
	return func(f *diag.Fix) { f.IsPreferred = true }
}

// Maker builds single-edit fixes for one diagnostic code. Fixes default to
// an always-safe quick fix whose ID comes from the code and the edited span.
type Maker struct {
	Code diag.Code
}

// For returns the Maker for code.
func For(code diag.Code) Maker { return Maker{Code: code} }

// Insert puts text at the empty span at.
func (m Maker) Insert(title string, at source.Span, text string, opts ...Option) diag.Fix {
	return m.edit(title, diag.TextEdit{Span: at, NewText: text}, opts)
}

// Delete removes sp, which must currently read old.
func (m Maker) Delete(title string, sp source.Span, old string, opts ...Option) diag.Fix {
	return m.edit(title, diag.TextEdit{Span: sp, OldText: old}, opts)
}

// Replace swaps old at sp for text.
func (m Maker) Replace(title string, sp source.Span, old, text string, opts ...Option) diag.Fix {
	return m.edit(title, diag.TextEdit{Span: sp, OldText: old, NewText: text}, opts)
}

func (m Maker) edit(title string, e diag.TextEdit, opts []Option) diag.Fix {
	f := diag.Fix{
		ID:            ID(m.Code, e.Span),
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         []diag.TextEdit{e},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

package lint

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/source"
	"krllint/internal/token"
)

// Unit is one parsed file handed to the engine.
type Unit struct {
	Builder *ast.Builder
	File    ast.FileID
	Source  *source.File
	// Tokens is the full token stream, EOF included. Token based rules
	// report nothing when it is empty.
	Tokens []token.Token
}

// Pass is the read-only view a visitor gets of its file, plus the
// reporting hooks bound to its rule.
type Pass struct {
	Builder *ast.Builder
	File    ast.FileID
	Source  *source.File
	Tokens  []token.Token

	meta     Meta
	severity diag.Severity
	options  Options
	bag      *diag.Bag
	fold     cases.Caser
	upper    cases.Caser
}

func newPass(u *Unit, c Configured) *Pass {
	return &Pass{
		Builder:  u.Builder,
		File:     u.File,
		Source:   u.Source,
		Tokens:   u.Tokens,
		meta:     c.Rule.Meta(),
		severity: c.Severity,
		options:  c.Options,
		bag:      diag.NewBag(0),
		fold:     cases.Fold(),
		upper:    cases.Upper(language.Und),
	}
}

// Meta returns the metadata of the rule the pass runs for.
func (p *Pass) Meta() Meta { return p.meta }

// Severity is the effective severity after configuration.
func (p *Pass) Severity() diag.Severity { return p.severity }

// Diag starts a diagnostic with the rule's code and severity.
// The caller must call Emit.
func (p *Pass) Diag(sp source.Span, msg string) *diag.ReportBuilder {
	return diag.NewReportBuilder(diag.BagReporter{Bag: p.bag}, p.severity, p.meta.Code, sp, msg)
}

func (p *Pass) Report(sp source.Span, msg string) {
	p.Diag(sp, msg).Emit()
}

func (p *Pass) ReportWithFix(sp source.Span, msg string, fixes ...diag.Fix) {
	b := p.Diag(sp, msg)
	for _, f := range fixes {
		b.WithFixSuggestion(f)
	}
	b.Emit()
}

// IntOption returns an integer option, falling back to its declared default.
func (p *Pass) IntOption(key string) int {
	if v, ok := p.options[key].(int); ok {
		return v
	}
	if o, ok := p.meta.option(key); ok {
		if v, ok := o.Default.(int); ok {
			return v
		}
	}
	return 0
}

func (p *Pass) StringOption(key string) string {
	if v, ok := p.options[key].(string); ok {
		return v
	}
	if o, ok := p.meta.option(key); ok {
		if v, ok := o.Default.(string); ok {
			return v
		}
	}
	return ""
}

func (p *Pass) BoolOption(key string) bool {
	if v, ok := p.options[key].(bool); ok {
		return v
	}
	if o, ok := p.meta.option(key); ok {
		if v, ok := o.Default.(bool); ok {
			return v
		}
	}
	return false
}

// Fold case-folds a KRL name; KRL identifiers are case-insensitive.
func (p *Pass) Fold(name string) string {
	return p.fold.String(name)
}

// SameName compares two KRL names case-insensitively.
func (p *Pass) SameName(a, b string) bool {
	return p.fold.String(a) == p.fold.String(b)
}

// Upper returns the canonical upper-case spelling of a keyword.
func (p *Pass) Upper(s string) string {
	return p.upper.String(s)
}

// Text returns the source text covered by sp.
func (p *Pass) Text(sp source.Span) string {
	if p.Source == nil || sp.File != p.Source.ID || int(sp.End) > len(p.Source.Content) || sp.Start > sp.End {
		return ""
	}
	return string(p.Source.Content[sp.Start:sp.End])
}

// Bag returns the diagnostics reported so far.
func (p *Pass) Bag() *diag.Bag { return p.bag }

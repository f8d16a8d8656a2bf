package diag

import (
	"sync/atomic"

	"krllint/internal/source"
)

// Reporter receives diagnostics from the lexer, the parser and the rules.
// Реализации: BagReporter (кладёт в Bag), CountingReporter (считает ошибки).
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter — адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// CountingReporter forwards to Next and counts what passed by severity.
type CountingReporter struct {
	Next   Reporter
	errors atomic.Int64
	total  atomic.Int64
}

func (r *CountingReporter) Report(d Diagnostic) {
	r.total.Add(1)
	if d.Severity == SevError {
		r.errors.Add(1)
	}
	if r.Next != nil {
		r.Next.Report(d)
	}
}

// Errors returns how many error diagnostics were reported.
func (r *CountingReporter) Errors() int { return int(r.errors.Load()) }

// Total returns how many diagnostics were reported.
func (r *CountingReporter) Total() int { return int(r.total.Load()) }

// ReportBuilder assembles one diagnostic with notes and fixes. Emit sends
// it at most once.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder starts a diagnostic bound to r.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{reporter: r, diag: New(sev, code, primary, msg)}
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.diag = b.diag.WithNote(sp, msg)
	}
	return b
}

// WithFix adds an always-safe quick fix made of edits.
func (b *ReportBuilder) WithFix(title string, edits ...TextEdit) *ReportBuilder {
	if b != nil {
		b.diag = b.diag.WithFix(title, edits...)
	}
	return b
}

// WithFixSuggestion adds a fix built elsewhere, e.g. by the fix package.
func (b *ReportBuilder) WithFixSuggestion(fix Fix) *ReportBuilder {
	if b != nil {
		b.diag = b.diag.WithFixSuggestion(fix)
	}
	return b
}

func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
}

// Diagnostic returns what was built so far without emitting it.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

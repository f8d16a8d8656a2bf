package diag

import (
	"krllint/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// Rule returns the identifier shown in reports: the rule id for lint
// findings, the phase id otherwise.
func (d Diagnostic) Rule() string {
	return d.Code.ID()
}

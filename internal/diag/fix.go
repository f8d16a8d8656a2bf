package diag

import (
	"errors"
	"fmt"

	"krllint/internal/source"
)

// FixKind classifies a fix for UI listings.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactor
	FixKindRefactorRewrite
	FixKindSourceAction
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactor:
		return "refactor"
	case FixKindRefactorRewrite:
		return "refactor.rewrite"
	case FixKindSourceAction:
		return "source"
	default:
		return "unknown"
	}
}

// FixApplicability describes how confident the producer is in a fix.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	default:
		return "unknown"
	}
}

// TextEdit replaces Span with NewText. OldText, when set, guards the edit:
// the fix engine refuses to apply it if the file no longer matches.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	Edits         []TextEdit
}

var errFixEditFile = errors.New("fix edits span several files")

// Validate checks the edit spans of f against fs.
func (f Fix) Validate(fs *source.FileSet) error {
	if len(f.Edits) == 0 {
		return nil
	}
	file := f.Edits[0].Span.File
	for _, e := range f.Edits {
		if e.Span.File != file {
			return errFixEditFile
		}
		if e.Span.End < e.Span.Start {
			return fmt.Errorf("edit %s has inverted span", e.Span)
		}
		if fs != nil {
			if int(e.Span.File) >= fs.Len() {
				return fmt.Errorf("edit %s refers to unknown file", e.Span)
			}
			if int(e.Span.End) > len(fs.Get(e.Span.File).Content) {
				return fmt.Errorf("edit %s is out of range", e.Span)
			}
		}
	}
	return nil
}

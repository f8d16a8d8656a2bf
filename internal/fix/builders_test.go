package fix

import (
	"testing"

	"krllint/internal/diag"
	"krllint/internal/source"
)

func TestMakerDefaults(t *testing.T) {
	at := source.Span{File: 1, Start: 10, End: 10}
	f := For(diag.KrlParamDirection).Insert("add :OUT", at, ":OUT")

	if f.Kind != diag.FixKindQuickFix || f.Applicability != diag.FixApplicabilityAlwaysSafe || f.IsPreferred {
		t.Errorf("defaults = %s %s preferred=%v", f.Kind, f.Applicability, f.IsPreferred)
	}
	if f.ID != ID(diag.KrlParamDirection, at) {
		t.Errorf("ID = %q", f.ID)
	}
	if len(f.Edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(f.Edits))
	}
	if e := f.Edits[0]; e.Span != at || e.NewText != ":OUT" || e.OldText != "" {
		t.Errorf("unexpected edit %+v", e)
	}
}

// TestDelete: удаление хранит ожидаемый текст для проверки при применении
func TestDelete(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("move.src", []byte("DEF move()   \nEND\n"))

	sp := source.Span{File: fileID, Start: 10, End: 13}
	f := For(diag.KrlTrailingWhitespace).Delete("remove trailing whitespace", sp, "   ")

	if e := f.Edits[0]; e.NewText != "" || e.OldText != "   " {
		t.Errorf("unexpected edit %+v", e)
	}
	if err := f.Validate(fs); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestReplaceWithOptions(t *testing.T) {
	sp := source.Span{Start: 0, End: 3}
	f := For(diag.KrlKeywordCase).Replace("write DEF", sp, "def", "DEF",
		Kind(diag.FixKindRefactor),
		nil,
		Applicability(diag.FixApplicabilityManualReview),
		Applicability(diag.FixApplicabilitySafeWithHeuristics),
		Preferred(),
	)
	if f.Kind != diag.FixKindRefactor {
		t.Errorf("Kind = %s", f.Kind)
	}
	if f.Applicability != diag.FixApplicabilitySafeWithHeuristics {
		t.Errorf("the last applicability should win, got %s", f.Applicability)
	}
	if !f.IsPreferred {
		t.Error("expected preferred fix")
	}
	if e := f.Edits[0]; e.NewText != "DEF" || e.OldText != "def" {
		t.Errorf("unexpected edit %+v", e)
	}
}

func TestIDIsStable(t *testing.T) {
	a := source.Span{File: 2, Start: 10, End: 14}
	b := source.Span{File: 2, Start: 10, End: 15}

	if ID(diag.KrlKeywordCase, a) == ID(diag.KrlKeywordCase, b) {
		t.Error("different spans must give different ids")
	}
	if ID(diag.KrlKeywordCase, a) == ID(diag.KrlTrailingWhitespace, a) {
		t.Error("different codes must give different ids")
	}
	if got, want := ID(diag.KrlKeywordCase, a), "KRL007@2:10-14"; got != want {
		t.Errorf("ID = %q, want %q", got, want)
	}
}

package diag

import "testing"

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:          "LEX1001",
		SynNestingTooDeep:       "SYN2020",
		KrlNameMismatch:         "KRL001",
		KrlSelfAssignment:       "KRL018",
		IOLoadFileError:         "IO4001",
		ObsDiagnosticsTruncated: "OBS6001",
	}
	for c, want := range cases {
		if got := c.ID(); got != want {
			t.Errorf("ID(%d) = %q, want %q", c, got, want)
		}
	}
	if !KrlGotoUsage.IsRule() || SynUnexpectedToken.IsRule() {
		t.Error("IsRule misclassifies codes")
	}
	if !IOLoadFileError.IsToolFailure() {
		t.Error("IO codes are tool failures")
	}
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"error": SevError, "WARN": SevWarning, " info ": SevInfo} {
		got, err := ParseSeverity(in)
		if err != nil || got != want {
			t.Errorf("ParseSeverity(%q) = %v,%v", in, got, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("expected error for unknown severity")
	}
}

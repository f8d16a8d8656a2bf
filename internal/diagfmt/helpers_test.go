package diagfmt

import (
	"testing"

	"krllint/internal/diag"
	"krllint/internal/fix"
	"krllint/internal/source"
)

const sample = "DEF main()\n  GOTO nowhere\n  x = 1   \nEND\n"

// sampleDiags builds two findings on sample: an undefined label with a note
// and trailing whitespace with a fix.
func sampleDiags(t *testing.T) (*source.FileSet, []diag.Diagnostic) {
	t.Helper()
	fs := source.NewFileSetWithBase("/work")
	id := fs.AddVirtual("/work/src/main.src", []byte(sample))

	label := source.Span{File: id, Start: 18, End: 25}
	header := source.Span{File: id, Start: 0, End: 10}
	blank := source.Span{File: id, Start: 33, End: 36}

	diags := []diag.Diagnostic{
		{
			Severity: diag.SevError,
			Code:     diag.KrlUndefinedLabel,
			Message:  `label "nowhere" is not defined in this routine`,
			Primary:  label,
			Notes:    []diag.Note{{Span: header, Msg: "routine starts here"}},
		},
		{
			Severity: diag.SevInfo,
			Code:     diag.KrlTrailingWhitespace,
			Message:  "trailing whitespace",
			Primary:  blank,
			Fixes:    []diag.Fix{fix.For(diag.KrlTrailingWhitespace).Delete("remove trailing whitespace", blank, "   ")},
		},
	}
	return fs, diags
}

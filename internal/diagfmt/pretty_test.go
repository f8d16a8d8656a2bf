package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"krllint/internal/diag"
	"krllint/internal/source"
)

func TestPretty(t *testing.T) {
	fs, diags := sampleDiags(t)
	var buf bytes.Buffer
	opts := PrettyOpts{Context: 1, ShowNotes: true, ShowFixes: true, ShowPreview: true}
	if err := Pretty(&buf, diags, fs, opts); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		`src/main.src:2:8: ERROR KRL005: label "nowhere" is not defined in this routine`,
		`1 | DEF main()`,
		`2 |   GOTO nowhere`,
		`  |        ^~~~~~~`,
		`3 |   x = 1   `,
		`  note: src/main.src:1:1: routine starts here`,
		`1 | DEF main()`,
		`  | ^~~~~~~~~~`,
		``,
		`src/main.src:3:8: INFO KRL008: trailing whitespace`,
		`2 |   GOTO nowhere`,
		`3 |   x = 1   `,
		`  |        ^~~`,
		`4 | END`,
		`  fix: remove trailing whitespace (always-safe)`,
		`    -   x = 1   `,
		`    +   x = 1`,
		``,
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("Pretty output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyWideRunesAndTabs(t *testing.T) {
	fs := source.NewFileSetWithBase("")
	src := "\tmsg[] = \"日本\" + x\n"
	id := fs.AddVirtual("wide.src", []byte(src))
	at := uint32(strings.Index(src, "x"))
	d := diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.KrlUnusedVariable,
		Message:  "x",
		Primary:  source.Span{File: id, Start: at, End: at + 1},
	}
	var buf bytes.Buffer
	if err := Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output %q", buf.String())
	}
	// таб сохраняется, два широких символа занимают по две колонки
	want := "  | \t" + strings.Repeat(" ", len(`msg[] = "`)+4+len(`" + `)) + "^"
	if lines[2] != want {
		t.Errorf("caret line = %q, want %q", lines[2], want)
	}
}

func TestPrettyAtEndOfFile(t *testing.T) {
	fs := source.NewFileSetWithBase("")
	id := fs.AddVirtual("eof.src", []byte("DEF main()\n"))
	d := diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SynMissingEnd,
		Message:  "DEF is not closed",
		Primary:  source.Span{File: id, Start: 11, End: 11},
	}
	var buf bytes.Buffer
	if err := Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "2 | \n  | ^\n") {
		t.Errorf("expected a caret on the empty last line, got:\n%s", buf.String())
	}
}

func TestPreviewEdit(t *testing.T) {
	fs := source.NewFileSetWithBase("")
	id := fs.AddVirtual("p.src", []byte("DEF a()\n  HALT\nEND\n"))

	before, after, ok := previewEdit(fs, diag.TextEdit{Span: source.Span{File: id, Start: 8, End: 15}})
	if !ok || len(before) != 2 || before[0] != "  HALT" || len(after) != 1 || after[0] != "END" {
		t.Errorf("line delete: %q -> %q (%v)", before, after, ok)
	}
	if _, _, ok := previewEdit(fs, diag.TextEdit{Span: source.Span{File: id, Start: 4, End: 99}}); ok {
		t.Error("edit past the end of file must not preview")
	}
}

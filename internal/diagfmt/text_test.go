package diagfmt

import (
	"bytes"
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	fs, diags := sampleDiags(t)
	var buf bytes.Buffer
	if err := Text(&buf, diags, fs, TextOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "src/main.src:2:8: error KRL005 label \"nowhere\" is not defined in this routine\n" +
		"src/main.src:3:8: info KRL008 trailing whitespace\n"
	if got := buf.String(); got != want {
		t.Errorf("Text output:\n%s\nwant:\n%s", got, want)
	}
}

func TestTextPathModes(t *testing.T) {
	fs, diags := sampleDiags(t)
	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeRelative, "src/main.src:2:8:"},
		{PathModeAbsolute, "/work/src/main.src:2:8:"},
		{PathModeBasename, "main.src:2:8:"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Text(&buf, diags[:1], fs, TextOpts{PathMode: tt.mode}); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(buf.String(), tt.want) {
			t.Errorf("mode %d: got %q, want prefix %q", tt.mode, buf.String(), tt.want)
		}
	}
}

func TestColorizedHasEscapes(t *testing.T) {
	fs, diags := sampleDiags(t)
	var plain, colored bytes.Buffer
	if err := Write(&plain, FormatText, diags, fs, Options{}); err != nil {
		t.Fatal(err)
	}
	if err := Write(&colored, FormatColorized, diags, fs, Options{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("text output contains escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colorized output has no escapes: %q", colored.String())
	}
	// без escape-последовательностей вывод совпадает
	stripped := stripANSI(colored.String())
	if stripped != plain.String() {
		t.Errorf("colorized differs from text after stripping:\n%s\nvs\n%s", stripped, plain.String())
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func TestParseFormat(t *testing.T) {
	for _, name := range Formats() {
		f, err := ParseFormat(strings.ToUpper(name))
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", name, err)
		}
		if f.String() != name {
			t.Errorf("round trip of %q gave %q", name, f)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

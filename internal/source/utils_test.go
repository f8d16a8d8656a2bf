package source

import (
	"path/filepath"
	"testing"
)

func TestRelativePath(t *testing.T) {
	base := t.TempDir()
	inside := filepath.Join(base, "R1", "Program", "main.src")
	rel, err := RelativePath(inside, base)
	if err != nil {
		t.Fatal(err)
	}
	if rel != "R1/Program/main.src" {
		t.Errorf("inside base: got %q", rel)
	}

	outside := filepath.Join(filepath.Dir(base), "other.src")
	got, err := RelativePath(outside, base)
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(filepath.FromSlash(got)) {
		t.Errorf("outside base should stay absolute, got %q", got)
	}
}

func TestNormalizeCRLF(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\rc\r\n"))
	if !changed || string(out) != "a\nb\rc\n" {
		t.Errorf("got %q, %v", out, changed)
	}
	if _, changed := normalizeCRLF([]byte("plain\n")); changed {
		t.Error("unexpected change")
	}
}

func TestStem(t *testing.T) {
	if Stem("/x/Pick_Part.SRC") != "Pick_Part" {
		t.Errorf("Stem = %q", Stem("/x/Pick_Part.SRC"))
	}
}

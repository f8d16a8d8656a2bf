package lexer

import (
	"testing"

	"krllint/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.src", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))

	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Peek(); got != want {
			t.Fatalf("Peek = %q, want %q", got, want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() || cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatal("expected EOF state to be stable")
	}
}

func TestMarkResetSpan(t *testing.T) {
	cursor := NewCursor(createFile("DECL INT x"))
	m := cursor.Mark()
	for range 4 {
		cursor.Bump()
	}
	sp := cursor.SpanFrom(m)
	if sp.Start != 0 || sp.End != 4 {
		t.Fatalf("SpanFrom = %v", sp)
	}
	cursor.Reset(m)
	if cursor.Off != 0 {
		t.Fatalf("Reset left Off=%d", cursor.Off)
	}
	if !cursor.Eat('D') || cursor.Eat('D') {
		t.Fatal("Eat should consume only a matching byte")
	}
}

func TestPeekAtAndSkipToEOL(t *testing.T) {
	cursor := NewCursor(createFile("; note\nEND"))
	if cursor.PeekAt(0) != ';' || cursor.PeekAt(1) != ' ' {
		t.Fatalf("PeekAt = %q %q", cursor.PeekAt(0), cursor.PeekAt(1))
	}
	cursor.SkipToEOL()
	if cursor.Peek() != '\n' || cursor.Off != 6 {
		t.Fatalf("SkipToEOL stopped at %d (%q)", cursor.Off, cursor.Peek())
	}
	cursor.Off = cursor.Limit - 1
	if cursor.PeekAt(1) != 0 {
		t.Fatal("PeekAt must return 0 past the end")
	}
}

func TestMatchAndSkipWhile(t *testing.T) {
	cursor := NewCursor(createFile("<>12FFx"))
	if cursor.Match("<=") || !cursor.Match("<>") {
		t.Fatal("Match should consume only an exact prefix")
	}
	if n := cursor.SkipWhile(classDigit); n != 2 {
		t.Fatalf("SkipWhile(digit) = %d", n)
	}
	if n := cursor.SkipWhile(classHex); n != 2 || cursor.Peek() != 'x' {
		t.Fatalf("SkipWhile(hex) = %d, next %q", n, cursor.Peek())
	}
	if cursor.Match("xy") {
		t.Fatal("Match must not read past the end")
	}
}

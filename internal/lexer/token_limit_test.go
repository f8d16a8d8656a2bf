package lexer

import (
	"strings"
	"testing"

	"krllint/internal/diag"
	"krllint/internal/source"
	"krllint/internal/token"
)

func TestTokenTooLongIsTruncated(t *testing.T) {
	content := strings.Repeat("a", maxTokenLength+1) + "\nEND"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("long.src", []byte(content)))

	bag := diag.NewBag(4)
	lx := New(file, Options{Reporter: &diag.BagReporter{Bag: bag}})

	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %v", tok.Kind)
	}
	if len(tok.Text) != maxTokenLength || tok.Span.Len() != maxTokenLength+1 {
		t.Fatalf("text len %d, span len %d", len(tok.Text), tok.Span.Len())
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.LexTokenTooLong {
		t.Fatalf("expected LexTokenTooLong, got %v", items)
	}

	// лексер продолжает работу после ошибки
	if next := lx.Next(); next.Kind != token.Newline {
		t.Fatalf("expected newline after long token, got %v", next.Kind)
	}
	if next := lx.Next(); next.Kind != token.KwEnd {
		t.Fatalf("expected END, got %v", next.Kind)
	}
}

func TestTokenAtLimitAllowed(t *testing.T) {
	content := strings.Repeat("b", maxTokenLength)
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("limit.src", []byte(content)))

	bag := diag.NewBag(1)
	lx := New(file, Options{Reporter: &diag.BagReporter{Bag: bag}})

	tok := lx.Next()
	if tok.Kind != token.Ident {
		t.Fatalf("expected ident token, got %v", tok.Kind)
	}
	if bag.Len() != 0 {
		t.Fatalf("did not expect diagnostics, got %v", bag.Items())
	}
}

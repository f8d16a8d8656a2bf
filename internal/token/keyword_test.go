package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"DEF":       KwDef,
		"DEFFCT":    KwDefFct,
		"ENDDAT":    KwEndDat,
		"PTP_REL":   KwPtpRel,
		"B_EXOR":    KwBExor,
		"INTERRUPT": KwInterrupt,
		"TRUE":      KwTrue,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	// свёртка регистра делается лексером, таблица хранит только верхний регистр
	notKw := []string{
		"def", "Decl",
		"INT", "REAL", "E6POS", // имена типов остаются Ident
		"$OV_PRO", "counter",
	}
	for _, s := range notKw {
		if _, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", s)
		}
	}
}

func TestKeywordSpellingRoundTrip(t *testing.T) {
	for text, k := range keywords {
		got, ok := Spelling(k)
		if !ok || got != text {
			t.Errorf("Spelling(%v) = %q,%v; want %q", k, got, ok, text)
		}
	}
	for k := keywordBeg + 1; k < keywordEnd; k++ {
		if _, ok := Spelling(k); !ok {
			t.Errorf("keyword kind %d has no spelling", k)
		}
	}
}

package fuzztests

import (
	"testing"

	"krllint/internal/diag"
	"krllint/internal/lexer"
	"krllint/internal/source"
	"krllint/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.src", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		reporter := &diag.BagReporter{Bag: bag}
		lx := lexer.New(file, lexer.Options{Reporter: reporter})

		size := uint32(len(file.Content))
		var prevEnd uint32
		// каждый токен продвигает позицию, иначе лексер зациклится
		for i := 0; ; i++ {
			tok := lx.Next()
			if tok.Span.Start < prevEnd || tok.Span.End < tok.Span.Start || tok.Span.End > size {
				t.Fatalf("token %d %v has span %d..%d after %d (size %d)", i, tok.Kind, tok.Span.Start, tok.Span.End, prevEnd, size)
			}
			prevEnd = tok.Span.End
			if tok.Kind == token.EOF {
				break
			}
			if i > len(file.Content)+1 {
				t.Fatalf("lexer produced more tokens than input bytes")
			}
		}
	})
}

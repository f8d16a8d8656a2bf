package lexer

import (
	"fmt"
	"unicode/utf8"

	"krllint/internal/diag"
	"krllint/internal/token"
)

// pairs are tried before single bytes, so "<=" never lexes as '<' '='.
var pairs = [...]struct {
	text string
	kind token.Kind
}{
	{"==", token.EqEq},
	{"<>", token.NotEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
}

var singles = [256]token.Kind{
	'=': token.Assign, '<': token.Lt, '>': token.Gt,
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash,
	':': token.Colon, ',': token.Comma, '.': token.Dot,
	'(': token.LParen, ')': token.RParen,
	'[': token.LBracket, ']': token.RBracket,
	'{': token.LBrace, '}': token.RBrace,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	kind := token.Invalid
	for _, p := range pairs {
		if lx.cursor.Match(p.text) {
			kind = p.kind
			break
		}
	}
	if kind == token.Invalid {
		if kind = singles[lx.cursor.Peek()]; kind == token.Invalid {
			return lx.unknownChar(start)
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

// unknownChar выдаёт Invalid на один символ (целую руну для не-ASCII).
func (lx *Lexer) unknownChar(start Mark) token.Token {
	lx.cursor.Reset(start)
	r, size := utf8.DecodeRune(lx.cursor.Rest())
	lx.cursor.Off += uint32(max(size, 1))
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", r))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

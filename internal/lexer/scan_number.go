package lexer

import (
	"krllint/internal/diag"
	"krllint/internal/token"
)

// Поддержка: 123, 1.5, 1., .5, 1.0E-3, 2E5.
// Неверные формы — LEX1004, токен Invalid; курсор доходит до конца "слова".
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	lx.cursor.SkipWhile(classDigit)
	if lx.cursor.Eat('.') {
		kind = token.RealLit
		lx.cursor.SkipWhile(classDigit)
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.RealLit
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if lx.cursor.SkipWhile(classDigit) == 0 {
			return lx.badNumber(start, "expected digit after exponent")
		}
	}

	// "12abc" — буквы, прилипшие к числу
	if isIdentContinueByte(lx.cursor.Peek()) {
		return lx.badNumber(start, "malformed number")
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

// scanBitLiteral: 'B0101' или 'H1F'.
func (lx *Lexer) scanBitLiteral() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\''

	var (
		kind   token.Kind
		digits byteClass
	)
	switch lx.cursor.Peek() {
	case 'B', 'b':
		kind, digits = token.BitLit, classBit
	case 'H', 'h':
		kind, digits = token.HexLit, classHex
	default:
		return lx.badBitLiteral(start, "expected 'B' or 'H' after quote")
	}
	lx.cursor.Bump()

	if lx.cursor.SkipWhile(digits) == 0 || !lx.cursor.Eat('\'') {
		return lx.badBitLiteral(start, "malformed bit literal")
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	for isIdentContinueByte(lx.cursor.Peek()) || lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// badBitLiteral съедает всё до закрывающей кавычки, но не дальше конца строки.
func (lx *Lexer) badBitLiteral(start Mark, msg string) token.Token {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' {
			break
		}
		lx.cursor.Bump()
		if b == '\'' {
			break
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

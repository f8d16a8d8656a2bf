package lexer

import (
	"krllint/internal/token"
)

// scanIdentOrKeyword сканирует [A-Za-z_$][A-Za-z0-9_$]* и проверяет через LookupKeyword.
// Ключевые слова регистронезависимые, Token.Text — ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)

	if text[0] != '$' {
		if k, ok := token.LookupKeyword(lx.upper.String(text)); ok {
			return token.Token{Kind: k, Span: sp, Text: text}
		}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanEnumLiteral: #NAME. Одиночный '#' — неизвестный символ.
func (lx *Lexer) scanEnumLiteral() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	if !isIdentStartByte(lx.cursor.Peek()) {
		return lx.unknownChar(start)
	}
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.EnumLit, Span: sp, Text: lx.text(sp)}
}

// scanFileAttr: строка заголовка "&ACCESS RVP" целиком, без перевода строки.
func (lx *Lexer) scanFileAttr() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.SkipToEOL()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.FileAttr, Span: sp, Text: lx.text(sp)}
}

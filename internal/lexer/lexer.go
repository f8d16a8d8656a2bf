package lexer

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"krllint/internal/diag"
	"krllint/internal/source"
	"krllint/internal/token"
)

type Lexer struct {
	file        *source.File
	cursor      Cursor
	opts        Options
	upper       cases.Caser    // свёртка регистра для ключевых слов; Caser не потокобезопасен, поэтому свой на каждый лексер
	look        *token.Token   // 1 элементный буфер для токена
	hold        []token.Trivia // накопленные leading trivia
	kept        []token.Token
	atLineStart bool
	done        bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:        file,
		cursor:      NewCursor(file),
		opts:        opts,
		upper:       cases.Upper(language.Und),
		atLineStart: true,
	}
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	tok := lx.scan()
	if lx.opts.KeepTokens && !lx.done {
		lx.kept = append(lx.kept, tok)
	}
	if tok.Kind == token.EOF {
		lx.done = true
	}
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Tokens returns the tokens produced so far when Options.KeepTokens is set.
func (lx *Lexer) Tokens() []token.Token {
	return lx.kept
}

// File returns the file being lexed.
func (lx *Lexer) File() *source.File {
	return lx.file
}

func (lx *Lexer) scan() token.Token {
	lx.collectLeadingTrivia()

	// Leading из hold приклеиваем и к EOF: комментарии в конце файла нужны правилам про FOLD
	if lx.cursor.EOF() {
		tok := token.Token{
			Kind:    token.EOF,
			Span:    lx.emptySpan(),
			Leading: lx.takeHold(),
		}
		return tok
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '\n':
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		tok = token.Token{Kind: token.Newline, Span: sp, Text: "\n"}

	case ch == '&' && lx.atLineStart:
		tok = lx.scanFileAttr()

	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		tok = lx.scanNumber()

	case ch == '\'':
		tok = lx.scanBitLiteral()

	case ch == '"':
		tok = lx.scanString()

	case ch == '#':
		tok = lx.scanEnumLiteral()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	if tok.Span.Len() > maxTokenLength {
		lx.errLex(diag.LexTokenTooLong, tok.Span,
			fmt.Sprintf("token is longer than %d bytes", maxTokenLength))
		tok.Kind = token.Invalid
		tok.Text = tok.Text[:maxTokenLength]
	}

	lx.atLineStart = tok.Kind == token.Newline
	tok.Leading = lx.takeHold()
	return tok
}

func (lx *Lexer) takeHold() []token.Trivia {
	if len(lx.hold) == 0 {
		return nil
	}
	out := lx.hold
	lx.hold = nil
	return out
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// Tokenize lexes the whole file. Used by the tokenize command and tests.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

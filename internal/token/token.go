package token

import (
	"krllint/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a literal.
func (t Token) IsLiteral() bool { return t.Kind.IsLiteral() }

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool { return t.Kind.IsPunctOrOp() }

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsSystemVar reports whether the token names a system variable ($OV_PRO).
func (t Token) IsSystemVar() bool {
	return t.Kind == Ident && len(t.Text) > 0 && t.Text[0] == '$'
}

// EndsStatement reports whether the token terminates a KRL line.
func (t Token) EndsStatement() bool {
	return t.Kind == Newline || t.Kind == EOF
}

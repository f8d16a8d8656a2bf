package token

import "krllint/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaComment
	// TriviaFold is a ";FOLD ..." marker opening an editor fold.
	TriviaFold
	// TriviaEndFold is a ";ENDFOLD" marker.
	TriviaEndFold
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaComment:
		return "Comment"
	case TriviaFold:
		return "Fold"
	case TriviaEndFold:
		return "EndFold"
	default:
		return "TriviaKind(?)"
	}
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

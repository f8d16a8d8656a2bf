package lexer

import (
	"strings"

	"krllint/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - ' ', '\t' и одиночный '\r' коалесцируются в один TriviaSpace
// - ;... до \n -> TriviaComment, ;FOLD / ;ENDFOLD -> TriviaFold / TriviaEndFold
// Перевод строки в KRL значим и в trivia не попадает.
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if classSpace.has(b) {
			lx.cursor.SkipWhile(classSpace)
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaSpace,
				Span: sp,
				Text: lx.text(sp),
			})
			continue
		}

		if b == ';' {
			lx.cursor.SkipToEOL()
			sp := lx.cursor.SpanFrom(start)
			text := lx.text(sp)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: commentKind(text),
				Span: sp,
				Text: text,
			})
			continue
		}

		// нет больше trivia
		break
	}
}

// commentKind распознаёт маркеры редактора KUKA: ";FOLD ..." и ";ENDFOLD".
func commentKind(text string) token.TriviaKind {
	body := strings.TrimLeft(text[1:], " \t")
	if len(body) > 16 {
		body = body[:16]
	}
	body = strings.ToUpper(body)
	switch {
	case strings.HasPrefix(body, "ENDFOLD"):
		return token.TriviaEndFold
	case strings.HasPrefix(body, "FOLD"):
		return token.TriviaFold
	default:
		return token.TriviaComment
	}
}

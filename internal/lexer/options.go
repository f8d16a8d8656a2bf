package lexer

import (
	"krllint/internal/diag"
	"krllint/internal/source"
)

// maxTokenLength ограничивает длину одного токена; длиннее — LEX1005.
const maxTokenLength = 4096

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
	// KeepTokens records every significant token so rules can inspect the stream.
	KeepTokens bool
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.New(diag.SevError, code, sp, msg))
	}
}

package parser

import (
	"fmt"
	"slices"
	"strings"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/source"
	"krllint/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.peekAt(0)
}

// peekAt смотрит на n токенов вперёд, не потребляя их.
func (p *Parser) peekAt(n int) token.Token {
	for len(p.look) <= n {
		p.look = append(p.look, p.lx.Next())
	}
	return p.look[n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) atEOL() bool {
	return p.peek().EndsStatement()
}

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind == token.EOF {
		return tok
	}
	p.look = p.look[1:]
	p.lineStart = tok.Kind == token.Newline
	if tok.Kind != token.Newline {
		p.lastSpan = tok.Span
		p.sawContent = true
	}
	return tok
}

func (p *Parser) skipNewlines() {
	for p.at(token.Newline) {
		p.advance()
	}
}

// diagSpan — лучший span для диагностики: на EOF и переводе строки
// указываем на конец последнего съеденного токена.
func (p *Parser) diagSpan() source.Span {
	tok := p.peek()
	if tok.EndsStatement() && p.sawContent {
		return p.lastSpan.ZeroideToEnd()
	}
	return tok.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим, входим в восстановление и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagSpan()
	p.fail(code, sp, fmt.Sprintf("%s, got %s", msg, describe(p.peek())))
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// expectEOL requires the statement to end here. On garbage the rest of the line is skipped.
// A construct that already consumed its trailing newline (an unclosed block) passes.
func (p *Parser) expectEOL(what string) bool {
	if p.lineStart {
		return true
	}
	switch p.peek().Kind {
	case token.Newline:
		p.advance()
		return true
	case token.EOF:
		return true
	}
	p.fail(diag.SynExpectNewline, p.peek().Span,
		fmt.Sprintf("expected end of line after %s, got %s", what, describe(p.peek())))
	p.resyncStmt()
	return false
}

// finishHeader closes a block header line: on success the line must end,
// on failure the rest of it is skipped so the body can still be parsed.
func (p *Parser) finishHeader(ok bool, what string) {
	if ok {
		p.expectEOL(what)
		return
	}
	p.resyncStmt()
}

// resyncStmt skips to the end of the current line and leaves the recovering state.
func (p *Parser) resyncStmt() {
	for !p.atEOL() {
		p.advance()
	}
	if p.at(token.Newline) {
		p.advance()
	}
	p.recovering = false
}

// fail reports a syntax error and enters the recovering state.
func (p *Parser) fail(code diag.Code, sp source.Span, msg string) {
	p.report(code, diag.SevError, sp, msg)
	p.recovering = true
}

// errAt reports a syntax error without entering recovery.
func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) bool {
	return p.report(code, diag.SevError, sp, msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	return p.reportWith(code, sev, sp, msg, nil, nil)
}

func (p *Parser) reportWith(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note, fixes []diag.Fix) bool {
	if p.recovering && sev == diag.SevError {
		return false
	}
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		if p.opts.Enough() {
			return false // достигли максимального количества ошибок
		}
		p.opts.CurrentErrors++
	}
	d := diag.New(sev, code, sp, msg)
	d.Notes, d.Fixes = notes, fixes
	p.opts.Reporter.Report(d)
	return true
}

// enter guards the nesting of block statements, enterExpr that of expressions.
// When they return false the caller must skip the construct instead of descending into it.
func (p *Parser) enter(sp source.Span) bool {
	return p.descend(&p.depth, sp)
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) enterExpr(sp source.Span) bool {
	return p.descend(&p.exprDepth, sp)
}

func (p *Parser) leaveExpr() {
	p.exprDepth--
}

func (p *Parser) descend(level *int, sp source.Span) bool {
	*level++
	if *level > p.opts.MaxDepth {
		p.fail(diag.SynNestingTooDeep, sp,
			fmt.Sprintf("nesting deeper than %d levels", p.opts.MaxDepth))
		return false
	}
	return true
}

// parseIdent ожидает Ident. На ошибке — репорт SynExpectIdentifier.
func (p *Parser) parseIdent(what string) (ast.Ident, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return ast.Ident{Name: tok.Text, Span: tok.Span}, true
	}
	p.fail(diag.SynExpectIdentifier, p.diagSpan(),
		fmt.Sprintf("expected %s, got %s", what, describe(p.peek())))
	return ast.Ident{Span: p.diagSpan()}, false
}

func (p *Parser) parseTypeRef() (ast.TypeRef, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return ast.TypeRef{Name: tok.Text, Span: tok.Span}, true
	}
	p.fail(diag.SynExpectType, p.diagSpan(),
		fmt.Sprintf("expected type name, got %s", describe(p.peek())))
	return ast.TypeRef{}, false
}

// describe renders a token for messages: keywords and operators by spelling.
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Newline:
		return "end of line"
	case token.Invalid:
		return "invalid token"
	}
	if tok.Kind.IsKeyword() {
		return strings.ToUpper(tok.Text)
	}
	return fmt.Sprintf("%q", tok.Text)
}

func (p *Parser) coverFrom(start source.Span) source.Span {
	if p.lastSpan.End < start.Start {
		return start
	}
	return start.Cover(p.lastSpan)
}

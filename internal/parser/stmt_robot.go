package parser

import (
	"fmt"
	"strings"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/source"
	"krllint/internal/token"
)

// parseWaitStmt parses WAIT SEC expr and WAIT FOR expr.
func (p *Parser) parseWaitStmt() (ast.StmtID, bool) {
	waitTok := p.advance()
	var d ast.WaitStmt
	switch p.peek().Kind {
	case token.KwSec:
		d.Sec = true
	case token.KwFor:
	default:
		p.fail(diag.SynBadWait, p.diagSpan(),
			fmt.Sprintf("expected SEC or FOR after WAIT, got %s", describe(p.peek())))
		return ast.NoStmtID, false
	}
	p.advance()
	value, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	d.Value = value
	return p.arenas.Stmts.NewWait(p.coverFrom(waitTok.Span), d), true
}

// parseMotionStmt parses PTP/LIN/CIRC/... target {, arg} [approximation].
func (p *Parser) parseMotionStmt() (ast.StmtID, bool) {
	instrTok := p.advance()
	d := ast.MotionStmt{Instr: ast.Ident{Name: instrTok.Text, Span: instrTok.Span}}

	for {
		arg, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		d.Args = append(d.Args, arg)

		// CIRC aux, target, CA 90.0
		if id, isIdent := p.arenas.Exprs.Ident(arg); isIdent && strings.EqualFold(id.Name, "CA") && !p.atEOL() && !p.at(token.Comma) && !p.at(token.Ident) {
			angle, ok := p.parseExpr()
			if !ok {
				return ast.NoStmtID, false
			}
			d.Args = append(d.Args, angle)
		}

		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}

	if p.at(token.Ident) {
		tok := p.advance()
		d.Approx = ast.Ident{Name: tok.Text, Span: tok.Span}
	}
	return p.arenas.Stmts.NewMotion(p.coverFrom(instrTok.Span), d), true
}

var interruptModes = map[token.Kind]ast.InterruptMode{
	token.KwOn:      ast.InterruptOn,
	token.KwOff:     ast.InterruptOff,
	token.KwEnable:  ast.InterruptEnable,
	token.KwDisable: ast.InterruptDisable,
}

// parseInterruptStmt parses
//
//	[GLOBAL] INTERRUPT DECL prio WHEN cond DO call
//	INTERRUPT ON|OFF|ENABLE|DISABLE [number]
func (p *Parser) parseInterruptStmt() (ast.StmtID, bool) {
	start := p.peek().Span
	global := false
	if p.at(token.KwGlobal) {
		p.advance()
		global = true
	}
	if _, ok := p.expect(token.KwInterrupt, diag.SynBadInterrupt, "expected INTERRUPT"); !ok {
		return ast.NoStmtID, false
	}
	return p.parseInterruptBody(start, global)
}

func (p *Parser) parseInterruptBody(start source.Span, global bool) (ast.StmtID, bool) {
	d := ast.InterruptStmt{Global: global}

	switch p.peek().Kind {
	case token.KwDecl:
		p.advance()
		d.Mode = ast.InterruptDecl
		prio, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		d.Priority = prio
		if _, ok := p.expect(token.KwWhen, diag.SynBadInterrupt, "expected WHEN in INTERRUPT DECL"); !ok {
			return ast.NoStmtID, false
		}
		when, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		d.When = when
		if _, ok := p.expect(token.KwDo, diag.SynBadInterrupt, "expected DO in INTERRUPT DECL"); !ok {
			return ast.NoStmtID, false
		}
		handler, ok := p.parsePostfixExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		if p.arenas.Exprs.Get(handler).Kind != ast.ExprCall {
			p.fail(diag.SynBadInterrupt, p.exprSpan(handler), "interrupt handler must be a routine call")
			return ast.NoStmtID, false
		}
		d.Do = handler
		return p.arenas.Stmts.NewInterrupt(p.coverFrom(start), d), true

	case token.KwOn, token.KwOff, token.KwEnable, token.KwDisable:
		d.Mode = interruptModes[p.advance().Kind]
		if global {
			p.errAt(diag.SynBadInterrupt, start, "GLOBAL is only allowed with INTERRUPT DECL")
		}
		if !p.atEOL() {
			target, ok := p.parseExpr()
			if !ok {
				return ast.NoStmtID, false
			}
			d.Target = target
		}
		return p.arenas.Stmts.NewInterrupt(p.coverFrom(start), d), true
	}

	p.fail(diag.SynBadInterrupt, p.diagSpan(),
		fmt.Sprintf("expected DECL, ON, OFF, ENABLE or DISABLE after INTERRUPT, got %s", describe(p.peek())))
	return ast.NoStmtID, false
}

// parseTriggerStmt parses TRIGGER WHEN DISTANCE|PATH = expr DELAY = expr DO stmt [PRIO = expr].
func (p *Parser) parseTriggerStmt() (ast.StmtID, bool) {
	trigTok := p.advance()
	var d ast.TriggerStmt

	if _, ok := p.expect(token.KwWhen, diag.SynUnexpectedToken, "expected WHEN after TRIGGER"); !ok {
		return ast.NoStmtID, false
	}
	switch tok := p.peek(); {
	case tok.Kind == token.KwDistance, tok.Kind == token.Ident && strings.EqualFold(tok.Text, "PATH"):
		p.advance()
		d.When = ast.Ident{Name: tok.Text, Span: tok.Span}
	default:
		p.fail(diag.SynUnexpectedToken, p.diagSpan(),
			fmt.Sprintf("expected DISTANCE or PATH after TRIGGER WHEN, got %s", describe(tok)))
		return ast.NoStmtID, false
	}

	at, ok := p.parseAssignedValue("trigger position")
	if !ok {
		return ast.NoStmtID, false
	}
	d.At = at

	if _, ok := p.expect(token.KwDelay, diag.SynUnexpectedToken, "expected DELAY in TRIGGER"); !ok {
		return ast.NoStmtID, false
	}
	delay, ok := p.parseAssignedValue("DELAY")
	if !ok {
		return ast.NoStmtID, false
	}
	d.Delay = delay

	if _, ok := p.expect(token.KwDo, diag.SynUnexpectedToken, "expected DO in TRIGGER"); !ok {
		return ast.NoStmtID, false
	}
	action, ok := p.parseSimpleStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	d.Action = action

	if tok := p.peek(); tok.Kind == token.Ident && strings.EqualFold(tok.Text, "PRIO") {
		p.advance()
		prio, ok := p.parseAssignedValue("PRIO")
		if !ok {
			return ast.NoStmtID, false
		}
		d.Prio = prio
	}
	return p.arenas.Stmts.NewTrigger(p.coverFrom(trigTok.Span), d), true
}

// parseAssignedValue parses "= expr" in TRIGGER options.
func (p *Parser) parseAssignedValue(what string) (ast.ExprID, bool) {
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' after "+what); !ok {
		return ast.NoExprID, false
	}
	return p.parseExpr()
}

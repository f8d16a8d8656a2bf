package parser

import (
	"fmt"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/token"
)

// blockOpeners start statements that own a body closed by a keyword.
var blockOpeners = map[token.Kind]token.Kind{
	token.KwIf:     token.KwEndIf,
	token.KwWhile:  token.KwEndWhile,
	token.KwFor:    token.KwEndFor,
	token.KwLoop:   token.KwEndLoop,
	token.KwRepeat: token.KwUntil,
	token.KwSwitch: token.KwEndSwitch,
}

// nested runs parse for a block statement under the depth guard.
// Past the limit the whole construct, up to its matching end keyword, is skipped.
func (p *Parser) nested(parse func(open token.Token) (ast.StmtID, bool)) (ast.StmtID, bool) {
	open := p.peek()
	defer p.leave()
	if !p.enter(open.Span) {
		p.skipConstruct()
		return p.arenas.Stmts.NewSimple(ast.StmtBad, p.coverFrom(open.Span)), true
	}
	return parse(p.advance())
}

// skipConstruct consumes a block statement and everything nested in it
// without building nodes. Only keywords at line start count.
func (p *Parser) skipConstruct() {
	level := 0
	lineStart := true
	for !p.at(token.EOF) && !(lineStart && p.atItemStart()) {
		tok := p.advance()
		if lineStart {
			if _, ok := blockOpeners[tok.Kind]; ok {
				level++
			}
			switch tok.Kind {
			case token.KwEndIf, token.KwEndWhile, token.KwEndFor, token.KwEndLoop, token.KwUntil, token.KwEndSwitch:
				level--
			}
		}
		lineStart = tok.Kind == token.Newline
		if level <= 0 && !lineStart {
			break
		}
	}
	p.resyncStmt()
}

func (p *Parser) parseIfStmt() (ast.StmtID, bool) {
	return p.nested(func(ifTok token.Token) (ast.StmtID, bool) {
		var d ast.IfStmt
		cond, ok := p.parseExpr()
		d.Cond = cond
		if ok {
			_, ok = p.expect(token.KwThen, diag.SynUnexpectedToken, "expected THEN after IF condition")
		}
		p.finishHeader(ok, "THEN")

		d.Then = p.parseBlock(token.KwElse, token.KwEndIf)
		if p.at(token.KwElse) {
			d.HasElse = true
			d.ElseSpan = p.advance().Span
			p.expectEOL("ELSE")
			d.Else = p.parseBlock(token.KwEndIf)
		}
		d.EndSpan, _ = p.closeBlock(token.KwEndIf, ifTok)
		return p.arenas.Stmts.NewIf(p.coverFrom(ifTok.Span), d), true
	})
}

func (p *Parser) parseWhileStmt() (ast.StmtID, bool) {
	return p.nested(func(whileTok token.Token) (ast.StmtID, bool) {
		var d ast.CondLoopStmt
		cond, ok := p.parseExpr()
		d.Cond = cond
		p.finishHeader(ok, "WHILE condition")

		d.Body = p.parseBlock(token.KwEndWhile)
		d.EndSpan, _ = p.closeBlock(token.KwEndWhile, whileTok)
		return p.arenas.Stmts.NewCondLoop(ast.StmtWhile, p.coverFrom(whileTok.Span), d), true
	})
}

func (p *Parser) parseRepeatStmt() (ast.StmtID, bool) {
	return p.nested(func(repeatTok token.Token) (ast.StmtID, bool) {
		var d ast.CondLoopStmt
		p.expectEOL("REPEAT")

		d.Body = p.parseBlock(token.KwUntil)
		if !p.at(token.KwUntil) {
			p.closeBlock(token.KwUntil, repeatTok)
			return p.arenas.Stmts.NewCondLoop(ast.StmtRepeat, p.coverFrom(repeatTok.Span), d), true
		}
		untilTok := p.advance()
		d.EndSpan = untilTok.Span
		cond, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		d.Cond = cond
		return p.arenas.Stmts.NewCondLoop(ast.StmtRepeat, p.coverFrom(repeatTok.Span), d), true
	})
}

func (p *Parser) parseLoopStmt() (ast.StmtID, bool) {
	return p.nested(func(loopTok token.Token) (ast.StmtID, bool) {
		p.expectEOL("LOOP")
		body := p.parseBlock(token.KwEndLoop)
		p.closeBlock(token.KwEndLoop, loopTok)
		return p.arenas.Stmts.NewLoop(p.coverFrom(loopTok.Span), body), true
	})
}

// parseForStmt parses FOR i = from TO to [STEP step] ... ENDFOR.
func (p *Parser) parseForStmt() (ast.StmtID, bool) {
	return p.nested(func(forTok token.Token) (ast.StmtID, bool) {
		d, ok := p.parseForHeader()
		p.finishHeader(ok, "FOR header")

		d.Body = p.parseBlock(token.KwEndFor)
		p.closeBlock(token.KwEndFor, forTok)
		return p.arenas.Stmts.NewFor(p.coverFrom(forTok.Span), d), true
	})
}

func (p *Parser) parseForHeader() (ast.ForStmt, bool) {
	var d ast.ForStmt
	if !p.at(token.Ident) {
		p.fail(diag.SynForBadHeader, p.diagSpan(),
			fmt.Sprintf("expected loop counter after FOR, got %s", describe(p.peek())))
		return d, false
	}
	tok := p.advance()
	d.Var = ast.Ident{Name: tok.Text, Span: tok.Span}

	if _, ok := p.expect(token.Assign, diag.SynForBadHeader, "expected '=' after FOR counter"); !ok {
		return d, false
	}
	from, ok := p.parseExpr()
	if !ok {
		return d, false
	}
	d.From = from
	if _, ok := p.expect(token.KwTo, diag.SynForBadHeader, "expected TO in FOR header"); !ok {
		return d, false
	}
	to, ok := p.parseExpr()
	if !ok {
		return d, false
	}
	d.To = to
	if p.at(token.KwStep) {
		p.advance()
		step, ok := p.parseExpr()
		if !ok {
			return d, false
		}
		d.Step = step
	}
	return d, true
}

// parseSwitchStmt parses SWITCH expr {CASE v{,v} body} [DEFAULT body] ENDSWITCH.
func (p *Parser) parseSwitchStmt() (ast.StmtID, bool) {
	return p.nested(func(switchTok token.Token) (ast.StmtID, bool) {
		var d ast.SwitchStmt
		subject, ok := p.parseExpr()
		d.Subject = subject
		p.finishHeader(ok, "SWITCH expression")

		p.pushFrame(token.KwEndSwitch)
		defer p.popFrame()
		for {
			p.skipNewlines()
			tok := p.peek()
			switch {
			case tok.Kind == token.KwCase:
				p.advance()
				c := ast.SwitchCase{Span: tok.Span}
				values, ok := p.parseExprList(token.Newline)
				if ok && len(values) == 0 {
					p.fail(diag.SynBadSwitch, p.diagSpan(), "expected at least one value after CASE")
					ok = false
				}
				c.Values = values
				if d.HasDefault {
					p.errAt(diag.SynBadSwitch, tok.Span, "CASE after DEFAULT")
				}
				p.finishHeader(ok, "CASE values")
				c.Body = p.parseBlock(token.KwCase, token.KwDefault, token.KwEndSwitch)
				d.Cases = append(d.Cases, c)
			case tok.Kind == token.KwDefault:
				p.advance()
				if d.HasDefault {
					p.errAt(diag.SynBadSwitch, tok.Span, "more than one DEFAULT in SWITCH")
				}
				d.HasDefault = true
				d.DefaultSpan = tok.Span
				p.expectEOL("DEFAULT")
				d.Default = append(d.Default, p.parseBlock(token.KwCase, token.KwDefault, token.KwEndSwitch)...)
			case tok.Kind == token.KwEndSwitch, tok.Kind == token.EOF, p.closesOpen(tok.Kind), p.atItemStart():
				if len(d.Cases) == 0 && !d.HasDefault {
					p.errAt(diag.SynBadSwitch, switchTok.Span, "SWITCH without CASE")
				}
				p.closeBlock(token.KwEndSwitch, switchTok)
				return p.arenas.Stmts.NewSwitch(p.coverFrom(switchTok.Span), d), true
			default:
				p.fail(diag.SynBadSwitch, tok.Span,
					fmt.Sprintf("expected CASE, DEFAULT or ENDSWITCH, got %s", describe(tok)))
				p.resyncStmt()
			}
		}
	})
}

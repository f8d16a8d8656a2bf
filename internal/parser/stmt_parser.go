package parser

import (
	"fmt"
	"slices"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/source"
	"krllint/internal/token"
)

// frame is an open block and the keywords that may close it.
type frame struct {
	ends []token.Kind
}

// blockEnds are keywords that never start a statement; they close some block.
var blockEnds = []token.Kind{
	token.KwEnd, token.KwEndFct, token.KwEndDat,
	token.KwElse, token.KwEndIf,
	token.KwEndWhile, token.KwEndFor, token.KwEndLoop, token.KwUntil,
	token.KwCase, token.KwDefault, token.KwEndSwitch,
}

func (p *Parser) pushFrame(ends ...token.Kind) {
	p.blocks = append(p.blocks, frame{ends: ends})
}

func (p *Parser) popFrame() {
	p.blocks = p.blocks[:len(p.blocks)-1]
}

// closesOpen reports whether k terminates any open block.
func (p *Parser) closesOpen(k token.Kind) bool {
	for i := len(p.blocks) - 1; i >= 0; i-- {
		if slices.Contains(p.blocks[i].ends, k) {
			return true
		}
	}
	return false
}

// parseBody reads statements until a keyword closing an open block, the
// start of the next item or EOF. The caller must have pushed its frame.
// With allowDecls the leading declaration section is returned separately.
func (p *Parser) parseBody(allowDecls bool) (decls, stmts []ast.StmtID) {
	for {
		p.skipNewlines()
		tok := p.peek()
		if tok.Kind == token.EOF || p.closesOpen(tok.Kind) || p.atItemStart() {
			return decls, stmts
		}
		if slices.Contains(blockEnds, tok.Kind) {
			p.fail(diag.SynUnexpectedToken, tok.Span,
				fmt.Sprintf("%s without matching opening statement", describe(tok)))
			p.resyncStmt()
			continue
		}

		start := tok.Span
		isDecl := p.atDeclStart()
		id, ok := p.parseStmt()
		if !ok {
			p.resyncStmt()
			stmts = append(stmts, p.arenas.Stmts.NewSimple(ast.StmtBad, p.coverFrom(start)))
			continue
		}
		p.expectEOL("statement")

		switch {
		case isDecl && allowDecls && len(stmts) == 0:
			decls = append(decls, id)
		case isDecl && allowDecls:
			p.errAt(diag.SynDeclAfterStatement, start, "declaration after the first statement of the routine")
			decls = append(decls, id)
		case isDecl:
			p.errAt(diag.SynDeclAfterStatement, start, "declarations are only allowed at the top of a routine")
			stmts = append(stmts, id)
		default:
			stmts = append(stmts, id)
		}
	}
}

// parseBlock parses a nested statement list closed by one of ends.
func (p *Parser) parseBlock(ends ...token.Kind) []ast.StmtID {
	p.pushFrame(ends...)
	_, stmts := p.parseBody(false)
	p.popFrame()
	return stmts
}

// closeBlock consumes the closing keyword of a construct opened at open.
func (p *Parser) closeBlock(end token.Kind, open token.Token) (source.Span, bool) {
	if p.at(end) {
		return p.advance().Span, true
	}
	p.errAt(diag.SynMissingEnd, open.Span,
		fmt.Sprintf("%s is not closed: expected %s before %s", describe(open), keywordText(end), describe(p.peek())))
	return source.Span{}, false
}

// atDeclStart reports whether the line starts a declaration.
func (p *Parser) atDeclStart() bool {
	switch p.peek().Kind {
	case token.KwDecl, token.KwConst, token.KwEnum, token.KwStruc, token.KwSignal:
		return true
	case token.KwGlobal:
		return p.peekAt(1).Kind != token.KwInterrupt
	case token.Ident:
		// "INT i", "E6POS p", "EXT foo()"
		return p.peekAt(1).Kind == token.Ident
	default:
		return false
	}
}

func (p *Parser) parseStmt() (ast.StmtID, bool) {
	if p.atDeclStart() {
		return p.parseDecl()
	}

	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		if p.peekAt(1).Kind == token.Colon {
			return p.parseLabel()
		}
		return p.parseSimpleStmt()
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.KwLoop:
		return p.parseLoopStmt()
	case token.KwRepeat:
		return p.parseRepeatStmt()
	case token.KwSwitch:
		return p.parseSwitchStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwExit:
		return p.arenas.Stmts.NewSimple(ast.StmtExit, p.advance().Span), true
	case token.KwHalt:
		return p.arenas.Stmts.NewSimple(ast.StmtHalt, p.advance().Span), true
	case token.KwContinue:
		return p.arenas.Stmts.NewSimple(ast.StmtContinue, p.advance().Span), true
	case token.KwWait:
		return p.parseWaitStmt()
	case token.KwGoto:
		return p.parseGotoStmt()
	case token.KwInterrupt, token.KwGlobal:
		return p.parseInterruptStmt()
	case token.KwTrigger:
		return p.parseTriggerStmt()
	}
	if tok.Kind.IsMotion() {
		return p.parseMotionStmt()
	}

	p.fail(diag.SynUnexpectedToken, tok.Span,
		fmt.Sprintf("expected statement, got %s", describe(tok)))
	return ast.NoStmtID, false
}

// parseSimpleStmt parses an assignment "target = value" or a call "name(args)".
func (p *Parser) parseSimpleStmt() (ast.StmtID, bool) {
	start := p.peek().Span
	target, ok := p.parsePostfixExpr()
	if !ok {
		return ast.NoStmtID, false
	}

	if p.at(token.Assign) {
		p.advance()
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewAssign(p.coverFrom(start), target, value), true
	}

	if p.arenas.Exprs.Get(target).Kind == ast.ExprCall {
		return p.arenas.Stmts.NewCall(p.coverFrom(start), target), true
	}

	p.fail(diag.SynUnexpectedToken, p.diagSpan(),
		fmt.Sprintf("expected '=' or a call, got %s", describe(p.peek())))
	return ast.NoStmtID, false
}

func (p *Parser) parseLabel() (ast.StmtID, bool) {
	name := p.advance()
	colon := p.advance()
	label := ast.Ident{Name: name.Text, Span: name.Span}
	return p.arenas.Stmts.NewJump(ast.StmtLabel, name.Span.Cover(colon.Span), label), true
}

func (p *Parser) parseGotoStmt() (ast.StmtID, bool) {
	gotoTok := p.advance()
	label, ok := p.parseIdent("label name after GOTO")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewJump(ast.StmtGoto, gotoTok.Span.Cover(label.Span), label), true
}

func (p *Parser) parseReturnStmt() (ast.StmtID, bool) {
	retTok := p.advance()

	value := ast.NoExprID
	if !p.atEOL() {
		var ok bool
		value, ok = p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewReturn(p.coverFrom(retTok.Span), value), true
}

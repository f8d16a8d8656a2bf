package parser

import (
	"fmt"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/fix"
	"krllint/internal/source"
	"krllint/internal/token"
)

// parseRoutine parses [GLOBAL] DEF name(params) ... END
// and [GLOBAL] DEFFCT type name(params) ... ENDFCT.
func (p *Parser) parseRoutine() (ast.ItemID, bool) {
	var data ast.RoutineItem
	start := p.peek().Span
	if p.at(token.KwGlobal) {
		data.Global = true
		data.GlobalSpan = p.advance().Span
	}

	defTok := p.advance()
	isFunction := defTok.Kind == token.KwDefFct
	endKind := token.KwEnd
	if isFunction {
		endKind = token.KwEndFct
	}

	ok := p.parseRoutineHeader(&data, isFunction)
	data.HeaderSpan = p.coverFrom(start)
	p.finishHeader(ok, "routine header")

	p.pushFrame(endKind)
	data.Decls, data.Body = p.parseBody(true)
	p.popFrame()

	if endSpan, closed := p.closeRoutine(endKind, defTok); closed {
		data.EndSpan = endSpan
		data.Closed = true
		p.expectEOL(keywordText(endKind))
	}

	span := p.coverFrom(start)
	return p.arenas.Items.NewRoutine(span, isFunction, data), true
}

func (p *Parser) parseRoutineHeader(data *ast.RoutineItem, isFunction bool) bool {
	if isFunction {
		ret, ok := p.parseTypeRef()
		if !ok {
			return false
		}
		data.ReturnType = ret
	}

	name, ok := p.parseIdent("routine name")
	if !ok {
		return false
	}
	data.Name = name

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after routine name"); !ok {
		return false
	}
	params, ok := p.parseParams()
	if !ok {
		return false
	}
	data.Params = params
	_, ok = p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close parameter list")
	return ok
}

// parseParams parses name[] : IN, name : OUT, ... up to the closing ')'.
func (p *Parser) parseParams() ([]ast.ParamID, bool) {
	var params []ast.ParamID
	if p.at(token.RParen) {
		return params, true
	}
	for {
		param, ok := p.parseParam()
		if !ok {
			return params, false
		}
		params = append(params, p.arenas.Items.NewParam(param))
		if !p.at(token.Comma) {
			return params, true
		}
		p.advance()
	}
}

func (p *Parser) parseParam() (ast.Param, bool) {
	var param ast.Param
	name, ok := p.parseIdent("parameter name")
	if !ok {
		return param, false
	}
	param.Name = name

	if p.at(token.LBracket) {
		p.advance()
		if _, ok := p.expect(token.RBracket, diag.SynBadParam, "expected ']' after '[' in array parameter"); !ok {
			return param, false
		}
		param.IsArray = true
	}

	if p.at(token.Colon) {
		p.advance()
		switch p.peek().Kind {
		case token.KwIn:
			param.Dir = ast.ParamDirIn
		case token.KwOut:
			param.Dir = ast.ParamDirOut
		default:
			p.fail(diag.SynBadParam, p.diagSpan(),
				fmt.Sprintf("expected IN or OUT after ':', got %s", describe(p.peek())))
			return param, false
		}
		param.DirSpan = p.advance().Span
	}
	param.Span = p.coverFrom(name.Span)
	return param, true
}

// closeRoutine is closeBlock for items: at EOF a missing END gets an insertion fix.
func (p *Parser) closeRoutine(end token.Kind, open token.Token) (endSpan source.Span, closed bool) {
	if p.at(end) {
		return p.advance().Span, true
	}
	name := keywordText(end)
	msg := fmt.Sprintf("%s is not closed: expected %s before %s", describe(open), name, describe(p.peek()))

	var fixes []diag.Fix
	if p.at(token.EOF) {
		at := p.peek().Span
		text := name + "\n"
		if !p.lineStart {
			text = "\n" + text
		}
		fixes = append(fixes, fix.For(diag.SynMissingEnd).Insert("insert "+name, at, text,
			fix.Applicability(diag.FixApplicabilitySafeWithHeuristics)))
	}
	p.reportWith(diag.SynMissingEnd, diag.SevError, open.Span, msg, nil, fixes)
	return source.Span{}, false
}

func keywordText(k token.Kind) string {
	s, _ := token.Spelling(k)
	return s
}

// parseDataList parses DEFDAT name [PUBLIC] ... ENDDAT.
func (p *Parser) parseDataList() (ast.ItemID, bool) {
	var data ast.DataListItem
	defTok := p.advance()
	start := defTok.Span

	name, ok := p.parseIdent("data list name")
	data.Name = name
	if ok && p.at(token.KwPublic) {
		data.Public = true
		data.PublicSpan = p.advance().Span
	}
	data.HeaderSpan = p.coverFrom(start)
	p.finishHeader(ok, "DEFDAT header")

	p.pushFrame(token.KwEndDat)
	data.Decls = p.parseDataBody()
	p.popFrame()

	if endSpan, closed := p.closeRoutine(token.KwEndDat, defTok); closed {
		data.EndSpan = endSpan
		data.Closed = true
		p.expectEOL("ENDDAT")
	}

	return p.arenas.Items.NewDataList(p.coverFrom(start), data), true
}

// parseDataBody accepts declarations and array element initialisations
// ("nums[1]=5"), which KRL data lists use to fill arrays.
func (p *Parser) parseDataBody() []ast.StmtID {
	var decls []ast.StmtID
	for {
		p.skipNewlines()
		tok := p.peek()
		if tok.Kind == token.EOF || p.closesOpen(tok.Kind) || p.atItemStart() {
			return decls
		}

		start := tok.Span
		var (
			id ast.StmtID
			ok bool
		)
		switch {
		case p.atDeclStart():
			id, ok = p.parseDecl()
		case tok.Kind == token.Ident:
			id, ok = p.parseSimpleStmt()
		default:
			p.fail(diag.SynUnexpectedToken, tok.Span,
				fmt.Sprintf("only declarations are allowed in a data list, got %s", describe(tok)))
		}
		if !ok {
			p.resyncStmt()
			decls = append(decls, p.arenas.Stmts.NewSimple(ast.StmtBad, p.coverFrom(start)))
			continue
		}
		p.expectEOL("declaration")
		decls = append(decls, id)
	}
}

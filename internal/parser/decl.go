package parser

import (
	"fmt"
	"strings"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/source"
	"krllint/internal/token"
)

// externKinds are the forward declaration words of KRL data lists and $CONFIG.DAT.
// EXTFCT and EXTFCTP carry a return type before the name.
var externKinds = map[string]bool{
	"EXT":     false,
	"EXTP":    false,
	"EXTFCT":  true,
	"EXTFCTP": true,
}

// parseDecl parses every declaration form:
//
//	[DECL] [GLOBAL] [CONST] type name[dims] [= expr] {, name[dims] [= expr]}
//	[GLOBAL] ENUM name member {, member}
//	[GLOBAL] STRUC name type field {, field} {, type field ...}
//	[GLOBAL] SIGNAL name expr [TO expr]
//	EXT name(params) / EXTFCT type name(params)
func (p *Parser) parseDecl() (ast.StmtID, bool) {
	start := p.peek().Span
	var d ast.DeclStmt
	if p.at(token.KwDecl) {
		p.advance()
		d.HasDecl = true
	}
	if p.at(token.KwGlobal) {
		d.Global = true
		d.GlobalSpan = p.advance().Span
	}

	switch p.peek().Kind {
	case token.KwEnum:
		return p.parseEnumDecl(start, d)
	case token.KwStruc:
		return p.parseStrucDecl(start, d)
	case token.KwSignal:
		return p.parseSignalDecl(start, d)
	}

	if p.at(token.KwConst) {
		p.advance()
		d.Const = true
	}

	typ, ok := p.parseTypeRef()
	if !ok {
		return ast.NoStmtID, false
	}
	d.Type = typ

	if withType, isExtern := externKinds[strings.ToUpper(typ.Name)]; isExtern && !d.HasDecl {
		return p.parseExternDecl(start, d, withType)
	}

	for {
		v, ok := p.parseDeclVar(true)
		if !ok {
			return ast.NoStmtID, false
		}
		d.Vars = append(d.Vars, v)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return p.arenas.Stmts.NewDecl(p.coverFrom(start), d), true
}

// parseDeclVar parses name [ "[" dims "]" ] [ "=" expr ].
func (p *Parser) parseDeclVar(allowInit bool) (ast.DeclVar, bool) {
	var v ast.DeclVar
	name, ok := p.parseIdent("variable name")
	if !ok {
		return v, false
	}
	v.Name = name

	if p.at(token.LBracket) {
		open := p.advance()
		dims, ok := p.parseExprList(token.RBracket)
		if !ok {
			return v, false
		}
		v.Dims = dims
		if _, ok := p.expectClose(token.RBracket, open, diag.SynUnclosedBracket); !ok {
			return v, false
		}
	}

	if allowInit && p.at(token.Assign) {
		p.advance()
		init, ok := p.parseExpr()
		if !ok {
			return v, false
		}
		v.Init = init
	}
	return v, true
}

func (p *Parser) parseExternDecl(start source.Span, d ast.DeclStmt, withType bool) (ast.StmtID, bool) {
	d.External = true
	if withType {
		if _, ok := p.parseTypeRef(); !ok {
			return ast.NoStmtID, false
		}
	}
	name, ok := p.parseIdent("external routine name")
	if !ok {
		return ast.NoStmtID, false
	}
	d.Vars = []ast.DeclVar{{Name: name}}

	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after external routine name")
	if !ok {
		return ast.NoStmtID, false
	}
	// Параметры внешних объявлений — только типы с направлениями; не разбираем их.
	for !p.at(token.RParen) && !p.atEOL() {
		p.advance()
	}
	if _, ok := p.expectClose(token.RParen, open, diag.SynUnclosedParen); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewDecl(p.coverFrom(start), d), true
}

func (p *Parser) parseEnumDecl(start source.Span, d ast.DeclStmt) (ast.StmtID, bool) {
	p.advance()
	e := ast.EnumStmt{Global: d.Global, GlobalSpan: d.GlobalSpan}
	name, ok := p.parseIdent("enum type name")
	if !ok {
		return ast.NoStmtID, false
	}
	e.Name = name
	for {
		m, ok := p.parseIdent("enum member")
		if !ok {
			return ast.NoStmtID, false
		}
		e.Members = append(e.Members, m)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return p.arenas.Stmts.NewEnum(p.coverFrom(start), e), true
}

func (p *Parser) parseStrucDecl(start source.Span, d ast.DeclStmt) (ast.StmtID, bool) {
	p.advance()
	s := ast.StrucStmt{Global: d.Global, GlobalSpan: d.GlobalSpan}
	name, ok := p.parseIdent("struct type name")
	if !ok {
		return ast.NoStmtID, false
	}
	s.Name = name

	for {
		typ, ok := p.parseTypeRef()
		if !ok {
			return ast.NoStmtID, false
		}
		field := ast.StrucField{Type: typ}
		for {
			v, ok := p.parseDeclVar(false)
			if !ok {
				return ast.NoStmtID, false
			}
			field.Names = append(field.Names, v)
			// "REAL X, Y, INT S": после запятой два идентификатора подряд начинают новую группу
			if !p.at(token.Comma) || p.peekAt(2).Kind == token.Ident {
				break
			}
			p.advance()
		}
		s.Fields = append(s.Fields, field)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return p.arenas.Stmts.NewStruc(p.coverFrom(start), s), true
}

func (p *Parser) parseSignalDecl(start source.Span, d ast.DeclStmt) (ast.StmtID, bool) {
	p.advance()
	s := ast.SignalStmt{Global: d.Global, GlobalSpan: d.GlobalSpan}
	name, ok := p.parseIdent("signal name")
	if !ok {
		return ast.NoStmtID, false
	}
	s.Name = name

	from, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	s.From = from
	if p.at(token.KwTo) {
		p.advance()
		to, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		s.To = to
	}
	return p.arenas.Stmts.NewSignal(p.coverFrom(start), s), true
}

// expectClose consumes a closing bracket and points the error at its opener.
func (p *Parser) expectClose(k token.Kind, open token.Token, code diag.Code) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagSpan()
	notes := []diag.Note{{Span: open.Span, Msg: "opened here"}}
	p.reportWith(code, diag.SevError, sp,
		fmt.Sprintf("expected '%s' to close '%s', got %s", k, open.Text, describe(p.peek())), notes, nil)
	p.recovering = true
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

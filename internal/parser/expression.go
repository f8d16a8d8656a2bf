package parser

import (
	"fmt"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/source"
	"krllint/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений
// Возвращает ExprID и флаг успеха
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	start := p.peek().Span
	defer p.leaveExpr()
	if !p.enterExpr(start) {
		p.skipExpr()
		return p.arenas.Exprs.NewBad(p.coverFrom(start)), false
	}
	return p.parseBinaryExpr(precComparison)
}

// skipExpr drops the rest of an expression that is nested too deep.
func (p *Parser) skipExpr() {
	for !p.atEOL() {
		p.advance()
	}
}

// parseBinaryExpr — precedence climbing; minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		bin, ok := getBinaryOperator(p.peek().Kind)
		if !ok || bin.prec < minPrec {
			return left, true
		}
		opTok := p.advance()

		right, ok := p.parseBinaryExpr(bin.prec + 1)
		if !ok {
			return ast.NoExprID, false
		}

		span := p.exprSpan(left).Cover(p.exprSpan(right))
		left = p.arenas.Exprs.NewBinary(span, bin.op, opTok.Span, left, right)
	}
}

// parseUnaryExpr обрабатывает унарные операторы (префиксы)
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	op, ok := getUnaryOperator(p.peek().Kind)
	if !ok {
		return p.parsePostfixExpr()
	}
	opTok := p.advance()

	defer p.leaveExpr()
	if !p.enterExpr(opTok.Span) {
		p.skipExpr()
		return ast.NoExprID, false
	}
	operand, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	span := opTok.Span.Cover(p.exprSpan(operand))
	return p.arenas.Exprs.NewUnary(span, op, operand), true
}

// parsePostfixExpr parses a primary followed by calls, indexing and member access.
func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		switch p.peek().Kind {
		case token.LParen:
			open := p.advance()
			args, ok := p.parseExprList(token.RParen)
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expectClose(token.RParen, open, diag.SynUnclosedParen); !ok {
				return ast.NoExprID, false
			}
			span := p.coverFrom(p.exprSpan(expr))
			expr = p.arenas.Exprs.NewCall(span, expr, args)

		case token.LBracket:
			// "arr[]" передаёт массив целиком
			open := p.advance()
			indices, ok := p.parseExprList(token.RBracket)
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expectClose(token.RBracket, open, diag.SynUnclosedBracket); !ok {
				return ast.NoExprID, false
			}
			span := p.coverFrom(p.exprSpan(expr))
			expr = p.arenas.Exprs.NewIndex(span, expr, indices)

		case token.Dot:
			p.advance()
			field, ok := p.parseIdent("field name after '.'")
			if !ok {
				return ast.NoExprID, false
			}
			span := p.exprSpan(expr).Cover(field.Span)
			expr = p.arenas.Exprs.NewMember(span, expr, field)

		default:
			return expr, true
		}
	}
}

func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.peek()

	if kind, ok := literalKind(tok.Kind); ok {
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, kind, tok.Text), true
	}

	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.arenas.Exprs.NewIdent(tok.Span, tok.Text), true

	case token.LParen:
		open := p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expectClose(token.RParen, open, diag.SynUnclosedParen); !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewGroup(p.coverFrom(open.Span), inner), true

	case token.LBrace:
		return p.parseStructLiteral()
	}

	p.fail(diag.SynExpectExpression, p.diagSpan(),
		fmt.Sprintf("expected expression, got %s", describe(tok)))
	return ast.NoExprID, false
}

// parseStructLiteral parses {[TYPE:] field value {, field value}}.
func (p *Parser) parseStructLiteral() (ast.ExprID, bool) {
	open := p.advance()
	defer p.leaveExpr()
	if !p.enterExpr(open.Span) {
		p.skipExpr()
		return ast.NoExprID, false
	}

	var data ast.ExprStructData
	if p.at(token.Ident) && p.peekAt(1).Kind == token.Colon {
		tok := p.advance()
		p.advance()
		data.Type = ast.TypeRef{Name: tok.Text, Span: tok.Span}
	}

	for !p.at(token.RBrace) {
		name, ok := p.parseIdent("field name in struct literal")
		if !ok {
			return ast.NoExprID, false
		}
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		data.Fields = append(data.Fields, ast.StructFieldInit{Name: name, Value: value})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}

	if _, ok := p.expectClose(token.RBrace, open, diag.SynUnclosedBrace); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewStruct(p.coverFrom(open.Span), data), true
}

// parseExprList parses comma-separated expressions up to end, which is not consumed.
// end == token.Newline also stops at EOF.
func (p *Parser) parseExprList(end token.Kind) ([]ast.ExprID, bool) {
	var list []ast.ExprID
	if p.atListEnd(end) {
		return list, true
	}
	for {
		e, ok := p.parseExpr()
		if !ok {
			return list, false
		}
		list = append(list, e)
		if !p.at(token.Comma) {
			return list, true
		}
		p.advance()
	}
}

func (p *Parser) atListEnd(end token.Kind) bool {
	if end == token.Newline {
		return p.atEOL()
	}
	return p.at(end)
}

// exprSpan is a nil-safe span lookup.
func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

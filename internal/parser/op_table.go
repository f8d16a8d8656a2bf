package parser

import (
	"krllint/internal/ast"
	"krllint/internal/token"
)

// Таблица приоритетов KRL для бинарных операторов.
// Чем больше число, тем выше приоритет; сравнения связывают слабее всего.
const (
	precComparison     = 1 // == <> < <= > >=
	precOr             = 2 // OR B_OR
	precExor           = 3 // EXOR B_EXOR
	precAnd            = 4 // AND B_AND
	precAdditive       = 5 // + -
	precMultiplicative = 6 // * /
)

type binaryOp struct {
	prec int
	op   ast.ExprBinaryOp
}

var binaryOps = map[token.Kind]binaryOp{
	token.EqEq:    {precComparison, ast.ExprBinaryEq},
	token.NotEq:   {precComparison, ast.ExprBinaryNotEq},
	token.Lt:      {precComparison, ast.ExprBinaryLt},
	token.LtEq:    {precComparison, ast.ExprBinaryLtEq},
	token.Gt:      {precComparison, ast.ExprBinaryGt},
	token.GtEq:    {precComparison, ast.ExprBinaryGtEq},
	token.KwOr:    {precOr, ast.ExprBinaryOr},
	token.KwBOr:   {precOr, ast.ExprBinaryBOr},
	token.KwExor:  {precExor, ast.ExprBinaryExor},
	token.KwBExor: {precExor, ast.ExprBinaryBExor},
	token.KwAnd:   {precAnd, ast.ExprBinaryAnd},
	token.KwBAnd:  {precAnd, ast.ExprBinaryBAnd},
	token.Plus:    {precAdditive, ast.ExprBinaryAdd},
	token.Minus:   {precAdditive, ast.ExprBinarySub},
	token.Star:    {precMultiplicative, ast.ExprBinaryMul},
	token.Slash:   {precMultiplicative, ast.ExprBinaryDiv},
}

// getBinaryOperator возвращает приоритет и оператор; ok=false, если токен не бинарный оператор.
// Все бинарные операторы KRL левоассоциативны.
func getBinaryOperator(kind token.Kind) (binaryOp, bool) {
	op, ok := binaryOps[kind]
	return op, ok
}

func getUnaryOperator(kind token.Kind) (ast.ExprUnaryOp, bool) {
	switch kind {
	case token.KwNot:
		return ast.ExprUnaryNot, true
	case token.KwBNot:
		return ast.ExprUnaryBNot, true
	case token.Minus:
		return ast.ExprUnaryMinus, true
	case token.Plus:
		return ast.ExprUnaryPlus, true
	default:
		return 0, false
	}
}

func literalKind(kind token.Kind) (ast.ExprLitKind, bool) {
	switch kind {
	case token.IntLit:
		return ast.ExprLitInt, true
	case token.RealLit:
		return ast.ExprLitReal, true
	case token.KwTrue, token.KwFalse:
		return ast.ExprLitBool, true
	case token.StringLit:
		return ast.ExprLitString, true
	case token.EnumLit:
		return ast.ExprLitEnum, true
	case token.BitLit:
		return ast.ExprLitBit, true
	case token.HexLit:
		return ast.ExprLitHex, true
	default:
		return 0, false
	}
}

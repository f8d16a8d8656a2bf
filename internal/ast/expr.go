package ast

import (
	"krllint/internal/source"
)

type ExprKind uint8

const (
	ExprBad ExprKind = iota
	ExprIdent
	ExprLit
	ExprBinary
	ExprUnary
	ExprCall
	ExprIndex
	ExprMember
	ExprGroup
	ExprStruct
)

func (k ExprKind) String() string {
	switch k {
	case ExprBad:
		return "Bad"
	case ExprIdent:
		return "Ident"
	case ExprLit:
		return "Lit"
	case ExprBinary:
		return "Binary"
	case ExprUnary:
		return "Unary"
	case ExprCall:
		return "Call"
	case ExprIndex:
		return "Index"
	case ExprMember:
		return "Member"
	case ExprGroup:
		return "Group"
	case ExprStruct:
		return "Struct"
	default:
		return "ExprKind(?)"
	}
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitReal
	ExprLitBool
	ExprLitString
	ExprLitEnum
	ExprLitBit
	ExprLitHex
)

func (k ExprLitKind) String() string {
	switch k {
	case ExprLitInt:
		return "int"
	case ExprLitReal:
		return "real"
	case ExprLitBool:
		return "bool"
	case ExprLitString:
		return "string"
	case ExprLitEnum:
		return "enum"
	case ExprLitBit:
		return "bits"
	case ExprLitHex:
		return "hex"
	default:
		return "?"
	}
}

type ExprBinaryOp uint8

const (
	ExprBinaryEq ExprBinaryOp = iota
	ExprBinaryNotEq
	ExprBinaryLt
	ExprBinaryLtEq
	ExprBinaryGt
	ExprBinaryGtEq
	ExprBinaryOr
	ExprBinaryBOr
	ExprBinaryExor
	ExprBinaryBExor
	ExprBinaryAnd
	ExprBinaryBAnd
	ExprBinaryAdd
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
)

var binaryOpText = [...]string{
	ExprBinaryEq:    "==",
	ExprBinaryNotEq: "<>",
	ExprBinaryLt:    "<",
	ExprBinaryLtEq:  "<=",
	ExprBinaryGt:    ">",
	ExprBinaryGtEq:  ">=",
	ExprBinaryOr:    "OR",
	ExprBinaryBOr:   "B_OR",
	ExprBinaryExor:  "EXOR",
	ExprBinaryBExor: "B_EXOR",
	ExprBinaryAnd:   "AND",
	ExprBinaryBAnd:  "B_AND",
	ExprBinaryAdd:   "+",
	ExprBinarySub:   "-",
	ExprBinaryMul:   "*",
	ExprBinaryDiv:   "/",
}

func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

type ExprUnaryOp uint8

const (
	ExprUnaryNot ExprUnaryOp = iota
	ExprUnaryBNot
	ExprUnaryMinus
	ExprUnaryPlus
)

func (op ExprUnaryOp) String() string {
	switch op {
	case ExprUnaryNot:
		return "NOT"
	case ExprUnaryBNot:
		return "B_NOT"
	case ExprUnaryMinus:
		return "-"
	case ExprUnaryPlus:
		return "+"
	default:
		return "?"
	}
}

type ExprIdentData struct {
	Name string
}

type ExprLiteralData struct {
	Kind ExprLitKind
	Text string // как в исходнике
}

type ExprBinaryData struct {
	Op     ExprBinaryOp
	OpSpan source.Span
	Left   ExprID
	Right  ExprID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprCallData struct {
	Target ExprID
	Args   []ExprID
}

type ExprIndexData struct {
	Target  ExprID
	Indices []ExprID
}

type ExprMemberData struct {
	Target ExprID
	Field  Ident
}

type ExprGroupData struct {
	Inner ExprID
}

// StructFieldInit is one "X 10.0" entry of a struct literal.
type StructFieldInit struct {
	Name  Ident
	Value ExprID
}

// ExprStructData is a struct literal {[TYPE:] X 1, Y 2}.
type ExprStructData struct {
	Type   TypeRef // empty when no "TYPE:" prefix
	Fields []StructFieldInit
}

package ast

import (
	"krllint/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Idents   *Arena[ExprIdentData]
	Literals *Arena[ExprLiteralData]
	Binaries *Arena[ExprBinaryData]
	Unaries  *Arena[ExprUnaryData]
	Calls    *Arena[ExprCallData]
	Indices  *Arena[ExprIndexData]
	Members  *Arena[ExprMemberData]
	Groups   *Arena[ExprGroupData]
	Structs  *Arena[ExprStructData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint as the initial capacity.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/8 + 1
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Idents:   NewArena[ExprIdentData](capHint / 2),
		Literals: NewArena[ExprLiteralData](capHint / 2),
		Binaries: NewArena[ExprBinaryData](small),
		Unaries:  NewArena[ExprUnaryData](small),
		Calls:    NewArena[ExprCallData](small),
		Indices:  NewArena[ExprIndexData](small),
		Members:  NewArena[ExprMemberData](small),
		Groups:   NewArena[ExprGroupData](small),
		Structs:  NewArena[ExprStructData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Push(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

// NewBad creates a placeholder for an expression the parser could not read.
func (e *Exprs) NewBad(span source.Span) ExprID {
	return e.new(ExprBad, span, 0)
}

// NewIdent creates a new identifier expression.
func (e *Exprs) NewIdent(span source.Span, name string) ExprID {
	return e.new(ExprIdent, span, e.Idents.Push(ExprIdentData{Name: name}))
}

// Ident returns the identifier data for the given expression ID.
func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

// NewLiteral creates a new literal expression.
func (e *Exprs) NewLiteral(span source.Span, kind ExprLitKind, text string) ExprID {
	return e.new(ExprLit, span, e.Literals.Push(ExprLiteralData{Kind: kind, Text: text}))
}

// Literal returns the literal data for the given expression ID.
func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

// NewBinary creates a new binary expression.
func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, opSpan source.Span, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Push(ExprBinaryData{Op: op, OpSpan: opSpan, Left: left, Right: right}))
}

// Binary returns the binary data for the given expression ID.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

// NewUnary creates a new unary expression.
func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Push(ExprUnaryData{Op: op, Operand: operand}))
}

// Unary returns the unary data for the given expression ID.
func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

// NewCall creates a new call expression.
func (e *Exprs) NewCall(span source.Span, target ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Push(ExprCallData{Target: target, Args: args}))
}

// Call returns the call data for the given expression ID.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

// NewIndex creates a new index expression: target[i, j].
func (e *Exprs) NewIndex(span source.Span, target ExprID, indices []ExprID) ExprID {
	return e.new(ExprIndex, span, e.Indices.Push(ExprIndexData{Target: target, Indices: indices}))
}

// Index returns the index data for the given expression ID.
func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	p, ok := e.payload(id, ExprIndex)
	if !ok {
		return nil, false
	}
	return e.Indices.Get(p), true
}

// NewMember creates a new member access expression.
func (e *Exprs) NewMember(span source.Span, target ExprID, field Ident) ExprID {
	return e.new(ExprMember, span, e.Members.Push(ExprMemberData{Target: target, Field: field}))
}

// Member returns the member data for the given expression ID.
func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	p, ok := e.payload(id, ExprMember)
	if !ok {
		return nil, false
	}
	return e.Members.Get(p), true
}

// NewGroup creates a parenthesised expression.
func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	return e.new(ExprGroup, span, e.Groups.Push(ExprGroupData{Inner: inner}))
}

// Group returns the group data for the given expression ID.
func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	p, ok := e.payload(id, ExprGroup)
	if !ok {
		return nil, false
	}
	return e.Groups.Get(p), true
}

// NewStruct creates a struct literal.
func (e *Exprs) NewStruct(span source.Span, data ExprStructData) ExprID {
	return e.new(ExprStruct, span, e.Structs.Push(data))
}

// Struct returns the struct literal data for the given expression ID.
func (e *Exprs) Struct(id ExprID) (*ExprStructData, bool) {
	p, ok := e.payload(id, ExprStruct)
	if !ok {
		return nil, false
	}
	return e.Structs.Get(p), true
}

// Unparen strips any number of enclosing parentheses.
func (e *Exprs) Unparen(id ExprID) ExprID {
	for {
		g, ok := e.Group(id)
		if !ok {
			return id
		}
		id = g.Inner
	}
}

// RootName returns the variable an lvalue refers to: "x" for x, x[1], x.Y.
func (e *Exprs) RootName(id ExprID) (Ident, bool) {
	for {
		expr := e.Get(id)
		if expr == nil {
			return Ident{}, false
		}
		switch expr.Kind {
		case ExprIdent:
			data, _ := e.Ident(id)
			return Ident{Name: data.Name, Span: expr.Span}, true
		case ExprIndex:
			data, _ := e.Index(id)
			id = data.Target
		case ExprMember:
			data, _ := e.Member(id)
			id = data.Target
		case ExprGroup:
			data, _ := e.Group(id)
			id = data.Inner
		default:
			return Ident{}, false
		}
	}
}

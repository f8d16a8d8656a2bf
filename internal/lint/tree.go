package lint

import (
	"krllint/internal/ast"
	"krllint/internal/source"
)

// blocks returns the statement lists owned directly by a statement.
func blocks(b *ast.Builder, id ast.StmtID) [][]ast.StmtID {
	s := b.Stmts
	st := s.Get(id)
	if st == nil {
		return nil
	}
	switch st.Kind {
	case ast.StmtIf:
		d, _ := s.If(id)
		return [][]ast.StmtID{d.Then, d.Else}
	case ast.StmtWhile, ast.StmtRepeat:
		d, _ := s.CondLoop(id)
		return [][]ast.StmtID{d.Body}
	case ast.StmtFor:
		d, _ := s.For(id)
		return [][]ast.StmtID{d.Body}
	case ast.StmtLoop:
		d, _ := s.Loop(id)
		return [][]ast.StmtID{d.Body}
	case ast.StmtSwitch:
		d, _ := s.Switch(id)
		out := make([][]ast.StmtID, 0, len(d.Cases)+1)
		for _, c := range d.Cases {
			out = append(out, c.Body)
		}
		return append(out, d.Default)
	}
	return nil
}

func isLoop(k ast.StmtKind) bool {
	switch k {
	case ast.StmtWhile, ast.StmtRepeat, ast.StmtFor, ast.StmtLoop:
		return true
	}
	return false
}

// anyStmt reports whether match holds for a statement in list or nested
// in it. descend decides whether the bodies of a statement are searched.
func anyStmt(b *ast.Builder, list []ast.StmtID, match func(*ast.Stmt) bool, descend func(*ast.Stmt) bool) bool {
	for _, id := range list {
		st := b.Stmts.Get(id)
		if st == nil {
			continue
		}
		if match(st) {
			return true
		}
		if descend != nil && !descend(st) {
			continue
		}
		for _, body := range blocks(b, id) {
			if anyStmt(b, body, match, descend) {
				return true
			}
		}
	}
	return false
}

// keywordSpan is the span of the keyword a statement starts with.
func keywordSpan(sp source.Span, keyword string) source.Span {
	end := sp.Start + uint32(len(keyword))
	if end > sp.End {
		end = sp.End
	}
	return source.Span{File: sp.File, Start: sp.Start, End: end}
}

var stmtKeywords = map[ast.StmtKind]string{
	ast.StmtIf:     "IF",
	ast.StmtWhile:  "WHILE",
	ast.StmtFor:    "FOR",
	ast.StmtLoop:   "LOOP",
	ast.StmtRepeat: "REPEAT",
	ast.StmtSwitch: "SWITCH",
	ast.StmtReturn: "RETURN",
	ast.StmtExit:   "EXIT",
	ast.StmtHalt:   "HALT",
	ast.StmtGoto:   "GOTO",
}

// sameExpr compares two expressions structurally. Names compare
// case-insensitively, parentheses are ignored.
func sameExpr(p *Pass, x, y ast.ExprID) bool {
	e := p.Builder.Exprs
	x, y = e.Unparen(x), e.Unparen(y)
	ex, ey := e.Get(x), e.Get(y)
	if ex == nil || ey == nil || ex.Kind != ey.Kind {
		return false
	}
	switch ex.Kind {
	case ast.ExprIdent:
		a, _ := e.Ident(x)
		b, _ := e.Ident(y)
		return p.SameName(a.Name, b.Name)
	case ast.ExprLit:
		a, _ := e.Literal(x)
		b, _ := e.Literal(y)
		if a.Kind == ast.ExprLitString {
			return a.Text == b.Text
		}
		return a.Kind == b.Kind && p.SameName(a.Text, b.Text)
	case ast.ExprMember:
		a, _ := e.Member(x)
		b, _ := e.Member(y)
		return p.SameName(a.Field.Name, b.Field.Name) && sameExpr(p, a.Target, b.Target)
	case ast.ExprIndex:
		a, _ := e.Index(x)
		b, _ := e.Index(y)
		return sameExpr(p, a.Target, b.Target) && sameExprs(p, a.Indices, b.Indices)
	case ast.ExprUnary:
		a, _ := e.Unary(x)
		b, _ := e.Unary(y)
		return a.Op == b.Op && sameExpr(p, a.Operand, b.Operand)
	case ast.ExprBinary:
		a, _ := e.Binary(x)
		b, _ := e.Binary(y)
		return a.Op == b.Op && sameExpr(p, a.Left, b.Left) && sameExpr(p, a.Right, b.Right)
	}
	// вызовы могут иметь побочные эффекты, такие выражения не равны
	return false
}

func sameExprs(p *Pass, xs, ys []ast.ExprID) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !sameExpr(p, xs[i], ys[i]) {
			return false
		}
	}
	return true
}

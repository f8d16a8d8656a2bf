package ast

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"krllint/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

type recorder struct {
	b   *Builder
	log []string
}

func (r *recorder) Enter(n Node) { r.log = append(r.log, "+"+r.label(n)) }
func (r *recorder) Leave(n Node) { r.log = append(r.log, "-"+r.label(n)) }

func (r *recorder) label(n Node) string {
	switch n.Kind {
	case NodeStmt:
		return r.b.Stmts.Get(StmtID(n.ID)).Kind.String()
	case NodeExpr:
		return r.b.Exprs.Get(ExprID(n.ID)).Kind.String()
	default:
		return n.Kind.String()
	}
}

// DEF main()
//   DECL INT i = 0
//   IF i > 1 THEN
//     HALT
//   ENDIF
// END
func buildSample() (*Builder, FileID) {
	b := NewBuilder(Hints{})
	e := b.Exprs
	init := e.NewLiteral(span(0, 1), ExprLitInt, "0")
	decl := b.Stmts.NewDecl(span(0, 10), DeclStmt{
		HasDecl: true,
		Type:    TypeRef{Name: "INT"},
		Vars:    []DeclVar{{Name: Ident{Name: "i"}, Init: init}},
	})
	cond := e.NewBinary(span(0, 5), ExprBinaryGt, span(2, 3),
		e.NewIdent(span(0, 1), "i"),
		e.NewLiteral(span(4, 5), ExprLitInt, "1"))
	halt := b.Stmts.NewSimple(StmtHalt, span(0, 4))
	ifs := b.Stmts.NewIf(span(0, 20), IfStmt{Cond: cond, Then: []StmtID{halt}})
	item := b.Items.NewRoutine(span(0, 40), false, RoutineItem{
		Name:  Ident{Name: "main"},
		Decls: []StmtID{decl},
		Body:  []StmtID{ifs},
	})
	file := b.NewFile(span(0, 40))
	b.PushItem(file, item)
	return b, file
}

func TestWalkOrder(t *testing.T) {
	b, file := buildSample()
	r := &recorder{b: b}
	Walk(b, file, r)
	want := []string{
		"+File", "+Item",
		"+Decl", "+Lit", "-Lit", "-Decl",
		"+If",
		"+Binary", "+Ident", "-Ident", "+Lit", "-Lit", "-Binary",
		"+Halt", "-Halt",
		"-If",
		"-Item", "-File",
	}
	if diff := cmp.Diff(want, r.log); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkIsBalanced(t *testing.T) {
	b, file := buildSample()
	depth := 0
	maxDepth := 0
	Walk(b, file, &balance{depth: &depth, max: &maxDepth})
	if depth != 0 {
		t.Fatalf("unbalanced walk, depth = %d", depth)
	}
	if maxDepth != 5 {
		t.Fatalf("max depth = %d, want 5", maxDepth)
	}
}

type balance struct{ depth, max *int }

func (b *balance) Enter(Node) {
	*b.depth++
	if *b.depth > *b.max {
		*b.max = *b.depth
	}
}
func (b *balance) Leave(Node) { *b.depth-- }

func TestWalkPanicsOnUnknownKind(t *testing.T) {
	b, file := buildSample()
	b.Stmts.Get(1).Kind = StmtKind(250)
	defer func() {
		r := recover()
		if r == nil || !strings.Contains(r.(string), "unknown stmt kind") {
			t.Fatalf("recover() = %v", r)
		}
	}()
	Inspect(b, file, func(Node) {})
}

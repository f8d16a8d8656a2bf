package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/lexer"
	"krllint/internal/source"
	"krllint/internal/testkit"
)

type parsed struct {
	fs      *source.FileSet
	builder *ast.Builder
	file    ast.FileID
	bag     *diag.Bag
	result  Result
}

func parseWith(t *testing.T, name, src string, opts Options) parsed {
	t.Helper()
	fs := source.NewFileSetWithBase("")
	fileID := fs.AddVirtual(name, []byte(src))
	bag := diag.NewBag(0)
	rep := &diag.BagReporter{Bag: bag}
	opts.Reporter = rep

	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep})
	builder := ast.NewBuilder(ast.Hints{})
	res := ParseFile(context.Background(), fs, lx, builder, opts)
	if err := testkit.CheckSpanInvariants(builder, res.File, fs.Get(fileID)); err != nil {
		t.Errorf("span invariants: %v", err)
	}
	return parsed{fs: fs, builder: builder, file: res.File, bag: bag, result: res}
}

func parseSource(t *testing.T, src string) parsed {
	t.Helper()
	return parseWith(t, "main.src", src, Options{})
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func codes(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func (p parsed) expectClean(t *testing.T) {
	t.Helper()
	if p.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
}

func (p parsed) items() []ast.ItemID {
	return p.builder.Files.Get(p.file).Items
}

func (p parsed) routine(t *testing.T, i int) *ast.RoutineItem {
	t.Helper()
	items := p.items()
	if len(items) <= i {
		t.Fatalf("want at least %d items, got %d", i+1, len(items))
	}
	r, ok := p.builder.Items.Routine(items[i])
	if !ok {
		t.Fatalf("item %d is %s, not a routine", i, p.builder.Items.Get(items[i]).Kind)
	}
	return r
}

// firstAssignValue returns the value of the first assignment in the first routine body.
func (p parsed) firstAssignValue(t *testing.T) ast.ExprID {
	t.Helper()
	r := p.routine(t, 0)
	for _, id := range r.Body {
		if a, ok := p.builder.Stmts.Assign(id); ok {
			return a.Value
		}
	}
	t.Fatalf("no assignment in body")
	return ast.NoExprID
}

// sexpr renders an expression as a fully parenthesised prefix form.
func sexpr(b *ast.Builder, id ast.ExprID) string {
	e := b.Exprs.Get(id)
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ast.ExprIdent:
		d, _ := b.Exprs.Ident(id)
		return d.Name
	case ast.ExprLit:
		d, _ := b.Exprs.Literal(id)
		return d.Text
	case ast.ExprBinary:
		d, _ := b.Exprs.Binary(id)
		return fmt.Sprintf("(%s %s %s)", d.Op, sexpr(b, d.Left), sexpr(b, d.Right))
	case ast.ExprUnary:
		d, _ := b.Exprs.Unary(id)
		return fmt.Sprintf("(%s %s)", d.Op, sexpr(b, d.Operand))
	case ast.ExprGroup:
		d, _ := b.Exprs.Group(id)
		return sexpr(b, d.Inner)
	case ast.ExprCall:
		d, _ := b.Exprs.Call(id)
		return fmt.Sprintf("%s(%s)", sexpr(b, d.Target), sexprList(b, d.Args))
	case ast.ExprIndex:
		d, _ := b.Exprs.Index(id)
		return fmt.Sprintf("%s[%s]", sexpr(b, d.Target), sexprList(b, d.Indices))
	case ast.ExprMember:
		d, _ := b.Exprs.Member(id)
		return sexpr(b, d.Target) + "." + d.Field.Name
	default:
		return e.Kind.String()
	}
}

func sexprList(b *ast.Builder, ids []ast.ExprID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = sexpr(b, id)
	}
	return strings.Join(parts, ", ")
}


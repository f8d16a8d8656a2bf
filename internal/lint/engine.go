package lint

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/trace"
)

// PanicError is a rule that crashed on a file. The engine drops the rule's
// findings for that file and keeps running the others.
type PanicError struct {
	Rule  string
	Node  ast.Node
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("rule %s panicked at %s: %v", e.Rule, e.Node, e.Value)
}

// Analyze runs the configured rules over one file with a single tree walk.
// The returned bag holds the merged findings of every rule that finished;
// the error joins one *PanicError per crashed rule.
func Analyze(ctx context.Context, unit *Unit, rules []Configured) (*diag.Bag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "lint", trace.CurrentSpan(ctx).SpanID)

	f := &fanout{slots: make([]*slot, 0, len(rules))}
	for _, c := range rules {
		s := &slot{pass: newPass(unit, c)}
		s.id = s.pass.meta.ID()
		s.guard(ast.FileNode(unit.File), func() { s.visitor = c.Rule.NewVisitor(s.pass) })
		if s.visitor == nil && s.failed == nil {
			s.visitor = BaseVisitor{}
		}
		f.slots = append(f.slots, s)
	}

	if unit.Builder != nil && unit.File != ast.NoFileID {
		ast.Walk(unit.Builder, unit.File, f)
	}

	out := diag.NewBag(0)
	var errs []error
	for _, s := range f.slots {
		if s.failed == nil {
			s.guard(ast.FileNode(unit.File), s.visitor.Finish)
		}
		if s.failed != nil {
			errs = append(errs, s.failed)
			trace.Point(tracer, trace.ScopeRule, s.id, span.ID(), "panic")
			continue
		}
		out.Merge(s.pass.bag)
		trace.Point(tracer, trace.ScopeRule, s.id, span.ID(), fmt.Sprintf("%d findings", s.pass.bag.Len()))
	}

	span.WithExtra("rules", fmt.Sprint(len(rules))).WithExtra("findings", fmt.Sprint(out.Len())).End(pathOf(unit))
	return out, errors.Join(errs...)
}

func pathOf(u *Unit) string {
	if u.Source == nil {
		return ""
	}
	return u.Source.Path
}

type slot struct {
	id      string
	pass    *Pass
	visitor Visitor
	failed  *PanicError
}

func (s *slot) guard(n ast.Node, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.failed = &PanicError{Rule: s.id, Node: n, Value: r, Stack: debug.Stack()}
		}
	}()
	fn()
}

// fanout forwards every walk event to the live visitors.
type fanout struct {
	slots []*slot
}

func (f *fanout) Enter(n ast.Node) {
	for _, s := range f.slots {
		if s.failed == nil {
			s.enter(n)
		}
	}
}

func (f *fanout) Leave(n ast.Node) {
	for _, s := range f.slots {
		if s.failed == nil {
			s.leave(n)
		}
	}
}

func (s *slot) enter(n ast.Node) {
	defer s.recoverAt(n)
	s.visitor.Enter(n)
}

func (s *slot) leave(n ast.Node) {
	defer s.recoverAt(n)
	s.visitor.Leave(n)
}

func (s *slot) recoverAt(n ast.Node) {
	if r := recover(); r != nil {
		s.failed = &PanicError{Rule: s.id, Node: n, Value: r, Stack: debug.Stack()}
	}
}

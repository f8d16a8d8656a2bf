package lint

import (
	"fmt"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/fix"
	"krllint/internal/source"
)

// UnusedVariable: a local DECL that nothing in its routine refers to.
// Any occurrence of the name counts, writes included.
type UnusedVariable struct{}

func (UnusedVariable) Meta() Meta {
	return Meta{
		Code:            diag.KrlUnusedVariable,
		Name:            "unused-variable",
		Description:     "local variable is declared but never referenced",
		DefaultSeverity: diag.SevWarning,
		DefaultEnabled:  true,
	}
}

func (UnusedVariable) NewVisitor(p *Pass) Visitor { return &unusedVariable{p: p} }

type unusedVariable struct {
	BaseVisitor
	p         *Pass
	inRoutine bool
	decls     []ast.Ident
	used      map[string]bool
}

func (v *unusedVariable) Enter(n ast.Node) {
	b := v.p.Builder
	switch n.Kind {
	case ast.NodeItem:
		id, _ := n.Item()
		_, v.inRoutine = b.Items.Routine(id)
		v.decls = v.decls[:0]
		v.used = make(map[string]bool)
	case ast.NodeStmt:
		if !v.inRoutine {
			return
		}
		id, _ := n.Stmt()
		if d, ok := b.Stmts.Decl(id); ok && !d.External && !d.Global {
			for _, dv := range d.Vars {
				if dv.Name.Name != "" {
					v.decls = append(v.decls, dv.Name)
				}
			}
		}
		if f, ok := b.Stmts.For(id); ok {
			v.used[v.p.Fold(f.Var.Name)] = true
		}
	case ast.NodeExpr:
		if !v.inRoutine {
			return
		}
		id, _ := n.Expr()
		if ident, ok := b.Exprs.Ident(id); ok {
			v.used[v.p.Fold(ident.Name)] = true
		}
	}
}

func (v *unusedVariable) Leave(n ast.Node) {
	if n.Kind != ast.NodeItem || !v.inRoutine {
		return
	}
	for _, d := range v.decls {
		if !v.used[v.p.Fold(d.Name)] {
			v.p.Report(d.Span, fmt.Sprintf("variable %q is declared but never used", d.Name))
		}
	}
	v.inRoutine = false
}

// ParamDirection: a parameter written without :IN or :OUT. Off by default.
type ParamDirection struct{}

func (ParamDirection) Meta() Meta {
	return Meta{
		Code:            diag.KrlParamDirection,
		Name:            "param-direction",
		Description:     "parameter has no explicit :IN or :OUT",
		DefaultSeverity: diag.SevInfo,
		DefaultEnabled:  false,
	}
}

func (ParamDirection) NewVisitor(p *Pass) Visitor { return &paramDirection{p: p} }

type paramDirection struct {
	BaseVisitor
	p *Pass
}

func (v *paramDirection) Enter(n ast.Node) {
	id, ok := n.Item()
	if !ok {
		return
	}
	b := v.p.Builder
	r, ok := b.Items.Routine(id)
	if !ok {
		return
	}
	for _, pid := range r.Params {
		prm := b.Items.Param(pid)
		if prm == nil || prm.Dir != ast.ParamDirNone {
			continue
		}
		at := prm.Span.ZeroideToEnd()
		// без направления KRL передаёт по ссылке, то есть как OUT
		v.p.ReportWithFix(prm.Name.Span,
			fmt.Sprintf("parameter %q has no direction; write :IN or :OUT", prm.Name.Name),
			fix.For(diag.KrlParamDirection).Insert("add :OUT", at, ":OUT",
				fix.Applicability(diag.FixApplicabilityManualReview)))
	}
}

// GlobalInPrivateDat: GLOBAL declarations only work in DEFDAT ... PUBLIC.
type GlobalInPrivateDat struct{}

func (GlobalInPrivateDat) Meta() Meta {
	return Meta{
		Code:            diag.KrlGlobalInPrivateDat,
		Name:            "global-in-private-dat",
		Description:     "GLOBAL declaration in a DEFDAT without PUBLIC",
		DefaultSeverity: diag.SevError,
		DefaultEnabled:  true,
	}
}

func (GlobalInPrivateDat) NewVisitor(p *Pass) Visitor { return &globalInPrivateDat{p: p} }

type globalInPrivateDat struct {
	BaseVisitor
	p *Pass
}

func (v *globalInPrivateDat) Enter(n ast.Node) {
	id, ok := n.Item()
	if !ok {
		return
	}
	b := v.p.Builder
	d, ok := b.Items.DataList(id)
	if !ok || d.Public || d.Name.Name == "" {
		return
	}
	at := d.Name.Span.ZeroideToEnd()
	for _, sid := range d.Decls {
		sp, global := globalSpan(b.Stmts, sid)
		if !global {
			continue
		}
		v.p.Diag(sp, fmt.Sprintf("GLOBAL has no effect: DEFDAT %s is not PUBLIC", d.Name.Name)).
			WithNote(d.HeaderSpan, "data list declared here").
			WithFixSuggestion(fix.For(diag.KrlGlobalInPrivateDat).Insert("make "+d.Name.Name+" PUBLIC", at, " PUBLIC",
				fix.Applicability(diag.FixApplicabilitySafeWithHeuristics))).
			Emit()
	}
}

func globalSpan(s *ast.Stmts, id ast.StmtID) (source.Span, bool) {
	if d, ok := s.Decl(id); ok {
		return d.GlobalSpan, d.Global
	}
	if d, ok := s.Enum(id); ok {
		return d.GlobalSpan, d.Global
	}
	if d, ok := s.Struc(id); ok {
		return d.GlobalSpan, d.Global
	}
	if d, ok := s.Signal(id); ok {
		return d.GlobalSpan, d.Global
	}
	return source.Span{}, false
}

// SelfAssignment: "x = x".
type SelfAssignment struct{}

func (SelfAssignment) Meta() Meta {
	return Meta{
		Code:            diag.KrlSelfAssignment,
		Name:            "self-assignment",
		Description:     "value is assigned to itself",
		DefaultSeverity: diag.SevWarning,
		DefaultEnabled:  true,
	}
}

func (SelfAssignment) NewVisitor(p *Pass) Visitor { return &selfAssignment{p: p} }

type selfAssignment struct {
	BaseVisitor
	p *Pass
}

func (v *selfAssignment) Enter(n ast.Node) {
	id, ok := n.Stmt()
	if !ok {
		return
	}
	a, ok := v.p.Builder.Stmts.Assign(id)
	if !ok || !sameExpr(v.p, a.Target, a.Value) {
		return
	}
	v.p.Report(v.p.Builder.Stmts.Get(id).Span,
		fmt.Sprintf("%s is assigned to itself", v.p.Text(v.p.Builder.Exprs.Get(a.Target).Span)))
}

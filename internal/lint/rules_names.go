package lint

import (
	"fmt"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/fix"
	"krllint/internal/source"
)

// NameMismatch: the first item of a file must be named after the file.
type NameMismatch struct{}

func (NameMismatch) Meta() Meta {
	return Meta{
		Code:            diag.KrlNameMismatch,
		Name:            "name-mismatch",
		Description:     "first routine or DEFDAT name differs from the file base name",
		DefaultSeverity: diag.SevWarning,
		DefaultEnabled:  true,
	}
}

func (NameMismatch) NewVisitor(p *Pass) Visitor { return &nameMismatch{p: p} }

type nameMismatch struct {
	BaseVisitor
	p *Pass
}

func (v *nameMismatch) Enter(n ast.Node) {
	id, ok := n.File()
	if !ok || v.p.Source == nil {
		return
	}
	f := v.p.Builder.Files.Get(id)
	if f == nil || len(f.Items) == 0 {
		return
	}
	name := v.p.Builder.Items.Name(f.Items[0])
	stem := source.Stem(v.p.Source.Path)
	if name.Name == "" || stem == "" || v.p.SameName(name.Name, stem) {
		return
	}
	v.p.ReportWithFix(name.Span,
		fmt.Sprintf("%q does not match file name %q", name.Name, stem),
		fix.For(diag.KrlNameMismatch).Replace("rename to "+stem, name.Span, name.Name, stem,
			fix.Kind(diag.FixKindRefactorRewrite),
			fix.Applicability(diag.FixApplicabilityManualReview)))
}

// DuplicateDeclaration: a name declared twice in one routine or data list.
type DuplicateDeclaration struct{}

func (DuplicateDeclaration) Meta() Meta {
	return Meta{
		Code:            diag.KrlDuplicateDeclaration,
		Name:            "duplicate-declaration",
		Description:     "variable, parameter or type declared twice in one scope",
		DefaultSeverity: diag.SevError,
		DefaultEnabled:  true,
	}
}

func (DuplicateDeclaration) NewVisitor(p *Pass) Visitor { return &duplicateDecl{p: p} }

type duplicateDecl struct {
	BaseVisitor
	p     *Pass
	scope map[string]ast.Ident
}

func (v *duplicateDecl) Enter(n ast.Node) {
	b := v.p.Builder
	switch n.Kind {
	case ast.NodeItem:
		id, _ := n.Item()
		v.scope = make(map[string]ast.Ident)
		if r, ok := b.Items.Routine(id); ok {
			for _, pid := range r.Params {
				if prm := b.Items.Param(pid); prm != nil {
					v.declare(prm.Name)
				}
			}
		}
	case ast.NodeStmt:
		if v.scope == nil {
			return
		}
		id, _ := n.Stmt()
		v.stmt(id)
	}
}

func (v *duplicateDecl) Leave(n ast.Node) {
	if n.Kind == ast.NodeItem {
		v.scope = nil
	}
}

func (v *duplicateDecl) stmt(id ast.StmtID) {
	s := v.p.Builder.Stmts
	st := s.Get(id)
	switch st.Kind {
	case ast.StmtDecl:
		d, _ := s.Decl(id)
		if d.External {
			return
		}
		for _, dv := range d.Vars {
			v.declare(dv.Name)
		}
	case ast.StmtEnum:
		d, _ := s.Enum(id)
		v.declare(d.Name)
	case ast.StmtSignal:
		d, _ := s.Signal(id)
		v.declare(d.Name)
	case ast.StmtStruc:
		d, _ := s.Struc(id)
		v.declare(d.Name)
		fields := make(map[string]ast.Ident)
		for _, f := range d.Fields {
			for _, dv := range f.Names {
				key := v.p.Fold(dv.Name.Name)
				if first, dup := fields[key]; dup {
					v.p.Diag(dv.Name.Span, fmt.Sprintf("field %q declared twice in STRUC %s", dv.Name.Name, d.Name.Name)).
						WithNote(first.Span, "first declared here").
						Emit()
					continue
				}
				fields[key] = dv.Name
			}
		}
	}
}

func (v *duplicateDecl) declare(name ast.Ident) {
	if name.Name == "" {
		return
	}
	key := v.p.Fold(name.Name)
	if first, dup := v.scope[key]; dup {
		v.p.Diag(name.Span, fmt.Sprintf("%q is already declared", name.Name)).
			WithNote(first.Span, "first declared here").
			Emit()
		return
	}
	v.scope[key] = name
}

// DuplicateRoutine: two routines or functions with one name in a file.
type DuplicateRoutine struct{}

func (DuplicateRoutine) Meta() Meta {
	return Meta{
		Code:            diag.KrlDuplicateRoutine,
		Name:            "duplicate-routine",
		Description:     "two routines or functions share a name in one file",
		DefaultSeverity: diag.SevError,
		DefaultEnabled:  true,
	}
}

func (DuplicateRoutine) NewVisitor(p *Pass) Visitor { return &duplicateRoutine{p: p} }

type duplicateRoutine struct {
	BaseVisitor
	p *Pass
}

func (v *duplicateRoutine) Enter(n ast.Node) {
	fid, ok := n.File()
	if !ok {
		return
	}
	b := v.p.Builder
	f := b.Files.Get(fid)
	seen := make(map[string]ast.Ident, len(f.Items))
	for _, it := range f.Items {
		r, ok := b.Items.Routine(it)
		if !ok || r.Name.Name == "" {
			continue
		}
		key := v.p.Fold(r.Name.Name)
		if first, dup := seen[key]; dup {
			v.p.Diag(r.Name.Span, fmt.Sprintf("routine %q is already defined in this file", r.Name.Name)).
				WithNote(first.Span, "previous definition here").
				Emit()
			continue
		}
		seen[key] = r.Name
	}
}

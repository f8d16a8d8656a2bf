package lint

import (
	"fmt"
	"strings"

	"krllint/internal/ast"
	"krllint/internal/diag"
)

// UndefinedLabel: GOTO to a label that its routine does not define.
type UndefinedLabel struct{}

func (UndefinedLabel) Meta() Meta {
	return Meta{
		Code:            diag.KrlUndefinedLabel,
		Name:            "undefined-label",
		Description:     "GOTO targets a label not defined in the routine",
		DefaultSeverity: diag.SevError,
		DefaultEnabled:  true,
	}
}

func (UndefinedLabel) NewVisitor(p *Pass) Visitor { return &undefinedLabel{p: p} }

type undefinedLabel struct {
	BaseVisitor
	p      *Pass
	labels map[string]bool
	gotos  []ast.Ident
}

func (v *undefinedLabel) Enter(n ast.Node) {
	switch n.Kind {
	case ast.NodeItem:
		v.labels = make(map[string]bool)
		v.gotos = v.gotos[:0]
	case ast.NodeStmt:
		id, _ := n.Stmt()
		j, ok := v.p.Builder.Stmts.Jump(id)
		if !ok {
			return
		}
		if v.p.Builder.Stmts.Get(id).Kind == ast.StmtLabel {
			v.labels[v.p.Fold(j.Label.Name)] = true
		} else {
			v.gotos = append(v.gotos, j.Label)
		}
	}
}

func (v *undefinedLabel) Leave(n ast.Node) {
	if n.Kind != ast.NodeItem {
		return
	}
	for _, g := range v.gotos {
		if !v.labels[v.p.Fold(g.Name)] {
			v.p.Report(g.Span, fmt.Sprintf("label %q is not defined in this routine", g.Name))
		}
	}
	v.gotos = v.gotos[:0]
}

// GotoUsage flags every GOTO. Off by default.
type GotoUsage struct{}

func (GotoUsage) Meta() Meta {
	return Meta{
		Code:            diag.KrlGotoUsage,
		Name:            "goto-usage",
		Description:     "GOTO makes control flow hard to follow",
		DefaultSeverity: diag.SevInfo,
		DefaultEnabled:  false,
	}
}

func (GotoUsage) NewVisitor(p *Pass) Visitor { return &gotoUsage{p: p} }

type gotoUsage struct {
	BaseVisitor
	p *Pass
}

func (v *gotoUsage) Enter(n ast.Node) {
	id, ok := n.Stmt()
	if !ok {
		return
	}
	if st := v.p.Builder.Stmts.Get(id); st.Kind == ast.StmtGoto {
		j, _ := v.p.Builder.Stmts.Jump(id)
		v.p.Report(st.Span, fmt.Sprintf("GOTO %s; prefer structured control flow", j.Label.Name))
	}
}

// EmptyBlock: a control statement whose body has no statements.
type EmptyBlock struct{}

func (EmptyBlock) Meta() Meta {
	return Meta{
		Code:            diag.KrlEmptyBlock,
		Name:            "empty-block",
		Description:     "IF, ELSE, WHILE, FOR, LOOP, REPEAT, CASE or DEFAULT with an empty body",
		DefaultSeverity: diag.SevWarning,
		DefaultEnabled:  true,
	}
}

func (EmptyBlock) NewVisitor(p *Pass) Visitor { return &emptyBlock{p: p} }

type emptyBlock struct {
	BaseVisitor
	p *Pass
}

func (v *emptyBlock) Enter(n ast.Node) {
	id, ok := n.Stmt()
	if !ok {
		return
	}
	s := v.p.Builder.Stmts
	st := s.Get(id)
	switch st.Kind {
	case ast.StmtIf:
		d, _ := s.If(id)
		if len(d.Then) == 0 {
			v.p.Report(keywordSpan(st.Span, "IF"), "IF branch is empty")
		}
		if d.HasElse && len(d.Else) == 0 {
			v.p.Report(d.ElseSpan, "ELSE branch is empty")
		}
	case ast.StmtWhile, ast.StmtRepeat, ast.StmtFor, ast.StmtLoop:
		if len(blocks(v.p.Builder, id)[0]) == 0 {
			kw := stmtKeywords[st.Kind]
			v.p.Report(keywordSpan(st.Span, kw), kw+" body is empty")
		}
	case ast.StmtSwitch:
		d, _ := s.Switch(id)
		for _, c := range d.Cases {
			if len(c.Body) == 0 {
				v.p.Report(c.Span, "CASE body is empty")
			}
		}
		if d.HasDefault && len(d.Default) == 0 {
			v.p.Report(d.DefaultSpan, "DEFAULT body is empty")
		}
	}
}

// LoopWithoutExit: LOOP ... ENDLOOP that nothing can leave.
type LoopWithoutExit struct{}

func (LoopWithoutExit) Meta() Meta {
	return Meta{
		Code:            diag.KrlLoopWithoutExit,
		Name:            "loop-without-exit",
		Description:     "LOOP without EXIT, RETURN, HALT or GOTO never terminates",
		DefaultSeverity: diag.SevWarning,
		DefaultEnabled:  true,
	}
}

func (LoopWithoutExit) NewVisitor(p *Pass) Visitor { return &loopWithoutExit{p: p} }

type loopWithoutExit struct {
	BaseVisitor
	p *Pass
}

func (v *loopWithoutExit) Enter(n ast.Node) {
	id, ok := n.Stmt()
	if !ok {
		return
	}
	b := v.p.Builder
	st := b.Stmts.Get(id)
	if st.Kind != ast.StmtLoop {
		return
	}
	d, _ := b.Stmts.Loop(id)
	if !leaves(b, d.Body, true) {
		v.p.Report(keywordSpan(st.Span, "LOOP"), "LOOP has no EXIT, RETURN, HALT or GOTO and never terminates")
	}
}

// leaves reports whether list contains a statement that leaves the
// enclosing loop. EXIT counts only when it is not inside a nested loop.
func leaves(b *ast.Builder, list []ast.StmtID, exitCounts bool) bool {
	for _, id := range list {
		st := b.Stmts.Get(id)
		if st == nil {
			continue
		}
		switch st.Kind {
		case ast.StmtReturn, ast.StmtHalt, ast.StmtGoto:
			return true
		case ast.StmtExit:
			if exitCounts {
				return true
			}
		}
		inner := exitCounts && !isLoop(st.Kind)
		for _, body := range blocks(b, id) {
			if leaves(b, body, inner) {
				return true
			}
		}
	}
	return false
}

// MissingReturn: DEFFCT without any RETURN.
type MissingReturn struct{}

func (MissingReturn) Meta() Meta {
	return Meta{
		Code:            diag.KrlMissingReturn,
		Name:            "missing-return",
		Description:     "function has no RETURN statement",
		DefaultSeverity: diag.SevError,
		DefaultEnabled:  true,
	}
}

func (MissingReturn) NewVisitor(p *Pass) Visitor { return &missingReturn{p: p} }

type missingReturn struct {
	BaseVisitor
	p *Pass
}

func (v *missingReturn) Enter(n ast.Node) {
	id, ok := n.Item()
	if !ok {
		return
	}
	b := v.p.Builder
	if it := b.Items.Get(id); it.Kind != ast.ItemFunction {
		return
	}
	r, _ := b.Items.Routine(id)
	// незакрытую функцию уже отметил парсер
	if !r.Closed || r.Name.Name == "" {
		return
	}
	isReturn := func(st *ast.Stmt) bool { return st.Kind == ast.StmtReturn }
	if !anyStmt(b, r.Body, isReturn, nil) {
		v.p.Diag(r.Name.Span, fmt.Sprintf("function %s has no RETURN", r.Name.Name)).
			WithNote(r.EndSpan, "control reaches ENDFCT here").
			Emit()
	}
}

// UnreachableCode: statements that follow RETURN, EXIT, HALT or GOTO in
// the same block. A label after the jump is a valid target and ends the
// unreachable run.
type UnreachableCode struct{}

func (UnreachableCode) Meta() Meta {
	return Meta{
		Code:            diag.KrlUnreachableCode,
		Name:            "unreachable-code",
		Description:     "statement after RETURN, EXIT, HALT or GOTO in the same block",
		DefaultSeverity: diag.SevWarning,
		DefaultEnabled:  true,
	}
}

func (UnreachableCode) NewVisitor(p *Pass) Visitor { return &unreachable{p: p} }

type unreachable struct {
	BaseVisitor
	p *Pass
}

func (v *unreachable) Enter(n ast.Node) {
	b := v.p.Builder
	switch n.Kind {
	case ast.NodeItem:
		id, _ := n.Item()
		if r, ok := b.Items.Routine(id); ok {
			v.check(r.Body)
		}
	case ast.NodeStmt:
		id, _ := n.Stmt()
		for _, body := range blocks(b, id) {
			v.check(body)
		}
	}
}

func (v *unreachable) check(list []ast.StmtID) {
	s := v.p.Builder.Stmts
	for i := 0; i+1 < len(list); i++ {
		st := s.Get(list[i])
		if st == nil || !st.Kind.Terminates() {
			continue
		}
		next := s.Get(list[i+1])
		if next == nil || next.Kind == ast.StmtLabel {
			continue
		}
		v.p.Diag(next.Span, "unreachable code after "+stmtKeywords[st.Kind]).
			WithNote(keywordSpan(st.Span, stmtKeywords[st.Kind]), "control leaves the block here").
			Emit()
		return
	}
}

// ConstantCondition: IF, WHILE or UNTIL on a literal TRUE or FALSE.
// WHILE TRUE is the usual endless loop and is allowed.
type ConstantCondition struct{}

func (ConstantCondition) Meta() Meta {
	return Meta{
		Code:            diag.KrlConstantCondition,
		Name:            "constant-condition",
		Description:     "IF, WHILE or UNTIL condition is a literal TRUE or FALSE",
		DefaultSeverity: diag.SevWarning,
		DefaultEnabled:  true,
	}
}

func (ConstantCondition) NewVisitor(p *Pass) Visitor { return &constantCondition{p: p} }

type constantCondition struct {
	BaseVisitor
	p *Pass
}

func (v *constantCondition) Enter(n ast.Node) {
	id, ok := n.Stmt()
	if !ok {
		return
	}
	s := v.p.Builder.Stmts
	st := s.Get(id)
	var (
		cond ast.ExprID
		what string
	)
	switch st.Kind {
	case ast.StmtIf:
		d, _ := s.If(id)
		cond, what = d.Cond, "IF"
	case ast.StmtWhile:
		d, _ := s.CondLoop(id)
		cond, what = d.Cond, "WHILE"
	case ast.StmtRepeat:
		d, _ := s.CondLoop(id)
		cond, what = d.Cond, "UNTIL"
	default:
		return
	}
	value, ok := v.boolLiteral(cond)
	if !ok || (st.Kind == ast.StmtWhile && value) {
		return
	}
	v.p.Report(v.p.Builder.Exprs.Get(cond).Span,
		fmt.Sprintf("%s condition is always %s", what, strings.ToUpper(fmt.Sprint(value))))
}

func (v *constantCondition) boolLiteral(id ast.ExprID) (value, ok bool) {
	e := v.p.Builder.Exprs
	lit, ok := e.Literal(e.Unparen(id))
	if !ok || lit.Kind != ast.ExprLitBool {
		return false, false
	}
	return v.p.SameName(lit.Text, "TRUE"), true
}

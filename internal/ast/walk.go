package ast

import "fmt"

// Visitor receives Enter before a node's children and Leave after them.
type Visitor interface {
	Enter(n Node)
	Leave(n Node)
}

// Walk traverses the tree rooted at file in source order.
//
// Order of children:
//   - file: items
//   - routine: params are not nodes; decls, then body
//   - data list: decls
//   - statements: sub-expressions in reading order, then nested bodies
//   - expressions: operands left to right
//
// Walk panics on a kind it does not know; adding a StmtKind or ExprKind
// without extending this file is a programming error.
func Walk(b *Builder, file FileID, v Visitor) {
	w := walker{b: b, v: v}
	w.file(file)
}

type walker struct {
	b *Builder
	v Visitor
}

func (w *walker) file(id FileID) {
	f := w.b.Files.Get(id)
	if f == nil {
		return
	}
	n := FileNode(id)
	w.v.Enter(n)
	for _, it := range f.Items {
		w.item(it)
	}
	w.v.Leave(n)
}

func (w *walker) item(id ItemID) {
	it := w.b.Items.Get(id)
	if it == nil {
		return
	}
	n := ItemNode(id)
	w.v.Enter(n)
	switch it.Kind {
	case ItemRoutine, ItemFunction:
		r, _ := w.b.Items.Routine(id)
		w.stmts(r.Decls)
		w.stmts(r.Body)
	case ItemDataList:
		d, _ := w.b.Items.DataList(id)
		w.stmts(d.Decls)
	default:
		panic(fmt.Sprintf("ast.Walk: unknown item kind %d", it.Kind))
	}
	w.v.Leave(n)
}

func (w *walker) stmts(ids []StmtID) {
	for _, id := range ids {
		w.stmt(id)
	}
}

func (w *walker) exprs(ids []ExprID) {
	for _, id := range ids {
		w.expr(id)
	}
}

func (w *walker) declVars(vars []DeclVar) {
	for _, dv := range vars {
		w.exprs(dv.Dims)
		w.expr(dv.Init)
	}
}

func (w *walker) stmt(id StmtID) {
	st := w.b.Stmts.Get(id)
	if st == nil {
		return
	}
	n := StmtNode(id)
	w.v.Enter(n)
	s := w.b.Stmts
	switch st.Kind {
	case StmtBad, StmtExit, StmtHalt, StmtContinue, StmtGoto, StmtLabel, StmtEnum:
		// нет дочерних узлов
	case StmtDecl:
		d, _ := s.Decl(id)
		w.declVars(d.Vars)
	case StmtStruc:
		d, _ := s.Struc(id)
		for _, f := range d.Fields {
			w.declVars(f.Names)
		}
	case StmtSignal:
		d, _ := s.Signal(id)
		w.expr(d.From)
		w.expr(d.To)
	case StmtAssign:
		d, _ := s.Assign(id)
		w.expr(d.Target)
		w.expr(d.Value)
	case StmtCall:
		d, _ := s.Call(id)
		w.expr(d.Call)
	case StmtIf:
		d, _ := s.If(id)
		w.expr(d.Cond)
		w.stmts(d.Then)
		w.stmts(d.Else)
	case StmtWhile:
		d, _ := s.CondLoop(id)
		w.expr(d.Cond)
		w.stmts(d.Body)
	case StmtRepeat:
		d, _ := s.CondLoop(id)
		w.stmts(d.Body)
		w.expr(d.Cond)
	case StmtFor:
		d, _ := s.For(id)
		w.expr(d.From)
		w.expr(d.To)
		w.expr(d.Step)
		w.stmts(d.Body)
	case StmtLoop:
		d, _ := s.Loop(id)
		w.stmts(d.Body)
	case StmtSwitch:
		d, _ := s.Switch(id)
		w.expr(d.Subject)
		for _, c := range d.Cases {
			w.exprs(c.Values)
			w.stmts(c.Body)
		}
		w.stmts(d.Default)
	case StmtReturn:
		d, _ := s.Return(id)
		w.expr(d.Value)
	case StmtWait:
		d, _ := s.Wait(id)
		w.expr(d.Value)
	case StmtMotion:
		d, _ := s.Motion(id)
		w.exprs(d.Args)
	case StmtInterrupt:
		d, _ := s.Interrupt(id)
		w.expr(d.Priority)
		w.expr(d.When)
		w.expr(d.Do)
		w.expr(d.Target)
	case StmtTrigger:
		d, _ := s.Trigger(id)
		w.expr(d.At)
		w.expr(d.Delay)
		w.stmt(d.Action)
		w.expr(d.Prio)
	default:
		panic(fmt.Sprintf("ast.Walk: unknown stmt kind %s", st.Kind))
	}
	w.v.Leave(n)
}

func (w *walker) expr(id ExprID) {
	ex := w.b.Exprs.Get(id)
	if ex == nil {
		return
	}
	n := ExprNode(id)
	w.v.Enter(n)
	e := w.b.Exprs
	switch ex.Kind {
	case ExprBad, ExprIdent, ExprLit:
	case ExprBinary:
		d, _ := e.Binary(id)
		w.expr(d.Left)
		w.expr(d.Right)
	case ExprUnary:
		d, _ := e.Unary(id)
		w.expr(d.Operand)
	case ExprCall:
		d, _ := e.Call(id)
		w.expr(d.Target)
		w.exprs(d.Args)
	case ExprIndex:
		d, _ := e.Index(id)
		w.expr(d.Target)
		w.exprs(d.Indices)
	case ExprMember:
		d, _ := e.Member(id)
		w.expr(d.Target)
	case ExprGroup:
		d, _ := e.Group(id)
		w.expr(d.Inner)
	case ExprStruct:
		d, _ := e.Struct(id)
		for _, f := range d.Fields {
			w.expr(f.Value)
		}
	default:
		panic(fmt.Sprintf("ast.Walk: unknown expr kind %s", ex.Kind))
	}
	w.v.Leave(n)
}

// Inspect calls fn for every node in pre-order.
func Inspect(b *Builder, file FileID, fn func(Node)) {
	Walk(b, file, inspector(fn))
}

type inspector func(Node)

func (f inspector) Enter(n Node) { f(n) }
func (f inspector) Leave(Node)   {}

package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"krllint/internal/ast"
	"krllint/internal/source"
)

// ASTNodeOutput is one node of the dumped tree. Role names the slot the node
// fills in its parent (cond, then, else, value...).
type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Kind     string          `json:"kind,omitempty"`
	Role     string          `json:"role,omitempty"`
	Text     string          `json:"text,omitempty"`
	Line     uint32          `json:"line"`
	Column   uint32          `json:"column"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

var interruptModeNames = map[ast.InterruptMode]string{
	ast.InterruptDecl:    "DECL",
	ast.InterruptOn:      "ON",
	ast.InterruptOff:     "OFF",
	ast.InterruptDisable: "DISABLE",
	ast.InterruptEnable:  "ENABLE",
}

type treeBuilder struct {
	b  *ast.Builder
	fs *source.FileSet
}

func (t treeBuilder) node(typ, kind, text string, sp source.Span) ASTNodeOutput {
	n := ASTNodeOutput{Type: typ, Kind: kind, Text: text}
	if t.fs != nil && int(sp.File) < t.fs.Len() {
		start, _ := t.fs.Resolve(sp)
		n.Line, n.Column = start.Line, start.Col
	}
	return n
}

// BuildASTOutput converts the file into a dump tree.
func BuildASTOutput(b *ast.Builder, fileID ast.FileID, fs *source.FileSet) (ASTNodeOutput, error) {
	file := b.Files.Get(fileID)
	if file == nil {
		return ASTNodeOutput{}, fmt.Errorf("file %d not found", fileID)
	}
	t := treeBuilder{b: b, fs: fs}
	header := ""
	if fs != nil {
		header = fs.DisplayPath(file.Span.File, source.PathShort)
	}
	root := t.node("File", "", header, file.Span)
	for _, attr := range file.Attrs {
		root.Children = append(root.Children, t.node("Attr", "", attr.Text, attr.Span))
	}
	for _, id := range file.Items {
		root.Children = append(root.Children, t.item(id))
	}
	return root, nil
}

func (t treeBuilder) item(id ast.ItemID) ASTNodeOutput {
	item := t.b.Items.Get(id)
	if item == nil {
		return ASTNodeOutput{Type: "Item", Text: "<nil>"}
	}
	if r, ok := t.b.Items.Routine(id); ok {
		text := r.Name.Name
		if r.Global {
			text = "GLOBAL " + text
		}
		n := t.node("Item", item.Kind.String(), text, item.Span)
		if item.Kind == ast.ItemFunction {
			ret := t.node("Type", "", r.ReturnType.Name, r.ReturnType.Span)
			ret.Role = "return"
			n.Children = append(n.Children, ret)
		}
		for _, pid := range r.Params {
			p := t.b.Items.Param(pid)
			name := p.Name.Name
			if p.IsArray {
				name += "[]"
			}
			n.Children = append(n.Children, t.node("Param", p.Dir.String(), name, p.Span))
		}
		n.Children = append(n.Children, t.section("decls", r.Decls)...)
		n.Children = append(n.Children, t.section("body", r.Body)...)
		if !r.Closed {
			n.Children = append(n.Children, ASTNodeOutput{Type: "Unclosed"})
		}
		return n
	}
	if d, ok := t.b.Items.DataList(id); ok {
		text := d.Name.Name
		if d.Public {
			text += " PUBLIC"
		}
		n := t.node("Item", item.Kind.String(), text, item.Span)
		n.Children = append(n.Children, t.section("decls", d.Decls)...)
		if !d.Closed {
			n.Children = append(n.Children, ASTNodeOutput{Type: "Unclosed"})
		}
		return n
	}
	return t.node("Item", item.Kind.String(), "", item.Span)
}

// section wraps a statement list into one node; empty lists are omitted.
func (t treeBuilder) section(role string, list []ast.StmtID) []ASTNodeOutput {
	if len(list) == 0 {
		return nil
	}
	var sp source.Span
	if first := t.b.Stmts.Get(list[0]); first != nil {
		sp = first.Span
	}
	n := t.node("Block", "", "", sp)
	n.Role = role
	for _, id := range list {
		n.Children = append(n.Children, t.stmt(id))
	}
	return []ASTNodeOutput{n}
}

func (t treeBuilder) with(n ASTNodeOutput, children ...ASTNodeOutput) ASTNodeOutput {
	for _, c := range children {
		if c.Type != "" {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

func (t treeBuilder) stmt(id ast.StmtID) ASTNodeOutput {
	st := t.b.Stmts.Get(id)
	if st == nil {
		return ASTNodeOutput{Type: "Stmt", Text: "<nil>"}
	}
	n := t.node("Stmt", st.Kind.String(), "", st.Span)
	s := t.b.Stmts

	switch st.Kind {
	case ast.StmtDecl:
		d, _ := s.Decl(id)
		var mods []string
		if d.Global {
			mods = append(mods, "GLOBAL")
		}
		if d.Const {
			mods = append(mods, "CONST")
		}
		if d.External {
			mods = append(mods, "EXTERNAL")
		}
		n.Text = strings.TrimSpace(strings.Join(mods, " ") + " " + d.Type.Name)
		for _, v := range d.Vars {
			vn := t.node("Var", "", v.Name.Name, v.Name.Span)
			for _, dim := range v.Dims {
				vn = t.with(vn, t.expr(dim, "dim"))
			}
			n.Children = append(n.Children, t.with(vn, t.expr(v.Init, "init")))
		}
	case ast.StmtEnum:
		e, _ := s.Enum(id)
		n.Text = e.Name.Name
		for _, m := range e.Members {
			n.Children = append(n.Children, t.node("Member", "", m.Name, m.Span))
		}
	case ast.StmtStruc:
		d, _ := s.Struc(id)
		n.Text = d.Name.Name
		for _, f := range d.Fields {
			for _, v := range f.Names {
				n.Children = append(n.Children, t.node("Field", f.Type.Name, v.Name.Name, v.Name.Span))
			}
		}
	case ast.StmtSignal:
		d, _ := s.Signal(id)
		n.Text = d.Name.Name
		n = t.with(n, t.expr(d.From, "from"), t.expr(d.To, "to"))
	case ast.StmtAssign:
		d, _ := s.Assign(id)
		n = t.with(n, t.expr(d.Target, "target"), t.expr(d.Value, "value"))
	case ast.StmtCall:
		d, _ := s.Call(id)
		n = t.with(n, t.expr(d.Call, ""))
	case ast.StmtIf:
		d, _ := s.If(id)
		n = t.with(n, t.expr(d.Cond, "cond"))
		n.Children = append(n.Children, t.section("then", d.Then)...)
		n.Children = append(n.Children, t.section("else", d.Else)...)
	case ast.StmtWhile, ast.StmtRepeat:
		d, _ := s.CondLoop(id)
		n = t.with(n, t.expr(d.Cond, "cond"))
		n.Children = append(n.Children, t.section("body", d.Body)...)
	case ast.StmtFor:
		d, _ := s.For(id)
		n.Text = d.Var.Name
		n = t.with(n, t.expr(d.From, "from"), t.expr(d.To, "to"), t.expr(d.Step, "step"))
		n.Children = append(n.Children, t.section("body", d.Body)...)
	case ast.StmtLoop:
		d, _ := s.Loop(id)
		n.Children = append(n.Children, t.section("body", d.Body)...)
	case ast.StmtSwitch:
		d, _ := s.Switch(id)
		n = t.with(n, t.expr(d.Subject, "subject"))
		for _, c := range d.Cases {
			cn := t.node("Case", "", "", c.Span)
			for _, v := range c.Values {
				cn = t.with(cn, t.expr(v, "value"))
			}
			cn.Children = append(cn.Children, t.section("body", c.Body)...)
			n.Children = append(n.Children, cn)
		}
		if d.HasDefault {
			dn := t.node("Default", "", "", d.DefaultSpan)
			dn.Children = t.section("body", d.Default)
			n.Children = append(n.Children, dn)
		}
	case ast.StmtReturn:
		d, _ := s.Return(id)
		n = t.with(n, t.expr(d.Value, "value"))
	case ast.StmtWait:
		d, _ := s.Wait(id)
		n.Text = "FOR"
		if d.Sec {
			n.Text = "SEC"
		}
		n = t.with(n, t.expr(d.Value, "value"))
	case ast.StmtGoto, ast.StmtLabel:
		d, _ := s.Jump(id)
		n.Text = d.Label.Name
	case ast.StmtMotion:
		d, _ := s.Motion(id)
		n.Text = d.Instr.Name
		if d.Approx.Name != "" {
			n.Text += " " + d.Approx.Name
		}
		for _, a := range d.Args {
			n = t.with(n, t.expr(a, "arg"))
		}
	case ast.StmtInterrupt:
		d, _ := s.Interrupt(id)
		n.Text = interruptModeNames[d.Mode]
		if d.Global {
			n.Text = "GLOBAL " + n.Text
		}
		n = t.with(n, t.expr(d.Priority, "prio"), t.expr(d.When, "when"), t.expr(d.Do, "do"), t.expr(d.Target, "target"))
	case ast.StmtTrigger:
		d, _ := s.Trigger(id)
		n.Text = d.When.Name
		n = t.with(n, t.expr(d.At, "at"), t.expr(d.Delay, "delay"))
		if d.Action != ast.NoStmtID {
			action := t.stmt(d.Action)
			action.Role = "do"
			n.Children = append(n.Children, action)
		}
		n = t.with(n, t.expr(d.Prio, "prio"))
	}
	return n
}

// expr returns a zero node for an absent expression; with() skips those.
func (t treeBuilder) expr(id ast.ExprID, role string) ASTNodeOutput {
	e := t.b.Exprs.Get(id)
	if e == nil {
		return ASTNodeOutput{}
	}
	n := t.node("Expr", e.Kind.String(), "", e.Span)
	n.Role = role
	x := t.b.Exprs

	switch e.Kind {
	case ast.ExprIdent:
		d, _ := x.Ident(id)
		n.Text = d.Name
	case ast.ExprLit:
		d, _ := x.Literal(id)
		n.Kind = "Lit:" + d.Kind.String()
		n.Text = d.Text
	case ast.ExprBinary:
		d, _ := x.Binary(id)
		n.Text = d.Op.String()
		n = t.with(n, t.expr(d.Left, ""), t.expr(d.Right, ""))
	case ast.ExprUnary:
		d, _ := x.Unary(id)
		n.Text = d.Op.String()
		n = t.with(n, t.expr(d.Operand, ""))
	case ast.ExprCall:
		d, _ := x.Call(id)
		n = t.with(n, t.expr(d.Target, "callee"))
		for _, a := range d.Args {
			n = t.with(n, t.expr(a, "arg"))
		}
	case ast.ExprIndex:
		d, _ := x.Index(id)
		n = t.with(n, t.expr(d.Target, "target"))
		for _, i := range d.Indices {
			n = t.with(n, t.expr(i, "index"))
		}
	case ast.ExprMember:
		d, _ := x.Member(id)
		n.Text = d.Field.Name
		n = t.with(n, t.expr(d.Target, "target"))
	case ast.ExprGroup:
		d, _ := x.Group(id)
		n = t.with(n, t.expr(d.Inner, ""))
	case ast.ExprStruct:
		d, _ := x.Struct(id)
		n.Text = d.Type.Name
		for _, f := range d.Fields {
			n = t.with(n, t.expr(f.Value, f.Name.Name))
		}
	}
	return n
}

// FormatASTPretty prints the tree with box-drawing connectors.
func FormatASTPretty(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	root, err := BuildASTOutput(builder, fileID, fs)
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString(nodeLabel(root))
	b.WriteByte('\n')
	writeChildren(&b, root.Children, "")
	_, err = io.WriteString(w, b.String())
	return err
}

func writeChildren(b *strings.Builder, children []ASTNodeOutput, prefix string) {
	for i, c := range children {
		branch, indent := "├─ ", "│  "
		if i == len(children)-1 {
			branch, indent = "└─ ", "   "
		}
		b.WriteString(prefix)
		b.WriteString(branch)
		b.WriteString(nodeLabel(c))
		b.WriteByte('\n')
		writeChildren(b, c.Children, prefix+indent)
	}
}

func nodeLabel(n ASTNodeOutput) string {
	var b strings.Builder
	if n.Role != "" {
		b.WriteString(n.Role)
		b.WriteString(": ")
	}
	b.WriteString(n.Type)
	if n.Kind != "" {
		fmt.Fprintf(&b, "(%s)", n.Kind)
	}
	if n.Text != "" {
		fmt.Fprintf(&b, " %q", n.Text)
	}
	if n.Line > 0 {
		fmt.Fprintf(&b, " @%d:%d", n.Line, n.Column)
	}
	return b.String()
}

// FormatASTJSON writes the tree as indented JSON.
func FormatASTJSON(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	root, err := BuildASTOutput(builder, fileID, fs)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root)
}

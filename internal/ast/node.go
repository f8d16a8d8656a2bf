package ast

import (
	"fmt"

	"krllint/internal/source"
)

type NodeKind uint8

const (
	NodeFile NodeKind = iota
	NodeItem
	NodeStmt
	NodeExpr
)

func (k NodeKind) String() string {
	switch k {
	case NodeFile:
		return "File"
	case NodeItem:
		return "Item"
	case NodeStmt:
		return "Stmt"
	case NodeExpr:
		return "Expr"
	default:
		return "NodeKind(?)"
	}
}

// Node is a tagged handle to any tree element. It is a value type and
// does not own the element; use Builder accessors to read payloads.
type Node struct {
	Kind NodeKind
	ID   uint32
}

func FileNode(id FileID) Node { return Node{Kind: NodeFile, ID: uint32(id)} }
func ItemNode(id ItemID) Node { return Node{Kind: NodeItem, ID: uint32(id)} }
func StmtNode(id StmtID) Node { return Node{Kind: NodeStmt, ID: uint32(id)} }
func ExprNode(id ExprID) Node { return Node{Kind: NodeExpr, ID: uint32(id)} }

func (n Node) File() (FileID, bool) { return FileID(n.ID), n.Kind == NodeFile }
func (n Node) Item() (ItemID, bool) { return ItemID(n.ID), n.Kind == NodeItem }
func (n Node) Stmt() (StmtID, bool) { return StmtID(n.ID), n.Kind == NodeStmt }
func (n Node) Expr() (ExprID, bool) { return ExprID(n.ID), n.Kind == NodeExpr }

func (n Node) String() string {
	return fmt.Sprintf("%s#%d", n.Kind, n.ID)
}

// Span returns the source span of the node, or an empty span if the id is stale.
func (b *Builder) Span(n Node) source.Span {
	switch n.Kind {
	case NodeFile:
		if f := b.Files.Get(FileID(n.ID)); f != nil {
			return f.Span
		}
	case NodeItem:
		if it := b.Items.Get(ItemID(n.ID)); it != nil {
			return it.Span
		}
	case NodeStmt:
		if st := b.Stmts.Get(StmtID(n.ID)); st != nil {
			return st.Span
		}
	case NodeExpr:
		if ex := b.Exprs.Get(ExprID(n.ID)); ex != nil {
			return ex.Span
		}
	}
	return source.Span{}
}

package ast

import (
	"krllint/internal/source"
)

// Hints are initial arena capacities; zero picks a small default.
type Hints struct{ Files, Items, Stmts, Exprs uint }

// HintsFor sizes the arenas for src. KRL carries about one statement per
// line and two or three expressions per statement.
func HintsFor(src *source.File) Hints {
	lines := uint(src.LineCount())
	return Hints{Files: 1, Items: 1 + lines/64, Stmts: lines, Exprs: 3 * lines}
}

// Builder owns every arena of one parse. The parser is the only writer;
// after ParseFile returns the tree is treated as read-only.
type Builder struct {
	Files *Files
	Items *Items
	Stmts *Stmts
	Exprs *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1
	}
	if hints.Items == 0 {
		hints.Items = 1 << 3
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 9
	}
	return &Builder{
		Files: NewFiles(hints.Files),
		Items: NewItems(hints.Items),
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
	}
}

// NewFile opens the root node for a parse covering sp.
func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

// PushItem appends a top-level DEF, DEFFCT or DEFDAT to file.
func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.Files.Get(file)
	f.Items = append(f.Items, item)
}

// Package testkit holds checks shared by parser, lint and fuzz tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"krllint/internal/ast"
	"krllint/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) every node span belongs to sf and lies within its content
// 2) every item span lies within the file span
// 3) items follow each other in source order without overlapping
//
// Recovered input is allowed; the checks hold for broken files too.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	// 1) все узлы дерева
	v := &spanChecker{b: b, file: sf.ID, size: size}
	ast.Walk(b, fileID, v)
	if v.err != nil {
		return v.err
	}

	// 2) и 3) элементы файла
	var prev source.Span
	for i, it := range f.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		sp := item.Span
		if sp.Start < f.Span.Start || sp.End > f.Span.End {
			return fmt.Errorf("item span %v is outside file span %v", sp, f.Span)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("item span %v overlaps previous item %v", sp, prev)
		}
		prev = sp
	}
	return nil
}

type spanChecker struct {
	b    *ast.Builder
	file source.FileID
	size uint32
	err  error
}

func (c *spanChecker) Enter(n ast.Node) {
	if c.err != nil {
		return
	}
	sp := c.b.Span(n)
	switch {
	case sp.File != c.file:
		c.err = fmt.Errorf("%v: span points to file %d, want %d", n.Kind, sp.File, c.file)
	case sp.End < sp.Start:
		c.err = fmt.Errorf("%v: inverted span %v", n.Kind, sp)
	case sp.End > c.size:
		c.err = fmt.Errorf("%v: span %v ends beyond content (%d bytes)", n.Kind, sp, c.size)
	}
}

func (c *spanChecker) Leave(ast.Node) {}

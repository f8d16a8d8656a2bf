package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"krllint/internal/source"
)

// byteClass is a bit set over the ASCII classes the scanner branches on.
// KRL names are ASCII only; bytes >= 0x80 have no class.
type byteClass uint8

const (
	classIdentStart byteClass = 1 << iota // A-Z a-z _ $
	classDigit                            // 0-9
	classHex                              // 0-9 A-F a-f
	classBit                              // 0 1
	classSpace                            // ' ' '\t' '\r' '\f'
)

var byteClasses = func() (t [256]byteClass) {
	for c := 'A'; c <= 'Z'; c++ {
		t[c] |= classIdentStart
		t[c+'a'-'A'] |= classIdentStart
	}
	t['_'] |= classIdentStart
	t['$'] |= classIdentStart
	for c := '0'; c <= '9'; c++ {
		t[c] |= classDigit | classHex
	}
	for c := 'A'; c <= 'F'; c++ {
		t[c] |= classHex
		t[c+'a'-'A'] |= classHex
	}
	t['0'] |= classBit
	t['1'] |= classBit
	for _, c := range " \t\r\f" {
		t[c] |= classSpace
	}
	return t
}()

func (c byteClass) has(b byte) bool { return byteClasses[b]&c != 0 }

func isIdentStartByte(b byte) bool    { return classIdentStart.has(b) }
func isIdentContinueByte(b byte) bool { return (classIdentStart | classDigit).has(b) }
func isDec(b byte) bool               { return classDigit.has(b) }

// Cursor walks the bytes of one file. Off never passes Limit.
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32 // exclusive, len(File.Content) unless narrowed
}

func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("lexer: file %q too large: %w", f.Path, err))
	}
	return Cursor{File: f, Limit: limit}
}

func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// Peek returns the current byte, 0 at EOF.
func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt looks n bytes ahead without moving; 0 past the limit.
func (c *Cursor) PeekAt(n uint32) byte {
	if n >= c.Limit || c.Off >= c.Limit-n {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Bump consumes one byte and returns it; 0 at EOF.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.File.Content[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// Match consumes s if the input continues with it byte for byte.
func (c *Cursor) Match(s string) bool {
	n := uint32(len(s))
	if c.Limit-c.Off < n || string(c.File.Content[c.Off:c.Off+n]) != s {
		return false
	}
	c.Off += n
	return true
}

// SkipWhile consumes bytes of the given classes and returns how many.
func (c *Cursor) SkipWhile(class byteClass) int {
	n := 0
	for !c.EOF() && class.has(c.File.Content[c.Off]) {
		c.Off++
		n++
	}
	return n
}

// SkipToEOL stops on the '\n', not after it.
func (c *Cursor) SkipToEOL() {
	for !c.EOF() && c.File.Content[c.Off] != '\n' {
		c.Off++
	}
}

// Rest is the unread input.
func (c *Cursor) Rest() []byte { return c.File.Content[c.Off:c.Limit] }

// Mark is a saved offset.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

// SpanFrom covers everything consumed since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

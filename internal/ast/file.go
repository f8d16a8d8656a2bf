package ast

import (
	"krllint/internal/source"
)

// FileAttr is a header line such as "&ACCESS RVP".
type FileAttr struct {
	Text string
	Span source.Span
}

type File struct {
	Span  source.Span
	Attrs []FileAttr
	Items []ItemID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena: NewArena[File](capHint),
	}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Push(File{
		Span:  sp,
		Items: make([]ItemID, 0),
	}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}

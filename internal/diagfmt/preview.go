package diagfmt

import (
	"strings"

	"krllint/internal/diag"
	"krllint/internal/source"
)

// previewEdit returns the whole lines an edit touches, as they read now
// and after the edit. ok is false for an edit that does not fit its file.
func previewEdit(fs *source.FileSet, edit diag.TextEdit) (before, after []string, ok bool) {
	sp := edit.Span
	if fs == nil || int(sp.File) >= fs.Len() || sp.End < sp.Start {
		return nil, nil, false
	}
	file := fs.Get(sp.File)
	if sp.End > file.Size() {
		return nil, nil, false
	}

	first, last := fs.Resolve(sp)
	lo := file.LineSpan(first.Line).Start
	hi := file.LineSpan(max(first.Line, last.Line)).End
	if hi < file.Size() {
		hi++ // '\n'
	}
	if sp.Start < lo || sp.End > hi {
		return nil, nil, false
	}

	block := file.Content[lo:hi]
	var edited strings.Builder
	edited.Grow(len(block) + len(edit.NewText))
	edited.Write(block[:sp.Start-lo])
	edited.WriteString(edit.NewText)
	edited.Write(block[sp.End-lo:])
	return previewLines(string(block)), previewLines(edited.String()), true
}

// previewLines splits without the final newline; a deleted line leaves nil.
func previewLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

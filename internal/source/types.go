package source

import "bytes"

// FileID indexes a file inside its FileSet.
type FileID uint32

// FileFlags records how a file entered the set.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // from memory, never written back
	FileHadBOM                               // UTF-8 BOM stripped on load
	FileNormalizedCRLF                       // CRLF folded into LF on load
)

// File is one KRL source as the lexer sees it: BOM removed, LF line ends.
// Spans are byte offsets into Content.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offset of each '\n'
	Hash    [32]byte // SHA-256 of Content
	Flags   FileFlags
}

// LineCol is a 1-based position; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

func (f *File) Virtual() bool { return f.Flags&FileVirtual != 0 }

// Size is len(Content) as an offset.
func (f *File) Size() uint32 { return uint32(len(f.Content)) }

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	lf      = []byte{'\n'}
	crlf    = []byte{'\r', '\n'}
)

// Encode turns normalized content back into the on-disk form the file was
// loaded from. CRLF line ends and the BOM come back if they were there.
func (f *File) Encode(content []byte) []byte {
	if f.Flags&FileNormalizedCRLF != 0 {
		content = bytes.ReplaceAll(content, lf, crlf)
	}
	if f.Flags&FileHadBOM != 0 {
		content = append(append([]byte(nil), utf8BOM...), content...)
	}
	return content
}

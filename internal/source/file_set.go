package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns the sources of one run and maps spans back to lines.
//
// FileSet is not safe for concurrent mutation. The driver loads every file up
// front and only reads from the set once workers are running.
type FileSet struct {
	files   []File
	latest  map[string]FileID // normalized path -> newest version
	baseDir string            // для относительных путей в отчётах
}

func NewFileSet() *FileSet {
	return &FileSet{latest: make(map[string]FileID)}
}

// NewFileSetWithBase makes relative report paths start at baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir falls back to the working directory when none was set.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, _ := os.Getwd()
	return wd
}

func (fs *FileSet) Len() int { return len(fs.files) }

// Add stores content as is. Adding a path again creates a new version with
// a new ID; older IDs stay valid.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: too many files: %w", err))
	}
	id := FileID(n)
	path = normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.latest[path] = id
	return id
}

// Load reads path and stores it normalized. Controller exports are usually
// CRLF-terminated.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fs.AddNormalized(path, content), nil
}

// AddNormalized strips a UTF-8 BOM and folds CRLF into LF, remembering both
// in the flags so File.Encode can undo them.
func (fs *FileSet) AddNormalized(path string, content []byte) FileID {
	var flags FileFlags
	if rest, ok := stripBOM(content); ok {
		content, flags = rest, flags|FileHadBOM
	}
	if lf, ok := normalizeCRLF(content); ok {
		content, flags = lf, flags|FileNormalizedCRLF
	}
	return fs.Add(path, content, flags)
}

// AddVirtual stores in-memory content that fixes never write back.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

func (fs *FileSet) Get(id FileID) *File { return &fs.files[id] }

// GetLatest finds the newest version of path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.latest[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into line and column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	idx := fs.files[span.File].LineIdx
	return toLineCol(idx, span.Start), toLineCol(idx, span.End)
}

// Position resolves a single offset of file id.
func (fs *FileSet) Position(id FileID, off uint32) LineCol {
	return toLineCol(fs.files[id].LineIdx, off)
}

// DisplayPath renders the path of file id for a report.
func (fs *FileSet) DisplayPath(id FileID, style PathStyle) string {
	base := ""
	if style == PathRelative {
		base = fs.BaseDir()
	}
	return fs.files[id].DisplayPath(style, base)
}

// LineCount does not count the empty line after a final newline.
func (f *File) LineCount() uint32 {
	if len(f.Content) == 0 {
		return 0
	}
	n := uint32(len(f.LineIdx))
	if f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}

// LineSpan covers line (1-based) without its newline. Lines past the end
// give an empty span at the end of the file; line 0 gives offset 0.
func (f *File) LineSpan(line uint32) Span {
	size := f.Size()
	if line == 0 {
		return Span{File: f.ID}
	}
	start, end := uint32(0), size
	if line > 1 {
		if int(line-2) >= len(f.LineIdx) {
			return Span{File: f.ID, Start: size, End: size}
		}
		start = f.LineIdx[line-2] + 1
	}
	if int(line-1) < len(f.LineIdx) {
		end = f.LineIdx[line-1]
	}
	return Span{File: f.ID, Start: start, End: end}
}

// GetLine returns the text of line (1-based), "" when there is none.
func (f *File) GetLine(line uint32) string {
	sp := f.LineSpan(line)
	return string(f.Content[sp.Start:sp.End])
}

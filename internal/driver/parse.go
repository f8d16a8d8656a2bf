package driver

import (
	"context"

	"fortio.org/safecast"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/lexer"
	"krllint/internal/parser"
	"krllint/internal/source"
	"krllint/internal/token"
)

// Single is one file run through part of the pipeline by the tokenize and
// parse commands. Diagnostics of that part land in Bag.
type Single struct {
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag
}

// TokenizeResult is the token stream of one file.
type TokenizeResult struct {
	Single
	Tokens []token.Token
}

// ParseResult is the syntax tree of one file.
type ParseResult struct {
	Single
	Builder *ast.Builder
	FileID  ast.FileID
}

func loadSingle(path string, maxDiagnostics int) (Single, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return Single{}, err
	}
	return Single{FileSet: fs, File: fs.Get(id), Bag: diag.NewBag(maxDiagnostics)}, nil
}

// Tokenize lexes path to EOF.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	one, err := loadSingle(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	tokens := lexer.Tokenize(one.File, lexer.Options{Reporter: diag.BagReporter{Bag: one.Bag}})
	return &TokenizeResult{Single: one, Tokens: tokens}, nil
}

// Parse builds the tree of path. maxDiagnostics also caps the parser's
// error count; 0 means no limit.
func Parse(ctx context.Context, path string, maxDiagnostics int) (*ParseResult, error) {
	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}
	one, err := loadSingle(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	reporter := diag.BagReporter{Bag: one.Bag}
	lx := lexer.New(one.File, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.HintsFor(one.File))
	res := parser.ParseFile(ctx, one.FileSet, lx, builder, parser.Options{Reporter: reporter, MaxErrors: maxErrors})
	return &ParseResult{Single: one, Builder: builder, FileID: res.File}, nil
}

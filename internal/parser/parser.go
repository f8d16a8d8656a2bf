package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/lexer"
	"krllint/internal/source"
	"krllint/internal/token"
	"krllint/internal/trace"
)

const DefaultMaxDepth = 200

// FileKind selects the structural checks run after parsing.
type FileKind uint8

const (
	FileKindAuto   FileKind = iota // по расширению пути
	FileKindSource                 // .src, .sub
	FileKindData                   // .dat
	FileKindAny                    // без структурных проверок
)

// KindFromPath maps a file extension to its FileKind.
func KindFromPath(path string) FileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".src", ".sub":
		return FileKindSource
	case ".dat":
		return FileKindData
	default:
		return FileKindAny
	}
}

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	MaxDepth      int
	Kind          FileKind
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx     *lexer.Lexer
	arenas *ast.Builder
	file   ast.FileID
	fs     *source.FileSet
	opts   Options

	look     []token.Token // буфер просмотра вперёд поверх лексера
	lastSpan source.Span   // span последнего съеденного токена для лучшей диагностики

	// recovering is set by fail and cleared by resyncStmt/resyncTop.
	// While it is set, further syntax errors are not reported.
	recovering bool

	depth     int
	exprDepth int
	blocks    []frame // открытые конструкции, самая вложенная последняя

	lineStart  bool
	sawContent bool
}

// ParseFile — входная точка для разбора одного файла.
// Требует уже созданный lexer (на основе source.File).
func ParseFile(
	ctx context.Context,
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Kind == FileKindAuto {
		opts.Kind = KindFromPath(lx.File().Path)
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", trace.CurrentSpan(ctx).SpanID)

	empty := source.Span{File: lx.File().ID}
	p := Parser{
		lx:        lx,
		arenas:    arenas,
		file:      arenas.NewFile(empty),
		fs:        fs,
		opts:      opts,
		lastSpan:  empty,
		lineStart: true,
	}

	p.parseItems(ctx)
	p.checkStructure()

	span.WithExtra("errors", fmt.Sprint(p.opts.CurrentErrors)).End(lx.File().Path)
	return Result{
		File:   p.file,
		Errors: p.opts.CurrentErrors,
	}
}

// parseItems — основной цикл верхнего уровня: пока не EOF — parseItem.
func (p *Parser) parseItems(ctx context.Context) {
	f := p.arenas.Files.Get(p.file)
	startSpan := p.peek().Span
	for !p.at(token.EOF) {
		if ctx.Err() != nil {
			break
		}
		tok := p.peek()
		switch tok.Kind {
		case token.Newline:
			p.advance()
		case token.FileAttr:
			p.advance()
			f.Attrs = append(f.Attrs, ast.FileAttr{Text: tok.Text, Span: tok.Span})
			p.expectEOL("file attribute")
		default:
			itemID, ok := p.parseItem()
			if !ok {
				p.resyncTop()
				continue
			}
			p.arenas.PushItem(p.file, itemID)
		}
	}
	f.Span = startSpan.Cover(p.peek().Span)
}

// parseItem выбирает по первому токену нужный распознаватель top-level конструкции.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	switch p.peek().Kind {
	case token.KwDef, token.KwDefFct:
		return p.parseRoutine()
	case token.KwDefDat:
		return p.parseDataList()
	case token.KwGlobal:
		if p.atItemStart() {
			return p.parseRoutine()
		}
	}
	tok := p.peek()
	p.fail(diag.SynUnexpectedTopLevel, tok.Span,
		fmt.Sprintf("unexpected %s outside of DEF, DEFFCT or DEFDAT", describe(tok)))
	return ast.NoItemID, false
}

// atItemStart reports whether the next tokens begin a routine, function or data list.
func (p *Parser) atItemStart() bool {
	switch p.peek().Kind {
	case token.KwDef, token.KwDefFct, token.KwDefDat:
		return true
	case token.KwGlobal:
		next := p.peekAt(1).Kind
		return next == token.KwDef || next == token.KwDefFct
	default:
		return false
	}
}

// resyncTop — восстановление после ошибки на верхнем уровне:
// съедаем хотя бы один токен, затем прокручиваем до начала следующего item или EOF.
func (p *Parser) resyncTop() {
	if !p.at(token.EOF) {
		p.advance()
	}
	for !p.at(token.EOF) && !p.atItemStart() {
		p.advance()
	}
	p.recovering = false
}

// checkStructure reports files that lack the definitions their extension requires.
func (p *Parser) checkStructure() {
	if !p.sawContent {
		return
	}
	f := p.arenas.Files.Get(p.file)
	at := source.Span{File: p.lx.File().ID}

	switch p.opts.Kind {
	case FileKindSource:
		routines := 0
		for _, id := range f.Items {
			item := p.arenas.Items.Get(id)
			switch item.Kind {
			case ast.ItemRoutine, ast.ItemFunction:
				routines++
			case ast.ItemDataList:
				dl, _ := p.arenas.Items.DataList(id)
				p.errAt(diag.SynUnexpectedTopLevel, dl.HeaderSpan, "DEFDAT is only allowed in a .dat file")
			}
		}
		if routines == 0 {
			p.errAt(diag.SynNoRoutine, at, "no module or function definition found")
		}
	case FileKindData:
		var lists []ast.ItemID
		for _, id := range f.Items {
			item := p.arenas.Items.Get(id)
			if item.Kind == ast.ItemDataList {
				lists = append(lists, id)
				continue
			}
			r, _ := p.arenas.Items.Routine(id)
			p.errAt(diag.SynUnexpectedTopLevel, r.HeaderSpan, "routine definitions are not allowed in a .dat file")
		}
		switch {
		case len(lists) == 0:
			p.errAt(diag.SynNoDataList, at, "no data definition found")
		case len(lists) > 1:
			for _, id := range lists[1:] {
				dl, _ := p.arenas.Items.DataList(id)
				p.errAt(diag.SynMultipleDataLists, dl.HeaderSpan, "more than one data definition found")
			}
		}
	}
}

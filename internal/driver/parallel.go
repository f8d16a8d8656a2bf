package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/lexer"
	"krllint/internal/lint"
	"krllint/internal/observ"
	"krllint/internal/parser"
	"krllint/internal/pipeline"
	"krllint/internal/source"
	"krllint/internal/trace"
)

// errFailFast stops the group after the first tool failure.
var errFailFast = errors.New("fail-fast: stopping after tool failure")

// loaded is an input after preloading. A file that could not be read is
// registered as an empty virtual file so its IO4001 diagnostic has a path.
type loaded struct {
	path    string
	file    source.FileID
	loadErr error
}

func loadInput(fs *source.FileSet, in input) loaded {
	if in.err != nil {
		return loaded{path: in.path, file: fs.AddVirtual(in.path, nil), loadErr: in.err}
	}
	id, err := fs.Load(in.path)
	if err != nil {
		return loaded{path: in.path, file: fs.AddVirtual(in.path, nil), loadErr: err}
	}
	return loaded{path: in.path, file: id}
}

type workers struct {
	fs          *source.FileSet
	rules       []lint.Configured
	cache       *DiskCache
	fingerprint Digest
	progress    pipeline.ProgressSink
	failFast    bool
}

// run analyzes files with at most jobs goroutines. Each goroutine writes
// only its own results slot. With failFast the first tool failure cancels
// the rest: files not started by then are marked skipped.
func (w *workers) run(ctx context.Context, files []loaded, jobs int) ([]FileResult, error) {
	// Настраиваем параллелизм
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, f := range files {
		g.Go(func() error {
			// Проверка отмены
			if gctx.Err() != nil {
				results[i] = w.skipped(f)
				return nil
			}
			results[i] = w.analyze(gctx, f)
			if w.failFast && results[i].Status == pipeline.StatusError {
				return errFailFast
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, errFailFast) {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (w *workers) skipped(f loaded) FileResult {
	pipeline.Emit(w.progress, pipeline.Event{File: f.path, Stage: pipeline.StageLoad, Status: pipeline.StatusSkipped})
	return FileResult{Path: f.path, File: f.file, Status: pipeline.StatusSkipped}
}

// analyze runs one file through lexer, parser and rule engine. A panic
// anywhere in the pipeline becomes an IO4002 diagnostic on the file.
func (w *workers) analyze(ctx context.Context, f loaded) (res FileResult) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "file", trace.CurrentSpan(ctx).SpanID)
	ctx = trace.ContextWithSpan(ctx, span)
	started := time.Now()

	res = FileResult{Path: f.path, File: f.file, Status: pipeline.StatusDone, timer: observ.NewTimer()}
	defer func() {
		if r := recover(); r != nil {
			trace.Point(tracer, trace.ScopeFile, "panic", span.ID(), string(debug.Stack()))
			res.Diagnostics = append(res.Diagnostics, diag.New(diag.SevError, diag.IOInternalError,
				source.Span{File: f.file}, fmt.Sprintf("internal error: %v", r)))
			res.Status = pipeline.StatusError
		}
		pipeline.Emit(w.progress, pipeline.Event{
			File:     f.path,
			Stage:    pipeline.StageLint,
			Status:   res.Status,
			Findings: len(res.Diagnostics),
			Elapsed:  time.Since(started),
		})
		span.WithExtra("status", string(res.Status)).End(f.path)
	}()

	if f.loadErr != nil {
		res.Diagnostics = []diag.Diagnostic{diag.New(diag.SevError, diag.IOLoadFileError,
			source.Span{File: f.file}, "cannot read file: "+f.loadErr.Error())}
		res.Status = pipeline.StatusError
		return res
	}

	file := w.fs.Get(f.file)
	var key Digest
	if w.cache != nil {
		key = cacheKey(file.Hash, w.fingerprint)
		if diags, ok := w.fromCache(tracer, key, f, span.ID()); ok {
			res.Diagnostics = diags
			res.Status = pipeline.StatusCached
			return res
		}
	}

	pipeline.Emit(w.progress, pipeline.Event{File: f.path, Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
	bag := diag.NewBag(0)
	reporter := &diag.CountingReporter{Next: diag.BagReporter{Bag: bag}}

	phase := res.timer.Begin("parse")
	lx := lexer.New(file, lexer.Options{Reporter: reporter, KeepTokens: true})
	builder := ast.NewBuilder(ast.HintsFor(file))
	parsed := parser.ParseFile(ctx, w.fs, lx, builder, parser.Options{Reporter: reporter})
	res.timer.End(phase, "")
	span.WithExtra("syntax-errors", fmt.Sprint(reporter.Errors()))

	if err := ctx.Err(); err != nil {
		res.Status = pipeline.StatusSkipped
		res.Diagnostics = nil
		return res
	}

	pipeline.Emit(w.progress, pipeline.Event{File: f.path, Stage: pipeline.StageLint, Status: pipeline.StatusWorking})
	phase = res.timer.Begin("lint")
	unit := &lint.Unit{Builder: builder, File: parsed.File, Source: file, Tokens: lx.Tokens()}
	findings, err := lint.Analyze(ctx, unit, w.rules)
	res.timer.End(phase, "")
	if findings != nil {
		bag.Merge(findings)
	}
	if err != nil {
		if ctx.Err() != nil {
			res.Status = pipeline.StatusSkipped
			res.Diagnostics = nil
			return res
		}
		res.Status = pipeline.StatusError
		for _, e := range unwrapJoined(err) {
			bag.Add(internalError(builder, f.file, e))
		}
	}

	res.Diagnostics = bag.Finalize()
	if w.cache != nil && res.Status == pipeline.StatusDone {
		payload := &DiskPayload{Path: f.path, Diagnostics: detach(res.Diagnostics)}
		if err := w.cache.Put(key, payload); err != nil {
			trace.Point(tracer, trace.ScopeFile, "cache-write-failed", span.ID(), err.Error())
		}
	}
	return res
}

// fromCache loads a stored result. An unreadable entry is a miss; the file
// is analyzed again and the entry rewritten.
func (w *workers) fromCache(tracer trace.Tracer, key Digest, f loaded, parent uint64) ([]diag.Diagnostic, bool) {
	var payload DiskPayload
	ok, err := w.cache.Get(key, &payload)
	if err != nil {
		trace.Point(tracer, trace.ScopeFile, "cache-read-failed", parent, err.Error())
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return rebind(payload.Diagnostics, f.file), true
}

// internalError turns a crashed rule into a tool failure on the file.
func internalError(b *ast.Builder, file source.FileID, err error) diag.Diagnostic {
	var perr *lint.PanicError
	if errors.As(err, &perr) {
		d := diag.New(diag.SevError, diag.IOInternalError, b.Span(perr.Node),
			fmt.Sprintf("rule %s crashed: %v", perr.Rule, perr.Value))
		if d.Primary.File != file {
			d.Primary = source.Span{File: file}
		}
		return d
	}
	return diag.New(diag.SevError, diag.IOInternalError, source.Span{File: file}, "internal error: "+err.Error())
}

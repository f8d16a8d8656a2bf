// Package driver runs the lint pipeline over files and directories:
// expand inputs, preload them, analyze them in parallel, merge the
// findings and optionally apply fixes.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"krllint/internal/config"
	"krllint/internal/diag"
	"krllint/internal/fix"
	"krllint/internal/lint"
	"krllint/internal/observ"
	"krllint/internal/pipeline"
	"krllint/internal/source"
	"krllint/internal/trace"
)

// ErrNoInputs is returned when the given paths name no lintable file.
var ErrNoInputs = errors.New("no input files")

// Options configures Run. Jobs, fail-fast, globs, fail-on and the diagnostic
// limit come from Config; the CLI writes its flag overrides there.
type Options struct {
	Config *config.Config // nil means config.Default()
	Rules  []lint.Rule    // nil means lint.DefaultRules()

	// Fix applies always-safe fixes in place and drops the diagnostics
	// they resolve from the report.
	Fix bool
	// Cache, when set, reuses results of files analyzed before with the
	// same content and rule configuration.
	Cache *DiskCache
	// Progress receives per-file events; may be nil.
	Progress pipeline.ProgressSink
	// BaseDir is used to print relative paths; empty means the working
	// directory.
	BaseDir string
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Path        string
	File        source.FileID
	Status      pipeline.Status
	Diagnostics []diag.Diagnostic

	timer *observ.Timer
}

// Report is the merged result of a run.
type Report struct {
	FileSet *source.FileSet
	Files   []FileResult
	// Diagnostics is the ordered report, cut to the configured limit.
	// Tool failures are never cut.
	Diagnostics []diag.Diagnostic
	// Fixes is set when Options.Fix was requested.
	Fixes  *fix.ApplyResult
	Timer  *observ.Timer
	FailOn diag.Severity

	failures int
	findings int
}

// ExitCode is 2 when the tool failed on some file, 1 when a finding is at
// or above the fail-on severity, 0 otherwise.
func (r *Report) ExitCode() int {
	switch {
	case r == nil:
		return 2
	case r.failures > 0:
		return 2
	case r.findings > 0:
		return 1
	default:
		return 0
	}
}

// Failures returns the tool failure diagnostics of the report.
func (r *Report) Failures() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range r.Diagnostics {
		if d.Code.IsToolFailure() {
			out = append(out, d)
		}
	}
	return out
}

// Findings returns the report without tool failures.
func (r *Report) Findings() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		if !d.Code.IsToolFailure() {
			out = append(out, d)
		}
	}
	return out
}

// Run lints paths. Configuration problems are returned as *config.Error
// before any file is read; per-file problems become diagnostics.
func Run(ctx context.Context, paths []string, opts Options) (*Report, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "run", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")
	ctx = trace.ContextWithSpan(ctx, span)

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	failOn, err := cfg.FailOnSeverity()
	if err != nil {
		return nil, err
	}
	rules := opts.Rules
	if rules == nil {
		rules = lint.DefaultRules()
	}
	configured, err := lint.Configure(rules, cfg)
	if err != nil {
		return nil, err
	}

	timer := observ.NewTimer()
	phase := timer.Begin("expand")
	inputs, err := expandInputs(paths, cfg.Files)
	timer.End(phase, "")
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	span.WithExtra("files", fmt.Sprint(len(inputs)))

	baseDir := opts.BaseDir
	if baseDir == "" {
		if wd, wdErr := os.Getwd(); wdErr == nil {
			baseDir = wd
		}
	}

	// FileSet заполняется целиком до старта воркеров и дальше только читается.
	phase = timer.Begin("load")
	fileSet := source.NewFileSetWithBase(baseDir)
	files := make([]loaded, len(inputs))
	names := make([]string, len(inputs))
	for i, in := range inputs {
		files[i] = loadInput(fileSet, in)
		names[i] = in.path
	}
	timer.End(phase, fmt.Sprintf("%d files", len(files)))
	pipeline.EmitQueued(opts.Progress, names)

	var fingerprint Digest
	cache := opts.Cache
	if cache != nil {
		if fingerprint, err = Fingerprint(configured); err != nil {
			trace.Point(tracer, trace.ScopeDriver, "cache-disabled", span.ID(), err.Error())
			cache = nil
		}
	}

	w := &workers{
		fs:          fileSet,
		rules:       configured,
		cache:       cache,
		fingerprint: fingerprint,
		progress:    opts.Progress,
		failFast:    cfg.Lint.FailFast,
	}
	phase = timer.Begin("analyze")
	results, err := w.run(ctx, files, cfg.Lint.Jobs)
	timer.End(phase, "")
	if err != nil {
		return nil, err
	}

	report := &Report{FileSet: fileSet, Files: results, Timer: timer, FailOn: failOn}
	for i := range results {
		timer.Merge(results[i].timer)
	}

	all := diag.NewBag(0)
	for _, res := range results {
		for _, d := range res.Diagnostics {
			all.Add(d)
		}
	}
	merged := all.Finalize()

	if opts.Fix {
		phase = timer.Begin("fix")
		merged = applyFixes(fileSet, merged, report, opts.Progress)
		timer.End(phase, "")
	}

	report.Diagnostics = limit(merged, cfg.Output.MaxDiagnostics)
	for _, d := range merged {
		switch {
		case d.Code.IsToolFailure():
			report.failures++
		case d.Code < diag.ObsInfo && d.Severity >= failOn:
			report.findings++
		}
	}
	span.WithExtra("diagnostics", fmt.Sprint(len(merged)))
	return report, nil
}

// applyFixes writes always-safe fixes and drops the diagnostics they
// resolve. A file that could not be written keeps its diagnostics and gets
// an IO4003 failure.
func applyFixes(fs *source.FileSet, diags []diag.Diagnostic, report *Report, progress pipeline.ProgressSink) []diag.Diagnostic {
	res, err := fix.Apply(fs, diags, fix.ApplyOptions{})
	report.Fixes = res

	failed := make(map[source.FileID]bool)
	var extra []diag.Diagnostic
	if err != nil && !errors.Is(err, fix.ErrNoFixes) {
		var werr *fix.WriteError
		for _, e := range unwrapJoined(err) {
			if errors.As(e, &werr) {
				failed[werr.File] = true
				extra = append(extra, diag.New(diag.SevError, diag.IOFixWriteError,
					source.Span{File: werr.File}, "cannot write fixed file: "+werr.Err.Error()))
				pipeline.Emit(progress, pipeline.Event{File: werr.Path, Stage: pipeline.StageFix, Status: pipeline.StatusError, Err: werr.Err})
			}
		}
	}
	if res == nil {
		return append(diags, extra...)
	}
	for _, ch := range res.FileChanges {
		pipeline.Emit(progress, pipeline.Event{File: ch.Path, Stage: pipeline.StageFix, Status: pipeline.StatusDone, Findings: ch.EditCount})
	}

	out := make([]diag.Diagnostic, 0, len(diags)+len(extra))
	for _, d := range diags {
		if !failed[d.Primary.File] && res.Fixed(d) {
			continue
		}
		out = append(out, d)
	}
	out = append(out, extra...)
	sort.SliceStable(out, func(i, j int) bool { return diag.Less(out[i], out[j]) })
	return out
}

func unwrapJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// limit cuts findings past max and reports how many were left out.
// Tool failures always stay.
func limit(diags []diag.Diagnostic, max int) []diag.Diagnostic {
	if max <= 0 {
		return diags
	}
	out := make([]diag.Diagnostic, 0, min(len(diags), max)+1)
	shown, dropped := 0, 0
	for _, d := range diags {
		if d.Code.IsToolFailure() {
			out = append(out, d)
			continue
		}
		if shown >= max {
			dropped++
			continue
		}
		shown++
		out = append(out, d)
	}
	if dropped > 0 {
		last := out[len(out)-1].Primary
		out = append(out, diag.New(diag.SevInfo, diag.ObsDiagnosticsTruncated, last.ZeroideToEnd(),
			fmt.Sprintf("%d more diagnostics not shown (limit %d)", dropped, max)))
	}
	return out
}

package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"krllint/internal/config"
	"krllint/internal/diag"
	"krllint/internal/driver"
	"krllint/internal/lint"
	"krllint/internal/pipeline"
)

const (
	cleanSrc = "DEF clean()\n  DECL INT count\n  count = 1\nEND\n"
	badSrc   = "DEF bad()\n  DECL INT unused\nEND\n"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func run(t *testing.T, dir string, paths []string, mutate func(*driver.Options)) *driver.Report {
	t.Helper()
	opts := driver.Options{Config: config.Default(), BaseDir: dir}
	if mutate != nil {
		mutate(&opts)
	}
	report, err := driver.Run(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return report
}

// lines renders the report the way golden tests read it.
func lines(r *driver.Report) string {
	return diag.FormatShortDiagnostics(r.Diagnostics, r.FileSet, false)
}

func TestRunEmptyFileIsClean(t *testing.T) {
	dir := writeFiles(t, map[string]string{"empty.src": ""})
	report := run(t, dir, []string{dir}, nil)
	if len(report.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got:\n%s", lines(report))
	}
	if code := report.ExitCode(); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

func TestRunCleanAndViolatingFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{"clean.src": cleanSrc, "bad.src": badSrc})
	report := run(t, dir, []string{dir}, nil)

	if code := report.ExitCode(); code != 1 {
		t.Fatalf("exit code = %d, want 1\n%s", code, lines(report))
	}
	if len(report.Diagnostics) != 1 {
		t.Fatalf("expected exactly one diagnostic, got:\n%s", lines(report))
	}
	d := report.Diagnostics[0]
	if d.Rule() != "KRL004" || d.Severity != diag.SevWarning {
		t.Fatalf("unexpected diagnostic %s %s", d.Rule(), d.Severity)
	}
	if got := filepath.Base(report.FileSet.Get(d.Primary.File).Path); got != "bad.src" {
		t.Fatalf("diagnostic names %s, want bad.src", got)
	}
}

func TestRunDisabledRule(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bad.src": "DEF bad()\n  DECL INT unused  \nEND\n"})
	report := run(t, dir, []string{dir}, func(o *driver.Options) {
		o.Config.Lint.Disable = []string{"KRL004"}
	})

	var rules []string
	for _, d := range report.Diagnostics {
		rules = append(rules, d.Rule())
	}
	if diff := cmp.Diff([]string{"KRL008"}, rules); diff != "" {
		t.Fatalf("rules (-want +got):\n%s", diff)
	}
	// trailing whitespace is info, below the default fail-on
	if code := report.ExitCode(); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

func TestRunMissingFileIsToolFailure(t *testing.T) {
	dir := writeFiles(t, map[string]string{"clean.src": cleanSrc})
	missing := filepath.Join(dir, "gone.src")
	report := run(t, dir, []string{filepath.Join(dir, "clean.src"), missing}, nil)

	if code := report.ExitCode(); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	failures := report.Failures()
	if len(failures) != 1 || failures[0].Code != diag.IOLoadFileError {
		t.Fatalf("expected one IO4001 failure, got:\n%s", lines(report))
	}
	if len(report.Findings()) != 0 {
		t.Fatalf("clean file reported findings:\n%s", lines(report))
	}
	for _, f := range report.Files {
		want := pipeline.StatusDone
		if f.Path == missing {
			want = pipeline.StatusError
		}
		if f.Status != want {
			t.Fatalf("%s: status %s, want %s", f.Path, f.Status, want)
		}
	}
}

func TestRunExpandsDirectories(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.src":        cleanSrc,
		"lib/util.sub":    "",
		"lib/util.dat":    "",
		"notes.txt":       "not KRL",
		"vendor/skip.src": badSrc,
	})
	report := run(t, dir, []string{dir, filepath.Join(dir, "main.src")}, func(o *driver.Options) {
		o.Config.Files.Exclude = []string{"vendor/**"}
	})

	var got []string
	for _, f := range report.Files {
		rel, err := filepath.Rel(dir, f.Path)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, filepath.ToSlash(rel))
	}
	want := []string{"lib/util.dat", "lib/util.sub", "main.src"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("files (-want +got):\n%s", diff)
	}
}

func TestRunNoInputs(t *testing.T) {
	dir := writeFiles(t, map[string]string{"readme.md": "# nothing"})
	_, err := driver.Run(context.Background(), []string{dir}, driver.Options{BaseDir: dir})
	if !errors.Is(err, driver.ErrNoInputs) {
		t.Fatalf("err = %v, want ErrNoInputs", err)
	}
}

func TestRunConfigErrorStopsEarly(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bad.src": badSrc})
	cfg := config.Default()
	cfg.Lint.Disable = []string{"KRL999"}
	rec := &pipeline.Recorder{}
	_, err := driver.Run(context.Background(), []string{dir}, driver.Options{Config: cfg, Progress: rec})
	var cerr *config.Error
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *config.Error", err)
	}
	if len(rec.Events()) != 0 {
		t.Fatalf("no file may be touched on a config error, got %d events", len(rec.Events()))
	}

	cfg = config.Default()
	cfg.Files.Include = []string{"[unclosed"}
	if _, err := driver.Run(context.Background(), []string{dir}, driver.Options{Config: cfg}); !errors.As(err, &cerr) {
		t.Fatalf("bad glob: err = %v, want *config.Error", err)
	}
}

func TestRunMalformedInput(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"broken.src":  "DEF broken(\n  IF a ==\n  FOR i = 1\nENDWHILE\n",
		"garbage.src": "\x00\x01 }{ ENDFCT ;FOLD\n\"unterminated\n",
	})
	report := run(t, dir, []string{dir}, nil)

	if code := report.ExitCode(); code != 1 {
		t.Fatalf("exit code = %d, want 1\n%s", code, lines(report))
	}
	if len(report.Failures()) != 0 {
		t.Fatalf("malformed input must not be a tool failure:\n%s", lines(report))
	}
	perFile := map[string]bool{}
	for _, d := range report.Diagnostics {
		if d.Severity == diag.SevError {
			perFile[filepath.Base(report.FileSet.Get(d.Primary.File).Path)] = true
		}
	}
	for _, name := range []string{"broken.src", "garbage.src"} {
		if !perFile[name] {
			t.Fatalf("%s: expected an error diagnostic, got:\n%s", name, lines(report))
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	files := map[string]string{}
	for _, prefix := range []string{"", "more/", "more/nested/"} {
		files[prefix+"a.src"] = "def a()\nDECL INT x, y  \nGOTO nowhere\nEND\n"
		files[prefix+"b.src"] = badSrc
		files[prefix+"c.dat"] = "DEFDAT c\n  GLOBAL DECL INT g\nENDDAT\n"
	}
	dir := writeFiles(t, files)

	first := lines(run(t, dir, []string{dir}, func(o *driver.Options) { o.Config.Lint.Jobs = 1 }))
	for _, jobs := range []int{0, 2, 8} {
		got := lines(run(t, dir, []string{dir}, func(o *driver.Options) { o.Config.Lint.Jobs = jobs }))
		if diff := cmp.Diff(first, got); diff != "" {
			t.Fatalf("jobs=%d changed the report (-first +got):\n%s", jobs, diff)
		}
	}
}

func TestRunOutputIsSorted(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"z.src": "def z()\nDECL INT unused  \nx = x\nEND\n",
		"a.src": "def a()\nLOOP\nENDLOOP\nEND\n",
	})
	report := run(t, dir, []string{dir}, nil)
	if len(report.Diagnostics) < 4 {
		t.Fatalf("expected several findings, got:\n%s", lines(report))
	}
	if !sort.SliceIsSorted(report.Diagnostics, func(i, j int) bool {
		return diag.Less(report.Diagnostics[i], report.Diagnostics[j])
	}) {
		t.Fatalf("report is not sorted:\n%s", lines(report))
	}
	first := report.FileSet.Get(report.Diagnostics[0].Primary.File).Path
	if filepath.Base(first) != "a.src" {
		t.Fatalf("files must be ordered by path, first is %s", first)
	}
}

func TestRunFailFastSkipsRemainingFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{"b.src": cleanSrc, "c.src": badSrc})
	missing := filepath.Join(dir, "a.src")
	paths := []string{missing, filepath.Join(dir, "b.src"), filepath.Join(dir, "c.src")}
	rec := &pipeline.Recorder{}
	report := run(t, dir, paths, func(o *driver.Options) {
		o.Config.Lint.Jobs = 1
		o.Config.Lint.FailFast = true
		o.Progress = rec
	})

	if code := report.ExitCode(); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	statuses := map[string]pipeline.Status{}
	for _, f := range report.Files {
		statuses[filepath.Base(f.Path)] = f.Status
	}
	want := map[string]pipeline.Status{
		"a.src": pipeline.StatusError,
		"b.src": pipeline.StatusSkipped,
		"c.src": pipeline.StatusSkipped,
	}
	if diff := cmp.Diff(want, statuses); diff != "" {
		t.Fatalf("statuses (-want +got):\n%s", diff)
	}
	if ev, ok := rec.Last(paths[2]); !ok || ev.Status != pipeline.StatusSkipped {
		t.Fatalf("last event for c.src = %+v, want skipped", ev)
	}
}

func TestRunWithoutFailFastAnalyzesEverything(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bad.src": badSrc})
	paths := []string{filepath.Join(dir, "a.src"), filepath.Join(dir, "bad.src")}
	report := run(t, dir, paths, func(o *driver.Options) { o.Config.Lint.Jobs = 1 })
	if len(report.Failures()) != 1 || len(report.Findings()) != 1 {
		t.Fatalf("expected one failure and one finding, got:\n%s", lines(report))
	}
}

func TestRunProgressEvents(t *testing.T) {
	dir := writeFiles(t, map[string]string{"clean.src": cleanSrc, "bad.src": badSrc})
	rec := &pipeline.Recorder{}
	report := run(t, dir, []string{dir}, func(o *driver.Options) { o.Progress = rec })

	for _, f := range report.Files {
		ev, ok := rec.Last(f.Path)
		if !ok {
			t.Fatalf("no events for %s", f.Path)
		}
		if !ev.Status.Final() {
			t.Fatalf("%s: last status %s is not final", f.Path, ev.Status)
		}
		if ev.Findings != len(f.Diagnostics) {
			t.Fatalf("%s: event has %d findings, result %d", f.Path, ev.Findings, len(f.Diagnostics))
		}
	}
	queued := 0
	for _, ev := range rec.Events() {
		if ev.Status == pipeline.StatusQueued {
			queued++
		}
	}
	if queued != len(report.Files) {
		t.Fatalf("queued events = %d, want %d", queued, len(report.Files))
	}
}

func TestRunMaxDiagnostics(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"many.src": "def many()\nDECL INT a  \nDECL INT b  \nDECL INT c  \nEND\n",
	})
	full := run(t, dir, []string{dir}, nil)
	report := run(t, dir, []string{dir}, func(o *driver.Options) { o.Config.Output.MaxDiagnostics = 2 })

	if len(report.Diagnostics) != 3 {
		t.Fatalf("expected 2 findings and a truncation note, got:\n%s", lines(report))
	}
	last := report.Diagnostics[2]
	if last.Code != diag.ObsDiagnosticsTruncated {
		t.Fatalf("last diagnostic = %s, want OBS6001", last.Rule())
	}
	if report.ExitCode() != full.ExitCode() {
		t.Fatalf("limit changed the exit code: %d vs %d", report.ExitCode(), full.ExitCode())
	}
}

func TestRunCache(t *testing.T) {
	dir := writeFiles(t, map[string]string{"clean.src": cleanSrc, "bad.src": badSrc})
	cache, err := driver.OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	withCache := func(o *driver.Options) { o.Cache = cache }

	first := run(t, dir, []string{dir}, withCache)
	second := run(t, dir, []string{dir}, withCache)
	for _, f := range second.Files {
		if f.Status != pipeline.StatusCached {
			t.Fatalf("%s: status %s, want cached", f.Path, f.Status)
		}
	}
	if diff := cmp.Diff(first.Diagnostics, second.Diagnostics, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("cached report differs (-first +second):\n%s", diff)
	}

	// another rule set must not reuse the entries
	third := run(t, dir, []string{dir}, func(o *driver.Options) {
		withCache(o)
		o.Config.Lint.Disable = []string{"unused-variable"}
	})
	for _, f := range third.Files {
		if f.Status != pipeline.StatusDone {
			t.Fatalf("%s: status %s after config change, want done", f.Path, f.Status)
		}
	}
	if len(third.Diagnostics) != 0 {
		t.Fatalf("expected no findings with KRL004 disabled, got:\n%s", lines(third))
	}
}

func TestRunFix(t *testing.T) {
	dir := writeFiles(t, map[string]string{"fixme.src": "def fixme()\n  DECL INT unused   \nEND\n"})
	report := run(t, dir, []string{dir}, func(o *driver.Options) { o.Fix = true })

	data, err := os.ReadFile(filepath.Join(dir, "fixme.src"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "DEF fixme()\n  DECL INT unused\nEND\n"; got != want {
		t.Fatalf("fixed content = %q, want %q", got, want)
	}
	var rules []string
	for _, d := range report.Diagnostics {
		rules = append(rules, d.Rule())
	}
	if diff := cmp.Diff([]string{"KRL004"}, rules); diff != "" {
		t.Fatalf("remaining findings (-want +got):\n%s", diff)
	}
	if report.Fixes == nil || len(report.Fixes.Applied) != 2 {
		t.Fatalf("expected two applied fixes, got %+v", report.Fixes)
	}
}

func fingerprint(t *testing.T, cfg *config.Config) driver.Digest {
	t.Helper()
	rules, err := lint.Configure(lint.DefaultRules(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	fp, err := driver.Fingerprint(rules)
	if err != nil {
		t.Fatal(err)
	}
	return fp
}

func TestFingerprint(t *testing.T) {
	base := fingerprint(t, config.Default())
	if base != fingerprint(t, config.Default()) {
		t.Fatal("fingerprint is not stable")
	}
	if slices.Equal(base[:], make([]byte, len(base))) {
		t.Fatal("fingerprint is zero")
	}

	options := config.Default()
	options.Rules = map[string]map[string]any{"line-too-long": {"max-length": 80}}
	severity := config.Default()
	severity.Rules = map[string]map[string]any{"KRL004": {"severity": "error"}}
	disabled := config.Default()
	disabled.Lint.Disable = []string{"KRL009"}

	for name, cfg := range map[string]*config.Config{"options": options, "severity": severity, "disabled": disabled} {
		if fingerprint(t, cfg) == base {
			t.Fatalf("%s: change did not alter the fingerprint", name)
		}
	}
}

package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"krllint/internal/diag"
	"krllint/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// WriteError is a fixed file that could not be written back.
type WriteError struct {
	File source.FileID
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }

func (e *WriteError) Unwrap() error { return e.Err }

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	// Threshold is the least certain applicability still applied.
	// The zero value applies only always-safe fixes.
	Threshold diag.FixApplicability
	// DryRun computes the new contents without writing files.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Primary       source.Span
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type fixedKey struct {
	code diag.Code
	span source.Span
	msg  string
}

// Fixed reports whether d is resolved by an applied fix. The driver drops
// such diagnostics from the report.
func (r *ApplyResult) Fixed(d diag.Diagnostic) bool {
	if r == nil {
		return false
	}
	for _, a := range r.Applied {
		if (fixedKey{a.Code, a.Primary, a.Message}) == (fixedKey{d.Code, d.Primary, d.Message}) {
			return true
		}
	}
	return false
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, keeps those at or under the
// applicability threshold and applies them file by file. Overlapping edits
// and edits whose guard text no longer matches are skipped.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, skips := gatherCandidates(fs, diagnostics, opts.Threshold)
	result.Skipped = append(result.Skipped, skips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	applied, skipped, changes, err := applyCandidates(fs, candidates, opts.DryRun)
	result.Applied = applied
	result.Skipped = append(result.Skipped, skipped...)
	result.FileChanges = changes
	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates flattens the fixes of every diagnostic. A fix id seen
// twice is applied once: several diagnostics may offer the same edit.
func gatherCandidates(fs *source.FileSet, diagnostics []diag.Diagnostic, threshold diag.FixApplicability) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	seen := make(map[string]bool)
	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			switch {
			case len(f.Edits) == 0:
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			case f.Applicability > threshold:
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title,
					Reason: fmt.Sprintf("applicability is %s", f.Applicability)})
				continue
			case seen[f.ID]:
				// одинаковая правка от нескольких диагностик: отмечаем все как исправленные
				cands = append(cands, candidate{diag: d, fix: f, order: -1})
				continue
			}
			if err := f.Validate(fs); err != nil {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: err.Error()})
				continue
			}
			seen[f.ID] = true
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders by file, primary position and insertion order so
// the first of two conflicting fixes wins deterministically.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		if candidates[i].fix.IsPreferred != candidates[j].fix.IsPreferred {
			return candidates[i].fix.IsPreferred
		}
		return candidates[i].fix.ID < candidates[j].fix.ID
	})
}

func applyCandidates(fs *source.FileSet, selected []candidate, dryRun bool) ([]AppliedFix, []SkippedFix, []FileChange, error) {
	buffers := make(map[source.FileID][]byte)
	appliedEdits := make(map[source.FileID][]diag.TextEdit)
	fileEditCount := make(map[source.FileID]int)
	appliedIDs := make(map[string]bool)

	var (
		applied []AppliedFix
		skipped []SkippedFix
		repeats []candidate
	)
	baseDir := fs.BaseDir()

	for _, cand := range selected {
		if cand.order < 0 {
			repeats = append(repeats, cand)
			continue
		}
		fileID := cand.fix.Edits[0].Span.File
		file := fs.Get(fileID)
		if file.Virtual() && !dryRun {
			skipped = append(skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: "target file is virtual"})
			continue
		}
		edits := append([]diag.TextEdit(nil), cand.fix.Edits...)
		if conflictsWithExisting(appliedEdits[fileID], edits) {
			skipped = append(skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title,
				Reason: "conflicts with previously applied edits in " + file.DisplayPath(source.PathShort, "")})
			continue
		}

		working := buffers[fileID]
		if working == nil {
			working = append([]byte(nil), file.Content...)
		}
		working = append([]byte(nil), working...)

		// с конца, чтобы смещения ещё не применённых правок не съезжали
		sort.SliceStable(edits, func(i, j int) bool {
			if edits[i].Span.Start == edits[j].Span.Start {
				return edits[i].Span.End > edits[j].Span.End
			}
			return edits[i].Span.Start > edits[j].Span.Start
		})

		existing := append([]diag.TextEdit(nil), appliedEdits[fileID]...)
		var skipReason string
		for _, edit := range edits {
			start := int(edit.Span.Start) + cumulativeDelta(existing, int(edit.Span.Start))
			end := int(edit.Span.End) + cumulativeDelta(existing, int(edit.Span.End))
			if start < 0 || end < start || end > len(working) {
				skipReason = "edit span out of range"
				break
			}
			if edit.OldText != "" && edit.Span.Start != edit.Span.End && string(working[start:end]) != edit.OldText {
				skipReason = "existing text does not match expected content"
				break
			}
			suffix := append([]byte(nil), working[end:]...)
			working = append(append(working[:start], edit.NewText...), suffix...)
			existing = insertEditSorted(existing, edit)
		}
		if skipReason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: skipReason})
			continue
		}

		buffers[fileID] = working
		appliedEdits[fileID] = existing
		fileEditCount[fileID] += len(edits)
		appliedIDs[cand.fix.ID] = true
		applied = append(applied, appliedFrom(fs, cand, len(edits)))
	}

	for _, cand := range repeats {
		if appliedIDs[cand.fix.ID] {
			applied = append(applied, appliedFrom(fs, cand, 0))
		}
	}

	if len(buffers) == 0 {
		return applied, skipped, nil, nil
	}

	ids := make([]source.FileID, 0, len(buffers))
	for id := range buffers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	changes := make([]FileChange, 0, len(ids))
	var errs []error
	for _, fileID := range ids {
		buf := buffers[fileID]
		file := fs.Get(fileID)
		if !dryRun {
			if err := writeFile(file.Path, file.Encode(buf)); err != nil {
				errs = append(errs, &WriteError{File: fileID, Path: file.Path, Err: err})
				continue
			}
		}
		changes = append(changes, FileChange{
			Path:      file.DisplayPath(source.PathRelative, baseDir),
			EditCount: fileEditCount[fileID],
			Content:   buf,
		})
	}
	return applied, skipped, changes, errors.Join(errs...)
}

func appliedFrom(fs *source.FileSet, cand candidate, edits int) AppliedFix {
	return AppliedFix{
		ID:            cand.fix.ID,
		Title:         cand.fix.Title,
		Code:          cand.diag.Code,
		Message:       cand.diag.Message,
		Primary:       cand.diag.Primary,
		Applicability: cand.fix.Applicability,
		PrimaryPath:   fs.DisplayPath(cand.diag.Primary.File, source.PathShort),
		EditCount:     edits,
	}
}

func writeFile(path string, buf []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(path, buf, mode)
}

func conflictsWithExisting(existing []diag.TextEdit, edits []diag.TextEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two text edits' spans overlap.
// Spans are half-open; two insertions never conflict, an insertion
// conflicts with a span strictly containing its position.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// cumulativeDelta is the shift of original offset pos caused by edits
// already applied before it.
func cumulativeDelta(edits []diag.TextEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		eStart := int(e.Span.Start)
		if eStart > pos {
			break
		}
		eEnd := int(e.Span.End)
		if eEnd <= pos {
			delta += len(e.NewText) - (eEnd - eStart)
		}
	}
	return delta
}

func insertEditSorted(edits []diag.TextEdit, edit diag.TextEdit) []diag.TextEdit {
	insertIdx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, diag.TextEdit{})
	copy(edits[insertIdx+1:], edits[insertIdx:])
	edits[insertIdx] = edit
	return edits
}

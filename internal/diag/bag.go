package diag

import (
	"fmt"
	"sort"

	"krllint/internal/source"
)

// Bag collects diagnostics for one file. It is not safe for concurrent use;
// every worker owns its bags and the driver merges them afterwards.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

// NewBag creates a bag holding at most max diagnostics; max <= 0 means no limit.
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 16
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит);
// такие диагностики учитываются в Dropped и не теряются молча.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Dropped returns how many diagnostics were refused because of the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	return b.HasAtLeast(SevError)
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	return b.HasAtLeast(SevWarning)
}

// HasAtLeast reports whether any diagnostic has severity >= sev.
func (b *Bag) HasAtLeast(sev Severity) bool {
	for i := range b.items {
		if b.items[i].Severity >= sev {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if b.max > 0 && newTotal > b.max {
		b.max = newTotal
	}
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
}

// Sort orders diagnostics by file, position, rule id and message.
// Within a file byte offsets order the same way as (line, column).
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		return Less(b.items[i], b.items[j])
	})
}

// Less is the canonical diagnostic order used by Sort and the formatters.
func Less(di, dj Diagnostic) bool {
	if di.Primary.File != dj.Primary.File {
		return di.Primary.File < dj.Primary.File
	}
	if di.Primary.Start != dj.Primary.Start {
		return di.Primary.Start < dj.Primary.Start
	}
	if ri, rj := di.Code.ID(), dj.Code.ID(); ri != rj {
		return ri < rj
	}
	if di.Message != dj.Message {
		return di.Message < dj.Message
	}
	return di.Primary.End < dj.Primary.End
}

type bagKey struct {
	code Code
	span source.Span
	msg  string
}

// Dedup drops exact duplicates: same code, primary span and message.
// The first occurrence wins, so severity is kept as reported.
func (b *Bag) Dedup() {
	seen := make(map[bagKey]struct{}, len(b.items))
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := bagKey{code: d.Code, span: d.Primary, msg: d.Message}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		newitems = append(newitems, d)
	}
	b.items = newitems
}

// Finalize dedups and sorts the bag and returns the ordered items. When the
// limit refused diagnostics, a trailing info diagnostic reports how many.
func (b *Bag) Finalize() []Diagnostic {
	b.Dedup()
	b.Sort()
	if b.dropped > 0 && len(b.items) > 0 {
		last := b.items[len(b.items)-1].Primary
		b.items = append(b.items, New(SevInfo, ObsDiagnosticsTruncated,
			last.ZeroideToEnd(),
			fmt.Sprintf("%d more diagnostics not shown (limit %d)", b.dropped, b.max)))
		b.dropped = 0
	}
	return b.items
}

// Filter keeps diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	out := b.items[:0]
	for _, d := range b.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	b.items = out
}

// Transform rewrites every diagnostic in place.
func (b *Bag) Transform(fn func(Diagnostic) Diagnostic) {
	for i := range b.items {
		b.items[i] = fn(b.items[i])
	}
}

// CountBySeverity returns the number of diagnostics per severity.
func (b *Bag) CountBySeverity() map[Severity]int {
	out := make(map[Severity]int, 3)
	for _, d := range b.items {
		out[d.Severity]++
	}
	return out
}

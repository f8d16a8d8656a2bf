package observ

import (
	"strings"
	"testing"
	"time"
)

func worker(phases ...Phase) *Timer {
	t := NewTimer()
	t.phases = append(t.phases, phases...)
	return t
}

func TestTimerMerge(t *testing.T) {
	total := worker(Phase{Name: "analyze", Dur: 6 * time.Millisecond, Count: 1})
	total.Merge(worker(
		Phase{Name: "parse", Dur: 3 * time.Millisecond, Count: 1, Note: "a.src"},
		Phase{Name: "lint", Dur: 2 * time.Millisecond, Count: 1, Note: "a.src"},
	))
	total.Merge(worker(Phase{Name: "parse", Dur: time.Millisecond, Count: 1, Note: "b.src"}))
	total.Merge(nil)

	r := total.Report()
	if len(r.Phases) != 3 {
		t.Fatalf("expected 3 phases, got %+v", r.Phases)
	}
	parse := r.Phases[1]
	if parse.Name != "parse" || parse.DurationMS != 4 || parse.Count != 2 || !parse.Summed || parse.Note != "" {
		t.Errorf("parse phase = %+v", parse)
	}
	if r.TotalMS != 6 {
		t.Errorf("total = %v ms, want only the driver's own 6", r.TotalMS)
	}
	s := total.Summary()
	if !strings.Contains(s, "x2") || !strings.Contains(s, "summed") {
		t.Errorf("summary lacks summed phases:\n%s", s)
	}
	if strings.Index(s, "total") > strings.Index(s, "parse") {
		t.Errorf("summed phases should follow the total:\n%s", s)
	}
}

func TestTimerBeginEnd(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("expand")
	tm.End(idx, "3 files")
	tm.End(42, "ignored")
	r := tm.Report()
	if len(r.Phases) != 1 || r.Phases[0].Note != "3 files" || r.Phases[0].Count != 1 || r.Phases[0].Summed {
		t.Errorf("unexpected report %+v", r)
	}
	if (&Timer{}).Report().Phases != nil {
		t.Error("empty timer should report no phases")
	}
}

// Package observ measures where a lint run spends its time.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed step. Phases folded in from worker timers are marked
// Summed: their Dur adds up Count runs that overlapped the driver's own
// phases, so they stay out of the total.
type Phase struct {
	Name   string
	Start  time.Time
	Dur    time.Duration
	Count  int
	Note   string
	Summed bool
}

// Timer belongs to one goroutine; workers keep their own and the driver
// merges them.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a phase; pass the result to End.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now(), Count: 1})
	return len(t.phases) - 1
}

// End stops the phase idx. Unknown indexes are ignored.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur, p.Note = time.Since(p.Start), note
}

// Merge sums the phases of other into t by name. Per-file notes are dropped.
func (t *Timer) Merge(other *Timer) {
	if other == nil {
		return
	}
next:
	for _, op := range other.phases {
		for i := range t.phases {
			if p := &t.phases[i]; p.Summed && p.Name == op.Name {
				p.Dur += op.Dur
				p.Count += op.Count
				continue next
			}
		}
		op.Note, op.Summed = "", true
		t.phases = append(t.phases, op)
	}
}

// PhaseReport is a Phase in milliseconds.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count"`
	Note       string  `json:"note,omitempty"`
	Summed     bool    `json:"summed,omitempty"`
}

// Report lists every phase; TotalMS covers the timer's own phases only.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	r := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		if !p.Summed {
			total += p.Dur
		}
		r.Phases[i] = PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Count: p.Count, Note: p.Note, Summed: p.Summed}
	}
	r.TotalMS = millis(total)
	return r
}

// Summary is the --timings table. Summed phases are listed after the total.
func (t *Timer) Summary() string {
	r := t.Report()
	var own, summed strings.Builder
	for _, p := range r.Phases {
		b := &own
		if p.Summed {
			b = &summed
		}
		fmt.Fprintf(b, "  %-12s %9.2f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(b, "  x%d", p.Count)
		}
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	out := "timings:\n" + own.String() + fmt.Sprintf("  %-12s %9.2f ms\n", "total", r.TotalMS)
	if summed.Len() > 0 {
		out += "per file, summed over workers:\n" + summed.String()
	}
	return out
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

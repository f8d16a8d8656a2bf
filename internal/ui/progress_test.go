package ui

import (
	"strings"
	"testing"

	"krllint/internal/pipeline"
)

func TestProgressModelCounts(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("krllint", []string{"a.src", "b.src"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.src", Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
	if m.items[0].status != "parsing" {
		t.Errorf("status = %q, want parsing", m.items[0].status)
	}
	m.Update(eventMsg{File: "a.src", Stage: pipeline.StageLint, Status: pipeline.StatusDone, Findings: 3})
	m.Update(eventMsg{File: "b.src", Stage: pipeline.StageLoad, Status: pipeline.StatusError, Findings: 1})
	// события после завершения файла игнорируются
	m.Update(eventMsg{File: "a.src", Stage: pipeline.StageLint, Status: pipeline.StatusDone, Findings: 3})
	m.Update(eventMsg{File: "unknown.src", Status: pipeline.StatusDone})

	if m.finished != 2 || m.findings != 4 {
		t.Errorf("finished=%d findings=%d, want 2 and 4", m.finished, m.findings)
	}
	view := m.View()
	for _, want := range []string{"2/2 files, 4 findings", "a.src (3)", "error"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Error("doneMsg should finish the model and quit")
	}
}

func TestVisibleLimitsLargeRuns(t *testing.T) {
	files := make([]string, maxListed+5)
	for i := range files {
		files[i] = strings.Repeat("x", i+1) + ".src"
	}
	m := NewProgressModel("krllint", files, nil).(*progressModel)
	m.applyEvent(pipeline.Event{File: files[3], Stage: pipeline.StageLint, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{File: files[7], Status: pipeline.StatusError})

	rows := m.visible()
	if len(rows) != 2 || rows[0].path != files[3] || rows[1].path != files[7] {
		t.Errorf("visible rows = %+v", rows)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("very/long/path/main.src", 10); got != "very/lo..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("日本語.src", 3); got != "日" {
		t.Errorf("truncate wide = %q", got)
	}
}

func TestQueuedEventsAddFiles(t *testing.T) {
	m := NewProgressModel("krllint", nil, make(chan pipeline.Event)).(*progressModel)
	m.Update(eventMsg{File: "a.src", Stage: pipeline.StageLoad, Status: pipeline.StatusQueued})
	m.Update(eventMsg{File: "b.src", Stage: pipeline.StageLoad, Status: pipeline.StatusQueued})
	m.Update(eventMsg{File: "a.src", Stage: pipeline.StageLint, Status: pipeline.StatusCached})
	if len(m.items) != 2 || m.finished != 1 {
		t.Fatalf("items=%d finished=%d, want 2 and 1", len(m.items), m.finished)
	}
}

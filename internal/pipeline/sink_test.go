package pipeline

import (
	"sync"
	"testing"
)

func TestRecorderConcurrent(t *testing.T) {
	var r Recorder
	var wg sync.WaitGroup
	for _, f := range []string{"a.src", "b.src", "c.src"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Emit(&r, Event{File: f, Stage: StageParse, Status: StatusWorking})
			Emit(&r, Event{File: f, Stage: StageLint, Status: StatusDone})
		}()
	}
	wg.Wait()

	if n := len(r.Events()); n != 6 {
		t.Fatalf("recorded %d events, want 6", n)
	}
	last, ok := r.Last("b.src")
	if !ok || last.Status != StatusDone || !last.Status.Final() {
		t.Errorf("last event for b.src = %+v", last)
	}
	if _, ok := r.Last("zzz.src"); ok {
		t.Error("unknown file must have no events")
	}
	Emit(nil, Event{})
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 4)
	EmitQueued(ChannelSink{Ch: ch}, []string{"a.src", "b.src"})
	close(ch)
	var got []string
	for ev := range ch {
		if ev.Status != StatusQueued {
			t.Errorf("unexpected status %s", ev.Status)
		}
		got = append(got, ev.File)
	}
	if len(got) != 2 || got[0] != "a.src" {
		t.Errorf("got %v", got)
	}
	ChannelSink{}.OnEvent(Event{})
}

func TestCounterThroughTee(t *testing.T) {
	var c Counter
	var r Recorder
	sink := Tee(&c, nil, &r)

	EmitQueued(sink, []string{"a.src", "b.src", "c.src"})
	Emit(sink, Event{File: "a.src", Stage: StageParse, Status: StatusWorking})
	Emit(sink, Event{File: "a.src", Stage: StageLint, Status: StatusDone})
	Emit(sink, Event{File: "b.src", Stage: StageLoad, Status: StatusSkipped})
	Emit(sink, Event{File: "a.src", Stage: StageFix, Status: StatusDone})

	if got := c.String(); got != "2/3 files" {
		t.Errorf("counter = %q, want 2/3 files", got)
	}
	if c.Finished() != 2 {
		t.Errorf("Finished() = %d", c.Finished())
	}
	if n := len(r.Events()); n != 7 {
		t.Errorf("recorder saw %d events, want 7", n)
	}
}

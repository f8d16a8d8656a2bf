package pipeline

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Tee sends every event to each non-nil sink in order.
func Tee(sinks ...ProgressSink) ProgressSink {
	out := make(teeSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type teeSink []ProgressSink

func (t teeSink) OnEvent(evt Event) {
	for _, s := range t {
		s.OnEvent(evt)
	}
}

// Counter tracks how many files were queued and how many reached a final
// status. The trace heartbeat reports it.
type Counter struct {
	queued   atomic.Int64
	finished atomic.Int64
}

func (c *Counter) OnEvent(evt Event) {
	switch {
	case evt.Status == StatusQueued:
		c.queued.Add(1)
	case evt.Stage == StageLint && evt.Status.Final(), evt.Status == StatusSkipped:
		c.finished.Add(1)
	}
}

// Finished returns the number of files with a final status.
func (c *Counter) Finished() int64 { return c.finished.Load() }

func (c *Counter) String() string {
	return fmt.Sprintf("%d/%d files", c.finished.Load(), c.queued.Load())
}

// Recorder keeps every event in arrival order; tests use it to inspect
// what the driver reported.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) OnEvent(evt Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Last returns the most recent event for file.
func (r *Recorder) Last(file string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].File == file {
			return r.events[i], true
		}
	}
	return Event{}, false
}

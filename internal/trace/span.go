package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next event sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a fresh span id; 0 is never returned.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// goroutineID parses "goroutine 123 [running]:" from the current stack.
// Worker spans of the driver are told apart by it.
func goroutineID() uint64 {
	var buf [64]byte
	line := buf[:runtime.Stack(buf[:], false)]
	line, ok := bytes.CutPrefix(line, []byte("goroutine "))
	if !ok {
		return 0
	}
	if end := bytes.IndexByte(line, ' '); end >= 0 {
		line = line[:end]
	}
	gid, err := strconv.ParseUint(string(line), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

func newEvent(kind Kind, scope Scope, name string, id, parent uint64, detail string) *Event {
	return &Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    scope,
		SpanID:   id,
		ParentID: parent,
		GID:      goroutineID(),
		Name:     name,
		Detail:   detail,
	}
}

// Span is one timed operation: a run, a file, a pass or a rule.
// The zero-cost form returned for filtered scopes ignores every call.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	gid      uint64
	scope    Scope
	name     string
	started  time.Time
	extra    map[string]string
}

var nopSpan = &Span{tracer: Nop}

func wants(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Begin emits a begin event and returns the span; parent is 0 for roots.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !wants(t, scope) {
		return nopSpan
	}
	ev := newEvent(KindSpanBegin, scope, name, NextSpanID(), parent, "")
	t.Emit(ev)
	return &Span{
		tracer:   t,
		id:       ev.SpanID,
		parentID: parent,
		gid:      ev.GID,
		scope:    scope,
		name:     name,
		started:  ev.Time,
	}
}

// End emits the end event with detail and the collected extras, and
// returns the span duration. Nop spans return 0.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 {
		return 0
	}
	ev := newEvent(KindSpanEnd, s.scope, s.name, s.id, s.parentID, detail)
	ev.GID = s.gid
	ev.Extra = s.extra
	ev.Elapsed = ev.Time.Sub(s.started)
	s.tracer.Emit(ev)
	return ev.Elapsed
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID returns the span id, 0 for nop spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event such as a cache miss or a rule panic.
func Point(t Tracer, scope Scope, name string, parent uint64, detail string) {
	if !wants(t, scope) {
		return
	}
	t.Emit(newEvent(KindPoint, scope, name, NextSpanID(), parent, detail))
}

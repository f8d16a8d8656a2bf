package trace

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// StreamTracer formats each event as it arrives. A file output is
// buffered and flushed on Close; any other writer sees every event at once.
// After the first failed write the tracer goes quiet and keeps the error.
type StreamTracer struct {
	mu     sync.Mutex
	out    io.Writer
	buf    *bufio.Writer // nil unless out is closable
	closer io.Closer
	level  Level
	format Format
	err    error
	closed bool
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	t := &StreamTracer{out: w, level: level, format: format}
	if c, ok := w.(io.Closer); ok {
		t.closer = c
		t.buf = bufio.NewWriterSize(w, 64<<10)
		t.out = t.buf
	}
	return t
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil || t.closed {
		return
	}
	if _, err := t.out.Write(data); err != nil {
		t.err = err
		return
	}
	// пульс должен быть виден сразу, даже в файле
	if ev.Kind == KindHeartbeat && t.buf != nil {
		t.err = t.buf.Flush()
	}
}

// Err reports the write error that silenced the tracer, if any.
func (t *StreamTracer) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushLocked()
}

func (t *StreamTracer) flushLocked() error {
	if t.buf == nil || t.err != nil || t.closed {
		return t.err
	}
	t.err = t.buf.Flush()
	return t.err
}

// Close flushes and closes a file output. Calling it twice is harmless.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.closer == nil {
		return nil
	}
	err := errors.Join(t.flushLocked(), t.closer.Close())
	t.closed = true
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }

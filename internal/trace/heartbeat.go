package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat emits a driver-scope event every interval. Its detail is the
// result of the status function, typically "12/40 files"; a run of
// heartbeats with the same status points at a file the analyzer is
// stuck on.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat starts the heartbeat goroutine. It returns nil when the
// tracer is off or interval is not positive; Stop accepts nil.
func StartHeartbeat(tracer Tracer, interval time.Duration, status func() string) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.run(tracer, interval, status)
	return h
}

func (h *Heartbeat) run(tracer Tracer, interval time.Duration, status func() string) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for beat := 1; ; beat++ {
		select {
		case <-ticker.C:
			detail := fmt.Sprintf("#%d", beat)
			if status != nil {
				detail += " " + status()
			}
			tracer.Emit(newEvent(KindHeartbeat, ScopeDriver, "heartbeat", 0, 0, detail))
		case <-h.stop:
			return
		}
	}
}

// Stop ends the goroutine and waits for it. Safe to call more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}

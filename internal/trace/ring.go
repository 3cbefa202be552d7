package trace

import (
	"fmt"
	"io"
	"sync"
)

// DefaultRingSize is the ring capacity used when none is configured.
const DefaultRingSize = 4096

// RingTracer keeps the most recent events in memory so a session can dump
// what led up to a failure without streaming every query.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	next  int
	total uint64
	level Level
}

// NewRingTracer returns a ring holding up to size events.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingTracer{buf: make([]Event, 0, size), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.Accepts(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total++
	if len(t.buf) < cap(t.buf) {
		t.buf = append(t.buf, *ev)
		return
	}
	t.buf[t.next] = *ev
	t.next = (t.next + 1) % len(t.buf)
}

// Snapshot returns the kept events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, len(t.buf))
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}

// Dropped reports how many accepted events were overwritten.
func (t *RingTracer) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total - uint64(len(t.buf))
}

// Dump writes the kept events to w, preceded by a comment line when older
// events were lost.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	if n := t.Dropped(); n > 0 && format != FormatNDJSON {
		if _, err := fmt.Fprintf(w, "# %d earlier event(s) dropped\n", n); err != nil {
			return err
		}
	}
	events := t.Snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
func (t *RingTracer) Level() Level { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

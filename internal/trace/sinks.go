package trace

import (
	"errors"
	"io"
	"sync"
)

type off struct{}

func (off) Emit(*Event)  {}
func (off) Level() Level { return LevelOff }
func (off) Close() error { return nil }

// Nop records nothing.
var Nop Tracer = off{}

// Stream writes every admitted event to w as it happens.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func NewStream(w io.Writer, level Level, format Format) *Stream {
	return &Stream{w: w, level: level, format: format}
}

func (t *Stream) Emit(ev *Event) {
	if !t.level.Admits(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	data := FormatEvent(ev, t.format)
	t.mu.Lock()
	defer t.mu.Unlock()
	// tracing never fails a build
	_, _ = t.w.Write(data) //nolint:errcheck
}

func (t *Stream) Level() Level { return t.level }

// Close flushes and closes the writer when it supports either.
func (t *Stream) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var errs []error
	if f, ok := t.w.(interface{ Flush() error }); ok {
		errs = append(errs, f.Flush())
	}
	if c, ok := t.w.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Ring keeps the most recent events so a failed build can show what led
// up to the failure.
type Ring struct {
	mu     sync.Mutex
	events []Event
	next   int
	filled bool
	level  Level
}

func NewRing(size int, level Level) *Ring {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Ring{events: make([]Event, size), level: level}
}

func (t *Ring) Emit(ev *Event) {
	if !t.level.Admits(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.next] = *ev
	t.next++
	if t.next == len(t.events) {
		t.next, t.filled = 0, true
	}
}

// Events returns the kept events, oldest first.
func (t *Ring) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.filled {
		return append([]Event(nil), t.events[:t.next]...)
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.next:]...)
	return append(out, t.events[:t.next]...)
}

// Dump writes the kept events to w.
func (t *Ring) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Events() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Ring) Level() Level { return t.level }
func (t *Ring) Close() error { return nil }

// tee sends events to a stream and a ring.
type tee struct {
	stream *Stream
	ring   *Ring
}

func (t tee) Emit(ev *Event) {
	t.stream.Emit(ev)
	t.ring.Emit(ev)
}

func (t tee) Level() Level { return t.stream.Level() }
func (t tee) Close() error { return t.stream.Close() }

// RingOf returns the ring buffer behind t, if it has one.
func RingOf(t Tracer) (*Ring, bool) {
	switch tr := t.(type) {
	case *Ring:
		return tr, true
	case tee:
		return tr.ring, true
	}
	return nil, false
}

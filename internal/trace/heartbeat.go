package trace

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// openUnits tracks unit spans that have begun but not ended.
type openUnits struct {
	mu    sync.Mutex
	units map[uint64]string
}

var open = &openUnits{units: make(map[uint64]string)}

func (o *openUnits) add(id uint64, unit string) {
	o.mu.Lock()
	o.units[id] = unit
	o.mu.Unlock()
}

func (o *openUnits) remove(id uint64) {
	o.mu.Lock()
	delete(o.units, id)
	o.mu.Unlock()
}

func (o *openUnits) list() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.units))
	for _, u := range o.units {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// maxListed caps the unit names put into one heartbeat.
const maxListed = 4

// Heartbeat emits a periodic event naming the units still being worked
// on, so a stuck decode shows up in the trace.
type Heartbeat struct {
	t    Tracer
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat starts emitting every interval. It returns nil when
// tracing is off or interval is not positive.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || t.Level() == LevelOff || interval <= 0 {
		return nil
	}
	h := &Heartbeat{t: t, stop: make(chan struct{}), done: make(chan struct{})}
	go h.run(interval)
	return h
}

func (h *Heartbeat) run(interval time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for beat := 1; ; beat++ {
		select {
		case <-ticker.C:
			h.t.Emit(beatEvent(beat, open.list()))
		case <-h.stop:
			return
		}
	}
}

func beatEvent(beat int, units []string) *Event {
	ev := &Event{
		Time:   time.Now(),
		Seq:    seq.Add(1),
		Kind:   KindHeartbeat,
		Scope:  ScopeRun,
		Name:   "heartbeat",
		Counts: &Counts{Units: len(units)},
	}
	switch {
	case len(units) == 0:
		ev.Detail = fmt.Sprintf("#%d idle", beat)
	case len(units) > maxListed:
		ev.Detail = fmt.Sprintf("#%d open: %s, +%d more", beat, strings.Join(units[:maxListed], ", "), len(units)-maxListed)
	default:
		ev.Detail = fmt.Sprintf("#%d open: %s", beat, strings.Join(units, ", "))
	}
	return ev
}

// Stop ends the heartbeat and waits for its goroutine.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		close(h.stop)
		<-h.done
	})
}

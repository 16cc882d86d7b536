package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

type (
	tracerKey struct{}
	spanKey   struct{}
)

// WithTracer attaches t to ctx. A nil t detaches tracing.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

func spanOf(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(spanKey{}).(*Span) //nolint:errcheck
	return s
}

func parentOf(ctx context.Context) uint64 { return spanOf(ctx).ID() }

// Annotate adds c to the tallies of the span carried by ctx.
func Annotate(ctx context.Context, c Counts) {
	spanOf(ctx).Count(c)
}

func emit(t Tracer, ev Event) {
	ev.Time = time.Now()
	ev.Seq = seq.Add(1)
	t.Emit(&ev)
}

// Span is an open begin/end pair. A nil or disabled span ignores every call.
type Span struct {
	t       Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	unit    string
	started time.Time
	counts  Counts
}

// Start opens a span under the one carried by ctx and returns a context
// carrying the new span. It returns a disabled span when scope is not
// admitted.
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	return start(ctx, scope, name, "")
}

// StartUnit opens a unit-scope span for the unit file shown as display.
// Open unit spans are listed by heartbeats.
func StartUnit(ctx context.Context, name, display string) (*Span, context.Context) {
	return start(ctx, ScopeUnit, name, display)
}

func start(ctx context.Context, scope Scope, name, unit string) (*Span, context.Context) {
	t := FromContext(ctx)
	if !t.Level().Admits(scope) {
		return nil, ctx
	}
	s := &Span{
		t:       t,
		id:      spanIDs.Add(1),
		parent:  parentOf(ctx),
		scope:   scope,
		name:    name,
		unit:    unit,
		started: time.Now(),
	}
	if unit != "" {
		open.add(s.id, unit)
	}
	emit(t, Event{Kind: KindBegin, Scope: scope, SpanID: s.id, ParentID: s.parent, Name: name, Unit: unit})
	return s, context.WithValue(ctx, spanKey{}, s)
}

// Count adds c to the tallies reported by End.
func (s *Span) Count(c Counts) *Span {
	if s == nil {
		return nil
	}
	s.counts.Units += c.Units
	s.counts.Records += c.Records
	s.counts.Skipped += c.Skipped
	s.counts.Containers += c.Containers
	s.counts.Members += c.Members
	s.counts.Aliases += c.Aliases
	s.counts.Hidden += c.Hidden
	return s
}

// End closes the span and returns how long it was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	elapsed := time.Since(s.started)
	if s.unit != "" {
		open.remove(s.id)
	}
	ev := Event{
		Kind:     KindEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Unit:     s.unit,
		Detail:   detail,
		Elapsed:  elapsed,
	}
	if !s.counts.IsZero() {
		c := s.counts
		ev.Counts = &c
	}
	emit(s.t, ev)
	return elapsed
}

// ID returns the span id, 0 for a disabled span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Recorder emits instant events under a fixed parent span. It is for code
// that holds no context, such as the registry under its lock. The zero
// Recorder records nothing.
type Recorder struct {
	t      Tracer
	parent uint64
}

// RecorderFrom captures the tracer and span carried by ctx.
func RecorderFrom(ctx context.Context) Recorder {
	return Recorder{t: FromContext(ctx), parent: parentOf(ctx)}
}

func (r Recorder) admits(scope Scope) bool {
	return r.t != nil && r.t.Level().Admits(scope)
}

// Unit records that something happened to a whole unit file.
func (r Recorder) Unit(name, display, detail string) {
	if !r.admits(ScopeUnit) {
		return
	}
	emit(r.t, Event{Kind: KindPoint, Scope: ScopeUnit, ParentID: r.parent, Name: name, Unit: display, Detail: detail})
}

// Entity records that something happened to the container or alias
// fullName.
func (r Recorder) Entity(name, fullName, detail string) {
	if !r.admits(ScopeEntity) {
		return
	}
	emit(r.t, Event{Kind: KindPoint, Scope: ScopeEntity, ParentID: r.parent, Name: name, Entity: fullName, Detail: detail})
}

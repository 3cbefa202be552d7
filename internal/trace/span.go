package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// Span is one begin/end pair. The zero span and spans from disabled tracers
// are inert, so callers never check before using them.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
	ended   atomic.Bool
}

// Begin opens a span under parent (0 for a root) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{}
	}
	sp := &Span{
		tracer:  t,
		id:      spanCounter.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	sp.emit(KindSpanBegin, sp.started, "", nil)
	return sp
}

// BeginContext opens a span with the tracer and parent carried by ctx and
// returns a context in which the new span is the parent.
func BeginContext(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	sp := Begin(FromContext(ctx), scope, name, Parent(ctx))
	if sp.id == 0 {
		return sp, ctx
	}
	return sp, WithParent(ctx, sp)
}

func (s *Span) emit(kind Kind, at time.Time, detail string, extra map[string]string) {
	s.tracer.Emit(&Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Extra:    extra,
	})
}

// End emits the end event with the elapsed time under "dur". Only the
// first call emits; later calls return 0.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil || !s.ended.CompareAndSwap(false, true) {
		return 0
	}
	now := time.Now()
	dur := now.Sub(s.started)
	extra := s.extra
	if extra == nil {
		extra = make(map[string]string, 1)
	}
	extra["dur"] = dur.String()
	s.emit(KindSpanEnd, now, detail, extra)
	return dur
}

// WithExtra attaches a key/value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID is 0 for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name, detail string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{Time: time.Now(), Seq: NextSeq(), Kind: KindPoint, Scope: scope, Name: name, Detail: detail})
}

// Error emits an error event. Errors pass every level but off.
func Error(t Tracer, name, detail string) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(&Event{Time: time.Now(), Seq: NextSeq(), Kind: KindError, Scope: ScopeSession, Name: name, Detail: detail})
}

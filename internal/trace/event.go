package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	// KindError passes every level except off.
	KindError
)

var kindNames = [...]string{"unknown", "begin", "end", "point", "error"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[0]
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	// ScopeSession covers whole-session work: manifests, batches, guard aborts.
	ScopeSession Scope = iota + 1
	// ScopeQuery is one top-level subtype, erasure, capture or selection question.
	ScopeQuery
	// ScopeWalk is a step inside a query: supertype walks, captures.
	ScopeWalk
)

var scopeNames = [...]string{"unknown", "session", "query", "walk"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return scopeNames[0]
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // e.g. "subtype", "capture:supertype-walk"
	Detail   string
	Extra    map[string]string
}

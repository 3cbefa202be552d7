package infer

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Event names one Logger method.
type Event uint8

const (
	EventAmbiguity Event = iota
	EventNoCompileTimeDecl
	EventFallback
	EventNoApplicable
)

func (e Event) String() string {
	switch e {
	case EventAmbiguity:
		return "ambiguityError"
	case EventNoCompileTimeDecl:
		return "noCompileTimeDeclaration"
	case EventFallback:
		return "fallbackInvocation"
	case EventNoApplicable:
		return "noApplicableCandidates"
	}
	return fmt.Sprintf("Event(%d)", e)
}

// Call is one recorded observation with its arguments.
type Call struct {
	Event      Event
	Site       Site
	Candidates []Candidate
	Reason     string
}

// Recorder is a Logger test double: it records every call in order and never
// influences the caller. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

func (r *Recorder) AmbiguityError(site Site, candidates []Candidate) {
	r.record(Call{Event: EventAmbiguity, Site: site, Candidates: slices.Clone(candidates)})
}

func (r *Recorder) NoCompileTimeDeclaration(site Site) {
	r.record(Call{Event: EventNoCompileTimeDecl, Site: site})
}

func (r *Recorder) FallbackInvocation(site Site, reason string) {
	r.record(Call{Event: EventFallback, Site: site, Reason: reason})
}

func (r *Recorder) NoApplicableCandidates(site Site) {
	r.record(Call{Event: EventNoApplicable, Site: site})
}

// Calls returns the recorded calls of the given events, all calls when none
// are given.
func (r *Recorder) Calls(events ...Event) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(events) == 0 {
		return slices.Clone(r.calls)
	}
	var out []Call
	for _, c := range r.calls {
		if slices.Contains(events, c.Event) {
			out = append(out, c)
		}
	}
	return out
}

// Count reports how many times ev fired.
func (r *Recorder) Count(ev Event) int {
	return len(r.Calls(ev))
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

// Errors returns the calls that indicate an ill-typed site. A missing
// applicable candidate alone is not one: inexact method references may
// legitimately probe without a match.
func (r *Recorder) Errors() []Call {
	return r.Calls(EventAmbiguity, EventNoCompileTimeDecl, EventFallback)
}

// TB is the part of testing.TB the assertions need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// ShouldHaveNoErrors fails t if any error observation was recorded.
func (r *Recorder) ShouldHaveNoErrors(t TB) {
	t.Helper()
	if errs := r.Errors(); len(errs) > 0 {
		t.Fatalf("expected no resolution errors, got %s", summarize(errs))
	}
}

// ShouldHaveFired fails t unless ev fired exactly times times.
func (r *Recorder) ShouldHaveFired(t TB, ev Event, times int) {
	t.Helper()
	if got := r.Count(ev); got != times {
		t.Fatalf("expected %s to fire %d time(s), got %d: %s", ev, times, got, summarize(r.Calls()))
	}
}

func summarize(calls []Call) string {
	if len(calls) == 0 {
		return "<none>"
	}
	parts := make([]string, 0, len(calls))
	for _, c := range calls {
		s := c.Event.String() + "@" + c.Site.Expr
		if c.Reason != "" {
			s += " (" + c.Reason + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

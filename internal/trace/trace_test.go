package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeSession, false},
		{LevelError, ScopeSession, false},
		{LevelPhase, ScopeSession, true},
		{LevelPhase, ScopeQuery, false},
		{LevelDetail, ScopeQuery, true},
		{LevelDetail, ScopeWalk, false},
		{LevelDebug, ScopeWalk, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Fatalf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
	if !LevelError.Accepts(&Event{Kind: KindError, Scope: ScopeWalk}) {
		t.Fatalf("error events must pass at level error")
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		if _, err := ParseLevel(s); err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestSpanStreamText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	sp := Begin(tr, ScopeQuery, "subtype", 0).WithExtra("s", "Integer")
	Point(tr, ScopeWalk, "hidden", "")
	sp.End("subtype")
	if buf.Len() != 0 {
		t.Fatalf("stream output must be buffered until Flush")
	}
	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "→ subtype") || !strings.Contains(out, "← subtype (subtype)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("walk point leaked at detail level:\n%s", out)
	}
	if !strings.Contains(out, "s=Integer") {
		t.Fatalf("extra missing:\n%s", out)
	}
}

func TestNDJSONEvent(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Error(tr, "depth-guard", "A <: B")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["kind"] != "error" || got["name"] != "depth-guard" {
		t.Fatalf("unexpected event: %v", got)
	}
}

func TestRingWrapsAround(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeWalk, name, "")
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	if snap[0].Name != "c" || snap[2].Name != "e" {
		t.Fatalf("unexpected order: %s %s %s", snap[0].Name, snap[1].Name, snap[2].Name)
	}
	if r.Dropped() != 2 {
		t.Fatalf("dropped = %d, want 2", r.Dropped())
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 || lines[0] != "# 2 earlier event(s) dropped" {
		t.Fatalf("unexpected dump:\n%s", buf.String())
	}
}

func TestNewBothExposesRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Mode: ModeBoth, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Point(tr, ScopeSession, "load", "jdk")
	ring, ok := Ring(tr)
	if !ok {
		t.Fatalf("ring tracer not found")
	}
	if n := len(ring.Snapshot()); n != 1 {
		t.Fatalf("expected 1 ring event, got %d", n)
	}
	if err := tr.Flush(); err != nil || buf.Len() == 0 {
		t.Fatalf("stream output is empty (flush: %v)", err)
	}
}

func TestTeeCollapses(t *testing.T) {
	if Tee() != Nop || Tee(Nop, nil) != Nop {
		t.Fatalf("empty tee must be Nop")
	}
	r := NewRingTracer(2, LevelPhase)
	if Tee(Nop, r) != Tracer(r) {
		t.Fatalf("single live member must be returned as is")
	}
	var buf bytes.Buffer
	both := Tee(r, NewStreamTracer(&buf, LevelDebug, FormatText))
	if both.Level() != LevelDebug {
		t.Fatalf("tee level = %s, want debug", both.Level())
	}
	Point(both, ScopeWalk, "step", "")
	if err := both.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(r.Snapshot()) != 0 || !strings.Contains(buf.String(), "step") {
		t.Fatalf("members must keep their own filters")
	}
}

func TestSpanEndsOnce(t *testing.T) {
	r := NewRingTracer(8, LevelDetail)
	sp := Begin(r, ScopeQuery, "subtype", 0)
	if sp.End("yes") < 0 || sp.End("again") != 0 {
		t.Fatalf("second End must be a no-op")
	}
	if n := len(r.Snapshot()); n != 2 {
		t.Fatalf("expected begin and end only, got %d events", n)
	}
	var inert Span
	inert.WithExtra("k", "v").End("")
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer must be disabled")
	}
	if sp := Begin(tr, ScopeSession, "x", 0); sp.ID() != 0 {
		t.Fatalf("nop span must have zero id")
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context should yield Nop")
	}
	r := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	outer, ctx := BeginContext(ctx, ScopeSession, "batch")
	if Parent(ctx) != outer.ID() || outer.ID() == 0 {
		t.Fatalf("parent span not propagated")
	}
	inner, _ := BeginContext(ctx, ScopeQuery, "subtype")
	inner.End("")
	outer.End("")
	snap := r.Snapshot()
	if snap[1].Name != "subtype" || snap[1].ParentID != outer.ID() {
		t.Fatalf("inner span parent = %d, want %d", snap[1].ParentID, outer.ID())
	}

	quiet := WithTracer(context.Background(), NewRingTracer(4, LevelPhase))
	sp, got := BeginContext(quiet, ScopeWalk, "hidden")
	if sp.ID() != 0 || got != quiet {
		t.Fatalf("filtered span must leave the context alone")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestStreamReportsWriteErrorOnFlush(t *testing.T) {
	tr := NewStreamTracer(failingWriter{}, LevelDebug, FormatText)
	Point(tr, ScopeSession, "load", "")
	if err := tr.Flush(); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("Flush = %v, want ErrClosedPipe", err)
	}
}

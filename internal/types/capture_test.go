package types

import (
	"errors"
	"strings"
	"testing"
)

func TestCaptureSuperWildcard(t *testing.T) {
	r := newRegistry(t, Options{})
	k, _ := r.NewTypeVar("K")
	f, _ := r.NewTypeVar("F")
	w, err := r.Super(k)
	if err != nil {
		t.Fatalf("Super: %v", err)
	}
	listSuperK, err := r.Parameterise(r.Symbol("java.util.List"), []TypeID{w})
	if err != nil {
		t.Fatalf("Parameterise: %v", err)
	}

	captured, err := r.Capture(listSuperK)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	args := r.TypeArgs(captured)
	if len(args) != 1 {
		t.Fatalf("captured type should keep one argument, got %s", r.String(captured))
	}
	v := args[0]
	if !r.IsCaptured(v) || !r.IsCaptureOf(v, w) {
		t.Fatalf("%s should be a capture of %s", r.String(v), r.String(w))
	}
	if r.IsCaptureOf(v, r.Unbounded()) {
		t.Fatalf("capture identity is tied to the exact wildcard")
	}
	if again, _ := r.Super(k); again != w || !r.IsCaptureOf(v, again) {
		t.Fatalf("an equal wildcard built again is the same canonical wildcard")
	}
	if other, _ := r.Super(f); r.IsCaptureOf(v, other) {
		t.Fatalf("a wildcard with another bound is not the captured one")
	}
	if r.LowerBound(v) != k || r.UpperBound(v) != r.Object() {
		t.Fatalf("bounds of %s: lower %s upper %s", r.String(v), r.String(r.LowerBound(v)), r.String(r.UpperBound(v)))
	}
	if !r.IsSubtype(k, v) {
		t.Fatalf("K should be a subtype of its capture")
	}
	if r.IsSubtype(f, v) {
		t.Fatalf("an unrelated variable must not be a subtype of the capture")
	}
	if !r.IsSubtype(captured, listSuperK) {
		t.Fatalf("a capture is a subtype of the captured type")
	}
}

func TestCaptureIsNotMemoised(t *testing.T) {
	r := newRegistry(t, Options{})
	src := parse(t, r, "Map<?, ? extends Number>", nil)
	a, err := r.Capture(src)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	b, _ := r.Capture(src)
	if a == b {
		t.Fatalf("two captures must yield distinct types")
	}
	av, bv := r.TypeArgs(a), r.TypeArgs(b)
	for i := range av {
		if av[i] == bv[i] {
			t.Fatalf("capture variables must be fresh per call")
		}
	}
	if !strings.HasPrefix(r.SimpleString(av[1]), "capture#") || !strings.HasSuffix(r.SimpleString(av[1]), "of ? extends Number") {
		t.Fatalf("unexpected capture name %q", r.SimpleString(av[1]))
	}
	if r.UpperBound(av[1]) != parse(t, r, "Number", nil) {
		t.Fatalf("glb(Number, Object) should be Number")
	}
}

func TestCaptureSubstitutesDeclaredBounds(t *testing.T) {
	r := newRegistry(t, Options{})
	c, err := r.Capture(parse(t, r, "Enum<?>", nil))
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	v := r.TypeArgs(c)[0]
	upper := r.UpperBound(v)
	if want, _ := r.Parameterise(r.Symbol("java.lang.Enum"), []TypeID{v}); upper != want {
		t.Fatalf("capture of Enum<?> should be bounded by Enum<itself>, got %s", r.String(upper))
	}
	if !r.IsSubtype(v, parse(t, r, "Comparable<?>", nil)) {
		t.Fatalf("capture inherits the supertypes of its bound")
	}
}

func TestCaptureGlbKeepsBoth(t *testing.T) {
	r := newRegistry(t, Options{})
	k, _ := r.NewTypeVar("K", parse(t, r, "Number", nil))
	// Comparable<T> has an Object bound, so glb picks the wildcard bound
	c, err := r.Capture(parse(t, r, "Comparable<? extends K>", Scope{"K": k}))
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if v := r.TypeArgs(c)[0]; r.UpperBound(v) != k {
		t.Fatalf("upper bound = %s", r.String(r.UpperBound(v)))
	}
	d, err := r.Capture(parse(t, r, "Enum<? extends Comparable<String>>", nil))
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	v := r.TypeArgs(d)[0]
	if r.Kind(r.UpperBound(v)) != KindIntersection || len(r.Members(r.UpperBound(v))) != 2 {
		t.Fatalf("unrelated bounds should intersect, got %s", r.String(r.UpperBound(v)))
	}
}

func TestCapturePassThrough(t *testing.T) {
	r := newRegistry(t, Options{})
	plain := parse(t, r, "List<String>", nil)
	if c, err := r.Capture(plain); err != nil || c != plain {
		t.Fatalf("types without wildcards capture to themselves")
	}
	raw := r.Raw(r.Symbol("java.util.List"))
	if c, _ := r.Capture(raw); c != raw {
		t.Fatalf("raw types capture to themselves")
	}
	if c, _ := r.Capture(r.Builtins().Int); c != r.Builtins().Int {
		t.Fatalf("non-class types capture to themselves")
	}
	if _, err := r.Capture(r.Unbounded()); !errors.Is(err, ErrNotClassType) {
		t.Fatalf("capturing a bare wildcard is an error, got %v", err)
	}
	m := parse(t, r, "Map<String, ?>", nil)
	c, _ := r.Capture(m)
	if r.TypeArgs(c)[0] != parse(t, r, "String", nil) {
		t.Fatalf("non-wildcard arguments pass through unchanged")
	}
}

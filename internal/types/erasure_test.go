package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestErasure(t *testing.T) {
	r := newRegistry(t, Options{})
	k, _ := r.NewTypeVar("K", parse(t, r, "Number", nil), parse(t, r, "Comparable<String>", nil))
	scope := Scope{"K": k}
	cases := []struct {
		src, want string
	}{
		{"int", "int"},
		{"String", "java.lang.String"},
		{"List<String>", "java.util.List"},
		{"Map<String, List<? extends Number>>[][]", "java.util.Map[][]"},
		{"K", "java.lang.Number"},
		{"K[]", "java.lang.Number[]"},
		{"fixtures.Outer<String>.Inner<Integer>", "fixtures.Outer.Inner"},
	}
	for _, tc := range cases {
		got := r.String(r.Erasure(parse(t, r, tc.src, scope)))
		if got != tc.want {
			t.Fatalf("erasure of %s = %s, want %s", tc.src, got, tc.want)
		}
	}
	if !r.IsRaw(r.Erasure(parse(t, r, "List<String>", nil))) {
		t.Fatalf("generic classes erase to their raw form")
	}
	if !r.IsSameErasure(parse(t, r, "List<String>", nil), parse(t, r, "List<Integer>", nil)) {
		t.Fatalf("List<String> and List<Integer> share an erasure")
	}
	if r.IsSameErasure(parse(t, r, "List<String>", nil), parse(t, r, "Collection<String>", nil)) {
		t.Fatalf("different classes never share an erasure")
	}
}

func TestErasureIsIdempotent(t *testing.T) {
	r := newRegistry(t, Options{})
	for _, src := range []string{"Map<String, Integer>", "Enum<fixtures.SomeEnum>[]", "fixtures.RawList", "double[]"} {
		once := r.Erasure(parse(t, r, src, nil))
		if twice := r.Erasure(once); twice != once {
			t.Fatalf("erasure of %s is not stable: %s then %s", src, r.String(once), r.String(twice))
		}
	}
}

func TestSubst(t *testing.T) {
	r := newRegistry(t, Options{})
	a, _ := r.NewTypeVar("A")
	b, _ := r.NewTypeVar("B")
	scope := Scope{"A": a, "B": b}
	str := parse(t, r, "String", nil)
	s := Substitution{a: str}

	cases := []struct {
		src, want string
	}{
		{"A", "java.lang.String"},
		{"B", "B"},
		{"Map<A, B>", "java.util.Map<java.lang.String, B>"},
		{"List<? super A>[]", "java.util.List<? super java.lang.String>[]"},
		{"List<?>", "java.util.List<?>"},
	}
	for _, tc := range cases {
		got, err := r.Subst(parse(t, r, tc.src, scope), s)
		if err != nil {
			t.Fatalf("Subst(%s): %v", tc.src, err)
		}
		if r.String(got) != tc.want {
			t.Fatalf("Subst(%s) = %s, want %s", tc.src, r.String(got), tc.want)
		}
	}

	in := []TypeID{a, b, parse(t, r, "List<A>", scope)}
	out, err := r.SubstAll(in, Substitution{a: b})
	if err != nil {
		t.Fatalf("SubstAll: %v", err)
	}
	if diff := cmp.Diff([]TypeID{b, b, parse(t, r, "List<B>", scope)}, out); diff != "" {
		t.Fatalf("SubstAll mismatch (-want +got):\n%s", diff)
	}
	if got, _ := r.Subst(in[2], nil); got != in[2] {
		t.Fatalf("empty substitution must be the identity")
	}
}

func TestSubstFBoundedTerminates(t *testing.T) {
	r := newRegistry(t, Options{})
	enum := r.Symbol("java.lang.Enum")
	info, ok := r.SymbolInfo(enum)
	if !ok || len(info.Params) != 1 {
		t.Fatalf("Enum should declare one parameter")
	}
	e := info.Params[0]
	if got := r.String(r.UpperBound(e)); got != "java.lang.Enum<E>" {
		t.Fatalf("declared bound = %s", got)
	}
	some := parse(t, r, "fixtures.SomeEnum", nil)
	got, err := r.Subst(r.UpperBound(e), Substitution{e: some})
	if err != nil {
		t.Fatalf("Subst: %v", err)
	}
	if got != parse(t, r, "Enum<fixtures.SomeEnum>", nil) {
		t.Fatalf("Subst over an F-bound = %s", r.String(got))
	}
}

func TestTypeParamMapping(t *testing.T) {
	r := newRegistry(t, Options{})
	inner := parse(t, r, "fixtures.Outer<String>.Inner<Integer>", nil)
	m := r.TypeParamMapping(inner)
	if len(m) != 2 {
		t.Fatalf("expected mappings for T and U, got %d", len(m))
	}
	got := make(map[string]string, len(m))
	for k, v := range m {
		got[r.String(k)] = r.String(v)
	}
	want := map[string]string{"T": "java.lang.String", "U": "java.lang.Integer"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestInstantiate(t *testing.T) {
	r := newRegistry(t, Options{})
	list := r.Symbol("java.util.List")
	info, _ := r.SymbolInfo(list)
	elem := info.Params[0]
	template, err := r.Parameterise(r.Symbol("java.lang.Iterable"), []TypeID{elem})
	if err != nil {
		t.Fatalf("Parameterise: %v", err)
	}

	got, err := r.Instantiate(parse(t, r, "List<String>", nil), template)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if r.String(got) != "java.lang.Iterable<java.lang.String>" {
		t.Fatalf("Instantiate = %s", r.String(got))
	}

	raw, err := r.Instantiate(r.Raw(list), template)
	if err != nil {
		t.Fatalf("Instantiate raw: %v", err)
	}
	if !r.IsRaw(raw) || r.SymbolOf(raw) != r.Symbol("java.lang.Iterable") {
		t.Fatalf("members of a raw owner are erased, got %s", r.String(raw))
	}
}

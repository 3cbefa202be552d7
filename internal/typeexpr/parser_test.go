package typeexpr

import (
	"errors"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"int",
		"java.lang.String",
		"List<? extends Number>",
		"List<? super Integer>",
		"Map<String, List<?>>",
		"int[][]",
		"List<String>[]",
		"Outer<String>.Inner<Integer>",
		"List<String> & Comparable<List<String>>",
	}
	for _, src := range cases {
		e, err := Parse(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		if got := e.String(); got != src {
			t.Fatalf("round trip: want %q, got %q", src, got)
		}
	}
}

func TestParseStructure(t *testing.T) {
	e := MustParse("Outer<String>.Inner<Integer>[]")
	if e.Kind != KindName || e.Name != "Inner" || e.Dims != 1 {
		t.Fatalf("unexpected member type %+v", e)
	}
	if e.Outer == nil || e.Outer.Name != "Outer" || len(e.Outer.Args) != 1 {
		t.Fatalf("unexpected outer %+v", e.Outer)
	}

	w := MustParse("List<? super java.lang.Integer>").Args[0]
	if w.Kind != KindWildcard || w.Bound != BoundSuper || w.Elem.Name != "java.lang.Integer" {
		t.Fatalf("unexpected wildcard %+v", w)
	}
}

func TestParseTypeParam(t *testing.T) {
	tp, err := ParseTypeParam("E extends Enum<E>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tp.Name != "E" || len(tp.Bounds) != 1 || tp.Bounds[0].String() != "Enum<E>" {
		t.Fatalf("unexpected param %v", tp)
	}

	tp, err = ParseTypeParam("T extends Number & Comparable<T>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tp.Bounds) != 2 {
		t.Fatalf("expected two bounds, got %v", tp)
	}

	tp, err = ParseTypeParam("K")
	if err != nil || tp.Name != "K" || len(tp.Bounds) != 0 {
		t.Fatalf("unexpected bare param %v (%v)", tp, err)
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"",
		"List<",
		"List<String",
		"List<String>>",
		"? & Number",
		"Number & ?",
		"int[",
		"List<#>",
	}
	for _, src := range bad {
		_, err := Parse(src)
		var syn *SyntaxError
		if !errors.As(err, &syn) {
			t.Fatalf("parse %q: expected SyntaxError, got %v", src, err)
		}
	}
}

func TestIsPrimitiveName(t *testing.T) {
	if !IsPrimitiveName("char") || IsPrimitiveName("Character") {
		t.Fatalf("primitive name detection is wrong")
	}
}

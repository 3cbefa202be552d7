package types

import (
	"errors"
	"path/filepath"
	"testing"

	"jtypes/internal/classpath"
	"jtypes/internal/symbols"
)

func newRegistry(t *testing.T, opts Options) *Registry {
	t.Helper()
	tab, err := classpath.Load([]string{filepath.Join("testdata", "fixtures.toml")}, classpath.Options{Bootstrap: true})
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	r, err := NewRegistry(tab, opts)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func parse(t *testing.T, r *Registry, src string, scope Scope) TypeID {
	t.Helper()
	id, err := r.Parse(src, scope)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return id
}

func TestRegistryBuiltins(t *testing.T) {
	r := newRegistry(t, Options{})
	b := r.Builtins()
	if b.Object == NoTypeID || b.Null == NoTypeID || b.Error == NoTypeID || b.Unresolved == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	if r.Kind(b.Int) != KindPrimitive || r.MustLookup(b.Int).Prim != PrimInt {
		t.Fatalf("expected int primitive, got %v", r.MustLookup(b.Int))
	}
	if r.IsUnresolvedClass(b.Cloneable) || r.IsUnresolvedClass(b.Serializable) {
		t.Fatalf("array supertypes should resolve against the bootstrap classpath")
	}
	if got := len(r.AllPrimitives()); got != 8 {
		t.Fatalf("expected 8 primitives, got %d", got)
	}
}

func TestNewRegistryNeedsRootClass(t *testing.T) {
	_, err := NewRegistry(symbols.NewTable(symbols.Hints{}), Options{})
	var unresolved *UnresolvedSymbolError
	if !errors.As(err, &unresolved) || unresolved.Name != ObjectName {
		t.Fatalf("expected UnresolvedSymbolError for %s, got %v", ObjectName, err)
	}
}

func TestParameteriseDeduplicates(t *testing.T) {
	r := newRegistry(t, Options{})
	list := r.Symbol("java.util.List")
	str := parse(t, r, "String", nil)
	a, err := r.Parameterise(list, []TypeID{str})
	if err != nil {
		t.Fatalf("Parameterise: %v", err)
	}
	b, _ := r.Parameterise(list, []TypeID{str})
	if a != b {
		t.Fatalf("equal shapes must intern to one id")
	}
	if c := parse(t, r, "java.util.List<java.lang.String>", nil); c != a {
		t.Fatalf("parsed type differs from constructed one")
	}
	if r.Symbol("List") != list {
		t.Fatalf("unique simple names should alias the qualified symbol")
	}
}

func TestNonGenericArgsAreNil(t *testing.T) {
	r := newRegistry(t, Options{})
	// parsed first: the resolver hands over an empty, non-nil argument list
	parsed := parse(t, r, "RandomAccess", nil)
	decl := r.Declaration(r.Symbol("java.util.RandomAccess"))
	if parsed != decl {
		t.Fatalf("parsed and declared RandomAccess differ")
	}
	if args := r.TypeArgs(parsed); args != nil {
		t.Fatalf("non-generic class args = %#v, want nil", args)
	}
	if _, info, _ := r.Class(parsed); info.Args != nil {
		t.Fatalf("stored args = %#v, want nil", info.Args)
	}
}

func TestArrayFolding(t *testing.T) {
	r := newRegistry(t, Options{})
	i := r.Builtins().Int
	one := r.MustArrayType(i, 1)
	if r.MustArrayType(one, 1) != r.MustArrayType(i, 2) {
		t.Fatalf("int[][] must be the same type however it is built")
	}
	if r.Component(r.MustArrayType(i, 2)) != one {
		t.Fatalf("component of int[][] should be int[]")
	}
	if r.ElementType(r.MustArrayType(i, 3)) != i {
		t.Fatalf("element of int[][][] should be int")
	}
	if _, err := r.ArrayType(r.Null(), 1); err == nil {
		t.Fatalf("null[] must be rejected")
	}
}

func TestArity(t *testing.T) {
	r := newRegistry(t, Options{})
	m := r.Symbol("java.util.Map")
	str := parse(t, r, "String", nil)

	_, err := r.Parameterise(m, []TypeID{str})
	var arity *TypeArityError
	if !errors.As(err, &arity) || arity.Want != 2 || arity.Got != 1 {
		t.Fatalf("expected arity error 2/1, got %v", err)
	}

	raw, err := r.Parameterise(m, nil)
	if err != nil || !r.IsRaw(raw) || raw != r.Raw(m) {
		t.Fatalf("zero arguments should give the raw type, got %v %v", raw, err)
	}

	strict := newRegistry(t, Options{StrictArity: true})
	if _, err := strict.Parameterise(strict.Symbol("java.util.Map"), nil); !errors.As(err, &arity) {
		t.Fatalf("strict arity should reject zero arguments, got %v", err)
	}

	missing := r.UnresolvedSymbol("com.acme.Missing", 1)
	if _, err := r.Parameterise(missing, []TypeID{str, str, str}); err != nil {
		t.Fatalf("unresolved symbols accept any arity: %v", err)
	}
}

func TestInvalidBounds(t *testing.T) {
	r := newRegistry(t, Options{})
	i := r.Builtins().Int
	var bound *InvalidBoundError
	if _, err := r.Extends(i); !errors.As(err, &bound) {
		t.Fatalf("? extends int must be rejected, got %v", err)
	}
	if _, err := r.Intersection(r.Object(), i); !errors.As(err, &bound) {
		t.Fatalf("primitive intersection member must be rejected, got %v", err)
	}
	if _, err := r.NewTypeVar("T", r.Unbounded()); !errors.As(err, &bound) {
		t.Fatalf("wildcard variable bound must be rejected, got %v", err)
	}
	if _, err := r.Parameterise(r.Symbol("java.util.List"), []TypeID{i}); !errors.As(err, &bound) {
		t.Fatalf("primitive type argument must be rejected, got %v", err)
	}
	if _, err := r.Parse("int<String>", nil); !errors.As(err, &bound) {
		t.Fatalf("primitive with arguments must be rejected, got %v", err)
	}
}

func TestIntersectionShape(t *testing.T) {
	r := newRegistry(t, Options{})
	str := parse(t, r, "String", nil)
	num := parse(t, r, "Number", nil)
	x, err := r.Intersection(str, num, str)
	if err != nil {
		t.Fatalf("Intersection: %v", err)
	}
	if got := r.Members(x); len(got) != 2 || got[0] != str {
		t.Fatalf("duplicates must be dropped and order kept, got %v", got)
	}
	nested, _ := r.Intersection(x, num)
	if nested != x {
		t.Fatalf("nested intersections must flatten")
	}
	single, _ := r.Intersection(str, str)
	if single != str {
		t.Fatalf("a single member collapses to itself")
	}
}

func TestUnresolvedNamesDegrade(t *testing.T) {
	r := newRegistry(t, Options{})
	id := parse(t, r, "com.acme.Widget<String>", nil)
	if !r.IsUnresolvedClass(id) {
		t.Fatalf("unknown names should become unresolved classes")
	}
	if r.SuperClass(id) != r.Object() {
		t.Fatalf("unresolved classes extend the root class")
	}
	if got := r.String(id); got != "com.acme.Widget<java.lang.String>" {
		t.Fatalf("String = %q", got)
	}
}

func TestStringRendering(t *testing.T) {
	r := newRegistry(t, Options{})
	k, _ := r.NewTypeVar("K")
	cases := []struct {
		src, qualified, simple string
	}{
		{"Map<String, ? extends Number>", "java.util.Map<java.lang.String, ? extends java.lang.Number>", "Map<String, ? extends Number>"},
		{"List<? super K>[][]", "java.util.List<? super K>[][]", "List<? super K>[][]"},
		{"Outer<String>.Inner<Integer>", "fixtures.Outer<java.lang.String>.Inner<java.lang.Integer>", "Outer<String>.Inner<Integer>"},
		{"Number & Comparable<K>", "java.lang.Number & java.lang.Comparable<K>", "Number & Comparable<K>"},
		{"Map.Entry<K, K>", "java.util.Map.Entry<K, K>", "Entry<K, K>"},
	}
	for _, tc := range cases {
		id := parse(t, r, tc.src, Scope{"K": k})
		if got := r.String(id); got != tc.qualified {
			t.Fatalf("String(%s) = %q, want %q", tc.src, got, tc.qualified)
		}
		if got := r.SimpleString(id); got != tc.simple {
			t.Fatalf("SimpleString(%s) = %q, want %q", tc.src, got, tc.simple)
		}
	}
}

func TestStaticMemberDropsOuter(t *testing.T) {
	r := newRegistry(t, Options{})
	a := parse(t, r, "Map<String, Integer>.Entry<String, Integer>", nil)
	b := parse(t, r, "java.util.Map.Entry<String, Integer>", nil)
	if a != b {
		t.Fatalf("member interfaces must not carry the enclosing type: %s vs %s", r.String(a), r.String(b))
	}
}

func TestDeclaredTypeVariables(t *testing.T) {
	r := newRegistry(t, Options{})
	decl := r.DeclarationOf("java.lang.Enum")
	args := r.TypeArgs(decl)
	if len(args) != 1 || r.Kind(args[0]) != KindTypeVar {
		t.Fatalf("Enum declaration should be applied to its own variable, got %s", r.String(decl))
	}
	if got := r.String(r.UpperBound(args[0])); got != "java.lang.Enum<E>" {
		t.Fatalf("F-bound = %q", got)
	}
	info, ok := r.TypeVar(args[0])
	if !ok || info.Owner != r.Symbol("java.lang.Enum") || info.Index != 0 {
		t.Fatalf("unexpected owner info %+v", info)
	}
}

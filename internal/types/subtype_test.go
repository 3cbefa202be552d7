package types

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jtypes/internal/typeexpr"
)

func TestPrimitiveWidening(t *testing.T) {
	r := newRegistry(t, Options{})
	b := r.Builtins()

	set := func(id TypeID) []TypeID {
		s, err := r.SuperTypeSet(id)
		if err != nil {
			t.Fatalf("SuperTypeSet: %v", err)
		}
		return s.Sorted()
	}
	if diff := cmp.Diff([]TypeID{b.Byte, b.Short, b.Int, b.Long, b.Float, b.Double}, set(b.Byte)); diff != "" {
		t.Fatalf("superTypeSet(byte) (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]TypeID{b.Char, b.Int, b.Long, b.Float, b.Double}, set(b.Char)); diff != "" {
		t.Fatalf("superTypeSet(char) (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]TypeID{b.Boolean}, set(b.Boolean)); diff != "" {
		t.Fatalf("superTypeSet(boolean) (-want +got):\n%s", diff)
	}

	if r.IsSubtype(b.Short, b.Char) || r.IsSubtype(b.Char, b.Short) {
		t.Fatalf("short and char must be unrelated")
	}
	for _, p := range r.AllPrimitives() {
		if p == b.Boolean {
			continue
		}
		if r.IsSubtype(p, b.Boolean) || r.IsSubtype(b.Boolean, p) {
			t.Fatalf("%s must be unrelated to boolean", r.String(p))
		}
	}
	if !r.IsSubtype(b.Int, b.Double) || r.IsSubtype(b.Double, b.Int) {
		t.Fatalf("int widens to double, not the other way")
	}
	if r.IsSubtype(b.Int, r.Object()) || r.IsSubtype(parse(t, r, "Integer", nil), b.Int) {
		t.Fatalf("primitive/reference pairs are unrelated")
	}
}

func TestReferenceArrays(t *testing.T) {
	r := newRegistry(t, Options{})
	k, _ := r.NewTypeVar("K")
	objArr := r.MustArrayType(r.Object(), 1)
	samples := []TypeID{
		r.Object(),
		parse(t, r, "String", nil),
		parse(t, r, "List<? extends Number>", nil),
		parse(t, r, "Map<String, Integer>", nil),
		k,
	}
	for _, s := range samples {
		for dims := 1; dims <= 5; dims++ {
			arr := r.MustArrayType(s, dims)
			for _, sup := range []TypeID{objArr, r.Object(), r.Cloneable(), r.Serializable()} {
				if !r.IsSubtype(arr, sup) {
					t.Fatalf("%s should be a subtype of %s", r.String(arr), r.String(sup))
				}
			}
		}
	}
	if !r.IsSubtype(parse(t, r, "Integer[][]", nil), parse(t, r, "Number[][]", nil)) {
		t.Fatalf("reference arrays are covariant")
	}
	if r.IsSubtype(parse(t, r, "Number[]", nil), parse(t, r, "Integer[]", nil)) {
		t.Fatalf("array covariance is not contravariance")
	}
	if !r.IsSubtype(parse(t, r, "int[][]", nil), objArr) {
		t.Fatalf("int[][] is an array of objects")
	}
}

func TestPrimitiveArrays(t *testing.T) {
	r := newRegistry(t, Options{})
	prims := r.AllPrimitives()
	refArrays := []TypeID{
		r.MustArrayType(r.Object(), 1),
		parse(t, r, "Integer[]", nil),
		r.MustArrayType(r.Serializable(), 1),
	}
	for _, p := range prims {
		pa := r.MustArrayType(p, 1)
		if !r.IsSubtype(pa, r.Object()) || !r.IsSubtype(pa, r.Cloneable()) || !r.IsSubtype(pa, r.Serializable()) {
			t.Fatalf("%s must extend the array supertypes", r.String(pa))
		}
		for _, q := range prims {
			if p == q {
				continue
			}
			if r.IsSubtype(pa, r.MustArrayType(q, 1)) {
				t.Fatalf("%s must be unrelated to %s[]", r.String(pa), r.String(q))
			}
		}
		for _, ra := range refArrays {
			if r.IsSubtype(pa, ra) || r.IsSubtype(ra, pa) {
				t.Fatalf("%s must be unrelated to %s", r.String(pa), r.String(ra))
			}
		}
	}
}

func TestWildcardContainment(t *testing.T) {
	r := newRegistry(t, Options{})
	chain := func(srcs ...string) {
		t.Helper()
		for i := 0; i+1 < len(srcs); i++ {
			sup, sub := parse(t, r, srcs[i], nil), parse(t, r, srcs[i+1], nil)
			if !r.IsSubtype(sub, sup) {
				t.Fatalf("%s should be a subtype of %s", srcs[i+1], srcs[i])
			}
			if r.IsSubtype(sup, sub) {
				t.Fatalf("%s should not be a subtype of %s", srcs[i], srcs[i+1])
			}
		}
		// transitivity
		if first, last := parse(t, r, srcs[0], nil), parse(t, r, srcs[len(srcs)-1], nil); !r.IsSubtype(last, first) {
			t.Fatalf("%s should be a subtype of %s", srcs[len(srcs)-1], srcs[0])
		}
	}
	chain("List<?>", "List<? extends Number>", "List<? extends Integer>", "List<Integer>")
	chain("List<?>", "List<? super Integer>", "List<? super Number>", "List<Number>")
	chain("Collection<? extends Number>", "List<? extends Integer>", "ArrayList<Integer>")

	unrelated := [][2]string{
		{"List<Number>", "List<? extends Integer>"},
		{"List<Integer>", "List<? super Number>"},
		{"List<Integer>", "List<Number>"},
	}
	for _, pair := range unrelated {
		a, b := parse(t, r, pair[0], nil), parse(t, r, pair[1], nil)
		if r.IsSubtype(a, b) || r.IsSubtype(b, a) {
			t.Fatalf("%s and %s must be unrelated", pair[0], pair[1])
		}
	}
}

func TestNestedWildcardSupertypes(t *testing.T) {
	r := newRegistry(t, Options{})
	s := parse(t, r, "ComparableList<? extends Number>", nil)
	if !r.IsSubtype(s, parse(t, r, "List<? extends Number>", nil)) {
		t.Fatalf("top-level wildcard should carry over to List")
	}
	if !r.IsSubtype(s, parse(t, r, "Comparable<? extends List<? extends Number>>", nil)) {
		t.Fatalf("nested wildcard should be captured and contained")
	}
	if r.IsSubtype(s, parse(t, r, "Comparable<List<? extends Number>>", nil)) {
		t.Fatalf("a captured argument is not the wildcard itself")
	}
}

func TestIntersectionSubtyping(t *testing.T) {
	r := newRegistry(t, Options{})
	list := parse(t, r, "List<String>", nil)
	cmpList := parse(t, r, "Comparable<List<String>>", nil)
	x, err := r.Intersection(list, cmpList)
	if err != nil {
		t.Fatalf("Intersection: %v", err)
	}
	for _, impl := range []string{"StringList", "ComparableList<String>"} {
		if !r.IsSubtype(parse(t, r, impl, nil), x) {
			t.Fatalf("%s implements both members of X", impl)
		}
	}
	if r.IsSubtype(parse(t, r, "ArrayList<String>", nil), x) {
		t.Fatalf("ArrayList<String> is not Comparable")
	}
	for _, sup := range []string{"List<String>", "Comparable<List<String>>", "Collection<String>", "Object"} {
		if !r.IsSubtype(x, parse(t, r, sup, nil)) {
			t.Fatalf("X should be a subtype of %s", sup)
		}
	}
	if r.IsSubtype(x, parse(t, r, "Collection<Integer>", nil)) {
		t.Fatalf("X must be unrelated to Collection<Integer>")
	}

	y := parse(t, r, "Comparable<List<String>> & List<String>", nil)
	if x == y {
		t.Fatalf("construction order is kept in the shape")
	}
	if !r.IsSubtype(x, y) || !r.IsSubtype(y, x) || !r.IsSameType(x, y) {
		t.Fatalf("intersections with the same members are equal")
	}
}

func TestFBoundedEnum(t *testing.T) {
	r := newRegistry(t, Options{})
	e := parse(t, r, "SomeEnum", nil)
	if r.IsRaw(e) {
		t.Fatalf("SomeEnum is not raw")
	}
	for _, sup := range []string{"Enum<SomeEnum>", "Comparable<SomeEnum>", "Enum<?>", "Enum<? extends Enum<SomeEnum>>"} {
		if !r.IsSubtype(e, parse(t, r, sup, nil)) {
			t.Fatalf("SomeEnum should be a subtype of %s", sup)
		}
	}
	if r.IsSubtype(e, parse(t, r, "Comparable<Integer>", nil)) {
		t.Fatalf("SomeEnum is not Comparable<Integer>")
	}
}

func TestRawTypes(t *testing.T) {
	r := newRegistry(t, Options{})
	param := parse(t, r, "ArrayList<String>", nil)
	raw := r.Raw(r.Symbol("java.util.ArrayList"))
	if r.Erasure(param) != raw {
		t.Fatalf("erasure(ArrayList<String>) = %s", r.String(r.Erasure(param)))
	}
	if !r.IsSubtype(param, raw) {
		t.Fatalf("ArrayList<String> <: ArrayList")
	}
	sc := r.SuperClass(raw)
	if !r.IsRaw(sc) || r.SymbolOf(sc) != r.Symbol("java.util.AbstractList") {
		t.Fatalf("raw superclass = %s", r.String(sc))
	}
	for _, iface := range r.Interfaces(raw) {
		if len(r.TypeArgs(iface)) != 0 {
			t.Fatalf("raw interfaces carry no arguments, got %s", r.String(iface))
		}
	}
	rawList := parse(t, r, "RawList", nil)
	if got := r.Convertibility(rawList, parse(t, r, "List<String>", nil)); got != UncheckedWarning {
		t.Fatalf("a class extending a raw type converts unchecked, got %s", got)
	}
}

func TestRawToWildcard(t *testing.T) {
	r := newRegistry(t, Options{})
	raw := r.Raw(r.Symbol("java.lang.Class"))
	str := parse(t, r, "Class<String>", nil)
	wild := parse(t, r, "Class<?>", nil)

	if !r.IsSubtype(str, raw) || !r.IsSubtype(wild, raw) || !r.IsSubtype(str, wild) {
		t.Fatalf("Class<String> <: Class, Class<?> <: Class, Class<String> <: Class<?>")
	}
	if r.IsSubtype(wild, str) || r.IsUncheckedSubtype(wild, str) {
		t.Fatalf("Class<?> is not a Class<String>")
	}
	if got := r.Convertibility(raw, wild); got != UncheckedNoWarning {
		t.Fatalf("Class -> Class<?> = %s", got)
	}
	if !r.IsSubtype(raw, wild) || r.IsUncheckedSubtype(raw, wild) {
		t.Fatalf("Class <: Class<?> without an unchecked flag")
	}
	if r.IsSubtype(raw, str) || !r.IsUncheckedSubtype(raw, str) || !r.IsConvertible(raw, str) {
		t.Fatalf("Class is only an unchecked subtype of Class<String>")
	}
}

func TestNullAndSentinels(t *testing.T) {
	r := newRegistry(t, Options{})
	k, _ := r.NewTypeVar("K")
	refs := []TypeID{
		r.Object(),
		parse(t, r, "String", nil),
		parse(t, r, "List<? super Integer>", nil),
		parse(t, r, "int[]", nil),
		parse(t, r, "String[][]", nil),
		parse(t, r, "Number & Comparable<Integer>", nil),
		parse(t, r, "com.acme.Missing", nil),
		k,
	}
	samples := append(append([]TypeID{}, refs...), r.AllPrimitives()...)

	for _, ref := range refs {
		if !r.IsSubtype(r.Null(), ref) {
			t.Fatalf("null should be a subtype of %s", r.String(ref))
		}
	}
	for _, p := range r.AllPrimitives() {
		if r.IsSubtype(r.Null(), p) {
			t.Fatalf("null must not be a subtype of %s", r.String(p))
		}
	}
	for _, sentinel := range []TypeID{r.Error(), r.Unresolved()} {
		for _, s := range samples {
			if !r.IsSubtype(sentinel, s) || !r.IsSubtype(s, sentinel) {
				t.Fatalf("%s must relate both ways to %s", r.String(sentinel), r.String(s))
			}
		}
	}
	if !r.IsSubtype(r.Error(), r.Unresolved()) || !r.IsSubtype(r.Unresolved(), r.Error()) {
		t.Fatalf("sentinels relate to each other")
	}
}

func TestUnresolvedClassSymbol(t *testing.T) {
	r := newRegistry(t, Options{})
	u := r.Declaration(r.UnresolvedSymbol("com.acme.Missing", 0))
	if !r.IsUnresolvedClass(u) {
		t.Fatalf("expected an unresolved class type")
	}
	k, _ := r.NewTypeVar("K", parse(t, r, "Number", nil))
	for _, sup := range []TypeID{
		r.Object(),
		parse(t, r, "String", nil),
		parse(t, r, "List<Integer>", nil),
		parse(t, r, "Number & Comparable<Integer>", nil),
		k,
	} {
		if !r.IsSubtype(u, sup) {
			t.Fatalf("an unresolved class should be a subtype of %s", r.String(sup))
		}
	}
	for _, sup := range append([]TypeID{parse(t, r, "String[]", nil), parse(t, r, "int[]", nil)}, r.AllPrimitives()...) {
		if r.IsSubtype(u, sup) {
			t.Fatalf("an unresolved class must not be a subtype of %s", r.String(sup))
		}
	}
	for _, sub := range []TypeID{parse(t, r, "String", nil), parse(t, r, "int[]", nil), k} {
		if !r.IsSubtype(sub, u) {
			t.Fatalf("%s should be a subtype of an unresolved class", r.String(sub))
		}
	}
	if r.IsSubtype(r.Builtins().Int, u) {
		t.Fatalf("primitives are unrelated to classes, resolved or not")
	}
}

func TestTypeVariables(t *testing.T) {
	r := newRegistry(t, Options{})
	num := parse(t, r, "Number", nil)
	k, _ := r.NewTypeVar("K", num)
	other, _ := r.NewTypeVar("K", num)
	if k == other {
		t.Fatalf("variables are never interned")
	}
	if r.IsSubtype(k, other) || r.IsSubtype(other, k) {
		t.Fatalf("distinct variables are unrelated even when they look alike")
	}
	for _, sup := range []string{"Number", "java.io.Serializable", "Object"} {
		if !r.IsSubtype(k, parse(t, r, sup, nil)) {
			t.Fatalf("K extends Number should be a subtype of %s", sup)
		}
	}
	if r.IsSubtype(k, parse(t, r, "Integer", nil)) || r.IsSubtype(num, k) {
		t.Fatalf("bounds only go up")
	}

	tp, err := typeexpr.ParseTypeParam("N extends Comparable<N>")
	if err != nil {
		t.Fatalf("ParseTypeParam: %v", err)
	}
	scope := Scope{}
	ids, err := r.DeclareTypeVars([]typeexpr.TypeParam{tp}, scope)
	if err != nil {
		t.Fatalf("DeclareTypeVars: %v", err)
	}
	n := ids[0]
	if !r.IsSubtype(n, parse(t, r, "Comparable<N>", scope)) {
		t.Fatalf("N extends Comparable<N> should be a subtype of its bound")
	}
	if !r.IsSubtype(n, parse(t, r, "Comparable<? extends Comparable<N>>", scope)) {
		t.Fatalf("N <: Comparable<? extends Comparable<N>>")
	}
}

func TestIntersectionBoundedVariable(t *testing.T) {
	r := newRegistry(t, Options{})
	v, err := r.NewTypeVar("T", parse(t, r, "Number", nil), parse(t, r, "Comparable<Integer>", nil))
	if err != nil {
		t.Fatalf("NewTypeVar: %v", err)
	}
	for _, sup := range []string{"Number", "Comparable<Integer>", "Number & Comparable<Integer>"} {
		if !r.IsSubtype(v, parse(t, r, sup, nil)) {
			t.Fatalf("T should be a subtype of %s", sup)
		}
	}
	if r.Erasure(v) != parse(t, r, "Number", nil) {
		t.Fatalf("a variable erases to its first bound")
	}
}

func TestInnerClassSupertypes(t *testing.T) {
	r := newRegistry(t, Options{})
	inner := parse(t, r, "Outer<String>.Inner<Integer>", nil)
	if got := r.String(r.SuperClass(inner)); got != "fixtures.Box<java.lang.String>" {
		t.Fatalf("superclass of Outer<String>.Inner<Integer> = %s", got)
	}
	if !r.IsSubtype(inner, parse(t, r, "Outer<?>.Inner<?>", nil)) {
		t.Fatalf("enclosing arguments are contained too")
	}
	if r.IsSubtype(inner, parse(t, r, "Outer<Integer>.Inner<Integer>", nil)) {
		t.Fatalf("enclosing arguments are invariant")
	}
}

func TestDepthGuard(t *testing.T) {
	r := newRegistry(t, Options{MaxDepth: 16})
	grow := parse(t, r, "Grow<String>", nil)
	target := parse(t, r, "Comparable<String>", nil)
	c, err := r.CheckSubtype(grow, target)
	if !errors.Is(err, ErrDepthExceeded) || c != Never {
		t.Fatalf("expected the depth guard to abort, got %s %v", c, err)
	}
	if r.IsSubtype(grow, target) {
		t.Fatalf("an aborted query answers false")
	}
	if !r.IsSubtype(grow, r.Object()) {
		t.Fatalf("other queries on the same registry still work")
	}
}

func TestCyclicHierarchyTerminates(t *testing.T) {
	r := newRegistry(t, Options{})
	c, err := r.CheckSubtype(parse(t, r, "CycA", nil), parse(t, r, "String", nil))
	if err != nil || c != Never {
		t.Fatalf("cyclic declarations should just be unrelated, got %s %v", c, err)
	}
	if !r.IsSubtype(parse(t, r, "CycA", nil), parse(t, r, "CycB", nil)) {
		t.Fatalf("CycA extends CycB")
	}
}

func TestSuperTypeSetOfClass(t *testing.T) {
	r := newRegistry(t, Options{})
	set, err := r.SuperTypeSet(parse(t, r, "ArrayList<String>", nil))
	if err != nil {
		t.Fatalf("SuperTypeSet: %v", err)
	}
	for _, want := range []string{
		"ArrayList<String>", "AbstractList<String>", "AbstractCollection<String>",
		"List<String>", "Collection<String>", "Iterable<String>",
		"java.util.RandomAccess", "Cloneable", "java.io.Serializable", "Object",
	} {
		if !set.Has(parse(t, r, want, nil)) {
			t.Fatalf("missing %s in %v", want, render(r, set))
		}
	}
	if set.Has(parse(t, r, "List<Object>", nil)) {
		t.Fatalf("List<Object> is not a supertype of ArrayList<String>")
	}

	arr, err := r.SuperTypeSet(parse(t, r, "String[]", nil))
	if err != nil {
		t.Fatalf("SuperTypeSet: %v", err)
	}
	for _, want := range []string{"String[]", "Object[]", "CharSequence[]", "Comparable<String>[]", "Object", "Cloneable"} {
		if !arr.Has(parse(t, r, want, nil)) {
			t.Fatalf("missing %s in %v", want, render(r, arr))
		}
	}
}

func TestAsSuper(t *testing.T) {
	r := newRegistry(t, Options{})
	sup, err := r.AsSuper(parse(t, r, "HashMap<String, Integer>", nil), r.Symbol("java.util.Map"))
	if err != nil || sup != parse(t, r, "Map<String, Integer>", nil) {
		t.Fatalf("AsSuper(HashMap, Map) = %s %v", r.String(sup), err)
	}
	if sup, _ := r.AsSuper(parse(t, r, "String", nil), r.Symbol("java.util.List")); sup != NoTypeID {
		t.Fatalf("String has no List supertype, got %s", r.String(sup))
	}
	k, _ := r.NewTypeVar("K", parse(t, r, "ArrayList<Integer>", nil))
	if sup, _ := r.AsSuper(k, r.Symbol("java.lang.Iterable")); sup != parse(t, r, "Iterable<Integer>", nil) {
		t.Fatalf("AsSuper through a variable bound = %s", r.String(sup))
	}
}

func render(r *Registry, set TypeSet) []string {
	out := make([]string, 0, set.Len())
	for _, id := range set.Sorted() {
		out = append(out, r.SimpleString(id))
	}
	return out
}

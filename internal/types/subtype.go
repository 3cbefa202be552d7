package types

import (
	"errors"

	"jtypes/internal/trace"
)

// Convertibility grades how a type converts to another by subtyping.
// Levels are ordered: a larger value is a stronger relation.
type Convertibility uint8

const (
	// Never means the types are unrelated.
	Never Convertibility = iota
	// UncheckedWarning marks a raw-to-parameterised conversion the
	// compiler accepts with an unchecked warning.
	UncheckedWarning
	// UncheckedNoWarning marks a raw-to-parameterised conversion where every
	// target argument is an unbounded wildcard, which needs no warning.
	UncheckedNoWarning
	// Subtyping is a proper subtype relation.
	Subtyping
)

func (c Convertibility) String() string {
	switch c {
	case Never:
		return "never"
	case UncheckedWarning:
		return "unchecked"
	case UncheckedNoWarning:
		return "unchecked-no-warning"
	case Subtyping:
		return "subtype"
	default:
		return "Convertibility(?)"
	}
}

// IsSubtype reports whether the conversion compiles without a warning.
func (c Convertibility) IsSubtype() bool {
	return c == Subtyping || c == UncheckedNoWarning
}

// IsUnchecked reports whether the conversion is only an unchecked one.
func (c Convertibility) IsUnchecked() bool { return c == UncheckedWarning }

// IsConvertible reports whether any conversion applies.
func (c Convertibility) IsConvertible() bool { return c != Never }

// Convertibility decides how s converts to t. A query that outgrows the depth
// guard answers Never; use CheckSubtype to observe the error.
func (r *Registry) Convertibility(s, t TypeID) Convertibility {
	c, _ := r.CheckSubtype(s, t)
	return c
}

// IsSubtype reports s <: t. Raw-to-wildcard conversions without a warning
// count as subtyping.
func (r *Registry) IsSubtype(s, t TypeID) bool {
	return r.Convertibility(s, t).IsSubtype()
}

// IsUncheckedSubtype reports whether s converts to t only by an unchecked
// conversion.
func (r *Registry) IsUncheckedSubtype(s, t TypeID) bool {
	return r.Convertibility(s, t).IsUnchecked()
}

// IsConvertible reports whether s converts to t, checked or not.
func (r *Registry) IsConvertible(s, t TypeID) bool {
	return r.Convertibility(s, t).IsConvertible()
}

// CheckSubtype is Convertibility with the depth guard error exposed.
func (r *Registry) CheckSubtype(s, t TypeID) (Convertibility, error) {
	var sp *trace.Span
	if r.traceEnabled() {
		sp = trace.Begin(r.tracer, trace.ScopeQuery, "subtype", 0).
			WithExtra("s", r.String(s)).
			WithExtra("t", r.String(t))
	}
	q := &query{r: r}
	c := q.convert(s, t)
	if q.err != nil {
		c = Never
		if r.traceEnabled() {
			trace.Error(r.tracer, "depth-guard", r.String(s)+" <: "+r.String(t))
		}
	}
	if sp != nil {
		sp.End(c.String())
	}
	return c, q.err
}

// query carries the state of one top-level subtyping question. The registry
// lock is never held while it runs; every lookup takes the read lock.
type query struct {
	r     *Registry
	depth int
	err   error
}

func (q *query) enter() bool {
	if q.err != nil {
		return false
	}
	q.depth++
	if q.depth > q.r.opts.MaxDepth {
		q.err = ErrDepthExceeded
		return false
	}
	return true
}

func (q *query) leave() { q.depth-- }

func (q *query) sub(s, t TypeID) bool {
	return q.convert(s, t).IsSubtype()
}

func (q *query) convert(s, t TypeID) Convertibility {
	if s == t {
		return Subtyping
	}
	if !q.enter() {
		return Never
	}
	defer q.leave()

	r := q.r
	st, sok := r.Lookup(s)
	tt, tok := r.Lookup(t)
	if !sok || !tok {
		return Never
	}
	if st.IsSentinel() || tt.IsSentinel() {
		return Subtyping
	}
	if st.Kind == KindWildcard || tt.Kind == KindWildcard {
		// wildcards are argument forms; containment handles them
		return Never
	}
	if st.Kind == KindNull {
		if tt.IsReference() {
			return Subtyping
		}
		return Never
	}
	if st.Kind == KindPrimitive || tt.Kind == KindPrimitive {
		if st.Kind == KindPrimitive && tt.Kind == KindPrimitive && widens(st.Prim, tt.Prim) {
			return Subtyping
		}
		return Never
	}
	if tt.Kind == KindNull {
		return Never
	}
	if tt.Kind == KindClass && r.IsUnresolvedSymbol(tt.Symbol) {
		return Subtyping
	}

	if tt.Kind == KindIntersection {
		out := Subtyping
		for _, m := range r.Members(t) {
			out = min(out, q.convert(s, m))
			if out == Never {
				break
			}
		}
		return out
	}
	if st.Kind == KindIntersection {
		out := Never
		for _, m := range r.Members(s) {
			out = max(out, q.convert(m, t))
			if out == Subtyping {
				break
			}
		}
		return out
	}

	if tt.Kind == KindTypeVar {
		return q.toVariable(s, st, t)
	}
	if st.Kind == KindTypeVar {
		return q.convert(r.UpperBound(s), t)
	}

	switch st.Kind {
	case KindArray:
		return q.fromArray(s, t, tt)
	case KindClass:
		if tt.Kind != KindClass {
			return Never
		}
		return q.betweenClasses(s, st, t, tt)
	case KindInvalid, KindPrimitive, KindWildcard, KindTypeVar, KindIntersection, KindNull, KindError, KindUnresolved:
	}
	return Never
}

// toVariable decides s <: T for a type variable T: through the bounds of s
// when s is a variable, otherwise (or failing that) through the lower bound
// of T.
func (q *query) toVariable(s TypeID, st Type, t TypeID) Convertibility {
	r := q.r
	if st.Kind == KindClass && r.IsUnresolvedSymbol(st.Symbol) {
		return Subtyping
	}
	out := Never
	if st.Kind == KindTypeVar {
		out = q.convert(r.UpperBound(s), t)
		if out == Subtyping {
			return out
		}
	}
	if lower := r.LowerBound(t); lower != r.builtins.Null && lower != NoTypeID {
		out = max(out, q.convert(s, lower))
	}
	return out
}

func (q *query) fromArray(s, t TypeID, tt Type) Convertibility {
	r := q.r
	switch tt.Kind {
	case KindClass:
		switch t {
		case r.builtins.Object, r.builtins.Cloneable, r.builtins.Serializable:
			return Subtyping
		}
		return Never
	case KindArray:
		cs, ct := r.Component(s), r.Component(t)
		if r.Kind(cs) == KindPrimitive || r.Kind(ct) == KindPrimitive {
			if cs == ct {
				return Subtyping
			}
			return Never
		}
		return q.convert(cs, ct)
	case KindInvalid, KindPrimitive, KindWildcard, KindTypeVar, KindIntersection, KindNull, KindError, KindUnresolved:
	}
	return Never
}

func (q *query) betweenClasses(s TypeID, st Type, t TypeID, tt Type) Convertibility {
	r := q.r
	if t == r.builtins.Object {
		return Subtyping
	}
	if r.IsUnresolvedSymbol(st.Symbol) {
		return Subtyping
	}
	sup, err := r.asSuper(s, tt.Symbol, q.r.opts.MaxDepth-q.depth)
	if err != nil {
		q.err = err
		return Never
	}
	if sup == NoTypeID {
		return Never
	}
	if sup == t {
		return Subtyping
	}
	supT, supInfo, _ := r.Class(sup)
	_, tInfo, _ := r.Class(t)
	switch {
	case tt.Raw:
		return Subtyping
	case supT.Raw:
		if len(tInfo.Args) == 0 {
			return Subtyping
		}
		for _, a := range tInfo.Args {
			if w, _ := r.Lookup(a); w.Kind != KindWildcard || w.Bound != BoundUnbounded {
				return UncheckedWarning
			}
		}
		return UncheckedNoWarning
	}

	out := Subtyping
	if tInfo.Outer != NoTypeID && supInfo.Outer != NoTypeID {
		out = q.convert(supInfo.Outer, tInfo.Outer)
		if out == Never {
			return Never
		}
	}
	if len(tInfo.Args) != len(supInfo.Args) {
		if len(tInfo.Args) == 0 {
			return out
		}
		return Never
	}
	for i, ta := range tInfo.Args {
		if !q.contains(ta, supInfo.Args[i], tt.Symbol, i) {
			return Never
		}
	}
	return out
}

// contains reports whether the argument outer of a target type contains the
// argument inner found at position pos of sym in the candidate supertype.
func (q *query) contains(outer, inner TypeID, sym SymbolID, pos int) bool {
	if outer == inner {
		return true
	}
	r := q.r
	ot, _ := r.Lookup(outer)
	it, _ := r.Lookup(inner)
	if ot.IsSentinel() || it.IsSentinel() {
		return true
	}
	if ot.Kind != KindWildcard {
		return it.Kind != KindWildcard && q.same(outer, inner)
	}
	switch ot.Bound {
	case BoundUnbounded:
		return true
	case BoundExtends:
		upper := inner
		if it.Kind == KindWildcard {
			if it.Bound == BoundExtends {
				upper = it.Elem
			} else {
				upper = r.declaredBound(sym, pos)
			}
		}
		return q.sub(upper, ot.Elem)
	case BoundSuper:
		lower := inner
		if it.Kind == KindWildcard {
			if it.Bound != BoundSuper {
				return false
			}
			lower = it.Elem
		}
		return q.sub(ot.Elem, lower)
	}
	return false
}

// same compares two types for equality; intersections compare as sets.
func (q *query) same(a, b TypeID) bool {
	if a == b {
		return true
	}
	r := q.r
	if r.Kind(a) == KindIntersection && r.Kind(b) == KindIntersection {
		am, bm := r.Members(a), r.Members(b)
		if len(am) != len(bm) {
			return false
		}
		set := make(map[TypeID]struct{}, len(am))
		for _, m := range am {
			set[m] = struct{}{}
		}
		for _, m := range bm {
			if _, ok := set[m]; !ok {
				return false
			}
		}
		return true
	}
	return false
}

// IsSameType reports whether a and b denote the same type. Interning makes
// this handle equality except for intersections, which compare as sets.
func (r *Registry) IsSameType(a, b TypeID) bool {
	return (&query{r: r}).same(a, b)
}

// declaredBound is the upper bound of the pos-th parameter of sym, erased
// when it refers to the parameters of sym itself.
func (r *Registry) declaredBound(sym SymbolID, pos int) TypeID {
	info, ok := r.SymbolInfo(sym)
	if !ok || pos >= len(info.Params) {
		return r.builtins.Object
	}
	bound := r.UpperBound(info.Params[pos])
	own := make(map[TypeID]bool, len(info.Params))
	for _, p := range info.Params {
		own[p] = true
	}
	r.mu.RLock()
	selfRef := r.mentionsLocked(bound, own, 0)
	r.mu.RUnlock()
	if selfRef {
		return r.Erasure(bound)
	}
	return bound
}

// IsDepthExceeded reports whether err came from the depth guard.
func IsDepthExceeded(err error) bool {
	return errors.Is(err, ErrDepthExceeded)
}

package types

import (
	"slices"

	"jtypes/internal/trace"
)

// TypeSet is an unordered set of types.
type TypeSet map[TypeID]struct{}

func (s TypeSet) Has(id TypeID) bool {
	_, ok := s[id]
	return ok
}

func (s TypeSet) Len() int { return len(s) }

func (s TypeSet) add(id TypeID) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Sorted returns the members in TypeID order, which is creation order.
func (s TypeSet) Sorted() []TypeID {
	out := make([]TypeID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// AsSuper returns the supertype of id declared by sym, NoTypeID when sym is
// not among the supertypes of id. Types reachable through type variable
// bounds and intersection members are included.
func (r *Registry) AsSuper(id TypeID, sym SymbolID) (TypeID, error) {
	return r.asSuper(id, sym, r.opts.MaxDepth)
}

func (r *Registry) asSuper(id TypeID, sym SymbolID, budget int) (TypeID, error) {
	t, ok := r.Lookup(id)
	if !ok || sym == NoSymbolID {
		return NoTypeID, nil
	}
	switch t.Kind {
	case KindClass:
		return r.walkSupers(id, budget, func(cur TypeID) bool {
			return r.SymbolOf(cur) == sym
		})
	case KindTypeVar, KindIntersection:
		for _, m := range r.Members(r.UpperBound(id)) {
			if m == id {
				continue
			}
			sup, err := r.asSuper(m, sym, budget-1)
			if err != nil || sup != NoTypeID {
				return sup, err
			}
		}
	case KindArray:
		for _, b := range []TypeID{r.builtins.Object, r.builtins.Cloneable, r.builtins.Serializable} {
			if r.SymbolOf(b) == sym {
				return b, nil
			}
		}
	case KindInvalid, KindPrimitive, KindWildcard, KindNull, KindError, KindUnresolved:
	}
	return NoTypeID, nil
}

// walkSupers visits id and its class supertypes breadth first and returns
// the first one accepted by match. Types are canonical, so the visited set
// keyed by TypeID cuts cycles in the declaration graph; budget bounds the
// number of levels for hierarchies that grow without repeating.
func (r *Registry) walkSupers(id TypeID, budget int, match func(TypeID) bool) (TypeID, error) {
	visited := TypeSet{id: {}}
	level := []TypeID{id}
	for depth := 0; len(level) > 0; depth++ {
		if depth > budget {
			r.traceWalk(id, "depth-guard")
			return NoTypeID, ErrDepthExceeded
		}
		var next []TypeID
		for _, cur := range level {
			if match(cur) {
				return cur, nil
			}
			supers, err := r.directSupers(cur)
			if err != nil {
				r.traceWalk(cur, "supertype-error")
				return NoTypeID, err
			}
			for _, sup := range supers {
				if visited.add(sup) {
					next = append(next, sup)
				}
			}
		}
		level = next
	}
	return NoTypeID, nil
}

// directSupers returns the superclass followed by the superinterfaces.
// Interfaces, whose declarations have no superclass, list Object last.
func (r *Registry) directSupers(id TypeID) ([]TypeID, error) {
	if r.Kind(id) != KindClass {
		return nil, nil
	}
	sc, err := r.superClass(id)
	if err != nil {
		return nil, err
	}
	ifaces, err := r.interfaces(id)
	if err != nil {
		return nil, err
	}
	out := make([]TypeID, 0, len(ifaces)+1)
	if sc != NoTypeID {
		out = append(out, sc)
	}
	out = append(out, ifaces...)
	if sc == NoTypeID && id != r.builtins.Object {
		out = append(out, r.builtins.Object)
	}
	return out, nil
}

// SuperTypeSet returns the reflexive and transitive supertypes of id. For
// primitives this is the widening closure; for class types every
// instantiated supertype; arrays add the array supertypes and the arrays of
// the supertypes of their component.
func (r *Registry) SuperTypeSet(id TypeID) (TypeSet, error) {
	out := make(TypeSet)
	err := r.superTypeSet(id, out, 0)
	return out, err
}

func (r *Registry) superTypeSet(id TypeID, out TypeSet, depth int) error {
	if depth > r.opts.MaxDepth {
		return ErrDepthExceeded
	}
	t, ok := r.Lookup(id)
	if !ok {
		return nil
	}
	switch t.Kind {
	case KindPrimitive:
		for _, k := range wideningClosure(t.Prim) {
			out.add(r.Primitive(k))
		}
	case KindClass:
		_, err := r.walkSupers(id, r.opts.MaxDepth, func(cur TypeID) bool {
			out.add(cur)
			return false
		})
		return err
	case KindArray:
		if !out.add(id) {
			return nil
		}
		out.add(r.builtins.Object)
		out.add(r.builtins.Cloneable)
		out.add(r.builtins.Serializable)
		comp := r.Component(id)
		if r.Kind(comp) == KindPrimitive {
			return nil
		}
		comps := make(TypeSet)
		if err := r.superTypeSet(comp, comps, depth+1); err != nil {
			return err
		}
		for _, c := range comps.Sorted() {
			if r.Kind(c) == KindNull {
				continue
			}
			arr, err := r.ArrayType(c, 1)
			if err != nil {
				continue
			}
			out.add(arr)
		}
	case KindTypeVar, KindIntersection:
		if !out.add(id) {
			return nil
		}
		for _, m := range r.Members(r.UpperBound(id)) {
			if m == id {
				continue
			}
			if err := r.superTypeSet(m, out, depth+1); err != nil {
				return err
			}
		}
	case KindNull, KindError, KindUnresolved:
		out.add(id)
	case KindInvalid, KindWildcard:
	}
	return nil
}

func (r *Registry) traceWalk(id TypeID, what string) {
	if !r.traceEnabled() {
		return
	}
	trace.Point(r.tracer, trace.ScopeWalk, what, r.String(id))
}

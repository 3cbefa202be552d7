package types

import (
	"fmt"

	"jtypes/internal/typeexpr"
)

// Scope binds type variable names for resolution.
type Scope map[string]TypeID

// Resolve materialises e. Names are looked up in scope first, then as
// primitives, then through the declaration lookup; unknown names become
// unresolved class types.
func (r *Registry) Resolve(e *typeexpr.Expr, scope Scope) (TypeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(e, scope)
}

// Parse parses and resolves a type expression.
func (r *Registry) Parse(src string, scope Scope) (TypeID, error) {
	e, err := typeexpr.Parse(src)
	if err != nil {
		return NoTypeID, err
	}
	return r.Resolve(e, scope)
}

// MustParse is Parse for fixtures.
func (r *Registry) MustParse(src string, scope Scope) TypeID {
	id, err := r.Parse(src, scope)
	if err != nil {
		panic(fmt.Errorf("parse %q: %w", src, err))
	}
	return id
}

func (r *Registry) resolveLocked(e *typeexpr.Expr, scope Scope) (TypeID, error) {
	if e == nil {
		return NoTypeID, &InvalidBoundError{Type: "<nil>", Reason: "missing type expression"}
	}
	switch e.Kind {
	case typeexpr.KindWildcard:
		if e.Bound == typeexpr.BoundNone || e.Elem == nil {
			return r.wildcardLocked(BoundUnbounded, NoTypeID)
		}
		bound, err := r.resolveLocked(e.Elem, scope)
		if err != nil {
			return NoTypeID, err
		}
		kind := BoundExtends
		if e.Bound == typeexpr.BoundSuper {
			kind = BoundSuper
		}
		return r.wildcardLocked(kind, bound)
	case typeexpr.KindIntersection:
		members := make([]TypeID, 0, len(e.Members))
		for _, m := range e.Members {
			id, err := r.resolveLocked(m, scope)
			if err != nil {
				return NoTypeID, err
			}
			members = append(members, id)
		}
		return r.intersectionLocked(members)
	case typeexpr.KindName:
		base, err := r.resolveNameLocked(e, scope)
		if err != nil {
			return NoTypeID, err
		}
		if e.Dims > 0 {
			return r.arrayLocked(base, e.Dims)
		}
		return base, nil
	case typeexpr.KindInvalid:
	}
	return NoTypeID, &InvalidBoundError{Type: e.String(), Reason: "unsupported expression"}
}

func (r *Registry) resolveNameLocked(e *typeexpr.Expr, scope Scope) (TypeID, error) {
	if e.Outer == nil {
		if v, ok := scope[e.Name]; ok {
			if len(e.Args) > 0 {
				return NoTypeID, &InvalidBoundError{Type: e.String(), Reason: "type variable with arguments"}
			}
			return v, nil
		}
		if k, ok := ParsePrimitiveKind(e.Name); ok {
			if len(e.Args) > 0 {
				return NoTypeID, &InvalidBoundError{Type: e.String(), Reason: "primitive with arguments"}
			}
			return r.internLocked(Type{Kind: KindPrimitive, Prim: k}, ""), nil
		}
	}

	args := make([]TypeID, 0, len(e.Args))
	for _, a := range e.Args {
		id, err := r.resolveLocked(a, scope)
		if err != nil {
			return NoTypeID, err
		}
		args = append(args, id)
	}

	if e.Outer == nil {
		return r.parameteriseLocked(r.referenceLocked(e.Name, len(args)), args, NoTypeID)
	}
	outer, err := r.resolveLocked(e.Outer, scope)
	if err != nil {
		return NoTypeID, err
	}
	ot, ok := r.lookupLocked(outer)
	if !ok || ot.Kind != KindClass {
		return NoTypeID, &InvalidBoundError{Type: e.String(), Reason: "member of a non-class type"}
	}
	qualified := r.names.MustLookup(r.syms[ot.Symbol].Name)
	sid := NoSymbolID
	for _, cand := range []string{qualified + "." + e.Name, qualified + "$" + e.Name} {
		if _, known := r.symIndex[cand]; known {
			sid = r.symIndex[cand]
			break
		}
		if _, found := r.lookup.LookupClass(cand); found {
			sid = r.symbolLocked(cand)
			break
		}
	}
	if sid == NoSymbolID {
		sid = r.referenceLocked(qualified+"."+e.Name, len(args))
	}
	if d := r.syms[sid].Decl; d != nil && !d.IsInner() {
		// static members do not see the enclosing instance
		return r.parameteriseLocked(sid, args, NoTypeID)
	}
	if ot.Raw {
		// members of a raw type are raw
		return r.rawLocked(sid), nil
	}
	return r.parameteriseLocked(sid, args, outer)
}

// referenceLocked resolves name; an unknown name becomes an unresolved
// symbol whose arity is taken from its first reference.
func (r *Registry) referenceLocked(name string, arity int) SymbolID {
	if sid, ok := r.symIndex[name]; ok {
		return sid
	}
	sid := r.symbolLocked(name)
	if s := &r.syms[sid]; s.Decl == nil && s.state == symPending {
		s.Arity = arity
	}
	return sid
}

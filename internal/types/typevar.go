package types

import (
	"jtypes/internal/source"
	"jtypes/internal/typeexpr"
)

// TypeVarInfo stores the bounds of a declared, free or captured variable.
// Variables are never interned: each allocation is a distinct type.
type TypeVarInfo struct {
	Name source.StringID
	// Owner is the declaring class; NoSymbolID for free and captured variables.
	Owner SymbolID
	Index int
	// Upper is the upper bound, possibly an intersection.
	Upper TypeID
	// Lower is the null type unless the variable captured a super wildcard.
	Lower TypeID

	Captured bool
	// Origin is the wildcard a captured variable was derived from. It is a
	// plain handle compared by identity.
	Origin TypeID
	Seq    uint64
}

// NewTypeVar allocates a free type variable with the given upper bounds
// (none means Object). Use DeclareTypeVars for self-referential bounds.
func (r *Registry) NewTypeVar(name string, bounds ...TypeID) (TypeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	upper := r.builtins.Object
	switch len(bounds) {
	case 0:
	case 1:
		if err := r.checkBoundLocked(bounds[0]); err != nil {
			return NoTypeID, err
		}
		upper = bounds[0]
	default:
		for _, b := range bounds {
			if err := r.checkBoundLocked(b); err != nil {
				return NoTypeID, err
			}
		}
		id, err := r.intersectionLocked(bounds)
		if err != nil {
			return NoTypeID, err
		}
		upper = id
	}
	return r.newVarLocked(TypeVarInfo{
		Name:  r.names.Intern(name),
		Index: -1,
		Upper: upper,
		Lower: r.builtins.Null,
	}), nil
}

// DeclareTypeVars allocates free variables for params, adding them to scope
// before any bound is resolved so bounds may refer to any of them.
func (r *Registry) DeclareTypeVars(params []typeexpr.TypeParam, scope Scope) ([]TypeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]TypeID, len(params))
	for i, p := range params {
		ids[i] = r.newVarLocked(TypeVarInfo{
			Name:  r.names.Intern(p.Name),
			Index: i,
			Upper: r.builtins.Object,
			Lower: r.builtins.Null,
		})
		scope[p.Name] = ids[i]
	}
	for i, p := range params {
		upper, err := r.resolveBoundsLocked(p.Bounds, scope)
		if err != nil {
			return nil, err
		}
		r.setVarBoundsLocked(ids[i], upper, r.builtins.Null)
	}
	return ids, nil
}

// TypeVar returns the variable descriptor for id.
func (r *Registry) TypeVar(id TypeID) (TypeVarInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.varLocked(id)
}

// IsCaptured reports whether id is a capture variable.
func (r *Registry) IsCaptured(id TypeID) bool {
	info, ok := r.TypeVar(id)
	return ok && info.Captured
}

// IsCaptureOf reports whether v was produced by capturing exactly the
// wildcard w. Wildcards are interned, so identity here is registry-canonical:
// a separately built wildcard of the same shape is the same w.
func (r *Registry) IsCaptureOf(v, w TypeID) bool {
	info, ok := r.TypeVar(v)
	return ok && info.Captured && info.Origin == w
}

// UpperBound returns the upper bound of a variable or wildcard; other types
// are their own upper bound.
func (r *Registry) UpperBound(id TypeID) TypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.lookupLocked(id)
	if !ok {
		return NoTypeID
	}
	switch t.Kind {
	case KindTypeVar:
		info, _ := r.varLocked(id)
		return info.Upper
	case KindWildcard:
		if t.Bound == BoundExtends {
			return t.Elem
		}
		return r.builtins.Object
	}
	return id
}

// LowerBound returns the lower bound of a variable or wildcard, the null
// type when there is none; other types are their own lower bound.
func (r *Registry) LowerBound(id TypeID) TypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.lookupLocked(id)
	if !ok {
		return NoTypeID
	}
	switch t.Kind {
	case KindTypeVar:
		info, _ := r.varLocked(id)
		return info.Lower
	case KindWildcard:
		if t.Bound == BoundSuper {
			return t.Elem
		}
		return r.builtins.Null
	}
	return id
}

func (r *Registry) varLocked(id TypeID) (TypeVarInfo, bool) {
	t, ok := r.lookupLocked(id)
	if !ok || t.Kind != KindTypeVar || t.Payload == 0 || int(t.Payload) >= len(r.vars) {
		return TypeVarInfo{}, false
	}
	return r.vars[t.Payload], true
}

func (r *Registry) newVarLocked(info TypeVarInfo) TypeID {
	s := slot(len(r.vars), "type variable table")
	r.vars = append(r.vars, info)
	return r.appendLocked(Type{Kind: KindTypeVar, Payload: s})
}

// setVarBoundsLocked finishes a variable allocated with placeholder bounds.
// Only legal before the variable escapes its constructing call.
func (r *Registry) setVarBoundsLocked(id, upper, lower TypeID) {
	t, ok := r.lookupLocked(id)
	if !ok || t.Kind != KindTypeVar {
		return
	}
	r.vars[t.Payload].Upper = upper
	r.vars[t.Payload].Lower = lower
}

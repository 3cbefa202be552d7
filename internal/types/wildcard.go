package types

// Wildcard returns ?, ? extends bound or ? super bound. The bound must be
// a reference type; it is ignored for BoundUnbounded.
func (r *Registry) Wildcard(kind WildcardBound, bound TypeID) (TypeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wildcardLocked(kind, bound)
}

// Unbounded returns the unbounded wildcard.
func (r *Registry) Unbounded() TypeID {
	id, _ := r.Wildcard(BoundUnbounded, NoTypeID)
	return id
}

// Extends returns ? extends bound.
func (r *Registry) Extends(bound TypeID) (TypeID, error) {
	return r.Wildcard(BoundExtends, bound)
}

// Super returns ? super bound.
func (r *Registry) Super(bound TypeID) (TypeID, error) {
	return r.Wildcard(BoundSuper, bound)
}

func (r *Registry) wildcardLocked(kind WildcardBound, bound TypeID) (TypeID, error) {
	switch kind {
	case BoundUnbounded:
		return r.internLocked(Type{Kind: KindWildcard, Bound: BoundUnbounded}, ""), nil
	case BoundExtends, BoundSuper:
		t, ok := r.lookupLocked(bound)
		if !ok {
			return NoTypeID, &InvalidBoundError{Type: "?", Reason: "missing wildcard bound"}
		}
		switch t.Kind {
		case KindClass, KindArray, KindTypeVar, KindIntersection, KindError, KindUnresolved:
		case KindInvalid, KindPrimitive, KindWildcard, KindNull:
			return NoTypeID, &InvalidBoundError{Type: r.stringLocked(bound, true), Reason: "not a valid wildcard bound"}
		}
		return r.internLocked(Type{Kind: KindWildcard, Bound: kind, Elem: bound}, ""), nil
	}
	return NoTypeID, &InvalidBoundError{Type: "?", Reason: "unknown wildcard bound kind"}
}

package types

// Erasure returns the erasure of id: class types lose their arguments
// (generic ones become raw), arrays erase their element, variables erase to
// the erasure of their first upper bound. Wildcards and intersections,
// which are not erasure inputs proper, erase to their upper bound and first
// member respectively.
func (r *Registry) Erasure(id TypeID) TypeID {
	return r.erasure(id, 0)
}

// IsSameErasure reports whether a and b erase to the same type.
func (r *Registry) IsSameErasure(a, b TypeID) bool {
	return r.Erasure(a) == r.Erasure(b)
}

func (r *Registry) erasure(id TypeID, depth int) TypeID {
	if depth > r.opts.MaxDepth {
		return r.builtins.Error
	}
	t, ok := r.Lookup(id)
	if !ok {
		return NoTypeID
	}
	switch t.Kind {
	case KindClass:
		if t.Raw {
			return id
		}
		_, info, _ := r.Class(id)
		if len(info.Args) == 0 && info.Outer == NoTypeID {
			return id
		}
		if r.arity(t.Symbol) > 0 {
			return r.Raw(t.Symbol)
		}
		// a non-generic member of a generic class erases its outer type
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.classLocked(t.Symbol, nil, false, NoTypeID)
	case KindArray:
		elem := r.erasure(t.Elem, depth+1)
		if elem == t.Elem {
			return id
		}
		arr, err := r.ArrayType(elem, int(t.Dims))
		if err != nil {
			return r.builtins.Error
		}
		return arr
	case KindTypeVar:
		return r.erasure(r.firstMember(r.UpperBound(id)), depth+1)
	case KindWildcard:
		return r.erasure(r.UpperBound(id), depth+1)
	case KindIntersection:
		return r.erasure(r.firstMember(id), depth+1)
	case KindInvalid, KindPrimitive, KindNull, KindError, KindUnresolved:
	}
	return id
}

func (r *Registry) firstMember(id TypeID) TypeID {
	members := r.Members(id)
	if len(members) == 0 {
		return id
	}
	return members[0]
}

func (r *Registry) arity(sym SymbolID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if sym == NoSymbolID || int(sym) >= len(r.syms) {
		return 0
	}
	return r.syms[sym].Arity
}

package types

import (
	"slices"
)

// Substitution maps type variables to their replacements.
type Substitution map[TypeID]TypeID

// Subst replaces every occurrence of a mapped variable in id. Variable
// bounds are not rewritten: a replacement is always a finished type, so the
// walk follows only the structure of id and terminates on F-bounded
// declarations.
func (r *Registry) Subst(id TypeID, s Substitution) (TypeID, error) {
	if len(s) == 0 {
		return id, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.substLocked(id, s, 0)
}

// SubstAll applies s to each of ids.
func (r *Registry) SubstAll(ids []TypeID, s Substitution) ([]TypeID, error) {
	out := make([]TypeID, len(ids))
	for i, id := range ids {
		sub, err := r.Subst(id, s)
		if err != nil {
			return nil, err
		}
		out[i] = sub
	}
	return out, nil
}

// TypeParamMapping maps the declared parameters of a class type (and of its
// enclosing types) to its actual arguments.
func (r *Registry) TypeParamMapping(id TypeID) Substitution {
	r.materializeChain(id)
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := make(Substitution)
	r.mappingLocked(id, m)
	return m
}

// Instantiate substitutes the type parameters of owner's declaration with
// the arguments of owner inside template, e.g. a member signature.
func (r *Registry) Instantiate(owner, template TypeID) (TypeID, error) {
	if r.IsRaw(owner) {
		return r.Erasure(template), nil
	}
	return r.Subst(template, r.TypeParamMapping(owner))
}

func (r *Registry) substLocked(id TypeID, s Substitution, depth int) (TypeID, error) {
	if depth > r.opts.MaxDepth {
		return NoTypeID, ErrDepthExceeded
	}
	t, ok := r.lookupLocked(id)
	if !ok {
		return id, nil
	}
	switch t.Kind {
	case KindTypeVar:
		if repl, ok := s[id]; ok {
			return repl, nil
		}
		return id, nil
	case KindClass:
		info := r.classes[t.Payload]
		if len(info.Args) == 0 && info.Outer == NoTypeID {
			return id, nil
		}
		args := info.Args
		changed := false
		for i, a := range info.Args {
			na, err := r.substLocked(a, s, depth+1)
			if err != nil {
				return NoTypeID, err
			}
			if na != a {
				if !changed {
					args = slices.Clone(info.Args)
					changed = true
				}
				if err := r.checkArgLocked(na); err != nil {
					return NoTypeID, err
				}
				args[i] = na
			}
		}
		outer := info.Outer
		if outer != NoTypeID {
			no, err := r.substLocked(outer, s, depth+1)
			if err != nil {
				return NoTypeID, err
			}
			if no != outer {
				outer = no
				changed = true
			}
		}
		if !changed {
			return id, nil
		}
		return r.classLocked(t.Symbol, args, t.Raw, outer), nil
	case KindArray:
		elem, err := r.substLocked(t.Elem, s, depth+1)
		if err != nil {
			return NoTypeID, err
		}
		if elem == t.Elem {
			return id, nil
		}
		return r.arrayLocked(elem, int(t.Dims))
	case KindWildcard:
		if t.Bound == BoundUnbounded {
			return id, nil
		}
		bound, err := r.substLocked(t.Elem, s, depth+1)
		if err != nil {
			return NoTypeID, err
		}
		if bound == t.Elem {
			return id, nil
		}
		return r.wildcardLocked(t.Bound, bound)
	case KindIntersection:
		members := r.inters[t.Payload]
		out := make([]TypeID, len(members))
		changed := false
		for i, m := range members {
			nm, err := r.substLocked(m, s, depth+1)
			if err != nil {
				return NoTypeID, err
			}
			out[i] = nm
			changed = changed || nm != m
		}
		if !changed {
			return id, nil
		}
		return r.intersectionLocked(out)
	case KindInvalid, KindPrimitive, KindNull, KindError, KindUnresolved:
	}
	return id, nil
}

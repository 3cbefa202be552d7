package types

import (
	"slices"
)

// Intersection returns the intersection of members. Nested intersections
// are flattened and duplicates dropped; a single remaining member is
// returned as is. Member order is kept (it decides the erasure) but
// equality and subtyping of intersections only look at the member set.
func (r *Registry) Intersection(members ...TypeID) (TypeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.intersectionLocked(members)
}

// Members returns the members of an intersection, or id alone otherwise.
func (r *Registry) Members(id TypeID) []TypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.membersLocked(id)
}

func (r *Registry) membersLocked(id TypeID) []TypeID {
	t, ok := r.lookupLocked(id)
	if !ok {
		return nil
	}
	if t.Kind != KindIntersection {
		return []TypeID{id}
	}
	return slices.Clone(r.inters[t.Payload])
}

func (r *Registry) intersectionLocked(members []TypeID) (TypeID, error) {
	flat := make([]TypeID, 0, len(members))
	for _, m := range members {
		t, ok := r.lookupLocked(m)
		if !ok {
			return NoTypeID, &InvalidBoundError{Type: "<invalid>", Reason: "unknown intersection member"}
		}
		switch t.Kind {
		case KindIntersection:
			for _, inner := range r.inters[t.Payload] {
				if !slices.Contains(flat, inner) {
					flat = append(flat, inner)
				}
			}
			continue
		case KindClass, KindArray, KindTypeVar, KindError, KindUnresolved:
		case KindInvalid, KindPrimitive, KindWildcard, KindNull:
			return NoTypeID, &InvalidBoundError{Type: r.stringLocked(m, true), Reason: "not a valid intersection member"}
		}
		if !slices.Contains(flat, m) {
			flat = append(flat, m)
		}
	}
	switch len(flat) {
	case 0:
		return NoTypeID, &InvalidBoundError{Type: "&", Reason: "empty intersection"}
	case 1:
		return flat[0], nil
	}
	shape := Type{Kind: KindIntersection}
	key := keyOf(shape, NoTypeID, encodeIDs(flat))
	if id, ok := r.index[key]; ok {
		return id, nil
	}
	shape.Payload = slot(len(r.inters), "intersection table")
	r.inters = append(r.inters, flat)
	id := r.appendLocked(shape)
	r.index[key] = id
	return id, nil
}

package types

import (
	"fmt"

	"fortio.org/safecast"
)

// ArrayType returns component[] repeated dims times. Array components are
// folded, so ArrayType(int[], 1) and ArrayType(int, 2) are the same type.
func (r *Registry) ArrayType(component TypeID, dims int) (TypeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.arrayLocked(component, dims)
}

// MustArrayType is ArrayType for fixtures.
func (r *Registry) MustArrayType(component TypeID, dims int) TypeID {
	id, err := r.ArrayType(component, dims)
	if err != nil {
		panic(err)
	}
	return id
}

// Component returns the type of the elements of an array, one dimension down.
func (r *Registry) Component(id TypeID) TypeID {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.lookupLocked(id)
	if !ok || t.Kind != KindArray {
		return NoTypeID
	}
	if t.Dims == 1 {
		return t.Elem
	}
	c, err := r.arrayLocked(t.Elem, int(t.Dims)-1)
	if err != nil {
		return r.builtins.Error
	}
	return c
}

// ElementType returns the innermost non-array element of an array type.
func (r *Registry) ElementType(id TypeID) TypeID {
	t, ok := r.Lookup(id)
	if !ok || t.Kind != KindArray {
		return NoTypeID
	}
	return t.Elem
}

func (r *Registry) arrayLocked(component TypeID, dims int) (TypeID, error) {
	if dims < 1 {
		return NoTypeID, &InvalidBoundError{Type: r.stringLocked(component, true), Reason: fmt.Sprintf("array dimension %d", dims)}
	}
	c, ok := r.lookupLocked(component)
	if !ok {
		return NoTypeID, &InvalidBoundError{Type: "<invalid>", Reason: "unknown array component"}
	}
	switch c.Kind {
	case KindArray:
		component = c.Elem
		dims += int(c.Dims)
	case KindPrimitive, KindClass, KindTypeVar, KindIntersection, KindError, KindUnresolved:
	case KindInvalid, KindWildcard, KindNull:
		return NoTypeID, &InvalidBoundError{Type: r.stringLocked(component, true), Reason: "not a valid array component"}
	}
	d, err := safecast.Conv[uint32](dims)
	if err != nil {
		return NoTypeID, fmt.Errorf("array dimension overflow: %w", err)
	}
	return r.internLocked(Type{Kind: KindArray, Elem: component, Dims: d}, ""), nil
}

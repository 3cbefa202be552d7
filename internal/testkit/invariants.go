package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"jtypes/internal/types"
)

// CheckRegistryInvariants walks every interned type of r and checks:
// 1) array elements are never arrays and dimensions are positive
// 2) a parameterised top-level class type is found again by Parameterise
// 3) intersections have at least two members, none an intersection
// 4) every type is its own subtype and its erasure is stable
// All failures are joined into the returned error.
func CheckRegistryInvariants(r *types.Registry) error {
	if r == nil {
		return fmt.Errorf("nil registry")
	}
	n, err := safecast.Conv[uint32](r.Len())
	if err != nil {
		return fmt.Errorf("registry size overflow: %w", err)
	}
	var errs []error
	for raw := uint32(1); raw < n; raw++ {
		id := types.TypeID(raw)
		t, ok := r.Lookup(id)
		if !ok {
			errs = append(errs, fmt.Errorf("type %d: lookup failed", id))
			continue
		}
		if err := checkType(r, id, t); err != nil {
			errs = append(errs, fmt.Errorf("type %d (%s): %w", id, r.String(id), err))
		}
	}
	return errors.Join(errs...)
}

func checkType(r *types.Registry, id types.TypeID, t types.Type) error {
	switch t.Kind {
	case types.KindArray:
		if t.Dims == 0 {
			return fmt.Errorf("array without dimensions")
		}
		if r.Kind(t.Elem) == types.KindArray {
			return fmt.Errorf("array element is an array")
		}
	case types.KindClass:
		_, info, _ := r.Class(id)
		if !t.Raw && info.Outer == types.NoTypeID && len(info.Args) > 0 {
			again, err := r.Parameterise(t.Symbol, info.Args)
			if err != nil {
				return fmt.Errorf("re-parameterise: %w", err)
			}
			if again != id {
				return fmt.Errorf("shape interned twice: %d and %d", id, again)
			}
		}
	case types.KindIntersection:
		members := r.Members(id)
		if len(members) < 2 {
			return fmt.Errorf("intersection with %d members", len(members))
		}
		for _, m := range members {
			if r.Kind(m) == types.KindIntersection {
				return fmt.Errorf("nested intersection %d", m)
			}
		}
	case types.KindWildcard:
		// wildcards are type arguments, not types: no relation applies
		return nil
	case types.KindInvalid:
		return fmt.Errorf("invalid kind")
	case types.KindPrimitive, types.KindTypeVar, types.KindNull, types.KindError, types.KindUnresolved:
	}
	if c := r.Convertibility(id, id); c != types.Subtyping {
		return fmt.Errorf("not its own subtype: %s", c)
	}
	if e := r.Erasure(id); r.Erasure(e) != e {
		return fmt.Errorf("erasure not stable: %s", r.String(e))
	}
	return nil
}

package types

import (
	"fmt"
	"slices"
)

// Capture applies capture conversion to a parameterised class type: every
// wildcard argument is replaced by a fresh captured variable.
//
//	? extends B  upper glb(B, declared bound), lower null
//	? super B    upper declared bound,         lower B
//	?            upper declared bound,         lower null
//
// Declared bounds are substituted with the new arguments, so F-bounds refer
// to the captured variables. Results are never memoised: two calls always
// produce distinct variables. Types without wildcard arguments are
// returned unchanged.
func (r *Registry) Capture(id TypeID) (TypeID, error) {
	t, info, ok := r.Class(id)
	if !ok {
		if r.Kind(id) == KindWildcard {
			return NoTypeID, ErrNotClassType
		}
		return id, nil
	}
	if t.Raw || !r.hasWildcardArg(info.Args) {
		return id, nil
	}
	r.materializeChain(id)
	sym, _ := r.SymbolInfo(t.Symbol)

	// names first: rendering takes the read lock
	names := make(map[int]string, len(info.Args))
	seqs := make(map[int]uint64, len(info.Args))
	for i, a := range info.Args {
		if r.Kind(a) == KindWildcard {
			seq := r.captureSeq.Add(1)
			seqs[i] = seq
			names[i] = fmt.Sprintf("capture#%d of %s", seq, r.SimpleString(a))
		}
	}

	// phase 1: allocate the variables with placeholder bounds
	r.mu.Lock()
	args := slices.Clone(info.Args)
	for i := range info.Args {
		if _, ok := names[i]; !ok {
			continue
		}
		args[i] = r.newVarLocked(TypeVarInfo{
			Name:     r.names.Intern(names[i]),
			Index:    i,
			Upper:    r.builtins.Object,
			Lower:    r.builtins.Null,
			Captured: true,
			Origin:   info.Args[i],
			Seq:      seqs[i],
		})
	}
	mapping := make(Substitution, len(args))
	if info.Outer != NoTypeID {
		r.mappingLocked(info.Outer, mapping)
	}
	for i, p := range sym.Params {
		if i < len(args) {
			mapping[p] = args[i]
		}
	}
	declared := make(map[int]TypeID, len(names))
	for i := range names {
		bound := r.builtins.Object
		if i < len(sym.Params) {
			pv, _ := r.varLocked(sym.Params[i])
			sub, err := r.substLocked(pv.Upper, mapping, 0)
			if err != nil {
				r.mu.Unlock()
				return NoTypeID, err
			}
			bound = sub
		}
		declared[i] = bound
	}
	r.mu.Unlock()

	// phase 2: bounds; glb needs subtyping, which takes the lock itself
	uppers := make(map[int]TypeID, len(names))
	lowers := make(map[int]TypeID, len(names))
	for i := range names {
		w, _ := r.Lookup(info.Args[i])
		switch w.Bound {
		case BoundExtends:
			g, err := r.glb(w.Elem, declared[i])
			if err != nil {
				return NoTypeID, err
			}
			uppers[i], lowers[i] = g, r.builtins.Null
		case BoundSuper:
			uppers[i], lowers[i] = declared[i], w.Elem
		case BoundUnbounded:
			uppers[i], lowers[i] = declared[i], r.builtins.Null
		}
	}

	// phase 3: publish
	r.mu.Lock()
	for i := range names {
		r.setVarBoundsLocked(args[i], uppers[i], lowers[i])
	}
	out := r.classLocked(t.Symbol, args, false, info.Outer)
	r.mu.Unlock()
	return out, nil
}

// glb approximates the greatest lower bound of two reference types: the
// narrower one when they are related, their intersection otherwise.
func (r *Registry) glb(a, b TypeID) (TypeID, error) {
	switch {
	case a == b, b == r.builtins.Object:
		return a, nil
	case a == r.builtins.Object:
		return b, nil
	case r.IsSubtype(a, b):
		return a, nil
	case r.IsSubtype(b, a):
		return b, nil
	}
	return r.Intersection(a, b)
}

func (r *Registry) hasWildcardArg(args []TypeID) bool {
	for _, a := range args {
		if r.Kind(a) == KindWildcard {
			return true
		}
	}
	return false
}

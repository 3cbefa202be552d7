package types

import (
	"slices"
)

// ClassInfo stores the variable-length part of a class or interface type.
type ClassInfo struct {
	Args []TypeID
	// Outer is the enclosing type of an inner class type, if any.
	Outer TypeID
}

// Parameterise instantiates sym with args. An argument count that does not
// match the declared arity is a *TypeArityError, except that an empty list
// answers the raw type unless Options.StrictArity is set. Unresolved symbols
// accept any count.
func (r *Registry) Parameterise(sym SymbolID, args []TypeID) (TypeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.parameteriseLocked(sym, args, NoTypeID)
}

// ParameteriseInner instantiates an inner class of the class type outer.
func (r *Registry) ParameteriseInner(outer TypeID, sym SymbolID, args []TypeID) (TypeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.lookupLocked(outer); !ok || t.Kind != KindClass {
		return NoTypeID, ErrNotClassType
	}
	return r.parameteriseLocked(sym, args, outer)
}

// Raw returns the raw type of sym; non-generic declarations have no raw
// form and answer their plain class type.
func (r *Registry) Raw(sym SymbolID) TypeID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rawLocked(sym)
}

// Declaration returns the generic declaration of sym applied to its own
// type parameters (List<E>), or the plain class type when it has none. For
// unresolved symbols this is the unresolved class type carrying the name.
func (r *Registry) Declaration(sym SymbolID) TypeID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.declarationLocked(sym)
}

// DeclarationOf resolves name and returns its declaration type.
func (r *Registry) DeclarationOf(name string) TypeID {
	return r.Declaration(r.Symbol(name))
}

// Class returns the class descriptor of id.
func (r *Registry) Class(id TypeID) (Type, ClassInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.classInfoLocked(id)
}

// TypeArgs returns a copy of the type arguments of a class type.
func (r *Registry) TypeArgs(id TypeID) []TypeID {
	_, info, ok := r.Class(id)
	if !ok {
		return nil
	}
	return slices.Clone(info.Args)
}

// IsRaw reports whether id is the raw form of a generic declaration.
func (r *Registry) IsRaw(id TypeID) bool {
	t, _, ok := r.Class(id)
	return ok && t.Raw
}

// SymbolOf returns the declaration of a class type.
func (r *Registry) SymbolOf(id TypeID) SymbolID {
	t, _, ok := r.Class(id)
	if !ok {
		return NoSymbolID
	}
	return t.Symbol
}

// IsUnresolvedClass reports whether id is a class type whose declaration
// could not be found.
func (r *Registry) IsUnresolvedClass(id TypeID) bool {
	t, _, ok := r.Class(id)
	return ok && r.IsUnresolvedSymbol(t.Symbol)
}

// IsInterface reports whether id is an interface type.
func (r *Registry) IsInterface(id TypeID) bool {
	t, _, ok := r.Class(id)
	if !ok {
		return false
	}
	decl, ok := r.SymbolDecl(t.Symbol)
	return ok && decl.IsInterface()
}

// SuperClass returns the direct superclass of a class type substituted
// with its arguments (erased for raw types). NoTypeID for the root class,
// interfaces and non-class types; the error type when substitution fails.
func (r *Registry) SuperClass(id TypeID) TypeID {
	sc, err := r.superClass(id)
	if err != nil {
		return r.builtins.Error
	}
	return sc
}

// Interfaces returns the direct superinterfaces of a class type.
func (r *Registry) Interfaces(id TypeID) []TypeID {
	ifaces, err := r.interfaces(id)
	if err != nil {
		return []TypeID{r.builtins.Error}
	}
	return ifaces
}

func (r *Registry) superClass(id TypeID) (TypeID, error) {
	t, _, ok := r.Class(id)
	if !ok {
		return NoTypeID, nil
	}
	info, _ := r.SymbolInfo(t.Symbol)
	if info.Super == NoTypeID {
		return NoTypeID, nil
	}
	supers, err := r.instantiateTemplates(id, []TypeID{info.Super})
	if err != nil {
		return NoTypeID, err
	}
	return supers[0], nil
}

func (r *Registry) interfaces(id TypeID) ([]TypeID, error) {
	t, _, ok := r.Class(id)
	if !ok {
		return nil, nil
	}
	info, _ := r.SymbolInfo(t.Symbol)
	return r.instantiateTemplates(id, info.Interfaces)
}

func (r *Registry) classInfoLocked(id TypeID) (Type, ClassInfo, bool) {
	t, ok := r.lookupLocked(id)
	if !ok || t.Kind != KindClass || int(t.Payload) >= len(r.classes) {
		return Type{}, ClassInfo{}, false
	}
	return t, r.classes[t.Payload], true
}

func (r *Registry) classLocked(sym SymbolID, args []TypeID, raw bool, outer TypeID) TypeID {
	shape := Type{Kind: KindClass, Symbol: sym, Raw: raw}
	key := keyOf(shape, outer, encodeIDs(args))
	if id, ok := r.index[key]; ok {
		return id
	}
	shape.Payload = slot(len(r.classes), "class table")
	var stored []TypeID
	if len(args) > 0 {
		stored = slices.Clone(args)
	}
	// no arguments is always stored as nil, whichever constructor came first
	r.classes = append(r.classes, ClassInfo{Args: stored, Outer: outer})
	id := r.appendLocked(shape)
	r.index[key] = id
	return id
}

func (r *Registry) parameteriseLocked(sym SymbolID, args []TypeID, outer TypeID) (TypeID, error) {
	if sym == NoSymbolID || int(sym) >= len(r.syms) {
		return NoTypeID, ErrNotClassType
	}
	info := r.syms[sym]
	for _, a := range args {
		if err := r.checkArgLocked(a); err != nil {
			return NoTypeID, err
		}
	}
	if info.Decl != nil {
		switch {
		case len(args) == 0 && info.Arity > 0:
			if r.opts.StrictArity && r.lenient == 0 {
				return NoTypeID, &TypeArityError{Name: r.names.MustLookup(info.Name), Want: info.Arity, Got: 0}
			}
			return r.classLocked(sym, nil, true, NoTypeID), nil
		case len(args) != info.Arity:
			return NoTypeID, &TypeArityError{Name: r.names.MustLookup(info.Name), Want: info.Arity, Got: len(args)}
		}
	}
	if _, oi, ok := r.classInfoLocked(outer); ok && len(oi.Args) == 0 && oi.Outer == NoTypeID {
		outer = NoTypeID
	}
	return r.classLocked(sym, args, false, outer), nil
}

func (r *Registry) checkArgLocked(id TypeID) error {
	t, ok := r.lookupLocked(id)
	if !ok {
		return &InvalidBoundError{Type: "<invalid>", Reason: "unknown type argument"}
	}
	switch t.Kind {
	case KindClass, KindArray, KindWildcard, KindTypeVar, KindIntersection, KindError, KindUnresolved:
		return nil
	case KindInvalid, KindPrimitive, KindNull:
		return &InvalidBoundError{Type: r.stringLocked(id, true), Reason: "not a valid type argument"}
	}
	return nil
}

func (r *Registry) rawLocked(sym SymbolID) TypeID {
	if sym == NoSymbolID || int(sym) >= len(r.syms) {
		return r.builtins.Error
	}
	if r.syms[sym].Arity == 0 {
		return r.classLocked(sym, nil, false, NoTypeID)
	}
	return r.classLocked(sym, nil, true, NoTypeID)
}

func (r *Registry) declarationLocked(sym SymbolID) TypeID {
	if sym == NoSymbolID || int(sym) >= len(r.syms) {
		return r.builtins.Error
	}
	r.materializeLocked(sym)
	info := r.syms[sym]
	outer := NoTypeID
	if info.Decl != nil && info.Decl.IsInner() && info.Outer != NoSymbolID {
		outer = r.declarationLocked(info.Outer)
		if _, oi, ok := r.classInfoLocked(outer); ok && len(oi.Args) == 0 && oi.Outer == NoTypeID {
			// a non-generic, top-level enclosing class adds nothing
			outer = NoTypeID
		}
	}
	return r.classLocked(sym, info.Params, false, outer)
}

// mappingLocked maps the type parameters of a class type (and of its
// enclosing types) to its arguments. Symbols must be materialised.
func (r *Registry) mappingLocked(id TypeID, into Substitution) {
	t, info, ok := r.classInfoLocked(id)
	if !ok {
		return
	}
	if info.Outer != NoTypeID {
		r.mappingLocked(info.Outer, into)
	}
	params := r.syms[t.Symbol].Params
	if len(params) != len(info.Args) {
		return
	}
	for i, p := range params {
		if p != info.Args[i] {
			into[p] = info.Args[i]
		}
	}
}

// materializeChain makes sure the symbol of id and of every enclosing type
// are ready.
func (r *Registry) materializeChain(id TypeID) {
	for id != NoTypeID {
		t, info, ok := r.Class(id)
		if !ok {
			return
		}
		r.SymbolInfo(t.Symbol)
		id = info.Outer
	}
}

// instantiateTemplates substitutes supertype templates of the declaration
// of id with the actual arguments of id. Raw types yield erased supertypes.
func (r *Registry) instantiateTemplates(id TypeID, templates []TypeID) ([]TypeID, error) {
	if len(templates) == 0 {
		return nil, nil
	}
	r.materializeChain(id)
	t, info, _ := r.Class(id)
	if t.Raw {
		out := make([]TypeID, len(templates))
		for i, tpl := range templates {
			out[i] = r.Erasure(tpl)
		}
		return out, nil
	}

	r.mu.RLock()
	mapping := make(Substitution)
	r.mappingLocked(id, mapping)
	wild := make(map[TypeID]bool)
	for p, a := range mapping {
		if at, _ := r.lookupLocked(a); at.Kind == KindWildcard {
			wild[p] = true
		}
	}
	nested := false
	for _, tpl := range templates {
		if len(wild) > 0 && r.mentionsNestedLocked(tpl, wild) {
			nested = true
			break
		}
	}
	r.mu.RUnlock()

	if len(mapping) == 0 {
		return slices.Clone(templates), nil
	}
	if nested && len(info.Args) > 0 {
		// a wildcard would land below the top-level arguments; only the
		// capture gives those positions a precise meaning
		captured, err := r.Capture(id)
		if err != nil {
			return nil, err
		}
		mapping = make(Substitution)
		r.mu.RLock()
		r.mappingLocked(captured, mapping)
		r.mu.RUnlock()
		r.traceCapture(id, captured, "supertype-walk")
	}
	out := make([]TypeID, len(templates))
	for i, tpl := range templates {
		s, err := r.Subst(tpl, mapping)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// mentionsNestedLocked reports whether any of vars occurs in tpl other than
// as a direct type argument of tpl itself.
func (r *Registry) mentionsNestedLocked(tpl TypeID, vars map[TypeID]bool) bool {
	_, info, ok := r.classInfoLocked(tpl)
	if !ok {
		return r.mentionsLocked(tpl, vars, 0)
	}
	for _, a := range info.Args {
		if vars[a] {
			continue
		}
		if r.mentionsLocked(a, vars, 0) {
			return true
		}
	}
	return info.Outer != NoTypeID && r.mentionsLocked(info.Outer, vars, 0)
}

// mentionsLocked reports whether id refers to any of vars. Variable bounds
// are not followed.
func (r *Registry) mentionsLocked(id TypeID, vars map[TypeID]bool, depth int) bool {
	if vars[id] {
		return true
	}
	if depth > r.opts.MaxDepth {
		return false
	}
	t, ok := r.lookupLocked(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindClass:
		info := r.classes[t.Payload]
		for _, a := range info.Args {
			if r.mentionsLocked(a, vars, depth+1) {
				return true
			}
		}
		return info.Outer != NoTypeID && r.mentionsLocked(info.Outer, vars, depth+1)
	case KindArray, KindWildcard:
		return t.Elem != NoTypeID && r.mentionsLocked(t.Elem, vars, depth+1)
	case KindIntersection:
		for _, m := range r.inters[t.Payload] {
			if r.mentionsLocked(m, vars, depth+1) {
				return true
			}
		}
	case KindInvalid, KindPrimitive, KindTypeVar, KindNull, KindError, KindUnresolved:
	}
	return false
}

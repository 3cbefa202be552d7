package types

import (
	"fmt"

	"jtypes/internal/source"
	"jtypes/internal/symbols"
	"jtypes/internal/typeexpr"
)

// SymbolID identifies a nominal declaration known to a Registry.
type SymbolID uint32

// NoSymbolID marks the absence of a declaration.
const NoSymbolID SymbolID = 0

type symbolState uint8

const (
	symPending symbolState = iota
	symResolving
	symReady
)

// SymbolInfo is the registry-side view of a declaration: its type
// parameters and supertype templates materialised as TypeIDs.
type SymbolInfo struct {
	Name source.StringID
	// Decl is nil for unresolved symbols.
	Decl  *symbols.ClassDecl
	Arity int
	Outer SymbolID

	Params []TypeID
	// Super is NoTypeID for the root class and for interfaces.
	Super      TypeID
	Interfaces []TypeID
	// Err records the first template that failed to resolve; the failing
	// template is replaced by the error type.
	Err error

	state symbolState
}

// Unresolved reports whether the lookup collaborator did not know the name.
func (s SymbolInfo) Unresolved() bool { return s.Decl == nil }

// Symbol resolves a qualified (or uniquely simple) name. Names the lookup
// does not know produce an unresolved symbol, never an error.
func (r *Registry) Symbol(name string) SymbolID {
	r.mu.RLock()
	sid, ok := r.symIndex[name]
	r.mu.RUnlock()
	if ok {
		return sid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.symbolLocked(name)
}

// UnresolvedSymbol returns a symbol for a reference absent from the
// classpath. arity is the number of type arguments seen at the reference.
// When name is in fact resolvable the resolved symbol is returned.
func (r *Registry) UnresolvedSymbol(name string, arity int) SymbolID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sid, ok := r.symIndex[name]; ok {
		return sid
	}
	if _, ok := r.lookup.LookupClass(name); ok {
		return r.symbolLocked(name)
	}
	return r.newSymbolLocked(name, nil, max(arity, 0))
}

// SymbolName returns the qualified name of sid.
func (r *Registry) SymbolName(sid SymbolID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if sid == NoSymbolID || int(sid) >= len(r.syms) {
		return ""
	}
	return r.names.MustLookup(r.syms[sid].Name)
}

// SymbolDecl returns the declaration behind sid; false for unresolved symbols.
func (r *Registry) SymbolDecl(sid SymbolID) (*symbols.ClassDecl, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if sid == NoSymbolID || int(sid) >= len(r.syms) || r.syms[sid].Decl == nil {
		return nil, false
	}
	return r.syms[sid].Decl, true
}

// IsUnresolvedSymbol reports whether sid stands for an unknown declaration.
func (r *Registry) IsUnresolvedSymbol(sid SymbolID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if sid == NoSymbolID || int(sid) >= len(r.syms) {
		return true
	}
	return r.syms[sid].Decl == nil
}

// SymbolInfo returns the materialised view of sid.
func (r *Registry) SymbolInfo(sid SymbolID) (SymbolInfo, bool) {
	r.mu.RLock()
	if sid == NoSymbolID || int(sid) >= len(r.syms) {
		r.mu.RUnlock()
		return SymbolInfo{}, false
	}
	info := r.syms[sid]
	r.mu.RUnlock()
	if info.state == symReady {
		return info, true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.materializeLocked(sid)
	return r.syms[sid], true
}

func (r *Registry) symbolLocked(name string) SymbolID {
	if sid, ok := r.symIndex[name]; ok {
		return sid
	}
	if decl, ok := r.lookup.LookupClass(name); ok {
		return r.newSymbolLocked(name, decl, decl.Arity())
	}
	if res, ok := r.lookup.(symbols.NameResolver); ok {
		if qualified, ok := res.ResolveName(name); ok && qualified != name {
			if decl, ok := r.lookup.LookupClass(qualified); ok {
				sid, known := r.symIndex[qualified]
				if !known {
					sid = r.newSymbolLocked(qualified, decl, decl.Arity())
				}
				r.symIndex[name] = sid
				return sid
			}
		}
	}
	return r.newSymbolLocked(name, nil, 0)
}

func (r *Registry) newSymbolLocked(name string, decl *symbols.ClassDecl, arity int) SymbolID {
	sid := SymbolID(slot(len(r.syms), "symbol table"))
	r.syms = append(r.syms, SymbolInfo{
		Name:  r.names.Intern(name),
		Decl:  decl,
		Arity: arity,
	})
	// indexed before the enclosing declaration is looked up so that a
	// cyclic Outer chain terminates
	r.symIndex[name] = sid
	if decl != nil && decl.Outer != "" {
		outer := r.symbolLocked(decl.Outer)
		r.syms[sid].Outer = outer
	}
	return sid
}

// materializeLocked creates type parameters and resolves supertype
// templates. r.syms may grow while templates resolve, so the entry is
// always re-indexed rather than held by pointer.
func (r *Registry) materializeLocked(sid SymbolID) {
	if r.syms[sid].state != symPending {
		return
	}
	r.syms[sid].state = symResolving
	r.lenient++
	defer func() { r.lenient-- }()
	info := r.syms[sid]

	scope := make(Scope)
	if info.Decl != nil && info.Decl.IsInner() && info.Outer != NoSymbolID {
		r.materializeLocked(info.Outer)
		r.collectOuterScopeLocked(info.Outer, scope)
	}

	if info.Decl == nil {
		params := make([]TypeID, info.Arity)
		for i := range params {
			params[i] = r.newVarLocked(TypeVarInfo{
				Name:  r.names.Intern(fmt.Sprintf("T%d", i)),
				Owner: sid,
				Index: i,
				Upper: r.builtins.Object,
				Lower: r.builtins.Null,
			})
		}
		r.syms[sid].Params = params
		if sid != r.objectSym {
			r.syms[sid].Super = r.builtins.Object
		}
		r.syms[sid].state = symReady
		return
	}

	decl := info.Decl
	params := make([]TypeID, len(decl.TypeParams))
	for i, tp := range decl.TypeParams {
		params[i] = r.newVarLocked(TypeVarInfo{
			Name:  r.names.Intern(tp.Name),
			Owner: sid,
			Index: i,
			Upper: r.builtins.Object,
			Lower: r.builtins.Null,
		})
		scope[tp.Name] = params[i]
	}
	r.syms[sid].Params = params

	var firstErr error
	record := func(err error) {
		if firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", decl.Name, err)
		}
	}
	for i, tp := range decl.TypeParams {
		upper, err := r.resolveBoundsLocked(tp.Bounds, scope)
		if err != nil {
			record(err)
			upper = r.builtins.Error
		}
		r.setVarBoundsLocked(params[i], upper, r.builtins.Null)
	}

	super := NoTypeID
	switch {
	case decl.Super != nil:
		id, err := r.resolveSupertypeLocked(decl.Super, scope)
		if err != nil {
			record(err)
		}
		super = id
	case decl.Name != ObjectName && !decl.IsInterface():
		super = r.builtins.Object
	}
	ifaces := make([]TypeID, 0, len(decl.Interfaces))
	for _, e := range decl.Interfaces {
		id, err := r.resolveSupertypeLocked(e, scope)
		if err != nil {
			record(err)
		}
		ifaces = append(ifaces, id)
	}

	r.syms[sid].Super = super
	r.syms[sid].Interfaces = ifaces
	r.syms[sid].Err = firstErr
	r.syms[sid].state = symReady
}

func (r *Registry) collectOuterScopeLocked(sid SymbolID, scope Scope) {
	info := r.syms[sid]
	if info.Decl != nil && info.Decl.IsInner() && info.Outer != NoSymbolID {
		r.collectOuterScopeLocked(info.Outer, scope)
	}
	if info.Decl == nil {
		return
	}
	for i, tp := range info.Decl.TypeParams {
		if i < len(info.Params) {
			scope[tp.Name] = info.Params[i]
		}
	}
}

func (r *Registry) resolveBoundsLocked(bounds []*typeexpr.Expr, scope Scope) (TypeID, error) {
	switch len(bounds) {
	case 0:
		return r.builtins.Object, nil
	case 1:
		id, err := r.resolveLocked(bounds[0], scope)
		if err != nil {
			return NoTypeID, err
		}
		return id, r.checkBoundLocked(id)
	}
	members := make([]TypeID, 0, len(bounds))
	for _, b := range bounds {
		id, err := r.resolveLocked(b, scope)
		if err != nil {
			return NoTypeID, err
		}
		if err := r.checkBoundLocked(id); err != nil {
			return NoTypeID, err
		}
		members = append(members, id)
	}
	return r.intersectionLocked(members)
}

func (r *Registry) checkBoundLocked(id TypeID) error {
	t, _ := r.lookupLocked(id)
	switch t.Kind {
	case KindClass, KindTypeVar, KindIntersection, KindArray, KindError, KindUnresolved:
		return nil
	case KindInvalid, KindPrimitive, KindWildcard, KindNull:
		return &InvalidBoundError{Type: r.stringLocked(id, true), Reason: "not a reference type"}
	}
	return nil
}

// resolveSupertypeLocked resolves a supertype template, which must denote a
// class or interface type. Failures degrade to the error type.
func (r *Registry) resolveSupertypeLocked(e *typeexpr.Expr, scope Scope) (TypeID, error) {
	id, err := r.resolveLocked(e, scope)
	if err != nil {
		return r.builtins.Error, err
	}
	t, _ := r.lookupLocked(id)
	if t.Kind != KindClass {
		return r.builtins.Error, &InvalidBoundError{Type: e.String(), Reason: "supertype is not a class or interface"}
	}
	return id, nil
}

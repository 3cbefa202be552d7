package types

import (
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"

	"fortio.org/safecast"

	"jtypes/internal/source"
	"jtypes/internal/symbols"
	"jtypes/internal/trace"
)

// Qualified names of the declarations every array type extends.
const (
	ObjectName       = "java.lang.Object"
	CloneableName    = "java.lang.Cloneable"
	SerializableName = "java.io.Serializable"
)

// DefaultMaxDepth bounds the recursion of a single subtyping query.
const DefaultMaxDepth = 256

// Options tune a Registry.
type Options struct {
	// StrictArity makes Parameterise reject an empty argument list for a
	// generic declaration instead of answering the raw type.
	StrictArity bool
	// MaxDepth bounds recursive walks; zero means DefaultMaxDepth.
	MaxDepth int
	// Tracer receives query spans; nil disables tracing.
	Tracer trace.Tracer
}

// Builtins stores TypeIDs of the primitives, sentinels and array supertypes.
type Builtins struct {
	Boolean, Byte, Short, Char, Int, Long, Float, Double TypeID

	Null       TypeID
	Error      TypeID
	Unresolved TypeID

	Object       TypeID
	Cloneable    TypeID
	Serializable TypeID
}

// Registry owns the canonical table of types for one analysis session.
// Every exported method is safe for concurrent use; returned TypeIDs and the
// descriptors behind them never change.
type Registry struct {
	mu     sync.RWMutex
	lookup symbols.Lookup
	names  *source.Interner
	opts   Options
	tracer trace.Tracer

	types   []Type
	index   map[typeKey]TypeID
	classes []ClassInfo
	vars    []TypeVarInfo
	inters  [][]TypeID

	syms     []SymbolInfo
	symIndex map[string]SymbolID

	builtins   Builtins
	objectSym  SymbolID
	captureSeq atomic.Uint64
	// lenient is non-zero while declaration templates resolve; raw
	// references in manifests are legal even under StrictArity.
	lenient int
}

// NewRegistry builds a registry over lookup. The root class must be
// resolvable; Cloneable and Serializable degrade to unresolved symbols.
func NewRegistry(lookup symbols.Lookup, opts Options) (*Registry, error) {
	if lookup == nil {
		return nil, fmt.Errorf("types: nil declaration lookup")
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	r := &Registry{
		lookup:   lookup,
		names:    source.NewInterner(),
		opts:     opts,
		tracer:   opts.Tracer,
		index:    make(map[typeKey]TypeID, 256),
		symIndex: make(map[string]SymbolID, 64),
	}
	if r.tracer == nil {
		r.tracer = trace.Nop
	}
	// slot 0 of every table is the invalid sentinel
	r.types = append(r.types, Type{Kind: KindInvalid})
	r.classes = append(r.classes, ClassInfo{})
	r.vars = append(r.vars, TypeVarInfo{})
	r.inters = append(r.inters, nil)
	r.syms = append(r.syms, SymbolInfo{})

	if _, ok := lookup.LookupClass(ObjectName); !ok {
		return nil, &UnresolvedSymbolError{Name: ObjectName}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	b := &r.builtins
	b.Boolean = r.internLocked(Type{Kind: KindPrimitive, Prim: PrimBoolean}, "")
	b.Byte = r.internLocked(Type{Kind: KindPrimitive, Prim: PrimByte}, "")
	b.Short = r.internLocked(Type{Kind: KindPrimitive, Prim: PrimShort}, "")
	b.Char = r.internLocked(Type{Kind: KindPrimitive, Prim: PrimChar}, "")
	b.Int = r.internLocked(Type{Kind: KindPrimitive, Prim: PrimInt}, "")
	b.Long = r.internLocked(Type{Kind: KindPrimitive, Prim: PrimLong}, "")
	b.Float = r.internLocked(Type{Kind: KindPrimitive, Prim: PrimFloat}, "")
	b.Double = r.internLocked(Type{Kind: KindPrimitive, Prim: PrimDouble}, "")
	b.Null = r.internLocked(Type{Kind: KindNull}, "")
	b.Error = r.internLocked(Type{Kind: KindError}, "")
	b.Unresolved = r.internLocked(Type{Kind: KindUnresolved}, "")

	r.objectSym = r.symbolLocked(ObjectName)
	b.Object = r.classLocked(r.objectSym, nil, false, NoTypeID)
	b.Cloneable = r.classLocked(r.symbolLocked(CloneableName), nil, false, NoTypeID)
	b.Serializable = r.classLocked(r.symbolLocked(SerializableName), nil, false, NoTypeID)
	return r, nil
}

// Builtins returns the TypeIDs created with the registry.
func (r *Registry) Builtins() Builtins { return r.builtins }

func (r *Registry) Null() TypeID         { return r.builtins.Null }
func (r *Registry) Error() TypeID        { return r.builtins.Error }
func (r *Registry) Unresolved() TypeID   { return r.builtins.Unresolved }
func (r *Registry) Object() TypeID       { return r.builtins.Object }
func (r *Registry) Cloneable() TypeID    { return r.builtins.Cloneable }
func (r *Registry) Serializable() TypeID { return r.builtins.Serializable }

// Lookup returns the descriptor for a TypeID.
func (r *Registry) Lookup(id TypeID) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(id)
}

// MustLookup panics when id is invalid.
func (r *Registry) MustLookup(id TypeID) Type {
	tt, ok := r.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Kind is a shortcut for the kind of id; invalid IDs report KindInvalid.
func (r *Registry) Kind(id TypeID) Kind {
	tt, _ := r.Lookup(id)
	return tt.Kind
}

// Len returns the number of allocated types, the invalid slot included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

func (r *Registry) lookupLocked(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(r.types) {
		return Type{}, false
	}
	return r.types[id], true
}

type typeKey struct {
	Kind   Kind
	Prim   PrimitiveKind
	Bound  WildcardBound
	Raw    bool
	Elem   TypeID
	Dims   uint32
	Symbol SymbolID
	Outer  TypeID
	Args   string
}

func keyOf(t Type, outer TypeID, args string) typeKey {
	return typeKey{
		Kind:   t.Kind,
		Prim:   t.Prim,
		Bound:  t.Bound,
		Raw:    t.Raw,
		Elem:   t.Elem,
		Dims:   t.Dims,
		Symbol: t.Symbol,
		Outer:  outer,
		Args:   args,
	}
}

// encodeIDs packs ids into a comparable map key.
func encodeIDs(ids []TypeID) string {
	if len(ids) == 0 {
		return ""
	}
	buf := make([]byte, 0, 4*len(ids))
	for _, id := range ids {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(id))
	}
	return string(buf)
}

// internLocked returns the canonical ID for a payload-free descriptor.
func (r *Registry) internLocked(t Type, args string) TypeID {
	key := keyOf(t, NoTypeID, args)
	if id, ok := r.index[key]; ok {
		return id
	}
	id := r.appendLocked(t)
	r.index[key] = id
	return id
}

// appendLocked stores t without consulting or updating the index.
func (r *Registry) appendLocked(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(r.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	r.types = append(r.types, t)
	return TypeID(n)
}

func slot(n int, what string) uint32 {
	s, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("%s overflow: %w", what, err))
	}
	return s
}

func (r *Registry) traceEnabled() bool {
	return r.tracer.Enabled()
}

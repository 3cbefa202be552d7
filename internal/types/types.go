package types

import "fmt"

// TypeID uniquely identifies a type inside a Registry.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates every type form. The set is closed: switches over Kind in
// this package are exhaustive.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindClass
	KindArray
	KindWildcard
	KindTypeVar
	KindIntersection
	KindNull
	KindError
	KindUnresolved
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindPrimitive:
		return "primitive"
	case KindClass:
		return "class"
	case KindArray:
		return "array"
	case KindWildcard:
		return "wildcard"
	case KindTypeVar:
		return "typevar"
	case KindIntersection:
		return "intersection"
	case KindNull:
		return "null"
	case KindError:
		return "error"
	case KindUnresolved:
		return "unresolved"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// PrimitiveKind names one of the eight primitive types.
type PrimitiveKind uint8

const (
	PrimNone PrimitiveKind = iota
	PrimBoolean
	PrimByte
	PrimShort
	PrimChar
	PrimInt
	PrimLong
	PrimFloat
	PrimDouble
)

var primitiveNames = [...]string{
	PrimNone:    "none",
	PrimBoolean: "boolean",
	PrimByte:    "byte",
	PrimShort:   "short",
	PrimChar:    "char",
	PrimInt:     "int",
	PrimLong:    "long",
	PrimFloat:   "float",
	PrimDouble:  "double",
}

func (p PrimitiveKind) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return fmt.Sprintf("PrimitiveKind(%d)", p)
}

// ParsePrimitiveKind maps a keyword to its kind.
func ParsePrimitiveKind(name string) (PrimitiveKind, bool) {
	for k := PrimBoolean; k <= PrimDouble; k++ {
		if primitiveNames[k] == name {
			return k, true
		}
	}
	return PrimNone, false
}

// WildcardBound is the bound kind of a wildcard.
type WildcardBound uint8

const (
	BoundUnbounded WildcardBound = iota
	BoundExtends
	BoundSuper
)

func (b WildcardBound) String() string {
	switch b {
	case BoundUnbounded:
		return "?"
	case BoundExtends:
		return "extends"
	case BoundSuper:
		return "super"
	default:
		return fmt.Sprintf("WildcardBound(%d)", b)
	}
}

// Type is a compact descriptor. Variable-length parts (type arguments,
// bounds, members) live in side tables addressed by Payload.
type Type struct {
	Kind  Kind
	Prim  PrimitiveKind // KindPrimitive
	Bound WildcardBound // KindWildcard
	Raw   bool          // KindClass
	// Elem is the array element (never itself an array) or the wildcard bound.
	Elem   TypeID
	Dims   uint32   // KindArray, >= 1
	Symbol SymbolID // KindClass
	// Payload indexes the class, type variable or intersection side table.
	Payload uint32
}

// IsReference reports whether values of the type are references. Sentinels
// other than the null type are neither reference nor primitive.
func (t Type) IsReference() bool {
	switch t.Kind {
	case KindClass, KindArray, KindTypeVar, KindIntersection, KindNull:
		return true
	case KindInvalid, KindPrimitive, KindWildcard, KindError, KindUnresolved:
		return false
	}
	return false
}

// IsSentinel reports whether the type is one of the absorbing sentinels.
func (t Type) IsSentinel() bool {
	return t.Kind == KindError || t.Kind == KindUnresolved
}

package types

// widening lists the direct primitive widening edges. The closure is a
// partial order: short and char are incomparable, boolean is isolated.
var widening = map[PrimitiveKind][]PrimitiveKind{
	PrimByte:  {PrimShort},
	PrimShort: {PrimInt},
	PrimChar:  {PrimInt},
	PrimInt:   {PrimLong},
	PrimLong:  {PrimFloat},
	PrimFloat: {PrimDouble},
}

// wideningClosure returns p and every kind reachable from it.
func wideningClosure(p PrimitiveKind) []PrimitiveKind {
	out := []PrimitiveKind{p}
	for i := 0; i < len(out); i++ {
		for _, next := range widening[out[i]] {
			seen := false
			for _, k := range out {
				if k == next {
					seen = true
					break
				}
			}
			if !seen {
				out = append(out, next)
			}
		}
	}
	return out
}

func widens(from, to PrimitiveKind) bool {
	for _, k := range wideningClosure(from) {
		if k == to {
			return true
		}
	}
	return false
}

// Primitive returns the TypeID of a primitive kind.
func (r *Registry) Primitive(k PrimitiveKind) TypeID {
	b := r.builtins
	switch k {
	case PrimBoolean:
		return b.Boolean
	case PrimByte:
		return b.Byte
	case PrimShort:
		return b.Short
	case PrimChar:
		return b.Char
	case PrimInt:
		return b.Int
	case PrimLong:
		return b.Long
	case PrimFloat:
		return b.Float
	case PrimDouble:
		return b.Double
	case PrimNone:
	}
	return NoTypeID
}

// AllPrimitives enumerates the eight primitive types.
func (r *Registry) AllPrimitives() []TypeID {
	out := make([]TypeID, 0, 8)
	for k := PrimBoolean; k <= PrimDouble; k++ {
		out = append(out, r.Primitive(k))
	}
	return out
}

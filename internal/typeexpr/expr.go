// Package typeexpr holds the signature syntax used to describe supertype
// templates, type parameter bounds and ad-hoc queries.
//
// The grammar is deliberately small:
//
//	type      := member ('&' member)*
//	member    := wildcard | reference dims
//	wildcard  := '?' (('extends' | 'super') reference dims)?
//	reference := name args? ('.' ident args?)*
//	dims      := ('[' ']')*
//
// Names are resolved later, against a type variable scope first and the
// declaration table second.
package typeexpr

import (
	"strings"
)

// Kind enumerates the expression forms.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindName is a named reference: primitive, class/interface or type variable.
	KindName
	KindWildcard
	KindIntersection
)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindWildcard:
		return "wildcard"
	case KindIntersection:
		return "intersection"
	default:
		return "invalid"
	}
}

// BoundKind describes the bound of a wildcard expression.
type BoundKind uint8

const (
	BoundNone BoundKind = iota
	BoundExtends
	BoundSuper
)

// Expr is a parsed type expression.
type Expr struct {
	Kind Kind
	// Name is the dotted name of a KindName expression.
	Name string
	Args []*Expr
	// Outer is set for member types written as Outer<A>.Inner.
	Outer *Expr
	Dims  int

	Bound BoundKind
	// Elem is the wildcard bound (nil for an unbounded wildcard).
	Elem *Expr

	Members []*Expr
}

// TypeParam is a declared type parameter with its bounds.
type TypeParam struct {
	Name   string
	Bounds []*Expr
}

// Named builds a KindName expression.
func Named(name string, args ...*Expr) *Expr {
	return &Expr{Kind: KindName, Name: name, Args: args}
}

// IsPrimitiveName reports whether name spells one of the eight primitive types.
func IsPrimitiveName(name string) bool {
	switch name {
	case "boolean", "byte", "short", "char", "int", "long", "float", "double":
		return true
	}
	return false
}

func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Expr) write(sb *strings.Builder) {
	switch e.Kind {
	case KindName:
		if e.Outer != nil {
			e.Outer.write(sb)
			sb.WriteByte('.')
		}
		sb.WriteString(e.Name)
		if len(e.Args) > 0 {
			sb.WriteByte('<')
			for i, a := range e.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				a.write(sb)
			}
			sb.WriteByte('>')
		}
		for range e.Dims {
			sb.WriteString("[]")
		}
	case KindWildcard:
		sb.WriteByte('?')
		switch e.Bound {
		case BoundExtends:
			sb.WriteString(" extends ")
			e.Elem.write(sb)
		case BoundSuper:
			sb.WriteString(" super ")
			e.Elem.write(sb)
		}
	case KindIntersection:
		for i, m := range e.Members {
			if i > 0 {
				sb.WriteString(" & ")
			}
			m.write(sb)
		}
	default:
		sb.WriteString("<invalid>")
	}
}

func (p TypeParam) String() string {
	if len(p.Bounds) == 0 {
		return p.Name
	}
	parts := make([]string, len(p.Bounds))
	for i, b := range p.Bounds {
		parts[i] = b.String()
	}
	return p.Name + " extends " + strings.Join(parts, " & ")
}

package symbols

import (
	"strings"

	"jtypes/internal/typeexpr"
)

// ClassKind classifies a nominal declaration.
type ClassKind uint8

const (
	KindClass ClassKind = iota
	KindInterface
	KindEnum
	KindAnnotation
	KindRecord
)

func (k ClassKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindAnnotation:
		return "annotation"
	case KindRecord:
		return "record"
	default:
		return "invalid"
	}
}

// ParseClassKind converts the manifest spelling of a kind.
func ParseClassKind(s string) (ClassKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "class":
		return KindClass, true
	case "interface":
		return KindInterface, true
	case "enum":
		return KindEnum, true
	case "annotation", "@interface":
		return KindAnnotation, true
	case "record":
		return KindRecord, true
	}
	return KindClass, false
}

// Flags encode declaration modifiers relevant to typing.
type Flags uint8

const (
	FlagStatic Flags = 1 << iota
	FlagFinal
	FlagAbstract
)

// ClassDecl is what the lookup collaborator knows about one class or
// interface. Supertype templates and bounds are written in terms of the
// declaration's own type parameters (and, for inner classes, those of the
// enclosing declaration).
type ClassDecl struct {
	Name       string
	Kind       ClassKind
	Flags      Flags
	TypeParams []typeexpr.TypeParam
	// Super is the direct superclass template. Nil means the root class
	// for classes and no superclass for interfaces and the root itself.
	Super      *typeexpr.Expr
	Interfaces []*typeexpr.Expr
	// Outer is the qualified name of the enclosing declaration, if any.
	Outer string
}

// SimpleName returns the last segment of the qualified name.
func (d *ClassDecl) SimpleName() string {
	if i := strings.LastIndexAny(d.Name, ".$"); i >= 0 {
		return d.Name[i+1:]
	}
	return d.Name
}

// Package returns the qualified name without its last segment.
func (d *ClassDecl) Package() string {
	if i := strings.LastIndexByte(d.Name, '.'); i >= 0 {
		return d.Name[:i]
	}
	return ""
}

// Arity is the number of declared type parameters.
func (d *ClassDecl) Arity() int { return len(d.TypeParams) }

func (d *ClassDecl) IsInterface() bool {
	return d.Kind == KindInterface || d.Kind == KindAnnotation
}

// IsInner reports whether instances capture an enclosing instance, which
// makes the enclosing type parameters visible.
func (d *ClassDecl) IsInner() bool {
	return d.Outer != "" && d.Flags&FlagStatic == 0 && !d.IsInterface() && d.Kind != KindEnum && d.Kind != KindRecord
}

// Lookup is the declaration-lookup capability consumed by the type registry.
// Implementations must be safe for concurrent use.
type Lookup interface {
	LookupClass(name string) (*ClassDecl, bool)
}

// NameResolver is optionally implemented by a Lookup to map simple or
// partially qualified names to qualified ones.
type NameResolver interface {
	ResolveName(name string) (string, bool)
}

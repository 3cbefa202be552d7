// Package classpath loads declaration manifests into a symbols.Table.
//
// A manifest lists class and interface declarations with their type
// parameters and supertype templates written in typeexpr syntax:
//
//	[[class]]
//	name = "java.util.ArrayList"
//	params = ["E"]
//	extends = "java.util.AbstractList<E>"
//	implements = ["java.util.List<E>", "java.util.RandomAccess"]
//
// Manifests come as TOML (.toml) or as MessagePack (.jtc), the latter being
// what Compile writes.
package classpath

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"jtypes/internal/symbols"
	"jtypes/internal/typeexpr"
)

// SchemaVersion is bumped whenever the manifest layout changes.
const SchemaVersion = 1

// Manifest is the decoded form shared by both encodings.
type Manifest struct {
	Schema  int          `toml:"schema" msgpack:"schema"`
	Name    string       `toml:"name" msgpack:"name"`
	Classes []ClassEntry `toml:"class" msgpack:"classes"`
}

// ClassEntry is one declaration as written in a manifest.
type ClassEntry struct {
	Name string `toml:"name" msgpack:"name"`
	// Kind is class, interface, enum, annotation or record; empty means class.
	Kind       string   `toml:"kind" msgpack:"kind,omitempty"`
	Params     []string `toml:"params" msgpack:"params,omitempty"`
	Extends    string   `toml:"extends" msgpack:"extends,omitempty"`
	Implements []string `toml:"implements" msgpack:"implements,omitempty"`
	Outer      string   `toml:"outer" msgpack:"outer,omitempty"`
	Static     bool     `toml:"static" msgpack:"static,omitempty"`
	Final      bool     `toml:"final" msgpack:"final,omitempty"`
	Abstract   bool     `toml:"abstract" msgpack:"abstract,omitempty"`
}

// EntryError points at the manifest entry that failed to convert.
type EntryError struct {
	Manifest string
	Class    string
	Err      error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("classpath: %s: %s: %v", e.Manifest, e.Class, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// ErrSchema reports a manifest written for another schema version.
var ErrSchema = errors.New("classpath: unsupported manifest schema")

// Decl converts an entry into a declaration. Names are NFC-normalised so
// that differently composed identifiers meet in the same table slot.
func (c ClassEntry) Decl() (*symbols.ClassDecl, error) {
	name := normalize(c.Name)
	if name == "" {
		return nil, errors.New("missing name")
	}
	kind := symbols.KindClass
	if c.Kind != "" {
		k, ok := symbols.ParseClassKind(c.Kind)
		if !ok {
			return nil, fmt.Errorf("unknown kind %q", c.Kind)
		}
		kind = k
	}
	decl := &symbols.ClassDecl{
		Name:  name,
		Kind:  kind,
		Outer: normalize(c.Outer),
	}
	if c.Static {
		decl.Flags |= symbols.FlagStatic
	}
	if c.Final {
		decl.Flags |= symbols.FlagFinal
	}
	if c.Abstract {
		decl.Flags |= symbols.FlagAbstract
	}
	for _, p := range c.Params {
		tp, err := typeexpr.ParseTypeParam(normalize(p))
		if err != nil {
			return nil, fmt.Errorf("type parameter %q: %w", p, err)
		}
		decl.TypeParams = append(decl.TypeParams, tp)
	}
	if c.Extends != "" {
		if kind == symbols.KindInterface || kind == symbols.KindAnnotation {
			return nil, errors.New("interfaces list their supertypes under implements")
		}
		e, err := typeexpr.Parse(normalize(c.Extends))
		if err != nil {
			return nil, fmt.Errorf("extends: %w", err)
		}
		decl.Super = e
	}
	for _, s := range c.Implements {
		e, err := typeexpr.Parse(normalize(s))
		if err != nil {
			return nil, fmt.Errorf("implements %q: %w", s, err)
		}
		decl.Interfaces = append(decl.Interfaces, e)
	}
	return decl, nil
}

// Table converts every entry and validates the result.
func (m *Manifest) Table() (*symbols.Table, error) {
	if m.Schema != 0 && m.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrSchema, m.Schema, SchemaVersion)
	}
	n, err := safecast.Conv[uint](len(m.Classes))
	if err != nil {
		return nil, fmt.Errorf("classpath: %s: %w", m.Name, err)
	}
	t := symbols.NewTable(symbols.Hints{Classes: n})
	if err := m.AddTo(t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("classpath: %s: %w", m.Name, err)
	}
	return t, nil
}

// AddTo converts every entry into t without validating.
func (m *Manifest) AddTo(t *symbols.Table) error {
	for _, c := range m.Classes {
		decl, err := c.Decl()
		if err != nil {
			return &EntryError{Manifest: m.Name, Class: c.Name, Err: err}
		}
		if err := t.Add(decl); err != nil {
			return &EntryError{Manifest: m.Name, Class: c.Name, Err: err}
		}
	}
	return nil
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

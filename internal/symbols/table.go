package symbols

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"jtypes/internal/typeexpr"
)

// Hints provide optional capacity suggestions for the table.
type Hints struct{ Classes uint }

// DuplicateError is returned when a qualified name is declared twice.
type DuplicateError struct{ Name string }

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("symbols: duplicate declaration of %s", e.Name)
}

// Table is an in-memory Lookup. It is safe for concurrent readers and
// writers.
type Table struct {
	mu     sync.RWMutex
	decls  map[string]*ClassDecl
	simple map[string][]string
	order  []string
}

// NewTable builds an empty table with optional capacity hints.
func NewTable(h Hints) *Table {
	return &Table{
		decls:  make(map[string]*ClassDecl, h.Classes),
		simple: make(map[string][]string, h.Classes),
	}
}

// Add registers a declaration. The table keeps the pointer; callers must not
// mutate decl afterwards.
func (t *Table) Add(decl *ClassDecl) error {
	if decl == nil || decl.Name == "" {
		return fmt.Errorf("symbols: declaration without a name")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.decls[decl.Name]; ok {
		return &DuplicateError{Name: decl.Name}
	}
	t.decls[decl.Name] = decl
	t.order = append(t.order, decl.Name)
	simple := decl.SimpleName()
	t.simple[simple] = append(t.simple[simple], decl.Name)
	return nil
}

// Merge copies every declaration of other into t.
func (t *Table) Merge(other *Table) error {
	if other == nil {
		return nil
	}
	for _, name := range other.Names() {
		decl, _ := other.LookupClass(name)
		if err := t.Add(decl); err != nil {
			return err
		}
	}
	return nil
}

// LookupClass implements Lookup.
func (t *Table) LookupClass(name string) (*ClassDecl, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	decl, ok := t.decls[name]
	return decl, ok
}

// ResolveName implements NameResolver. Qualified names win; a simple name
// resolves only when exactly one declaration carries it. A dotted name whose
// first segment is such a simple name (Map.Entry) resolves to the member of
// that declaration.
func (t *Table) ResolveName(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if _, ok := t.decls[name]; ok {
		return name, true
	}
	head, rest, dotted := strings.Cut(name, ".")
	candidates := t.simple[head]
	if len(candidates) != 1 {
		return "", false
	}
	if !dotted {
		return candidates[0], true
	}
	qualified := candidates[0] + "." + rest
	if _, ok := t.decls[qualified]; ok {
		return qualified, true
	}
	return "", false
}

// Len returns the number of declarations.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.decls)
}

// Names returns qualified names in insertion order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.order)
}

// Validate checks that enclosing declarations exist and that type parameter
// names are unique per declaration.
func (t *Table) Validate() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, name := range t.order {
		decl := t.decls[name]
		if decl.Outer != "" {
			if _, ok := t.decls[decl.Outer]; !ok {
				return fmt.Errorf("symbols: %s: enclosing declaration %s is missing", name, decl.Outer)
			}
		}
		seen := make(map[string]struct{}, len(decl.TypeParams))
		for _, tp := range decl.TypeParams {
			if _, dup := seen[tp.Name]; dup {
				return fmt.Errorf("symbols: %s: duplicate type parameter %s", name, tp.Name)
			}
			seen[tp.Name] = struct{}{}
			if typeexpr.IsPrimitiveName(tp.Name) {
				return fmt.Errorf("symbols: %s: type parameter named %s", name, tp.Name)
			}
		}
	}
	return nil
}

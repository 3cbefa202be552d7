package diagfmt

import "jtypes/internal/source"

// Location is a resolved site.
type Location struct {
	Path   string
	Line   uint32
	Column uint32
}

// Locator maps a diagnostic site back to something a user can find. Sites
// are opaque to the core, so each producer supplies its own.
type Locator interface {
	Locate(sp source.Span) (Location, bool)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(sp source.Span) (Location, bool)

func (f LocatorFunc) Locate(sp source.Span) (Location, bool) { return f(sp) }

// ShortOpts configures single-line output.
type ShortOpts struct {
	Color        bool
	IncludeNotes bool
	Max          int // output truncation, not the Bag limit
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max          int
	IncludeNotes bool
}

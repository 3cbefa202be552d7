package infer

import (
	"strings"

	"jtypes/internal/source"
	"jtypes/internal/types"
)

// Site identifies the call or reference being resolved. Span is opaque to
// this package; Expr is a display form such as "list.add(x)".
type Site struct {
	Span source.Span
	Expr string
}

// Candidate is a method or constructor signature taking part in
// resolution.
type Candidate struct {
	Name   string
	Owner  types.TypeID
	Params []types.TypeID
}

// Signature renders c with simple type names, e.g. "add(E)".
func (c Candidate) Signature(r *types.Registry) string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteByte('(')
	for i, p := range c.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.SimpleString(p))
	}
	sb.WriteByte(')')
	return sb.String()
}

// Logger receives resolution observations. Each method may fire zero or more
// times per resolution; a well-typed program fires none.
type Logger interface {
	// AmbiguityError: several candidates are applicable and none is most
	// specific.
	AmbiguityError(site Site, candidates []Candidate)
	// NoCompileTimeDeclaration: resolution ended without a declaration.
	NoCompileTimeDeclaration(site Site)
	// FallbackInvocation: a declaration was chosen but its invocation type
	// could not be computed exactly, so a degraded one is used.
	FallbackInvocation(site Site, reason string)
	// NoApplicableCandidates: candidates exist but no phase accepts any.
	NoApplicableCandidates(site Site)
}

type nopLogger struct{}

func (nopLogger) AmbiguityError(Site, []Candidate) {}
func (nopLogger) NoCompileTimeDeclaration(Site)    {}
func (nopLogger) FallbackInvocation(Site, string)  {}
func (nopLogger) NoApplicableCandidates(Site)      {}

// Nop discards every observation.
var Nop Logger = nopLogger{}

// multiLogger forwards to several loggers in order.
type multiLogger struct {
	loggers []Logger
}

// Multi returns a Logger that forwards to every non-nil logger.
func Multi(loggers ...Logger) Logger {
	out := make([]Logger, 0, len(loggers))
	for _, l := range loggers {
		if l != nil && l != Nop {
			out = append(out, l)
		}
	}
	switch len(out) {
	case 0:
		return Nop
	case 1:
		return out[0]
	}
	return &multiLogger{loggers: out}
}

func (m *multiLogger) AmbiguityError(site Site, candidates []Candidate) {
	for _, l := range m.loggers {
		l.AmbiguityError(site, candidates)
	}
}

func (m *multiLogger) NoCompileTimeDeclaration(site Site) {
	for _, l := range m.loggers {
		l.NoCompileTimeDeclaration(site)
	}
}

func (m *multiLogger) FallbackInvocation(site Site, reason string) {
	for _, l := range m.loggers {
		l.FallbackInvocation(site, reason)
	}
}

func (m *multiLogger) NoApplicableCandidates(site Site) {
	for _, l := range m.loggers {
		l.NoApplicableCandidates(site)
	}
}

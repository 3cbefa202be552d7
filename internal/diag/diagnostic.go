package diag

import (
	"slices"

	"jtypes/internal/source"
)

// Note points at a related site, such as one candidate of an ambiguous call.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding. Primary is the site the caller attached to the
// observation; its coordinates are meaningful only to that caller.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

// WithNote returns d with a note appended; d itself is not modified.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(slices.Clip(d.Notes), Note{Span: sp, Msg: msg})
	return d
}

package diag

import "strings"

// Severity orders diagnostics; higher is worse.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{"info", "warning", "error"}

// String is the upper-case form, as in "WARNING".
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return strings.ToUpper(severityNames[s])
	}
	return "UNKNOWN"
}

// Label is the lower-case form used in single-line output. Unknown values
// print as info.
func (s Severity) Label() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return severityNames[SevInfo]
}

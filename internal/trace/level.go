package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // depth-guard aborts only
	LevelPhase               // session operations
	LevelDetail              // plus every query
	LevelDebug               // plus walk steps
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel is case-insensitive; empty means off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether the given scope is visible at this level.
// Error events bypass this check; see Accepts.
func (l Level) ShouldEmit(scope Scope) bool {
	if l <= LevelError {
		return false
	}
	// phase admits session, detail adds query, debug adds walk
	return int(scope) <= int(l)-int(LevelError)
}

// Accepts reports whether an event passes the level filter.
func (l Level) Accepts(ev *Event) bool {
	if ev.Kind == KindError {
		return l > LevelOff
	}
	return l.ShouldEmit(ev.Scope)
}

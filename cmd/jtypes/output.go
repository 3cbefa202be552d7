package main

import (
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"jtypes/internal/types"
)

var (
	verdictYes       = color.New(color.FgGreen, color.Bold)
	verdictUnchecked = color.New(color.FgYellow)
	verdictNo        = color.New(color.FgRed)
	dimText          = color.New(color.Faint)
)

// verdict renders a convertibility level for humans.
func verdict(c types.Convertibility) string {
	switch c {
	case types.Subtyping:
		return verdictYes.Sprint("subtype")
	case types.UncheckedNoWarning:
		return verdictYes.Sprint("subtype (unchecked, no warning)")
	case types.UncheckedWarning:
		return verdictUnchecked.Sprint("unchecked")
	case types.Never:
		return verdictNo.Sprint("not a subtype")
	}
	return c.String()
}

// pad right-pads s to width display cells. Colour escapes are not counted,
// so callers pad plain text before colouring it.
func pad(s string, width int) string {
	if w := stringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func stringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// clip shortens s to at most width display cells.
func clip(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

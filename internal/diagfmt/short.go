package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"jtypes/internal/diag"
	"jtypes/internal/source"
)

// Short writes one line per diagnostic:
//
//	<severity> <CODE> <path>:<line>:<col> <message>
//
// Sites the locator cannot place are printed as raw spans. Expects
// bag.Sort() to have been called when stable output matters.
func Short(w io.Writer, bag *diag.Bag, loc Locator, opts ShortOpts) error {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for _, d := range items {
		label := d.Severity.Label()
		if opts.Color {
			label = severityColor(d.Severity).Sprint(label)
		}
		if _, err := fmt.Fprintf(w, "%s %s %s %s\n", label, d.Code.ID(), where(d.Primary, loc), sanitizeMessage(d.Message)); err != nil {
			return err
		}
		if !opts.IncludeNotes {
			continue
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  note %s %s\n", where(n.Span, loc), sanitizeMessage(n.Msg)); err != nil {
				return err
			}
		}
	}
	return nil
}

func where(sp source.Span, loc Locator) string {
	if loc != nil {
		if l, ok := loc.Locate(sp); ok {
			return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Column)
		}
	}
	return sp.String()
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}

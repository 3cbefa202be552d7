// Package diag defines the diagnostic model shared by the type core, the
// inference observers and the command line.
//
// Diagnostic is the central record: a Severity, a numeric Code with a stable
// string form (TYP, INF, CP and IO ranges), a short message, the primary
// site and optional notes. Producers emit through a Reporter so that storage
// stays decoupled; BagReporter collects into a bounded Bag, which supports
// sorting and deduplication. Rendering lives in internal/diagfmt.
//
// A Bag is safe for concurrent use. The site span is opaque: the inference
// driver that reports an observation decides what File, Start and End mean.
package diag

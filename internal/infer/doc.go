// Package infer holds the observation contract an overload resolution and
// inference driver reports through while it queries the type core.
//
// Logger is the contract. Nop ignores everything, Multi fans out, Recorder
// counts calls and keeps their arguments for tests, and DiagLogger turns
// observations into diag diagnostics. Selector is a small phased
// most-specific-candidate resolver over the subtyping engine; it is the
// reference producer of these observations.
//
// Observations never change resolution: a Logger has no return values and
// the selector behaves the same whichever Logger it is given.
package infer

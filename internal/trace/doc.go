// Package trace records what the type engine is doing while it answers
// queries: subtype decisions, supertype walks, captures and depth-guard
// aborts.
//
// # Usage
//
//	jtypes subtype --trace=- --trace-level=detail 'ArrayList<String>' 'List<?>'
//
// # Tracers
//
//   - Nop drops everything and is what registries get by default.
//   - StreamTracer writes every event as it happens.
//   - RingTracer keeps the last N events for a dump at session close.
//   - Tee sends events to several tracers.
//
// # Levels and scopes
//
// A level selects the scopes it lets through:
//
//   - LevelError: depth-guard aborts only
//   - LevelPhase: session operations (loading manifests, batch runs)
//   - LevelDetail: individual queries
//   - LevelDebug: supertype walk steps and captures
//
// Tracers travel with a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	sp, ctx := trace.BeginContext(ctx, trace.ScopeSession, "batch")
//	defer sp.End("")
package trace

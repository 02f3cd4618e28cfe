// Package trace records what luedit is doing while it parses and edits
// documents: command boundaries, gateway requests, edits and per-section work.
//
// # Usage
//
//	luedit diag --trace=- --trace-level=detail intents.lu
//	luedit lsp --trace=/tmp/lsp.ndjson --trace-heartbeat=5s
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: keeps the last N events for dumps after a hang
//   - MultiTracer: fan-out to several tracers
//
// # Levels and scopes
//
// A level admits every scope at or above a threshold:
//
//   - LevelPhase: ScopeCommand and ScopeRequest
//   - LevelDetail: adds ScopeEdit (parse, mutate, render)
//   - LevelDebug: adds ScopeSection
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.StartSpan(ctx, trace.ScopeRequest, "parse")
//	defer span.End("")
package trace

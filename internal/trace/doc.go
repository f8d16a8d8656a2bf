// Package trace records what krllint is doing while it runs.
//
// Tracing is off unless --trace is given:
//
//	krllint --trace=- --trace-level=phase robot/
//
// # Tracers
//
//   - Nop: no-op tracer when tracing is disabled
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last events in memory, dumped when a file fails
//   - MultiTracer: fans events out to several tracers
//
// # Levels and scopes
//
// Events carry a scope: ScopeDriver (the whole run), ScopePass (lex, parse, lint
// of one file), ScopeFile (per-file bookkeeping such as cache lookups) and
// ScopeRule (one lint rule on one file). The level decides which scopes are kept:
// phase keeps driver and pass events, detail adds file events, debug keeps all.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", trace.CurrentSpan(ctx).SpanID)
//	defer span.End(path)
package trace

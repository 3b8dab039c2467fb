// Package trace records what the graph builder and the reference evaluator
// are doing.
//
// It is the project's logging channel: every component that wants to report
// progress emits structured events to a Tracer taken from a context or an
// option. When tracing is off the Nop tracer swallows everything.
//
// # Usage
//
//	graphir eval fib 25 --trace=- --trace-level=detail
//
// # Sinks
//
//   - Nop: disabled tracing
//   - StreamTracer: writes each event as it happens (file or stderr)
//   - RingTracer: keeps the last N events in memory for post-mortem dumps
//   - MultiTracer: fans out to several sinks
//
// # Levels and scopes
//
// Events carry a Scope (session, phase, function, node). The Level decides
// which scopes are emitted:
//
//   - LevelPhase: session and phase boundaries (build, validate, eval)
//   - LevelDetail: plus function definitions and evaluated calls
//   - LevelDebug: plus every branch and switch node
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePhase, "build", 0)
//	defer span.End("")
package trace

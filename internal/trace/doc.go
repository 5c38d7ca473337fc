// Package trace records what soltree does while it builds a tree.
//
// A Tracer travels in the command context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file:ERC20.sol", 0)
//	defer span.End("")
//
// Levels gate scopes: LevelPhase shows scan/build/write boundaries,
// LevelDetail adds one span per source file and LevelDebug adds every
// dependency recursion step. LevelError records nothing in the stream but
// keeps the ring buffer, which the CLI dumps when the run fails.
//
// Output is human text or NDJSON when the trace path ends in ".ndjson".
package trace

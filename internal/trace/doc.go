// Package trace records what a docket run is doing: pipeline stages, the
// unit files being decoded and merged, and the containers and aliases
// they declare. Events go to a stream (a file or stderr, text or NDJSON),
// to an in-memory ring that is dumped when a command fails, or to both.
//
// The tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, t)
//	span, ctx := trace.Start(ctx, trace.ScopeStage, "merge")
//	defer span.End("")
//
// Code without a context, like the registry, takes a Recorder captured
// with RecorderFrom(ctx) and emits entity events through it.
//
// Levels nest: stage shows run and stage spans, unit adds one span per
// unit file, entity adds one event per declared container, merged unit
// and created alias.
package trace

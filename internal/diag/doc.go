// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     while decoding units, merging fragments and resolving aliases.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting or IO. Rendering lives in
// internal/diagfmt; the CLI decides which severities abort a run.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the unit file and record line the finding refers to.
//   - Notes – optional secondary spans/messages for additional context.
//
// Codes are grouped in ranges: 1000 unit decoding, 2000 merging, 3000 alias
// resolution, 4000 IO, 5000 configuration. Each range owns an ID prefix.
package diag

// Package diag defines the diagnostic model shared by the transformer and
// the host driver.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced during TSL-to-Lua transformation.
//   - Offer light-weight utilities (Reporter, Bag) that let the transformer
//     emit diagnostics without coupling to storage or formatting layers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//     The set of codes is closed and mirrors the transformer's error kinds:
//     every fatal transformation failure maps onto exactly one code.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing at the TSL origin
//     node of the failing construct.
//   - Notes – optional secondary spans/messages for additional context.
//
// Notes should be used sparingly: each note must add new context (e.g.
// "symbol first referenced here") rather than repeating the message.
//
// # Emitting diagnostics
//
// The transformer reports through a diag.Reporter so emission is decoupled
// from storage. diag.BagReporter aggregates diagnostics into a Bag, which
// supports sorting, deduplication and merging. Warnings (unknown directive
// names, deprecated directive syntax) are non-fatal and flow through the
// same channel; errors abort the current file inside the transformer.
//
// # Consumers
//
//   - internal/diagfmt: renders diagnostics as colorized source frames.
//   - internal/host: collects bags per file and decides abort-or-continue.
//
// Keep the data model deterministic: diagnostics are serialised for golden
// tests, so new fields must not introduce nondeterminism.
package diag

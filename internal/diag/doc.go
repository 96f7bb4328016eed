// Package diag defines the diagnostic model shared by the verifier pipeline.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures for both captured
//     compiler diagnostics and the verifier's own findings.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits that the verifier can apply
//     back to the original source file.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Note, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//     MRK codes describe marker syntax errors, VFY codes describe
//     reconciliation findings.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing how to address the problem.
//
// # Emitting diagnostics
//
// Producers use a diag.Reporter to decouple emission from storage. The
// expectation scanner constructs a ReportBuilder via ReportError and chains
// WithFix before calling Emit. diag.BagReporter aggregates diagnostics into a
// Bag, which supports sorting and deduplication; verify.Sink implements
// Reporter to capture a compiler's output instead of printing it.
//
// # Consumers
//
//   - internal/diagfmt: renders Diagnostics into pretty/json form.
//   - internal/verify: reconciles captured diagnostics against expectations and
//     applies fix edits to source files.
package diag

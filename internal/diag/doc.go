// Package diag defines the diagnostic model shared by all krllint phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the lexer, the parser, lint rules and the driver.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits that the fix engine can apply.
//
// # Scope
//
// Package diag does not perform any formatting beyond the short one-line form
// used by tests, and no IO. Rendering lives in internal/diagfmt, application of
// fixes in internal/fix, orchestration in internal/driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string
//     form: LEX1xxx, SYN2xxx for phases, KRL0xx for rules, IO4xxx for tool
//     failures.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing how to address the problem.
//
// Notes should be used sparingly: each note must add new context (e.g. “first
// declared here”) rather than repeating the diagnostic message.
//
// # Collecting
//
// Bag is the per-file collector. Finalize removes exact duplicates (same code,
// span and message) and sorts by position, rule id and message so output does
// not depend on the order rules ran in. A Bag never drops findings silently:
// entries refused by the limit are counted and reported as OBS6001.
package diag

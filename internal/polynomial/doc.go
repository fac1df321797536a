// Package polynomial implements the document-level state machine that gates
// edit, sync, and conflict-resolution flows.
//
// A document is always in exactly one of four states: Viewing, Editing,
// Syncing, or Conflicting. Each state declares a finite set of inputs it
// accepts; any other input is answered with a NoOp output instead of an
// error, so drivers can feed the machine speculative inputs without
// wrapping every call in error handling.
//
// The transition function is (state, input) -> (state, output) and is fully
// deterministic: no clock, no randomness, no storage. Outputs such as
// SaveRequest and SyncComplete are requests for the caller to fulfill, not
// effects the machine performs itself.
//
// The machine is not safe for concurrent use. Callers must serialize Step
// calls per document, the same single-writer discipline the rest of the
// engine assumes.
package polynomial

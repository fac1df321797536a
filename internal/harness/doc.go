// Package harness executes YAML interaction scenarios and compares their
// trace output against golden files.
//
// A scenario names a source document, an observer, and a sequence of
// token interactions with expected results. Execution is fully
// deterministic: witness IDs come from a fixed generator, timestamps from
// a logical clock, so the canonical trace snapshot of a scenario is
// byte-stable and can be checked into testdata/golden.
//
// Regenerate golden files with:
//
//	go test ./internal/harness -update
package harness

// Package parser turns raw text into a ParsedDocument: an ordered token
// list plus a source map, with the guarantee that rendering reproduces the
// input byte-for-byte.
//
// Parsing is total. Malformed markdown degrades to plain-text tokens and
// never raises; empty input yields a document with zero tokens. Every byte
// of the source belongs to exactly one token, which is what makes the
// roundtrip law hold: Render is the concatenation of verbatim source
// slices, with no normalization anywhere.
//
// Incremental re-parse expands an edit outward to line boundaries (and to
// the boundaries of any multi-line token the window cuts through) before
// re-scanning; tokens entirely outside the window are carried over with
// shifted spans rather than re-scanned.
package parser

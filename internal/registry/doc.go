// Package registry holds token-type definitions and recognizes them in
// source text.
//
// A Registry is an explicitly constructed instance passed into the parser
// and interaction layer - there is no global registry. Definitions are
// immutable after registration; duplicate registration is a programmer
// error surfaced immediately.
//
// Recognition returns matches ordered by (start, -priority): position wins
// first, priority breaks ties at the same position. Overlap resolution
// keeps the higher-priority match and discards every match whose span
// intersects it.
package registry

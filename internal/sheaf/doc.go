// Package sheaf guarantees that concurrent views of one document never
// silently diverge.
//
// A DocumentSheaf is bound to exactly one document path and tracks the
// views currently open on it. Coherence is the sheaf condition: every pair
// of views must agree on the state of every token they both hold. The
// check is pairwise over all combinations, not just adjacent views, so a
// sheaf with n views performs n*(n-1)/2 comparisons and a single view is
// trivially coherent.
//
// Glue merges coherent views into one GlobalDocumentState. It refuses with
// SheafConditionError when any pair disagrees - there is no best-effort
// merge path, and a refused glue commits nothing.
//
// All comparisons are by copied value. The sheaf never reaches into
// another owner's live document.
package sheaf

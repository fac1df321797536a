package sheaf

import (
	"fmt"
	"sort"

	"github.com/roach88/semdoc/internal/token"
)

// IncompatiblePair names two views that disagree on at least one shared
// token, plus the disagreeing token IDs in sorted order.
type IncompatiblePair struct {
	ViewA    string   `json:"view_a"`
	ViewB    string   `json:"view_b"`
	TokenIDs []string `json:"token_ids"`
}

// SheafVerification is the result of checking the sheaf condition over all
// view pairs.
type SheafVerification struct {
	Success           bool               `json:"success"`
	CheckedPairs      int                `json:"checked_pairs"`
	IncompatiblePairs []IncompatiblePair `json:"incompatible_pairs,omitempty"`
}

// ToMap converts the verification to a plain key/value structure.
func (v SheafVerification) ToMap() map[string]any {
	m := map[string]any{
		"success":       v.Success,
		"checked_pairs": v.CheckedPairs,
	}
	if len(v.IncompatiblePairs) > 0 {
		pairs := make([]any, len(v.IncompatiblePairs))
		for i, p := range v.IncompatiblePairs {
			ids := make([]any, len(p.TokenIDs))
			for j, id := range p.TokenIDs {
				ids[j] = id
			}
			pairs[i] = map[string]any{
				"view_a":    p.ViewA,
				"view_b":    p.ViewB,
				"token_ids": ids,
			}
		}
		m["incompatible_pairs"] = pairs
	}
	return m
}

// SheafConditionError signals that gluing must not proceed because the
// sheaf condition failed. It is the only error Glue returns and carries
// every incompatible pair found.
type SheafConditionError struct {
	DocumentPath string
	Pairs        []IncompatiblePair
}

// Error implements the error interface.
func (e *SheafConditionError) Error() string {
	return fmt.Sprintf("sheaf condition failed for %s: %d incompatible view pair(s)",
		e.DocumentPath, len(e.Pairs))
}

// GlobalDocumentState is the merged state of all coherent views: the union
// of their token states, keyed by token ID.
type GlobalDocumentState struct {
	DocumentPath string                      `json:"document_path"`
	TokenStates  map[string]token.TokenState `json:"token_states"`
	ViewIDs      []string                    `json:"view_ids"`
}

// DocumentSheaf tracks the concurrent views of one document path.
//
// Not safe for concurrent use: like the state machine, a sheaf belongs to
// one document and callers serialize access to it.
type DocumentSheaf struct {
	path  string
	views map[string]token.DocumentView
	order []string
}

// New creates a sheaf bound to a document path.
func New(documentPath string) *DocumentSheaf {
	return &DocumentSheaf{
		path:  documentPath,
		views: make(map[string]token.DocumentView),
	}
}

// Path returns the document path this sheaf is bound to.
func (s *DocumentSheaf) Path() string {
	return s.path
}

// Len returns the number of registered views.
func (s *DocumentSheaf) Len() int {
	return len(s.views)
}

// AddView registers a view. The view's token states are copied: later
// mutation of the caller's map does not leak into the sheaf.
//
// A view for a different document path or a duplicate view ID is a
// programming-contract violation and returns an error immediately; one
// sheaf instance covers exactly one path.
func (s *DocumentSheaf) AddView(v token.DocumentView) error {
	if v.DocumentPath != s.path {
		return fmt.Errorf("sheaf is bound to %q, cannot add view %q for %q",
			s.path, v.ViewID, v.DocumentPath)
	}
	if _, exists := s.views[v.ViewID]; exists {
		return fmt.Errorf("view %q already registered", v.ViewID)
	}

	copied := token.DocumentView{
		ViewID:       v.ViewID,
		DocumentPath: v.DocumentPath,
		TokenStates:  make(map[string]token.TokenState, len(v.TokenStates)),
	}
	for id, st := range v.TokenStates {
		copied.TokenStates[id] = st
	}
	s.views[v.ViewID] = copied
	s.order = append(s.order, v.ViewID)
	return nil
}

// RemoveView drops a view by ID. Removing an unknown view is a no-op.
func (s *DocumentSheaf) RemoveView(viewID string) {
	if _, ok := s.views[viewID]; !ok {
		return
	}
	delete(s.views, viewID)
	for i, id := range s.order {
		if id == viewID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Views returns the registered views in registration order.
func (s *DocumentSheaf) Views() []token.DocumentView {
	out := make([]token.DocumentView, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.views[id])
	}
	return out
}

// Overlap returns the token IDs present in both views, sorted. Symmetric:
// Overlap(a, b) == Overlap(b, a).
func Overlap(a, b token.DocumentView) []string {
	var shared []string
	for id := range a.TokenStates {
		if _, ok := b.TokenStates[id]; ok {
			shared = append(shared, id)
		}
	}
	sort.Strings(shared)
	return shared
}

// Compatible reports whether two views agree on every shared token's
// state. Views with no shared tokens are trivially compatible. Symmetric.
func Compatible(a, b token.DocumentView) bool {
	return len(disagreements(a, b)) == 0
}

// disagreements returns the shared token IDs whose states differ, sorted.
func disagreements(a, b token.DocumentView) []string {
	var ids []string
	for _, id := range Overlap(a, b) {
		if !a.TokenStates[id].Equal(b.TokenStates[id]) {
			ids = append(ids, id)
		}
	}
	return ids
}

// VerifySheafCondition checks every pair of registered views: n views
// means n*(n-1)/2 checks. A sheaf with zero or one view is trivially
// coherent (zero checked pairs, success).
func (s *DocumentSheaf) VerifySheafCondition() SheafVerification {
	v := SheafVerification{Success: true}
	for i := 0; i < len(s.order); i++ {
		for j := i + 1; j < len(s.order); j++ {
			v.CheckedPairs++
			a, b := s.views[s.order[i]], s.views[s.order[j]]
			if ids := disagreements(a, b); len(ids) > 0 {
				v.Success = false
				v.IncompatiblePairs = append(v.IncompatiblePairs, IncompatiblePair{
					ViewA:    a.ViewID,
					ViewB:    b.ViewID,
					TokenIDs: ids,
				})
			}
		}
	}
	return v
}

// Glue merges all registered views into one GlobalDocumentState.
//
// Glue refuses with SheafConditionError if any pair of views is
// incompatible; it never merges conflicting token states best-effort, and
// a refused glue commits no partial state. Callers that want to handle
// conflicts gracefully call VerifySheafCondition first.
func (s *DocumentSheaf) Glue() (GlobalDocumentState, error) {
	if v := s.VerifySheafCondition(); !v.Success {
		return GlobalDocumentState{}, &SheafConditionError{
			DocumentPath: s.path,
			Pairs:        v.IncompatiblePairs,
		}
	}

	global := GlobalDocumentState{
		DocumentPath: s.path,
		TokenStates:  make(map[string]token.TokenState),
		ViewIDs:      append([]string(nil), s.order...),
	}
	for _, id := range s.order {
		for tokID, st := range s.views[id].TokenStates {
			global.TokenStates[tokID] = st
		}
	}
	return global, nil
}

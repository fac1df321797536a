package token

// TokenState is the comparable state of one token as seen by one view.
// Equality ignores Meta: view-local decoration (cursor proximity, highlight
// color) is not part of token identity and must never cause two views to
// be judged incompatible.
type TokenState struct {
	TokenID   string            `json:"token_id"`
	TokenType TokenKind         `json:"token_type"`
	Content   string            `json:"content"`
	Position  Span              `json:"position"`
	Meta      map[string]string `json:"meta,omitempty"` // view-local, excluded from Equal
}

// Equal compares identity-relevant fields only.
func (s TokenState) Equal(o TokenState) bool {
	return s.TokenID == o.TokenID &&
		s.TokenType == o.TokenType &&
		s.Content == o.Content &&
		s.Position == o.Position
}

// ToMap converts the state to a plain key/value structure.
// Meta is included for transport but callers comparing states must use Equal.
func (s TokenState) ToMap() map[string]any {
	m := map[string]any{
		"token_id":   s.TokenID,
		"token_type": string(s.TokenType),
		"content":    s.Content,
		"position":   map[string]any{"start": s.Position.Start, "end": s.Position.End},
	}
	if len(s.Meta) > 0 {
		meta := make(map[string]any, len(s.Meta))
		for k, v := range s.Meta {
			meta[k] = v
		}
		m["meta"] = meta
	}
	return m
}

// DocumentView is one concurrent view of a document: the path it observes
// and the token states it currently holds, keyed by token ID.
//
// Views are created by callers (one per open editor), registered with a
// sheaf, and removed on close. Token states are stored by value - a view
// never holds a reference into another owner's live document.
type DocumentView struct {
	ViewID       string                `json:"view_id"`
	DocumentPath string                `json:"document_path"`
	TokenStates  map[string]TokenState `json:"token_states"`
}

// NewDocumentView builds a view over copies of the given states.
func NewDocumentView(viewID, documentPath string, states ...TokenState) DocumentView {
	v := DocumentView{
		ViewID:       viewID,
		DocumentPath: documentPath,
		TokenStates:  make(map[string]TokenState, len(states)),
	}
	for _, s := range states {
		v.TokenStates[s.TokenID] = s
	}
	return v
}

// SetState records a token state in the view, replacing any prior state
// for the same token ID.
func (v DocumentView) SetState(s TokenState) {
	v.TokenStates[s.TokenID] = s
}

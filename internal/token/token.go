package token

import "fmt"

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Intersects reports whether two spans share at least one byte.
func (s Span) Intersects(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Payload is the sealed interface over kind-specific token data.
// Exactly one payload type exists per TokenKind.
type Payload interface {
	Kind() TokenKind
	ToMap() map[string]any
}

// TextPayload carries no structure: the token is its source text.
type TextPayload struct{}

func (TextPayload) Kind() TokenKind { return KindText }

func (TextPayload) ToMap() map[string]any { return map[string]any{} }

// PathRefPayload is a dotted path reference.
// IsGhost is true when the referenced target does not currently exist;
// ghost tokens expose only inert affordances.
type PathRefPayload struct {
	Segments []string `json:"segments"`
	IsGhost  bool     `json:"is_ghost"`
}

func (PathRefPayload) Kind() TokenKind { return KindPathRef }

func (p PathRefPayload) ToMap() map[string]any {
	segs := make([]any, len(p.Segments))
	for i, s := range p.Segments {
		segs[i] = s
	}
	return map[string]any{"segments": segs, "is_ghost": p.IsGhost}
}

// CheckboxPayload is a task-list item with its checked state and label.
type CheckboxPayload struct {
	Checked bool   `json:"checked"`
	Label   string `json:"label"`
}

func (CheckboxPayload) Kind() TokenKind { return KindCheckbox }

func (p CheckboxPayload) ToMap() map[string]any {
	return map[string]any{"checked": p.Checked, "label": p.Label}
}

// ImagePayload is a markdown image reference.
type ImagePayload struct {
	Alt    string `json:"alt"`
	Target string `json:"target"`
}

func (ImagePayload) Kind() TokenKind { return KindImage }

func (p ImagePayload) ToMap() map[string]any {
	return map[string]any{"alt": p.Alt, "target": p.Target}
}

// CodeBlockPayload is a fenced code block with its language tag and body.
// Body excludes the fences; the token's SourceText includes them.
type CodeBlockPayload struct {
	Language string `json:"language"`
	Body     string `json:"body"`
}

func (CodeBlockPayload) Kind() TokenKind { return KindCodeBlock }

func (p CodeBlockPayload) ToMap() map[string]any {
	return map[string]any{"language": p.Language, "body": p.Body}
}

// CrossRefPayload is a principle or requirement reference like [R1.2].
type CrossRefPayload struct {
	RefType string `json:"ref_type"` // "requirement" or "principle"
	RefID   string `json:"ref_id"`   // e.g. "R1.2"
}

func (CrossRefPayload) Kind() TokenKind { return KindCrossRef }

func (p CrossRefPayload) ToMap() map[string]any {
	return map[string]any{"ref_type": p.RefType, "ref_id": p.RefID}
}

// TablePayload is a pipe table decomposed into header and body cells.
type TablePayload struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

func (TablePayload) Kind() TokenKind { return KindTable }

func (p TablePayload) ToMap() map[string]any {
	header := make([]any, len(p.Header))
	for i, h := range p.Header {
		header[i] = h
	}
	rows := make([]any, len(p.Rows))
	for i, row := range p.Rows {
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = c
		}
		rows[i] = cells
	}
	return map[string]any{"header": header, "rows": rows}
}

// MeaningToken is one addressable, typed unit of document semantics.
// SourceText is the verbatim source slice for the span - rendering a
// document is the concatenation of its tokens' SourceText, which is what
// makes the roundtrip law hold byte-for-byte.
//
// ID is content-addressed from (kind, span): stable for the lifetime of
// one parse, not across edits.
type MeaningToken struct {
	ID         string    `json:"token_id"`
	Kind       TokenKind `json:"kind"`
	SourceText string    `json:"source_text"`
	Span       Span      `json:"source_position"`
	Payload    Payload   `json:"payload"`
}

// State captures the comparable state of the token for sheaf coherence
// checking. The copy carries no reference back to the document.
func (t MeaningToken) State() TokenState {
	return TokenState{
		TokenID:   t.ID,
		TokenType: t.Kind,
		Content:   t.SourceText,
		Position:  t.Span,
	}
}

// ToMap converts the token to a plain key/value structure with stable
// snake_case field names for transport.
func (t MeaningToken) ToMap() map[string]any {
	return map[string]any{
		"token_id":        t.ID,
		"kind":            string(t.Kind),
		"source_text":     t.SourceText,
		"source_position": map[string]any{"start": t.Span.Start, "end": t.Span.End},
		"payload":         t.Payload.ToMap(),
	}
}

// Validate checks internal consistency between kind and payload.
func (t MeaningToken) Validate() error {
	if !ValidKinds[t.Kind] {
		return fmt.Errorf("unknown token kind %q", t.Kind)
	}
	if t.Payload == nil {
		return fmt.Errorf("token %s: nil payload", t.ID)
	}
	if t.Payload.Kind() != t.Kind {
		return fmt.Errorf("token %s: payload kind %q does not match token kind %q",
			t.ID, t.Payload.Kind(), t.Kind)
	}
	if t.Span.Start < 0 || t.Span.End < t.Span.Start {
		return fmt.Errorf("token %s: invalid span [%d,%d)", t.ID, t.Span.Start, t.Span.End)
	}
	if t.Span.Len() != len(t.SourceText) {
		return fmt.Errorf("token %s: span length %d does not match source text length %d",
			t.ID, t.Span.Len(), len(t.SourceText))
	}
	return nil
}

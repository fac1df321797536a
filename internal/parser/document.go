package parser

import (
	"strings"

	"github.com/roach88/semdoc/internal/token"
)

// ParsedDocument is the result of one parse: the original source, the
// ordered token sequence covering it, and a map from token ID to byte
// range.
//
// A ParsedDocument is exclusively owned by the caller holding it. It is
// replaced wholesale or incrementally patched on edit, never mutated
// token-by-token.
type ParsedDocument struct {
	SourceText string                `json:"source_text"`
	Tokens     []token.MeaningToken  `json:"tokens"`
	SourceMap  map[string]token.Span `json:"source_map"`
}

// Render reproduces the source text byte-for-byte by concatenating the
// tokens' verbatim source slices.
func (d *ParsedDocument) Render() string {
	var sb strings.Builder
	sb.Grow(len(d.SourceText))
	for _, t := range d.Tokens {
		sb.WriteString(t.SourceText)
	}
	return sb.String()
}

// TokenAt returns the token covering the given byte offset, if any.
func (d *ParsedDocument) TokenAt(offset int) (token.MeaningToken, bool) {
	for _, t := range d.Tokens {
		if offset >= t.Span.Start && offset < t.Span.End {
			return t, true
		}
	}
	return token.MeaningToken{}, false
}

// TokensOfKind returns the tokens of one kind in document order.
func (d *ParsedDocument) TokensOfKind(kind token.TokenKind) []token.MeaningToken {
	var out []token.MeaningToken
	for _, t := range d.Tokens {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// States returns a by-value snapshot of every token's comparable state,
// keyed by token ID. This is the input for registering a view with a
// sheaf: the snapshot holds no reference into the document.
func (d *ParsedDocument) States() map[string]token.TokenState {
	out := make(map[string]token.TokenState, len(d.Tokens))
	for _, t := range d.Tokens {
		out[t.ID] = t.State()
	}
	return out
}

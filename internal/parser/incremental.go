package parser

import (
	"fmt"
	"strings"

	"github.com/roach88/semdoc/internal/token"
)

// Edit replaces the byte range [Start, End) of a document's source with
// Replacement. Offsets are byte offsets into the pre-edit source.
type Edit struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Replacement string `json:"replacement"`
}

// ApplyIncremental re-parses only the region affected by the edit and
// splices the result into a new ParsedDocument. The prior document is not
// mutated.
//
// The affected region is expanded outward to the nearest line boundaries,
// and further to cover any existing token the window would cut through
// (fenced code blocks and tables span lines). Tokens entirely outside the
// final window are carried over by value with shifted spans; their IDs are
// recomputed because token identity is a function of (kind, span).
func (p *Parser) ApplyIncremental(prior *ParsedDocument, e Edit) (*ParsedDocument, error) {
	src := prior.SourceText
	if e.Start < 0 || e.End < e.Start || e.End > len(src) {
		return nil, fmt.Errorf("edit range [%d,%d) out of bounds for %d-byte source",
			e.Start, e.End, len(src))
	}

	newText := src[:e.Start] + e.Replacement + src[e.End:]
	delta := len(e.Replacement) - (e.End - e.Start)

	// Expand to line boundaries, then grow over any token the window cuts,
	// then re-expand. Repeats until stable; each pass only grows.
	winStart, winEnd := lineBounds(src, e.Start, e.End)
	for {
		grewStart, grewEnd := winStart, winEnd
		for _, t := range prior.Tokens {
			if t.Span.Intersects(token.Span{Start: winStart, End: winEnd}) {
				if t.Span.Start < grewStart {
					grewStart = t.Span.Start
				}
				if t.Span.End > grewEnd {
					grewEnd = t.Span.End
				}
			}
		}
		grewStart, grewEnd = lineBounds(src, grewStart, grewEnd)
		if grewStart == winStart && grewEnd == winEnd {
			break
		}
		winStart, winEnd = grewStart, grewEnd
	}

	// Window bounds in the post-edit text.
	newWinEnd := winEnd + delta

	doc := &ParsedDocument{
		SourceText: newText,
		SourceMap:  make(map[string]token.Span),
	}

	// Tokens entirely before the window: carried over unchanged.
	for _, t := range prior.Tokens {
		if t.Span.End <= winStart {
			doc.Tokens = append(doc.Tokens, t)
			doc.SourceMap[t.ID] = t.Span
		}
	}

	// Re-parse the window and shift its tokens into place.
	window := p.Parse(newText[winStart:newWinEnd])
	for _, t := range window.Tokens {
		shifted := shiftToken(t, winStart)
		doc.Tokens = append(doc.Tokens, shifted)
		doc.SourceMap[shifted.ID] = shifted.Span
	}

	// Tokens entirely after the window: shifted by the edit delta.
	for _, t := range prior.Tokens {
		if t.Span.Start >= winEnd {
			shifted := shiftToken(t, delta)
			doc.Tokens = append(doc.Tokens, shifted)
			doc.SourceMap[shifted.ID] = shifted.Span
		}
	}

	return doc, nil
}

// shiftToken moves a token by offset bytes, recomputing its ID from the
// new span. The source text slice is reused, not re-scanned.
func shiftToken(t token.MeaningToken, offset int) token.MeaningToken {
	if offset == 0 {
		return t
	}
	t.Span = token.Span{Start: t.Span.Start + offset, End: t.Span.End + offset}
	t.ID = token.ID(t.Kind, t.Span)
	return t
}

// lineBounds expands [start, end) to the nearest line boundaries in text.
// The returned end includes the trailing newline of the last affected line
// when one exists, so windows always cover whole lines.
func lineBounds(text string, start, end int) (int, int) {
	if start > len(text) {
		start = len(text)
	}
	if end > len(text) {
		end = len(text)
	}
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := end
	if i := strings.IndexByte(text[end:], '\n'); i >= 0 {
		lineEnd = end + i + 1
	} else {
		lineEnd = len(text)
	}
	return lineStart, lineEnd
}

package parser

import (
	"strings"

	"github.com/roach88/semdoc/internal/registry"
	"github.com/roach88/semdoc/internal/token"
)

// TargetResolver reports whether a dotted path reference currently resolves
// to an existing target. Path tokens whose target does not resolve are
// marked as ghosts and expose only inert affordances.
//
// A nil resolver means no targets exist: every path reference is a ghost.
type TargetResolver func(segments []string) bool

// Parser builds ParsedDocuments using an injected registry.
type Parser struct {
	reg      *registry.Registry
	resolver TargetResolver
}

// Option configures a Parser.
type Option func(*Parser)

// WithResolver sets the target resolver used to classify path references.
func WithResolver(r TargetResolver) Option {
	return func(p *Parser) {
		p.resolver = r
	}
}

// New creates a Parser over the given registry.
func New(reg *registry.Registry, opts ...Option) *Parser {
	p := &Parser{reg: reg}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse turns text into a ParsedDocument. It always succeeds: bytes not
// claimed by any definition become text tokens, so malformed input
// degrades instead of failing and the roundtrip law holds for every input
// including the empty string.
func (p *Parser) Parse(text string) *ParsedDocument {
	doc := &ParsedDocument{
		SourceText: text,
		SourceMap:  make(map[string]token.Span),
	}
	if text == "" {
		return doc
	}

	kept := registry.ResolveOverlaps(p.reg.Recognize(text))

	pos := 0
	for _, m := range kept {
		if m.Start > pos {
			p.appendToken(doc, p.textToken(text, pos, m.Start))
		}
		p.appendToken(doc, p.matchToken(text, m))
		pos = m.End
	}
	if pos < len(text) {
		p.appendToken(doc, p.textToken(text, pos, len(text)))
	}
	return doc
}

func (p *Parser) appendToken(doc *ParsedDocument, t token.MeaningToken) {
	doc.Tokens = append(doc.Tokens, t)
	doc.SourceMap[t.ID] = t.Span
}

// textToken wraps an unclaimed byte range verbatim.
func (p *Parser) textToken(text string, start, end int) token.MeaningToken {
	span := token.Span{Start: start, End: end}
	return token.MeaningToken{
		ID:         token.ID(token.KindText, span),
		Kind:       token.KindText,
		SourceText: text[start:end],
		Span:       span,
		Payload:    token.TextPayload{},
	}
}

// matchToken builds a typed token from a resolved match. Payload
// extraction that fails structurally degrades the match to a text token
// rather than erroring.
func (p *Parser) matchToken(text string, m registry.TokenMatch) token.MeaningToken {
	span := m.Span()
	kind := m.Definition.Kind
	payload := p.buildPayload(kind, m)
	if payload == nil {
		return p.textToken(text, m.Start, m.End)
	}
	return token.MeaningToken{
		ID:         token.ID(kind, span),
		Kind:       kind,
		SourceText: text[m.Start:m.End],
		Span:       span,
		Payload:    payload,
	}
}

func (p *Parser) buildPayload(kind token.TokenKind, m registry.TokenMatch) token.Payload {
	switch kind {
	case token.KindText:
		return token.TextPayload{}

	case token.KindPathRef:
		if len(m.Groups) < 2 {
			return nil
		}
		segments := strings.Split(m.Groups[1], ".")
		ghost := true
		if p.resolver != nil {
			ghost = !p.resolver(segments)
		}
		return token.PathRefPayload{Segments: segments, IsGhost: ghost}

	case token.KindCheckbox:
		if len(m.Groups) < 3 {
			return nil
		}
		return token.CheckboxPayload{
			Checked: m.Groups[1] == "x" || m.Groups[1] == "X",
			Label:   m.Groups[2],
		}

	case token.KindImage:
		if len(m.Groups) < 3 {
			return nil
		}
		return token.ImagePayload{Alt: m.Groups[1], Target: m.Groups[2]}

	case token.KindCodeBlock:
		if len(m.Groups) < 3 {
			return nil
		}
		return token.CodeBlockPayload{
			Language: m.Groups[1],
			Body:     strings.TrimSuffix(m.Groups[2], "\n"),
		}

	case token.KindCrossRef:
		if len(m.Groups) < 3 {
			return nil
		}
		refType := "requirement"
		if m.Groups[1] == "P" {
			refType = "principle"
		}
		return token.CrossRefPayload{
			RefType: refType,
			RefID:   m.Groups[1] + m.Groups[2],
		}

	case token.KindTable:
		return parseTable(m.Groups[0])

	default:
		return nil
	}
}

// parseTable decomposes a pipe table into header and body cells.
// The second line is the alignment separator and carries no cells.
func parseTable(src string) token.Payload {
	lines := strings.Split(src, "\n")
	if len(lines) < 2 {
		return nil
	}
	payload := token.TablePayload{Header: splitRow(lines[0])}
	for _, line := range lines[2:] {
		payload.Rows = append(payload.Rows, splitRow(line))
	}
	return payload
}

func splitRow(line string) []string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(line, "|"), "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

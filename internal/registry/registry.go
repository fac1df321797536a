package registry

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/roach88/semdoc/internal/token"
)

// TokenDefinition describes one recognizable token type: a recognition
// pattern, a resolution priority, the kind of token it produces, and the
// affordance set its tokens declare.
//
// Definitions are owned by the Registry and immutable after registration.
type TokenDefinition struct {
	Name        string                 `json:"name"`
	Pattern     string                 `json:"pattern"`
	Priority    int                    `json:"priority"`
	Kind        token.TokenKind        `json:"kind"`
	Affordances []token.AffordanceSpec `json:"affordances"`

	re *regexp.Regexp
}

// Compile validates and compiles the definition's pattern.
func (d *TokenDefinition) Compile() error {
	if d.Name == "" {
		return fmt.Errorf("token definition: empty name")
	}
	if !token.ValidKinds[d.Kind] {
		return fmt.Errorf("token definition %q: unknown kind %q", d.Name, d.Kind)
	}
	re, err := regexp.Compile(d.Pattern)
	if err != nil {
		return fmt.Errorf("token definition %q: invalid pattern: %w", d.Name, err)
	}
	d.re = re
	return nil
}

// TokenMatch is a transient recognition result. Never persisted.
type TokenMatch struct {
	Definition *TokenDefinition
	Start      int
	End        int
	Groups     []string // submatch texts, Groups[0] is the full match
}

// Span returns the match's byte range.
func (m TokenMatch) Span() token.Span {
	return token.Span{Start: m.Start, End: m.End}
}

// DuplicateTokenError is returned by Register when the name already exists.
// This is a programming-contract violation: fail fast at startup.
type DuplicateTokenError struct {
	Name string
}

func (e *DuplicateTokenError) Error() string {
	return fmt.Sprintf("token definition %q is already registered", e.Name)
}

// Registry holds token definitions keyed by name.
// Not safe for concurrent mutation; construct and populate at startup,
// then treat as read-only (single-writer discipline).
type Registry struct {
	defs  map[string]*TokenDefinition
	order []string // registration order, for deterministic recognition
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{defs: make(map[string]*TokenDefinition)}
}

// Register adds a definition, failing with DuplicateTokenError if the name
// is taken. The definition is compiled before being stored so an invalid
// pattern is also surfaced immediately.
func (r *Registry) Register(def TokenDefinition) error {
	if _, exists := r.defs[def.Name]; exists {
		return &DuplicateTokenError{Name: def.Name}
	}
	if err := def.Compile(); err != nil {
		return err
	}
	r.defs[def.Name] = &def
	r.order = append(r.order, def.Name)
	return nil
}

// RegisterOrReplace adds or replaces a definition. It never fails on
// duplicates; an invalid pattern is still an error.
func (r *Registry) RegisterOrReplace(def TokenDefinition) error {
	if err := def.Compile(); err != nil {
		return err
	}
	if _, exists := r.defs[def.Name]; !exists {
		r.order = append(r.order, def.Name)
	}
	r.defs[def.Name] = &def
	return nil
}

// Get returns the definition with the given name, or nil.
func (r *Registry) Get(name string) *TokenDefinition {
	return r.defs[name]
}

// All returns a defensive copy of every definition in registration order.
func (r *Registry) All() []TokenDefinition {
	out := make([]TokenDefinition, 0, len(r.defs))
	for _, name := range r.order {
		out = append(out, *r.defs[name])
	}
	return out
}

// AffordancesFor returns the declared affordance specs for a token kind:
// the specs of every definition producing that kind, in registration
// order, deduplicated by affordance name (first declaration wins).
func (r *Registry) AffordancesFor(kind token.TokenKind) []token.AffordanceSpec {
	var specs []token.AffordanceSpec
	seen := make(map[string]bool)
	for _, name := range r.order {
		def := r.defs[name]
		if def.Kind != kind {
			continue
		}
		for _, spec := range def.Affordances {
			if seen[spec.Name] {
				continue
			}
			seen[spec.Name] = true
			specs = append(specs, spec)
		}
	}
	return specs
}

// Clear resets the registry to empty. Test-only operation.
func (r *Registry) Clear() {
	r.defs = make(map[string]*TokenDefinition)
	r.order = nil
}

// Recognize runs every definition's pattern over the text and returns all
// matches sorted by (start, -priority). Ties beyond priority are broken by
// definition name so the order is fully deterministic.
func (r *Registry) Recognize(text string) []TokenMatch {
	var matches []TokenMatch
	for _, name := range r.order {
		def := r.defs[name]
		for _, idx := range def.re.FindAllStringSubmatchIndex(text, -1) {
			if idx[0] == idx[1] {
				continue // empty matches carry no meaning
			}
			m := TokenMatch{
				Definition: def,
				Start:      idx[0],
				End:        idx[1],
				Groups:     make([]string, len(idx)/2),
			}
			for g := 0; g < len(idx)/2; g++ {
				if idx[2*g] >= 0 {
					m.Groups[g] = text[idx[2*g]:idx[2*g+1]]
				}
			}
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Start != matches[j].Start {
			return matches[i].Start < matches[j].Start
		}
		if matches[i].Definition.Priority != matches[j].Definition.Priority {
			return matches[i].Definition.Priority > matches[j].Definition.Priority
		}
		return matches[i].Definition.Name < matches[j].Definition.Name
	})
	return matches
}

// ResolveOverlaps keeps the higher-priority match whenever two spans
// intersect and discards the rest. Matches are considered highest priority
// first (position breaking priority ties); the survivors are returned in
// start order for the parser.
func ResolveOverlaps(matches []TokenMatch) []TokenMatch {
	byPriority := make([]TokenMatch, len(matches))
	copy(byPriority, matches)
	sort.SliceStable(byPriority, func(i, j int) bool {
		if byPriority[i].Definition.Priority != byPriority[j].Definition.Priority {
			return byPriority[i].Definition.Priority > byPriority[j].Definition.Priority
		}
		if byPriority[i].Start != byPriority[j].Start {
			return byPriority[i].Start < byPriority[j].Start
		}
		return byPriority[i].Definition.Name < byPriority[j].Definition.Name
	})

	var kept []TokenMatch
	for _, m := range byPriority {
		conflict := false
		for _, k := range kept {
			if m.Span().Intersects(k.Span()) {
				conflict = true
				break
			}
		}
		if !conflict {
			kept = append(kept, m)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}

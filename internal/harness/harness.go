package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/semdoc/internal/defs"
	"github.com/roach88/semdoc/internal/interact"
	"github.com/roach88/semdoc/internal/parser"
	"github.com/roach88/semdoc/internal/registry"
	"github.com/roach88/semdoc/internal/testutil"
	"github.com/roach88/semdoc/internal/token"
	"github.com/roach88/semdoc/internal/trace"
)

// Result is the complete outcome of one scenario run.
type Result struct {
	Results   []token.InteractionResult
	Witnesses []trace.TraceWitness
	FinalText string
}

// Run executes a scenario deterministically: witness IDs are "w-1",
// "w-2", ... in interaction order and timestamps come from a logical
// clock starting at 1. The same scenario always produces the same Result.
//
// Run returns an error when the scenario itself is broken (missing
// target token, unregistrable definitions) or when an expectation fails.
func Run(s *Scenario) (*Result, error) {
	reg := registry.Builtin()
	if s.Definitions != "" {
		extra, err := defs.LoadString(s.Definitions)
		if err != nil {
			return nil, fmt.Errorf("scenario definitions: %w", err)
		}
		for _, def := range extra {
			if err := reg.Register(def); err != nil {
				return nil, fmt.Errorf("scenario definitions: %w", err)
			}
		}
	}

	ids := make([]string, len(s.Interactions))
	for i := range ids {
		ids[i] = fmt.Sprintf("w-%d", i+1)
	}
	sink := trace.NewMemorySink()
	interactor := interact.New(reg,
		interact.WithWitnessIDs(trace.NewFixedGenerator(ids...)),
		interact.WithClock(testutil.NewDeterministicClock()),
		interact.WithSink(sink),
	)

	p := parser.New(reg)
	text := s.Document
	doc := p.Parse(text)
	obs := s.Observer.Observer()

	result := &Result{}
	for i, step := range s.Interactions {
		kind := token.TokenKind(step.TokenKind)
		targets := doc.TokensOfKind(kind)
		if step.TokenIndex >= len(targets) {
			return nil, fmt.Errorf("interactions[%d]: document has %d %s token(s), index %d out of range",
				i, len(targets), kind, step.TokenIndex)
		}

		args, err := buildArgs(step.Args, text)
		if err != nil {
			return nil, fmt.Errorf("interactions[%d]: %w", i, err)
		}

		res := interactor.Interact(interact.Request{
			Token:    targets[step.TokenIndex],
			Action:   step.Action,
			Observer: obs,
			Args:     args,
		})
		result.Results = append(result.Results, res)

		if err := checkExpect(step.Expect, res); err != nil {
			return nil, fmt.Errorf("interactions[%d]: %w", i, err)
		}

		// A text-mode mutation yields the updated document; re-parse so
		// later steps see the new token states.
		if res.OK() {
			if newText, ok := res.Data["new_text"].(token.Str); ok {
				text = string(newText)
				doc = p.Parse(text)
			}
		}
	}

	result.Witnesses = sink.Witnesses()
	result.FinalText = text

	if s.ExpectRender != nil && doc.Render() != *s.ExpectRender {
		return nil, fmt.Errorf("expect_render: got %q, want %q", doc.Render(), *s.ExpectRender)
	}
	return result, nil
}

// buildArgs converts YAML args to a token.Object, expanding the
// "$document" marker to the current document text.
func buildArgs(raw map[string]any, text string) (token.Object, error) {
	if raw == nil {
		return nil, nil
	}
	expanded := make(map[string]any, len(raw))
	for k, v := range raw {
		if str, ok := v.(string); ok && str == "$document" {
			expanded[k] = text
			continue
		}
		expanded[k] = v
	}
	val, err := token.FromAny(expanded)
	if err != nil {
		return nil, fmt.Errorf("args: %w", err)
	}
	return val.(token.Object), nil
}

// checkExpect validates an interaction result against its expect clause.
func checkExpect(expect *ExpectClause, res token.InteractionResult) error {
	if expect == nil {
		return nil
	}
	if string(res.Status) != expect.Status {
		return fmt.Errorf("expected status %q, got %q (message: %s)",
			expect.Status, res.Status, res.Message)
	}
	if expect.MessageContains != "" && !strings.Contains(res.Message, expect.MessageContains) {
		return fmt.Errorf("expected message containing %q, got %q",
			expect.MessageContains, res.Message)
	}
	for key, want := range expect.Data {
		wantVal, err := token.FromAny(want)
		if err != nil {
			return fmt.Errorf("expect.data[%q]: %w", key, err)
		}
		got, ok := res.Data[key]
		if !ok {
			return fmt.Errorf("expect.data[%q]: key missing from result data", key)
		}
		if !reflect.DeepEqual(got, wantVal) {
			return fmt.Errorf("expect.data[%q]: got %v, want %v", key, got, wantVal)
		}
	}
	return nil
}

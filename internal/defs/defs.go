package defs

import (
	"fmt"
	"regexp"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	cuetoken "cuelang.org/go/cue/token"

	"github.com/roach88/semdoc/internal/registry"
	"github.com/roach88/semdoc/internal/token"
)

// CompileError is a definition compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     cuetoken.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompileDefinition parses one CUE value into a TokenDefinition.
// The value is the definition struct itself; its name comes from the
// struct label, e.g. token.release_tag compiles to a definition named
// "release_tag".
func CompileDefinition(v cue.Value) (*registry.TokenDefinition, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def := &registry.TokenDefinition{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		def.Name = labels[len(labels)-1].String()
	}

	pattern, err := requiredString(v, "pattern")
	if err != nil {
		return nil, err
	}
	if _, reErr := regexp.Compile(pattern); reErr != nil {
		return nil, &CompileError{
			Field:   "pattern",
			Message: fmt.Sprintf("invalid pattern: %v", reErr),
			Pos:     v.LookupPath(cue.ParsePath("pattern")).Pos(),
		}
	}
	def.Pattern = pattern

	priorityVal := v.LookupPath(cue.ParsePath("priority"))
	if !priorityVal.Exists() {
		return nil, &CompileError{Field: "priority", Message: "priority is required", Pos: v.Pos()}
	}
	priority, err := priorityVal.Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	def.Priority = int(priority)

	kindStr, err := requiredString(v, "kind")
	if err != nil {
		return nil, err
	}
	kind := token.TokenKind(kindStr)
	if !token.ValidKinds[kind] {
		return nil, &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown token kind %q", kindStr),
			Pos:     v.LookupPath(cue.ParsePath("kind")).Pos(),
		}
	}
	def.Kind = kind

	def.Affordances, err = parseAffordances(v)
	if err != nil {
		return nil, err
	}

	return def, nil
}

// parseAffordances extracts the affordance spec list. Affordances are
// optional: a definition with none produces inert tokens.
func parseAffordances(v cue.Value) ([]token.AffordanceSpec, error) {
	affVal := v.LookupPath(cue.ParsePath("affordances"))
	if !affVal.Exists() {
		return nil, nil
	}

	iter, err := affVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var specs []token.AffordanceSpec
	for iter.Next() {
		spec, err := parseAffordance(iter.Value())
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseAffordance(v cue.Value) (token.AffordanceSpec, error) {
	var spec token.AffordanceSpec

	name, err := requiredString(v, "name")
	if err != nil {
		return spec, err
	}
	spec.Name = name

	actionStr, err := requiredString(v, "action_kind")
	if err != nil {
		return spec, err
	}
	actionKind := token.ActionKind(actionStr)
	if !token.ValidActionKinds[actionKind] {
		return spec, &CompileError{
			Field:   "action_kind",
			Message: fmt.Sprintf("unknown action kind %q", actionStr),
			Pos:     v.LookupPath(cue.ParsePath("action_kind")).Pos(),
		}
	}
	spec.ActionKind = actionKind

	spec.HandlerRef, err = requiredString(v, "handler_ref")
	if err != nil {
		return spec, err
	}

	descVal := v.LookupPath(cue.ParsePath("description"))
	if descVal.Exists() {
		if spec.Description, err = descVal.String(); err != nil {
			return spec, formatCUEError(err)
		}
	}

	requiresVal := v.LookupPath(cue.ParsePath("requires"))
	if requiresVal.Exists() {
		reqIter, err := requiresVal.List()
		if err != nil {
			return spec, formatCUEError(err)
		}
		for reqIter.Next() {
			capStr, err := reqIter.Value().String()
			if err != nil {
				return spec, formatCUEError(err)
			}
			capability := token.Capability(capStr)
			if !token.ValidCapabilities[capability] {
				return spec, &CompileError{
					Field:   "requires",
					Message: fmt.Sprintf("unknown capability %q", capStr),
					Pos:     reqIter.Value().Pos(),
				}
			}
			spec.RequiredCapabilities = append(spec.RequiredCapabilities, capability)
		}
	}

	return spec, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	firstErr := errs[0]
	if positions := cueerrors.Positions(firstErr); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}

package interact

import (
	"fmt"
	"strings"

	"github.com/roach88/semdoc/internal/token"
)

// ghostInert names the affordances that stay enabled on a ghost path
// token. Everything that would reach the (nonexistent) target is disabled.
var ghostInert = map[string]bool{
	"hover": true,
	"click": true,
}

// Affordances computes the per-observer affordance list for a token.
//
// The list starts from the kind's declared affordance set. An affordance
// whose required capabilities are not a subset of the observer's is
// disabled with a description naming the missing capabilities - disabled,
// not removed, so a surface can render it greyed out. Ghost path tokens
// then keep only their inert affordances enabled.
func (i *Interactor) Affordances(tok token.MeaningToken, obs token.Observer) []token.Affordance {
	specs := i.reg.AffordancesFor(tok.Kind)
	out := make([]token.Affordance, 0, len(specs))
	ghost := isGhost(tok)
	for _, spec := range specs {
		a := token.Affordance{
			Name:        spec.Name,
			ActionKind:  spec.ActionKind,
			HandlerRef:  spec.HandlerRef,
			Enabled:     true,
			Description: spec.Description,
		}
		if missing := missingCapabilities(obs, spec.RequiredCapabilities); len(missing) > 0 {
			a.Enabled = false
			a.Description = fmt.Sprintf("requires capability %s", strings.Join(missing, ", "))
		}
		if ghost && !ghostInert[spec.Name] {
			a.Enabled = false
			a.Description = "ghost token: referenced target does not exist"
		}
		out = append(out, a)
	}
	return out
}

// enabledAffordance returns the enabled affordance with the given name,
// if the token exposes one for this observer.
func (i *Interactor) enabledAffordance(tok token.MeaningToken, obs token.Observer, action string) (token.Affordance, bool) {
	for _, a := range i.Affordances(tok, obs) {
		if a.Name == action && a.Enabled {
			return a, true
		}
	}
	return token.Affordance{}, false
}

func isGhost(tok token.MeaningToken) bool {
	p, ok := tok.Payload.(token.PathRefPayload)
	return ok && p.IsGhost
}

func missingCapabilities(obs token.Observer, required []token.Capability) []string {
	var missing []string
	for _, c := range required {
		if !obs.HasCapability(c) {
			missing = append(missing, string(c))
		}
	}
	return missing
}

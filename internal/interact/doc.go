// Package interact implements the uniform interaction protocol over
// meaning tokens: affordance computation, surface projection, and action
// execution with trace capture.
//
// Affordances are computed per observer at request time. An affordance
// whose required capabilities the observer lacks is disabled with an
// explanatory description, never removed, so surfaces can render the full
// action set with the unavailable parts greyed out. Ghost path tokens
// (references whose target does not exist) keep only their inert
// affordances enabled.
//
// Interact never panics and never propagates handler errors: every outcome
// is a structured InteractionResult. Successful interactions can be
// recorded as trace witnesses; failed or unavailable ones never are.
package interact

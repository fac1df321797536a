package token

// AffordanceSpec is the declared form of an affordance on a token
// definition: what it is called, what category of action it performs,
// which handler fulfils it, and what the observer must be capable of.
// Specs are immutable after registration.
type AffordanceSpec struct {
	Name                 string       `json:"name"`
	ActionKind           ActionKind   `json:"action_kind"`
	HandlerRef           string       `json:"handler_ref"`
	RequiredCapabilities []Capability `json:"required_capabilities,omitempty"`
	Description          string       `json:"description"`
}

// Affordance is the per-observer computed form: the spec plus an enabled
// flag and (when disabled) an explanatory description. Enabled state is
// computed at request time and never stored on the token.
type Affordance struct {
	Name        string     `json:"name"`
	ActionKind  ActionKind `json:"action_kind"`
	HandlerRef  string     `json:"handler_ref"`
	Enabled     bool       `json:"enabled"`
	Description string     `json:"description"`
}

// ToMap converts the affordance to a plain key/value structure.
func (a Affordance) ToMap() map[string]any {
	return map[string]any{
		"name":        a.Name,
		"action_kind": string(a.ActionKind),
		"handler_ref": a.HandlerRef,
		"enabled":     a.Enabled,
		"description": a.Description,
	}
}

// Observer identifies who is interacting with a token. Observers are
// supplied by the caller; the core never creates or persists them.
type Observer struct {
	ID           string       `json:"id"`
	Role         string       `json:"role"`
	Capabilities []Capability `json:"capability_set"`
	Density      string       `json:"density"` // rendering hint: "compact" | "rich"
}

// HasCapability reports whether the observer holds the capability.
func (o Observer) HasCapability(c Capability) bool {
	for _, have := range o.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// HasAll reports whether the observer holds every listed capability.
// An empty requirement set is trivially satisfied.
func (o Observer) HasAll(required []Capability) bool {
	for _, c := range required {
		if !o.HasCapability(c) {
			return false
		}
	}
	return true
}

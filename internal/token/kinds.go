package token

// TokenKind identifies a meaning-token variant. The set is closed: every
// consumer dispatches with an exhaustive switch, and kinds are compared by
// value, never by type identity.
type TokenKind string

const (
	// KindText is the degradation kind: any byte range not claimed by a
	// higher-priority definition becomes a text token, preserving the
	// roundtrip law for malformed or plain input.
	KindText TokenKind = "text"

	// KindPathRef is a backtick-quoted dotted path such as `world.agents.alpha`.
	KindPathRef TokenKind = "path_ref"

	// KindCheckbox is a markdown task item: "- [ ] label" or "- [x] label".
	KindCheckbox TokenKind = "checkbox"

	// KindImage is a markdown image: ![alt](target).
	KindImage TokenKind = "image"

	// KindCodeBlock is a fenced code block delimited by triple backticks.
	KindCodeBlock TokenKind = "code_block"

	// KindCrossRef is a principle/requirement reference such as [R1.2] or [P3].
	KindCrossRef TokenKind = "cross_ref"

	// KindTable is a markdown pipe table (header, separator, body rows).
	KindTable TokenKind = "table"
)

// ValidKinds enumerates every token kind.
var ValidKinds = map[TokenKind]bool{
	KindText:      true,
	KindPathRef:   true,
	KindCheckbox:  true,
	KindImage:     true,
	KindCodeBlock: true,
	KindCrossRef:  true,
	KindTable:     true,
}

// Capability names an observer ability. Affordances declare the capability
// set they require; filtering is a subset check against the observer.
type Capability string

const (
	CapView     Capability = "view"
	CapNavigate Capability = "navigate"
	CapEdit     Capability = "edit"
	CapInvoke   Capability = "invoke"
)

// ValidCapabilities enumerates every capability.
var ValidCapabilities = map[Capability]bool{
	CapView:     true,
	CapNavigate: true,
	CapEdit:     true,
	CapInvoke:   true,
}

// ActionKind categorizes what an affordance does when triggered.
type ActionKind string

const (
	// ActionInspect reads token state without side effects (hover, preview).
	ActionInspect ActionKind = "inspect"

	// ActionNavigate moves the observer's focus (click, open).
	ActionNavigate ActionKind = "navigate"

	// ActionMutate changes token content (toggle, edit-cell).
	ActionMutate ActionKind = "mutate"

	// ActionInvoke calls out through the external invocation handler
	// (context_menu, drag, run).
	ActionInvoke ActionKind = "invoke"
)

// ValidActionKinds enumerates every action kind.
var ValidActionKinds = map[ActionKind]bool{
	ActionInspect:  true,
	ActionNavigate: true,
	ActionMutate:   true,
	ActionInvoke:   true,
}

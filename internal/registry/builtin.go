package registry

import "github.com/roach88/semdoc/internal/token"

// Builtin definition names.
const (
	DefCodeBlock = "code_block"
	DefImage     = "image"
	DefTable     = "table"
	DefCheckbox  = "checkbox"
	DefPathRef   = "path_ref"
	DefCrossRef  = "cross_ref"
)

// Builtin priorities. Code blocks outrank everything so that checkbox or
// path syntax inside a fence stays verbatim code; checkboxes outrank
// cross-references so a task line subsumes the [R1.2] tag it carries.
const (
	PriorityCodeBlock = 100
	PriorityImage     = 60
	PriorityTable     = 50
	PriorityCheckbox  = 40
	PriorityPathRef   = 35
	PriorityCrossRef  = 30
)

func inspectAffordance(name, handlerRef, desc string) token.AffordanceSpec {
	return token.AffordanceSpec{
		Name:                 name,
		ActionKind:           token.ActionInspect,
		HandlerRef:           handlerRef,
		RequiredCapabilities: []token.Capability{token.CapView},
		Description:          desc,
	}
}

func invokeAffordance(name, handlerRef, desc string) token.AffordanceSpec {
	return token.AffordanceSpec{
		Name:                 name,
		ActionKind:           token.ActionInvoke,
		HandlerRef:           handlerRef,
		RequiredCapabilities: []token.Capability{token.CapView, token.CapInvoke},
		Description:          desc,
	}
}

// Builtin returns a registry pre-loaded with the six builtin token types.
func Builtin() *Registry {
	r := New()
	defs := []TokenDefinition{
		{
			Name:     DefCodeBlock,
			Pattern:  "(?ms)^```([A-Za-z0-9_+-]*)\\n(.*?)^```[ \\t]*$",
			Priority: PriorityCodeBlock,
			Kind:     token.KindCodeBlock,
			Affordances: []token.AffordanceSpec{
				inspectAffordance("hover", "core.hover", "show language and line count"),
				inspectAffordance("copy", "core.copy", "copy code to clipboard"),
				invokeAffordance("run", "gateway.run", "execute the code block"),
			},
		},
		{
			Name:     DefImage,
			Pattern:  `!\[([^\]]*)\]\(([^)\n]+)\)`,
			Priority: PriorityImage,
			Kind:     token.KindImage,
			Affordances: []token.AffordanceSpec{
				inspectAffordance("hover", "core.hover", "show image metadata"),
				{
					Name:                 "click",
					ActionKind:           token.ActionNavigate,
					HandlerRef:           "core.navigate",
					RequiredCapabilities: []token.Capability{token.CapView},
					Description:          "open the image target",
				},
				inspectAffordance("preview", "core.preview", "inline image preview"),
			},
		},
		{
			Name:     DefTable,
			Pattern:  `(?m)^\|[^\n]*\|\n\|[ :\|-]+\|(?:\n\|[^\n]*\|)*`,
			Priority: PriorityTable,
			Kind:     token.KindTable,
			Affordances: []token.AffordanceSpec{
				inspectAffordance("hover", "core.hover", "show table dimensions"),
				inspectAffordance("expand", "core.expand", "expand table view"),
			},
		},
		{
			Name:     DefCheckbox,
			Pattern:  `(?m)^- \[([ xX])\] (.*)$`,
			Priority: PriorityCheckbox,
			Kind:     token.KindCheckbox,
			Affordances: []token.AffordanceSpec{
				inspectAffordance("hover", "core.hover", "show task state"),
				{
					Name:                 "toggle",
					ActionKind:           token.ActionMutate,
					HandlerRef:           "core.toggle",
					RequiredCapabilities: []token.Capability{token.CapView, token.CapEdit},
					Description:          "toggle the checkbox state",
				},
				invokeAffordance("context_menu", "gateway.menu", "task actions"),
			},
		},
		{
			Name:     DefPathRef,
			Pattern:  "`([A-Za-z_][A-Za-z0-9_-]*(?:\\.[A-Za-z_][A-Za-z0-9_-]*)+)`",
			Priority: PriorityPathRef,
			Kind:     token.KindPathRef,
			Affordances: []token.AffordanceSpec{
				inspectAffordance("hover", "core.hover", "show target summary"),
				{
					Name:                 "click",
					ActionKind:           token.ActionNavigate,
					HandlerRef:           "core.navigate",
					RequiredCapabilities: []token.Capability{token.CapView},
					Description:          "navigate to the target",
				},
				invokeAffordance("context_menu", "gateway.menu", "target actions"),
				invokeAffordance("drag", "gateway.drag", "drag the target reference"),
			},
		},
		{
			Name:     DefCrossRef,
			Pattern:  `\[([RP])(\d+(?:\.\d+)*)\]`,
			Priority: PriorityCrossRef,
			Kind:     token.KindCrossRef,
			Affordances: []token.AffordanceSpec{
				inspectAffordance("hover", "core.hover", "show referenced clause"),
				{
					Name:                 "click",
					ActionKind:           token.ActionNavigate,
					HandlerRef:           "core.navigate",
					RequiredCapabilities: []token.Capability{token.CapView},
					Description:          "jump to the referenced clause",
				},
			},
		},
	}
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			// Builtin definitions are compiled constants; registration
			// can only fail on a programming error.
			panic(err)
		}
	}
	return r
}

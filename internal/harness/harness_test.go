package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/semdoc/internal/token"
)

func TestRun_CheckboxToggle(t *testing.T) {
	scenario, err := LoadScenario("testdata/checkbox_toggle.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, "- [x] Write tests [R1.2]", result.FinalText)

	require.Len(t, result.Results, 1)
	res := result.Results[0]
	assert.Equal(t, token.StatusSuccess, res.Status)
	assert.Equal(t, "w-1", res.WitnessID)
	assert.Equal(t, token.Bool(true), res.Data["new_state"])
	assert.Equal(t, token.Str("- [x] Write tests [R1.2]"), res.Data["new_text"])

	require.Len(t, result.Witnesses, 1)
	w := result.Witnesses[0]
	assert.Equal(t, "w-1", w.ID)
	assert.Equal(t, "core.toggle", w.Trace.HandlerRef)
	assert.Equal(t, int64(1), w.Trace.Timestamp)
	assert.Equal(t, "obs-1", w.Trace.ObserverID)
	assert.Equal(t, token.Str("- [ ] Write tests [R1.2]"), w.Trace.Input["text"])
}

func TestRun_GhostPath(t *testing.T) {
	scenario, err := LoadScenario("testdata/ghost_path.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	require.Len(t, result.Results, 2)
	assert.Equal(t, token.StatusSuccess, result.Results[0].Status)
	assert.Equal(t, token.Bool(true), result.Results[0].Data["is_ghost"])
	assert.Equal(t, token.StatusNotAvailable, result.Results[1].Status)

	// The refused interaction left no witness behind.
	require.Len(t, result.Witnesses, 1)
	assert.Equal(t, "core.hover", result.Witnesses[0].Trace.HandlerRef)
}

func TestRun_ScenarioDefinitionsExtendRegistry(t *testing.T) {
	scenario := &Scenario{
		Name:        "custom-path-syntax",
		Description: "A CUE-defined token participates like a builtin",
		Document:    "link to <<world.alpha>>",
		Definitions: `
token: angle_path: {
	pattern:  "<<([A-Za-z_][A-Za-z0-9_]*(?:\\.[A-Za-z_][A-Za-z0-9_]*)+)>>"
	priority: 36
	kind:     "path_ref"
}
`,
		Observer: ObserverSpec{ID: "obs-3", Role: "viewer", Capabilities: []string{"view"}},
		Interactions: []InteractionStep{
			{
				Action:    "hover",
				TokenKind: "path_ref",
				Expect: &ExpectClause{
					Status: "success",
					Data:   map[string]any{"path": "world.alpha", "is_ghost": true},
				},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, token.Str("world.alpha"), result.Results[0].Data["path"])
}

func TestRun_BrokenDefinitionsFail(t *testing.T) {
	scenario := &Scenario{
		Name:        "broken-defs",
		Description: "Invalid CUE definitions abort the run",
		Document:    "text",
		Definitions: `token: bad: {pattern: "([", priority: 1, kind: "text"}`,
		Observer:    ObserverSpec{ID: "obs-1", Capabilities: []string{"view"}},
		Interactions: []InteractionStep{
			{Action: "hover", TokenKind: "text"},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario definitions")
}

func TestRun_TokenIndexOutOfRange(t *testing.T) {
	scenario := &Scenario{
		Name:        "missing-token",
		Description: "Targeting a token the document does not contain",
		Document:    "plain text, no checkboxes",
		Observer:    ObserverSpec{ID: "obs-1", Capabilities: []string{"view", "edit"}},
		Interactions: []InteractionStep{
			{Action: "toggle", TokenKind: "checkbox"},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 0 out of range")
}

func TestRun_ExpectationMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong-expectation",
		Description: "An expect clause that disagrees with the result fails the run",
		Document:    "- [ ] task",
		Observer:    ObserverSpec{ID: "obs-1", Capabilities: []string{"view", "edit"}},
		Interactions: []InteractionStep{
			{
				Action:    "toggle",
				TokenKind: "checkbox",
				Args:      map[string]any{"text": "$document", "line_number": 1},
				Expect:    &ExpectClause{Status: "failure"},
			},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expected status "failure"`)
}

func TestRun_ExpectRenderMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong-render",
		Description: "An expect_render that disagrees with the final document fails",
		Document:    "- [ ] task",
		Observer:    ObserverSpec{ID: "obs-1", Capabilities: []string{"view", "edit"}},
		Interactions: []InteractionStep{
			{
				Action:    "toggle",
				TokenKind: "checkbox",
				Args:      map[string]any{"text": "$document", "line_number": 1},
			},
		},
		ExpectRender: strPtr("- [ ] task"),
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expect_render")
}

func TestRun_DocumentExpansionTracksMutations(t *testing.T) {
	// Two toggles on the same document: the second "$document" expansion
	// must see the text produced by the first.
	scenario := &Scenario{
		Name:        "sequential-toggles",
		Description: "Later steps operate on the mutated document",
		Document:    "- [ ] first\n- [ ] second",
		Observer:    ObserverSpec{ID: "obs-1", Capabilities: []string{"view", "edit"}},
		Interactions: []InteractionStep{
			{
				Action:    "toggle",
				TokenKind: "checkbox",
				Args:      map[string]any{"text": "$document", "line_number": 1},
			},
			{
				Action:     "toggle",
				TokenKind:  "checkbox",
				TokenIndex: 1,
				Args:       map[string]any{"text": "$document", "line_number": 2},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.Equal(t, "- [x] first\n- [x] second", result.FinalText)

	require.Len(t, result.Witnesses, 2)
	assert.Equal(t, token.Str("- [x] first\n- [ ] second"), result.Witnesses[1].Trace.Input["text"])
	assert.Equal(t, int64(2), result.Witnesses[1].Trace.Timestamp)
	assert.Equal(t, "w-2", result.Witnesses[1].ID)
}

func strPtr(s string) *string { return &s }

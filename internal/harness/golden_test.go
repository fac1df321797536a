package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Golden files hold the canonical trace snapshot of each scenario. Any
// behavior change that alters a trace shows up as a byte diff here.

func TestGolden_CheckboxToggle(t *testing.T) {
	scenario, err := LoadScenario("testdata/checkbox_toggle.yaml")
	require.NoError(t, err)
	require.NoError(t, RunWithGolden(t, scenario))
}

func TestGolden_GhostPath(t *testing.T) {
	scenario, err := LoadScenario("testdata/ghost_path.yaml")
	require.NoError(t, err)
	require.NoError(t, RunWithGolden(t, scenario))
}

func TestGolden_SnapshotIsDeterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/checkbox_toggle.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	require.Equal(t, first.FinalText, second.FinalText)
	require.Equal(t, first.Results, second.Results)
	require.Equal(t, first.Witnesses, second.Witnesses)
}

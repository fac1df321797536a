package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/semdoc/internal/token"
)

// Snapshot is the canonical record of one scenario run: every
// interaction result plus every captured witness, in order.
type Snapshot struct {
	ScenarioName string
	FinalText    string
	Results      []token.InteractionResult
	Witnesses    []token.Object
}

// toCanonicalMap flattens the snapshot for token.MarshalCanonical, which
// accepts sealed values, primitives, and map/slice compositions of them.
func (s *Snapshot) toCanonicalMap() map[string]any {
	results := make([]any, len(s.Results))
	for i, r := range s.Results {
		results[i] = r.ToMap()
	}
	witnesses := make([]any, len(s.Witnesses))
	for i, w := range s.Witnesses {
		witnesses[i] = w
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"final_text":    s.FinalText,
		"results":       results,
		"witnesses":     witnesses,
	}
}

// RunWithGolden executes a scenario and compares its canonical snapshot
// against testdata/golden/{scenario.Name}.golden. Returns an error when
// the run itself fails; a snapshot mismatch fails t via goldie.
//
// Regenerate golden files with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-obtained result against the golden
// file for scenarioName.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := Snapshot{
		ScenarioName: scenarioName,
		FinalText:    result.FinalText,
		Results:      result.Results,
	}
	for _, w := range result.Witnesses {
		snapshot.Witnesses = append(snapshot.Witnesses, w.ToObject())
	}

	data, err := token.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}

package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioDir holds the repository's conformance scenarios.
// Tests run from the package directory, so go up two levels.
const scenarioDir = "../../testdata/scenarios"

func TestScenarios_Golden(t *testing.T) {
	tests := []string{
		"div3_basics",
		"palindrome_basics",
		"composite",
		"runaway",
		"bounce",
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join(scenarioDir, name+".yaml"))
			require.NoError(t, err)
			assert.Equal(t, name, scenario.Name, "scenario name must match its file name")

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario failed: %v", result.Errors)
			assert.Len(t, result.Cases, len(scenario.Cases))
		})
	}
}

func TestLoadScenarios_All(t *testing.T) {
	scenarios, err := LoadScenarios(scenarioDir)
	require.NoError(t, err)
	require.Len(t, scenarios, 5)

	// Sorted by file name.
	assert.Equal(t, "bounce", scenarios[0].Name)
	assert.Equal(t, "runaway", scenarios[3].Name)
}

func TestMarshalSnapshot_Canonical(t *testing.T) {
	scenario := &Scenario{
		Name:        "tiny",
		Description: "one case",
		Machine:     "div3",
		Cases:       []Case{{Input: "11", Expect: StatusAccept}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	data, err := MarshalSnapshot(scenario, result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"cases":[{"input":"11","runs":[{"accepted":true,"machine":"div3","steps":3,"trace":["q0","q1","q0","q_accept"]}],"status":"accept"}],"machine":"div3","scenario_name":"tiny"}`,
		string(data))
}

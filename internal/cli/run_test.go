package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parityCUE = `
machine: parity: {
	description: "even number of ones"
	start:       "even"
	accept:      "done"
	transitions: [
		{from: "even", read: "0", to: "even", write: "0", move: "R"},
		{from: "even", read: "1", to: "odd", write: "1", move: "R"},
		{from: "odd", read: "0", to: "odd", write: "0", move: "R"},
		{from: "odd", read: "1", to: "even", write: "1", move: "R"},
		{from: "even", read: "_", to: "done", write: "_", move: "R"},
	]
}
`

func writeCUE(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machines.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunBuiltin(t *testing.T) {
	out, _, err := executeRoot(t, "run", "div3", "110")
	require.NoError(t, err)
	assert.Contains(t, out, "110: accept")
	assert.Contains(t, out, "q0 -> q1 -> q0 -> q0 -> q_accept")

	out, _, err = executeRoot(t, "run", "div3", "10")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "10: reject")
}

func TestRunMissingArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRunCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"div3"}) // Missing input

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg")
}

func TestRunUnknownMachine(t *testing.T) {
	out, _, err := executeRoot(t, "run", "busy-beaver", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
	assert.Contains(t, out, "busy-beaver")
}

func TestRunFromFile(t *testing.T) {
	path := writeCUE(t, parityCUE)

	out, _, err := executeRoot(t, "--format", "json", "run", "parity", "0110", "--file", path)
	require.NoError(t, err)

	var resp struct {
		Status string  `json:"status"`
		Data   RunView `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "parity", resp.Data.Machine)
	assert.True(t, resp.Data.Accepted)
	assert.Equal(t, 5, resp.Data.Steps)
	assert.Equal(t, "0110_", resp.Data.Tape)

	// parity rejects in "odd" on the sentinel: no rule, no move.
	_, _, err = executeRoot(t, "run", "parity", "010", "--file", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRunFileMachineNotDeclared(t *testing.T) {
	path := writeCUE(t, parityCUE)

	out, _, err := executeRoot(t, "run", "div3", "0", "--file", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `machine "div3" not declared`)
}

func TestRunTapeBounds(t *testing.T) {
	out, _, err := executeRoot(t, "run", "runaway", "01", "--file", "../../testdata/machines/runaway.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [TAPE_BOUNDS]")
	assert.Contains(t, out, "head 3 outside tape [0, 3)")
}

func TestRunStepCeiling(t *testing.T) {
	out, _, err := executeRoot(t, "run", "bounce", "0", "--file", "../../testdata/machines/bounce.cue", "--max-steps", "50")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [STEPS_EXCEEDED]")
}

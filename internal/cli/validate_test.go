package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBuiltinDefinition(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("..", "machines", "div3.cue")})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "✓ div3 (4 states, 7 transitions)")
	assert.Contains(t, output, "I204 info")
	assert.NotContains(t, output, "warning")
}

func TestValidateReportsFindings(t *testing.T) {
	path := writeCUE(t, parityCUE+`
machine: orphaned: {
	start:  "q0"
	accept: "q_accept"
	transitions: [
		{from: "q0", read: "_", to: "q_accept", write: "_", move: "R"},
		{from: "orphan", read: "0", to: "q_accept", write: "0", move: "R"},
	]
}
`)

	out, _, err := executeRoot(t, "validate", path)
	require.NoError(t, err, "findings do not fail validation")
	assert.Contains(t, out, "✓ parity")
	assert.Contains(t, out, "✓ orphaned (3 states, 2 transitions)")
	assert.Contains(t, out, "W201 warning")
	assert.Contains(t, out, "orphan")
}

func TestValidateJSON(t *testing.T) {
	path := writeCUE(t, parityCUE)

	out, _, err := executeRoot(t, "--format", "json", "validate", path)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	require.Len(t, resp.Data.Machines, 1)
	m := resp.Data.Machines[0]
	assert.Equal(t, "parity", m.Name)
	assert.Equal(t, 3, m.States)
	assert.Equal(t, 5, m.Transitions)
	assert.Len(t, m.Hash, 64)
}

func TestValidateCompileError(t *testing.T) {
	path := writeCUE(t, `
machine: dup: {
	start:  "q0"
	accept: "q1"
	transitions: [
		{from: "q0", read: "0", to: "q1", write: "0", move: "R"},
		{from: "q0", read: "0", to: "q0", write: "1", move: "L"},
	]
}
`)

	out, _, err := executeRoot(t, "--format", "json", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp struct {
		Status string `json:"status"`
		Error  struct {
			Code    string              `json:"code"`
			Message string              `json:"message"`
			Details CompileErrorDetails `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeCompile, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "duplicate transition")
	assert.Equal(t, "dup", resp.Error.Details.Machine)
	assert.Equal(t, "transitions[1]", resp.Error.Details.Field)
	assert.Greater(t, resp.Error.Details.Line, 0)
}

func TestValidateSchemaError(t *testing.T) {
	path := writeCUE(t, `
machine: bad: {
	start:  "q0"
	accept: "q1"
	transitions: [{from: "q0", read: "2", to: "q1", write: "0", move: "R"}]
}
`)

	out, _, err := executeRoot(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

func TestValidateMissingFile(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/machines.cue"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E002]")
	assert.Contains(t, buf.String(), "machine file not found")
}

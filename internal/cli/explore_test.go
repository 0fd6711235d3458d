package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/turing/internal/explore"
)

func TestExploreText(t *testing.T) {
	out, _, err := executeRoot(t, "explore", "--depth", "4", "--workers", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 9)
	assert.Equal(t, []string{"0", "00", "11", "000", "0000", "0110", "1001", "1111"}, lines[:8])
	assert.Equal(t, "8 of 30 strings up to length 4 accepted", lines[len(lines)-1])
}

func TestExploreJSON(t *testing.T) {
	out, _, err := executeRoot(t, "--format", "json", "explore", "--depth", "3")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   explore.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Data.MaxLen)
	assert.Equal(t, 14, resp.Data.Candidates)
	assert.Equal(t, []string{"0", "00", "11", "000"}, resp.Data.Accepted)
}

func TestExploreInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero depth", []string{"explore", "--depth", "0"}, "--depth must be positive"},
		{"negative workers", []string{"explore", "--workers", "-1"}, "--workers must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := executeRoot(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, tt.want)
		})
	}
}

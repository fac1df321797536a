package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensDisabledAffordancesListed(t *testing.T) {
	path := writeTempDoc(t, "- [ ] ship")

	buf := &bytes.Buffer{}
	cmd := NewTokensCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--caps", "view"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "toggle")
	assert.Contains(t, output, "disabled")
	assert.Contains(t, output, "requires capability edit")
}

func TestTokensFullCapabilities(t *testing.T) {
	path := writeTempDoc(t, "- [ ] ship")

	buf := &bytes.Buffer{}
	cmd := NewTokensCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--caps", "view,edit,invoke"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "toggle")
	assert.NotContains(t, output, "disabled")
}

func TestTokensGhostPath(t *testing.T) {
	path := writeTempDoc(t, "see `world.nonexistent.node`")

	buf := &bytes.Buffer{}
	cmd := NewTokensCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--caps", "view,edit,invoke"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "ghost")
}

func TestTokensUnknownCapability(t *testing.T) {
	path := writeTempDoc(t, "text")

	cmd := NewTokensCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{path, "--caps", "fly"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown capability "fly"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTokensUnknownDensity(t *testing.T) {
	path := writeTempDoc(t, "text")

	cmd := NewTokensCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{path, "--density", "sparse"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown density "sparse"`)
}

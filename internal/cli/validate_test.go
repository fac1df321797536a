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

func writeDefsDir(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "defs.cue"), []byte(src), 0o644))
	return dir
}

const validCLIDefs = `
token: release_tag: {
	pattern:  "v\\d+\\.\\d+\\.\\d+"
	priority: 20
	kind:     "cross_ref"
	affordances: [{
		name:        "hover"
		action_kind: "inspect"
		handler_ref: "core.hover"
		requires: ["view"]
	}]
}
token: ticket_ref: {
	pattern:  "JIRA-\\d+"
	priority: 25
	kind:     "cross_ref"
}
`

func TestValidateValidDefs(t *testing.T) {
	dir := writeDefsDir(t, validCLIDefs)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "2 definition(s) valid")
	assert.Contains(t, output, "release_tag")
	assert.Contains(t, output, "ticket_ref")
}

func TestValidateValidDefsJSON(t *testing.T) {
	dir := writeDefsDir(t, validCLIDefs)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	defs := data["definitions"].([]any)
	require.Len(t, defs, 2)
	first := defs[0].(map[string]any)
	assert.Equal(t, "release_tag", first["name"])
	assert.Equal(t, "cross_ref", first["kind"])
}

func TestValidateCompileError(t *testing.T) {
	dir := writeDefsDir(t, `token: bad: {pattern: "([", priority: 1, kind: "text"}`)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "E_COMPILE")
	assert.Contains(t, buf.String(), "invalid pattern")
}

func TestValidateBuiltinCollision(t *testing.T) {
	dir := writeDefsDir(t, `token: checkbox: {pattern: "x", priority: 1, kind: "checkbox"}`)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "E_DUPLICATE")
}

func TestValidateMissingDir(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

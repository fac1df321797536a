package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/semdoc/internal/store"
	"github.com/roach88/semdoc/internal/token"
	"github.com/roach88/semdoc/internal/trace"
)

func seedWitnessLog(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "witnesses.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	for i, w := range []trace.TraceWitness{
		{
			ID: "w-1",
			Trace: trace.ExecutionTrace{
				HandlerRef: "core.toggle",
				Operation:  "toggle",
				Input:      token.Object{"line_number": token.Int(1)},
				Output:     token.Object{"new_state": token.Bool(true)},
				Timestamp:  1,
				ObserverID: "alice",
			},
		},
		{
			ID: "w-2",
			Trace: trace.ExecutionTrace{
				HandlerRef: "core.hover",
				Operation:  "hover",
				Input:      token.Object{},
				Output:     token.Object{"kind": token.Str("checkbox")},
				Timestamp:  2,
				ObserverID: "bob",
			},
		},
	} {
		require.NoError(t, st.WriteWitness(ctx, "notes.md", w), "witness %d", i)
	}
	return dbPath
}

func TestTraceText(t *testing.T) {
	dbPath := seedWitnessLog(t)

	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--document", "notes.md"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "[1] core.toggle toggle by alice")
	assert.Contains(t, output, "[2] core.hover hover by bob")
	assert.Contains(t, output, "2 witness(es)")
}

func TestTraceVerboseShowsPayloads(t *testing.T) {
	dbPath := seedWitnessLog(t)

	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "text", Verbose: true})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--document", "notes.md"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "input:  {line_number=1}")
	assert.Contains(t, output, "output: {new_state=true}")
}

func TestTraceHandlerFilter(t *testing.T) {
	dbPath := seedWitnessLog(t)

	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--document", "notes.md", "--handler", "core.hover"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.NotContains(t, output, "core.toggle")
	assert.Contains(t, output, "core.hover")
	assert.Contains(t, output, "1 witness(es)")
}

func TestTraceJSON(t *testing.T) {
	dbPath := seedWitnessLog(t)

	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--document", "notes.md"})

	require.NoError(t, cmd.Execute())

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	witnesses := data["witnesses"].([]any)
	require.Len(t, witnesses, 2)
	first := witnesses[0].(map[string]any)
	assert.Equal(t, "w-1", first["id"])
	traceObj := first["trace"].(map[string]any)
	assert.Equal(t, "core.toggle", traceObj["handler_ref"])
}

func TestTraceUnknownDocument(t *testing.T) {
	dbPath := seedWitnessLog(t)

	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--document", "other.md"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No witnesses recorded for other.md")
}

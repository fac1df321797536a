package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/semdoc/internal/token"
	"github.com/roach88/semdoc/internal/trace"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "witness.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func witness(id string, seq int64) trace.TraceWitness {
	return trace.TraceWitness{
		ID: id,
		Trace: trace.ExecutionTrace{
			HandlerRef: "core.toggle",
			Operation:  "toggle",
			Input:      token.Object{"line_number": token.Int(1)},
			Output:     token.Object{"new_state": token.Bool(true)},
			Timestamp:  seq,
			ObserverID: "obs-1",
		},
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "witness.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	var version int
	require.NoError(t, s2.DB().QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestWriteAndGetWitness(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	w := witness("w-1", 1)

	require.NoError(t, s.WriteWitness(ctx, "docs/a.md", w))

	got, err := s.GetWitness(ctx, "w-1")
	require.NoError(t, err)
	assert.Equal(t, w, got)
}

func TestWriteWitnessIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w := witness("w-1", 1)
	require.NoError(t, s.WriteWitness(ctx, "docs/a.md", w))

	// Same ID with different content: silently ignored, first write wins.
	altered := witness("w-1", 99)
	altered.Trace.Operation = "hover"
	require.NoError(t, s.WriteWitness(ctx, "docs/a.md", altered))

	got, err := s.GetWitness(ctx, "w-1")
	require.NoError(t, err)
	assert.Equal(t, "toggle", got.Trace.Operation)
	assert.Equal(t, int64(1), got.Trace.Timestamp)
}

func TestGetWitnessNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetWitness(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListWitnessesOrderedBySeq(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Insert out of order; reads come back in logical-time order.
	require.NoError(t, s.WriteWitness(ctx, "docs/a.md", witness("w-3", 3)))
	require.NoError(t, s.WriteWitness(ctx, "docs/a.md", witness("w-1", 1)))
	require.NoError(t, s.WriteWitness(ctx, "docs/a.md", witness("w-2", 2)))
	require.NoError(t, s.WriteWitness(ctx, "docs/other.md", witness("w-9", 9)))

	got, err := s.ListWitnesses(ctx, "docs/a.md")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "w-1", got[0].ID)
	assert.Equal(t, "w-2", got[1].ID)
	assert.Equal(t, "w-3", got[2].ID)

	empty, err := s.ListWitnesses(ctx, "docs/unknown.md")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestWitnessVerificationRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w := witness("w-1", 1)
	w.Verification = &trace.Verification{Verified: true, Note: "replayed cleanly"}
	require.NoError(t, s.WriteWitness(ctx, "docs/a.md", w))

	got, err := s.GetWitness(ctx, "w-1")
	require.NoError(t, err)
	require.NotNil(t, got.Verification)
	assert.True(t, got.Verification.Verified)
	assert.Equal(t, "replayed cleanly", got.Verification.Note)
}

func TestMaxSeq(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	max, err := s.MaxSeq(ctx, "docs/a.md")
	require.NoError(t, err)
	assert.Equal(t, int64(0), max)

	require.NoError(t, s.WriteWitness(ctx, "docs/a.md", witness("w-1", 1)))
	require.NoError(t, s.WriteWitness(ctx, "docs/a.md", witness("w-7", 7)))

	max, err = s.MaxSeq(ctx, "docs/a.md")
	require.NoError(t, err)
	assert.Equal(t, int64(7), max)

	// The resumed clock continues after the persisted history.
	clock := trace.NewSeqClockAt(max)
	assert.Equal(t, int64(8), clock.Next())
}

func TestSinkForImplementsTraceSink(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var sink trace.Sink = s.SinkFor(ctx, "docs/a.md")
	require.NoError(t, sink.Record(witness("w-1", 1)))

	got, err := s.ListWitnesses(ctx, "docs/a.md")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "w-1", got[0].ID)
}

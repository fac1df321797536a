package trace

import (
	"sync"

	"github.com/google/uuid"
)

// WitnessIDGenerator produces identifiers for trace witnesses.
type WitnessIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 witness IDs.
//
// UUIDv7 embeds a timestamp in the most significant bits, so witness IDs
// sort by creation time, which keeps audit logs browsable without a
// secondary index.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined witness IDs for testing.
//
// This enables deterministic test execution and golden trace comparison:
// tests provide a known sequence of IDs and verify exact witness output.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns IDs in order.
//
// Example:
//
//	gen := NewFixedGenerator("witness-1", "witness-2")
//	gen.Generate() // "witness-1"
//	gen.Generate() // "witness-2"
//	gen.Generate() // panic: all IDs exhausted
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined ID.
//
// Panics if all IDs have been consumed. Fail-fast to catch test
// misconfiguration (a scenario captured more witnesses than expected).
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all witness IDs exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

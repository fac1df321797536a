package trace

import "sync"

// Sink receives witnesses as interactions complete. Implementations own
// the persistence format; the core only guarantees that a witness handed
// to the sink is final.
type Sink interface {
	Record(w TraceWitness) error
}

// MemorySink is an in-process append-only witness log.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type MemorySink struct {
	mu        sync.Mutex
	witnesses []TraceWitness
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Record appends a witness. It never fails.
func (s *MemorySink) Record(w TraceWitness) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.witnesses = append(s.witnesses, w)
	return nil
}

// Witnesses returns a copy of the recorded witnesses in append order.
func (s *MemorySink) Witnesses() []TraceWitness {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TraceWitness, len(s.witnesses))
	copy(out, s.witnesses)
	return out
}

// ByID returns the witness with the given ID, if recorded.
func (s *MemorySink) ByID(id string) (TraceWitness, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.witnesses {
		if w.ID == id {
			return w, true
		}
	}
	return TraceWitness{}, false
}

// Len returns the number of recorded witnesses.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.witnesses)
}

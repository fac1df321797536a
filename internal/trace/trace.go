package trace

import (
	"fmt"

	"github.com/roach88/semdoc/internal/token"
)

// ExecutionTrace is the immutable record of one handler execution.
//
// Timestamp is a logical sequence number, not wall-clock time: traces from
// one document are totally ordered by it, and replaying the same scenario
// yields byte-identical traces.
type ExecutionTrace struct {
	HandlerRef string       `json:"handler_ref"`
	Operation  string       `json:"operation"`
	Input      token.Object `json:"input"`
	Output     token.Object `json:"output"`
	Timestamp  int64        `json:"timestamp"`
	ObserverID string       `json:"observer_id"`
}

// Verification is an optional post-hoc check result attached to a witness.
type Verification struct {
	Verified bool   `json:"verified"`
	Note     string `json:"note,omitempty"`
}

// TraceWitness wraps one ExecutionTrace with an identity and an optional
// verification result. Witnesses are created on successful interactions
// only and never mutated afterwards.
type TraceWitness struct {
	ID           string         `json:"id"`
	Trace        ExecutionTrace `json:"trace"`
	Verification *Verification  `json:"verification,omitempty"`
}

// ToObject converts the witness to a plain value structure with stable
// field names, suitable for canonical serialization.
func (w TraceWitness) ToObject() token.Object {
	traceObj := token.Object{
		"handler_ref": token.Str(w.Trace.HandlerRef),
		"operation":   token.Str(w.Trace.Operation),
		"input":       w.Trace.Input,
		"output":      w.Trace.Output,
		"timestamp":   token.Int(w.Trace.Timestamp),
		"observer_id": token.Str(w.Trace.ObserverID),
	}
	if w.Trace.Input == nil {
		traceObj["input"] = token.Object{}
	}
	if w.Trace.Output == nil {
		traceObj["output"] = token.Object{}
	}

	obj := token.Object{
		"id":    token.Str(w.ID),
		"trace": traceObj,
	}
	if w.Verification != nil {
		obj["verification"] = token.Object{
			"verified": token.Bool(w.Verification.Verified),
			"note":     token.Str(w.Verification.Note),
		}
	}
	return obj
}

// Canonical returns the canonical JSON encoding of the witness. Two
// witnesses with equal content always produce identical bytes, which is
// what golden-trace comparison and the persistent log rely on.
func (w TraceWitness) Canonical() ([]byte, error) {
	data, err := token.MarshalCanonical(w.ToObject())
	if err != nil {
		return nil, fmt.Errorf("canonicalize witness %s: %w", w.ID, err)
	}
	return data, nil
}

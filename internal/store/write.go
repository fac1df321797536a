package store

import (
	"context"
	"fmt"

	"github.com/roach88/semdoc/internal/token"
	"github.com/roach88/semdoc/internal/trace"
)

// WriteWitness inserts a witness row for a document.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - re-recording the same
// witness ID is silently ignored. Other constraint violations still error.
//
// Input and output are serialized to canonical JSON so equal witnesses
// produce byte-identical rows.
func (s *Store) WriteWitness(ctx context.Context, documentPath string, w trace.TraceWitness) error {
	inputJSON, err := marshalObject(w.Trace.Input)
	if err != nil {
		return fmt.Errorf("write witness %s: %w", w.ID, err)
	}
	outputJSON, err := marshalObject(w.Trace.Output)
	if err != nil {
		return fmt.Errorf("write witness %s: %w", w.ID, err)
	}

	var verified any
	var note any
	if w.Verification != nil {
		verified = w.Verification.Verified
		note = w.Verification.Note
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO witnesses
		(id, document_path, handler_ref, operation, input, output, seq, observer_id, verified, verification_note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		w.ID,
		documentPath,
		w.Trace.HandlerRef,
		w.Trace.Operation,
		inputJSON,
		outputJSON,
		w.Trace.Timestamp,
		w.Trace.ObserverID,
		verified,
		note,
	)
	if err != nil {
		return fmt.Errorf("write witness %s: %w", w.ID, err)
	}
	return nil
}

// marshalObject canonicalizes an Object column value. A nil object is
// stored as the empty object, never as NULL.
func marshalObject(obj token.Object) (string, error) {
	if obj == nil {
		obj = token.Object{}
	}
	data, err := token.MarshalCanonical(obj)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// documentSink adapts a Store to the trace.Sink interface for one
// document path.
type documentSink struct {
	ctx   context.Context
	store *Store
	path  string
}

// SinkFor returns a trace.Sink that records witnesses for the given
// document path. The context bounds every write made through the sink.
func (s *Store) SinkFor(ctx context.Context, documentPath string) trace.Sink {
	return &documentSink{ctx: ctx, store: s, path: documentPath}
}

// Record implements trace.Sink.
func (d *documentSink) Record(w trace.TraceWitness) error {
	return d.store.WriteWitness(d.ctx, d.path, w)
}

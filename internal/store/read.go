package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/semdoc/internal/token"
	"github.com/roach88/semdoc/internal/trace"
)

// ErrNotFound is returned when a witness ID does not exist in the log.
var ErrNotFound = errors.New("witness not found")

// GetWitness loads one witness by ID.
func (s *Store) GetWitness(ctx context.Context, id string) (trace.TraceWitness, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, handler_ref, operation, input, output, seq, observer_id, verified, verification_note
		FROM witnesses
		WHERE id = ?
	`, id)

	w, err := scanWitness(row)
	if errors.Is(err, sql.ErrNoRows) {
		return trace.TraceWitness{}, fmt.Errorf("witness %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return trace.TraceWitness{}, fmt.Errorf("get witness %s: %w", id, err)
	}
	return w, nil
}

// ListWitnesses returns every witness for a document in logical-time
// order. An unknown document path yields an empty list, not an error.
func (s *Store) ListWitnesses(ctx context.Context, documentPath string) ([]trace.TraceWitness, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, handler_ref, operation, input, output, seq, observer_id, verified, verification_note
		FROM witnesses
		WHERE document_path = ?
		ORDER BY seq ASC
	`, documentPath)
	if err != nil {
		return nil, fmt.Errorf("list witnesses for %s: %w", documentPath, err)
	}
	defer rows.Close()

	var out []trace.TraceWitness
	for rows.Next() {
		w, err := scanWitness(rows)
		if err != nil {
			return nil, fmt.Errorf("list witnesses for %s: %w", documentPath, err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list witnesses for %s: %w", documentPath, err)
	}
	return out, nil
}

// MaxSeq returns the highest logical timestamp recorded for a document,
// or 0 for an empty log. Used to resume a clock after restart.
func (s *Store) MaxSeq(ctx context.Context, documentPath string) (int64, error) {
	var max sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM witnesses WHERE document_path = ?
	`, documentPath).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max seq for %s: %w", documentPath, err)
	}
	return max.Int64, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanWitness(sc scanner) (trace.TraceWitness, error) {
	var (
		w          trace.TraceWitness
		inputJSON  string
		outputJSON string
		verified   sql.NullBool
		note       sql.NullString
	)
	err := sc.Scan(
		&w.ID,
		&w.Trace.HandlerRef,
		&w.Trace.Operation,
		&inputJSON,
		&outputJSON,
		&w.Trace.Timestamp,
		&w.Trace.ObserverID,
		&verified,
		&note,
	)
	if err != nil {
		return trace.TraceWitness{}, err
	}

	if w.Trace.Input, err = unmarshalObject(inputJSON); err != nil {
		return trace.TraceWitness{}, fmt.Errorf("input column: %w", err)
	}
	if w.Trace.Output, err = unmarshalObject(outputJSON); err != nil {
		return trace.TraceWitness{}, fmt.Errorf("output column: %w", err)
	}
	if verified.Valid {
		w.Verification = &trace.Verification{Verified: verified.Bool, Note: note.String}
	}
	return w, nil
}

func unmarshalObject(data string) (token.Object, error) {
	v, err := token.UnmarshalValue([]byte(data))
	if err != nil {
		return nil, err
	}
	obj, ok := v.(token.Object)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %T", v)
	}
	return obj, nil
}

package token

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainToken = "semdoc/token/v1"
	DomainState = "semdoc/state/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ID computes the content-addressed token ID from (kind, span).
// Stable for the lifetime of one parse; a token that moves under an edit
// gets a new ID on re-parse.
func ID(kind TokenKind, span Span) string {
	obj := Object{
		"kind":  Str(kind),
		"start": Int(span.Start),
		"end":   Int(span.End),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		// The object above contains only strings and ints; canonical
		// marshaling of it cannot fail.
		panic(fmt.Sprintf("token.ID: %v", err))
	}
	return hashWithDomain(DomainToken, canonical)[:16]
}

// StateDigest computes a digest of a TokenState's identity-relevant fields.
// View-local metadata is excluded, matching TokenState.Equal.
func StateDigest(s TokenState) (string, error) {
	obj := Object{
		"token_id":   Str(s.TokenID),
		"token_type": Str(s.TokenType),
		"content":    Str(s.Content),
		"position": Object{
			"start": Int(s.Position.Start),
			"end":   Int(s.Position.End),
		},
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("state digest: %w", err)
	}
	return hashWithDomain(DomainState, canonical), nil
}

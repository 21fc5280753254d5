// Package dedupe provides document-level duplicate detection over a stable
// content hash of (subject, body). The default set is in-memory and scoped
// to one run; a Redis-backed set lets batch runs spanning processes share
// state.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the stable content hash for a document's subject and body.
func Hash(subject, body string) string {
	sum := sha256.Sum256([]byte(subject + body))
	return hex.EncodeToString(sum[:])
}

// Set records which content hashes have been seen and by which document.
// Implementations must be safe for concurrent use.
type Set interface {
	// Seen returns the source that first recorded hash, if any.
	Seen(ctx context.Context, hash string) (string, bool, error)
	// Add records hash as first seen in source. Recording an existing hash
	// keeps the original source.
	Add(ctx context.Context, hash, source string) error
}

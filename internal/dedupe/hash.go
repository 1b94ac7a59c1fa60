// Package dedupe provides a stable hash used to collapse duplicate
// diagnostics and to derive scope identifiers that are stable across
// incremental re-analysis of the same file.
package dedupe

import (
	"fmt"

	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns a 64-bit fingerprint of data. The key is fixed: callers only
// need the fingerprint to be stable within a single process run, not
// cryptographically keyed.
func Hash(data []byte) (uint64, error) {
	h, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// DiagnosticKey builds the fingerprint used to deduplicate diagnostics that
// would otherwise be reported twice for the same underlying issue. The kind
// is part of the key, so diagnostics of different kinds at the same site
// never share a key.
func DiagnosticKey(filePath string, line int, column int, kind string) uint64 {
	h, err := Hash([]byte(fmt.Sprintf("%s:%d:%d:%s", filePath, line, column, kind)))
	if err != nil {
		// New64 only fails if key is the wrong length, which is a
		// programmer error, not a runtime condition. Fall back to a
		// constant rather than propagate an error through every caller.
		return 0
	}
	return h
}

// ScopeID derives a stable identifier for a scope node from its file, start
// line, and kind, independent of the arena index the tracker assigned it.
func ScopeID(filePath string, startLine int, kind string) uint64 {
	h, _ := Hash([]byte(fmt.Sprintf("%s:%d:%s", filePath, startLine, kind)))
	return h
}

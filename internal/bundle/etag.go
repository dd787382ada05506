package bundle

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// StrongETag hashes the canonical JSON encoding of v and quotes the first
// eight digest bytes. Equal payloads always produce equal tags, so
// conditional requests survive process restarts.
func StrongETag(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("etag encode: %w", err)
	}
	sum := sha256.Sum256(raw)
	return `"` + base64.RawURLEncoding.EncodeToString(sum[:8]) + `"`, nil
}

// WeakETag derives a weak validator from the event's update stamp. The
// admin bundle embeds live diagnostics, so a content hash would never
// repeat; the update stamp still catches the edits operators care about.
func WeakETag(updatedAtISO string) string {
	return `W/"admin-` + updatedAtISO + `"`
}

package model

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// randBase36 returns n random base36 characters. math/rand is fine here:
// the suffix only needs to avoid collisions within a millisecond, not be
// unguessable.
func randBase36(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(base36[rand.Intn(len(base36))])
	}
	return b.String()
}

// NewEventID returns an id of the form evt-<base36 millis>-<6 random base36>.
func NewEventID() string {
	return newPrefixedID("evt")
}

// NewCorrID returns a correlation id with the same shape as event ids,
// written into 500 responses and their log lines.
func NewCorrID() string {
	return newPrefixedID("corr")
}

func newPrefixedID(prefix string) string {
	return prefix + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + randBase36(6)
}

// NewShortlinkToken returns an 8-character base36 token.
func NewShortlinkToken() string {
	return randBase36(8)
}

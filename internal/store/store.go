// Package store provides typed access to the EVENTS, SHORTLINKS and
// ANALYTICS tabs on top of the sheets values client.
package store

import "errors"

// Sentinel errors shared by the stores. Callers classify with errors.Is and
// wrap with context via fmt.Errorf("%w: ...").
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

const (
	eventsSheet    = "EVENTS"
	eventsRange    = "EVENTS!A:G"
	shortlinkRange = "SHORTLINKS!A:G"
	analyticsRange = "ANALYTICS!A:L"
	legacyRange    = "ANALYTICS!A:F"
)

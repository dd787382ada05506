// Package service implements the write paths (event creation, result
// merging, analytics ingest) and the shortlink resolver on top of the
// stores, with per-key serialization of racy read-modify-write sequences.
package service

import "errors"

// Sentinel errors returned by the services. Handlers classify with
// errors.Is; messages travel wrapped via fmt.Errorf("%w: ...").
var (
	ErrBadInput     = errors.New("bad input")
	ErrBusy         = errors.New("write lock busy")
	ErrInvalidToken = errors.New("invalid shortlink token")
	ErrInvalidURL   = errors.New("invalid shortlink target")
)

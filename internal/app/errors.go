package service

import "errors"

// Sentinel kinds for pipeline errors.
var (
	ErrNoGateway         = errors.New("no data gateway configured")
	ErrUnknownCompetitor = errors.New("unknown competitor")
)

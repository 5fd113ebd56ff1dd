package repository

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrNotFound            = errors.New("competitor not found")
	ErrDuplicateCompetitor = errors.New("duplicate competitor identity")
	ErrInvalidIdentity     = errors.New("invalid competitor identity")
)

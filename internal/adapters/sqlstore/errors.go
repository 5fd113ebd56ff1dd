package sqlstore

import "errors"

// Sentinel kinds for gateway errors.
var (
	ErrConnect      = errors.New("sqlstore: connect failed")
	ErrQuery        = errors.New("sqlstore: query failed")
	ErrMalformedRow = errors.New("sqlstore: malformed row")
	ErrNoOrder      = errors.New("sqlstore: no match order")
)

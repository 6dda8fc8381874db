package semd

import "errors"

var (
	// ErrConnect marks failures opening or pinging the document store.
	ErrConnect = errors.New("document store unavailable")
	// ErrQuery marks failures running or scanning the stuck-document query.
	ErrQuery = errors.New("document store query failed")
)

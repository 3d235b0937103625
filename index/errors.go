package index

import "errors"

var (
	// ErrUnavailable indicates the index cannot serve queries.
	ErrUnavailable = errors.New("search index unavailable")
)

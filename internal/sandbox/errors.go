package sandbox

import "errors"

// Sentinel kinds for sandbox errors.
var (
	ErrNotFound   = errors.New("beer not found")
	ErrBadRequest = errors.New("bad request")
)

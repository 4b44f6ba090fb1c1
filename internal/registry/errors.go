package registry

import "errors"

// ErrUnknownAPI is returned when a symbolic name has no descriptor.
var ErrUnknownAPI = errors.New("unknown api")

package fetch

import "errors"

// ErrMissingID is returned by Put, Patch and Delete when no resource id is given.
var ErrMissingID = errors.New("missing resource id")

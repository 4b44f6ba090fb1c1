package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds for transport errors.
var (
	ErrRequest    = errors.New("request failed")
	ErrEncodeBody = errors.New("encode request body failed")
	ErrDecodeBody = errors.New("decode response body failed")
)

// StatusError reports a response whose status code is 400 or above.
// The response is still available to the caller.
type StatusError struct {
	Method   string
	URL      string
	Response *Response
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Response.StatusCode, http.StatusText(e.Response.StatusCode))
}

// StatusCode returns the response status, or 0 when err is not a StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) && se.Response != nil {
		return se.Response.StatusCode
	}
	return 0
}

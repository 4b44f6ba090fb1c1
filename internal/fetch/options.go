package fetch

import (
	"github.com/okian/fetchkit/internal/merge"
)

// Params are query parameters appended to the request URL.
type Params map[string]any

// Options are per-request settings. Zero fields mean "not set".
type Options struct {
	BaseURL string
	Method  string
	Headers map[string]string
	Body    any
	Query   Params
	// Extra holds free-form nested options handed to the transport.
	Extra map[string]any
}

// Merge deep-merges overrides over defaults. For every field set on both
// sides the override wins; Headers, Query and Extra merge key-wise.
func Merge(defaults, overrides Options) Options {
	out := Options{
		BaseURL: defaults.BaseURL,
		Method:  defaults.Method,
		Body:    defaults.Body,
		Headers: merge.Headers(defaults.Headers, overrides.Headers),
		Query:   Params(merge.Deep(defaults.Query, overrides.Query)),
		Extra:   merge.Deep(defaults.Extra, overrides.Extra),
	}
	if overrides.BaseURL != "" {
		out.BaseURL = overrides.BaseURL
	}
	if overrides.Method != "" {
		out.Method = overrides.Method
	}
	if overrides.Body != nil {
		out.Body = overrides.Body
	}
	return out
}

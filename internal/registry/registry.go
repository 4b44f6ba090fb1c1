// Package registry maps symbolic API names to endpoint descriptors.
//
// Names form a closed set; resolving a Name that is not declared here
// reports absence instead of handing back a zero descriptor.
package registry

import (
	"fmt"
	"net/http"
	"strings"
)

// Name identifies one known remote operation.
type Name int

// Known endpoints.
const (
	Admin Name = iota + 1
	NuxtBeers
)

// Endpoint describes how to reach one named remote operation.
type Endpoint struct {
	Method  string
	URL     string
	Headers map[string]string
	Options map[string]any
}

type entry struct {
	key      string
	endpoint Endpoint
}

var table = map[Name]entry{
	Admin: {
		key:      "admin",
		endpoint: Endpoint{Method: http.MethodGet, URL: ""},
	},
	NuxtBeers: {
		key:      "nuxt_beers",
		endpoint: Endpoint{Method: http.MethodGet, URL: "/beers"},
	},
}

// String returns the symbolic key, e.g. "nuxt_beers".
func (n Name) String() string {
	if e, ok := table[n]; ok {
		return e.key
	}
	return fmt.Sprintf("Name(%d)", int(n))
}

// Names lists every known endpoint in declaration order.
func Names() []Name {
	return []Name{Admin, NuxtBeers}
}

// Lookup returns a copy of the descriptor for n.
func Lookup(n Name) (Endpoint, bool) {
	e, ok := table[n]
	if !ok {
		return Endpoint{}, false
	}
	return e.endpoint.clone(), true
}

// Parse resolves the symbolic key to a Name.
func Parse(s string) (Name, error) {
	key := strings.TrimSpace(s)
	for _, n := range Names() {
		if table[n].key == key {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAPI, s)
}

// LookupString is Lookup keyed by the symbolic string form.
func LookupString(s string) (Endpoint, bool) {
	n, err := Parse(s)
	if err != nil {
		return Endpoint{}, false
	}
	return Lookup(n)
}

// Resolver resolves names to descriptors. The package-level table is the
// default implementation; tests substitute their own.
type Resolver interface {
	Lookup(n Name) (Endpoint, bool)
}

// Static is the Resolver backed by the built-in table.
type Static struct{}

// Lookup implements Resolver.
func (Static) Lookup(n Name) (Endpoint, bool) { return Lookup(n) }

func (e Endpoint) clone() Endpoint {
	out := Endpoint{Method: e.Method, URL: e.URL}
	if e.Headers != nil {
		out.Headers = make(map[string]string, len(e.Headers))
		for k, v := range e.Headers {
			out.Headers[k] = v
		}
	}
	if e.Options != nil {
		out.Options = make(map[string]any, len(e.Options))
		for k, v := range e.Options {
			out.Options[k] = v
		}
	}
	return out
}

package fetch

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
)

// EncodeQuery serializes p with keys in sorted order. Slices produce one
// pair per element and nil values produce a bare key.
func EncodeQuery(p Params) string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		ek := url.QueryEscape(k)
		for _, v := range values(p[k]) {
			if v == nil {
				parts = append(parts, ek)
				continue
			}
			parts = append(parts, ek+"="+url.QueryEscape(fmt.Sprint(v)))
		}
	}
	return strings.Join(parts, "&")
}

func values(v any) []any {
	if v == nil {
		return []any{nil}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	if _, isBytes := v.([]byte); isBytes {
		return []any{string(v.([]byte))}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func withQuery(u string, p Params) string {
	q := EncodeQuery(p)
	if q == "" {
		return u
	}
	if strings.Contains(u, "?") {
		return u + "&" + q
	}
	return u + "?" + q
}

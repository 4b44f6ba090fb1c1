// Package merge implements right-biased deep merging of option trees.
//
// For every key present on both sides the override wins, except when both
// values are nested maps, in which case they are merged key-wise. A nil
// override never clobbers a default. Inputs are never mutated.
package merge

// Deep merges overrides over defaults.
func Deep(defaults, overrides map[string]any) map[string]any {
	if defaults == nil && overrides == nil {
		return nil
	}
	out := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = clone(v)
	}
	for k, v := range overrides {
		if v == nil {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			if base, ok := out[k].(map[string]any); ok {
				out[k] = Deep(base, nested)
				continue
			}
		}
		out[k] = clone(v)
	}
	return out
}

// Headers merges flat header maps with the same precedence as Deep.
func Headers(defaults, overrides map[string]string) map[string]string {
	if defaults == nil && overrides == nil {
		return nil
	}
	out := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Deep(t, nil)
	case map[string]string:
		return Headers(t, nil)
	default:
		return v
	}
}

package llm

import (
	"slices"
	"sort"
)

// pruneSchema returns a deep copy of def with the named keywords removed at
// every level. Property names are never treated as keywords.
func pruneSchema(def map[string]any, drop ...string) map[string]any {
	out := make(map[string]any, len(def))
	for k, v := range def {
		if slices.Contains(drop, k) {
			continue
		}
		if k == "properties" {
			if props, ok := v.(map[string]any); ok {
				copied := make(map[string]any, len(props))
				for name, p := range props {
					if pm, ok := p.(map[string]any); ok {
						copied[name] = pruneSchema(pm, drop...)
					} else {
						copied[name] = p
					}
				}
				out[k] = copied
				continue
			}
		}
		out[k] = pruneValue(v, drop)
	}
	return out
}

func pruneValue(v any, drop []string) any {
	switch t := v.(type) {
	case map[string]any:
		return pruneSchema(t, drop...)
	case []any:
		cp := make([]any, len(t))
		for i, e := range t {
			cp[i] = pruneValue(e, drop)
		}
		return cp
	default:
		return v
	}
}

// sealObjects makes every object in def closed with all properties
// required, the shape strict structured-output modes insist on. def is
// modified in place; pass a copy from pruneSchema.
func sealObjects(def map[string]any) map[string]any {
	if props, ok := def["properties"].(map[string]any); ok {
		names := make([]string, 0, len(props))
		for name, p := range props {
			names = append(names, name)
			if pm, ok := p.(map[string]any); ok {
				sealObjects(pm)
			}
		}
		// Keep the caller's order when it already lists everything.
		if !coversAll(def["required"], names) {
			sort.Strings(names)
			req := make([]any, len(names))
			for i, n := range names {
				req[i] = n
			}
			def["required"] = req
		}
		def["additionalProperties"] = false
	}
	if items, ok := def["items"].(map[string]any); ok {
		sealObjects(items)
	}
	return def
}

func coversAll(required any, names []string) bool {
	have := stringList(required)
	for _, n := range names {
		if !slices.Contains(have, n) {
			return false
		}
	}
	return true
}

// intKeyword reads a numeric schema keyword. Definitions built in Go carry
// ints; ones decoded from JSON carry float64.
func intKeyword(def map[string]any, key string) (int64, bool) {
	switch n := def[key].(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// stringList reads a keyword holding strings as either []any or []string.
func stringList(v any) []string {
	switch l := v.(type) {
	case []string:
		return slices.Clone(l)
	case []any:
		out := make([]string, 0, len(l))
		for _, e := range l {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

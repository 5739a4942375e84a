package common

import (
	"encoding/json"
	"math"
)

// Has reports whether key is present in args, even with a null value.
func Has(args map[string]any, key string) bool {
	_, ok := args[key]
	return ok
}

// IsNull reports whether key is present in args with an explicit null value.
func IsNull(args map[string]any, key string) bool {
	v, ok := args[key]
	return ok && v == nil
}

// StringArg returns args[key] if it is a string.
func StringArg(args map[string]any, key string) (string, bool) {
	s, ok := args[key].(string)
	return s, ok
}

// IntArg returns args[key] as an int. JSON numbers arrive as float64, so
// only integral values are accepted.
func IntArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// BoolArg returns args[key] if it is a bool.
func BoolArg(args map[string]any, key string) (bool, bool) {
	b, ok := args[key].(bool)
	return b, ok
}

// StringSliceArg returns args[key] as a string slice. Non-string elements
// make the whole value invalid.
func StringSliceArg(args map[string]any, key string) ([]string, bool) {
	switch v := args[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// ObjectSliceArg returns args[key] if it is an array. Elements that are not
// objects are returned as nil maps so callers keep the input positions.
func ObjectSliceArg(args map[string]any, key string) ([]map[string]any, bool) {
	v, ok := args[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, len(v))
	for i, item := range v {
		out[i], _ = item.(map[string]any)
	}
	return out, true
}

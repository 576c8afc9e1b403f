// Package value converts loosely typed configuration values.
// TOML decodes integers as int64 and tables as map[string]any, while values
// set programmatically keep their Go types; both shapes are accepted.
package value

import (
	"sort"
	"strconv"
	"strings"
)

// String returns v as a string. Numbers and booleans are formatted.
func String(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int, int64, float64, bool:
		return Format(t), true
	default:
		return "", false
	}
}

// Int returns v as an int. Whole floats and numeric strings are accepted.
func Int(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t != float64(int64(t)) {
			return 0, false
		}
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}

// Float returns v as a float64.
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Bool returns v as a bool. Strings use strconv.ParseBool rules.
func Bool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	default:
		return false, false
	}
}

// Format renders a scalar for display.
func Format(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Flatten converts nested tables to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func Flatten(m map[string]any, prefix string) map[string]any {
	out := make(map[string]any)
	for key, v := range m {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := v.(map[string]any); ok {
			for k, nv := range Flatten(nested, full) {
				out[k] = nv
			}
			continue
		}
		out[full] = v
	}
	return out
}

// Nest is the inverse of Flatten, producing TOML tables from dotted keys.
// A key that is both a leaf and a table prefix keeps the table.
func Nest(flat map[string]any) map[string]any {
	keys := SortedKeys(flat)
	root := make(map[string]any)
	for _, k := range keys {
		parts := strings.Split(k, ".")
		node := root
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[p] = child
			}
			node = child
		}
		leaf := parts[len(parts)-1]
		if _, isTable := node[leaf].(map[string]any); !isTable {
			node[leaf] = flat[k]
		}
	}
	return root
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

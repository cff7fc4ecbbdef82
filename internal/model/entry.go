package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entry is one item of a repeated section (an education record, a job, a
// project). Values are either a string or a list of strings.
type Entry map[string]any

func (e Entry) String(key string) string {
	switch v := e[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return strings.Join(e.Strings(key), ", ")
	}
}

func (e Entry) Strings(key string) []string {
	switch v := e[key].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (e Entry) Company() string {
	return e.String("company")
}

func (e Entry) Title() string {
	return e.String("title")
}

// NormalizeEntry coerces a decoded JSON object into an Entry. Numbers and
// booleans become strings, lists become string lists, nulls are dropped and
// nested objects are kept as their JSON text.
func NormalizeEntry(raw map[string]any) Entry {
	out := make(Entry, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			out[k] = val
		case []any:
			items := make([]string, 0, len(val))
			for _, item := range val {
				if s, ok := scalarString(item); ok {
					items = append(items, s)
				}
			}
			out[k] = items
		case []string:
			out[k] = append([]string(nil), val...)
		default:
			if s, ok := scalarString(val); ok {
				out[k] = s
			}
		}
	}
	return out
}

func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		return fmt.Sprintf("%t", val), true
	case float64:
		return formatNumber(val), true
	case json.Number:
		return val.String(), true
	case int, int64:
		return fmt.Sprintf("%d", val), true
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
	return fmt.Sprint(v), true
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

func (e Entry) clone() Entry {
	out := make(Entry, len(e))
	for k, v := range e {
		switch val := v.(type) {
		case []string:
			out[k] = append([]string(nil), val...)
		case []any:
			out[k] = append([]any(nil), val...)
		default:
			out[k] = val
		}
	}
	return out
}

func cloneEntries(in []Entry) []Entry {
	out := make([]Entry, 0, len(in))
	for _, e := range in {
		out = append(out, e.clone())
	}
	return out
}

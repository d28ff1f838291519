package models

import "time"

// Raw is a record payload as returned by the record store. Field access
// goes through typed getters so the default for a missing or mistyped
// field is explicit at every call site.
type Raw map[string]any

func (r Raw) GetString(key string) string {
	if r == nil {
		return ""
	}
	val, ok := r[key]
	if !ok {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func (r Raw) GetFloat(key string) float64 {
	if r == nil {
		return 0
	}
	val, ok := r[key]
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func (r Raw) GetInt(key string) int {
	if r == nil {
		return 0
	}
	val, ok := r[key]
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func (r Raw) GetBool(key string) bool {
	if r == nil {
		return false
	}
	val, ok := r[key]
	if !ok {
		return false
	}
	if b, ok := val.(bool); ok {
		return b
	}
	return false
}

func (r Raw) GetTime(key string) time.Time {
	if r == nil {
		return time.Time{}
	}
	val, ok := r[key]
	if !ok {
		return time.Time{}
	}
	switch v := val.(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			t, err = time.Parse("2006-01-02 15:04:05.000Z", v)
			if err != nil {
				return time.Time{}
			}
		}
		return t
	default:
		return time.Time{}
	}
}

func (r Raw) GetStrings(key string) []string {
	if r == nil {
		return nil
	}
	val, ok := r[key]
	if !ok {
		return nil
	}
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

func (r Raw) GetRaw(key string) Raw {
	if r == nil {
		return nil
	}
	val, ok := r[key]
	if !ok {
		return nil
	}
	switch v := val.(type) {
	case Raw:
		return v
	case map[string]any:
		return Raw(v)
	default:
		return nil
	}
}

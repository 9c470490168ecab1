package nslsolver

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// responseFields is a decoded 2xx response object. Accessors coerce
// loosely typed values and fall back to the zero value, so a field with an
// unexpected type never discards an otherwise usable result.
type responseFields map[string]json.RawMessage

// decodeFields parses a 2xx response body, which must be a JSON object.
func decodeFields(body []byte) (responseFields, error) {
	var fields responseFields
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, newDecodeError("failed to parse response", err)
	}
	if fields == nil {
		return nil, newDecodeError("failed to parse response", errors.New("response is not a JSON object"))
	}
	return fields, nil
}

func (f responseFields) value(key string) any {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// String returns a scalar field as text, or "".
func (f responseFields) String(key string) string {
	s, _ := scalarText(f.value(key))
	return s
}

// Float returns a number or numeric string field, or 0.
func (f responseFields) Float(key string) float64 {
	switch v := f.value(key).(type) {
	case float64:
		return v
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			return n
		}
	}
	return 0
}

// Int returns Float truncated towards zero.
func (f responseFields) Int(key string) int {
	n := f.Float(key)
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0
	}
	return int(n)
}

// Bool returns a boolean field, accepting "true" in any case as a string.
func (f responseFields) Bool(key string) bool {
	switch v := f.value(key).(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	}
	return false
}

// Strings returns the scalar elements of an array field. It is never nil.
func (f responseFields) Strings(key string) []string {
	items, _ := f.value(key).([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := scalarText(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// StringMap returns the scalar members of an object field. It is never nil.
func (f responseFields) StringMap(key string) map[string]string {
	obj, _ := f.value(key).(map[string]any)
	out := make(map[string]string, len(obj))
	for name, item := range obj {
		if s, ok := scalarText(item); ok {
			out[name] = s
		}
	}
	return out
}

// scalarText renders a decoded JSON string, number or boolean as text.
func scalarText(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

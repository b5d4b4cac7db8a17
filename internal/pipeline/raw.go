package pipeline

import (
	"strconv"
	"strings"

	"github.com/utafrali/ReviewsGo/internal/domain"
)

// stringField returns the first non-empty string value found under any of the
// given keys. Numeric values are formatted; other types are ignored.
func stringField(raw domain.RawReview, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}

// anyField returns the first non-nil value found under any of the given keys.
func anyField(raw domain.RawReview, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// boolField returns the boolean value under any of the given keys, accepting
// bools and "true"/"false" strings. ok is false when no key held a usable value.
func boolField(raw domain.RawReview, keys ...string) (value, ok bool) {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case bool:
			return v, true
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "yes", "1":
				return true, true
			case "false", "no", "0":
				return false, true
			}
		}
	}
	return false, false
}

// floatValue coerces a raw value to a float64. ok is false when the value is
// absent or unparseable.
func floatValue(v any) (float64, bool) {
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
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

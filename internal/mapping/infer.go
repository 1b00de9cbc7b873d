package mapping

import (
	"encoding/json"
	"strings"
	"time"

	"envizi_webhook/internal/domain"
)

// dateLayouts are tried in order when parsing date-like values.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006 15:04",
	time.RFC1123,
}

// ParseDate parses a value as a date-time, trying the known layouts.
func ParseDate(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// InferType infers a field's destination type from a sample value when
// one is available, otherwise from the field name. The name cascade is
// fixed and ordered: date/time before amount/quantity/number, first
// match wins, string as the fallback.
func InferType(fieldName string, sample interface{}) domain.FieldType {
	if sample != nil {
		switch sample.(type) {
		case float64, float32, int, int32, int64, json.Number:
			return domain.TypeNumber
		}
		if _, ok := ParseDate(sample); ok {
			return domain.TypeDate
		}
	}

	name := strings.ToLower(fieldName)
	switch {
	case strings.Contains(name, "date") || strings.Contains(name, "time"):
		return domain.TypeDate
	case strings.Contains(name, "amount") || strings.Contains(name, "quantity") || strings.Contains(name, "number"):
		return domain.TypeNumber
	default:
		return domain.TypeString
	}
}

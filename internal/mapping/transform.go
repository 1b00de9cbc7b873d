package mapping

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"envizi_webhook/internal/domain"
)

// Policy selects how a transformation recovers from a coercion failure.
// The two behaviors existed side by side in earlier revisions of this
// pipeline; they are kept as named strategies so call sites state which
// one they mean.
type Policy int

const (
	// PolicyStrict returns nil when a value cannot be coerced to the
	// destination type. Used by the batch transformer so validation can
	// catch the hole.
	PolicyStrict Policy = iota

	// PolicyBestEffort passes the original value through on a failed
	// date parse and returns 0 on a failed numeric parse. Used by
	// preview paths that must never drop what the source sent.
	PolicyBestEffort
)

// Apply coerces a single value per the transformation rule and the
// field's destination type. A nil rule falls back to the default rule
// for the destination type; a direct rule returns the value unchanged.
// Nil input short-circuits to nil before any coercion is attempted.
// Apply never fails hard: bad data recovers per the policy.
func Apply(value interface{}, rule *domain.Transformation, fieldType domain.FieldType, policy Policy) interface{} {
	if value == nil {
		return nil
	}
	if rule == nil {
		rule = DefaultTransformation(fieldType)
	}

	switch rule.Type {
	case domain.TransformDirect:
		return value
	case domain.TransformDate:
		return applyDate(value, rule.Format, policy)
	case domain.TransformMath:
		return applyMath(value, rule.Format, policy)
	case domain.TransformText:
		return applyText(value, rule.Operation)
	default:
		return value
	}
}

func applyDate(value interface{}, format string, policy Policy) interface{} {
	t, ok := ParseDate(value)
	if !ok {
		if policy == PolicyBestEffort {
			return value
		}
		return nil
	}
	if strings.EqualFold(format, "ymd") {
		return t.UTC().Format("2006-01-02")
	}
	return t.UTC().Format("2006-01-02T15:04:05Z07:00")
}

func applyMath(value interface{}, format string, policy Policy) interface{} {
	num, ok := ToNumber(value)
	if !ok {
		if policy == PolicyBestEffort {
			return float64(0)
		}
		return nil
	}
	if format == "fixed2" {
		return math.Round(num*100) / 100
	}
	return num
}

func applyText(value interface{}, operation string) interface{} {
	s := Stringify(value)
	switch operation {
	case "uppercase":
		return strings.ToUpper(s)
	case "lowercase":
		return strings.ToLower(s)
	default:
		return strings.TrimSpace(s)
	}
}

// ToNumber coerces any numeric or numeric-string value to float64.
func ToNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Stringify renders a value the way it arrived in JSON, without the
// float artifacts of a bare %v on json.Number values.
func Stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

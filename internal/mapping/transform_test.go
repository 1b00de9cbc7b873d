package mapping

import (
	"reflect"
	"testing"

	"envizi_webhook/internal/domain"
)

func TestApplyDirect(t *testing.T) {
	rule := &domain.Transformation{Type: domain.TransformDirect}
	values := []interface{}{"x", 12.5, true, []interface{}{1, 2}}
	for _, v := range values {
		if got := Apply(v, rule, domain.TypeString, PolicyStrict); !reflect.DeepEqual(got, v) {
			t.Errorf("direct Apply(%v) = %v, want unchanged", v, got)
		}
	}
}

func TestApplyNilShortCircuits(t *testing.T) {
	rule := &domain.Transformation{Type: domain.TransformMath, Format: "fixed2"}
	if got := Apply(nil, rule, domain.TypeNumber, PolicyBestEffort); got != nil {
		t.Errorf("Apply(nil) = %v, want nil", got)
	}
}

func TestApplyMath(t *testing.T) {
	fixed2 := &domain.Transformation{Type: domain.TransformMath, Format: "fixed2"}
	plain := &domain.Transformation{Type: domain.TransformMath}

	tests := []struct {
		name   string
		value  interface{}
		rule   *domain.Transformation
		policy Policy
		want   interface{}
	}{
		{"fixed2 rounds", 3.14159, fixed2, PolicyStrict, 3.14},
		{"fixed2 rounds up", 12.345, fixed2, PolicyStrict, 12.35},
		{"numeric string coerces", "42.5", plain, PolicyStrict, 42.5},
		{"int coerces", 7, plain, PolicyStrict, 7.0},
		{"strict failure is nil", "abc", fixed2, PolicyStrict, nil},
		{"best effort failure is zero", "abc", fixed2, PolicyBestEffort, float64(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.value, tt.rule, domain.TypeNumber, tt.policy)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestApplyDate(t *testing.T) {
	iso := &domain.Transformation{Type: domain.TransformDate, Format: "iso"}
	ymd := &domain.Transformation{Type: domain.TransformDate, Format: "ymd"}

	tests := []struct {
		name   string
		value  interface{}
		rule   *domain.Transformation
		policy Policy
		want   interface{}
	}{
		{"iso format", "2024-01-15", iso, PolicyStrict, "2024-01-15T00:00:00Z"},
		{"iso keeps time", "2024-01-15T10:30:00Z", iso, PolicyStrict, "2024-01-15T10:30:00Z"},
		{"ymd keeps date only", "2024-01-15T10:30:00Z", ymd, PolicyStrict, "2024-01-15"},
		{"strict failure is nil", "not a date", iso, PolicyStrict, nil},
		{"best effort failure passes through", "not a date", iso, PolicyBestEffort, "not a date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.value, tt.rule, domain.TypeDate, tt.policy)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestApplyText(t *testing.T) {
	tests := []struct {
		name string
		op   string
		in   interface{}
		want string
	}{
		{"default trims", "", "  padded  ", "padded"},
		{"trim", "trim", " x ", "x"},
		{"uppercase", "uppercase", "dk1", "DK1"},
		{"lowercase", "lowercase", "DK1", "dk1"},
		{"non-string stringified", "trim", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := &domain.Transformation{Type: domain.TransformText, Operation: tt.op}
			got := Apply(tt.in, rule, domain.TypeString, PolicyStrict)
			if got != tt.want {
				t.Errorf("Apply(%v, %s) = %v, want %q", tt.in, tt.op, got, tt.want)
			}
		})
	}
}

func TestApplyNilRuleUsesFieldDefault(t *testing.T) {
	if got := Apply(3.14159, nil, domain.TypeNumber, PolicyStrict); got != 3.14 {
		t.Errorf("nil rule on number field = %v, want 3.14", got)
	}
	if got := Apply("  x ", nil, domain.TypeString, PolicyStrict); got != "x" {
		t.Errorf("nil rule on string field = %v, want trimmed", got)
	}
}

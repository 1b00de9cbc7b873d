package mapping

import (
	"fmt"
	"regexp"

	"envizi_webhook/internal/domain"
)

// requiredConfidence is the minimum automatic-match score a required
// field can rely on without a manual value.
const requiredConfidence = 0.7

// ValidateMappings checks a mapping set against the template's required
// fields. A required field must be backed by a manual value or by a
// mapping whose confidence clears the threshold.
func ValidateMappings(mappings []domain.Mapping, tmpl *domain.Template) []domain.ValidationError {
	errs := []domain.ValidationError{}
	if tmpl == nil {
		return errs
	}

	byField := make(map[string]*domain.Mapping, len(mappings))
	for i := range mappings {
		byField[mappings[i].EnviziField] = &mappings[i]
	}

	for _, field := range tmpl.Fields {
		if !field.Required {
			continue
		}
		m, ok := byField[field.Name]
		if !ok {
			errs = append(errs, domain.ValidationError{
				Field:      field.Name,
				Message:    fmt.Sprintf("%s is required but no source field or manual value is mapped", field.Name),
				Severity:   domain.SeverityError,
				Resolution: "Map a source field or enter a manual value",
			})
			continue
		}
		if m.ManualValue != "" {
			continue
		}
		if m.SourcePath == "" {
			errs = append(errs, domain.ValidationError{
				Field:      field.Name,
				Message:    fmt.Sprintf("%s is required but no source field or manual value is mapped", field.Name),
				Severity:   domain.SeverityError,
				Resolution: "Map a source field or enter a manual value",
			})
			continue
		}
		if m.Confidence < requiredConfidence {
			errs = append(errs, domain.ValidationError{
				Field:      field.Name,
				Message:    fmt.Sprintf("%s is mapped from %q with low confidence (%.2f)", field.Name, m.SourcePath, m.Confidence),
				Severity:   domain.SeverityError,
				Resolution: "Confirm the suggested source field or enter a manual value",
			})
		}
	}
	return errs
}

// ValidateBatch checks every transformed record against the template's
// required-field, type, range and pattern constraints. Messages carry a
// 1-based record index. All violations are collected, none short-circuit.
func ValidateBatch(records []domain.TransformedRecord, tmpl *domain.Template) []string {
	errs := []string{}
	if tmpl == nil {
		return errs
	}

	// Compile patterns once per field; a malformed pattern disables the
	// check rather than failing the whole batch.
	patterns := make(map[string]*regexp.Regexp)
	for _, field := range tmpl.Fields {
		if field.Validation != nil && field.Validation.Pattern != "" {
			if re, err := regexp.Compile(field.Validation.Pattern); err == nil {
				patterns[field.Name] = re
			}
		}
	}

	for i, record := range records {
		for _, field := range tmpl.Fields {
			value, present := record[field.Name]
			if !present || value == nil {
				if field.Required {
					errs = append(errs, fmt.Sprintf("Record %d: %s is required but missing", i+1, field.Name))
				}
				continue
			}
			errs = append(errs, validateValue(i+1, value, field, patterns[field.Name])...)
		}
	}
	return errs
}

func validateValue(index int, value interface{}, field domain.Field, pattern *regexp.Regexp) []string {
	var errs []string

	switch field.Type {
	case domain.TypeNumber:
		num, ok := ToNumber(value)
		if !ok {
			return append(errs, fmt.Sprintf("Record %d: %s must be a number", index, field.Name))
		}
		if v := field.Validation; v != nil {
			if v.Min != nil && num < *v.Min {
				errs = append(errs, fmt.Sprintf("Record %d: %s must be greater than or equal to %v", index, field.Name, *v.Min))
			}
			if v.Max != nil && num > *v.Max {
				errs = append(errs, fmt.Sprintf("Record %d: %s must be less than or equal to %v", index, field.Name, *v.Max))
			}
		}
	case domain.TypeDate:
		if _, ok := ParseDate(value); !ok {
			errs = append(errs, fmt.Sprintf("Record %d: %s must be a valid date", index, field.Name))
		}
	case domain.TypeString:
		if pattern != nil && !pattern.MatchString(Stringify(value)) {
			errs = append(errs, fmt.Sprintf("Record %d: %s does not match required pattern", index, field.Name))
		}
	}
	return errs
}

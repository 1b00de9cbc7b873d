package mapping

import (
	"envizi_webhook/internal/domain"
)

// DefaultTransformation returns the coercion rule attached to a new
// mapping for the given destination type.
func DefaultTransformation(fieldType domain.FieldType) *domain.Transformation {
	switch fieldType {
	case domain.TypeDate:
		return &domain.Transformation{Type: domain.TransformDate, Format: "iso"}
	case domain.TypeNumber:
		return &domain.Transformation{Type: domain.TransformMath, Format: "fixed2"}
	default:
		return &domain.Transformation{Type: domain.TransformText, Operation: "trim"}
	}
}

// Suggest proposes one mapping per template field from a sample record.
// The record is flattened once; each field is matched against the flat
// paths and scored. Unmatched fields come back with an empty source path
// and zero confidence so the caller can surface them for manual mapping.
// A nil record or an empty template yields an empty set.
func Suggest(record domain.Record, tmpl *domain.Template) []domain.Mapping {
	if record == nil || tmpl == nil || len(tmpl.Fields) == 0 {
		return []domain.Mapping{}
	}

	flat := Flatten(record)
	paths := FlatPaths(flat)

	mappings := make([]domain.Mapping, 0, len(tmpl.Fields))
	for _, field := range tmpl.Fields {
		m := domain.Mapping{
			EnviziField:    field.Name,
			Required:       field.Required,
			Transformation: DefaultTransformation(field.Type),
		}
		if path, score, ok := BestMatch(field.Name, paths); ok {
			m.SourcePath = path
			m.Confidence = score
		}
		mappings = append(mappings, m)
	}
	return mappings
}

// ApplyOverride applies a user edit to a mapping. An explicit choice is
// trusted over any computed similarity score, so confidence resets to 1.
func ApplyOverride(m domain.Mapping, sourcePath, manualValue string, rule *domain.Transformation) domain.Mapping {
	m.SourcePath = sourcePath
	m.ManualValue = manualValue
	if rule != nil {
		m.Transformation = rule
	}
	m.Confidence = 1
	return m
}

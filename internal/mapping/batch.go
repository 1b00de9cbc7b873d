package mapping

import (
	"envizi_webhook/internal/domain"
)

// TransformBatch applies a mapping set to every record of a batch,
// producing destination-shaped records keyed by template field name.
// Values are coerced with the strict policy so failures surface as nil
// rather than leaking source-typed values downstream. Mappings whose
// enviziField is absent from the template are skipped; template fields
// with no mapping are omitted from the output entirely.
// Empty records, mappings or template fields yield an empty batch.
func TransformBatch(records []domain.Record, mappings []domain.Mapping, tmpl *domain.Template) []domain.TransformedRecord {
	if len(records) == 0 || len(mappings) == 0 || tmpl == nil || len(tmpl.Fields) == 0 {
		return []domain.TransformedRecord{}
	}

	out := make([]domain.TransformedRecord, 0, len(records))
	for _, record := range records {
		out = append(out, transformRecord(record, mappings, tmpl))
	}
	return out
}

func transformRecord(record domain.Record, mappings []domain.Mapping, tmpl *domain.Template) domain.TransformedRecord {
	result := make(domain.TransformedRecord, len(mappings))
	flat := Flatten(record)

	for _, m := range mappings {
		field := tmpl.FieldByName(m.EnviziField)
		if field == nil {
			continue
		}

		var value interface{}
		if m.ManualValue != "" {
			value = m.ManualValue
		} else if m.SourcePath != "" {
			value = flat[m.SourcePath]
			if value == nil {
				// Paths with explicit array indexing are not in the
				// flat view; resolve them against the raw record.
				value = Resolve(record, m.SourcePath)
			}
		}

		result[field.Name] = Apply(value, m.Transformation, field.Type, PolicyStrict)
	}
	return result
}

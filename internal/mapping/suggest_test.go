package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envizi_webhook/internal/domain"
)

func TestSuggestEmptyInputs(t *testing.T) {
	tmpl := &domain.Template{Fields: []domain.Field{{Name: "Quantity", Type: domain.TypeNumber}}}

	assert.Empty(t, Suggest(nil, tmpl))
	assert.Empty(t, Suggest(domain.Record{"a": 1}, &domain.Template{}))
	assert.Empty(t, Suggest(domain.Record{"a": 1}, nil))
}

func TestSuggestEnergiDataRecord(t *testing.T) {
	record := domain.Record{
		"PriceArea": "DK1",
		"ShareMWh":  12.345,
	}
	tmpl := &domain.Template{
		Name: "PM&C",
		Fields: []domain.Field{
			{Name: "Quantity", Type: domain.TypeNumber, Required: true},
		},
	}

	mappings := Suggest(record, tmpl)
	require.Len(t, mappings, 1)

	m := mappings[0]
	assert.Equal(t, "Quantity", m.EnviziField)
	assert.Equal(t, "ShareMWh", m.SourcePath)
	assert.True(t, m.Required)
	assert.Greater(t, m.Confidence, 0.3)
	require.NotNil(t, m.Transformation)
	assert.Equal(t, domain.TransformMath, m.Transformation.Type)
	assert.Equal(t, "fixed2", m.Transformation.Format)
}

func TestSuggestDefaultTransformations(t *testing.T) {
	record := domain.Record{
		"start":  "2024-01-15",
		"amount": 10.0,
		"org":    "ACME",
	}
	tmpl := &domain.Template{
		Fields: []domain.Field{
			{Name: "Record Start", Type: domain.TypeDate},
			{Name: "Quantity", Type: domain.TypeNumber},
			{Name: "Organization", Type: domain.TypeString},
		},
	}

	mappings := Suggest(record, tmpl)
	require.Len(t, mappings, 3)

	assert.Equal(t, domain.TransformDate, mappings[0].Transformation.Type)
	assert.Equal(t, "iso", mappings[0].Transformation.Format)
	assert.Equal(t, "start", mappings[0].SourcePath)

	assert.Equal(t, domain.TransformMath, mappings[1].Transformation.Type)
	assert.Equal(t, "amount", mappings[1].SourcePath)

	assert.Equal(t, domain.TransformText, mappings[2].Transformation.Type)
	assert.Equal(t, "trim", mappings[2].Transformation.Operation)
	assert.Equal(t, "org", mappings[2].SourcePath)
}

func TestSuggestUnmatchedFieldHasZeroConfidence(t *testing.T) {
	record := domain.Record{"zzz": 1}
	tmpl := &domain.Template{
		Fields: []domain.Field{{Name: "Supplier", Type: domain.TypeString, Required: true}},
	}

	mappings := Suggest(record, tmpl)
	require.Len(t, mappings, 1)
	assert.Equal(t, "", mappings[0].SourcePath)
	assert.Equal(t, 0.0, mappings[0].Confidence)
}

func TestSuggestNestedPaths(t *testing.T) {
	record := domain.Record{
		"data": map[string]interface{}{
			"organization": "ACME",
		},
	}
	tmpl := &domain.Template{
		Fields: []domain.Field{{Name: "Organization", Type: domain.TypeString}},
	}

	mappings := Suggest(record, tmpl)
	require.Len(t, mappings, 1)
	assert.Equal(t, "data.organization", mappings[0].SourcePath)
}

func TestApplyOverrideResetsConfidence(t *testing.T) {
	m := domain.Mapping{
		EnviziField: "Quantity",
		SourcePath:  "qty",
		Confidence:  0.42,
	}

	got := ApplyOverride(m, "ShareMWh", "", &domain.Transformation{Type: domain.TransformDirect})
	assert.Equal(t, "ShareMWh", got.SourcePath)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, domain.TransformDirect, got.Transformation.Type)

	manual := ApplyOverride(m, "", "100", nil)
	assert.Equal(t, "100", manual.ManualValue)
	assert.Equal(t, 1.0, manual.Confidence)
}

package mapping

import (
	"fmt"
	"testing"

	"envizi_webhook/internal/domain"
)

func benchTemplate() *domain.Template {
	return &domain.Template{
		Name: "PM&C",
		Fields: []domain.Field{
			{Name: "Organization", Type: domain.TypeString, Required: true},
			{Name: "Location", Type: domain.TypeString, Required: true},
			{Name: "Record Start", Type: domain.TypeDate, Required: true},
			{Name: "Record End", Type: domain.TypeDate, Required: true},
			{Name: "Quantity", Type: domain.TypeNumber, Required: true},
			{Name: "Total Cost", Type: domain.TypeNumber},
			{Name: "Supplier", Type: domain.TypeString},
			{Name: "Notes", Type: domain.TypeString},
		},
	}
}

func benchRecord() domain.Record {
	return domain.Record{
		"HourUTC":       "2024-01-15T10:00:00Z",
		"HourDK":        "2024-01-15T11:00:00",
		"PriceArea":     "DK1",
		"ConnectedArea": "DE",
		"ShareMWh":      12.345,
		"SharePPM":      0.42,
		"dataset":       "Transmissionlines",
	}
}

func BenchmarkSuggest(b *testing.B) {
	tmpl := benchTemplate()
	record := benchRecord()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Suggest(record, tmpl)
	}
}

func BenchmarkTransformBatch(b *testing.B) {
	tmpl := benchTemplate()
	record := benchRecord()
	mappings := Suggest(record, tmpl)

	for _, size := range []int{1, 100} {
		records := make([]domain.Record, size)
		for i := range records {
			records[i] = benchRecord()
		}
		b.Run(fmt.Sprintf("records_%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = TransformBatch(records, mappings, tmpl)
			}
		})
	}
}

func BenchmarkSimilarity(b *testing.B) {
	pairs := [][2]string{
		{"Quantity", "ShareMWh"},
		{"Account Number", "accountnumber"},
		{"Supplier", "supplier_name"},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, p := range pairs {
			_ = Similarity(p[0], p[1])
		}
	}
}

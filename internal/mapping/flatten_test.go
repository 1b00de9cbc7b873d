package mapping

import (
	"reflect"
	"testing"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]interface{}
		want   map[string]interface{}
	}{
		{
			name:   "nil record",
			record: nil,
			want:   map[string]interface{}{},
		},
		{
			name:   "flat record is identity",
			record: map[string]interface{}{"a": 1, "b": "x"},
			want:   map[string]interface{}{"a": 1, "b": "x"},
		},
		{
			name: "nested objects get dotted paths",
			record: map[string]interface{}{
				"meta": map[string]interface{}{
					"source": map[string]interface{}{"id": "ds1"},
					"page":   2,
				},
				"total": 10,
			},
			want: map[string]interface{}{
				"meta.source.id": "ds1",
				"meta.page":      2,
				"total":          10,
			},
		},
		{
			name: "arrays stay as leaves",
			record: map[string]interface{}{
				"records": []interface{}{
					map[string]interface{}{"v": 1},
				},
				"tags": []interface{}{"a", "b"},
			},
			want: map[string]interface{}{
				"records": []interface{}{map[string]interface{}{"v": 1}},
				"tags":    []interface{}{"a", "b"},
			},
		},
		{
			name:   "null leaves are kept",
			record: map[string]interface{}{"a": map[string]interface{}{"b": nil}},
			want:   map[string]interface{}{"a.b": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flatten(tt.record)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Flatten() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlatPathsSorted(t *testing.T) {
	flat := Flatten(map[string]interface{}{
		"b": 1,
		"a": map[string]interface{}{"z": 1, "c": 2},
	})
	got := FlatPaths(flat)
	want := []string{"a.c", "a.z", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FlatPaths() = %v, want %v", got, want)
	}
}

func TestResolve(t *testing.T) {
	record := map[string]interface{}{
		"data": map[string]interface{}{
			"rows": []interface{}{
				map[string]interface{}{"qty": 42.0},
			},
		},
		"name": "test",
	}

	tests := []struct {
		path string
		want interface{}
	}{
		{"name", "test"},
		{"data.rows[*].qty", 42.0},
		{"data.rows.0.qty", 42.0},
		{"data.missing", nil},
		{"", nil},
	}

	for _, tt := range tests {
		if got := Resolve(record, tt.path); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Resolve(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

package mapping

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Account_Number!", "accountnumber"},
		{"Start Date", "date"},
		{"EndTime", "date"},
		{"Usage Amount", "usagequantity"},
		{"Total Cost", "totalcost"},
		{"Unit Price", "unitcost"},
		{"PriceArea", "costarea"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Quantity", "quantity", 1},
		{"Account Number", "accountnumber", 1},
		{"account", "accountnumber", 0.8},
		{"", "", 1},
	}
	for _, tt := range tests {
		if got := Similarity(tt.a, tt.b); got != tt.want {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"organization", "orgnization"},
		{"supplier", "vendor"},
		{"reference", "refid"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q, %q) = %v but reversed = %v", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarityIdentity(t *testing.T) {
	for _, s := range []string{"organization", "Start Date", "ShareMWh", "x"} {
		if got := Similarity(s, s); got != 1 {
			t.Errorf("Similarity(%q, %q) = %v, want 1", s, s, got)
		}
	}
}

func TestBestMatch(t *testing.T) {
	t.Run("no candidates", func(t *testing.T) {
		if _, _, ok := BestMatch("Quantity", nil); ok {
			t.Error("BestMatch with no candidates should not match")
		}
	})

	t.Run("alias table match", func(t *testing.T) {
		path, score, ok := BestMatch("Quantity", []string{"PriceArea", "ShareMWh"})
		if !ok || path != "ShareMWh" {
			t.Fatalf("BestMatch = %q, %v, want ShareMWh", path, ok)
		}
		if score <= minMatchScore {
			t.Errorf("alias match score = %v, want > %v", score, minMatchScore)
		}
	})

	t.Run("location alias prefers price area", func(t *testing.T) {
		path, _, ok := BestMatch("Location", []string{"HourDK", "PriceArea", "ShareMWh"})
		if !ok || path != "PriceArea" {
			t.Errorf("BestMatch = %q, %v, want PriceArea", path, ok)
		}
	})

	t.Run("record start maps to hour columns", func(t *testing.T) {
		path, _, ok := BestMatch("Record Start", []string{"HourUTC", "ShareMWh"})
		if !ok || path != "HourUTC" {
			t.Errorf("BestMatch = %q, %v, want HourUTC", path, ok)
		}
	})

	t.Run("direct similarity fallback", func(t *testing.T) {
		path, _, ok := BestMatch("Supplier", []string{"supplier_name", "qty"})
		if !ok || path != "supplier_name" {
			t.Errorf("BestMatch = %q, %v, want supplier_name", path, ok)
		}
	})

	t.Run("below threshold returns none", func(t *testing.T) {
		if path, _, ok := BestMatch("Supplier", []string{"zzz"}); ok {
			t.Errorf("BestMatch = %q, want no match", path)
		}
	})

	t.Run("first candidate wins ties", func(t *testing.T) {
		path, _, ok := BestMatch("Notes", []string{"notes_a", "notes_b"})
		if !ok || path != "notes_a" {
			t.Errorf("BestMatch = %q, %v, want notes_a", path, ok)
		}
	})
}

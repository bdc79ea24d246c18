package keyword

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"identical empty", "", "", 0},
		{"identical word", "theft", "theft", 0},
		{"empty a", "", "fraud", 5},
		{"empty b", "fraud", "", 5},
		{"one substitution", "theft", "thaft", 1},
		{"one insertion", "fraud", "frauds", 1},
		{"one deletion", "vandalism", "vandlism", 1},
		{"kitten to sitting", "kitten", "sitting", 3},
		{"case difference", "Theft", "theft", 1},
		{"unicode substitution", "café", "cafe", 1},
		{"transposition counts twice", "ab", "ba", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := LevenshteinDistance(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}
			if rev := LevenshteinDistance(tt.b, tt.a); rev != result {
				t.Errorf("not symmetric: (%q,%q)=%d, reverse=%d", tt.a, tt.b, result, rev)
			}
		})
	}
}

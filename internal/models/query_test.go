package models

import (
	"errors"
	"testing"
)

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name     string
		query    *SearchQuery
		wantErr  error
		wantSize int
		wantFrom int
	}{
		{"empty query is allowed", &SearchQuery{}, nil, DefaultPageSize, 0},
		{"caps size", &SearchQuery{Size: 500}, nil, MaxPageSize, 0},
		{"negative from becomes zero", &SearchQuery{From: -3, Size: 5}, nil, 5, 0},
		{"unknown sort field", &SearchQuery{Sort: []SortSpec{{Field: "salary"}}}, ErrUnknownField, 0, 0},
		{"bad sort order", &SearchQuery{Sort: []SortSpec{{Field: FieldDate, Order: "up"}}}, ErrInvalidQuery, 0, 0},
		{"negative radius", &SearchQuery{Filters: Filters{Location: &GeoFilter{RadiusKm: -1}}}, ErrInvalidQuery, 0, 0},
		{"center out of range", &SearchQuery{Filters: Filters{Location: &GeoFilter{Center: GeoPoint{Lat: 91}, RadiusKm: 5}}}, ErrInvalidQuery, 0, 0},
		{"reversed date range", &SearchQuery{Filters: Filters{DateRange: &DateRange{
			From: NewDate(2025, 1, 9), To: NewDate(2025, 1, 1),
		}}}, ErrInvalidQuery, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if tt.query.Size != tt.wantSize {
				t.Errorf("Size = %d, want %d", tt.query.Size, tt.wantSize)
			}
			if tt.query.From != tt.wantFrom {
				t.Errorf("From = %d, want %d", tt.query.From, tt.wantFrom)
			}
		})
	}
}

func TestSearchQuery_Term(t *testing.T) {
	q := &SearchQuery{Query: "  THEFT "}
	if got := q.Term(); got != "theft" {
		t.Errorf("Term() = %q", got)
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := &DateRange{From: NewDate(2025, 1, 6), To: NewDate(2025, 1, 8)}
	tests := []struct {
		d    Date
		want bool
	}{
		{NewDate(2025, 1, 6), true},
		{NewDate(2025, 1, 8), true},
		{NewDate(2025, 1, 5), false},
		{NewDate(2025, 1, 9), false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.d); got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.d, got, tt.want)
		}
	}
	var open *DateRange
	if !open.Contains(NewDate(1999, 1, 1)) {
		t.Error("nil range should contain everything")
	}
	if !(&DateRange{From: NewDate(2025, 1, 7)}).Contains(NewDate(2030, 1, 1)) {
		t.Error("open upper bound should contain later dates")
	}
}

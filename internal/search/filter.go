package search

import (
	"slices"
	"strings"

	"github.com/hyperjump/crime360/internal/geo"
	"github.com/hyperjump/crime360/internal/models"
)

// matchesTerm reports whether term (already lowercased) occurs in any searchable text of inc.
func matchesTerm(inc *models.Incident, term string) bool {
	if term == "" {
		return true
	}
	for _, s := range []string{inc.CaseNumber, inc.Complainant.Name, inc.Accused.Name, inc.Description, inc.Location.Area} {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	for _, kw := range inc.Keywords {
		if strings.Contains(strings.ToLower(kw), term) {
			return true
		}
	}
	return false
}

// matchesFilters applies every non-empty filter dimension with AND semantics.
func matchesFilters(inc *models.Incident, f *models.Filters) bool {
	if len(f.Status) > 0 && !slices.Contains(f.Status, inc.Status) {
		return false
	}
	if len(f.Type) > 0 && !slices.Contains(f.Type, inc.Type) {
		return false
	}
	if len(f.Priority) > 0 && !slices.Contains(f.Priority, inc.Priority) {
		return false
	}
	if !f.DateRange.Contains(inc.Date) {
		return false
	}
	if loc := f.Location; loc != nil {
		c := inc.Location.Coordinates
		if geo.DistanceKm(loc.Center.Lat, loc.Center.Lon, c.Lat, c.Lon) > loc.RadiusKm {
			return false
		}
	}
	return true
}

// compareIncidents orders a and b by each sort key in turn. Zero means a full tie.
func compareIncidents(a, b *models.Incident, specs []models.SortSpec) int {
	for _, s := range specs {
		c := s.Field.Value(a).Compare(s.Field.Value(b))
		if s.Order == models.SortDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// page returns the [from, from+size) window of items, empty when from is past the end.
func page[T any](items []T, from, size int) []T {
	if from >= len(items) {
		return items[:0]
	}
	return items[from:min(from+size, len(items))]
}

package models

import (
	"fmt"
	"strings"
)

const (
	// DefaultPageSize is used when a query does not set Size.
	DefaultPageSize = 10
	// MaxPageSize caps Size.
	MaxPageSize = 100
)

// SortOrder is the direction of one sort key.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortSpec is one key of a multi-key sort. An empty Order means ascending.
type SortSpec struct {
	Field Field     `json:"field"`
	Order SortOrder `json:"order,omitempty"`
}

// DateRange is an inclusive range of filing dates. A zero bound is open.
type DateRange struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// Contains reports whether d falls within the range.
func (r *DateRange) Contains(d Date) bool {
	if r == nil {
		return true
	}
	if !r.From.IsZero() && d.Compare(r.From) < 0 {
		return false
	}
	if !r.To.IsZero() && d.Compare(r.To) > 0 {
		return false
	}
	return true
}

// Validate rejects ranges whose start is after their end.
func (r *DateRange) Validate() error {
	if r == nil || r.From.IsZero() || r.To.IsZero() {
		return nil
	}
	if r.From.Compare(r.To) > 0 {
		return fmt.Errorf("%w: date range starts %s after it ends %s", ErrInvalidQuery, r.From, r.To)
	}
	return nil
}

// GeoFilter keeps incidents within RadiusKm of Center.
type GeoFilter struct {
	Center   GeoPoint `json:"center"`
	RadiusKm float64  `json:"radiusKm"`
}

// Filters are combined with AND. Empty dimensions impose no constraint.
type Filters struct {
	Status    []CaseStatus `json:"status,omitempty"`
	Type      []string     `json:"type,omitempty"`
	Priority  []Priority   `json:"priority,omitempty"`
	DateRange *DateRange   `json:"dateRange,omitempty"`
	Location  *GeoFilter   `json:"location,omitempty"`
}

// SearchQuery is a full-text plus structured incident query.
type SearchQuery struct {
	Query   string     `json:"query"`
	Filters Filters    `json:"filters"`
	Sort    []SortSpec `json:"sort,omitempty"`
	From    int        `json:"from,omitempty"`
	Size    int        `json:"size,omitempty"`
	// Relevance orders matches by keyword index score when no explicit sort is given.
	Relevance bool `json:"relevance,omitempty"`
}

// Term returns the normalized search term; empty means no text constraint.
func (q *SearchQuery) Term() string {
	return strings.ToLower(strings.TrimSpace(q.Query))
}

// Validate normalizes paging with the package defaults and checks the query shape.
func (q *SearchQuery) Validate() error {
	return q.ValidateWithLimits(DefaultPageSize, MaxPageSize)
}

// ValidateWithLimits is Validate with caller-supplied paging limits.
func (q *SearchQuery) ValidateWithLimits(defaultSize, maxSize int) error {
	if q.Size <= 0 {
		q.Size = defaultSize
	}
	if q.Size > maxSize {
		q.Size = maxSize
	}
	if q.From < 0 {
		q.From = 0
	}
	for _, s := range q.Sort {
		if !s.Field.IsValid() {
			return fmt.Errorf("%w: sort field %q", ErrUnknownField, s.Field)
		}
		switch s.Order {
		case "", SortAsc, SortDesc:
		default:
			return fmt.Errorf("%w: sort order %q", ErrInvalidQuery, s.Order)
		}
	}
	if err := q.Filters.DateRange.Validate(); err != nil {
		return err
	}
	if loc := q.Filters.Location; loc != nil {
		if !loc.Center.Valid() {
			return fmt.Errorf("%w: location center out of range", ErrInvalidQuery)
		}
		if loc.RadiusKm < 0 {
			return fmt.Errorf("%w: negative radius", ErrInvalidQuery)
		}
	}
	return nil
}

package models

import "github.com/hyperjump/crime360/internal/geo"

// Hit is one ranked record in a search response.
type Hit[T any] struct {
	ID     string  `json:"id"`
	Key    string  `json:"key"`
	Score  float64 `json:"score"`
	Source T       `json:"source"`
}

// SearchResponse holds the full match count, one page of hits and the elapsed time.
type SearchResponse[T any] struct {
	Total  int      `json:"total"`
	Hits   []Hit[T] `json:"hits"`
	TookMs int64    `json:"took"`
	// Suggestions holds "did you mean" terms when a text query matched nothing.
	Suggestions []string `json:"suggestions,omitempty"`
}

// Bucket is one value and its occurrence count.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// FrequencyTable counts incidents per distinct value of Field, in first-seen order.
type FrequencyTable struct {
	Field   Field    `json:"field"`
	Buckets []Bucket `json:"buckets"`
}

// Count returns the count for key, or 0.
func (t FrequencyTable) Count(key string) int {
	for _, b := range t.Buckets {
		if b.Key == key {
			return b.Count
		}
	}
	return 0
}

// Sum returns the total of all bucket counts.
func (t FrequencyTable) Sum() int {
	n := 0
	for _, b := range t.Buckets {
		n += b.Count
	}
	return n
}

// TimeBucket is the number of incidents filed on Date.
type TimeBucket struct {
	Date  Date `json:"date"`
	Count int  `json:"count"`
}

// KeywordCount is a keyword tag and how many incidents carry it.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// ResolutionTime is the mean days from filing to resolution over resolved cases with a
// recorded resolution date. Available is false when no such case exists.
type ResolutionTime struct {
	Available bool    `json:"available"`
	AvgDays   float64 `json:"avgDays"`
	Cases     int     `json:"cases"`
}

// DashboardSnapshot is the composite analytics read for a date range.
type DashboardSnapshot struct {
	DateRange      *DateRange     `json:"dateRange,omitempty"`
	TotalCount     int            `json:"totalCount"`
	ByType         FrequencyTable `json:"byType"`
	ByStatus       FrequencyTable `json:"byStatus"`
	ByPriority     FrequencyTable `json:"byPriority"`
	ByLocation     FrequencyTable `json:"byLocation"`
	Daily          []TimeBucket   `json:"daily"`
	TopKeywords    []KeywordCount `json:"topKeywords"`
	ResolutionTime ResolutionTime `json:"resolutionTime"`
}

// Bounds is a rectangular map viewport.
type Bounds struct {
	TopLeft     GeoPoint `json:"topLeft"`
	BottomRight GeoPoint `json:"bottomRight"`
}

// Box converts b to a geo bounding box.
func (b Bounds) Box() geo.Box {
	return geo.Box{
		North: b.TopLeft.Lat,
		West:  b.TopLeft.Lon,
		South: b.BottomRight.Lat,
		East:  b.BottomRight.Lon,
	}
}

// HeatmapPoint is one incident plotted on the heatmap.
type HeatmapPoint struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Weight int     `json:"weight"`
	Type   string  `json:"type"`
	Count  int     `json:"count"`
}

// Heatmap is the set of plotted incidents with per-dimension counts.
type Heatmap struct {
	Points     []HeatmapPoint `json:"points"`
	Total      int            `json:"total"`
	ByType     FrequencyTable `json:"byType"`
	ByPriority FrequencyTable `json:"byPriority"`
	ByStatus   FrequencyTable `json:"byStatus"`
}

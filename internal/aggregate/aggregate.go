// Package aggregate summarises incidents into frequency tables, time series, keyword rankings,
// resolution statistics, heatmaps and dashboard snapshots.
package aggregate

import (
	"cmp"
	"slices"

	"github.com/hyperjump/crime360/internal/models"
)

// DefaultTopKeywords is the keyword ranking length used when none is configured.
const DefaultTopKeywords = 10

// Frequency counts incidents per distinct value of field. Buckets appear in the order their
// value was first seen, and their counts sum to len(incidents).
func Frequency(incidents []models.Incident, field models.Field) models.FrequencyTable {
	table := models.FrequencyTable{Field: field, Buckets: make([]models.Bucket, 0)}
	pos := make(map[string]int)
	for i := range incidents {
		key := field.Value(&incidents[i]).Key()
		if j, ok := pos[key]; ok {
			table.Buckets[j].Count++
			continue
		}
		pos[key] = len(table.Buckets)
		table.Buckets = append(table.Buckets, models.Bucket{Key: key, Count: 1})
	}
	return table
}

// TopKeywords ranks keyword tags by how many incidents carry them, highest first, keeping at
// most n entries. Equal counts keep first-seen order. n <= 0 means DefaultTopKeywords.
func TopKeywords(incidents []models.Incident, n int) []models.KeywordCount {
	if n <= 0 {
		n = DefaultTopKeywords
	}
	counts := make([]models.KeywordCount, 0)
	pos := make(map[string]int)
	for i := range incidents {
		for _, kw := range incidents[i].Keywords {
			if j, ok := pos[kw]; ok {
				counts[j].Count++
				continue
			}
			pos[kw] = len(counts)
			counts = append(counts, models.KeywordCount{Keyword: kw, Count: 1})
		}
	}
	slices.SortStableFunc(counts, func(a, b models.KeywordCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// TimeSeries counts incidents per filing date in ascending date order.
func TimeSeries(incidents []models.Incident) []models.TimeBucket {
	buckets := make([]models.TimeBucket, 0)
	pos := make(map[string]int)
	for i := range incidents {
		key := incidents[i].Date.String()
		if j, ok := pos[key]; ok {
			buckets[j].Count++
			continue
		}
		pos[key] = len(buckets)
		buckets = append(buckets, models.TimeBucket{Date: incidents[i].Date, Count: 1})
	}
	slices.SortFunc(buckets, func(a, b models.TimeBucket) int {
		return a.Date.Compare(b.Date)
	})
	return buckets
}

// ResolutionTime averages the days between filing and resolution over resolved incidents
// that record a resolution date.
func ResolutionTime(incidents []models.Incident) models.ResolutionTime {
	var total float64
	cases := 0
	for i := range incidents {
		inc := &incidents[i]
		if inc.Status != models.StatusResolved || inc.ResolvedOn == nil {
			continue
		}
		total += inc.Date.DaysUntil(*inc.ResolvedOn)
		cases++
	}
	if cases == 0 {
		return models.ResolutionTime{}
	}
	return models.ResolutionTime{Available: true, AvgDays: total / float64(cases), Cases: cases}
}

// FilterByDate keeps incidents filed within r. A nil range keeps everything.
func FilterByDate(incidents []models.Incident, r *models.DateRange) []models.Incident {
	if r == nil {
		return incidents
	}
	out := make([]models.Incident, 0, len(incidents))
	for i := range incidents {
		if r.Contains(incidents[i].Date) {
			out = append(out, incidents[i])
		}
	}
	return out
}

// BuildHeatmap plots each incident inside bounds weighted by priority. Nil bounds keep all.
func BuildHeatmap(incidents []models.Incident, bounds *models.Bounds) models.Heatmap {
	kept := incidents
	if bounds != nil {
		box := bounds.Box()
		kept = make([]models.Incident, 0, len(incidents))
		for i := range incidents {
			c := incidents[i].Location.Coordinates
			if box.Contains(c.Lat, c.Lon) {
				kept = append(kept, incidents[i])
			}
		}
	}
	points := make([]models.HeatmapPoint, len(kept))
	for i := range kept {
		points[i] = models.HeatmapPoint{
			Lat:    kept[i].Location.Coordinates.Lat,
			Lon:    kept[i].Location.Coordinates.Lon,
			Weight: kept[i].Priority.Weight(),
			Type:   kept[i].Type,
			Count:  1,
		}
	}
	return models.Heatmap{
		Points:     points,
		Total:      len(kept),
		ByType:     Frequency(kept, models.FieldType),
		ByPriority: Frequency(kept, models.FieldPriority),
		ByStatus:   Frequency(kept, models.FieldStatus),
	}
}

// Dashboard builds the composite analytics read over incidents filed within r.
func Dashboard(incidents []models.Incident, r *models.DateRange, topKeywords int) models.DashboardSnapshot {
	data := FilterByDate(incidents, r)
	return models.DashboardSnapshot{
		DateRange:      r,
		TotalCount:     len(data),
		ByType:         Frequency(data, models.FieldType),
		ByStatus:       Frequency(data, models.FieldStatus),
		ByPriority:     Frequency(data, models.FieldPriority),
		ByLocation:     Frequency(data, models.FieldArea),
		Daily:          TimeSeries(data),
		TopKeywords:    TopKeywords(data, topKeywords),
		ResolutionTime: ResolutionTime(data),
	}
}

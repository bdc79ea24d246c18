package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/hyperjump/crime360/internal/aggregate"
	"github.com/hyperjump/crime360/internal/config"
	"github.com/hyperjump/crime360/internal/keyword"
	"github.com/hyperjump/crime360/internal/models"
	"github.com/hyperjump/crime360/internal/search"
	"github.com/hyperjump/crime360/internal/store"
	"github.com/hyperjump/crime360/internal/vector"
)

// largeSnapshot repeats the builtin datasets under distinct names.
func largeSnapshot(b *testing.B, copies int) *store.Snapshot {
	b.Helper()
	base, err := store.Builtin()
	if err != nil {
		b.Fatal(err)
	}
	var datasets []store.Dataset
	for i := 0; i < copies; i++ {
		for _, ds := range base.Split() {
			ds.Name = fmt.Sprintf("%s-%d", ds.Name, i)
			datasets = append(datasets, ds)
		}
	}
	snap, err := store.NewSnapshot("bench", datasets)
	if err != nil {
		b.Fatal(err)
	}
	return snap
}

func newBenchEngine(b *testing.B, copies int) *search.Engine {
	b.Helper()
	e, err := search.NewEngine(context.Background(), largeSnapshot(b, copies), nil)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = e.Close() })
	return e
}

func BenchmarkSearch_Substring(b *testing.B) {
	e := newBenchEngine(b, 250)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Search(ctx, &models.SearchQuery{Query: "theft"})
	}
}

func BenchmarkSearch_FilterSort(b *testing.B) {
	e := newBenchEngine(b, 250)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Search(ctx, &models.SearchQuery{
			Filters: models.Filters{
				Location: &models.GeoFilter{Center: models.GeoPoint{Lat: 12.9716, Lon: 77.5946}, RadiusKm: 15},
			},
			Sort: []models.SortSpec{
				{Field: models.FieldPriority, Order: models.SortDesc},
				{Field: models.FieldDate},
			},
			Size: 50,
		})
	}
}

func BenchmarkSearchBySimilarity(b *testing.B) {
	e := newBenchEngine(b, 250)
	ctx := context.Background()
	probe := []float64{0.8, 0.6, 0.4, 0.2, 0.1}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.SearchBySimilarity(ctx, probe, 0.8)
	}
}

func BenchmarkMemoryIndexSearch(b *testing.B) {
	idx := vector.NewMemoryIndex()
	ctx := context.Background()
	vecs := make([][]float64, 1000)
	ids := make([]string, 1000)
	for i := range vecs {
		vecs[i] = make([]float64, 128)
		vecs[i][0] = float64(i) / 1000
		vecs[i][1] = 1
		ids[i] = fmt.Sprintf("p%d", i)
	}
	_ = idx.Add(ctx, ids, vecs)
	query := make([]float64, 128)
	query[0] = 1.0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = idx.Search(ctx, query, 0.5)
	}
}

func BenchmarkDashboard(b *testing.B) {
	incidents := largeSnapshot(b, 250).Incidents()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = aggregate.Dashboard(incidents, nil, aggregate.DefaultTopKeywords)
	}
}

func BenchmarkAnalyticsSnapshotCached(b *testing.B) {
	e := aggregate.NewEngine(largeSnapshot(b, 250), &config.Default().Analytics)
	defer e.Close()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Snapshot(ctx, nil)
	}
}

func BenchmarkLevenshteinDistance(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = keyword.LevenshteinDistance("vandalsm", "vandalism")
	}
}

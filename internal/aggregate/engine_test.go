package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hyperjump/crime360/internal/config"
	"github.com/hyperjump/crime360/internal/metrics"
	"github.com/hyperjump/crime360/internal/models"
	"github.com/hyperjump/crime360/internal/store"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	snap, err := store.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	e := NewEngine(snap, &config.AnalyticsConfig{TopKeywords: 5, CacheTTLSec: 60})
	t.Cleanup(e.Close)
	return e
}

func TestEngine_AggregateBy(t *testing.T) {
	e := newTestEngine(t)
	table, err := e.AggregateBy("location.area")
	if err != nil {
		t.Fatal(err)
	}
	if table.Count("Koramangala") != 2 || table.Sum() != 8 {
		t.Errorf("area table = %+v", table)
	}
	if _, err := e.AggregateBy("complainant.shoeSize"); !errors.Is(err, models.ErrUnknownField) {
		t.Errorf("unknown field err = %v", err)
	}
}

func TestEngine_Heatmap(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	inverted := &models.Bounds{
		TopLeft:     models.GeoPoint{Lat: 12.8, Lon: 77.5},
		BottomRight: models.GeoPoint{Lat: 13.1, Lon: 77.8},
	}
	if _, err := e.Heatmap(ctx, inverted); !errors.Is(err, models.ErrInvalidQuery) {
		t.Errorf("inverted bounds err = %v", err)
	}

	mumbai := &models.Bounds{
		TopLeft:     models.GeoPoint{Lat: 19.3, Lon: 72.7},
		BottomRight: models.GeoPoint{Lat: 18.9, Lon: 73.0},
	}
	hm, err := e.Heatmap(ctx, mumbai)
	if err != nil {
		t.Fatal(err)
	}
	if hm.Total != 3 {
		t.Errorf("mumbai total = %d, want 3", hm.Total)
	}
}

func TestEngine_SnapshotIsCached(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	r := &models.DateRange{From: models.NewDate(2025, 1, 6), To: models.NewDate(2025, 1, 7)}

	hits := testutil.ToFloat64(metrics.CacheTotal.WithLabelValues(cacheName, "hit"))
	misses := testutil.ToFloat64(metrics.CacheTotal.WithLabelValues(cacheName, "miss"))

	first, err := e.Snapshot(ctx, r)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Snapshot(ctx, r)
	if err != nil {
		t.Fatal(err)
	}
	if first.TotalCount != 4 || second.TotalCount != 4 {
		t.Errorf("totals = %d, %d, want 4", first.TotalCount, second.TotalCount)
	}
	if len(first.TopKeywords) > 5 {
		t.Errorf("top keywords = %d, want at most 5", len(first.TopKeywords))
	}
	if got := testutil.ToFloat64(metrics.CacheTotal.WithLabelValues(cacheName, "miss")) - misses; got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.CacheTotal.WithLabelValues(cacheName, "hit")) - hits; got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
}

func TestEngine_SnapshotRejectsReversedRange(t *testing.T) {
	e := newTestEngine(t)
	r := &models.DateRange{From: models.NewDate(2025, 1, 9), To: models.NewDate(2025, 1, 1)}
	if _, err := e.Snapshot(context.Background(), r); !errors.Is(err, models.ErrInvalidQuery) {
		t.Errorf("reversed range err = %v", err)
	}
}

package vector

import (
	"context"
	"math"
	"testing"
)

func TestMemoryIndex_AddSearch(t *testing.T) {
	idx := NewMemoryIndex()
	defer idx.Close()
	ctx := context.Background()

	vecs := [][]float64{
		{0.1, 0.2, 0.3, 0.4, 0.5},
		{0.6, 0.7, 0.8, 0.9, 1.0},
		{0.1, 0.2, 0.3, 0.4, 0.5},
		{1, 2},
	}
	ids := []string{"a", "b", "c", "short"}
	if err := idx.Add(ctx, ids, vecs); err != nil {
		t.Fatal(err)
	}
	if idx.Size() != 4 {
		t.Errorf("Size=%d", idx.Size())
	}

	results, err := idx.Search(ctx, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, 0.99)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// a and c hold the same vector and tie; insertion order is kept.
	if results[0].ID != "a" || results[1].ID != "c" {
		t.Errorf("order = %s, %s", results[0].ID, results[1].ID)
	}
	if results[1].Position != 2 {
		t.Errorf("position = %d, want 2", results[1].Position)
	}
	if math.Abs(results[0].Score-1.0) > 1e-9 {
		t.Errorf("self similarity = %f", results[0].Score)
	}
}

func TestMemoryIndex_ThresholdMonotonic(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	_ = idx.Add(ctx, []string{"a", "b", "c"}, [][]float64{{1, 0}, {1, 1}, {0, 1}})

	prev := -1
	for _, th := range []float64{1.0, 0.9, 0.5, 0.0} {
		res, err := idx.Search(ctx, []float64{1, 0}, th)
		if err != nil {
			t.Fatal(err)
		}
		if prev >= 0 && len(res) < prev {
			t.Errorf("threshold %v returned %d results, fewer than stricter threshold (%d)", th, len(res), prev)
		}
		prev = len(res)
		for i := 1; i < len(res); i++ {
			if res[i].Score > res[i-1].Score {
				t.Errorf("results not descending at %d", i)
			}
		}
	}
}

func TestMemoryIndex_AddMismatch(t *testing.T) {
	idx := NewMemoryIndex()
	if err := idx.Add(context.Background(), []string{"a"}, nil); err == nil {
		t.Error("expected length mismatch error")
	}
}

func TestMemoryIndex_CancelledContext(t *testing.T) {
	idx := NewMemoryIndex()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := idx.Search(ctx, []float64{1}, 0); err == nil {
		t.Error("expected context error")
	}
}

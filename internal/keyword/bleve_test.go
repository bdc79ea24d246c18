package keyword

import (
	"context"
	"slices"
	"testing"

	"github.com/hyperjump/crime360/internal/models"
	"github.com/hyperjump/crime360/internal/store"
)

func newSeededIndex(t *testing.T) (*BleveIndex, []models.Incident) {
	t.Helper()
	snap, err := store.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	idx, err := NewBleveIndex()
	if err != nil {
		t.Fatalf("NewBleveIndex: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	incidents := snap.Incidents()
	if err := idx.IndexIncidents(context.Background(), incidents); err != nil {
		t.Fatalf("IndexIncidents: %v", err)
	}
	return idx, incidents
}

func keyOf(incidents []models.Incident, caseNumber string) string {
	for i := range incidents {
		if incidents[i].CaseNumber == caseNumber {
			return incidents[i].Key()
		}
	}
	return ""
}

func TestBleveIndex_DocCount(t *testing.T) {
	idx, incidents := newSeededIndex(t)
	n, err := idx.DocCount()
	if err != nil {
		t.Fatalf("DocCount: %v", err)
	}
	if int(n) != len(incidents) {
		t.Errorf("DocCount = %d, want %d", n, len(incidents))
	}
}

func TestBleveIndex_Search(t *testing.T) {
	idx, incidents := newSeededIndex(t)
	ctx := context.Background()

	results, err := idx.Search(ctx, "vandalized", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != keyOf(incidents, "FIRB001238") {
		t.Errorf("Search(vandalized) = %+v, want FIRB001238 only", results)
	}

	// Same ids exist in both datasets; keys keep them apart.
	results, err = idx.Search(ctx, "fraud", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	for _, cn := range []string{"FIR001236", "FIRB001236"} {
		if !slices.Contains(ids, keyOf(incidents, cn)) {
			t.Errorf("Search(fraud) missing %s", cn)
		}
	}

	results, err = idx.Search(ctx, "fraud", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("limit 1 returned %d results", len(results))
	}

	results, err = idx.Search(ctx, "xylophone", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search(xylophone) = %d results, want 0", len(results))
	}
}

func TestBleveIndex_Terms(t *testing.T) {
	idx, _ := newSeededIndex(t)

	terms, err := idx.GetAllTerms()
	if err != nil {
		t.Fatalf("GetAllTerms: %v", err)
	}
	for _, want := range []string{"theft", "wallet", "koramangala", "fir001234"} {
		if !slices.Contains(terms, want) {
			t.Errorf("GetAllTerms missing %q", want)
		}
	}
	seen := make(map[string]bool)
	for _, term := range terms {
		if seen[term] {
			t.Errorf("duplicate term %q", term)
		}
		seen[term] = true
	}

	freq, err := idx.GetTermFrequency("koramangala")
	if err != nil {
		t.Fatalf("GetTermFrequency: %v", err)
	}
	if freq != 2 {
		t.Errorf("GetTermFrequency(koramangala) = %d, want 2", freq)
	}
}

func TestBleveIndex_CancelledContext(t *testing.T) {
	snap, err := store.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	idx, err := NewBleveIndex()
	if err != nil {
		t.Fatalf("NewBleveIndex: %v", err)
	}
	defer func() { _ = idx.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := idx.IndexIncidents(ctx, snap.Incidents()); err == nil {
		t.Error("expected context error")
	}
}

func TestSpellChecker_OverBleve(t *testing.T) {
	idx, _ := newSeededIndex(t)
	sc := NewSpellChecker(idx, WithMaxSuggestions(3))

	got, err := sc.Suggestions("vandalsm")
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if len(got) == 0 || got[0] != "vandalism" {
		t.Errorf("Suggestions(vandalsm) = %v, want vandalism first", got)
	}
}

// Package integration runs the HTTP API over real storage backends.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/crime360/internal/app"
	"github.com/hyperjump/crime360/internal/config"
	"github.com/hyperjump/crime360/internal/models"
	"github.com/hyperjump/crime360/internal/server"
	"github.com/hyperjump/crime360/internal/store"
)

// newSQLiteServer imports the builtin seed into a fresh database and serves it.
func newSQLiteServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "crime360.db")

	snap, err := store.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	db, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Import(ctx, snap); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Seed = config.SeedConfig{Source: store.SourceSQLite, DatabasePath: dbPath}
	rt, err := app.Build(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	srv := server.NewServer(rt, &cfg.Server, nil, server.WithReloader(func(ctx context.Context) (*app.Runtime, error) {
		return app.Build(ctx, cfg, nil)
	}))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Stop(context.Background())
	})
	return ts
}

func postJSON(t *testing.T, url string, v interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestIntegration_SQLiteSearch(t *testing.T) {
	ts := newSQLiteServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/incidents/search", models.SearchQuery{
		Query: "theft",
		Sort:  []models.SortSpec{{Field: models.FieldDate, Order: models.SortDesc}},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var result models.SearchResponse[models.Incident]
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Total != 4 {
		t.Fatalf("total = %d, want 4", result.Total)
	}
	for i := 1; i < len(result.Hits); i++ {
		if result.Hits[i-1].Source.Date.Compare(result.Hits[i].Source.Date) < 0 {
			t.Errorf("hits not in descending date order at %d", i)
		}
	}
}

func TestIntegration_SQLiteFacesAndAnalytics(t *testing.T) {
	ts := newSQLiteServer(t)

	snap, err := store.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	probe := snap.Persons()[0]
	resp := postJSON(t, ts.URL+"/api/v1/faces/search", map[string]interface{}{
		"features":  probe.Features,
		"threshold": 0.99,
	})
	defer resp.Body.Close()
	var faces models.SearchResponse[models.Person]
	if err := json.NewDecoder(resp.Body).Decode(&faces); err != nil {
		t.Fatal(err)
	}
	if len(faces.Hits) == 0 || faces.Hits[0].Source.PersonID != probe.PersonID {
		t.Errorf("face hits = %+v", faces.Hits)
	}

	aresp, err := http.Get(ts.URL + "/api/v1/analytics")
	if err != nil {
		t.Fatal(err)
	}
	defer aresp.Body.Close()
	var dash models.DashboardSnapshot
	if err := json.NewDecoder(aresp.Body).Decode(&dash); err != nil {
		t.Fatal(err)
	}
	if dash.TotalCount != len(snap.Incidents()) {
		t.Errorf("dashboard total = %d, want %d", dash.TotalCount, len(snap.Incidents()))
	}
}

func TestIntegration_FileSourceReload(t *testing.T) {
	ctx := context.Background()
	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(seedPath, store.BuiltinYAML(), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Seed = config.SeedConfig{Source: store.SourceFile, Path: seedPath}
	rt, err := app.Build(ctx, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	srv := server.NewServer(rt, &cfg.Server, nil, server.WithReloader(func(ctx context.Context) (*app.Runtime, error) {
		return app.Build(ctx, cfg, nil)
	}))
	ts := httptest.NewServer(srv.Router())
	defer func() {
		ts.Close()
		_ = srv.Stop(context.Background())
	}()

	datasets := rt.Snapshot.Split()
	data, err := json.Marshal(map[string]interface{}{"datasets": datasets[:1]})
	if err != nil {
		t.Fatal(err)
	}
	jsonPath := filepath.Join(filepath.Dir(seedPath), "seed.json")
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg.Seed.Path = jsonPath

	resp, err := http.Post(ts.URL+"/api/v1/admin/reload", "application/json", http.NoBody)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reload status = %d", resp.StatusCode)
	}

	sresp := postJSON(t, ts.URL+"/api/v1/incidents/search", models.SearchQuery{})
	defer sresp.Body.Close()
	var result models.SearchResponse[models.Incident]
	if err := json.NewDecoder(sresp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Total != len(datasets[0].Incidents) {
		t.Errorf("total after reload = %d, want %d", result.Total, len(datasets[0].Incidents))
	}
}

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, BuiltinYAML(), 0644); err != nil {
		t.Fatal(err)
	}
	snap, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Incidents()) != 8 {
		t.Errorf("incidents = %d", len(snap.Incidents()))
	}
	if snap.Source() != "file:"+path {
		t.Errorf("source = %q", snap.Source())
	}
}

func TestLoadFile_JSON(t *testing.T) {
	builtin, err := Builtin()
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(seedFile{Datasets: builtin.Split()})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	snap, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Incidents()) != 8 || len(snap.Persons()) != 4 {
		t.Errorf("counts = %d/%d", len(snap.Incidents()), len(snap.Persons()))
	}
	got := snap.Incidents()[2]
	if got.ResolvedOn == nil || got.ResolvedOn.String() != "2025-01-20" {
		t.Errorf("resolvedOn = %v", got.ResolvedOn)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("datasets: [: :"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected parse error")
	}
}

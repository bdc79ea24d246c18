package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed seed/crime360.yaml
var builtinSeed []byte

// seedFile is the on-disk layout shared by the built-in seed and seed files.
type seedFile struct {
	Datasets []Dataset `json:"datasets" yaml:"datasets"`
}

// Builtin returns a snapshot of the embedded demonstration datasets.
func Builtin() (*Snapshot, error) {
	datasets, err := ParseYAML(builtinSeed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in seed: %w", err)
	}
	return NewSnapshot("builtin", datasets)
}

// BuiltinYAML returns a copy of the embedded seed document.
func BuiltinYAML() []byte {
	return append([]byte(nil), builtinSeed...)
}

// LoadFile reads a seed file. Files ending in .json are parsed as JSON, anything else as YAML.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var datasets []Dataset
	if strings.EqualFold(filepath.Ext(path), ".json") {
		datasets, err = ParseJSON(data)
	} else {
		datasets, err = ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return NewSnapshot("file:"+path, datasets)
}

// ParseYAML decodes a seed document in YAML.
func ParseYAML(data []byte) ([]Dataset, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Datasets, nil
}

// ParseJSON decodes a seed document in JSON.
func ParseJSON(data []byte) ([]Dataset, error) {
	var f seedFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Datasets, nil
}

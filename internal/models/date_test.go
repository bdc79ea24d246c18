package models

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2025-01-08", "2025-01-08", false},
		{"2025-01-08T23:30:00Z", "2025-01-08", false},
		{"", "", false},
		{"08/01/2025", "", true},
	}
	for _, tt := range tests {
		d, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseDate(%q) error = %v", tt.in, err)
		}
		if d.String() != tt.want {
			t.Errorf("ParseDate(%q) = %q, want %q", tt.in, d, tt.want)
		}
	}
}

func TestDate_JSONAndYAML(t *testing.T) {
	var v struct {
		D Date `json:"d" yaml:"d"`
	}
	if err := json.Unmarshal([]byte(`{"d":"2025-01-06"}`), &v); err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"d":"2025-01-06"}` {
		t.Errorf("json = %s", out)
	}

	if err := yaml.Unmarshal([]byte("d: 2025-01-09\n"), &v); err != nil {
		t.Fatal(err)
	}
	if v.D.Compare(NewDate(2025, 1, 9)) != 0 {
		t.Errorf("yaml date = %s", v.D)
	}
}

func TestDate_DaysUntil(t *testing.T) {
	if got := NewDate(2025, 1, 6).DaysUntil(NewDate(2025, 1, 20)); got != 14 {
		t.Errorf("DaysUntil = %v, want 14", got)
	}
}

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"elementals/internal/config"
)

func TestWriteFileReplacesAtomically(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "schema.json")
	data, err := render(false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := writeFile(out, data); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(got, &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if _, err := os.Stat(out + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestRenderDefaultsRoundTrips(t *testing.T) {
	data, err := render(true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := config.Default()
	if cfg.Width != want.Width || cfg.TPS != want.TPS || cfg.Refill != want.Refill || len(cfg.Cases) != len(want.Cases) {
		t.Fatalf("defaults changed in YAML: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("emitted defaults do not validate: %v", err)
	}
}

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"elementals/internal/config"
)

func main() {
	var outPath string
	var defaults bool
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema (stdout when empty)")
	flag.BoolVar(&defaults, "defaults", false, "emit the default configuration as YAML instead of the schema")
	flag.Parse()

	data, err := render(defaults)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build output: %v\n", err)
		os.Exit(1)
	}
	if outPath == "" {
		os.Stdout.Write(data)
		return
	}
	if err := writeFile(outPath, data); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", outPath, err)
		os.Exit(1)
	}
}

func render(defaults bool) ([]byte, error) {
	if !defaults {
		return config.SchemaJSON()
	}
	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return nil, fmt.Errorf("marshal defaults: %w", err)
	}
	return data, nil
}

func writeFile(outPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}

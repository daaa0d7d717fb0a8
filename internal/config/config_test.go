package config

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"elementals/internal/board"
	"elementals/internal/core"
	"elementals/internal/elemental"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if c.Size() != core.XY(50, 50) || c.TPS != 60 {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, `
width: 8
height: 4
refill: always
cases:
  - variant: ember
    weight: 1
  - variant: stone
    weight: 2.5
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Width != 8 || c.Height != 4 || c.Refill != RefillAlways {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.TPS != 60 || c.Seed != 42 {
		t.Fatal("unset keys should keep their defaults")
	}
	if len(c.Cases) != 2 || c.Cases[1].Variant != "stone" || c.Cases[1].Weight != 2.5 {
		t.Fatalf("cases should be replaced by the file, got %+v", c.Cases)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeFile(t, "width: [1, 2\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		is     error
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, ErrInvalidSize},
		{"negative height", func(c *Config) { c.Height = -1 }, ErrInvalidSize},
		{"unknown variant", func(c *Config) { c.Cases = append(c.Cases, Case{Variant: "plasma", Weight: 1}) }, ErrUnknownVariant},
		{"zero tps", func(c *Config) { c.TPS = 0 }, nil},
		{"bad refill", func(c *Config) { c.Refill = "maybe" }, nil},
		{"negative weight", func(c *Config) { c.Cases[0].Weight = -1 }, nil},
	}
	for _, tc := range cases {
		c := Default()
		tc.mutate(&c)
		err := c.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if tc.is != nil && !errors.Is(err, tc.is) {
			t.Fatalf("%s: error %v does not match %v", tc.name, err, tc.is)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	c := Default().Apply(map[string]string{
		"w":            "10",
		"h":            "nope",
		"tps":          "-5",
		"refill":       "NEVER",
		"weight.stone": "1",
		"weight.ember": "4",
		"weight.tide":  "-1",
	})
	if c.Width != 10 || c.Height != 50 || c.TPS != 60 || c.Refill != RefillNever {
		t.Fatalf("unexpected scalars %+v", c)
	}
	weights := map[string]float64{}
	for _, cs := range c.Cases {
		weights[cs.Variant] = cs.Weight
	}
	if weights["stone"] != 1 || weights["ember"] != 4 || weights["tide"] != 0 {
		t.Fatalf("unexpected weights %v", weights)
	}
	if Default().Cases[0].Weight != 5 {
		t.Fatal("Apply must not mutate the receiver's case table")
	}
}

func TestParseFileThenFlags(t *testing.T) {
	path := writeFile(t, "width: 8\nheight: 4\ntps: 10\n")
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c, err := Parse(fs, []string{"-config", path, "-tps", "25", "-set", "weight.ember=3"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Width != 8 || c.Height != 4 {
		t.Fatalf("file values lost: %+v", c)
	}
	if c.TPS != 25 {
		t.Fatalf("explicit flag should win over the file, tps=%d", c.TPS)
	}
	found := false
	for _, cs := range c.Cases {
		if cs.Variant == elemental.NameEmber && cs.Weight == 3 {
			found = true
		}
	}
	if !found {
		t.Fatalf("-set override missing from %+v", c.Cases)
	}
}

func TestParseRejectsBadSet(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := Parse(fs, []string{"-set", "novalue"}); err == nil {
		t.Fatal("expected error for -set without '='")
	}
}

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func TestGeneratorKeepsOrder(t *testing.T) {
	c := Default()
	c.Cases = []Case{{Variant: "spark", Weight: 1}, {Variant: "stone", Weight: 1}}
	gen, err := c.Generator(fixedSource(0))
	if err != nil {
		t.Fatal(err)
	}
	e, err := gen.Generate(core.XY(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if e.Variant() != "spark" {
		t.Fatalf("first case should own r=0, got %s", e.Variant())
	}

	c.Cases = append(c.Cases, Case{Variant: "plasma", Weight: 1})
	if _, err := c.Generator(fixedSource(0)); !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestDecider(t *testing.T) {
	ask := board.DeciderFunc(func() bool { return true })
	c := Default()
	if !c.Decider(ask).ConfirmRepopulate() {
		t.Fatal("ask policy should defer to the prompt")
	}
	if c.Decider(nil).ConfirmRepopulate() {
		t.Fatal("ask policy without a prompt should decline")
	}
	c.Refill = RefillAlways
	if !c.Decider(nil).ConfirmRepopulate() {
		t.Fatal("always policy should confirm")
	}
	c.Refill = RefillNever
	if c.Decider(ask).ConfirmRepopulate() {
		t.Fatal("never policy should decline")
	}
}

func TestSchemaDescribesCases(t *testing.T) {
	data, err := SchemaJSON()
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if doc["title"] != "Elementals Board Configuration" {
		t.Fatalf("unexpected title %v", doc["title"])
	}
	defs, ok := doc["$defs"].(map[string]any)
	if !ok {
		t.Fatalf("schema missing $defs: %s", data)
	}
	caseDef, ok := defs["Case"].(map[string]any)
	if !ok {
		t.Fatalf("schema missing Case definition: %v", defs)
	}
	props, _ := caseDef["properties"].(map[string]any)
	weight, _ := props["weight"].(map[string]any)
	if lo, ok := weight["minimum"].(float64); !ok || lo != 0 {
		t.Fatalf("weight should carry minimum 0, got %v", weight)
	}
}

func TestValidateRejectsNonFiniteWeights(t *testing.T) {
	for _, w := range []float64{math.NaN(), math.Inf(1), -1} {
		c := Default()
		c.Cases = []Case{{Variant: elemental.NameStone, Weight: w}}
		if err := c.Validate(); err == nil {
			t.Fatalf("weight %v should be rejected", w)
		}
	}
}

func TestApplyIgnoresNonFiniteWeights(t *testing.T) {
	c := Default()
	c.Cases = []Case{{Variant: elemental.NameStone, Weight: 1}}
	got := c.Apply(map[string]string{
		"weight.ember": "NaN",
		"weight.tide":  "+Inf",
		"weight.stone": "nan",
	})
	if len(got.Cases) != 1 || got.Cases[0].Weight != 1 {
		t.Fatalf("non-finite overrides applied: %+v", got.Cases)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestApplyAddsVariantsInStableOrder(t *testing.T) {
	c := Default()
	c.Cases = []Case{{Variant: elemental.NameStone, Weight: 1}}
	kv := map[string]string{
		"weight.tide":  "1",
		"weight.ember": "2",
		"weight.spark": "3",
		"weight.moss":  "4",
	}
	want := []string{elemental.NameStone, elemental.NameEmber, elemental.NameMoss, elemental.NameSpark, elemental.NameTide}
	for i := 0; i < 50; i++ {
		got := c.Apply(kv)
		names := make([]string, 0, len(got.Cases))
		for _, cs := range got.Cases {
			names = append(names, cs.Variant)
		}
		if !slices.Equal(names, want) {
			t.Fatalf("run %d: case order %v, want %v", i, names, want)
		}
	}
}

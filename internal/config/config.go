// Package config loads board settings from defaults, YAML files and flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"maps"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"elementals/internal/board"
	"elementals/internal/core"
	"elementals/internal/elemental"
	"elementals/internal/generator"
)

var (
	// ErrInvalidSize is returned for non-positive board dimensions.
	ErrInvalidSize = errors.New("board dimensions must be positive")
	// ErrUnknownVariant is returned for case table entries naming no registered variant.
	ErrUnknownVariant = errors.New("unknown variant")
)

// RefillPolicy decides what happens when the board stalls.
type RefillPolicy string

const (
	// RefillAsk defers to the frontend's prompt.
	RefillAsk RefillPolicy = "ask"
	// RefillAlways repopulates without asking.
	RefillAlways RefillPolicy = "always"
	// RefillNever leaves the board stalled until resumed by hand.
	RefillNever RefillPolicy = "never"
)

// Case is one entry of the generator case table.
type Case struct {
	Variant string  `yaml:"variant" json:"variant" jsonschema:"required,description=Registered variant name"`
	Weight  float64 `yaml:"weight" json:"weight" jsonschema:"description=Relative selection weight"`
}

// Config controls board dimensions, pacing and population.
type Config struct {
	Width  int          `yaml:"width" json:"width" jsonschema:"minimum=1"`
	Height int          `yaml:"height" json:"height" jsonschema:"minimum=1"`
	TPS    int          `yaml:"tps" json:"tps" jsonschema:"minimum=1,description=Target ticks per second"`
	Seed   int64        `yaml:"seed" json:"seed"`
	Scale  int          `yaml:"scale" json:"scale" jsonschema:"minimum=1,description=Pixels per cell in the GUI"`
	Refill RefillPolicy `yaml:"refill" json:"refill" jsonschema:"enum=ask,enum=always,enum=never"`
	Cases  []Case       `yaml:"cases" json:"cases"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		Width:  50,
		Height: 50,
		TPS:    core.DefaultTPS,
		Seed:   42,
		Scale:  12,
		Refill: RefillAsk,
		Cases: []Case{
			{Variant: elemental.NameStone, Weight: 5},
			{Variant: elemental.NameSpark, Weight: 3},
			{Variant: elemental.NameMoss, Weight: 2},
			{Variant: elemental.NameTide, Weight: 0},
			{Variant: elemental.NameEmber, Weight: 0},
		},
	}
}

// Load reads a YAML file on top of the defaults. A cases list in the file
// replaces the default table.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// Validate checks the configuration against the variant registry.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("tps must be positive, got %d", c.TPS)
	}
	switch c.Refill {
	case RefillAsk, RefillAlways, RefillNever:
	default:
		return fmt.Errorf("unknown refill policy %q", c.Refill)
	}
	for _, cs := range c.Cases {
		if _, ok := elemental.Lookup(cs.Variant); !ok {
			return fmt.Errorf("%w %q", ErrUnknownVariant, cs.Variant)
		}
		if !validWeight(cs.Weight) {
			return fmt.Errorf("variant %q has invalid weight %v", cs.Variant, cs.Weight)
		}
	}
	return nil
}

// Size is the board size as a coordinate.
func (c Config) Size() core.Coordinate { return core.XY(c.Width, c.Height) }

// Generator builds the case table in configuration order.
func (c Config) Generator(src generator.Source) (*generator.Weighted, error) {
	gen := generator.New(src)
	for _, cs := range c.Cases {
		v, ok := elemental.Lookup(cs.Variant)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownVariant, cs.Variant)
		}
		gen.SetCase(v, cs.Weight)
	}
	return gen, nil
}

// Decider maps the refill policy to a stall decider. ask is used for
// RefillAsk; a nil ask falls back to NeverRefill.
func (c Config) Decider(ask board.StallDecider) board.StallDecider {
	switch c.Refill {
	case RefillAlways:
		return board.AlwaysRefill
	case RefillAsk:
		if ask != nil {
			return ask
		}
	}
	return board.NeverRefill
}

// Apply overlays flag-style key/value pairs. Unparseable values are ignored.
// Keys: w, h, tps, seed, scale, refill and weight.<variant>.
func (c Config) Apply(kv map[string]string) Config {
	if kv == nil {
		return c
	}
	c.Cases = append([]Case(nil), c.Cases...)
	if v, ok := kv["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := kv["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := kv["tps"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.TPS = parsed
		}
	}
	if v, ok := kv["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := kv["scale"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Scale = parsed
		}
	}
	if v, ok := kv["refill"]; ok {
		c.Refill = RefillPolicy(strings.ToLower(v))
	}
	// Sorted so that new variants join the case table in a stable order.
	for _, key := range slices.Sorted(maps.Keys(kv)) {
		name, ok := strings.CutPrefix(key, "weight.")
		if !ok {
			continue
		}
		weight, err := strconv.ParseFloat(kv[key], 64)
		if err != nil || !validWeight(weight) {
			continue
		}
		c.setWeight(name, weight)
	}
	return c
}

func validWeight(w float64) bool {
	return w >= 0 && !math.IsInf(w, 0)
}

func (c *Config) setWeight(name string, weight float64) {
	for i := range c.Cases {
		if c.Cases[i].Variant == name {
			c.Cases[i].Weight = weight
			return
		}
	}
	c.Cases = append(c.Cases, Case{Variant: name, Weight: weight})
}

// Bind attaches the scalar settings to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "w", c.Width, "board width in cells")
	fs.IntVar(&c.Height, "h", c.Height, "board height in cells")
	fs.IntVar(&c.TPS, "tps", c.TPS, "target ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the generator")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.Func("refill", "stall policy: ask, always or never", func(v string) error {
		c.Refill = RefillPolicy(strings.ToLower(v))
		return nil
	})
}

// Parse reads args into a Config. A -config file is loaded first and flags
// given explicitly on the command line override it; repeatable -set key=value
// pairs are applied last.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	c := Default()
	var path string
	var overrides kvList
	fs.StringVar(&path, "config", "", "YAML configuration file")
	fs.Var(&overrides, "set", "override in key=value form, e.g. weight.ember=2 (repeatable)")
	c.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	if path != "" {
		flags := c
		loaded, err := Load(path)
		if err != nil {
			return c, err
		}
		c = loaded
		fs.Visit(func(f *flag.Flag) { c.copyFlag(f.Name, flags) })
	}
	c = c.Apply(overrides.Map())
	return c, c.Validate()
}

func (c *Config) copyFlag(name string, from Config) {
	switch name {
	case "w":
		c.Width = from.Width
	case "h":
		c.Height = from.Height
	case "tps":
		c.TPS = from.TPS
	case "seed":
		c.Seed = from.Seed
	case "scale":
		c.Scale = from.Scale
	case "refill":
		c.Refill = from.Refill
	}
}

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	*l = append(*l, value)
	return nil
}

// Map splits the entries into a key/value map; later entries win.
func (l kvList) Map() map[string]string {
	if len(l) == 0 {
		return nil
	}
	out := make(map[string]string, len(l))
	for _, kv := range l {
		parts := strings.SplitN(kv, "=", 2)
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out
}

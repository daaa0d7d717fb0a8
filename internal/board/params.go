package board

import (
	"strings"

	"elementals/internal/core"
	"elementals/internal/elemental"
	"elementals/internal/generator"
)

// MaxTPS is the highest target rate the controls accept.
const MaxTPS = 240

const (
	paramTPS          = "tps"
	weightParamPrefix = "weight."
	maxWeight         = 100
)

// CaseTable is implemented by generators whose weights can be inspected and
// edited at runtime.
type CaseTable interface {
	Cases() []generator.Case
	SetCase(v elemental.Variant, weight float64) bool
}

// Parameters snapshots the board settings and live statistics for display.
func (b *Board) Parameters() core.ParameterSnapshot {
	size := b.grid.Size()
	groups := []core.ParameterGroup{
		{
			Name: "Board",
			Params: []core.Parameter{
				core.IntParam("w", "Width", size.X),
				core.IntParam("h", "Height", size.Y),
				core.IntParam(paramTPS, "Target TPS", b.sched.TPS()),
				core.FloatParam("rate", "Measured TPS", b.sched.Rate()),
				core.Int64Param("ticks", "Ticks", int64(b.ticks)),
				core.IntParam("stalls", "Stalls", b.stalls),
			},
		},
	}
	if table, ok := b.gen.(CaseTable); ok {
		weights := core.ParameterGroup{Name: "Weights"}
		for _, c := range table.Cases() {
			weights.Params = append(weights.Params, core.FloatParam(weightParamPrefix+c.Variant.Name, c.Variant.Title, c.Weight))
		}
		groups = append(groups, weights)
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the settings a HUD may adjust.
func (b *Board) ParameterControls() []core.ParameterControl {
	controls := []core.ParameterControl{{
		Key:    paramTPS,
		Label:  "Target TPS",
		Type:   core.ParamTypeInt,
		Step:   5,
		Min:    1,
		Max:    MaxTPS,
		HasMin: true,
		HasMax: true,
	}}
	if table, ok := b.gen.(CaseTable); ok {
		for _, c := range table.Cases() {
			controls = append(controls, core.ParameterControl{
				Key:    weightParamPrefix + c.Variant.Name,
				Label:  c.Variant.Title,
				Type:   core.ParamTypeFloat,
				Step:   0.5,
				Min:    0,
				Max:    maxWeight,
				HasMin: true,
				HasMax: true,
			})
		}
	}
	return controls
}

// SetIntParameter updates an integer setting and reports whether key was known.
func (b *Board) SetIntParameter(key string, value int) bool {
	if key != paramTPS {
		return false
	}
	value = min(max(value, 1), MaxTPS)
	b.sched.SetTPS(value)
	b.logger.Info("target rate changed", "tps", value)
	return true
}

// SetFloatParameter updates a variant weight. New weights apply to the next
// fill; entities already on the board are untouched.
func (b *Board) SetFloatParameter(key string, value float64) bool {
	name, ok := strings.CutPrefix(key, weightParamPrefix)
	if !ok {
		return false
	}
	table, ok := b.gen.(CaseTable)
	if !ok {
		return false
	}
	for _, c := range table.Cases() {
		if c.Variant.Name == name {
			value = min(max(value, 0), maxWeight)
			table.SetCase(c.Variant, value)
			b.logger.Info("weight changed", "variant", name, "weight", value)
			return true
		}
	}
	return false
}

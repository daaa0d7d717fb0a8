//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"elementals/internal/board"
	"elementals/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Board is what the HUD reads from and adjusts.
type Board interface {
	Size() core.Coordinate
	Parameters() core.ParameterSnapshot
	ParameterControls() []core.ParameterControl
	SetIntParameter(key string, value int) bool
	SetFloatParameter(key string, value float64) bool
	Rate() float64
	Running() bool
	Moved() bool
	Ticks() uint64
	Counts() []board.Occupancy
}

// HUD renders the statistics and controls panel to the right of the board.
type HUD struct {
	board      Board
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot
	counts     []board.Occupancy

	controls     []hudControlState
	controlsTop  int
	panelOffsetX int

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for the provided board and panel width.
func NewHUD(b Board, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{board: b, width: width}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	controls := b.ParameterControls()
	h.controls = make([]hudControlState, len(controls))
	for i, ctrl := range controls {
		h.controls[i] = hudControlState{control: ctrl, value: "--"}
	}
	// One occupancy row per weight control at most.
	statsRows := len(controls)
	h.controlsTop = statsTop + statsRows*rowHeight + sectionGap
	h.layoutControls()
	return h
}

// Update refreshes the cached snapshot and handles clicks on the controls.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.snapshot = h.board.Parameters()
	h.counts = h.board.Counts()
	h.refreshControlValues()
	h.handleInput()
}

// Draw paints the HUD panel anchored to the right edge of the board view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := max(h.board.Size().Y*scale, h.minHeight())
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawStats()
	h.drawControls()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) minHeight() int {
	return h.controlsTop + len(h.controls)*lineHeight + panelPadding
}

func (h *HUD) drawStats() {
	face := basicfont.Face7x13
	text.Draw(h.panel, "Elementals", face, panelPadding, panelPadding+headerBaseline, textColor)

	target := 0
	if p, ok := h.snapshot.Lookup("tps"); ok {
		target, _ = strconv.Atoi(p.Value)
	}
	rate := h.board.Rate()
	badge := image.Rect(panelPadding, rateTop, panelPadding+badgeWidth, rateTop+badgeHeight)
	h.fillRect(badge, RateColor(rate, target).NRGBA())
	label := strconv.Itoa(int(math.Round(rate)))
	text.Draw(h.panel, label, face, badge.Min.X+4, badge.Max.Y-5, color.Black)
	text.Draw(h.panel, fmt.Sprintf("TPS of %d  %s", target, h.status()), face, badge.Max.X+buttonGap, badge.Max.Y-5, dimColor)

	for i, occ := range h.counts {
		top := statsTop + i*rowHeight
		swatch := image.Rect(panelPadding, top+3, panelPadding+swatchSize, top+3+swatchSize)
		h.fillRect(swatch, occ.Color.NRGBA())
		text.Draw(h.panel, occ.Title, face, swatch.Max.X+buttonGap, top+labelBaseline-6, textColor)
		count := strconv.Itoa(occ.Count)
		bounds := text.BoundString(face, count)
		text.Draw(h.panel, count, face, h.width-panelPadding-bounds.Dx(), top+labelBaseline-6, textColor)
	}
}

func (h *HUD) status() string {
	status := Status(h.board.Running(), h.board.Moved(), h.board.Ticks())
	if status == StatusStalled {
		return status + " (R to refill)"
	}
	return status
}

// RateColor grades the measured rate against the target from red to green.
func RateColor(rate float64, target int) core.Color {
	ratio := 0.0
	if target > 0 {
		ratio = rate / float64(target)
	}
	return core.HSV(120*math.Min(math.Max(0, ratio), 1), 100, 100)
}

func (h *HUD) refreshControlValues() {
	for i := range h.controls {
		state := &h.controls[i]
		state.hasValue = false
		state.value = "--"
		param, ok := h.snapshot.Lookup(state.control.Key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			continue
		}
		state.current = parsed
		state.value = h.format(state.control, parsed)
		state.hasValue = true
	}
}

func (h *HUD) handleInput() {
	if len(h.controls) == 0 {
		return
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, my, state.minusRect) {
			h.applyAdjustment(state, -1)
			return
		}
		if pointInRect(px, my, state.plusRect) {
			h.applyAdjustment(state, 1)
			return
		}
	}
}

// target computes the value one step away in direction, clamped to the
// control's bounds. ok is false when the step would not change anything.
func (h *HUD) target(state *hudControlState, direction int) (float64, bool) {
	ctrl := state.control
	step := ctrl.Step
	if step <= 0 {
		step = defaultStep(ctrl.Type)
	}
	next := state.current + float64(direction)*step
	if ctrl.HasMin && next < ctrl.Min {
		next = ctrl.Min
	}
	if ctrl.HasMax && next > ctrl.Max {
		next = ctrl.Max
	}
	if ctrl.Type == core.ParamTypeInt {
		next = math.Round(next)
	}
	return next, math.Abs(next-state.current) > 1e-9
}

func (h *HUD) applyAdjustment(state *hudControlState, direction int) {
	next, ok := h.target(state, direction)
	if !ok {
		return
	}
	var applied bool
	switch state.control.Type {
	case core.ParamTypeInt:
		applied = h.board.SetIntParameter(state.control.Key, int(next))
	case core.ParamTypeFloat:
		applied = h.board.SetFloatParameter(state.control.Key, next)
	}
	if applied {
		state.current = next
		state.value = h.format(state.control, next)
	}
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	text.Draw(h.panel, "Controls", face, panelPadding, h.controlsTop-6, dimColor)
	for i := range h.controls {
		state := &h.controls[i]
		labelY := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, textColor)
		valueColor := textColor
		if !state.hasValue {
			valueColor = dimColor
		}
		bounds := text.BoundString(face, state.value)
		valueX := state.minusRect.Min.X - buttonGap - bounds.Dx()
		text.Draw(h.panel, state.value, face, valueX, labelY, valueColor)

		_, minusOK := h.target(state, -1)
		_, plusOK := h.target(state, 1)
		h.drawButton(state.minusRect, "-", state.hasValue && minusOK)
		h.drawButton(state.plusRect, "+", state.hasValue && plusOK)
	}
}

func (h *HUD) fillRect(rect image.Rectangle, col color.NRGBA) {
	if h.pixel == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(col)
	h.panel.DrawImage(h.pixel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.NRGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.NRGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	h.fillRect(rect, bg)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutControls() {
	if h.width <= 0 {
		return
	}
	for i := range h.controls {
		top := h.controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
	}
}

func (h *HUD) format(ctrl core.ParameterControl, value float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(value)))
	}
	precision := 1
	if ctrl.Step > 0 && ctrl.Step < 0.1 {
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func defaultStep(t core.ParamType) float64 {
	if t == core.ParamTypeInt {
		return 1
	}
	return 0.05
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

type hudControlState struct {
	control  core.ParameterControl
	value    string
	current  float64
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

var (
	textColor = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor  = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 36
	rowHeight      = 20
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	sectionGap     = 24
	swatchSize     = 12
	badgeWidth     = 36
	badgeHeight    = 18
	rateTop        = panelPadding + headerBaseline + 8
	statsTop       = rateTop + badgeHeight + 12
)

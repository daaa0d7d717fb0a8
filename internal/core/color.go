package core

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a straight (non-premultiplied) RGBA value.
type Color struct {
	R, G, B, A uint8
}

var (
	// White is opaque white.
	White = Color{R: 255, G: 255, B: 255, A: 255}
	// Black is opaque black.
	Black = Color{A: 255}
)

// RGB returns an opaque colour.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

// HSV builds an opaque colour from hue in degrees and saturation/value in
// percent.
func HSV(hue, saturation, value float64) Color {
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	c := colorful.Hsv(hue, clampUnit(saturation/100), clampUnit(value/100))
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA converts to the image/color representation.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// String renders the colour in CSS rgba() notation.
func (c Color) String() string {
	alpha := strconv.FormatFloat(float64(c.A)/255, 'f', -1, 64)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, alpha)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

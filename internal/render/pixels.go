package render

import (
	"elementals/internal/core"
	"elementals/internal/elemental"
)

// fillEntityRGBA converts a row-major slice of entities into RGBA pixels in
// buf, one pixel per cell. Empty cells are painted with the empty colour.
func fillEntityRGBA(buf []byte, cells []elemental.Entity, empty core.Color) {
	for i, e := range cells {
		base := i * 4
		if base+3 >= len(buf) {
			return
		}
		col := empty
		if e != nil {
			col = e.Color()
		}
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// fillMaskRGBA paints a [0, 1] intensity mask in the tint colour as
// premultiplied RGBA, which is what ebiten expects. Alpha grows with
// intensity; zero cells stay transparent.
func fillMaskRGBA(buf []byte, mask []float32, tint core.Color, maxAlpha uint8) {
	for i, v := range mask {
		base := i * 4
		if base+3 >= len(buf) {
			return
		}
		intensity := clamp01(float64(v))
		if intensity == 0 {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		a := uint8(float64(maxAlpha)*intensity + 0.5)
		buf[base+0] = premultiply(tint.R, a)
		buf[base+1] = premultiply(tint.G, a)
		buf[base+2] = premultiply(tint.B, a)
		buf[base+3] = a
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func premultiply(c, a uint8) uint8 {
	return uint8((uint32(c)*uint32(a) + 127) / 255)
}

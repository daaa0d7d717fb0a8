//go:build ebiten

package render

import (
	"elementals/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads RGBA cell pixels into an image and draws it scaled.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte

	maskImg *ebiten.Image
	maskBuf []byte
}

// NewGridPainter allocates a painter for a grid of the given size.
func NewGridPainter(size core.Coordinate) *GridPainter {
	gp := &GridPainter{w: size.X, h: size.Y, buf: make([]byte, 4*size.X*size.Y)}
	gp.img = ebiten.NewImage(size.X, size.Y)
	gp.maskImg = ebiten.NewImage(size.X, size.Y)
	gp.maskBuf = make([]byte, len(gp.buf))
	return gp
}

// Blit copies the latest frame out of fb and draws it onto dst.
func (gp *GridPainter) Blit(dst *ebiten.Image, fb *FrameBuffer, scale int) {
	if fb.Size() != core.XY(gp.w, gp.h) {
		return
	}
	gp.buf = fb.CopyPixels(gp.buf)
	gp.img.WritePixels(gp.buf)
	gp.draw(dst, gp.img, scale)
}

// BlitMask paints an intensity mask in tint over dst.
func (gp *GridPainter) BlitMask(dst *ebiten.Image, mask []float32, tint core.Color, scale int) {
	if len(mask) != gp.w*gp.h {
		return
	}
	fillMaskRGBA(gp.maskBuf, mask, tint, 170)
	gp.maskImg.WritePixels(gp.maskBuf)
	gp.draw(dst, gp.maskImg, scale)
}

func (gp *GridPainter) draw(dst, img *ebiten.Image, scale int) {
	if scale <= 0 {
		scale = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }

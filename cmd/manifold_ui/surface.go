package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// glowRings approximates a radial gradient with stacked translucent discs.
const glowRings = 4

// ebitenSurface adapts an ebiten image to scene.Surface.
type ebitenSurface struct {
	dst *ebiten.Image
}

func (s ebitenSurface) Size() (int, int) {
	b := s.dst.Bounds()
	return b.Dx(), b.Dy()
}

func (s ebitenSurface) Fill(c color.NRGBA) {
	s.dst.Fill(c)
}

func (s ebitenSurface) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	vector.StrokeLine(s.dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c, true)
}

func (s ebitenSurface) FillCircle(cx, cy, r float64, c color.NRGBA) {
	vector.DrawFilledCircle(s.dst, float32(cx), float32(cy), float32(r), c, true)
}

func (s ebitenSurface) Glow(cx, cy, r float64, c color.NRGBA) {
	ring := c
	ring.A = uint8(int(c.A) / glowRings)
	for i := glowRings; i >= 1; i-- {
		vector.DrawFilledCircle(s.dst, float32(cx), float32(cy), float32(r*float64(i)/glowRings), ring, true)
	}
}

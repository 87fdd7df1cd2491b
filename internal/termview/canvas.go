// Package termview rasterises scene frames into terminal cells. Each cell
// carries two vertically stacked pixels drawn with the upper half block.
package termview

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

const halfBlock = '▀'

// Canvas is a scene.Surface of cols × 2·rows pixels.
type Canvas struct {
	cols, rows int
	pix        []colorful.Color
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize clears the canvas to black at the new cell size.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
	c.pix = make([]colorful.Color, c.cols*c.rows*2)
}

func (c *Canvas) Size() (int, int) {
	return c.cols, c.rows * 2
}

func (c *Canvas) Fill(col color.NRGBA) {
	src, a := split(col)
	for i := range c.pix {
		c.pix[i] = c.pix[i].BlendRgb(src, a)
	}
}

// StrokeLine draws a one pixel Bresenham line; width is ignored at cell
// resolution.
func (c *Canvas) StrokeLine(x0, y0, x1, y1, _ float64, col color.NRGBA) {
	src, a := split(col)
	ix0, iy0 := round(x0), round(y0)
	ix1, iy1 := round(x1), round(y1)
	dx, dy := absInt(ix1-ix0), -absInt(iy1-iy0)
	sx, sy := sign(ix1-ix0), sign(iy1-iy0)
	e := dx + dy
	for {
		c.blend(ix0, iy0, src, a)
		if ix0 == ix1 && iy0 == iy1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			ix0 += sx
		}
		if e2 <= dx {
			e += dx
			iy0 += sy
		}
	}
}

// FillCircle covers pixels whose centre lies within r. A circle smaller than
// a pixel still marks the pixel under its centre.
func (c *Canvas) FillCircle(cx, cy, r float64, col color.NRGBA) {
	src, a := split(col)
	if r < 0.5 {
		c.blend(int(math.Floor(cx)), int(math.Floor(cy)), src, a)
		return
	}
	c.disc(cx, cy, r, func(float64) float64 { return a }, src)
}

// Glow fades linearly from col at the centre to transparent at r.
func (c *Canvas) Glow(cx, cy, r float64, col color.NRGBA) {
	if r <= 0 {
		return
	}
	src, a := split(col)
	c.disc(cx, cy, r, func(d float64) float64 { return a * (1 - d/r) }, src)
}

func (c *Canvas) disc(cx, cy, r float64, alpha func(d float64) float64, src colorful.Color) {
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			if d <= r {
				c.blend(x, y, src, alpha(d))
			}
		}
	}
}

// At returns the pixel colour, opaque.
func (c *Canvas) At(x, y int) color.NRGBA {
	if !c.inside(x, y) {
		return color.NRGBA{}
	}
	r, g, b := c.pix[y*c.cols+x].Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Flush writes every cell to screen. The caller calls Show.
func (c *Canvas) Flush(screen tcell.Screen) {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			top := c.At(col, 2*row)
			bottom := c.At(col, 2*row+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			screen.SetContent(col, row, halfBlock, nil, style)
		}
	}
}

func (c *Canvas) blend(x, y int, src colorful.Color, a float64) {
	if a <= 0 || !c.inside(x, y) {
		return
	}
	i := y*c.cols + x
	c.pix[i] = c.pix[i].BlendRgb(src, math.Min(a, 1))
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.cols && y < c.rows*2
}

func split(col color.NRGBA) (colorful.Color, float64) {
	return colorful.Color{
		R: float64(col.R) / 255,
		G: float64(col.G) / 255,
		B: float64(col.B) / 255,
	}, float64(col.A) / 255
}

func round(v float64) int { return int(math.Round(v)) }

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

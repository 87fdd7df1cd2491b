// Package scene draws a condition's trajectory as a depth-sorted, glowing
// point cloud onto a caller-owned 2D surface.
package scene

import (
	"fmt"
	"image/color"
	"math"

	"github.com/cbegin/manifold-go/internal/profile"
	"github.com/cbegin/manifold-go/internal/projection"
	"github.com/cbegin/manifold-go/internal/trajectory"
)

// Surface is a 2D drawing target. Colours are non-premultiplied.
type Surface interface {
	Size() (w, h int)
	Fill(c color.NRGBA)
	StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA)
	FillCircle(cx, cy, r float64, c color.NRGBA)
	// Glow paints a radial gradient from c at the centre to transparent at r.
	Glow(cx, cy, r float64, c color.NRGBA)
}

// Frame is everything the renderer needs for one redraw.
type Frame struct {
	Time      float64
	RotX      float64
	RotY      float64
	Condition profile.Name
	Variant   trajectory.Variant
	Pulse     bool
	Count     int // 0 uses the variant default
}

const (
	viewScale    = 0.34
	gridExtent   = 0.7
	gridLines    = 4
	maxIndexGap  = 2
	lineWidth    = 1.5
	gridWidth    = 0.5
	glowRadius   = 3
	bgIdle       = 0.02
	bgPulse      = 0.06
	gridAlpha    = 0.025
	glowStrength = 0.6
)

// Renderer is stateless between frames.
type Renderer struct {
	profiles *profile.Store
	palette  Palette
}

func NewRenderer(profiles *profile.Store, palette Palette) *Renderer {
	return &Renderer{profiles: profiles, palette: palette}
}

// Draw fully redraws s for the frame.
func (r *Renderer) Draw(s Surface, f Frame) error {
	p, err := r.profiles.Lookup(f.Condition)
	if err != nil {
		return err
	}
	count := f.Count
	if count == 0 {
		count = f.Variant.DefaultCount()
	}
	pts, err := trajectory.Generate(f.Variant, f.Time, p, count)
	if err != nil {
		return fmt.Errorf("draw %s: %w", f.Condition, err)
	}

	w, h := s.Size()
	cx, cy := float64(w)/2, float64(h)/2
	sc := math.Min(float64(w), float64(h)) * viewScale

	s.Fill(Background(f.Pulse))
	drawGrid(s, cx, cy, sc)

	proj := projection.ProjectAll(pts, f.RotX, f.RotY, sc, cx, cy)
	projection.SortByDepth(proj)

	lineMod := 1.0
	if f.Pulse {
		lineMod = 1 + math.Sin(f.Time*8)*.15
	}
	for i := 1; i < len(proj); i++ {
		p0, p1 := proj[i-1], proj[i]
		if absInt(p0.Index-p1.Index) > maxIndexGap {
			continue
		}
		a := (.12 + p1.Scale*.35) * lineMod
		s.StrokeLine(p0.PX, p0.PY, p1.PX, p1.PY, lineWidth, r.palette.Color(f.Condition, a))
	}

	for _, pt := range proj {
		a := .25 + pt.Scale*.5
		sz := PointSize(pt, f.Time, f.Pulse)
		s.Glow(pt.PX, pt.PY, sz*glowRadius, r.palette.Color(f.Condition, a*glowStrength))
		s.FillCircle(pt.PX, pt.PY, sz, r.palette.Color(f.Condition, a))
	}
	return nil
}

// Background is the wash colour, brighter while audio plays.
func Background(pulse bool) color.NRGBA {
	b := bgIdle
	if pulse {
		b = bgPulse
	}
	return color.NRGBA{
		R: uint8(math.Round(b * 255)),
		G: uint8(math.Round(b * 200)),
		B: uint8(math.Round(b*255 + 8)),
		A: 255,
	}
}

// PointSize is the marker radius; the pulse shimmer is keyed off the point's
// sequence position and the visual clock only.
func PointSize(pt projection.Point, t float64, pulse bool) float64 {
	sz := 1 + pt.Scale*2.5
	if pulse {
		sz *= 1 + math.Sin(t*10+pt.S*20)*.2
	}
	return sz
}

func drawGrid(s Surface, cx, cy, sc float64) {
	c := color.NRGBA{R: 255, G: 255, B: 255, A: alphaByte(gridAlpha)}
	ext := sc * gridExtent
	for i := -gridLines; i <= gridLines; i++ {
		off := float64(i) / gridLines * ext
		s.StrokeLine(cx+off, cy-ext, cx+off, cy+ext, gridWidth, c)
		s.StrokeLine(cx-ext, cy+off, cx+ext, cy+off, gridWidth, c)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

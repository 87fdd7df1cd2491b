package scene

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/cbegin/manifold-go/internal/profile"
	"github.com/cbegin/manifold-go/internal/projection"
	"github.com/cbegin/manifold-go/internal/trajectory"
)

type stroke struct {
	x0, y0, x1, y1, width float64
	c                     color.NRGBA
}

type circle struct {
	x, y, r float64
	c       color.NRGBA
}

type recordingSurface struct {
	w, h    int
	fills   []color.NRGBA
	strokes []stroke
	circles []circle
	glows   []circle
	order   []string
}

func (s *recordingSurface) Size() (int, int) { return s.w, s.h }
func (s *recordingSurface) Fill(c color.NRGBA) {
	s.fills = append(s.fills, c)
	s.order = append(s.order, "fill")
}
func (s *recordingSurface) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	s.strokes = append(s.strokes, stroke{x0, y0, x1, y1, width, c})
	s.order = append(s.order, "line")
}
func (s *recordingSurface) FillCircle(x, y, r float64, c color.NRGBA) {
	s.circles = append(s.circles, circle{x, y, r, c})
	s.order = append(s.order, "circle")
}
func (s *recordingSurface) Glow(x, y, r float64, c color.NRGBA) {
	s.glows = append(s.glows, circle{x, y, r, c})
	s.order = append(s.order, "glow")
}

func newTestRenderer() *Renderer {
	return NewRenderer(profile.Default(), DefaultPalette())
}

func TestDrawLayersInOrder(t *testing.T) {
	s := &recordingSurface{w: 320, h: 240}
	f := Frame{Time: 1, RotX: .3, Condition: profile.Healthy, Variant: trajectory.Torus}
	if err := newTestRenderer().Draw(s, f); err != nil {
		t.Fatal(err)
	}
	if len(s.fills) != 1 || s.order[0] != "fill" {
		t.Fatalf("expected a single background fill first, got %v", s.order[:3])
	}
	for i := 1; i <= 18; i++ {
		if s.order[i] != "line" || s.strokes[i-1].width != gridWidth {
			t.Fatalf("entry %d should be a grid line", i)
		}
	}
	n := trajectory.Torus.DefaultCount()
	if len(s.circles) != n || len(s.glows) != n {
		t.Fatalf("markers: %d circles %d glows, want %d", len(s.circles), len(s.glows), n)
	}
	segments := len(s.strokes) - 18
	if segments <= 0 || segments > n-1 {
		t.Fatalf("segments = %d, want 1..%d", segments, n-1)
	}
	for i, op := range s.order[19+segments:] {
		want := "glow"
		if i%2 == 1 {
			want = "circle"
		}
		if op != want {
			t.Fatalf("marker op %d = %s, want %s", i, op, want)
		}
	}
}

func TestBackgroundBrightensWithPulse(t *testing.T) {
	idle, pulse := Background(false), Background(true)
	if idle != (color.NRGBA{R: 5, G: 4, B: 13, A: 255}) {
		t.Fatalf("idle background = %+v", idle)
	}
	if pulse != (color.NRGBA{R: 15, G: 12, B: 23, A: 255}) {
		t.Fatalf("pulse background = %+v", pulse)
	}
}

func TestMarkersAreBackToFront(t *testing.T) {
	s := &recordingSurface{w: 200, h: 200}
	f := Frame{Time: .5, RotX: .3, RotY: .1, Condition: profile.Mania, Variant: trajectory.Lissajous, Count: 60}
	if err := newTestRenderer().Draw(s, f); err != nil {
		t.Fatal(err)
	}
	pts, _ := trajectory.Generate(f.Variant, f.Time, profile.Default().MustLookup(f.Condition), 60)
	proj := projection.ProjectAll(pts, f.RotX, f.RotY, 200*viewScale, 100, 100)
	projection.SortByDepth(proj)
	for i, c := range s.circles {
		if c.x != proj[i].PX || c.y != proj[i].PY {
			t.Fatalf("circle %d at (%v,%v), want sorted point (%v,%v)", i, c.x, c.y, proj[i].PX, proj[i].PY)
		}
	}
	// ascending depth means shrinking perspective scale
	for i := 1; i < len(s.circles); i++ {
		if s.circles[i].r > s.circles[i-1].r+1e-12 {
			t.Fatalf("marker %d radius %v grew past %v", i, s.circles[i].r, s.circles[i-1].r)
		}
	}
}

func TestLinesSkipIndexGaps(t *testing.T) {
	s := &recordingSurface{w: 300, h: 300}
	f := Frame{Time: 2, RotX: .3, RotY: 1.2, Condition: profile.Paranoid, Variant: trajectory.Attractor}
	if err := newTestRenderer().Draw(s, f); err != nil {
		t.Fatal(err)
	}
	pts, _ := trajectory.Generate(f.Variant, f.Time, profile.Default().MustLookup(f.Condition), f.Variant.DefaultCount())
	proj := projection.ProjectAll(pts, f.RotX, f.RotY, 300*viewScale, 150, 150)
	projection.SortByDepth(proj)
	want := 0
	for i := 1; i < len(proj); i++ {
		if absInt(proj[i].Index-proj[i-1].Index) <= maxIndexGap {
			want++
		}
	}
	if got := len(s.strokes) - 18; got != want {
		t.Fatalf("segments = %d, want %d", got, want)
	}
}

func TestPulseShimmerUsesVisualClock(t *testing.T) {
	pt := projection.Point{Scale: 1, S: .3}
	if got := PointSize(pt, 7, false); got != 3.5 {
		t.Fatalf("idle size = %v, want 3.5", got)
	}
	want := 3.5 * (1 + math.Sin(7*10+.3*20)*.2)
	if got := PointSize(pt, 7, true); math.Abs(got-want) > 1e-12 {
		t.Fatalf("pulse size = %v, want %v", got, want)
	}
}

func TestDrawRejectsUnknownCondition(t *testing.T) {
	s := &recordingSurface{w: 10, h: 10}
	err := newTestRenderer().Draw(s, Frame{Condition: "bliss"})
	if !errors.Is(err, profile.ErrUnknownCondition) {
		t.Fatalf("err = %v", err)
	}
	if len(s.order) != 0 {
		t.Fatalf("surface touched on error: %v", s.order)
	}
	err = newTestRenderer().Draw(s, Frame{Condition: profile.Mania, Count: 1})
	if !errors.Is(err, trajectory.ErrCount) {
		t.Fatalf("count err = %v", err)
	}
}

func TestPaletteOverrides(t *testing.T) {
	p, err := NewPalette(map[string]string{"mania": "#102030"})
	if err != nil {
		t.Fatal(err)
	}
	if c := p.Color(profile.Mania, 1); c != (color.NRGBA{0x10, 0x20, 0x30, 255}) {
		t.Fatalf("override colour = %+v", c)
	}
	if c := p.Color(profile.Healthy, 0.5); c != (color.NRGBA{0x06, 0xd6, 0xa0, 128}) {
		t.Fatalf("default colour = %+v", c)
	}
	if _, err := NewPalette(map[string]string{"joy": "#ffffff"}); err == nil {
		t.Fatalf("unknown condition accepted")
	}
	if _, err := NewPalette(map[string]string{"mania": "orange"}); err == nil {
		t.Fatalf("bad hex accepted")
	}
}

func TestViewTickAndDrag(t *testing.T) {
	v := NewView()
	for i := 0; i < 10; i++ {
		v.Tick()
	}
	if math.Abs(v.Time-0.08) > 1e-12 || math.Abs(v.RotY-0.02) > 1e-12 || v.RotX != DefaultRotationX {
		t.Fatalf("view after 10 ticks = %+v", v)
	}
	v.Drag(10, -20)
	if math.Abs(v.RotY-0.07) > 1e-12 || math.Abs(v.RotX-0.2) > 1e-12 {
		t.Fatalf("view after drag = %+v", v)
	}
	f := v.Frame(profile.Depression, trajectory.Attractor, true)
	if f.Condition != profile.Depression || f.Variant != trajectory.Attractor || !f.Pulse || f.Time != v.Time {
		t.Fatalf("frame = %+v", f)
	}
}

package projection

import (
	"math"
	"sort"

	"github.com/cbegin/manifold-go/internal/trajectory"
)

// Focal is the perspective constant; points with smaller depth come out larger.
const Focal = 2.5

// Point is a trajectory point in screen space.
type Point struct {
	PX, PY float64
	Depth  float64
	Scale  float64 // perspective factor
	Index  int     // position in the generated sequence
	S      float64
}

// Project rotates pt about the Y axis, then about the X axis, and applies a
// perspective divide. The rotation order is fixed.
func Project(pt trajectory.Point, rotX, rotY, scale, cx, cy float64) Point {
	cosY, sinY := math.Cos(rotY), math.Sin(rotY)
	cosX, sinX := math.Cos(rotX), math.Sin(rotX)

	x1 := pt.X*cosY - pt.Z*sinY
	z1 := pt.X*sinY + pt.Z*cosY
	y1 := pt.Y*cosX - z1*sinX
	z2 := pt.Y*sinX + z1*cosX

	p := Focal / (Focal + z2)
	return Point{
		PX:    cx + x1*scale*p,
		PY:    cy + y1*scale*p,
		Depth: z2,
		Scale: p,
		S:     pt.S,
	}
}

// ProjectAll projects every point and records its sequence index.
func ProjectAll(pts []trajectory.Point, rotX, rotY, scale, cx, cy float64) []Point {
	out := make([]Point, len(pts))
	for i, pt := range pts {
		out[i] = Project(pt, rotX, rotY, scale, cx, cy)
		out[i].Index = i
	}
	return out
}

// SortByDepth orders points back to front (ascending depth).
func SortByDepth(pts []Point) {
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Depth < pts[j].Depth })
}

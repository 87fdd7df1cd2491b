package projection

import (
	"math"
	"testing"

	"github.com/cbegin/manifold-go/internal/trajectory"
)

func TestOriginProjectsToCenter(t *testing.T) {
	got := Project(trajectory.Point{}, 0, 0, 100, 160, 120)
	if got.PX != 160 || got.PY != 120 || got.Depth != 0 || got.Scale != 1 {
		t.Fatalf("origin projected to %+v", got)
	}
}

func TestNearerPointsEnlarge(t *testing.T) {
	near := Project(trajectory.Point{X: .2, Z: -.5}, 0, 0, 100, 0, 0)
	far := Project(trajectory.Point{X: .2, Z: .5}, 0, 0, 100, 0, 0)
	if near.Scale <= far.Scale {
		t.Fatalf("near scale %v should exceed far scale %v", near.Scale, far.Scale)
	}
	if math.Abs(near.PX) <= math.Abs(far.PX) {
		t.Fatalf("near px %v should be further from center than far px %v", near.PX, far.PX)
	}
}

func TestRotationOrderIsYThenX(t *testing.T) {
	pt := trajectory.Point{X: 1}
	// Y by 90 degrees sends +X to depth +1; X by 90 degrees then lifts
	// that depth into screen -Y.
	got := Project(pt, math.Pi/2, math.Pi/2, 1, 0, 0)
	if math.Abs(got.PX) > 1e-12 || math.Abs(got.Depth) > 1e-12 {
		t.Fatalf("unexpected projection %+v", got)
	}
	if math.Abs(got.PY+1) > 1e-12 {
		t.Fatalf("py = %v, want -1", got.PY)
	}
	// Applying X first would leave the point on the X axis at depth +1.
	swapped := Project(pt, 0, math.Pi/2, 1, 0, 0)
	if math.Abs(swapped.Depth-1) > 1e-12 {
		t.Fatalf("y-only rotation depth = %v, want 1", swapped.Depth)
	}
}

func TestProjectAllAndSort(t *testing.T) {
	pts := []trajectory.Point{
		{Z: .3, S: 0},
		{Z: -.2, S: .25},
		{Z: .1, S: .5},
		{Z: -.2, S: .75},
	}
	out := ProjectAll(pts, 0, 0, 50, 10, 10)
	SortByDepth(out)
	wantIdx := []int{1, 3, 2, 0}
	for i, p := range out {
		if p.Index != wantIdx[i] {
			t.Fatalf("sorted index[%d] = %d, want %d", i, p.Index, wantIdx[i])
		}
		if i > 0 && out[i-1].Depth > p.Depth {
			t.Fatalf("not ascending at %d", i)
		}
	}
	if out[0].S != .25 || out[1].S != .75 {
		t.Fatalf("s not carried through: %+v", out)
	}
}

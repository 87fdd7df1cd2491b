package trajectory

import (
	"errors"
	"math"
	"testing"

	"github.com/cbegin/manifold-go/internal/profile"
)

func TestGenerateCountAndSequence(t *testing.T) {
	for _, v := range Variants() {
		for _, p := range profile.Default().Profiles() {
			for _, n := range []int{2, 7, v.DefaultCount()} {
				pts, err := Generate(v, 1.25, p, n)
				if err != nil {
					t.Fatalf("%s/%s/%d: %v", v, p.Name, n, err)
				}
				if len(pts) != n {
					t.Fatalf("%s/%s: got %d points, want %d", v, p.Name, len(pts), n)
				}
				for i, pt := range pts {
					if want := float64(i) / float64(n); pt.S != want {
						t.Fatalf("%s/%s: s[%d] = %v, want %v", v, p.Name, i, pt.S, want)
					}
				}
			}
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	p := profile.Default().MustLookup(profile.Mania)
	for _, v := range Variants() {
		a, _ := Generate(v, 3.7, p, v.DefaultCount())
		b, _ := Generate(v, 3.7, p, v.DefaultCount())
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%s: point %d differs: %+v vs %+v", v, i, a[i], b[i])
			}
		}
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	p := profile.Default().MustLookup(profile.Healthy)
	if _, err := Generate(Torus, 0, p, 1); !errors.Is(err, ErrCount) {
		t.Fatalf("count 1: err = %v", err)
	}
	if _, err := Generate(Lissajous, -0.5, p, 10); !errors.Is(err, ErrTime) {
		t.Fatalf("negative time: err = %v", err)
	}
}

func TestUnknownVariantFallsBackToLissajous(t *testing.T) {
	if ParseVariant("spirograph") != Lissajous {
		t.Fatalf("unknown name did not fall back")
	}
	if ParseVariant(" Torus ") != Torus || ParseVariant("attractor") != Attractor {
		t.Fatalf("known names misparsed")
	}
	p := profile.Default().MustLookup(profile.Paranoid)
	want, _ := Generate(Lissajous, 2, p, 50)
	got, _ := Generate(Variant(42), 2, p, 50)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("out-of-range variant did not render as lissajous at %d", i)
		}
	}
	if Variant(42).String() != "lissajous" {
		t.Fatalf("String() = %q", Variant(42).String())
	}
}

func TestLorenzCoefficientMapping(t *testing.T) {
	c := LorenzCoefficients(profile.Profile{Chaos: .5, EyeAmp: .5, Vel: .5})
	if math.Abs(c.Sigma-10) > 0.01 || math.Abs(c.Rho-24) > 0.01 || math.Abs(c.Beta-2.33) > 0.01 {
		t.Fatalf("coefficients = %+v, want sigma 10 rho 24 beta 2.33", c)
	}
}

func TestAttractorFirstStep(t *testing.T) {
	p := profile.Profile{EyeAmp: .5, BrowAmp: .5, MouthAmp: .5, Chaos: .5, Vel: .5}
	pts, err := Generate(Attractor, 0, p, 2)
	if err != nil {
		t.Fatal(err)
	}
	// dx = 10*(0-0.1) = -1, so x = 0.1 - 0.005; dy = 0.1*24, so y = 0.012
	wantX := (0.1 - 0.005) * .02 * .5
	wantY := 0.012 * .02 * .5
	if math.Abs(pts[0].X-wantX) > 1e-15 || math.Abs(pts[0].Y-wantY) > 1e-15 || pts[0].Z != 0 {
		t.Fatalf("first point = %+v, want x %v y %v z 0", pts[0], wantX, wantY)
	}
}

func TestTorusOrder(t *testing.T) {
	for _, tc := range []struct {
		name profile.Name
		p, q int
	}{
		{profile.Catatonia, 2, 4},
		{profile.Depression, 3, 4},
		{profile.Paranoid, 4, 6},
		{profile.Mania, 4, 7},
		{profile.Healthy, 3, 5},
	} {
		p, q := TorusOrder(profile.Default().MustLookup(tc.name))
		if p != tc.p || q != tc.q {
			t.Fatalf("%s order = (%d,%d), want (%d,%d)", tc.name, p, q, tc.p, tc.q)
		}
	}
}

func TestOutputIsBounded(t *testing.T) {
	for _, p := range profile.Default().Profiles() {
		liss, _ := Generate(Lissajous, 4, p, 350)
		for _, pt := range liss {
			if math.Abs(pt.X) > p.EyeAmp+1e-12 || math.Abs(pt.Y) > p.BrowAmp+1e-12 || math.Abs(pt.Z) > 0.5+1e-12 {
				t.Fatalf("%s lissajous point out of bounds: %+v", p.Name, pt)
			}
		}
		tor, _ := Generate(Torus, 4, p, 400)
		for _, pt := range tor {
			if math.Abs(pt.X) > 0.7*p.EyeAmp+1e-12 || math.Abs(pt.Y) > 0.7*p.BrowAmp+1e-12 || math.Abs(pt.Z) > 0.6*p.MouthAmp+1e-12 {
				t.Fatalf("%s torus point out of bounds: %+v", p.Name, pt)
			}
		}
	}
}

func TestZeroChaosIsSmooth(t *testing.T) {
	p := profile.Default().MustLookup(profile.Healthy)
	p.Chaos = 0
	pts, _ := Generate(Lissajous, 0, p, 200)
	for i, pt := range pts {
		a := float64(i) / 200 * math.Pi * 4
		if pt.X != math.Sin(a*p.EyeFreq)*p.EyeAmp {
			t.Fatalf("x[%d] carries jitter with chaos 0", i)
		}
	}
	// the torus knot closes on itself
	tor, _ := Generate(Torus, 0, p, 400)
	first, last := tor[0], tor[len(tor)-1]
	if math.Hypot(first.X-last.X, first.Y-last.Y) > 0.02 {
		t.Fatalf("torus does not close: first %+v last %+v", first, last)
	}
}

func TestChaosDoesNotCollapseVariance(t *testing.T) {
	// The geometry formulas are fixed, so variance is only loosely
	// monotone in chaos; allow a bounded dip.
	const tolerance = 0.3
	chaos := []float64{0, .25, .5, .75, 1}
	for _, v := range Variants() {
		for _, base := range profile.Default().Profiles() {
			for _, tm := range []float64{0, 1, 2.5, 5} {
				vars := make([]float64, len(chaos))
				for i, c := range chaos {
					p := base
					p.Chaos = c
					pts, err := Generate(v, tm, p, v.DefaultCount())
					if err != nil {
						t.Fatal(err)
					}
					vars[i] = spread(pts)
				}
				for j := range vars {
					for k := j + 1; k < len(vars); k++ {
						if vars[k] < vars[j]*(1-tolerance) {
							t.Fatalf("%s/%s t=%v: variance fell from %v (chaos %v) to %v (chaos %v)",
								v, base.Name, tm, vars[j], chaos[j], vars[k], chaos[k])
						}
					}
				}
			}
		}
	}
}

func spread(pts []Point) float64 {
	var mx, my float64
	for _, p := range pts {
		mx += p.X
		my += p.Y
	}
	n := float64(len(pts))
	mx /= n
	my /= n
	var vx, vy float64
	for _, p := range pts {
		vx += (p.X - mx) * (p.X - mx)
		vy += (p.Y - my) * (p.Y - my)
	}
	return vx/n + vy/n
}

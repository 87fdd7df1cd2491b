// Package trajectory generates the 3D point sequences drawn for a condition
// profile. Every generator is pure: the same (time, profile, count) always
// yields the same points.
package trajectory

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cbegin/manifold-go/internal/profile"
)

var (
	ErrCount = errors.New("trajectory needs at least 2 points")
	ErrTime  = errors.New("trajectory time must be non-negative")
)

// Point is a generated sample. S is the normalized position along the
// sequence and carries no geometry.
type Point struct {
	X, Y, Z float64
	S       float64
}

type Variant int

const (
	Lissajous Variant = iota
	Attractor
	Torus
)

var variantNames = [...]string{"lissajous", "attractor", "torus"}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return variantNames[Lissajous]
	}
	return variantNames[v]
}

// DefaultCount is the number of points drawn per frame for the variant.
func (v Variant) DefaultCount() int {
	switch v {
	case Attractor:
		return 500
	case Torus:
		return 400
	default:
		return 350
	}
}

// Variants lists every variant in display order.
func Variants() []Variant {
	return []Variant{Lissajous, Attractor, Torus}
}

// ParseVariant maps a variant name to its Variant. Unknown names fall back to
// Lissajous so a stale or mistyped selection still draws something.
func ParseVariant(s string) Variant {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "attractor", "lorenz":
		return Attractor
	case "torus", "torus-knot", "torusknot":
		return Torus
	default:
		return Lissajous
	}
}

// Generate produces exactly n points for the variant. Out-of-range variants
// are treated as Lissajous.
func Generate(v Variant, t float64, p profile.Profile, n int) ([]Point, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrCount, n)
	}
	if t < 0 || math.IsNaN(t) {
		return nil, fmt.Errorf("%w: got %v", ErrTime, t)
	}
	switch v {
	case Attractor:
		return attractor(p, n), nil
	case Torus:
		return torus(t, p, n), nil
	default:
		return lissajous(t, p, n), nil
	}
}

func lissajous(t float64, p profile.Profile, n int) []Point {
	out := make([]Point, n)
	for i := range out {
		a := float64(i)/float64(n)*math.Pi*4 + t*p.Vel
		out[i] = Point{
			X: math.Sin(a*p.EyeFreq+p.Chaos*math.Sin(a*3.7)) * p.EyeAmp,
			Y: math.Sin(a*p.EyeFreq*1.618+p.Chaos*math.Cos(a*2.3)) * p.BrowAmp,
			Z: math.Cos(a*p.MouthAmp*5+p.Chaos*math.Sin(a*1.9)) * 0.5,
			S: float64(i) / float64(n),
		}
	}
	return out
}

// Lorenz integration constants.
const (
	LorenzStep = 0.005
	lorenzSeed = 0.1
)

// Coefficients are the Lorenz system parameters derived from a profile.
type Coefficients struct {
	Sigma, Rho, Beta float64
}

// LorenzCoefficients maps chaos, eyeAmp and vel onto sigma, rho and beta.
// The mapping is fixed; changing it changes the picture.
func LorenzCoefficients(p profile.Profile) Coefficients {
	return Coefficients{
		Sigma: 10*p.Chaos + 5,
		Rho:   28*p.EyeAmp + 10,
		Beta:  (8.0/3.0)*p.Vel + 1,
	}
}

// attractor ignores time: the integration always restarts from the seed.
func attractor(p profile.Profile, n int) []Point {
	c := LorenzCoefficients(p)
	x, y, z := lorenzSeed, 0.0, 0.0
	out := make([]Point, n)
	for i := range out {
		dx := c.Sigma * (y - x)
		dy := x*(c.Rho-z) - y
		dz := x*y - c.Beta*z
		x += dx * LorenzStep
		y += dy * LorenzStep
		z += dz * LorenzStep
		out[i] = Point{
			X: x * .02 * p.EyeAmp,
			Y: y * .02 * p.BrowAmp,
			Z: z * .015 * p.MouthAmp,
			S: float64(i) / float64(n),
		}
	}
	return out
}

// TorusOrder returns the (p, q) knot order for a profile.
func TorusOrder(p profile.Profile) (int, int) {
	return int(math.Round(2 + p.Chaos*3)), int(math.Round(3 + p.EyeFreq*2))
}

func torus(t float64, p profile.Profile, n int) []Point {
	pp, q := TorusOrder(p)
	fp, fq := float64(pp), float64(q)
	out := make([]Point, n)
	for i := range out {
		phi := float64(i)/float64(n)*math.Pi*2 + t*p.Vel*.3
		r := .5 + .2*math.Cos(fq*phi)
		out[i] = Point{
			X: r * math.Cos(fp*phi) * p.EyeAmp,
			Y: r * math.Sin(fp*phi) * p.BrowAmp,
			Z: .2 * math.Sin(fq*phi) * p.MouthAmp * 3,
			S: float64(i) / float64(n),
		}
	}
	return out
}

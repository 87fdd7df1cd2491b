package scene

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/cbegin/manifold-go/internal/profile"
)

var defaultHex = map[profile.Name]string{
	profile.Catatonia:  "#00f5d4",
	profile.Depression: "#457b9d",
	profile.Paranoid:   "#e63946",
	profile.Mania:      "#ffbe0b",
	profile.Healthy:    "#06d6a0",
}

// Palette is the read-only display colour per condition.
type Palette struct {
	colors map[profile.Name]colorful.Color
}

// DefaultPalette returns the built-in condition colours.
func DefaultPalette() Palette {
	p, err := NewPalette(nil)
	if err != nil {
		panic(err)
	}
	return p
}

// NewPalette starts from the built-in colours and applies hex overrides keyed
// by condition name.
func NewPalette(overrides map[string]string) (Palette, error) {
	p := Palette{colors: make(map[profile.Name]colorful.Color, len(defaultHex))}
	for name, hex := range defaultHex {
		c, err := colorful.Hex(hex)
		if err != nil {
			return Palette{}, err
		}
		p.colors[name] = c
	}
	for key, hex := range overrides {
		name, err := profile.ParseName(key)
		if err != nil {
			return Palette{}, err
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %s: %w", key, err)
		}
		p.colors[name] = c
	}
	return p, nil
}

// Color returns the condition colour at the given opacity.
func (p Palette) Color(name profile.Name, alpha float64) color.NRGBA {
	c, ok := p.colors[name]
	if !ok {
		c = colorful.Color{R: 1, G: 1, B: 1}
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alphaByte(alpha)}
}

func alphaByte(a float64) uint8 {
	if a <= 0 {
		return 0
	}
	if a >= 1 {
		return 255
	}
	return uint8(a*255 + 0.5)
}

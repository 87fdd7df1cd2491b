// Package profile holds the fixed set of condition profiles that drive both
// the trajectory generators and the audio engine.
package profile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/cbegin/manifold-go/internal/notation"
)

// Name identifies one of the five conditions.
type Name string

const (
	Catatonia  Name = "catatonia"
	Depression Name = "depression"
	Paranoid   Name = "paranoid"
	Mania      Name = "mania"
	Healthy    Name = "healthy"
)

var (
	ErrUnknownCondition = errors.New("unknown condition")
	ErrInvalidProfile   = errors.New("invalid profile")
)

var canonical = []Name{Catatonia, Depression, Paranoid, Mania, Healthy}

// Names returns the closed condition set in display order.
func Names() []Name {
	return slices.Clone(canonical)
}

// ParseName resolves a case-insensitive condition name.
func ParseName(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(canonical, n) {
		return "", fmt.Errorf("%w: %q", ErrUnknownCondition, s)
	}
	return n, nil
}

// Profile is the visual and audio parameter bundle for a condition.
type Profile struct {
	Name        Name
	Description string

	EyeAmp   float64
	EyeFreq  float64
	MouthAmp float64
	BrowAmp  float64
	Chaos    float64
	Vel      float64

	Notes   []string
	Tempo   int
	NoteLen string
}

// Validate checks the invariants the generators and the audio engine rely on.
func (p Profile) Validate() error {
	if !slices.Contains(canonical, p.Name) {
		return fmt.Errorf("%w: %q", ErrUnknownCondition, p.Name)
	}
	for _, f := range []struct {
		field string
		v     float64
	}{
		{"eyeAmp", p.EyeAmp},
		{"eyeFreq", p.EyeFreq},
		{"mouthAmp", p.MouthAmp},
		{"browAmp", p.BrowAmp},
		{"chaos", p.Chaos},
		{"vel", p.Vel},
	} {
		if f.v < 0 {
			return fmt.Errorf("%w: %s %s = %v is negative", ErrInvalidProfile, p.Name, f.field, f.v)
		}
	}
	if p.Chaos > 1 {
		return fmt.Errorf("%w: %s chaos = %v exceeds 1", ErrInvalidProfile, p.Name, p.Chaos)
	}
	if len(p.Notes) == 0 {
		return fmt.Errorf("%w: %s has no notes", ErrInvalidProfile, p.Name)
	}
	for _, n := range p.Notes {
		if _, err := notation.ParseNote(n); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidProfile, p.Name, err)
		}
	}
	if p.Tempo <= 0 {
		return fmt.Errorf("%w: %s tempo = %d", ErrInvalidProfile, p.Name, p.Tempo)
	}
	if _, err := notation.Seconds(p.NoteLen, float64(p.Tempo)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidProfile, p.Name, err)
	}
	return nil
}

// NoteLength returns the nominal note length in seconds at the profile tempo.
func (p Profile) NoteLength() float64 {
	v, err := notation.Seconds(p.NoteLen, float64(p.Tempo))
	if err != nil {
		return 0
	}
	return v
}

func (p Profile) clone() Profile {
	p.Notes = slices.Clone(p.Notes)
	return p
}

// Store maps every condition to exactly one profile. It is immutable after
// construction; lookups hand out copies.
type Store struct {
	byName map[Name]Profile
}

// NewStore validates the profiles and requires each condition exactly once.
func NewStore(profiles ...Profile) (*Store, error) {
	s := &Store{byName: make(map[Name]Profile, len(canonical))}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.byName[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate profile %q", ErrInvalidProfile, p.Name)
		}
		s.byName[p.Name] = p.clone()
	}
	for _, n := range canonical {
		if _, ok := s.byName[n]; !ok {
			return nil, fmt.Errorf("%w: missing profile %q", ErrInvalidProfile, n)
		}
	}
	return s, nil
}

// Lookup returns a copy of the profile for name.
func (s *Store) Lookup(name Name) (Profile, error) {
	p, ok := s.byName[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownCondition, name)
	}
	return p.clone(), nil
}

// MustLookup panics on an unknown name; use only with the Name constants.
func (s *Store) MustLookup(name Name) Profile {
	p, err := s.Lookup(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Profiles returns copies of all profiles in display order.
func (s *Store) Profiles() []Profile {
	out := make([]Profile, 0, len(canonical))
	for _, n := range canonical {
		out = append(out, s.byName[n].clone())
	}
	return out
}

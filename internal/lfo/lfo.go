// Package lfo provides the per-instrument low-frequency oscillator used for
// vibrato.
package lfo

import "math"

type Shape int

const (
	Sine Shape = iota
	Triangle
	Square
	Saw
)

// LFO produces one modulation value per sample. The zero value is silent.
type LFO struct {
	depth  float64 // semitones when used for vibrato
	rateHz float64
	shape  Shape
	phase  float64 // [0, 1)
}

func New(depth, rateHz float64, shape Shape) LFO {
	var l LFO
	l.Set(depth, rateHz, shape)
	return l
}

// Set reconfigures the oscillator without resetting its phase.
func (l *LFO) Set(depth, rateHz float64, shape Shape) {
	l.depth = depth
	l.rateHz = rateHz
	if shape < Sine || shape > Saw {
		shape = Sine
	}
	l.shape = shape
}

// Sample returns a value in [-depth, +depth] and advances one sample.
func (l *LFO) Sample(sampleRate float64) float64 {
	if !l.Active() || sampleRate <= 0 {
		return 0
	}
	var v float64
	switch l.shape {
	case Triangle:
		if l.phase < 0.5 {
			v = 4*l.phase - 1
		} else {
			v = 3 - 4*l.phase
		}
	case Square:
		v = 1
		if l.phase >= 0.5 {
			v = -1
		}
	case Saw:
		v = 1 - 2*l.phase
	default:
		v = math.Sin(2 * math.Pi * l.phase)
	}
	l.phase += l.rateHz / sampleRate
	l.phase -= math.Floor(l.phase)
	return v * l.depth
}

// Ratio converts the next sample, taken as semitones, into a frequency
// multiplier.
func (l *LFO) Ratio(sampleRate float64) float64 {
	st := l.Sample(sampleRate)
	if st == 0 {
		return 1
	}
	return math.Exp2(st / 12)
}

func (l *LFO) Active() bool {
	return l.depth != 0 && l.rateHz != 0
}

func (l *LFO) Reset() {
	l.phase = 0
}

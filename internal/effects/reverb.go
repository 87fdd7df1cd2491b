package effects

import "math"

// Comb and allpass lengths in seconds.
var (
	combTimes    = [4]float64{0.0297, 0.0371, 0.0411, 0.0437}
	allpassTimes = [2]float64{0.005, 0.0017}
)

// Reverb is a Schroeder reverberator: four parallel combs into two series
// allpasses. Comb feedback is set so the tail falls 60 dB over decay seconds.
type Reverb struct {
	combs   [4]delayLine
	allpass [2]delayLine
	wet     float32
	decay   float64
}

type delayLine struct {
	buf []float32
	pos int
	fb  float32
}

func NewReverb(sampleRate int, decay float64, wet float32) *Reverb {
	if decay <= 0 {
		decay = 0.1
	}
	sr := float64(sampleRate)
	r := &Reverb{wet: clamp(wet, 0, 1), decay: decay}
	for i, sec := range combTimes {
		n := max(int(sec*sr), 1)
		fb := math.Pow(10, -3*float64(n)/(decay*sr))
		r.combs[i] = delayLine{buf: make([]float32, n), fb: clamp(float32(fb), 0, 0.98)}
	}
	for i, sec := range allpassTimes {
		r.allpass[i] = delayLine{buf: make([]float32, max(int(sec*sr), 1)), fb: 0.5}
	}
	return r
}

func (r *Reverb) Decay() float64 { return r.decay }
func (r *Reverb) Wet() float32    { return r.wet }

func (r *Reverb) Process(l, rt float32) (float32, float32) {
	mono := (l + rt) * 0.5
	var out float32
	for i := range r.combs {
		out += r.combs[i].comb(mono)
	}
	out *= 0.25
	for i := range r.allpass {
		out = r.allpass[i].allpassStep(out)
	}
	return l*(1-r.wet) + out*r.wet, rt*(1-r.wet) + out*r.wet
}

func (r *Reverb) Reset() {
	for i := range r.combs {
		r.combs[i].clear()
	}
	for i := range r.allpass {
		r.allpass[i].clear()
	}
}

func (d *delayLine) comb(in float32) float32 {
	out := d.buf[d.pos]
	d.buf[d.pos] = in + out*d.fb
	d.advance()
	return out
}

func (d *delayLine) allpassStep(in float32) float32 {
	held := d.buf[d.pos]
	d.buf[d.pos] = in + held*d.fb
	d.advance()
	return held - in
}

func (d *delayLine) advance() {
	d.pos++
	if d.pos >= len(d.buf) {
		d.pos = 0
	}
}

func (d *delayLine) clear() {
	clear(d.buf)
	d.pos = 0
}

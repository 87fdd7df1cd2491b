package effects

import (
	"math"
	"testing"
)

func TestFeedbackDelayRepeats(t *testing.T) {
	d := NewFeedbackDelay(1000, 0.1, 0.5, 1)
	if d.Length() != 100 {
		t.Fatalf("length = %d, want 100", d.Length())
	}
	d.Process(1, 1)
	var echoes []float32
	for i := 1; i <= 300; i++ {
		l, _ := d.Process(0, 0)
		if l != 0 {
			echoes = append(echoes, l)
			if i%100 != 0 {
				t.Fatalf("echo at frame %d, want multiples of 100", i)
			}
		}
	}
	want := []float32{1, 0.5, 0.25}
	if len(echoes) != len(want) {
		t.Fatalf("echoes = %v, want %v", echoes, want)
	}
	for i := range want {
		if math.Abs(float64(echoes[i]-want[i])) > 1e-6 {
			t.Fatalf("echo %d = %f, want %f", i, echoes[i], want[i])
		}
	}
}

func TestFeedbackDelayDryMix(t *testing.T) {
	d := NewFeedbackDelay(44100, 0.25, 0.15, 0.2)
	l, r := d.Process(1, -1)
	if math.Abs(float64(l)-0.8) > 1e-6 || math.Abs(float64(r)+0.8) > 1e-6 {
		t.Fatalf("dry pass = %f, %f", l, r)
	}
}

func TestReverbTailFollowsDecay(t *testing.T) {
	short := NewReverb(44100, 0.5, 1)
	long := NewReverb(44100, 3, 0.35)
	if long.Wet() != 0.35 || long.Decay() != 3 {
		t.Fatalf("settings not kept: wet %f decay %f", long.Wet(), long.Decay())
	}
	energy := func(r *Reverb) float64 {
		r.Process(1, 1)
		for i := 0; i < 44100/2; i++ {
			r.Process(0, 0)
		}
		var e float64
		for i := 0; i < 4410; i++ {
			l, _ := r.Process(0, 0)
			e += float64(l * l)
		}
		return e
	}
	long = NewReverb(44100, 3, 1)
	if es, el := energy(short), energy(long); el <= es || el == 0 {
		t.Fatalf("longer decay should ring longer: short %g long %g", es, el)
	}
}

func TestReverbResetSilences(t *testing.T) {
	r := NewReverb(44100, 3, 1)
	for i := 0; i < 1000; i++ {
		r.Process(0.5, 0.5)
	}
	r.Reset()
	for i := 0; i < 5000; i++ {
		if l, _ := r.Process(0, 0); l != 0 {
			t.Fatalf("tail after reset at %d: %f", i, l)
		}
	}
}

func TestLimiterHoldsPeaks(t *testing.T) {
	c := NewLimiter(44100)
	var out float32
	for i := 0; i < 2000; i++ {
		out, _ = c.Process(2, 2)
	}
	if out >= 1.1 {
		t.Fatalf("limiter output %f", out)
	}
	c.Reset()
	if l, _ := c.Process(0.2, 0.2); l != 0.2 {
		t.Fatalf("quiet signal changed: %f", l)
	}
}

func TestChainAppliesEffectsInOrder(t *testing.T) {
	c := NewChain(NewFeedbackDelay(100, 0.01, 0, 1), NewCompressor(100, 0, 1, 1, 1, 6))
	c.Process(0.5, 0.5)
	l, _ := c.Process(0, 0)
	if math.Abs(float64(l)-0.5*math.Pow(10, 6.0/20)) > 1e-5 {
		t.Fatalf("chain output %f", l)
	}
	c.Reset()
	if l, _ := c.Process(0, 0); l != 0 {
		t.Fatalf("chain not reset: %f", l)
	}
}

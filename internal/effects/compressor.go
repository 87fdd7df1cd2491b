package effects

import "math"

// Compressor is a feed-forward compressor with a per-channel peak follower.
type Compressor struct {
	threshold float32 // linear
	ratio     float32
	attack    float32 // follower coefficients
	release   float32
	makeup    float32
	envL      float32
	envR      float32
}

// NewCompressor takes the threshold and makeup gain in dB and the follower
// times in milliseconds.
func NewCompressor(sampleRate int, thresholdDB, ratio, attackMs, releaseMs, makeupDB float64) *Compressor {
	if ratio < 1 {
		ratio = 1
	}
	return &Compressor{
		threshold: float32(dbToLinear(thresholdDB)),
		ratio:     float32(ratio),
		attack:    follower(attackMs, sampleRate),
		release:   follower(releaseMs, sampleRate),
		makeup:    float32(dbToLinear(makeupDB)),
	}
}

// NewLimiter is the master-bus setting: fast attack, hard ratio just under
// full scale.
func NewLimiter(sampleRate int) *Compressor {
	return NewCompressor(sampleRate, -1, 20, 1, 80, 0)
}

func (c *Compressor) Process(l, r float32) (float32, float32) {
	c.envL = track(c.envL, abs32(l), c.attack, c.release)
	c.envR = track(c.envR, abs32(r), c.attack, c.release)
	return l * c.gain(c.envL) * c.makeup, r * c.gain(c.envR) * c.makeup
}

func (c *Compressor) gain(env float32) float32 {
	if env <= c.threshold {
		return 1
	}
	over := float64(env / c.threshold)
	return float32(math.Pow(over, 1/float64(c.ratio)-1))
}

func (c *Compressor) Reset() {
	c.envL, c.envR = 0, 0
}

func track(env, in, attack, release float32) float32 {
	if in > env {
		return env + attack*(in-env)
	}
	return env + release*(in-env)
}

func follower(ms float64, sampleRate int) float32 {
	n := ms * float64(sampleRate) / 1000
	if n <= 0 {
		return 1
	}
	return float32(1 - math.Exp(-1/n))
}

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

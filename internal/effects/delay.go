package effects

// FeedbackDelay repeats its input after a fixed time, each repeat scaled by
// feedback.
type FeedbackDelay struct {
	bufL, bufR []float32
	pos        int
	feedback   float32
	wet        float32
}

func NewFeedbackDelay(sampleRate int, seconds float64, feedback, wet float32) *FeedbackDelay {
	n := max(int(seconds*float64(sampleRate)), 1)
	return &FeedbackDelay{
		bufL:     make([]float32, n),
		bufR:     make([]float32, n),
		feedback: clamp(feedback, 0, 0.95),
		wet:      clamp(wet, 0, 1),
	}
}

// Length is the delay time in frames.
func (d *FeedbackDelay) Length() int { return len(d.bufL) }

func (d *FeedbackDelay) Process(l, r float32) (float32, float32) {
	dl, dr := d.bufL[d.pos], d.bufR[d.pos]
	d.bufL[d.pos] = l + dl*d.feedback
	d.bufR[d.pos] = r + dr*d.feedback
	d.pos++
	if d.pos == len(d.bufL) {
		d.pos = 0
	}
	return l*(1-d.wet) + dl*d.wet, r*(1-d.wet) + dr*d.wet
}

func (d *FeedbackDelay) Reset() {
	clear(d.bufL)
	clear(d.bufR)
	d.pos = 0
}

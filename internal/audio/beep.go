package audio

import (
	"context"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Streamer adapts a SampleSource to beep.
type Streamer struct {
	src SampleSource
	buf []float32
}

func NewStreamer(src SampleSource) *Streamer {
	return &Streamer{src: src}
}

func (s *Streamer) Stream(samples [][2]float64) (int, bool) {
	if fs, ok := s.src.(FinishingSource); ok && fs.Finished() {
		return 0, false
	}
	need := len(samples) * 2
	if cap(s.buf) < need {
		s.buf = make([]float32, need)
	}
	s.buf = s.buf[:need]
	s.src.Process(s.buf)
	for i := range samples {
		samples[i][0] = float64(s.buf[i*2])
		samples[i][1] = float64(s.buf[i*2+1])
	}
	return len(samples), true
}

func (s *Streamer) Err() error { return nil }

// BeepOutput plays through the beep speaker.
type BeepOutput struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
	open       bool
	ctrl       *beep.Ctrl
}

func NewBeepOutput(sampleRate int) *BeepOutput {
	return &BeepOutput{sampleRate: beep.SampleRate(sampleRate)}
}

func (o *BeepOutput) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.open {
		return nil
	}
	if err := speaker.Init(o.sampleRate, o.sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	o.open = true
	return nil
}

func (o *BeepOutput) Start(src SampleSource) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.open {
		return ErrNotOpen
	}
	if o.ctrl != nil {
		return nil
	}
	o.ctrl = &beep.Ctrl{Streamer: NewStreamer(src)}
	speaker.Play(o.ctrl)
	return nil
}

func (o *BeepOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.open {
		return nil
	}
	if o.ctrl != nil {
		speaker.Lock()
		o.ctrl.Paused = true
		speaker.Unlock()
		o.ctrl = nil
	}
	speaker.Clear()
	speaker.Close()
	o.open = false
	return nil
}

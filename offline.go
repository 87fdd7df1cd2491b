package manifold

import (
	"context"
	"errors"
	"io"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	intaudio "github.com/cbegin/manifold-go/internal/audio"
	"github.com/cbegin/manifold-go/internal/profile"
)

// RenderCondition plays name for the given duration without a sound device
// and returns interleaved stereo samples. Output is reproducible for a seed.
func RenderCondition(name profile.Name, sampleRate int, seconds float64, seed int64, opts ...Option) ([]float32, error) {
	if seconds <= 0 {
		return nil, errors.New("seconds must be positive")
	}
	capture := intaudio.NewCapture()
	opts = append(opts, WithSampleRate(sampleRate), WithOutput(capture), WithSeed(seed))
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}
	defer e.Dispose()
	if err := e.Init(context.Background()); err != nil {
		return nil, err
	}
	if err := e.PlayCondition(name); err != nil {
		return nil, err
	}
	return capture.Pull(int(float64(sampleRate) * seconds)), nil
}

// WriteWAV encodes interleaved stereo samples as 16-bit PCM.
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	return wav.Encode(w, &sampleStreamer{samples: samples}, format)
}

type sampleStreamer struct {
	samples []float32
	pos     int
}

func (s *sampleStreamer) Stream(frames [][2]float64) (int, bool) {
	n := 0
	for n < len(frames) && s.pos+1 < len(s.samples) {
		frames[n][0] = float64(s.samples[s.pos])
		frames[n][1] = float64(s.samples[s.pos+1])
		s.pos += 2
		n++
	}
	return n, n > 0
}

func (s *sampleStreamer) Err() error { return nil }

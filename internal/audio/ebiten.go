package audio

import (
	"context"
	"fmt"
	"sync"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

// ebiten allows one audio context per process.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// EbitenOutput plays through ebiten's audio context.
type EbitenOutput struct {
	mu         sync.Mutex
	sampleRate int
	ctx        *ebitaudio.Context
	player     *ebitaudio.Player
	reader     *StreamReader
}

func NewEbitenOutput(sampleRate int) *EbitenOutput {
	return &EbitenOutput{sampleRate: sampleRate}
}

func (o *EbitenOutput) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctx != nil {
		return nil
	}
	c, err := sharedAudioContext(o.sampleRate)
	if err != nil {
		return err
	}
	o.ctx = c
	return nil
}

func (o *EbitenOutput) Start(src SampleSource) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctx == nil {
		return ErrNotOpen
	}
	if o.player != nil {
		return nil
	}
	o.reader = NewStreamReader(src)
	pl, err := o.ctx.NewPlayerF32(o.reader)
	if err != nil {
		return fmt.Errorf("ebiten player: %w", err)
	}
	o.player = pl
	o.player.Play()
	return nil
}

func (o *EbitenOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return nil
	}
	o.player.Pause()
	err := o.player.Close()
	o.player = nil
	if cerr := o.reader.Close(); err == nil {
		err = cerr
	}
	return err
}

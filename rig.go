package manifold

import (
	"context"
	"errors"
	"fmt"

	intaudio "github.com/cbegin/manifold-go/internal/audio"
	intfx "github.com/cbegin/manifold-go/internal/effects"
	"github.com/cbegin/manifold-go/internal/notation"
	intseq "github.com/cbegin/manifold-go/internal/sequencer"
	"github.com/cbegin/manifold-go/internal/synth"
)

// Shared send settings.
const (
	ReverbDecay    = 3.0
	ReverbWet      = 0.35
	DelayTime      = "8n"
	DelayFeedback  = 0.15
	DelayWet       = 0.2
	delayReference = 120 // bpm the delay time is measured at
)

// Loop is a scheduled voice callback.
type Loop interface {
	Cancel()
}

// Transport is the tempo clock voices are scheduled on.
type Transport interface {
	SetBPM(bpm float64)
	Schedule(interval, offset float64, fn func(at float64)) (Loop, error)
	Start()
	Stop()
}

// Instrument sounds notes at transport times.
type Instrument interface {
	TriggerAttackRelease(note int, dur, at, velocity float64) error
	ReleaseAll()
}

// Rig is everything Init acquires: the transport, one instrument per voice
// and a release hook for the output and effects.
type Rig struct {
	Transport     Transport
	Instruments   [VoiceCount]Instrument
	SetMasterGain func(gain float64)
	Close         func() error
}

func (r *Rig) validate() error {
	if r == nil || r.Transport == nil {
		return errors.New("rig has no transport")
	}
	for i, in := range r.Instruments {
		if in == nil {
			return fmt.Errorf("rig has no instrument for %s", Role(i))
		}
	}
	return nil
}

// RigBuilder acquires the sound output and builds a Rig.
type RigBuilder func(ctx context.Context) (*Rig, error)

type transportAdapter struct {
	*intseq.Transport
}

func (t transportAdapter) Schedule(interval, offset float64, fn func(at float64)) (Loop, error) {
	l, err := t.Transport.Schedule(interval, offset, fn)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// newAudioRig opens the output and wires synths through the graph.
func newAudioRig(ctx context.Context, cfg engineConfig) (*Rig, error) {
	out := cfg.output
	if out == nil {
		var err error
		out, err = intaudio.NewOutput(cfg.backend, cfg.sampleRate)
		if err != nil {
			return nil, err
		}
	}
	if err := out.Open(ctx); err != nil {
		return nil, fmt.Errorf("open audio output: %w", err)
	}

	sr := cfg.sampleRate
	transport := intseq.NewTransport()
	delaySec := notation.MustSeconds(DelayTime, delayReference)
	graph := intseq.NewGraph(sr, transport,
		intfx.NewReverb(sr, ReverbDecay, ReverbWet),
		intfx.NewFeedbackDelay(sr, delaySec, DelayFeedback, DelayWet),
		intfx.NewLimiter(sr),
	)
	graph.SetMasterGain(cfg.volume)

	rig := &Rig{
		Transport:     transportAdapter{transport},
		SetMasterGain: graph.SetMasterGain,
	}
	synths := make([]*synth.PolySynth, 0, VoiceCount)
	for i, rs := range roles {
		s := synth.New(sr, rs.preset())
		synths = append(synths, s)
		rig.Instruments[i] = s
		graph.Connect(s, rs.bus)
	}
	rig.Close = func() error {
		transport.Stop()
		err := out.Close()
		graph.DisconnectAll()
		for _, s := range synths {
			_ = s.Close()
		}
		return err
	}

	if err := out.Start(graph); err != nil {
		_ = rig.Close()
		return nil, fmt.Errorf("start audio output: %w", err)
	}
	return rig, nil
}

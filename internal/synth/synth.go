// Package synth implements the polyphonic instruments the audio engine plays.
// Notes are queued against the shared audio clock and sounded by Render.
package synth

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/cbegin/manifold-go/internal/lfo"
)

const twoPi = math.Pi * 2

var (
	ErrNoteRange = errors.New("note out of range")
	ErrDuration  = errors.New("invalid note duration")
	ErrClosed    = errors.New("synth closed")
)

// Kind selects the voice topology.
type Kind int

const (
	FM Kind = iota
	AM
	Basic
)

type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Square
	Saw
)

type Params struct {
	Kind     Kind
	Waveform Waveform
	// Partials > 0 builds Basic saw voices additively from that many harmonics.
	Partials    int
	Harmonicity float64
	ModIndex    float64

	Attack  float64 // seconds
	Decay   float64
	Sustain float64 // level 0-1
	Release float64

	VolumeDB  float64
	Polyphony int

	VibratoDepth float64 // semitones
	VibratoRate  float64 // Hz
}

func DefaultParams() Params {
	return Params{
		Kind:        Basic,
		Waveform:    Sine,
		Harmonicity: 1,
		Attack:      0.005,
		Decay:       0.1,
		Sustain:     0.75,
		Release:     0.2,
		Polyphony:   16,
	}
}

type envState int

const (
	envAttack envState = iota
	envDecay
	envSustain
	envRelease
	envOff
)

type voice struct {
	active      bool
	id          int
	freq        float64
	velocity    float64
	phase       float64
	modPhase    float64
	env         float64
	state       envState
	releaseStep float64
}

type event struct {
	at       float64
	on       bool
	id       int
	note     int
	velocity float64
}

// PolySynth is safe for concurrent use: triggers arrive from the transport
// while the audio goroutine renders.
type PolySynth struct {
	mu         sync.Mutex
	sampleRate float64
	params     Params
	gain       float64
	voices     []voice
	queue      []event
	vibrato    lfo.LFO
	nextID     int
	closed     bool
}

func New(sampleRate int, params Params) *PolySynth {
	if params.Polyphony <= 0 {
		params.Polyphony = 16
	}
	if params.Harmonicity <= 0 {
		params.Harmonicity = 1
	}
	return &PolySynth{
		sampleRate: float64(sampleRate),
		params:     params,
		gain:       dbToGain(params.VolumeDB),
		voices:     make([]voice, params.Polyphony),
		vibrato:    lfo.New(params.VibratoDepth, params.VibratoRate, lfo.Sine),
	}
}

func (s *PolySynth) Params() Params { return s.params }

// TriggerAttackRelease queues a note that starts at audio time at and is
// released dur seconds later. Velocity is clamped to [0, 1].
func (s *PolySynth) TriggerAttackRelease(note int, dur, at, velocity float64) error {
	if note < 0 || note > 127 {
		return fmt.Errorf("%w: %d", ErrNoteRange, note)
	}
	if !(dur > 0) || math.IsInf(dur, 0) {
		return fmt.Errorf("%w: %v", ErrDuration, dur)
	}
	if math.IsNaN(at) || math.IsNaN(velocity) {
		return fmt.Errorf("%w: bad time %v or velocity %v", ErrDuration, at, velocity)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	id := s.nextID
	s.nextID++
	s.push(event{at: at, on: true, id: id, note: note, velocity: clamp(velocity, 0, 1)})
	s.push(event{at: at + dur, id: id})
	return nil
}

func (s *PolySynth) push(ev event) {
	i := sort.Search(len(s.queue), func(i int) bool { return s.queue[i].at > ev.at })
	s.queue = append(s.queue, event{})
	copy(s.queue[i+1:], s.queue[i:])
	s.queue[i] = ev
}

// ReleaseAll drops every queued note and moves sounding voices into release.
func (s *PolySynth) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = s.queue[:0]
	for i := range s.voices {
		if s.voices[i].active {
			s.release(&s.voices[i])
		}
	}
}

// Pending reports the number of queued note events.
func (s *PolySynth) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *PolySynth) ActiveVoices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.voices {
		if s.voices[i].active {
			n++
		}
	}
	return n
}

// Close silences the synth; later triggers fail with ErrClosed.
func (s *PolySynth) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.queue = nil
	for i := range s.voices {
		s.voices[i] = voice{}
	}
	return nil
}

// Render applies every event due at or before now and returns one stereo
// frame.
func (s *PolySynth) Render(now float64) (float32, float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, 0
	}
	n := 0
	for n < len(s.queue) && s.queue[n].at <= now {
		ev := s.queue[n]
		if ev.on {
			s.noteOn(ev)
		} else {
			s.noteOff(ev.id)
		}
		n++
	}
	if n > 0 {
		s.queue = append(s.queue[:0], s.queue[n:]...)
	}

	ratio := s.vibrato.Ratio(s.sampleRate)
	var out float64
	for i := range s.voices {
		v := &s.voices[i]
		if !v.active {
			continue
		}
		advanceEnv(v, s.params, s.sampleRate)
		if v.state == envOff {
			v.active = false
			continue
		}
		out += s.renderVoice(v) * v.env * s.gain * (0.2 + 0.8*v.velocity)

		f := v.freq * ratio
		v.phase = wrap(v.phase + twoPi*f/s.sampleRate)
		v.modPhase = wrap(v.modPhase + twoPi*f*s.params.Harmonicity/s.sampleRate)
	}
	o := float32(clamp(out, -1, 1))
	return o, o
}

func (s *PolySynth) renderVoice(v *voice) float64 {
	p := s.params
	switch p.Kind {
	case FM:
		mod := math.Sin(v.modPhase) * p.ModIndex * v.env
		return waveformSample(v.phase+mod, p.Waveform)
	case AM:
		am := 0.5 + 0.5*math.Sin(v.modPhase)
		return waveformSample(v.phase, p.Waveform) * am
	default:
		if p.Partials > 0 {
			return additiveSaw(v.phase, p.Partials)
		}
		return waveformSample(v.phase, p.Waveform)
	}
}

func (s *PolySynth) noteOn(ev event) {
	v := &s.voices[s.stealVoice()]
	*v = voice{
		active:   true,
		id:       ev.id,
		freq:     midiToFreq(ev.note),
		velocity: ev.velocity,
		state:    envAttack,
	}
}

func (s *PolySynth) noteOff(id int) {
	for i := range s.voices {
		v := &s.voices[i]
		if v.active && v.id == id {
			s.release(v)
		}
	}
}

func (s *PolySynth) release(v *voice) {
	if v.state == envRelease || v.state == envOff {
		return
	}
	v.state = envRelease
	v.releaseStep = v.env / math.Max(s.params.Release*s.sampleRate, 1)
}

func (s *PolySynth) stealVoice() int {
	for i := range s.voices {
		if !s.voices[i].active {
			return i
		}
	}
	quiet := 0
	for i := 1; i < len(s.voices); i++ {
		if s.voices[i].env < s.voices[quiet].env {
			quiet = i
		}
	}
	return quiet
}

func advanceEnv(v *voice, p Params, sampleRate float64) {
	switch v.state {
	case envAttack:
		v.env += 1 / math.Max(p.Attack*sampleRate, 1)
		if v.env >= 1 {
			v.env = 1
			v.state = envDecay
		}
	case envDecay:
		v.env -= (1 - p.Sustain) / math.Max(p.Decay*sampleRate, 1)
		if v.env <= p.Sustain {
			v.env = p.Sustain
			v.state = envSustain
		}
	case envSustain:
	case envRelease:
		v.env -= v.releaseStep
		if v.env <= 0.0001 {
			v.env = 0
			v.state = envOff
		}
	case envOff:
		v.env = 0
	}
}

func waveformSample(phase float64, w Waveform) float64 {
	switch w {
	case Saw:
		return 1 - 2*math.Mod(phase, twoPi)/twoPi
	case Triangle:
		return 2*math.Abs(2*math.Mod(phase, twoPi)/twoPi-1) - 1
	case Square:
		if math.Mod(phase, twoPi) < math.Pi {
			return 1
		}
		return -1
	default:
		return math.Sin(phase)
	}
}

// additiveSaw sums the first n harmonics of a band-limited sawtooth.
func additiveSaw(phase float64, n int) float64 {
	var s float64
	for k := 1; k <= n; k++ {
		s += math.Sin(float64(k)*phase) / float64(k)
	}
	return s * 2 / math.Pi
}

func midiToFreq(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

func dbToGain(db float64) float64 {
	return math.Pow(10, db/20)
}

func wrap(phase float64) float64 {
	if phase >= twoPi {
		phase -= twoPi * math.Floor(phase/twoPi)
	}
	return phase
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package manifold plays the five condition profiles as a five-voice
// generative ensemble. The Engine is the playback state machine; the
// visualization lives in internal/scene and only reads Engine.Playing.
package manifold

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	intaudio "github.com/cbegin/manifold-go/internal/audio"
	"github.com/cbegin/manifold-go/internal/profile"
)

const DefaultSampleRate = 44100

var ErrDisposed = errors.New("engine disposed")

type State int32

const (
	StateUninitialized State = iota
	StateIdle
	StatePlaying
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateDisposed:
		return "disposed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// EventKind identifies Watch events.
type EventKind int

const (
	EventStarted EventKind = iota
	EventStopped
	EventDisposed
)

type Event struct {
	Kind      EventKind
	Condition profile.Name
}

type Option func(*engineConfig)

type engineConfig struct {
	sampleRate int
	backend    string
	output     intaudio.Output
	logger     *zap.Logger
	random     func() float64
	seed       int64
	seeded     bool
	rigBuilder RigBuilder
	profiles   *profile.Store
	volume     float64
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		sampleRate: DefaultSampleRate,
		logger:     zap.NewNop(),
		volume:     1,
	}
}

func WithSampleRate(sampleRate int) Option {
	return func(cfg *engineConfig) {
		cfg.sampleRate = sampleRate
	}
}

// WithBackend names the audio output: "ebiten", "beep" or "capture".
func WithBackend(name string) Option {
	return func(cfg *engineConfig) {
		cfg.backend = name
	}
}

// WithOutput supplies an already constructed audio output.
func WithOutput(out intaudio.Output) Option {
	return func(cfg *engineConfig) {
		cfg.output = out
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(cfg *engineConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithRandom replaces the source of velocity and duration jitter. fn must
// return values in [0,1) and is called from the audio goroutine.
func WithRandom(fn func() float64) Option {
	return func(cfg *engineConfig) {
		cfg.random = fn
	}
}

// WithSeed makes jitter reproducible.
func WithSeed(seed int64) Option {
	return func(cfg *engineConfig) {
		cfg.seed = seed
		cfg.seeded = true
	}
}

// WithRigBuilder replaces the audio rig, typically with a fake in tests.
func WithRigBuilder(b RigBuilder) Option {
	return func(cfg *engineConfig) {
		cfg.rigBuilder = b
	}
}

func WithProfiles(store *profile.Store) Option {
	return func(cfg *engineConfig) {
		cfg.profiles = store
	}
}

func WithMasterVolume(volume float64) Option {
	return func(cfg *engineConfig) {
		cfg.volume = max(volume, 0)
	}
}

// Engine owns the transport and the five voices. All methods are safe for
// concurrent use.
type Engine struct {
	mu        sync.Mutex
	cfg       engineConfig
	state     State
	rig       *Rig
	voices    []*voice
	loops     []Loop
	current   profile.Name
	volume    float64
	playing   atomic.Bool
	eventCh   chan Event
	eventChMu sync.Mutex
}

func New(opts ...Option) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	if cfg.profiles == nil {
		cfg.profiles = profile.Default()
	}
	if cfg.random == nil {
		seed := cfg.seed
		if !cfg.seeded {
			seed = rand.Int63()
		}
		cfg.random = lockedRandom(seed)
	}
	if cfg.rigBuilder == nil {
		c := cfg
		cfg.rigBuilder = func(ctx context.Context) (*Rig, error) {
			return newAudioRig(ctx, c)
		}
	}
	return &Engine{cfg: cfg, volume: cfg.volume}, nil
}

func lockedRandom(seed int64) func() float64 {
	var mu sync.Mutex
	r := rand.New(rand.NewSource(seed))
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		return r.Float64()
	}
}

// Init acquires the sound output and builds the instruments and effect
// sends. It is a no-op once initialized. On failure the engine stays
// uninitialized and Init may be retried.
func (e *Engine) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case StateDisposed:
		return ErrDisposed
	case StateIdle, StatePlaying:
		return nil
	}
	rig, err := e.cfg.rigBuilder(ctx)
	if err != nil {
		e.cfg.logger.Warn("audio init failed", zap.Error(err))
		return fmt.Errorf("init audio: %w", err)
	}
	if err := rig.validate(); err != nil {
		if rig != nil && rig.Close != nil {
			_ = rig.Close()
		}
		return fmt.Errorf("init audio: %w", err)
	}
	e.rig = rig
	if rig.SetMasterGain != nil {
		rig.SetMasterGain(e.volume)
	}
	e.state = StateIdle
	e.cfg.logger.Info("audio initialized", zap.Int("sample_rate", e.cfg.sampleRate))
	return nil
}

// PlayCondition tears down any running voices and starts five fresh ones
// for name. An unknown name is rejected in every state; otherwise the call
// does nothing before Init or after Dispose.
func (e *Engine) PlayCondition(name profile.Name) error {
	p, err := e.cfg.profiles.Lookup(name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready() {
		return nil
	}
	return e.playLocked(p)
}

// StopAll silences every voice and halts the transport. Safe to call at any
// time.
func (e *Engine) StopAll() {
	e.mu.Lock()
	name := e.current
	wasPlaying := e.ready() && e.stopLocked()
	e.mu.Unlock()
	if wasPlaying {
		e.sendEvent(Event{Kind: EventStopped, Condition: name})
	}
}

// Toggle stops name if it is the condition playing, otherwise starts it. It
// reports whether the engine is playing afterwards.
func (e *Engine) Toggle(name profile.Name) (bool, error) {
	p, err := e.cfg.profiles.Lookup(name)
	if err != nil {
		return false, err
	}
	e.mu.Lock()
	if !e.ready() {
		e.mu.Unlock()
		return false, nil
	}
	if e.state == StatePlaying && e.current == name {
		e.stopLocked()
		e.mu.Unlock()
		e.sendEvent(Event{Kind: EventStopped, Condition: name})
		return false, nil
	}
	err = e.playLocked(p)
	e.mu.Unlock()
	return err == nil, err
}

// Dispose stops playback and releases the output, instruments and effects.
// The engine is unusable afterwards; playback calls become no-ops.
func (e *Engine) Dispose() error {
	e.mu.Lock()
	if e.state == StateDisposed {
		e.mu.Unlock()
		return nil
	}
	var err error
	if e.rig != nil {
		e.stopLocked()
		if e.rig.Close != nil {
			err = e.rig.Close()
		}
		e.rig = nil
	}
	e.state = StateDisposed
	e.mu.Unlock()
	e.sendEvent(Event{Kind: EventDisposed})
	return err
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Playing is lock-free so a render loop can poll it every frame.
func (e *Engine) Playing() bool {
	return e.playing.Load()
}

func (e *Engine) CurrentCondition() (profile.Name, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current, e.state == StatePlaying
}

// SetMasterVolume scales the output. 1.0 is the default.
func (e *Engine) SetMasterVolume(volume float64) {
	volume = max(volume, 0)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = volume
	if e.rig != nil && e.rig.SetMasterGain != nil {
		e.rig.SetMasterGain(volume)
	}
}

func (e *Engine) MasterVolume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Watch returns a channel of lifecycle events. The channel is buffered
// (cap 8) and events are dropped when it is full. Only the most recent
// Watch channel receives events.
func (e *Engine) Watch() <-chan Event {
	ch := make(chan Event, 8)
	e.eventChMu.Lock()
	e.eventCh = ch
	e.eventChMu.Unlock()
	return ch
}

func (e *Engine) sendEvent(ev Event) {
	e.eventChMu.Lock()
	ch := e.eventCh
	e.eventChMu.Unlock()
	if ch != nil {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (e *Engine) ready() bool {
	return e.state == StateIdle || e.state == StatePlaying
}

func (e *Engine) playLocked(p profile.Profile) error {
	e.stopLocked()
	t := e.rig.Transport
	t.SetBPM(float64(p.Tempo))
	interval := p.NoteLength()
	session := uuid.NewString()
	log := e.cfg.logger.With(zap.String("session", session))

	voices := make([]*voice, 0, VoiceCount)
	loops := make([]Loop, 0, VoiceCount)
	for i := range VoiceCount {
		role := Role(i)
		v := &voice{
			role:       role,
			condition:  p.Name,
			notes:      p.Notes,
			chaos:      p.Chaos,
			noteLen:    interval,
			instrument: e.rig.Instruments[i],
			random:     e.cfg.random,
			log:        log,
		}
		l, err := t.Schedule(interval, role.Offset(), v.tick)
		if err != nil {
			for j, ol := range loops {
				ol.Cancel()
				voices[j].stop()
			}
			return fmt.Errorf("schedule %s: %w", role, err)
		}
		voices = append(voices, v)
		loops = append(loops, l)
	}
	e.voices, e.loops = voices, loops
	t.Start()

	e.current = p.Name
	e.state = StatePlaying
	e.playing.Store(true)
	log.Info("playing",
		zap.String("condition", string(p.Name)),
		zap.Int("bpm", p.Tempo),
		zap.Float64("note_len", interval))
	e.sendEvent(Event{Kind: EventStarted, Condition: p.Name})
	return nil
}

// stopLocked tears the current session down and reports whether one was
// running. Loops are cancelled before their voices are stopped so no tick
// can reach an instrument after ReleaseAll.
func (e *Engine) stopLocked() bool {
	wasPlaying := e.state == StatePlaying
	for _, l := range e.loops {
		l.Cancel()
	}
	for _, v := range e.voices {
		v.stop()
	}
	e.loops, e.voices = nil, nil
	if e.rig != nil {
		for _, in := range e.rig.Instruments {
			in.ReleaseAll()
		}
		e.rig.Transport.Stop()
	}
	e.playing.Store(false)
	e.current = ""
	if wasPlaying {
		e.state = StateIdle
		e.cfg.logger.Debug("stopped")
	}
	return wasPlaying
}

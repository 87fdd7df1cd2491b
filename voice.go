package manifold

import (
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/cbegin/manifold-go/internal/notation"
	"github.com/cbegin/manifold-go/internal/profile"
	intseq "github.com/cbegin/manifold-go/internal/sequencer"
	"github.com/cbegin/manifold-go/internal/synth"
)

// VoiceCount is the fixed number of voices.
const VoiceCount = 5

// StaggerStep separates voice start times, in seconds.
const StaggerStep = 0.1

// Role is a voice's place in the ensemble.
type Role int

const (
	LeftEye Role = iota
	RightEye
	Mouth
	LeftBrow
	RightBrow
)

type roleSpec struct {
	name      string
	semitones int
	preset    func() synth.Params
	bus       intseq.Bus
}

var roles = [VoiceCount]roleSpec{
	LeftEye:   {"left-eye", 0, synth.Violin, intseq.BusReverb},
	RightEye:  {"right-eye", -12, synth.Cello, intseq.BusReverb},
	Mouth:     {"mouth", 0, synth.Trumpet, intseq.BusDelay},
	LeftBrow:  {"left-brow", 12, synth.Flute, intseq.BusReverb},
	RightBrow: {"right-brow", 0, synth.Oboe, intseq.BusDelay},
}

func (r Role) String() string {
	if r < 0 || int(r) >= VoiceCount {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roles[r].name
}

// Semitones is the role's fixed transposition.
func (r Role) Semitones() int { return roles[r].semitones }

// Offset is the voice's start time relative to the transport start.
func (r Role) Offset() float64 { return float64(r) * StaggerStep }

// NoteIndex picks the scale degree for a voice's counter value.
func NoteIndex(counter int, role Role, scaleLen int) int {
	return (counter + 2*int(role)) % scaleLen
}

// Velocity maps chaos and a uniform sample in [0,1) to note velocity.
func Velocity(chaos, r float64) float64 {
	return math.Min(1, 0.3+0.4*chaos+r*0.3*chaos)
}

// Duration widens the nominal note length symmetrically with chaos.
func Duration(noteLen, chaos, r float64) float64 {
	return noteLen * (1 + (r-0.5)*chaos)
}

// voice is the state of one looping voice for a single play session.
// The transport hands the record to its tick handler; the engine flips
// stopped under mu during teardown so a tick in flight either finishes first
// or does nothing.
type voice struct {
	mu         sync.Mutex
	role       Role
	counter    int
	stopped    bool
	condition  profile.Name
	notes      []string
	chaos      float64
	noteLen    float64
	instrument Instrument
	random     func() float64
	log        *zap.Logger
}

func (v *voice) tick(at float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stopped {
		return
	}
	if err := v.trigger(at); err != nil {
		v.log.Debug("note dropped",
			zap.Stringer("voice", v.role),
			zap.String("condition", string(v.condition)),
			zap.Float64("at", at),
			zap.Error(err))
	}
	v.counter++
}

func (v *voice) trigger(at float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("trigger panicked: %v", r)
		}
	}()
	name := v.notes[NoteIndex(v.counter, v.role, len(v.notes))]
	midi, err := notation.ParseNote(name)
	if err != nil {
		return err
	}
	vel := Velocity(v.chaos, v.random())
	dur := Duration(v.noteLen, v.chaos, v.random())
	return v.instrument.TriggerAttackRelease(midi+v.role.Semitones(), dur, at, vel)
}

func (v *voice) stop() {
	v.mu.Lock()
	v.stopped = true
	v.mu.Unlock()
}

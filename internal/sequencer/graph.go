package sequencer

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/cbegin/manifold-go/internal/effects"
)

// AdvanceFrames is how often, in frames, the graph moves the transport.
const AdvanceFrames = 128

// Source renders one stereo frame at audio time now.
type Source interface {
	Render(now float64) (float32, float32)
}

// Bus is where a source's output enters the graph.
type Bus int

const (
	BusDry Bus = iota
	BusReverb
	BusDelay
)

type route struct {
	src Source
	bus Bus
}

// Graph mixes its sources through the shared sends: the delay feeds the
// reverb, the reverb joins the dry bus, and the sum goes through the master
// processor and gain. It owns the audio clock.
type Graph struct {
	mu         sync.Mutex
	sampleRate float64
	transport  *Transport
	routes     []route
	reverb     effects.Effector
	delay      effects.Effector
	master     effects.Effector
	frame      atomic.Int64
	masterGain atomic.Uint64
}

// NewGraph wires the buses. Any processor may be nil, which passes audio
// through.
func NewGraph(sampleRate int, transport *Transport, reverb, delay, master effects.Effector) *Graph {
	g := &Graph{
		sampleRate: float64(sampleRate),
		transport:  transport,
		reverb:     reverb,
		delay:      delay,
		master:     master,
	}
	g.masterGain.Store(math.Float64bits(1))
	return g
}

func (g *Graph) SampleRate() int { return int(g.sampleRate) }

// Now is the audio clock in seconds.
func (g *Graph) Now() float64 {
	return float64(g.frame.Load()) / g.sampleRate
}

func (g *Graph) Connect(src Source, bus Bus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.routes = append(g.routes, route{src: src, bus: bus})
}

// DisconnectAll removes every source; buses keep ringing out.
func (g *Graph) DisconnectAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.routes = nil
}

func (g *Graph) SetMasterGain(gain float64) {
	if gain < 0 || math.IsNaN(gain) {
		gain = 0
	}
	g.masterGain.Store(math.Float64bits(gain))
}

func (g *Graph) MasterGain() float64 {
	return math.Float64frombits(g.masterGain.Load())
}

// Process fills dst with interleaved stereo frames.
func (g *Graph) Process(dst []float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	gain := float32(g.MasterGain())
	frames := len(dst) / 2
	for f := 0; f < frames; f++ {
		n := g.frame.Load()
		now := float64(n) / g.sampleRate
		if g.transport != nil && n%AdvanceFrames == 0 {
			g.transport.Advance(now)
		}
		var dryL, dryR, revL, revR, delL, delR float32
		for _, rt := range g.routes {
			l, r := rt.src.Render(now)
			switch rt.bus {
			case BusReverb:
				revL += l
				revR += r
			case BusDelay:
				delL += l
				delR += r
			default:
				dryL += l
				dryR += r
			}
		}
		if g.delay != nil {
			delL, delR = g.delay.Process(delL, delR)
		}
		revL += delL
		revR += delR
		if g.reverb != nil {
			revL, revR = g.reverb.Process(revL, revR)
		}
		l, r := dryL+revL, dryR+revR
		if g.master != nil {
			l, r = g.master.Process(l, r)
		}
		dst[f*2] = clamp32(l*gain, -1, 1)
		dst[f*2+1] = clamp32(r*gain, -1, 1)
		g.frame.Add(1)
	}
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

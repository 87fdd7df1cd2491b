// Package sequencer holds the audio transport clock and the mixing graph
// that pulls instruments through the effect buses.
package sequencer

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

// DefaultLookAhead is how far past the audio clock loop callbacks are fired.
const DefaultLookAhead = 0.1

var ErrInterval = errors.New("loop interval must be positive")

// Loop is a periodic callback registered with a Transport.
type Loop struct {
	interval  float64
	offset    float64
	fn        func(at float64)
	next      float64
	armed     bool
	cancelled atomic.Bool
}

// Cancel stops the loop. A tick that was already collected but not yet run
// is dropped.
func (l *Loop) Cancel() {
	l.cancelled.Store(true)
}

func (l *Loop) Cancelled() bool {
	return l.cancelled.Load()
}

func (l *Loop) Offset() float64   { return l.offset }
func (l *Loop) Interval() float64 { return l.interval }

type tick struct {
	loop *Loop
	at   float64
}

// Transport is a look-ahead scheduler driven by an external audio clock.
// Advance is called from the audio goroutine; the rest from anywhere.
type Transport struct {
	mu        sync.Mutex
	bpm       float64
	lookAhead float64
	running   bool
	position  float64
	loops     []*Loop
}

func NewTransport() *Transport {
	return &Transport{bpm: 120, lookAhead: DefaultLookAhead}
}

func (t *Transport) SetLookAhead(sec float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sec >= 0 {
		t.lookAhead = sec
	}
}

func (t *Transport) SetBPM(bpm float64) {
	if bpm <= 0 || math.IsNaN(bpm) {
		return
	}
	t.mu.Lock()
	t.bpm = bpm
	t.mu.Unlock()
}

func (t *Transport) BPM() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bpm
}

// Schedule registers fn to run every interval seconds, first at offset
// seconds after the transport starts. If the transport is already running
// the offset counts from the current position.
func (t *Transport) Schedule(interval, offset float64, fn func(at float64)) (*Loop, error) {
	if !(interval > 0) || math.IsInf(interval, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInterval, interval)
	}
	l := &Loop{interval: interval, offset: max(offset, 0), fn: fn}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		l.next = t.position + l.offset
		l.armed = true
	}
	t.loops = append(t.loops, l)
	return l, nil
}

// Start arms every loop relative to the current position.
func (t *Transport) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	for _, l := range t.loops {
		if !l.armed {
			l.next = t.position + l.offset
			l.armed = true
		}
	}
}

// Stop halts the clock. Loops stay registered and re-arm on the next Start.
func (t *Transport) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	for _, l := range t.loops {
		l.armed = false
	}
}

func (t *Transport) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Loops reports the live, uncancelled loop count.
func (t *Transport) Loops() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, l := range t.loops {
		if !l.Cancelled() {
			n++
		}
	}
	return n
}

// Advance moves the clock to now and runs every callback due before
// now+lookAhead in time order, each with its exact scheduled time. Callbacks
// run without the transport lock held, so they may schedule or cancel.
func (t *Transport) Advance(now float64) {
	t.mu.Lock()
	t.position = now
	if !t.running {
		t.mu.Unlock()
		return
	}
	horizon := now + t.lookAhead
	var due []tick
	live := t.loops[:0]
	for _, l := range t.loops {
		if l.Cancelled() {
			continue
		}
		live = append(live, l)
		for l.armed && l.next <= horizon {
			due = append(due, tick{loop: l, at: l.next})
			l.next += l.interval
		}
	}
	clear(t.loops[len(live):])
	t.loops = live
	t.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, tk := range due {
		if tk.loop.Cancelled() {
			continue
		}
		tk.loop.fn(tk.at)
	}
}

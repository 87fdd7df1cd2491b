// Package audio connects the mixing graph to a sound device.
package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
)

// SampleSource fills dst with interleaved stereo float32 frames.
type SampleSource interface {
	Process(dst []float32)
}

// FinishingSource can report the end of its material.
type FinishingSource interface {
	SampleSource
	Finished() bool
}

// Output acquires a device, then pulls a source from its own goroutine
// until closed.
type Output interface {
	Open(ctx context.Context) error
	Start(src SampleSource) error
	Close() error
}

var (
	ErrBackend = errors.New("unknown audio backend")
	ErrNotOpen = errors.New("audio output not open")
)

// NewOutput picks an output by name: "ebiten" (the default), "beep" or
// "capture".
func NewOutput(backend string, sampleRate int) (Output, error) {
	switch normalizeBackend(backend) {
	case "ebiten":
		return NewEbitenOutput(sampleRate), nil
	case "beep":
		return NewBeepOutput(sampleRate), nil
	case "capture":
		return NewCapture(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrBackend, backend)
	}
}

// CheckBackend reports whether NewOutput accepts the name.
func CheckBackend(backend string) error {
	if normalizeBackend(backend) == "" {
		return fmt.Errorf("%w: %q", ErrBackend, backend)
	}
	return nil
}

func normalizeBackend(backend string) string {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "ebiten":
		return "ebiten"
	case "beep":
		return "beep"
	case "capture", "none":
		return "capture"
	}
	return ""
}

// StreamReader exposes a source as little-endian float32 PCM.
type StreamReader struct {
	mu     sync.Mutex
	source SampleSource
	buf    []float32
}

func NewStreamReader(source SampleSource) *StreamReader {
	return &StreamReader{source: source}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i, v := range r.buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	n := frames * 8
	if fs, ok := r.source.(FinishingSource); ok && fs.Finished() {
		return n, io.EOF
	}
	return n, nil
}

func (r *StreamReader) Close() error { return nil }

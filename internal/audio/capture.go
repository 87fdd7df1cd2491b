package audio

import (
	"context"
	"sync"
)

// Capture is an Output with no device. Frames are rendered only when pulled,
// which makes it deterministic for offline rendering and tests.
type Capture struct {
	mu   sync.Mutex
	open bool
	src  SampleSource
}

func NewCapture() *Capture {
	return &Capture{}
}

func (c *Capture) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	return nil
}

func (c *Capture) Start(src SampleSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return ErrNotOpen
	}
	c.src = src
	return nil
}

// Pull renders that many stereo frames from the started source. It returns nil
// before Start or after Close.
func (c *Capture) Pull(frames int) []float32 {
	c.mu.Lock()
	src := c.src
	c.mu.Unlock()
	if src == nil || frames <= 0 {
		return nil
	}
	buf := make([]float32, frames*2)
	src.Process(buf)
	return buf
}

func (c *Capture) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.src != nil
}

func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.src = nil
	c.open = false
	return nil
}

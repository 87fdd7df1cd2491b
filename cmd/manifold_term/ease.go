package main

import "github.com/charmbracelet/harmonica"

// rotationEase turns discrete arrow-key nudges into a smooth drag. Each Step
// returns the pixel delta to feed View.Drag for one frame.
type rotationEase struct {
	spring harmonica.Spring
	target [2]float64
	pos    [2]float64
	vel    [2]float64
}

func newRotationEase(fps int) *rotationEase {
	return &rotationEase{spring: harmonica.NewSpring(harmonica.FPS(fps), 6, 1)}
}

func (r *rotationEase) Nudge(dx, dy float64) {
	r.target[0] += dx
	r.target[1] += dy
}

func (r *rotationEase) Step() (dx, dy float64) {
	var d [2]float64
	for i := range r.pos {
		p, v := r.spring.Update(r.pos[i], r.vel[i], r.target[i])
		d[i] = p - r.pos[i]
		r.pos[i], r.vel[i] = p, v
	}
	return d[0], d[1]
}

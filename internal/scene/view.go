package scene

import (
	"github.com/cbegin/manifold-go/internal/profile"
	"github.com/cbegin/manifold-go/internal/trajectory"
)

// Render clock defaults.
const (
	DefaultTimeStep     = 0.008
	DefaultRotationStep = 0.002
	DefaultRotationX    = 0.3
	dragSensitivity     = 0.005
)

// View is the render-clock state a driver advances once per frame. It never
// reads the audio transport.
type View struct {
	Time float64
	RotX float64
	RotY float64

	TimeStep     float64
	RotationStep float64
}

func NewView() *View {
	return &View{
		RotX:         DefaultRotationX,
		TimeStep:     DefaultTimeStep,
		RotationStep: DefaultRotationStep,
	}
}

// Tick advances virtual time and the idle Y rotation by one frame.
func (v *View) Tick() {
	v.Time += v.TimeStep
	v.RotY += v.RotationStep
}

// Drag accumulates a pointer delta in pixels into the rotation angles.
func (v *View) Drag(dx, dy float64) {
	v.RotY += dx * dragSensitivity
	v.RotX += dy * dragSensitivity
}

// Frame snapshots the view for the renderer.
func (v *View) Frame(name profile.Name, variant trajectory.Variant, pulse bool) Frame {
	return Frame{
		Time:      v.Time,
		RotX:      v.RotX,
		RotY:      v.RotY,
		Condition: name,
		Variant:   variant,
		Pulse:     pulse,
	}
}

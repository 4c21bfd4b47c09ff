package control

import (
	"github.com/taigrr/mode7/pkg/math3d"
	"github.com/taigrr/mode7/pkg/render"
)

// FreeFly defaults.
const (
	DefaultFlySpeed  = 8.0
	DefaultTurnRate  = 2.0
	DefaultBoost     = 3.0
	DefaultMinHeight = 0.1
)

// FreeFly flies along the view direction, strafes along the camera right
// and lifts along world up.
type FreeFly struct {
	Speed     float64 // world units per second
	TurnRate  float64 // radians per second
	Boost     float64 // speed multiplier while boosting
	MinHeight float64 // the eye never goes below this

	forward, strafe, lift Axis
	yaw, pitch            Axis
}

// NewFreeFly creates a free-fly controller with default tuning.
func NewFreeFly() *FreeFly {
	return &FreeFly{
		Speed:     DefaultFlySpeed,
		TurnRate:  DefaultTurnRate,
		Boost:     DefaultBoost,
		MinHeight: DefaultMinHeight,
		forward:   NewAxis(4, 1),
		strafe:    NewAxis(4, 1),
		lift:      NewAxis(4, 1),
		yaw:       NewAxis(8, 1),
		pitch:     NewAxis(8, 1),
	}
}

func (f *FreeFly) Name() string {
	return "freefly"
}

// Update applies one frame of input.
func (f *FreeFly) Update(cam *render.Camera, in Input, dt float64) {
	speed := f.Speed
	if in.Boost {
		speed *= f.Boost
	}

	yaw := wrapYaw(cam.Yaw() + f.yaw.Update(in.Turn*f.TurnRate, dt))
	pitch := cam.Pitch() + f.pitch.Update(in.Look*f.TurnRate, dt)
	if clamped := clampPitch(pitch); clamped != pitch {
		pitch = clamped
		f.pitch.Stop()
	}
	cam.SetYawPitch(yaw, pitch)

	move := cam.Forward().Scale(f.forward.Update(in.Forward*speed, dt)).
		Add(cam.Right().Scale(f.strafe.Update(in.Strafe*speed, dt))).
		Add(math3d.Up().Scale(f.lift.Update(in.Lift*speed, dt)))
	cam.Position = cam.Position.Add(move)

	if cam.Position.Z < f.MinHeight {
		cam.Position.Z = f.MinHeight
		f.lift.Stop()
	}
}

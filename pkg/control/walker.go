package control

import (
	"math"

	"github.com/taigrr/mode7/pkg/render"
)

// Walker defaults.
const (
	DefaultEyeHeight = 1.6
	DefaultWalkSpeed = 4.0
	DefaultResponse  = 6.0
	MinFriction      = 0.02
)

// Walker is a first-person mode pinned to eye height above the floor. It
// moves along the flattened view direction so looking up or down never
// changes speed. How fast velocity follows input depends on the terrain
// under the eye: low friction cells keep momentum like ice.
type Walker struct {
	EyeHeight  float64
	Speed      float64
	TurnRate   float64
	Boost      float64
	Response   float64 // spring frequency on full-friction ground
	Attributes *render.AttributeMap

	forward, strafe Axis
	yaw, pitch      Axis
	terrain         render.Terrain
}

// NewWalker creates a walker with default tuning and no attribute map.
func NewWalker() *Walker {
	return &Walker{
		EyeHeight: DefaultEyeHeight,
		Speed:     DefaultWalkSpeed,
		TurnRate:  DefaultTurnRate,
		Boost:     DefaultBoost,
		Response:  DefaultResponse,
		forward:   NewAxis(DefaultResponse, 1),
		strafe:    NewAxis(DefaultResponse, 1),
		yaw:       NewAxis(8, 1),
		pitch:     NewAxis(8, 1),
		terrain:   render.DefaultTerrain,
	}
}

func (w *Walker) Name() string {
	return "walker"
}

// Terrain returns the terrain the walker stood on during the last update.
func (w *Walker) Terrain() render.Terrain {
	return w.terrain
}

// Update applies one frame of input.
func (w *Walker) Update(cam *render.Camera, in Input, dt float64) {
	speed := w.Speed
	if in.Boost {
		speed *= w.Boost
	}

	yaw := wrapYaw(cam.Yaw() + w.yaw.Update(in.Turn*w.TurnRate, dt))
	pitch := cam.Pitch() + w.pitch.Update(in.Look*w.TurnRate, dt)
	if clamped := clampPitch(pitch); clamped != pitch {
		pitch = clamped
		w.pitch.Stop()
	}
	cam.SetYawPitch(yaw, pitch)

	w.terrain = render.DefaultTerrain
	if w.Attributes != nil {
		w.terrain = w.Attributes.Terrain(cam.Position.X, cam.Position.Y)
	}
	freq := w.Response * math.Max(w.terrain.Friction, MinFriction)
	w.forward.Frequency = freq
	w.strafe.Frequency = freq

	move := cam.Forward2D().Scale(w.forward.Update(in.Forward*speed, dt)).
		Add(cam.Right().Scale(w.strafe.Update(in.Strafe*speed, dt)))
	cam.Position = cam.Position.Add(move)
	cam.Position.Z = w.EyeHeight
}

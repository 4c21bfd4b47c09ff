// Package control moves a render.Camera from player input. Each mode is a
// Controller; velocities are smoothed with harmonica springs so motion eases
// in and out instead of snapping.
package control

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/mode7/pkg/render"
)

// MaxPitch keeps the view just short of straight up or down, where yaw
// stops meaning anything.
const MaxPitch = math.Pi/2 - 0.01

var ErrUnknownMode = errors.New("unknown camera mode")

// Input is one frame of player intent. Axes are in [-1, 1].
type Input struct {
	Forward float64 // +1 ahead
	Strafe  float64 // +1 right
	Lift    float64 // +1 up, free-fly only
	Turn    float64 // +1 turns right (yaw grows toward screen right)
	Look    float64 // +1 looks up
	Boost   bool
}

// Controller drives a camera one frame at a time.
type Controller interface {
	Name() string
	Update(cam *render.Camera, in Input, dt float64)
}

// ByName returns the controller for a configured mode. attrs may be nil.
func ByName(name string, attrs *render.AttributeMap) (Controller, error) {
	switch strings.ToLower(name) {
	case "freefly", "fly", "":
		return NewFreeFly(), nil
	case "walker", "walk":
		w := NewWalker()
		w.Attributes = attrs
		return w, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// Axis is one smoothed velocity component. The velocity chases a target
// through a damped spring, the same way a released key lets a spin die
// down.
type Axis struct {
	Velocity  float64
	Frequency float64 // angular frequency; higher responds faster
	Damping   float64 // 1 is critically damped

	accel  float64 // spring velocity of Velocity
	spring harmonica.Spring
	dt     float64
	freq   float64
	damp   float64
}

// NewAxis creates an axis at rest.
func NewAxis(frequency, damping float64) Axis {
	return Axis{Frequency: frequency, Damping: damping}
}

// Update moves the velocity toward target over dt seconds and returns the
// distance covered.
func (a *Axis) Update(target, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	// Springs are precomputed for a fixed step; rebuild when it changes.
	if dt != a.dt || a.Frequency != a.freq || a.Damping != a.damp {
		a.spring = harmonica.NewSpring(dt, a.Frequency, a.Damping)
		a.dt, a.freq, a.damp = dt, a.Frequency, a.Damping
	}
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, target)
	return a.Velocity * dt
}

// Stop zeroes the velocity immediately.
func (a *Axis) Stop() {
	a.Velocity, a.accel = 0, 0
}

func clampPitch(p float64) float64 {
	return math.Max(-MaxPitch, math.Min(MaxPitch, p))
}

// wrapYaw keeps the heading in [-pi, pi] so it never grows without bound.
func wrapYaw(y float64) float64 {
	return math.Remainder(y, 2*math.Pi)
}

package render

import (
	"math"

	"github.com/taigrr/mode7/pkg/math3d"
)

// DefaultFovX is the horizontal field of view a new camera starts with.
const DefaultFovX = math.Pi / 2

// Camera is a yaw/pitch camera in a Z-up world. Position may be written
// directly between frames; orientation and field of view go through the
// setters so the derived basis, FOV pair and projection distance never
// disagree. The renderer only reads a camera.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	yaw, pitch float64

	// Derived basis, rebuilt together by SetYawPitch.
	forward   math3d.Vec3
	forward2D math3d.Vec3
	right     math3d.Vec3
	up        math3d.Vec3

	// Viewport in pixels and the projection derived from it.
	width, height int
	fovX, fovY    float64
	projDist      float64

	// Inverse of the screen basis, rebuilt when basis or projection change.
	screenInv math3d.Mat3
	invalid   bool
}

// NewCamera creates a camera for a width x height viewport looking along +X
// with DefaultFovX.
func NewCamera(width, height int) *Camera {
	c := &Camera{
		width:  max(width, 1),
		height: max(height, 1),
	}
	c.SetYawPitch(0, 0)
	c.SetFovX(DefaultFovX)
	return c
}

// SetYawPitch sets the orientation in radians. Yaw turns from +X toward +Y,
// positive pitch looks up. No clamping happens here.
func (c *Camera) SetYawPitch(yaw, pitch float64) {
	sy, cy := math.Sincos(yaw)
	sp, cp := math.Sincos(pitch)

	c.yaw, c.pitch = yaw, pitch
	c.forward = math3d.V3(cp*cy, cp*sy, sp)
	c.forward2D = math3d.V3(cy, sy, 0)
	c.right = math3d.V3(-sy, cy, 0)
	c.up = c.forward.Cross(c.right)
	c.rebuild()
}

// SetFovX sets the horizontal field of view and derives the vertical one
// and the projection distance from the viewport aspect.
func (c *Camera) SetFovX(fov float64) {
	half := math.Tan(fov / 2)
	c.fovX = fov
	c.fovY = 2 * math.Atan(float64(c.height)/float64(c.width)*half)
	c.projDist = float64(c.width) / (2 * half)
	c.rebuild()
}

// SetFovY sets the vertical field of view and derives the horizontal one
// and the projection distance from the viewport aspect.
func (c *Camera) SetFovY(fov float64) {
	half := math.Tan(fov / 2)
	c.fovY = fov
	c.fovX = 2 * math.Atan(float64(c.width)/float64(c.height)*half)
	c.projDist = float64(c.height) / (2 * half)
	c.rebuild()
}

// SetViewport changes the pixel dimensions, keeping the horizontal FOV.
func (c *Camera) SetViewport(width, height int) {
	c.width, c.height = max(width, 1), max(height, 1)
	c.SetFovX(c.fovX)
}

// LookAt points the camera at target. Looking straight up or down keeps the
// current yaw.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position)
	if dir.LenSq() == 0 {
		return
	}
	yaw := c.yaw
	if dir.X != 0 || dir.Y != 0 {
		yaw = math.Atan2(dir.Y, dir.X)
	}
	c.SetYawPitch(yaw, math.Atan2(dir.Z, math.Hypot(dir.X, dir.Y)))
}

// Yaw returns the heading in radians.
func (c *Camera) Yaw() float64 {
	return c.yaw
}

func (c *Camera) Pitch() float64 {
	return c.pitch
}

// Forward is the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.forward
}

// Forward2D is the view direction flattened onto the ground (z = 0).
func (c *Camera) Forward2D() math3d.Vec3 {
	return c.forward2D
}

// Right is always horizontal, independent of pitch.
func (c *Camera) Right() math3d.Vec3 {
	return c.right
}

func (c *Camera) Up() math3d.Vec3 {
	return c.up
}

func (c *Camera) FovX() float64 {
	return c.fovX
}

func (c *Camera) FovY() float64 {
	return c.fovY
}

func (c *Camera) Viewport() (width, height int) {
	return c.width, c.height
}

// ProjectionDistance is the distance from the eye to the image plane,
// measured in screen pixels.
func (c *Camera) ProjectionDistance() float64 {
	return c.projDist
}

// rebuild recomputes the inverse screen basis used by Project.
func (c *Camera) rebuild() {
	if c.projDist == 0 {
		return
	}
	m := math3d.FromColumns(
		c.forward.Scale(c.projDist),
		c.right.Scale(float64(c.width)/2),
		c.up.Scale(float64(c.height)/2),
	)
	inv, ok := m.Inverse()
	c.screenInv = inv
	c.invalid = !ok
}

// viewRay returns the unnormalized direction through the centre of pixel
// (row, col). Its length grows toward the screen edges, which keeps the
// ground-plane parameter proportional to perspective depth.
func (c *Camera) viewRay(row, col int) math3d.Vec3 {
	jn := 2*(float64(col)+0.5)/float64(c.width) - 1
	in := 1 - 2*(float64(row)+0.5)/float64(c.height)
	return c.forward.Scale(c.projDist).
		Add(c.right.Scale(jn * float64(c.width) / 2)).
		Add(c.up.Scale(in * float64(c.height) / 2))
}

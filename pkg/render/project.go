package render

import "github.com/taigrr/mode7/pkg/math3d"

// Project maps a world point to screen coordinates. The point is expressed in
// the camera's screen basis (forward scaled by the projection distance, right
// and up scaled by the half viewport) by solving against the cached inverse,
// giving (depth, u, v); u and v are then divided by depth and remapped so that
// u in [-1, 1] covers [0, width] and v in [1, -1] covers [0, height].
//
// depth <= 0 means the point is level with or behind the eye and the screen
// position is meaningless; callers must reject it.
func (c *Camera) Project(p math3d.Vec3) (screen math3d.Vec2, depth float64) {
	if c.invalid {
		return math3d.Vec2{}, 0
	}
	d := c.screenInv.MulVec3(p.Sub(c.Position))
	if d.X <= 0 {
		return math3d.Vec2{}, d.X
	}
	u, v := d.Y/d.X, d.Z/d.X
	return math3d.V2(
		(u+1)*0.5*float64(c.width),
		(1-v)*0.5*float64(c.height),
	), d.X
}

// Depth returns the signed distance of p along the forward axis.
func (c *Camera) Depth(p math3d.Vec3) float64 {
	return c.forward.Dot(p.Sub(c.Position))
}

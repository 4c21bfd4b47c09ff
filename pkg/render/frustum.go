package render

import (
	"github.com/taigrr/mode7/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// PlaneFromPoint builds the plane with the given normal through p.
func PlaneFromPoint(normal, p math3d.Vec3) Plane {
	pl := Plane{Normal: normal, D: -normal.Dot(p)}
	pl.Normalize()
	return pl
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// NearDistance is how far in front of the eye the near culling plane sits.
const NearDistance = 1e-3

// Frustum is the open view pyramid of a camera: four side planes through the
// eye and a near plane. There is no far plane because the floor is infinite.
// Normals point inward.
type Frustum struct {
	Planes [5]Plane
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
)

// NewFrustum builds the frustum from the camera basis and projection. Each
// side plane contains the eye and one screen edge.
func NewFrustum(c *Camera) Frustum {
	width, height := c.Viewport()
	ahead := c.Forward().Scale(c.ProjectionDistance())
	halfW := c.Right().Scale(float64(width) / 2)
	halfH := c.Up().Scale(float64(height) / 2)

	side := func(edge, along math3d.Vec3) Plane {
		n := edge.Cross(along)
		// ahead is inside the pyramid, so the inward side is the one it is on.
		if n.Dot(ahead) < 0 {
			n = n.Negate()
		}
		return PlaneFromPoint(n, c.Position)
	}

	var f Frustum
	f.Planes[FrustumLeft] = side(ahead.Sub(halfW), c.Up())
	f.Planes[FrustumRight] = side(ahead.Add(halfW), c.Up())
	f.Planes[FrustumBottom] = side(ahead.Sub(halfH), c.Right())
	f.Planes[FrustumTop] = side(ahead.Add(halfH), c.Right())
	f.Planes[FrustumNear] = PlaneFromPoint(c.Forward(), c.Position.Add(c.Forward().Scale(NearDistance)))
	return f
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// SphereVisible reports whether any part of the sphere may be inside.
func (f Frustum) SphereVisible(center math3d.Vec3, radius float64) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}

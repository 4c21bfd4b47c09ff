package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/mode7/pkg/math3d"
)

// CubeFace indexes the six skybox faces.
type CubeFace int

const (
	FacePosX CubeFace = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

var faceNames = [6]string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}

func (f CubeFace) String() string {
	if f < 0 || int(f) >= len(faceNames) {
		return fmt.Sprintf("CubeFace(%d)", int(f))
	}
	return faceNames[f]
}

var ErrSkyboxFaces = errors.New("skybox needs six faces")

// Skybox holds one texture per cube face in CubeFace order.
type Skybox struct {
	Faces [6]*Texture
}

// NewSkybox builds a skybox from exactly six non-empty faces ordered
// +X, -X, +Y, -Y, +Z, -Z.
func NewSkybox(faces ...*Texture) (*Skybox, error) {
	if len(faces) != 6 {
		return nil, fmt.Errorf("%w: got %d", ErrSkyboxFaces, len(faces))
	}
	var s Skybox
	for i, f := range faces {
		if f == nil || f.Width == 0 || f.Height == 0 {
			return nil, fmt.Errorf("%w: face %s is empty", ErrSkyboxFaces, CubeFace(i))
		}
		s.Faces[i] = f
	}
	return &s, nil
}

// CubeFaceUV selects the face a direction points at and its texture
// coordinates in [0, 1] (u to the right, v downward as seen from inside the
// cube). The dominant axis wins; ties go to X, then Y, then Z, so every
// nonzero direction maps to exactly one face. The zero vector maps to the
// centre of +X.
//
// Per face, the (u, v) axes are:
//
//	+X: ( y, -z)   -X: (-y, -z)
//	+Y: (-x, -z)   -Y: ( x, -z)
//	+Z: ( y,  x)   -Z: ( y, -x)
//
// which is what a camera with yaw 0 (or the face's own yaw) sees on screen.
func CubeFaceUV(dir math3d.Vec3) (face CubeFace, u, v float64) {
	ax, ay, az := math.Abs(dir.X), math.Abs(dir.Y), math.Abs(dir.Z)

	var sc, tc, ma float64
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		if dir.X >= 0 {
			face, sc, tc = FacePosX, dir.Y, -dir.Z
		} else {
			face, sc, tc = FaceNegX, -dir.Y, -dir.Z
		}
	case ay >= az:
		ma = ay
		if dir.Y >= 0 {
			face, sc, tc = FacePosY, -dir.X, -dir.Z
		} else {
			face, sc, tc = FaceNegY, dir.X, -dir.Z
		}
	default:
		ma = az
		if dir.Z >= 0 {
			face, sc, tc = FacePosZ, dir.Y, dir.X
		} else {
			face, sc, tc = FaceNegZ, dir.Y, -dir.X
		}
	}

	if ma == 0 {
		return FacePosX, 0.5, 0.5
	}
	u = clamp01((sc/ma + 1) / 2)
	v = clamp01((tc/ma + 1) / 2)
	return face, u, v
}

// Sample returns the sky color seen along dir.
func (s *Skybox) Sample(dir math3d.Vec3) Color {
	face, u, v := CubeFaceUV(dir)
	tex := s.Faces[face]
	x, y := texelIndex(u, tex.Width), texelIndex(v, tex.Height)
	return tex.At(x, y)
}

// DrawSky writes every pixel of the frame from the normalized view ray. It
// must run before the floor and sprite passes.
func DrawSky(rc *RenderContext, pix []byte, stride int) {
	cam := rc.Camera
	width, height := cam.Viewport()

	for row := range height {
		line := pix[row*stride:]
		for col := range width {
			face, u, v := CubeFaceUV(cam.viewRay(row, col).Normalize())
			tex := rc.Sky.Faces[face]
			o := col * BytesPerPixel
			tex.copyTexel(line[o:o+BytesPerPixel], texelIndex(u, tex.Width), texelIndex(v, tex.Height))
		}
	}
}

// texelIndex converts a [0, 1] coordinate to a texel index in [0, size).
func texelIndex(t float64, size int) int {
	return min(int(t*float64(size)), size-1)
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

package render

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/mode7/pkg/math3d"
)

// faceColors is in CubeFace order.
var faceColors = [6]Color{
	ColorRed, RGB(0, 255, 255),
	ColorGreen, RGB(255, 0, 255),
	ColorBlue, RGB(255, 255, 0),
}

func newSolidSkybox(t testing.TB) *Skybox {
	t.Helper()
	var faces []*Texture
	for _, c := range faceColors {
		faces = append(faces, NewSolidTexture(4, 4, c))
	}
	sky, err := NewSkybox(faces...)
	if err != nil {
		t.Fatalf("NewSkybox: %v", err)
	}
	return sky
}

// dominantFaces lists every face whose axis has the largest magnitude.
func dominantFaces(d math3d.Vec3) []CubeFace {
	ax, ay, az := math.Abs(d.X), math.Abs(d.Y), math.Abs(d.Z)
	m := math.Max(ax, math.Max(ay, az))
	var faces []CubeFace
	pick := func(a, v float64, pos, neg CubeFace) {
		if a == m {
			if v >= 0 {
				faces = append(faces, pos)
			} else {
				faces = append(faces, neg)
			}
		}
	}
	pick(ax, d.X, FacePosX, FaceNegX)
	pick(ay, d.Y, FacePosY, FaceNegY)
	pick(az, d.Z, FacePosZ, FaceNegZ)
	return faces
}

func TestCubeFaceUVSingleFace(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	dirs := []math3d.Vec3{
		math3d.V3(1, 0, 0), math3d.V3(-1, 0, 0),
		math3d.V3(0, 1, 0), math3d.V3(0, -1, 0),
		math3d.V3(0, 0, 1), math3d.V3(0, 0, -1),
		math3d.V3(1, 1, 1), math3d.V3(-1, -1, -1),
		math3d.V3(0, 2, -2), math3d.V3(-3, 3, 0),
	}
	for range 10000 {
		dirs = append(dirs, math3d.V3(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()))
	}

	for _, d := range dirs {
		face, u, v := CubeFaceUV(d)
		if u < 0 || u > 1 || v < 0 || v > 1 {
			t.Fatalf("CubeFaceUV(%v) = %v (%v, %v): uv out of range", d, face, u, v)
		}
		candidates := dominantFaces(d)
		// Ties resolve to the first candidate in X, Y, Z order.
		if face != candidates[0] {
			t.Fatalf("CubeFaceUV(%v) = %v, want %v", d, face, candidates[0])
		}
		// The same direction scaled must land on the same texel.
		f2, u2, v2 := CubeFaceUV(d.Scale(37))
		if f2 != face || math.Abs(u2-u) > 1e-12 || math.Abs(v2-v) > 1e-12 {
			t.Fatalf("CubeFaceUV is not scale invariant for %v", d)
		}
	}
}

func TestCubeFaceUVCoordinates(t *testing.T) {
	tests := []struct {
		name string
		dir  math3d.Vec3
		face CubeFace
		u, v float64
	}{
		{"+X centre", math3d.V3(1, 0, 0), FacePosX, 0.5, 0.5},
		{"-X centre", math3d.V3(-1, 0, 0), FaceNegX, 0.5, 0.5},
		{"+Z centre", math3d.V3(0, 0, 1), FacePosZ, 0.5, 0.5},
		{"+X right edge", math3d.V3(1, 1, 0), FacePosX, 1, 0.5},
		{"+X top edge", math3d.V3(1, 0, 1), FacePosX, 0.5, 0},
		{"-X right edge", math3d.V3(-1, -1, 0), FaceNegX, 1, 0.5},
		{"+Y tie with Z", math3d.V3(0, 1, 1), FacePosY, 0.5, 0},
		{"-Y left edge", math3d.V3(-0.5, -1, 0), FaceNegY, 0.25, 0.5},
		{"-Z", math3d.V3(0.5, 0, -1), FaceNegZ, 0.5, 0.25},
		{"corner", math3d.V3(1, 1, 1), FacePosX, 1, 0},
		{"zero", math3d.V3(0, 0, 0), FacePosX, 0.5, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			face, u, v := CubeFaceUV(tc.dir)
			if face != tc.face || math.Abs(u-tc.u) > 1e-12 || math.Abs(v-tc.v) > 1e-12 {
				t.Errorf("CubeFaceUV(%v) = %v (%v, %v), want %v (%v, %v)",
					tc.dir, face, u, v, tc.face, tc.u, tc.v)
			}
		})
	}
}

func TestNewSkyboxErrors(t *testing.T) {
	tex := NewSolidTexture(2, 2, ColorWhite)

	if _, err := NewSkybox(tex, tex, tex); !errors.Is(err, ErrSkyboxFaces) {
		t.Errorf("three faces: err = %v", err)
	}
	if _, err := NewSkybox(tex, tex, tex, nil, tex, tex); !errors.Is(err, ErrSkyboxFaces) {
		t.Errorf("nil face: err = %v", err)
	}
	if _, err := NewSkybox(tex, tex, tex, tex, tex, tex); err != nil {
		t.Errorf("six faces: %v", err)
	}
}

func TestDrawSkyFaces(t *testing.T) {
	sky := newSolidSkybox(t)

	tests := []struct {
		name       string
		yaw, pitch float64
		want       CubeFace
	}{
		{"ahead", 0, 0, FacePosX},
		{"left", math.Pi / 2, 0, FacePosY},
		{"behind", math.Pi, 0, FaceNegX},
		{"right", -math.Pi / 2, 0, FaceNegY},
		{"up", 0, math.Pi / 2, FacePosZ},
		{"down", 0.3, -math.Pi / 2, FaceNegZ},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cam := NewCamera(21, 21)
			cam.SetYawPitch(tc.yaw, tc.pitch)
			cam.SetFovX(0.5)

			rc := NewRenderContext(cam)
			rc.Sky = sky
			fb := NewFramebuffer(21, 21)
			if err := rc.Render(fb); err != nil {
				t.Fatal(err)
			}
			// A narrow view never reaches another face.
			for y := range 21 {
				for x := range 21 {
					if got := fb.GetPixel(x, y); got != faceColors[tc.want] {
						t.Fatalf("pixel (%d,%d) = %v, want %v color %v", x, y, got, tc.want, faceColors[tc.want])
					}
				}
			}
		})
	}
}

func TestSkyboxSample(t *testing.T) {
	tex := NewTexture(2, 2, 3)
	tex.SetPixel(0, 0, ColorRed)   // top left
	tex.SetPixel(1, 0, ColorGreen) // top right
	tex.SetPixel(0, 1, ColorBlue)  // bottom left
	tex.SetPixel(1, 1, ColorWhite) // bottom right
	plain := NewSolidTexture(1, 1, ColorBlack)
	sky, err := NewSkybox(tex, plain, plain, plain, plain, plain)
	if err != nil {
		t.Fatal(err)
	}

	// Looking along +X, +Y is to the right on screen and +Z is up.
	tests := []struct {
		dir  math3d.Vec3
		want Color
	}{
		{math3d.V3(1, -0.5, 0.5), ColorRed},
		{math3d.V3(1, 0.5, 0.5), ColorGreen},
		{math3d.V3(1, -0.5, -0.5), ColorBlue},
		{math3d.V3(1, 0.5, -0.5), ColorWhite},
		{math3d.V3(1, 1, -1), ColorWhite}, // u = v = 1 clamps to the last texel
	}
	for _, tc := range tests {
		if got := sky.Sample(tc.dir); got != tc.want {
			t.Errorf("Sample(%v) = %v, want %v", tc.dir, got, tc.want)
		}
	}
}

func TestCubeFaceString(t *testing.T) {
	if FaceNegY.String() != "-Y" {
		t.Errorf("FaceNegY = %q", FaceNegY.String())
	}
	if CubeFace(9).String() != "CubeFace(9)" {
		t.Errorf("CubeFace(9) = %q", CubeFace(9).String())
	}
}

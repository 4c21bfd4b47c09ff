package render

import (
	"math"
	"testing"

	"github.com/taigrr/mode7/pkg/math3d"
)

// newLevelCamera returns a 200x100 camera at height 1 looking along +X with
// a 90 degree horizontal FOV (projection distance 100).
func newLevelCamera() *Camera {
	cam := NewCamera(200, 100)
	cam.Position = math3d.V3(0, 0, 1)
	cam.SetFovX(math.Pi / 2)
	return cam
}

func TestProject(t *testing.T) {
	cam := newLevelCamera()

	tests := []struct {
		name  string
		point math3d.Vec3
		want  math3d.Vec2
	}{
		{"centre", math3d.V3(10, 0, 1), math3d.V2(100, 50)},
		{"right edge", math3d.V3(10, 10, 1), math3d.V2(200, 50)},
		{"left edge", math3d.V3(10, -10, 1), math3d.V2(0, 50)},
		{"top edge", math3d.V3(10, 0, 6), math3d.V2(100, 0)},
		{"bottom edge", math3d.V3(10, 0, -4), math3d.V2(100, 100)},
		{"far centre", math3d.V3(1000, 0, 1), math3d.V2(100, 50)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, depth := cam.Project(tc.point)
			if depth <= 0 {
				t.Fatalf("depth = %v, want > 0", depth)
			}
			if got.Sub(tc.want).Len() > 1e-9 {
				t.Errorf("Project(%v) = %v, want %v", tc.point, got, tc.want)
			}
		})
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := newLevelCamera()

	for _, p := range []math3d.Vec3{
		math3d.V3(-5, 0, 1),
		math3d.V3(0, 3, 1),
		math3d.V3(-1, -20, 4),
	} {
		if _, depth := cam.Project(p); depth > 0 {
			t.Errorf("Project(%v) depth = %v, want <= 0", p, depth)
		}
	}
}

func TestProjectInvertsViewRay(t *testing.T) {
	cam := NewCamera(64, 48)
	cam.Position = math3d.V3(3, -2, 7)
	cam.SetYawPitch(0.7, -0.4)
	cam.SetFovY(0.9)

	for _, px := range [][2]int{{0, 0}, {10, 20}, {47, 63}, {24, 32}} {
		row, col := px[0], px[1]
		for _, scale := range []float64{0.01, 1, 25} {
			p := cam.Position.Add(cam.viewRay(row, col).Scale(scale))
			got, depth := cam.Project(p)
			if depth <= 0 {
				t.Fatalf("pixel %v: depth = %v", px, depth)
			}
			want := math3d.V2(float64(col)+0.5, float64(row)+0.5)
			if got.Sub(want).Len() > 1e-6 {
				t.Errorf("pixel %v scale %v: Project = %v, want %v", px, scale, got, want)
			}
		}
	}
}

func TestDepth(t *testing.T) {
	cam := newLevelCamera()
	if got := cam.Depth(math3d.V3(7, 30, -2)); !near(got, 7, eps) {
		t.Errorf("Depth = %v, want 7", got)
	}
}

package control

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/mode7/pkg/math3d"
	"github.com/taigrr/mode7/pkg/render"
)

const frame = 1.0 / 60

func newCamera() *render.Camera {
	cam := render.NewCamera(64, 48)
	cam.Position = math3d.V3(0, 0, 5)
	return cam
}

func run(c Controller, cam *render.Camera, in Input, seconds float64) {
	for range int(math.Round(seconds / frame)) {
		c.Update(cam, in, frame)
	}
}

func TestAxisApproachesTarget(t *testing.T) {
	a := NewAxis(6, 1)
	for range 180 {
		a.Update(10, frame)
	}
	if math.Abs(a.Velocity-10) > 0.01 {
		t.Errorf("velocity after 3s = %v, want ~10", a.Velocity)
	}

	for range 180 {
		a.Update(0, frame)
	}
	if math.Abs(a.Velocity) > 0.01 {
		t.Errorf("velocity after release = %v, want ~0", a.Velocity)
	}
}

func TestAxisCriticallyDampedNoOvershoot(t *testing.T) {
	a := NewAxis(4, 1)
	for range 600 {
		a.Update(1, frame)
		if a.Velocity > 1+1e-9 {
			t.Fatalf("velocity overshot to %v", a.Velocity)
		}
	}
}

func TestAxisZeroStep(t *testing.T) {
	a := NewAxis(4, 1)
	a.Velocity = 3
	if d := a.Update(10, 0); d != 0 || a.Velocity != 3 {
		t.Errorf("zero dt moved %v, velocity %v", d, a.Velocity)
	}
}

func TestFreeFlyForward(t *testing.T) {
	cam := newCamera()
	ff := NewFreeFly()

	run(ff, cam, Input{Forward: 1}, 3)

	if math.Abs(ff.forward.Velocity-ff.Speed) > 0.05 {
		t.Errorf("cruise velocity = %v, want %v", ff.forward.Velocity, ff.Speed)
	}
	if cam.Position.X <= 10 || math.Abs(cam.Position.Y) > 1e-9 || math.Abs(cam.Position.Z-5) > 1e-9 {
		t.Errorf("position = %v, want far along +X at height 5", cam.Position)
	}

	stopX := cam.Position.X
	run(ff, cam, Input{}, 3)
	if math.Abs(ff.forward.Velocity) > 0.05 {
		t.Errorf("velocity after release = %v", ff.forward.Velocity)
	}
	if cam.Position.X <= stopX {
		t.Error("camera should coast after release")
	}
}

func TestFreeFlyFollowsPitch(t *testing.T) {
	cam := newCamera()
	cam.Position.Z = 50
	cam.SetYawPitch(0, -0.5)
	ff := NewFreeFly()

	run(ff, cam, Input{Forward: 1}, 1)
	if cam.Position.Z >= 50 {
		t.Errorf("flying forward while looking down should descend, z = %v", cam.Position.Z)
	}
}

func TestFreeFlyMinHeight(t *testing.T) {
	cam := newCamera()
	ff := NewFreeFly()

	run(ff, cam, Input{Lift: -1, Boost: true}, 5)
	if cam.Position.Z < ff.MinHeight-1e-12 {
		t.Errorf("z = %v, want >= %v", cam.Position.Z, ff.MinHeight)
	}
}

func TestPitchClamp(t *testing.T) {
	for _, c := range []Controller{NewFreeFly(), NewWalker()} {
		t.Run(c.Name(), func(t *testing.T) {
			cam := newCamera()

			run(c, cam, Input{Look: 1}, 5)
			if cam.Pitch() > MaxPitch+1e-12 {
				t.Errorf("pitch = %v, want <= %v", cam.Pitch(), MaxPitch)
			}
			if cam.Pitch() < MaxPitch-0.1 {
				t.Errorf("pitch = %v, should have reached the limit", cam.Pitch())
			}

			run(c, cam, Input{Look: -1}, 10)
			if cam.Pitch() < -MaxPitch-1e-12 {
				t.Errorf("pitch = %v, want >= %v", cam.Pitch(), -MaxPitch)
			}
		})
	}
}

func TestTurnWrapsYaw(t *testing.T) {
	cam := newCamera()
	ff := NewFreeFly()

	run(ff, cam, Input{Turn: 1}, 20)
	if math.Abs(cam.Yaw()) > math.Pi+1e-12 {
		t.Errorf("yaw = %v, want within [-pi, pi]", cam.Yaw())
	}
}

func TestTurnLeftBringsLeftPointToCentre(t *testing.T) {
	width, _ := newCamera().Viewport()
	centre := float64(width) / 2

	for _, c := range []Controller{NewFreeFly(), NewWalker()} {
		t.Run(c.Name(), func(t *testing.T) {
			cam := newCamera()
			target := math3d.V3(10, -4, cam.Position.Z)
			if _, ok := c.(*Walker); ok {
				target.Z = DefaultEyeHeight
			}

			before, _ := cam.Project(target)
			if before.X >= centre {
				t.Fatalf("target starts at x=%v, want left of %v", before.X, centre)
			}

			run(c, cam, Input{Turn: -1}, 0.3)
			after, depth := cam.Project(target)
			if depth <= 0 {
				t.Fatal("target went behind the camera")
			}
			if after.X <= before.X || after.X > centre+1 {
				t.Errorf("target x %v -> %v, want it to move right toward %v", before.X, after.X, centre)
			}
			if cam.Yaw() >= 0 {
				t.Errorf("yaw = %v, turning left should decrease it", cam.Yaw())
			}
		})
	}
}

func TestWalkerStaysAtEyeHeight(t *testing.T) {
	cam := newCamera()
	cam.SetYawPitch(math.Pi/2, 0.8)
	w := NewWalker()

	run(w, cam, Input{Forward: 1}, 2)

	if cam.Position.Z != w.EyeHeight {
		t.Errorf("z = %v, want eye height %v", cam.Position.Z, w.EyeHeight)
	}
	// Looking up must not slow the walk: all motion is along +Y.
	if cam.Position.Y < 5 || math.Abs(cam.Position.X) > 1e-9 {
		t.Errorf("position = %v, want along +Y", cam.Position)
	}
}

// iceFloor returns an attribute map where every cell is ice.
func iceFloor(t *testing.T, friction float64) *render.AttributeMap {
	t.Helper()
	floor, err := render.NewFloor(render.NewSolidTexture(4, 4, render.ColorWhite))
	if err != nil {
		t.Fatal(err)
	}
	iceColor := render.RGB(180, 220, 255)
	attrs, err := render.NewAttributeMap(render.NewSolidTexture(4, 4, iceColor), floor,
		map[render.Color]render.Terrain{iceColor: {Name: "ice", Friction: friction}})
	if err != nil {
		t.Fatal(err)
	}
	return attrs
}

func TestWalkerIceKeepsMomentum(t *testing.T) {
	coast := func(w *Walker) float64 {
		cam := newCamera()
		run(w, cam, Input{Forward: 1}, 10)
		x := cam.Position.X
		run(w, cam, Input{}, 2)
		return cam.Position.X - x
	}

	ground := NewWalker()
	ice := NewWalker()
	ice.Attributes = iceFloor(t, 0.05)

	g, i := coast(ground), coast(ice)
	if i <= g {
		t.Errorf("coasting on ice %v should exceed ground %v", i, g)
	}
	if ice.Terrain().Name != "ice" {
		t.Errorf("terrain = %q, want ice", ice.Terrain().Name)
	}
	if ground.Terrain() != render.DefaultTerrain {
		t.Errorf("terrain = %+v, want default", ground.Terrain())
	}
}

func TestWalkerZeroFrictionStillResponds(t *testing.T) {
	w := NewWalker()
	w.Attributes = iceFloor(t, 0)
	cam := newCamera()

	run(w, cam, Input{Forward: 1}, 1)
	if cam.Position.X <= 0 {
		t.Error("walker on frictionless ice never started moving")
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"freefly", "freefly", false},
		{"FLY", "freefly", false},
		{"", "freefly", false},
		{"walker", "walker", false},
		{"walk", "walker", false},
		{"orbit", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ByName(tc.name, nil)
			if tc.wantErr {
				if !errors.Is(err, ErrUnknownMode) {
					t.Errorf("err = %v, want %v", err, ErrUnknownMode)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if c.Name() != tc.want {
				t.Errorf("Name() = %q, want %q", c.Name(), tc.want)
			}
		})
	}
}

func TestByNameWalkerGetsAttributes(t *testing.T) {
	attrs := iceFloor(t, 0.1)
	c, err := ByName("walker", attrs)
	if err != nil {
		t.Fatal(err)
	}
	if w, ok := c.(*Walker); !ok || w.Attributes != attrs {
		t.Errorf("walker did not receive the attribute map")
	}
}

package render

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/mode7/pkg/math3d"
)

type countingSurface struct {
	*Framebuffer
	locks, unlocks int
}

func (s *countingSurface) Lock() ([]byte, int, error) {
	s.locks++
	return s.Framebuffer.Lock()
}

func (s *countingSurface) Unlock() {
	s.unlocks++
	s.Framebuffer.Unlock()
}

func TestRenderViewportMismatch(t *testing.T) {
	rc := NewRenderContext(NewCamera(32, 32))
	err := rc.Render(NewFramebuffer(32, 16))
	if !errors.Is(err, ErrViewportMismatch) {
		t.Errorf("err = %v, want %v", err, ErrViewportMismatch)
	}
}

func TestRenderLocksOnce(t *testing.T) {
	rc := NewRenderContext(NewCamera(8, 8))
	s := &countingSurface{Framebuffer: NewFramebuffer(8, 8)}

	if err := rc.Render(s); err != nil {
		t.Fatal(err)
	}
	if s.locks != 1 || s.unlocks != 1 {
		t.Errorf("locks %d unlocks %d, want 1 each", s.locks, s.unlocks)
	}

	// A surface someone else holds is reported, not drawn on.
	if _, _, err := s.Framebuffer.Lock(); err != nil {
		t.Fatal(err)
	}
	if err := rc.Render(s); !errors.Is(err, ErrSurfaceLocked) {
		t.Errorf("err = %v, want %v", err, ErrSurfaceLocked)
	}
}

func TestRenderBackground(t *testing.T) {
	rc := NewRenderContext(NewCamera(4, 4))
	rc.Background = ColorGrass
	fb := NewFramebuffer(4, 4)
	if err := rc.Render(fb); err != nil {
		t.Fatal(err)
	}
	for y := range 4 {
		for x := range 4 {
			if got := fb.GetPixel(x, y); got != ColorGrass {
				t.Fatalf("pixel (%d,%d) = %v", x, y, got)
			}
		}
	}
}

// A level camera sees sky above the horizon, floor below it and sprites
// over both.
func TestRenderPassOrder(t *testing.T) {
	cam := NewCamera(64, 64)
	cam.Position = math3d.V3(0.5, 0.5, 1)
	cam.SetFovX(math.Pi / 2)

	floor, err := NewFloor(NewSolidTexture(4, 4, ColorGrass))
	if err != nil {
		t.Fatal(err)
	}
	reg := NewSpriteRegistry(1)
	reg.TexelSize = 1
	h, err := reg.Register(newRGBATexture(2, 2, ColorWhite), 1)
	if err != nil {
		t.Fatal(err)
	}
	reg.Get(h).Position = math3d.V3(10.5, 0.5, 0)

	rc := NewRenderContext(cam)
	rc.Sky = newSolidSkybox(t)
	rc.Floor = floor
	rc.Sprites = reg
	fb := NewFramebuffer(64, 64)
	if err := rc.Render(fb); err != nil {
		t.Fatal(err)
	}

	if got := fb.GetPixel(2, 5); got != faceColors[FacePosX] {
		t.Errorf("above horizon = %v, want sky", got)
	}
	if got := fb.GetPixel(2, 60); got != ColorGrass {
		t.Errorf("below horizon = %v, want floor", got)
	}
	if got := fb.GetPixel(32, 33); got != ColorWhite {
		t.Errorf("sprite over floor = %v, want white", got)
	}
	if got := fb.GetPixel(32, 30); got != ColorWhite {
		t.Errorf("sprite over sky = %v, want white", got)
	}
	if rc.Stats.FloorPixels != 64*32 {
		t.Errorf("FloorPixels = %d, want %d", rc.Stats.FloorPixels, 64*32)
	}
	if rc.Stats.SpritesDrawn != 1 {
		t.Errorf("SpritesDrawn = %d", rc.Stats.SpritesDrawn)
	}
}

func TestRenderWireframe(t *testing.T) {
	cam := NewCamera(64, 64)
	cam.Position = math3d.V3(0.5, 0.5, 3)
	cam.SetYawPitch(0, -math.Pi/2)

	floor, err := NewFloor(NewSolidTexture(4, 4, ColorBlack))
	if err != nil {
		t.Fatal(err)
	}
	rc := NewRenderContext(cam)
	rc.Floor = floor
	rc.Wireframe = true
	rc.WireframeColor = ColorWhite
	fb := NewFramebuffer(64, 64)
	if err := rc.Render(fb); err != nil {
		t.Fatal(err)
	}

	lit := 0
	for y := range 64 {
		for x := range 64 {
			if fb.GetPixel(x, y) == ColorWhite {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("wireframe grid drew nothing")
	}
	if lit == 64*64 {
		t.Error("wireframe covered the whole frame")
	}
}

func BenchmarkRenderFrame(b *testing.B) {
	cam := NewCamera(320, 200)
	cam.Position = math3d.V3(10, 10, 3)
	cam.SetYawPitch(0.5, -0.2)

	floor, err := NewFloor(NewCheckerTexture(256, 256, 16, ColorGrass, ColorWhite))
	if err != nil {
		b.Fatal(err)
	}
	rc := NewRenderContext(cam)
	rc.Floor = floor
	rc.Sky = newSolidSkybox(b)
	fb := NewFramebuffer(320, 200)

	for b.Loop() {
		if err := rc.Render(fb); err != nil {
			b.Fatal(err)
		}
	}
}

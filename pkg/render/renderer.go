package render

import (
	"errors"
	"fmt"
)

// ErrViewportMismatch is returned when the surface and camera disagree on the
// frame size.
var ErrViewportMismatch = errors.New("surface size does not match camera viewport")

// FrameStats counts what the last frame did.
type FrameStats struct {
	FloorPixels   int
	SpritesDrawn  int
	SpritesCulled int
}

// RenderContext holds everything one scene needs to be drawn. The caller owns
// it and may keep several independent contexts; nothing in the package is
// global. Camera and textures are only read while Render runs.
type RenderContext struct {
	Camera  *Camera
	Floor   *Floor          // nil: no ground
	Sky     *Skybox         // nil: clear to Background
	Sprites *SpriteRegistry // nil: no sprites

	Background     Color
	AlphaThreshold uint8

	// Debug overlay drawn after the sprites.
	Wireframe      bool
	WireframeColor Color

	Stats FrameStats

	visible []*Sprite // scratch for the sprite pass
}

// NewRenderContext creates a context with default settings around cam.
func NewRenderContext(cam *Camera) *RenderContext {
	return &RenderContext{
		Camera:         cam,
		Background:     ColorSky,
		AlphaThreshold: DefaultAlphaThreshold,
		WireframeColor: RGB(0, 255, 128),
	}
}

// Render draws one frame into s: sky (or background), floor, then sprites,
// each pass overwriting what came before. The surface is locked for the whole
// frame and released before Render returns.
func (rc *RenderContext) Render(s Surface) error {
	width, height := s.Size()
	if cw, ch := rc.Camera.Viewport(); cw != width || ch != height {
		return fmt.Errorf("%w: surface %dx%d, camera %dx%d", ErrViewportMismatch, width, height, cw, ch)
	}

	pix, stride, err := s.Lock()
	if err != nil {
		return fmt.Errorf("lock surface: %w", err)
	}
	defer s.Unlock()

	rc.RenderLocked(pix, stride)
	return nil
}

// RenderLocked runs the passes on a buffer the caller already holds.
func (rc *RenderContext) RenderLocked(pix []byte, stride int) {
	rc.Stats = FrameStats{}
	width, height := rc.Camera.Viewport()

	if rc.Sky != nil {
		DrawSky(rc, pix, stride)
	} else {
		fill(pix, stride, width, height, rc.Background)
	}
	if rc.Floor != nil {
		DrawFloor(rc, pix, stride)
	}
	if rc.Sprites != nil {
		DrawSprites(rc, pix, stride)
	}
	if rc.Wireframe {
		DrawWireframe(rc, pix, stride)
	}
}

package main

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/mode7/pkg/control"
	"github.com/taigrr/mode7/pkg/render"
)

var (
	hudBase  = lipgloss.NewStyle().Background(render.ColorBlack).Foreground(render.ColorWhite)
	hudFPS   = hudBase.Foreground(lipgloss.Color("#5fff87"))
	hudTitle = hudBase.Bold(true)
	hudInfo  = hudBase.Foreground(lipgloss.Color("#5fd7ff"))
	hudHint  = hudBase.Foreground(lipgloss.Color("#ffd75f"))
)

// HUD renders an overlay with camera and frame info
type HUD struct {
	title     string
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD(title string) *HUD {
	return &HUD{
		title:   title,
		fpsTime: time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// FPS returns the last measured frame rate.
func (h *HUD) FPS() float64 {
	return h.fps
}

// topLine shows the frame rate, title and camera state.
func (h *HUD) topLine(rc *render.RenderContext, ctrl control.Controller) string {
	cam := rc.Camera
	mode := ctrl.Name()
	if w, ok := ctrl.(*control.Walker); ok {
		mode += " on " + w.Terrain().Name
	}
	return hudFPS.Render(fmt.Sprintf(" %.0f FPS ", h.fps)) +
		hudTitle.Render(" "+h.title+" ") +
		hudInfo.Render(fmt.Sprintf(" %s  pos %.1f,%.1f,%.1f  yaw %.0f° pitch %.0f° ",
			mode, cam.Position.X, cam.Position.Y, cam.Position.Z,
			degrees(cam.Yaw()), degrees(cam.Pitch())))
}

// bottomLine shows what the last frame drew and the mode toggles.
func (h *HUD) bottomLine(rc *render.RenderContext) string {
	check := "[ ]"
	if rc.Wireframe {
		check = "[✓]"
	}
	st := rc.Stats
	return hudBase.Render(fmt.Sprintf(" %s X-Ray  sprites %d drawn %d culled  floor %d px ",
		check, st.SpritesDrawn, st.SpritesCulled, st.FloorPixels)) +
		hudHint.Render(" M: mode  R: reset ")
}

// Render draws the HUD over the top and bottom terminal rows.
func (h *HUD) Render(scr uv.Screen, width, height int, rc *render.RenderContext, ctrl control.Controller) {
	uv.NewStyledString(h.topLine(rc, ctrl)).Draw(scr, uv.Rect(0, 0, width, 1))
	if height > 1 {
		uv.NewStyledString(h.bottomLine(rc)).Draw(scr, uv.Rect(0, height-1, width, 1))
	}
}

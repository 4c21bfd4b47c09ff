package render

import (
	"math"

	"github.com/taigrr/mode7/pkg/math3d"
)

// GridRadius is how many tiles around the camera the debug grid covers.
const GridRadius = 8

// DrawWireframe overlays debug geometry: the outline of every registered
// sprite billboard and the tile grid of the floor around the camera.
func DrawWireframe(rc *RenderContext, pix []byte, stride int) {
	w := wireframe{rc: rc, pix: pix, stride: stride, color: rc.WireframeColor}
	if rc.Floor != nil {
		w.drawGrid(float64(rc.Floor.Size))
	}
	if rc.Sprites != nil {
		rc.Sprites.Each(func(_ Handle, s *Sprite) {
			if !s.Hidden {
				w.drawBillboard(s)
			}
		})
	}
}

type wireframe struct {
	rc     *RenderContext
	pix    []byte
	stride int
	color  Color
}

// drawLine3D projects both endpoints and draws the segment when both are in
// front of the eye.
func (w *wireframe) drawLine3D(p1, p2 math3d.Vec3) {
	cam := w.rc.Camera
	s1, d1 := cam.Project(p1)
	s2, d2 := cam.Project(p2)
	if d1 <= 0 || d2 <= 0 {
		return
	}
	w.drawLine(s1, s2)
}

// drawBillboard outlines the sprite quad.
func (w *wireframe) drawBillboard(s *Sprite) {
	bl, br, top := Billboard(w.rc.Camera, s)
	rise := top.Sub(s.Position)
	tl, tr := bl.Add(rise), br.Add(rise)

	w.drawLine3D(bl, br)
	w.drawLine3D(br, tr)
	w.drawLine3D(tr, tl)
	w.drawLine3D(tl, bl)
}

// drawGrid draws texture tile boundaries on z = 0 near the camera. Lines are
// split into short pieces so segments crossing behind the eye drop out
// piecewise instead of as a whole.
func (w *wireframe) drawGrid(tile float64) {
	pos := w.rc.Camera.Position
	cx := math.Floor(pos.X/tile) * tile
	cy := math.Floor(pos.Y/tile) * tile

	for i := -GridRadius; i <= GridRadius; i++ {
		off := float64(i) * tile
		for j := -GridRadius; j < GridRadius; j++ {
			a, b := float64(j)*tile, float64(j+1)*tile
			w.drawLine3D(math3d.V3(cx+off, cy+a, 0), math3d.V3(cx+off, cy+b, 0))
			w.drawLine3D(math3d.V3(cx+a, cy+off, 0), math3d.V3(cx+b, cy+off, 0))
		}
	}
}

// drawLine draws a screen-space line using Bresenham's algorithm, clipping
// per pixel.
func (w *wireframe) drawLine(a, b math3d.Vec2) {
	width, height := w.rc.Camera.Viewport()
	// Keep wildly off-screen endpoints from looping for ages.
	limit := float64(4 * max(width, height))
	if math.Abs(a.X) > limit || math.Abs(a.Y) > limit || math.Abs(b.X) > limit || math.Abs(b.Y) > limit {
		return
	}

	x0, y0 := int(math.Floor(a.X)), int(math.Floor(a.Y))
	x1, y1 := int(math.Floor(b.X)), int(math.Floor(b.Y))
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if x0 >= 0 && x0 < width && y0 >= 0 && y0 < height {
			o := y0*w.stride + x0*BytesPerPixel
			w.pix[o], w.pix[o+1], w.pix[o+2] = w.color.R, w.color.G, w.color.B
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package main

import (
	"math"

	"github.com/taigrr/mode7/pkg/math3d"
	"github.com/taigrr/mode7/pkg/render"
)

// Built-in sprites used when no scene is configured.

var (
	trunkColor = render.RGB(110, 70, 40)
	leafColor  = render.RGB(30, 110, 45)
	postColor  = render.RGB(150, 150, 150)
	signColors = [4]render.Color{render.ColorRed, render.RGB(240, 200, 40), render.ColorGreen, render.ColorBlue}
	clearColor = render.RGBA(0, 0, 0, 0)
)

// newTreeTexture draws a 16x32 conifer on a transparent background.
func newTreeTexture() *render.Texture {
	const w, h = 16, 32
	tex := render.NewTexture(w, h, 4)
	for y := range h {
		for x := range w {
			c := clearColor
			switch {
			case y >= 24 && x >= 6 && x < 10:
				c = trunkColor
			case y < 24:
				// Canopy widens linearly from the tip.
				half := float64(y+1) / 24 * w / 2
				if math.Abs(float64(x)+0.5-w/2) <= half {
					c = leafColor
				}
			}
			tex.SetPixel(x, y, c)
		}
	}
	return tex
}

// newSignTexture draws a signpost with four rotation frames. The board
// color changes per frame and its arrow points right in the front view, so
// turning around it shows the frames cycle and mirror.
func newSignTexture() *render.Texture {
	const fw, h, frames = 12, 24, 4
	tex := render.NewTexture(fw*frames, h, 4)
	for f := range frames {
		// Board narrows as it turns edge-on.
		boardHalf := max(1, int(float64(fw/2)*math.Abs(math.Cos(float64(f)*math.Pi/frames))))
		for y := range h {
			for x := range fw {
				c := clearColor
				switch {
				case y >= 10 && x >= fw/2-1 && x <= fw/2:
					c = postColor
				case y >= 2 && y < 10 && x >= fw/2-boardHalf && x < fw/2+boardHalf:
					c = signColors[f]
					// Arrow head toward +u.
					if f == 0 && y >= 5 && y < 7 && x >= fw/2 {
						c = render.ColorWhite
					}
				}
				tex.SetPixel(f*fw+x, y, c)
			}
		}
	}
	return tex
}

// populateDemo scatters trees on a grid around the origin and a ring of
// signposts facing outward. It returns the number of sprites placed.
func populateDemo(reg *render.SpriteRegistry) (int, error) {
	tree := newTreeTexture()
	sign := newSignTexture()
	n := 0

	for gx := -3; gx <= 3; gx++ {
		for gy := -3; gy <= 3; gy++ {
			if gx == 0 && gy == 0 {
				continue
			}
			h, err := reg.Register(tree, 1)
			if err != nil {
				return n, err
			}
			// Offset odd rows so the grid reads less regular.
			reg.Get(h).Position = math3d.V3(float64(gx)*8+float64(gy&1)*3, float64(gy)*8, 0)
			n++
		}
	}

	const ring = 8
	for i := range ring {
		h, err := reg.Register(sign, 4)
		if err != nil {
			return n, err
		}
		a := float64(i) * 2 * math.Pi / ring
		s := reg.Get(h)
		s.Position = math3d.V3(4*math.Cos(a), 4*math.Sin(a), 0)
		s.Angle = a
		n++
	}
	return n, nil
}

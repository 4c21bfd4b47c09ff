package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// halfBlock covers the upper half of a cell: its foreground paints the top
// pixel and the cell background the bottom one.
const halfBlock = "▀"

// Draw presents the framebuffer on a terminal screen, two pixel rows per
// cell row. Pixel (0, 0) lands on area.Min; whatever does not fit in area is
// cut off. With an odd height the last cell row leaves its background to the
// terminal.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	cols := min(area.Dx(), fb.Width)
	rows := min(area.Dy(), (fb.Height+1)/2)

	for r := range rows {
		top := fb.Pix[2*r*fb.Stride:]
		var bottom []byte
		if 2*r+1 < fb.Height {
			bottom = fb.Pix[(2*r+1)*fb.Stride:]
		}

		for x := range cols {
			o := x * BytesPerPixel
			style := uv.Style{Fg: RGB(top[o], top[o+1], top[o+2])}
			if bottom != nil {
				style.Bg = RGB(bottom[o], bottom[o+1], bottom[o+2])
			}
			scr.SetCell(area.Min.X+x, area.Min.Y+r, &uv.Cell{
				Content: halfBlock,
				Width:   1,
				Style:   style,
			})
		}
	}
}

// Color is the pixel type shared by textures, framebuffers and the palette.
type Color = color.RGBA

// Palette used by defaults, generated textures and tests.
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
	ColorSky   = RGB(135, 206, 235)
	ColorGrass = RGB(34, 139, 34)
)

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA returns a color with explicit alpha. Only textures keep the alpha;
// framebuffers are RGB.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

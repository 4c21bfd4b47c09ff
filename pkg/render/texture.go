package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	_ "golang.org/x/image/bmp" // Register BMP decoder
)

// Texture is a raw, top-left origin pixel buffer with 3 (RGB) or 4 (RGBA)
// channels per texel and its own row stride. Decoding happens once at load
// time; the render passes only ever index Pix.
type Texture struct {
	Width    int
	Height   int
	Stride   int // Bytes per row
	Channels int // 3 or 4
	Pix      []byte
}

// NewTexture creates an empty texture. Channels other than 4 mean RGB.
func NewTexture(width, height, channels int) *Texture {
	if channels != 4 {
		channels = 3
	}
	return &Texture{
		Width:    width,
		Height:   height,
		Stride:   width * channels,
		Channels: channels,
		Pix:      make([]byte, width*height*channels),
	}
}

// LoadTexture decodes a PNG, JPEG or BMP file into a texture with the given
// channel count.
func LoadTexture(path string, channels int) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	return TextureFromImage(img, channels), nil
}

// TextureFromImage copies an image.Image into a texture. RGBA textures keep
// the authored, non-premultiplied colors so a texel that passes the alpha
// test is drawn at full strength; RGB textures get the image composited over
// black.
func TextureFromImage(img image.Image, channels int) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy(), channels)

	for y := range tex.Height {
		for x := range tex.Width {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			if tex.Channels == 4 {
				n := color.NRGBAModel.Convert(c).(color.NRGBA)
				tex.SetPixel(x, y, Color{R: n.R, G: n.G, B: n.B, A: n.A})
				continue
			}
			// RGBA returns 16-bit alpha-premultiplied values, scale to 8-bit
			r, g, b, a := c.RGBA()
			tex.SetPixel(x, y, Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}

	return tex
}

// NewCheckerTexture creates a procedural checkerboard RGB texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height, 3)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// NewSolidTexture creates a single-color RGB texture.
func NewSolidTexture(width, height int, c Color) *Texture {
	tex := NewTexture(width, height, 3)
	for y := range height {
		for x := range width {
			tex.SetPixel(x, y, c)
		}
	}
	return tex
}

// SetPixel sets a texel. Alpha is dropped for RGB textures.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	i := y*t.Stride + x*t.Channels
	t.Pix[i] = c.R
	t.Pix[i+1] = c.G
	t.Pix[i+2] = c.B
	if t.Channels == 4 {
		t.Pix[i+3] = c.A
	}
}

// At returns the texel at (x, y). RGB textures report full alpha; out of
// range coordinates return transparent black.
func (t *Texture) At(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	i := y*t.Stride + x*t.Channels
	c := Color{R: t.Pix[i], G: t.Pix[i+1], B: t.Pix[i+2], A: 255}
	if t.Channels == 4 {
		c.A = t.Pix[i+3]
	}
	return c
}

// copyTexel copies the RGB channels of texel (x, y) into dst[0:3]. The
// coordinates must already be in range.
func (t *Texture) copyTexel(dst []byte, x, y int) {
	i := y*t.Stride + x*t.Channels
	dst[0] = t.Pix[i]
	dst[1] = t.Pix[i+1]
	dst[2] = t.Pix[i+2]
}

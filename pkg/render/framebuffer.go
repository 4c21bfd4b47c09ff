// Package render implements the mode7 projection and rasterization pipeline:
// a sky cube map, an infinite power-of-two tiled ground plane and
// painter-sorted billboard sprites, all written straight into a 24-bit RGB
// pixel buffer without a depth buffer.
package render

import (
	"errors"
	"image"
	"image/png"
	"os"
)

// BytesPerPixel is the size of one pixel in every surface the renderer
// writes to. Channels are stored R, G, B.
const BytesPerPixel = 3

// ErrSurfaceLocked is returned by Lock when the surface is already held.
var ErrSurfaceLocked = errors.New("surface already locked")

// Surface is a writable RGB pixel buffer. Lock hands out the raw bytes and
// the row stride; pixel (x, y) channel c lives at y*stride + x*3 + c. The
// stride may be larger than width*3. The caller owns the bytes until Unlock.
type Surface interface {
	Size() (width, height int)
	Lock() (pix []byte, stride int, err error)
	Unlock()
}

// Framebuffer is an in-memory Surface whose rows are padded to a 4-byte
// boundary, the same layout a streaming display texture usually has.
type Framebuffer struct {
	Width  int
	Height int
	Stride int    // Bytes per row, >= Width*3
	Pix    []byte // Row-major RGB data
	locked bool
}

// NewFramebuffer creates a framebuffer with rows aligned to 4 bytes.
func NewFramebuffer(width, height int) *Framebuffer {
	stride := (width*BytesPerPixel + 3) &^ 3
	return NewFramebufferStride(width, height, stride)
}

// NewFramebufferStride creates a framebuffer with an explicit row stride.
// A stride smaller than width*3 is raised to width*3.
func NewFramebufferStride(width, height, stride int) *Framebuffer {
	stride = max(stride, width*BytesPerPixel)
	return &Framebuffer{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]byte, stride*height),
	}
}

// Size returns the framebuffer dimensions in pixels.
func (fb *Framebuffer) Size() (int, int) {
	return fb.Width, fb.Height
}

// Lock grants exclusive write access for one frame.
func (fb *Framebuffer) Lock() ([]byte, int, error) {
	if fb.locked {
		return nil, 0, ErrSurfaceLocked
	}
	fb.locked = true
	return fb.Pix, fb.Stride, nil
}

// Unlock releases the buffer acquired by Lock.
func (fb *Framebuffer) Unlock() {
	fb.locked = false
}

// Clear fills the framebuffer with a solid color. Row padding is left alone.
func (fb *Framebuffer) Clear(c Color) {
	fill(fb.Pix, fb.Stride, fb.Width, fb.Height, c)
}

// SetPixel sets a pixel at (x, y). Out of range coordinates are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	i := y*fb.Stride + x*BytesPerPixel
	fb.Pix[i] = c.R
	fb.Pix[i+1] = c.G
	fb.Pix[i+2] = c.B
}

// GetPixel returns the opaque color at (x, y), or transparent black when out
// of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	i := y*fb.Stride + x*BytesPerPixel
	return RGB(fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2])
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.GetPixel(x, y))
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}

// fill writes c into every visible pixel of a strided RGB buffer.
func fill(pix []byte, stride, width, height int, c Color) {
	if width <= 0 || height <= 0 {
		return
	}
	row := pix[:width*BytesPerPixel]
	row[0], row[1], row[2] = c.R, c.G, c.B
	// Copy-doubling within the first row, then copy rows.
	for i := BytesPerPixel; i < len(row); i *= 2 {
		copy(row[i:], row[:i])
	}
	for y := 1; y < height; y++ {
		copy(pix[y*stride:y*stride+len(row)], row)
	}
}

package render

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/taigrr/mode7/pkg/math3d"
)

var (
	ErrFloorNotSquare     = errors.New("floor texture is not square")
	ErrFloorNotPowerOfTwo = errors.New("floor texture size is not a power of two")
	ErrAttributeSize      = errors.New("attribute map does not match floor size")
)

// Floor is the infinite ground plane z = 0, tiled with a square texture whose
// side is 2^k so wraparound is a bitmask.
type Floor struct {
	Texture  *Texture
	Size     int
	SizeLog2 int
	Mask     int // Size - 1
}

// NewFloor validates tex as a floor texture.
func NewFloor(tex *Texture) (*Floor, error) {
	if tex == nil || tex.Width == 0 {
		return nil, fmt.Errorf("%w: empty texture", ErrFloorNotPowerOfTwo)
	}
	if tex.Width != tex.Height {
		return nil, fmt.Errorf("%w: %dx%d", ErrFloorNotSquare, tex.Width, tex.Height)
	}
	if bits.OnesCount(uint(tex.Width)) != 1 {
		return nil, fmt.Errorf("%w: %d", ErrFloorNotPowerOfTwo, tex.Width)
	}
	return &Floor{
		Texture:  tex,
		Size:     tex.Width,
		SizeLog2: bits.TrailingZeros(uint(tex.Width)),
		Mask:     tex.Width - 1,
	}, nil
}

// wrap maps a world coordinate to a texel index. Flooring first keeps
// negative coordinates periodic; two's complement & does the rest.
func (f *Floor) wrap(v float64) int {
	return int(math.Floor(v)) & f.Mask
}

// Texel returns the floor color at world (x, y).
func (f *Floor) Texel(x, y float64) Color {
	return f.Texture.At(f.wrap(x), f.wrap(y))
}

// FloorHit intersects the view ray through pixel (row, col) with the ground.
// ok is false when the ray never reaches z = 0: it points away from the plane
// or runs exactly parallel to it.
func (c *Camera) FloorHit(row, col int) (hit math3d.Vec2, t float64, ok bool) {
	dir := c.viewRay(row, col)
	if dir.Z == 0 {
		return math3d.Vec2{}, 0, false
	}
	t = -c.Position.Z / dir.Z
	if t < 0 || math.IsInf(t, 0) || math.IsNaN(t) {
		return math3d.Vec2{}, t, false
	}
	return math3d.V2(c.Position.X+t*dir.X, c.Position.Y+t*dir.Y), t, true
}

// DrawFloor overwrites every pixel whose view ray hits the ground with the
// floor texel under it. Misses are left untouched so the sky shows through.
func DrawFloor(rc *RenderContext, pix []byte, stride int) {
	f, cam := rc.Floor, rc.Camera
	width, height := cam.Viewport()

	for row := range height {
		line := pix[row*stride:]
		for col := range width {
			hit, _, ok := cam.FloorHit(row, col)
			if !ok {
				continue
			}
			o := col * BytesPerPixel
			f.Texture.copyTexel(line[o:o+BytesPerPixel], f.wrap(hit.X), f.wrap(hit.Y))
			rc.Stats.FloorPixels++
		}
	}
}

// Terrain is a gameplay property attached to a floor cell.
type Terrain struct {
	Name     string
	Friction float64 // 0..1, how quickly a walker's speed follows its input
}

// DefaultTerrain applies when an attribute color is not in the palette.
var DefaultTerrain = Terrain{Name: "ground", Friction: 1}

// AttributeMap is a texture co-registered with the floor whose exact RGB
// values tag cells with a Terrain (ice, mud, ...). The renderer never reads
// it; camera control does.
type AttributeMap struct {
	floor   *Floor
	tex     *Texture
	palette map[Color]Terrain
}

// NewAttributeMap pairs an attribute texture with the floor it describes.
func NewAttributeMap(tex *Texture, floor *Floor, palette map[Color]Terrain) (*AttributeMap, error) {
	if tex == nil || floor == nil || tex.Width != floor.Size || tex.Height != floor.Size {
		return nil, ErrAttributeSize
	}
	p := make(map[Color]Terrain, len(palette))
	for c, t := range palette {
		c.A = 255
		p[c] = t
	}
	return &AttributeMap{floor: floor, tex: tex, palette: p}, nil
}

// At returns the attribute color at world (x, y) using the floor's wrap.
func (a *AttributeMap) At(x, y float64) Color {
	return a.tex.At(a.floor.wrap(x), a.floor.wrap(y))
}

// Terrain looks up the terrain at world (x, y) by exact color match.
func (a *AttributeMap) Terrain(x, y float64) Terrain {
	if s, ok := a.palette[a.At(x, y)]; ok {
		return s
	}
	return DefaultTerrain
}

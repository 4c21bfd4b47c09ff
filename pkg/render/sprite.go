package render

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/taigrr/mode7/pkg/math3d"
)

// DefaultTexelSize is the world-space size of one sprite texel.
const DefaultTexelSize = 1.0 / 32

// DefaultAlphaThreshold is the minimum alpha a sprite texel needs to be drawn.
const DefaultAlphaThreshold = 128

var (
	ErrRegistryFull  = errors.New("sprite registry is full")
	ErrInvalidFrames = errors.New("invalid sprite frame count")
)

// Sprite is a billboard anchored at the middle of its bottom edge.
//
// The texture is split into Frames equal-width columns. Frame 0 is the object
// seen from the front; frame i is the view rotated by i*pi/Frames, and the
// other half circle is produced by mirroring. Frames == 1 is a plain
// billboard.
type Sprite struct {
	Texture  *Texture
	Position math3d.Vec3 // Base of the sprite, not its centre
	Angle    float64     // Facing yaw in radians
	Frames   int
	Width    float64 // World units
	Height   float64 // World units
	Hidden   bool
}

// FrameWidth returns the width of one rotation frame in texels.
func (s *Sprite) FrameWidth() int {
	return s.Texture.Width / s.Frames
}

// Handle identifies a registered sprite. The zero Handle is never valid.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("sprite#%d.%d", h.index, h.gen)
}

type spriteSlot struct {
	sprite Sprite
	gen    uint32
	live   bool
}

// SpriteRegistry is a fixed-capacity arena of sprites. Handles carry a
// generation so a handle to a removed sprite never resolves to whatever
// reuses its slot.
type SpriteRegistry struct {
	slots     []spriteSlot
	free      []uint32
	capacity  int
	live      int
	TexelSize float64
}

// NewSpriteRegistry creates an empty registry holding at most capacity
// sprites.
func NewSpriteRegistry(capacity int) *SpriteRegistry {
	return &SpriteRegistry{
		slots:     make([]spriteSlot, 0, capacity),
		capacity:  capacity,
		TexelSize: DefaultTexelSize,
	}
}

// Register adds a sprite using tex split into frames rotation columns. Its
// world size follows from one frame's texel size. The sprite starts at the
// origin facing +X.
func (r *SpriteRegistry) Register(tex *Texture, frames int) (Handle, error) {
	if tex == nil || tex.Width == 0 || tex.Height == 0 {
		return Handle{}, fmt.Errorf("%w: empty texture", ErrInvalidFrames)
	}
	if frames < 1 || frames > tex.Width {
		return Handle{}, fmt.Errorf("%w: %d frames for %d texels", ErrInvalidFrames, frames, tex.Width)
	}
	if r.live >= r.capacity {
		return Handle{}, fmt.Errorf("%w: capacity %d", ErrRegistryFull, r.capacity)
	}

	s := Sprite{
		Texture: tex,
		Frames:  frames,
		Width:   float64(tex.Width/frames) * r.TexelSize,
		Height:  float64(tex.Height) * r.TexelSize,
	}

	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, spriteSlot{})
	}
	slot := &r.slots[idx]
	slot.gen++
	slot.sprite = s
	slot.live = true
	r.live++

	return Handle{index: idx, gen: slot.gen}, nil
}

// Get returns the sprite for h, or nil when h is stale or unknown. The
// pointer stays valid until the sprite is removed.
func (r *SpriteRegistry) Get(h Handle) *Sprite {
	if h.IsZero() || int(h.index) >= len(r.slots) {
		return nil
	}
	slot := &r.slots[h.index]
	if !slot.live || slot.gen != h.gen {
		return nil
	}
	return &slot.sprite
}

// Remove frees the slot behind h. It reports whether h was live.
func (r *SpriteRegistry) Remove(h Handle) bool {
	if r.Get(h) == nil {
		return false
	}
	slot := &r.slots[h.index]
	slot.live = false
	slot.sprite = Sprite{}
	r.free = append(r.free, h.index)
	r.live--
	return true
}

// Len returns the number of live sprites.
func (r *SpriteRegistry) Len() int {
	return r.live
}

// Cap returns the registry capacity.
func (r *SpriteRegistry) Cap() int {
	return r.capacity
}

// Each calls fn for every live sprite in slot order.
func (r *SpriteRegistry) Each(fn func(Handle, *Sprite)) {
	for i := range r.slots {
		slot := &r.slots[i]
		if slot.live {
			fn(Handle{index: uint32(i), gen: slot.gen}, &slot.sprite)
		}
	}
}

// SortByDepth returns indices into sprites ordered farthest first by signed
// distance along the camera's forward axis, the order the painter's algorithm
// draws in. The sort is not stable: sprites at equal depth may come out in
// either order.
func SortByDepth(cam *Camera, sprites []*Sprite) []int {
	depth := make([]float64, len(sprites))
	order := make([]int, len(sprites))
	for i, s := range sprites {
		depth[i] = cam.Depth(s.Position)
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return cmp.Compare(depth[b], depth[a])
	})
	return order
}

// SelectFrame picks the rotation frame for s drawn around screen column
// screenX, and whether it must be mirrored.
//
// The viewing direction is the camera yaw corrected by how far off centre the
// sprite sits. theta is the angle between that direction and the direction
// that would show the sprite's front; negative theta mirrors. theta in
// [0, pi] spans the Frames stored views, and an index that runs past the end
// folds back with the mirror toggled.
func SelectFrame(cam *Camera, s *Sprite, screenX float64) (frame int, flip bool) {
	n := s.Frames
	if n <= 1 {
		return 0, false
	}
	width, _ := cam.Viewport()
	viewYaw := cam.Yaw() + math.Atan((screenX-float64(width)/2)/cam.ProjectionDistance())

	theta := wrapAngle(s.Angle + math.Pi - viewYaw)
	if theta < 0 {
		flip = true
		theta = -theta
	}
	frame = int(math.Floor(theta / math.Pi * float64(n)))
	if frame >= n {
		frame = 2*n - 1 - frame
		flip = !flip
	}
	return max(frame, 0), flip
}

// wrapAngle maps a to (-pi, pi].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Billboard returns the world-space corners of the sprite quad: the two ends
// of the bottom edge, laid along the camera's right vector and centred on the
// anchor, and the middle of the top edge.
func Billboard(cam *Camera, s *Sprite) (bottomLeft, bottomRight, top math3d.Vec3) {
	half := cam.Right().Scale(s.Width / 2)
	bottomLeft = s.Position.Sub(half)
	bottomRight = s.Position.Add(half)
	top = s.Position.Add(math3d.Up().Scale(s.Height))
	return bottomLeft, bottomRight, top
}

// spriteQuad is a billboard in screen space: origin is the top-left corner,
// across runs to the top-right, down runs to the bottom-left.
type spriteQuad struct {
	origin, across, down math3d.Vec2
	det                  float64
}

// projectSprite projects the billboard of s. ok is false when any corner is
// behind the eye or the quad has no area.
func projectSprite(cam *Camera, s *Sprite, flip bool) (q spriteQuad, ok bool) {
	bl, br, top := Billboard(cam, s)
	left, d0 := cam.Project(bl)
	right, d1 := cam.Project(br)
	apex, d2 := cam.Project(top)
	if d0 <= 0 || d1 <= 0 || d2 <= 0 {
		return q, false
	}
	if flip {
		left, right = right, left
	}

	rise := apex.Sub(left.Add(right).Scale(0.5))
	q.origin = left.Add(rise)
	q.across = right.Sub(left)
	q.down = rise.Scale(-1)
	q.det = q.across.Cross(q.down)
	if math.Abs(q.det) < 1e-9 {
		return q, false
	}
	return q, true
}

// uv inverts the quad's affine map for screen point p.
func (q *spriteQuad) uv(p math3d.Vec2) (u, v float64) {
	d := p.Sub(q.origin)
	return d.Cross(q.down) / q.det, q.across.Cross(d) / q.det
}

// bounds returns the pixel rectangle covering the quad, clamped to the
// viewport. Empty when maxX <= minX or maxY <= minY.
func (q *spriteQuad) bounds(width, height int) (minX, minY, maxX, maxY int) {
	corners := [4]math3d.Vec2{
		q.origin,
		q.origin.Add(q.across),
		q.origin.Add(q.down),
		q.origin.Add(q.across).Add(q.down),
	}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		lo.X, lo.Y = math.Min(lo.X, c.X), math.Min(lo.Y, c.Y)
		hi.X, hi.Y = math.Max(hi.X, c.X), math.Max(hi.Y, c.Y)
	}
	minX = max(int(math.Floor(lo.X)), 0)
	minY = max(int(math.Floor(lo.Y)), 0)
	maxX = min(int(math.Ceil(hi.X)), width)
	maxY = min(int(math.Ceil(hi.Y)), height)
	return minX, minY, maxX, maxY
}

// DrawSprites paints all visible sprites back to front over whatever the
// earlier passes left in the buffer. There is no depth buffer: nearer sprites
// win because they are drawn later.
func DrawSprites(rc *RenderContext, pix []byte, stride int) {
	cam := rc.Camera
	frustum := NewFrustum(cam)

	visible := rc.visible[:0]
	rc.Sprites.Each(func(_ Handle, s *Sprite) {
		if s.Hidden {
			return
		}
		centre := s.Position.Add(math3d.Up().Scale(s.Height / 2))
		radius := math.Hypot(s.Width/2, s.Height/2)
		if !frustum.SphereVisible(centre, radius) {
			rc.Stats.SpritesCulled++
			return
		}
		visible = append(visible, s)
	})
	rc.visible = visible

	for _, i := range SortByDepth(cam, visible) {
		if drawSprite(rc, visible[i], pix, stride) {
			rc.Stats.SpritesDrawn++
		} else {
			rc.Stats.SpritesCulled++
		}
	}
}

func drawSprite(rc *RenderContext, s *Sprite, pix []byte, stride int) bool {
	cam := rc.Camera
	width, height := cam.Viewport()

	// Frame selection needs the on-screen column, so project the anchor
	// first; the flip decides which corner is the texture's left edge.
	anchor, depth := cam.Project(s.Position)
	if depth <= 0 {
		return false
	}
	frame, flip := SelectFrame(cam, s, anchor.X)
	q, ok := projectSprite(cam, s, flip)
	if !ok {
		return false
	}

	minX, minY, maxX, maxY := q.bounds(width, height)
	if maxX <= minX || maxY <= minY {
		return false
	}

	tex := s.Texture
	fw := s.FrameWidth()
	col0 := frame * fw
	alpha := tex.Channels == 4

	for y := minY; y < maxY; y++ {
		line := pix[y*stride:]
		for x := minX; x < maxX; x++ {
			u, v := q.uv(math3d.V2(float64(x)+0.5, float64(y)+0.5))
			if u < 0 || u >= 1 || v < 0 || v >= 1 {
				continue
			}
			tx := col0 + min(int(u*float64(fw)), fw-1)
			ty := min(int(v*float64(tex.Height)), tex.Height-1)
			i := ty*tex.Stride + tx*tex.Channels
			if alpha && tex.Pix[i+3] < rc.AlphaThreshold {
				continue
			}
			o := x * BytesPerPixel
			line[o] = tex.Pix[i]
			line[o+1] = tex.Pix[i+1]
			line[o+2] = tex.Pix[i+2]
		}
	}
	return true
}

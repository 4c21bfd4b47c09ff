// Package scene loads sprite placements from a glTF 2.0 document.
//
// Every node whose extras carry a "sprite" image index becomes a Placement.
// Coordinates are read as-is in mode7's Z-up world: translation is the
// sprite's base point and the rotation's yaw about +Z is its facing angle.
//
//	{"name": "tree", "translation": [4, 2, 0],
//	 "extras": {"sprite": 0, "frames": 8}}
package scene

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/mode7/pkg/math3d"
	"github.com/taigrr/mode7/pkg/render"
)

var (
	ErrMissingImage = errors.New("sprite references a missing image")
	ErrBadExtras    = errors.New("invalid sprite extras")
)

// Placement is one sprite instance described by a node.
type Placement struct {
	Name     string
	Image    int // glTF image index
	Frames   int
	Position math3d.Vec3
	Angle    float64
	Hidden   bool
}

// Scene is a loaded scene file.
type Scene struct {
	Path       string
	Placements []Placement
	Textures   map[int]*render.Texture // decoded RGBA images by index
}

// Load reads the glTF document at path, collects its sprite placements and
// decodes every image they reference.
func Load(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	s := &Scene{Path: path, Textures: make(map[int]*render.Texture)}
	for i, node := range doc.Nodes {
		p, ok, err := placementFromNode(node)
		if err != nil {
			return nil, fmt.Errorf("node %d %q: %w", i, node.Name, err)
		}
		if !ok {
			continue
		}
		if p.Image < 0 || p.Image >= len(doc.Images) {
			return nil, fmt.Errorf("node %d %q: %w: image %d of %d", i, node.Name, ErrMissingImage, p.Image, len(doc.Images))
		}
		if _, done := s.Textures[p.Image]; !done {
			tex, err := decodeImage(doc, p.Image, filepath.Dir(path))
			if err != nil {
				return nil, fmt.Errorf("image %d: %w", p.Image, err)
			}
			s.Textures[p.Image] = tex
		}
		s.Placements = append(s.Placements, p)
	}
	return s, nil
}

// placementFromNode reports ok=false for nodes that are not sprites.
func placementFromNode(node *gltf.Node) (p Placement, ok bool, err error) {
	extras, isMap := node.Extras.(map[string]any)
	if !isMap {
		return p, false, nil
	}
	raw, found := extras["sprite"]
	if !found {
		return p, false, nil
	}

	index, err := wholeNumber(raw)
	if err != nil {
		return p, false, fmt.Errorf("%w: sprite: %v", ErrBadExtras, err)
	}
	frames := 1
	if raw, found := extras["frames"]; found {
		if frames, err = wholeNumber(raw); err != nil || frames < 1 {
			return p, false, fmt.Errorf("%w: frames %v", ErrBadExtras, raw)
		}
	}
	hidden, _ := extras["hidden"].(bool)

	t := node.Translation
	return Placement{
		Name:     node.Name,
		Image:    index,
		Frames:   frames,
		Position: math3d.V3(t[0], t[1], t[2]),
		Angle:    yaw(node.Rotation),
		Hidden:   hidden,
	}, true, nil
}

// wholeNumber accepts JSON numbers that are integers.
func wholeNumber(v any) (int, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("want a number, got %T", v)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("want an integer, got %v", f)
	}
	return int(f), nil
}

// yaw extracts the rotation about +Z from a unit quaternion (x, y, z, w).
func yaw(q [4]float64) float64 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	return math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
}

// imageBytes returns the encoded bytes of an image, whether it lives in a
// buffer view, a data URI or a file next to the document.
func imageBytes(doc *gltf.Document, index int, dir string) ([]byte, error) {
	img := doc.Images[index]
	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			return nil, fmt.Errorf("buffer %d has no data", bv.Buffer)
		}
		end := bv.ByteOffset + bv.ByteLength
		if end > len(buf.Data) {
			return nil, fmt.Errorf("buffer view %d out of range", *img.BufferView)
		}
		return buf.Data[bv.ByteOffset:end], nil
	case strings.HasPrefix(img.URI, "data:"):
		_, payload, found := strings.Cut(img.URI, ";base64,")
		if !found {
			return nil, fmt.Errorf("unsupported data URI")
		}
		return base64.StdEncoding.DecodeString(payload)
	case img.URI != "":
		return os.ReadFile(filepath.Join(dir, filepath.FromSlash(img.URI)))
	default:
		return nil, fmt.Errorf("image has no source")
	}
}

func decodeImage(doc *gltf.Document, index int, dir string) (*render.Texture, error) {
	data, err := imageBytes(doc, index, dir)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return render.TextureFromImage(img, 4), nil
}

// Texture returns the decoded image of a placement.
func (s *Scene) Texture(p Placement) *render.Texture {
	return s.Textures[p.Image]
}

// Populate registers every placement with reg and returns the handles in
// placement order. On error the sprites registered so far stay registered
// and their handles are returned.
func (s *Scene) Populate(reg *render.SpriteRegistry) ([]render.Handle, error) {
	handles := make([]render.Handle, 0, len(s.Placements))
	for _, p := range s.Placements {
		h, err := reg.Register(s.Texture(p), p.Frames)
		if err != nil {
			return handles, fmt.Errorf("register %q: %w", p.Name, err)
		}
		sp := reg.Get(h)
		sp.Position = p.Position
		sp.Angle = p.Angle
		sp.Hidden = p.Hidden
		handles = append(handles, h)
	}
	return handles, nil
}

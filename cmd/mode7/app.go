package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/mode7/internal/config"
	"github.com/taigrr/mode7/internal/logger"
	"github.com/taigrr/mode7/pkg/control"
	"github.com/taigrr/mode7/pkg/math3d"
	"github.com/taigrr/mode7/pkg/render"
	"github.com/taigrr/mode7/pkg/scene"
)

// loadConfig resolves defaults < file < flags and validates the result.
func loadConfig(cmd *cobra.Command, flags *config.Flags) (*config.Config, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	flags.Apply(cfg, cmd.Flags())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logOptions maps the logging section onto logger options. The console
// writer is left to the caller since the viewer owns the terminal.
func logOptions(cfg *config.Config) logger.Options {
	opts := logger.Options{Level: cfg.Logging.Level}
	if cfg.Logging.File != "" {
		opts.File = logger.FileConfig{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}
	}
	return opts
}

// world is everything loaded once at startup.
type world struct {
	cfg   *config.Config
	rc    *render.RenderContext
	attrs *render.AttributeMap
	name  string // shown in the HUD
}

// newWorld loads every asset named by cfg. Any failure here is fatal: the
// caller logs it and exits non-zero.
func newWorld(cfg *config.Config, log *zap.Logger, width, height int) (*world, error) {
	bg, err := config.ParseRGB(cfg.Display.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	cam := render.NewCamera(width, height)
	rc := render.NewRenderContext(cam)
	rc.Background = bg
	rc.AlphaThreshold = uint8(cfg.Sprites.AlphaThreshold)

	w := &world{cfg: cfg, rc: rc, name: "demo"}
	w.resetCamera()

	if err := w.loadFloor(log); err != nil {
		return nil, err
	}
	if err := w.loadSky(log); err != nil {
		return nil, err
	}
	if err := w.loadSprites(log); err != nil {
		return nil, err
	}
	return w, nil
}

// resetCamera puts the camera back where the config starts it.
func (w *world) resetCamera() {
	c := w.cfg.Camera
	cam := w.rc.Camera
	cam.SetFovX(c.FovX * math.Pi / 180)
	cam.Position = math3d.V3(c.Position[0], c.Position[1], c.Position[2])
	cam.SetYawPitch(c.Yaw*math.Pi/180, c.Pitch*math.Pi/180)
}

func (w *world) loadFloor(log *zap.Logger) error {
	a := w.cfg.Assets

	tex := render.NewCheckerTexture(256, 256, 32, render.ColorGrass, render.RGB(60, 120, 50))
	if a.Floor != "" {
		var err error
		if tex, err = render.LoadTexture(a.Floor, 3); err != nil {
			return fmt.Errorf("floor: %w", err)
		}
	}
	floor, err := render.NewFloor(tex)
	if err != nil {
		return fmt.Errorf("floor %s: %w", a.Floor, err)
	}
	w.rc.Floor = floor
	log.Debug("floor ready", zap.String("path", a.Floor), zap.Int("size", floor.Size))

	if a.Attributes == "" {
		return nil
	}
	attrTex, err := render.LoadTexture(a.Attributes, 3)
	if err != nil {
		return fmt.Errorf("attributes: %w", err)
	}
	palette := make(map[render.Color]render.Terrain, len(a.Terrain))
	for _, t := range a.Terrain {
		c, err := config.ParseRGB(t.Color)
		if err != nil {
			return fmt.Errorf("terrain %q: %w", t.Name, err)
		}
		palette[c] = render.Terrain{Name: t.Name, Friction: t.Friction}
	}
	if w.attrs, err = render.NewAttributeMap(attrTex, floor, palette); err != nil {
		return fmt.Errorf("attributes %s: %w", a.Attributes, err)
	}
	log.Debug("attribute map ready", zap.Int("terrains", len(palette)))
	return nil
}

func (w *world) loadSky(log *zap.Logger) error {
	paths := w.cfg.Assets.Sky
	if len(paths) == 0 {
		return nil
	}
	faces := make([]*render.Texture, len(paths))
	for i, p := range paths {
		tex, err := render.LoadTexture(p, 3)
		if err != nil {
			return fmt.Errorf("sky face %s: %w", render.CubeFace(i), err)
		}
		faces[i] = tex
	}
	sky, err := render.NewSkybox(faces...)
	if err != nil {
		return err
	}
	w.rc.Sky = sky
	log.Debug("skybox ready")
	return nil
}

func (w *world) loadSprites(log *zap.Logger) error {
	reg := render.NewSpriteRegistry(w.cfg.Sprites.Capacity)
	reg.TexelSize = w.cfg.Sprites.TexelSize
	w.rc.Sprites = reg

	path := w.cfg.Assets.Scene
	if path == "" {
		n, err := populateDemo(reg)
		if err != nil {
			return fmt.Errorf("demo sprites: %w", err)
		}
		log.Debug("demo sprites placed", zap.Int("count", n))
		return nil
	}

	sc, err := scene.Load(path)
	if err != nil {
		return err
	}
	handles, err := sc.Populate(reg)
	if err != nil {
		return fmt.Errorf("scene %s: %w", path, err)
	}
	w.name = sc.Path
	log.Info("scene loaded",
		zap.String("path", path),
		zap.Int("sprites", len(handles)),
		zap.Int("images", len(sc.Textures)),
	)
	return nil
}

// newController builds the configured camera mode.
func (w *world) newController(mode string) (control.Controller, error) {
	ctrl, err := control.ByName(mode, w.attrs)
	if err != nil {
		return nil, err
	}
	switch c := ctrl.(type) {
	case *control.FreeFly:
		c.Speed = w.cfg.Camera.Speed
	case *control.Walker:
		c.EyeHeight = w.cfg.Camera.EyeHeight
		c.Speed = w.cfg.Camera.Speed / 2
	}
	return ctrl, nil
}

package main

import (
	"context"
	"fmt"
	"math"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/mode7/internal/config"
	"github.com/taigrr/mode7/internal/logger"
	"github.com/taigrr/mode7/pkg/control"
	"github.com/taigrr/mode7/pkg/render"
)

func newViewCmd(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Explore the scene interactively in the terminal",
		Long: `Explore the scene interactively in the terminal.

Controls:
  W/S A/D   move and strafe     Arrows  turn and look
  Q/E       lift (free-fly)     Shift   boost
  M         free-fly / walker   X       wireframe overlay
  R         reset camera        ?       toggle HUD
  Esc       quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			// The terminal is ours while viewing, so logs only go to a file.
			log, closeLog := logger.New(logOptions(cfg))
			defer closeLog()
			return runView(cmd.Context(), cfg, log)
		},
	}
}

// keyInput is the held-key state. Key release events are unreliable in many
// terminals, so every axis also decays toward zero each frame.
type keyInput struct {
	forward, strafe, lift, turn, look float64
	boost                             bool
}

const inputDecay = 0.9

func (k *keyInput) decay() {
	k.forward *= inputDecay
	k.strafe *= inputDecay
	k.lift *= inputDecay
	k.turn *= inputDecay
	k.look *= inputDecay
}

func (k *keyInput) input() control.Input {
	return control.Input{
		Forward: k.forward,
		Strafe:  k.strafe,
		Lift:    k.lift,
		Turn:    k.turn,
		Look:    k.look,
		Boost:   k.boost,
	}
}

// press records a key press and reports whether it was a movement key.
func (k *keyInput) press(ev uv.KeyPressEvent) bool {
	switch {
	case ev.MatchString("w", "W"):
		k.forward = 1
	case ev.MatchString("s", "S"):
		k.forward = -1
	case ev.MatchString("d", "D"):
		k.strafe = 1
	case ev.MatchString("a", "A"):
		k.strafe = -1
	case ev.MatchString("e", "E"):
		k.lift = 1
	case ev.MatchString("q", "Q"):
		k.lift = -1
	case ev.MatchString("left", "shift+left"):
		k.turn = -1
	case ev.MatchString("right", "shift+right"):
		k.turn = 1
	case ev.MatchString("up", "shift+up"):
		k.look = 1
	case ev.MatchString("down", "shift+down"):
		k.look = -1
	default:
		return false
	}
	k.boost = ev.MatchString("W", "S", "A", "D", "E", "Q",
		"shift+left", "shift+right", "shift+up", "shift+down")
	return true
}

func (k *keyInput) release(ev uv.KeyReleaseEvent) {
	switch {
	case ev.MatchString("w", "W", "s", "S"):
		k.forward = 0
	case ev.MatchString("a", "A", "d", "D"):
		k.strafe = 0
	case ev.MatchString("q", "Q", "e", "E"):
		k.lift = 0
	case ev.MatchString("left", "right"):
		k.turn = 0
	case ev.MatchString("up", "down"):
		k.look = 0
	}
}

// fbSize is the framebuffer size for a terminal: two pixel rows per cell.
func fbSize(cols, rows int) (int, int) {
	return max(cols, 1), max(rows*2, 1)
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func runView(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	fbWidth, fbHeight := fbSize(width, height)
	w, err := newWorld(cfg, log, fbWidth, fbHeight)
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return err
	}
	rc := w.rc
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	ctrl, err := w.newController(cfg.Camera.Mode)
	if err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		log.Warn("resize", zap.Error(err))
	}

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			log.Warn("terminal shutdown", zap.Error(err))
		}
	}
	defer cleanup()

	log.Info("viewer started",
		zap.Int("cols", width), zap.Int("rows", height),
		zap.String("mode", ctrl.Name()),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hud := NewHUD(w.name)
	showHUD := cfg.Display.ShowHUD
	var keys keyInput

	targetDuration := time.Second / time.Duration(cfg.Display.FPS)
	lastFrame := time.Now()
	events := term.Events()

	for {
		// Fold every pending event into the frame's state.
	drain:
		for {
			select {
			case <-ctx.Done():
				log.Info("viewer stopped")
				return nil
			case ev := <-events:
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					width, height = ev.Width, ev.Height
					term.Erase()
					if err := term.Resize(width, height); err != nil {
						log.Warn("resize", zap.Error(err))
					}
					fbWidth, fbHeight = fbSize(width, height)
					fb = render.NewFramebuffer(fbWidth, fbHeight)
					rc.Camera.SetViewport(fbWidth, fbHeight)
					log.Debug("resized", zap.Int("cols", width), zap.Int("rows", height))

				case uv.KeyPressEvent:
					if keys.press(ev) {
						continue
					}
					switch {
					case ev.MatchString("escape", "ctrl+c"):
						cancel()
					case ev.MatchString("m"):
						next := "walker"
						if ctrl.Name() == next {
							next = "freefly"
						}
						if ctrl, err = w.newController(next); err != nil {
							return err
						}
						log.Debug("mode", zap.String("mode", next))
					case ev.MatchString("x"):
						rc.Wireframe = !rc.Wireframe
					case ev.MatchString("r"):
						w.resetCamera()
						ctrl, _ = w.newController(ctrl.Name())
						keys = keyInput{}
					case ev.MatchString("?", "shift+/"):
						showHUD = !showHUD
					}

				case uv.KeyReleaseEvent:
					keys.release(ev)
				}
			default:
				break drain
			}
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		ctrl.Update(rc.Camera, keys.input(), dt)
		keys.decay()

		if err := rc.Render(fb); err != nil {
			return fmt.Errorf("render: %w", err)
		}

		fb.Draw(term, uv.Rect(0, 0, width, height))
		hud.UpdateFPS(now)
		if showHUD {
			hud.Render(term, width, height, rc, ctrl)
		}
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// mode7 - Pseudo-3D Terminal Renderer
// Fly or walk over an infinite textured floor under a cube-map sky with
// rotating billboard sprites, drawn with half-block cells.
//
// Controls (view):
//
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	Arrows      - Turn and look up/down
//	Q/E         - Lift down/up (free-fly)
//	Shift       - Boost (hold with a movement key)
//	M           - Toggle free-fly / walker
//	X           - Toggle wireframe overlay
//	R           - Reset camera
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/mode7/internal/config"
)

var version = "dev"

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &config.Flags{}

	root := &cobra.Command{
		Use:   "mode7",
		Short: "Pseudo-3D floor, sky and sprite renderer for the terminal",
		Long: `mode7 renders an infinite texture-mapped floor plane, a cube-map sky and
depth-sorted billboard sprites from a yaw/pitch camera.

Settings come from mode7.yaml (working directory or the user config
directory), overridden by flags.`,
		SilenceUsage: true,
	}
	flags.Register(root.PersistentFlags())

	root.AddCommand(newViewCmd(flags), newSnapshotCmd(flags))
	return root
}

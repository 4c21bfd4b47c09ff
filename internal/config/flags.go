package config

import "github.com/spf13/pflag"

// Flags are the command-line overrides shared by every command. Only flags
// the user actually set override the file.
type Flags struct {
	ConfigPath string
	Debug      bool
	LogFile    string
	Mode       string
	FovX       float64
	FPS        int
	Floor      string
	Scene      string
}

// Register adds the flags to fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "write logs to this file")
	fs.StringVarP(&f.Mode, "mode", "m", "", "camera mode (freefly, walker)")
	fs.Float64Var(&f.FovX, "fov", 0, "horizontal field of view in degrees")
	fs.IntVar(&f.FPS, "fps", 0, "target frames per second")
	fs.StringVar(&f.Floor, "floor", "", "floor texture (square, power of two)")
	fs.StringVar(&f.Scene, "scene", "", "glTF scene with sprite placements")
}

// Apply copies the flags the user set in fs onto cfg.
func (f *Flags) Apply(cfg *Config, fs *pflag.FlagSet) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if fs.Changed("log-file") {
		cfg.Logging.File = f.LogFile
	}
	if fs.Changed("mode") {
		cfg.Camera.Mode = f.Mode
	}
	if fs.Changed("fov") {
		cfg.Camera.FovX = f.FovX
	}
	if fs.Changed("fps") {
		cfg.Display.FPS = f.FPS
	}
	if fs.Changed("floor") {
		cfg.Assets.Floor = f.Floor
	}
	if fs.Changed("scene") {
		cfg.Assets.Scene = f.Scene
	}
}

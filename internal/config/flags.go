package config

import (
	"flag"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagScene       = flag.String("scene", "", "Scene description file")
	flagState       = flag.String("state", "", "Navigation state file applied at start")
	flagAnchor      = flag.String("anchor", "", "Initial anchor node")
	flagDuration    = flag.Duration("duration", 0, "Headless run length")
	flagFPS         = flag.Int("fps", 0, "Simulation frame rate")
	flagInteractive = flag.Bool("interactive", false, "Open an SDL window and navigate with mouse and joystick")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Simulation.SceneFile = *flagScene
	}
	if *flagState != "" {
		cfg.Simulation.StateFile = *flagState
	}
	if *flagAnchor != "" {
		cfg.Navigation.Orbital.Anchor = *flagAnchor
	}
	if *flagDuration > 0 {
		cfg.Simulation.Duration = *flagDuration
	}
	if *flagFPS > 0 {
		cfg.Simulation.FrameRate = *flagFPS
	}
	if *flagInteractive {
		cfg.Window.Interactive = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}


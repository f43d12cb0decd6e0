// Package config handles simulator configuration loading and management.
package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/Faultbox/orbital-nav/internal/navigation"
)

// Config holds all simulator settings.
type Config struct {
	Navigation navigation.Config `yaml:"navigation"`
	Simulation SimulationConfig  `yaml:"simulation"`
	Window     WindowConfig      `yaml:"window"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// SimulationConfig describes the scene and the frame loop.
type SimulationConfig struct {
	SceneFile string        `yaml:"scene_file"`
	StateFile string        `yaml:"state_file"` // Navigation state applied at start
	FrameRate int           `yaml:"frame_rate"`
	Duration  time.Duration `yaml:"duration"` // Headless run length
	// PoseLogInterval logs the camera pose every n frames; 0 disables it.
	PoseLogInterval int          `yaml:"pose_log_interval"`
	Script          []ScriptStep `yaml:"script"`
}

// ScriptStep is one scripted camera command of a headless run.
//
// Velocity actions (global_rotation, local_rotation, global_roll, local_roll,
// truck) add Value every frame from At until At+Duration. The other actions
// run once at At and use Target or Value[0].
type ScriptStep struct {
	At       time.Duration `yaml:"at"`
	Duration time.Duration `yaml:"duration,omitempty"`
	Action   string        `yaml:"action"`
	Value    [2]float64    `yaml:"value,omitempty"`
	Target   string        `yaml:"target,omitempty"`
}

// WindowConfig holds the interactive SDL window settings.
type WindowConfig struct {
	Interactive bool   `yaml:"interactive"`
	Title       string `yaml:"title"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Navigation: navigation.DefaultConfig(),
		Simulation: SimulationConfig{
			SceneFile:       "scene.yaml",
			FrameRate:       60,
			Duration:        10 * time.Second,
			PoseLogInterval: 60,
		},
		Window: WindowConfig{
			Title:  "orbitsim",
			Width:  1280,
			Height: 720,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// FrameTime returns the duration of one simulation frame.
func (c *Config) FrameTime() time.Duration {
	return time.Second / time.Duration(c.Simulation.FrameRate)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	err := c.Navigation.Validate()
	if c.Simulation.FrameRate <= 0 {
		err = multierr.Append(err, fmt.Errorf("simulation.frame_rate must be positive, got %d", c.Simulation.FrameRate))
	}
	if c.Simulation.Duration < 0 {
		err = multierr.Append(err, fmt.Errorf("simulation.duration must not be negative, got %v", c.Simulation.Duration))
	}
	if c.Simulation.PoseLogInterval < 0 {
		err = multierr.Append(err, fmt.Errorf("simulation.pose_log_interval must not be negative, got %d",
			c.Simulation.PoseLogInterval))
	}
	for i, s := range c.Simulation.Script {
		err = multierr.Append(err, s.validate(i))
	}
	if c.Window.Interactive && (c.Window.Width <= 0 || c.Window.Height <= 0) {
		err = multierr.Append(err, fmt.Errorf("window size must be positive, got %dx%d",
			c.Window.Width, c.Window.Height))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("logging.level %q is not one of debug, info, warn, error",
			c.Logging.Level))
	}
	return err
}

// Script actions.
const (
	ActionGlobalRotation = "global_rotation"
	ActionLocalRotation  = "local_rotation"
	ActionGlobalRoll     = "global_roll"
	ActionLocalRoll      = "local_roll"
	ActionTruck          = "truck"
	ActionFocus          = "focus"
	ActionAim            = "aim"
	ActionRetargetAnchor = "retarget_anchor"
	ActionRetargetAim    = "retarget_aim"
	ActionFlyTo          = "fly_to"
	ActionLinearFlight   = "linear_flight"
	ActionIdle           = "idle"
	ActionStopIdle       = "stop_idle"
	ActionSaveState      = "save_state"
)

// IsVelocity reports whether the step adds a velocity every frame.
func (s ScriptStep) IsVelocity() bool {
	switch s.Action {
	case ActionGlobalRotation, ActionLocalRotation, ActionGlobalRoll, ActionLocalRoll, ActionTruck:
		return true
	}
	return false
}

func (s ScriptStep) validate(i int) error {
	if s.At < 0 || s.Duration < 0 {
		return fmt.Errorf("script[%d]: negative time", i)
	}
	switch s.Action {
	case ActionGlobalRotation, ActionLocalRotation, ActionGlobalRoll, ActionLocalRoll, ActionTruck,
		ActionRetargetAnchor, ActionRetargetAim, ActionLinearFlight, ActionIdle, ActionStopIdle, ActionAim:
		return nil
	case ActionFocus, ActionFlyTo, ActionSaveState:
		if s.Target == "" {
			return fmt.Errorf("script[%d]: %s needs a target", i, s.Action)
		}
		return nil
	default:
		return fmt.Errorf("script[%d]: unknown action %q", i, s.Action)
	}
}

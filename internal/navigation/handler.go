// Package navigation routes each frame to the camera path player or the
// orbital navigator and stores camera placements as navigation states.
package navigation

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/orbital-nav/internal/camera"
	"github.com/Faultbox/orbital-nav/internal/events"
	"github.com/Faultbox/orbital-nav/internal/logger"
	"github.com/Faultbox/orbital-nav/internal/navigation/inputstate"
	"github.com/Faultbox/orbital-nav/internal/navigation/orbital"
	"github.com/Faultbox/orbital-nav/internal/navigation/path"
	"github.com/Faultbox/orbital-nav/internal/navigation/waypoint"
	"github.com/Faultbox/orbital-nav/internal/scene"
)

// Config configures the navigation handler.
type Config struct {
	Orbital orbital.Settings `yaml:"orbital"`
	Path    path.Settings    `yaml:"path"`
	// AbortPathOnInput stops a playing path as soon as the user moves the
	// mouse buttons, the wheel or a joystick axis.
	AbortPathOnInput      bool `yaml:"abortPathOnInput"`
	DisableMouseInputs    bool `yaml:"disableMouseInputs"`
	DisableJoystickInputs bool `yaml:"disableJoystickInputs"`
}

// DefaultConfig returns the default navigation configuration.
func DefaultConfig() Config {
	return Config{
		Orbital:          orbital.DefaultSettings(),
		Path:             path.DefaultSettings(),
		AbortPathOnInput: true,
	}
}

// Validate checks every navigation setting.
func (c Config) Validate() error {
	var err error
	err = multierr.Append(err, c.Orbital.Validate())
	if c.Path.Duration <= 0 {
		err = multierr.Append(err, fmt.Errorf("path.duration must be positive, got %g", c.Path.Duration))
	}
	if c.Path.SpeedScale <= 0 {
		err = multierr.Append(err, fmt.Errorf("path.speedScale must be positive, got %g", c.Path.SpeedScale))
	}
	if c.Path.MinValidBoundingSphere < 0 {
		err = multierr.Append(err, fmt.Errorf("path.minValidBoundingSphere must not be negative, got %g",
			c.Path.MinValidBoundingSphere))
	}
	return err
}

// Input is the raw device state for one frame.
type Input struct {
	Mouse      inputstate.MouseInput
	Keys       inputstate.KeyboardInput
	Joysticks  []inputstate.AxisInput
	Websockets []inputstate.AxisInput
}

func (in Input) active() bool {
	for b := inputstate.ButtonPrimary; b <= inputstate.ButtonMiddle; b++ {
		if in.Mouse.IsPressed(b) {
			return true
		}
	}
	if in.Mouse.ScrollDelta != 0 {
		return true
	}
	for _, dev := range in.Joysticks {
		for _, v := range dev.Axes {
			if v != 0 {
				return true
			}
		}
	}
	return false
}

// Handler owns the navigators that move one camera through one scene.
type Handler struct {
	cfg    Config
	camera *camera.Camera
	scene  *scene.Graph
	events *events.Engine
	log    *zap.Logger

	orbital *orbital.Navigator
	path    *path.Navigator

	input Input
}

// New creates a handler. A nil engine creates a private one.
func New(cfg Config, cam *camera.Camera, graph *scene.Graph, ev *events.Engine) *Handler {
	if ev == nil {
		ev = events.NewEngine()
	}
	h := &Handler{
		cfg:    cfg,
		camera: cam,
		scene:  graph,
		events: ev,
		log:    logger.Named("navigation"),
	}
	h.orbital = orbital.New(cfg.Orbital, cam, graph, ev)
	h.path = path.NewNavigator(cfg.Path, cam, graph, h.orbital, ev)
	return h
}

// Config returns the current configuration.
func (h *Handler) Config() Config { return h.cfg }

// SetConfig replaces the configuration of both navigators.
func (h *Handler) SetConfig(cfg Config) {
	h.cfg = cfg
	h.orbital.UpdateSettings(cfg.Orbital)
	h.path.SetSettings(cfg.Path)
}

// Camera returns the navigated camera.
func (h *Handler) Camera() *camera.Camera { return h.camera }

// Scene returns the scene graph.
func (h *Handler) Scene() *scene.Graph { return h.scene }

// Events returns the event engine the navigators publish to.
func (h *Handler) Events() *events.Engine { return h.events }

// Orbital returns the orbital navigator.
func (h *Handler) Orbital() *orbital.Navigator { return h.orbital }

// Path returns the camera path navigator.
func (h *Handler) Path() *path.Navigator { return h.path }

// SetInput stores the device state used by the next UpdateCamera call.
func (h *Handler) SetInput(in Input) { h.input = in }

// UpdateCamera advances navigation by dt seconds. The scene graph must
// already be updated for this frame.
func (h *Handler) UpdateCamera(dt float64) {
	in := h.input
	if h.cfg.DisableMouseInputs {
		in.Mouse = inputstate.MouseInput{}
		in.Keys = inputstate.KeyboardInput{}
	}
	if h.cfg.DisableJoystickInputs {
		in.Joysticks = nil
	}

	if h.path.IsPlaying() {
		if h.cfg.AbortPathOnInput && in.active() {
			h.log.Info("camera path aborted by user input")
			h.path.AbortPath()
		} else {
			h.path.UpdateCamera(dt)
			// The path moved the camera, not the anchor.
			h.orbital.ResetNodeMovements()
		}
	}
	if !h.path.IsPlaying() {
		h.orbital.UpdateStatesFromInput(in.Mouse, in.Keys, in.Joysticks, in.Websockets, dt)
		h.orbital.UpdateCameraStateFromStates(dt)
	}
	h.orbital.UpdateCameraScalingFromAnchor(dt)

	// Wheel movement is a per-frame delta; buttons stay held.
	h.input.Mouse.ScrollDelta = 0
	h.events.Process()
}

// NavigationState describes the current camera placement relative to the
// anchor.
func (h *Handler) NavigationState() (waypoint.NavigationState, error) {
	return waypoint.StateFromPose(h.camera.Pose(), h.orbital.AnchorIdentifier(),
		h.orbital.AimIdentifier(), "", h.scene)
}

// SetNavigationState places the camera and sets anchor and aim. A playing
// path is aborted.
func (h *Handler) SetNavigationState(ns waypoint.NavigationState) error {
	pose, err := ns.CameraPose(h.scene)
	if err != nil {
		return err
	}
	if err := h.orbital.SetAnchor(ns.Anchor); err != nil {
		return err
	}
	if err := h.orbital.SetAim(ns.Aim); err != nil {
		return err
	}
	h.path.AbortPath()
	h.camera.SetPose(pose)
	h.orbital.ResetNodeMovements()
	h.orbital.ResetVelocities()
	return nil
}

// SaveNavigationState writes the current navigation state to a YAML file.
func (h *Handler) SaveNavigationState(file string) error {
	ns, err := h.NavigationState()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(ns)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}
	return os.WriteFile(file, data, 0644)
}

// LoadNavigationState reads a navigation state from a YAML file and applies
// it.
func (h *Handler) LoadNavigationState(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var ns waypoint.NavigationState
	if err := yaml.Unmarshal(data, &ns); err != nil {
		return fmt.Errorf("parse navigation state %s: %w", file, err)
	}
	return h.SetNavigationState(ns)
}

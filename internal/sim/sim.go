// Package sim runs the navigation frame loop, headless from a script or
// interactively from an SDL window.
package sim

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/orbital-nav/internal/camera"
	"github.com/Faultbox/orbital-nav/internal/config"
	"github.com/Faultbox/orbital-nav/internal/events"
	"github.com/Faultbox/orbital-nav/internal/logger"
	"github.com/Faultbox/orbital-nav/internal/navigation"
	"github.com/Faultbox/orbital-nav/internal/navigation/waypoint"
	"github.com/Faultbox/orbital-nav/internal/scene"
)

// startDistanceFactor places the camera this many interaction sphere radii
// from the anchor center when no navigation state is given.
const startDistanceFactor = 3.0

// Simulator owns the scene, the camera and the navigation handler.
type Simulator struct {
	cfg     *config.Config
	scene   *scene.Graph
	handler *navigation.Handler
	script  *Script
	log     *zap.Logger

	frame   int
	elapsed time.Duration
}

// New loads the configured scene file and creates a simulator.
func New(cfg *config.Config) (*Simulator, error) {
	data, err := os.ReadFile(cfg.Simulation.SceneFile)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	graph, err := scene.ParseDescription(data)
	if err != nil {
		return nil, err
	}
	return NewWithScene(cfg, graph)
}

// NewWithScene creates a simulator for an existing scene graph and places
// the camera from the configured navigation state or near the anchor.
func NewWithScene(cfg *config.Config, graph *scene.Graph) (*Simulator, error) {
	s := &Simulator{
		cfg:    cfg,
		scene:  graph,
		script: NewScript(cfg.Simulation.Script),
		log:    logger.Named("sim"),
	}

	ev := events.NewEngine()
	s.subscribe(ev)
	s.handler = navigation.New(cfg.Navigation, camera.New(), graph, ev)

	if err := s.placeCamera(); err != nil {
		return nil, err
	}
	s.log.Info("simulator ready",
		zap.Int("nodes", len(graph.Identifiers())),
		zap.String("anchor", s.handler.Orbital().AnchorIdentifier()))
	return s, nil
}

func (s *Simulator) placeCamera() error {
	if file := s.cfg.Simulation.StateFile; file != "" {
		if err := s.handler.LoadNavigationState(file); err != nil {
			return fmt.Errorf("load navigation state: %w", err)
		}
		return nil
	}

	anchor := s.cfg.Navigation.Orbital.Anchor
	if anchor == "" {
		return nil
	}
	node := s.scene.Node(anchor)
	if node == nil {
		return fmt.Errorf("anchor: %w: %s", waypoint.ErrNodeNotFound, anchor)
	}
	distance := startDistanceFactor * node.InteractionSphere()
	return s.handler.SetNavigationState(waypoint.NavigationState{
		Anchor:   anchor,
		Aim:      s.cfg.Navigation.Orbital.Aim,
		Position: mgl64.Vec3{0, 0, distance},
	})
}

func (s *Simulator) subscribe(ev *events.Engine) {
	ev.Subscribe(events.TypeAnchorChanged, func(e events.Event) {
		ac := e.(events.AnchorChanged)
		s.log.Info("anchor changed", zap.String("previous", ac.Previous), zap.String("current", ac.Current))
	})
	for _, t := range []events.Type{events.TypeCameraPathStarted, events.TypeCameraPathPaused,
		events.TypeCameraPathResumed, events.TypeCameraPathFinished, events.TypeCameraPathAborted} {
		ev.Subscribe(t, func(e events.Event) {
			p := e.(events.CameraPath)
			s.log.Info("camera path",
				zap.Stringer("event", p.Kind),
				zap.String("from", p.Origin),
				zap.String("to", p.Destination))
		})
	}
}

// Handler returns the navigation handler.
func (s *Simulator) Handler() *navigation.Handler { return s.handler }

// Frame returns the number of completed frames.
func (s *Simulator) Frame() int { return s.frame }

// Elapsed returns the simulated time.
func (s *Simulator) Elapsed() time.Duration { return s.elapsed }

// Step advances the scene, the script and the camera by dt.
func (s *Simulator) Step(dt time.Duration) {
	s.scene.Update(dt.Seconds())
	if err := s.script.Apply(s.handler, s.elapsed); err != nil {
		s.log.Warn("script", zap.Error(err))
	}
	s.handler.UpdateCamera(dt.Seconds())

	s.frame++
	s.elapsed += dt
	if n := s.cfg.Simulation.PoseLogInterval; n > 0 && s.frame%n == 0 {
		s.logPose()
	}
}

func (s *Simulator) logPose() {
	cam := s.handler.Camera()
	pos := cam.Position()
	fields := []zap.Field{
		zap.Int("frame", s.frame),
		zap.Duration("t", s.elapsed),
		zap.String("anchor", s.handler.Orbital().AnchorIdentifier()),
		zap.Float64s("position", pos[:]),
		zap.Float64("scaling", cam.Scaling()),
	}
	if anchor := s.handler.Orbital().Anchor(); anchor != nil {
		fields = append(fields, zap.Float64("distance", pos.Sub(anchor.WorldPosition()).Len()))
	}
	s.log.Info("camera", fields...)
}

// Run runs the interactive loop when configured, otherwise the headless one.
func (s *Simulator) Run() error {
	if s.cfg.Window.Interactive {
		return s.RunInteractive()
	}
	return s.RunHeadless()
}

// RunHeadless steps fixed frames until the configured duration has passed.
func (s *Simulator) RunHeadless() error {
	dt := s.cfg.FrameTime()
	s.log.Info("starting headless run",
		zap.Duration("duration", s.cfg.Simulation.Duration),
		zap.Duration("frame", dt))

	for s.elapsed < s.cfg.Simulation.Duration {
		s.Step(dt)
	}
	if !s.script.Finished(s.elapsed) {
		s.log.Warn("run ended before the script finished")
	}
	s.logPose()
	return nil
}

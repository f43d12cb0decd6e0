package path

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/orbital-nav/internal/camera"
	"github.com/Faultbox/orbital-nav/internal/events"
	"github.com/Faultbox/orbital-nav/internal/logger"
	"github.com/Faultbox/orbital-nav/internal/navigation/waypoint"
	"github.com/Faultbox/orbital-nav/internal/scene"
	"github.com/Faultbox/orbital-nav/pkg/math"
)

var (
	// ErrNoPath is returned by controls that need a path.
	ErrNoPath = errors.New("no camera path")
	// ErrNoAnchor is returned when a path would start without an anchor.
	ErrNoAnchor = errors.New("no anchor to start the path from")
)

// defaultHeightFactor places a node target this many bounding sphere radii
// above the node surface.
const defaultHeightFactor = 2.0

// Settings configures path flights.
type Settings struct {
	DefaultCurve CurveType `yaml:"defaultCurve"`
	// Duration of a flight in seconds at speed scale 1.
	Duration   float64 `yaml:"duration"`
	SpeedScale float64 `yaml:"speedScale"`
	// IncludeRoll lets the camera roll during the flight. Otherwise the
	// camera keeps its up vector.
	IncludeRoll               bool    `yaml:"includeRoll"`
	ApplyIdleBehaviorOnFinish bool    `yaml:"applyIdleBehaviorOnFinish"`
	MinValidBoundingSphere    float64 `yaml:"minValidBoundingSphere"`
}

// DefaultSettings returns the default path configuration.
func DefaultSettings() Settings {
	return Settings{
		DefaultCurve:           CurveZoomOutOverview,
		Duration:               5,
		SpeedScale:             1,
		MinValidBoundingSphere: waypoint.DefaultMinValidBoundingSphere,
	}
}

// Camera is the camera a path moves.
type Camera interface {
	Pose() camera.Pose
	SetPose(p camera.Pose)
}

// Orbital is the orbital navigator that takes over when a path ends.
type Orbital interface {
	AnchorIdentifier() string
	SetFocusNode(node scene.Orbitable, resetVelocitiesOnChange bool)
	TriggerIdleBehavior(name string) error
}

// Navigator plays camera paths.
type Navigator struct {
	settings Settings
	camera   Camera
	nodes    waypoint.NodeLookup
	orbital  Orbital
	events   events.Publisher
	log      *zap.Logger

	current *Path
	playing bool
}

// NewNavigator creates a path navigator. A nil pub discards events.
func NewNavigator(settings Settings, cam Camera, nodes waypoint.NodeLookup, orbital Orbital,
	pub events.Publisher) *Navigator {
	if pub == nil {
		pub = events.Discard{}
	}
	return &Navigator{
		settings: settings,
		camera:   cam,
		nodes:    nodes,
		orbital:  orbital,
		events:   pub,
		log:      logger.Named("path"),
	}
}

// Settings returns the current configuration.
func (n *Navigator) Settings() Settings { return n.settings }

// SetSettings replaces the configuration. A playing path keeps its duration.
func (n *Navigator) SetSettings(s Settings) { n.settings = s }

// CurrentPath returns the current path, or nil.
func (n *Navigator) CurrentPath() *Path { return n.current }

// HasCurrentPath reports whether a path exists.
func (n *Navigator) HasCurrentPath() bool { return n.current != nil }

// IsPlaying reports whether the path is being played.
func (n *Navigator) IsPlaying() bool { return n.playing }

// HasFinished reports whether the current path reached its end. Without a
// path it is true.
func (n *Navigator) HasFinished() bool {
	return n.current == nil || n.current.HasReachedEnd()
}

// CreatePath creates a path from the current camera pose to end, replacing
// any previous path. The path is not started.
func (n *Navigator) CreatePath(end waypoint.Waypoint) error {
	start, err := n.startWaypoint()
	if err != nil {
		return err
	}
	p, err := New(start, end, n.settings.DefaultCurve, n.settings.Duration, n.nodes)
	if err != nil {
		return err
	}
	n.setPath(p)
	return nil
}

// CreatePathToState creates a path to the pose a navigation state describes.
func (n *Navigator) CreatePathToState(ns waypoint.NavigationState) error {
	end, err := waypoint.FromNavigationState(ns, n.nodes, n.settings.MinValidBoundingSphere)
	if err != nil {
		return err
	}
	return n.CreatePath(end)
}

// CreatePathToNode creates a path to a default view of the node: above its
// surface in the direction of the camera, looking at the node. A height of
// zero or less picks a height from the node size.
func (n *Navigator) CreatePathToNode(id string, height float64) error {
	node := n.nodes.Node(id)
	if node == nil {
		return fmt.Errorf("%w: %s", waypoint.ErrNodeNotFound, id)
	}
	radius := waypoint.FindValidBoundingSphere(node, n.settings.MinValidBoundingSphere)
	if height <= 0 {
		height = defaultHeightFactor * radius
	}

	pose := n.camera.Pose()
	nodePos := node.WorldPosition()
	dir := math.SafeNormalize(pose.Position.Sub(nodePos), mgl64.Vec3{0, 0, 1})
	targetPos := nodePos.Add(dir.Mul(radius + height))
	up := pose.Rotation.Rotate(math.UpDirectionCameraSpace)

	end, err := waypoint.New(camera.Pose{
		Position: targetPos,
		Rotation: math.LookAtQuaternion(targetPos, nodePos, up),
	}, id, n.nodes, n.settings.MinValidBoundingSphere)
	if err != nil {
		return err
	}
	return n.CreatePath(end)
}

func (n *Navigator) startWaypoint() (waypoint.Waypoint, error) {
	anchor := n.orbital.AnchorIdentifier()
	if anchor == "" {
		return waypoint.Waypoint{}, ErrNoAnchor
	}
	return waypoint.New(n.camera.Pose(), anchor, n.nodes, n.settings.MinValidBoundingSphere)
}

func (n *Navigator) setPath(p *Path) {
	if n.playing {
		n.AbortPath()
	}
	n.current = p
	n.log.Debug("created camera path",
		zap.String("from", p.StartPoint().NodeIdentifier()),
		zap.String("to", p.EndPoint().NodeIdentifier()),
		zap.Float64("length", p.Length()),
		zap.Float64("duration", p.Duration()))
}

// ClearPath stops and forgets the current path.
func (n *Navigator) ClearPath() {
	n.current = nil
	n.playing = false
}

// StartPath starts playing the current path from its beginning.
func (n *Navigator) StartPath() error {
	if n.current == nil {
		n.log.Error("no camera path to start")
		return ErrNoPath
	}
	n.current.elapsed = 0
	n.playing = true
	n.publish(events.TypeCameraPathStarted)
	return nil
}

// PausePath pauses a playing path.
func (n *Navigator) PausePath() {
	if !n.playing {
		return
	}
	n.playing = false
	n.publish(events.TypeCameraPathPaused)
}

// ContinuePath resumes a paused path.
func (n *Navigator) ContinuePath() error {
	if n.current == nil {
		return ErrNoPath
	}
	if n.playing || n.current.HasReachedEnd() {
		return nil
	}
	n.playing = true
	n.publish(events.TypeCameraPathResumed)
	return nil
}

// AbortPath stops the path where the camera is. The path is kept, so
// HasFinished stays false.
func (n *Navigator) AbortPath() {
	if !n.playing {
		return
	}
	n.playing = false
	n.publish(events.TypeCameraPathAborted)
}

// UpdateCamera advances a playing path by dt seconds and moves the camera.
func (n *Navigator) UpdateCamera(dt float64) {
	if !n.playing || n.current == nil {
		return
	}

	prev := n.camera.Pose()
	pose := n.current.Traverse(dt * n.settings.SpeedScale)
	if !n.settings.IncludeRoll && !n.current.HasReachedEnd() {
		pose.Rotation = removeRoll(pose, prev.Rotation.Rotate(math.UpDirectionCameraSpace))
	}
	n.camera.SetPose(pose)

	// Hand the anchor over halfway so the orbital navigator is ready.
	if id := n.current.CurrentNodeIdentifier(); id != n.orbital.AnchorIdentifier() {
		if node := n.nodes.Node(id); node != nil {
			n.orbital.SetFocusNode(node, false)
		}
	}

	if n.current.HasReachedEnd() {
		n.playing = false
		n.publish(events.TypeCameraPathFinished)
		if n.settings.ApplyIdleBehaviorOnFinish {
			if err := n.orbital.TriggerIdleBehavior(""); err != nil {
				n.log.Warn("could not start idle behavior after path", zap.Error(err))
			}
		}
	}
}

func (n *Navigator) publish(t events.Type) {
	ev := events.CameraPath{Kind: t}
	if n.current != nil {
		ev.Origin = n.current.StartPoint().NodeIdentifier()
		ev.Destination = n.current.EndPoint().NodeIdentifier()
	}
	n.events.Publish(ev)
	n.log.Debug("camera path", zap.Stringer("event", t))
}

// removeRoll keeps the view direction of pose but turns the camera so its
// up vector stays as close to up as possible.
func removeRoll(pose camera.Pose, up mgl64.Vec3) mgl64.Quat {
	view := math.ViewDirection(pose.Rotation)
	return math.LookAtQuaternion(pose.Position, pose.Position.Add(view), up)
}

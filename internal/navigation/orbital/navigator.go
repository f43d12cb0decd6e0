// Package orbital moves a camera around an anchor object: orbiting, zooming,
// rolling and looking around, following the anchor's motion and rotation,
// retargeting smoothly and never going closer to the surface than a minimum
// distance.
package orbital

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/orbital-nav/internal/events"
	"github.com/Faultbox/orbital-nav/internal/logger"
	"github.com/Faultbox/orbital-nav/internal/navigation/inputstate"
	"github.com/Faultbox/orbital-nav/internal/navigation/interpolator"
	"github.com/Faultbox/orbital-nav/internal/scene"
	"github.com/Faultbox/orbital-nav/pkg/math"
)

var (
	// ErrNodeNotFound is returned when an identifier does not resolve to a
	// scene object.
	ErrNodeNotFound = errors.New("scene node not found")
	// ErrNoAnchor is returned by operations that need an anchor.
	ErrNoAnchor = errors.New("no anchor set")
)

// Camera is the camera the navigator drives.
type Camera interface {
	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)
	Rotation() mgl64.Quat
	SetRotation(q mgl64.Quat)
	SetScaling(s float64)
	ViewDirectionWorldSpace() mgl64.Vec3
}

// Navigator is the orbital camera controller. It is not safe for concurrent
// use; drive it from the frame loop.
type Navigator struct {
	settings Settings
	camera   Camera
	registry scene.Registry
	events   events.Publisher
	log      *zap.Logger

	// Anchor and aim are held by identifier and resolved every frame, so a
	// removed object simply stops the navigation.
	anchorID string
	aimID    string

	previousAnchorPosition *mgl64.Vec3
	previousAnchorRotation *mgl64.Quat
	previousAimPosition    *mgl64.Vec3

	mouse     *inputstate.MouseCameraStates
	joystick  *inputstate.AxisCameraStates
	websocket *inputstate.AxisCameraStates
	script    *inputstate.ScriptCameraStates

	followRotation          *interpolator.Interpolator
	retargetAnchor          *interpolator.Interpolator
	retargetAim             *interpolator.Interpolator
	cameraToSurfaceDistance *interpolator.Interpolator
	idleDampen              *interpolator.Interpolator

	currentCameraToSurfaceDistance float64
	directlySetStereoDistance      bool

	linearFlight            bool
	idleBehavior            bool
	invertIdleInterpolation bool
}

// New creates a navigator for cam. Objects are resolved through registry and
// anchor changes are published to pub. A nil pub discards events.
func New(settings Settings, cam Camera, registry scene.Registry, pub events.Publisher) *Navigator {
	if pub == nil {
		pub = events.Discard{}
	}
	n := &Navigator{
		camera:   cam,
		registry: registry,
		events:   pub,
		log:      logger.Named("orbital"),

		mouse:     inputstate.NewMouseCameraStates(0, 1),
		joystick:  inputstate.NewAxisCameraStates(0, 1),
		websocket: inputstate.NewAxisCameraStates(0, 1),
		script:    inputstate.NewScriptCameraStates(1, 1),

		followRotation:          interpolator.New(interpolator.SmoothStep),
		retargetAnchor:          interpolator.New(interpolator.DecayingSmoothStep),
		retargetAim:             interpolator.New(interpolator.DecayingSmoothStep),
		cameraToSurfaceDistance: interpolator.New(interpolator.DecayingSmoothStep),
		idleDampen:              interpolator.New(interpolator.QuadraticEaseInOut),
	}
	n.UpdateSettings(settings)

	if settings.Anchor != "" {
		if err := n.SetAnchor(settings.Anchor); err != nil {
			n.log.Error("initial anchor", zap.Error(err))
		}
	}
	if settings.Aim != "" {
		if err := n.SetAim(settings.Aim); err != nil {
			n.log.Error("initial aim", zap.Error(err))
		}
	}
	return n
}

// Settings returns the current configuration.
func (n *Navigator) Settings() Settings {
	return n.settings
}

// UpdateSettings applies s to the navigator and its input states. Anchor and
// aim are only read by New; use SetAnchor and SetAim afterwards.
func (n *Navigator) UpdateSettings(s Settings) {
	n.settings = s

	scale := 1 / (s.Friction.Factor + 1e-7)
	for _, st := range n.states() {
		st.SetRotationalFriction(s.Friction.Roll)
		st.SetHorizontalFriction(s.Friction.Rotational)
		st.SetVerticalFriction(s.Friction.Zoom)
		st.SetVelocityScaleFactor(scale)
	}
	n.mouse.SetSensitivity(s.MouseSensitivity * 1e-4)
	n.joystick.SetSensitivity(s.JoystickSensitivity * 0.1)
	n.websocket.SetSensitivity(s.WebsocketSensitivity)
	n.mouse.SetInvertMouseButtons(s.InvertMouseButtons)

	n.followRotation.SetInterpolationTime(s.FollowRotationInterpolationTime)
	if !n.idleDampen.IsInterpolating() {
		n.idleDampen.SetInterpolationTime(s.IdleBehavior.DampenInterpolationTime)
	}
}

func (n *Navigator) states() []*inputstate.CameraStates {
	return []*inputstate.CameraStates{
		&n.mouse.CameraStates,
		&n.joystick.CameraStates,
		&n.websocket.CameraStates,
		&n.script.CameraStates,
	}
}

func (n *Navigator) sources() []inputstate.Source {
	return []inputstate.Source{n.mouse, n.joystick, n.websocket, n.script}
}

// MouseStates returns the mouse input states.
func (n *Navigator) MouseStates() *inputstate.MouseCameraStates { return n.mouse }

// JoystickStates returns the joystick input states.
func (n *Navigator) JoystickStates() *inputstate.AxisCameraStates { return n.joystick }

// WebsocketStates returns the remote controller input states.
func (n *Navigator) WebsocketStates() *inputstate.AxisCameraStates { return n.websocket }

// ScriptStates returns the scripted input states.
func (n *Navigator) ScriptStates() *inputstate.ScriptCameraStates { return n.script }

// Anchor returns the current anchor, or nil when unset or no longer in the
// scene.
func (n *Navigator) Anchor() scene.Orbitable {
	return n.lookup(n.anchorID)
}

// Aim returns the current aim, or nil.
func (n *Navigator) Aim() scene.Orbitable {
	return n.lookup(n.aimID)
}

// AnchorIdentifier returns the identifier of the anchor, even when the object
// is currently missing from the scene.
func (n *Navigator) AnchorIdentifier() string { return n.anchorID }

// AimIdentifier returns the identifier of the aim.
func (n *Navigator) AimIdentifier() string { return n.aimID }

func (n *Navigator) lookup(id string) scene.Orbitable {
	if id == "" || n.registry == nil {
		return nil
	}
	return n.registry.Lookup(id)
}

func (n *Navigator) resolve(id string) (scene.Orbitable, error) {
	node := n.lookup(id)
	if node == nil {
		n.log.Error("could not find scene node", zap.String("identifier", id))
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	return node, nil
}

// SetAnchor makes the object with the given identifier the anchor and
// publishes an AnchorChanged event. The aim is left unchanged.
func (n *Navigator) SetAnchor(id string) error {
	node, err := n.resolve(id)
	if err != nil {
		return err
	}
	previous := n.anchorID
	n.SetAnchorNode(node, false)
	n.publishAnchorChanged(previous)
	return nil
}

// SetAim sets the aim object. An empty identifier clears it.
func (n *Navigator) SetAim(id string) error {
	if id == "" {
		n.SetAimNode(nil)
		return nil
	}
	node, err := n.resolve(id)
	if err != nil {
		return err
	}
	n.SetAimNode(node)
	return nil
}

// SetFocus anchors the camera at the object with the given identifier and
// clears the aim.
func (n *Navigator) SetFocus(id string) error {
	node, err := n.resolve(id)
	if err != nil {
		return err
	}
	n.SetFocusNode(node, false)
	return nil
}

// SetFocusNode anchors the camera at node, clears the aim and publishes an
// AnchorChanged event.
func (n *Navigator) SetFocusNode(node scene.Orbitable, resetVelocitiesOnChange bool) {
	previous := n.anchorID
	n.SetAnchorNode(node, resetVelocitiesOnChange)
	n.SetAimNode(nil)
	n.publishAnchorChanged(previous)
}

func (n *Navigator) publishAnchorChanged(previous string) {
	n.events.Publish(events.AnchorChanged{Previous: previous, Current: n.anchorID})
	n.log.Debug("anchor changed",
		zap.String("previous", previous),
		zap.String("current", n.anchorID))
}

// SetAnchorNode sets the anchor without publishing an event. A nil node
// clears the anchor.
func (n *Navigator) SetAnchorNode(node scene.Orbitable, resetVelocitiesOnChange bool) {
	if n.anchorID == "" {
		n.directlySetStereoDistance = true
	}

	newID := ""
	if node != nil {
		newID = node.Identifier()
	}
	changed := newID != n.anchorID
	n.anchorID = newID

	if changed && resetVelocitiesOnChange {
		n.ResetVelocities()
	}
	if changed {
		n.UpdateOnCameraInteraction()
	}

	if node != nil {
		pos := node.WorldPosition()
		rot := math.QuatFromMat3(node.WorldRotationMatrix())
		n.previousAnchorPosition = &pos
		n.previousAnchorRotation = &rot
	} else {
		n.previousAnchorPosition = nil
		n.previousAnchorRotation = nil
	}
}

// SetAimNode sets the aim. A nil node clears it.
func (n *Navigator) SetAimNode(node scene.Orbitable) {
	n.retargetAim.End()
	if node == nil {
		n.aimID = ""
		n.previousAimPosition = nil
		return
	}
	n.aimID = node.Identifier()
	pos := node.WorldPosition()
	n.previousAimPosition = &pos
}

// ClearPreviousState forgets the cached anchor and aim positions so the next
// frame applies no displacement.
func (n *Navigator) ClearPreviousState() {
	n.previousAnchorPosition = nil
	n.previousAnchorRotation = nil
	n.previousAimPosition = nil
}

// ResetNodeMovements sets the cached anchor and aim state to their current
// values so accumulated motion is not applied to the camera.
func (n *Navigator) ResetNodeMovements() {
	if anchor := n.Anchor(); anchor != nil {
		pos := anchor.WorldPosition()
		rot := math.QuatFromMat3(anchor.WorldRotationMatrix())
		n.previousAnchorPosition = &pos
		n.previousAnchorRotation = &rot
	} else {
		zero := mgl64.Vec3{}
		ident := mgl64.QuatIdent()
		n.previousAnchorPosition = &zero
		n.previousAnchorRotation = &ident
	}
	if aim := n.Aim(); aim != nil {
		pos := aim.WorldPosition()
		n.previousAimPosition = &pos
	} else {
		zero := mgl64.Vec3{}
		n.previousAimPosition = &zero
	}
}

// ResetVelocities stops all input motion and snaps the anchor rotation
// following to its target state.
func (n *Navigator) ResetVelocities() {
	for _, st := range n.states() {
		st.ResetVelocities()
	}
	if n.ShouldFollowAnchorRotation(n.camera.Position()) {
		n.followRotation.End()
	} else {
		n.followRotation.Start()
	}
}

// StartRetargetAnchor starts turning the camera towards the anchor. The
// duration grows with the angle to turn.
func (n *Navigator) StartRetargetAnchor() {
	anchor := n.Anchor()
	if anchor == nil {
		return
	}
	n.startRetarget(n.retargetAnchor, anchor.WorldPosition())
}

// StartRetargetAim starts turning the camera towards the aim. Without a
// distinct aim it retargets the anchor instead.
func (n *Navigator) StartRetargetAim() {
	aim := n.Aim()
	if aim == nil || n.aimID == n.anchorID {
		n.StartRetargetAnchor()
		return
	}
	n.startRetarget(n.retargetAim, aim.WorldPosition())
}

func (n *Navigator) startRetarget(ip *interpolator.Interpolator, target mgl64.Vec3) {
	camPos := n.camera.Position()
	camDir := math.SafeNormalize(n.camera.ViewDirectionWorldSpace(), math.ViewDirectionCameraSpace)
	centerDir := math.SafeNormalize(target.Sub(camPos), camDir)
	angle := math.Angle(camDir, centerDir)

	ip.SetInterpolationTime(gomath.Max(angle, 1) * n.settings.RetargetInterpolationTime)
	ip.Start()

	n.cameraToSurfaceDistance.SetInterpolationTime(n.settings.StereoInterpolationTime)
	n.cameraToSurfaceDistance.Start()
}

// Retargeting reports whether a retarget interpolation is in progress.
func (n *Navigator) Retargeting() bool {
	return n.retargetAnchor.IsInterpolating() || n.retargetAim.IsInterpolating()
}

// SetRetargetInterpolationTime sets the base retarget duration in seconds.
func (n *Navigator) SetRetargetInterpolationTime(seconds float64) {
	n.settings.RetargetInterpolationTime = seconds
}

// RetargetInterpolationTime returns the base retarget duration in seconds.
func (n *Navigator) RetargetInterpolationTime() float64 {
	return n.settings.RetargetInterpolationTime
}

// SetLinearFlight starts or stops flying along the camera to anchor line
// towards the configured destination distance.
func (n *Navigator) SetLinearFlight(apply bool) {
	n.linearFlight = apply
}

// LinearFlightActive reports whether a linear flight is in progress.
func (n *Navigator) LinearFlightActive() bool {
	return n.linearFlight
}

// FollowingAnchorRotation reports whether the camera currently rotates with
// the anchor. It is always false while aiming at a different object.
func (n *Navigator) FollowingAnchorRotation() bool {
	if n.aimID != "" && n.aimID != n.anchorID {
		return false
	}
	return n.followRotation.Value() >= 1
}

// ShouldFollowAnchorRotation reports whether a camera at cameraPosition is
// close enough to the anchor to follow its rotation.
func (n *Navigator) ShouldFollowAnchorRotation(cameraPosition mgl64.Vec3) bool {
	anchor := n.Anchor()
	if anchor == nil || !n.settings.FollowAnchorNodeRotation {
		return false
	}

	modelTransform := anchor.ModelTransform()
	inverseModelTransform := modelTransform.Inv()
	cameraPositionModelSpace := math.TransformPoint(inverseModelTransform, cameraPosition)
	handle := anchor.CalculateSurfacePositionHandle(cameraPositionModelSpace)

	maximumDistanceForRotation :=
		math.TransformDirection(modelTransform, handle.CenterToReferenceSurface).Len() *
			n.settings.FollowAnchorNodeRotationDistance
	distanceToCamera := cameraPosition.Sub(anchor.WorldPosition()).Len()
	return distanceToCamera < maximumDistanceForRotation
}

// UpdateStatesFromInput feeds this frame's input to every input state.
func (n *Navigator) UpdateStatesFromInput(mouse inputstate.MouseInput, keys inputstate.KeyboardInput,
	joystick, websocket []inputstate.AxisInput, dt float64) {
	n.mouse.UpdateStateFromInput(mouse, keys, dt)
	n.joystick.UpdateStateFromInput(joystick, dt)
	n.websocket.UpdateStateFromInput(websocket, dt)
	n.script.UpdateStateFromInput(dt)

	if inputstate.AnyNonZero(n.sources()...) {
		n.UpdateOnCameraInteraction()
	}
}

// UpdateOnCameraInteraction stops the idle behavior when it is configured to
// abort on user input.
func (n *Navigator) UpdateOnCameraInteraction() {
	if n.idleBehavior && n.settings.IdleBehavior.AbortOnCameraInteraction {
		n.ApplyIdleBehavior(false)
		// Stop immediately instead of dampening.
		n.idleDampen.SetInterpolationTime(0)
	}
}

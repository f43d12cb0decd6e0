package inputstate

import "github.com/go-gl/mathgl/mgl64"

// MouseButton identifies a mouse button.
type MouseButton int

const (
	ButtonPrimary MouseButton = iota
	ButtonSecondary
	ButtonMiddle
	mouseButtonCount
)

// KeyModifier is a bit set of held modifier keys.
type KeyModifier uint8

const (
	ModShift KeyModifier = 1 << iota
	ModControl
	ModAlt
)

// MouseInput is the mouse state for one frame.
type MouseInput struct {
	Position mgl64.Vec2 // Window coordinates in pixels
	Pressed  [mouseButtonCount]bool
	// ScrollDelta is the wheel movement since the last frame.
	ScrollDelta float64
}

// IsPressed reports whether a button is held.
func (m MouseInput) IsPressed(b MouseButton) bool {
	if b < 0 || b >= mouseButtonCount {
		return false
	}
	return m.Pressed[b]
}

// KeyboardInput is the keyboard state for one frame.
type KeyboardInput struct {
	Modifiers KeyModifier
}

// Has reports whether all modifiers in m are held.
func (k KeyboardInput) Has(m KeyModifier) bool {
	return k.Modifiers&m == m
}

// scrollPixels is the mouse movement a single wheel notch is worth when
// trucking.
const scrollPixels = 20.0

// MouseCameraStates maps mouse drags to camera velocities.
//
//	primary drag            orbit (Ctrl: rotate locally)
//	secondary or Alt+primary truck
//	middle or Shift+primary roll around the surface normal (Ctrl: local roll)
type MouseCameraStates struct {
	CameraStates
	invertButtons bool
}

// NewMouseCameraStates creates mouse states.
func NewMouseCameraStates(sensitivity, velocityScaleFactor float64) *MouseCameraStates {
	return &MouseCameraStates{CameraStates: newCameraStates(sensitivity, velocityScaleFactor)}
}

// SetInvertMouseButtons swaps the primary and secondary buttons.
func (s *MouseCameraStates) SetInvertMouseButtons(invert bool) {
	s.invertButtons = invert
}

// UpdateStateFromInput advances the velocities by one frame.
func (s *MouseCameraStates) UpdateStateFromInput(mouse MouseInput, keys KeyboardInput, dt float64) {
	primary, secondary := ButtonPrimary, ButtonSecondary
	if s.invertButtons {
		primary, secondary = secondary, primary
	}
	pos := mouse.Position
	primaryPressed := mouse.IsPressed(primary)
	secondaryPressed := mouse.IsPressed(secondary)
	middlePressed := mouse.IsPressed(ButtonMiddle)
	ctrl, shift, alt := keys.Has(ModControl), keys.Has(ModShift), keys.Has(ModAlt)

	// Rotation
	switch {
	case primaryPressed && !shift && !alt && ctrl:
		delta := s.localRotation.previousPosition.Sub(pos)
		s.localRotation.velocity.set(delta.Mul(s.sensitivity), dt)
		s.globalRotation.previousPosition = pos
		s.globalRotation.velocity.decelerate(dt)
	case primaryPressed && !shift && !alt:
		delta := s.globalRotation.previousPosition.Sub(pos)
		s.globalRotation.velocity.set(delta.Mul(s.sensitivity), dt)
		s.localRotation.previousPosition = pos
		s.localRotation.velocity.decelerate(dt)
	default:
		s.localRotation.previousPosition = pos
		s.localRotation.velocity.decelerate(dt)
		s.globalRotation.previousPosition = pos
		s.globalRotation.velocity.decelerate(dt)
	}

	// Truck
	switch {
	case secondaryPressed || (alt && primaryPressed):
		delta := s.truckMovement.previousPosition.Sub(pos)
		s.truckMovement.velocity.set(delta.Mul(s.sensitivity), dt)
	case mouse.ScrollDelta != 0:
		delta := mgl64.Vec2{0, mouse.ScrollDelta * scrollPixels}
		s.truckMovement.velocity.set(delta.Mul(s.sensitivity), dt)
		s.truckMovement.previousPosition = pos
	default:
		s.truckMovement.previousPosition = pos
		s.truckMovement.velocity.decelerate(dt)
	}

	// Roll
	switch {
	case (middlePressed || (shift && primaryPressed)) && ctrl:
		delta := s.localRoll.previousPosition.Sub(pos)
		s.localRoll.velocity.set(delta.Mul(s.sensitivity), dt)
		s.globalRoll.previousPosition = pos
		s.globalRoll.velocity.decelerate(dt)
	case middlePressed || (shift && primaryPressed):
		delta := s.globalRoll.previousPosition.Sub(pos)
		s.globalRoll.velocity.set(delta.Mul(s.sensitivity), dt)
		s.localRoll.previousPosition = pos
		s.localRoll.velocity.decelerate(dt)
	default:
		s.globalRoll.previousPosition = pos
		s.globalRoll.velocity.decelerate(dt)
		s.localRoll.previousPosition = pos
		s.localRoll.velocity.decelerate(dt)
	}

	// The mouse has no pan channel
	s.pan.previousPosition = pos
	s.pan.velocity.decelerate(dt)
}

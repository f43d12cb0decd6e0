package inputstate

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

// restVelocity is the magnitude below which a decelerating velocity is
// considered to have stopped.
const restVelocity = 1e-10

// delayedVariable approaches a target value at a rate of scaleFactor per
// second and decays towards zero when released.
type delayedVariable struct {
	current     mgl64.Vec2
	scaleFactor float64
	friction    float64
}

// set moves the current value towards target.
func (d *delayedVariable) set(target mgl64.Vec2, dt float64) {
	t := gomath.Min(d.scaleFactor*dt, 1)
	d.current = d.current.Add(target.Sub(d.current).Mul(t))
}

// decelerate moves the current value towards zero. Without friction the
// value is kept.
func (d *delayedVariable) decelerate(dt float64) {
	if d.friction <= 0 {
		return
	}
	t := gomath.Min(d.scaleFactor*d.friction*dt, 1)
	d.current = d.current.Sub(d.current.Mul(t))
	if d.current.Len() < restVelocity {
		d.current = mgl64.Vec2{}
	}
}

func (d *delayedVariable) setImmediate(v mgl64.Vec2) {
	d.current = v
}

// interactionState is one velocity channel plus the input position it was
// last derived from.
type interactionState struct {
	previousPosition mgl64.Vec2
	velocity         delayedVariable
}

func newInteractionState(scaleFactor float64) interactionState {
	return interactionState{velocity: delayedVariable{scaleFactor: scaleFactor, friction: 1}}
}

// CameraStates holds the velocity channels shared by every input source.
//
// Friction is grouped the way it is exposed to users: rotational friction
// covers local rotation, rolls and pan, horizontal friction covers global
// rotation and vertical friction covers truck movement.
type CameraStates struct {
	sensitivity float64

	globalRotation interactionState
	localRotation  interactionState
	globalRoll     interactionState
	localRoll      interactionState
	truckMovement  interactionState
	pan            interactionState
}

func newCameraStates(sensitivity, velocityScaleFactor float64) CameraStates {
	return CameraStates{
		sensitivity:    sensitivity,
		globalRotation: newInteractionState(velocityScaleFactor),
		localRotation:  newInteractionState(velocityScaleFactor),
		globalRoll:     newInteractionState(velocityScaleFactor),
		localRoll:      newInteractionState(velocityScaleFactor),
		truckMovement:  newInteractionState(velocityScaleFactor),
		pan:            newInteractionState(velocityScaleFactor),
	}
}

func (s *CameraStates) all() []*interactionState {
	return []*interactionState{
		&s.globalRotation, &s.localRotation, &s.globalRoll,
		&s.localRoll, &s.truckMovement, &s.pan,
	}
}

// SetRotationalFriction toggles friction on local rotation, rolls and pan.
func (s *CameraStates) SetRotationalFriction(enabled bool) {
	f := frictionValue(enabled)
	s.localRotation.velocity.friction = f
	s.localRoll.velocity.friction = f
	s.globalRoll.velocity.friction = f
	s.pan.velocity.friction = f
}

// SetHorizontalFriction toggles friction on global rotation.
func (s *CameraStates) SetHorizontalFriction(enabled bool) {
	s.globalRotation.velocity.friction = frictionValue(enabled)
}

// SetVerticalFriction toggles friction on truck movement.
func (s *CameraStates) SetVerticalFriction(enabled bool) {
	s.truckMovement.velocity.friction = frictionValue(enabled)
}

// SetSensitivity sets the factor applied to raw input.
func (s *CameraStates) SetSensitivity(sensitivity float64) {
	s.sensitivity = sensitivity
}

// Sensitivity returns the factor applied to raw input.
func (s *CameraStates) Sensitivity() float64 {
	return s.sensitivity
}

// SetVelocityScaleFactor sets how fast velocities follow input and decay.
func (s *CameraStates) SetVelocityScaleFactor(scale float64) {
	for _, st := range s.all() {
		st.velocity.scaleFactor = scale
	}
}

// ResetVelocities stops every channel immediately.
func (s *CameraStates) ResetVelocities() {
	for _, st := range s.all() {
		st.velocity.setImmediate(mgl64.Vec2{})
	}
}

// HasNonZeroVelocities reports whether any channel is moving.
func (s *CameraStates) HasNonZeroVelocities() bool {
	return !s.Velocities().IsZero()
}

// Velocities returns the current velocities.
func (s *CameraStates) Velocities() Velocities {
	return Velocities{
		GlobalRotation: s.globalRotation.velocity.current,
		LocalRotation:  s.localRotation.velocity.current,
		GlobalRoll:     s.globalRoll.velocity.current,
		LocalRoll:      s.localRoll.velocity.current,
		TruckMovement:  s.truckMovement.velocity.current,
		Pan:            s.pan.velocity.current,
	}
}

// setOrDecelerate feeds a channel that is either driven this frame or
// released.
func setOrDecelerate(st *interactionState, active bool, v mgl64.Vec2, dt float64) {
	if active {
		st.velocity.set(v, dt)
	} else {
		st.velocity.decelerate(dt)
	}
}

func frictionValue(enabled bool) float64 {
	if enabled {
		return 1
	}
	return 0
}

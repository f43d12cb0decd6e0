package inputstate

import "github.com/go-gl/mathgl/mgl64"

// ScriptCameraStates collects velocities requested programmatically. Calls
// made between two updates accumulate and are applied on the next update.
type ScriptCameraStates struct {
	CameraStates
	pending Velocities
}

// NewScriptCameraStates creates script states.
func NewScriptCameraStates(sensitivity, velocityScaleFactor float64) *ScriptCameraStates {
	return &ScriptCameraStates{CameraStates: newCameraStates(sensitivity, velocityScaleFactor)}
}

// AddGlobalRotation requests orbiting around the anchor.
func (s *ScriptCameraStates) AddGlobalRotation(delta mgl64.Vec2) {
	s.pending.GlobalRotation = s.pending.GlobalRotation.Add(delta)
}

// AddLocalRotation requests a change of view direction.
func (s *ScriptCameraStates) AddLocalRotation(delta mgl64.Vec2) {
	s.pending.LocalRotation = s.pending.LocalRotation.Add(delta)
}

// AddGlobalRoll requests a roll around the surface normal.
func (s *ScriptCameraStates) AddGlobalRoll(delta mgl64.Vec2) {
	s.pending.GlobalRoll = s.pending.GlobalRoll.Add(delta)
}

// AddLocalRoll requests a roll around the view direction.
func (s *ScriptCameraStates) AddLocalRoll(delta mgl64.Vec2) {
	s.pending.LocalRoll = s.pending.LocalRoll.Add(delta)
}

// AddTruckMovement requests moving towards (positive Y) or away from the
// anchor surface.
func (s *ScriptCameraStates) AddTruckMovement(delta mgl64.Vec2) {
	s.pending.TruckMovement = s.pending.TruckMovement.Add(delta)
}

// UpdateStateFromInput applies the accumulated requests.
func (s *ScriptCameraStates) UpdateStateFromInput(dt float64) {
	var zero mgl64.Vec2
	apply := func(st *interactionState, requested *mgl64.Vec2) {
		setOrDecelerate(st, *requested != zero, requested.Mul(s.sensitivity), dt)
		*requested = zero
	}
	apply(&s.localRotation, &s.pending.LocalRotation)
	apply(&s.globalRotation, &s.pending.GlobalRotation)
	apply(&s.truckMovement, &s.pending.TruckMovement)
	apply(&s.localRoll, &s.pending.LocalRoll)
	apply(&s.globalRoll, &s.pending.GlobalRoll)
	s.pan.velocity.decelerate(dt)
}

package orbital

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/orbital-nav/internal/scene"
	"github.com/Faultbox/orbital-nav/pkg/math"
)

// idleSpeedScale keeps the idle motion slow at speed factor 1.
const idleSpeedScale = 0.05

// ApplyIdleBehavior starts or stops the idle motion. Both ramp smoothly over
// the dampen interpolation time. Setting the current value again is a no-op.
func (n *Navigator) ApplyIdleBehavior(apply bool) {
	if apply == n.idleBehavior {
		return
	}
	n.idleBehavior = apply

	if apply {
		// Input would abort the idle motion right away.
		n.ResetVelocities()
		n.invertIdleInterpolation = false
	} else {
		n.invertIdleInterpolation = true
	}
	n.idleDampen.Start()
	n.idleDampen.SetInterpolationTime(n.settings.IdleBehavior.DampenInterpolationTime)
}

// IdleBehaviorActive reports whether the idle motion is on.
func (n *Navigator) IdleBehaviorActive() bool {
	return n.idleBehavior
}

// TriggerIdleBehavior starts the idle motion with the named behavior, or the
// configured one when name is empty.
func (n *Navigator) TriggerIdleBehavior(name string) error {
	if n.Anchor() == nil {
		n.log.Error("cannot trigger idle behavior without an anchor")
		return ErrNoAnchor
	}
	if name != "" {
		kind, err := ParseIdleBehavior(name)
		if err != nil {
			n.log.Error("invalid idle behavior", zap.String("behavior", name))
			return err
		}
		n.settings.IdleBehavior.Kind = kind
	}
	n.ApplyIdleBehavior(true)
	return nil
}

func (n *Navigator) applyIdleBehavior(dt float64, anchor scene.Orbitable, position *mgl64.Vec3, global *mgl64.Quat) {
	n.idleDampen.SetDeltaTime(dt)
	n.idleDampen.Step()

	if !n.idleBehavior && !n.idleDampen.IsInterpolating() {
		return
	}

	h := surfaceHandle(anchor, *position)
	speedScale := horizontalSpeedScale(*position, anchor, h)
	speedScale *= n.settings.IdleBehavior.SpeedFactor
	speedScale *= idleSpeedScale

	s := n.idleDampen.Value()
	if n.invertIdleInterpolation {
		speedScale *= 1 - s
	} else {
		speedScale *= s
	}

	switch kind := n.settings.IdleBehavior.Kind; kind {
	case IdleOrbit:
		orbitAnchor(dt, anchor, position, global, speedScale)
	case IdleOrbitAtConstantLatitude:
		// North is assumed to be the anchor's local Z axis.
		orbitAroundAxis(mgl64.Vec3{0, 0, 1}, dt, anchor, position, global, speedScale)
	case IdleOrbitAroundUp:
		orbitAroundAxis(mgl64.Vec3{0, 1, 0}, dt, anchor, position, global, speedScale)
	default:
		panic(fmt.Sprintf("orbital: missing idle behavior case %v", kind))
	}
}

// orbitAnchor orbits to the right in camera space.
func orbitAnchor(dt float64, anchor scene.Orbitable, position *mgl64.Vec3, global *mgl64.Quat, speedScale float64) {
	eulerAngles := mgl64.Vec3{0, -1, 0}.Mul(dt * speedScale)
	rotationDiffCameraSpace := math.QuatFromEuler(eulerAngles)
	rotationDiffWorldSpace := global.Mul(rotationDiffCameraSpace).Mul(global.Inverse())

	anchorCenterToCamera := position.Sub(anchor.WorldPosition())
	*position = position.Add(math.RotateInverse(anchorCenterToCamera, rotationDiffWorldSpace).Sub(anchorCenterToCamera))
}

// orbitAroundAxis orbits around a model space axis of the anchor, rotating
// the camera's up vector along.
func orbitAroundAxis(axis mgl64.Vec3, dt float64, anchor scene.Orbitable, position *mgl64.Vec3,
	global *mgl64.Quat, speedScale float64) {
	axisInWorldCoords := math.TransformDirection(anchor.ModelTransform(), axis.Normalize())
	spinRotation := math.AngleAxis(dt*speedScale, axisInWorldCoords)

	anchorCenterToCamera := position.Sub(anchor.WorldPosition())
	*position = position.Add(spinRotation.Rotate(anchorCenterToCamera).Sub(anchorCenterToCamera))
	*global = spinRotation.Mul(*global)
}

package orbital

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/orbital-nav/internal/camera"
	"github.com/Faultbox/orbital-nav/pkg/math"
)

// displacement is an anchor to aim vector at the previous and the current
// frame.
type displacement struct {
	previous mgl64.Vec3
	current  mgl64.Vec3
}

// correctionFactorExponent fades out the radial aim correction as it
// approaches the point where it has no solution.
const correctionFactorExponent = 50.0

// interpolateRetargetAim turns a virtual aim straight ahead of the camera
// towards the real aim, keeping the anchor fixed on screen. When that is
// impossible the retarget is abandoned.
func (n *Navigator) interpolateRetargetAim(dt float64, pose camera.Pose, prevCameraToAnchor mgl64.Vec3,
	anchorToAim displacement) displacement {
	if !n.retargetAim.IsInterpolating() {
		return anchorToAim
	}

	t := n.retargetAim.Value()
	n.retargetAim.SetDeltaTime(dt)
	n.retargetAim.Step()

	prevCameraToAim := prevCameraToAnchor.Add(anchorToAim.previous)
	aimDistance := prevCameraToAim.Len()
	prevRotation := pose.Rotation

	prevCameraToVirtualAim := math.ViewDirection(prevRotation).Mul(aimDistance)

	// Largest possible anchor to aim angle while orbiting at a fixed distance.
	maxAngle := gomath.Atan2(anchorToAim.previous.Len(), prevCameraToAnchor.Len())
	// Keeping this angle constant keeps the anchor fixed on screen.
	requestedAngle := math.Angle(prevCameraToVirtualAim, prevCameraToAnchor)

	if requestedAngle > maxAngle {
		n.retargetAim.End()
		return anchorToAim
	}

	aimPos := pose.Position.Add(prevCameraToAnchor).Add(anchorToAim.current)
	aimDecomp := DecomposeCameraRotation(pose, aimPos)

	interpolatedRotation := math.Slerp(prevRotation, aimDecomp.Global,
		n.retargetAim.StepFraction(t))

	recomputedCameraToVirtualAim := math.ViewDirection(interpolatedRotation).Mul(aimDistance)

	return displacement{
		previous: prevCameraToVirtualAim.Sub(prevCameraToAnchor),
		current:  recomputedCameraToVirtualAim.Sub(prevCameraToAnchor),
	}
}

// followAim keeps the aim at the same screen position while it moves
// relative to the anchor. The camera first spins around the anchor by the
// aim's angular motion, then orbits to compensate the aim's change in
// distance. Displacements too small to distinguish leave the pose unchanged.
func (n *Navigator) followAim(pose camera.Pose, anchorPos, cameraToAnchor mgl64.Vec3,
	anchorToAim displacement) camera.Pose {
	anchorDecomp := DecomposeCameraRotation(pose, pose.Position.Add(cameraToAnchor))

	prevCameraToAim := cameraToAnchor.Add(anchorToAim.previous)
	distanceRatio := anchorToAim.current.Len() / prevCameraToAim.Len()
	if !(distanceRatio > DistanceRatioAimThreshold) {
		return pose
	}

	// Spin around the anchor by the aim's motion projected onto a sphere of
	// the previous anchor to aim distance.
	newAnchorToProjectedAim := math.SafeNormalize(anchorToAim.current, anchorToAim.previous).
		Mul(anchorToAim.previous.Len())
	spinRotationAngle := math.Angle(anchorToAim.previous, newAnchorToProjectedAim)

	if spinRotationAngle > AngleEpsilon {
		spinRotationAxis := anchorToAim.previous.Cross(newAnchorToProjectedAim)
		spinRotation := math.AngleAxis(spinRotationAngle, spinRotationAxis)

		pose.Position = anchorPos.Sub(spinRotation.Rotate(cameraToAnchor))
		anchorDecomp.Global = spinRotation.Mul(anchorDecomp.Global)
	}

	// Compensate the aim's radial displacement.
	projectedAim := anchorPos.Add(newAnchorToProjectedAim)
	intermediateCameraToAnchor := anchorPos.Sub(pose.Position)
	intermediateCameraToProjectedAim := projectedAim.Sub(pose.Position)

	anchorAimAngle := math.Angle(intermediateCameraToAnchor, intermediateCameraToProjectedAim)
	ratio := gomath.Sin(anchorAimAngle) * intermediateCameraToAnchor.Len() / anchorToAim.current.Len()

	// No solution exists for ratio > 1; fade the correction out before that.
	ratio = mgl64.Clamp(ratio, -1, 1)
	correctionFactor := mgl64.Clamp(1-gomath.Pow(ratio, correctionFactorExponent), 0, 1)

	// Two solutions, depending on which half-space between anchor and aim
	// the camera is in.
	newCameraAnchorAngle := gomath.Asin(ratio)
	if intermediateCameraToAnchor.Dot(anchorToAim.current) <= 0 &&
		intermediateCameraToProjectedAim.Dot(anchorToAim.current) <= 0 {
		newCameraAnchorAngle = gomath.Pi - gomath.Asin(ratio)
	}

	prevCameraAimAngle := math.Angle(intermediateCameraToAnchor.Mul(-1), newAnchorToProjectedAim)
	newCameraAimAngle := gomath.Pi - anchorAimAngle - newCameraAnchorAngle

	distanceRotationAngle := correctionFactor * (newCameraAimAngle - prevCameraAimAngle)

	if gomath.Abs(distanceRotationAngle) > AngleEpsilon {
		distanceRotationAxis := intermediateCameraToAnchor.Cross(newAnchorToProjectedAim)
		orbitRotation := math.AngleAxis(distanceRotationAngle, distanceRotationAxis)

		pose.Position = anchorPos.Sub(orbitRotation.Rotate(intermediateCameraToAnchor))
		anchorDecomp.Global = orbitRotation.Mul(anchorDecomp.Global)
	}

	pose.Rotation = ComposeCameraRotation(anchorDecomp)
	return pose
}

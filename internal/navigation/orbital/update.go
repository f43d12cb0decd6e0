package orbital

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/orbital-nav/internal/camera"
	"github.com/Faultbox/orbital-nav/internal/navigation/inputstate"
	"github.com/Faultbox/orbital-nav/internal/scene"
	"github.com/Faultbox/orbital-nav/pkg/math"
)

const (
	// AngleEpsilon is the smallest rotation angle, in radians, that is
	// applied to the camera.
	AngleEpsilon = 1e-7
	// DistanceRatioAimThreshold is the smallest aim displacement, relative to
	// the camera to aim distance, that the camera follows.
	DistanceRatioAimThreshold = 1e-4
)

// UpdateCameraStateFromStates advances the camera by one frame of dt
// seconds. Without an anchor in the scene the camera is left unchanged.
func (n *Navigator) UpdateCameraStateFromStates(dt float64) {
	anchor := n.Anchor()
	if anchor == nil {
		return
	}

	anchorPos := anchor.WorldPosition()
	prevCameraPosition := n.camera.Position()

	var anchorDisplacement mgl64.Vec3
	if n.previousAnchorPosition != nil {
		anchorDisplacement = anchorPos.Sub(*n.previousAnchorPosition)
	}

	pose := camera.Pose{
		Position: prevCameraPosition.Add(anchorDisplacement),
		Rotation: n.camera.Rotation(),
	}

	if n.linearFlight {
		camPosToAnchorPosDiff := prevCameraPosition.Sub(anchorPos)
		// The interaction sphere approximates the distance to the surface.
		distFromCameraToFocus := camPosToAnchorPosDiff.Len() - anchor.InteractionSphere()
		arrivalThreshold := n.settings.LinearFlight.DestinationDistance * n.settings.LinearFlight.DestinationFactor
		distToDestination := gomath.Abs(distFromCameraToFocus - n.settings.LinearFlight.DestinationDistance)

		if distToDestination > arrivalThreshold {
			pose.Position = n.moveCameraAlongVector(pose.Position, distFromCameraToFocus,
				camPosToAnchorPosDiff, n.settings.LinearFlight.DestinationDistance, dt)
		} else {
			n.linearFlight = false
		}
	}

	aim := n.Aim()
	hasPreviousPositions := n.previousAnchorPosition != nil && n.previousAimPosition != nil
	if aim != nil && n.aimID != n.anchorID && hasPreviousPositions {
		aimPos := aim.WorldPosition()
		cameraToAnchor := n.previousAnchorPosition.Sub(prevCameraPosition)

		anchorToAim := displacement{
			previous: n.previousAimPosition.Sub(*n.previousAnchorPosition),
			current:  aimPos.Sub(anchorPos),
		}
		anchorToAim = n.interpolateRetargetAim(dt, pose, cameraToAnchor, anchorToAim)
		pose = n.followAim(pose, anchorPos, cameraToAnchor, anchorToAim)

		rot := math.QuatFromMat3(anchor.WorldRotationMatrix())
		n.previousAimPosition = &aimPos
		n.previousAnchorRotation = &rot
	}

	n.previousAnchorPosition = &anchorPos

	posHandle := surfaceHandle(anchor, pose.Position)
	camRot := DecomposeCameraRotationSurface(pose, anchor)

	// Rotate with the anchor by the rotation it made since the last frame.
	anchorRotation := math.QuatFromMat3(anchor.WorldRotationMatrix())
	anchorRotationDiff := mgl64.QuatIdent()
	if n.previousAnchorRotation != nil {
		anchorRotationDiff = n.previousAnchorRotation.Mul(anchorRotation.Inverse())
	}
	n.previousAnchorRotation = &anchorRotation

	anchorRotationDiff = n.interpolateRotationDifferential(dt, pose.Position, anchorRotationDiff)

	v := inputstate.Combine(n.sources()...)

	camRot.Local = roll(dt, v, camRot.Local)
	camRot.Local = n.interpolateLocalRotation(dt, camRot.Local)
	camRot.Local = rotateLocally(dt, v, camRot.Local)

	pose.Position = translateHorizontally(dt, v, pose.Position, anchor, camRot.Global, posHandle)

	n.applyIdleBehavior(dt, anchor, &pose.Position, &camRot.Global)

	pose.Position = followAnchorNodeRotation(pose.Position, anchorPos, anchorRotationDiff)

	// The horizontal position changed.
	posHandle = surfaceHandle(anchor, pose.Position)

	camRot.Global = rotateGlobally(anchor, camRot.Global, anchorRotationDiff, posHandle)
	camRot.Global = rotateHorizontally(dt, v, anchor, camRot.Global, posHandle)

	pose.Position = translateVertically(dt, v, pose.Position, anchor, posHandle)
	pose.Position = pushToSurface(n.settings.MinimumAllowedDistance, pose.Position, anchor, posHandle)

	n.camera.SetPosition(pose.Position)
	n.camera.SetRotation(ComposeCameraRotation(camRot))
}

// UpdateCameraScalingFromAnchor sets the camera scaling so the anchor surface
// appears at the configured stereoscopic depth, or to the static exponent
// when adaptive depth is off.
func (n *Navigator) UpdateCameraScalingFromAnchor(dt float64) {
	if !n.settings.UseAdaptiveStereoscopicDepth {
		n.camera.SetScaling(gomath.Pow(10, n.settings.StaticViewScaleExponent))
		return
	}

	anchor := n.Anchor()
	if anchor == nil {
		return
	}

	camPos := n.camera.Position()
	posHandle := surfaceHandle(anchor, camPos)
	targetDistance := cameraToSurfaceVector(camPos, anchor, posHandle).Len()

	if aim := n.Aim(); aim != nil {
		targetDistance = gomath.Min(targetDistance, aim.WorldPosition().Sub(camPos).Len())
	}
	// Keep the log space interpolation finite.
	targetDistance = gomath.Max(targetDistance, math.Epsilon)

	if n.directlySetStereoDistance {
		n.currentCameraToSurfaceDistance = targetDistance
		n.cameraToSurfaceDistance.End()
		n.directlySetStereoDistance = false
	} else {
		n.currentCameraToSurfaceDistance = n.interpolateCameraToSurfaceDistance(dt,
			n.currentCameraToSurfaceDistance, targetDistance)
	}

	n.camera.SetScaling(n.settings.StereoscopicDepthOfFocusSurface / n.currentCameraToSurfaceDistance)
}

// surfaceHandle returns the surface handle of node below the world space
// position p.
func surfaceHandle(node scene.Orbitable, p mgl64.Vec3) scene.SurfacePositionHandle {
	inverseModelTransform := node.ModelTransform().Inv()
	return node.CalculateSurfacePositionHandle(math.TransformPoint(inverseModelTransform, p))
}

// cameraToSurfaceVector returns the vector from the camera to the actual
// surface point below it.
func cameraToSurfaceVector(camPos mgl64.Vec3, node scene.Orbitable, h scene.SurfacePositionHandle) mgl64.Vec3 {
	posDiff := camPos.Sub(node.WorldPosition())
	centerToActualSurface := math.TransformDirection(node.ModelTransform(), h.CenterToActualSurface())
	return centerToActualSurface.Sub(posDiff)
}

// horizontalSpeedScale slows horizontal motion down close to the surface.
func horizontalSpeedScale(camPos mgl64.Vec3, node scene.Orbitable, h scene.SurfacePositionHandle) float64 {
	centerToActualSurface := math.TransformDirection(node.ModelTransform(), h.CenterToActualSurface())
	actualSurfaceToCamera := camPos.Sub(node.WorldPosition()).Sub(centerToActualSurface)

	distFromSurfaceToCamera := actualSurfaceToCamera.Len()
	distFromCenterToSurface := centerToActualSurface.Len()
	if distFromCenterToSurface <= 0 {
		return 1
	}
	return mgl64.Clamp(distFromSurfaceToCamera/distFromCenterToSurface, 0, 1)
}

func (n *Navigator) moveCameraAlongVector(camPos mgl64.Vec3, distFromCameraToFocus float64,
	camPosToAnchorPosDiff mgl64.Vec3, destination, dt float64) mgl64.Vec3 {
	var velocity float64
	if distFromCameraToFocus > destination {
		// Towards the anchor.
		velocity = 1 - destination/distFromCameraToFocus
	} else {
		// Away from the anchor.
		velocity = distFromCameraToFocus/destination - 1
	}
	velocity *= n.settings.LinearFlight.VelocitySensitivity * dt
	return camPos.Sub(camPosToAnchorPosDiff.Mul(velocity))
}

func (n *Navigator) interpolateRotationDifferential(dt float64, camPos mgl64.Vec3, diff mgl64.Quat) mgl64.Quat {
	// Fade in when close enough, fade out otherwise.
	sign := -1.0
	if n.ShouldFollowAnchorRotation(camPos) {
		sign = 1
	}
	n.followRotation.SetDeltaTime(sign * dt)
	n.followRotation.Step()
	return math.Slerp(mgl64.QuatIdent(), diff, n.followRotation.Value())
}

func roll(dt float64, v inputstate.Velocities, local mgl64.Quat) mgl64.Quat {
	rollQuat := math.AngleAxis(v.LocalRoll.X()*dt, mgl64.Vec3{0, 0, 1})
	return local.Mul(rollQuat)
}

// interpolateLocalRotation removes the look-around part of the rotation
// while retargeting the anchor.
func (n *Navigator) interpolateLocalRotation(dt float64, local mgl64.Quat) mgl64.Quat {
	if !n.retargetAnchor.IsInterpolating() {
		return local
	}

	t := n.retargetAnchor.Value()
	n.retargetAnchor.SetDeltaTime(dt)
	n.retargetAnchor.Step()

	localUp := local.Rotate(math.UpDirectionCameraSpace)
	target := math.LookAtQuaternion(mgl64.Vec3{}, math.ViewDirectionCameraSpace,
		math.SafeNormalize(localUp, math.UpDirectionCameraSpace))

	result := math.Slerp(local, target, n.retargetAnchor.StepFraction(t))

	if gomath.Abs(gomath.Abs(result.W)-1) < 1e-13 || math.QuatAngle(result) < AngleEpsilon {
		n.retargetAnchor.End()
	}
	return result
}

func (n *Navigator) interpolateCameraToSurfaceDistance(dt, current, target float64) float64 {
	if !n.cameraToSurfaceDistance.IsInterpolating() {
		return target
	}

	t := n.cameraToSurfaceDistance.Value()
	n.cameraToSurfaceDistance.SetDeltaTime(dt)
	n.cameraToSurfaceDistance.Step()

	// Interpolate in log space so the change looks uniform at every scale.
	result := gomath.Exp(math.Lerp(gomath.Log(current), gomath.Log(target),
		n.cameraToSurfaceDistance.StepFraction(t)))

	if gomath.Abs(current/target-1) < 1e-6 {
		n.cameraToSurfaceDistance.End()
	}
	return result
}

// rotateLocally applies look-around and pan input.
func rotateLocally(dt float64, v inputstate.Velocities, local mgl64.Quat) mgl64.Quat {
	rot := v.LocalRotation.Add(v.Pan)
	rotationDiff := math.QuatFromEuler(mgl64.Vec3{rot.Y() * dt, rot.X() * dt, 0})
	return local.Mul(rotationDiff)
}

// translateHorizontally orbits the camera around the anchor.
func translateHorizontally(dt float64, v inputstate.Velocities, camPos mgl64.Vec3, anchor scene.Orbitable,
	global mgl64.Quat, h scene.SurfacePositionHandle) mgl64.Vec3 {
	modelTransform := anchor.ModelTransform()
	outDirection := math.SafeNormalize(
		math.TransformDirection(modelTransform, h.ReferenceSurfaceOutDirection),
		mgl64.Vec3{0, 0, 1},
	)

	posDiff := camPos.Sub(anchor.WorldPosition())
	speedScale := horizontalSpeedScale(camPos, anchor, h)

	eulerAngles := mgl64.Vec3{
		-v.GlobalRotation.Y() * dt,
		-v.GlobalRotation.X() * dt,
		0,
	}.Mul(speedScale)
	rotationDiffCameraSpace := math.QuatFromEuler(eulerAngles)
	rotationDiffWorldSpace := global.Mul(rotationDiffCameraSpace).Mul(global.Inverse())

	radial := outDirection.Mul(posDiff.Len())
	rotationDiffVec3 := math.RotateInverse(radial, rotationDiffWorldSpace).Sub(radial)
	return camPos.Add(rotationDiffVec3)
}

// followAnchorNodeRotation moves the camera along with the anchor's rotation.
func followAnchorNodeRotation(camPos, anchorPos mgl64.Vec3, diff mgl64.Quat) mgl64.Vec3 {
	posDiff := camPos.Sub(anchorPos)
	return camPos.Add(math.RotateInverse(posDiff, diff).Sub(posDiff))
}

// rotateGlobally faces the camera down at the surface while keeping its up
// vector fixed in the anchor's rotating frame.
func rotateGlobally(anchor scene.Orbitable, global, diff mgl64.Quat, h scene.SurfacePositionHandle) mgl64.Quat {
	directionFromSurfaceToCamera := math.TransformDirection(anchor.ModelTransform(), h.ReferenceSurfaceOutDirection)
	lookUpWhenFacingSurface := diff.Inverse().Rotate(global.Rotate(math.UpDirectionCameraSpace))
	return math.LookAtQuaternion(mgl64.Vec3{}, directionFromSurfaceToCamera.Mul(-1), lookUpWhenFacingSurface)
}

// rotateHorizontally rolls the camera around the surface normal.
func rotateHorizontally(dt float64, v inputstate.Velocities, anchor scene.Orbitable, global mgl64.Quat,
	h scene.SurfacePositionHandle) mgl64.Quat {
	directionFromSurfaceToCamera := math.TransformDirection(anchor.ModelTransform(), h.ReferenceSurfaceOutDirection)
	cameraRollRotation := math.AngleAxis(v.GlobalRoll.X()*dt, directionFromSurfaceToCamera)
	return cameraRollRotation.Mul(global)
}

// translateVertically moves the camera towards or away from the surface.
func translateVertically(dt float64, v inputstate.Velocities, camPos mgl64.Vec3, anchor scene.Orbitable,
	h scene.SurfacePositionHandle) mgl64.Vec3 {
	actualSurfaceToCamera := cameraToSurfaceVector(camPos, anchor, h).Mul(-1)
	return camPos.Sub(actualSurfaceToCamera.Mul(v.TruckMovement.Y() * dt))
}

// pushToSurface keeps the camera at least minHeight above the actual surface.
func pushToSurface(minHeight float64, camPos mgl64.Vec3, anchor scene.Orbitable, h scene.SurfacePositionHandle) mgl64.Vec3 {
	referenceSurfaceOutDirection := math.SafeNormalize(
		math.TransformDirection(anchor.ModelTransform(), h.ReferenceSurfaceOutDirection),
		mgl64.Vec3{0, 0, 1},
	)
	actualSurfaceToCamera := cameraToSurfaceVector(camPos, anchor, h).Mul(-1)
	surfaceToCameraSigned := actualSurfaceToCamera.Len() *
		math.Sign(actualSurfaceToCamera.Dot(referenceSurfaceOutDirection))

	return camPos.Add(referenceSurfaceOutDirection.Mul(gomath.Max(minHeight-surfaceToCameraSigned, 0)))
}

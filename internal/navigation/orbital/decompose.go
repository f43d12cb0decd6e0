package orbital

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/orbital-nav/internal/camera"
	"github.com/Faultbox/orbital-nav/internal/scene"
	"github.com/Faultbox/orbital-nav/pkg/math"
)

// CameraRotationDecomposition splits a camera rotation into a global part
// facing a reference and a local look-around part, so that
// rotation = Global * Local.
type CameraRotationDecomposition struct {
	Local  mgl64.Quat
	Global mgl64.Quat
}

// DecomposeCameraRotationSurface decomposes the pose rotation relative to the
// surface of reference: the global part looks straight down at the surface
// point below the camera.
func DecomposeCameraRotationSurface(pose camera.Pose, reference scene.Orbitable) CameraRotationDecomposition {
	cameraUp := pose.Rotation.Rotate(math.UpDirectionCameraSpace)
	cameraViewDirection := math.ViewDirection(pose.Rotation)

	modelTransform := reference.ModelTransform()
	inverseModelTransform := modelTransform.Inv()
	cameraPositionModelSpace := math.TransformPoint(inverseModelTransform, pose.Position)
	handle := reference.CalculateSurfacePositionHandle(cameraPositionModelSpace)

	directionFromSurfaceToCamera := math.SafeNormalize(
		math.TransformDirection(modelTransform, handle.ReferenceSurfaceOutDirection),
		mgl64.Vec3{0, 0, 1},
	)

	// The sum of view and up is never parallel to the view direction.
	lookUp := cameraViewDirection.Add(cameraUp).Normalize()
	global := math.LookAtQuaternion(mgl64.Vec3{}, directionFromSurfaceToCamera.Mul(-1), lookUp)
	local := global.Inverse().Mul(pose.Rotation)
	return CameraRotationDecomposition{Local: local, Global: global}
}

// DecomposeCameraRotation decomposes the pose rotation so that the global
// part looks at reference.
func DecomposeCameraRotation(pose camera.Pose, reference mgl64.Vec3) CameraRotationDecomposition {
	cameraUp := pose.Rotation.Rotate(math.UpDirectionCameraSpace)
	cameraViewDirection := math.ViewDirection(pose.Rotation)

	lookUp := cameraViewDirection.Add(cameraUp).Normalize()
	global := math.LookAtQuaternion(mgl64.Vec3{}, reference.Sub(pose.Position), lookUp)
	local := global.Inverse().Mul(pose.Rotation)
	return CameraRotationDecomposition{Local: local, Global: global}
}

// ComposeCameraRotation is the inverse of the decompositions.
func ComposeCameraRotation(d CameraRotationDecomposition) mgl64.Quat {
	return d.Global.Mul(d.Local)
}

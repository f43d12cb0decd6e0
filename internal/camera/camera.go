// Package camera provides the navigable camera state.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/orbital-nav/pkg/math"
)

// Camera holds a double precision world pose and a view scaling factor.
// Navigators read and write it once per frame.
type Camera struct {
	position mgl64.Vec3
	rotation mgl64.Quat
	scaling  float64

	// Projection
	FovY   float64 // Vertical field of view (radians)
	Aspect float64
	Near   float64
	Far    float64
}

// New creates a camera at the origin looking down -Z.
func New() *Camera {
	return &Camera{
		rotation: mgl64.QuatIdent(),
		scaling:  1,
		FovY:     gomath.Pi / 4,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      1e12,
	}
}

// Position returns the camera position in world space.
func (c *Camera) Position() mgl64.Vec3 {
	return c.position
}

// SetPosition moves the camera.
func (c *Camera) SetPosition(p mgl64.Vec3) {
	c.position = p
}

// Rotation returns the camera rotation in world space.
func (c *Camera) Rotation() mgl64.Quat {
	return c.rotation
}

// SetRotation sets the camera rotation. The quaternion is normalized.
func (c *Camera) SetRotation(q mgl64.Quat) {
	if q.Len() == 0 {
		q = mgl64.QuatIdent()
	}
	c.rotation = q.Normalize()
}

// Scaling returns the view scaling factor.
func (c *Camera) Scaling() float64 {
	return c.scaling
}

// SetScaling sets the view scaling factor used for stereoscopic depth.
func (c *Camera) SetScaling(s float64) {
	c.scaling = s
}

// ViewDirectionWorldSpace returns the unit view direction.
func (c *Camera) ViewDirectionWorldSpace() mgl64.Vec3 {
	return math.ViewDirection(c.rotation)
}

// UpDirectionWorldSpace returns the unit up direction.
func (c *Camera) UpDirectionWorldSpace() mgl64.Vec3 {
	return c.rotation.Rotate(math.UpDirectionCameraSpace)
}

// LookAt places the camera at eye looking at center.
func (c *Camera) LookAt(eye, center, up mgl64.Vec3) {
	c.position = eye
	c.rotation = math.LookAtQuaternion(eye, center, up)
}

// ViewMatrix returns the view matrix for this camera.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	inv := c.rotation.Inverse().Mat4()
	t := mgl64.Translate3D(-c.position.X(), -c.position.Y(), -c.position.Z())
	return inv.Mul4(t)
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	return mgl64.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// Pose is a camera position and rotation in world space.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Pose returns the current camera pose.
func (c *Camera) Pose() Pose {
	return Pose{Position: c.position, Rotation: c.rotation}
}

// SetPose sets position and rotation at once.
func (c *Camera) SetPose(p Pose) {
	c.SetPosition(p.Position)
	c.SetRotation(p.Rotation)
}

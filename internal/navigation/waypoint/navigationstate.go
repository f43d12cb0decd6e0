package waypoint

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/orbital-nav/internal/camera"
	"github.com/Faultbox/orbital-nav/pkg/math"
)

// NavigationState is a serializable camera placement relative to an anchor.
type NavigationState struct {
	Anchor string `yaml:"anchor"`
	Aim    string `yaml:"aim,omitempty"`
	// ReferenceFrame defaults to the anchor.
	ReferenceFrame string `yaml:"referenceFrame,omitempty"`
	// Position is relative to the anchor, in the reference frame.
	Position mgl64.Vec3 `yaml:"position"`
	// Up is in the reference frame. Nil means world +Y.
	Up    *mgl64.Vec3 `yaml:"up,omitempty"`
	Yaw   float64     `yaml:"yaw,omitempty"`
	Pitch float64     `yaml:"pitch,omitempty"`
}

// CameraPose resolves the state into a world space pose. The camera looks at
// the anchor, then yaw and pitch are applied in camera space.
func (ns NavigationState) CameraPose(nodes NodeLookup) (camera.Pose, error) {
	anchor := nodes.Node(ns.Anchor)
	if anchor == nil {
		return camera.Pose{}, fmt.Errorf("anchor: %w: %s", ErrNodeNotFound, ns.Anchor)
	}
	frame := anchor
	if ns.ReferenceFrame != "" {
		if frame = nodes.Node(ns.ReferenceFrame); frame == nil {
			return camera.Pose{}, fmt.Errorf("reference frame: %w: %s", ErrNodeNotFound, ns.ReferenceFrame)
		}
	}

	anchorPos := anchor.WorldPosition()
	frameRot := frame.WorldRotationMatrix()
	position := anchorPos.Add(frameRot.Mul3x1(ns.Position))

	up := math.UpDirectionCameraSpace
	if ns.Up != nil {
		up = math.SafeNormalize(frameRot.Mul3x1(*ns.Up), up)
	}

	neutral := math.LookAtQuaternion(position, anchorPos, up)
	yaw := math.AngleAxis(ns.Yaw, mgl64.Vec3{0, -1, 0})
	pitch := math.AngleAxis(ns.Pitch, mgl64.Vec3{1, 0, 0})

	return camera.Pose{
		Position: position,
		Rotation: neutral.Mul(yaw).Mul(pitch),
	}, nil
}

// StateFromPose describes pose relative to the anchor, expressed in the
// reference frame. An empty frame identifier means the anchor. Roll about the
// view direction is folded into the up vector.
func StateFromPose(pose camera.Pose, anchorID, aimID, frameID string, nodes NodeLookup) (NavigationState, error) {
	anchor := nodes.Node(anchorID)
	if anchor == nil {
		return NavigationState{}, fmt.Errorf("anchor: %w: %s", ErrNodeNotFound, anchorID)
	}
	frame := anchor
	if frameID != "" {
		if frame = nodes.Node(frameID); frame == nil {
			return NavigationState{}, fmt.Errorf("reference frame: %w: %s", ErrNodeNotFound, frameID)
		}
	}

	anchorPos := anchor.WorldPosition()
	cameraUp := pose.Rotation.Rotate(math.UpDirectionCameraSpace)
	neutral := math.LookAtQuaternion(pose.Position, anchorPos, cameraUp)

	euler := math.EulerAngles(neutral.Inverse().Mul(pose.Rotation))
	pitch := euler.X()
	yaw := -euler.Y()

	unroll := math.AngleAxis(euler.Z(), mgl64.Vec3{0, 0, 1})
	neutralUp := neutral.Mul(unroll).Rotate(math.UpDirectionCameraSpace)

	invFrameRot := frame.WorldRotationMatrix().Transpose()
	up := invFrameRot.Mul3x1(neutralUp)

	return NavigationState{
		Anchor:         anchorID,
		Aim:            aimID,
		ReferenceFrame: frameID,
		Position:       invFrameRot.Mul3x1(pose.Position.Sub(anchorPos)),
		Up:             &up,
		Yaw:            yaw,
		Pitch:          pitch,
	}, nil
}

// Package inputstate turns raw per-frame input into smoothed camera
// velocities. Every input device owns one set of states; the navigator reads
// the sum of all of them.
package inputstate

import "github.com/go-gl/mathgl/mgl64"

// Velocities holds the camera velocities produced by one or more sources.
// Rotations are in radians per second, truck movement is relative.
type Velocities struct {
	GlobalRotation mgl64.Vec2
	LocalRotation  mgl64.Vec2
	GlobalRoll     mgl64.Vec2
	LocalRoll      mgl64.Vec2
	TruckMovement  mgl64.Vec2
	Pan            mgl64.Vec2
}

// Add returns the component-wise sum of v and o.
func (v Velocities) Add(o Velocities) Velocities {
	return Velocities{
		GlobalRotation: v.GlobalRotation.Add(o.GlobalRotation),
		LocalRotation:  v.LocalRotation.Add(o.LocalRotation),
		GlobalRoll:     v.GlobalRoll.Add(o.GlobalRoll),
		LocalRoll:      v.LocalRoll.Add(o.LocalRoll),
		TruckMovement:  v.TruckMovement.Add(o.TruckMovement),
		Pan:            v.Pan.Add(o.Pan),
	}
}

// IsZero reports whether every velocity is exactly zero.
func (v Velocities) IsZero() bool {
	var zero mgl64.Vec2
	return v.GlobalRotation == zero && v.LocalRotation == zero &&
		v.GlobalRoll == zero && v.LocalRoll == zero &&
		v.TruckMovement == zero && v.Pan == zero
}

// Source is a device specific set of camera states.
type Source interface {
	Velocities() Velocities
	HasNonZeroVelocities() bool
	ResetVelocities()
}

// Combine sums the velocities of all sources. Concurrent inputs stack.
func Combine(sources ...Source) Velocities {
	var v Velocities
	for _, s := range sources {
		v = v.Add(s.Velocities())
	}
	return v
}

// AnyNonZero reports whether any source is moving the camera.
func AnyNonZero(sources ...Source) bool {
	for _, s := range sources {
		if s.HasNonZeroVelocities() {
			return true
		}
	}
	return false
}

// Package interpolator provides a time-driven progress tracker used by every
// animated camera transition.
package interpolator

import "math"

// Interpolator advances a normalized progress value from 0 to 1 over a
// configurable duration. The raw linear progress is passed through a transfer
// function before it is exposed by Value.
//
// Stepping with a negative delta time runs the progress backwards, which is
// how a transition is faded out again.
type Interpolator struct {
	transfer          TransferFunc
	t                 float64
	interpolationTime float64
	scaledDeltaTime   float64
}

// New creates an interpolator that has already finished (Value is the
// transfer function at 1). A nil transfer function means linear.
func New(transfer TransferFunc) *Interpolator {
	if transfer == nil {
		transfer = Linear
	}
	return &Interpolator{
		transfer:          transfer,
		t:                 1,
		interpolationTime: 1,
	}
}

// Start resets the progress to 0.
func (i *Interpolator) Start() {
	i.t = 0
}

// End forces the progress to 1, cancelling the transition.
func (i *Interpolator) End() {
	i.t = 1
}

// SetTransferFunction replaces the transfer function. nil means linear.
func (i *Interpolator) SetTransferFunction(f TransferFunc) {
	if f == nil {
		f = Linear
	}
	i.transfer = f
}

// SetInterpolationTime sets the duration of a full 0 to 1 run in seconds.
// A duration of zero makes the next non-negative step complete immediately.
func (i *Interpolator) SetInterpolationTime(seconds float64) {
	i.interpolationTime = seconds
}

// InterpolationTime returns the duration of a full run in seconds.
func (i *Interpolator) InterpolationTime() float64 {
	return i.interpolationTime
}

// SetDeltaTime sets the frame time used by the next Step. Negative values
// step backwards.
func (i *Interpolator) SetDeltaTime(dt float64) {
	if i.interpolationTime <= 0 {
		if dt < 0 {
			i.scaledDeltaTime = math.Inf(-1)
		} else {
			i.scaledDeltaTime = math.Inf(1)
		}
		return
	}
	i.scaledDeltaTime = dt / i.interpolationTime
}

// Step advances the progress by the scaled delta time, clamped to [0, 1].
func (i *Interpolator) Step() {
	i.t += i.scaledDeltaTime
	i.t = math.Max(0, math.Min(1, i.t))
}

// Progress returns the raw linear progress in [0, 1].
func (i *Interpolator) Progress() float64 {
	return i.t
}

// Value returns the transfer function applied to the current progress.
func (i *Interpolator) Value() float64 {
	return i.transfer(i.t)
}

// DeltaTimeScaled returns the last delta time divided by the interpolation
// time, i.e. the progress advanced by one step.
func (i *Interpolator) DeltaTimeScaled() float64 {
	return i.scaledDeltaTime
}

// StepFraction turns a rate read from Value before Step into the fraction of
// the remaining distance to cover this step, clamped to [0, 1]. A zero
// duration covers everything in one step.
func (i *Interpolator) StepFraction(rate float64) float64 {
	if i.interpolationTime <= 0 || math.IsInf(i.scaledDeltaTime, 0) {
		return 1
	}
	f := rate * i.scaledDeltaTime
	if math.IsNaN(f) {
		return 1
	}
	return math.Max(0, math.Min(f, 1))
}

// IsInterpolating reports whether the progress has not yet reached 1.
func (i *Interpolator) IsInterpolating() bool {
	return i.t < 1 && i.t >= 0
}

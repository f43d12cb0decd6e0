package interpolator

import "math"

// TransferFunc maps linear progress in [0, 1] to an eased value.
type TransferFunc func(t float64) float64

// Linear is the identity transfer function.
func Linear(t float64) float64 {
	return t
}

// SmoothStep is 3t^2 - 2t^3 clamped to [0, 1].
func SmoothStep(t float64) float64 {
	res := 3*t*t - 2*t*t*t
	return math.Max(0, math.Min(1, res))
}

// DecayingSmoothStep is a rate function for interpolating a current value
// towards a target incrementally: newValue = lerp(current, target,
// StepFraction(Value())). It grows without bound as t approaches 1, so the
// fraction is clamped to 1; the final step always lands on the target.
func DecayingSmoothStep(t float64) float64 {
	den := 1 - 3*t*t + 2*t*t*t
	if den <= 0 {
		return math.MaxFloat64
	}
	return 6 * (t + t*t) / den
}

// QuadraticEaseInOut accelerates until halfway, then decelerates.
func QuadraticEaseInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return (-2*t*t + 4*t) - 1
}

// CubicEaseInOut provides a smooth acceleration and deceleration profile.
func CubicEaseInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

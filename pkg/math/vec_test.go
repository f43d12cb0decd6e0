package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSafeNormalize(t *testing.T) {
	fallback := mgl64.Vec3{0, 0, 1}
	if got := SafeNormalize(mgl64.Vec3{}, fallback); got != fallback {
		t.Errorf("SafeNormalize(0) = %v, want fallback %v", got, fallback)
	}

	got := SafeNormalize(mgl64.Vec3{3, 4, 0}, fallback)
	if math.Abs(got.Len()-1) > 1e-12 {
		t.Errorf("SafeNormalize().Len() = %v, want 1", got.Len())
	}
}

func TestVecApproxEqual(t *testing.T) {
	tests := []struct {
		a, b mgl64.Vec3
		tol  float64
		want bool
	}{
		// Zero components compare absolutely.
		{mgl64.Vec3{0, 0, -1}, mgl64.Vec3{2e-16, -1e-16, -1}, 1e-9, true},
		{mgl64.Vec3{0, 30, 0}, mgl64.Vec3{1e-12, 30, 0}, 1e-6, true},
		{mgl64.Vec3{0, 0, 50}, mgl64.Vec3{0, 0, 50.001}, 1e-6, false},
		{mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3}, 0, true},
	}
	for _, tt := range tests {
		if got := VecApproxEqual(tt.a, tt.b, tt.tol); got != tt.want {
			t.Errorf("VecApproxEqual(%v, %v, %g) = %v, want %v", tt.a, tt.b, tt.tol, got, tt.want)
		}
	}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name string
		a, b mgl64.Vec3
		want float64
	}{
		{"orthogonal", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 5, 0}, math.Pi / 2},
		{"parallel", mgl64.Vec3{2, 0, 0}, mgl64.Vec3{7, 0, 0}, 0},
		{"opposite", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{-1, 0, 0}, math.Pi},
		{"degenerate", mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Angle(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Angle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProject(t *testing.T) {
	got := Project(mgl64.Vec3{3, 4, 0}, mgl64.Vec3{10, 0, 0})
	if got != (mgl64.Vec3{3, 0, 0}) {
		t.Errorf("Project() = %v, want (3,0,0)", got)
	}
}

func TestOrthogonal(t *testing.T) {
	for _, v := range []mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}} {
		o := Orthogonal(v)
		if math.Abs(o.Dot(v)) > 1e-12 {
			t.Errorf("Orthogonal(%v) = %v is not perpendicular", v, o)
		}
		if math.Abs(o.Len()-1) > 1e-12 {
			t.Errorf("Orthogonal(%v) is not a unit vector", v)
		}
	}
}

func TestSign(t *testing.T) {
	if Sign(-3) != -1 || Sign(0) != 0 || Sign(2) != 1 {
		t.Error("Sign returned unexpected values")
	}
}

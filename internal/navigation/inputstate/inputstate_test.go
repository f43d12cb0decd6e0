package inputstate

import (
	"errors"
	gomath "math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

const (
	frame   = 1.0 / 60
	instant = 1e7 // velocity scale that makes input take effect in one frame
)

func vecNear(a, b mgl64.Vec2) bool {
	return a.Sub(b).Len() < 1e-12
}

func TestDelayedVariableApproachesTarget(t *testing.T) {
	d := delayedVariable{scaleFactor: 2, friction: 1}
	d.set(mgl64.Vec2{1, 0}, 0.25)
	if !vecNear(d.current, mgl64.Vec2{0.5, 0}) {
		t.Errorf("after one step current = %v, want (0.5,0)", d.current)
	}
	// A large step clamps to the target
	d.set(mgl64.Vec2{1, 0}, 10)
	if !vecNear(d.current, mgl64.Vec2{1, 0}) {
		t.Errorf("current = %v, want target", d.current)
	}
}

func TestFrictionStopsVelocities(t *testing.T) {
	framesToStop := func(friction float64) int {
		s := NewScriptCameraStates(1, 1/(friction+1e-7))
		s.AddGlobalRotation(mgl64.Vec2{1, 0})
		s.UpdateStateFromInput(frame)
		if !s.HasNonZeroVelocities() {
			t.Fatalf("friction %v: expected motion after input", friction)
		}
		for n := 1; n <= 100000; n++ {
			s.UpdateStateFromInput(frame)
			if !s.HasNonZeroVelocities() {
				return n
			}
		}
		t.Fatalf("friction %v: velocity never reached zero", friction)
		return 0
	}

	low := framesToStop(0.25)
	high := framesToStop(1)
	if low > high {
		t.Errorf("frames to stop: factor 0.25 took %d, factor 1 took %d", low, high)
	}
	// Decay per frame is dt/friction, so the frame count grows linearly with it
	if high > 5000 {
		t.Errorf("factor 1 took %d frames to stop", high)
	}
}

func TestWithoutFrictionVelocityPersists(t *testing.T) {
	s := NewScriptCameraStates(1, instant)
	s.SetHorizontalFriction(false)
	s.AddGlobalRotation(mgl64.Vec2{0.3, 0})
	s.UpdateStateFromInput(frame)
	want := s.Velocities().GlobalRotation

	for i := 0; i < 10000; i++ {
		s.UpdateStateFromInput(frame)
	}

	if got := s.Velocities().GlobalRotation; got != want || got == (mgl64.Vec2{}) {
		t.Errorf("velocity = %v, want unchanged %v", got, want)
	}
}

func TestFrictionGroups(t *testing.T) {
	s := NewScriptCameraStates(1, instant)
	s.SetRotationalFriction(false)
	s.SetHorizontalFriction(true)
	s.SetVerticalFriction(true)

	s.AddGlobalRotation(mgl64.Vec2{1, 0})
	s.AddLocalRoll(mgl64.Vec2{1, 0})
	s.AddTruckMovement(mgl64.Vec2{0, 1})
	s.UpdateStateFromInput(frame)
	s.UpdateStateFromInput(frame)

	v := s.Velocities()
	if v.GlobalRotation != (mgl64.Vec2{}) {
		t.Errorf("global rotation = %v, want stopped by horizontal friction", v.GlobalRotation)
	}
	if v.TruckMovement != (mgl64.Vec2{}) {
		t.Errorf("truck = %v, want stopped by vertical friction", v.TruckMovement)
	}
	if !vecNear(v.LocalRoll, mgl64.Vec2{1, 0}) {
		t.Errorf("local roll = %v, want kept without rotational friction", v.LocalRoll)
	}
}

func TestScriptRequestsAccumulate(t *testing.T) {
	s := NewScriptCameraStates(2, instant)
	s.AddGlobalRotation(mgl64.Vec2{0.1, 0})
	s.AddGlobalRotation(mgl64.Vec2{0.2, 0.5})
	s.UpdateStateFromInput(frame)

	if got := s.Velocities().GlobalRotation; !vecNear(got, mgl64.Vec2{0.6, 1}) {
		t.Errorf("global rotation = %v, want (0.6,1)", got)
	}

	s.ResetVelocities()
	if s.HasNonZeroVelocities() {
		t.Error("ResetVelocities should stop everything")
	}
}

func TestMouseButtons(t *testing.T) {
	const sens = 0.01
	start := mgl64.Vec2{100, 100}
	end := mgl64.Vec2{90, 95}
	delta := start.Sub(end).Mul(sens)

	tests := []struct {
		name    string
		buttons [mouseButtonCount]bool
		mods    KeyModifier
		invert  bool
		check   func(v Velocities) mgl64.Vec2
	}{
		{"primary orbits", [3]bool{true, false, false}, 0, false, func(v Velocities) mgl64.Vec2 { return v.GlobalRotation }},
		{"ctrl primary rotates locally", [3]bool{true, false, false}, ModControl, false, func(v Velocities) mgl64.Vec2 { return v.LocalRotation }},
		{"secondary trucks", [3]bool{false, true, false}, 0, false, func(v Velocities) mgl64.Vec2 { return v.TruckMovement }},
		{"alt primary trucks", [3]bool{true, false, false}, ModAlt, false, func(v Velocities) mgl64.Vec2 { return v.TruckMovement }},
		{"middle rolls globally", [3]bool{false, false, true}, 0, false, func(v Velocities) mgl64.Vec2 { return v.GlobalRoll }},
		{"shift primary rolls globally", [3]bool{true, false, false}, ModShift, false, func(v Velocities) mgl64.Vec2 { return v.GlobalRoll }},
		{"ctrl middle rolls locally", [3]bool{false, false, true}, ModControl, false, func(v Velocities) mgl64.Vec2 { return v.LocalRoll }},
		{"inverted secondary orbits", [3]bool{false, true, false}, 0, true, func(v Velocities) mgl64.Vec2 { return v.GlobalRotation }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMouseCameraStates(sens, instant)
			s.SetInvertMouseButtons(tt.invert)

			// Hover first so the drag starts at the current position
			s.UpdateStateFromInput(MouseInput{Position: start}, KeyboardInput{}, frame)
			s.UpdateStateFromInput(
				MouseInput{Position: end, Pressed: tt.buttons},
				KeyboardInput{Modifiers: tt.mods},
				frame,
			)

			if got := tt.check(s.Velocities()); !vecNear(got, delta) {
				t.Errorf("velocity = %v, want %v (all: %+v)", got, delta, s.Velocities())
			}
		})
	}
}

func TestMouseScrollTrucks(t *testing.T) {
	s := NewMouseCameraStates(0.01, instant)
	s.UpdateStateFromInput(MouseInput{ScrollDelta: 1}, KeyboardInput{}, frame)
	if got := s.Velocities().TruckMovement; got.Y() <= 0 {
		t.Errorf("truck = %v, want positive Y for scrolling in", got)
	}
}

func TestMouseReleaseDecelerates(t *testing.T) {
	s := NewMouseCameraStates(0.01, 2)
	s.UpdateStateFromInput(MouseInput{Position: mgl64.Vec2{0, 0}}, KeyboardInput{}, frame)
	s.UpdateStateFromInput(MouseInput{Position: mgl64.Vec2{50, 0}, Pressed: [3]bool{true}}, KeyboardInput{}, frame)
	moving := s.Velocities().GlobalRotation.Len()

	s.UpdateStateFromInput(MouseInput{Position: mgl64.Vec2{50, 0}}, KeyboardInput{}, frame)
	if got := s.Velocities().GlobalRotation.Len(); got >= moving || got == 0 {
		t.Errorf("speed after release = %v, want decaying below %v", got, moving)
	}
}

func TestAxisMappings(t *testing.T) {
	const sens = 2.0
	tests := []struct {
		name    string
		mapping AxisMapping
		raw     float64
		check   func(v Velocities) mgl64.Vec2
		want    mgl64.Vec2
	}{
		{"orbit x", AxisMapping{Type: AxisOrbitX}, 0.5, func(v Velocities) mgl64.Vec2 { return v.GlobalRotation }, mgl64.Vec2{1, 0}},
		{"orbit y inverted", AxisMapping{Type: AxisOrbitY, Invert: true}, 0.5, func(v Velocities) mgl64.Vec2 { return v.GlobalRotation }, mgl64.Vec2{0, -1}},
		{"inside deadzone", AxisMapping{Type: AxisOrbitX, Deadzone: 0.2}, 0.1, func(v Velocities) mgl64.Vec2 { return v.GlobalRotation }, mgl64.Vec2{}},
		{"zoom", AxisMapping{Type: AxisZoom}, 0.25, func(v Velocities) mgl64.Vec2 { return v.TruckMovement }, mgl64.Vec2{0.5, 0.5}},
		{"trigger at rest", AxisMapping{Type: AxisZoomIn, TriggerLike: true}, -1, func(v Velocities) mgl64.Vec2 { return v.TruckMovement }, mgl64.Vec2{}},
		{"trigger pressed", AxisMapping{Type: AxisZoomIn, TriggerLike: true}, 1, func(v Velocities) mgl64.Vec2 { return v.TruckMovement }, mgl64.Vec2{2, 2}},
		{"axis sensitivity", AxisMapping{Type: AxisLocalRollX, Sensitivity: 3}, 0.5, func(v Velocities) mgl64.Vec2 { return v.LocalRoll }, mgl64.Vec2{3, 0}},
		{"global roll", AxisMapping{Type: AxisGlobalRollY}, 0.5, func(v Velocities) mgl64.Vec2 { return v.GlobalRoll }, mgl64.Vec2{0, 1}},
		{"pan", AxisMapping{Type: AxisPanX}, 0.5, func(v Velocities) mgl64.Vec2 { return v.Pan }, mgl64.Vec2{1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAxisCameraStates(sens, instant)
			if err := s.SetAxisMapping("pad", 0, tt.mapping); err != nil {
				t.Fatal(err)
			}
			s.UpdateStateFromInput([]AxisInput{{Name: "pad", Axes: []float64{tt.raw}}}, frame)
			if got := tt.check(s.Velocities()); !vecNear(got, tt.want) {
				t.Errorf("velocity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAxisZoomInAndOutCombine(t *testing.T) {
	s := NewAxisCameraStates(1, instant)
	_ = s.SetAxisMapping("pad", 0, AxisMapping{Type: AxisZoomIn})
	_ = s.SetAxisMapping("pad", 1, AxisMapping{Type: AxisZoomOut})

	s.UpdateStateFromInput([]AxisInput{{Name: "pad", Axes: []float64{0.75, 0.25}}}, frame)
	if got := s.Velocities().TruckMovement; !vecNear(got, mgl64.Vec2{0.5, 0.5}) {
		t.Errorf("truck = %v, want (0.5,0.5)", got)
	}
}

func TestStickyAxisUsesChange(t *testing.T) {
	s := NewAxisCameraStates(1, instant)
	_ = s.SetAxisMapping("dial", 0, AxisMapping{Type: AxisOrbitX, Sticky: true})

	s.UpdateStateFromInput([]AxisInput{{Name: "dial", Axes: []float64{0.5}}}, frame)
	if got := s.Velocities().GlobalRotation; !vecNear(got, mgl64.Vec2{0.5, 0}) {
		t.Errorf("first frame = %v, want (0.5,0)", got)
	}

	// Unchanged axis is released; default friction stops it
	s.UpdateStateFromInput([]AxisInput{{Name: "dial", Axes: []float64{0.5}}}, frame)
	if s.HasNonZeroVelocities() {
		t.Errorf("unchanged sticky axis should stop, got %+v", s.Velocities())
	}
}

func TestAxisConfiguration(t *testing.T) {
	s := NewAxisCameraStates(1, instant)
	if err := s.SetAxisMapping("pad", MaxAxes, AxisMapping{}); err == nil {
		t.Error("expected out of range error")
	}
	_ = s.SetAxisMapping("pad", 2, AxisMapping{Type: AxisPanY})
	if err := s.SetDeadzone("pad", 2, 0.3); err != nil {
		t.Fatal(err)
	}
	if got := s.AxisMapping("pad", 2); got.Type != AxisPanY || got.Deadzone != 0.3 {
		t.Errorf("AxisMapping = %+v", got)
	}
	if got := s.AxisMapping("other", 2); got.Type != AxisNone {
		t.Errorf("unknown device mapping = %+v, want zero value", got)
	}

	// Unconfigured devices are ignored
	s.UpdateStateFromInput([]AxisInput{{Name: "other", Axes: []float64{1, 1, 1}}}, frame)
	if s.HasNonZeroVelocities() {
		t.Error("unconfigured device should not move the camera")
	}
}

func TestAxisTypeYAML(t *testing.T) {
	out, err := yaml.Marshal(AxisMapping{Type: AxisGlobalRollX, Deadzone: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "GlobalRoll X") {
		t.Errorf("marshaled = %q, want display name", out)
	}

	var m AxisMapping
	if err := yaml.Unmarshal([]byte("type: Pan Y\ninvert: true\n"), &m); err != nil {
		t.Fatal(err)
	}
	if m.Type != AxisPanY || !m.Invert {
		t.Errorf("decoded = %+v", m)
	}

	err = yaml.Unmarshal([]byte("type: Sideways\n"), &m)
	if !errors.Is(err, ErrUnknownAxisType) {
		t.Errorf("error = %v, want ErrUnknownAxisType", err)
	}
}

func TestSourcesCombineAdditively(t *testing.T) {
	mouse := NewMouseCameraStates(0.01, instant)
	mouse.UpdateStateFromInput(MouseInput{Position: mgl64.Vec2{10, 0}}, KeyboardInput{}, frame)
	mouse.UpdateStateFromInput(MouseInput{Position: mgl64.Vec2{0, 0}, Pressed: [3]bool{true}}, KeyboardInput{}, frame)

	script := NewScriptCameraStates(1, instant)
	script.AddGlobalRotation(mgl64.Vec2{0.5, 0})
	script.UpdateStateFromInput(frame)

	joystick := NewAxisCameraStates(1, instant)

	v := Combine(mouse, script, joystick)
	if !vecNear(v.GlobalRotation, mgl64.Vec2{0.6, 0}) {
		t.Errorf("combined global rotation = %v, want (0.6,0)", v.GlobalRotation)
	}
	if !AnyNonZero(joystick, script) {
		t.Error("AnyNonZero should see the script source")
	}
	if AnyNonZero(joystick) {
		t.Error("idle joystick reports motion")
	}
	if gomath.IsNaN(v.TruckMovement.Len()) {
		t.Error("unexpected NaN")
	}
}

package orbital

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/orbital-nav/internal/camera"
	"github.com/Faultbox/orbital-nav/internal/events"
	"github.com/Faultbox/orbital-nav/internal/navigation/inputstate"
	"github.com/Faultbox/orbital-nav/internal/scene"
	"github.com/Faultbox/orbital-nav/pkg/math"
)

const frameDt = 1.0 / 60

type fixture struct {
	nav    *Navigator
	cam    *camera.Camera
	graph  *scene.Graph
	events *events.Engine
}

// newFixture anchors a camera at (0,0,50) looking at Earth, a sphere of
// radius 10 at the origin. Moon is a unit sphere at (100,0,0).
func newFixture(t *testing.T, modify func(s *Settings)) *fixture {
	t.Helper()
	g := scene.NewGraph()

	earth := scene.NewNode("Earth")
	earth.SetBoundingSphere(10)
	earth.SetInteractionSphere(10)
	earth.Surface = scene.Sphere{Radius: 10}

	moon := scene.NewNode("Moon")
	moon.SetPosition(mgl64.Vec3{100, 0, 0})
	moon.SetBoundingSphere(1)
	moon.SetInteractionSphere(1)
	moon.Surface = scene.Sphere{Radius: 1}

	for _, n := range []*scene.Node{earth, moon} {
		if err := g.Add(n, ""); err != nil {
			t.Fatal(err)
		}
	}

	cam := camera.New()
	cam.LookAt(mgl64.Vec3{0, 0, 50}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})

	s := DefaultSettings()
	s.Anchor = "Earth"
	if modify != nil {
		modify(&s)
	}
	ev := events.NewEngine()
	return &fixture{nav: New(s, cam, g, ev), cam: cam, graph: g, events: ev}
}

func (f *fixture) step(frames int) {
	for i := 0; i < frames; i++ {
		f.graph.Update(frameDt)
		f.nav.UpdateStatesFromInput(inputstate.MouseInput{}, inputstate.KeyboardInput{}, nil, nil, frameDt)
		f.nav.UpdateCameraStateFromStates(frameDt)
	}
}

func noFriction(s *Settings) { s.Friction.Factor = 0 }

func TestDecomposeComposeIdentity(t *testing.T) {
	f := newFixture(t, nil)
	earth := f.graph.Lookup("Earth")

	poses := []camera.Pose{
		{Position: mgl64.Vec3{0, 0, 50}, Rotation: mgl64.QuatIdent()},
		{Position: mgl64.Vec3{30, -20, 12}, Rotation: math.QuatFromEuler(mgl64.Vec3{0.3, -1.2, 0.7})},
		{Position: mgl64.Vec3{-5, 40, -60}, Rotation: math.QuatFromEuler(mgl64.Vec3{2.1, 0.4, -2.9})},
		{Position: mgl64.Vec3{0, 11, 0}, Rotation: math.AngleAxis(1.5, mgl64.Vec3{1, 1, 0})},
	}

	for _, pose := range poses {
		d := DecomposeCameraRotationSurface(pose, earth)
		if got := ComposeCameraRotation(d); !math.QuatApproxEqual(got, pose.Rotation, 1e-6) {
			t.Errorf("surface round trip of %v = %v", pose.Rotation, got)
		}
		// The global part looks down at the surface.
		wantView := pose.Position.Normalize().Mul(-1)
		if view := math.ViewDirection(d.Global); !math.VecApproxEqual(view, wantView, 1e-9) {
			t.Errorf("global view direction = %v, want %v", view, wantView)
		}

		ref := mgl64.Vec3{100, 0, 0}
		d = DecomposeCameraRotation(pose, ref)
		if got := ComposeCameraRotation(d); !math.QuatApproxEqual(got, pose.Rotation, 1e-6) {
			t.Errorf("reference round trip of %v = %v", pose.Rotation, got)
		}
		wantView = ref.Sub(pose.Position).Normalize()
		if view := math.ViewDirection(d.Global); !math.VecApproxEqual(view, wantView, 1e-9) {
			t.Errorf("global view direction = %v, want %v", view, wantView)
		}
	}
}

func TestOrbitScenario(t *testing.T) {
	f := newFixture(t, noFriction)

	for i := 0; i < 60; i++ {
		f.nav.ScriptStates().AddGlobalRotation(mgl64.Vec2{0.1, 0})
		f.step(1)
	}

	pos := f.cam.Position()
	if d := pos.Len(); gomath.Abs(d-50) > 1e-9 {
		t.Errorf("distance to anchor = %v, want 50", d)
	}
	if gomath.Abs(pos.Y()) > 1e-9 {
		t.Errorf("position left the orbit plane: %v", pos)
	}
	if angle := gomath.Atan2(pos.X(), pos.Z()); gomath.Abs(angle-0.1) > 1e-6 {
		t.Errorf("orbited %v rad, want 0.1", angle)
	}
	view := f.cam.ViewDirectionWorldSpace()
	if a := math.Angle(view, pos.Mul(-1)); a > 1e-9 {
		t.Errorf("camera no longer faces the anchor, off by %v rad", a)
	}
}

func TestRetargetAnchorConverges(t *testing.T) {
	f := newFixture(t, nil)
	// Look 0.5 rad away from the anchor.
	f.cam.SetRotation(math.AngleAxis(0.5, mgl64.Vec3{0, 1, 0}))

	f.nav.StartRetargetAnchor()
	if !f.nav.Retargeting() {
		t.Fatal("retarget did not start")
	}

	interpolationTime := gomath.Max(0.5, 1) * f.nav.RetargetInterpolationTime()
	f.step(int(gomath.Ceil(interpolationTime/frameDt)) + 5)

	toAnchor := f.nav.Anchor().WorldPosition().Sub(f.cam.Position())
	if a := math.Angle(f.cam.ViewDirectionWorldSpace(), toAnchor); a >= 1e-3 {
		t.Errorf("view is %v rad off the anchor after retargeting", a)
	}
	if f.nav.Retargeting() {
		t.Error("retarget should be finished")
	}
}

func TestRetargetAimFallsBackToAnchor(t *testing.T) {
	f := newFixture(t, nil)
	f.cam.SetRotation(math.AngleAxis(0.5, mgl64.Vec3{0, 1, 0}))

	f.nav.StartRetargetAim()
	if !f.nav.retargetAnchor.IsInterpolating() || f.nav.retargetAim.IsInterpolating() {
		t.Error("retarget aim without an aim should retarget the anchor")
	}
}

func TestZeroInterpolationTimesSnap(t *testing.T) {
	zero := func(s *Settings) {
		s.RetargetInterpolationTime = 0
		s.StereoInterpolationTime = 0
	}
	tests := []struct {
		name  string
		start func(n *Navigator) error
	}{
		{"anchor", func(n *Navigator) error { n.StartRetargetAnchor(); return nil }},
		{"aim", func(n *Navigator) error {
			if err := n.SetAim("Moon"); err != nil {
				return err
			}
			n.StartRetargetAim()
			return nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, zero)
			if err := f.nav.Settings().Validate(); err != nil {
				t.Fatalf("zero durations should be valid: %v", err)
			}
			f.cam.SetRotation(math.AngleAxis(0.5, mgl64.Vec3{0, 1, 0}))
			if err := tt.start(f.nav); err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 3; i++ {
				f.step(1)
				f.nav.UpdateCameraScalingFromAnchor(frameDt)
			}

			r := f.cam.Rotation()
			for _, c := range []float64{r.W, r.V[0], r.V[1], r.V[2], f.cam.Scaling()} {
				if gomath.IsNaN(c) || gomath.IsInf(c, 0) {
					t.Fatalf("rotation %v scaling %v not finite", r, f.cam.Scaling())
				}
			}
			if f.nav.Retargeting() {
				t.Error("a zero duration retarget should finish at once")
			}
		})
	}
}

func TestFrictionStopsCamera(t *testing.T) {
	f := newFixture(t, nil)

	f.nav.ScriptStates().AddGlobalRotation(mgl64.Vec2{1, 0})
	f.step(1)
	moved := f.cam.Position()
	if math.VecApproxEqual(moved, mgl64.Vec3{0, 0, 50}, 1e-12) {
		t.Fatal("input did not move the camera")
	}

	f.step(1000)
	if f.nav.ScriptStates().HasNonZeroVelocities() {
		t.Error("velocities should have decayed to zero")
	}
	before := f.cam.Position()
	f.step(1)
	if d := f.cam.Position().Sub(before).Len(); d > 1e-9 {
		t.Errorf("camera still moving by %v per frame", d)
	}
}

func TestPushToSurface(t *testing.T) {
	f := newFixture(t, nil)
	earth := f.graph.Lookup("Earth")
	const minHeight = 10.0

	tests := []struct {
		name string
		pos  mgl64.Vec3
		want mgl64.Vec3
	}{
		{"far away is unchanged", mgl64.Vec3{0, 0, 100}, mgl64.Vec3{0, 0, 100}},
		{"exactly at the floor", mgl64.Vec3{0, 20, 0}, mgl64.Vec3{0, 20, 0}},
		{"too close", mgl64.Vec3{15, 0, 0}, mgl64.Vec3{20, 0, 0}},
		{"below the surface", mgl64.Vec3{0, -5, 0}, mgl64.Vec3{0, -20, 0}},
		{"at the center", mgl64.Vec3{}, mgl64.Vec3{0, 0, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pushToSurface(minHeight, tt.pos, earth, surfaceHandle(earth, tt.pos))
			if !math.VecApproxEqual(got, tt.want, 1e-9) {
				t.Errorf("pushToSurface(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestMinimumDistanceFloor(t *testing.T) {
	f := newFixture(t, noFriction)
	floor := 10 + f.nav.Settings().MinimumAllowedDistance

	for i := 0; i < 120; i++ {
		// Trucks well past the center in a single frame.
		f.nav.ScriptStates().AddTruckMovement(mgl64.Vec2{0, 100})
		f.step(1)
		if d := f.cam.Position().Len(); d < floor-1e-9 {
			t.Fatalf("frame %d: distance %v below the floor %v", i, d, floor)
		}
	}
}

func TestFollowAimSkipsTinyDisplacement(t *testing.T) {
	f := newFixture(t, nil)
	pose := camera.Pose{
		Position: mgl64.Vec3{0, 0, 50},
		Rotation: math.QuatFromEuler(mgl64.Vec3{0.1, 0.2, 0.3}),
	}
	anchorToAim := displacement{
		previous: mgl64.Vec3{100, 0, 0},
		current:  mgl64.Vec3{1e-3, 0, 0},
	}

	got := f.nav.followAim(pose, mgl64.Vec3{}, mgl64.Vec3{0, 0, -50}, anchorToAim)
	if got != pose {
		t.Errorf("followAim() = %+v, want unchanged %+v", got, pose)
	}
}

func TestFollowAimKeepsAimOnScreen(t *testing.T) {
	f := newFixture(t, nil)
	camPos := mgl64.Vec3{0, 30, 40}
	pose := camera.Pose{
		Position: camPos,
		Rotation: math.LookAtQuaternion(camPos, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}),
	}
	const theta = 0.1
	anchorToAim := displacement{
		previous: mgl64.Vec3{100, 0, 0},
		current:  mgl64.Vec3{100 * gomath.Cos(theta), 100 * gomath.Sin(theta), 0},
	}

	got := f.nav.followAim(pose, mgl64.Vec3{}, camPos.Mul(-1), anchorToAim)

	before := math.RotateInverse(anchorToAim.previous.Sub(pose.Position), pose.Rotation).Normalize()
	after := math.RotateInverse(anchorToAim.current.Sub(got.Position), got.Rotation).Normalize()
	if !math.VecApproxEqual(after, before, 1e-9) {
		t.Errorf("aim moved on screen: %v -> %v", before, after)
	}
	if d := got.Position.Len(); gomath.Abs(d-50) > 1e-9 {
		t.Errorf("distance to anchor = %v, want 50", d)
	}
}

func TestFollowAnchorRotation(t *testing.T) {
	f := newFixture(t, nil)
	earth := f.graph.Node("Earth")
	earth.SpinAxis = mgl64.Vec3{0, 0, 1}
	earth.SpinRate = 0.5

	f.cam.LookAt(mgl64.Vec3{0, 30, 0}, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1})
	f.nav.ResetNodeMovements()
	startRot := f.cam.Rotation()

	f.step(120)

	if !f.nav.FollowingAnchorRotation() {
		t.Fatal("camera within the follow distance should follow the rotation")
	}
	inv := earth.WorldRotation().Inverse()
	if local := inv.Rotate(f.cam.Position()); !math.VecApproxEqual(local, mgl64.Vec3{0, 30, 0}, 1e-6) {
		t.Errorf("camera position in the anchor frame drifted to %v", local)
	}
	if !math.QuatApproxEqual(inv.Mul(f.cam.Rotation()), startRot, 1e-6) {
		t.Error("camera rotation in the anchor frame drifted")
	}
}

func TestFollowMovingAnchor(t *testing.T) {
	f := newFixture(t, nil)
	earth := f.graph.Node("Earth")
	earth.Velocity = mgl64.Vec3{10, -5, 0}

	f.step(90)

	offset := f.cam.Position().Sub(earth.WorldPosition())
	if !math.VecApproxEqual(offset, mgl64.Vec3{0, 0, 50}, 1e-9) {
		t.Errorf("camera offset from the anchor = %v, want (0,0,50)", offset)
	}
}

func TestShouldFollowAnchorRotation(t *testing.T) {
	tests := []struct {
		name   string
		follow bool
		pos    mgl64.Vec3
		want   bool
	}{
		{"inside the follow distance", true, mgl64.Vec3{0, 0, 30}, true},
		{"outside the follow distance", true, mgl64.Vec3{0, 0, 60}, false},
		{"following disabled", false, mgl64.Vec3{0, 0, 30}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(s *Settings) { s.FollowAnchorNodeRotation = tt.follow })
			if got := f.nav.ShouldFollowAnchorRotation(tt.pos); got != tt.want {
				t.Errorf("ShouldFollowAnchorRotation(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestFollowRotationFadesOutWhenFar(t *testing.T) {
	f := newFixture(t, nil)
	f.cam.SetPosition(mgl64.Vec3{0, 0, 1000})

	f.nav.ResetVelocities()
	f.step(10)
	if f.nav.FollowingAnchorRotation() {
		t.Error("camera far from the anchor should not follow its rotation")
	}

	f = newFixture(t, nil)
	if err := f.nav.SetAim("Moon"); err != nil {
		t.Fatal(err)
	}
	if f.nav.FollowingAnchorRotation() {
		t.Error("following is reported off while aiming at another object")
	}
}

func TestMissingAnchorIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	f.nav.ScriptStates().AddGlobalRotation(mgl64.Vec2{1, 0})

	if err := f.graph.Remove("Earth"); err != nil {
		t.Fatal(err)
	}
	before := f.cam.Pose()
	f.step(5)

	if f.cam.Pose() != before {
		t.Errorf("camera moved without an anchor: %+v", f.cam.Pose())
	}
	if f.nav.Anchor() != nil || f.nav.AnchorIdentifier() != "Earth" {
		t.Error("anchor should be unresolved but remembered")
	}
}

func TestSetAnchorPublishesEvents(t *testing.T) {
	f := newFixture(t, nil)

	pending := f.events.Pending()
	if len(pending) != 1 || pending[0] != (events.AnchorChanged{Previous: "", Current: "Earth"}) {
		t.Fatalf("events after New = %v", pending)
	}
	f.events.Process()

	if err := f.nav.SetAnchor("Moon"); err != nil {
		t.Fatal(err)
	}
	if pending := f.events.Pending(); len(pending) != 1 ||
		pending[0] != (events.AnchorChanged{Previous: "Earth", Current: "Moon"}) {
		t.Errorf("events = %v", pending)
	}
	f.events.Process()

	err := f.nav.SetAnchor("Pluto")
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("SetAnchor(Pluto) error = %v, want ErrNodeNotFound", err)
	}
	if f.nav.AnchorIdentifier() != "Moon" || len(f.events.Pending()) != 0 {
		t.Error("failed SetAnchor must not change the anchor or publish")
	}
}

func TestSetFocusClearsAim(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.nav.SetAim("Moon"); err != nil {
		t.Fatal(err)
	}
	if f.nav.Aim() == nil {
		t.Fatal("aim not set")
	}

	if err := f.nav.SetFocus("Earth"); err != nil {
		t.Fatal(err)
	}
	if f.nav.Aim() != nil || f.nav.AimIdentifier() != "" {
		t.Error("SetFocus should clear the aim")
	}
	if err := f.nav.SetAim("Nowhere"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("SetAim(Nowhere) error = %v", err)
	}
}

func TestClearPreviousState(t *testing.T) {
	f := newFixture(t, nil)
	f.nav.ClearPreviousState()

	// Without cached positions the anchor's motion is not applied.
	f.graph.Node("Earth").SetPosition(mgl64.Vec3{5, 0, 0})
	f.nav.UpdateCameraStateFromStates(frameDt)
	if !math.VecApproxEqual(f.cam.Position(), mgl64.Vec3{0, 0, 50}, 1e-9) {
		t.Errorf("position after clearing = %v, want (0,0,50)", f.cam.Position())
	}

	// Resetting node movements swallows the next displacement too.
	f.graph.Node("Earth").SetPosition(mgl64.Vec3{0, 0, 0})
	f.nav.ResetNodeMovements()
	before := f.cam.Position()
	f.nav.UpdateCameraStateFromStates(frameDt)
	if !math.VecApproxEqual(f.cam.Position(), before, 1e-9) {
		t.Errorf("position = %v, want %v", f.cam.Position(), before)
	}
}

func TestLinearFlight(t *testing.T) {
	tests := []struct {
		name  string
		start mgl64.Vec3
	}{
		{"towards the anchor", mgl64.Vec3{0, 0, 1000}},
		{"away from the anchor", mgl64.Vec3{0, 0, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(s *Settings) { s.LinearFlight.DestinationDistance = 100 })
			f.cam.LookAt(tt.start, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})

			f.nav.SetLinearFlight(true)
			f.step(1200)

			if f.nav.LinearFlightActive() {
				t.Fatal("flight did not arrive")
			}
			dist := f.cam.Position().Len() - 10
			if gomath.Abs(dist-100) > 100*1e-4+1e-9 {
				t.Errorf("distance to surface = %v, want 100", dist)
			}
		})
	}
}

func TestIdleBehavior(t *testing.T) {
	tests := []struct {
		kind  IdleBehaviorKind
		check func(t *testing.T, pos mgl64.Vec3)
	}{
		{IdleOrbit, func(t *testing.T, pos mgl64.Vec3) {
			if gomath.Abs(pos.Y()) > 1e-9 {
				t.Errorf("orbit left the horizontal plane: %v", pos)
			}
		}},
		{IdleOrbitAroundUp, func(t *testing.T, pos mgl64.Vec3) {
			if gomath.Abs(pos.Y()) > 1e-9 {
				t.Errorf("orbit around up changed latitude: %v", pos)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			f := newFixture(t, func(s *Settings) { s.IdleBehavior.Kind = tt.kind })

			f.nav.ApplyIdleBehavior(true)
			f.step(120)

			pos := f.cam.Position()
			if math.VecApproxEqual(pos, mgl64.Vec3{0, 0, 50}, 1e-6) {
				t.Fatal("idle behavior did not move the camera")
			}
			if d := pos.Len(); gomath.Abs(d-50) > 1e-9 {
				t.Errorf("distance to anchor = %v, want 50", d)
			}
			tt.check(t, pos)
		})
	}
}

func TestIdleBehaviorAbortsOnInteraction(t *testing.T) {
	f := newFixture(t, noFriction)
	if err := f.nav.TriggerIdleBehavior(""); err != nil {
		t.Fatal(err)
	}
	f.step(60)
	if !f.nav.IdleBehaviorActive() {
		t.Fatal("idle behavior should be active")
	}

	f.nav.ScriptStates().AddLocalRoll(mgl64.Vec2{0.1, 0})
	f.step(1)
	if f.nav.IdleBehaviorActive() {
		t.Fatal("input should abort the idle behavior")
	}

	// Without input the camera stops right away.
	f.step(1)
	before := f.cam.Position()
	f.step(1)
	if d := f.cam.Position().Sub(before).Len(); d > 1e-9 {
		t.Errorf("camera kept moving by %v after abort", d)
	}
}

func TestTriggerIdleBehavior(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.nav.TriggerIdleBehavior("Spin"); !errors.Is(err, ErrUnknownIdleBehavior) {
		t.Errorf("error = %v, want ErrUnknownIdleBehavior", err)
	}
	if err := f.nav.TriggerIdleBehavior("OrbitAroundUp"); err != nil {
		t.Fatal(err)
	}
	if f.nav.Settings().IdleBehavior.Kind != IdleOrbitAroundUp || !f.nav.IdleBehaviorActive() {
		t.Error("trigger should select and start the behavior")
	}

	f = newFixture(t, func(s *Settings) { s.Anchor = "" })
	if err := f.nav.TriggerIdleBehavior(""); !errors.Is(err, ErrNoAnchor) {
		t.Errorf("error = %v, want ErrNoAnchor", err)
	}
}

func TestUnknownIdleBehaviorPanics(t *testing.T) {
	f := newFixture(t, func(s *Settings) { s.IdleBehavior.Kind = IdleBehaviorKind(42) })
	f.nav.ApplyIdleBehavior(true)

	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an unknown idle behavior")
		}
	}()
	f.nav.UpdateCameraStateFromStates(frameDt)
}

func TestCameraScaling(t *testing.T) {
	f := newFixture(t, nil)
	f.nav.UpdateCameraScalingFromAnchor(frameDt)
	// The first anchor sets the distance directly.
	if got, want := f.cam.Scaling(), 21500.0/40; gomath.Abs(got-want) > 1e-9 {
		t.Errorf("scaling = %v, want %v", got, want)
	}

	// After a retarget the distance is interpolated.
	f.nav.StartRetargetAnchor()
	f.cam.SetPosition(mgl64.Vec3{0, 0, 110})
	f.nav.UpdateCameraScalingFromAnchor(frameDt)
	f.nav.UpdateCameraScalingFromAnchor(frameDt)
	mid := f.cam.Scaling()
	if mid >= 21500.0/40 || mid <= 21500.0/100 {
		t.Errorf("scaling = %v, want between the old and new value", mid)
	}
	for i := 0; i < 500; i++ {
		f.nav.UpdateCameraScalingFromAnchor(frameDt)
	}
	if got, want := f.cam.Scaling(), 21500.0/100; gomath.Abs(got-want) > 1e-9 {
		t.Errorf("scaling = %v, want %v", got, want)
	}

	f = newFixture(t, func(s *Settings) {
		s.UseAdaptiveStereoscopicDepth = false
		s.StaticViewScaleExponent = 2
	})
	f.nav.UpdateCameraScalingFromAnchor(frameDt)
	if got := f.cam.Scaling(); gomath.Abs(got-100) > 1e-9 {
		t.Errorf("static scaling = %v, want 100", got)
	}
}

func TestCameraScalingUsesNearerAim(t *testing.T) {
	tests := []struct {
		name string
		aim  string
		want float64
	}{
		{"no aim", "", 21500.0 / 40},
		// Aim on the anchor: the center is farther than the surface.
		{"aim is anchor", "Earth", 21500.0 / 40},
		{"aim nearer than surface", "Moon", 21500.0 / 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.graph.Node("Moon").SetPosition(mgl64.Vec3{0, 0, 70})
			if err := f.nav.SetAim(tt.aim); err != nil {
				t.Fatal(err)
			}
			f.nav.UpdateCameraScalingFromAnchor(frameDt)
			if got := f.cam.Scaling(); gomath.Abs(got-tt.want) > 1e-9 {
				t.Errorf("scaling = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateSettingsAppliesToInput(t *testing.T) {
	f := newFixture(t, nil)
	s := f.nav.Settings()
	s.MouseSensitivity = 20
	s.JoystickSensitivity = 30
	s.WebsocketSensitivity = 2
	f.nav.UpdateSettings(s)

	if got := f.nav.MouseStates().Sensitivity(); gomath.Abs(got-20e-4) > 1e-15 {
		t.Errorf("mouse sensitivity = %v", got)
	}
	if got := f.nav.JoystickStates().Sensitivity(); gomath.Abs(got-3) > 1e-12 {
		t.Errorf("joystick sensitivity = %v", got)
	}
	if got := f.nav.WebsocketStates().Sensitivity(); got != 2 {
		t.Errorf("websocket sensitivity = %v", got)
	}
}

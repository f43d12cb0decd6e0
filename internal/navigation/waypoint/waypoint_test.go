package waypoint

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/orbital-nav/internal/camera"
	"github.com/Faultbox/orbital-nav/internal/scene"
	"github.com/Faultbox/orbital-nav/pkg/math"
)

func buildGraph(t *testing.T) *scene.Graph {
	t.Helper()
	g := scene.NewGraph()

	barycenter := scene.NewNode("Barycenter")
	if err := g.Add(barycenter, ""); err != nil {
		t.Fatal(err)
	}
	tiny := scene.NewNode("Tiny")
	tiny.SetBoundingSphere(1)
	planet := scene.NewNode("Planet")
	planet.SetBoundingSphere(100)
	for _, n := range []*scene.Node{tiny, planet} {
		if err := g.Add(n, "Barycenter"); err != nil {
			t.Fatal(err)
		}
	}
	// Grandchildren are never considered
	deep := scene.NewNode("Deep")
	deep.SetBoundingSphere(500)
	if err := g.Add(deep, "Tiny"); err != nil {
		t.Fatal(err)
	}

	marker := scene.NewNode("Marker")
	marker.SetPosition(mgl64.Vec3{1000, 0, 0})
	if err := g.Add(marker, ""); err != nil {
		t.Fatal(err)
	}
	small := scene.NewNode("SmallChild")
	small.SetBoundingSphere(5)
	if err := g.Add(small, "Marker"); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestFindValidBoundingSphere(t *testing.T) {
	g := buildGraph(t)

	tests := []struct {
		name string
		node string
		want float64
	}{
		{"own sphere is valid", "Planet", 100},
		{"falls back to direct child", "Barycenter", 100},
		{"all children too small", "Marker", 10},
		{"leaf below threshold", "SmallChild", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindValidBoundingSphere(g.Node(tt.node), 10); got != tt.want {
				t.Errorf("FindValidBoundingSphere(%s) = %v, want %v", tt.node, got, tt.want)
			}
		})
	}
}

func TestNewWaypoint(t *testing.T) {
	g := buildGraph(t)
	pose := camera.Pose{Position: mgl64.Vec3{0, 0, 300}, Rotation: mgl64.QuatIdent()}

	w, err := New(pose, "Barycenter", g, DefaultMinValidBoundingSphere)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if w.ValidBoundingSphere() != 100 {
		t.Errorf("ValidBoundingSphere = %v, want 100", w.ValidBoundingSphere())
	}
	if w.NodeIdentifier() != "Barycenter" || w.Node(g) != g.Node("Barycenter") {
		t.Error("waypoint should reference Barycenter")
	}
	if w.Position() != pose.Position || w.Rotation() != pose.Rotation {
		t.Errorf("pose = %+v, want %+v", w.Pose(), pose)
	}

	_, err = New(pose, "Nowhere", g, DefaultMinValidBoundingSphere)
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("error = %v, want ErrNodeNotFound", err)
	}
}

func TestNavigationStateCameraPose(t *testing.T) {
	g := buildGraph(t)

	ns := NavigationState{Anchor: "Marker", Position: mgl64.Vec3{0, 0, 50}}
	pose, err := ns.CameraPose(g)
	if err != nil {
		t.Fatalf("CameraPose() error = %v", err)
	}
	if !math.VecApproxEqual(pose.Position, mgl64.Vec3{1000, 0, 50}, 1e-9) {
		t.Errorf("position = %v, want (1000,0,50)", pose.Position)
	}
	if dir := math.ViewDirection(pose.Rotation); !math.VecApproxEqual(dir, mgl64.Vec3{0, 0, -1}, 1e-9) {
		t.Errorf("view direction = %v, want towards the anchor", dir)
	}

	// Yaw turns the view to the right
	ns.Yaw = gomath.Pi / 2
	pose, _ = ns.CameraPose(g)
	if dir := math.ViewDirection(pose.Rotation); !math.VecApproxEqual(dir, mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("view direction with yaw = %v, want (1,0,0)", dir)
	}

	// Pitch tilts the view up
	ns.Yaw = 0
	ns.Pitch = gomath.Pi / 2
	pose, _ = ns.CameraPose(g)
	if dir := math.ViewDirection(pose.Rotation); !math.VecApproxEqual(dir, mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("view direction with pitch = %v, want (0,1,0)", dir)
	}
}

func TestNavigationStateReferenceFrame(t *testing.T) {
	g := buildGraph(t)
	g.Node("Planet").SetRotation(mgl64.QuatRotate(gomath.Pi/2, mgl64.Vec3{0, 0, 1}))

	ns := NavigationState{
		Anchor:         "Barycenter",
		ReferenceFrame: "Planet",
		Position:       mgl64.Vec3{50, 0, 0},
	}
	pose, err := ns.CameraPose(g)
	if err != nil {
		t.Fatal(err)
	}
	if !math.VecApproxEqual(pose.Position, mgl64.Vec3{0, 50, 0}, 1e-9) {
		t.Errorf("position = %v, want (0,50,0)", pose.Position)
	}

	ns.ReferenceFrame = "Missing"
	if _, err := ns.CameraPose(g); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("error = %v, want ErrNodeNotFound", err)
	}
}

func TestFromNavigationState(t *testing.T) {
	g := buildGraph(t)
	w, err := FromNavigationState(NavigationState{Anchor: "Planet", Position: mgl64.Vec3{0, 0, 400}}, g, 10)
	if err != nil {
		t.Fatal(err)
	}
	if w.NodeIdentifier() != "Planet" || w.ValidBoundingSphere() != 100 {
		t.Errorf("waypoint = %+v", w)
	}

	if _, err := FromNavigationState(NavigationState{Anchor: "Missing"}, g, 10); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("error = %v, want ErrNodeNotFound", err)
	}
}

func TestStateFromPoseRoundTrip(t *testing.T) {
	g := buildGraph(t)
	g.Node("Planet").SetRotation(mgl64.QuatRotate(gomath.Pi/2, mgl64.Vec3{0, 0, 1}))

	up := mgl64.Vec3{0, 1, 0}
	want := NavigationState{
		Anchor:         "Marker",
		ReferenceFrame: "Planet",
		Position:       mgl64.Vec3{30, 0, 40},
		Up:             &up,
		Yaw:            0.3,
		Pitch:          0.2,
	}
	pose, err := want.CameraPose(g)
	if err != nil {
		t.Fatal(err)
	}

	got, err := StateFromPose(pose, "Marker", "", "Planet", g)
	if err != nil {
		t.Fatalf("StateFromPose() error = %v", err)
	}
	if !math.VecApproxEqual(got.Position, want.Position, 1e-9) {
		t.Errorf("position = %v, want %v", got.Position, want.Position)
	}
	if got.Up == nil || !math.VecApproxEqual(*got.Up, up, 1e-9) {
		t.Errorf("up = %v, want %v", got.Up, up)
	}
	if gomath.Abs(got.Yaw-want.Yaw) > 1e-9 || gomath.Abs(got.Pitch-want.Pitch) > 1e-9 {
		t.Errorf("yaw, pitch = %v, %v, want %v, %v", got.Yaw, got.Pitch, want.Yaw, want.Pitch)
	}

	if _, err := StateFromPose(pose, "Missing", "", "", g); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("error = %v, want ErrNodeNotFound", err)
	}
}

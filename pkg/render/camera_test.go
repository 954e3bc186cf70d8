package render

import (
	"math"
	"testing"

	"github.com/taigrr/pathview/pkg/math3d"
)

func vecNear(a, b math3d.Vec3) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9 && math.Abs(a.Z-b.Z) < 1e-9
}

func TestCameraMovement(t *testing.T) {
	tests := []struct {
		name   string
		yaw    float64
		in     Intents
		expect math3d.Vec3
	}{
		{"forward", 0, Intents{Forward: true}, math3d.V3(0.25, 0, 0)},
		{"back", 0, Intents{Back: true}, math3d.V3(-0.25, 0, 0)},
		{"right", 0, Intents{Right: true}, math3d.V3(0, 0.25, 0)},
		{"left", 0, Intents{Left: true}, math3d.V3(0, -0.25, 0)},
		{"up", 0, Intents{Up: true}, math3d.V3(0, 0, 0.25)},
		{"down", 0, Intents{Down: true}, math3d.V3(0, 0, -0.25)},
		{"forward rotated", math.Pi / 2, Intents{Forward: true}, math3d.V3(0, 0.25, 0)},
		{"forward and back cancel", 0, Intents{Forward: true, Back: true}, math3d.V3(0, 0, 0)},
		{"up and down cancel", 0, Intents{Up: true, Down: true}, math3d.V3(0, 0, 0)},
		{"none", 1.3, Intents{}, math3d.V3(0, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cam := Camera{Orientation: math3d.V2(tc.yaw, 0)}
			cam.Update(tc.in, 0, 0)
			if !vecNear(cam.Position, tc.expect) {
				t.Errorf("position = %v, want %v", cam.Position, tc.expect)
			}
		})
	}
}

func TestCameraForwardFourTicks(t *testing.T) {
	var cam Camera
	for range 4 {
		cam.Update(Intents{Forward: true}, 0, 0)
	}
	if !vecNear(cam.Position, math3d.V3(1, 0, 0)) {
		t.Errorf("position = %v, want (1, 0, 0)", cam.Position)
	}
}

func TestCameraMouseYaw(t *testing.T) {
	var cam Camera
	cam.Update(Intents{}, 400, 0)
	if math.Abs(cam.Yaw()-1.0) > 1e-9 {
		t.Errorf("yaw = %v, want 1.0", cam.Yaw())
	}
	if cam.Pitch() != 0 {
		t.Errorf("pitch = %v, want 0", cam.Pitch())
	}
}

func TestCameraMousePitchInverted(t *testing.T) {
	var cam Camera
	cam.Update(Intents{}, 0, 100)
	if math.Abs(cam.Pitch()+0.25) > 1e-9 {
		t.Errorf("pitch = %v, want -0.25", cam.Pitch())
	}
}

func TestCameraPitchClamp(t *testing.T) {
	deltas := []float64{-1e9, -5000, -629, -1, 0, 1, 629, 5000, 1e9, math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, dy := range deltas {
		var cam Camera
		for range 3 {
			cam.Update(Intents{}, 0, dy)
			if p := cam.Pitch(); math.IsNaN(p) || p < -MaxPitch || p > MaxPitch {
				t.Fatalf("dy=%v: pitch = %v out of range", dy, p)
			}
		}
	}

	var cam Camera
	cam.Update(Intents{}, 0, -1000)
	if cam.Pitch() != MaxPitch {
		t.Errorf("pitch = %v, want %v", cam.Pitch(), MaxPitch)
	}
}

func TestCameraDiagonalNotNormalized(t *testing.T) {
	var fwd, right, both Camera
	fwd.Update(Intents{Forward: true}, 0, 0)
	right.Update(Intents{Right: true}, 0, 0)
	both.Update(Intents{Forward: true, Right: true}, 0, 0)

	sum := fwd.Position.Add(right.Position)
	if !vecNear(both.Position, sum) {
		t.Errorf("diagonal = %v, want %v", both.Position, sum)
	}
	if both.Position.Len() <= MoveStep {
		t.Errorf("diagonal length = %v, want > %v", both.Position.Len(), MoveStep)
	}
}

func TestCameraBasis(t *testing.T) {
	cam := Camera{Orientation: math3d.V2(0.7, 0.3)}
	f, r, u := cam.Basis()

	for name, v := range map[string]math3d.Vec3{"forward": f, "right": r, "up": u} {
		if math.Abs(v.Len()-1) > 1e-9 {
			t.Errorf("%s length = %v, want 1", name, v.Len())
		}
	}
	if math.Abs(f.Dot(r)) > 1e-9 || math.Abs(f.Dot(u)) > 1e-9 || math.Abs(r.Dot(u)) > 1e-9 {
		t.Errorf("basis not orthogonal: %v %v %v", f, r, u)
	}
	if u.Z <= 0 {
		t.Errorf("up = %v, want positive Z", u)
	}

	// Right in the basis is the same direction a Right intent moves.
	var moved Camera
	moved.Orientation = cam.Orientation
	moved.Update(Intents{Right: true}, 0, 0)
	if !vecNear(moved.Position, r.Scale(MoveStep)) {
		t.Errorf("strafe = %v, want %v", moved.Position, r.Scale(MoveStep))
	}
}

func TestIntents(t *testing.T) {
	var in Intents
	if in.Any() {
		t.Fatal("zero intents report active")
	}
	for i := IntentForward; i <= IntentDown; i++ {
		in.Press(i)
		if !in.Any() {
			t.Errorf("%v: press not recorded", i)
		}
		in.Release(i)
		if in.Any() {
			t.Errorf("%v: release not recorded", i)
		}
	}
	in.Press(IntentLeft)
	in.Press(IntentUp)
	in.Clear()
	if in.Any() {
		t.Error("clear left intents active")
	}
}

package render

import (
	"math"

	"github.com/taigrr/pathview/pkg/math3d"
)

const (
	// MoveStep is the distance travelled per tick for each active intent.
	MoveStep = 0.25

	// MouseSensitivity converts one unit of mouse motion into radians.
	MouseSensitivity = 0.0025

	// MaxPitch bounds the camera pitch on both sides.
	MaxPitch = math.Pi / 2
)

// Camera is the first-person viewpoint: a world position and an orientation
// whose X component is yaw and Y component is pitch. The zero value sits at
// the origin looking down +X.
type Camera struct {
	Position    math3d.Vec3
	Orientation math3d.Vec2
}

// Yaw returns the rotation around the world Z axis in radians.
func (c *Camera) Yaw() float64 { return c.Orientation.X }

// Pitch returns the elevation angle in radians, always within ±MaxPitch.
func (c *Camera) Pitch() float64 { return c.Orientation.Y }

// Update applies one tick of movement intents and mouse motion.
//
// Every active direction contributes a full MoveStep and the contributions
// are summed, so diagonal motion covers more ground than a single direction.
// Horizontal motion follows yaw only; up and down move along world Z.
func (c *Camera) Update(in Intents, dx, dy float64) {
	yaw := c.Orientation.X
	ahead := math3d.V2FromAngle(yaw)
	side := math3d.V2FromAngle(yaw + math.Pi/2)

	var move math3d.Vec3
	if in.Forward {
		move = move.Add(math3d.V3(ahead.X, ahead.Y, 0))
	}
	if in.Back {
		move = move.Sub(math3d.V3(ahead.X, ahead.Y, 0))
	}
	if in.Left {
		move = move.Sub(math3d.V3(side.X, side.Y, 0))
	}
	if in.Right {
		move = move.Add(math3d.V3(side.X, side.Y, 0))
	}
	if in.Up {
		move = move.Add(math3d.Up())
	}
	if in.Down {
		move = move.Sub(math3d.Up())
	}
	c.Position = c.Position.Add(move.Scale(MoveStep))

	if math.IsNaN(dx) || math.IsInf(dx, 0) {
		dx = 0
	}
	if math.IsNaN(dy) || math.IsInf(dy, 0) {
		dy = 0
	}
	c.Orientation = c.Orientation.Add(math3d.V2(dx, -dy).Scale(MouseSensitivity))
	c.Orientation.Y = clampPitch(c.Orientation.Y)
}

func clampPitch(p float64) float64 {
	if p < -MaxPitch {
		return -MaxPitch
	}
	if p > MaxPitch {
		return MaxPitch
	}
	return p
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3FromAngles(c.Orientation.X, c.Orientation.Y)
}

// Basis returns the orthonormal view frame (forward, right, up). Right is
// the strafe direction of Intents.Right and stays horizontal, so looking
// straight up or down still yields a usable frame.
func (c *Camera) Basis() (forward, right, up math3d.Vec3) {
	forward = c.Forward()
	side := math3d.V2FromAngle(c.Orientation.X + math.Pi/2)
	right = math3d.V3(side.X, side.Y, 0)
	up = forward.Cross(right)
	return forward, right, up
}

// Reset returns the camera to the origin with a level view.
func (c *Camera) Reset() {
	*c = Camera{}
}

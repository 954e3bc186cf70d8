package trace

import (
	"math"

	"github.com/taigrr/pathview/pkg/math3d"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns a box that contains nothing and grows to fit whatever
// is united with it.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{Min: math3d.V3(inf, inf, inf), Max: math3d.V3(-inf, -inf, -inf)}
}

// BoundPoints returns the smallest box containing all points.
func BoundPoints(points ...math3d.Vec3) AABB {
	b := EmptyAABB()
	for _, p := range points {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Union returns a box bounding both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// LongestAxis returns 0, 1 or 2 for X, Y or Z.
func (b AABB) LongestAxis() int {
	s := b.Size()
	switch {
	case s.X >= s.Y && s.X >= s.Z:
		return 0
	case s.Y >= s.Z:
		return 1
	}
	return 2
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Hit reports whether the ray passes through the box within [tMin, tMax]
// using the slab method. invDir is the component-wise reciprocal of the ray
// direction; infinities from zero components are handled.
func (b AABB) Hit(origin, invDir math3d.Vec3, tMin, tMax float64) bool {
	for axis := range 3 {
		var lo, hi, o, inv float64
		switch axis {
		case 0:
			lo, hi, o, inv = b.Min.X, b.Max.X, origin.X, invDir.X
		case 1:
			lo, hi, o, inv = b.Min.Y, b.Max.Y, origin.Y, invDir.Y
		default:
			lo, hi, o, inv = b.Min.Z, b.Max.Z, origin.Z, invDir.Z
		}

		t0 := (lo - o) * inv
		t1 := (hi - o) * inv
		if math.IsNaN(t0) || math.IsNaN(t1) {
			// Parallel ray starting exactly on a slab plane.
			if o < lo || o > hi {
				return false
			}
			continue
		}
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		if tMax < tMin {
			return false
		}
	}
	return true
}

func axisOf(v math3d.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func reciprocal(d math3d.Vec3) math3d.Vec3 {
	return math3d.V3(1/d.X, 1/d.Y, 1/d.Z)
}

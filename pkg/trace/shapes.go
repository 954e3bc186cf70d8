package trace

import (
	"math"

	"github.com/taigrr/pathview/pkg/math3d"
)

// Shape is anything a ray can hit.
type Shape interface {
	// Intersect reports whether r hits the shape with t in (tMin, tMax) and
	// fills h when it does.
	Intersect(r Ray, tMin, tMax float64, h *Hit) bool
}

// Sphere is a ball of the given radius.
type Sphere struct {
	Center   math3d.Vec3
	Radius   float64
	Material *Material
}

// Intersect implements Shape.
func (s *Sphere) Intersect(r Ray, tMin, tMax float64, h *Hit) bool {
	oc := r.Origin.Sub(s.Center)
	a := r.Dir.LenSq()
	halfB := oc.Dot(r.Dir)
	c := oc.LenSq() - s.Radius*s.Radius

	disc := halfB*halfB - a*c
	if disc < 0 {
		return false
	}
	sqrtD := math.Sqrt(disc)

	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return false
		}
	}

	h.T = root
	h.Point = r.At(root)
	h.setFaceNormal(r, h.Point.Sub(s.Center).Scale(1/s.Radius))
	h.Material = s.Material
	return true
}

// Bounds returns the sphere's bounding box.
func (s *Sphere) Bounds() AABB {
	r := math3d.V3(s.Radius, s.Radius, s.Radius)
	return NewAABB(s.Center.Sub(r), s.Center.Add(r))
}

// Plane is an infinite plane through Point with the given Normal.
type Plane struct {
	Point    math3d.Vec3
	Normal   math3d.Vec3
	Material *Material
}

// Intersect implements Shape.
func (p *Plane) Intersect(r Ray, tMin, tMax float64, h *Hit) bool {
	n := p.Normal.Normalize()
	denom := n.Dot(r.Dir)
	if math.Abs(denom) < 1e-9 {
		return false
	}
	t := p.Point.Sub(r.Origin).Dot(n) / denom
	if t <= tMin || t >= tMax {
		return false
	}

	h.T = t
	h.Point = r.At(t)
	h.setFaceNormal(r, n)
	h.Material = p.Material
	return true
}

// Triangle is a single triangle with an optional per-vertex normal set for
// smooth shading.
type Triangle struct {
	V0, V1, V2 math3d.Vec3
	N0, N1, N2 math3d.Vec3 // zero when flat shaded
	Material   *Material
}

// Intersect implements Shape using the Möller-Trumbore algorithm.
func (tr *Triangle) Intersect(r Ray, tMin, tMax float64, h *Hit) bool {
	const eps = 1e-12

	e1 := tr.V1.Sub(tr.V0)
	e2 := tr.V2.Sub(tr.V0)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if det > -eps && det < eps {
		return false
	}
	inv := 1 / det

	s := r.Origin.Sub(tr.V0)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return false
	}
	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return false
	}
	t := e2.Dot(q) * inv
	if t <= tMin || t >= tMax {
		return false
	}

	geometric := e1.Cross(e2).Normalize()
	normal := geometric
	if tr.N0 != (math3d.Vec3{}) {
		normal = tr.N0.Scale(1 - u - v).Add(tr.N1.Scale(u)).Add(tr.N2.Scale(v)).Normalize()
		if normal.Dot(geometric) < 0 {
			normal = normal.Negate()
		}
	}

	h.T = t
	h.Point = r.At(t)
	h.setFaceNormal(r, normal)
	h.Material = tr.Material
	return true
}

// Bounds returns the triangle's bounding box.
func (tr *Triangle) Bounds() AABB {
	return BoundPoints(tr.V0, tr.V1, tr.V2)
}

func (tr *Triangle) centroid() math3d.Vec3 {
	return tr.V0.Add(tr.V1).Add(tr.V2).Scale(1.0 / 3)
}

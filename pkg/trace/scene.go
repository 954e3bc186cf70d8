package trace

import (
	"math"

	"github.com/taigrr/pathview/pkg/math3d"
)

// Scene is the set of shapes a kernel traces against.
type Scene struct {
	Shapes []Shape
	Sky    Sky
}

// Add appends shapes to the scene.
func (s *Scene) Add(shapes ...Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// Intersect finds the closest hit along r beyond tMin.
func (s *Scene) Intersect(r Ray, tMin float64, h *Hit) bool {
	hit := false
	closest := math.Inf(1)
	for _, shape := range s.Shapes {
		if shape.Intersect(r, tMin, closest, h) {
			hit = true
			closest = h.T
		}
	}
	return hit
}

// background returns the sky radiance, black without a sky.
func (s *Scene) background(dir math3d.Vec3) math3d.Vec3 {
	if s.Sky == nil {
		return math3d.Vec3{}
	}
	return s.Sky.Radiance(dir)
}

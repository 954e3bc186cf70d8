// Package trace is pathview's CPU path tracer. Its Kernel renders one
// jittered sample per pixel per call and folds it into the running average
// held by the accumulation surfaces; its Tonemapper turns the average into
// displayable pixels.
package trace

import (
	"github.com/taigrr/pathview/pkg/math3d"
)

// epsilon offsets secondary rays from the surface they leave.
const epsilon = 1e-4

// Ray is a half-line starting at Origin. Dir need not be unit length.
type Ray struct {
	Origin math3d.Vec3
	Dir    math3d.Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// Hit describes the closest intersection found so far.
type Hit struct {
	T         float64
	Point     math3d.Vec3
	Normal    math3d.Vec3 // faces against the incoming ray
	FrontFace bool        // the ray hit the outward side
	Material  *Material
}

// setFaceNormal orients the outward normal against the ray.
func (h *Hit) setFaceNormal(r Ray, outward math3d.Vec3) {
	h.FrontFace = r.Dir.Dot(outward) < 0
	if h.FrontFace {
		h.Normal = outward
	} else {
		h.Normal = outward.Negate()
	}
}

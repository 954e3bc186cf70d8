package render

import (
	"context"

	"github.com/taigrr/pathview/pkg/math3d"
)

// KernelUniforms are the per-tick inputs of the render kernel.
type KernelUniforms struct {
	Resolution [2]int      // surface width and height in pixels
	Position   math3d.Vec3 // camera position
	Direction  math3d.Vec2 // yaw, pitch
	Frames     float64     // stillness count, the accumulation weight
	Rand       float64     // uniform in [0,1), fresh each tick
}

// Kernel renders one new sample per pixel and blends it with the previous
// accumulated image.
//
// sample is the previous accumulated surface and must only be read. dst is
// the surface being produced; every pixel of it is overwritten. Both have
// the dimensions given in u.Resolution. How the new sample is weighted
// against sample is the kernel's business; Frames is supplied so it can
// keep a running average.
type Kernel interface {
	Render(ctx context.Context, u KernelUniforms, sample, dst *Surface) error
}

// PresentUniforms are the per-tick inputs of the presentation stage.
type PresentUniforms struct {
	Resolution [2]int
}

// Presenter resolves an accumulated surface into displayable pixels. It
// keeps no state between ticks.
type Presenter interface {
	Present(u PresentUniforms, sample *Surface, out *Framebuffer)
}

// KernelFunc adapts a function to the Kernel interface.
type KernelFunc func(ctx context.Context, u KernelUniforms, sample, dst *Surface) error

// Render calls f.
func (f KernelFunc) Render(ctx context.Context, u KernelUniforms, sample, dst *Surface) error {
	return f(ctx, u, sample, dst)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(u PresentUniforms, sample *Surface, out *Framebuffer)

// Present calls f.
func (f PresenterFunc) Present(u PresentUniforms, sample *Surface, out *Framebuffer) {
	f(u, sample, out)
}

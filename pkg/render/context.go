package render

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
)

// Options configures a Context.
type Options struct {
	Width, Height int

	// MaxSamples caps the stillness count. Once a still camera reaches it the
	// render kernel is no longer invoked and the last accumulated image is
	// presented as is. Zero means no cap.
	MaxSamples int

	// Seed feeds the per-tick random uniform.
	Seed int64

	Kernel    Kernel
	Presenter Presenter
}

// TickInput is the input snapshot for one tick.
type TickInput struct {
	Intents          Intents
	MouseDX, MouseDY float64

	// Width and Height are the current display surface size in pixels.
	Width, Height int
}

// Moved reports whether the input carries any camera motion.
func (in TickInput) Moved() bool {
	return in.Intents.Any() || in.MouseDX != 0 || in.MouseDY != 0
}

// TickResult describes what a tick did.
type TickResult struct {
	Frames    int  // stillness count used for this tick
	Moved     bool // the camera moved this tick
	Resized   bool // both surfaces were reallocated this tick
	Converged bool // the kernel was skipped because the cap was reached

	Read      *Surface // surface handed to the kernel as the previous image, nil when skipped
	Wrote     *Surface // surface the kernel wrote, nil when skipped
	Presented *Surface // surface the presentation stage resolved

	Uniforms KernelUniforms
}

// Context owns all state of the accumulation loop: the camera, the stillness
// counter, the ping-pong surfaces, both stages and the presentation
// framebuffer. It is not safe for concurrent use; Tick is meant to be called
// from a single loop.
type Context struct {
	camera    Camera
	still     *Stillness
	buffers   *PingPong
	fb        *Framebuffer
	kernel    Kernel
	presenter Presenter
	rng       *rand.Rand

	// settled is set once the kernel has written at the capped count; only
	// then may a still tick skip it.
	settled bool
}

// NewContext allocates the surfaces at the initial display size.
func NewContext(opts Options) (*Context, error) {
	if opts.Kernel == nil {
		return nil, errors.New("render: no kernel")
	}
	if opts.Presenter == nil {
		return nil, errors.New("render: no presenter")
	}

	buffers, err := NewPingPong(opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("create accumulation buffers: %w", err)
	}

	return &Context{
		still:     NewStillness(opts.MaxSamples),
		buffers:   buffers,
		fb:        NewFramebuffer(opts.Width, opts.Height),
		kernel:    opts.Kernel,
		presenter: opts.Presenter,
		rng:       rand.New(rand.NewSource(opts.Seed)),
	}, nil
}

// Tick runs one iteration: camera update, stillness update, resize check,
// accumulation pass and presentation pass.
//
// The kernel writes Buffers().Write(frames) while reading
// Buffers().Read(frames); the presenter then resolves the surface just
// written. A resize reallocates both surfaces and restarts the count at 1 so
// the kernel never blends with the discarded image.
func (c *Context) Tick(ctx context.Context, in TickInput) (TickResult, error) {
	moved := in.Moved()
	res := TickResult{Moved: moved}

	c.camera.Update(in.Intents, in.MouseDX, in.MouseDY)

	held := c.settled
	frames := c.still.Observe(moved)

	width, height := in.Width, in.Height
	if width == 0 && height == 0 {
		width, height = c.buffers.Size()
	}
	resized, err := c.buffers.Resize(width, height)
	if err != nil {
		return res, fmt.Errorf("resize accumulation buffers: %w", err)
	}
	if resized {
		c.still.Reset()
		frames = c.still.Frames()
		c.fb.Resize(width, height)
		Logger().Debug("surfaces reallocated", "width", width, "height", height)
	}
	res.Resized = resized
	res.Frames = frames

	write := c.buffers.Write(frames)
	if held && !moved && !resized {
		res.Converged = true
	} else {
		read := c.buffers.Read(frames)
		u := KernelUniforms{
			Resolution: [2]int{width, height},
			Position:   c.camera.Position,
			Direction:  c.camera.Orientation,
			Frames:     float64(frames),
			Rand:       c.rng.Float64(),
		}
		if err := c.kernel.Render(ctx, u, read, write); err != nil {
			return res, fmt.Errorf("render kernel: %w", err)
		}
		res.Read, res.Wrote, res.Uniforms = read, write, u

		c.settled = c.still.Converged()
		if c.settled {
			Logger().Debug("accumulation converged", "samples", frames)
		}
	}

	c.presenter.Present(PresentUniforms{Resolution: [2]int{width, height}}, write, c.fb)
	res.Presented = write

	return res, nil
}

// Camera returns the camera. Mutating it counts as motion only if the next
// tick's input says so; call ResetAccumulation after teleporting it.
func (c *Context) Camera() *Camera { return &c.camera }

// Frames returns the current stillness count.
func (c *Context) Frames() int { return c.still.Frames() }

// MaxSamples returns the stillness cap, 0 when unbounded.
func (c *Context) MaxSamples() int { return c.still.Limit() }

// Converged reports whether accumulation has reached its cap.
func (c *Context) Converged() bool { return c.still.Converged() }

// ResetAccumulation restarts convergence on the next tick.
func (c *Context) ResetAccumulation() {
	// The next Observe(false) increments, so start one below.
	c.still.frames = 0
	c.settled = false
}

// Buffers returns the accumulation surfaces.
func (c *Context) Buffers() *PingPong { return c.buffers }

// Framebuffer returns the presented image.
func (c *Context) Framebuffer() *Framebuffer { return c.fb }

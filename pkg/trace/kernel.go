package trace

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/pathview/pkg/math3d"
	"github.com/taigrr/pathview/pkg/render"
)

// Kernel defaults.
const (
	DefaultFOV      = 70
	DefaultMaxDepth = 6
)

var defaultMaterial = Material{Kind: Diffuse, Albedo: math3d.V3(0.7, 0.7, 0.7)}

var _ render.Kernel = (*Kernel)(nil)

// Kernel traces one path per pixel per call and blends the result into the
// running average:
//
//	dst = prev + (sample - prev) / frames
//
// With frames == 1 the previous image is ignored entirely, so a freshly
// allocated or stale surface never leaks into the output.
type Kernel struct {
	Scene *Scene

	// FOV is the vertical field of view in degrees.
	FOV float64

	// MaxDepth bounds the number of bounces per path.
	MaxDepth int

	// Workers bounds the number of rows traced concurrently. Zero means
	// one per CPU.
	Workers int

	// Clamp caps each channel of a single sample to tame fireflies. Zero
	// disables it.
	Clamp float64
}

// NewKernel returns a kernel with default settings for scene.
func NewKernel(scene *Scene) *Kernel {
	return &Kernel{Scene: scene, FOV: DefaultFOV, MaxDepth: DefaultMaxDepth}
}

// Render implements render.Kernel. Rows are traced in parallel; every row
// has its own generator seeded from the row index and the tick's random
// uniform, so consecutive ticks draw fresh, uncorrelated samples.
func (k *Kernel) Render(ctx context.Context, u render.KernelUniforms, sample, dst *render.Surface) error {
	w, h := u.Resolution[0], u.Resolution[1]
	if !dst.SameSize(w, h) || !sample.SameSize(w, h) {
		return fmt.Errorf("%w: surfaces %dx%d and %dx%d for resolution %dx%d",
			render.ErrInvalidSize, sample.Width, sample.Height, dst.Width, dst.Height, w, h)
	}

	cam := render.Camera{Position: u.Position, Orientation: u.Direction}
	forward, right, up := cam.Basis()

	fov := k.FOV
	if fov <= 0 || fov >= 180 {
		fov = DefaultFOV
	}
	tanHalf := math.Tan(fov * math.Pi / 360)
	aspect := float64(w) / float64(h)

	frames := math.Max(u.Frames, 1)
	weight := float32(1 / frames)
	seed := int64(u.Rand * (1 << 53))

	workers := k.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y := range h {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(rowSeed(seed, y)))
			prev := sample.Row(y)
			out := dst.Row(y)

			for x := range w {
				sx := (2*(float64(x)+rng.Float64())/float64(w) - 1) * aspect * tanHalf
				sy := (1 - 2*(float64(y)+rng.Float64())/float64(h)) * tanHalf
				dir := forward.Add(right.Scale(sx)).Add(up.Scale(sy)).Normalize()

				c := k.clamp(k.Radiance(rng, Ray{Origin: u.Position, Dir: dir}))
				i := x * 3
				s := [3]float32{float32(c.X), float32(c.Y), float32(c.Z)}
				if frames <= 1 {
					out[i], out[i+1], out[i+2] = s[0], s[1], s[2]
					continue
				}
				for ch := range 3 {
					p := prev[i+ch]
					out[i+ch] = p + (s[ch]-p)*weight
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// rowSeed mixes the tick seed with the row index (splitmix64 finalizer).
func rowSeed(seed int64, y int) int64 {
	z := uint64(seed) + uint64(y+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}

// Radiance follows one path from r and returns the light it carries back.
func (k *Kernel) Radiance(rng *rand.Rand, r Ray) math3d.Vec3 {
	maxDepth := k.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	throughput := math3d.V3(1, 1, 1)
	var color math3d.Vec3
	var h Hit

	for depth := range maxDepth {
		if !k.Scene.Intersect(r, epsilon, &h) {
			return color.Add(throughput.Mul(k.Scene.background(r.Dir)))
		}
		mat := h.Material
		if mat == nil {
			mat = &defaultMaterial
		}
		color = color.Add(throughput.Mul(mat.Emitted()))

		attenuation, next, ok := mat.Scatter(rng, r, &h)
		if !ok {
			break
		}
		throughput = throughput.Mul(attenuation)
		r = next

		// Russian roulette once the path has had a few bounces.
		if depth >= 3 {
			p := math.Min(math.Max(throughput.MaxComponent(), 0.05), 1)
			if rng.Float64() > p {
				break
			}
			throughput = throughput.Scale(1 / p)
		}
	}
	return color
}

func (k *Kernel) clamp(c math3d.Vec3) math3d.Vec3 {
	fix := func(v float64) float64 {
		if math.IsNaN(v) || v < 0 {
			return 0
		}
		if k.Clamp > 0 && v > k.Clamp {
			return k.Clamp
		}
		if math.IsInf(v, 1) {
			return 0
		}
		return v
	}
	return math3d.V3(fix(c.X), fix(c.Y), fix(c.Z))
}

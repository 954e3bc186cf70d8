package trace

import (
	"fmt"
	"image/color"
	"math"

	"github.com/taigrr/pathview/pkg/render"
)

// Operator compresses linear radiance into [0,1].
type Operator int

const (
	Reinhard Operator = iota
	ACES
	ClampOnly
)

func (o Operator) String() string {
	switch o {
	case Reinhard:
		return "reinhard"
	case ACES:
		return "aces"
	case ClampOnly:
		return "clamp"
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// ParseOperator maps an operator name back to its value.
func ParseOperator(s string) (Operator, error) {
	for o := Reinhard; o <= ClampOnly; o++ {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown tonemap operator %q", s)
}

// DefaultGamma is the display gamma used when Gamma is unset.
const DefaultGamma = 2.2

var _ render.Presenter = (*Tonemapper)(nil)

// Tonemapper resolves an accumulated surface into 8-bit pixels.
type Tonemapper struct {
	Exposure float64 // in stops, 0 leaves radiance unscaled
	Operator Operator
	Gamma    float64
}

// Present implements render.Presenter.
func (t *Tonemapper) Present(_ render.PresentUniforms, sample *render.Surface, out *render.Framebuffer) {
	out.Resize(sample.Width, sample.Height)

	scale := math.Exp2(t.Exposure)
	gamma := t.Gamma
	if gamma <= 0 {
		gamma = DefaultGamma
	}
	invGamma := 1 / gamma

	for y := range sample.Height {
		row := sample.Row(y)
		for x := range sample.Width {
			i := x * 3
			out.Pixels[y*out.Width+x] = color.RGBA{
				R: t.channel(float64(row[i]), scale, invGamma),
				G: t.channel(float64(row[i+1]), scale, invGamma),
				B: t.channel(float64(row[i+2]), scale, invGamma),
				A: 255,
			}
		}
	}
}

func (t *Tonemapper) channel(v, scale, invGamma float64) uint8 {
	v *= scale
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	switch t.Operator {
	case Reinhard:
		v = v / (1 + v)
	case ACES:
		v = aces(v)
	}
	v = math.Pow(math.Min(v, 1), invGamma)
	return uint8(v*255 + 0.5)
}

// aces is Narkowicz's fit of the ACES filmic curve.
func aces(x float64) float64 {
	const a, b, c, d, e = 2.51, 0.03, 2.43, 0.59, 0.14
	return math.Max(0, math.Min(1, (x*(a*x+b))/(x*(c*x+d)+e)))
}

package trace

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"

	"github.com/taigrr/pathview/pkg/math3d"
)

// Sky gives the radiance arriving from a direction when a ray escapes the
// scene.
type Sky interface {
	Radiance(dir math3d.Vec3) math3d.Vec3
}

// Gradient blends from Horizon at the horizon to Zenith straight up. Rays
// pointing below the horizon see Ground.
type Gradient struct {
	Horizon math3d.Vec3
	Zenith  math3d.Vec3
	Ground  math3d.Vec3
}

// Radiance implements Sky.
func (g Gradient) Radiance(dir math3d.Vec3) math3d.Vec3 {
	d := dir.Normalize()
	if d.Z < 0 {
		return g.Ground
	}
	return g.Horizon.Lerp(g.Zenith, d.Z)
}

// Uniform is a constant sky.
type Uniform math3d.Vec3

// Radiance implements Sky.
func (u Uniform) Radiance(math3d.Vec3) math3d.Vec3 { return math3d.Vec3(u) }

// EnvMap is an equirectangular environment image in linear light. Longitude
// wraps around world Z; the top row looks straight up.
type EnvMap struct {
	Width     int
	Height    int
	Pixels    []math3d.Vec3 // Row-major linear RGB
	Intensity float64
}

// LoadEnvMap decodes a PNG, JPEG or TGA file into an environment map. The
// decoder is picked by extension: tga registers itself with an empty magic
// string and would claim every file passed to image.Decode.
func LoadEnvMap(path string) (*EnvMap, error) {
	decode, err := envDecoder(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open environment map: %w", err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode environment map: %w", err)
	}
	return EnvMapFromImage(img), nil
}

func envDecoder(path string) (func(io.Reader) (image.Image, error), error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return png.Decode, nil
	case ".jpg", ".jpeg":
		return jpeg.Decode, nil
	case ".tga":
		return tga.Decode, nil
	default:
		return nil, fmt.Errorf("environment map %s: unknown extension %q", path, ext)
	}
}

// EnvMapFromImage converts an sRGB image to a linear environment map.
func EnvMapFromImage(img image.Image) *EnvMap {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	env := &EnvMap{
		Width:     width,
		Height:    height,
		Pixels:    make([]math3d.Vec3, width*height),
		Intensity: 1,
	}
	for y := range height {
		for x := range width {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			env.Pixels[y*width+x] = math3d.V3(srgbToLinear(r), srgbToLinear(g), srgbToLinear(b))
		}
	}
	return env
}

func srgbToLinear(c uint32) float64 {
	v := float64(c) / 0xffff
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Radiance implements Sky.
func (e *EnvMap) Radiance(dir math3d.Vec3) math3d.Vec3 {
	if e.Width == 0 || e.Height == 0 {
		return math3d.Vec3{}
	}
	d := dir.Normalize()
	u := 0.5 + math.Atan2(d.Y, d.X)/(2*math.Pi)
	v := math.Acos(math.Max(-1, math.Min(1, d.Z))) / math.Pi
	return e.sampleBilinear(u, v).Scale(e.Intensity)
}

// sampleBilinear interpolates at (u, v) in [0,1]², repeating horizontally
// and clamping vertically.
func (e *EnvMap) sampleBilinear(u, v float64) math3d.Vec3 {
	fx := u*float64(e.Width) - 0.5
	fy := v*float64(e.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := wrapRepeat(x0+1, e.Width)
	x0 = wrapRepeat(x0, e.Width)
	y1 := wrapClamp(y0+1, e.Height)
	y0 = wrapClamp(y0, e.Height)

	top := e.at(x0, y0).Lerp(e.at(x1, y0), tx)
	bot := e.at(x0, y1).Lerp(e.at(x1, y1), tx)
	return top.Lerp(bot, ty)
}

func (e *EnvMap) at(x, y int) math3d.Vec3 {
	return e.Pixels[y*e.Width+x]
}

func wrapRepeat(x, size int) int {
	x %= size
	if x < 0 {
		x += size
	}
	return x
}

func wrapClamp(x, size int) int {
	if x < 0 {
		return 0
	}
	if x >= size {
		return size - 1
	}
	return x
}

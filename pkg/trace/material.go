package trace

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/taigrr/pathview/pkg/math3d"
	"github.com/taigrr/pathview/pkg/models"
)

// MaterialKind selects the scattering model.
type MaterialKind int

const (
	Diffuse  MaterialKind = iota // Lambertian reflector
	Metal                        // mirror blurred by Roughness
	Emissive                     // light source, absorbs everything
	Glass                        // dielectric with index IOR
)

func (k MaterialKind) String() string {
	switch k {
	case Diffuse:
		return "diffuse"
	case Metal:
		return "metal"
	case Emissive:
		return "emissive"
	case Glass:
		return "glass"
	}
	return fmt.Sprintf("MaterialKind(%d)", int(k))
}

// ParseMaterialKind maps a kind name back to its value.
func ParseMaterialKind(s string) (MaterialKind, error) {
	for k := Diffuse; k <= Glass; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown material kind %q", s)
}

// Material describes how a surface scatters or emits light.
type Material struct {
	Kind      MaterialKind
	Albedo    math3d.Vec3 // reflectance per channel
	Emission  math3d.Vec3 // radiance emitted by Emissive surfaces
	Roughness float64     // Metal only, 0 = perfect mirror
	IOR       float64     // Glass only, defaults to 1.5
}

// MaterialFromModel converts a metallic-roughness material. Emissive factors
// win, then translucency, then metalness.
func MaterialFromModel(m models.Material) Material {
	albedo := math3d.V3(m.BaseColor[0], m.BaseColor[1], m.BaseColor[2])
	switch {
	case m.IsEmissive():
		return Material{Kind: Emissive, Emission: math3d.V3(m.Emissive[0], m.Emissive[1], m.Emissive[2])}
	case m.BaseColor[3] < 1:
		return Material{Kind: Glass, Albedo: albedo, IOR: 1.5}
	case m.Metallic >= 0.5:
		return Material{Kind: Metal, Albedo: albedo, Roughness: m.Roughness}
	}
	return Material{Kind: Diffuse, Albedo: albedo}
}

// Emitted returns the radiance the surface emits.
func (m *Material) Emitted() math3d.Vec3 {
	if m.Kind == Emissive {
		return m.Emission
	}
	return math3d.Vec3{}
}

// Scatter picks the continuation of a path arriving along in. It returns
// false when the path is absorbed.
func (m *Material) Scatter(rng *rand.Rand, in Ray, h *Hit) (attenuation math3d.Vec3, out Ray, ok bool) {
	unitDir := in.Dir.Normalize()

	switch m.Kind {
	case Diffuse:
		dir := h.Normal.Add(randomUnitVector(rng))
		if dir.LenSq() < 1e-12 {
			dir = h.Normal
		}
		return m.Albedo, Ray{Origin: h.Point, Dir: dir.Normalize()}, true

	case Metal:
		dir := unitDir.Reflect(h.Normal)
		if m.Roughness > 0 {
			dir = dir.Add(randomUnitVector(rng).Scale(m.Roughness)).Normalize()
		}
		if dir.Dot(h.Normal) <= 0 {
			return math3d.Vec3{}, Ray{}, false
		}
		return m.Albedo, Ray{Origin: h.Point, Dir: dir}, true

	case Glass:
		ior := m.IOR
		if ior == 0 {
			ior = 1.5
		}
		ratio := ior
		if h.FrontFace {
			ratio = 1 / ior
		}
		cosTheta := math.Min(-unitDir.Dot(h.Normal), 1)
		sinTheta := math.Sqrt(1 - cosTheta*cosTheta)

		var dir math3d.Vec3
		if ratio*sinTheta > 1 || schlick(cosTheta, ratio) > rng.Float64() {
			dir = unitDir.Reflect(h.Normal)
		} else {
			dir = refract(unitDir, h.Normal, ratio)
		}
		albedo := m.Albedo
		if albedo == (math3d.Vec3{}) {
			albedo = math3d.V3(1, 1, 1)
		}
		return albedo, Ray{Origin: h.Point, Dir: dir}, true
	}

	return math3d.Vec3{}, Ray{}, false
}

// schlick approximates Fresnel reflectance.
func schlick(cosine, ratio float64) float64 {
	r0 := (1 - ratio) / (1 + ratio)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

// refract bends the unit vector uv through a surface with normal n.
func refract(uv, n math3d.Vec3, ratio float64) math3d.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1)
	perp := uv.Add(n.Scale(cosTheta)).Scale(ratio)
	parallel := n.Scale(-math.Sqrt(math.Abs(1 - perp.LenSq())))
	return perp.Add(parallel)
}

// randomUnitVector samples the unit sphere uniformly.
func randomUnitVector(rng *rand.Rand) math3d.Vec3 {
	z := 2*rng.Float64() - 1
	a := 2 * math.Pi * rng.Float64()
	r := math.Sqrt(1 - z*z)
	return math3d.V3(r*math.Cos(a), r*math.Sin(a), z)
}

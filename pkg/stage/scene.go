package stage

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"

	"github.com/taigrr/pathview/pkg/math3d"
	"github.com/taigrr/pathview/pkg/models"
	"github.com/taigrr/pathview/pkg/render"
	"github.com/taigrr/pathview/pkg/trace"
)

type vec3 [3]float64

func (v vec3) vec() math3d.Vec3 { return math3d.V3(v[0], v[1], v[2]) }

type renderDoc struct {
	FOV       *float64               `json:"fov"`
	MaxDepth  int                    `json:"max_depth"`
	Workers   int                    `json:"workers"`
	Clamp     float64                `json:"clamp"`
	Sky       *skyDoc                `json:"sky"`
	Materials map[string]materialDoc `json:"materials"`
	Spheres   []sphereDoc            `json:"spheres"`
	Planes    []planeDoc             `json:"planes"`
	Meshes    []meshDoc              `json:"meshes"`
}

type skyDoc struct {
	Type      string   `json:"type"` // gradient, uniform or image
	Horizon   vec3     `json:"horizon"`
	Zenith    vec3     `json:"zenith"`
	Ground    vec3     `json:"ground"`
	Color     vec3     `json:"color"`
	Path      string   `json:"path"`
	Intensity *float64 `json:"intensity"`
}

type materialDoc struct {
	Kind      string  `json:"kind"`
	Albedo    vec3    `json:"albedo"`
	Emission  vec3    `json:"emission"`
	Roughness float64 `json:"roughness"`
	IOR       float64 `json:"ior"`
}

type sphereDoc struct {
	Center   vec3    `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

type planeDoc struct {
	Point    vec3   `json:"point"`
	Normal   vec3   `json:"normal"`
	Material string `json:"material"`
}

type meshDoc struct {
	Path     string  `json:"path"`
	Center   vec3    `json:"center"`
	Size     float64 `json:"size"`
	RotateZ  float64 `json:"rotate_z"` // degrees
	Material string  `json:"material"` // overrides the file's materials
}

type drawDoc struct {
	Exposure float64  `json:"exposure"`
	Tonemap  string   `json:"tonemap"`
	Gamma    *float64 `json:"gamma"`
}

// CompileRender builds the render kernel and its scene. Every semantic
// problem found is reported in one *CompileError.
func CompileRender(src Source) (*trace.Kernel, error) {
	var doc renderDoc
	if err := decode(src, &doc); err != nil {
		return nil, err
	}

	d := &diagnostics{src: src}
	scene := &trace.Scene{}
	kernel := trace.NewKernel(scene)

	if doc.FOV != nil {
		if *doc.FOV <= 0 || *doc.FOV >= 180 {
			d.addf("fov: must be in (0, 180), got %v", *doc.FOV)
		}
		kernel.FOV = *doc.FOV
	}
	if doc.MaxDepth < 0 {
		d.addf("max_depth: must not be negative, got %d", doc.MaxDepth)
	} else if doc.MaxDepth > 0 {
		kernel.MaxDepth = doc.MaxDepth
	}
	if doc.Workers < 0 {
		d.addf("workers: must not be negative, got %d", doc.Workers)
	}
	kernel.Workers = doc.Workers
	if doc.Clamp < 0 {
		d.addf("clamp: must not be negative, got %v", doc.Clamp)
	}
	kernel.Clamp = doc.Clamp

	scene.Sky = compileSky(d, src, doc.Sky)
	mats := compileMaterials(d, doc.Materials)

	lookup := func(where, name string) *trace.Material {
		if name == "" {
			return nil
		}
		m, ok := mats[name]
		if !ok {
			d.addf("%s: unknown material %q", where, name)
		}
		return m
	}

	for i, s := range doc.Spheres {
		where := fmt.Sprintf("spheres[%d]", i)
		if s.Radius <= 0 {
			d.addf("%s: radius must be positive, got %v", where, s.Radius)
		}
		scene.Add(&trace.Sphere{Center: s.Center.vec(), Radius: s.Radius, Material: lookup(where, s.Material)})
	}

	for i, p := range doc.Planes {
		where := fmt.Sprintf("planes[%d]", i)
		n := p.Normal.vec()
		if n.LenSq() == 0 {
			d.addf("%s: normal must not be zero", where)
		}
		scene.Add(&trace.Plane{Point: p.Point.vec(), Normal: n.Normalize(), Material: lookup(where, p.Material)})
	}

	for i, m := range doc.Meshes {
		where := fmt.Sprintf("meshes[%d]", i)
		mesh := compileMesh(d, src, where, m, lookup(where, m.Material))
		if mesh != nil {
			scene.Add(mesh)
		}
	}

	if err := d.err(); err != nil {
		return nil, err
	}

	render.Logger().Info("stage compiled", "stage", src.Name, "origin", src.Origin,
		"shapes", len(scene.Shapes), "materials", len(mats), "fov", kernel.FOV, "max_depth", kernel.MaxDepth)
	return kernel, nil
}

func compileSky(d *diagnostics, src Source, sky *skyDoc) trace.Sky {
	if sky == nil {
		return trace.Uniform{}
	}
	switch sky.Type {
	case "", "gradient":
		return trace.Gradient{Horizon: sky.Horizon.vec(), Zenith: sky.Zenith.vec(), Ground: sky.Ground.vec()}
	case "uniform":
		return trace.Uniform(sky.Color.vec())
	case "image":
		if sky.Path == "" {
			d.addf("sky: image sky needs a path")
			return nil
		}
		env, err := trace.LoadEnvMap(assetPath(src, sky.Path))
		if err != nil {
			d.addf("sky: %v", err)
			return nil
		}
		if sky.Intensity != nil {
			env.Intensity = *sky.Intensity
		}
		return env
	}
	d.addf("sky: unknown type %q", sky.Type)
	return nil
}

func compileMaterials(d *diagnostics, docs map[string]materialDoc) map[string]*trace.Material {
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	// Stable diagnostics order.
	sort.Strings(names)

	mats := make(map[string]*trace.Material, len(docs))
	for _, name := range names {
		doc := docs[name]
		kind := trace.Diffuse
		if doc.Kind != "" {
			k, err := trace.ParseMaterialKind(doc.Kind)
			if err != nil {
				d.addf("materials.%s: %v", name, err)
				continue
			}
			kind = k
		}
		if doc.Roughness < 0 || doc.Roughness > 1 {
			d.addf("materials.%s: roughness must be in [0, 1], got %v", name, doc.Roughness)
		}
		if kind == trace.Glass && doc.IOR != 0 && doc.IOR < 1 {
			d.addf("materials.%s: ior must be at least 1, got %v", name, doc.IOR)
		}
		mats[name] = &trace.Material{
			Kind:      kind,
			Albedo:    doc.Albedo.vec(),
			Emission:  doc.Emission.vec(),
			Roughness: doc.Roughness,
			IOR:       doc.IOR,
		}
	}
	return mats
}

func compileMesh(d *diagnostics, src Source, where string, doc meshDoc, override *trace.Material) *trace.Mesh {
	if doc.Path == "" {
		d.addf("%s: path is required", where)
		return nil
	}
	m, err := models.LoadGLB(assetPath(src, doc.Path))
	if err != nil {
		d.addf("%s: %v", where, err)
		return nil
	}
	if doc.RotateZ != 0 {
		m.Transform(math3d.RotateZ(doc.RotateZ * math.Pi / 180))
	}
	size := doc.Size
	if size <= 0 {
		size = 2
	}
	m.FitTo(doc.Center.vec(), size)

	mesh, err := trace.NewMesh(m, override, nil)
	if err != nil {
		d.addf("%s: %v", where, err)
		return nil
	}
	render.Logger().Debug("mesh loaded", "path", doc.Path, "triangles", mesh.TriangleCount())
	return mesh
}

func assetPath(src Source, path string) string {
	if filepath.IsAbs(path) || src.Dir == "" {
		return path
	}
	return filepath.Join(src.Dir, path)
}

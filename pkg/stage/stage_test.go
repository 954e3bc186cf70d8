package stage

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/pathview/pkg/trace"
)

func renderSource(text string) Source {
	return Source{Name: RenderStage, Text: []byte(text), Dir: ".", Origin: "test"}
}

func drawSource(text string) Source {
	return Source{Name: DrawStage, Text: []byte(text), Dir: ".", Origin: "test"}
}

func TestDefaultsCompile(t *testing.T) {
	rs, err := Default(RenderStage)
	if err != nil {
		t.Fatal(err)
	}
	ds, err := Default(DrawStage)
	if err != nil {
		t.Fatal(err)
	}

	k, err := CompileRender(rs)
	if err != nil {
		t.Fatalf("default render stage: %v", err)
	}
	if k.FOV != 70 || k.MaxDepth != 6 || k.Clamp != 20 {
		t.Errorf("kernel = fov %v depth %v clamp %v", k.FOV, k.MaxDepth, k.Clamp)
	}
	if len(k.Scene.Shapes) != 6 {
		t.Errorf("default scene has %d shapes, want 6", len(k.Scene.Shapes))
	}
	if _, ok := k.Scene.Sky.(trace.Gradient); !ok {
		t.Errorf("sky = %T, want gradient", k.Scene.Sky)
	}

	tm, err := CompileDraw(ds)
	if err != nil {
		t.Fatalf("default draw stage: %v", err)
	}
	if tm.Operator != trace.ACES || tm.Gamma != 2.2 {
		t.Errorf("tonemapper = %+v", tm)
	}

	kernel, presenter, err := Compile(rs, ds)
	if err != nil || kernel == nil || presenter == nil {
		t.Errorf("Compile = %v, %v, %v", kernel, presenter, err)
	}
}

func TestDefaultUnknownStage(t *testing.T) {
	if _, err := Default("shadow"); err == nil {
		t.Error("unknown stage accepted")
	}
}

func TestResolve(t *testing.T) {
	src, err := Resolve(DrawStage, "")
	if err != nil || src.Origin != builtin {
		t.Fatalf("Resolve empty = %+v, %v", src, err)
	}

	path := filepath.Join(t.TempDir(), "draw.json")
	if err := os.WriteFile(path, []byte(`{"tonemap":"reinhard"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err = Resolve(DrawStage, path)
	if err != nil {
		t.Fatal(err)
	}
	if src.Origin != path || src.Dir != filepath.Dir(path) {
		t.Errorf("source = %+v", src)
	}
	tm, err := CompileDraw(src)
	if err != nil || tm.Operator != trace.Reinhard {
		t.Errorf("CompileDraw = %+v, %v", tm, err)
	}

	if _, err := Resolve(DrawStage, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestCompileRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"syntax", "{\n  \"fov\": 70,\n  \"spheres\": [}\n}", "3:"},
		{"unknown field", `{"fog": 1}`, `unknown field "fog"`},
		{"wrong type", `{"fov": "wide"}`, "fov"},
		{"trailing data", `{} {}`, "unexpected data"},
		{"empty", ``, "empty document"},
		{"fov", `{"fov": 190}`, "fov: must be in (0, 180)"},
		{"depth", `{"max_depth": -1}`, "max_depth"},
		{"radius", `{"spheres": [{"radius": 0}]}`, "spheres[0]: radius must be positive"},
		{"normal", `{"planes": [{"normal": [0, 0, 0]}]}`, "planes[0]: normal must not be zero"},
		{"material", `{"spheres": [{"radius": 1, "material": "gold"}]}`, `unknown material "gold"`},
		{"kind", `{"materials": {"m": {"kind": "velvet"}}}`, "materials.m"},
		{"roughness", `{"materials": {"m": {"kind": "metal", "roughness": 2}}}`, "roughness"},
		{"ior", `{"materials": {"m": {"kind": "glass", "ior": 0.5}}}`, "ior"},
		{"sky type", `{"sky": {"type": "starfield"}}`, `sky: unknown type "starfield"`},
		{"sky path", `{"sky": {"type": "image"}}`, "needs a path"},
		{"sky format", `{"sky": {"type": "image", "path": "sky.hdr"}}`, `unknown extension ".hdr"`},
		{"mesh path", `{"meshes": [{}]}`, "meshes[0]: path is required"},
		{"mesh file", `{"meshes": [{"path": "/nonexistent/teapot.glb"}]}`, "meshes[0]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CompileRender(renderSource(tc.text))
			var ce *CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %v, want *CompileError", err)
			}
			if ce.Stage != RenderStage {
				t.Errorf("stage = %q", ce.Stage)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCompileRenderReportsEveryProblem(t *testing.T) {
	_, err := CompileRender(renderSource(`{
		"spheres": [{"radius": -1}, {"radius": 1, "material": "nope"}],
		"planes": [{"normal": [0, 0, 0]}]
	}`))
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v", err)
	}
	if len(ce.Diagnostics) != 3 {
		t.Errorf("got %d diagnostics, want 3: %v", len(ce.Diagnostics), ce.Diagnostics)
	}
}

func TestCompileRenderScene(t *testing.T) {
	k, err := CompileRender(renderSource(`{
		"fov": 50,
		"workers": 2,
		"sky": {"type": "uniform", "color": [0.2, 0.2, 0.2]},
		"materials": {"mirror": {"kind": "metal", "albedo": [1, 1, 1]}},
		"spheres": [{"center": [3, 0, 0], "radius": 1, "material": "mirror"}],
		"planes": [{"normal": [0, 0, 2]}]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if k.FOV != 50 || k.Workers != 2 || k.MaxDepth != trace.DefaultMaxDepth {
		t.Errorf("kernel = %+v", k)
	}
	if sky, ok := k.Scene.Sky.(trace.Uniform); !ok || sky.X != 0.2 {
		t.Errorf("sky = %#v", k.Scene.Sky)
	}

	sphere, ok := k.Scene.Shapes[0].(*trace.Sphere)
	if !ok || sphere.Material == nil || sphere.Material.Kind != trace.Metal {
		t.Fatalf("sphere = %#v", k.Scene.Shapes[0])
	}
	plane, ok := k.Scene.Shapes[1].(*trace.Plane)
	if !ok || plane.Normal.Z != 1 || plane.Material != nil {
		t.Errorf("plane = %#v", k.Scene.Shapes[1])
	}
}

func TestCompileRenderImageSky(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := range 4 {
		img.Set(x, 0, color.White)
	}
	f, err := os.Create(filepath.Join(dir, "sky.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	path := filepath.Join(dir, "render.json")
	text := `{"sky": {"type": "image", "path": "sky.png", "intensity": 3}}`
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := LoadFile(RenderStage, path)
	if err != nil {
		t.Fatal(err)
	}
	k, err := CompileRender(src)
	if err != nil {
		t.Fatal(err)
	}
	env, ok := k.Scene.Sky.(*trace.EnvMap)
	if !ok {
		t.Fatalf("sky = %T", k.Scene.Sky)
	}
	if env.Width != 4 || env.Intensity != 3 {
		t.Errorf("env map = %dx%d intensity %v", env.Width, env.Height, env.Intensity)
	}
}

func TestCompileDraw(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    trace.Tonemapper
		wantErr string
	}{
		{"empty object", `{}`, trace.Tonemapper{Operator: trace.ACES, Gamma: 2.2}, ""},
		{"all fields", `{"exposure": -1, "tonemap": "clamp", "gamma": 1}`, trace.Tonemapper{Exposure: -1, Operator: trace.ClampOnly, Gamma: 1}, ""},
		{"bad operator", `{"tonemap": "filmic"}`, trace.Tonemapper{}, "tonemap"},
		{"bad gamma", `{"gamma": 0}`, trace.Tonemapper{}, "gamma: must be positive"},
		{"unknown field", `{"vignette": 1}`, trace.Tonemapper{}, "vignette"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CompileDraw(drawSource(tc.text))
			if tc.wantErr != "" {
				var ce *CompileError
				if !errors.As(err, &ce) || ce.Stage != DrawStage {
					t.Fatalf("err = %v, want draw *CompileError", err)
				}
				if !strings.Contains(err.Error(), tc.wantErr) {
					t.Errorf("error %q does not mention %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if *got != tc.want {
				t.Errorf("got %+v, want %+v", *got, tc.want)
			}
		})
	}
}

func TestCompileStopsAtRenderError(t *testing.T) {
	_, _, err := Compile(renderSource(`{"fov": 0}`), drawSource(`{}`))
	var ce *CompileError
	if !errors.As(err, &ce) || ce.Stage != RenderStage {
		t.Errorf("err = %v", err)
	}
}

func TestPosition(t *testing.T) {
	text := []byte("ab\ncde\nf")
	tests := []struct {
		offset    int64
		line, col int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{5, 2, 3},
		{7, 3, 1},
		{100, 3, 2},
	}
	for _, tc := range tests {
		line, col := position(text, tc.offset)
		if line != tc.line || col != tc.col {
			t.Errorf("position(%d) = %d:%d, want %d:%d", tc.offset, line, col, tc.line, tc.col)
		}
	}
}

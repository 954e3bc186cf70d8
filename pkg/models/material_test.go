package models

import (
	"math"
	"testing"

	"github.com/taigrr/pathview/pkg/math3d"
)

// TestFaceMaterialIndex verifies per-face material assignment.
func TestFaceMaterialIndex(t *testing.T) {
	mesh := NewMesh("test")

	mesh.Materials = []Material{
		{Name: "red", BaseColor: [4]float64{1, 0, 0, 1}},
		{Name: "green", BaseColor: [4]float64{0, 1, 0, 1}},
		{Name: "blue", BaseColor: [4]float64{0, 0, 1, 1}},
	}

	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}, Material: 0},
		{V: [3]int{3, 4, 5}, Material: 1},
		{V: [3]int{6, 7, 8}, Material: 2},
		{V: [3]int{9, 10, 11}, Material: -1},
	}

	if mesh.GetFaceMaterial(0) != 0 {
		t.Errorf("Face 0 should have material 0, got %d", mesh.GetFaceMaterial(0))
	}
	if mesh.GetFaceMaterial(3) != -1 {
		t.Errorf("Face 3 should have material -1, got %d", mesh.GetFaceMaterial(3))
	}

	mat := mesh.GetMaterial(0)
	if mat == nil || mat.Name != "red" {
		t.Errorf("GetMaterial(0) should return 'red' material")
	}
	if mesh.GetMaterial(-1) != nil {
		t.Errorf("GetMaterial(-1) should return nil")
	}
	if mesh.GetMaterial(99) != nil {
		t.Errorf("GetMaterial(99) should return nil for out-of-bounds")
	}
}

// TestMeshClonePreservesMaterials verifies Clone copies materials.
func TestMeshClonePreservesMaterials(t *testing.T) {
	mesh := NewMesh("original")
	mesh.Materials = []Material{
		{Name: "mat1", BaseColor: [4]float64{1, 0, 0, 1}},
		{Name: "mat2", BaseColor: [4]float64{0, 1, 0, 1}},
	}
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}, Material: 0},
		{V: [3]int{3, 4, 5}, Material: 1},
	}

	clone := mesh.Clone()

	if clone.MaterialCount() != mesh.MaterialCount() {
		t.Errorf("Clone should have %d materials, got %d", mesh.MaterialCount(), clone.MaterialCount())
	}

	clone.Materials[0].Name = "modified"
	if mesh.Materials[0].Name == "modified" {
		t.Errorf("Clone should have independent material copy")
	}
}

func TestMaterialIsEmissive(t *testing.T) {
	tests := []struct {
		name     string
		emissive [3]float64
		want     bool
	}{
		{"black", [3]float64{}, false},
		{"red", [3]float64{1, 0, 0}, true},
		{"blue", [3]float64{0, 0, 0.1}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := (Material{Emissive: tc.emissive}).IsEmissive(); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func quad() *Mesh {
	mesh := NewMesh("quad")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(4, 0, 0)},
		{Position: math3d.V3(4, 2, 0)},
		{Position: math3d.V3(0, 2, 0)},
	}
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}, Material: -1},
		{V: [3]int{0, 2, 3}, Material: -1},
	}
	mesh.CalculateBounds()
	return mesh
}

func TestCalculateSmoothNormals(t *testing.T) {
	mesh := quad()
	if mesh.HasNormals() {
		t.Fatal("fresh quad has normals")
	}
	mesh.CalculateSmoothNormals()
	for i, v := range mesh.Vertices {
		if math.Abs(v.Normal.Z-1) > 1e-9 {
			t.Errorf("vertex %d normal = %v, want +Z", i, v.Normal)
		}
	}
}

func TestFitTo(t *testing.T) {
	mesh := quad()
	mesh.FitTo(math3d.V3(10, 0, 1), 2)

	center := mesh.Center()
	if math.Abs(center.X-10) > 1e-9 || math.Abs(center.Y) > 1e-9 || math.Abs(center.Z-1) > 1e-9 {
		t.Errorf("center = %v, want (10, 0, 1)", center)
	}
	size := mesh.Size()
	if math.Abs(size.X-2) > 1e-9 || math.Abs(size.Y-1) > 1e-9 {
		t.Errorf("size = %v, want (2, 1, 0)", size)
	}
}

func TestYUpToZUp(t *testing.T) {
	mesh := NewMesh("pole")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(0, 3, 0)},
	}
	mesh.YUpToZUp()
	top := mesh.Vertices[1].Position
	if math.Abs(top.Z-3) > 1e-9 || math.Abs(top.Y) > 1e-9 {
		t.Errorf("top = %v, want (0, 0, 3)", top)
	}
	if math.Abs(mesh.BoundsMax.Z-3) > 1e-9 {
		t.Errorf("bounds not recomputed: %v", mesh.BoundsMax)
	}
}

func TestFitToEmpty(t *testing.T) {
	mesh := NewMesh("empty")
	mesh.FitTo(math3d.V3(1, 1, 1), 5)
	if mesh.VertexCount() != 0 {
		t.Error("empty mesh gained vertices")
	}
}

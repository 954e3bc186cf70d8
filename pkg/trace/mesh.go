package trace

import (
	"errors"
	"slices"

	"github.com/taigrr/pathview/pkg/models"
)

// leafSize is the most triangles a BVH leaf holds.
const leafSize = 4

// Mesh is a triangle soup behind a bounding volume hierarchy.
type Mesh struct {
	tris  []Triangle
	nodes []bvhNode
}

// bvhNode is a node of the flattened hierarchy. Leaves cover
// tris[start:start+count]; inner nodes have count 0.
type bvhNode struct {
	bounds      AABB
	left, right int
	start       int
	count       int
}

// NewMesh builds a traceable mesh from a loaded model. override, when not
// nil, replaces every face material; faces without a material fall back to
// def.
func NewMesh(m *models.Mesh, override, def *Material) (*Mesh, error) {
	if m == nil || m.TriangleCount() == 0 {
		return nil, errors.New("mesh has no triangles")
	}

	mats := make([]*Material, m.MaterialCount())
	for i := range mats {
		mat := MaterialFromModel(m.Materials[i])
		mats[i] = &mat
	}

	smooth := m.HasNormals()
	tris := make([]Triangle, 0, m.TriangleCount())
	for i, f := range m.Faces {
		tr := Triangle{}
		tr.V0, tr.V1, tr.V2 = m.Triangle(i)
		if smooth {
			tr.N0 = m.Vertices[f.V[0]].Normal
			tr.N1 = m.Vertices[f.V[1]].Normal
			tr.N2 = m.Vertices[f.V[2]].Normal
		}
		switch {
		case override != nil:
			tr.Material = override
		case f.Material >= 0 && f.Material < len(mats):
			tr.Material = mats[f.Material]
		default:
			tr.Material = def
		}
		tris = append(tris, tr)
	}

	mesh := &Mesh{tris: tris}
	mesh.build(0, len(tris))
	return mesh, nil
}

// build creates the node covering tris[start:end] and returns its index.
func (m *Mesh) build(start, end int) int {
	idx := len(m.nodes)
	m.nodes = append(m.nodes, bvhNode{})

	bounds := EmptyAABB()
	centroids := EmptyAABB()
	for i := start; i < end; i++ {
		bounds = bounds.Union(m.tris[i].Bounds())
		c := m.tris[i].centroid()
		centroids = centroids.Union(NewAABB(c, c))
	}

	if end-start <= leafSize {
		m.nodes[idx] = bvhNode{bounds: bounds, start: start, count: end - start}
		return idx
	}

	// Median split along the axis the centroids spread most on.
	axis := centroids.LongestAxis()
	slices.SortFunc(m.tris[start:end], func(a, b Triangle) int {
		ca, cb := axisOf(a.centroid(), axis), axisOf(b.centroid(), axis)
		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		}
		return 0
	})
	mid := (start + end) / 2

	left := m.build(start, mid)
	right := m.build(mid, end)
	m.nodes[idx] = bvhNode{bounds: bounds, left: left, right: right}
	return idx
}

// Bounds returns the mesh's bounding box.
func (m *Mesh) Bounds() AABB {
	return m.nodes[0].bounds
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.tris)
}

// Intersect implements Shape.
func (m *Mesh) Intersect(r Ray, tMin, tMax float64, h *Hit) bool {
	invDir := reciprocal(r.Dir)
	// Median splits keep the depth near log2(n), far below the stack size.
	var stack [64]int
	sp := 0
	stack[sp] = 0
	sp++

	hit := false
	closest := tMax
	for sp > 0 {
		sp--
		node := &m.nodes[stack[sp]]
		if !node.bounds.Hit(r.Origin, invDir, tMin, closest) {
			continue
		}
		if node.count > 0 {
			for i := node.start; i < node.start+node.count; i++ {
				if m.tris[i].Intersect(r, tMin, closest, h) {
					hit = true
					closest = h.T
				}
			}
			continue
		}
		stack[sp] = node.left
		stack[sp+1] = node.right
		sp += 2
	}
	return hit
}

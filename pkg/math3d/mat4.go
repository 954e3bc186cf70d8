package math3d

import "math"

// Mat4 is an affine transform stored in column-major order. Meshes are
// placed in the scene with it before the tracer builds its BVH; nothing
// projects through it.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
type Mat4 [16]float64

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns a * b, the transform that applies b first.
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec3 transforms a point. The bottom row is assumed to be (0 0 0 1).
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12],
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13],
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14],
	}
}

// MulNormal transforms a surface normal: the inverse transpose of the
// linear part, so normals stay perpendicular under non-uniform scale. The
// result is not normalized.
func (m Mat4) MulNormal(n Vec3) Vec3 {
	// Columns of the linear part.
	x := V3(m[0], m[1], m[2])
	y := V3(m[4], m[5], m[6])
	z := V3(m[8], m[9], m[10])

	// The cofactor matrix is det * inverse transpose; its rows are the
	// pairwise cross products of the columns.
	cx, cy, cz := y.Cross(z), z.Cross(x), x.Cross(y)
	out := cx.Scale(n.X).Add(cy.Scale(n.Y)).Add(cz.Scale(n.Z))
	if m.Determinant() < 0 {
		// Mirroring transforms flip the cofactors.
		out = out.Negate()
	}
	return out
}

// Determinant returns the determinant of the linear part.
func (m Mat4) Determinant() float64 {
	x := V3(m[0], m[1], m[2])
	y := V3(m[4], m[5], m[6])
	z := V3(m[8], m[9], m[10])
	return x.Dot(y.Cross(z))
}

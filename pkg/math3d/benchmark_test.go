package math3d

import (
	"testing"
)

// Results land here so the compiler cannot drop the work.
var (
	sinkVec   Vec3
	sinkFloat float64
)

// Per-bounce operations: the tracer runs these once or more for every
// path segment of every pixel.

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(0.3, -1.7, 2.2)
	for b.Loop() {
		sinkVec = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	n := V3(0, 0.6, 0.8)
	t := V3(1, 0, 0)
	for b.Loop() {
		sinkVec = n.Cross(t)
	}
}

func BenchmarkVec3Reflect(b *testing.B) {
	d := V3(0.6, 0, -0.8)
	n := Up()
	for b.Loop() {
		sinkVec = d.Reflect(n)
	}
}

func BenchmarkVec3Dot(b *testing.B) {
	d := V3(0.6, 0, -0.8)
	n := V3(0, 0.6, 0.8)
	for b.Loop() {
		sinkFloat = d.Dot(n)
	}
}

// Throughput blend: attenuate by albedo, add emission.
func BenchmarkVec3Throughput(b *testing.B) {
	throughput := V3(1, 1, 1)
	albedo := V3(0.8, 0.7, 0.6)
	emission := V3(0.1, 0.1, 0.1)
	for b.Loop() {
		sinkVec = emission.Mul(throughput).Add(throughput.Mul(albedo))
	}
}

// Per-pixel camera ray.
func BenchmarkV3FromAngles(b *testing.B) {
	for b.Loop() {
		sinkVec = V3FromAngles(0.7, -0.3)
	}
}

// Load-time mesh placement, once per vertex.
func BenchmarkMat4MulNormal(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(Scale(V3(2, 1, 0.5))).Mul(RotateZ(0.4))
	n := V3(0, 0.6, 0.8)
	for b.Loop() {
		sinkVec = m.MulNormal(n)
	}
}

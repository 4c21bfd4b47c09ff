package math3d

import (
	"testing"
)

func BenchmarkMat3Inverse(b *testing.B) {
	m := FromColumns(V3(2, 0, 1), V3(0, 3, 0), V3(1, 0, 4))

	for b.Loop() {
		_, _ = m.Inverse()
	}
}

func BenchmarkMat3MulVec3(b *testing.B) {
	m := FromColumns(V3(2, 0, 1), V3(0, 3, 0), V3(1, 0, 4))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func BenchmarkVec3Dot(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Dot(v2)
	}
}

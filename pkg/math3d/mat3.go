package math3d

// Mat3 is a 3x3 matrix stored in column-major order.
//
// Memory layout (indices):
// | 0  3  6 |
// | 1  4  7 |
// | 2  5  8 |
type Mat3 [9]float64

// Identity3 returns the identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// FromColumns builds a matrix whose columns are a, b and c.
func FromColumns(a, b, c Vec3) Mat3 {
	return Mat3{
		a.X, a.Y, a.Z,
		b.X, b.Y, b.Z,
		c.X, c.Y, c.Z,
	}
}

// Column returns column i (0..2).
func (m Mat3) Column(i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// Get returns the element at (row, col).
func (m Mat3) Get(row, col int) float64 {
	return m[row+col*3]
}

// MulVec3 returns m * v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	for col := range 3 {
		for row := range 3 {
			var sum float64
			for k := range 3 {
				sum += a[row+k*3] * b[k+col*3]
			}
			m[row+col*3] = sum
		}
	}
	return m
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Determinant expands along the first row.
func (m Mat3) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[7]*m[5]) -
		m[3]*(m[1]*m[8]-m[7]*m[2]) +
		m[6]*(m[1]*m[5]-m[4]*m[2])
}

// Inverse returns the inverse computed from the adjugate (transposed
// cofactor matrix) divided by the determinant. ok is false, and the identity
// is returned, when the matrix is singular.
func (m Mat3) Inverse() (inv Mat3, ok bool) {
	det := m.Determinant()
	if det == 0 {
		return Identity3(), false
	}
	invDet := 1.0 / det

	// Cofactor C(r,c) lands at adj(c,r), i.e. index c + r*3.
	inv[0] = (m[4]*m[8] - m[7]*m[5]) * invDet
	inv[3] = -(m[3]*m[8] - m[6]*m[5]) * invDet
	inv[6] = (m[3]*m[7] - m[6]*m[4]) * invDet

	inv[1] = -(m[1]*m[8] - m[7]*m[2]) * invDet
	inv[4] = (m[0]*m[8] - m[6]*m[2]) * invDet
	inv[7] = -(m[0]*m[7] - m[6]*m[1]) * invDet

	inv[2] = (m[1]*m[5] - m[4]*m[2]) * invDet
	inv[5] = -(m[0]*m[5] - m[3]*m[2]) * invDet
	inv[8] = (m[0]*m[4] - m[3]*m[1]) * invDet

	return inv, true
}

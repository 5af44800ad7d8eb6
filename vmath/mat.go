package vmath

import "math"

// Mat44 is a 4x4 matrix in row-major order using the row-vector convention:
//
//	v' = v * M
//
// Translation is stored in m[3][0..2].
type Mat44 [4][4]float32

// Identity returns the identity matrix.
func Identity() Mat44 {
	return Mat44{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translation creates a translation matrix.
func Translation(x, y, z float32) Mat44 {
	m := Identity()
	m[3][0] = x
	m[3][1] = y
	m[3][2] = z
	return m
}

// Scaling creates a scaling matrix.
func Scaling(x, y, z float32) Mat44 {
	m := Identity()
	m[0][0] = x
	m[1][1] = y
	m[2][2] = z
	return m
}

// Rotation creates a rotation of angle degrees around the axis (x, y, z).
// The axis is normalized; a zero axis yields the identity.
func Rotation(angle, x, y, z float32) Mat44 {
	axis := Vec3{x, y, z}.Normalize()
	if axis == (Vec3{}) {
		return Identity()
	}
	x, y, z = axis[0], axis[1], axis[2]

	rad := float64(angle) * math.Pi / 180
	s := float32(math.Sin(rad))
	c := float32(math.Cos(rad))
	ic := 1 - c

	return Mat44{
		{x*x*ic + c, y*x*ic + z*s, x*z*ic - y*s, 0},
		{x*y*ic - z*s, y*y*ic + c, y*z*ic + x*s, 0},
		{x*z*ic + y*s, y*z*ic - x*s, z*z*ic + c, 0},
		{0, 0, 0, 1},
	}
}

// Frustum creates a perspective projection for the given clip volume.
func Frustum(left, right, bottom, top, near, far float32) Mat44 {
	var m Mat44
	m[0][0] = 2 * near / (right - left)
	m[1][1] = 2 * near / (top - bottom)
	m[2][0] = (right + left) / (right - left)
	m[2][1] = (top + bottom) / (top - bottom)
	m[2][2] = -(far + near) / (far - near)
	m[2][3] = -1
	m[3][2] = -2 * far * near / (far - near)
	return m
}

// Perspective creates a symmetric perspective projection.
// fovy is the vertical field of view in degrees.
func Perspective(fovy, aspect, near, far float32) Mat44 {
	top := near * float32(math.Tan(float64(fovy)*math.Pi/360))
	right := top * aspect
	return Frustum(-right, right, -top, top, near, far)
}

// Ortho creates an orthographic projection.
func Ortho(left, right, bottom, top, near, far float32) Mat44 {
	m := Identity()
	m[0][0] = 2 / (right - left)
	m[1][1] = 2 / (top - bottom)
	m[2][2] = -2 / (far - near)
	m[3][0] = -(right + left) / (right - left)
	m[3][1] = -(top + bottom) / (top - bottom)
	m[3][2] = -(far + near) / (far - near)
	return m
}

// Mul returns m * o. Transforming by the result applies m first, then o.
func (m Mat44) Mul(o Mat44) Mat44 {
	var r Mat44
	for i := range 4 {
		for j := range 4 {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j] + m[i][3]*o[3][j]
		}
	}
	return r
}

// Transform returns v * m.
func (m Mat44) Transform(v Vec4) Vec4 {
	return Vec4{
		v[0]*m[0][0] + v[1]*m[1][0] + v[2]*m[2][0] + v[3]*m[3][0],
		v[0]*m[0][1] + v[1]*m[1][1] + v[2]*m[2][1] + v[3]*m[3][1],
		v[0]*m[0][2] + v[1]*m[1][2] + v[2]*m[2][2] + v[3]*m[3][2],
		v[0]*m[0][3] + v[1]*m[1][3] + v[2]*m[2][3] + v[3]*m[3][3],
	}
}

// TransformVec3 applies the upper 3x3 part of m to v (no translation).
func (m Mat44) TransformVec3(v Vec3) Vec3 {
	return Vec3{
		v[0]*m[0][0] + v[1]*m[1][0] + v[2]*m[2][0],
		v[0]*m[0][1] + v[1]*m[1][1] + v[2]*m[2][1],
		v[0]*m[0][2] + v[1]*m[1][2] + v[2]*m[2][2],
	}
}

// TransformAll transforms every vector of src into dst.
// dst must be at least as long as src.
func (m Mat44) TransformAll(dst, src []Vec4) {
	for i, v := range src {
		dst[i] = m.Transform(v)
	}
}

// Transpose returns the transposed matrix.
func (m Mat44) Transpose() Mat44 {
	var r Mat44
	for i := range 4 {
		for j := range 4 {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Invert returns the inverse matrix.
// Returns the identity matrix if the matrix is not invertible.
func (m Mat44) Invert() Mat44 {
	a := func(i int) float32 { return m[i/4][i%4] }
	var inv [16]float32

	inv[0] = a(5)*a(10)*a(15) - a(5)*a(11)*a(14) - a(9)*a(6)*a(15) + a(9)*a(7)*a(14) + a(13)*a(6)*a(11) - a(13)*a(7)*a(10)
	inv[4] = -a(4)*a(10)*a(15) + a(4)*a(11)*a(14) + a(8)*a(6)*a(15) - a(8)*a(7)*a(14) - a(12)*a(6)*a(11) + a(12)*a(7)*a(10)
	inv[8] = a(4)*a(9)*a(15) - a(4)*a(11)*a(13) - a(8)*a(5)*a(15) + a(8)*a(7)*a(13) + a(12)*a(5)*a(11) - a(12)*a(7)*a(9)
	inv[12] = -a(4)*a(9)*a(14) + a(4)*a(10)*a(13) + a(8)*a(5)*a(14) - a(8)*a(6)*a(13) - a(12)*a(5)*a(10) + a(12)*a(6)*a(9)
	inv[1] = -a(1)*a(10)*a(15) + a(1)*a(11)*a(14) + a(9)*a(2)*a(15) - a(9)*a(3)*a(14) - a(13)*a(2)*a(11) + a(13)*a(3)*a(10)
	inv[5] = a(0)*a(10)*a(15) - a(0)*a(11)*a(14) - a(8)*a(2)*a(15) + a(8)*a(3)*a(14) + a(12)*a(2)*a(11) - a(12)*a(3)*a(10)
	inv[9] = -a(0)*a(9)*a(15) + a(0)*a(11)*a(13) + a(8)*a(1)*a(15) - a(8)*a(3)*a(13) - a(12)*a(1)*a(11) + a(12)*a(3)*a(9)
	inv[13] = a(0)*a(9)*a(14) - a(0)*a(10)*a(13) - a(8)*a(1)*a(14) + a(8)*a(2)*a(13) + a(12)*a(1)*a(10) - a(12)*a(2)*a(9)
	inv[2] = a(1)*a(6)*a(15) - a(1)*a(7)*a(14) - a(5)*a(2)*a(15) + a(5)*a(3)*a(14) + a(13)*a(2)*a(7) - a(13)*a(3)*a(6)
	inv[6] = -a(0)*a(6)*a(15) + a(0)*a(7)*a(14) + a(4)*a(2)*a(15) - a(4)*a(3)*a(14) - a(12)*a(2)*a(7) + a(12)*a(3)*a(6)
	inv[10] = a(0)*a(5)*a(15) - a(0)*a(7)*a(13) - a(4)*a(1)*a(15) + a(4)*a(3)*a(13) + a(12)*a(1)*a(7) - a(12)*a(3)*a(5)
	inv[14] = -a(0)*a(5)*a(14) + a(0)*a(6)*a(13) + a(4)*a(1)*a(14) - a(4)*a(2)*a(13) - a(12)*a(1)*a(6) + a(12)*a(2)*a(5)
	inv[3] = -a(1)*a(6)*a(11) + a(1)*a(7)*a(10) + a(5)*a(2)*a(11) - a(5)*a(3)*a(10) - a(9)*a(2)*a(7) + a(9)*a(3)*a(6)
	inv[7] = a(0)*a(6)*a(11) - a(0)*a(7)*a(10) - a(4)*a(2)*a(11) + a(4)*a(3)*a(10) + a(8)*a(2)*a(7) - a(8)*a(3)*a(6)
	inv[11] = -a(0)*a(5)*a(11) + a(0)*a(7)*a(9) + a(4)*a(1)*a(11) - a(4)*a(3)*a(9) - a(8)*a(1)*a(7) + a(8)*a(3)*a(5)
	inv[15] = a(0)*a(5)*a(10) - a(0)*a(6)*a(9) - a(4)*a(1)*a(10) + a(4)*a(2)*a(9) + a(8)*a(1)*a(6) - a(8)*a(2)*a(5)

	det := a(0)*inv[0] + a(1)*inv[4] + a(2)*inv[8] + a(3)*inv[12]
	if math.Abs(float64(det)) < 1e-12 {
		return Identity()
	}

	invDet := 1 / det
	var r Mat44
	for i := range 16 {
		r[i/4][i%4] = inv[i] * invDet
	}
	return r
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Mat44) IsIdentity() bool {
	return m == Identity()
}

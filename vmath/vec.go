package vmath

import "math"

// Vec3 is a 3-component vector, used for normals and directions.
type Vec3 [3]float32

// Vec4 is a homogeneous 4-component vector (x, y, z, w).
// It also carries colors (r, g, b, a) and texture coordinates (s, t, r, q).
type Vec4 [4]float32

// V3 is a convenience function to create a Vec3.
func V3(x, y, z float32) Vec3 { return Vec3{x, y, z} }

// V4 is a convenience function to create a Vec4.
func V4(x, y, z, w float32) Vec4 { return Vec4{x, y, z, w} }

// Point returns the homogeneous point (x, y, z, 1).
func Point(x, y, z float32) Vec4 { return Vec4{x, y, z, 1} }

// Add returns the sum of two vectors.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]} }

// Sub returns the difference of two vectors.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]} }

// Mul returns the vector scaled by s.
func (v Vec3) Mul(s float32) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(w Vec3) float32 { return v[0]*w[0] + v[1]*w[1] + v[2]*w[2] }

// Cross returns the cross product v x w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Length returns the length (magnitude) of the vector.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns a unit vector in the same direction.
// Returns the zero vector if v has zero length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// Vec4 returns v extended with the given w.
func (v Vec3) Vec4(w float32) Vec4 { return Vec4{v[0], v[1], v[2], w} }

// Add returns the component-wise sum of two vectors.
func (v Vec4) Add(w Vec4) Vec4 {
	return Vec4{v[0] + w[0], v[1] + w[1], v[2] + w[2], v[3] + w[3]}
}

// Sub returns the component-wise difference of two vectors.
func (v Vec4) Sub(w Vec4) Vec4 {
	return Vec4{v[0] - w[0], v[1] - w[1], v[2] - w[2], v[3] - w[3]}
}

// Mul returns all four components scaled by s.
func (v Vec4) Mul(s float32) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

// MulVec returns the component-wise product of two vectors.
func (v Vec4) MulVec(w Vec4) Vec4 {
	return Vec4{v[0] * w[0], v[1] * w[1], v[2] * w[2], v[3] * w[3]}
}

// Dot returns the 4-component dot product.
func (v Vec4) Dot(w Vec4) float32 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2] + v[3]*w[3]
}

// Lerp performs linear interpolation between two vectors.
// t=0 returns v, t=1 returns w.
func (v Vec4) Lerp(w Vec4, t float32) Vec4 {
	return Vec4{
		v[0] + (w[0]-v[0])*t,
		v[1] + (w[1]-v[1])*t,
		v[2] + (w[2]-v[2])*t,
		v[3] + (w[3]-v[3])*t,
	}
}

// XYZ drops the w component.
func (v Vec4) XYZ() Vec3 { return Vec3{v[0], v[1], v[2]} }

// PerspectiveDivide divides x, y and z by w and stores 1/w in w.
// Keeping the reciprocal lets callers correct other attributes with a
// multiplication instead of another division.
func (v Vec4) PerspectiveDivide() Vec4 {
	inv := 1 / v[3]
	return Vec4{v[0] * inv, v[1] * inv, v[2] * inv, inv}
}

// Clamp limits every component to [lo, hi].
func (v Vec4) Clamp(lo, hi float32) Vec4 {
	for i := range v {
		v[i] = min(max(v[i], lo), hi)
	}
	return v
}

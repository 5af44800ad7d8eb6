// Package vmath provides the small fixed-size vector and matrix types used by
// the rix geometry pipeline.
//
// Vectors are plain arrays so that homogeneous components can be indexed
// directly (v[3] is w). Matrices use the row-vector convention: a point is
// transformed as v' = v * M, translation lives in row 3, and composing A then B
// is A.Mul(B).
package vmath

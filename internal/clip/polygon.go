package clip

import "github.com/gogpu/rix/vmath"

// TMUs is the number of texture coordinate sets carried per vertex.
const TMUs = 2

// PlaneCount is the number of homogeneous clip planes.
const PlaneCount = 6

// MaxVertices is the capacity of a Polygon. Clipping a convex polygon
// against one plane adds at most one vertex, so a triangle clipped against
// all planes never exceeds 3 + PlaneCount vertices.
const MaxVertices = 3 + PlaneCount

// TexCoords holds one texture coordinate per texture unit.
type TexCoords [TMUs]vmath.Vec4

// Polygon is a convex polygon in clip space with per-vertex attributes.
// Vertex, TexCoord and Color are parallel; only the first N entries are valid.
type Polygon struct {
	N        int
	Vertex   [MaxVertices]vmath.Vec4
	TexCoord [MaxVertices]TexCoords
	Color    [MaxVertices]vmath.Vec4
}

// Reset empties the polygon.
func (p *Polygon) Reset() { p.N = 0 }

// Append adds a vertex with its attributes.
// Returns false when the polygon is full.
func (p *Polygon) Append(v vmath.Vec4, tc TexCoords, c vmath.Vec4) bool {
	if p.N >= MaxVertices {
		return false
	}
	p.Vertex[p.N] = v
	p.TexCoord[p.N] = tc
	p.Color[p.N] = c
	p.N++
	return true
}

// appendLerp adds the vertex interpolated between a and b at t.
func (p *Polygon) appendLerp(src *Polygon, a, b int, t float32) bool {
	var tc TexCoords
	for u := range tc {
		tc[u] = src.TexCoord[a][u].Lerp(src.TexCoord[b][u], t)
	}
	return p.Append(
		src.Vertex[a].Lerp(src.Vertex[b], t),
		tc,
		src.Color[a].Lerp(src.Color[b], t),
	)
}

// Triangles returns the number of fan triangles the polygon decomposes into.
func (p *Polygon) Triangles() int {
	if p.N < 3 {
		return 0
	}
	return p.N - 2
}

// FanTriangle returns the vertex indices of the i-th fan triangle.
// Every fan triangle shares vertex 0.
func (p *Polygon) FanTriangle(i int) (int, int, int) {
	return 0, i + 1, i + 2
}

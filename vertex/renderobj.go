package vertex

import "github.com/gogpu/rix/vmath"

// DrawMode is the primitive topology of a RenderObj.
type DrawMode uint8

const (
	// Triangles draws independent triangles from consecutive triples.
	Triangles DrawMode = iota

	// TriangleStrip draws a triangle for every element after the second.
	TriangleStrip

	// TriangleFan draws triangles sharing the first element.
	TriangleFan

	// QuadStrip draws a quad for every pair of elements after the first
	// pair, as two strip triangles.
	QuadStrip

	// Polygon draws a convex polygon as a fan.
	Polygon

	// Quads draws independent quads from consecutive groups of four.
	Quads
)

var drawModeNames = [...]string{
	Triangles:     "Triangles",
	TriangleStrip: "TriangleStrip",
	TriangleFan:   "TriangleFan",
	QuadStrip:     "QuadStrip",
	Polygon:       "Polygon",
	Quads:         "Quads",
}

// String returns the mode name.
func (m DrawMode) String() string {
	if int(m) < len(drawModeNames) {
		return drawModeNames[m]
	}
	return "Unknown"
}

// RenderObj is an indexed source of vertex attributes.
//
// Count and Index describe the element sequence; the attribute accessors
// take the index returned by Index. Disabled colors fall back to
// VertexColor, disabled texture coordinates to (0, 0, 0, 1) and
// disabled normals to (0, 0, 1).
type RenderObj interface {
	Mode() DrawMode
	Count() int
	Index(i int) int

	Vertex(idx int) vmath.Vec4

	HasColor() bool
	Color(idx int) vmath.Vec4
	VertexColor() vmath.Vec4

	HasNormal() bool
	Normal(idx int) vmath.Vec3

	HasTexCoord(tmu int) bool
	TexCoord(tmu, idx int) vmath.Vec4
}

// Arrays is a RenderObj backed by slices.
// Without Indices the elements are Positions in order.
type Arrays struct {
	DrawMode  DrawMode
	Indices   []int
	Positions []vmath.Vec4
	Colors    []vmath.Vec4
	Normals   []vmath.Vec3
	TexCoords [MaxTMUs][]vmath.Vec4

	// GlobalColor is used when Colors is empty.
	GlobalColor vmath.Vec4
}

// Mode returns the draw mode.
func (a *Arrays) Mode() DrawMode { return a.DrawMode }

// Count returns the number of elements.
func (a *Arrays) Count() int {
	if a.Indices != nil {
		return len(a.Indices)
	}
	return len(a.Positions)
}

// Index returns the attribute index of element i.
func (a *Arrays) Index(i int) int {
	if a.Indices != nil {
		return a.Indices[i]
	}
	return i
}

func (a *Arrays) Vertex(idx int) vmath.Vec4        { return a.Positions[idx] }
func (a *Arrays) HasColor() bool                   { return len(a.Colors) > 0 }
func (a *Arrays) Color(idx int) vmath.Vec4         { return a.Colors[idx] }
func (a *Arrays) VertexColor() vmath.Vec4          { return a.GlobalColor }
func (a *Arrays) HasNormal() bool                  { return len(a.Normals) > 0 }
func (a *Arrays) Normal(idx int) vmath.Vec3        { return a.Normals[idx] }
func (a *Arrays) HasTexCoord(tmu int) bool         { return len(a.TexCoords[tmu]) > 0 }
func (a *Arrays) TexCoord(tmu, idx int) vmath.Vec4 { return a.TexCoords[tmu][idx] }

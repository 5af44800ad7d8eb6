package vertex

import (
	"github.com/gogpu/rix/internal/clip"
	"github.com/gogpu/rix/vmath"
)

// MaxTMUs is the number of texture units a triangle carries coordinates for.
const MaxTMUs = clip.TMUs

// TexCoords holds one texture coordinate per texture unit.
type TexCoords = clip.TexCoords

// Triangle is a triangle with per-vertex color and texture coordinates.
//
// Triangles passed to DrawTriangle are in clip space. Triangles emitted to
// a Rasterizer are in window space: x and y are pixels, z is depth in
// [0, far-near], w holds 1/w of the clip-space vertex and texture
// coordinates are already multiplied by it.
type Triangle struct {
	Vertex   [3]vmath.Vec4
	Color    [3]vmath.Vec4
	TexCoord [3]TexCoords
}

// Rasterizer consumes window-space triangles.
type Rasterizer interface {
	DrawTriangle(t *Triangle) error
}

// RasterizerFunc adapts a function to the Rasterizer interface.
type RasterizerFunc func(t *Triangle) error

// DrawTriangle calls f(t).
func (f RasterizerFunc) DrawTriangle(t *Triangle) error { return f(t) }

package command

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/rix/internal/clip"
	"github.com/gogpu/rix/vmath"
)

// TriangleWords is the payload size of a Triangle in 32-bit words:
// two bounding box words, then 3 positions, 3 colors and 3 texture
// coordinates per texture unit, 4 floats each.
const TriangleWords = 2 + 3*4 + 3*4 + 3*clip.TMUs*4

// Rect is a pixel rectangle with an exclusive end.
type Rect struct {
	X0, Y0, X1, Y1 int
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.X0 >= r.X1 || r.Y0 >= r.Y1 }

// Intersect returns the overlap of two rectangles.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		X0: max(r.X0, o.X0),
		Y0: max(r.Y0, o.Y0),
		X1: min(r.X1, o.X1),
		Y1: min(r.Y1, o.Y1),
	}
}

// Triangle is a screen-space triangle ready for rasterization.
// Positions carry window x and y, depth in z and 1/w in w; texture
// coordinates are already multiplied by 1/w.
type Triangle struct {
	BBox     Rect
	Vertex   [3]vmath.Vec4
	Color    [3]vmath.Vec4
	TexCoord [3]clip.TexCoords
}

func (c *Triangle) Opcode() uint32        { return uint32(ClassTriangle) | TriangleWords }
func (c *Triangle) PayloadSize() int      { return TriangleWords * 4 }
func (c *Triangle) Transfers() []Transfer { return nil }

func (c *Triangle) Serialize(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], XY(c.BBox.X0, c.BBox.Y0))
	binary.LittleEndian.PutUint32(b[4:], XY(c.BBox.X1, c.BBox.Y1))
	off := 8
	put := func(v vmath.Vec4) {
		for _, f := range v {
			binary.LittleEndian.PutUint32(b[off:], math.Float32bits(f))
			off += 4
		}
	}
	for i := range 3 {
		put(c.Vertex[i])
	}
	for i := range 3 {
		put(c.Color[i])
	}
	for tmu := range clip.TMUs {
		for i := range 3 {
			put(c.TexCoord[i][tmu])
		}
	}
}

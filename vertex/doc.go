// Package vertex implements the geometry front end of the rix pipeline.
//
// A Pipeline owns the matrix stacks, lighting and texture coordinate
// generation. DrawObj walks an indexed vertex array in fixed-size chunks,
// transforms each chunk into clip space, assembles triangles according to
// the draw mode and hands every triangle to DrawTriangle. DrawTriangle
// clips against the view volume, divides by w, corrects texture
// coordinates for perspective, maps to window coordinates, culls and
// emits the resulting fan to a Rasterizer.
//
// Basic usage:
//
//	p := vertex.New(renderer)
//	p.SetViewport(0, 0, 640, 480)
//	p.SetMatrixMode(vertex.Projection)
//	p.LoadMatrix(vmath.Perspective(60, 4.0/3, 1, 100))
//	p.SetMatrixMode(vertex.ModelView)
//	p.Translate(0, 0, -5)
//	err := p.DrawObj(&vertex.Arrays{DrawMode: vertex.TriangleStrip, Positions: pts})
//
// A Pipeline is not safe for concurrent use.
package vertex

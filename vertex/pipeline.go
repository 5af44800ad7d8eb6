package vertex

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rix/internal/clip"
	"github.com/gogpu/rix/internal/ring"
	"github.com/gogpu/rix/vmath"
)

// ChunkSize is the number of elements DrawObj transforms at once. It is a
// multiple of 3 and 4 so independent triangles and quads never straddle
// two chunks.
const ChunkSize = 24

// chunkOverlap is the number of elements shared by consecutive chunks of
// strip and fan topologies.
const chunkOverlap = 2

// transformed is one element after the per-vertex stage.
type transformed struct {
	clip  vmath.Vec4
	color vmath.Vec4
	tex   TexCoords
}

// Stats counts triangles through the pipeline since the last ResetStats.
type Stats struct {
	Assembled int // triangles assembled by DrawObj or passed to DrawTriangle
	Clipped   int // triangles fully outside the view volume
	Culled    int // triangles rejected by face culling
	Emitted   int // window-space triangles handed to the Rasterizer
}

// Pipeline transforms, clips and culls geometry.
type Pipeline struct {
	out Rasterizer

	mode       MatrixMode
	activeTMU  int
	modelView  matrixStack
	projection matrixStack
	texture    [MaxTMUs]matrixStack

	dirty  bool
	mvp    vmath.Mat44
	normal vmath.Mat44

	viewX, viewY, viewW, viewH float32
	depthNear, depthFar        float32

	cullEnabled bool
	cullMode    gputypes.CullMode
	frontFace   gputypes.FrontFace

	lighting Lighting
	texGen   [MaxTMUs]TexGen

	chunk  *ring.Queue[transformed]
	anchor transformed
	idx    [ChunkSize]int
	obj    [ChunkSize]vmath.Vec4
	clips  [ChunkSize]vmath.Vec4

	in, scratch clip.Polygon
	tri         Triangle
	win         Triangle

	stats Stats
}

// New creates a pipeline that emits triangles to out. The viewport is
// 1x1 at the origin and the depth range is [0, 1].
func New(out Rasterizer) *Pipeline {
	p := &Pipeline{
		out:        out,
		modelView:  newMatrixStack(ModelViewStackDepth),
		projection: newMatrixStack(ProjectionStackDepth),
		dirty:      true,
		viewW:      1,
		viewH:      1,
		depthFar:   1,
		cullMode:   gputypes.CullModeBack,
		frontFace:  gputypes.FrontFaceCCW,
		lighting:   DefaultLighting(),
		chunk:      ring.New[transformed](ChunkSize),
	}
	for i := range p.texture {
		p.texture[i] = newMatrixStack(TextureStackDepth)
		p.texGen[i] = DefaultTexGen()
	}
	return p
}

// SetRasterizer replaces the triangle sink.
func (p *Pipeline) SetRasterizer(out Rasterizer) { p.out = out }

// SetViewport maps normalized device coordinates to the pixel rectangle
// starting at (x, y) with size w x h.
func (p *Pipeline) SetViewport(x, y, w, h int) {
	p.viewX, p.viewY = float32(x), float32(y)
	p.viewW, p.viewH = float32(w), float32(h)
}

// SetDepthRange sets the depth mapping. Window depth spans [0, far-near].
func (p *Pipeline) SetDepthRange(near, far float32) {
	p.depthNear, p.depthFar = near, far
}

// EnableCulling turns face culling on or off.
func (p *Pipeline) EnableCulling(enable bool) { p.cullEnabled = enable }

// SetCullMode selects which faces are culled.
func (p *Pipeline) SetCullMode(mode gputypes.CullMode) { p.cullMode = mode }

// SetFrontFace selects the winding of front faces.
func (p *Pipeline) SetFrontFace(face gputypes.FrontFace) { p.frontFace = face }

// Lighting returns the lighting state for modification.
func (p *Pipeline) Lighting() *Lighting { return &p.lighting }

// SetLightPosition sets the position of light i, transformed by the
// current model-view matrix.
func (p *Pipeline) SetLightPosition(i int, pos vmath.Vec4) {
	p.lighting.Lights[i].Position = p.modelView.current().Transform(pos)
}

// TexGen returns the texture coordinate generation state of a texture
// unit for modification.
func (p *Pipeline) TexGen(tmu int) *TexGen { return &p.texGen[tmu] }

// Stats returns the pipeline counters.
func (p *Pipeline) Stats() Stats { return p.stats }

// ResetStats clears the pipeline counters.
func (p *Pipeline) ResetStats() { p.stats = Stats{} }

// chunkOverlapFor returns the number of elements consecutive chunks share.
func chunkOverlapFor(mode DrawMode) int {
	switch mode {
	case Triangles, Quads:
		return 0
	default:
		return chunkOverlap
	}
}

// DrawObj draws every primitive of obj.
//
// Elements are processed in chunks of ChunkSize. Strip and fan
// topologies carry the last two elements of a chunk into the next one so
// that triangles spanning the boundary are still assembled. Fans and
// polygons keep the first element as the anchor for all chunks.
//
// The first Rasterizer error stops the draw and is returned.
func (p *Pipeline) DrawObj(obj RenderObj) error {
	mode := obj.Mode()
	n := obj.Count()
	if mode == QuadStrip {
		n &^= 1
	}
	if n < 3 {
		return nil
	}
	p.recalculateMatrices()

	overlap := chunkOverlapFor(mode)
	p.chunk.Clear()
	for start := 0; ; {
		end := min(start+ChunkSize, n)
		if keep := p.chunk.Len(); keep > 0 {
			p.chunk.RemoveFront(keep - overlap)
		}
		p.transformRange(obj, start+p.chunk.Len(), end)
		if start == 0 {
			p.anchor = *p.chunk.At(0)
		}

		err := assemble(mode, start, end, func(a, b, c int) error {
			return p.drawElements(p.element(start, a), p.element(start, b), p.element(start, c))
		})
		if err != nil {
			return err
		}
		if end == n {
			return nil
		}
		start = end - overlap
	}
}

// element returns the transformed element with global index i while the
// chunk starting at start is loaded.
func (p *Pipeline) element(start, i int) *transformed {
	if i < start {
		return &p.anchor
	}
	return p.chunk.At(i - start)
}

// transformRange appends the elements [from, to) of obj to the chunk.
func (p *Pipeline) transformRange(obj RenderObj, from, to int) {
	count := to - from
	for i := range count {
		p.idx[i] = obj.Index(from + i)
		p.obj[i] = obj.Vertex(p.idx[i])
	}
	p.mvp.TransformAll(p.clips[:count], p.obj[:count])

	needEye := p.lighting.Enabled
	for u := range p.texGen {
		needEye = needEye || p.texGen[u].needsEye()
	}
	model := p.modelView.current()

	for i, k := range p.idx[:count] {
		t := p.chunk.CreateBack()
		t.clip = p.clips[i]

		var eye vmath.Vec4
		n := vmath.V3(0, 0, 1)
		if needEye {
			eye = model.Transform(p.obj[i])
			if obj.HasNormal() {
				n = p.normal.TransformVec3(obj.Normal(k)).Normalize()
			}
		}

		switch {
		case p.lighting.Enabled:
			t.color = p.lighting.Color(eye, n)
		case obj.HasColor():
			t.color = obj.Color(k)
		default:
			t.color = obj.VertexColor()
		}

		for u := range MaxTMUs {
			tc := vmath.V4(0, 0, 0, 1)
			if obj.HasTexCoord(u) {
				tc = obj.TexCoord(u, k)
			}
			if g := &p.texGen[u]; g.Active() {
				tc = g.Generate(tc, p.obj[i], eye, n)
			}
			if m := p.texture[u].current(); !m.IsIdentity() {
				tc = m.Transform(tc)
			}
			t.tex[u] = tc
		}
	}
}

func (p *Pipeline) drawElements(a, b, c *transformed) error {
	for i, e := range [3]*transformed{a, b, c} {
		p.tri.Vertex[i] = e.clip
		p.tri.Color[i] = e.color
		p.tri.TexCoord[i] = e.tex
	}
	return p.DrawTriangle(&p.tri)
}

// assemble calls emit with the element indices of every triangle of mode
// whose first element lies in [start, end-2). Strip windows at odd
// positions swap their first two elements to keep a consistent winding.
func assemble(mode DrawMode, start, end int, emit func(a, b, c int) error) error {
	switch mode {
	case Triangles:
		for i := (start + 2) / 3 * 3; i+2 < end; i += 3 {
			if err := emit(i, i+1, i+2); err != nil {
				return err
			}
		}
	case Quads:
		for i := (start + 3) / 4 * 4; i+3 < end; i += 4 {
			if err := emit(i, i+1, i+2); err != nil {
				return err
			}
			if err := emit(i, i+2, i+3); err != nil {
				return err
			}
		}
	case TriangleStrip, QuadStrip:
		for i := start; i+2 < end; i++ {
			a, b := i, i+1
			if i&1 == 1 {
				a, b = b, a
			}
			if err := emit(a, b, i+2); err != nil {
				return err
			}
		}
	case TriangleFan, Polygon:
		for i := start; i+2 < end; i++ {
			if err := emit(0, i+1, i+2); err != nil {
				return err
			}
		}
	}
	return nil
}

// DrawTriangle clips a clip-space triangle, projects it to window
// coordinates, applies face culling and emits the resulting fan.
// Triangles outside the view volume or culled are dropped without error.
func (p *Pipeline) DrawTriangle(t *Triangle) error {
	p.stats.Assembled++

	p.in.Reset()
	for i := range 3 {
		p.in.Append(t.Vertex[i], t.TexCoord[i], t.Color[i])
	}
	poly := clip.Clip(&p.in, &p.scratch)
	if poly.N < 3 {
		p.stats.Clipped++
		return nil
	}

	for i := range poly.N {
		v := poly.Vertex[i].PerspectiveDivide()
		for u := range MaxTMUs {
			poly.TexCoord[i][u] = poly.TexCoord[i][u].Mul(v[3])
		}
		poly.Vertex[i] = p.viewportTransform(v)
	}

	if p.culled(poly.Vertex[0], poly.Vertex[1], poly.Vertex[2]) {
		p.stats.Culled++
		return nil
	}

	for i := 2; i < poly.N; i++ {
		for j, k := range [3]int{0, i - 1, i} {
			p.win.Vertex[j] = poly.Vertex[k]
			p.win.Color[j] = poly.Color[k]
			p.win.TexCoord[j] = poly.TexCoord[k]
		}
		if err := p.out.DrawTriangle(&p.win); err != nil {
			return err
		}
		p.stats.Emitted++
	}
	return nil
}

// viewportTransform maps a divided vertex to window coordinates.
func (p *Pipeline) viewportTransform(v vmath.Vec4) vmath.Vec4 {
	hw := (p.viewW - 1) / 2
	hh := (p.viewH - 1) / 2
	return vmath.Vec4{
		v[0]*hw + p.viewX + hw,
		v[1]*hh + p.viewY + hh,
		(v[2] + 1) * 0.5 * (p.depthFar - p.depthNear),
		v[3],
	}
}

// culled reports whether the window-space triangle faces away according
// to the cull mode. Degenerate triangles count as back-facing.
func (p *Pipeline) culled(a, b, c vmath.Vec4) bool {
	if !p.cullEnabled || p.cullMode == gputypes.CullModeNone {
		return false
	}
	area := (b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])
	front := area > 0
	if p.frontFace == gputypes.FrontFaceCW {
		front = area < 0
	}
	if p.cullMode == gputypes.CullModeFront {
		return front
	}
	return !front
}

package vertex

import (
	"errors"
	"fmt"

	"github.com/gogpu/rix/vmath"
)

// MatrixMode selects the matrix stack affected by matrix operations.
type MatrixMode uint8

const (
	// ModelView transforms object coordinates into eye coordinates.
	ModelView MatrixMode = iota

	// Projection transforms eye coordinates into clip coordinates.
	Projection

	// Texture transforms texture coordinates of the active texture unit.
	Texture
)

// String returns the mode name.
func (m MatrixMode) String() string {
	switch m {
	case ModelView:
		return "ModelView"
	case Projection:
		return "Projection"
	case Texture:
		return "Texture"
	default:
		return "Unknown"
	}
}

// Stack depths per matrix mode.
const (
	ModelViewStackDepth  = 16
	ProjectionStackDepth = 4
	TextureStackDepth    = 4
)

var (
	// ErrStackOverflow is returned by PushMatrix on a full stack.
	ErrStackOverflow = errors.New("vertex: matrix stack overflow")

	// ErrStackUnderflow is returned by PopMatrix on a stack holding one matrix.
	ErrStackUnderflow = errors.New("vertex: matrix stack underflow")

	// ErrInvalidTMU is returned for texture unit indices out of range.
	ErrInvalidTMU = errors.New("vertex: invalid texture unit")

	// ErrInvalidMatrixMode is returned by SetMatrixMode for unknown modes.
	ErrInvalidMatrixMode = errors.New("vertex: invalid matrix mode")
)

// matrixStack is a fixed-depth stack whose top is the active matrix.
type matrixStack struct {
	m   []vmath.Mat44
	top int
}

func newMatrixStack(depth int) matrixStack {
	s := matrixStack{m: make([]vmath.Mat44, depth)}
	s.m[0] = vmath.Identity()
	return s
}

func (s *matrixStack) current() *vmath.Mat44 { return &s.m[s.top] }

func (s *matrixStack) push() bool {
	if s.top+1 >= len(s.m) {
		return false
	}
	s.m[s.top+1] = s.m[s.top]
	s.top++
	return true
}

func (s *matrixStack) pop() bool {
	if s.top == 0 {
		return false
	}
	s.top--
	return true
}

// stack returns the stack selected by the current mode.
func (p *Pipeline) stack() *matrixStack {
	switch p.mode {
	case Projection:
		return &p.projection
	case Texture:
		return &p.texture[p.activeTMU]
	default:
		return &p.modelView
	}
}

// touch marks the combined matrices stale when a transform stack changed.
func (p *Pipeline) touch() {
	if p.mode != Texture {
		p.dirty = true
	}
}

// SetMatrixMode selects the stack for subsequent matrix operations.
func (p *Pipeline) SetMatrixMode(mode MatrixMode) error {
	if mode > Texture {
		return fmt.Errorf("%w: %d", ErrInvalidMatrixMode, mode)
	}
	p.mode = mode
	return nil
}

// MatrixMode returns the current matrix mode.
func (p *Pipeline) MatrixMode() MatrixMode { return p.mode }

// SetActiveTexture selects the texture unit whose matrix the Texture mode
// affects.
func (p *Pipeline) SetActiveTexture(tmu int) error {
	if tmu < 0 || tmu >= MaxTMUs {
		return fmt.Errorf("%w: %d", ErrInvalidTMU, tmu)
	}
	p.activeTMU = tmu
	return nil
}

// PushMatrix duplicates the top of the current stack.
// On overflow the stack is left unchanged.
func (p *Pipeline) PushMatrix() error {
	if !p.stack().push() {
		return fmt.Errorf("%w (%s)", ErrStackOverflow, p.mode)
	}
	return nil
}

// PopMatrix discards the top of the current stack.
// On underflow the stack is left unchanged.
func (p *Pipeline) PopMatrix() error {
	if !p.stack().pop() {
		return fmt.Errorf("%w (%s)", ErrStackUnderflow, p.mode)
	}
	p.touch()
	return nil
}

// Matrix returns the top of the current stack.
func (p *Pipeline) Matrix() vmath.Mat44 { return *p.stack().current() }

// LoadIdentity replaces the top of the current stack with the identity.
func (p *Pipeline) LoadIdentity() { p.LoadMatrix(vmath.Identity()) }

// LoadMatrix replaces the top of the current stack.
func (p *Pipeline) LoadMatrix(m vmath.Mat44) {
	*p.stack().current() = m
	p.touch()
}

// MultMatrix applies m before the current top: top = m * top.
func (p *Pipeline) MultMatrix(m vmath.Mat44) {
	top := p.stack().current()
	*top = m.Mul(*top)
	p.touch()
}

// Translate multiplies the current matrix by a translation.
func (p *Pipeline) Translate(x, y, z float32) { p.MultMatrix(vmath.Translation(x, y, z)) }

// Scale multiplies the current matrix by a scaling.
func (p *Pipeline) Scale(x, y, z float32) { p.MultMatrix(vmath.Scaling(x, y, z)) }

// Rotate multiplies the current matrix by a rotation of angle degrees
// around the axis (x, y, z).
func (p *Pipeline) Rotate(angle, x, y, z float32) { p.MultMatrix(vmath.Rotation(angle, x, y, z)) }

// recalculateMatrices refreshes the combined model-projection matrix and
// the normal matrix if any transform changed since the last draw.
func (p *Pipeline) recalculateMatrices() {
	if !p.dirty {
		return
	}
	model := *p.modelView.current()
	p.mvp = model.Mul(*p.projection.current())
	p.normal = model.Invert().Transpose()
	p.dirty = false
}

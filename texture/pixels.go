package texture

import "sync/atomic"

// Pixels is a reference-counted handle to texel data.
//
// The handle is shared between the application, which creates it, and
// the texture memory manager, which keeps it alive until the data has
// been uploaded and the slot holding it is collected. Each owner calls
// Release exactly once; the last Release drops the data and runs the
// optional free function.
type Pixels struct {
	refs atomic.Int32
	data []byte
	free func([]byte)
}

// NewPixels wraps data in a handle with one reference.
func NewPixels(data []byte) *Pixels {
	return NewPixelsFunc(data, nil)
}

// NewPixelsFunc is like NewPixels but calls free with the data once the
// last reference is released. Use it to return buffers to a pool.
func NewPixelsFunc(data []byte, free func([]byte)) *Pixels {
	p := &Pixels{data: data, free: free}
	p.refs.Store(1)
	return p
}

// Retain adds a reference and returns p.
func (p *Pixels) Retain() *Pixels {
	if p != nil {
		p.refs.Add(1)
	}
	return p
}

// Release drops a reference. Releasing a nil handle is a no-op.
// Releasing more often than retaining is a programming error and panics.
func (p *Pixels) Release() {
	if p == nil {
		return
	}
	switch n := p.refs.Add(-1); {
	case n == 0:
		data := p.data
		p.data = nil
		if p.free != nil {
			p.free(data)
		}
	case n < 0:
		panic("texture: Pixels released more often than retained")
	}
}

// Bytes returns the texel data, or nil once the last reference is gone.
func (p *Pixels) Bytes() []byte {
	if p == nil {
		return nil
	}
	return p.data
}

// Refs returns the current reference count.
func (p *Pixels) Refs() int {
	if p == nil {
		return 0
	}
	return int(p.refs.Load())
}

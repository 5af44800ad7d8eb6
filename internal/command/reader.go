package command

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/rix/internal/arena"
	"github.com/gogpu/rix/vmath"
)

// ErrMalformed is returned when a display list cannot be decoded.
var ErrMalformed = errors.New("command: malformed display list")

// Entry is one decoded display list entry.
type Entry struct {
	Opcode  uint32
	Payload []byte
}

// Class returns the entry's command class.
func (e Entry) Class() Class { return ClassOf(e.Opcode) }

// Register decodes a register write.
func (e Entry) Register() (Reg, uint32) {
	return Reg(e.Opcode &^ classMask), binary.LittleEndian.Uint32(e.Payload)
}

// Transfer decodes a stream entry.
func (e Entry) Transfer() Transfer {
	return Transfer{
		Op:   StreamOp(e.Opcode &^ classMask),
		Addr: binary.LittleEndian.Uint32(e.Payload[0:]),
		Size: binary.LittleEndian.Uint32(e.Payload[4:]),
	}
}

// Triangle decodes a triangle entry.
func (e Entry) Triangle() Triangle {
	var t Triangle
	t.BBox.X0, t.BBox.Y0 = SplitXY(binary.LittleEndian.Uint32(e.Payload[0:]))
	t.BBox.X1, t.BBox.Y1 = SplitXY(binary.LittleEndian.Uint32(e.Payload[4:]))
	off := 8
	get := func() vmath.Vec4 {
		var v vmath.Vec4
		for i := range v {
			v[i] = math.Float32frombits(binary.LittleEndian.Uint32(e.Payload[off:]))
			off += 4
		}
		return v
	}
	for i := range 3 {
		t.Vertex[i] = get()
	}
	for i := range 3 {
		t.Color[i] = get()
	}
	for tmu := range len(t.TexCoord[0]) {
		for i := range 3 {
			t.TexCoord[i][tmu] = get()
		}
	}
	return t
}

// Reader decodes a display list.
type Reader struct {
	list *arena.Arena
}

// NewReader creates a reader over an encoded display list that was
// written with the given alignment.
func NewReader(data []byte, align int) *Reader {
	return &Reader{list: arena.FromBytes(data, align)}
}

// Next returns the next entry, or io.EOF at the end of the list.
func (r *Reader) Next() (Entry, error) {
	if r.list.AtEnd() {
		return Entry{}, io.EOF
	}
	b, ok := r.list.Next(4)
	if !ok {
		return Entry{}, ErrMalformed
	}
	e := Entry{Opcode: binary.LittleEndian.Uint32(b)}
	n := PayloadSize(e.Opcode)
	if n < 0 {
		return Entry{}, fmt.Errorf("%w: unknown opcode %#08x", ErrMalformed, e.Opcode)
	}
	if n > 0 {
		if e.Payload, ok = r.list.Next(n); !ok {
			return Entry{}, fmt.Errorf("%w: truncated %v payload", ErrMalformed, e.Class())
		}
	}
	return e, nil
}

// All decodes every entry of a display list.
func All(data []byte, align int) ([]Entry, error) {
	r := NewReader(data, align)
	var entries []Entry
	for {
		e, err := r.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, e)
	}
}

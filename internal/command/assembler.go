package command

import (
	"encoding/binary"

	"github.com/gogpu/rix/internal/arena"
)

// Assembler appends commands to a display list arena.
//
// A command is written completely or not at all: if any part of it does
// not fit, the parts already written are rolled back.
type Assembler struct {
	list     *arena.Arena
	commands int
}

// NewAssembler creates an assembler writing into list.
func NewAssembler(list *arena.Arena) *Assembler {
	return &Assembler{list: list}
}

// entrySize is the arena footprint of an opcode word plus payload.
func (a *Assembler) entrySize(payload int) int {
	n := a.list.SizeOf(4)
	if payload > 0 {
		n += a.list.SizeOf(payload)
	}
	return n
}

// Size returns the number of display list bytes cmd occupies.
func (a *Assembler) Size(cmd Command) int {
	n := a.entrySize(cmd.PayloadSize())
	n += len(cmd.Transfers()) * a.entrySize(8)
	return n
}

// Add appends cmd and its transfer descriptors. It returns false if the
// display list has no room for the whole command.
func (a *Assembler) Add(cmd Command) bool {
	var written []int
	unwind := func() bool {
		for i := len(written) - 1; i >= 0; i-- {
			a.list.Remove(written[i])
		}
		return false
	}
	write := func(op uint32, payload int, serialize func([]byte)) bool {
		b, ok := a.list.Alloc(4)
		if !ok {
			return false
		}
		written = append(written, 4)
		binary.LittleEndian.PutUint32(b, op)
		if payload == 0 {
			return true
		}
		p, ok := a.list.Alloc(payload)
		if !ok {
			return false
		}
		written = append(written, payload)
		serialize(p[:payload])
		return true
	}

	if !write(cmd.Opcode(), cmd.PayloadSize(), cmd.Serialize) {
		return unwind()
	}
	for _, t := range cmd.Transfers() {
		ok := write(uint32(ClassStream)|uint32(t.Op), 8, func(b []byte) {
			binary.LittleEndian.PutUint32(b[0:], t.Addr)
			binary.LittleEndian.PutUint32(b[4:], t.Size)
		})
		if !ok {
			return unwind()
		}
	}
	a.commands++
	return true
}

// Clear empties the display list.
func (a *Assembler) Clear() {
	a.list.Clear()
	a.commands = 0
}

// Len returns the number of bytes written.
func (a *Assembler) Len() int { return a.list.Len() }

// Free returns the number of bytes still available.
func (a *Assembler) Free() int { return a.list.Free() }

// Commands returns the number of commands added since the last Clear.
func (a *Assembler) Commands() int { return a.commands }

// Bytes returns the encoded display list.
func (a *Assembler) Bytes() []byte { return a.list.Bytes() }

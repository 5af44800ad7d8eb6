// Package arena implements the fixed-capacity command arena that backs a
// display list.
//
// An Arena is a bump allocator over a caller-provided byte region. Every
// allocation is rounded up to the arena alignment, which matches the width
// of the bus the arena is streamed over. Once filled, the same region can
// be walked front to back with a read cursor that never passes the write
// cursor.
//
// An Arena has a single writer and, after writing is done, a single reader.
// It is not safe for concurrent use.
//
// Running out of space is reported through return values. Panics are
// reserved for misuse by the caller.
package arena

import "golang.org/x/exp/constraints"

// AlignUp rounds v up to the next multiple of to. to must be a power of two.
func AlignUp[T constraints.Integer](v, to T) T {
	return (v + to - 1) &^ (to - 1)
}

// Arena is an append-only byte region with aligned allocation.
type Arena struct {
	mem      []byte
	align    int
	writePos int
	readPos  int
}

// New creates an empty arena over mem. align must be a power of two.
// The usable capacity is len(mem) rounded down to the alignment.
// A bad alignment is a programming error and panics; renderer options
// are validated before an arena is created.
func New(mem []byte, align int) *Arena {
	if align <= 0 || align&(align-1) != 0 {
		panic("arena: alignment must be a power of two")
	}
	n := len(mem) &^ (align - 1)
	return &Arena{mem: mem[:n:n], align: align}
}

// FromBytes opens an already filled region for reading. The write cursor
// is placed at the end of data.
func FromBytes(data []byte, align int) *Arena {
	a := New(data, align)
	a.writePos = len(a.mem)
	return a
}

// SizeOf returns the number of bytes an allocation of size bytes occupies.
func (a *Arena) SizeOf(size int) int {
	return AlignUp(size, a.align)
}

// Alignment returns the allocation alignment in bytes.
func (a *Arena) Alignment() int { return a.align }

// Alloc reserves size bytes (rounded up to the alignment) and returns the
// zeroed region. ok is false if the arena does not have enough room left;
// the arena is unchanged in that case.
func (a *Arena) Alloc(size int) (b []byte, ok bool) {
	if size < 0 {
		return nil, false
	}
	n := a.SizeOf(size)
	if n+a.writePos > len(a.mem) {
		return nil, false
	}
	b = a.mem[a.writePos : a.writePos+n : a.writePos+n]
	clear(b)
	a.writePos += n
	return b, true
}

// Remove rolls back the most recent allocation of size bytes.
// It does nothing if size exceeds what has been written.
func (a *Arena) Remove(size int) {
	n := a.SizeOf(size)
	if n <= a.writePos {
		a.writePos -= n
		a.readPos = min(a.readPos, a.writePos)
	}
}

// LookAhead returns the next size bytes without advancing the read cursor.
// ok is false if fewer than size bytes remain before the write cursor.
func (a *Arena) LookAhead(size int) (b []byte, ok bool) {
	if size < 0 {
		return nil, false
	}
	n := a.SizeOf(size)
	if n+a.readPos > a.writePos {
		return nil, false
	}
	return a.mem[a.readPos : a.readPos+size], true
}

// Next returns the next size bytes and advances the read cursor by the
// aligned size.
func (a *Arena) Next(size int) (b []byte, ok bool) {
	b, ok = a.LookAhead(size)
	if ok {
		a.readPos += a.SizeOf(size)
	}
	return b, ok
}

// AtEnd reports whether the read cursor reached the write cursor.
func (a *Arena) AtEnd() bool { return a.writePos <= a.readPos }

// ResetRead moves the read cursor back to the start.
func (a *Arena) ResetRead() { a.readPos = 0 }

// Clear resets both cursors. The memory is kept.
func (a *Arena) Clear() {
	a.writePos = 0
	a.readPos = 0
}

// Len returns the number of bytes written.
func (a *Arena) Len() int { return a.writePos }

// Cap returns the capacity in bytes.
func (a *Arena) Cap() int { return len(a.mem) }

// Free returns the number of bytes that can still be allocated.
func (a *Arena) Free() int { return len(a.mem) - a.writePos }

// Bytes returns the written part of the arena. The slice aliases the
// arena memory and is only valid until the next Clear.
func (a *Arena) Bytes() []byte { return a.mem[:a.writePos] }

package rix

import (
	"fmt"
	"sync"
	"testing"

	"github.com/gogpu/rix/internal/command"
)

// fakeDevice records everything the renderer sends.
type fakeDevice struct {
	mu sync.Mutex

	listSize int
	lists    map[int][]byte

	// streamed holds a copy of every streamed list by id, latest last.
	streamed map[int][][]byte
	memory   map[uint32][]byte

	// events logs transfers in order: "stream <id>" and "mem <addr>".
	events []string

	streamErr error
	memErr    error
	notReady  int
}

func newFakeDevice(listSize int) *fakeDevice {
	return &fakeDevice{
		listSize: listSize,
		lists:    make(map[int][]byte),
		streamed: make(map[int][][]byte),
		memory:   make(map[uint32][]byte),
	}
}

func (d *fakeDevice) ClearToSend() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.notReady > 0 {
		d.notReady--
		return false
	}
	return true
}

func (d *fakeDevice) WriteData(data []byte) error { return nil }

func (d *fakeDevice) RequestDisplayListBuffer(id int) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf := make([]byte, d.listSize)
	d.lists[id] = buf
	return buf
}

func (d *fakeDevice) StreamDisplayList(id, size int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.streamErr != nil {
		return d.streamErr
	}
	d.streamed[id] = append(d.streamed[id], append([]byte(nil), d.lists[id][:size]...))
	d.events = append(d.events, fmt.Sprintf("stream %d", id))
	return nil
}

func (d *fakeDevice) WriteToDeviceMemory(addr uint32, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.memErr != nil {
		return d.memErr
	}
	d.memory[addr] = append([]byte(nil), data...)
	d.events = append(d.events, fmt.Sprintf("mem %#x", addr))
	return nil
}

// last decodes the latest streamed copy of list id.
func (d *fakeDevice) last(t *testing.T, id int) []command.Entry {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	copies := d.streamed[id]
	if len(copies) == 0 {
		t.Fatalf("list %d was never streamed", id)
	}
	entries, err := command.All(copies[len(copies)-1], 4)
	if err != nil {
		t.Fatalf("decode list %d: %v", id, err)
	}
	return entries
}

func (d *fakeDevice) streamCount(id int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.streamed[id])
}

// registers returns the register writes of a decoded list in order.
func registers(entries []command.Entry) map[command.Reg][]uint32 {
	regs := make(map[command.Reg][]uint32)
	for _, e := range entries {
		if e.Class() == command.ClassRegister {
			r, v := e.Register()
			regs[r] = append(regs[r], v)
		}
	}
	return regs
}

// count returns the number of entries of a class.
func count(entries []command.Entry, class command.Class) int {
	n := 0
	for _, e := range entries {
		if e.Class() == class {
			n++
		}
	}
	return n
}

// framebufferOps returns the opcodes of the framebuffer entries.
func framebufferOps(entries []command.Entry) []uint32 {
	var ops []uint32
	for _, e := range entries {
		if e.Class() == command.ClassFramebuffer {
			ops = append(ops, e.Opcode)
		}
	}
	return ops
}

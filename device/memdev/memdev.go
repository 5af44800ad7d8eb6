// Package memdev provides an in-memory rix device.
//
// The device keeps the display list buffers the renderer builds into, a
// bounded history of streamed lists and a flat image of device memory.
// It is useful for tests and for inspecting the command stream without
// hardware.
//
// Importing the package registers the device as rix.DeviceMemory:
//
//	import _ "github.com/gogpu/rix/device/memdev"
//
//	dev, err := rix.OpenDevice(rix.DeviceMemory)
package memdev

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/rix"
	"github.com/gogpu/rix/internal/command"
	"github.com/gogpu/rix/internal/ring"
)

func init() {
	rix.RegisterDevice(rix.DeviceMemory, func() (rix.Device, error) {
		return New(), nil
	})
}

var (
	// ErrUnknownList is returned when streaming a list that was never
	// requested.
	ErrUnknownList = errors.New("memdev: unknown display list")

	// ErrOutOfRange is returned for transfers outside the list buffer or
	// device memory.
	ErrOutOfRange = errors.New("memdev: transfer out of range")
)

// Stream is a display list as it was streamed.
type Stream struct {
	ID       int
	Data     []byte
	Commands int
}

// Entries decodes the streamed list.
func (s Stream) Entries(align int) ([]command.Entry, error) {
	return command.All(s.Data, align)
}

// Option configures a Device.
type Option func(*Device)

// WithListSize sets the size of every display list buffer.
func WithListSize(size int) Option {
	return func(d *Device) { d.listSize = size }
}

// WithMemorySize sets the size of device memory.
func WithMemorySize(size int) Option {
	return func(d *Device) { d.memory = make([]byte, size) }
}

// WithHistory sets how many streamed lists are kept.
func WithHistory(n int) Option {
	return func(d *Device) { d.history = ring.New[Stream](n) }
}

// WithAlignment sets the entry alignment used to decode streamed lists.
// It must match the renderer's command stream width in bytes.
func WithAlignment(align int) Option {
	return func(d *Device) { d.align = align }
}

// Device is an in-memory rix.Device. It is safe for concurrent use.
type Device struct {
	mu sync.Mutex

	listSize int
	align    int
	lists    map[int][]byte
	history  *ring.Queue[Stream]
	memory   []byte

	busy     int
	busyLeft int
	written  int
	streamed int
}

// New creates a device with 64 KiB display lists, 8 MiB of memory and a
// history of 64 lists.
func New(opts ...Option) *Device {
	d := &Device{
		listSize: 64 * 1024,
		align:    4,
		lists:    make(map[int][]byte),
		history:  ring.New[Stream](64),
		memory:   make([]byte, 8<<20),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetBusy makes ClearToSend report false polls times before every
// transfer.
func (d *Device) SetBusy(polls int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy = polls
	d.busyLeft = polls
}

// ClearToSend implements rix.Device.
func (d *Device) ClearToSend() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busyLeft > 0 {
		d.busyLeft--
		return false
	}
	return true
}

// WriteData implements rix.Device. The data is only counted.
func (d *Device) WriteData(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeData(data)
	return nil
}

func (d *Device) writeData(data []byte) {
	d.written += len(data)
	d.busyLeft = d.busy
}

// RequestDisplayListBuffer implements rix.Device.
func (d *Device) RequestDisplayListBuffer(id int) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf, ok := d.lists[id]
	if !ok {
		buf = make([]byte, d.listSize)
		d.lists[id] = buf
	}
	return buf
}

// StreamDisplayList implements rix.Device. The list is decoded and kept
// in the history.
func (d *Device) StreamDisplayList(id, size int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf, ok := d.lists[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownList, id)
	}
	if size < 0 || size > len(buf) {
		return fmt.Errorf("%w: list %d size %d", ErrOutOfRange, id, size)
	}
	data := append([]byte(nil), buf[:size]...)
	entries, err := command.All(data, d.align)
	if err != nil {
		return fmt.Errorf("memdev: list %d: %w", id, err)
	}
	d.writeData(data)
	d.history.PushBack(Stream{ID: id, Data: data, Commands: len(entries)})
	d.streamed++
	rix.Logger().Debug("memdev: list streamed", "id", id, "bytes", size, "entries", len(entries))
	return nil
}

// WriteToDeviceMemory implements rix.Device.
func (d *Device) WriteToDeviceMemory(addr uint32, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	end := uint64(addr) + uint64(len(data))
	if end > uint64(len(d.memory)) {
		return fmt.Errorf("%w: %d bytes at %#x", ErrOutOfRange, len(data), addr)
	}
	copy(d.memory[addr:], data)
	d.writeData(data)
	return nil
}

// Memory returns a copy of n bytes of device memory at addr.
func (d *Device) Memory(addr uint32, n int) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	end := min(int(addr)+n, len(d.memory))
	if int(addr) >= end {
		return nil
	}
	return append([]byte(nil), d.memory[addr:end]...)
}

// History returns the kept streams, oldest first.
func (d *Device) History() []Stream {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Stream, 0, d.history.Len())
	for _, s := range d.history.All() {
		out = append(out, s)
	}
	return out
}

// Last returns the most recent stream of list id.
func (d *Device) Last(id int) (Stream, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := d.history.Len() - 1; i >= 0; i-- {
		if s := d.history.At(i); s.ID == id {
			return *s, true
		}
	}
	return Stream{}, false
}

// Streamed returns the number of lists streamed since creation.
func (d *Device) Streamed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.streamed
}

// BytesWritten returns the number of bytes sent over the bus.
func (d *Device) BytesWritten() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.written
}

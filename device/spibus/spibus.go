// Package spibus drives the rasterizer over an SPI bus.
//
// Every transfer is framed by a 9-byte header followed by the payload:
//
//	byte 0     operation (OpStream, OpMemory or OpData)
//	bytes 1-4  display list id or device memory address, little endian
//	bytes 5-8  payload size in bytes, little endian
//
// Readiness comes from a caller-supplied poll, usually a GPIO pin the
// rasterizer drives while its receive FIFO has room.
package spibus

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gogpu/rix"
	"tinygo.org/x/drivers"
)

// Transfer operations.
const (
	OpStream byte = 0x01 // Display list
	OpMemory byte = 0x02 // Device memory write
	OpData   byte = 0x03 // Raw data
)

// HeaderSize is the size of the transfer header.
const HeaderSize = 9

// Option configures a Bus.
type Option func(*Bus)

// WithListSize sets the size of every display list buffer.
func WithListSize(size int) Option {
	return func(b *Bus) { b.listSize = size }
}

// WithMaxChunk limits the bytes handed to a single Tx call.
func WithMaxChunk(n int) Option {
	return func(b *Bus) { b.maxChunk = n }
}

// Bus is a rix.Device on an SPI bus.
type Bus struct {
	mu       sync.Mutex
	spi      drivers.SPI
	ready    func() bool
	lists    map[int][]byte
	listSize int
	maxChunk int
	header   [HeaderSize]byte
}

// New creates a device on spi. ready reports whether the rasterizer
// accepts a transfer; nil means always.
func New(spi drivers.SPI, ready func() bool, opts ...Option) *Bus {
	b := &Bus{
		spi:      spi,
		ready:    ready,
		lists:    make(map[int][]byte),
		listSize: 64 * 1024,
		maxChunk: 4096,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register makes a device on spi available as rix.DeviceSPI.
func Register(spi drivers.SPI, ready func() bool, opts ...Option) {
	rix.RegisterDevice(rix.DeviceSPI, func() (rix.Device, error) {
		return New(spi, ready, opts...), nil
	})
}

// ClearToSend implements rix.Device.
func (b *Bus) ClearToSend() bool {
	return b.ready == nil || b.ready()
}

// WriteData implements rix.Device.
func (b *Bus) WriteData(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transfer(OpData, 0, data)
}

// RequestDisplayListBuffer implements rix.Device.
func (b *Bus) RequestDisplayListBuffer(id int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, ok := b.lists[id]
	if !ok {
		buf = make([]byte, b.listSize)
		b.lists[id] = buf
	}
	return buf
}

// StreamDisplayList implements rix.Device.
func (b *Bus) StreamDisplayList(id, size int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, ok := b.lists[id]
	if !ok || size < 0 || size > len(buf) {
		return fmt.Errorf("spibus: invalid display list %d size %d", id, size)
	}
	return b.transfer(OpStream, uint32(id), buf[:size])
}

// WriteToDeviceMemory implements rix.Device.
func (b *Bus) WriteToDeviceMemory(addr uint32, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transfer(OpMemory, addr, data)
}

// transfer sends the header and then the payload in chunks.
func (b *Bus) transfer(op byte, addr uint32, data []byte) error {
	b.header[0] = op
	binary.LittleEndian.PutUint32(b.header[1:], addr)
	binary.LittleEndian.PutUint32(b.header[5:], uint32(len(data)))
	if err := b.spi.Tx(b.header[:], nil); err != nil {
		return fmt.Errorf("spibus: header: %w", err)
	}
	for len(data) > 0 {
		n := min(len(data), b.maxChunk)
		if err := b.spi.Tx(data[:n], nil); err != nil {
			return fmt.Errorf("spibus: payload: %w", err)
		}
		data = data[n:]
	}
	return nil
}

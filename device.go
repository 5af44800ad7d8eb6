package rix

import (
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"
)

// Device is the bus connection to the rasterizer.
//
// The renderer requests one display list buffer per band and generation
// at creation and builds lists directly in them. Streaming and memory
// writes are only issued after ClearToSend reported true; the renderer
// polls without a timeout, so a device that never becomes ready stalls
// the renderer.
type Device interface {
	// ClearToSend reports whether the device accepts the next transfer.
	ClearToSend() bool

	// WriteData sends raw bytes over the bus.
	WriteData(data []byte) error

	// RequestDisplayListBuffer returns the buffer backing display list id.
	RequestDisplayListBuffer(id int) []byte

	// StreamDisplayList sends the first size bytes of display list id.
	StreamDisplayList(id, size int) error

	// WriteToDeviceMemory stores data at a device memory address.
	WriteToDeviceMemory(addr uint32, data []byte) error
}

// DeviceFactory opens a device.
type DeviceFactory func() (Device, error)

// Device names in selection priority order.
const (
	DeviceSPI    = "spi"
	DeviceMemory = "memory"
)

var devices = gpucontext.NewRegistry[DeviceFactory](
	gpucontext.WithPriority(DeviceSPI, DeviceMemory),
)

// RegisterDevice makes a device available under name.
// This is typically called from init() functions in device packages.
// Registering a name again replaces the previous factory.
func RegisterDevice(name string, factory DeviceFactory) {
	devices.Register(name, func() DeviceFactory { return factory })
}

// UnregisterDevice removes a device from the registry.
func UnregisterDevice(name string) {
	devices.Unregister(name)
}

// Devices returns the registered device names in sorted order.
func Devices() []string {
	names := devices.Available()
	slices.Sort(names)
	return names
}

// OpenDevice opens the device registered under name.
func OpenDevice(name string) (Device, error) {
	factory := devices.Get(name)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDevice, name)
	}
	d, err := factory()
	if err != nil {
		return nil, fmt.Errorf("rix: open device %q: %w", name, err)
	}
	Logger().Info("rix: device opened", "device", name)
	return d, nil
}

// DefaultDevice opens the registered device with the highest priority.
func DefaultDevice() (Device, error) {
	name := devices.BestName()
	if name == "" {
		return nil, fmt.Errorf("%w: none registered", ErrUnknownDevice)
	}
	return OpenDevice(name)
}

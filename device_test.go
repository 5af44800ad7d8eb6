package rix

import (
	"errors"
	"slices"
	"testing"
)

// registerFake registers a fake device under name for the duration of t.
func registerFake(t *testing.T, name string, dev *fakeDevice, err error) {
	t.Helper()
	RegisterDevice(name, func() (Device, error) {
		if err != nil {
			return nil, err
		}
		return dev, nil
	})
	t.Cleanup(func() { UnregisterDevice(name) })
}

func TestOpenDevice(t *testing.T) {
	dev := newFakeDevice(64)
	registerFake(t, "fake", dev, nil)

	got, err := OpenDevice("fake")
	if err != nil {
		t.Fatalf("OpenDevice() error = %v", err)
	}
	if got != Device(dev) {
		t.Errorf("OpenDevice() = %v, want the registered device", got)
	}

	if _, err := OpenDevice("missing"); !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("OpenDevice(missing) error = %v, want %v", err, ErrUnknownDevice)
	}
}

func TestOpenDeviceFactoryError(t *testing.T) {
	openErr := errors.New("no bus")
	registerFake(t, "broken", nil, openErr)
	if _, err := OpenDevice("broken"); !errors.Is(err, openErr) {
		t.Errorf("OpenDevice() error = %v, want %v", err, openErr)
	}
}

func TestRegisterDeviceReplaces(t *testing.T) {
	first, second := newFakeDevice(1), newFakeDevice(2)
	registerFake(t, "fake", first, nil)
	registerFake(t, "fake", second, nil)
	got, err := OpenDevice("fake")
	if err != nil {
		t.Fatalf("OpenDevice() error = %v", err)
	}
	if got != Device(second) {
		t.Error("OpenDevice() returned the replaced device")
	}
}

func TestDevices(t *testing.T) {
	registerFake(t, "zeta", newFakeDevice(1), nil)
	registerFake(t, "alpha", newFakeDevice(1), nil)
	got := Devices()
	if !slices.IsSorted(got) {
		t.Errorf("Devices() = %v, want sorted", got)
	}
	for _, name := range []string{"alpha", "zeta"} {
		if !slices.Contains(got, name) {
			t.Errorf("Devices() = %v, missing %q", got, name)
		}
	}
	UnregisterDevice("zeta")
	if slices.Contains(Devices(), "zeta") {
		t.Error("unregistered device still listed")
	}
}

func TestDefaultDevicePriority(t *testing.T) {
	if _, err := DefaultDevice(); !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("DefaultDevice() with no devices error = %v, want %v", err, ErrUnknownDevice)
	}

	mem, spi := newFakeDevice(1), newFakeDevice(2)
	registerFake(t, DeviceMemory, mem, nil)
	registerFake(t, DeviceSPI, spi, nil)

	got, err := DefaultDevice()
	if err != nil {
		t.Fatalf("DefaultDevice() error = %v", err)
	}
	if got != Device(spi) {
		t.Error("DefaultDevice() did not prefer the spi device")
	}

	UnregisterDevice(DeviceSPI)
	if got, _ := DefaultDevice(); got != Device(mem) {
		t.Error("DefaultDevice() did not fall back to the memory device")
	}
}

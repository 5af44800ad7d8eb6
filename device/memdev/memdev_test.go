package memdev

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/rix"
	"github.com/gogpu/rix/internal/command"
	"github.com/gogpu/rix/texture"
	"github.com/gogpu/rix/vertex"
	"github.com/gogpu/rix/vmath"
)

func TestRegistered(t *testing.T) {
	dev, err := rix.OpenDevice(rix.DeviceMemory)
	if err != nil {
		t.Fatalf("OpenDevice() error = %v", err)
	}
	if _, ok := dev.(*Device); !ok {
		t.Errorf("OpenDevice() = %T, want *memdev.Device", dev)
	}
}

func TestRenderer(t *testing.T) {
	dev := New()
	r, err := rix.NewRenderer(dev,
		rix.WithMaxResolution(64, 64),
		rix.WithInternalFramebufferSize(2048),
		rix.WithDisplayLines(4),
		rix.WithTextureMemory(16, 256),
	)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	id, _ := r.CreateTexture()
	obj, err := texture.Fill(8, 8, texture.RGBA4444, color.NRGBA{R: 255, G: 128, A: 255})
	if err != nil {
		t.Fatalf("texture.Fill() error = %v", err)
	}
	want := append([]byte(nil), obj.Pixels().Bytes()...)
	if err := r.UpdateTexture(id, obj); err != nil {
		t.Fatalf("UpdateTexture() error = %v", err)
	}
	if err := r.UseTexture(0, id); err != nil {
		t.Fatalf("UseTexture() error = %v", err)
	}
	tri := &vertex.Triangle{
		Vertex: [3]vmath.Vec4{{1, 1, 0, 1}, {40, 1, 0, 1}, {1, 40, 0, 1}},
	}
	if err := r.DrawTriangle(tri); err != nil {
		t.Fatalf("DrawTriangle() error = %v", err)
	}
	if err := r.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if got := dev.Streamed(); got != 8 {
		t.Errorf("Streamed() = %d, want 8", got)
	}
	info, ok := r.Texture(id)
	if !ok {
		t.Fatal("Texture() ok = false")
	}
	if got := dev.Memory(info.Pages[0]*256, len(want)); !bytes.Equal(got, want) {
		t.Errorf("texture memory = %x, want %x", got, want)
	}

	// Band 2 starts at y = 32 and the triangle ends at y = 40.
	for id, want := range map[int]int{0: 1, 2: 1, 4: 1, 6: 0} {
		s, ok := dev.Last(id)
		if !ok {
			t.Fatalf("list %d not streamed", id)
		}
		entries, err := s.Entries(4)
		if err != nil {
			t.Fatalf("Entries() error = %v", err)
		}
		n := 0
		for _, e := range entries {
			if e.Class() == command.ClassTriangle {
				n++
			}
		}
		if n != want {
			t.Errorf("list %d triangles = %d, want %d", id, n, want)
		}
		if s.Commands != len(entries) {
			t.Errorf("list %d Commands = %d, want %d", id, s.Commands, len(entries))
		}
	}
	if dev.BytesWritten() <= len(want) {
		t.Errorf("BytesWritten() = %d, want lists and texture counted", dev.BytesWritten())
	}
}

func TestBusy(t *testing.T) {
	dev := New()
	dev.SetBusy(2)
	for i, want := range []bool{false, false, true, true} {
		if got := dev.ClearToSend(); got != want {
			t.Errorf("poll %d ClearToSend() = %v, want %v", i, got, want)
		}
	}
	_ = dev.WriteData([]byte{1, 2, 3})
	if dev.ClearToSend() {
		t.Error("ClearToSend() = true right after a transfer")
	}
}

func TestErrors(t *testing.T) {
	dev := New(WithListSize(64), WithMemorySize(128))
	if err := dev.StreamDisplayList(5, 0); !errors.Is(err, ErrUnknownList) {
		t.Errorf("StreamDisplayList(unknown) error = %v, want %v", err, ErrUnknownList)
	}
	buf := dev.RequestDisplayListBuffer(0)
	if len(buf) != 64 {
		t.Fatalf("buffer size = %d, want 64", len(buf))
	}
	if err := dev.StreamDisplayList(0, 65); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("StreamDisplayList(oversize) error = %v, want %v", err, ErrOutOfRange)
	}
	copy(buf, []byte{0xff, 0xff, 0xff, 0xff})
	if err := dev.StreamDisplayList(0, 4); !errors.Is(err, command.ErrMalformed) {
		t.Errorf("StreamDisplayList(garbage) error = %v, want %v", err, command.ErrMalformed)
	}
	if err := dev.WriteToDeviceMemory(120, make([]byte, 16)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("WriteToDeviceMemory(past end) error = %v, want %v", err, ErrOutOfRange)
	}
	if err := dev.WriteToDeviceMemory(112, []byte{7}); err != nil {
		t.Errorf("WriteToDeviceMemory() error = %v", err)
	}
	if got := dev.Memory(112, 100); len(got) != 16 || got[0] != 7 {
		t.Errorf("Memory(112, 100) = %v, want 16 bytes starting with 7", got)
	}
	if got := dev.Memory(500, 4); got != nil {
		t.Errorf("Memory(500) = %v, want nil", got)
	}
}

func TestHistoryBounded(t *testing.T) {
	dev := New(WithHistory(2))
	for id := range 3 {
		dev.RequestDisplayListBuffer(id)
		if err := dev.StreamDisplayList(id, 0); err != nil {
			t.Fatalf("StreamDisplayList(%d) error = %v", id, err)
		}
	}
	h := dev.History()
	if len(h) != 2 || h[0].ID != 1 || h[1].ID != 2 {
		t.Errorf("History() ids = %v, want [1 2]", h)
	}
	if _, ok := dev.Last(0); ok {
		t.Error("Last(0) found a dropped stream")
	}
	if got := dev.Streamed(); got != 3 {
		t.Errorf("Streamed() = %d, want 3", got)
	}
}

// Package texture describes textures as the rasterizer's texture units
// consume them: power-of-two sized, 16-bit texels, and pixel data owned
// through a reference-counted handle.
package texture

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// MaxSize is the largest supported texture edge in texels.
const MaxSize = 256

var (
	// ErrInvalidSize is returned for dimensions that are not a power of two
	// in [1, MaxSize].
	ErrInvalidSize = errors.New("texture: size must be a power of two up to 256")

	// ErrInvalidFormat is returned for an unknown pixel format.
	ErrInvalidFormat = errors.New("texture: unknown pixel format")

	// ErrDataSize is returned when pixel data does not match the dimensions.
	ErrDataSize = errors.New("texture: pixel data size mismatch")
)

// Object is a texture image with its format and pixel data.
//
// Object implements gpucontext.Texture and gpucontext.TextureUpdater.
type Object struct {
	width  int
	height int
	format PixelFormat
	pixels *Pixels
}

var _ Updatable = (*Object)(nil)

func isPow2(v int) bool { return v > 0 && v&(v-1) == 0 }

func validate(width, height int, format PixelFormat) error {
	if !isPow2(width) || !isPow2(height) || width > MaxSize || height > MaxSize {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if !format.Valid() {
		return ErrInvalidFormat
	}
	return nil
}

// New creates a texture. data may be nil to describe a texture whose
// storage is reserved but not filled; otherwise its length must be
// width*height*format.BytesPerPixel(). The object takes ownership of data.
func New(width, height int, format PixelFormat, data []byte) (*Object, error) {
	if err := validate(width, height, format); err != nil {
		return nil, err
	}
	o := &Object{width: width, height: height, format: format}
	if data != nil {
		if err := o.UpdateData(data); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// NewWithPixels creates a texture that shares an existing pixel handle.
// The object adds its own reference to pixels.
func NewWithPixels(width, height int, format PixelFormat, pixels *Pixels) (*Object, error) {
	if err := validate(width, height, format); err != nil {
		return nil, err
	}
	if pixels != nil && len(pixels.Bytes()) != width*height*format.BytesPerPixel() {
		return nil, fmt.Errorf("%w: got %d bytes", ErrDataSize, len(pixels.Bytes()))
	}
	return &Object{width: width, height: height, format: format, pixels: pixels.Retain()}, nil
}

// Width returns the texture width in texels.
func (o *Object) Width() int { return o.width }

// Height returns the texture height in texels.
func (o *Object) Height() int { return o.height }

// Format returns the pixel format.
func (o *Object) Format() PixelFormat { return o.format }

// Size returns the size of the pixel data in bytes.
func (o *Object) Size() int { return o.width * o.height * o.format.BytesPerPixel() }

// Extent returns the texture dimensions as a single-layer extent.
func (o *Object) Extent() gputypes.Extent3D {
	return gputypes.NewExtent2D(uint32(o.width), uint32(o.height))
}

// Pixels returns the current pixel handle, which may be nil.
// The caller must Retain the handle to keep it beyond the object's
// next UpdateData or Release.
func (o *Object) Pixels() *Pixels { return o.pixels }

// UpdateData replaces the pixel data. Textures already handed to a
// renderer keep the data they were given until they are updated there.
func (o *Object) UpdateData(data []byte) error {
	if len(data) != o.Size() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrDataSize, len(data), o.Size())
	}
	old := o.pixels
	o.pixels = NewPixels(data)
	old.Release()
	return nil
}

// Release drops the object's reference to its pixel data.
func (o *Object) Release() {
	o.pixels.Release()
	o.pixels = nil
}

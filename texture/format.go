package texture

import (
	"encoding/binary"
	"image/color"
)

// PixelFormat is a 16-bit texel layout understood by the texture units.
type PixelFormat uint8

const (
	// RGBA4444 stores 4 bits per channel: r<<12 | g<<8 | b<<4 | a.
	RGBA4444 PixelFormat = iota

	// RGBA5551 stores 5 bits per color channel and a 1-bit alpha:
	// r<<11 | g<<6 | b<<1 | a.
	RGBA5551

	// RGB565 stores 5-6-5 bits of color and no alpha: r<<11 | g<<5 | b.
	RGB565

	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// BytesPerPixel is the number of bytes per texel.
	BytesPerPixel int

	// Bits per channel in r, g, b, a order.
	RedBits, GreenBits, BlueBits, AlphaBits int

	// Shift of each channel inside the 16-bit word.
	RedShift, GreenShift, BlueShift, AlphaShift int
}

// HasAlpha reports whether the format stores an alpha channel.
func (fi FormatInfo) HasAlpha() bool { return fi.AlphaBits > 0 }

var formatInfoTable = [formatCount]FormatInfo{
	RGBA4444: {
		BytesPerPixel: 2,
		RedBits:       4, GreenBits: 4, BlueBits: 4, AlphaBits: 4,
		RedShift: 12, GreenShift: 8, BlueShift: 4, AlphaShift: 0,
	},
	RGBA5551: {
		BytesPerPixel: 2,
		RedBits:       5, GreenBits: 5, BlueBits: 5, AlphaBits: 1,
		RedShift: 11, GreenShift: 6, BlueShift: 1, AlphaShift: 0,
	},
	RGB565: {
		BytesPerPixel: 2,
		RedBits:       5, GreenBits: 6, BlueBits: 5, AlphaBits: 0,
		RedShift: 11, GreenShift: 5, BlueShift: 0, AlphaShift: 0,
	},
}

var formatNames = [formatCount]string{
	RGBA4444: "RGBA4444",
	RGBA5551: "RGBA5551",
	RGB565:   "RGB565",
}

// Valid reports whether f is a known format.
func (f PixelFormat) Valid() bool { return f < formatCount }

// Info returns the format metadata. Unknown formats return the zero value.
func (f PixelFormat) Info() FormatInfo {
	if !f.Valid() {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the texel size in bytes.
func (f PixelFormat) BytesPerPixel() int { return f.Info().BytesPerPixel }

// String returns the format name.
func (f PixelFormat) String() string {
	if !f.Valid() {
		return "Unknown"
	}
	return formatNames[f]
}

func quantize(v uint8, bits int) uint16 {
	return uint16(v) >> (8 - bits)
}

func expand(v uint16, bits int) uint8 {
	if bits == 0 {
		return 0xff
	}
	v &= 1<<bits - 1
	// Replicate the high bits into the low bits so that full scale maps to 0xff.
	out := v << (8 - bits)
	for shift := bits; shift < 8; shift += bits {
		out |= v << (8 - bits) >> shift
	}
	return uint8(out)
}

// Pack converts a non-premultiplied color into a texel.
func (f PixelFormat) Pack(c color.NRGBA) uint16 {
	fi := f.Info()
	v := quantize(c.R, fi.RedBits)<<fi.RedShift |
		quantize(c.G, fi.GreenBits)<<fi.GreenShift |
		quantize(c.B, fi.BlueBits)<<fi.BlueShift
	if fi.AlphaBits > 0 {
		v |= quantize(c.A, fi.AlphaBits) << fi.AlphaShift
	}
	return v
}

// Unpack converts a texel back into a non-premultiplied color.
// Formats without alpha return an opaque color.
func (f PixelFormat) Unpack(v uint16) color.NRGBA {
	fi := f.Info()
	return color.NRGBA{
		R: expand(v>>fi.RedShift, fi.RedBits),
		G: expand(v>>fi.GreenShift, fi.GreenBits),
		B: expand(v>>fi.BlueShift, fi.BlueBits),
		A: expand(v>>fi.AlphaShift, fi.AlphaBits),
	}
}

// PutTexel stores a texel in device byte order.
func PutTexel(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }

// Texel reads a texel in device byte order.
func Texel(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

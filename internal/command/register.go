package command

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rix/texture"
)

// Reg is a register address.
type Reg uint32

// Register addresses.
const (
	RegFeatureEnable     Reg = 0x0
	RegClearColor        Reg = 0x1
	RegClearDepth        Reg = 0x2
	RegTexEnvColor       Reg = 0x3
	RegFogColor          Reg = 0x5
	RegScissorStart      Reg = 0x6
	RegScissorEnd        Reg = 0x7
	RegYOffset           Reg = 0x8
	RegRenderResolution  Reg = 0x9
	RegColorBufferAddr   Reg = 0xa
	RegDepthBufferAddr   Reg = 0xb
	RegStencilBufferAddr Reg = 0xc
	RegTMUConfig0        Reg = 0x10
)

var regNames = map[Reg]string{
	RegFeatureEnable:     "FeatureEnable",
	RegClearColor:        "ClearColor",
	RegClearDepth:        "ClearDepth",
	RegTexEnvColor:       "TexEnvColor",
	RegFogColor:          "FogColor",
	RegScissorStart:      "ScissorStart",
	RegScissorEnd:        "ScissorEnd",
	RegYOffset:           "YOffset",
	RegRenderResolution:  "RenderResolution",
	RegColorBufferAddr:   "ColorBufferAddr",
	RegDepthBufferAddr:   "DepthBufferAddr",
	RegStencilBufferAddr: "StencilBufferAddr",
	RegTMUConfig0:        "TMUConfig0",
	RegTMUConfig0 + 1:    "TMUConfig1",
}

// String returns the register name.
func (r Reg) String() string {
	if name, ok := regNames[r]; ok {
		return name
	}
	return "Unknown"
}

// RegTMUConfig returns the configuration register of a texture unit.
func RegTMUConfig(tmu int) Reg { return RegTMUConfig0 + Reg(tmu) }

// WriteRegister sets a register to a 32-bit value.
type WriteRegister struct {
	Addr  Reg
	Value uint32
}

func (c WriteRegister) Opcode() uint32        { return uint32(ClassRegister) | uint32(c.Addr) }
func (c WriteRegister) PayloadSize() int      { return 4 }
func (c WriteRegister) Transfers() []Transfer { return nil }

func (c WriteRegister) Serialize(b []byte) {
	binary.LittleEndian.PutUint32(b, c.Value)
}

// XY register field masks.
const (
	XMask = 0x7ff
	YMask = 0x7ff
)

// XY packs a coordinate pair: x in bits 0..10, y in bits 16..26.
func XY(x, y int) uint32 {
	return uint32(x)&XMask | (uint32(y)&YMask)<<16
}

// SplitXY is the inverse of XY.
func SplitXY(v uint32) (x, y int) {
	return int(v & XMask), int(v >> 16 & YMask)
}

func channel(v float64) uint32 {
	return uint32(math.Round(min(max(v, 0), 1) * 255))
}

// ColorValue packs a color with red in the most significant byte and
// alpha in the least significant byte.
func ColorValue(c gputypes.Color) uint32 {
	return channel(c.R)<<24 | channel(c.G)<<16 | channel(c.B)<<8 | channel(c.A)
}

// Features is the bit set written to RegFeatureEnable.
type Features uint32

const (
	FeatureFog Features = 1 << iota
	FeatureBlending
	FeatureDepthTest
	FeatureAlphaTest
	FeatureStencil
	FeatureScissor
	FeatureTMU0
	FeatureTMU1
)

// FeatureTMU returns the enable bit of a texture unit.
func FeatureTMU(tmu int) Features { return FeatureTMU0 << tmu }

// TMUConfig is the value written to a texture unit configuration register.
type TMUConfig struct {
	Width   int
	Height  int
	Format  texture.PixelFormat
	Sampler texture.Sampler
}

func log2(v int) uint32 {
	var n uint32
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}

// Value packs the configuration:
//
//	bits 0..3   log2(width)
//	bits 4..7   log2(height)
//	bit  8      clamp S
//	bit  9      clamp T
//	bit  10     linear magnification
//	bit  11     linear minification
//	bits 12..15 pixel format
func (c TMUConfig) Value() uint32 {
	v := log2(c.Width) | log2(c.Height)<<4
	if texture.Clamps(c.Sampler.WrapS) {
		v |= 1 << 8
	}
	if texture.Clamps(c.Sampler.WrapT) {
		v |= 1 << 9
	}
	if texture.Filters(c.Sampler.MagFilter) {
		v |= 1 << 10
	}
	if texture.Filters(c.Sampler.MinFilter) {
		v |= 1 << 11
	}
	return v | uint32(c.Format)<<12
}

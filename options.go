package rix

import (
	"fmt"

	"github.com/gogpu/rix/internal/command"
)

// Config holds the renderer configuration.
// Build it with DefaultConfig and Option values.
type Config struct {
	// DisplayLines is the maximum number of bands.
	DisplayLines int

	// DisplayListSize is the minimum size in bytes of every display list
	// buffer the device provides.
	DisplayListSize int

	// InternalFramebufferSize is the size in bytes of the rasterizer's
	// on-chip framebuffer. A band never holds more pixels than fit in it.
	InternalFramebufferSize int

	// CmdStreamWidth is the bus width in bits. Display list entries are
	// aligned to CmdStreamWidth/8 bytes.
	CmdStreamWidth int

	// TexturePages and TexturePageSize describe device texture memory.
	TexturePages    int
	TexturePageSize int

	// TextureSlots is the number of texture slots and texture IDs.
	TextureSlots int

	// MaxWidth and MaxHeight bound the render resolution. The renderer
	// starts at this resolution.
	MaxWidth  int
	MaxHeight int

	// ColorBuffers holds the device addresses of the color buffers.
	// Index 0 is shown when the renderer is closed; frames alternate
	// between indices 1 and 2.
	ColorBuffers [3]uint32

	DepthBufferAddr   uint32
	StencilBufferAddr uint32

	// TMUs is the number of texture units in use.
	TMUs int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DisplayLines:            10,
		DisplayListSize:         64 * 1024,
		InternalFramebufferSize: 64 * 1024,
		CmdStreamWidth:          32,
		TexturePages:            64,
		TexturePageSize:         4096,
		TextureSlots:            64,
		MaxWidth:                640,
		MaxHeight:               480,
		ColorBuffers:            [3]uint32{0x0010_0000, 0x0020_0000, 0x0030_0000},
		DepthBufferAddr:         0x0040_0000,
		StencilBufferAddr:       0x0050_0000,
		TMUs:                    2,
	}
}

// validate reports the first invalid field.
func (c Config) validate() error {
	switch {
	case c.DisplayLines < 1:
		return fmt.Errorf("%w: DisplayLines = %d", ErrInvalidConfig, c.DisplayLines)
	case c.DisplayListSize < 64:
		return fmt.Errorf("%w: DisplayListSize = %d", ErrInvalidConfig, c.DisplayListSize)
	case c.InternalFramebufferSize < 2:
		return fmt.Errorf("%w: InternalFramebufferSize = %d", ErrInvalidConfig, c.InternalFramebufferSize)
	case c.CmdStreamWidth < 32 || c.CmdStreamWidth&(c.CmdStreamWidth-1) != 0:
		return fmt.Errorf("%w: CmdStreamWidth = %d", ErrInvalidConfig, c.CmdStreamWidth)
	case c.TexturePages < 1 || c.TexturePageSize < 1:
		return fmt.Errorf("%w: texture memory %d x %d", ErrInvalidConfig, c.TexturePages, c.TexturePageSize)
	case c.TextureSlots < 2:
		return fmt.Errorf("%w: TextureSlots = %d", ErrInvalidConfig, c.TextureSlots)
	case c.MaxWidth < 1 || c.MaxHeight < 1:
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalidConfig, c.MaxWidth, c.MaxHeight)
	case c.MaxWidth > command.XMask || c.MaxHeight > command.YMask:
		return fmt.Errorf("%w: resolution %dx%d exceeds %dx%d",
			ErrInvalidConfig, c.MaxWidth, c.MaxHeight, command.XMask, command.YMask)
	case c.TMUs < 1 || c.TMUs > maxTMUs:
		return fmt.Errorf("%w: TMUs = %d", ErrInvalidConfig, c.TMUs)
	}
	return nil
}

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := rix.NewRenderer(dev,
//	    rix.WithMaxResolution(320, 240),
//	    rix.WithDisplayLines(4),
//	)
type Option func(*Config)

// WithDisplayLines sets the maximum number of bands.
func WithDisplayLines(n int) Option {
	return func(c *Config) {
		c.DisplayLines = n
	}
}

// WithDisplayListSize sets the minimum display list buffer size in bytes.
func WithDisplayListSize(size int) Option {
	return func(c *Config) {
		c.DisplayListSize = size
	}
}

// WithInternalFramebufferSize sets the on-chip framebuffer size in bytes.
func WithInternalFramebufferSize(size int) Option {
	return func(c *Config) {
		c.InternalFramebufferSize = size
	}
}

// WithCmdStreamWidth sets the bus width in bits.
func WithCmdStreamWidth(bits int) Option {
	return func(c *Config) {
		c.CmdStreamWidth = bits
	}
}

// WithTextureMemory sets the number and size of texture pages.
func WithTextureMemory(pages, pageSize int) Option {
	return func(c *Config) {
		c.TexturePages = pages
		c.TexturePageSize = pageSize
	}
}

// WithTextureSlots sets the number of texture slots.
func WithTextureSlots(n int) Option {
	return func(c *Config) {
		c.TextureSlots = n
	}
}

// WithMaxResolution sets the initial and maximum render resolution.
func WithMaxResolution(width, height int) Option {
	return func(c *Config) {
		c.MaxWidth = width
		c.MaxHeight = height
	}
}

// WithBufferAddresses sets the device addresses of the framebuffers.
func WithBufferAddresses(color0, color1, color2, depth, stencil uint32) Option {
	return func(c *Config) {
		c.ColorBuffers = [3]uint32{color0, color1, color2}
		c.DepthBufferAddr = depth
		c.StencilBufferAddr = stencil
	}
}

// WithTMUCount sets the number of texture units in use.
func WithTMUCount(n int) Option {
	return func(c *Config) {
		c.TMUs = n
	}
}

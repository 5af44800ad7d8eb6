package rix

import (
	"errors"

	"github.com/gogpu/rix/internal/texmem"
	"github.com/gogpu/rix/vertex"
)

var (
	// ErrDisplayListFull is returned when a command does not fit into the
	// display list of a band. The frame can still be committed.
	ErrDisplayListFull = errors.New("rix: display list full")

	// ErrTooManyBands is returned by SetRenderResolution when the
	// resolution needs more bands than configured.
	ErrTooManyBands = errors.New("rix: resolution needs too many display lines")

	// ErrInvalidResolution is returned for empty resolutions or ones
	// above the configured maximum.
	ErrInvalidResolution = errors.New("rix: invalid resolution")

	// ErrInvalidConfig is returned by NewRenderer for unusable options.
	ErrInvalidConfig = errors.New("rix: invalid config")

	// ErrDisplayListBuffer is returned by NewRenderer when the device
	// provides a display list buffer smaller than DisplayListSize.
	ErrDisplayListBuffer = errors.New("rix: display list buffer too small")

	// ErrUnknownDevice is returned by OpenDevice for unregistered names.
	ErrUnknownDevice = errors.New("rix: unknown device")

	// ErrFlushUnsupported is returned by Flush when the screen is split
	// into more than one band.
	ErrFlushUnsupported = errors.New("rix: flush needs a single display line")

	// ErrClosed is returned by operations on a closed Renderer.
	ErrClosed = errors.New("rix: renderer closed")

	// ErrInvalidTMU is returned for texture unit indices out of range.
	ErrInvalidTMU = errors.New("rix: invalid texture unit")
)

// Errors reported by the texture memory manager and the vertex pipeline.
var (
	ErrNoTextureID        = texmem.ErrNoFreeID
	ErrNoTextureSlot      = texmem.ErrNoFreeSlot
	ErrOutOfTextureMemory = texmem.ErrOutOfMemory
	ErrInvalidTexture     = texmem.ErrInvalidID
	ErrStackOverflow      = vertex.ErrStackOverflow
	ErrStackUnderflow     = vertex.ErrStackUnderflow
)

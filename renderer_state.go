package rix

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rix/internal/command"
)

// Features is a set of rasterizer features enabled with SetFeatures.
type Features = command.Features

// Rasterizer features.
const (
	FeatureFog       = command.FeatureFog
	FeatureBlending  = command.FeatureBlending
	FeatureDepthTest = command.FeatureDepthTest
	FeatureAlphaTest = command.FeatureAlphaTest
	FeatureStencil   = command.FeatureStencil
	FeatureScissor   = command.FeatureScissor
	FeatureTMU0      = command.FeatureTMU0
	FeatureTMU1      = command.FeatureTMU1
)

var (
	colorTransparent = gputypes.Color{}
	colorWhite       = gputypes.Color{R: 1, G: 1, B: 1, A: 1}
)

// SetClearColor sets the color used by Clear.
func (r *Renderer) SetClearColor(c gputypes.Color) error {
	return r.writeReg(command.RegClearColor, command.ColorValue(c))
}

// SetClearDepth sets the depth used by Clear. 65535 is the far plane.
func (r *Renderer) SetClearDepth(depth uint16) error {
	return r.writeReg(command.RegClearDepth, uint32(depth))
}

// SetFogColor sets the color fragments blend towards with fog enabled.
func (r *Renderer) SetFogColor(c gputypes.Color) error {
	return r.writeReg(command.RegFogColor, command.ColorValue(c))
}

// SetTexEnvColor sets the constant color of the texture environment.
func (r *Renderer) SetTexEnvColor(c gputypes.Color) error {
	return r.writeReg(command.RegTexEnvColor, command.ColorValue(c))
}

// SetFeatures replaces the set of enabled rasterizer features.
// Enabling FeatureScissor also restricts DrawTriangle and Clear to the
// scissor box.
func (r *Renderer) SetFeatures(f Features) error {
	if err := r.writeReg(command.RegFeatureEnable, uint32(f)); err != nil {
		return err
	}
	r.features = f
	r.scissorEnabled = f&FeatureScissor != 0
	return nil
}

// Features returns the enabled rasterizer features.
func (r *Renderer) Features() Features { return r.features }

// SetScissorBox sets the scissor rectangle in window coordinates,
// origin at the bottom left.
func (r *Renderer) SetScissorBox(x, y, width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("rix: invalid scissor box %dx%d", width, height)
	}
	box := command.Rect{X0: x, Y0: y, X1: x + width, Y1: y + height}
	if err := r.writeReg(command.RegScissorStart, command.XY(box.X0, box.Y0)); err != nil {
		return err
	}
	if err := r.writeReg(command.RegScissorEnd, command.XY(box.X1, box.Y1)); err != nil {
		return err
	}
	r.scissor = box
	return nil
}

// SetVSync selects whether buffer swaps wait for vertical blank.
// It takes effect with the next Commit.
func (r *Renderer) SetVSync(enabled bool) { r.vsync = enabled }

// SetRenderResolution changes the render resolution.
//
// The screen is split into the fewest bands whose pixels fit into the
// on-chip framebuffer. If that takes more than the configured display
// lines, ErrTooManyBands is returned and the resolution is unchanged.
// Every band is height/bands lines tall. When height does not divide
// evenly, the remaining bottom rows are not rendered: triangles there
// count as offscreen and Clear does not reach them.
// Triangles recorded before a change of the band layout stay in the
// bands they were binned into, so the resolution should be set before
// drawing.
func (r *Renderer) SetRenderResolution(width, height int) error {
	if r.closed {
		return ErrClosed
	}
	if width < 1 || height < 1 || width > r.cfg.MaxWidth || height > r.cfg.MaxHeight {
		return fmt.Errorf("%w: %dx%d", ErrInvalidResolution, width, height)
	}
	fb := r.cfg.InternalFramebufferSize
	lines := (width*height*command.BytesPerPixel + fb - 1) / fb
	if lines > r.cfg.DisplayLines {
		return fmt.Errorf("%w: %dx%d needs %d, have %d",
			ErrTooManyBands, width, height, lines, r.cfg.DisplayLines)
	}
	bandHeight := height / lines

	relayout := lines != r.lines || bandHeight != r.bandHeight
	r.width, r.height = width, height
	r.lines, r.bandHeight = lines, bandHeight
	if relayout {
		Logger().Info("rix: band layout changed",
			"width", width, "height", height, "bands", lines, "band_height", bandHeight)
		if err := r.primeBack(); err != nil {
			return err
		}
	}
	return r.writeReg(command.RegRenderResolution, command.XY(width, bandHeight))
}

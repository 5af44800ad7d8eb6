package texture

import "github.com/gogpu/gputypes"

// Sampler holds the per-texture addressing and filtering state.
//
// The texture units support ClampToEdge and Repeat addressing and
// Nearest or Linear filtering. Other modes are mapped to the closest
// supported one when the unit is configured.
type Sampler struct {
	WrapS     gputypes.AddressMode
	WrapT     gputypes.AddressMode
	MagFilter gputypes.FilterMode
	MinFilter gputypes.FilterMode
}

// DefaultSampler returns the state a new texture starts with: repeat on
// both axes, linear magnification and nearest minification.
func DefaultSampler() Sampler {
	return Sampler{
		WrapS:     gputypes.AddressModeRepeat,
		WrapT:     gputypes.AddressModeRepeat,
		MagFilter: gputypes.FilterModeLinear,
		MinFilter: gputypes.FilterModeNearest,
	}
}

// Descriptor returns the sampler as a gputypes descriptor.
func (s Sampler) Descriptor() gputypes.SamplerDescriptor {
	return gputypes.SamplerDescriptor{
		AddressModeU: s.WrapS,
		AddressModeV: s.WrapT,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    s.MagFilter,
		MinFilter:    s.MinFilter,
	}
}

// Clamps reports whether the mode clamps instead of repeating.
func Clamps(m gputypes.AddressMode) bool {
	return m == gputypes.AddressModeClampToEdge
}

// Filters reports whether the mode interpolates between texels.
func Filters(m gputypes.FilterMode) bool {
	return m == gputypes.FilterModeLinear
}

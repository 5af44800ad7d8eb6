package rix

import (
	"math"

	"github.com/gogpu/rix/internal/command"
)

// FogLUTSize is the number of samples of the fog function.
const FogLUTSize = command.FogLUTEntries

// FogMode selects the fog function computed by FogTable.
type FogMode uint8

const (
	// FogNone keeps fragments unfogged at every depth.
	FogNone FogMode = iota

	// FogLinear fades linearly between start and end.
	FogLinear

	// FogExp is e^(-density*z).
	FogExp

	// FogExp2 is e^(-(density*z)^2).
	FogExp2
)

var fogModeNames = [...]string{
	FogNone:   "None",
	FogLinear: "Linear",
	FogExp:    "Exp",
	FogExp2:   "Exp2",
}

// String returns the mode name.
func (m FogMode) String() string {
	if int(m) < len(fogModeNames) {
		return fogModeNames[m]
	}
	return "Unknown"
}

// FogTable samples a fog function for SetFogLUT. Sample i is the fog
// factor at eye distance 2^i, clamped to [0, 1]; 1 means no fog.
func FogTable(mode FogMode, start, end, density float32) [FogLUTSize]float32 {
	var lut [FogLUTSize]float32
	for i := range lut {
		z := math.Ldexp(1, i)
		var f float64
		switch mode {
		case FogLinear:
			if end == start {
				f = 1
				if z >= float64(end) {
					f = 0
				}
				break
			}
			f = (float64(end) - z) / float64(end-start)
		case FogExp:
			f = math.Exp(-float64(density) * z)
		case FogExp2:
			d := float64(density) * z
			f = math.Exp(-d * d)
		default:
			f = 1
		}
		lut[i] = float32(min(max(f, 0), 1))
	}
	return lut
}

// fixed converts to the rasterizer's signed 2.30 fixed point format.
func fixed(f float32) uint64 {
	return uint64(uint32(int32(float64(f) * (1 << 30))))
}

// packFogLUT encodes the fog table. The first entry holds the depth
// range, start raised to at least 1. Every following entry holds the
// slope towards the next sample in the low word and the sample in the
// high word.
func packFogLUT(lut [FogLUTSize]float32, start, end float32) command.FogLUT {
	var c command.FogLUT
	c[0] = uint64(math.Float32bits(max(start, 1))) | uint64(math.Float32bits(end))<<32
	for i := range FogLUTSize - 1 {
		step := (lut[i+1] - lut[i]) / 256
		c[i+1] = fixed(step) | fixed(lut[i])<<32
	}
	return c
}

// SetFogLUT loads a fog function sampled at eye distances 2^i.
// Distances below start are unfogged; end bounds the table.
func (r *Renderer) SetFogLUT(lut [FogLUTSize]float32, start, end float32) error {
	c := packFogLUT(lut, start, end)
	return r.addAll(&c)
}

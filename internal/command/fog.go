package command

import "encoding/binary"

// FogLUTEntries is the number of 64-bit entries in the fog lookup table.
const FogLUTEntries = 33

// FogLUT uploads the fog function lookup table.
type FogLUT [FogLUTEntries]uint64

func (c *FogLUT) Opcode() uint32        { return uint32(ClassFogLUT) }
func (c *FogLUT) PayloadSize() int      { return FogLUTEntries * 8 }
func (c *FogLUT) Transfers() []Transfer { return nil }

func (c *FogLUT) Serialize(b []byte) {
	for i, v := range c {
		binary.LittleEndian.PutUint64(b[i*8:], v)
	}
}

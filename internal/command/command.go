// Package command encodes the rasterizer's display list format.
//
// A display list is a sequence of entries. Each entry starts with a 32-bit
// opcode word whose top nibble is the command class; the remaining bits
// carry sub-operation flags or a register address. The opcode is followed
// by a class-specific payload. Opcode and payload are each padded to the
// bus width. All words are little endian.
//
// Bulk data that should not travel inline (texture pages, framebuffer
// commits) is described by stream entries that follow the command they
// belong to: the device's stream engine executes them as DMA transfers.
package command

// Class is the command class stored in the top nibble of an opcode.
type Class uint32

const (
	ClassNop         Class = 0x0000_0000 // No operation
	ClassRegister    Class = 0x1000_0000 // Register write, address in the low bits
	ClassFramebuffer Class = 0x2000_0000 // Framebuffer memset, commit and swap
	ClassTriangle    Class = 0x3000_0000 // Triangle, payload word count in the low bits
	ClassFogLUT      Class = 0x4000_0000 // Fog lookup table upload
	ClassTexture     Class = 0x5000_0000 // Texture stream into a texture unit
	ClassStream      Class = 0x7000_0000 // Bulk transfer descriptor

	classMask uint32 = 0xf000_0000
)

var classNames = map[Class]string{
	ClassNop:         "Nop",
	ClassRegister:    "Register",
	ClassFramebuffer: "Framebuffer",
	ClassTriangle:    "Triangle",
	ClassFogLUT:      "FogLUT",
	ClassTexture:     "Texture",
	ClassStream:      "Stream",
}

// ClassOf extracts the class of an opcode.
func ClassOf(op uint32) Class { return Class(op & classMask) }

// String returns the class name.
func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "Unknown"
}

// StreamOp selects what the stream engine does with a transfer.
type StreamOp uint32

const (
	StreamLoad           StreamOp = 1 // Load device memory into the consumer named by the command
	StreamStore          StreamOp = 2 // Store into device memory
	StreamCommitToStream StreamOp = 3 // Send a framebuffer region back over the bus
	StreamCommitToMemory StreamOp = 4 // Write a framebuffer region into device memory
)

var streamOpNames = [...]string{
	StreamLoad:           "Load",
	StreamStore:          "Store",
	StreamCommitToStream: "CommitToStream",
	StreamCommitToMemory: "CommitToMemory",
}

// String returns the operation name.
func (o StreamOp) String() string {
	if o > 0 && int(o) < len(streamOpNames) {
		return streamOpNames[o]
	}
	return "Unknown"
}

// Transfer describes a bulk transfer executed alongside a command.
type Transfer struct {
	Op   StreamOp
	Addr uint32
	Size uint32
}

// Command is the interface implemented by all display list commands.
type Command interface {
	// Opcode returns the class OR'd with the sub-operation bits.
	Opcode() uint32

	// PayloadSize returns the number of inline payload bytes.
	PayloadSize() int

	// Serialize writes the payload into b, which has PayloadSize bytes.
	Serialize(b []byte)

	// Transfers returns the bulk transfers belonging to the command.
	Transfers() []Transfer
}

// PayloadSize returns the inline payload size implied by an opcode, or -1
// for an unknown class.
func PayloadSize(op uint32) int {
	switch ClassOf(op) {
	case ClassNop, ClassTexture:
		return 0
	case ClassRegister, ClassFramebuffer:
		return 4
	case ClassTriangle:
		return int(op&0xffff) * 4
	case ClassFogLUT:
		return FogLUTEntries * 8
	case ClassStream:
		return 8
	}
	return -1
}

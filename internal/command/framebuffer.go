package command

import "encoding/binary"

// Framebuffer opcode flags.
const (
	FramebufferCommit  uint32 = 0x01
	FramebufferMemset  uint32 = 0x02
	FramebufferSwap    uint32 = 0x04
	FramebufferVSync   uint32 = 0x08
	FramebufferColor   uint32 = 0x10
	FramebufferDepth   uint32 = 0x20
	FramebufferStencil uint32 = 0x40
)

// Framebuffer operates on the on-chip buffers of the current band.
//
// Memset clears the selected buffers to their clear values. Commit writes
// the band's color buffer to device memory at CommitAddr; the commit is
// executed by the stream engine and therefore shows up as a transfer.
// Swap presents the color buffer at the address last written to
// RegColorBufferAddr, optionally synchronized to vertical blank.
type Framebuffer struct {
	Color   bool
	Depth   bool
	Stencil bool

	Memset bool
	Commit bool
	Swap   bool
	VSync  bool

	// Pixels is the number of pixels the operation covers.
	Pixels uint32

	// CommitAddr is the device memory destination of a commit.
	CommitAddr uint32
}

// BytesPerPixel of the color buffer.
const BytesPerPixel = 2

func (c Framebuffer) Opcode() uint32 {
	op := uint32(ClassFramebuffer)
	flags := []struct {
		set bool
		bit uint32
	}{
		{c.Commit, FramebufferCommit},
		{c.Memset, FramebufferMemset},
		{c.Swap, FramebufferSwap},
		{c.VSync, FramebufferVSync},
		{c.Color, FramebufferColor},
		{c.Depth, FramebufferDepth},
		{c.Stencil, FramebufferStencil},
	}
	for _, f := range flags {
		if f.set {
			op |= f.bit
		}
	}
	return op
}

func (c Framebuffer) PayloadSize() int { return 4 }

func (c Framebuffer) Serialize(b []byte) {
	binary.LittleEndian.PutUint32(b, c.Pixels)
}

func (c Framebuffer) Transfers() []Transfer {
	if !c.Commit {
		return nil
	}
	return []Transfer{{
		Op:   StreamCommitToMemory,
		Addr: c.CommitAddr,
		Size: c.Pixels * BytesPerPixel,
	}}
}

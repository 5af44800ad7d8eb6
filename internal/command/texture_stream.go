package command

// TextureStream loads a texture from device memory pages into a texture
// unit. The pages are listed in order; each becomes one load transfer.
type TextureStream struct {
	TMU      int
	Size     int // texture size in bytes, a power of two
	PageSize int
	Pages    []uint32
}

func (c TextureStream) Opcode() uint32 {
	return uint32(ClassTexture) | log2(c.Size) | uint32(c.TMU)<<8
}

func (c TextureStream) PayloadSize() int { return 0 }
func (c TextureStream) Serialize([]byte) {}

func (c TextureStream) Transfers() []Transfer {
	t := make([]Transfer, 0, len(c.Pages))
	remaining := c.Size
	for _, page := range c.Pages {
		n := min(c.PageSize, remaining)
		t = append(t, Transfer{
			Op:   StreamLoad,
			Addr: page * uint32(c.PageSize),
			Size: uint32(n),
		})
		remaining -= n
	}
	return t
}

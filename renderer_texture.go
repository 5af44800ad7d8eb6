package rix

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rix/internal/command"
	"github.com/gogpu/rix/internal/texmem"
	"github.com/gogpu/rix/texture"
)

// TextureID identifies a texture. The zero ID is never allocated.
type TextureID = texmem.ID

// TextureInfo describes where a texture lives in device memory.
type TextureInfo = texmem.Info

// TextureStats summarizes texture memory usage.
type TextureStats = texmem.Stats

// CreateTexture allocates a texture ID. The texture has no contents
// until UpdateTexture is called.
func (r *Renderer) CreateTexture() (TextureID, error) {
	return r.textures.Create()
}

// UpdateTexture replaces the contents of a texture. The pixels are
// uploaded to the device with the next Commit or Flush. Frames recorded
// before the update keep sampling the previous contents.
func (r *Renderer) UpdateTexture(id TextureID, obj *texture.Object) error {
	return r.textures.Update(id, obj)
}

// DeleteTexture releases a texture ID. Its device memory is reclaimed
// after the next upload.
func (r *Renderer) DeleteTexture(id TextureID) error {
	for tmu, bound := range r.bound {
		if bound == id {
			r.bound[tmu] = 0
		}
	}
	return r.textures.Delete(id)
}

// Texture returns the state of a texture. ok is false if the texture
// has no contents.
func (r *Renderer) Texture(id TextureID) (info TextureInfo, ok bool) {
	return r.textures.Info(id)
}

// TextureStats returns texture memory usage.
func (r *Renderer) TextureStats() TextureStats { return r.textures.Stats() }

func (r *Renderer) checkTMU(tmu int) error {
	if tmu < 0 || tmu >= r.cfg.TMUs {
		return fmt.Errorf("%w: %d", ErrInvalidTMU, tmu)
	}
	return nil
}

// UseTexture binds a texture to a texture unit for the triangles that
// follow. Every band streams the texture pages into the unit and
// configures it with the texture's size, format and sampler state.
func (r *Renderer) UseTexture(tmu int, id TextureID) error {
	if err := r.checkTMU(tmu); err != nil {
		return err
	}
	info, ok := r.textures.Info(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidTexture, id)
	}
	err := r.addAll(command.TextureStream{
		TMU:      tmu,
		Size:     info.Size,
		PageSize: r.textures.PageSize(),
		Pages:    info.Pages,
	})
	if err != nil {
		return err
	}
	r.bound[tmu] = id
	return r.writeTMUConfig(tmu, info)
}

func (r *Renderer) writeTMUConfig(tmu int, info TextureInfo) error {
	cfg := command.TMUConfig{
		Width:   info.Width,
		Height:  info.Height,
		Format:  info.Format,
		Sampler: info.Sampler,
	}
	return r.writeReg(command.RegTMUConfig(tmu), cfg.Value())
}

// setSampler changes the sampler state of the texture bound to tmu and
// reconfigures the unit.
func (r *Renderer) setSampler(tmu int, set func(id TextureID) error) error {
	if err := r.checkTMU(tmu); err != nil {
		return err
	}
	id := r.bound[tmu]
	if err := set(id); err != nil {
		return err
	}
	info, ok := r.textures.Info(id)
	if !ok {
		return nil
	}
	return r.writeTMUConfig(tmu, info)
}

// SetTextureWrapModeS sets the horizontal addressing mode of the
// texture bound to tmu.
func (r *Renderer) SetTextureWrapModeS(tmu int, mode gputypes.AddressMode) error {
	return r.setSampler(tmu, func(id TextureID) error { return r.textures.SetWrapS(id, mode) })
}

// SetTextureWrapModeT sets the vertical addressing mode of the texture
// bound to tmu.
func (r *Renderer) SetTextureWrapModeT(tmu int, mode gputypes.AddressMode) error {
	return r.setSampler(tmu, func(id TextureID) error { return r.textures.SetWrapT(id, mode) })
}

// SetTextureMagFilter sets the magnification filter of the texture
// bound to tmu.
func (r *Renderer) SetTextureMagFilter(tmu int, mode gputypes.FilterMode) error {
	return r.setSampler(tmu, func(id TextureID) error { return r.textures.SetMagFilter(id, mode) })
}

// SetTextureMinFilter sets the minification filter of the texture bound
// to tmu.
func (r *Renderer) SetTextureMinFilter(tmu int, mode gputypes.FilterMode) error {
	return r.setSampler(tmu, func(id TextureID) error { return r.textures.SetMinFilter(id, mode) })
}

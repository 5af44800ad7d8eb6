// Package texmem manages the rasterizer's texture memory.
//
// Device texture memory is divided into fixed-size pages. A texture lives
// in a slot that owns an ordered list of pages. Applications refer to
// textures by ID; an indirection table maps IDs to slots so that a texture
// can move to a fresh slot whenever its contents change.
//
// Slots are never overwritten while a display list that has not been fully
// streamed may still reference their pages. Replacing or deleting a
// texture only marks the old slot for deletion; its pages return to the
// free pool in the garbage pass that follows the next upload.
//
// A Manager is owned by the goroutine that builds display lists and is not
// safe for concurrent use.
package texmem

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rix/texture"
)

// ID identifies a texture. ID 0 means "no texture" and is never allocated.
type ID uint16

var (
	// ErrNoFreeID is returned by Create when every ID is in use.
	ErrNoFreeID = errors.New("texmem: no free texture id")

	// ErrNoFreeSlot is returned by Update when every slot is in use.
	ErrNoFreeSlot = errors.New("texmem: no free texture slot")

	// ErrOutOfMemory is returned by Update when not enough pages are free.
	ErrOutOfMemory = errors.New("texmem: out of texture memory")

	// ErrInvalidID is returned for ID 0, out-of-range IDs and IDs that were
	// not created.
	ErrInvalidID = errors.New("texmem: invalid texture id")
)

// Config describes the texture memory layout.
type Config struct {
	// Slots is the number of texture slots. It also bounds the ID range.
	Slots int

	// Pages is the number of device memory pages.
	Pages int

	// PageSize is the size of a page in bytes.
	PageSize int
}

type slot struct {
	inUse         bool
	pendingUpload bool
	pendingDelete bool

	pages  []uint32
	size   int
	width  int
	height int
	format texture.PixelFormat

	sampler texture.Sampler
	pixels  *texture.Pixels
}

type idEntry struct {
	used    bool
	slot    int
	sampler texture.Sampler
}

// Manager allocates texture slots and pages.
type Manager struct {
	cfg   Config
	ids   []idEntry
	slots []slot
	pages []bool
	free  int
}

// New creates a manager. Slot 0 and ID 0 are reserved.
func New(cfg Config) (*Manager, error) {
	if cfg.Slots < 2 || cfg.Pages < 1 || cfg.PageSize < 1 {
		return nil, fmt.Errorf("texmem: invalid config %+v", cfg)
	}
	return &Manager{
		cfg:   cfg,
		ids:   make([]idEntry, cfg.Slots),
		slots: make([]slot, cfg.Slots),
		pages: make([]bool, cfg.Pages),
		free:  cfg.Pages,
	}, nil
}

// PageCount returns the number of pages needed for size bytes.
func (m *Manager) PageCount(size int) int {
	return max(1, (size+m.cfg.PageSize-1)/m.cfg.PageSize)
}

// Create reserves the first unused texture ID and gives it the default
// sampler state.
func (m *Manager) Create() (ID, error) {
	for i := 1; i < len(m.ids); i++ {
		if !m.ids[i].used {
			m.ids[i] = idEntry{used: true, sampler: texture.DefaultSampler()}
			slogger().Debug("texmem: texture created", "id", i)
			return ID(i), nil
		}
	}
	return 0, ErrNoFreeID
}

func (m *Manager) entry(id ID) (*idEntry, error) {
	if id == 0 || int(id) >= len(m.ids) || !m.ids[id].used {
		return nil, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return &m.ids[id], nil
}

// claimPages takes n free pages, scanning from the start of the page table.
// On failure no page is claimed.
func (m *Manager) claimPages(n int) ([]uint32, error) {
	if n > m.free {
		return nil, fmt.Errorf("%w: need %d pages, %d free", ErrOutOfMemory, n, m.free)
	}
	pages := make([]uint32, 0, n)
	for i := range m.pages {
		if len(pages) == n {
			break
		}
		if !m.pages[i] {
			m.pages[i] = true
			pages = append(pages, uint32(i))
		}
	}
	m.free -= n
	return pages, nil
}

// markPages claims specific pages that are known to be free.
func (m *Manager) markPages(pages []uint32) {
	for _, p := range pages {
		m.pages[p] = true
	}
	m.free -= len(pages)
}

func (m *Manager) releasePages(pages []uint32) {
	for _, p := range pages {
		m.pages[p] = false
	}
	m.free += len(pages)
}

func (m *Manager) freeSlot() int {
	for i := 1; i < len(m.slots); i++ {
		if !m.slots[i].inUse {
			return i
		}
	}
	return 0
}

// Update assigns new contents to a texture.
//
// When the texture's current slot already holds pixel data, a display list
// may still reference it, so the data moves to a newly allocated slot and
// the old one is marked for deletion. The manager keeps its own reference
// to the object's pixels until the slot is collected.
//
// On error the texture keeps its previous contents.
func (m *Manager) Update(id ID, obj *texture.Object) error {
	e, err := m.entry(id)
	if err != nil {
		return err
	}
	old := e.slot
	need := m.PageCount(obj.Size())

	target := old
	if old == 0 || m.slots[old].pixels != nil {
		target = m.freeSlot()
		if target == 0 {
			return ErrNoFreeSlot
		}
	}

	s := &m.slots[target]
	pages := s.pages
	switch {
	case target != old:
		pages, err = m.claimPages(need)
		if err != nil {
			return err
		}
	case len(pages) != need:
		// The slot was never uploaded, so its pages can go back first.
		m.releasePages(s.pages)
		pages, err = m.claimPages(need)
		if err != nil {
			m.markPages(s.pages)
			return err
		}
	}

	if target != old && old != 0 {
		m.slots[old].pendingDelete = true
	}

	*s = slot{
		inUse:         true,
		pendingUpload: true,
		pages:         pages,
		size:          obj.Size(),
		width:         obj.Width(),
		height:        obj.Height(),
		format:        obj.Format(),
		sampler:       e.sampler,
		pixels:        obj.Pixels().Retain(),
	}
	e.slot = target

	slogger().Debug("texmem: texture updated",
		"id", id, "slot", target, "old_slot", old, "pages", pages, "size", s.size)
	return nil
}

// Delete releases a texture ID. The slot it pointed to is reclaimed in
// the next garbage pass.
func (m *Manager) Delete(id ID) error {
	e, err := m.entry(id)
	if err != nil {
		return err
	}
	if e.slot != 0 {
		m.slots[e.slot].pendingDelete = true
	}
	*e = idEntry{}
	slogger().Debug("texmem: texture deleted", "id", id)
	return nil
}

// Sink receives one page-sized chunk of texture data destined for the
// given device memory address.
type Sink func(addr uint32, data []byte) error

// Upload streams every texture that is waiting for upload through sink,
// one page at a time. A texture stays pending if any of its chunks fails
// and is retried on the next call. Afterwards the garbage pass reclaims
// every slot marked for deletion.
//
// Upload returns the joined errors of the failed chunks.
func (m *Manager) Upload(sink Sink) error {
	var errs []error
	for i := range m.slots {
		s := &m.slots[i]
		if !s.pendingUpload || s.pixels.Bytes() == nil {
			continue
		}
		if err := m.uploadSlot(s, sink); err != nil {
			slogger().Warn("texmem: upload failed, retrying next pass", "slot", i, "error", err)
			errs = append(errs, err)
			continue
		}
		s.pendingUpload = false
	}
	m.collect()
	return errors.Join(errs...)
}

func (m *Manager) uploadSlot(s *slot, sink Sink) error {
	data := s.pixels.Bytes()
	ps := m.cfg.PageSize
	for i, page := range s.pages {
		start := i * ps
		if start >= len(data) {
			break
		}
		end := min(start+ps, len(data))
		addr := page * uint32(ps)
		if err := sink(addr, data[start:end]); err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}
		slogger().Debug("texmem: uploaded chunk", "page", page, "addr", addr, "bytes", end-start)
	}
	return nil
}

// collect returns the pages of every slot marked for deletion.
func (m *Manager) collect() {
	for i := range m.slots {
		s := &m.slots[i]
		if !s.pendingDelete {
			continue
		}
		m.releasePages(s.pages)
		s.pixels.Release()
		*s = slot{}
		slogger().Debug("texmem: slot collected", "slot", i)
	}
}

// Valid reports whether id refers to a texture with contents.
func (m *Manager) Valid(id ID) bool {
	e, err := m.entry(id)
	return err == nil && e.slot != 0 && m.slots[e.slot].inUse
}

// Info describes the slot currently holding a texture.
type Info struct {
	Slot          int
	Width         int
	Height        int
	Size          int
	Format        texture.PixelFormat
	Pages         []uint32
	Sampler       texture.Sampler
	PendingUpload bool
}

// Info returns the state of a texture. ok is false if id is not Valid.
func (m *Manager) Info(id ID) (info Info, ok bool) {
	if !m.Valid(id) {
		return Info{}, false
	}
	n := m.ids[id].slot
	s := &m.slots[n]
	return Info{
		Slot:          n,
		Width:         s.width,
		Height:        s.height,
		Size:          s.size,
		Format:        s.format,
		Pages:         append([]uint32(nil), s.pages...),
		Sampler:       s.sampler,
		PendingUpload: s.pendingUpload,
	}, true
}

// Sampler returns the sampler state of a texture.
func (m *Manager) Sampler(id ID) (texture.Sampler, error) {
	e, err := m.entry(id)
	if err != nil {
		return texture.Sampler{}, err
	}
	return e.sampler, nil
}

func (m *Manager) setSampler(id ID, set func(*texture.Sampler)) error {
	e, err := m.entry(id)
	if err != nil {
		return err
	}
	set(&e.sampler)
	if e.slot != 0 {
		m.slots[e.slot].sampler = e.sampler
	}
	return nil
}

// SetWrapS sets the horizontal addressing mode.
func (m *Manager) SetWrapS(id ID, mode gputypes.AddressMode) error {
	return m.setSampler(id, func(s *texture.Sampler) { s.WrapS = mode })
}

// SetWrapT sets the vertical addressing mode.
func (m *Manager) SetWrapT(id ID, mode gputypes.AddressMode) error {
	return m.setSampler(id, func(s *texture.Sampler) { s.WrapT = mode })
}

// SetMagFilter sets the magnification filter.
func (m *Manager) SetMagFilter(id ID, mode gputypes.FilterMode) error {
	return m.setSampler(id, func(s *texture.Sampler) { s.MagFilter = mode })
}

// SetMinFilter sets the minification filter.
func (m *Manager) SetMinFilter(id ID, mode gputypes.FilterMode) error {
	return m.setSampler(id, func(s *texture.Sampler) { s.MinFilter = mode })
}

// FreePages returns the number of unclaimed pages.
func (m *Manager) FreePages() int { return m.free }

// PageSize returns the page size in bytes.
func (m *Manager) PageSize() int { return m.cfg.PageSize }

// Stats summarizes slot usage.
type Stats struct {
	SlotsInUse     int
	PendingUpload  int
	PendingDelete  int
	PagesInUse     int
	PagesAvailable int
}

// Stats returns the current slot and page usage.
func (m *Manager) Stats() Stats {
	var st Stats
	for i := range m.slots {
		s := &m.slots[i]
		if s.inUse {
			st.SlotsInUse++
		}
		if s.pendingUpload {
			st.PendingUpload++
		}
		if s.pendingDelete {
			st.PendingDelete++
		}
	}
	st.PagesInUse = len(m.pages) - m.free
	st.PagesAvailable = m.free
	return st
}

// Slot returns the slot index mapped to id, or 0.
func (m *Manager) Slot(id ID) int {
	if e, err := m.entry(id); err == nil {
		return e.slot
	}
	return 0
}

// Pages returns the device pages of a texture in upload order.
func (m *Manager) Pages(id ID) []uint32 {
	info, _ := m.Info(id)
	return info.Pages
}

// Size returns the byte size of a texture, or 0 if id is not Valid.
func (m *Manager) Size(id ID) int {
	info, _ := m.Info(id)
	return info.Size
}

// Pixels returns the pixel handle the manager holds for a texture. It is
// nil once the data was released or when the texture has none.
func (m *Manager) Pixels(id ID) *texture.Pixels {
	if !m.Valid(id) {
		return nil
	}
	return m.slots[m.ids[id].slot].pixels
}

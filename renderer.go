package rix

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/rix/internal/arena"
	"github.com/gogpu/rix/internal/command"
	"github.com/gogpu/rix/internal/texmem"
	"github.com/gogpu/rix/vertex"
)

const maxTMUs = vertex.MaxTMUs

// BandStats describes the display list of one band.
type BandStats struct {
	Commands int
	Bytes    int
}

// Stats reports renderer activity.
type Stats struct {
	// Frames is the number of committed frames.
	Frames int

	// Triangles is the number of triangles recorded into display lists.
	Triangles int

	// Offscreen is the number of triangles rejected because they cover
	// no pixel of the screen or the scissor box.
	Offscreen int

	// Bands describes the lists of the generation streamed last.
	Bands []BandStats
}

// Renderer records drawing commands into per-band display lists and
// streams them to a Device.
//
// The screen is divided into bands of equal height, each small enough
// for the on-chip framebuffer. Every band owns two display lists, one per
// generation. The builder appends to the back generation; Commit swaps
// generations and starts streaming the new front generation in the
// background.
//
// All methods must be called from the same goroutine.
type Renderer struct {
	cfg   Config
	dev   Device
	lists [2][]*command.Assembler
	back  int

	width      int
	height     int
	lines      int
	bandHeight int

	// trailer is the space every band keeps free for the commit commands.
	trailer int

	colorBuffer    int
	vsync          bool
	features       Features
	scissorEnabled bool
	scissor        command.Rect

	textures *texmem.Manager
	bound    [maxTMUs]TextureID
	drain    drainTask
	tri      command.Triangle
	closed   bool
	stats    Stats
}

// listID returns the device buffer id of a band's list in a generation.
func listID(band, gen int) int { return band*2 + gen }

// NewRenderer creates a renderer on dev.
//
// It requests 2*DisplayLines display list buffers from the device and
// records the initial state into the back generation: buffer addresses,
// the maximum resolution, a black clear color, the far clear depth, a
// white fog color and a fog table that disables fog.
func NewRenderer(dev Device, opts ...Option) (*Renderer, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	textures, err := texmem.New(texmem.Config{
		Slots:    cfg.TextureSlots,
		Pages:    cfg.TexturePages,
		PageSize: cfg.TexturePageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("rix: %w", err)
	}

	r := &Renderer{
		cfg:         cfg,
		dev:         dev,
		textures:    textures,
		colorBuffer: 1,
	}
	align := cfg.CmdStreamWidth / 8
	for gen := range r.lists {
		r.lists[gen] = make([]*command.Assembler, cfg.DisplayLines)
		for band := range cfg.DisplayLines {
			id := listID(band, gen)
			buf := dev.RequestDisplayListBuffer(id)
			if len(buf) < cfg.DisplayListSize {
				return nil, fmt.Errorf("%w: list %d has %d bytes, want %d",
					ErrDisplayListBuffer, id, len(buf), cfg.DisplayListSize)
			}
			r.lists[gen][band] = command.NewAssembler(arena.New(buf[:cfg.DisplayListSize], align))
		}
	}

	a := r.lists[0][0]
	r.trailer = 2*a.Size(command.WriteRegister{}) +
		a.Size(command.Framebuffer{Commit: true}) +
		a.Size(command.Framebuffer{Swap: true})

	if err := r.SetRenderResolution(cfg.MaxWidth, cfg.MaxHeight); err != nil {
		return nil, err
	}
	err = errors.Join(
		r.writeReg(command.RegDepthBufferAddr, cfg.DepthBufferAddr),
		r.writeReg(command.RegStencilBufferAddr, cfg.StencilBufferAddr),
		r.SetTexEnvColor(colorTransparent),
		r.SetClearColor(colorTransparent),
		r.SetClearDepth(math.MaxUint16),
		r.SetFogColor(colorWhite),
		r.SetFogLUT(FogTable(FogNone, 0, 0, 0), 0, math.MaxFloat32),
	)
	if err != nil {
		return nil, err
	}

	Logger().Debug("rix: renderer created",
		"display_lines", cfg.DisplayLines,
		"list_size", cfg.DisplayListSize,
		"texture_pages", cfg.TexturePages)
	return r, nil
}

// Width returns the render width in pixels.
func (r *Renderer) Width() int { return r.width }

// Height returns the render height in pixels.
func (r *Renderer) Height() int { return r.height }

// Bands returns the number of bands and their height in pixels.
func (r *Renderer) Bands() (lines, height int) { return r.lines, r.bandHeight }

// Stats returns a snapshot of the renderer counters.
func (r *Renderer) Stats() Stats {
	s := r.stats
	s.Bands = append([]BandStats(nil), r.stats.Bands...)
	return s
}

// screen is the area covered by bands.
func (r *Renderer) screen() command.Rect {
	return command.Rect{X1: r.width, Y1: r.lines * r.bandHeight}
}

// bandAddr returns the device address a band's color buffer is
// committed to. The bottom band is stored last.
func (r *Renderer) bandAddr(band int) uint32 {
	bandBytes := r.width * r.bandHeight * command.BytesPerPixel
	return r.colorAddr() + uint32(bandBytes*(r.lines-1-band))
}

func (r *Renderer) colorAddr() uint32 { return r.cfg.ColorBuffers[r.colorBuffer] }

func (r *Renderer) bandPixels() uint32 { return uint32(r.width * r.bandHeight) }

// add appends cmd to the back list of band, keeping room for the
// commit commands.
func (r *Renderer) add(band int, cmd command.Command) error {
	a := r.lists[r.back][band]
	if a.Size(cmd)+r.trailer > a.Free() || !a.Add(cmd) {
		Logger().Warn("rix: display list full", "band", band, "free", a.Free())
		return fmt.Errorf("%w: band %d", ErrDisplayListFull, band)
	}
	return nil
}

// addTrailer appends a commit command, using the reserved space.
func (r *Renderer) addTrailer(band int, cmd command.Command) error {
	if !r.lists[r.back][band].Add(cmd) {
		return fmt.Errorf("%w: band %d trailer", ErrDisplayListFull, band)
	}
	return nil
}

// addAll appends cmd to every band of the back generation.
func (r *Renderer) addAll(cmd command.Command) error {
	if r.closed {
		return ErrClosed
	}
	for band := range r.lines {
		if err := r.add(band, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) writeReg(addr command.Reg, value uint32) error {
	return r.addAll(command.WriteRegister{Addr: addr, Value: value})
}

// boundingBox returns the pixels covered by the window-space triangle.
func boundingBox(t *vertex.Triangle) command.Rect {
	x0, y0 := t.Vertex[0][0], t.Vertex[0][1]
	x1, y1 := x0, y0
	for _, v := range t.Vertex[1:] {
		x0, x1 = min(x0, v[0]), max(x1, v[0])
		y0, y1 = min(y0, v[1]), max(y1, v[1])
	}
	floor := func(f float32) int { return int(math.Floor(float64(f))) }
	return command.Rect{X0: floor(x0), Y0: floor(y0), X1: floor(x1) + 1, Y1: floor(y1) + 1}
}

// DrawTriangle records a window-space triangle into every band its
// bounding box overlaps. Triangles outside the screen or the enabled
// scissor box are dropped without error. If any band is full the call
// fails with ErrDisplayListFull; bands before the full one keep the
// triangle.
//
// DrawTriangle implements vertex.Rasterizer.
func (r *Renderer) DrawTriangle(t *vertex.Triangle) error {
	if r.closed {
		return ErrClosed
	}
	box := boundingBox(t).Intersect(r.screen())
	if r.scissorEnabled {
		box = box.Intersect(r.scissor)
	}
	if box.Empty() {
		r.stats.Offscreen++
		return nil
	}

	r.tri = command.Triangle{
		BBox:     box,
		Vertex:   t.Vertex,
		Color:    t.Color,
		TexCoord: t.TexCoord,
	}
	first, last := box.Y0/r.bandHeight, (box.Y1-1)/r.bandHeight
	for band := first; band <= last; band++ {
		if err := r.add(band, &r.tri); err != nil {
			return err
		}
	}
	r.stats.Triangles++
	return nil
}

// Clear fills the selected buffers with their clear values. With
// scissoring enabled only bands overlapping the scissor box are cleared.
func (r *Renderer) Clear(color, depth, stencil bool) error {
	if r.closed {
		return ErrClosed
	}
	cmd := command.Framebuffer{
		Color:   color,
		Depth:   depth,
		Stencil: stencil,
		Memset:  true,
		Pixels:  r.bandPixels(),
	}
	for band := range r.lines {
		y0 := band * r.bandHeight
		y1 := y0 + r.bandHeight
		if r.scissorEnabled && (y1 <= r.scissor.Y0 || y0 >= r.scissor.Y1) {
			continue
		}
		if err := r.add(band, cmd); err != nil {
			return err
		}
	}
	return nil
}

// appendCommit adds the commit of every band to the back generation and,
// if swap is set, presents the frame from the last band.
func (r *Renderer) appendCommit(swap bool) error {
	var errs []error
	for band := range r.lines {
		addr := r.bandAddr(band)
		errs = append(errs,
			r.addTrailer(band, command.WriteRegister{Addr: command.RegColorBufferAddr, Value: addr}),
			r.addTrailer(band, command.Framebuffer{
				Color:      true,
				Depth:      true,
				Stencil:    true,
				Commit:     true,
				Pixels:     r.bandPixels(),
				CommitAddr: addr,
			}),
		)
	}
	if swap {
		errs = append(errs, r.appendSwap())
	}
	return errors.Join(errs...)
}

// appendSwap presents the current color buffer from the last band,
// which is streamed last.
func (r *Renderer) appendSwap() error {
	last := r.lines - 1
	return errors.Join(
		r.addTrailer(last, command.WriteRegister{Addr: command.RegColorBufferAddr, Value: r.colorAddr()}),
		r.addTrailer(last, command.Framebuffer{
			Color:  true,
			Swap:   true,
			VSync:  r.vsync,
			Pixels: r.bandPixels(),
		}),
	)
}

// resetBack empties every list of the back generation.
func (r *Renderer) resetBack() {
	for _, a := range r.lists[r.back] {
		a.Clear()
	}
}

// primeBack records the per-band state every frame starts with.
func (r *Renderer) primeBack() error {
	var errs []error
	for band := range r.lines {
		errs = append(errs, r.add(band, command.WriteRegister{
			Addr:  command.RegYOffset,
			Value: command.XY(0, band*r.bandHeight),
		}))
	}
	errs = append(errs, r.writeReg(command.RegColorBufferAddr, r.colorAddr()))
	return errors.Join(errs...)
}

// swapGenerations makes the back generation the front one and returns it.
func (r *Renderer) swapGenerations() int {
	front := r.back
	r.back ^= 1
	return front
}

// waitClearToSend polls the device until it accepts a transfer.
// There is no timeout.
func waitClearToSend(dev Device) {
	for !dev.ClearToSend() {
	}
}

// uploadTextures streams pending textures into device memory and
// reclaims the slots of replaced and deleted textures. Failed uploads
// are retried on the next call.
func (r *Renderer) uploadTextures() {
	err := r.textures.Upload(func(addr uint32, data []byte) error {
		waitClearToSend(r.dev)
		return r.dev.WriteToDeviceMemory(addr, data)
	})
	if err != nil {
		Logger().Warn("rix: texture upload failed, retrying next frame", "error", err)
	}
}

// stream starts the drain of generation gen.
func (r *Renderer) stream(gen int) {
	sizes := make([]int, r.lines)
	r.stats.Bands = r.stats.Bands[:0]
	for band := range r.lines {
		a := r.lists[gen][band]
		sizes[band] = a.Len()
		r.stats.Bands = append(r.stats.Bands, BandStats{Commands: a.Commands(), Bytes: a.Len()})
	}
	dev := r.dev
	r.drain.Run(func() error {
		for band, size := range sizes {
			waitClearToSend(dev)
			if err := dev.StreamDisplayList(listID(band, gen), size); err != nil {
				return fmt.Errorf("band %d: %w", band, err)
			}
		}
		return nil
	})
}

// Commit finishes the frame.
//
// It appends the band commits and the buffer swap, waits for the
// previous frame to finish streaming, swaps generations, uploads pending
// textures, starts a new back generation rendering into the other color
// buffer and streams the finished frame in the background.
//
// An error from streaming the previous frame is returned after the new
// frame was started.
func (r *Renderer) Commit() error {
	if r.closed {
		return ErrClosed
	}
	commitErr := r.appendCommit(true)

	prev := r.drain.Wait()
	if prev != nil {
		Logger().Warn("rix: streaming failed", "error", prev)
	}

	front := r.swapGenerations()
	r.uploadTextures()
	r.resetBack()
	r.colorBuffer = 3 - r.colorBuffer
	primeErr := r.primeBack()
	r.stream(front)
	r.stats.Frames++

	Logger().Debug("rix: frame committed", "frame", r.stats.Frames, "bands", r.lines)

	if prev != nil {
		prev = fmt.Errorf("rix: streaming previous frame: %w", prev)
	}
	return errors.Join(prev, commitErr, primeErr)
}

// Flush streams the commands recorded so far without ending the frame.
// Pending textures are uploaded first. Flush only works when the screen
// fits into a single band.
func (r *Renderer) Flush() error {
	if r.closed {
		return ErrClosed
	}
	if r.lines != 1 {
		return ErrFlushUnsupported
	}
	prev := r.drain.Wait()
	front := r.swapGenerations()
	r.uploadTextures()
	r.resetBack()
	primeErr := r.primeBack()
	r.stream(front)
	if prev != nil {
		prev = fmt.Errorf("rix: streaming previous frame: %w", prev)
	}
	return errors.Join(prev, primeErr)
}

// Close waits for streaming to finish and presents the first color
// buffer. The back generation is discarded. Further calls return
// ErrClosed.
func (r *Renderer) Close() error {
	if r.closed {
		return ErrClosed
	}
	prev := r.drain.Wait()

	r.resetBack()
	r.colorBuffer = 0
	listErr := errors.Join(r.writeReg(command.RegColorBufferAddr, r.colorAddr()), r.appendSwap())
	front := r.swapGenerations()
	r.stream(front)
	last := r.drain.Wait()
	r.closed = true

	Logger().Debug("rix: renderer closed", "frames", r.stats.Frames)
	return errors.Join(prev, listErr, last)
}

// Package rix is the host-side driver for a fixed-function triangle
// rasterizer reached over a byte-oriented bus.
//
// # Overview
//
// rix turns immediate-mode drawing into the rasterizer's binary display
// list format. The screen is split into horizontal bands; every band has
// its own display list, and each triangle is recorded in the lists of the
// bands it overlaps. Two generations of lists alternate: while the
// builder fills the back generation, a background task streams the front
// generation to the device.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/rix"
//	    _ "github.com/gogpu/rix/device/memdev"
//	    "github.com/gogpu/rix/vertex"
//	)
//
//	dev, _ := rix.OpenDevice("memory")
//	r, _ := rix.NewRenderer(dev, rix.WithMaxResolution(320, 240))
//	defer r.Close()
//
//	p := vertex.New(r)
//	p.SetViewport(0, 0, 320, 240)
//	_ = r.Clear(true, true, false)
//	_ = p.DrawObj(mesh)
//	_ = r.Commit()
//
// # Architecture
//
// The module is organized into:
//   - Public API: Renderer, Device, options, fog tables
//   - vertex: matrix stacks, lighting, texture coordinate generation,
//     primitive assembly, clipping and culling
//   - texture: texture objects and 16-bit pixel formats
//   - Internal: clip (homogeneous clipper), command (display list
//     encoding), arena (display list memory), texmem (texture pages),
//     ring (fixed-capacity queue)
//   - Devices: device/memdev (recording), device/spibus (SPI transport)
//
// # Coordinate System
//
// Window coordinates follow the rasterizer:
//   - Origin (0,0) at bottom-left
//   - X increases right
//   - Y increases up; band 0 holds the bottom rows
//
// # Concurrency
//
// A Renderer is driven by one goroutine. The only background work is the
// drain task started by Commit, which reads the front generation and
// touches nothing else.
package rix

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)

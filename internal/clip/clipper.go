// Package clip clips triangles against the homogeneous view volume.
//
// Clipping runs before the perspective divide so that projective geometry
// (w != 1) and its attributes are interpolated linearly in clip space.
// The result is a convex polygon meant to be drawn as a triangle fan
// anchored at vertex 0.
package clip

import (
	"strconv"

	"github.com/gogpu/rix/vmath"
)

// Outcode is a bit set of the clip planes a vertex lies outside of.
type Outcode uint8

// Clip plane bits, in evaluation order.
const (
	Near   Outcode = 0x01
	Far    Outcode = 0x02
	Top    Outcode = 0x04
	Bottom Outcode = 0x08
	Left   Outcode = 0x10
	Right  Outcode = 0x20
)

var planes = [PlaneCount]Outcode{Near, Far, Top, Bottom, Left, Right}

var planeNames = map[Outcode]string{
	Near:   "near",
	Far:    "far",
	Top:    "top",
	Bottom: "bottom",
	Left:   "left",
	Right:  "right",
}

// String returns the plane name for single-bit outcodes.
func (o Outcode) String() string {
	if name, ok := planeNames[o]; ok {
		return name
	}
	return "Outcode(" + strconv.Itoa(int(o)) + ")"
}

// distance returns the signed distance of v to the plane. Non-negative
// values are inside.
func distance(plane Outcode, v vmath.Vec4) float32 {
	switch plane {
	case Near:
		return v[3] + v[2]
	case Far:
		return v[3] - v[2]
	case Top:
		return v[3] - v[1]
	case Bottom:
		return v[3] + v[1]
	case Left:
		return v[3] + v[0]
	case Right:
		return v[3] - v[0]
	}
	return 0
}

// OutcodeOf returns the set of planes v violates.
func OutcodeOf(v vmath.Vec4) Outcode {
	var oc Outcode
	for _, p := range planes {
		if distance(p, v) < 0 {
			oc |= p
		}
	}
	return oc
}

// Clip clips the polygon in against the view volume.
//
// in and scratch are used as ping-pong buffers; the returned polygon is
// one of the two and holds the result. A triangle entirely outside one
// plane yields an empty polygon, which is a valid result. A triangle
// entirely inside is returned unchanged.
func Clip(in, scratch *Polygon) *Polygon {
	var and, or Outcode = 0xff, 0
	for i := range in.N {
		oc := OutcodeOf(in.Vertex[i])
		and &= oc
		or |= oc
	}
	if in.N == 0 || and != 0 {
		in.Reset()
		return in
	}
	if or == 0 {
		return in
	}

	src, dst := in, scratch
	for _, p := range planes {
		if or&p == 0 {
			continue
		}
		clipPlane(p, src, dst)
		src, dst = dst, src
		if src.N == 0 {
			break
		}
	}
	return src
}

// clipPlane runs one Sutherland–Hodgman pass of src against plane into dst.
func clipPlane(plane Outcode, src, dst *Polygon) {
	dst.Reset()
	if src.N == 0 {
		return
	}

	for i := range src.N {
		next := (i + 1) % src.N
		d0 := distance(plane, src.Vertex[i])
		d1 := distance(plane, src.Vertex[next])

		if d0 >= 0 {
			dst.Append(src.Vertex[i], src.TexCoord[i], src.Color[i])
		}
		if (d0 >= 0) != (d1 >= 0) {
			dst.appendLerp(src, i, next, d0/(d0-d1))
		}
	}
}

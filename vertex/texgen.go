package vertex

import (
	"math"

	"github.com/gogpu/rix/vmath"
)

// TexGenMode selects how a texture coordinate is generated.
type TexGenMode uint8

const (
	// ObjectLinear is the dot product of the object position and a plane.
	ObjectLinear TexGenMode = iota

	// EyeLinear is the dot product of the eye position and a plane given
	// in eye coordinates.
	EyeLinear

	// SphereMap derives s and t from the reflection vector. It does not
	// apply to r.
	SphereMap
)

// String returns the mode name.
func (m TexGenMode) String() string {
	switch m {
	case ObjectLinear:
		return "ObjectLinear"
	case EyeLinear:
		return "EyeLinear"
	case SphereMap:
		return "SphereMap"
	default:
		return "Unknown"
	}
}

// Texture coordinate components that can be generated.
const (
	CoordS = iota
	CoordT
	CoordR
	coordCount
)

// TexGen generates texture coordinates for one texture unit.
// Coordinates whose generation is disabled pass through.
type TexGen struct {
	Enabled     [coordCount]bool
	Mode        [coordCount]TexGenMode
	ObjectPlane [coordCount]vmath.Vec4
	EyePlane    [coordCount]vmath.Vec4
}

// DefaultTexGen returns disabled generation with the default planes.
func DefaultTexGen() TexGen {
	planes := [coordCount]vmath.Vec4{
		CoordS: vmath.V4(1, 0, 0, 0),
		CoordT: vmath.V4(0, 1, 0, 0),
	}
	return TexGen{ObjectPlane: planes, EyePlane: planes}
}

// Active reports whether any coordinate is generated.
func (g *TexGen) Active() bool {
	return g.Enabled[CoordS] || g.Enabled[CoordT] || g.Enabled[CoordR]
}

// needsEye reports whether generation uses eye-space data.
func (g *TexGen) needsEye() bool {
	for i := range coordCount {
		if g.Enabled[i] && g.Mode[i] != ObjectLinear {
			return true
		}
	}
	return false
}

// Generate returns tc with the enabled coordinates replaced.
// obj and eye are the vertex position in object and eye space, n the unit
// eye-space normal.
func (g *TexGen) Generate(tc, obj, eye vmath.Vec4, n vmath.Vec3) vmath.Vec4 {
	var sphere [2]float32
	sphereDone := false

	for i := range coordCount {
		if !g.Enabled[i] {
			continue
		}
		switch g.Mode[i] {
		case ObjectLinear:
			tc[i] = g.ObjectPlane[i].Dot(obj)
		case EyeLinear:
			tc[i] = g.EyePlane[i].Dot(eye)
		case SphereMap:
			if i == CoordR {
				continue
			}
			if !sphereDone {
				sphere = sphereMap(eye, n)
				sphereDone = true
			}
			tc[i] = sphere[i]
		}
	}
	return tc
}

func sphereMap(eye vmath.Vec4, n vmath.Vec3) [2]float32 {
	u := eye.XYZ().Normalize()
	r := u.Sub(n.Mul(2 * n.Dot(u)))
	m := 2 * float32(math.Sqrt(float64(r[0]*r[0]+r[1]*r[1]+(r[2]+1)*(r[2]+1))))
	if m == 0 {
		return [2]float32{0.5, 0.5}
	}
	return [2]float32{r[0]/m + 0.5, r[1]/m + 0.5}
}

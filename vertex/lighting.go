package vertex

import (
	"math"

	"github.com/gogpu/rix/vmath"
)

// MaxLights is the number of light sources.
const MaxLights = 8

// Light is a point, directional or spot light in eye coordinates.
type Light struct {
	Enabled bool

	Ambient  vmath.Vec4
	Diffuse  vmath.Vec4
	Specular vmath.Vec4

	// Position is a point light if w != 0, otherwise the direction
	// towards a light at infinity.
	Position vmath.Vec4

	SpotDirection vmath.Vec3
	SpotExponent  float32

	// SpotCutoff is the half-angle of the spot cone in degrees.
	// 180 disables the spot test.
	SpotCutoff float32

	ConstantAttenuation  float32
	LinearAttenuation    float32
	QuadraticAttenuation float32
}

// DefaultLight returns the initial state of light i. Light 0 is white,
// the others are black.
func DefaultLight(i int) Light {
	l := Light{
		Ambient:             vmath.V4(0, 0, 0, 1),
		Diffuse:             vmath.V4(0, 0, 0, 1),
		Specular:            vmath.V4(0, 0, 0, 1),
		Position:            vmath.V4(0, 0, 1, 0),
		SpotDirection:       vmath.V3(0, 0, -1),
		SpotCutoff:          180,
		ConstantAttenuation: 1,
	}
	if i == 0 {
		l.Diffuse = vmath.V4(1, 1, 1, 1)
		l.Specular = vmath.V4(1, 1, 1, 1)
	}
	return l
}

// Material describes how a surface reflects light.
type Material struct {
	Emission  vmath.Vec4
	Ambient   vmath.Vec4
	Diffuse   vmath.Vec4
	Specular  vmath.Vec4
	Shininess float32
}

// DefaultMaterial returns the initial material.
func DefaultMaterial() Material {
	return Material{
		Emission: vmath.V4(0, 0, 0, 1),
		Ambient:  vmath.V4(0.2, 0.2, 0.2, 1),
		Diffuse:  vmath.V4(0.8, 0.8, 0.8, 1),
		Specular: vmath.V4(0, 0, 0, 1),
	}
}

// Lighting computes per-vertex colors from lights and a material.
// When disabled the vertex color passes through unchanged.
type Lighting struct {
	Enabled  bool
	Ambient  vmath.Vec4
	Material Material
	Lights   [MaxLights]Light
}

// DefaultLighting returns disabled lighting with the default lights,
// material and scene ambient.
func DefaultLighting() Lighting {
	l := Lighting{
		Ambient:  vmath.V4(0.2, 0.2, 0.2, 1),
		Material: DefaultMaterial(),
	}
	for i := range l.Lights {
		l.Lights[i] = DefaultLight(i)
	}
	return l
}

// Color returns the lit color of a vertex at eye position eye with unit
// eye-space normal n. The viewer is at infinity along +z.
func (l *Lighting) Color(eye vmath.Vec4, n vmath.Vec3) vmath.Vec4 {
	mat := &l.Material
	c := mat.Emission.Add(l.Ambient.MulVec(mat.Ambient))

	for i := range l.Lights {
		light := &l.Lights[i]
		if !light.Enabled {
			continue
		}

		var dir vmath.Vec3
		att := float32(1)
		if light.Position[3] == 0 {
			dir = light.Position.XYZ().Normalize()
		} else {
			d := light.Position.XYZ().Mul(1 / light.Position[3]).Sub(eye.XYZ())
			dist := d.Length()
			dir = d.Normalize()
			den := light.ConstantAttenuation + light.LinearAttenuation*dist +
				light.QuadraticAttenuation*dist*dist
			if den > 0 {
				att = 1 / den
			}
		}
		if light.SpotCutoff != 180 {
			cos := dir.Mul(-1).Dot(light.SpotDirection.Normalize())
			if cos < float32(math.Cos(float64(light.SpotCutoff)*math.Pi/180)) {
				att = 0
			} else {
				att *= float32(math.Pow(float64(max(cos, 0)), float64(light.SpotExponent)))
			}
		}
		if att == 0 {
			continue
		}

		term := light.Ambient.MulVec(mat.Ambient)
		if diff := n.Dot(dir); diff > 0 {
			term = term.Add(light.Diffuse.MulVec(mat.Diffuse).Mul(diff))
			h := dir.Add(vmath.V3(0, 0, 1)).Normalize()
			if spec := n.Dot(h); spec > 0 {
				f := float32(math.Pow(float64(spec), float64(mat.Shininess)))
				term = term.Add(light.Specular.MulVec(mat.Specular).Mul(f))
			}
		}
		c = c.Add(term.Mul(att))
	}

	c = c.Clamp(0, 1)
	c[3] = min(max(mat.Diffuse[3], 0), 1)
	return c
}

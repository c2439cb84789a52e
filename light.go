package grove

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// LightKind tags which fields of a Light are meaningful.
type LightKind uint8

const (
	// LightDirectional uses Direction only.
	LightDirectional LightKind = iota
	// LightPoint uses Position and Attenuation.
	LightPoint
	// LightSpot uses Position, Direction, Attenuation and Edge.
	LightSpot
)

const (
	// MaxPointLights is the number of point lights sent to the graphics
	// boundary each frame.
	MaxPointLights = 3
	// MaxSpotLights is the number of spot lights sent each frame.
	MaxSpotLights = 4
)

// Attenuation is the constant/linear/exponent falloff of a positional light.
type Attenuation struct {
	Constant, Linear, Exponent float32
}

// Light is a directional, point or spot light.
type Light struct {
	Name string
	Kind LightKind

	// Color is linear RGB in [0, 1].
	Color            Vec3
	AmbientIntensity float32
	DiffuseIntensity float32

	Direction   Vec3
	Position    Vec3
	Attenuation Attenuation
	// Edge is a spot light's cone half-angle in degrees.
	Edge float32

	// Enabled determines whether this light takes part in the frame.
	Enabled bool

	// Target, if set, makes the light follow this node's world position each
	// frame.
	Target *Node
	// Offset is added to the target's world position.
	Offset Vec3
}

// NewDirectionalLight creates an enabled directional light.
func NewDirectionalLight(name string, color Vec3, ambient, diffuse float32, dir Vec3) *Light {
	return &Light{
		Name:             name,
		Kind:             LightDirectional,
		Color:            color,
		AmbientIntensity: ambient,
		DiffuseIntensity: diffuse,
		Direction:        dir,
		Enabled:          true,
	}
}

// NewPointLight creates an enabled point light.
func NewPointLight(name string, color Vec3, ambient, diffuse float32, pos Vec3, att Attenuation) *Light {
	return &Light{
		Name:             name,
		Kind:             LightPoint,
		Color:            color,
		AmbientIntensity: ambient,
		DiffuseIntensity: diffuse,
		Position:         pos,
		Attenuation:      att,
		Enabled:          true,
	}
}

// NewSpotLight creates an enabled spot light. edge is the cone half-angle in
// degrees.
func NewSpotLight(name string, color Vec3, ambient, diffuse float32, pos, dir Vec3, att Attenuation, edge float32) *Light {
	return &Light{
		Name:             name,
		Kind:             LightSpot,
		Color:            color,
		AmbientIntensity: ambient,
		DiffuseIntensity: diffuse,
		Position:         pos,
		Direction:        dir,
		Attenuation:      att,
		Edge:             edge,
		Enabled:          true,
	}
}

// EdgeCos returns the cosine of the spot cone half-angle, the form shaders
// compare against.
func (l *Light) EdgeCos() float32 {
	return math32.Cos(mgl32.DegToRad(l.Edge))
}

// follow moves a targeted light onto its target.
func (l *Light) follow() {
	if l.Target == nil || l.Target.IsDisposed() {
		return
	}
	l.Position = l.Target.WorldPosition().Add(l.Offset)
}

// DefaultSun is used when no enabled directional light is registered.
func DefaultSun() Light {
	return *NewDirectionalLight("sun", Vec3{1, 1, 1}, 0.3, 0.6, Vec3{0, -1, -0.3})
}

// LightSet is the active lighting of one frame.
type LightSet struct {
	Directional Light
	points      [MaxPointLights]Light
	spots       [MaxSpotLights]Light
	pointCount  int
	spotCount   int
}

// PointLights returns the active point lights.
func (ls *LightSet) PointLights() []Light { return ls.points[:ls.pointCount] }

// SpotLights returns the active spot lights.
func (ls *LightSet) SpotLights() []Light { return ls.spots[:ls.spotCount] }

// Apply sends the set to the graphics boundary.
func (ls *LightSet) Apply(g Graphics) {
	g.SetDirectionalLight(ls.Directional)
	g.SetPointLights(ls.PointLights())
	g.SetSpotLights(ls.SpotLights())
}

// buildLightSet picks the first enabled directional light (DefaultSun when
// none) and the first enabled point and spot lights up to their limits, in
// registration order.
func buildLightSet(lights []*Light) LightSet {
	var ls LightSet
	haveSun := false
	for _, l := range lights {
		if l == nil || !l.Enabled {
			continue
		}
		switch l.Kind {
		case LightDirectional:
			if !haveSun {
				ls.Directional = *l
				haveSun = true
			}
		case LightPoint:
			if ls.pointCount < MaxPointLights {
				ls.points[ls.pointCount] = *l
				ls.pointCount++
			}
		case LightSpot:
			if ls.spotCount < MaxSpotLights {
				ls.spots[ls.spotCount] = *l
				ls.spotCount++
			}
		}
	}
	if !haveSun {
		ls.Directional = DefaultSun()
	}
	return ls
}

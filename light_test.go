package grove

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLightSetDefaultSun(t *testing.T) {
	ls := buildLightSet(nil)
	assert.Equal(t, DefaultSun(), ls.Directional)
	assert.Empty(t, ls.PointLights())
	assert.Empty(t, ls.SpotLights())
}

func TestBuildLightSetFirstEnabledDirectional(t *testing.T) {
	off := NewDirectionalLight("off", Vec3{1, 0, 0}, 0.1, 0.1, Vec3{0, -1, 0})
	off.Enabled = false
	moon := NewDirectionalLight("moon", Vec3{0.5, 0.5, 1}, 0.05, 0.2, Vec3{1, -1, 0})
	sun := NewDirectionalLight("sun2", Vec3{1, 1, 1}, 0.3, 0.7, Vec3{0, -1, 0})

	ls := buildLightSet([]*Light{off, moon, sun})
	assert.Equal(t, "moon", ls.Directional.Name)
}

func TestBuildLightSetCapsPositional(t *testing.T) {
	var lights []*Light
	for i := range MaxPointLights + 2 {
		lights = append(lights, NewPointLight(string(rune('a'+i)), Vec3{1, 1, 1}, 0, 1, Vec3{}, Attenuation{Constant: 1}))
	}
	for i := range MaxSpotLights + 1 {
		lights = append(lights, NewSpotLight(string(rune('p'+i)), Vec3{1, 1, 1}, 0, 1, Vec3{}, Vec3{0, -1, 0}, Attenuation{Constant: 1}, 20))
	}
	lights[0].Enabled = false
	lights = append(lights, nil)

	ls := buildLightSet(lights)
	require.Len(t, ls.PointLights(), MaxPointLights)
	require.Len(t, ls.SpotLights(), MaxSpotLights)
	// Registration order, disabled skipped.
	assert.Equal(t, "b", ls.PointLights()[0].Name)
	assert.Equal(t, "d", ls.PointLights()[2].Name)
	assert.Equal(t, "p", ls.SpotLights()[0].Name)
}

func TestLightSetApply(t *testing.T) {
	p := NewPointLight("p", Vec3{1, 1, 1}, 0, 1, Vec3{1, 2, 3}, Attenuation{Constant: 1})
	ls := buildLightSet([]*Light{p})
	g := &recordingGraphics{}
	ls.Apply(g)

	assert.Equal(t, []string{"sun", "points:1", "spots:0"}, g.calls)
	assert.Equal(t, Vec3{1, 2, 3}, g.points[0].Position)
}

func TestSpotEdgeCos(t *testing.T) {
	s := NewSpotLight("s", Vec3{1, 1, 1}, 0, 1, Vec3{}, Vec3{0, -1, 0}, Attenuation{}, 60)
	assert.InDelta(t, 0.5, s.EdgeCos(), 1e-5)
}

func TestLightFollowsTarget(t *testing.T) {
	parent := NewNode("cart", Vec3{10, 0, 0}, Vec3{}, Vec3{1, 1, 1})
	lamp := NewNode("lamp", Vec3{0, 2, 0}, Vec3{}, Vec3{1, 1, 1})
	parent.AddChild(lamp)

	l := NewPointLight("glow", Vec3{1, 1, 1}, 0, 1, Vec3{}, Attenuation{Constant: 1})
	l.Target = lamp
	l.Offset = Vec3{0, 0.5, 0}
	l.follow()
	assertVec(t, "follow", l.Position, Vec3{10, 2.5, 0})

	lamp.Dispose()
	parent.SetPosition(Vec3{})
	l.follow()
	assertVec(t, "disposed target", l.Position, Vec3{10, 2.5, 0})
}

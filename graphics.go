package grove

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Graphics is the rendering boundary. Scene.Draw calls it in this order:
// DrawSkybox, SetView, the light setters, then per command SetModelMatrix,
// BindMaterial, optionally BindTexture, and DrawModel or DrawMesh.
type Graphics interface {
	SetView(view, projection Mat4, eye Vec3)
	DrawSkybox(sky Skybox, view, projection Mat4)
	SetModelMatrix(m Mat4)
	BindMaterial(m *Material)
	BindTexture(t Texture)
	DrawModel(m Model)
	DrawMesh(m Mesh)
	SetDirectionalLight(l Light)
	SetPointLights(lights []Light)
	SetSpotLights(lights []Light)
}

// Debug view colors.
var (
	colorBackground = color.RGBA{24, 26, 34, 255}
	colorModel      = color.RGBA{120, 200, 255, 255}
	colorMesh       = color.RGBA{140, 230, 140, 255}
	colorAxis       = color.RGBA{255, 255, 255, 160}
	colorPointLight = color.RGBA{255, 220, 90, 255}
	colorSpotLight  = color.RGBA{255, 150, 60, 255}
)

const (
	debugMarkerRadius = 40 // pixels at unit distance
	debugMinRadius    = 1.5
	debugMaxRadius    = 18
)

// EbitenGraphics renders a debug projection of the scene onto an ebiten
// image: every drawn node is a disc at its projected origin with a stroke
// along its local up axis, and lights are drawn as markers. It exists to
// inspect transforms, camera modes and lighting without a 3D pipeline.
type EbitenGraphics struct {
	target *ebiten.Image

	view, projection Mat4
	viewProj         Mat4
	eye              Vec3
	model            Mat4
	material         *Material
	texture          Texture

	sun    Light
	points []Light
	spots  []Light

	draws int
}

// NewEbitenGraphics returns a renderer with no target. Call Begin each frame.
func NewEbitenGraphics() *EbitenGraphics {
	return &EbitenGraphics{
		view:       mgl32.Ident4(),
		projection: mgl32.Ident4(),
		viewProj:   mgl32.Ident4(),
		model:      mgl32.Ident4(),
	}
}

// Begin sets the frame's target image and resets per-frame counters.
func (g *EbitenGraphics) Begin(target *ebiten.Image) {
	g.target = target
	g.draws = 0
	g.points = g.points[:0]
	g.spots = g.spots[:0]
}

// DrawCalls returns the number of geometry draws since Begin.
func (g *EbitenGraphics) DrawCalls() int { return g.draws }

// SetView stores the camera matrices used to project markers.
func (g *EbitenGraphics) SetView(view, projection Mat4, eye Vec3) {
	g.view = view
	g.projection = projection
	g.viewProj = projection.Mul4(view)
	g.eye = eye
}

// DrawSkybox clears the target. The debug view has no sky texture.
func (g *EbitenGraphics) DrawSkybox(_ Skybox, _, _ Mat4) {
	if g.target != nil {
		g.target.Fill(colorBackground)
	}
}

// SetModelMatrix sets the transform of the next draw.
func (g *EbitenGraphics) SetModelMatrix(m Mat4) { g.model = m }

// BindMaterial records the material of the next draw.
func (g *EbitenGraphics) BindMaterial(m *Material) { g.material = m }

// BindTexture records the texture of the next draw.
func (g *EbitenGraphics) BindTexture(t Texture) { g.texture = t }

// DrawModel draws a model marker at the current model origin.
func (g *EbitenGraphics) DrawModel(Model) { g.drawMarker(colorModel) }

// DrawMesh draws a mesh marker at the current model origin.
func (g *EbitenGraphics) DrawMesh(Mesh) { g.drawMarker(colorMesh) }

// SetDirectionalLight records the sun. The debug view does not shade.
func (g *EbitenGraphics) SetDirectionalLight(l Light) { g.sun = l }

// SetPointLights records the point lights and draws their markers.
func (g *EbitenGraphics) SetPointLights(lights []Light) {
	g.points = append(g.points[:0], lights...)
	for i := range g.points {
		g.drawLight(g.points[i].Position, colorPointLight)
	}
}

// SetSpotLights records the spot lights and draws their markers.
func (g *EbitenGraphics) SetSpotLights(lights []Light) {
	g.spots = append(g.spots[:0], lights...)
	for i := range g.spots {
		g.drawLight(g.spots[i].Position, colorSpotLight)
	}
}

// project maps a world point to target pixels. ok is false for points behind
// the eye or without a target.
func (g *EbitenGraphics) project(p Vec3) (x, y, w float32, ok bool) {
	if g.target == nil {
		return 0, 0, 0, false
	}
	clip := g.viewProj.Mul4x1(p.Vec4(1))
	if clip.W() <= 1e-4 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	b := g.target.Bounds()
	width, height := float32(b.Dx()), float32(b.Dy())
	x = (ndc.X()*0.5 + 0.5) * width
	y = (1 - (ndc.Y()*0.5 + 0.5)) * height
	return x, y, clip.W(), true
}

func (g *EbitenGraphics) drawMarker(clr color.Color) {
	g.draws++
	origin := g.model.Col(3).Vec3()
	x, y, w, ok := g.project(origin)
	if !ok {
		return
	}
	r := clampf(debugMarkerRadius/w, debugMinRadius, debugMaxRadius)
	vector.DrawFilledCircle(g.target, x, y, r, clr, true)

	tip := mgl32.TransformCoordinate(Vec3{0, 1, 0}, g.model)
	if tx, ty, _, ok := g.project(tip); ok {
		vector.StrokeLine(g.target, x, y, tx, ty, 1, colorAxis, true)
	}
}

func (g *EbitenGraphics) drawLight(p Vec3, clr color.Color) {
	x, y, _, ok := g.project(p)
	if !ok {
		return
	}
	vector.StrokeCircle(g.target, x, y, 6, 1.5, clr, true)
}

// DrawHUD prints the camera state and frame counters in the top-left corner.
func (g *EbitenGraphics) DrawHUD(cam *Camera, commands int) {
	if g.target == nil || cam == nil {
		return
	}
	p := cam.Position()
	msg := fmt.Sprintf("mode: %s\neye: %.1f %.1f %.1f\nyaw %.1f pitch %.1f\ncommands: %d draws: %d\nlights: %d point, %d spot\nFPS: %.1f",
		cam.Mode(), p.X(), p.Y(), p.Z(), cam.Yaw(), cam.Pitch(),
		commands, g.draws, len(g.points), len(g.spots), ebiten.ActualFPS())
	ebitenutil.DebugPrint(g.target, msg)
}

// Package grove is a retained-mode 3D scene graph with a switchable camera,
// simple physics and procedural animation, drawn through a pluggable
// [Graphics] boundary. A debug renderer for [Ebitengine] is included.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := grove.NewScene(grove.DefaultConfig())
//	// ... add entities ...
//	grove.Run(scene, grove.RunConfig{
//		Title: "Plaza", Width: 1280, Height: 720, ShowHUD: true,
//	})
//
// For full control, implement [ebiten.Game] (or any other loop) yourself and
// call [Scene.Update] and [Scene.Draw] directly with your own [Input] and
// [Graphics]:
//
//	func (g *Game) Update() error {
//		g.scene.Update(g.input.Poll(), g.clock.Tick(time.Now()))
//		return nil
//	}
//
// # Scene graph
//
// Every element is a [Node] with a position, an XYZ Euler rotation in
// degrees and a scale. Nodes form a tree rooted at [Scene.Root]; the nodes
// directly under the root are entities. A node's local matrix is
// translate·rotZ·rotY·rotX·scale and its world matrix is the parent's world
// matrix times its local one.
//
//	walker := grove.NewNode("walker", grove.Vec3{0, 0, 0}, grove.Vec3{}, grove.Vec3{1, 1, 1})
//	walker.UseModel("body")
//	body := scene.NewPhysics()
//	body.Enable(true)
//	walker.AttachPhysics(body)
//	walker.AttachAnimator(grove.BehaviorWalker)
//	scene.AddEntity(walker)
//
// Geometry, textures and materials are referenced by name and resolved by
// [Scene.Bind] through a [Resources] lookup such as [Catalog]. Unknown names
// are logged and skipped.
//
// # Frame
//
// [Scene.Update] runs camera input, then physics, then animation, then scene
// tweens and the update callback, then the camera follow and light refresh.
// [Scene.Draw] sets up the skybox, view and lights, walks the tree in
// pre-order into [RenderCommand] values and replays them against the
// [Graphics] implementation.
//
// # Camera
//
// [Camera] has three modes: free flight, third person behind a target
// entity, and an aerial overview. Mode keys are edge-triggered. Losing the
// target drops the camera back to free mode.
//
// Position, rotation and scale tweens use [gween]; structured logging uses
// [logrus].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [logrus]: https://github.com/sirupsen/logrus
package grove

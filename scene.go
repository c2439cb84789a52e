package grove

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kamstrup/intmap"
	"github.com/sirupsen/logrus"
)

const (
	defaultCommandCap = 256
	defaultAspect     = 16.0 / 9.0
)

// Scene is the top-level object that owns the node tree, the camera, the
// lights and the render buffers. Nodes attached directly under the root are
// entities.
type Scene struct {
	root   *Node
	camera *Camera
	cfg    Config

	resources  Resources
	skyboxName string
	skybox     Skybox

	projection Mat4
	aspect     float32

	lights   []*Light
	lightSet LightSet

	ids *intmap.Map[uint32, *Node]

	commands []RenderCommand

	tweens   []*TweenGroup
	onUpdate func(dt float32)

	log   logrus.FieldLogger
	debug bool
	stats debugStats
}

// NewScene creates a scene with an empty root, a free camera and the default
// sun, all configured from cfg.
func NewScene(cfg Config) *Scene {
	s := &Scene{
		root:     NewContainer("root"),
		camera:   NewCamera(cfg),
		cfg:      cfg,
		aspect:   defaultAspect,
		ids:      intmap.New[uint32, *Node](64),
		commands: make([]RenderCommand, 0, defaultCommandCap),
		log:      logrus.StandardLogger(),
	}
	s.updateProjection()
	s.refreshLights()
	return s
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node { return s.root }

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera { return s.camera }

// Config returns the configuration the scene was built with.
func (s *Scene) Config() Config { return s.cfg }

// SetLogger replaces the logger used by the scene and its camera.
func (s *Scene) SetLogger(l logrus.FieldLogger) {
	if l == nil {
		return
	}
	s.log = l
	s.camera.SetLogger(l)
}

// Logger returns the scene's logger.
func (s *Scene) Logger() logrus.FieldLogger { return s.log }

// SetDebugMode enables or disables debug mode. When enabled the scene logger
// is raised to debug level and per-frame timing stats are logged.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	if !enabled {
		return
	}
	switch l := s.log.(type) {
	case *logrus.Logger:
		l.SetLevel(logrus.DebugLevel)
	case *logrus.Entry:
		l.Logger.SetLevel(logrus.DebugLevel)
	}
}

// NewPhysics returns a disabled physics component using the scene's gravity.
func (s *Scene) NewPhysics() *Physics {
	p := NewPhysics()
	p.Gravity = s.cfg.Physics.Gravity
	return p
}

// --- Entities ---

// AddEntity attaches n under the root, resolves its resources and indexes
// its subtree. A nil node or an existing entity is ignored.
func (s *Scene) AddEntity(n *Node) {
	if n == nil {
		s.log.WithField("kind", "entity").Debug("grove: ignored nil entity")
		return
	}
	if n.Parent == s.root {
		return
	}
	if n.disposed || isAncestor(n, s.root) {
		s.log.WithField("node", n.Name).Debug("grove: ignored invalid entity")
		return
	}
	s.root.AddChild(n)
	s.Bind(n)
	n.walk(func(c *Node) {
		s.ids.Put(c.ID, c)
		c.prevPosition = c.Position
		if c.Animator != nil {
			c.Animator.applyDefaultSpeed(s.cfg.Animation.ChannelSpeed)
		}
	})
}

// RemoveEntity detaches n from the root without disposing it.
func (s *Scene) RemoveEntity(n *Node) {
	if n == nil || n.Parent != s.root {
		return
	}
	n.walk(func(c *Node) { s.ids.Del(c.ID) })
	s.root.RemoveChild(n)
}

// DestroyEntity detaches and disposes n with its subtree and components.
func (s *Scene) DestroyEntity(n *Node) {
	if n == nil || n.Parent != s.root {
		return
	}
	s.RemoveEntity(n)
	n.Dispose()
}

// Entities returns the root's children. The returned slice MUST NOT be
// mutated.
func (s *Scene) Entities() []*Node { return s.root.Children() }

// FindEntity returns the first entity with the given name, or nil.
func (s *Scene) FindEntity(name string) *Node {
	for _, e := range s.root.children {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// NodeByID returns the attached node with the given ID. Nodes added below an
// entity after AddEntity are found by a tree walk and then indexed.
func (s *Scene) NodeByID(id uint32) *Node {
	if id == 0 {
		return nil
	}
	if n, ok := s.ids.Get(id); ok {
		if n.ID == id && s.attached(n) {
			return n
		}
		s.ids.Del(id)
	}
	var found *Node
	s.root.walk(func(c *Node) {
		if found == nil && c.ID == id && c != s.root {
			found = c
		}
	})
	if found != nil {
		s.ids.Put(id, found)
	}
	return found
}

func (s *Scene) attached(n *Node) bool {
	if n.disposed {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p == s.root {
			return true
		}
	}
	return false
}

// Teardown disposes every entity, forgets the lights and drops the camera
// target.
func (s *Scene) Teardown() {
	for len(s.root.children) > 0 {
		s.root.children[len(s.root.children)-1].Dispose()
	}
	s.ids.Clear()
	s.lights = nil
	s.tweens = nil
	s.camera.SetTarget(nil)
	s.commands = s.commands[:0]
	s.refreshLights()
}

// --- Resources ---

// SetResources sets the lookup used by Bind and rebinds every entity.
func (s *Scene) SetResources(r Resources) {
	s.resources = r
	s.skybox = nil
	if s.skyboxName != "" {
		s.SetSkybox(s.skyboxName)
	}
	for _, e := range s.root.children {
		s.Bind(e)
	}
}

// SetSkybox selects the skybox by name. An unknown name clears it.
func (s *Scene) SetSkybox(name string) {
	s.skyboxName = name
	s.skybox = nil
	if name == "" {
		return
	}
	if s.resources != nil {
		if sky, ok := s.resources.SkyboxByName(name); ok {
			s.skybox = sky
			return
		}
	}
	s.missing(nil, "skybox", name)
}

// Bind resolves the model, mesh, texture and material names of n and its
// descendants. Unknown names leave the binding empty and are logged at debug
// level.
func (s *Scene) Bind(n *Node) {
	if n == nil {
		return
	}
	n.walk(func(c *Node) {
		if s.debug {
			s.debugCheckTreeDepth(c)
		}
		s.bindNode(c)
	})
}

func (s *Scene) bindNode(n *Node) {
	r := s.resources
	n.model, n.mesh, n.texture, n.material = nil, nil, nil, nil

	switch n.Geometry {
	case GeometryModel:
		if r != nil {
			if m, ok := r.ModelByName(n.ModelName); ok {
				n.model = m
			}
		}
		if n.model == nil {
			s.missing(n, "model", n.ModelName)
		}
	case GeometryMesh:
		if r != nil {
			if m, ok := r.MeshByName(n.MeshName); ok {
				n.mesh = m
			}
		}
		if n.mesh == nil {
			s.missing(n, "mesh", n.MeshName)
		}
	}

	if n.TextureName != "" {
		if r != nil {
			if t, ok := r.TextureByName(n.TextureName); ok {
				n.texture = t
			}
		}
		if n.texture == nil {
			s.missing(n, "texture", n.TextureName)
		}
	}

	if n.MaterialName != "" {
		if r != nil {
			if m, ok := r.MaterialByName(n.MaterialName); ok {
				n.material = m
			}
		}
		if n.material == nil {
			s.missing(n, "material", n.MaterialName)
		}
	}
}

func (s *Scene) missing(n *Node, kind, name string) {
	f := logrus.Fields{"kind": kind, "resource": name}
	if n != nil {
		f["node"] = n.Name
	}
	s.log.WithFields(f).Debug("grove: missing resource, binding skipped")
}

// --- Lights ---

// AddLight registers l. Nil and already registered lights are ignored.
func (s *Scene) AddLight(l *Light) {
	if l == nil {
		return
	}
	for _, existing := range s.lights {
		if existing == l {
			return
		}
	}
	s.lights = append(s.lights, l)
	s.refreshLights()
}

// RemoveLight unregisters l.
func (s *Scene) RemoveLight(l *Light) {
	for i, existing := range s.lights {
		if existing == l {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			s.refreshLights()
			return
		}
	}
}

// Light returns the first registered light with the given name, or nil.
func (s *Scene) Light(name string) *Light {
	for _, l := range s.lights {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Lights returns the registered lights. The returned slice MUST NOT be
// mutated.
func (s *Scene) Lights() []*Light { return s.lights }

// ClearLights unregisters every light. The default sun remains active.
func (s *Scene) ClearLights() {
	s.lights = nil
	s.refreshLights()
}

// ActiveLights returns the light set computed by the last refresh.
func (s *Scene) ActiveLights() *LightSet { return &s.lightSet }

// refreshLights moves following lights onto their targets and rebuilds the
// active set.
func (s *Scene) refreshLights() {
	for _, l := range s.lights {
		l.follow()
	}
	s.lightSet = buildLightSet(s.lights)
}

// --- Tweens ---

// AddTween runs g every Update until it is done.
func (s *Scene) AddTween(g *TweenGroup) {
	if g == nil || g.Done {
		return
	}
	s.tweens = append(s.tweens, g)
}

// Tweens returns the number of running tween groups.
func (s *Scene) Tweens() int { return len(s.tweens) }

func (s *Scene) updateTweens(dt float32) {
	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(s.tweens[len(live):])
	s.tweens = live
}

// SetUpdateFunc sets a callback run every Update after animation and before
// the camera follows its target.
func (s *Scene) SetUpdateFunc(fn func(dt float32)) { s.onUpdate = fn }

// --- Projection ---

// SetProjection sets the vertical field of view in degrees and the clip
// planes.
func (s *Scene) SetProjection(fovY, near, far float32) {
	s.cfg.Projection = ProjectionConfig{FovY: fovY, Near: near, Far: far}
	s.updateProjection()
}

// SetAspect sets the viewport aspect ratio (width / height).
func (s *Scene) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	s.aspect = aspect
	s.updateProjection()
}

// Projection returns the current projection matrix.
func (s *Scene) Projection() Mat4 { return s.projection }

func (s *Scene) updateProjection() {
	p := s.cfg.Projection
	s.projection = mgl32.Perspective(mgl32.DegToRad(p.FovY), s.aspect, p.Near, p.Far)
}

// --- Frame ---

// Update runs one frame of simulation: camera input, then physics for every
// node with a physics component, then animation for every node with an
// animator, then tweens and the update callback, then the light refresh.
// dt is in seconds.
func (s *Scene) Update(in Input, dt float32) {
	if dt < 0 {
		dt = 0
	}
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.camera.HandleInput(in, dt)

	for _, e := range s.root.children {
		e.walk(s.stepPhysics(dt))
	}
	for _, e := range s.root.children {
		e.walk(s.stepAnimation(dt))
	}
	s.updateTweens(dt)
	if s.onUpdate != nil {
		s.onUpdate(dt)
	}

	s.camera.Update()
	s.refreshLights()

	if s.debug {
		s.stats.updateTime = time.Since(t0)
	}
}

func (s *Scene) stepPhysics(dt float32) func(*Node) {
	return func(n *Node) {
		if n.Physics == nil || !n.Physics.Enabled() {
			return
		}
		rest := n.initial.Position
		if n.Animator != nil {
			rest[1] += n.Animator.Lift()
		}
		pos := n.Position
		n.Physics.Apply(dt, &pos, rest)
		n.SetPosition(pos)
	}
}

func (s *Scene) stepAnimation(dt float32) func(*Node) {
	return func(n *Node) {
		if n.Animator != nil {
			var speed float32
			if dt > 0 {
				d := n.Position.Sub(n.prevPosition)
				speed = Vec3{d.X(), 0, d.Z()}.Len() / dt
			}
			n.Animator.Animate(dt, speed)
		}
		n.prevPosition = n.Position
	}
}

// Draw renders the scene through g: skybox, view and projection, lights,
// then every command from a fresh traversal.
func (s *Scene) Draw(g Graphics) {
	view := s.camera.ViewMatrix()
	if s.skybox != nil {
		g.DrawSkybox(s.skybox, view, s.projection)
	}
	g.SetView(view, s.projection, s.camera.Position())
	s.lightSet.Apply(g)

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.commands = s.commands[:0]
	treeOrder := 0
	s.traverse(s.root, identityTransform, &treeOrder)

	if s.debug {
		s.stats.traverseTime = time.Since(t0)
		s.stats.commandCount = len(s.commands)
		t0 = time.Now()
	}

	draws := s.submit(g)

	if s.debug {
		s.stats.submitTime = time.Since(t0)
		s.stats.drawCallCount = draws
		s.debugLog(s.stats)
	}
}

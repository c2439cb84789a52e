package grove

// --- ID counter ---

// nodeIDCounter is a plain counter. The scene graph is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the fundamental scene graph element: a local transform, an ordered
// list of exclusively owned children, and optional geometry and behavior.
// A single flat struct is used for every kind of node. A node attached
// directly under the scene root is an entity.
type Node struct {
	// Identity
	ID   uint32
	Name string
	// Part is the role this node plays in an animated hierarchy. Resolved
	// from the name at construction; may be overridden before animating.
	Part BodyPart

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Rotation is Euler degrees applied Z, then Y, then X.
	// After writing these fields directly call UpdateTransform.
	Position Vec3
	Rotation Vec3
	Scale    Vec3

	local   Mat4
	initial Pose

	// Visible controls whether this node and its subtree are rendered.
	Visible bool

	// Resource names, resolved by Scene.Bind.
	Geometry     GeometryKind
	ModelName    string
	MeshName     string
	TextureName  string
	MaterialName string

	model    Model
	mesh     Mesh
	texture  Texture
	material *Material

	// Behavior components, exclusively owned.
	Physics  *Physics
	Animator *Animator

	// prevPosition feeds the per-frame movement speed given to the animator.
	prevPosition Vec3

	disposed bool
}

// NewNode creates a node with the given local pose. The pose is recorded as
// the node's initial pose: the animators' reference pose and the physics
// rest height.
func NewNode(name string, pos, rot, scale Vec3) *Node {
	n := &Node{
		ID:       nextNodeID(),
		Name:     name,
		Part:     PartFromName(name),
		Position: pos,
		Rotation: rot,
		Scale:    scale,
		Visible:  true,
	}
	n.initial = Pose{Position: pos, Rotation: rot, Scale: scale}
	n.prevPosition = pos
	n.UpdateTransform()
	return n
}

// NewContainer creates a grouping node with an identity transform and no
// geometry.
func NewContainer(name string) *Node {
	return NewNode(name, Vec3{}, Vec3{}, Vec3{1, 1, 1})
}

// --- Tree manipulation ---

// AddChild appends child to this node's children, making this node its sole
// owner. If child already has a parent, it is removed from that parent first.
// A nil child, or a child that is this node or one of its ancestors, is
// ignored.
func (n *Node) AddChild(child *Node) {
	if child == nil || isAncestor(child, n) || child.disposed || n.disposed {
		return
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from this node without disposing it.
// No-op if child is nil or not a child of this node.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || child.Parent != n {
		return
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list in insertion order. The returned slice MUST
// NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index, or nil when out of range.
func (n *Node) ChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}
	return n.children[index]
}

// FindChild returns the first descendant with the given name in depth-first
// pre-order, or nil.
func (n *Node) FindChild(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
		if found := c.FindChild(name); found != nil {
			return found
		}
	}
	return nil
}

// --- Geometry and resources ---

// UseModel binds this node to the named model, clearing any mesh binding.
func (n *Node) UseModel(name string) {
	n.Geometry = GeometryModel
	n.ModelName = name
	n.MeshName = ""
	n.mesh = nil
}

// UseMesh binds this node to the named mesh, clearing any model binding.
func (n *Node) UseMesh(name string) {
	n.Geometry = GeometryMesh
	n.MeshName = name
	n.ModelName = ""
	n.model = nil
}

// UseTexture sets the texture name to resolve at bind time.
func (n *Node) UseTexture(name string) {
	n.TextureName = name
	n.texture = nil
}

// UseMaterial sets the material name to resolve at bind time.
func (n *Node) UseMaterial(name string) {
	n.MaterialName = name
	n.material = nil
}

// ClearGeometry turns this node into a pure grouping node.
func (n *Node) ClearGeometry() {
	n.Geometry = GeometryNone
	n.ModelName = ""
	n.MeshName = ""
	n.model = nil
	n.mesh = nil
}

// ClearTexture removes the texture binding.
func (n *Node) ClearTexture() {
	n.TextureName = ""
	n.texture = nil
}

// --- Components ---

// AttachPhysics gives this node exclusive ownership of p. Passing nil
// detaches the current component.
func (n *Node) AttachPhysics(p *Physics) {
	n.Physics = p
}

// AttachAnimator creates an animator with the given behavior, owned by this
// node, and returns it.
func (n *Node) AttachAnimator(b Behavior) *Animator {
	n.Animator = NewAnimator(n, b)
	return n.Animator
}

// --- Pose snapshot ---

// InitialPose returns the pose recorded at creation (or by SnapshotPose).
func (n *Node) InitialPose() Pose {
	return n.initial
}

// SnapshotPose records the current local pose as the initial pose.
func (n *Node) SnapshotPose() {
	n.initial = Pose{Position: n.Position, Rotation: n.Rotation, Scale: n.Scale}
	n.prevPosition = n.Position
}

// ResetPose restores the initial pose.
func (n *Node) ResetPose() {
	n.SetLocal(n.initial.Position, n.initial.Rotation, n.initial.Scale)
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed, and
// recursively disposes all descendants along with their components.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Physics = nil
	if n.Animator != nil {
		n.Animator.owner = nil
		n.Animator = nil
	}
	n.model = nil
	n.mesh = nil
	n.texture = nil
	n.material = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// walk calls fn for n and every descendant in depth-first pre-order.
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

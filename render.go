package grove

// RenderCommand is a single draw instruction emitted during scene traversal.
type RenderCommand struct {
	Node      *Node
	Transform Mat4
	Geometry  GeometryKind
	Model     Model
	Mesh      Mesh
	// Material is nil when the node's material name did not resolve; submit
	// binds DefaultMaterial in that case.
	Material *Material
	Texture  Texture

	treeOrder int // assigned during traversal
}

// traverse walks the node tree depth-first in pre-order, recomputing each
// local matrix, composing it with the parent's, and emitting a command for
// every node with resolved geometry. Invisible subtrees are skipped; nodes
// without geometry still recurse.
func (s *Scene) traverse(n *Node, parent Mat4, treeOrder *int) {
	if !n.Visible || n.disposed {
		return
	}

	n.UpdateTransform()
	world := n.ComposedMatrix(parent)

	var emit bool
	switch n.Geometry {
	case GeometryModel:
		emit = n.model != nil
	case GeometryMesh:
		emit = n.mesh != nil
	}
	if emit {
		*treeOrder++
		s.commands = append(s.commands, RenderCommand{
			Node:      n,
			Transform: world,
			Geometry:  n.Geometry,
			Model:     n.model,
			Mesh:      n.mesh,
			Material:  n.material,
			Texture:   n.texture,
			treeOrder: *treeOrder,
		})
	}

	for _, c := range n.children {
		s.traverse(c, world, treeOrder)
	}
}

// submit replays the command list against g and returns the number of draw
// calls issued.
func (s *Scene) submit(g Graphics) int {
	draws := 0
	for i := range s.commands {
		cmd := &s.commands[i]
		g.SetModelMatrix(cmd.Transform)

		mat := cmd.Material
		if mat == nil {
			mat = DefaultMaterial
		}
		g.BindMaterial(mat)

		if cmd.Texture != nil {
			g.BindTexture(cmd.Texture)
		}

		switch cmd.Geometry {
		case GeometryModel:
			g.DrawModel(cmd.Model)
			draws++
		case GeometryMesh:
			g.DrawMesh(cmd.Mesh)
			draws++
		}
	}
	return draws
}

// Commands returns the commands emitted by the last Draw. The returned slice
// MUST NOT be mutated and is reused by the next Draw.
func (s *Scene) Commands() []RenderCommand {
	return s.commands
}

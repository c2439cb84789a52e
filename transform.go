package grove

import "github.com/go-gl/mathgl/mgl32"

// identityTransform is the identity matrix used at the root of traversal.
var identityTransform = mgl32.Ident4()

// computeLocalTransform computes the local matrix from the node's transform
// properties.
//
// Composition order:
//
//	Translate(Position) * RotateZ * RotateY * RotateX * Scale(Scale)
func computeLocalTransform(pos, rot, scale Vec3) Mat4 {
	m := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z())
	m = m.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rot.Z())))
	m = m.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rot.Y())))
	m = m.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(rot.X())))
	return m.Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// UpdateTransform recomputes the local matrix from Position, Rotation and
// Scale. Every setter calls it; call it yourself after writing the fields
// directly.
func (n *Node) UpdateTransform() {
	n.local = computeLocalTransform(n.Position, n.Rotation, n.Scale)
}

// LocalMatrix returns the local transform matrix.
func (n *Node) LocalMatrix() Mat4 {
	return n.local
}

// ComposedMatrix returns parent * local. It has no side effects.
func (n *Node) ComposedMatrix(parent Mat4) Mat4 {
	return parent.Mul4(n.local)
}

// WorldMatrix returns the product of every local matrix from the root down to
// this node.
func (n *Node) WorldMatrix() Mat4 {
	if n.Parent == nil {
		return n.local
	}
	return n.Parent.WorldMatrix().Mul4(n.local)
}

// WorldPosition returns the world-space origin of this node.
func (n *Node) WorldPosition() Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// --- Transform property setters ---

// SetLocal sets position, rotation (degrees) and scale together and
// recomputes the local matrix.
func (n *Node) SetLocal(pos, rot, scale Vec3) {
	n.Position = pos
	n.Rotation = rot
	n.Scale = scale
	n.UpdateTransform()
}

// SetPosition sets the local position and recomputes the local matrix.
func (n *Node) SetPosition(pos Vec3) {
	n.Position = pos
	n.UpdateTransform()
}

// SetRotation sets the local Euler rotation in degrees and recomputes the
// local matrix.
func (n *Node) SetRotation(rot Vec3) {
	n.Rotation = rot
	n.UpdateTransform()
}

// SetScale sets the local scale and recomputes the local matrix.
func (n *Node) SetScale(scale Vec3) {
	n.Scale = scale
	n.UpdateTransform()
}

// Translate moves the node by delta in its parent's space.
func (n *Node) Translate(delta Vec3) {
	n.Position = n.Position.Add(delta)
	n.UpdateTransform()
}

// --- Coordinate conversion ---

// LocalToWorld converts a point in this node's local space to world space.
func (n *Node) LocalToWorld(p Vec3) Vec3 {
	return mgl32.TransformCoordinate(p, n.WorldMatrix())
}

// WorldToLocal converts a world-space point to this node's local space.
// Returns p unchanged if the world matrix is singular.
func (n *Node) WorldToLocal(p Vec3) Vec3 {
	w := n.WorldMatrix()
	if det := w.Det(); det > -1e-12 && det < 1e-12 {
		return p
	}
	return mgl32.TransformCoordinate(p, w.Inv())
}

package grove

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates the three components of one of a node's transform
// vectors simultaneously. Create one via TweenPosition, TweenRotation or
// TweenScale and call Update(dt) each frame. The group writes the values and
// recomputes the node's local matrix. If the target node is disposed, the
// group stops immediately.
//
// Scene.AddTween runs a group with the scene's frames; otherwise callers own
// and update their groups.
type TweenGroup struct {
	tweens [3]*gween.Tween
	field  *Vec3
	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds, writes values to the target
// vector and refreshes the node's local matrix. If the target node has been
// disposed, Done is set to true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i, tw := range g.tweens {
		val, finished := tw.Update(dt)
		g.field[i] = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.UpdateTransform()
	}
}

func newVecTween(node *Node, field *Vec3, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := &TweenGroup{field: field, target: node}
	for i := range g.tweens {
		g.tweens[i] = gween.New(field[i], to[i], duration, fn)
	}
	return g
}

// TweenPosition creates a TweenGroup that moves node.Position to the given
// target over the specified duration using the easing function.
func TweenPosition(node *Node, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newVecTween(node, &node.Position, to, duration, fn)
}

// TweenRotation creates a TweenGroup that turns node.Rotation (degrees) to
// the target angles.
func TweenRotation(node *Node, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newVecTween(node, &node.Rotation, to, duration, fn)
}

// TweenScale creates a TweenGroup that animates node.Scale.
func TweenScale(node *Node, to Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newVecTween(node, &node.Scale, to, duration, fn)
}

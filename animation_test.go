package grove

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWalkerRig() (*Node, map[BodyPart]*Node) {
	body := NewNode("walker", Vec3{}, Vec3{}, Vec3{1, 1, 1})
	parts := map[BodyPart]*Node{}
	for _, name := range []string{"head", "left-arm", "right-arm", "left-leg", "right-leg"} {
		c := NewNode(name, Vec3{0, 1, 0}, Vec3{}, Vec3{1, 1, 1})
		body.AddChild(c)
		parts[c.Part] = c
	}
	return body, parts
}

func newAcrobatRig() (*Node, map[BodyPart]*Node) {
	torso := NewNode("torso", Vec3{}, Vec3{}, Vec3{1, 1, 1})
	parts := map[BodyPart]*Node{}
	add := func(parent *Node, name string) *Node {
		c := NewNode(name, Vec3{0, -0.5, 0}, Vec3{}, Vec3{1, 1, 1})
		parent.AddChild(c)
		parts[c.Part] = c
		return c
	}
	add(add(torso, "left-arm"), "left-forearm")
	add(add(torso, "right-arm"), "right-forearm")
	add(add(torso, "left-leg"), "left-foot")
	add(add(torso, "right-leg"), "right-foot")

	p := NewPhysics()
	p.Enable(true)
	torso.AttachPhysics(p)
	return torso, parts
}

// --- Channels ---

func TestAnimatorChannels(t *testing.T) {
	a := NewAnimator(NewContainer("n"), BehaviorNone)
	for i := range MaxChannels {
		assert.False(t, a.Active(i))
		assert.Equal(t, float32(DefaultChannelSpeed), a.Speed(i))
	}

	a.times[3] = 2
	a.Activate(3)
	assert.True(t, a.Active(3))
	assert.Zero(t, a.Time(3), "Activate resets the phase")

	a.Deactivate(3)
	assert.False(t, a.Active(3))

	a.Activate(MaxChannels)
	a.Activate(-1)
	assert.False(t, a.Active(MaxChannels))
	assert.False(t, a.Active(-1))
	assert.Zero(t, a.Time(99))
}

func TestApplyDefaultSpeedKeepsExplicit(t *testing.T) {
	a := NewAnimator(NewContainer("n"), BehaviorWalker)
	a.SetSpeed(2, 1.5)
	a.applyDefaultSpeed(9)
	assert.Equal(t, float32(9), a.Speed(0))
	assert.Equal(t, float32(1.5), a.Speed(2))
}

func TestBehaviorString(t *testing.T) {
	assert.Equal(t, "acrobat", BehaviorAcrobat.String())
	assert.Equal(t, "unknown", Behavior(99).String())
}

// --- Continuous cycle ---

func TestWalkCycleWrapsWhileMoving(t *testing.T) {
	body, _ := newWalkerRig()
	a := body.AttachAnimator(BehaviorWalker)

	a.Update(ChannelWalk, 1, 1)
	require.True(t, a.Active(ChannelWalk))
	assert.InDelta(t, 6, a.Time(ChannelWalk), 1e-4)

	a.Update(ChannelWalk, 0.5, 1)
	assert.InDelta(t, 9-twoPi, a.Time(ChannelWalk), 1e-4)
	assert.Less(t, a.Time(ChannelWalk), float32(twoPi))
}

func TestWalkCycleWindsDownThenStops(t *testing.T) {
	body, parts := newWalkerRig()
	a := body.AttachAnimator(BehaviorWalker)

	a.Update(ChannelWalk, 0.5, 1) // t = 3
	require.InDelta(t, 3, a.Time(ChannelWalk), 1e-4)

	// Stopped: phase runs on to 2π and holds, posing there.
	a.Update(ChannelWalk, 1, 0)
	assert.True(t, a.Active(ChannelWalk))
	assert.Equal(t, float32(twoPi), a.Time(ChannelWalk))
	assert.InDelta(t, math32.Sin(twoPi)*walkerLegSwing, parts[PartRightLeg].Rotation.X(), 1e-3)

	// Next stopped evaluation deactivates without posing.
	parts[PartRightLeg].SetRotation(Vec3{7, 0, 0})
	a.Update(ChannelWalk, 1, 0)
	assert.False(t, a.Active(ChannelWalk))
	assert.Zero(t, a.Time(ChannelWalk))
	assert.Equal(t, float32(7), parts[PartRightLeg].Rotation.X())

	// Stays idle.
	a.Update(ChannelWalk, 1, 0)
	assert.False(t, a.Active(ChannelWalk))
}

func TestWalkerPose(t *testing.T) {
	body, parts := newWalkerRig()
	a := body.AttachAnimator(BehaviorWalker)

	// Quarter cycle: sin(t) = 1.
	a.Update(ChannelWalk, math32.Pi/2/DefaultChannelSpeed, 1)

	assert.InDelta(t, walkerLegSwing, parts[PartRightLeg].Rotation.X(), 1e-3)
	assert.InDelta(t, -walkerLegSwing, parts[PartLeftLeg].Rotation.X(), 1e-3)
	assert.InDelta(t, -walkerArmSwing, parts[PartRightArm].Rotation.X(), 1e-3)
	assert.InDelta(t, walkerArmSwing, parts[PartLeftArm].Rotation.X(), 1e-3)
	assert.InDelta(t, walkerHeadSway, parts[PartHead].Rotation.Z(), 1e-3)
	// |sin(2·π/2)| = 0
	assert.InDelta(t, 1, parts[PartHead].Position.Y(), 1e-3)
}

func TestUpdateIgnoresInvalidChannel(t *testing.T) {
	body, parts := newWalkerRig()
	a := body.AttachAnimator(BehaviorWalker)
	a.Update(MaxChannels, 1, 1)
	a.Update(-1, 1, 1)
	assert.Zero(t, parts[PartRightLeg].Rotation.X())
}

func TestDisposedOwnerIsNoop(t *testing.T) {
	body, _ := newWalkerRig()
	a := body.AttachAnimator(BehaviorWalker)
	body.Dispose()
	assert.NotPanics(t, func() { a.Animate(1.0/60, 1) })
}

// --- Acrobat ---

func TestAcrobatWalkBobAndLift(t *testing.T) {
	torso, parts := newAcrobatRig()
	a := torso.AttachAnimator(BehaviorAcrobat)

	// t = π/4: |sin(π/2)| = 1, full bob.
	a.Animate(math32.Pi/4/DefaultChannelSpeed, 1)
	assert.InDelta(t, acrobatBob, torso.Position.Y(), 1e-4)
	assert.InDelta(t, acrobatBob, a.Lift(), 1e-4)

	s := math32.Sin(math32.Pi / 4)
	assert.InDelta(t, s*acrobatArmSwing, parts[PartRightArm].Rotation.X(), 1e-3)
	assert.InDelta(t, s*acrobatForearmSwing, parts[PartRightForearm].Rotation.X(), 1e-3)
	assert.InDelta(t, -s*acrobatThighSwing, parts[PartRightLeg].Rotation.X(), 1e-3)
	// Right thigh behind: foot bends by 1.5.
	assert.InDelta(t, s*acrobatFootBack*acrobatFootSwing, parts[PartRightFoot].Rotation.X(), 1e-3)
	// Left thigh ahead: foot bends by 0.3.
	assert.InDelta(t, s*acrobatFootFront*acrobatFootSwing, parts[PartLeftFoot].Rotation.X(), 1e-3)
}

func TestAcrobatFootBend(t *testing.T) {
	assert.InDelta(t, 1.5, acrobatFootBend(-1), 1e-6)
	assert.InDelta(t, 0.3, acrobatFootBend(1), 1e-6)
	assert.Zero(t, acrobatFootBend(0))
}

func TestAcrobatJumpWithoutPhysicsClears(t *testing.T) {
	torso, _ := newAcrobatRig()
	torso.AttachPhysics(nil)
	a := torso.AttachAnimator(BehaviorAcrobat)
	a.Activate(ChannelJump)
	a.Update(ChannelJump, 1.0/60, 0)
	assert.False(t, a.Active(ChannelJump))
}

func TestAcrobatJumpCompressionThenLanding(t *testing.T) {
	torso, parts := newAcrobatRig()
	a := torso.AttachAnimator(BehaviorAcrobat)
	torso.SetRotation(Vec3{0, 45, 0})
	phys := torso.Physics

	phys.Jump(8)
	a.Activate(ChannelJump)

	const dt = 1.0 / 60
	pos := torso.Position
	phys.Apply(dt, &pos, torso.InitialPose().Position)
	torso.SetPosition(pos)
	a.Animate(dt, 0)

	// Compression: squashed, arms folding.
	assert.Less(t, torso.Scale.Y(), float32(1))
	assert.Greater(t, torso.Scale.X(), float32(1))
	assert.Greater(t, parts[PartRightArm].Rotation.Z(), float32(0))
	assert.Less(t, parts[PartLeftArm].Rotation.Z(), float32(0))
	assert.Less(t, parts[PartRightLeg].Rotation.X(), float32(0))
	assert.Greater(t, parts[PartRightFoot].Rotation.X(), float32(0))

	maxFlip := float32(0)
	for range 600 {
		pos := torso.Position
		phys.Apply(dt, &pos, torso.InitialPose().Position)
		torso.SetPosition(pos)
		a.Animate(dt, 0)
		if !a.Active(ChannelJump) {
			break
		}
		maxFlip = max(maxFlip, torso.Rotation.X())
		assert.Equal(t, float32(45), torso.Rotation.Y(), "flip keeps the heading")
		assert.LessOrEqual(t, torso.Rotation.X(), float32(acrobatFlipMax))
	}

	require.False(t, a.Active(ChannelJump), "landing should end the jump")
	assert.Greater(t, maxFlip, float32(0))
	assert.Equal(t, Vec3{0, 45, 0}, torso.Rotation)
	assert.Equal(t, Vec3{1, 1, 1}, torso.Scale)
	for _, p := range parts {
		assert.Equal(t, p.InitialPose().Rotation, p.Rotation, p.Name)
	}
}

func TestAcrobatWalkSuspendedDuringJump(t *testing.T) {
	torso, _ := newAcrobatRig()
	a := torso.AttachAnimator(BehaviorAcrobat)

	a.Animate(0.1, 1)
	require.True(t, a.Active(ChannelWalk))

	torso.Physics.Jump(8)
	a.Activate(ChannelJump)
	torso.SetPosition(Vec3{0, 0.5, 0})
	a.Animate(1.0/60, 1)

	assert.False(t, a.Active(ChannelWalk))
	assert.Zero(t, a.Lift())
	assert.Equal(t, float32(0.5), torso.Position.Y(), "airborne height is left to physics")
}

// --- Wanderer ---

func newSerpentRig(pos Vec3) *Node {
	head := NewNode("serpent", pos, Vec3{}, Vec3{1, 1, 1})
	parent := head
	for range wanderSegments {
		seg := NewNode("segment", Vec3{0, 0, -1}, Vec3{}, Vec3{1, 1, 1})
		parent.AddChild(seg)
		parent = seg
	}
	return head
}

func TestWandererStaysInBounds(t *testing.T) {
	head := newSerpentRig(Vec3{150, 0, -125})
	a := head.AttachAnimator(BehaviorWanderer)
	b := a.Bounds

	for range 60 * 120 {
		a.Animate(1.0/60, 0)
		p := head.Position
		require.GreaterOrEqual(t, p.X(), b.MinX)
		require.LessOrEqual(t, p.X(), b.MaxX)
		require.GreaterOrEqual(t, p.Z(), b.MinZ)
		require.LessOrEqual(t, p.Z(), b.MaxZ)
	}
	assert.True(t, a.Active(0))
}

func TestWandererMovesAtConstantSpeed(t *testing.T) {
	head := newSerpentRig(Vec3{150, 0, -125})
	a := head.AttachAnimator(BehaviorWanderer)
	start := head.Position
	a.Animate(0.5, 0)
	assert.InDelta(t, wanderSpeed*0.5, head.Position.Sub(start).Len(), 1e-4)
	// Heading 0 faces +Z.
	assert.InDelta(t, start.Z()+wanderSpeed*0.5, head.Position.Z(), 1e-4)
}

func TestWandererTurnsAtEdge(t *testing.T) {
	// Facing +Z right at the far edge.
	head := newSerpentRig(Vec3{150, 0, -100.5})
	a := head.AttachAnimator(BehaviorWanderer)
	a.Animate(0.1, 0)
	assert.InDelta(t, wanderTurnRate*0.1, math32.Abs(head.Rotation.Y()), 1e-3)
}

func TestWandererUndulatesChain(t *testing.T) {
	head := newSerpentRig(Vec3{150, 0, -125})
	a := head.AttachAnimator(BehaviorWanderer)
	a.Animate(0.5, 0)

	tm := a.Time(0)
	seg := head.ChildAt(0)
	for i := range wanderSegments {
		want := math32.Sin(tm-wanderPhaseOffset*float32(i)) * wanderUndulation
		assert.InDelta(t, want, seg.Rotation.Y(), 1e-3, "segment %d", i)
		seg = seg.ChildAt(0)
	}
}

func TestWandererSeedDeterminism(t *testing.T) {
	run := func() Vec3 {
		head := newSerpentRig(Vec3{120, 0, -105})
		a := head.AttachAnimator(BehaviorWanderer)
		a.SetSeed(42)
		for range 600 {
			a.Animate(1.0/60, 0)
		}
		return head.Position
	}
	assert.Equal(t, run(), run())
}

// --- Hover ---

func TestHover(t *testing.T) {
	n := NewNode("lamp", Vec3{0, 3, 0}, Vec3{}, Vec3{1, 1, 1})
	a := n.AttachAnimator(BehaviorHover)

	a.Animate(math32.Pi/4, 0) // t = π/2
	assert.InDelta(t, 3+hoverAmplitude, n.Position.Y(), 1e-4)
	assert.InDelta(t, hoverAmplitude, a.Lift(), 1e-4)

	a.Animate(math32.Pi/2, 0) // t = 3π/2
	assert.InDelta(t, 3-hoverAmplitude, n.Position.Y(), 1e-4)
}

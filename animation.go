package grove

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Behavior selects the procedural animation an Animator runs.
type Behavior uint8

const (
	// BehaviorNone performs no pose update.
	BehaviorNone Behavior = iota
	// BehaviorWalker swings legs and arms in anti-phase and sways the head.
	BehaviorWalker
	// BehaviorAcrobat walks on channel 0 and somersaults on channel 1.
	BehaviorAcrobat
	// BehaviorWanderer roams a rectangle and undulates a chain of segments.
	BehaviorWanderer
	// BehaviorHover bobs the owner up and down forever.
	BehaviorHover
)

var behaviorNames = [...]string{"none", "walker", "acrobat", "wanderer", "hover"}

func (b Behavior) String() string {
	if int(b) < len(behaviorNames) {
		return behaviorNames[b]
	}
	return "unknown"
}

const (
	// MaxChannels is the number of animation channels per Animator.
	MaxChannels = 16
	// DefaultChannelSpeed is the phase rate of a channel in radians per second.
	DefaultChannelSpeed = 6

	// ChannelWalk drives the continuous walk cycles.
	ChannelWalk = 0
	// ChannelJump drives the acrobat somersault.
	ChannelJump = 1
)

// Walker amplitudes, in degrees unless noted.
const (
	walkerLegSwing  = 35
	walkerArmSwing  = 25
	walkerHeadSway  = 5
	walkerHeadBob   = 0.08 // units
	walkerBobFactor = 2    // head bob runs at twice the stride rate
)

// Acrobat walk and jump parameters.
const (
	acrobatArmSwing     = 25
	acrobatForearmSwing = 4
	acrobatThighSwing   = 40
	acrobatFootSwing    = 30
	acrobatBob          = 0.06 // units
	acrobatFootBack     = 1.5  // foot bend factor with the thigh behind
	acrobatFootFront    = 0.3  // foot bend factor with the thigh ahead

	acrobatSquash      = 0.3  // fraction of height lost at full compression
	acrobatCompression = 0.15 // seconds
	acrobatArmFold     = 60
	acrobatThighFold   = 80
	acrobatFootFold    = 60
	acrobatFlipMax     = 360
	acrobatFlipRate    = 2 // degrees per unit of vertical speed per second
	acrobatFlipArms    = 120
	acrobatFlipThighs  = 90
)

// Wanderer parameters.
const (
	wanderSpeed       = 12  // units per second
	wanderTurnRate    = 540 // degrees per second
	wanderEdgeMargin  = 2   // units
	wanderLookahead   = 2   // future position is checked this many steps ahead
	wanderSpread      = 90  // max random deviation from the centre heading
	wanderUndulation  = 15  // degrees
	wanderUndulRate   = 3   // radians per second
	wanderPhaseOffset = 0.3 // radians between chain segments
	wanderSegments    = 5   // chain length
	wanderSettle      = 0.1 // heading error below which turning stops
)

// Hover parameters.
const (
	hoverAmplitude = 0.3 // units
	hoverRate      = 2   // radians per second
)

// WanderBounds is the XZ rectangle a wanderer stays inside.
type WanderBounds struct {
	MinX, MaxX float32
	MinZ, MaxZ float32
}

// DefaultWanderBounds is the arena used when none is configured.
var DefaultWanderBounds = WanderBounds{MinX: 115, MaxX: 195, MinZ: -150, MaxZ: -100}

// Animator drives procedural animation of its owner node and the owner's
// descendants. Channels are a 16-bit activity register with a phase and a
// speed each. All behavior state lives on the instance, so any number of
// animated nodes can share a scene.
type Animator struct {
	owner    *Node
	Behavior Behavior

	flags  uint16
	times  [MaxChannels]float32
	speeds [MaxChannels]float32
	// speedSet marks channels whose speed was set explicitly.
	speedSet uint16

	// Track is the keyframe player advanced by Animate.
	Track *KeyframeTrack
	// Bounds confines BehaviorWanderer.
	Bounds WanderBounds

	preJump       Vec3
	heading       float32
	targetHeading float32
	rng           *rand.Rand

	// lift is the vertical offset the behavior applied to the owner itself.
	lift float32
}

// NewAnimator returns an animator for owner with every channel inactive and
// running at DefaultChannelSpeed. The wander RNG is seeded from the owner's
// ID; use SetSeed for a different sequence.
func NewAnimator(owner *Node, b Behavior) *Animator {
	a := &Animator{
		owner:    owner,
		Behavior: b,
		Track:    NewKeyframeTrack(),
		Bounds:   DefaultWanderBounds,
	}
	for i := range a.speeds {
		a.speeds[i] = DefaultChannelSpeed
	}
	var seed uint64
	if owner != nil {
		seed = uint64(owner.ID)
	}
	a.SetSeed(seed)
	return a
}

// Owner returns the node this animator poses, or nil once that node has been
// disposed.
func (a *Animator) Owner() *Node { return a.owner }

// SetSeed reseeds the wander RNG.
func (a *Animator) SetSeed(seed uint64) {
	a.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// --- Channels ---

func validChannel(i int) bool { return i >= 0 && i < MaxChannels }

// Activate sets channel i and resets its time. Out-of-range indices are
// ignored.
func (a *Animator) Activate(i int) {
	if !validChannel(i) {
		return
	}
	a.flags |= 1 << uint(i)
	a.times[i] = 0
}

// Deactivate clears channel i. Its time is left as is.
func (a *Animator) Deactivate(i int) {
	if !validChannel(i) {
		return
	}
	a.flags &^= 1 << uint(i)
}

// Active reports whether channel i is set. False for out-of-range indices.
func (a *Animator) Active(i int) bool {
	return validChannel(i) && a.flags&(1<<uint(i)) != 0
}

// Time returns the phase of channel i.
func (a *Animator) Time(i int) float32 {
	if !validChannel(i) {
		return 0
	}
	return a.times[i]
}

// SetSpeed sets the phase rate of channel i in radians per second.
func (a *Animator) SetSpeed(i int, speed float32) {
	if validChannel(i) {
		a.speeds[i] = speed
		a.speedSet |= 1 << uint(i)
	}
}

// applyDefaultSpeed sets every channel not configured through SetSpeed.
func (a *Animator) applyDefaultSpeed(speed float32) {
	if speed <= 0 {
		return
	}
	for i := range a.speeds {
		if a.speedSet&(1<<uint(i)) == 0 {
			a.speeds[i] = speed
		}
	}
}

// Speed returns the phase rate of channel i.
func (a *Animator) Speed(i int) float32 {
	if !validChannel(i) {
		return 0
	}
	return a.speeds[i]
}

// Lift returns the vertical offset the current behavior has added to the
// owner's own position. The scene raises the physics floor by it.
func (a *Animator) Lift() float32 { return a.lift }

// --- Frame update ---

// Animate runs every channel the behavior uses, then advances the keyframe
// track.
func (a *Animator) Animate(dt, movementSpeed float32) {
	switch a.Behavior {
	case BehaviorWalker, BehaviorWanderer, BehaviorHover:
		a.Update(ChannelWalk, dt, movementSpeed)
	case BehaviorAcrobat:
		a.Update(ChannelWalk, dt, movementSpeed)
		a.Update(ChannelJump, dt, movementSpeed)
	}
	if a.Track != nil && a.owner != nil {
		a.Track.Advance(a.owner)
	}
}

// Update evaluates one channel of the behavior. movementSpeed is the owner's
// horizontal speed in units per second.
func (a *Animator) Update(channel int, dt, movementSpeed float32) {
	if a.owner == nil || !validChannel(channel) {
		return
	}
	switch a.Behavior {
	case BehaviorWalker:
		if channel == ChannelWalk && a.advanceCycle(channel, dt, movementSpeed) {
			a.poseWalker(a.times[channel])
		}
	case BehaviorAcrobat:
		switch channel {
		case ChannelWalk:
			a.updateAcrobatWalk(dt, movementSpeed)
		case ChannelJump:
			a.updateAcrobatJump(dt)
		}
	case BehaviorWanderer:
		if channel == 0 {
			a.updateWanderer(channel, dt)
		}
	case BehaviorHover:
		if channel == 0 {
			a.updateHover(channel, dt)
		}
	}
}

// advanceCycle applies the continuous-motion rule to channel ch and reports
// whether a pose should be applied. While moving the phase loops in [0, 2π).
// Once motion stops the phase runs on to exactly 2π and holds there; the
// following evaluation deactivates the channel and resets its phase.
func (a *Animator) advanceCycle(ch int, dt, speed float32) bool {
	active := a.Active(ch)
	switch {
	case speed > motionEpsilon:
		if !active {
			a.Activate(ch)
		}
		a.times[ch] += dt * a.speeds[ch]
		for a.times[ch] >= twoPi {
			a.times[ch] -= twoPi
		}
	case active:
		if a.times[ch] >= twoPi {
			a.Deactivate(ch)
			a.times[ch] = 0
			return false
		}
		a.times[ch] += dt * a.speeds[ch]
		if a.times[ch] >= twoPi {
			a.times[ch] = twoPi
		}
	default:
		return false
	}
	return true
}

// --- Pose helpers ---

// swingX poses n at its initial rotation plus deg about X.
func swingX(n *Node, deg float32) {
	rot := n.initial.Rotation
	rot[0] += deg
	n.SetRotation(rot)
}

// swingZ poses n at its initial rotation plus deg about Z.
func swingZ(n *Node, deg float32) {
	rot := n.initial.Rotation
	rot[2] += deg
	n.SetRotation(rot)
}

// forEachChildPart calls fn for every child of n with the given part.
func forEachChildPart(n *Node, part BodyPart, fn func(*Node)) {
	for _, c := range n.children {
		if c.Part == part {
			fn(c)
		}
	}
}

func (a *Animator) setLift(lift float32) {
	n := a.owner
	n.Position[1] = n.initial.Position.Y() + lift
	a.lift = lift
	n.UpdateTransform()
}

// --- Walker ---

func (a *Animator) poseWalker(t float32) {
	base := math32.Sin(t)
	opposite := math32.Sin(t + math32.Pi)
	for _, c := range a.owner.children {
		switch c.Part {
		case PartRightLeg:
			swingX(c, base*walkerLegSwing)
		case PartLeftLeg:
			swingX(c, opposite*walkerLegSwing)
		case PartRightArm:
			swingX(c, opposite*walkerArmSwing)
		case PartLeftArm:
			swingX(c, base*walkerArmSwing)
		case PartHead:
			c.Rotation = c.initial.Rotation
			c.Rotation[2] += base * walkerHeadSway
			c.Position = c.initial.Position
			c.Position[1] += math32.Abs(math32.Sin(t*walkerBobFactor)) * walkerHeadBob
			c.UpdateTransform()
		}
	}
}

// --- Acrobat ---

// acrobatFootBend is the asymmetric foot factor: the foot bends more while
// its thigh swings back.
func acrobatFootBend(thigh float32) float32 {
	if thigh < 0 {
		return math32.Abs(thigh) * acrobatFootBack
	}
	return thigh * acrobatFootFront
}

func (a *Animator) updateAcrobatWalk(dt, speed float32) {
	if a.Active(ChannelJump) {
		if a.Active(ChannelWalk) {
			a.Deactivate(ChannelWalk)
			a.times[ChannelWalk] = 0
		}
		// Airborne height belongs to physics.
		a.lift = 0
		return
	}

	if !a.advanceCycle(ChannelWalk, dt, speed) {
		if a.lift != 0 {
			a.setLift(0)
		}
		return
	}

	t := a.times[ChannelWalk]
	base := math32.Sin(t)
	opposite := math32.Sin(t + math32.Pi)

	for _, c := range a.owner.children {
		switch c.Part {
		case PartRightArm:
			swingX(c, base*acrobatArmSwing)
			forEachChildPart(c, PartRightForearm, func(f *Node) { swingX(f, base*acrobatForearmSwing) })
		case PartLeftArm:
			swingX(c, opposite*acrobatArmSwing)
			forEachChildPart(c, PartLeftForearm, func(f *Node) { swingX(f, opposite*acrobatForearmSwing) })
		case PartRightLeg:
			swingX(c, opposite*acrobatThighSwing)
			forEachChildPart(c, PartRightFoot, func(f *Node) { swingX(f, acrobatFootBend(opposite)*acrobatFootSwing) })
		case PartLeftLeg:
			swingX(c, base*acrobatThighSwing)
			forEachChildPart(c, PartLeftFoot, func(f *Node) { swingX(f, acrobatFootBend(base)*acrobatFootSwing) })
		}
	}
	a.setLift(math32.Abs(math32.Sin(t*2)) * acrobatBob)
}

func (a *Animator) updateAcrobatJump(dt float32) {
	const ch = ChannelJump
	if !a.Active(ch) {
		return
	}
	n := a.owner
	phys := n.Physics
	if phys == nil {
		a.Deactivate(ch)
		return
	}
	if a.times[ch] == 0 {
		a.preJump = n.Rotation
	}

	if phys.Grounded() && a.times[ch] > 0 {
		a.Deactivate(ch)
		a.times[ch] = 0
		for _, c := range n.children {
			c.ResetPose()
			for _, gc := range c.children {
				gc.ResetPose()
			}
		}
		n.Rotation = a.preJump
		n.Scale = n.initial.Scale
		n.UpdateTransform()
		return
	}

	a.times[ch] += dt
	t := a.times[ch]

	if t < acrobatCompression && !phys.Grounded() {
		f := t / acrobatCompression
		squash := f * acrobatSquash
		init := n.initial.Scale
		n.Scale = Vec3{init.X() * (1 + squash*0.5), init.Y() * (1 - squash), init.Z() * (1 + squash*0.5)}

		for _, c := range n.children {
			switch c.Part {
			case PartRightArm:
				swingZ(c, f*acrobatArmFold)
			case PartLeftArm:
				swingZ(c, -f*acrobatArmFold)
			case PartRightLeg, PartLeftLeg:
				swingX(c, -f*acrobatThighFold)
				for _, gc := range c.children {
					if gc.Part == PartRightFoot || gc.Part == PartLeftFoot {
						swingX(gc, f*acrobatFootFold)
					}
				}
			}
		}
	} else {
		n.Scale = n.initial.Scale

		airborne := t - acrobatCompression
		flip := math32.Min(acrobatFlipMax, airborne*acrobatFlipRate*math32.Abs(phys.Velocity.Y()))
		n.Rotation = a.preJump
		n.Rotation[0] += flip

		f := flip / acrobatFlipMax
		arc := math32.Sin(f * math32.Pi)
		for _, c := range n.children {
			switch c.Part {
			case PartRightArm, PartLeftArm:
				swingX(c, arc*acrobatFlipArms)
			case PartRightLeg, PartLeftLeg:
				swingX(c, -arc*acrobatFlipThighs)
				for _, gc := range c.children {
					if gc.Part == PartRightFoot || gc.Part == PartLeftFoot {
						swingX(gc, (1-f)*acrobatFootFold)
					}
				}
			}
		}
	}
	n.UpdateTransform()
}

// --- Wanderer ---

// headingVector is the XZ forward direction for a yaw in degrees. Yaw 0 faces
// +Z.
func headingVector(deg float32) Vec3 {
	r := mgl32.DegToRad(deg)
	return Vec3{math32.Sin(r), 0, math32.Cos(r)}
}

func (a *Animator) updateWanderer(ch int, dt float32) {
	n := a.owner
	if !a.Active(ch) {
		a.Activate(ch)
		a.heading = wrapDegrees(n.Rotation.Y())
		a.targetHeading = a.heading
	}
	b := a.Bounds

	future := n.Position.Add(headingVector(a.heading).Mul(wanderSpeed * dt * wanderLookahead))
	nearEdge := future.X() <= b.MinX+wanderEdgeMargin ||
		future.X() >= b.MaxX-wanderEdgeMargin ||
		future.Z() <= b.MinZ+wanderEdgeMargin ||
		future.Z() >= b.MaxZ-wanderEdgeMargin
	if nearEdge {
		toCenter := Vec3{(b.MinX+b.MaxX)*0.5 - n.Position.X(), 0, (b.MinZ+b.MaxZ)*0.5 - n.Position.Z()}
		toward := mgl32.RadToDeg(math32.Atan2(toCenter.X(), toCenter.Z()))
		a.targetHeading = toward + (a.rng.Float32()*2-1)*wanderSpread
	}

	diff := wrapDegrees(a.targetHeading - a.heading)
	if math32.Abs(diff) > wanderSettle {
		step := wanderTurnRate * dt
		if math32.Abs(diff) < step {
			a.heading = wrapDegrees(a.targetHeading)
		} else if diff > 0 {
			a.heading = wrapDegrees(a.heading + step)
		} else {
			a.heading = wrapDegrees(a.heading - step)
		}
	}
	n.Rotation[1] = a.heading

	n.Position = n.Position.Add(headingVector(a.heading).Mul(wanderSpeed * dt))
	n.Position[0] = clampf(n.Position.X(), b.MinX, b.MaxX)
	n.Position[2] = clampf(n.Position.Z(), b.MinZ, b.MaxZ)

	a.times[ch] += dt * wanderUndulRate
	for a.times[ch] >= twoPi {
		a.times[ch] -= twoPi
	}
	t := a.times[ch]
	seg := n.ChildAt(0)
	for i := 0; i < wanderSegments && seg != nil; i++ {
		rot := seg.initial.Rotation
		rot[1] += math32.Sin(t-wanderPhaseOffset*float32(i)) * wanderUndulation
		seg.SetRotation(rot)
		seg = seg.ChildAt(0)
	}
	n.UpdateTransform()
}

// --- Hover ---

func (a *Animator) updateHover(ch int, dt float32) {
	if !a.Active(ch) {
		a.Activate(ch)
	}
	a.times[ch] += dt * hoverRate
	for a.times[ch] >= twoPi {
		a.times[ch] -= twoPi
	}
	a.setLift(math32.Sin(a.times[ch]) * hoverAmplitude)
}

package grove

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CameraMode is the camera's control scheme. Exactly one is active.
type CameraMode uint8

const (
	// ModeFree flies the camera itself.
	ModeFree CameraMode = iota
	// ModeThirdPerson drives a target node and orbits behind it.
	ModeThirdPerson
	// ModeAerial hovers above a pannable centre looking down.
	ModeAerial
)

var cameraModeNames = [...]string{"free", "third-person", "aerial"}

func (m CameraMode) String() string {
	if int(m) < len(cameraModeNames) {
		return cameraModeNames[m]
	}
	return "unknown"
}

const (
	maxPitch       = 89
	minAerialPitch = -90
	maxAerialPitch = 0
	// facingThreshold is the horizontal step below which a target keeps
	// its heading.
	facingThreshold = 0.001
)

// glideAnim holds the tweens of an in-flight teleport.
type glideAnim struct {
	tweens [5]*gween.Tween // x, y, z, yaw, pitch
	done   [5]bool
}

// savedView is the free/third-person state kept while aerial mode is active.
type savedView struct {
	position, front, up, right Vec3
	yaw, pitch                 float32
	thirdPerson                bool
}

// Camera produces the view matrix and owns the free / third-person / aerial
// state machine.
type Camera struct {
	position Vec3
	front    Vec3
	up       Vec3
	right    Vec3
	worldUp  Vec3

	yaw, pitch float32

	// MoveSpeed is the free-fly speed in units per second.
	MoveSpeed float32
	// TurnSpeed converts mouse pixels into degrees.
	TurnSpeed float32

	mode CameraMode

	target      *Node
	distance    float32
	height      float32
	targetSpeed float32
	jumpImpulse float32

	aerialYaw         float32
	aerialPitch       float32
	aerialHeight      float32
	aerialCenter      Vec3
	aerialMoveSpeed   float32
	aerialSensitivity float32
	aerialScrollStep  float32
	aerialMinHeight   float32
	aerialMaxHeight   float32

	saved savedView

	teleports []Teleport
	prevKeys  [KeyCount]bool
	glide     *glideAnim

	log logrus.FieldLogger
}

// NewCamera creates a free camera from cfg.
func NewCamera(cfg Config) *Camera {
	c := &Camera{
		position:          cfg.Camera.Position,
		worldUp:           WorldUp,
		yaw:               cfg.Camera.Yaw,
		pitch:             clampf(cfg.Camera.Pitch, -maxPitch, maxPitch),
		MoveSpeed:         cfg.Camera.MoveSpeed,
		TurnSpeed:         cfg.Camera.TurnSpeed,
		distance:          cfg.ThirdPerson.Distance,
		height:            cfg.ThirdPerson.Height,
		targetSpeed:       cfg.ThirdPerson.MoveSpeed,
		jumpImpulse:       cfg.Physics.JumpImpulse,
		aerialYaw:         wrapDegrees(cfg.Aerial.Yaw),
		aerialPitch:       clampf(cfg.Aerial.Pitch, minAerialPitch, maxAerialPitch),
		aerialMinHeight:   cfg.Aerial.MinHeight,
		aerialMaxHeight:   cfg.Aerial.MaxHeight,
		aerialCenter:      cfg.Aerial.Center,
		aerialMoveSpeed:   cfg.Aerial.MoveSpeed,
		aerialSensitivity: cfg.Aerial.Sensitivity,
		aerialScrollStep:  cfg.Aerial.ScrollStep,
		teleports:         append([]Teleport(nil), cfg.Teleports...),
		log:               logrus.StandardLogger(),
	}
	c.aerialHeight = clampf(cfg.Aerial.Height, c.aerialMinHeight, c.aerialMaxHeight)
	c.updateBasis()
	return c
}

// SetLogger replaces the camera's logger.
func (c *Camera) SetLogger(l logrus.FieldLogger) {
	if l != nil {
		c.log = l
	}
}

// --- Getters ---

// Position returns the eye position.
func (c *Camera) Position() Vec3 { return c.position }

// Front returns the unit view direction.
func (c *Camera) Front() Vec3 { return c.front }

// Up returns the camera's up vector.
func (c *Camera) Up() Vec3 { return c.up }

// Right returns the camera's right vector.
func (c *Camera) Right() Vec3 { return c.right }

// Yaw returns the free/third-person yaw in degrees.
func (c *Camera) Yaw() float32 { return c.yaw }

// Pitch returns the free/third-person pitch in degrees.
func (c *Camera) Pitch() float32 { return c.pitch }

// Mode returns the active mode.
func (c *Camera) Mode() CameraMode { return c.mode }

// Target returns the third-person target, or nil.
func (c *Camera) Target() *Node { return c.target }

// ThirdPersonDistance returns how far behind the target the eye sits.
func (c *Camera) ThirdPersonDistance() float32 { return c.distance }

// ThirdPersonHeight returns how far above the target the eye sits.
func (c *Camera) ThirdPersonHeight() float32 { return c.height }

// ThirdPersonSpeed returns the target's walking speed in units per second.
func (c *Camera) ThirdPersonSpeed() float32 { return c.targetSpeed }

// AerialHeight returns the overview height above the aerial centre.
func (c *Camera) AerialHeight() float32 { return c.aerialHeight }

// AerialCenter returns the point the overview hovers above.
func (c *Camera) AerialCenter() Vec3 { return c.aerialCenter }

// AerialYaw returns the overview yaw in degrees.
func (c *Camera) AerialYaw() float32 { return c.aerialYaw }

// AerialPitch returns the overview pitch in degrees, within [-90, 0].
func (c *Camera) AerialPitch() float32 { return c.aerialPitch }

// Gliding reports whether a teleport glide is in flight.
func (c *Camera) Gliding() bool { return c.glide != nil }

// --- Setters ---

// SetPosition moves the eye. Has no lasting effect outside free mode.
func (c *Camera) SetPosition(p Vec3) { c.position = p }

// SetOrientation sets yaw and pitch in degrees and rederives the basis.
func (c *Camera) SetOrientation(yaw, pitch float32) {
	c.yaw = yaw
	c.pitch = clampf(pitch, -maxPitch, maxPitch)
	c.updateBasis()
}

// SetTarget sets the node third-person mode drives. Clearing the target while
// in third-person mode falls back to free mode.
func (c *Camera) SetTarget(n *Node) {
	c.target = n
	if c.mode == ModeThirdPerson && !c.targetValid() {
		c.loseTarget()
	}
}

// SetThirdPersonDistance sets how far behind the target the eye sits.
func (c *Camera) SetThirdPersonDistance(d float32) { c.distance = d }

// SetThirdPersonHeight sets how far above the target the eye sits.
func (c *Camera) SetThirdPersonHeight(h float32) { c.height = h }

// SetThirdPersonMoveSpeed sets the target's walking speed.
func (c *Camera) SetThirdPersonMoveSpeed(s float32) { c.targetSpeed = s }

// SetAerialHeight sets the overview height, clamped to the configured range.
func (c *Camera) SetAerialHeight(h float32) {
	c.aerialHeight = clampf(h, c.aerialMinHeight, c.aerialMaxHeight)
}

// SetAerialCenter sets the point the overview hovers above.
func (c *Camera) SetAerialCenter(center Vec3) { c.aerialCenter = center }

// --- Mode transitions ---

func (c *Camera) targetValid() bool {
	return c.target != nil && !c.target.IsDisposed()
}

// SetFreeMode switches to free flight. Leaving aerial mode restores the view
// saved on entry.
func (c *Camera) SetFreeMode() {
	if c.mode == ModeAerial {
		c.restoreState()
	}
	c.mode = ModeFree
}

// SetThirdPersonMode enables or disables third-person control. Enabling
// without a live target leaves the camera in its current mode.
func (c *Camera) SetThirdPersonMode(enable bool) {
	if !enable {
		if c.mode == ModeThirdPerson {
			c.mode = ModeFree
		}
		return
	}
	if !c.targetValid() {
		c.log.WithField("mode", ModeThirdPerson).Debug("grove: third-person requested without a target")
		return
	}
	if c.mode == ModeAerial {
		c.restoreState()
	}
	c.mode = ModeThirdPerson
}

// SetAerialMode enters or leaves the overview. Entering saves the current
// view; leaving restores it, re-entering third person only when it was active
// and the target is still alive.
func (c *Camera) SetAerialMode(enable bool) {
	if enable {
		if c.mode == ModeAerial {
			return
		}
		c.saveState()
		c.glide = nil
		c.mode = ModeAerial
		c.updateAerial()
		return
	}
	if c.mode != ModeAerial {
		return
	}
	c.restoreState()
	if c.saved.thirdPerson && c.targetValid() {
		c.mode = ModeThirdPerson
	} else {
		c.mode = ModeFree
	}
}

func (c *Camera) saveState() {
	c.saved = savedView{
		position:    c.position,
		front:       c.front,
		up:          c.up,
		right:       c.right,
		yaw:         c.yaw,
		pitch:       c.pitch,
		thirdPerson: c.mode == ModeThirdPerson,
	}
}

func (c *Camera) restoreState() {
	c.position = c.saved.position
	c.front = c.saved.front
	c.up = c.saved.up
	c.right = c.saved.right
	c.yaw = c.saved.yaw
	c.pitch = c.saved.pitch
}

// loseTarget drops a nil or disposed target and falls back to free flight at
// the current eye, keeping the current view direction.
func (c *Camera) loseTarget() {
	c.log.WithField("mode", c.mode).Debug("grove: third-person target lost, switching to free camera")
	c.target = nil
	c.mode = ModeFree
	c.pitch = clampf(mgl32.RadToDeg(math32.Asin(clampf(c.front.Y(), -1, 1))), -maxPitch, maxPitch)
	c.yaw = mgl32.RadToDeg(math32.Atan2(c.front.Z(), c.front.X()))
	c.updateBasis()
}

// --- Input ---

func (c *Camera) pressedOnce(in Input, k Key) bool {
	return in.Pressed(k) && !c.prevKeys[k]
}

// HandleInput applies one frame of input: mode keys, movement, mouse look,
// scroll and any teleport glide.
func (c *Camera) HandleInput(in Input, dt float32) {
	c.handleModeKeys(in)
	c.KeyControl(in, dt)
	c.MouseControl(in.MouseDX, in.MouseDY)
	c.ScrollControl(in.Scroll)
	c.updateGlide(dt)
	c.prevKeys = in.Keys
}

func (c *Camera) handleModeKeys(in Input) {
	if c.pressedOnce(in, KeyToggleThirdPerson) {
		c.SetThirdPersonMode(c.mode != ModeThirdPerson)
	}
	if c.pressedOnce(in, KeyFreeMode) {
		c.SetFreeMode()
	}
	if c.pressedOnce(in, KeyThirdPersonMode) {
		c.SetThirdPersonMode(true)
	}
	if c.pressedOnce(in, KeyAerialMode) {
		c.SetAerialMode(true)
	}
	if c.mode != ModeFree {
		return
	}
	for i, k := range [...]Key{KeyTeleport1, KeyTeleport2, KeyTeleport3, KeyTeleport4} {
		if c.pressedOnce(in, k) && i < len(c.teleports) {
			tp := c.teleports[i]
			c.TeleportTo(tp.Position, tp.Yaw, tp.Pitch, tp.Duration, ease.InOutQuad)
		}
	}
}

// KeyControl applies movement keys for the active mode.
func (c *Camera) KeyControl(in Input, dt float32) {
	if c.mode == ModeThirdPerson && !c.targetValid() {
		c.loseTarget()
	}
	switch c.mode {
	case ModeThirdPerson:
		c.moveTarget(in, dt)
	case ModeAerial:
		c.panAerial(in, dt)
	default:
		v := c.MoveSpeed * dt
		if in.Pressed(KeyForward) {
			c.position = c.position.Add(c.front.Mul(v))
		}
		if in.Pressed(KeyBack) {
			c.position = c.position.Sub(c.front.Mul(v))
		}
		if in.Pressed(KeyLeft) {
			c.position = c.position.Sub(c.right.Mul(v))
		}
		if in.Pressed(KeyRight) {
			c.position = c.position.Add(c.right.Mul(v))
		}
		if in.Pressed(KeyUp) {
			c.position = c.position.Add(c.up.Mul(v))
		}
		if in.Pressed(KeyDown) {
			c.position = c.position.Sub(c.up.Mul(v))
		}
	}
}

// moveTarget walks the target along the camera's flattened basis, turns it
// to face the movement and handles the jump key.
func (c *Camera) moveTarget(in Input, dt float32) {
	t := c.target
	v := c.targetSpeed * dt
	forward := flatten(c.front)
	right := flatten(c.right)

	var move Vec3
	if in.Pressed(KeyForward) {
		move = move.Add(forward.Mul(v))
	}
	if in.Pressed(KeyBack) {
		move = move.Sub(forward.Mul(v))
	}
	if in.Pressed(KeyLeft) {
		move = move.Sub(right.Mul(v))
	}
	if in.Pressed(KeyRight) {
		move = move.Add(right.Mul(v))
	}

	if move.Len() > 0 {
		t.Position = t.Position.Add(move)
		horizontal := Vec3{move.X(), 0, move.Z()}
		if horizontal.Len() > facingThreshold {
			dir := horizontal.Normalize()
			t.Rotation[1] = mgl32.RadToDeg(math32.Atan2(dir.X(), dir.Z()))
		}
		t.UpdateTransform()
	}

	if in.Pressed(KeyJump) && t.Physics != nil && t.Physics.Enabled() && t.Physics.Grounded() {
		t.Physics.Jump(c.jumpImpulse)
		if t.Animator != nil {
			t.Animator.Activate(ChannelJump)
		}
	}
}

func (c *Camera) aerialFront() Vec3 {
	return directionFromAngles(c.aerialYaw, c.aerialPitch)
}

// aerialRight is the horizontal right vector for the aerial yaw. It stays
// defined when the view points straight down.
func (c *Camera) aerialRight() Vec3 {
	r := mgl32.DegToRad(c.aerialYaw)
	return Vec3{-math32.Sin(r), 0, math32.Cos(r)}
}

func (c *Camera) panAerial(in Input, dt float32) {
	v := c.aerialMoveSpeed * dt
	r := mgl32.DegToRad(c.aerialYaw)
	forward := Vec3{math32.Cos(r), 0, math32.Sin(r)}
	right := c.aerialRight()
	if in.Pressed(KeyForward) {
		c.aerialCenter = c.aerialCenter.Add(forward.Mul(v))
	}
	if in.Pressed(KeyBack) {
		c.aerialCenter = c.aerialCenter.Sub(forward.Mul(v))
	}
	if in.Pressed(KeyLeft) {
		c.aerialCenter = c.aerialCenter.Sub(right.Mul(v))
	}
	if in.Pressed(KeyRight) {
		c.aerialCenter = c.aerialCenter.Add(right.Mul(v))
	}
}

// MouseControl turns the camera by the cursor deltas in pixels.
func (c *Camera) MouseControl(dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	if c.mode == ModeAerial {
		s := c.TurnSpeed * c.aerialSensitivity
		c.aerialYaw = wrapDegrees(c.aerialYaw + dx*s)
		c.aerialPitch = clampf(c.aerialPitch+dy*s, minAerialPitch, maxAerialPitch)
		return
	}
	c.yaw += dx * c.TurnSpeed
	c.pitch = clampf(c.pitch+dy*c.TurnSpeed, -maxPitch, maxPitch)
	c.updateBasis()
}

// ScrollControl changes the aerial height. Ignored in other modes.
func (c *Camera) ScrollControl(scroll float32) {
	if c.mode != ModeAerial || scroll == 0 {
		return
	}
	c.SetAerialHeight(c.aerialHeight - scroll*c.aerialScrollStep)
}

// --- Teleport ---

// TeleportTo moves the free camera to pos facing yaw/pitch. A positive
// duration glides there with fn (linear when nil).
func (c *Camera) TeleportTo(pos Vec3, yaw, pitch, duration float32, fn ease.TweenFunc) {
	pitch = clampf(pitch, -maxPitch, maxPitch)
	if duration <= 0 {
		c.glide = nil
		c.position = pos
		c.SetOrientation(yaw, pitch)
		return
	}
	if fn == nil {
		fn = ease.Linear
	}
	toYaw := c.yaw + wrapDegrees(yaw-c.yaw)
	g := &glideAnim{}
	g.tweens[0] = gween.New(c.position.X(), pos.X(), duration, fn)
	g.tweens[1] = gween.New(c.position.Y(), pos.Y(), duration, fn)
	g.tweens[2] = gween.New(c.position.Z(), pos.Z(), duration, fn)
	g.tweens[3] = gween.New(c.yaw, toYaw, duration, fn)
	g.tweens[4] = gween.New(c.pitch, pitch, duration, fn)
	c.glide = g
}

func (c *Camera) updateGlide(dt float32) {
	g := c.glide
	if g == nil {
		return
	}
	if c.mode != ModeFree {
		c.glide = nil
		return
	}
	var vals [5]float32
	allDone := true
	for i, tw := range g.tweens {
		vals[i], g.done[i] = tw.Update(dt)
		if !g.done[i] {
			allDone = false
		}
	}
	c.position = Vec3{vals[0], vals[1], vals[2]}
	c.yaw = vals[3]
	c.pitch = clampf(vals[4], -maxPitch, maxPitch)
	c.updateBasis()
	if allDone {
		c.glide = nil
	}
}

// --- View ---

// updateBasis rederives front/right/up from yaw and pitch.
func (c *Camera) updateBasis() {
	c.front = directionFromAngles(c.yaw, c.pitch)
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

// updateThirdPerson places the eye behind and above the target looking at a
// point half the height above it.
func (c *Camera) updateThirdPerson() {
	target := c.target.WorldPosition()
	dir := directionFromAngles(c.yaw, c.pitch)
	c.position = target.Sub(dir.Mul(c.distance))
	c.position[1] += c.height

	look := target.Add(Vec3{0, c.height * 0.5, 0})
	front := look.Sub(c.position)
	if front.Len() < 1e-6 {
		front = dir
	}
	c.front = front.Normalize()
	c.right = c.front.Cross(c.worldUp)
	if c.right.Len() < 1e-6 {
		c.right = flatten(directionFromAngles(c.yaw+90, 0))
	}
	c.right = c.right.Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

func (c *Camera) updateAerial() {
	c.position = c.aerialCenter.Add(Vec3{0, c.aerialHeight, 0})
	c.front = c.aerialFront()
	c.right = c.aerialRight()
	c.up = c.right.Cross(c.front).Normalize()
}

// Update refreshes the eye and basis for the active mode. ViewMatrix calls it.
func (c *Camera) Update() {
	switch c.mode {
	case ModeThirdPerson:
		if !c.targetValid() {
			c.loseTarget()
			return
		}
		c.updateThirdPerson()
	case ModeAerial:
		c.updateAerial()
	}
}

// ViewMatrix updates the camera for the active mode and returns the look-at
// matrix.
func (c *Camera) ViewMatrix() Mat4 {
	c.Update()
	return mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

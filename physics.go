package grove

// DefaultGravity is the vertical acceleration applied to physics bodies, in
// units per second squared.
const DefaultGravity = -15

// Physics is a minimal vertical-motion component. It integrates velocity
// under gravity and clamps the owner to a rest height, which is the owner's
// initial-pose Y. A new component starts disabled.
type Physics struct {
	Velocity Vec3
	Gravity  float32

	enabled  bool
	grounded bool
}

// NewPhysics returns a disabled, grounded component with DefaultGravity.
func NewPhysics() *Physics {
	return &Physics{Gravity: DefaultGravity, grounded: true}
}

// Enable switches integration on or off.
func (p *Physics) Enable(on bool) { p.enabled = on }

// Enabled reports whether the component integrates.
func (p *Physics) Enabled() bool { return p.enabled }

// Grounded reports whether the body rested on its rest height at the last
// Apply.
func (p *Physics) Grounded() bool { return p.grounded }

// Apply advances the body by dt seconds. pos is updated in place; rest is the
// pose whose Y is the floor. No-op when disabled or pos is nil.
func (p *Physics) Apply(dt float32, pos *Vec3, rest Vec3) {
	if !p.enabled || pos == nil {
		return
	}
	p.Velocity[1] += p.Gravity * dt
	*pos = pos.Add(p.Velocity.Mul(dt))

	if pos.Y() <= rest.Y() {
		pos[1] = rest.Y()
		p.Velocity[1] = 0
		p.grounded = true
	} else {
		p.grounded = false
	}
}

// Jump launches the body upward with the given impulse. Ignored while
// airborne or disabled.
func (p *Physics) Jump(impulse float32) {
	if !p.enabled || !p.grounded {
		return
	}
	p.Velocity[1] = impulse
	p.grounded = false
}

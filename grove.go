package grove

import (
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 and Mat4 are the mathgl types used throughout the API.
type (
	Vec3 = mgl32.Vec3
	Mat4 = mgl32.Mat4
)

// WorldUp is the fixed up axis shared by the camera and the animators.
var WorldUp = Vec3{0, 1, 0}

// Pose is a position/rotation/scale triple. Rotation is in degrees.
type Pose struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

// GeometryKind selects which resource a node draws. Model and mesh are
// mutually exclusive per node.
type GeometryKind uint8

const (
	GeometryNone  GeometryKind = iota // pure grouping node
	GeometryModel                     // draws a Model
	GeometryMesh                      // draws a Mesh
)

// BodyPart is the role a node plays inside an animated hierarchy. Animators
// match on it instead of on node names.
type BodyPart uint8

const (
	PartNone BodyPart = iota
	PartHead
	PartTorso
	PartRightArm
	PartLeftArm
	PartRightForearm
	PartLeftForearm
	PartRightLeg
	PartLeftLeg
	PartRightFoot
	PartLeftFoot
)

var partNames = [...]string{
	PartNone:         "none",
	PartHead:         "head",
	PartTorso:        "torso",
	PartRightArm:     "right-arm",
	PartLeftArm:      "left-arm",
	PartRightForearm: "right-forearm",
	PartLeftForearm:  "left-forearm",
	PartRightLeg:     "right-leg",
	PartLeftLeg:      "left-leg",
	PartRightFoot:    "right-foot",
	PartLeftFoot:     "left-foot",
}

func (p BodyPart) String() string {
	if int(p) < len(partNames) {
		return partNames[p]
	}
	return "unknown"
}

// partMatchOrder lists the substrings checked by PartFromName. Forearms and
// feet come before arms and legs so "left-forearm" is not taken for an arm.
var partMatchOrder = [...]BodyPart{
	PartRightForearm, PartLeftForearm,
	PartRightFoot, PartLeftFoot,
	PartRightArm, PartLeftArm,
	PartRightLeg, PartLeftLeg,
	PartHead, PartTorso,
}

// PartFromName resolves a BodyPart from a node name by substring match, e.g.
// "hero_left-leg" is PartLeftLeg. Matching is case-insensitive and treats
// '_' and ' ' like '-'. Returns PartNone when nothing matches.
func PartFromName(name string) BodyPart {
	if name == "" {
		return PartNone
	}
	norm := strings.ToLower(name)
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	for _, p := range partMatchOrder {
		if strings.Contains(norm, partNames[p]) {
			return p
		}
	}
	return PartNone
}

// --- float32 helpers ---

const (
	twoPi = 2 * math32.Pi
	// motionEpsilon is the movement speed below which a walk cycle winds down.
	motionEpsilon = 0.01
)

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapDegrees maps an angle into (-180, 180].
func wrapDegrees(deg float32) float32 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}

// flatten projects v onto the XZ plane and normalizes it. Returns the zero
// vector when the projection is degenerate.
func flatten(v Vec3) Vec3 {
	f := Vec3{v.X(), 0, v.Z()}
	if f.Len() < 1e-6 {
		return Vec3{}
	}
	return f.Normalize()
}

// directionFromAngles returns the unit vector for yaw/pitch in degrees using
// the usual spherical convention (yaw 0 looks along +X).
func directionFromAngles(yaw, pitch float32) Vec3 {
	y := mgl32.DegToRad(yaw)
	p := mgl32.DegToRad(pitch)
	d := Vec3{
		math32.Cos(y) * math32.Cos(p),
		math32.Sin(p),
		math32.Sin(y) * math32.Cos(p),
	}
	return d.Normalize()
}

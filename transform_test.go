package grove

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-4

// approxEqual compares component-wise against an absolute tolerance, so
// float32 trig residue near zero passes.
func approxEqual(got, want []float32) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math32.Abs(got[i]-want[i]) > epsilon {
			return false
		}
	}
	return true
}

func assertVec(t *testing.T, name string, got, want Vec3) {
	t.Helper()
	if !approxEqual(got[:], want[:]) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want Mat4) {
	t.Helper()
	if !approxEqual(got[:], want[:]) {
		t.Errorf("%s =\n%v\nwant\n%v", name, got, want)
	}
}

func TestApproxEqualNearZero(t *testing.T) {
	// Rotating -Z by a yaw of -90 leaves float32 residue in X.
	got := directionFromAngles(-90, 0)
	if !approxEqual(got[:], []float32{0, 0, -1}) {
		t.Errorf("directionFromAngles(-90, 0) = %v, want [0 0 -1]", got)
	}
	if approxEqual([]float32{0, 0, -1}, []float32{0.001, 0, -1}) {
		t.Error("approxEqual accepted a 1e-3 difference")
	}
}

// --- computeLocalTransform ---

func TestLocalTransformIdentity(t *testing.T) {
	got := computeLocalTransform(Vec3{}, Vec3{}, Vec3{1, 1, 1})
	assertMatrix(t, "identity", got, mgl32.Ident4())
}

func TestLocalTransformTranslation(t *testing.T) {
	got := computeLocalTransform(Vec3{1, 2, 3}, Vec3{}, Vec3{1, 1, 1})
	assertMatrix(t, "translation", got, mgl32.Translate3D(1, 2, 3))
}

func TestLocalTransformScale(t *testing.T) {
	got := computeLocalTransform(Vec3{}, Vec3{}, Vec3{2, 3, 4})
	assertVec(t, "scaled point", mgl32.TransformCoordinate(Vec3{1, 1, 1}, got), Vec3{2, 3, 4})
}

func TestLocalTransformRotationY90(t *testing.T) {
	got := computeLocalTransform(Vec3{}, Vec3{0, 90, 0}, Vec3{1, 1, 1})
	// +X turns to -Z about +Y.
	assertVec(t, "rotY90", mgl32.TransformCoordinate(Vec3{1, 0, 0}, got), Vec3{0, 0, -1})
}

func TestLocalTransformOrder(t *testing.T) {
	pos := Vec3{5, 0, 0}
	rot := Vec3{30, 45, 60}
	scale := Vec3{2, 1, 0.5}
	want := mgl32.Translate3D(5, 0, 0).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(60))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(45))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(30))).
		Mul4(mgl32.Scale3D(2, 1, 0.5))
	assertMatrix(t, "T*Rz*Ry*Rx*S", computeLocalTransform(pos, rot, scale), want)
}

func TestZeroScaleIsDegenerate(t *testing.T) {
	got := computeLocalTransform(Vec3{}, Vec3{}, Vec3{})
	if got.Det() != 0 {
		t.Errorf("det = %v, want 0", got.Det())
	}
}

// --- Setters ---

func TestSettersRecomputeLocal(t *testing.T) {
	n := NewContainer("n")
	n.SetPosition(Vec3{1, 2, 3})
	assertMatrix(t, "after SetPosition", n.LocalMatrix(), mgl32.Translate3D(1, 2, 3))

	n.Translate(Vec3{1, 0, 0})
	assertVec(t, "after Translate", n.Position, Vec3{2, 2, 3})
	assertMatrix(t, "local after Translate", n.LocalMatrix(), mgl32.Translate3D(2, 2, 3))

	n.SetScale(Vec3{2, 2, 2})
	n.SetRotation(Vec3{0, 0, 90})
	want := computeLocalTransform(Vec3{2, 2, 3}, Vec3{0, 0, 90}, Vec3{2, 2, 2})
	assertMatrix(t, "after SetRotation", n.LocalMatrix(), want)
}

func TestDirectFieldWriteNeedsUpdate(t *testing.T) {
	n := NewContainer("n")
	n.Position = Vec3{4, 0, 0}
	assertMatrix(t, "stale", n.LocalMatrix(), mgl32.Ident4())
	n.UpdateTransform()
	assertMatrix(t, "fresh", n.LocalMatrix(), mgl32.Translate3D(4, 0, 0))
}

// --- Composition ---

func TestComposedMatrixHasNoSideEffects(t *testing.T) {
	n := NewNode("n", Vec3{1, 0, 0}, Vec3{}, Vec3{1, 1, 1})
	before := n.LocalMatrix()
	got := n.ComposedMatrix(mgl32.Translate3D(0, 5, 0))
	assertMatrix(t, "composed", got, mgl32.Translate3D(1, 5, 0))
	assertMatrix(t, "local unchanged", n.LocalMatrix(), before)
}

func TestWorldPositionNested(t *testing.T) {
	root := NewNode("root", Vec3{10, 0, 0}, Vec3{0, 90, 0}, Vec3{2, 2, 2})
	child := NewNode("child", Vec3{1, 0, 0}, Vec3{}, Vec3{1, 1, 1})
	root.AddChild(child)

	// child origin: scale 2 then rotY90 maps (1,0,0) to (0,0,-2), then +10 X.
	assertVec(t, "world", child.WorldPosition(), Vec3{10, 0, -2})
}

func TestLocalWorldRoundTrip(t *testing.T) {
	root := NewNode("root", Vec3{3, 1, -2}, Vec3{10, 20, 30}, Vec3{1, 2, 1})
	child := NewNode("child", Vec3{0, 1, 0}, Vec3{0, 45, 0}, Vec3{1, 1, 1})
	root.AddChild(child)

	p := Vec3{0.5, -1, 2}
	assertVec(t, "round trip", child.WorldToLocal(child.LocalToWorld(p)), p)
}

func TestWorldToLocalSingular(t *testing.T) {
	n := NewNode("flat", Vec3{}, Vec3{}, Vec3{})
	p := Vec3{1, 2, 3}
	assertVec(t, "singular", n.WorldToLocal(p), p)
}

package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// transformPoint applies m to a point. Composing the point's translation
// before m leaves m applied to p in the translation column.
func transformPoint(m Mat4, p Vec3) Vec3 {
	q := NewMat4Translation(p).Mul(m)
	return NewVec3(q.Data[12], q.Data[13], q.Data[14])
}

func TestMat4MulAppliesReceiverFirst(t *testing.T) {
	scale := NewMat4Scale(NewVec3(2, 2, 2))
	translate := NewMat4Translation(NewVec3(3, 4, 5))

	// scale then translate: the translation itself is not scaled
	p := transformPoint(scale.Mul(translate), NewVec3(1, 1, 1))
	assert.True(t, p.Compare(NewVec3(5, 6, 7), 1e-5))

	// translate then scale: the translation is scaled too
	p = transformPoint(translate.Mul(scale), NewVec3(1, 1, 1))
	assert.True(t, p.Compare(NewVec3(8, 10, 12), 1e-5))
}

func TestMat4MulIdentity(t *testing.T) {
	m := NewMat4Scale(NewVec3(2, 3, 4)).Mul(NewMat4Translation(NewVec3(1, 2, 3)))
	assert.True(t, m.Mul(NewMat4Identity()).Compare(m, 1e-6))
	assert.True(t, NewMat4Identity().Mul(m).Compare(m, 1e-6))
}

func TestMat4EulerYQuarterTurn(t *testing.T) {
	r := NewMat4EulerY(K_PI / 2)
	p := transformPoint(r, NewVec3(1, 0, 0))
	assert.True(t, p.Compare(NewVec3(0, 0, -1), 1e-6))
}

func TestMat4InverseRoundTrip(t *testing.T) {
	m := NewMat4Scale(NewVec3(2, 3, 4)).
		Mul(NewMat4EulerY(0.7)).
		Mul(NewMat4Translation(NewVec3(-5, 12, 9)))

	assert.True(t, m.Mul(m.Inverse()).Compare(NewMat4Identity(), 1e-4))
}

func TestMat4TransposedSwapsRowsAndColumns(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, 2, 3))
	tr := m.Transposed()
	assert.Equal(t, float32(1), tr.Data[3])
	assert.Equal(t, float32(2), tr.Data[7])
	assert.Equal(t, float32(3), tr.Data[11])
	assert.True(t, tr.Transposed().Compare(m, 0))
}

func TestMat4LookAtCentersTarget(t *testing.T) {
	eye := NewVec3(0, 20, 50)
	target := NewVec3(0, 5, 0)
	view := NewMat4LookAt(eye, target, NewVec3Up())

	// the target lands on the -z axis at its distance from the eye
	seen := transformPoint(view, target)
	distance := target.Sub(eye).Length()
	assert.InDelta(t, 0.0, seen.X, 1e-4)
	assert.InDelta(t, 0.0, seen.Y, 1e-4)
	assert.InDelta(t, -distance, seen.Z, 1e-3)
}

func TestMat4PerspectiveDepthRange(t *testing.T) {
	proj := NewMat4Perspective(DegToRad(45), 16.0/9.0, 1, 1000)

	// a point on the near plane maps to w == nearClip with z behind it
	nearPoint := NewVec3(0, 0, -1)
	q := NewMat4Translation(nearPoint).Mul(proj)
	w := q.Data[15]
	assert.InDelta(t, 1.0, w, 1e-5)
	assert.InDelta(t, -1.0, q.Data[14]/w, 1e-4)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(3, 5, 10))
	assert.Equal(t, 10, Clamp(42, 5, 10))
	assert.Equal(t, 7, Clamp(7, 5, 10))
	assert.Equal(t, float32(0.1), Clamp(float32(-2), 0.1, K_PI-0.1))
}

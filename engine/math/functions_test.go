package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomInRangeBounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := RandomInRange(-3, 7)
		assert.GreaterOrEqual(t, v, int32(-3))
		assert.LessOrEqual(t, v, int32(7))
	}
}

func TestFRandomInRangeBounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := FRandomInRange(2.5, 9.5)
		assert.GreaterOrEqual(t, v, float32(2.5))
		assert.Less(t, v, float32(9.5))
	}
}

func TestAngleConversionRoundTrip(t *testing.T) {
	assert.InDelta(t, K_PI, DegToRad(180), 1e-6)
	assert.InDelta(t, 90.0, RadToDeg(K_HALF_PI), 1e-4)
	assert.InDelta(t, 33.0, RadToDeg(DegToRad(33)), 1e-4)
}

func TestVec3Operations(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	assert.True(t, a.Add(b).Compare(NewVec3(5, 7, 9), 0))
	assert.True(t, b.Sub(a).Compare(NewVec3(3, 3, 3), 0))
	assert.InDelta(t, 32.0, a.Dot(b), 1e-6)

	cross := NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0))
	assert.True(t, cross.Compare(NewVec3(0, 0, 1), 1e-6))

	n := NewVec3(0, 3, 4).Normalized()
	assert.InDelta(t, 1.0, n.Length(), 1e-6)
	assert.True(t, n.Compare(NewVec3(0, 0.6, 0.8), 1e-6))
}

package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bastion3d/bastion/engine/math"
)

func TestOrbitalCameraPosition(t *testing.T) {
	// theta 0, phi pi/2 puts the camera on the +x axis at the radius
	c := NewOrbitalCamera(0, math.K_PI/2, 10, 5, 50)

	pos := c.GetPosition()
	assert.InDelta(t, 10.0, pos.X, 1e-5)
	assert.InDelta(t, 0.0, pos.Y, 1e-4)
	assert.InDelta(t, 0.0, pos.Z, 1e-5)
}

func TestOrbitalCameraOrbitSweepsAroundTarget(t *testing.T) {
	c := NewOrbitalCamera(0, math.K_PI/2, 10, 5, 50)

	// quarter turn lands on the +z axis
	c.Orbit(math.K_PI/2, 0)
	pos := c.GetPosition()
	assert.InDelta(t, 0.0, pos.X, 1e-4)
	assert.InDelta(t, 10.0, pos.Z, 1e-4)
}

func TestOrbitalCameraPhiClampedOffPoles(t *testing.T) {
	c := NewOrbitalCamera(0, math.K_PI/2, 10, 5, 50)

	// drive phi far past the top pole; the eye must stay off the y axis
	c.Orbit(0, -10)
	pos := c.GetPosition()
	horizontal := math.NewVec3(pos.X, 0, pos.Z).Length()
	assert.Greater(t, horizontal, float32(0.5))

	// and past the bottom pole
	c.Orbit(0, 20)
	pos = c.GetPosition()
	horizontal = math.NewVec3(pos.X, 0, pos.Z).Length()
	assert.Greater(t, horizontal, float32(0.5))
}

func TestOrbitalCameraZoomClamped(t *testing.T) {
	c := NewOrbitalCamera(0, math.K_PI/2, 10, 5, 50)

	c.Zoom(-100)
	assert.Equal(t, float32(5), c.Radius())

	c.Zoom(1000)
	assert.Equal(t, float32(50), c.Radius())

	c.Zoom(-20)
	assert.Equal(t, float32(30), c.Radius())
}

func TestOrbitalCameraViewLooksAtTarget(t *testing.T) {
	c := NewOrbitalCamera(1.3, 1.0, 25, 5, 50)
	c.Target = math.NewVec3(0, 10, 0)
	c.Orbit(0, 0)

	view := c.GetView()
	eye := c.GetPosition()

	// the eye maps to the view space origin
	transformed := math.NewMat4Translation(eye).Mul(view)
	assert.InDelta(t, 0.0, transformed.Data[12], 1e-4)
	assert.InDelta(t, 0.0, transformed.Data[13], 1e-4)
	assert.InDelta(t, 0.0, transformed.Data[14], 1e-4)
}

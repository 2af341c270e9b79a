package components

import (
	"github.com/bastion3d/bastion/engine/math"
)

// OrbitalCamera circles a fixed target on a sphere described by spherical
// coordinates. Theta sweeps around the y axis, phi tilts from the pole,
// radius sets the distance. The view matrix is rebuilt lazily when a
// coordinate changed since the last read.
type OrbitalCamera struct {
	Target math.Vec3

	theta  float32
	phi    float32
	radius float32

	minRadius float32
	maxRadius float32

	isDirty    bool
	position   math.Vec3
	viewMatrix math.Mat4
}

func NewOrbitalCamera(theta, phi, radius, minRadius, maxRadius float32) *OrbitalCamera {
	c := &OrbitalCamera{
		Target:    math.NewVec3Zero(),
		theta:     theta,
		radius:    radius,
		minRadius: minRadius,
		maxRadius: maxRadius,
		isDirty:   true,
	}
	c.setPhi(phi)
	return c
}

// Orbit rotates the camera around the target. Phi is clamped just short of
// the poles so the view basis never degenerates.
func (c *OrbitalCamera) Orbit(deltaTheta, deltaPhi float32) {
	c.theta += deltaTheta
	c.setPhi(c.phi + deltaPhi)
	c.isDirty = true
}

func (c *OrbitalCamera) setPhi(phi float32) {
	c.phi = math.Clamp(phi, 0.1, math.K_PI-0.1)
}

// Zoom moves the camera along the view ray, clamped to the configured
// distance range.
func (c *OrbitalCamera) Zoom(deltaRadius float32) {
	c.radius = math.Clamp(c.radius+deltaRadius, c.minRadius, c.maxRadius)
	c.isDirty = true
}

func (c *OrbitalCamera) Radius() float32 {
	return c.radius
}

// GetPosition converts the spherical coordinates to the cartesian eye
// position.
func (c *OrbitalCamera) GetPosition() math.Vec3 {
	c.rebuild()
	return c.position
}

func (c *OrbitalCamera) GetView() math.Mat4 {
	c.rebuild()
	return c.viewMatrix
}

func (c *OrbitalCamera) rebuild() {
	if !c.isDirty {
		return
	}
	sinPhi := math.Sin(c.phi)
	c.position = c.Target.Add(math.NewVec3(
		c.radius*sinPhi*math.Cos(c.theta),
		c.radius*math.Cos(c.phi),
		c.radius*sinPhi*math.Sin(c.theta),
	))
	c.viewMatrix = math.NewMat4LookAt(c.position, c.Target, math.NewVec3Up())
	c.isDirty = false
}

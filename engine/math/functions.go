package math

import (
	m "math"
	"time"

	"golang.org/x/exp/rand"
)

const (
	K_PI float32 = 3.14159265358979323846
	// PI multiplied by 2.
	K_PI_2 float32 = 2.0 * K_PI
	// PI divided by 2.
	K_HALF_PI float32 = 0.5 * K_PI
	// PI divided by 4.
	K_QUARTER_PI float32 = 0.25 * K_PI
	// A multiplier used to convert degrees to radians.
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	// A multiplier used to convert radians to degrees.
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
	// Smallest positive number where 1.0 + FLOAT_EPSILON != 1.0
	K_FLOAT_EPSILON float32 = 1.192092896e-07
)

func ksin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func kcos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

func ktan(x float32) float32 {
	return float32(m.Tan(float64(x)))
}

func ksqrt(x float32) float32 {
	return float32(m.Sqrt(float64(x)))
}

func kabs(x float32) float32 {
	return float32(m.Abs(float64(x)))
}

// Sin is float32 sine.
func Sin(x float32) float32 {
	return ksin(x)
}

// Cos is float32 cosine.
func Cos(x float32) float32 {
	return kcos(x)
}

var randSeeded bool

func seedOnce() {
	if !randSeeded {
		rand.Seed(uint64(time.Now().UnixNano()))
		randSeeded = true
	}
}

// RandomInRange returns a random integer in [min, max].
func RandomInRange(min, max int32) int32 {
	seedOnce()
	return (rand.Int31() % (max - min + 1)) + min
}

// FRandomInRange returns a random float in [min, max).
func FRandomInRange(min, max float32) float32 {
	seedOnce()
	return min + rand.Float32()*(max-min)
}

func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

func RadToDeg(radians float32) float32 {
	return radians * K_RAD2DEG_MULTIPLIER
}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec2Zero() Vec2 {
	return Vec2{}
}

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func NewVec3Zero() Vec3 {
	return Vec3{}
}

func NewVec3One() Vec3 {
	return Vec3{X: 1, Y: 1, Z: 1}
}

func NewVec3Up() Vec3 {
	return Vec3{Y: 1}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{
		X: v.X * other.X,
		Y: v.Y * other.Y,
		Z: v.Z * other.Z,
	}
}

func (v Vec3) MulScalar(scalar float32) Vec3 {
	return Vec3{
		X: v.X * scalar,
		Y: v.Y * scalar,
		Z: v.Z * scalar,
	}
}

func (v Vec3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float32 {
	return ksqrt(v.LengthSquared())
}

// Normalized returns a unit-length copy of the vector. A zero vector is
// returned unchanged.
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return Vec3{X: v.X / length, Y: v.Y / length, Z: v.Z / length}
}

func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Compare checks element-wise equality within the given tolerance.
func (v Vec3) Compare(other Vec3, tolerance float32) bool {
	if kabs(v.X-other.X) > tolerance {
		return false
	}
	if kabs(v.Y-other.Y) > tolerance {
		return false
	}
	if kabs(v.Z-other.Z) > tolerance {
		return false
	}
	return true
}

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func (v Vec4) ToVec3() Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

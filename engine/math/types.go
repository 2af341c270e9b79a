package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

// Mat4 is a 4x4 matrix, typically used to represent object transformations.
// Storage matches what the GPU expects for a GLSL mat4: column vectors are
// contiguous, translation lives in Data[12..14].
type Mat4 struct {
	Data [16]float32
}

// ColorVertex is a single vertex of the demo scene: a position and a
// flat color, nothing else.
type ColorVertex struct {
	Position Vec3
	Color    Vec4
}

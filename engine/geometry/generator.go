package geometry

import (
	stdmath "math"

	"github.com/bastion3d/bastion/engine/math"
)

func sinf(v float32) float32 { return float32(stdmath.Sin(float64(v))) }
func cosf(v float32) float32 { return float32(stdmath.Cos(float64(v))) }

// Grid builds an m by n vertex grid in the xz plane centered at the origin,
// width along x and depth along z.
func Grid(width, depth float32, m, n uint32) MeshData {
	halfWidth := 0.5 * width
	halfDepth := 0.5 * depth

	dx := width / float32(n-1)
	dz := depth / float32(m-1)

	var mesh MeshData
	mesh.Positions = make([]math.Vec3, 0, m*n)
	for i := uint32(0); i < m; i++ {
		z := halfDepth - float32(i)*dz
		for j := uint32(0); j < n; j++ {
			x := -halfWidth + float32(j)*dx
			mesh.Positions = append(mesh.Positions, math.NewVec3(x, 0, z))
		}
	}

	mesh.Indices = make([]uint32, 0, 6*(m-1)*(n-1))
	for i := uint32(0); i < m-1; i++ {
		for j := uint32(0); j < n-1; j++ {
			mesh.Indices = append(mesh.Indices,
				i*n+j, i*n+j+1, (i+1)*n+j,
				(i+1)*n+j, i*n+j+1, (i+1)*n+j+1,
			)
		}
	}
	return mesh
}

// Box builds an axis-aligned box centered at the origin. Each face carries
// its own four vertices so the faces stay flat under any shading.
func Box(width, height, depth float32) MeshData {
	w2 := 0.5 * width
	h2 := 0.5 * height
	d2 := 0.5 * depth

	mesh := MeshData{
		Positions: []math.Vec3{
			// front
			{X: -w2, Y: -h2, Z: -d2}, {X: -w2, Y: h2, Z: -d2}, {X: w2, Y: h2, Z: -d2}, {X: w2, Y: -h2, Z: -d2},
			// back
			{X: -w2, Y: -h2, Z: d2}, {X: w2, Y: -h2, Z: d2}, {X: w2, Y: h2, Z: d2}, {X: -w2, Y: h2, Z: d2},
			// top
			{X: -w2, Y: h2, Z: -d2}, {X: -w2, Y: h2, Z: d2}, {X: w2, Y: h2, Z: d2}, {X: w2, Y: h2, Z: -d2},
			// bottom
			{X: -w2, Y: -h2, Z: -d2}, {X: w2, Y: -h2, Z: -d2}, {X: w2, Y: -h2, Z: d2}, {X: -w2, Y: -h2, Z: d2},
			// left
			{X: -w2, Y: -h2, Z: d2}, {X: -w2, Y: h2, Z: d2}, {X: -w2, Y: h2, Z: -d2}, {X: -w2, Y: -h2, Z: -d2},
			// right
			{X: w2, Y: -h2, Z: -d2}, {X: w2, Y: h2, Z: -d2}, {X: w2, Y: h2, Z: d2}, {X: w2, Y: -h2, Z: d2},
		},
	}

	mesh.Indices = make([]uint32, 0, 36)
	for face := uint32(0); face < 6; face++ {
		base := face * 4
		mesh.Indices = append(mesh.Indices,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
	return mesh
}

// Cylinder builds a capped cylinder along y, centered at the origin. The
// seam column is duplicated so the side wall indexes as a regular grid.
func Cylinder(bottomRadius, topRadius, height float32, sliceCount, stackCount uint32) MeshData {
	var mesh MeshData

	stackHeight := height / float32(stackCount)
	radiusStep := (topRadius - bottomRadius) / float32(stackCount)
	ringCount := stackCount + 1

	dTheta := 2.0 * math.K_PI / float32(sliceCount)
	for i := uint32(0); i < ringCount; i++ {
		y := -0.5*height + float32(i)*stackHeight
		r := bottomRadius + float32(i)*radiusStep
		for j := uint32(0); j <= sliceCount; j++ {
			theta := float32(j) * dTheta
			mesh.Positions = append(mesh.Positions, math.NewVec3(r*cosf(theta), y, r*sinf(theta)))
		}
	}

	ringVertexCount := sliceCount + 1
	for i := uint32(0); i < stackCount; i++ {
		for j := uint32(0); j < sliceCount; j++ {
			mesh.Indices = append(mesh.Indices,
				i*ringVertexCount+j, (i+1)*ringVertexCount+j, (i+1)*ringVertexCount+j+1,
				i*ringVertexCount+j, (i+1)*ringVertexCount+j+1, i*ringVertexCount+j+1,
			)
		}
	}

	buildCylinderCap(&mesh, topRadius, 0.5*height, sliceCount, false)
	buildCylinderCap(&mesh, bottomRadius, -0.5*height, sliceCount, true)
	return mesh
}

func buildCylinderCap(mesh *MeshData, radius, y float32, sliceCount uint32, flip bool) {
	baseIndex := uint32(len(mesh.Positions))

	dTheta := 2.0 * math.K_PI / float32(sliceCount)
	for j := uint32(0); j <= sliceCount; j++ {
		theta := float32(j) * dTheta
		mesh.Positions = append(mesh.Positions, math.NewVec3(radius*cosf(theta), y, radius*sinf(theta)))
	}
	centerIndex := uint32(len(mesh.Positions))
	mesh.Positions = append(mesh.Positions, math.NewVec3(0, y, 0))

	for j := uint32(0); j < sliceCount; j++ {
		if flip {
			mesh.Indices = append(mesh.Indices, centerIndex, baseIndex+j, baseIndex+j+1)
		} else {
			mesh.Indices = append(mesh.Indices, centerIndex, baseIndex+j+1, baseIndex+j)
		}
	}
}

// Cone builds a capped cone along y, centered at the origin, tapering from
// bottomRadius to a single apex vertex.
func Cone(bottomRadius, height float32, sliceCount, stackCount uint32) MeshData {
	var mesh MeshData

	stackHeight := height / float32(stackCount)
	radiusStep := -bottomRadius / float32(stackCount)

	dTheta := 2.0 * math.K_PI / float32(sliceCount)
	for i := uint32(0); i < stackCount; i++ {
		y := -0.5*height + float32(i)*stackHeight
		r := bottomRadius + float32(i)*radiusStep
		for j := uint32(0); j <= sliceCount; j++ {
			theta := float32(j) * dTheta
			mesh.Positions = append(mesh.Positions, math.NewVec3(r*cosf(theta), y, r*sinf(theta)))
		}
	}
	apexIndex := uint32(len(mesh.Positions))
	mesh.Positions = append(mesh.Positions, math.NewVec3(0, 0.5*height, 0))

	ringVertexCount := sliceCount + 1
	for i := uint32(0); i < stackCount-1; i++ {
		for j := uint32(0); j < sliceCount; j++ {
			mesh.Indices = append(mesh.Indices,
				i*ringVertexCount+j, (i+1)*ringVertexCount+j, (i+1)*ringVertexCount+j+1,
				i*ringVertexCount+j, (i+1)*ringVertexCount+j+1, i*ringVertexCount+j+1,
			)
		}
	}
	topRing := (stackCount - 1) * ringVertexCount
	for j := uint32(0); j < sliceCount; j++ {
		mesh.Indices = append(mesh.Indices, topRing+j, apexIndex, topRing+j+1)
	}

	buildCylinderCap(&mesh, bottomRadius, -0.5*height, sliceCount, true)
	return mesh
}

// Torus builds a torus in the xz plane centered at the origin. ringRadius
// is the distance from the origin to the tube center, tubeRadius the tube
// thickness.
func Torus(ringRadius, tubeRadius float32, sliceCount, ringCount uint32) MeshData {
	var mesh MeshData

	dTheta := 2.0 * math.K_PI / float32(ringCount)
	dPhi := 2.0 * math.K_PI / float32(sliceCount)

	for i := uint32(0); i <= ringCount; i++ {
		theta := float32(i) * dTheta
		for j := uint32(0); j <= sliceCount; j++ {
			phi := float32(j) * dPhi
			r := ringRadius + tubeRadius*cosf(phi)
			mesh.Positions = append(mesh.Positions, math.NewVec3(
				r*cosf(theta),
				tubeRadius*sinf(phi),
				r*sinf(theta),
			))
		}
	}

	cols := sliceCount + 1
	for i := uint32(0); i < ringCount; i++ {
		for j := uint32(0); j < sliceCount; j++ {
			mesh.Indices = append(mesh.Indices,
				i*cols+j, (i+1)*cols+j, (i+1)*cols+j+1,
				i*cols+j, (i+1)*cols+j+1, i*cols+j+1,
			)
		}
	}
	return mesh
}

// HexagonalPrism builds a six-sided prism along y, centered at the origin.
func HexagonalPrism(radius, height float32) MeshData {
	return Cylinder(radius, radius, height, 6, 1)
}

// Pyramid builds a rectangular-base pyramid centered at the origin, base
// width by depth at the bottom and the apex on the y axis.
func Pyramid(width, height, depth float32) MeshData {
	w2 := 0.5 * width
	h2 := 0.5 * height
	d2 := 0.5 * depth

	return MeshData{
		Positions: []math.Vec3{
			{X: -w2, Y: -h2, Z: -d2},
			{X: w2, Y: -h2, Z: -d2},
			{X: w2, Y: -h2, Z: d2},
			{X: -w2, Y: -h2, Z: d2},
			{X: 0, Y: h2, Z: 0},
		},
		Indices: []uint32{
			// sides
			0, 4, 1,
			1, 4, 2,
			2, 4, 3,
			3, 4, 0,
			// base
			0, 1, 2,
			0, 2, 3,
		},
	}
}

// Diamond builds a six-sided bipyramid, apexes on the y axis and the
// equator ring at y = 0.
func Diamond(height, radius float32) MeshData {
	var mesh MeshData

	topIndex := uint32(0)
	mesh.Positions = append(mesh.Positions, math.NewVec3(0, 0.5*height, 0))
	bottomIndex := uint32(1)
	mesh.Positions = append(mesh.Positions, math.NewVec3(0, -0.5*height, 0))

	const sides = 6
	ringStart := uint32(len(mesh.Positions))
	dTheta := 2.0 * math.K_PI / float32(sides)
	for j := uint32(0); j < sides; j++ {
		theta := float32(j) * dTheta
		mesh.Positions = append(mesh.Positions, math.NewVec3(radius*cosf(theta), 0, radius*sinf(theta)))
	}

	for j := uint32(0); j < sides; j++ {
		next := (j + 1) % sides
		mesh.Indices = append(mesh.Indices,
			topIndex, ringStart+next, ringStart+j,
			bottomIndex, ringStart+j, ringStart+next,
		)
	}
	return mesh
}

// Wedge builds a ramp: a box sliced along the diagonal from the top of one
// long edge down to the opposite bottom edge. The high edge sits at
// x = -width/2.
func Wedge(width, depth, height float32) MeshData {
	w2 := 0.5 * width
	d2 := 0.5 * depth

	return MeshData{
		Positions: []math.Vec3{
			{X: -w2, Y: 0, Z: -d2}, // 0 base near
			{X: w2, Y: 0, Z: -d2},  // 1 base near low side
			{X: w2, Y: 0, Z: d2},   // 2 base far low side
			{X: -w2, Y: 0, Z: d2},  // 3 base far
			{X: -w2, Y: height, Z: -d2}, // 4 top near
			{X: -w2, Y: height, Z: d2},  // 5 top far
		},
		Indices: []uint32{
			// base
			0, 1, 2,
			0, 2, 3,
			// vertical back face
			0, 3, 5,
			0, 5, 4,
			// slope
			4, 5, 2,
			4, 2, 1,
			// triangular ends
			0, 4, 1,
			3, 2, 5,
		},
	}
}

// TriangularPrism builds a prism with a triangular cross-section in the xz
// plane, extruded along y. The triangle spans width along x and depth along
// z with its point toward +z.
func TriangularPrism(width, depth, height float32) MeshData {
	w2 := 0.5 * width
	d2 := 0.5 * depth
	h2 := 0.5 * height

	return MeshData{
		Positions: []math.Vec3{
			{X: -w2, Y: -h2, Z: -d2}, // 0 bottom left
			{X: w2, Y: -h2, Z: -d2},  // 1 bottom right
			{X: 0, Y: -h2, Z: d2},    // 2 bottom point
			{X: -w2, Y: h2, Z: -d2},  // 3 top left
			{X: w2, Y: h2, Z: -d2},   // 4 top right
			{X: 0, Y: h2, Z: d2},     // 5 top point
		},
		Indices: []uint32{
			// caps
			0, 2, 1,
			3, 4, 5,
			// back quad
			0, 1, 4,
			0, 4, 3,
			// right quad
			1, 2, 5,
			1, 5, 4,
			// left quad
			2, 0, 3,
			2, 3, 5,
		},
	}
}

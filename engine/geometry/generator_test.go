package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastion3d/bastion/engine/math"
)

func assertValidMesh(t *testing.T, mesh MeshData) {
	t.Helper()
	require.NotEmpty(t, mesh.Positions)
	require.NotEmpty(t, mesh.Indices)
	assert.Zero(t, len(mesh.Indices)%3, "index count must be a multiple of 3")
	for _, idx := range mesh.Indices {
		assert.Less(t, idx, uint32(len(mesh.Positions)), "index out of bounds")
	}
}

func TestGridDimensions(t *testing.T) {
	mesh := Grid(80, 80, 60, 40)
	assert.Equal(t, 60*40, len(mesh.Positions))
	assert.Equal(t, 6*59*39, len(mesh.Indices))
	assertValidMesh(t, mesh)

	// corners sit at the half extents, grid lies in the xz plane
	for _, p := range mesh.Positions {
		assert.Zero(t, p.Y)
		assert.LessOrEqual(t, p.X, float32(40.0001))
		assert.GreaterOrEqual(t, p.X, float32(-40.0001))
	}
}

func TestBoxDimensions(t *testing.T) {
	mesh := Box(20, 2, 15)
	assert.Equal(t, 24, len(mesh.Positions))
	assert.Equal(t, 36, len(mesh.Indices))
	assertValidMesh(t, mesh)

	for _, p := range mesh.Positions {
		assert.Equal(t, float32(10), absf(p.X))
		assert.Equal(t, float32(1), absf(p.Y))
		assert.Equal(t, float32(7.5), absf(p.Z))
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestCylinderCounts(t *testing.T) {
	slices, stacks := uint32(12), uint32(4)
	mesh := Cylinder(1, 1, 8, slices, stacks)
	// side rings plus two caps of ring+center each
	wantVerts := (stacks+1)*(slices+1) + 2*(slices+2)
	assert.Equal(t, int(wantVerts), len(mesh.Positions))
	assertValidMesh(t, mesh)
}

func TestConeHasSingleApex(t *testing.T) {
	mesh := Cone(2.5, 6, 16, 8)
	assertValidMesh(t, mesh)

	apexes := 0
	for _, p := range mesh.Positions {
		if p.Y > 2.999 {
			apexes++
		}
	}
	assert.Equal(t, 1, apexes)
}

func TestTorusBounds(t *testing.T) {
	mesh := Torus(3.2, 2.5, 20, 20)
	assert.Equal(t, 21*21, len(mesh.Positions))
	assertValidMesh(t, mesh)

	for _, p := range mesh.Positions {
		assert.LessOrEqual(t, absf(p.Y), float32(2.50001))
		radial := math.NewVec3(p.X, 0, p.Z).Length()
		assert.LessOrEqual(t, radial, float32(5.70001))
	}
}

func TestHexagonalPrism(t *testing.T) {
	mesh := HexagonalPrism(3, 18)
	assertValidMesh(t, mesh)
	for _, p := range mesh.Positions {
		assert.LessOrEqual(t, absf(p.Y), float32(9.00001))
	}
}

func TestPyramidShape(t *testing.T) {
	mesh := Pyramid(16, 13, 8)
	assert.Equal(t, 5, len(mesh.Positions))
	assert.Equal(t, 18, len(mesh.Indices))
	assertValidMesh(t, mesh)
	assert.Equal(t, math.NewVec3(0, 6.5, 0), mesh.Positions[4])
}

func TestDiamondWedgePrism(t *testing.T) {
	for _, mesh := range []MeshData{
		Diamond(4, 3),
		Wedge(4, 3, 0.5),
		TriangularPrism(0.8, 0.3, 5),
	} {
		assertValidMesh(t, mesh)
	}
}

func TestBundleConcatenation(t *testing.T) {
	b := NewBundle()
	groundColor := math.NewVec4(0, 0.39, 0, 1)
	boxColor := math.NewVec4(0.66, 0.66, 0.66, 1)

	ground := Grid(80, 80, 60, 40)
	box := Box(20, 2, 15)
	require.NoError(t, b.Add(MeshGround, ground, groundColor))
	require.NoError(t, b.Add(MeshKeepFoundation, box, boxColor))

	sub, err := b.SubMesh(MeshKeepFoundation)
	require.NoError(t, err)
	assert.Equal(t, uint32(36), sub.IndexCount)
	assert.Equal(t, uint32(len(ground.Indices)), sub.FirstIndex)
	assert.Equal(t, int32(len(ground.Positions)), sub.VertexOffset)

	// vertices keep the color of the mesh they came from
	assert.Equal(t, groundColor, b.Vertices[0].Color)
	assert.Equal(t, boxColor, b.Vertices[len(ground.Positions)].Color)
}

func TestBundleRejectsDuplicates(t *testing.T) {
	b := NewBundle()
	require.NoError(t, b.Add(MeshGround, Grid(10, 10, 4, 4), math.NewVec4(1, 1, 1, 1)))
	assert.Error(t, b.Add(MeshGround, Grid(10, 10, 4, 4), math.NewVec4(1, 1, 1, 1)))
}

func TestBundleMissingMesh(t *testing.T) {
	b := NewBundle()
	_, err := b.SubMesh(MeshGatehouse)
	assert.Error(t, err)
	assert.False(t, b.Complete())
}

package testbed

import (
	"github.com/bastion3d/bastion/engine/core"
	"github.com/bastion3d/bastion/engine/geometry"
	"github.com/bastion3d/bastion/engine/math"
	"github.com/bastion3d/bastion/engine/renderer"
	"github.com/bastion3d/bastion/engine/renderer/frame"
)

// Per-mesh flat colors, in the spirit of a painted miniature.
var (
	colorGround     = math.NewVec4(0.0, 0.39, 0.0, 1.0)
	colorFoundation = math.NewVec4(0.66, 0.66, 0.66, 1.0)
	colorKeepBody   = math.NewVec4(0.83, 0.83, 0.83, 1.0)
	colorWall       = math.NewVec4(0.6, 0.6, 0.6, 1.0)
	colorTower      = math.NewVec4(0.5, 0.5, 0.5, 1.0)
	colorRoof       = math.NewVec4(0.4, 0.2, 0.1, 1.0)
	colorKeepRoof   = math.NewVec4(0.55, 0.0, 0.0, 1.0)
	colorSpire      = math.NewVec4(1.0, 0.84, 0.0, 1.0)
	colorArrowSlit  = math.NewVec4(0.0, 0.0, 0.0, 1.0)
	colorGable      = math.NewVec4(0.7, 0.7, 0.7, 1.0)
	colorColumn     = math.NewVec4(0.3, 0.3, 0.3, 1.0)
	colorGatehouse  = math.NewVec4(0.5, 0.5, 0.5, 1.0)
)

// buildCastleBundle generates every mesh of the castle scene and merges
// them into one vertex/index pair for a single GPU upload.
func buildCastleBundle() (*geometry.Bundle, error) {
	bundle := geometry.NewBundle()

	type entry struct {
		id    geometry.MeshID
		mesh  geometry.MeshData
		color math.Vec4
	}
	entries := []entry{
		{geometry.MeshGround, geometry.Grid(80, 80, 60, 40), colorGround},
		{geometry.MeshKeepFoundation, geometry.Box(20, 2, 15), colorFoundation},
		{geometry.MeshKeepBody, geometry.Box(10, 30, 12), colorKeepBody},
		{geometry.MeshOuterWallLong, geometry.Box(60, 6, 2), colorWall},
		{geometry.MeshOuterWallShort, geometry.Box(2, 6, 60), colorWall},
		{geometry.MeshHexTower, geometry.HexagonalPrism(3, 18), colorTower},
		{geometry.MeshTorusRoof, geometry.Torus(3.2, 2.5, 20, 20), colorRoof},
		{geometry.MeshKeepPyramidRoof, geometry.Pyramid(16, 13, 8), colorKeepRoof},
		{geometry.MeshKeepConeRoof, geometry.Cone(2.5, 6, 16, 8), colorRoof},
		{geometry.MeshDiamondSpire, geometry.Diamond(4, 3), colorSpire},
		{geometry.MeshArrowSlit, geometry.TriangularPrism(0.8, 0.3, 5), colorArrowSlit},
		{geometry.MeshGableWedge, geometry.Wedge(4, 3, 0.5), colorGable},
		{geometry.MeshGateColumn, geometry.Cylinder(1, 1, 8, 12, 4), colorColumn},
		{geometry.MeshGatehouse, geometry.Box(12, 8, 4), colorGatehouse},
	}
	for _, e := range entries {
		if err := bundle.Add(e.id, e.mesh, e.color); err != nil {
			core.LogError("failed to add %s to scene bundle: %s", e.id.String(), err.Error())
			return nil, err
		}
	}
	return bundle, nil
}

// worldAt composes scale-then-translate, the ordering everything in the
// castle layout uses.
func worldAt(scale, position math.Vec3) math.Mat4 {
	return math.NewMat4Scale(scale).Mul(math.NewMat4Translation(position))
}

func translateTo(position math.Vec3) math.Mat4 {
	return math.NewMat4Translation(position)
}

// placeCastle registers one render item per castle piece. The returned
// item is the keep's diamond spire, which the game animates.
func placeCastle() (*frame.RenderItem, error) {
	type placement struct {
		mesh  geometry.MeshID
		world math.Mat4
	}
	placements := []placement{
		{geometry.MeshGround, translateTo(math.NewVec3(0, -0.5, 0))},

		// keep
		{geometry.MeshKeepFoundation, translateTo(math.NewVec3(0, 1, 0))},
		{geometry.MeshKeepBody, translateTo(math.NewVec3(0, 6, 0))},
		{geometry.MeshKeepPyramidRoof, translateTo(math.NewVec3(0, 25, 0))},

		// curtain walls
		{geometry.MeshOuterWallLong, translateTo(math.NewVec3(0, 3, -30))},
		{geometry.MeshOuterWallLong, translateTo(math.NewVec3(0, 3, 30))},
		{geometry.MeshOuterWallShort, translateTo(math.NewVec3(-30, 3, 0))},
		{geometry.MeshOuterWallShort, translateTo(math.NewVec3(30, 3, 0))},

		// corner towers with squashed torus roofs
		{geometry.MeshHexTower, translateTo(math.NewVec3(-30, 1, -30))},
		{geometry.MeshHexTower, translateTo(math.NewVec3(30, 1, -30))},
		{geometry.MeshHexTower, translateTo(math.NewVec3(-30, 1, 30))},
		{geometry.MeshHexTower, translateTo(math.NewVec3(30, 1, 30))},
		{geometry.MeshTorusRoof, worldAt(math.NewVec3(0.8, 0.4, 1), math.NewVec3(-30, 11, -30))},
		{geometry.MeshTorusRoof, worldAt(math.NewVec3(0.8, 0.4, 1), math.NewVec3(30, 11, -30))},
		{geometry.MeshTorusRoof, worldAt(math.NewVec3(0.8, 0.4, 1), math.NewVec3(-30, 11, 30))},
		{geometry.MeshTorusRoof, worldAt(math.NewVec3(0.8, 0.3, 1), math.NewVec3(30, 11, 30))},

		// keep side towers with cone roofs
		{geometry.MeshHexTower, worldAt(math.NewVec3(0.7, 1, 0.7), math.NewVec3(-6.5, 2, -5))},
		{geometry.MeshHexTower, worldAt(math.NewVec3(0.7, 1, 0.7), math.NewVec3(6.5, 2, -5))},
		{geometry.MeshHexTower, worldAt(math.NewVec3(0.7, 1, 0.7), math.NewVec3(-6.5, 2, 5))},
		{geometry.MeshHexTower, worldAt(math.NewVec3(0.7, 1, 0.7), math.NewVec3(6.5, 2, 5))},
		{geometry.MeshKeepConeRoof, worldAt(math.NewVec3(0.8, 1.7, 0.7), math.NewVec3(-6.5, 16, -5))},
		{geometry.MeshKeepConeRoof, worldAt(math.NewVec3(0.8, 1.7, 0.7), math.NewVec3(6.5, 16, -5))},
		{geometry.MeshKeepConeRoof, worldAt(math.NewVec3(0.8, 1.7, 0.7), math.NewVec3(-6.5, 16, 5))},
		{geometry.MeshKeepConeRoof, worldAt(math.NewVec3(0.8, 1.7, 0.7), math.NewVec3(6.5, 16, 5))},

		// gatehouse on the south wall
		{geometry.MeshGatehouse, translateTo(math.NewVec3(0, 4, 31))},
		{geometry.MeshGableWedge, translateTo(math.NewVec3(0, 8.25, 31))},
		{geometry.MeshHexTower, worldAt(math.NewVec3(0.6, 1, 0.6), math.NewVec3(-8, 1, 31))},
		{geometry.MeshHexTower, worldAt(math.NewVec3(0.6, 1, 0.6), math.NewVec3(8, 1, 31))},
		{geometry.MeshKeepConeRoof, worldAt(math.NewVec3(0.6, 1.2, 1), math.NewVec3(-8, 13.5, 31))},
		{geometry.MeshKeepConeRoof, worldAt(math.NewVec3(0.6, 1.2, 1), math.NewVec3(8, 13.5, 31))},
		{geometry.MeshGateColumn, worldAt(math.NewVec3(0.5, 1, 0.5), math.NewVec3(-3, 4, 34))},
		{geometry.MeshGateColumn, worldAt(math.NewVec3(0.5, 1, 0.5), math.NewVec3(3, 4, 34))},
		{geometry.MeshArrowSlit, translateTo(math.NewVec3(-5, 7, 31.5))},
		{geometry.MeshArrowSlit, translateTo(math.NewVec3(5, 7, 31.5))},
	}

	for _, p := range placements {
		if _, err := renderer.AddItem(p.mesh, p.world); err != nil {
			core.LogError("failed to place %s: %s", p.mesh.String(), err.Error())
			return nil, err
		}
	}

	// Placed last so spinning it exercises the object re-upload path
	// without disturbing the static pieces before it.
	spire, err := renderer.AddItem(geometry.MeshDiamondSpire, translateTo(math.NewVec3(0, 31, 0)))
	if err != nil {
		core.LogError("failed to place %s: %s", geometry.MeshDiamondSpire.String(), err.Error())
		return nil, err
	}
	return spire, nil
}

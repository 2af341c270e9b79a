package geometry

import (
	"fmt"

	"github.com/bastion3d/bastion/engine/core"
	"github.com/bastion3d/bastion/engine/math"
)

// MeshID identifies one mesh inside a merged geometry bundle. Draw calls
// reference meshes through these handles instead of string lookups, so a
// missing mesh is a build-time error rather than a run-time map miss.
type MeshID uint8

const (
	MeshGround MeshID = iota
	MeshKeepFoundation
	MeshKeepBody
	MeshOuterWallLong
	MeshOuterWallShort
	MeshHexTower
	MeshTorusRoof
	MeshKeepPyramidRoof
	MeshKeepConeRoof
	MeshDiamondSpire
	MeshArrowSlit
	MeshGableWedge
	MeshGateColumn
	MeshGatehouse

	MeshCount
)

func (id MeshID) String() string {
	switch id {
	case MeshGround:
		return "ground"
	case MeshKeepFoundation:
		return "keep_foundation"
	case MeshKeepBody:
		return "keep_body"
	case MeshOuterWallLong:
		return "outer_wall_long"
	case MeshOuterWallShort:
		return "outer_wall_short"
	case MeshHexTower:
		return "hex_tower"
	case MeshTorusRoof:
		return "torus_roof"
	case MeshKeepPyramidRoof:
		return "keep_pyramid_roof"
	case MeshKeepConeRoof:
		return "keep_cone_roof"
	case MeshDiamondSpire:
		return "diamond_spire"
	case MeshArrowSlit:
		return "arrow_slit"
	case MeshGableWedge:
		return "gable_wedge"
	case MeshGateColumn:
		return "gate_column"
	case MeshGatehouse:
		return "gatehouse"
	}
	return fmt.Sprintf("mesh(%d)", uint8(id))
}

// MeshData is the raw output of a generator: positions and a triangle list.
type MeshData struct {
	Positions []math.Vec3
	Indices   []uint32
}

// SubMesh locates one mesh's triangles inside the bundle buffers.
type SubMesh struct {
	IndexCount   uint32
	FirstIndex   uint32
	VertexOffset int32
}

// Bundle concatenates every mesh into a single vertex and index buffer so
// the whole scene uploads once and binds once. Each mesh keeps a SubMesh
// record with its region of the shared buffers.
type Bundle struct {
	Vertices []math.ColorVertex
	Indices  []uint32

	subMeshes [MeshCount]SubMesh
	added     [MeshCount]bool
}

func NewBundle() *Bundle {
	return &Bundle{}
}

// Add appends a mesh to the bundle, tinting every vertex with color.
// Adding the same MeshID twice is a bug in scene construction.
func (b *Bundle) Add(id MeshID, mesh MeshData, color math.Vec4) error {
	if id >= MeshCount {
		err := fmt.Errorf("mesh id %d out of range", id)
		core.LogError("%s", err.Error())
		return err
	}
	if b.added[id] {
		err := fmt.Errorf("mesh %s added twice", id)
		core.LogError("%s", err.Error())
		return err
	}

	b.subMeshes[id] = SubMesh{
		IndexCount:   uint32(len(mesh.Indices)),
		FirstIndex:   uint32(len(b.Indices)),
		VertexOffset: int32(len(b.Vertices)),
	}
	b.added[id] = true

	for _, p := range mesh.Positions {
		b.Vertices = append(b.Vertices, math.ColorVertex{Position: p, Color: color})
	}
	b.Indices = append(b.Indices, mesh.Indices...)
	return nil
}

// SubMesh resolves a handle to its buffer region.
func (b *Bundle) SubMesh(id MeshID) (SubMesh, error) {
	if id >= MeshCount || !b.added[id] {
		err := fmt.Errorf("mesh %s not present in bundle", id)
		core.LogError("%s", err.Error())
		return SubMesh{}, err
	}
	return b.subMeshes[id], nil
}

// Complete reports whether every known MeshID has been added.
func (b *Bundle) Complete() bool {
	for id := MeshID(0); id < MeshCount; id++ {
		if !b.added[id] {
			return false
		}
	}
	return true
}

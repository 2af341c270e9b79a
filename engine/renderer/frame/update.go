package frame

import (
	"fmt"

	"github.com/bastion3d/bastion/engine/core"
	"github.com/bastion3d/bastion/engine/geometry"
	"github.com/bastion3d/bastion/engine/math"
)

// RenderItem is one drawable instance: a mesh handle plus its world
// transform. Its slot index into the per-frame object buffers is assigned
// once at creation and never changes.
type RenderItem struct {
	Mesh  geometry.MeshID
	World math.Mat4

	slotIndex   uint32
	dirtyFrames uint32
	depth       uint32
}

// SetTransform replaces the world matrix and marks the item dirty for the
// next ring-depth frames, so every frame slot's object buffer picks up the
// new matrix. Mutating again before propagation finishes restarts the
// countdown; it never stacks.
func (ri *RenderItem) SetTransform(world math.Mat4) {
	ri.World = world
	ri.dirtyFrames = ri.depth
}

// SlotIndex is the item's stable index into every slot's object buffer.
func (ri *RenderItem) SlotIndex() uint32 {
	return ri.slotIndex
}

// Dirty reports whether the item still has frames left to propagate into.
func (ri *RenderItem) Dirty() bool {
	return ri.dirtyFrames > 0
}

// ItemList owns the render items of a scene. Capacity is fixed up front to
// match the object buffer capacity provisioned in every ring slot.
type ItemList struct {
	items    []*RenderItem
	capacity uint32
	depth    uint32
}

func NewItemList(capacity, ringDepth uint32) *ItemList {
	return &ItemList{
		items:    make([]*RenderItem, 0, capacity),
		capacity: capacity,
		depth:    ringDepth,
	}
}

// Add creates a render item at the next free slot index, dirty for a full
// ring cycle so its initial transform reaches every frame slot.
func (il *ItemList) Add(mesh geometry.MeshID, world math.Mat4) (*RenderItem, error) {
	if uint32(len(il.items)) >= il.capacity {
		err := fmt.Errorf("%w: render item capacity %d reached", core.ErrResourceExhausted, il.capacity)
		core.LogError("%s", err.Error())
		return nil, err
	}
	ri := &RenderItem{
		Mesh:        mesh,
		World:       world,
		slotIndex:   uint32(len(il.items)),
		dirtyFrames: il.depth,
		depth:       il.depth,
	}
	il.items = append(il.items, ri)
	return ri, nil
}

func (il *ItemList) Items() []*RenderItem {
	return il.items
}

func (il *ItemList) Len() int {
	return len(il.items)
}

// UpdateObjects writes every dirty item's transform into the slot's object
// buffer and counts the item's remaining dirty frames down by one. The
// countdown runs for every dirty item each frame, drawn or not, which keeps
// the bookkeeping independent of visibility.
func UpdateObjects(slot *Slot, items []*RenderItem) error {
	for _, ri := range items {
		if ri.dirtyFrames == 0 {
			continue
		}
		if err := slot.Objects.WriteObject(ri.slotIndex, ObjectData{Model: ri.World}); err != nil {
			core.LogError("failed to write object constants at index %d: %s", ri.slotIndex, err.Error())
			return err
		}
		ri.dirtyFrames--
	}
	return nil
}

// UpdatePass rewrites the slot's per-pass constants. Unlike object data the
// pass block is written unconditionally every frame.
func UpdatePass(slot *Slot, data PassData) error {
	if err := slot.Pass.WritePass(data); err != nil {
		core.LogError("failed to write pass constants: %s", err.Error())
		return err
	}
	return nil
}

package frame

import (
	"github.com/bastion3d/bastion/engine/math"
)

// ObjectData is the per-object constant block written into a slot's object
// buffer at the item's stable index.
type ObjectData struct {
	Model math.Mat4
}

// PassData is the per-pass constant block rewritten every frame.
type PassData struct {
	View             math.Mat4
	Proj             math.Mat4
	ViewProj         math.Mat4
	EyePos           math.Vec3
	RenderTargetSize math.Vec2
	NearZ            float32
	FarZ             float32
	TotalTime        float32
	DeltaTime        float32
}

// CommandAllocator owns command recording memory for one slot. It may only
// be reset once the GPU has finished every command recorded from it.
type CommandAllocator interface {
	Reset() error
}

// ObjectBuffer is one slot's per-object constant storage, indexed by the
// item's stable slot index.
type ObjectBuffer interface {
	WriteObject(index uint32, data ObjectData) error
	Capacity() uint32
}

// PassBuffer is one slot's per-pass constant storage.
type PassBuffer interface {
	WritePass(data PassData) error
}

// Fence abstracts a monotonically increasing GPU completion counter. Signal
// enqueues a GPU-side signal of value after all previously submitted work;
// CompletedValue reads the highest value the GPU has reached; WaitFor
// blocks the CPU until the counter reaches value.
type Fence interface {
	Signal(value uint64) error
	CompletedValue() (uint64, error)
	WaitFor(value uint64) error
}

// Slot bundles the resources the CPU mutates while building one frame:
// a command allocator, per-object constants and per-pass constants. The
// watermark records the fence value whose completion proves the GPU is done
// with the slot's previous contents. Zero means never submitted.
type Slot struct {
	Allocator CommandAllocator
	Objects   ObjectBuffer
	Pass      PassBuffer

	FenceWatermark uint64
}

// SlotProvider builds the backing resources for one ring slot. The renderer
// backend implements this against the GPU; tests implement it with fakes.
type SlotProvider interface {
	BuildSlot(index uint32) (*Slot, error)
}

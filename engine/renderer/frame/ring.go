package frame

import (
	"fmt"

	"github.com/bastion3d/bastion/engine/core"
)

// DefaultDepth is how many frames the CPU may run ahead of the GPU.
const DefaultDepth uint32 = 3

// Ring is the fixed set of frame slots the CPU cycles through. With depth
// N the CPU can build up to N frames before it must block waiting for the
// GPU to release the oldest slot.
type Ring struct {
	slots   []*Slot
	current uint32
}

// NewRing builds depth slots through the provider. Depth below two would
// serialize the CPU against the GPU every frame, so it is rejected.
func NewRing(depth uint32, provider SlotProvider) (*Ring, error) {
	if depth < 2 {
		err := fmt.Errorf("ring depth %d below minimum of 2", depth)
		core.LogError("%s", err.Error())
		return nil, err
	}
	r := &Ring{slots: make([]*Slot, depth)}
	for i := uint32(0); i < depth; i++ {
		slot, err := provider.BuildSlot(i)
		if err != nil {
			core.LogError("failed to build frame slot %d: %s", i, err.Error())
			return nil, err
		}
		r.slots[i] = slot
	}
	return r, nil
}

func (r *Ring) Depth() uint32 {
	return uint32(len(r.slots))
}

func (r *Ring) Current() *Slot {
	return r.slots[r.current]
}

func (r *Ring) CurrentIndex() uint32 {
	return r.current
}

// AcquireNext advances to the next slot and reclaims it: if the slot was
// submitted before and the GPU has not yet passed its watermark, this
// blocks until it has. This is the single blocking point of the frame loop.
// Once reclaimed, the slot's command allocator is reset for reuse.
func (r *Ring) AcquireNext(tracker *Tracker) (*Slot, error) {
	r.current = (r.current + 1) % uint32(len(r.slots))
	slot := r.slots[r.current]

	if slot.FenceWatermark != 0 {
		if err := tracker.WaitUntil(slot.FenceWatermark); err != nil {
			return nil, err
		}
	}
	if err := slot.Allocator.Reset(); err != nil {
		err = fmt.Errorf("failed to reset allocator of slot %d: %w", r.current, err)
		core.LogError("%s", err.Error())
		return nil, err
	}
	return slot, nil
}

package frame

import (
	"fmt"

	"github.com/bastion3d/bastion/engine/core"
)

// Tracker owns the monotonic completion counter shared by every ring slot.
// The CPU-side value only ever moves through SignalNext, one increment per
// frame, so a slot watermark of N is proven safe exactly when the GPU
// counter reaches N.
type Tracker struct {
	fence Fence
	value uint64
}

func NewTracker(fence Fence) *Tracker {
	return &Tracker{fence: fence}
}

// SignalNext increments the counter and enqueues the GPU-side signal of the
// new value behind all previously submitted work. It must be the last thing
// enqueued for a frame.
func (t *Tracker) SignalNext() (uint64, error) {
	t.value++
	if err := t.fence.Signal(t.value); err != nil {
		err = fmt.Errorf("%w: signal of fence value %d failed: %v", core.ErrDeviceLost, t.value, err)
		core.LogError("%s", err.Error())
		return 0, err
	}
	return t.value, nil
}

// CurrentValue returns the last value handed out by SignalNext.
func (t *Tracker) CurrentValue() uint64 {
	return t.value
}

// Completed reads the highest counter value the GPU has reached.
func (t *Tracker) Completed() (uint64, error) {
	completed, err := t.fence.CompletedValue()
	if err != nil {
		err = fmt.Errorf("%w: fence completed-value read failed: %v", core.ErrDeviceLost, err)
		core.LogError("%s", err.Error())
		return 0, err
	}
	return completed, nil
}

// WaitUntil blocks until the GPU counter reaches target. If the counter is
// already there it returns immediately without touching the wait path. A
// wait failure means the device is gone.
func (t *Tracker) WaitUntil(target uint64) error {
	completed, err := t.Completed()
	if err != nil {
		return err
	}
	if completed >= target {
		return nil
	}
	if err := t.fence.WaitFor(target); err != nil {
		err = fmt.Errorf("%w: %w: wait for fence value %d failed: %v", core.ErrDeviceLost, core.ErrWaitFailure, target, err)
		core.LogError("%s", err.Error())
		return err
	}
	return nil
}

package vulkan

import (
	"fmt"
	stdmath "math"
	"sync"

	vk "github.com/goki/vulkan"

	"github.com/bastion3d/bastion/engine/core"
)

// MonotonicFence emulates a monotonically increasing GPU counter on top of
// binary vk.Fence objects. Each Signal submits an empty batch to the
// graphics queue carrying a fresh fence; queue ordering guarantees the
// fence signals only after every previously submitted command. Because
// signals are enqueued in increasing value order, the completed counter is
// the value of the newest pending fence that has signaled, and all fences
// before it can be retired.
type MonotonicFence struct {
	context *VulkanContext

	mu        sync.Mutex
	pending   []pendingSignal
	completed uint64
	pool      []vk.Fence
}

type pendingSignal struct {
	value uint64
	fence vk.Fence
}

func NewMonotonicFence(context *VulkanContext) *MonotonicFence {
	return &MonotonicFence{context: context}
}

// Signal enqueues a GPU-side signal of value behind all prior queue work.
func (mf *MonotonicFence) Signal(value uint64) error {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	fence, err := mf.obtainFence()
	if err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType: vk.StructureTypeSubmitInfo,
	}
	if res := vk.QueueSubmit(mf.context.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, fence); res != vk.Success {
		mf.pool = append(mf.pool, fence)
		err := fmt.Errorf("fence signal submit failed: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}

	mf.pending = append(mf.pending, pendingSignal{value: value, fence: fence})
	return nil
}

// CompletedValue polls the pending fences in submission order and retires
// every one that has signaled.
func (mf *MonotonicFence) CompletedValue() (uint64, error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	if err := mf.retireSignaled(); err != nil {
		return 0, err
	}
	return mf.completed, nil
}

// WaitFor blocks until the GPU counter reaches value.
func (mf *MonotonicFence) WaitFor(value uint64) error {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	if err := mf.retireSignaled(); err != nil {
		return err
	}
	if mf.completed >= value {
		return nil
	}

	// Find the pending fence carrying value. Signals are enqueued in
	// increasing order, so waiting on it covers everything before it.
	var target vk.Fence
	for _, p := range mf.pending {
		if p.value >= value {
			target = p.fence
			break
		}
	}
	if target == vk.NullFence {
		err := fmt.Errorf("wait for fence value %d which was never signaled", value)
		core.LogError(err.Error())
		return err
	}

	result := vk.WaitForFences(mf.context.Device.LogicalDevice, 1, []vk.Fence{target}, vk.True, stdmath.MaxUint64)
	if result != vk.Success {
		err := fmt.Errorf("fence wait failed: %s", VulkanResultString(result))
		core.LogError(err.Error())
		return err
	}
	return mf.retireSignaled()
}

// Destroy releases every fence. The queue must be drained first.
func (mf *MonotonicFence) Destroy() {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	for _, p := range mf.pending {
		vk.DestroyFence(mf.context.Device.LogicalDevice, p.fence, mf.context.Allocator)
	}
	mf.pending = nil
	for _, f := range mf.pool {
		vk.DestroyFence(mf.context.Device.LogicalDevice, f, mf.context.Allocator)
	}
	mf.pool = nil
}

func (mf *MonotonicFence) retireSignaled() error {
	retired := 0
	for _, p := range mf.pending {
		result := vk.GetFenceStatus(mf.context.Device.LogicalDevice, p.fence)
		if result == vk.NotReady {
			break
		}
		if result != vk.Success {
			err := fmt.Errorf("fence status poll failed: %s", VulkanResultString(result))
			core.LogError(err.Error())
			return err
		}
		mf.completed = p.value
		if res := vk.ResetFences(mf.context.Device.LogicalDevice, 1, []vk.Fence{p.fence}); res != vk.Success {
			err := fmt.Errorf("fence reset failed: %s", VulkanResultString(res))
			core.LogError(err.Error())
			return err
		}
		mf.pool = append(mf.pool, p.fence)
		retired++
	}
	mf.pending = mf.pending[retired:]
	return nil
}

func (mf *MonotonicFence) obtainFence() (vk.Fence, error) {
	if n := len(mf.pool); n > 0 {
		fence := mf.pool[n-1]
		mf.pool = mf.pool[:n-1]
		return fence, nil
	}
	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	var fence vk.Fence
	if res := vk.CreateFence(mf.context.Device.LogicalDevice, &fenceCreateInfo, mf.context.Allocator, &fence); res != vk.Success {
		err := fmt.Errorf("failed to create fence: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return vk.NullFence, err
	}
	return fence, nil
}

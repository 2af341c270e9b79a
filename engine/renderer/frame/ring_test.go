package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRingRejectsDepthBelowTwo(t *testing.T) {
	_, err := NewRing(1, newFakeProvider(8))
	assert.Error(t, err)
	_, err = NewRing(0, newFakeProvider(8))
	assert.Error(t, err)
}

func TestNewRingPropagatesBuildFailure(t *testing.T) {
	provider := newFakeProvider(8)
	provider.buildErr = errors.New("out of memory")
	_, err := NewRing(3, provider)
	assert.Error(t, err)
}

func TestAcquireCyclesSlotsInOrder(t *testing.T) {
	provider := newFakeProvider(8)
	ring, err := NewRing(3, provider)
	require.NoError(t, err)
	tracker := NewTracker(&fakeFence{})

	assert.Equal(t, uint32(3), ring.Depth())
	assert.Equal(t, uint32(0), ring.CurrentIndex())

	want := []uint32{1, 2, 0, 1, 2, 0, 1}
	for _, idx := range want {
		slot, err := ring.AcquireNext(tracker)
		require.NoError(t, err)
		assert.Equal(t, idx, ring.CurrentIndex())
		assert.Same(t, provider.allocators[idx], slot.Allocator.(*fakeAllocator))
	}
}

func TestAcquireSkipsWaitForNeverSubmittedSlot(t *testing.T) {
	fence := &fakeFence{waitErr: errors.New("wait path must not run")}
	tracker := NewTracker(fence)
	ring, err := NewRing(3, newFakeProvider(8))
	require.NoError(t, err)

	// first cycle through the ring: no slot has a watermark yet
	for i := 0; i < 3; i++ {
		_, err := ring.AcquireNext(tracker)
		require.NoError(t, err)
	}
}

func TestAcquireSkipsWaitWhenGpuCaughtUp(t *testing.T) {
	fence := &fakeFence{waitErr: errors.New("wait path must not run")}
	tracker := NewTracker(fence)
	ring, err := NewRing(2, newFakeProvider(8))
	require.NoError(t, err)

	slot, err := ring.AcquireNext(tracker)
	require.NoError(t, err)
	value, err := tracker.SignalNext()
	require.NoError(t, err)
	slot.FenceWatermark = value

	// GPU finishes before the CPU comes back around
	fence.completed = value

	_, err = ring.AcquireNext(tracker)
	require.NoError(t, err)
	_, err = ring.AcquireNext(tracker)
	require.NoError(t, err)
	assert.Empty(t, fence.waits)
}

func TestAcquireWaitsWhenGpuLagsFullRing(t *testing.T) {
	fence := &fakeFence{}
	tracker := NewTracker(fence)
	provider := newFakeProvider(8)
	ring, err := NewRing(3, provider)
	require.NoError(t, err)

	// CPU builds and submits three frames while the GPU completes nothing
	for i := 0; i < 3; i++ {
		slot, err := ring.AcquireNext(tracker)
		require.NoError(t, err)
		value, err := tracker.SignalNext()
		require.NoError(t, err)
		slot.FenceWatermark = value
	}
	require.Empty(t, fence.waits)

	// frame 4 reuses the slot stamped with fence value 1 and must block
	fence.onWait = func(target uint64) { fence.completed = target }
	_, err = ring.AcquireNext(tracker)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, fence.waits)
}

func TestAcquireResetsAllocatorAfterReclaim(t *testing.T) {
	provider := newFakeProvider(8)
	ring, err := NewRing(2, provider)
	require.NoError(t, err)
	tracker := NewTracker(&fakeFence{})

	_, err = ring.AcquireNext(tracker)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.allocators[1].resets)
	assert.Equal(t, 0, provider.allocators[0].resets)
}

func TestAcquireSurfacesAllocatorResetFailure(t *testing.T) {
	provider := newFakeProvider(8)
	ring, err := NewRing(2, provider)
	require.NoError(t, err)
	provider.allocators[1].err = errors.New("allocator busy")

	_, err = ring.AcquireNext(NewTracker(&fakeFence{}))
	assert.Error(t, err)
}

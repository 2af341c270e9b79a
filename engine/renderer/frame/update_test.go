package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastion3d/bastion/engine/core"
	"github.com/bastion3d/bastion/engine/geometry"
	"github.com/bastion3d/bastion/engine/math"
)

// runFrame models one frame's CPU side: acquire, write constants, submit,
// stamp the watermark. The fake GPU immediately completes everything so
// acquisition never blocks.
func runFrame(t *testing.T, ring *Ring, tracker *Tracker, fence *fakeFence, items *ItemList) *Slot {
	t.Helper()
	slot, err := ring.AcquireNext(tracker)
	require.NoError(t, err)
	slot.Objects.(*fakeObjects).nextGeneration()
	require.NoError(t, UpdateObjects(slot, items.Items()))
	require.NoError(t, UpdatePass(slot, PassData{}))
	value, err := tracker.SignalNext()
	require.NoError(t, err)
	slot.FenceWatermark = value
	fence.completed = value
	return slot
}

func newTestScene(t *testing.T, depth, capacity uint32) (*Ring, *Tracker, *fakeFence, *fakeProvider) {
	t.Helper()
	fence := &fakeFence{}
	provider := newFakeProvider(capacity)
	ring, err := NewRing(depth, provider)
	require.NoError(t, err)
	return ring, NewTracker(fence), fence, provider
}

func TestItemListAssignsStableIndices(t *testing.T) {
	items := NewItemList(4, 3)
	a, err := items.Add(geometry.MeshGround, math.NewMat4Identity())
	require.NoError(t, err)
	b, err := items.Add(geometry.MeshKeepBody, math.NewMat4Identity())
	require.NoError(t, err)

	assert.Equal(t, uint32(0), a.SlotIndex())
	assert.Equal(t, uint32(1), b.SlotIndex())
	assert.Equal(t, 2, items.Len())
}

func TestItemListCapacityExhaustion(t *testing.T) {
	items := NewItemList(2, 3)
	_, err := items.Add(geometry.MeshGround, math.NewMat4Identity())
	require.NoError(t, err)
	_, err = items.Add(geometry.MeshKeepBody, math.NewMat4Identity())
	require.NoError(t, err)

	_, err = items.Add(geometry.MeshGatehouse, math.NewMat4Identity())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrResourceExhausted)
}

func TestNewItemStartsDirtyForFullRing(t *testing.T) {
	items := NewItemList(4, 3)
	ri, err := items.Add(geometry.MeshGround, math.NewMat4Identity())
	require.NoError(t, err)
	assert.True(t, ri.Dirty())
}

func TestTransformReachesEverySlotExactlyOnce(t *testing.T) {
	const depth = 3
	ring, tracker, fence, provider := newTestScene(t, depth, 8)
	items := NewItemList(8, depth)
	ri, err := items.Add(geometry.MeshDiamondSpire, math.NewMat4Identity())
	require.NoError(t, err)

	// drain the initial dirtiness, then mutate once
	for i := 0; i < depth; i++ {
		runFrame(t, ring, tracker, fence, items)
	}
	require.False(t, ri.Dirty())
	before := make([]int, depth)
	for i, objs := range provider.objects {
		before[i] = objs.totalWrites()
	}

	ri.SetTransform(math.NewMat4Translation(math.NewVec3(0, 31, 0)))

	for i := 0; i < depth; i++ {
		runFrame(t, ring, tracker, fence, items)
	}
	assert.False(t, ri.Dirty())
	for i, objs := range provider.objects {
		assert.Equal(t, before[i]+1, objs.totalWrites(), "slot %d must receive exactly one new write", i)
	}

	// a further frame with nothing dirty writes nothing
	runFrame(t, ring, tracker, fence, items)
	for i, objs := range provider.objects {
		assert.Equal(t, before[i]+1, objs.totalWrites(), "slot %d written after propagation finished", i)
	}
}

func TestRemutationRestartsCountdownWithoutStacking(t *testing.T) {
	const depth = 3
	ring, tracker, fence, provider := newTestScene(t, depth, 8)
	items := NewItemList(8, depth)
	ri, err := items.Add(geometry.MeshDiamondSpire, math.NewMat4Identity())
	require.NoError(t, err)
	for i := 0; i < depth; i++ {
		runFrame(t, ring, tracker, fence, items)
	}

	ri.SetTransform(math.NewMat4EulerY(0.5))
	runFrame(t, ring, tracker, fence, items)
	ri.SetTransform(math.NewMat4EulerY(1.0)) // re-mutate mid-propagation

	total := func() int {
		n := 0
		for _, objs := range provider.objects {
			n += objs.totalWrites()
		}
		return n
	}
	start := total()

	// exactly depth more writes follow, not depth+remaining
	frames := 0
	for ri.Dirty() {
		runFrame(t, ring, tracker, fence, items)
		frames++
		require.LessOrEqual(t, frames, depth+1, "countdown must not stack")
	}
	assert.Equal(t, depth, frames)
	assert.Equal(t, start+depth, total())
}

func TestDirtyCountdownOverThreeFrames(t *testing.T) {
	const depth = 3
	ring, tracker, fence, _ := newTestScene(t, depth, 8)
	items := NewItemList(8, depth)
	ri, err := items.Add(geometry.MeshKeepBody, math.NewMat4Identity())
	require.NoError(t, err)

	// dirty count runs 3, 2, 1, 0 with one write per frame
	for i := 0; i < depth; i++ {
		assert.True(t, ri.Dirty())
		slot := runFrame(t, ring, tracker, fence, items)
		gens := slot.Objects.(*fakeObjects).writes
		assert.Equal(t, []uint32{0}, gens[len(gens)-1])
	}
	assert.False(t, ri.Dirty())

	slot := runFrame(t, ring, tracker, fence, items)
	gens := slot.Objects.(*fakeObjects).writes
	assert.Empty(t, gens[len(gens)-1])
}

func TestDirtyCountdownRunsForUndrawnItems(t *testing.T) {
	// visibility does not gate propagation: UpdateObjects sees the whole
	// item list, so a hidden item's countdown still reaches zero
	const depth = 3
	ring, tracker, fence, _ := newTestScene(t, depth, 8)
	items := NewItemList(8, depth)
	ri, err := items.Add(geometry.MeshArrowSlit, math.NewMat4Identity())
	require.NoError(t, err)

	for i := 0; i < depth; i++ {
		runFrame(t, ring, tracker, fence, items)
	}
	assert.False(t, ri.Dirty())
}

func TestPassConstantsWrittenEveryFrame(t *testing.T) {
	const depth = 3
	ring, tracker, fence, provider := newTestScene(t, depth, 8)
	items := NewItemList(8, depth)

	const frames = 7
	for i := 0; i < frames; i++ {
		runFrame(t, ring, tracker, fence, items)
	}
	totalPasses := 0
	for _, pass := range provider.passes {
		totalPasses += len(pass.written)
	}
	assert.Equal(t, frames, totalPasses)
}

func TestUpdateObjectsSurfacesWriteFailure(t *testing.T) {
	_, _, _, provider := newTestScene(t, 2, 1)
	items := NewItemList(1, 2)
	_, err := items.Add(geometry.MeshGround, math.NewMat4Identity())
	require.NoError(t, err)

	objs := provider.objects[0]
	objs.err = assert.AnError
	slot := &Slot{Allocator: provider.allocators[0], Objects: objs, Pass: provider.passes[0]}
	assert.Error(t, UpdateObjects(slot, items.Items()))
}

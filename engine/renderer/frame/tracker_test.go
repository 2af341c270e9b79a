package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastion3d/bastion/engine/core"
)

func TestSignalNextIncrementsByExactlyOne(t *testing.T) {
	fence := &fakeFence{}
	tracker := NewTracker(fence)

	assert.Zero(t, tracker.CurrentValue())
	for want := uint64(1); want <= 5; want++ {
		got, err := tracker.SignalNext()
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, want, tracker.CurrentValue())
	}
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, fence.signals)
}

func TestWaitUntilSkipsWaitWhenAlreadyCompleted(t *testing.T) {
	fence := &fakeFence{completed: 7, waitErr: errors.New("wait path must not run")}
	tracker := NewTracker(fence)

	require.NoError(t, tracker.WaitUntil(7))
	require.NoError(t, tracker.WaitUntil(3))
}

func TestWaitUntilBlocksUntilTarget(t *testing.T) {
	fence := &fakeFence{completed: 2}
	fence.onWait = func(target uint64) { fence.completed = target }
	tracker := NewTracker(fence)

	require.NoError(t, tracker.WaitUntil(5))
	assert.Equal(t, []uint64{5}, fence.waits)
	assert.Equal(t, uint64(5), fence.completed)
}

func TestWaitFailureIsDeviceLost(t *testing.T) {
	fence := &fakeFence{completed: 0, waitErr: errors.New("vk error")}
	tracker := NewTracker(fence)

	err := tracker.WaitUntil(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDeviceLost)
	assert.ErrorIs(t, err, core.ErrWaitFailure)
}

func TestSignalFailureIsDeviceLost(t *testing.T) {
	fence := &fakeFence{signalErr: errors.New("queue gone")}
	tracker := NewTracker(fence)

	_, err := tracker.SignalNext()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDeviceLost)
}

func TestCompletedReadFailureIsDeviceLost(t *testing.T) {
	fence := &fakeFence{completedErr: errors.New("device lost")}
	tracker := NewTracker(fence)

	_, err := tracker.Completed()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDeviceLost)

	assert.ErrorIs(t, tracker.WaitUntil(1), core.ErrDeviceLost)
}

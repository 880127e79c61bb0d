package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaiseNotifiesObservers(t *testing.T) {

	m := New(DefaultHistorySize)
	stream := m.Observe()

	go m.Raise(AlertClockMovedBackward, "behind by %v", 3*time.Millisecond)

	select {
	case <-stream.Changes():
		stream.Next()
		alert := stream.Value().(*Alert)
		assert.Equal(t, AlertClockMovedBackward, alert.Kind)
		assert.Equal(t, "behind by 3ms", alert.Message)
		assert.Equal(t, 1, alert.Count)
	case <-time.After(time.Second):
		t.Fatal("no alert received")
	}
}

func TestHistoryCollapsesByKind(t *testing.T) {

	m := New(DefaultHistorySize)
	assert.Nil(t, m.Last())

	m.Raise(AlertClockMovedBackward, "first")
	m.Raise(AlertCheckpointFailed, "db down")
	last := m.Raise(AlertClockMovedBackward, "second")

	history := m.History()
	require.Len(t, history, 2)
	assert.Equal(t, AlertCheckpointFailed, history[0].Kind)
	assert.Equal(t, "second", history[1].Message)
	assert.Equal(t, 2, history[1].Count)

	assert.Equal(t, last, m.Last())
	assert.Equal(t, 2, m.Count(AlertClockMovedBackward))
	assert.Equal(t, 0, m.Count(AlertStaleCheckpoint))
}

func TestAlertKindString(t *testing.T) {
	assert.Equal(t, "clock_moved_backward", AlertClockMovedBackward.String())
	assert.Equal(t, "clock_behind_checkpoint", AlertClockBehindCheckpoint.String())
	assert.Equal(t, "alert(42)", AlertKind(42).String())
}

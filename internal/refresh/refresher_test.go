package refresh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTriggerDeliversImmediateTick(t *testing.T) {
	r := New(time.Hour)

	r.Trigger()

	msg := r.WaitForNext()()
	tick, ok := msg.(TickMsg)
	require.True(t, ok)
	require.False(t, tick.At.IsZero())
}

func TestPendingTriggersCoalesce(t *testing.T) {
	r := New(time.Hour)

	// A second trigger while one tick is undelivered folds into it.
	r.Trigger()
	r.Trigger()
	require.IsType(t, TickMsg{}, r.WaitForNext()())

	r.Trigger()
	require.IsType(t, TickMsg{}, r.WaitForNext()())
}

func TestStopIsIdempotent(t *testing.T) {
	r := New(0)
	require.NotNil(t, r.Start())
	require.Nil(t, r.Start(), "second start is a no-op")

	r.Stop()
	r.Stop()
}

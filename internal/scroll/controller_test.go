package scroll

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFiresOncePerApproach(t *testing.T) {
	fired := 0
	c := New(func() { fired++ })
	c.SetHasMore(true)

	c.SetVisible(true)
	require.Equal(t, 1, fired)

	// Repeated visibility reports while still in view do not re-fire.
	c.SetVisible(true)
	c.SetVisible(true)
	require.Equal(t, 1, fired)

	// Scrolling away and back is a fresh approach.
	c.SetVisible(false)
	c.SetVisible(true)
	require.Equal(t, 2, fired)
}

func TestNoFireWhenExhausted(t *testing.T) {
	fired := 0
	c := New(func() { fired++ })

	c.SetHasMore(false)
	c.SetVisible(true)
	require.Zero(t, fired)

	// Exhaustion discovered mid-fetch: finishing must not fire either.
	c.SetHasMore(true)
	c.SetVisible(false)
	c.SetVisible(true)
	require.Equal(t, 1, fired)
	c.FetchStarted()
	c.SetHasMore(false)
	c.FetchFinished()
	require.Equal(t, 1, fired)
}

func TestRearmsWhenSentinelStillVisible(t *testing.T) {
	fired := 0
	c := New(func() { fired++ })
	c.SetHasMore(true)

	c.SetVisible(true)
	require.Equal(t, 1, fired)

	c.FetchStarted()
	// Page landed but the window is still short of the viewport.
	c.FetchFinished()
	require.Equal(t, 2, fired, "visible sentinel after a fetch keeps loading")
}

func TestNoDuplicateLoadsDuringFetch(t *testing.T) {
	fired := 0
	c := New(func() { fired++ })
	c.SetHasMore(true)

	c.SetVisible(true)
	c.FetchStarted()

	c.SetVisible(false)
	c.SetVisible(true)
	require.Equal(t, 1, fired, "in-flight fetch suppresses triggers")

	c.FetchFinished()
	require.Equal(t, 2, fired)
}

func TestTeardownStopsCallbacks(t *testing.T) {
	fired := 0
	c := New(func() { fired++ })
	c.SetHasMore(true)
	c.SetVisible(true)
	require.Equal(t, 1, fired)

	c.Teardown()
	c.SetVisible(false)
	c.SetVisible(true)
	c.FetchFinished()
	require.Equal(t, 1, fired)
}

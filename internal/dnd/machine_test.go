package dnd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGrabDropSettleCycle(t *testing.T) {
	m := NewMachine()
	require.Equal(t, Idle, m.Phase())

	require.NoError(t, m.Begin("p1"))
	require.Equal(t, Dragging, m.Phase())
	require.Equal(t, "p1", m.DraggingID())

	require.NoError(t, m.Accept("p1", "u2", "u1"))
	require.Equal(t, Locked, m.Phase())
	require.Equal(t, "u2", m.LockedTarget())

	m.Release()
	require.Equal(t, Idle, m.Phase())
	require.Empty(t, m.DraggingID())
	require.Empty(t, m.LockedTarget())
}

func TestOnlyOneCardGrabbedAtATime(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Begin("p1"))

	err := m.Begin("p2")
	var rej *Rejection
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "p1", m.DraggingID(), "original grab survives")
}

func TestLockRefusesGrabsAndDrops(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Begin("p1"))
	require.NoError(t, m.Accept("p1", "u2", "u1"))

	var rej *Rejection
	require.ErrorAs(t, m.Begin("p2"), &rej)
	require.ErrorAs(t, m.Accept("p2", "u3", "u1"), &rej)
	require.Equal(t, Locked, m.Phase())

	// After release the board accepts new moves again.
	m.Release()
	require.NoError(t, m.Begin("p2"))
}

func TestStalePayloadIsRejected(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Begin("p1"))

	var rej *Rejection
	require.ErrorAs(t, m.Accept("p2", "u2", "u1"), &rej)
	require.Equal(t, Dragging, m.Phase(), "grab survives a stale drop")
}

func TestDropOntoCurrentAssigneeCancels(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Begin("p1"))

	var rej *Rejection
	require.ErrorAs(t, m.Accept("p1", "u1", "u1"), &rej)
	require.Equal(t, Idle, m.Phase(), "no-op drop abandons the grab")
}

func TestCancelOnlyAffectsDragging(t *testing.T) {
	m := NewMachine()

	m.Cancel()
	require.Equal(t, Idle, m.Phase())

	require.NoError(t, m.Begin("p1"))
	m.Cancel()
	require.Equal(t, Idle, m.Phase())

	require.NoError(t, m.Begin("p1"))
	require.NoError(t, m.Accept("p1", "u2", "u1"))
	m.Cancel()
	require.Equal(t, Locked, m.Phase(), "a settling move cannot be cancelled")
}

func TestDropWithoutGrab(t *testing.T) {
	m := NewMachine()
	var rej *Rejection
	require.ErrorAs(t, m.Accept("p1", "u2", "u1"), &rej)
}

// Package dnd implements the keyboard grab-and-drop state machine for
// reassigning project cards between user columns. At most one card can
// be in motion and at most one reassignment can be settling at a time.
package dnd

import "fmt"

// Phase is the machine's current state.
type Phase int

const (
	// Idle: no card grabbed, no reassignment settling.
	Idle Phase = iota
	// Dragging: one card is grabbed and following the cursor.
	Dragging
	// Locked: a drop was accepted and its mutation is settling; all
	// further grabs and drops are refused until Release.
	Locked
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Locked:
		return "locked"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Rejection explains why a grab or drop was refused. Callers surface it
// as a status-line notice rather than an error dialog.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string { return r.Reason }

// Machine tracks the single in-flight drag. It is owned by the event
// loop and is not safe for concurrent use.
type Machine struct {
	phase     Phase
	projectID string
	targetID  string
}

// NewMachine returns an idle machine.
func NewMachine() *Machine { return &Machine{} }

// Phase returns the current state.
func (m *Machine) Phase() Phase { return m.phase }

// DraggingID returns the grabbed project id, or "" outside Dragging.
func (m *Machine) DraggingID() string {
	if m.phase != Dragging {
		return ""
	}
	return m.projectID
}

// LockedTarget returns the settling drop's target user id, or "" outside
// Locked.
func (m *Machine) LockedTarget() string {
	if m.phase != Locked {
		return ""
	}
	return m.targetID
}

// Begin grabs a card. Refused while another card is grabbed or a drop is
// settling.
func (m *Machine) Begin(projectID string) error {
	switch m.phase {
	case Dragging:
		return &Rejection{Reason: "another card is already grabbed"}
	case Locked:
		return &Rejection{Reason: "previous move is still saving"}
	}
	m.phase = Dragging
	m.projectID = projectID
	return nil
}

// Cancel abandons the grab without any mutation. A no-op outside
// Dragging; a settling drop cannot be cancelled.
func (m *Machine) Cancel() {
	if m.phase != Dragging {
		return
	}
	m.phase = Idle
	m.projectID = ""
}

// Accept validates a drop of the given payload onto a target column and,
// when accepted, transitions straight to Locked. currentAssignee is the
// card's assignee as currently cached; a drop onto its own column is
// refused as a no-op.
func (m *Machine) Accept(payloadID, targetUserID, currentAssignee string) error {
	switch m.phase {
	case Idle:
		return &Rejection{Reason: "no card is grabbed"}
	case Locked:
		return &Rejection{Reason: "previous move is still saving"}
	}
	if payloadID != m.projectID {
		// The drop payload is from an earlier, abandoned drag.
		return &Rejection{Reason: "stale drag payload"}
	}
	if targetUserID == currentAssignee {
		m.Cancel()
		return &Rejection{Reason: "card is already assigned to that user"}
	}

	m.phase = Locked
	m.targetID = targetUserID
	return nil
}

// Release settles the lock and returns the machine to Idle. It is
// unconditional: both success and rollback paths release, so a failed
// mutation can never wedge the board.
func (m *Machine) Release() {
	m.phase = Idle
	m.projectID = ""
	m.targetID = ""
}

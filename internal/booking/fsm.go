// Package booking implements the booking lifecycle state machine. It is
// pure logic: no storage, no transport.
package booking

import (
	"errors"
	"fmt"
	"time"

	"digierge/internal/models"
)

var (
	// ErrInvalidTransition is returned for any transition outside the table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrAlreadyAssigned is returned when assigning a booking that already
	// has a staff member.
	ErrAlreadyAssigned = errors.New("booking already assigned")
)

// transitions maps each status to the statuses it may move to. Terminal
// statuses have no entry.
var transitions = map[models.Status][]models.Status{
	models.StatusPending:    {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed:  {models.StatusAssigned, models.StatusInProgress, models.StatusCancelled},
	models.StatusAssigned:   {models.StatusInProgress, models.StatusCancelled},
	models.StatusInProgress: {models.StatusCompleted, models.StatusCancelled},
}

// CanTransition checks if the transition is allowed by the table.
func CanTransition(from, to models.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Outcome is the result of a successful transition. NewlyAssigned and
// Terminal tell the orchestrator which staff bookkeeping must accompany
// the booking write.
type Outcome struct {
	Booking       models.Booking
	NewlyAssigned bool
	Terminal      bool
}

// Advance applies a transition from the table. The input booking is
// unchanged on failure.
func Advance(b models.Booking, target models.Status, now time.Time) (Outcome, error) {
	if !CanTransition(b.Status, target) {
		return Outcome{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, target)
	}
	b.Status = target
	b.UpdatedAt = now
	return Outcome{Booking: b, Terminal: target.IsTerminal()}, nil
}

// Assign sets the staff member and moves the booking to assigned. Legal
// only from pending or confirmed, and only while the booking is
// unassigned.
func Assign(b models.Booking, staffID string, now time.Time) (Outcome, error) {
	if b.IsAssigned() {
		return Outcome{}, fmt.Errorf("%w: to %s", ErrAlreadyAssigned, b.AssignedTo)
	}
	if b.Status != models.StatusPending && b.Status != models.StatusConfirmed {
		return Outcome{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, models.StatusAssigned)
	}
	b.AssignedTo = staffID
	b.Status = models.StatusAssigned
	b.UpdatedAt = now
	return Outcome{Booking: b, NewlyAssigned: true}, nil
}

package booking

import (
	"errors"
	"testing"
	"time"

	"digierge/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name        string
		from        models.Status
		to          models.Status
		shouldAllow bool
	}{
		{"pending to confirmed", models.StatusPending, models.StatusConfirmed, true},
		{"pending to cancelled", models.StatusPending, models.StatusCancelled, true},
		{"confirmed to assigned", models.StatusConfirmed, models.StatusAssigned, true},
		{"confirmed to in-progress", models.StatusConfirmed, models.StatusInProgress, true},
		{"confirmed to cancelled", models.StatusConfirmed, models.StatusCancelled, true},
		{"assigned to in-progress", models.StatusAssigned, models.StatusInProgress, true},
		{"assigned to cancelled", models.StatusAssigned, models.StatusCancelled, true},
		{"in-progress to completed", models.StatusInProgress, models.StatusCompleted, true},
		{"in-progress to cancelled", models.StatusInProgress, models.StatusCancelled, true},
		// Invalid transitions
		{"pending to in-progress", models.StatusPending, models.StatusInProgress, false},
		{"pending to completed", models.StatusPending, models.StatusCompleted, false},
		{"confirmed to completed", models.StatusConfirmed, models.StatusCompleted, false},
		{"assigned to confirmed", models.StatusAssigned, models.StatusConfirmed, false},
		{"in-progress to confirmed", models.StatusInProgress, models.StatusConfirmed, false},
		// Terminal statuses never move
		{"completed to cancelled", models.StatusCompleted, models.StatusCancelled, false},
		{"completed to pending", models.StatusCompleted, models.StatusPending, false},
		{"cancelled to confirmed", models.StatusCancelled, models.StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed := CanTransition(tt.from, tt.to)
			if allowed != tt.shouldAllow {
				t.Errorf("transition %s -> %s: expected allowed=%v, got %v",
					tt.from, tt.to, tt.shouldAllow, allowed)
			}
		})
	}
}

func TestAdvance(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)

	b := models.Booking{
		ID:        "1700000000000abcde",
		Status:    models.StatusPending,
		UpdatedAt: created,
	}

	out, err := Advance(b, models.StatusConfirmed, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Booking.Status != models.StatusConfirmed {
		t.Errorf("expected confirmed, got %s", out.Booking.Status)
	}
	if !out.Booking.UpdatedAt.Equal(now) {
		t.Error("updated_at should be refreshed on success")
	}
	if out.Terminal {
		t.Error("confirmed is not terminal")
	}

	// Input value untouched
	if b.Status != models.StatusPending || !b.UpdatedAt.Equal(created) {
		t.Error("input booking must be unchanged")
	}
}

func TestAdvanceInvalid(t *testing.T) {
	b := models.Booking{Status: models.StatusPending, UpdatedAt: time.Now()}

	_, err := Advance(b, models.StatusCompleted, time.Now())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if b.Status != models.StatusPending {
		t.Error("booking must be unchanged after failed transition")
	}
}

func TestAdvanceTerminal(t *testing.T) {
	b := models.Booking{Status: models.StatusInProgress}

	out, err := Advance(b, models.StatusCompleted, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Terminal {
		t.Error("completed must be reported as terminal")
	}

	out, err = Advance(models.Booking{Status: models.StatusAssigned}, models.StatusCancelled, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Terminal {
		t.Error("cancelled must be reported as terminal")
	}
}

func TestAssign(t *testing.T) {
	now := time.Now()

	for _, from := range []models.Status{models.StatusPending, models.StatusConfirmed} {
		b := models.Booking{Status: from, AssignedTo: models.Unassigned}
		out, err := Assign(b, "Isabella Rodriguez", now)
		if err != nil {
			t.Fatalf("assign from %s: unexpected error: %v", from, err)
		}
		if out.Booking.Status != models.StatusAssigned {
			t.Errorf("expected assigned, got %s", out.Booking.Status)
		}
		if out.Booking.AssignedTo != "Isabella Rodriguez" {
			t.Errorf("expected staff name, got %s", out.Booking.AssignedTo)
		}
		if !out.NewlyAssigned {
			t.Error("expected NewlyAssigned outcome")
		}
	}
}

func TestAssignAlreadyAssigned(t *testing.T) {
	b := models.Booking{Status: models.StatusConfirmed, AssignedTo: "Marcus Chen"}

	// Regardless of the requested staff id.
	for _, staff := range []string{"Ahmed Hassan", "Marcus Chen"} {
		_, err := Assign(b, staff, time.Now())
		if !errors.Is(err, ErrAlreadyAssigned) {
			t.Fatalf("expected ErrAlreadyAssigned for %s, got %v", staff, err)
		}
	}
}

func TestAssignWrongState(t *testing.T) {
	for _, from := range []models.Status{
		models.StatusAssigned, models.StatusInProgress,
		models.StatusCompleted, models.StatusCancelled,
	} {
		b := models.Booking{Status: from, AssignedTo: models.Unassigned}
		_, err := Assign(b, "Emma Thompson", time.Now())
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("assign from %s: expected ErrInvalidTransition, got %v", from, err)
		}
	}
}

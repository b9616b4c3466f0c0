package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"pending", "confirmed", "assigned", "in-progress", "completed", "cancelled"} {
		s, err := ParseStatus(raw)
		assert.NoError(t, err)
		assert.Equal(t, Status(raw), s)
	}

	_, err := ParseStatus("archived")
	assert.Error(t, err)
	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestParseServiceType(t *testing.T) {
	s, err := ParseServiceType("spa")
	assert.NoError(t, err)
	assert.Equal(t, ServiceSpa, s)

	_, err = ParseServiceType("laundry")
	assert.Error(t, err)
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestBookingIsAssigned(t *testing.T) {
	b := Booking{AssignedTo: Unassigned}
	assert.False(t, b.IsAssigned())
	b.AssignedTo = ""
	assert.False(t, b.IsAssigned())
	b.AssignedTo = "Isabella Rodriguez"
	assert.True(t, b.IsAssigned())
}

func TestDetail(t *testing.T) {
	b := Booking{ServiceDetails: map[string]any{"treatment": "Hot Stone Massage", "count": 2}}
	assert.Equal(t, "Hot Stone Massage", b.Detail("treatment"))
	assert.Empty(t, b.Detail("count"), "non-string values read as empty")
	assert.Empty(t, b.Detail("missing"))

	var empty Booking
	assert.Empty(t, empty.Detail("treatment"))
}

func TestCreationMessage(t *testing.T) {
	tests := []struct {
		service ServiceType
		details map[string]any
		want    string
	}{
		{ServiceSpa, map[string]any{"treatment": "Deep Tissue Massage"}, "Spa appointment booked: Deep Tissue Massage"},
		{ServiceTransportation, map[string]any{"service": "Airport Limo", "destination": "JFK"}, "Transportation booked: Airport Limo to JFK"},
		{ServiceRestaurant, map[string]any{"restaurant_name": "Le Jardin", "date": "2026-09-01", "time": "19:00"}, "Table reserved at Le Jardin for 2026-09-01 at 19:00"},
		{ServiceHousekeeping, map[string]any{"service": "extra towels"}, "Housekeeping requested: extra towels"},
		{ServiceConcierge, map[string]any{"request": "theatre tickets"}, "Concierge request submitted: theatre tickets"},
		{ServiceBusiness, map[string]any{"room": "Boardroom A"}, "Meeting room booked: Boardroom A"},
	}

	for _, tt := range tests {
		b := &Booking{ServiceType: tt.service, ServiceDetails: tt.details}
		assert.Equal(t, tt.want, CreationMessage(b))
	}
}

func TestUpdateNotices(t *testing.T) {
	b := &Booking{ID: "b1", ServiceType: ServiceSpa, Status: StatusConfirmed, RoomNumber: "425"}
	assert.Equal(t, "Your spa booking has been confirmed", GuestUpdateNotice(b))
	assert.Equal(t, "Booking b1 status updated to confirmed", StaffUpdateNotice(b))
	assert.Equal(t, "New spa booking from Room 425", StaffCreatedNotice(b))
}

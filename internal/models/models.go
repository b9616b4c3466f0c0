package models

import (
	"fmt"
	"time"
)

// Status represents the lifecycle state of a booking.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusAssigned,
		StatusInProgress, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// IsTerminal reports whether no further transitions are permitted.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ServiceType identifies which hotel service a booking requests.
type ServiceType string

const (
	ServiceTransportation ServiceType = "transportation"
	ServiceRestaurant     ServiceType = "restaurant"
	ServiceSpa            ServiceType = "spa"
	ServiceHousekeeping   ServiceType = "housekeeping"
	ServiceConcierge      ServiceType = "concierge"
	ServiceBusiness       ServiceType = "business"
)

// ParseServiceType validates a raw service type string.
func ParseServiceType(s string) (ServiceType, error) {
	switch ServiceType(s) {
	case ServiceTransportation, ServiceRestaurant, ServiceSpa,
		ServiceHousekeeping, ServiceConcierge, ServiceBusiness:
		return ServiceType(s), nil
	}
	return "", fmt.Errorf("unknown service type %q", s)
}

// Priority affects client-side sorting only, never transitions.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Unassigned is the sentinel value of Booking.AssignedTo before a staff
// member is assigned.
const Unassigned = "unassigned"

// Booking represents a guest service request.
type Booking struct {
	ID             string         `json:"booking_id"`
	TenantID       string         `json:"tenant_id"`
	GuestName      string         `json:"guest_name"`
	GuestEmail     string         `json:"guest_email,omitempty"`
	RoomNumber     string         `json:"room_number"`
	ServiceType    ServiceType    `json:"service_type"`
	ServiceDetails map[string]any `json:"service_details"`
	Status         Status         `json:"status"`
	Priority       Priority       `json:"priority"`
	AssignedTo     string         `json:"assigned_to"`
	TotalAmount    *float64       `json:"total_amount,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// IsAssigned reports whether a staff member is assigned to the booking.
func (b *Booking) IsAssigned() bool {
	return b.AssignedTo != "" && b.AssignedTo != Unassigned
}

// Detail returns a string value from ServiceDetails, or "" when absent.
func (b *Booking) Detail(key string) string {
	if b.ServiceDetails == nil {
		return ""
	}
	v, ok := b.ServiceDetails[key].(string)
	if !ok {
		return ""
	}
	return v
}

// Staff represents a hotel staff member.
type Staff struct {
	ID             int64     `json:"id"`
	TenantID       string    `json:"tenant_id"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Avatar         string    `json:"avatar,omitempty"`
	Status         string    `json:"status"`
	ActiveBookings int       `json:"active_bookings"`
	CreatedAt      time.Time `json:"created_at"`
}

// Staff availability states.
const (
	StaffAvailable = "available"
	StaffBusy      = "busy"
)

// StatusUpdate is the atomic unit a status change writes to the store.
// FromStatus guards the write: the row is only updated while its status
// still matches, so racing transitions cannot both win. StaffDelta, when
// non-zero, adjusts the named staff member's active booking count in the
// same transaction as the booking write.
type StatusUpdate struct {
	TenantID   string
	BookingID  string
	FromStatus Status
	ToStatus   Status
	AssignedTo string
	UpdatedAt  time.Time

	StaffName  string
	StaffDelta int
}

// RevenueSummary holds the raw booking counts exposed by the analytics
// endpoint.
type RevenueSummary struct {
	TotalBookings     int     `json:"total_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
	PendingBookings   int     `json:"pending_bookings"`
	CompletedBookings int     `json:"completed_bookings"`
}

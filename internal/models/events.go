package models

import "fmt"

// Event names on the real-time boundary.
const (
	EventBookingCreated = "booking_created"
	EventBookingUpdated = "booking_updated"
)

// BookingCreatedPayload is delivered to the staff channel when a guest
// submits a new booking.
type BookingCreatedPayload struct {
	BookingID   string      `json:"booking_id"`
	ServiceType ServiceType `json:"service_type"`
	GuestName   string      `json:"guest_name"`
	RoomNumber  string      `json:"room_number"`
	Priority    Priority    `json:"priority"`
	Message     string      `json:"message"`
}

// BookingUpdatedPayload is delivered to the staff channel and the guest's
// room channel when a booking's status or assignment changes.
type BookingUpdatedPayload struct {
	BookingID  string `json:"booking_id"`
	Status     Status `json:"status"`
	AssignedTo string `json:"assigned_to,omitempty"`
	Message    string `json:"message"`
}

// CreationMessage formats the confirmation returned to the guest who
// submitted the booking.
func CreationMessage(b *Booking) string {
	switch b.ServiceType {
	case ServiceTransportation:
		return fmt.Sprintf("Transportation booked: %s to %s", b.Detail("service"), b.Detail("destination"))
	case ServiceRestaurant:
		return fmt.Sprintf("Table reserved at %s for %s at %s", b.Detail("restaurant_name"), b.Detail("date"), b.Detail("time"))
	case ServiceSpa:
		return fmt.Sprintf("Spa appointment booked: %s", b.Detail("treatment"))
	case ServiceHousekeeping:
		return fmt.Sprintf("Housekeeping requested: %s", b.Detail("service"))
	case ServiceConcierge:
		return fmt.Sprintf("Concierge request submitted: %s", b.Detail("request"))
	case ServiceBusiness:
		return fmt.Sprintf("Meeting room booked: %s", b.Detail("room"))
	}
	return fmt.Sprintf("Booking created: %s", b.ServiceType)
}

// StaffCreatedNotice formats the staff-facing summary of a new booking.
func StaffCreatedNotice(b *Booking) string {
	var what string
	switch b.ServiceType {
	case ServiceTransportation:
		what = "transportation request"
	case ServiceRestaurant:
		what = "restaurant booking"
	case ServiceSpa:
		what = "spa booking"
	case ServiceHousekeeping:
		what = "housekeeping request"
	case ServiceConcierge:
		what = "concierge request"
	case ServiceBusiness:
		what = "meeting room booking"
	default:
		what = "booking"
	}
	return fmt.Sprintf("New %s from Room %s", what, b.RoomNumber)
}

// GuestUpdateNotice formats the guest-facing summary of a status change.
func GuestUpdateNotice(b *Booking) string {
	return fmt.Sprintf("Your %s booking has been %s", b.ServiceType, b.Status)
}

// StaffUpdateNotice formats the staff-facing summary of a status change.
func StaffUpdateNotice(b *Booking) string {
	return fmt.Sprintf("Booking %s status updated to %s", b.ID, b.Status)
}

// Package service orchestrates the booking lifecycle: it validates
// transitions through the state machine, persists through the store and
// publishes change events for the realtime fan-out.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"digierge/internal/booking"
	"digierge/internal/database"
	"digierge/internal/events"
	"digierge/internal/metrics"
	"digierge/internal/models"
)

// ErrStorage marks store failures: transient, safe to retry on status
// updates.
var ErrStorage = errors.New("storage error")

// BookingRepository is the narrow store contract the orchestrator needs.
type BookingRepository interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, tenantID, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, tenantID string) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, u models.StatusUpdate) (*models.Booking, error)
	ListStaff(ctx context.Context, tenantID string) ([]models.Staff, error)
	RevenueSummary(ctx context.Context, tenantID string, since time.Time) (*models.RevenueSummary, error)
}

// EventPublisher publishes domain events for the notification fan-out.
type EventPublisher interface {
	PublishJSON(eventType string, payload any) error
}

// BookingService is the orchestrator over store, state machine and bus.
type BookingService struct {
	repo    BookingRepository
	bus     EventPublisher
	timeout time.Duration
	logger  *zerolog.Logger
}

// NewBookingService creates the orchestrator. timeout bounds every store
// operation.
func NewBookingService(repo BookingRepository, bus EventPublisher, timeout time.Duration, logger *zerolog.Logger) *BookingService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BookingService{repo: repo, bus: bus, timeout: timeout, logger: logger}
}

// SubmitRequest carries a new guest booking.
type SubmitRequest struct {
	TenantID       string
	GuestName      string
	GuestEmail     string
	RoomNumber     string
	ServiceType    models.ServiceType
	ServiceDetails map[string]any
	Priority       models.Priority
	TotalAmount    *float64
}

// SubmitResult is returned to the guest who created the booking.
type SubmitResult struct {
	BookingID   string             `json:"booking_id"`
	Message     string             `json:"message"`
	ServiceType models.ServiceType `json:"service_type"`
}

// SubmitBooking persists a new pending booking and emits booking_created
// to the staff channel. It fails only on store errors.
func (s *BookingService) SubmitBooking(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	now := time.Now().UTC()
	b := &models.Booking{
		ID:             NewBookingID(),
		TenantID:       req.TenantID,
		GuestName:      req.GuestName,
		GuestEmail:     req.GuestEmail,
		RoomNumber:     req.RoomNumber,
		ServiceType:    req.ServiceType,
		ServiceDetails: req.ServiceDetails,
		Status:         models.StatusPending,
		Priority:       req.Priority,
		AssignedTo:     models.Unassigned,
		TotalAmount:    req.TotalAmount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if b.Priority == "" {
		b.Priority = models.PriorityMedium
	}

	err := s.withTimeout(ctx, func(ctx context.Context) error {
		err := s.repo.CreateBooking(ctx, b)
		if errors.Is(err, database.ErrDuplicateID) {
			// Practically impossible; one regenerate covers the freak case.
			b.ID = NewBookingID()
			err = s.repo.CreateBooking(ctx, b)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.publish(events.TopicBookingCreated, events.BookingCreatedEvent{Booking: *b})
	metrics.IncBookingCreated(string(b.ServiceType))

	s.logger.Info().Str("booking_id", b.ID).Str("service_type", string(b.ServiceType)).
		Str("tenant_id", b.TenantID).Str("room", b.RoomNumber).Msg("booking created")

	return &SubmitResult{
		BookingID:   b.ID,
		Message:     models.CreationMessage(b),
		ServiceType: b.ServiceType,
	}, nil
}

// ChangeStatusRequest carries a status or assignment update.
type ChangeStatusRequest struct {
	TenantID   string
	BookingID  string
	Status     models.Status
	AssignedTo string
}

// ChangeStatusResult is returned to the caller of a status update.
type ChangeStatusResult struct {
	BookingID  string        `json:"booking_id"`
	Status     models.Status `json:"status"`
	AssignedTo string        `json:"assigned_to"`
}

// ChangeStatus validates the transition, persists it atomically with any
// staff bookkeeping and emits booking_updated to the staff channel and
// the guest's room channel. State machine errors propagate unchanged; a
// lost write race surfaces as an invalid transition after the fact.
func (s *BookingService) ChangeStatus(ctx context.Context, req ChangeStatusRequest) (*ChangeStatusResult, error) {
	var current *models.Booking
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		current, err = s.repo.GetBooking(ctx, req.TenantID, req.BookingID)
		return err
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	now := time.Now().UTC()
	var out booking.Outcome
	if req.AssignedTo != "" && req.AssignedTo != models.Unassigned {
		out, err = booking.Assign(*current, req.AssignedTo, now)
	} else {
		out, err = booking.Advance(*current, req.Status, now)
	}
	if err != nil {
		return nil, err
	}

	update := models.StatusUpdate{
		TenantID:   current.TenantID,
		BookingID:  current.ID,
		FromStatus: current.Status,
		ToStatus:   out.Booking.Status,
		AssignedTo: out.Booking.AssignedTo,
		UpdatedAt:  now,
	}
	switch {
	case out.NewlyAssigned:
		update.StaffName = out.Booking.AssignedTo
		update.StaffDelta = 1
	case out.Terminal && current.IsAssigned():
		update.StaffName = current.AssignedTo
		update.StaffDelta = -1
	}

	var updated *models.Booking
	err = s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.repo.UpdateBookingStatus(ctx, update)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return nil, err
		case errors.Is(err, database.ErrConflict):
			// A concurrent transition won; from the caller's view the
			// requested transition is no longer valid.
			return nil, fmt.Errorf("%w: booking %s changed concurrently", booking.ErrInvalidTransition, req.BookingID)
		default:
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}

	s.publish(events.TopicBookingUpdated, events.BookingUpdatedEvent{
		Booking:        *updated,
		PreviousStatus: current.Status,
	})
	metrics.IncStatusUpdated(string(updated.Status))

	s.logger.Info().Str("booking_id", updated.ID).Str("status", string(updated.Status)).
		Str("assigned_to", updated.AssignedTo).Msg("booking updated")

	return &ChangeStatusResult{
		BookingID:  updated.ID,
		Status:     updated.Status,
		AssignedTo: updated.AssignedTo,
	}, nil
}

// ListBookings returns the tenant's bookings, newest first.
func (s *BookingService) ListBookings(ctx context.Context, tenantID string) ([]models.Booking, error) {
	var list []models.Booking
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		list, err = s.repo.ListBookings(ctx, tenantID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return list, nil
}

// ListStaff returns the tenant's staff roster.
func (s *BookingService) ListStaff(ctx context.Context, tenantID string) ([]models.Staff, error) {
	var staff []models.Staff
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		staff, err = s.repo.ListStaff(ctx, tenantID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return staff, nil
}

// RevenueSummary returns raw booking counts for the period ("7d", "30d"
// or empty for all-time).
func (s *BookingService) RevenueSummary(ctx context.Context, tenantID, period string) (*models.RevenueSummary, error) {
	var since time.Time
	switch period {
	case "7d":
		since = time.Now().UTC().AddDate(0, 0, -7)
	case "30d":
		since = time.Now().UTC().AddDate(0, 0, -30)
	}

	var sum *models.RevenueSummary
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		sum, err = s.repo.RevenueSummary(ctx, tenantID, since)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return sum, nil
}

// publish emits a domain event; fan-out failures never fail the
// triggering request.
func (s *BookingService) publish(topic string, payload any) {
	if err := s.bus.PublishJSON(topic, payload); err != nil {
		s.logger.Error().Err(err).Str("topic", topic).Msg("failed to publish event")
	}
}

func (s *BookingService) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return fn(ctx)
}

// NewBookingID generates a booking id: millisecond timestamp plus a short
// random suffix, globally unique for a tenant's operational lifetime.
func NewBookingID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	return fmt.Sprintf("%d%s", time.Now().UnixMilli(), suffix)
}

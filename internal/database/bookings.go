package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"digierge/internal/models"
)

// CreateBooking inserts a new booking row.
func (db *DB) CreateBooking(ctx context.Context, b *models.Booking) error {
	details, err := marshalDetails(b.ServiceDetails)
	if err != nil {
		return fmt.Errorf("encode service details: %w", err)
	}

	var amount sql.NullFloat64
	if b.TotalAmount != nil {
		amount = sql.NullFloat64{Float64: *b.TotalAmount, Valid: true}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO bookings (
			booking_id, tenant_id, guest_name, guest_email, room_number,
			service_type, service_details, status, priority, assigned_to,
			total_amount, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.TenantID, b.GuestName, b.GuestEmail, b.RoomNumber,
		string(b.ServiceType), details, string(b.Status), string(b.Priority), b.AssignedTo,
		amount, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateID, b.ID)
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetBooking returns a booking by id within the tenant.
func (db *DB) GetBooking(ctx context.Context, tenantID, id string) (*models.Booking, error) {
	row := db.QueryRowContext(ctx, `
		SELECT booking_id, tenant_id, guest_name, guest_email, room_number,
		       service_type, service_details, status, priority, assigned_to,
		       total_amount, created_at, updated_at
		FROM bookings
		WHERE booking_id = ? AND tenant_id = ?`,
		id, tenantID,
	)

	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// ListBookings returns the tenant's bookings, most recently created first.
func (db *DB) ListBookings(ctx context.Context, tenantID string) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT booking_id, tenant_id, guest_name, guest_email, room_number,
		       service_type, service_details, status, priority, assigned_to,
		       total_amount, created_at, updated_at
		FROM bookings
		WHERE tenant_id = ?
		ORDER BY created_at DESC, booking_id DESC`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// UpdateBookingStatus applies a status change guarded by the previous
// status, together with any staff bookkeeping, in one transaction. Of two
// racing transitions exactly one wins; the loser gets ErrConflict.
func (db *DB) UpdateBookingStatus(ctx context.Context, u models.StatusUpdate) (*models.Booking, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET status = ?, assigned_to = ?, updated_at = ?
		WHERE booking_id = ? AND tenant_id = ? AND status = ?`,
		string(u.ToStatus), u.AssignedTo, u.UpdatedAt,
		u.BookingID, u.TenantID, string(u.FromStatus),
	)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		// Either the id is unknown or a concurrent update won the race.
		var exists int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM bookings WHERE booking_id = ? AND tenant_id = ?",
			u.BookingID, u.TenantID,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("check booking: %w", err)
		}
		if exists == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, u.BookingID)
		}
		return nil, fmt.Errorf("%w: booking %s", ErrConflict, u.BookingID)
	}

	if u.StaffDelta != 0 && u.StaffName != "" && u.StaffName != models.Unassigned {
		if err := adjustStaffLoad(ctx, tx, u.TenantID, u.StaffName, u.StaffDelta); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return db.GetBooking(ctx, u.TenantID, u.BookingID)
}

// RevenueSummary returns raw booking counts and summed revenue for the
// tenant since the given time. A zero time means all-time.
func (db *DB) RevenueSummary(ctx context.Context, tenantID string, since time.Time) (*models.RevenueSummary, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN total_amount IS NOT NULL THEN total_amount ELSE 0 END), 0),
			COUNT(CASE WHEN status = 'pending' THEN 1 END),
			COUNT(CASE WHEN status = 'completed' THEN 1 END)
		FROM bookings
		WHERE tenant_id = ?`
	args := []any{tenantID}

	if !since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, since)
	}

	var s models.RevenueSummary
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&s.TotalBookings, &s.TotalRevenue, &s.PendingBookings, &s.CompletedBookings,
	)
	if err != nil {
		return nil, fmt.Errorf("revenue summary: %w", err)
	}
	return &s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var serviceType, status, priority string
	var email, details sql.NullString
	var amount sql.NullFloat64

	err := row.Scan(
		&b.ID, &b.TenantID, &b.GuestName, &email, &b.RoomNumber,
		&serviceType, &details, &status, &priority, &b.AssignedTo,
		&amount, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.ServiceType = models.ServiceType(serviceType)
	b.Status = models.Status(status)
	b.Priority = models.Priority(priority)
	if email.Valid {
		b.GuestEmail = email.String
	}
	if amount.Valid {
		v := amount.Float64
		b.TotalAmount = &v
	}
	if details.Valid && details.String != "" {
		if err := json.Unmarshal([]byte(details.String), &b.ServiceDetails); err != nil {
			return nil, fmt.Errorf("decode service details: %w", err)
		}
	} else {
		b.ServiceDetails = map[string]any{}
	}
	return &b, nil
}

func marshalDetails(details map[string]any) (string, error) {
	if details == nil {
		return "{}", nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

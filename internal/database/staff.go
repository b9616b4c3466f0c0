package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"digierge/internal/models"
)

// ListStaff returns the tenant's staff roster.
func (db *DB) ListStaff(ctx context.Context, tenantID string) ([]models.Staff, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, tenant_id, name, role, avatar, status, active_bookings, created_at
		FROM staff
		WHERE tenant_id = ?
		ORDER BY name`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	staff := make([]models.Staff, 0)
	for rows.Next() {
		var s models.Staff
		var avatar sql.NullString
		if err := rows.Scan(
			&s.ID, &s.TenantID, &s.Name, &s.Role, &avatar,
			&s.Status, &s.ActiveBookings, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		if avatar.Valid {
			s.Avatar = avatar.String
		}
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

// GetStaffByName returns a staff member within the tenant.
func (db *DB) GetStaffByName(ctx context.Context, tenantID, name string) (*models.Staff, error) {
	var s models.Staff
	var avatar sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT id, tenant_id, name, role, avatar, status, active_bookings, created_at
		FROM staff
		WHERE tenant_id = ? AND name = ?`,
		tenantID, name,
	).Scan(&s.ID, &s.TenantID, &s.Name, &s.Role, &avatar, &s.Status, &s.ActiveBookings, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: staff %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get staff: %w", err)
	}
	if avatar.Valid {
		s.Avatar = avatar.String
	}
	return &s, nil
}

// adjustStaffLoad shifts a staff member's active booking count inside the
// caller's transaction. The count never drops below zero and the
// availability status follows the resulting load. Missing staff rows are
// ignored: assignments may name staff the roster does not track.
func adjustStaffLoad(ctx context.Context, tx *sql.Tx, tenantID, name string, delta int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE staff
		SET active_bookings = MAX(0, active_bookings + ?),
		    status = CASE WHEN MAX(0, active_bookings + ?) > 0 THEN ? ELSE ? END
		WHERE tenant_id = ? AND name = ?`,
		delta, delta, models.StaffBusy, models.StaffAvailable,
		tenantID, name,
	)
	if err != nil {
		return fmt.Errorf("adjust staff load: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

// Package database implements the booking store on SQLite.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB represents the database connection.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

var (
	// ErrNotFound means the booking id does not resolve within the tenant.
	ErrNotFound = errors.New("booking not found")
	// ErrDuplicateID means an id collision on insert.
	ErrDuplicateID = errors.New("duplicate booking id")
	// ErrConflict means the row moved between read and write; the caller
	// must re-fetch before retrying.
	ErrConflict = errors.New("concurrent modification")
)

// NewDB opens the database, creates tables and seeds the sample property.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// WAL mode and busy timeout keep concurrent handlers from tripping
	// over SQLite's writer lock.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	instance := &DB{DB: db, logger: logger}
	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	if err := instance.seedSampleData(); err != nil {
		logger.Error().Err(err).Msg("Failed to seed sample data")
		// Seed data is a convenience; the store works without it.
	}

	logger.Info().Str("path", path).Msg("Database initialized")
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS hotels (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT,
			phone TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			booking_id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			guest_name TEXT NOT NULL,
			guest_email TEXT,
			room_number TEXT NOT NULL,
			service_type TEXT NOT NULL,
			service_details TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			priority TEXT NOT NULL DEFAULT 'medium',
			assigned_to TEXT NOT NULL DEFAULT 'unassigned',
			total_amount DECIMAL(10,2),
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (tenant_id) REFERENCES hotels (id)
		)`,

		`CREATE TABLE IF NOT EXISTS staff (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tenant_id TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			avatar TEXT,
			status TEXT NOT NULL DEFAULT 'available',
			active_bookings INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (tenant_id, name),
			FOREIGN KEY (tenant_id) REFERENCES hotels (id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_tenant_created ON bookings(tenant_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_staff_tenant ON staff(tenant_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return db.ensureNewColumns()
}

// ensureNewColumns adds columns introduced after the initial schema.
func (db *DB) ensureNewColumns() error {
	migrations := []string{
		`ALTER TABLE bookings ADD COLUMN priority TEXT NOT NULL DEFAULT 'medium'`,
		`ALTER TABLE staff ADD COLUMN avatar TEXT`,
	}

	for _, m := range migrations {
		_, err := db.Exec(m)
		if err != nil && !strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
			if db.logger != nil {
				db.logger.Debug().Err(err).Str("migration", m).Msg("Migration skipped")
			}
		}
	}
	return nil
}

// seedSampleData inserts the demo property and its staff roster.
func (db *DB) seedSampleData() error {
	_, err := db.Exec(`
		INSERT OR IGNORE INTO hotels (id, name, address, phone)
		VALUES ('grand-hotel', 'The Grand Hotel', '123 Luxury Avenue', '+1-555-123-4567')`)
	if err != nil {
		return err
	}

	staff := []struct {
		name, role, avatar, status string
	}{
		{"Marcus Chen", "Concierge", "👨‍💼", "available"},
		{"Isabella Rodriguez", "Spa Manager", "👩‍⚕️", "busy"},
		{"Ahmed Hassan", "Transportation", "👨‍✈️", "available"},
		{"Emma Thompson", "Restaurant Manager", "👩‍🍳", "available"},
	}

	for _, member := range staff {
		_, err := db.Exec(`
			INSERT OR IGNORE INTO staff (tenant_id, name, role, avatar, status)
			VALUES ('grand-hotel', ?, ?, ?, ?)`,
			member.name, member.role, member.avatar, member.status)
		if err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

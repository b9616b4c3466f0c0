package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// BackupService periodically snapshots the SQLite database to a backup
// directory and prunes snapshots past retention.
type BackupService struct {
	db        *DB
	path      string
	interval  time.Duration
	retention time.Duration
	logger    *zerolog.Logger
}

func NewBackupService(db *DB, path string, interval, retention time.Duration, logger *zerolog.Logger) *BackupService {
	if path == "" {
		path = "backups"
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if retention <= 0 {
		retention = 14 * 24 * time.Hour
	}
	return &BackupService{db: db, path: path, interval: interval, retention: retention, logger: logger}
}

// Start runs the backup loop until the context is cancelled. The first
// snapshot is taken after a short delay so startup stays fast.
func (s *BackupService) Start(ctx context.Context) {
	if err := os.MkdirAll(s.path, 0o755); err != nil {
		s.logger.Error().Err(err).Msg("failed to create backup directory")
		return
	}

	select {
	case <-time.After(time.Minute):
		s.run(ctx)
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.run(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *BackupService) run(ctx context.Context) {
	timestamp := time.Now().Format("20060102_150405")
	dest := filepath.Join(s.path, fmt.Sprintf("digierge_%s.db", timestamp))

	s.logger.Info().Str("path", dest).Msg("starting database backup")
	if err := s.db.Backup(ctx, dest); err != nil {
		s.logger.Error().Err(err).Msg("backup failed")
	} else {
		s.logger.Info().Msg("backup completed")
	}

	deleted, err := s.cleanup()
	if err != nil {
		s.logger.Error().Err(err).Msg("backup cleanup failed")
	} else if deleted > 0 {
		s.logger.Info().Int("deleted", deleted).Msg("cleaned up old backups")
	}
}

func (s *BackupService) cleanup() (int, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-s.retention)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.path, entry.Name())); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}

// Backup writes a consistent snapshot of the live database to dest.
// VACUUM INTO works while other connections keep writing under WAL.
func (db *DB) Backup(ctx context.Context, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("backup target %s already exists", dest)
	}
	_, err := db.ExecContext(ctx, "VACUUM INTO ?", dest)
	return err
}

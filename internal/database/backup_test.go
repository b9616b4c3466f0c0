package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digierge/internal/models"
)

func TestBackupSnapshot(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	b := testBooking("backup-1")
	require.NoError(t, db.CreateBooking(ctx, b))

	dest := filepath.Join(t.TempDir(), "snapshot.db")
	require.NoError(t, db.Backup(ctx, dest))

	// The snapshot is a complete, independently openable database.
	logger := zerolog.Nop()
	restored, err := NewDB(dest, &logger)
	require.NoError(t, err)
	defer restored.Close()

	got, err := restored.GetBooking(ctx, b.TenantID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.GuestName, got.GuestName)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestBackupRefusesExistingTarget(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	dest := filepath.Join(t.TempDir(), "snapshot.db")
	require.NoError(t, db.Backup(ctx, dest))
	assert.Error(t, db.Backup(ctx, dest))
}

package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"digierge/internal/models"
)

func TestWriteBookings(t *testing.T) {
	amount := 120.0
	bookings := []models.Booking{
		{
			ID: "b1", TenantID: "grand-hotel", GuestName: "Nathan",
			RoomNumber: "425", ServiceType: models.ServiceSpa,
			Status: models.StatusCompleted, Priority: models.PriorityHigh,
			AssignedTo: "Isabella Rodriguez", TotalAmount: &amount,
			CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		},
		{
			ID: "b2", TenantID: "grand-hotel", GuestName: "Emma",
			RoomNumber: "118", ServiceType: models.ServiceRestaurant,
			Status: models.StatusPending, Priority: models.PriorityMedium,
			AssignedTo: models.Unassigned,
			CreatedAt:  time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBookings(&buf, "grand-hotel", bookings))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings grand-hotel")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Booking ID", rows[0][0])
	assert.Equal(t, "b1", rows[1][0])
	assert.Equal(t, "Isabella Rodriguez", rows[1][6])
	assert.Equal(t, "120", rows[1][7])
	assert.Equal(t, "b2", rows[2][0])
	assert.Empty(t, rows[2][7])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 4)
	assert.Equal(t, []string{"Total bookings", "2"}, summary[0])
	assert.Equal(t, []string{"Total revenue", "120"}, summary[1])
	assert.Equal(t, []string{"Pending", "1"}, summary[2])
	assert.Equal(t, []string{"Completed", "1"}, summary[3])
}

func TestWriteBookingsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBookings(&buf, "grand-hotel", nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings grand-hotel")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestSheetNameTruncated(t *testing.T) {
	name := sheetName("a-very-long-tenant-identifier-that-overflows")
	assert.Len(t, name, 31)
}

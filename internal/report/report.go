// Package report renders booking data as Excel workbooks for hotel
// back-office use.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"digierge/internal/models"
)

var bookingColumns = []string{
	"Booking ID", "Guest", "Room", "Service", "Status",
	"Priority", "Assigned To", "Amount", "Created At",
}

// WriteBookings writes the tenant's bookings plus a summary sheet with
// the same raw counts the analytics endpoint exposes.
func WriteBookings(w io.Writer, tenantID string, bookings []models.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(tenantID)
	f.SetSheetName("Sheet1", sheet)

	if err := writeHeader(f, sheet); err != nil {
		return err
	}

	for i, b := range bookings {
		row := []any{
			b.ID, b.GuestName, b.RoomNumber, string(b.ServiceType), string(b.Status),
			string(b.Priority), b.AssignedTo, amount(b.TotalAmount),
			b.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, val := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	if err := writeSummary(f, bookings); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSummary(f *excelize.File, bookings []models.Booking) error {
	if _, err := f.NewSheet("Summary"); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	var revenue float64
	var pending, completed int
	for _, b := range bookings {
		if b.TotalAmount != nil {
			revenue += *b.TotalAmount
		}
		switch b.Status {
		case models.StatusPending:
			pending++
		case models.StatusCompleted:
			completed++
		}
	}

	rows := [][]any{
		{"Total bookings", len(bookings)},
		{"Total revenue", revenue},
		{"Pending", pending},
		{"Completed", completed},
	}
	for i, row := range rows {
		for col, val := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue("Summary", cell, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string) error {
	for i, col := range bookingColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(bookingColumns), 1)
		_ = f.SetCellStyle(sheet, startCell, endCell, style)
	}
	return nil
}

// sheetName fits the tenant id into Excel's 31 char sheet name limit.
func sheetName(tenantID string) string {
	name := "Bookings " + tenantID
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func amount(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

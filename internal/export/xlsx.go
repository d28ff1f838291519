// Package export builds Excel workbooks of bookings for the admin panel.
package export

import (
	"context"
	"fmt"
	"strings"

	"noblejade/internal/models"
	"noblejade/internal/store"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const bookingsSheet = "Bookings"

type Exporter struct {
	store  store.RecordStore
	logger *zerolog.Logger
}

func NewExporter(recordStore store.RecordStore, logger *zerolog.Logger) *Exporter {
	return &Exporter{store: recordStore, logger: logger}
}

// ExportBookings renders all bookings scheduled inside [startDate, endDate]
// (YYYY-MM-DD, inclusive) into an xlsx workbook and returns its bytes
// together with a suggested file name.
func (e *Exporter) ExportBookings(ctx context.Context, startDate, endDate string) ([]byte, string, error) {
	filter := fmt.Sprintf("scheduledDate >= %q && scheduledDate <= %q", startDate, endDate)
	records, err := e.store.ListAll(ctx, models.CollectionBookings, store.ListOptions{
		Filter: filter,
		Sort:   "scheduledDate",
	})
	if err != nil {
		return nil, "", fmt.Errorf("error getting bookings: %v", err)
	}

	bookings := make([]models.Booking, 0, len(records))
	for _, r := range records {
		bookings = append(bookings, models.BookingFromRaw(r))
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return nil, "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(bookingsSheet, "A1", fmt.Sprintf("Bookings: %s - %s", startDate, endDate))
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(bookingsSheet, "A1", "A1", titleStyle)

	e.writeHeaders(f)
	e.writeBookingRows(f, bookings)

	lastCol, _ := excelize.ColumnNumberToName(len(columnWidths))
	_ = f.MergeCell(bookingsSheet, "A1", lastCol+"1")

	_ = f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("error saving workbook: %v", err)
	}

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx", startDate, endDate)
	e.logger.Info().Str("file_name", fileName).Int("rows", len(bookings)).Msg("bookings workbook created")
	return buf.Bytes(), fileName, nil
}

var columnWidths = []struct {
	header string
	width  float64
}{
	{"ID", 18},
	{"Customer", 22},
	{"Email", 24},
	{"Phone", 15},
	{"Service", 18},
	{"Date", 12},
	{"Slot", 12},
	{"Status", 18},
	{"Subtotal", 10},
	{"Discount", 10},
	{"Total", 10},
	{"Staff", 24},
	{"Created", 20},
}

func (e *Exporter) writeHeaders(f *excelize.File) {
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, col := range columnWidths {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(bookingsSheet, cell, col.header)
		_ = f.SetCellStyle(bookingsSheet, cell, cell, headerStyle)

		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(bookingsSheet, name, name, col.width)
	}
}

func (e *Exporter) writeBookingRows(f *excelize.File, bookings []models.Booking) {
	for i, b := range bookings {
		row := i + 3
		values := []interface{}{
			b.ID,
			b.CustomerName,
			b.CustomerEmail,
			b.CustomerPhone,
			b.ServiceType,
			b.ScheduledDate,
			b.TimeSlot,
			string(b.Status),
			b.Subtotal,
			b.Discount,
			b.Total,
			strings.Join(b.AssignedStaff, ", "),
			b.Created.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(bookingsSheet, cell, v)
		}

		if styleID, err := e.statusStyle(f, b.Status); err == nil && styleID != 0 {
			statusCell, _ := excelize.CoordinatesToCellName(8, row)
			_ = f.SetCellStyle(bookingsSheet, statusCell, statusCell, styleID)
		}
	}
}

// statusStyle colors the status cell: green for done, yellow for
// anything awaiting action, red for cancelled.
func (e *Exporter) statusStyle(f *excelize.File, status models.BookingStatus) (int, error) {
	var color string
	switch status {
	case models.StatusCompleted, models.StatusPaid:
		color = "#C6EFCE"
	case models.StatusPendingReview, models.StatusAdminModified:
		color = "#FFEB9C"
	case models.StatusCancelled:
		color = "#FFC7CE"
	default:
		return 0, nil
	}

	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top"},
	})
}

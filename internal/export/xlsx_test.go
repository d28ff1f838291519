package export

import (
	"bytes"
	"context"
	"testing"

	"noblejade/internal/models"
	"noblejade/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newExporter(t *testing.T) (*Exporter, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	logger := zerolog.Nop()
	return NewExporter(mem, &logger), mem
}

func seedBooking(t *testing.T, mem *store.Memory, fields map[string]any) models.Raw {
	t.Helper()
	r, err := mem.Create(context.Background(), models.CollectionBookings, fields)
	require.NoError(t, err)
	return r
}

func TestExportBookings(t *testing.T) {
	exp, mem := newExporter(t)
	ctx := context.Background()

	seedBooking(t, mem, map[string]any{
		"customerName":  "Dana Riel",
		"customerEmail": "dana@example.com",
		"serviceType":   "deep-cleaning",
		"scheduledDate": "2026-09-10",
		"timeSlot":      "morning",
		"status":        "completed",
		"subtotal":      180.0,
		"discount":      18.0,
		"total":         162.0,
		"assignedStaff": []any{"staff_1"},
	})
	seedBooking(t, mem, map[string]any{
		"customerName":  "Lee Moran",
		"serviceType":   "standard-cleaning",
		"scheduledDate": "2026-09-05",
		"status":        "cancelled",
		"total":         95.0,
	})
	// Outside the range, must not appear.
	seedBooking(t, mem, map[string]any{
		"customerName":  "Outsider",
		"serviceType":   "standard-cleaning",
		"scheduledDate": "2026-10-01",
		"status":        "approved",
	})

	data, fileName, err := exp.ExportBookings(ctx, "2026-09-01", "2026-09-30")
	require.NoError(t, err)
	assert.Equal(t, "bookings_2026-09-01_to_2026-09-30.xlsx", fileName)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(bookingsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Bookings: 2026-09-01 - 2026-09-30", title)

	header, _ := f.GetCellValue(bookingsSheet, "B2")
	assert.Equal(t, "Customer", header)

	// Sorted by scheduled date, cancelled row first.
	first, _ := f.GetCellValue(bookingsSheet, "B3")
	assert.Equal(t, "Lee Moran", first)
	second, _ := f.GetCellValue(bookingsSheet, "B4")
	assert.Equal(t, "Dana Riel", second)

	status, _ := f.GetCellValue(bookingsSheet, "H4")
	assert.Equal(t, "completed", status)
	total, _ := f.GetCellValue(bookingsSheet, "K4")
	assert.Equal(t, "162", total)
	staff, _ := f.GetCellValue(bookingsSheet, "L4")
	assert.Equal(t, "staff_1", staff)

	// Out-of-range booking excluded.
	empty, _ := f.GetCellValue(bookingsSheet, "B5")
	assert.Empty(t, empty)
}

func TestExportBookingsEmptyRange(t *testing.T) {
	exp, _ := newExporter(t)

	data, _, err := exp.ExportBookings(context.Background(), "2026-01-01", "2026-01-31")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	cell, _ := f.GetCellValue(bookingsSheet, "A3")
	assert.Empty(t, cell)
}

func TestExportBookingsStoreDown(t *testing.T) {
	logger := zerolog.Nop()
	exp := NewExporter(failingStore{}, &logger)

	_, _, err := exp.ExportBookings(context.Background(), "2026-09-01", "2026-09-30")
	assert.Error(t, err)
}

type failingStore struct{}

func (failingStore) List(ctx context.Context, c string, p, pp int, o store.ListOptions) (store.ListResult, error) {
	return store.ListResult{}, assert.AnError
}
func (failingStore) ListAll(ctx context.Context, c string, o store.ListOptions) ([]models.Raw, error) {
	return nil, assert.AnError
}
func (failingStore) GetOne(ctx context.Context, c, id string, o store.ListOptions) (models.Raw, error) {
	return nil, assert.AnError
}
func (failingStore) GetFirst(ctx context.Context, c, f string, o store.ListOptions) (models.Raw, error) {
	return nil, assert.AnError
}
func (failingStore) Create(ctx context.Context, c string, d map[string]any) (models.Raw, error) {
	return nil, assert.AnError
}
func (failingStore) Update(ctx context.Context, c, id string, d map[string]any) (models.Raw, error) {
	return nil, assert.AnError
}
func (failingStore) Delete(ctx context.Context, c, id string) error { return assert.AnError }
func (failingStore) Subscribe(ctx context.Context, c, t string, fn store.EventHandler) (store.Subscription, error) {
	return nil, assert.AnError
}

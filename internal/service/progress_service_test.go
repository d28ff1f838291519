package service

import (
	"context"
	"io"
	"testing"

	"noblejade/internal/models"
	"noblejade/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProgressService(t *testing.T) {
	mem := newLifecycleStore()
	bus := new(mockEventBus)
	logger := zerolog.New(io.Discard)
	svc := NewProgressService(mem, bus, &logger)
	ctx := context.Background()

	staff := models.Actor{ID: "usr_staff1", Role: models.RoleStaff}
	bus.On("PublishJSON", mock.Anything, mock.Anything).Return(nil)

	rec, err := mem.Create(ctx, models.CollectionBookings, map[string]any{
		"serviceType":   "deep-cleaning",
		"scheduledDate": "2026-09-14",
		"address":       "12 Spruce Cres",
		"status":        string(models.StatusInProgress),
		"currentStage":  models.StageStarted,
	})
	require.NoError(t, err)
	bookingID := rec.GetString("id")

	t.Run("AddProgress", func(t *testing.T) {
		entry, err := svc.AddProgress(ctx, staff, models.JobProgress{
			Booking:     bookingID,
			Stage:       "kitchen",
			StageNumber: 2,
			Title:       "Kitchen done",
			Photos:      []string{"kitchen.jpg"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, staff.ID, entry.Staff)

		booking, err := mem.GetOne(ctx, models.CollectionBookings, bookingID, store.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, 2, booking.GetInt("currentStage"))
	})

	t.Run("AddProgressAnonymous", func(t *testing.T) {
		_, err := svc.AddProgress(ctx, models.Actor{}, models.JobProgress{Booking: bookingID})
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("StaleStageOnSecondWriteFailure", func(t *testing.T) {
		// Booking does not exist; the entry is still created.
		entry, err := svc.AddProgress(ctx, staff, models.JobProgress{
			Booking:     "missing000remix",
			Stage:       "bathroom",
			StageNumber: 3,
			Title:       "Bathroom done",
		})
		assert.Error(t, err)
		assert.NotEmpty(t, entry.ID)

		list := svc.GetProgress(ctx, "missing000remix")
		assert.Len(t, list, 1)
	})

	t.Run("GetProgressOrdering", func(t *testing.T) {
		_, err := svc.AddProgress(ctx, staff, models.JobProgress{
			Booking:     bookingID,
			Stage:       "bedrooms",
			StageNumber: 3,
			Title:       "Bedrooms done",
		})
		require.NoError(t, err)

		list := svc.GetProgress(ctx, bookingID)
		require.Len(t, list, 2)
		assert.Equal(t, "Kitchen done", list[0].Title)
		assert.Equal(t, "Bedrooms done", list[1].Title)
	})

	t.Run("GetProgressStoreDown", func(t *testing.T) {
		down := NewProgressService(brokenStore{}, bus, &logger)
		assert.Empty(t, down.GetProgress(ctx, bookingID))
	})
}

package service

import (
	"context"
	"io"
	"testing"

	"noblejade/internal/models"
	"noblejade/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBooking(t *testing.T, mem *store.Memory, fields map[string]any) models.Raw {
	t.Helper()
	data := map[string]any{
		"serviceType":   "standard",
		"scheduledDate": "2026-09-10",
		"address":       "1 Main St",
		"status":        string(models.StatusPendingReview),
	}
	for k, v := range fields {
		data[k] = v
	}
	rec, err := mem.Create(context.Background(), models.CollectionBookings, data)
	require.NoError(t, err)
	return rec
}

func TestDashboardService(t *testing.T) {
	mem := store.NewMemory()
	logger := zerolog.New(io.Discard)
	svc := NewDashboardService(mem, &logger)
	svc.today = func() string { return "2026-09-01" }
	ctx := context.Background()

	const userID = "usr_cust1"
	customer := models.Actor{ID: userID, Role: models.RoleCustomer}

	completedRec := seedBooking(t, mem, map[string]any{
		"user":          userID,
		"status":        string(models.StatusCompleted),
		"scheduledDate": "2026-08-20",
	})
	seedBooking(t, mem, map[string]any{
		"user":          userID,
		"status":        string(models.StatusApproved),
		"scheduledDate": "2026-09-12",
	})
	seedBooking(t, mem, map[string]any{
		"user":          userID,
		"status":        string(models.StatusCancelled),
		"scheduledDate": "2026-09-05",
	})
	seedBooking(t, mem, map[string]any{
		"user": "usr_other",
	})

	_, err := mem.Create(ctx, models.CollectionUsers, map[string]any{
		"name":          "Dana",
		"walletBalance": 42.5,
	})
	require.NoError(t, err)

	t.Run("GetUserStats", func(t *testing.T) {
		stats := svc.GetUserStats(ctx, userID)
		assert.Equal(t, 3, stats.TotalBookings)
		assert.Equal(t, 1, stats.CompletedBookings)
		// No user record with this id, wallet stays zero.
		assert.Equal(t, 0.0, stats.WalletBalance)
	})

	t.Run("GetUserBookingsAll", func(t *testing.T) {
		list := svc.GetUserBookings(ctx, userID, "all", 0)
		require.Len(t, list, 3)
		// Sorted by scheduledDate descending.
		assert.Equal(t, "2026-09-12", list[0].ScheduledDate)
		assert.Equal(t, "2026-08-20", list[2].ScheduledDate)
	})

	t.Run("GetUserBookingsUpcoming", func(t *testing.T) {
		list := svc.GetUserBookings(ctx, userID, "upcoming", 0)
		require.Len(t, list, 1)
		assert.Equal(t, models.StatusApproved, list[0].Status)
	})

	t.Run("GetUserBookingsByStatus", func(t *testing.T) {
		list := svc.GetUserBookings(ctx, userID, "cancelled", 0)
		require.Len(t, list, 1)
		assert.Equal(t, models.StatusCancelled, list[0].Status)
	})

	t.Run("GetRecentBookingsLimit", func(t *testing.T) {
		list := svc.GetRecentBookings(ctx, userID)
		assert.LessOrEqual(t, len(list), models.DefaultRecentLimit)
	})

	t.Run("PendingReviewsThenSubmit", func(t *testing.T) {
		pending := svc.GetPendingReviewBookings(ctx, userID)
		require.Len(t, pending, 1)
		assert.Equal(t, completedRec.GetString("id"), pending[0].ID)

		review, err := svc.SubmitReview(ctx, customer, pending[0].ID, ReviewRequest{
			Rating: 5,
			Title:  "Sparkling",
		})
		require.NoError(t, err)
		assert.True(t, review.IsPublic)
		assert.Equal(t, userID, review.User)

		assert.Empty(t, svc.GetPendingReviewBookings(ctx, userID))
		assert.Len(t, svc.GetUserReviews(ctx, userID), 1)
	})

	t.Run("SubmitReviewValidation", func(t *testing.T) {
		_, err := svc.SubmitReview(ctx, customer, "bk1", ReviewRequest{Rating: 9, Title: "x"})
		assert.Error(t, err)

		_, err = svc.SubmitReview(ctx, models.Actor{}, "bk1", ReviewRequest{Rating: 4, Title: "x"})
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("StoreDownDegrades", func(t *testing.T) {
		down := NewDashboardService(brokenStore{}, &logger)
		assert.Equal(t, UserStats{}, down.GetUserStats(ctx, userID))
		assert.Empty(t, down.GetUserBookings(ctx, userID, "all", 0))
		assert.Empty(t, down.GetUserReviews(ctx, userID))
		assert.Empty(t, down.GetPendingReviewBookings(ctx, userID))

		_, err := down.SubmitReview(ctx, customer, "bk1", ReviewRequest{Rating: 4, Title: "x"})
		assert.Error(t, err)
	})
}

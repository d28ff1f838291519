package service

import (
	"context"
	"fmt"
	"time"

	"noblejade/internal/metrics"
	"noblejade/internal/models"
	"noblejade/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// UserStats is the customer dashboard summary block.
type UserStats struct {
	TotalBookings     int     `json:"totalBookings"`
	CompletedBookings int     `json:"completedBookings"`
	WalletBalance     float64 `json:"walletBalance"`
	RewardPoints      int     `json:"rewardPoints"`
}

// ReviewRequest is the payload for submitting customer feedback.
type ReviewRequest struct {
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title    string `json:"title" validate:"required"`
	Comment  string `json:"comment"`
	IsPublic *bool  `json:"isPublic"`
}

// DashboardService serves the customer-facing dashboard: stats,
// booking lists, reviews. All reads degrade to zero values on store
// errors so the dashboard renders instead of erroring.
type DashboardService struct {
	store    store.RecordStore
	validate *validator.Validate
	logger   *zerolog.Logger
	today    func() string
}

func NewDashboardService(st store.RecordStore, logger *zerolog.Logger) *DashboardService {
	return &DashboardService{
		store:    st,
		validate: validator.New(),
		logger:   logger,
		today:    func() string { return time.Now().UTC().Format("2006-01-02") },
	}
}

// GetUserStats counts the user's bookings and reads the wallet balance
// off the user record.
func (s *DashboardService) GetUserStats(ctx context.Context, userID string) UserStats {
	recs, err := s.store.ListAll(ctx, models.CollectionBookings, store.ListOptions{
		Filter: fmt.Sprintf("user = %q", userID),
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionBookings)
		s.logger.Error().Err(err).Str("user_id", userID).Msg("fetch user stats error")
		return UserStats{}
	}

	stats := UserStats{TotalBookings: len(recs)}
	for _, r := range recs {
		if r.GetString("status") == string(models.StatusCompleted) {
			stats.CompletedBookings++
		}
	}

	// The wallet field may be absent on older accounts.
	if user, err := s.store.GetOne(ctx, models.CollectionUsers, userID, store.ListOptions{}); err == nil {
		stats.WalletBalance = user.GetFloat("walletBalance")
	}

	return stats
}

// GetUserBookings lists the user's bookings newest scheduled first,
// optionally narrowed by a status filter. "upcoming" means a future
// date in one of the pre-execution states.
func (s *DashboardService) GetUserBookings(ctx context.Context, userID, status string, limit int) []models.Booking {
	filter := fmt.Sprintf("user = %q", userID)
	switch status {
	case "", "all":
	case "upcoming":
		filter += fmt.Sprintf(" && scheduledDate >= %q && (status = \"pending_review\" || status = \"customer_confirmed\" || status = \"approved\" || status = \"assigned\")", s.today())
	default:
		filter += fmt.Sprintf(" && status = %q", status)
	}

	if limit <= 0 {
		limit = 50
	}
	result, err := s.store.List(ctx, models.CollectionBookings, 1, limit, store.ListOptions{
		Filter: filter,
		Sort:   "-scheduledDate",
		Expand: "assignedStaff",
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionBookings)
		s.logger.Error().Err(err).Str("user_id", userID).Str("status", status).Msg("fetch user bookings error")
		return []models.Booking{}
	}
	return decodeBookings(result.Items)
}

// GetRecentBookings returns the dashboard's recent activity strip.
func (s *DashboardService) GetRecentBookings(ctx context.Context, userID string) []models.Booking {
	return s.GetUserBookings(ctx, userID, "", models.DefaultRecentLimit)
}

// GetUserReviews lists the user's submitted reviews.
func (s *DashboardService) GetUserReviews(ctx context.Context, userID string) []models.Review {
	recs, err := s.store.ListAll(ctx, models.CollectionReviews, store.ListOptions{
		Filter: fmt.Sprintf("user = %q", userID),
		Expand: "booking",
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionReviews)
		s.logger.Error().Err(err).Str("user_id", userID).Msg("fetch user reviews error")
		return []models.Review{}
	}

	out := make([]models.Review, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.ReviewFromRaw(r))
	}
	return out
}

// GetPendingReviewBookings returns completed bookings the user has not
// reviewed yet.
func (s *DashboardService) GetPendingReviewBookings(ctx context.Context, userID string) []models.Booking {
	completed, err := s.store.ListAll(ctx, models.CollectionBookings, store.ListOptions{
		Filter: fmt.Sprintf("user = %q && status = \"completed\"", userID),
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionBookings)
		s.logger.Error().Err(err).Str("user_id", userID).Msg("fetch completed bookings error")
		return []models.Booking{}
	}

	reviews, err := s.store.ListAll(ctx, models.CollectionReviews, store.ListOptions{
		Filter: fmt.Sprintf("user = %q", userID),
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionReviews)
		s.logger.Error().Err(err).Str("user_id", userID).Msg("fetch reviews error")
		return []models.Booking{}
	}

	reviewed := make(map[string]bool, len(reviews))
	for _, r := range reviews {
		reviewed[r.GetString("booking")] = true
	}

	out := make([]models.Booking, 0, len(completed))
	for _, r := range completed {
		if !reviewed[r.GetString("id")] {
			out = append(out, models.BookingFromRaw(r))
		}
	}
	return out
}

// SubmitReview creates feedback for a booking. Reviews default to
// public unless the customer opts out.
func (s *DashboardService) SubmitReview(ctx context.Context, actor models.Actor, bookingID string, req ReviewRequest) (models.Review, error) {
	if actor.IsZero() {
		return models.Review{}, ErrNotAuthenticated
	}
	if err := s.validate.Struct(req); err != nil {
		return models.Review{}, err
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	rec, err := s.store.Create(ctx, models.CollectionReviews, map[string]any{
		"user":     actor.ID,
		"booking":  bookingID,
		"rating":   req.Rating,
		"title":    req.Title,
		"comment":  req.Comment,
		"isPublic": isPublic,
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionReviews)
		return models.Review{}, err
	}
	return models.ReviewFromRaw(rec), nil
}

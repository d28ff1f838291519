package realtime

import (
	"fmt"

	"github.com/rs/zerolog"

	"noblejade/internal/models"
	"noblejade/internal/store"
)

// Convenience constructors for the collections the dashboards watch.

// NewUserBookingsMirror follows one customer's bookings, newest first.
func NewUserBookingsMirror(st store.RecordStore, userID string, logger *zerolog.Logger) *ListMirror[models.Booking] {
	return NewListMirror(st, models.CollectionBookings, store.ListOptions{
		Filter: fmt.Sprintf(`user = "%s"`, userID),
		Sort:   "-created",
		Expand: "assignedStaff",
	}, models.BookingFromRaw, logger)
}

// NewAllBookingsMirror follows every booking for the admin panel.
func NewAllBookingsMirror(st store.RecordStore, logger *zerolog.Logger) *ListMirror[models.Booking] {
	return NewListMirror(st, models.CollectionBookings, store.ListOptions{
		Sort:   "-created",
		Expand: "user,assignedStaff",
	}, models.BookingFromRaw, logger)
}

// NewJobProgressMirror follows the execution stages of one booking,
// oldest first.
func NewJobProgressMirror(st store.RecordStore, bookingID string, logger *zerolog.Logger) *ListMirror[models.JobProgress] {
	return NewListMirror(st, models.CollectionJobProgress, store.ListOptions{
		Filter: fmt.Sprintf(`booking = "%s"`, bookingID),
		Sort:   "created",
		Expand: "staff",
	}, models.JobProgressFromRaw, logger)
}

// NewReviewsMirror follows reviews under an optional filter.
func NewReviewsMirror(st store.RecordStore, filter string, logger *zerolog.Logger) *ListMirror[models.Review] {
	return NewListMirror(st, models.CollectionReviews, store.ListOptions{
		Filter: filter,
		Expand: "user,booking",
	}, models.ReviewFromRaw, logger)
}

// NewUserReferralsMirror follows one customer's referral invites,
// newest first.
func NewUserReferralsMirror(st store.RecordStore, userID string, logger *zerolog.Logger) *ListMirror[models.Referral] {
	return NewListMirror(st, models.CollectionReferrals, store.ListOptions{
		Filter: fmt.Sprintf(`referrer = "%s"`, userID),
		Sort:   "-created",
	}, models.ReferralFromRaw, logger)
}

// NewBookingMirror follows a single booking record.
func NewBookingMirror(st store.RecordStore, bookingID string, logger *zerolog.Logger) *RecordMirror[models.Booking] {
	return NewRecordMirror(st, models.CollectionBookings, bookingID, store.ListOptions{
		Expand: "user,assignedStaff",
	}, models.BookingFromRaw, logger)
}

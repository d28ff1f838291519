package models

import "fmt"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPendingReview     BookingStatus = "pending_review"
	StatusAdminModified     BookingStatus = "admin_modified"
	StatusCustomerConfirmed BookingStatus = "customer_confirmed"
	StatusApproved          BookingStatus = "approved"
	StatusPaid              BookingStatus = "paid"
	StatusAssigned          BookingStatus = "assigned"
	StatusInProgress        BookingStatus = "in_progress"
	StatusCompleted         BookingStatus = "completed"
	StatusCancelled         BookingStatus = "cancelled"
)

func ParseStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusPendingReview, StatusAdminModified, StatusCustomerConfirmed,
		StatusApproved, StatusPaid, StatusAssigned, StatusInProgress,
		StatusCompleted, StatusCancelled:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %s", s)
	}
}

// allowedTransitions encodes the forward edges of the lifecycle, plus
// the single backward edge admin_modified -> pending_review taken when
// a customer rejects proposed modifications. Cancellation is handled
// separately because it is reachable from every non-terminal state.
var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	StatusPendingReview:     {StatusAdminModified: true, StatusApproved: true},
	StatusAdminModified:     {StatusCustomerConfirmed: true, StatusPendingReview: true},
	StatusCustomerConfirmed: {StatusApproved: true},
	StatusApproved:          {StatusPaid: true},
	StatusPaid:              {StatusAssigned: true},
	StatusAssigned:          {StatusInProgress: true},
	StatusInProgress:        {StatusCompleted: true},
	StatusCompleted:         {},
	StatusCancelled:         {},
}

// CanTransition reports whether from -> to is a legal lifecycle edge.
func CanTransition(from, to BookingStatus) bool {
	if to == StatusCancelled {
		return !IsTerminal(from)
	}
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

// IsTerminal reports whether no further transitions are permitted.
func IsTerminal(s BookingStatus) bool {
	return s == StatusCompleted || s == StatusCancelled
}

package service

import (
	"context"
	"fmt"
	"time"

	"noblejade/internal/domain"
	"noblejade/internal/events"
	"noblejade/internal/metrics"
	"noblejade/internal/models"
	"noblejade/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// BookingService drives a booking through its lifecycle. It performs no
// authorization checks of its own; the record store's access rules are
// authoritative and their errors pass through unmodified.
type BookingService struct {
	store      store.RecordStore
	eventBus   domain.EventPublisher
	syncWorker domain.SyncWorker
	validate   *validator.Validate
	logger     *zerolog.Logger
	now        func() time.Time
}

func NewBookingService(st store.RecordStore, eventBus domain.EventPublisher, syncWorker domain.SyncWorker, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:      st,
		eventBus:   eventBus,
		syncWorker: syncWorker,
		validate:   validator.New(),
		logger:     logger,
		now:        time.Now,
	}
}

// Submit creates a new booking in pending_review. The original pricing
// triple is stamped from the submitted pricing and never changes again.
func (s *BookingService) Submit(ctx context.Context, actor models.Actor, req models.SubmitBookingRequest) (models.Booking, error) {
	if actor.IsZero() {
		return models.Booking{}, ErrNotAuthenticated
	}
	if err := s.validate.Struct(req); err != nil {
		return models.Booking{}, err
	}

	data := map[string]any{
		"user":          actor.ID,
		"customerName":  req.CustomerName,
		"customerEmail": req.CustomerEmail,
		"customerPhone": req.CustomerPhone,

		"serviceType": req.ServiceType,
		"frequency":   req.Frequency,
		"addons":      req.Addons,

		"subtotal":         req.Subtotal,
		"discount":         req.Discount,
		"total":            req.Total,
		"originalSubtotal": req.Subtotal,
		"originalDiscount": req.Discount,
		"originalTotal":    req.Total,

		"scheduledDate": req.ScheduledDate,
		"timeSlot":      req.TimeSlot,

		"address":             req.Address,
		"city":                req.City,
		"province":            req.Province,
		"postalCode":          req.PostalCode,
		"accessCode":          req.AccessCode,
		"parkingInfo":         req.ParkingInfo,
		"specialInstructions": req.SpecialInstructions,

		"status":        string(models.StatusPendingReview),
		"paymentStatus": models.PaymentPending,
		"currentStage":  models.StageInitial,
	}

	rec, err := s.store.Create(ctx, models.CollectionBookings, data)
	if err != nil {
		metrics.IncStoreError(models.CollectionBookings)
		return models.Booking{}, err
	}

	booking := models.BookingFromRaw(rec)
	s.publishEvent(events.EventBookingSubmitted, booking, actor, "")
	s.enqueueSync(ctx, booking, "upsert")
	return booking, nil
}

// Approve moves a booking to approved and stamps the approver.
func (s *BookingService) Approve(ctx context.Context, admin models.Actor, bookingID string) (models.Booking, error) {
	return s.transition(ctx, admin, bookingID, events.EventBookingApproved, map[string]any{
		"status":          string(models.StatusApproved),
		"adminApprovedBy": admin.ID,
		"adminApprovedAt": s.timestamp(),
	}, "")
}

// FinalApprove approves a booking the customer has already confirmed.
// The effect is identical to Approve; the separate name keeps the two
// workflow steps distinguishable in handlers and event logs.
func (s *BookingService) FinalApprove(ctx context.Context, admin models.Actor, bookingID string) (models.Booking, error) {
	return s.Approve(ctx, admin, bookingID)
}

// Modify applies admin changes to a pending booking, preserving the
// pre-modification total, date and addons in a snapshot the customer
// compares against before confirming.
func (s *BookingService) Modify(ctx context.Context, admin models.Actor, bookingID string, mods models.BookingModifications, notes string) (models.Booking, error) {
	if admin.IsZero() {
		return models.Booking{}, ErrNotAuthenticated
	}
	rec, err := s.store.GetOne(ctx, models.CollectionBookings, bookingID, store.ListOptions{})
	if err != nil {
		return models.Booking{}, err
	}
	current := models.BookingFromRaw(rec)

	modified := models.ChangeSet{
		Total:         current.Total,
		ScheduledDate: current.ScheduledDate,
		Addons:        current.Addons,
	}
	patch := map[string]any{}
	if mods.Total != nil {
		modified.Total = *mods.Total
		patch["total"] = *mods.Total
	}
	if mods.ScheduledDate != nil {
		modified.ScheduledDate = *mods.ScheduledDate
		patch["scheduledDate"] = *mods.ScheduledDate
	}
	if mods.Addons != nil {
		modified.Addons = mods.Addons
		patch["addons"] = mods.Addons
	}

	snapshot := &models.ProposedChanges{
		Original: models.ChangeSet{
			Total:         current.Total,
			ScheduledDate: current.ScheduledDate,
			Addons:        current.Addons,
		},
		Modified: modified,
	}

	patch["status"] = string(models.StatusAdminModified)
	patch["proposedChanges"] = snapshot.ToRaw()
	patch["customerVisibleNotes"] = notes
	patch["modifiedBy"] = admin.ID
	patch["modifiedAt"] = s.timestamp()

	return s.applyTransition(ctx, admin, bookingID, events.EventBookingModified, patch, notes)
}

// AcceptModifications confirms the admin's proposed changes. The
// snapshot stays on the record so the history remains visible.
func (s *BookingService) AcceptModifications(ctx context.Context, customer models.Actor, bookingID string) (models.Booking, error) {
	if err := s.requireProposedChanges(ctx, customer, bookingID); err != nil {
		return models.Booking{}, err
	}
	return s.transition(ctx, customer, bookingID, events.EventBookingConfirmed, map[string]any{
		"status":             string(models.StatusCustomerConfirmed),
		"customerApprovedAt": s.timestamp(),
	}, "")
}

// RejectModifications sends the booking back to pending_review and
// clears the snapshot. Field values already applied by Modify stay as
// written; only the proposed-changes record is discarded.
func (s *BookingService) RejectModifications(ctx context.Context, customer models.Actor, bookingID string, reason string) (models.Booking, error) {
	if err := s.requireProposedChanges(ctx, customer, bookingID); err != nil {
		return models.Booking{}, err
	}
	return s.transition(ctx, customer, bookingID, events.EventBookingRejected, map[string]any{
		"status":                  string(models.StatusPendingReview),
		"customerRejectionReason": reason,
		"proposedChanges":         nil,
	}, reason)
}

// requireProposedChanges ensures there is a snapshot to respond to.
func (s *BookingService) requireProposedChanges(ctx context.Context, customer models.Actor, bookingID string) error {
	if customer.IsZero() {
		return ErrNotAuthenticated
	}
	rec, err := s.store.GetOne(ctx, models.CollectionBookings, bookingID, store.ListOptions{})
	if err != nil {
		return err
	}
	if models.BookingFromRaw(rec).ProposedChanges == nil {
		return ErrNoProposedChanges
	}
	return nil
}

// MarkAsPaid records a completed payment.
func (s *BookingService) MarkAsPaid(ctx context.Context, actor models.Actor, bookingID, paymentID string) (models.Booking, error) {
	return s.transition(ctx, actor, bookingID, events.EventBookingPaid, map[string]any{
		"status":        string(models.StatusPaid),
		"paymentStatus": models.PaymentPaid,
		"paymentId":     paymentID,
		"paidAt":        s.timestamp(),
	}, "")
}

// AssignStaff attaches the crew to a paid booking.
func (s *BookingService) AssignStaff(ctx context.Context, admin models.Actor, bookingID string, staffIDs []string) (models.Booking, error) {
	return s.transition(ctx, admin, bookingID, events.EventBookingAssigned, map[string]any{
		"status":        string(models.StatusAssigned),
		"assignedStaff": staffIDs,
		"assignedAt":    s.timestamp(),
	}, "")
}

// StartJob marks the job in progress and bumps the stage counter.
func (s *BookingService) StartJob(ctx context.Context, staff models.Actor, bookingID string) (models.Booking, error) {
	return s.transition(ctx, staff, bookingID, events.EventBookingStarted, map[string]any{
		"status":       string(models.StatusInProgress),
		"jobStartedAt": s.timestamp(),
		"currentStage": models.StageStarted,
	}, "")
}

// CompleteJob finishes the job and stamps the terminal stage value.
func (s *BookingService) CompleteJob(ctx context.Context, staff models.Actor, bookingID string) (models.Booking, error) {
	return s.transition(ctx, staff, bookingID, events.EventBookingCompleted, map[string]any{
		"status":       string(models.StatusCompleted),
		"completedAt":  s.timestamp(),
		"currentStage": models.StageTerminal,
	}, "")
}

// Cancel ends the booking from any non-terminal state. The store's
// transition rules decide whether the cancellation is legal.
func (s *BookingService) Cancel(ctx context.Context, actor models.Actor, bookingID, reason string) (models.Booking, error) {
	patch := map[string]any{
		"status": string(models.StatusCancelled),
	}
	if reason != "" {
		patch["adminNotes"] = reason
	}
	return s.transition(ctx, actor, bookingID, events.EventBookingCancelled, patch, reason)
}

// GetBooking loads one booking. Store errors propagate.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (models.Booking, error) {
	rec, err := s.store.GetOne(ctx, models.CollectionBookings, bookingID, store.ListOptions{Expand: "assignedStaff"})
	if err != nil {
		return models.Booking{}, err
	}
	return models.BookingFromRaw(rec), nil
}

// FetchUserBookings returns a customer's bookings, newest first. On a
// store error the list degrades to empty.
func (s *BookingService) FetchUserBookings(ctx context.Context, userID string) []models.Booking {
	recs, err := s.store.ListAll(ctx, models.CollectionBookings, store.ListOptions{
		Filter: fmt.Sprintf("user = %q", userID),
		Sort:   "-created",
		Expand: "assignedStaff",
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionBookings)
		s.logger.Error().Err(err).Str("user_id", userID).Msg("fetch user bookings error")
		return []models.Booking{}
	}
	return decodeBookings(recs)
}

// FetchAllBookings returns every booking, newest first. Degrades to
// empty on store error.
func (s *BookingService) FetchAllBookings(ctx context.Context) []models.Booking {
	recs, err := s.store.ListAll(ctx, models.CollectionBookings, store.ListOptions{
		Sort:   "-created",
		Expand: "assignedStaff",
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionBookings)
		s.logger.Error().Err(err).Msg("fetch all bookings error")
		return []models.Booking{}
	}
	return decodeBookings(recs)
}

// transition rejects anonymous actors, then applies the patch.
func (s *BookingService) transition(ctx context.Context, actor models.Actor, bookingID, eventType string, patch map[string]any, note string) (models.Booking, error) {
	if actor.IsZero() {
		return models.Booking{}, ErrNotAuthenticated
	}
	return s.applyTransition(ctx, actor, bookingID, eventType, patch, note)
}

func (s *BookingService) applyTransition(ctx context.Context, actor models.Actor, bookingID, eventType string, patch map[string]any, note string) (models.Booking, error) {
	rec, err := s.store.Update(ctx, models.CollectionBookings, bookingID, patch)
	if err != nil {
		metrics.IncStoreError(models.CollectionBookings)
		return models.Booking{}, err
	}

	booking := models.BookingFromRaw(rec)
	metrics.IncTransition(string(booking.Status))
	s.publishEvent(eventType, booking, actor, note)

	taskType := "update_status"
	if eventType == events.EventBookingModified {
		taskType = "upsert"
	}
	s.enqueueSync(ctx, booking, taskType)

	return booking, nil
}

func (s *BookingService) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *BookingService) publishEvent(eventType string, booking models.Booking, actor models.Actor, note string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:     booking.ID,
		UserID:        booking.User,
		CustomerName:  booking.CustomerName,
		ServiceType:   booking.ServiceType,
		Status:        string(booking.Status),
		ScheduledDate: booking.ScheduledDate,
		TimeSlot:      booking.TimeSlot,
		Total:         booking.Total,
		CurrentStage:  booking.CurrentStage,
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		Note:          note,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueSync(ctx context.Context, booking models.Booking, taskType string) {
	if s.syncWorker == nil {
		return
	}

	var status string
	if taskType == "update_status" {
		status = string(booking.Status)
	}

	if err := s.syncWorker.EnqueueTask(ctx, taskType, booking.ID, &booking, status); err != nil {
		s.logger.Error().Err(err).Str("booking_id", booking.ID).Str("task", taskType).Msg("sync enqueue error")
	}
}

func decodeBookings(recs []models.Raw) []models.Booking {
	out := make([]models.Booking, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.BookingFromRaw(r))
	}
	return out
}

package service

import (
	"context"
	"fmt"

	"noblejade/internal/domain"
	"noblejade/internal/events"
	"noblejade/internal/metrics"
	"noblejade/internal/models"
	"noblejade/internal/store"

	"github.com/rs/zerolog"
)

// ProgressService records execution checkpoints while staff work a job.
type ProgressService struct {
	store    store.RecordStore
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewProgressService(st store.RecordStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *ProgressService {
	return &ProgressService{store: st, eventBus: eventBus, logger: logger}
}

// AddProgress creates a checkpoint entry and then advances the
// booking's stage counter with a second, independent write. The two
// writes are not transactional: if the counter update fails, the entry
// still exists and the booking shows a stale stage until the next
// checkpoint lands.
func (s *ProgressService) AddProgress(ctx context.Context, staff models.Actor, entry models.JobProgress) (models.JobProgress, error) {
	if staff.IsZero() {
		return models.JobProgress{}, ErrNotAuthenticated
	}
	entry.Staff = staff.ID

	rec, err := s.store.Create(ctx, models.CollectionJobProgress, entry.ToRecord())
	if err != nil {
		metrics.IncStoreError(models.CollectionJobProgress)
		return models.JobProgress{}, err
	}
	created := models.JobProgressFromRaw(rec)

	_, err = s.store.Update(ctx, models.CollectionBookings, entry.Booking, map[string]any{
		"currentStage": entry.StageNumber,
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionBookings)
		s.logger.Error().Err(err).
			Str("booking_id", entry.Booking).
			Int("stage", entry.StageNumber).
			Msg("stage counter update failed after progress entry")
		return created, err
	}

	if s.eventBus != nil {
		payload := events.BookingEventPayload{
			BookingID:    entry.Booking,
			CurrentStage: entry.StageNumber,
			ActorID:      staff.ID,
			ActorRole:    staff.Role,
			Note:         entry.Title,
		}
		if err := s.eventBus.PublishJSON(events.EventProgressAdded, payload); err != nil {
			s.logger.Error().Err(err).Str("booking_id", entry.Booking).Msg("publish event error")
		}
	}

	return created, nil
}

// GetProgress returns a booking's checkpoints, oldest first. Degrades
// to an empty list on store error.
func (s *ProgressService) GetProgress(ctx context.Context, bookingID string) []models.JobProgress {
	recs, err := s.store.ListAll(ctx, models.CollectionJobProgress, store.ListOptions{
		Filter: fmt.Sprintf("booking = %q", bookingID),
		Sort:   "created",
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionJobProgress)
		s.logger.Error().Err(err).Str("booking_id", bookingID).Msg("fetch progress error")
		return []models.JobProgress{}
	}

	out := make([]models.JobProgress, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.JobProgressFromRaw(r))
	}
	return out
}

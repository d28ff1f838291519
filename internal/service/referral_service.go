package service

import (
	"context"
	"fmt"
	"strings"

	"noblejade/internal/metrics"
	"noblejade/internal/models"
	"noblejade/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ReferralInvite is the payload for inviting a friend.
type ReferralInvite struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

// ReferralSummary is the customer's referral page: share code, invite
// list newest first, and rewards earned so far.
type ReferralSummary struct {
	ReferralCode  string            `json:"referralCode"`
	Referrals     []models.Referral `json:"referrals"`
	TotalEarnings float64           `json:"totalEarnings"`
	PendingCount  int               `json:"pendingCount"`
}

// ReferralService manages friend invites and their rewards.
type ReferralService struct {
	store    store.RecordStore
	validate *validator.Validate
	logger   *zerolog.Logger
}

func NewReferralService(st store.RecordStore, logger *zerolog.Logger) *ReferralService {
	return &ReferralService{
		store:    st,
		validate: validator.New(),
		logger:   logger,
	}
}

// ReferralCode derives the share code from the user id: a fixed prefix
// plus the first six id characters, uppercased. Stable per user, never
// stored.
func ReferralCode(userID string) string {
	suffix := userID
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return "JADE" + strings.ToUpper(suffix)
}

// SendInvite records a pending referral with the standard reward
// attached. The reward is paid out only when the invite reaches the
// rewarded status.
func (s *ReferralService) SendInvite(ctx context.Context, actor models.Actor, invite ReferralInvite) (models.Referral, error) {
	if actor.IsZero() {
		return models.Referral{}, ErrNotAuthenticated
	}
	if err := s.validate.Struct(invite); err != nil {
		return models.Referral{}, err
	}

	ref := models.Referral{
		Referrer:      actor.ID,
		ReferredEmail: invite.Email,
		ReferredName:  invite.Name,
		Status:        models.ReferralPending,
		Reward:        models.DefaultReferralReward,
	}
	rec, err := s.store.Create(ctx, models.CollectionReferrals, ref.ToRecord())
	if err != nil {
		metrics.IncStoreError(models.CollectionReferrals)
		return models.Referral{}, err
	}

	s.logger.Info().Str("referrer", actor.ID).Str("email", invite.Email).Msg("referral invite sent")
	return models.ReferralFromRaw(rec), nil
}

// Summary lists the actor's referrals newest first. Earnings count only
// rewarded invites.
func (s *ReferralService) Summary(ctx context.Context, actor models.Actor) (ReferralSummary, error) {
	if actor.IsZero() {
		return ReferralSummary{}, ErrNotAuthenticated
	}

	recs, err := s.store.ListAll(ctx, models.CollectionReferrals, store.ListOptions{
		Filter: fmt.Sprintf("referrer = %q", actor.ID),
		Sort:   "-created",
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionReferrals)
		return ReferralSummary{}, err
	}

	summary := ReferralSummary{
		ReferralCode: ReferralCode(actor.ID),
		Referrals:    make([]models.Referral, 0, len(recs)),
	}
	for _, r := range recs {
		ref := models.ReferralFromRaw(r)
		summary.Referrals = append(summary.Referrals, ref)
		switch ref.Status {
		case models.ReferralRewarded:
			summary.TotalEarnings += ref.Reward
		case models.ReferralPending:
			summary.PendingCount++
		}
	}
	return summary, nil
}

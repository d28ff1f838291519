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

func TestReferralCode(t *testing.T) {
	assert.Equal(t, "JADEAB12CD", ReferralCode("ab12cd9xk3msw01"))
	assert.Equal(t, "JADEU1", ReferralCode("u1"))
}

func TestReferralService(t *testing.T) {
	mem := store.NewMemory()
	logger := zerolog.New(io.Discard)
	svc := NewReferralService(mem, &logger)
	ctx := context.Background()

	customer := models.Actor{ID: "user_1", Name: "Dana Riel", Role: models.RoleCustomer}

	t.Run("SendInvite", func(t *testing.T) {
		ref, err := svc.SendInvite(ctx, customer, ReferralInvite{
			Email: "friend@example.com",
			Name:  "Lee Moran",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, ref.ID)
		assert.Equal(t, "user_1", ref.Referrer)
		assert.Equal(t, "friend@example.com", ref.ReferredEmail)
		assert.Equal(t, models.ReferralPending, ref.Status)
		assert.Equal(t, models.DefaultReferralReward, ref.Reward)
	})

	t.Run("SendInviteAnonymous", func(t *testing.T) {
		_, err := svc.SendInvite(ctx, models.Actor{}, ReferralInvite{Email: "a@b.com", Name: "A"})
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("SendInviteInvalidEmail", func(t *testing.T) {
		_, err := svc.SendInvite(ctx, customer, ReferralInvite{Email: "not-an-email", Name: "A"})
		assert.Error(t, err)
	})

	t.Run("Summary", func(t *testing.T) {
		seed := func(status string, reward float64) {
			_, err := mem.Create(ctx, models.CollectionReferrals, map[string]any{
				"referrer":      "user_1",
				"referredEmail": "x@example.com",
				"status":        status,
				"reward":        reward,
			})
			require.NoError(t, err)
		}
		seed(models.ReferralRewarded, 25)
		seed(models.ReferralRewarded, 25)
		seed(models.ReferralRegistered, 25)

		// another customer's invite stays out of the summary
		_, err := mem.Create(ctx, models.CollectionReferrals, map[string]any{
			"referrer": "user_2",
			"status":   models.ReferralRewarded,
			"reward":   25,
		})
		require.NoError(t, err)

		summary, err := svc.Summary(ctx, customer)
		require.NoError(t, err)

		assert.Equal(t, "JADEUSER_1", summary.ReferralCode)
		assert.Len(t, summary.Referrals, 4)
		assert.Equal(t, 50.0, summary.TotalEarnings)
		assert.Equal(t, 1, summary.PendingCount)
	})

	t.Run("SummaryAnonymous", func(t *testing.T) {
		_, err := svc.Summary(ctx, models.Actor{})
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("SummaryStoreDown", func(t *testing.T) {
		down := NewReferralService(brokenStore{}, &logger)
		_, err := down.Summary(ctx, customer)
		assert.Error(t, err)
	})
}

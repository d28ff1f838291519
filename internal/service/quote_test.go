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

func seedCalculator(t *testing.T, mem *store.Memory) {
	t.Helper()
	ctx := context.Background()
	rates := map[string]float64{
		"base_deep_cleaning":   120,
		"base_standard":        80,
		"rate_per_sqft":        0.05,
		"rate_per_bedroom":     15,
		"rate_per_bathroom":    20,
		"rate_per_extra_floor": 25,
		"rate_basement":        30,
		"rate_garage":          20,
		"addon_windows":        35,
		"addon_carpet":         45,
		"discount_weekly":      15,
		"discount_biweekly":    10,
	}
	for key, value := range rates {
		_, err := mem.Create(ctx, models.CollectionCalculatorSettings, map[string]any{
			"key":   key,
			"value": value,
		})
		require.NoError(t, err)
	}
}

func TestQuoteCalculator(t *testing.T) {
	mem := store.NewMemory()
	seedCalculator(t, mem)
	logger := zerolog.New(io.Discard)
	calc := NewQuoteCalculator(mem, &logger)
	ctx := context.Background()

	t.Run("FullHouse", func(t *testing.T) {
		quote, err := calc.Calculate(ctx, models.QuoteRequest{
			ServiceType:   "deep-cleaning",
			Frequency:     "weekly",
			SquareFootage: 1800,
			Bedrooms:      3,
			Bathrooms:     2,
			Floors:        2,
			HasBasement:   true,
			HasGarage:     true,
			Addons:        []string{"windows", "carpet"},
		})
		require.NoError(t, err)

		// 120 + 90 + 45 + 40 + 25 + 30 + 20 + 35 + 45 = 450
		assert.Equal(t, 450.0, quote.Subtotal)
		// 15% weekly discount
		assert.Equal(t, 67.5, quote.Discount)
		assert.Equal(t, 382.5, quote.Total)
		assert.NotEmpty(t, quote.ID)
	})

	t.Run("SingleFloorNoExtras", func(t *testing.T) {
		quote, err := calc.Calculate(ctx, models.QuoteRequest{
			ServiceType:   "standard",
			Frequency:     "one-time",
			SquareFootage: 600,
			Bedrooms:      1,
			Bathrooms:     1,
			Floors:        1,
		})
		require.NoError(t, err)

		// 80 + 30 + 15 + 20, no floor surcharge, no discount key
		assert.Equal(t, 145.0, quote.Subtotal)
		assert.Equal(t, 0.0, quote.Discount)
		assert.Equal(t, 145.0, quote.Total)
	})

	t.Run("RoundsToCents", func(t *testing.T) {
		quote, err := calc.Calculate(ctx, models.QuoteRequest{
			ServiceType:   "standard",
			Frequency:     "biweekly",
			SquareFootage: 625, // 31.25 in sqft charges
		})
		require.NoError(t, err)

		assert.Equal(t, 111.25, quote.Subtotal)
		// 10% of 111.25 = 11.125, rounds to 11.13
		assert.Equal(t, 11.13, quote.Discount)
		assert.Equal(t, 100.12, quote.Total)
	})

	t.Run("UnknownKeysContributeZero", func(t *testing.T) {
		quote, err := calc.Calculate(ctx, models.QuoteRequest{
			ServiceType: "move-out",
			Frequency:   "monthly",
			Addons:      []string{"nonexistent"},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, quote.Total)
	})

	t.Run("StoreDownQuotesZero", func(t *testing.T) {
		down := NewQuoteCalculator(brokenStore{}, &logger)
		quote, err := down.Calculate(ctx, models.QuoteRequest{ServiceType: "standard"})
		require.NoError(t, err)
		assert.Equal(t, 0.0, quote.Total)
	})
}

package service

import (
	"context"
	"strings"

	"noblejade/internal/metrics"
	"noblejade/internal/models"
	"noblejade/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// QuoteCalculator prices a cleaning request from the calculator
// settings collection. Every figure is computed in decimal and rounded
// to cents so repeated quotes for the same input are bit-identical.
//
// Setting keys by category:
//   - base_prices: base_<serviceType>, dashes folded to underscores
//   - space_rates: rate_per_sqft, rate_per_bedroom, rate_per_bathroom,
//     rate_per_extra_floor, rate_basement, rate_garage
//   - addons:      addon_<addon key>
//   - discounts:   discount_<frequency>, a percentage
type QuoteCalculator struct {
	store  store.RecordStore
	logger *zerolog.Logger
}

func NewQuoteCalculator(st store.RecordStore, logger *zerolog.Logger) *QuoteCalculator {
	return &QuoteCalculator{store: st, logger: logger}
}

// Calculate prices the request. Missing settings contribute zero, so a
// partially seeded calculator still quotes instead of failing.
func (c *QuoteCalculator) Calculate(ctx context.Context, req models.QuoteRequest) (models.Quote, error) {
	rates := c.settingsMap(ctx)

	subtotal := rates.get("base_" + settingKey(req.ServiceType))
	subtotal = subtotal.Add(rates.get("rate_per_sqft").Mul(decimal.NewFromInt(int64(req.SquareFootage))))
	subtotal = subtotal.Add(rates.get("rate_per_bedroom").Mul(decimal.NewFromInt(int64(req.Bedrooms))))
	subtotal = subtotal.Add(rates.get("rate_per_bathroom").Mul(decimal.NewFromInt(int64(req.Bathrooms))))
	if req.Floors > 1 {
		subtotal = subtotal.Add(rates.get("rate_per_extra_floor").Mul(decimal.NewFromInt(int64(req.Floors - 1))))
	}
	if req.HasBasement {
		subtotal = subtotal.Add(rates.get("rate_basement"))
	}
	if req.HasGarage {
		subtotal = subtotal.Add(rates.get("rate_garage"))
	}
	for _, addon := range req.Addons {
		subtotal = subtotal.Add(rates.get("addon_" + settingKey(addon)))
	}
	subtotal = subtotal.Round(2)

	percent := rates.get("discount_" + settingKey(req.Frequency))
	discount := subtotal.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Sub(discount)

	return models.Quote{
		ID:       uuid.NewString(),
		Request:  req,
		Subtotal: subtotal.InexactFloat64(),
		Discount: discount.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}, nil
}

type rateMap map[string]decimal.Decimal

func (m rateMap) get(key string) decimal.Decimal {
	if v, ok := m[key]; ok {
		return v
	}
	return decimal.Zero
}

// settingsMap loads key->value pairs; a store error degrades to an
// empty map and a zero quote rather than a failed request.
func (c *QuoteCalculator) settingsMap(ctx context.Context) rateMap {
	recs, err := c.store.ListAll(ctx, models.CollectionCalculatorSettings, store.ListOptions{
		Fields: "key,value",
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionCalculatorSettings)
		c.logger.Error().Err(err).Msg("fetch calculator settings error")
		return rateMap{}
	}

	rates := make(rateMap, len(recs))
	for _, r := range recs {
		rates[r.GetString("key")] = decimal.NewFromFloat(r.GetFloat("value"))
	}
	return rates
}

func settingKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "-", "_")
}

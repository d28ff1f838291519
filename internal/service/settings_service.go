package service

import (
	"context"
	"fmt"
	"time"

	"noblejade/internal/metrics"
	"noblejade/internal/models"
	"noblejade/internal/repository"
	"noblejade/internal/store"

	"github.com/rs/zerolog"
)

// SettingsService serves site settings through an explicit cache in
// front of the record store. Lookups fill the cache on miss; updates
// write through to the store and refresh the cached value.
type SettingsService struct {
	store  store.RecordStore
	cache  repository.KVCache
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewSettingsService(st store.RecordStore, cache repository.KVCache, logger *zerolog.Logger) *SettingsService {
	return &SettingsService{
		store:  st,
		cache:  cache,
		ttl:    models.SettingsCacheTTL * time.Second,
		logger: logger,
	}
}

// Load pre-warms the cache with every setting.
func (s *SettingsService) Load(ctx context.Context) error {
	recs, err := s.store.ListAll(ctx, models.CollectionSettings, store.ListOptions{})
	if err != nil {
		metrics.IncStoreError(models.CollectionSettings)
		return err
	}
	for _, r := range recs {
		setting := models.SettingFromRaw(r)
		if err := s.cache.Set(ctx, setting.Key, settingValueString(setting.Value), s.ttl); err != nil {
			s.logger.Error().Err(err).Str("key", setting.Key).Msg("settings cache set error")
		}
	}
	return nil
}

// Get returns one setting value, or def when the setting is absent or
// the store is unreachable.
func (s *SettingsService) Get(ctx context.Context, key, def string) string {
	if val, err := s.cache.Get(ctx, key); err == nil {
		return val
	}

	rec, err := s.store.GetFirst(ctx, models.CollectionSettings, fmt.Sprintf("key = %q", key), store.ListOptions{})
	if err != nil {
		metrics.IncStoreError(models.CollectionSettings)
		s.logger.Error().Err(err).Str("key", key).Msg("settings lookup error")
		return def
	}

	val := settingValueString(models.SettingFromRaw(rec).Value)
	if err := s.cache.Set(ctx, key, val, s.ttl); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("settings cache set error")
	}
	return val
}

// GetMany resolves several keys at once; absent keys map to defaults.
func (s *SettingsService) GetMany(ctx context.Context, defaults map[string]string) map[string]string {
	out := make(map[string]string, len(defaults))
	for key, def := range defaults {
		out[key] = s.Get(ctx, key, def)
	}
	return out
}

// UpdateSetting writes a new value to the store and refreshes the
// cache. The setting record must already exist.
func (s *SettingsService) UpdateSetting(ctx context.Context, key string, value any) error {
	rec, err := s.store.GetFirst(ctx, models.CollectionSettings, fmt.Sprintf("key = %q", key), store.ListOptions{})
	if err != nil {
		return err
	}

	_, err = s.store.Update(ctx, models.CollectionSettings, rec.GetString("id"), map[string]any{
		"value": value,
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionSettings)
		return err
	}

	if err := s.cache.Set(ctx, key, settingValueString(value), s.ttl); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("settings cache set error")
	}
	return nil
}

// Invalidate drops one cached key.
func (s *SettingsService) Invalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("settings cache delete error")
	}
}

// InvalidateAll flushes the whole cache.
func (s *SettingsService) InvalidateAll(ctx context.Context) {
	if err := s.cache.DeleteAll(ctx); err != nil {
		s.logger.Error().Err(err).Msg("settings cache flush error")
	}
}

// CompanyInfo assembles the contact block from settings, falling back
// to the built-in company defaults.
func (s *SettingsService) CompanyInfo(ctx context.Context) models.CompanyInfo {
	vals := s.GetMany(ctx, map[string]string{
		"company_name":       "Noble Jade Janitorial Services",
		"company_short_name": "NJJS",
		"company_tagline":    "Spotless spaces, every visit",
		"company_email":      "hello@noblejade.ca",
		"company_phone":      "306-555-0101",
		"company_toll_free":  "1-800-555-0199",
		"company_website":    "https://noblejade.ca",
		"social_facebook":    "",
		"social_instagram":   "",
		"social_twitter":     "",
		"social_linkedin":    "",
		"hours_weekdays":     "8:00 AM - 6:00 PM",
		"hours_saturday":     "9:00 AM - 4:00 PM",
		"hours_sunday":       "Closed",
	})

	return models.CompanyInfo{
		Name:            vals["company_name"],
		ShortName:       vals["company_short_name"],
		Tagline:         vals["company_tagline"],
		Email:           vals["company_email"],
		Phone:           vals["company_phone"],
		TollFree:        vals["company_toll_free"],
		Website:         vals["company_website"],
		SocialFacebook:  vals["social_facebook"],
		SocialInstagram: vals["social_instagram"],
		SocialTwitter:   vals["social_twitter"],
		SocialLinkedIn:  vals["social_linkedin"],
		HoursWeekdays:   vals["hours_weekdays"],
		HoursSaturday:   vals["hours_saturday"],
		HoursSunday:     vals["hours_sunday"],
	}
}

func settingValueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// Whole numbers render without the trailing .0
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}

package service

import (
	"context"
	"fmt"

	"noblejade/internal/metrics"
	"noblejade/internal/models"
	"noblejade/internal/store"

	"github.com/rs/zerolog"
)

// ContentService serves storefront content: services, addons, FAQs,
// testimonials, locations. Everything is read-only and degrades to
// empty lists when the store is unreachable.
type ContentService struct {
	store  store.RecordStore
	logger *zerolog.Logger
}

func NewContentService(st store.RecordStore, logger *zerolog.Logger) *ContentService {
	return &ContentService{store: st, logger: logger}
}

func (s *ContentService) listAll(ctx context.Context, collection, filter, sortExpr string) []models.Raw {
	recs, err := s.store.ListAll(ctx, collection, store.ListOptions{
		Filter: filter,
		Sort:   sortExpr,
	})
	if err != nil {
		metrics.IncStoreError(collection)
		s.logger.Error().Err(err).Str("collection", collection).Msg("fetch content error")
		return nil
	}
	return recs
}

// GetServices lists active services for the storefront.
func (s *ContentService) GetServices(ctx context.Context) []models.Service {
	recs := s.listAll(ctx, models.CollectionServices, "isActive = true", "sortOrder")
	out := make([]models.Service, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.ServiceFromRaw(r))
	}
	return out
}

// GetPopularServices lists the services highlighted on the home page.
func (s *ContentService) GetPopularServices(ctx context.Context) []models.Service {
	recs := s.listAll(ctx, models.CollectionServices, "isActive = true && isPopular = true", "sortOrder")
	out := make([]models.Service, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.ServiceFromRaw(r))
	}
	return out
}

// GetServiceBySlug resolves one service page. Returns ErrNotFound when
// the slug is unknown.
func (s *ContentService) GetServiceBySlug(ctx context.Context, slug string) (models.Service, error) {
	rec, err := s.store.GetFirst(ctx, models.CollectionServices, fmt.Sprintf("slug = %q", slug), store.ListOptions{})
	if err != nil {
		return models.Service{}, err
	}
	return models.ServiceFromRaw(rec), nil
}

// GetAddons lists active quote add-ons.
func (s *ContentService) GetAddons(ctx context.Context) []models.Addon {
	recs := s.listAll(ctx, models.CollectionAddons, "isActive = true", "sortOrder")
	out := make([]models.Addon, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.AddonFromRaw(r))
	}
	return out
}

// GetFAQs lists active FAQ entries, optionally for one category.
func (s *ContentService) GetFAQs(ctx context.Context, category string) []models.FAQ {
	filter := "isActive = true"
	if category != "" {
		filter += fmt.Sprintf(" && category = %q", category)
	}
	recs := s.listAll(ctx, models.CollectionFAQs, filter, "sortOrder")
	out := make([]models.FAQ, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.FAQFromRaw(r))
	}
	return out
}

// GetTestimonials lists customer testimonials; featuredOnly narrows to
// the home page carousel.
func (s *ContentService) GetTestimonials(ctx context.Context, featuredOnly bool) []models.Testimonial {
	filter := "isActive = true"
	if featuredOnly {
		filter += " && isFeatured = true"
	}
	recs := s.listAll(ctx, models.CollectionTestimonials, filter, "sortOrder")
	out := make([]models.Testimonial, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.TestimonialFromRaw(r))
	}
	return out
}

// GetLocations lists active service area offices.
func (s *ContentService) GetLocations(ctx context.Context) []models.Location {
	recs := s.listAll(ctx, models.CollectionLocations, "isActive = true", "sortOrder")
	out := make([]models.Location, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.LocationFromRaw(r))
	}
	return out
}

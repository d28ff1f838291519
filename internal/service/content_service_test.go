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

func TestContentService(t *testing.T) {
	mem := store.NewMemory()
	logger := zerolog.New(io.Discard)
	svc := NewContentService(mem, &logger)
	ctx := context.Background()

	seed := func(collection string, data map[string]any) {
		t.Helper()
		_, err := mem.Create(ctx, collection, data)
		require.NoError(t, err)
	}

	seed(models.CollectionServices, map[string]any{
		"name": "Deep Cleaning", "slug": "deep-cleaning", "basePrice": 120.0,
		"isActive": true, "isPopular": true, "sortOrder": 2,
	})
	seed(models.CollectionServices, map[string]any{
		"name": "Standard Cleaning", "slug": "standard", "basePrice": 80.0,
		"isActive": true, "isPopular": false, "sortOrder": 1,
	})
	seed(models.CollectionServices, map[string]any{
		"name": "Retired Service", "slug": "retired", "isActive": false,
	})
	seed(models.CollectionAddons, map[string]any{
		"key": "windows", "name": "Window Cleaning", "price": 35.0,
		"isActive": true, "sortOrder": 1,
	})
	seed(models.CollectionFAQs, map[string]any{
		"question": "Do you bring supplies?", "answer": "Yes.",
		"category": "general", "isActive": true, "sortOrder": 1,
	})
	seed(models.CollectionFAQs, map[string]any{
		"question": "How is pricing set?", "answer": "By the calculator.",
		"category": "pricing", "isActive": true, "sortOrder": 2,
	})
	seed(models.CollectionTestimonials, map[string]any{
		"author": "Dana", "quote": "Spotless.", "rating": 5.0,
		"isActive": true, "isFeatured": true, "sortOrder": 1,
	})
	seed(models.CollectionTestimonials, map[string]any{
		"author": "Mark", "quote": "Great value.", "rating": 4.0,
		"isActive": true, "isFeatured": false, "sortOrder": 2,
	})
	seed(models.CollectionLocations, map[string]any{
		"name": "Saskatoon HQ", "city": "Saskatoon", "isActive": true, "isPrimary": true,
	})

	t.Run("GetServices", func(t *testing.T) {
		services := svc.GetServices(ctx)
		require.Len(t, services, 2)
		// Inactive filtered out, sorted by sortOrder.
		assert.Equal(t, "Standard Cleaning", services[0].Name)
		assert.Equal(t, "Deep Cleaning", services[1].Name)
	})

	t.Run("GetPopularServices", func(t *testing.T) {
		popular := svc.GetPopularServices(ctx)
		require.Len(t, popular, 1)
		assert.Equal(t, "deep-cleaning", popular[0].Slug)
	})

	t.Run("GetServiceBySlug", func(t *testing.T) {
		service, err := svc.GetServiceBySlug(ctx, "standard")
		require.NoError(t, err)
		assert.Equal(t, 80.0, service.BasePrice)

		_, err = svc.GetServiceBySlug(ctx, "nope")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("GetAddons", func(t *testing.T) {
		addons := svc.GetAddons(ctx)
		require.Len(t, addons, 1)
		assert.Equal(t, "windows", addons[0].Key)
	})

	t.Run("GetFAQs", func(t *testing.T) {
		assert.Len(t, svc.GetFAQs(ctx, ""), 2)

		pricing := svc.GetFAQs(ctx, "pricing")
		require.Len(t, pricing, 1)
		assert.Equal(t, "How is pricing set?", pricing[0].Question)
	})

	t.Run("GetTestimonials", func(t *testing.T) {
		assert.Len(t, svc.GetTestimonials(ctx, false), 2)

		featured := svc.GetTestimonials(ctx, true)
		require.Len(t, featured, 1)
		assert.Equal(t, "Dana", featured[0].Author)
	})

	t.Run("GetLocations", func(t *testing.T) {
		locations := svc.GetLocations(ctx)
		require.Len(t, locations, 1)
		assert.True(t, locations[0].IsPrimary)
	})

	t.Run("StoreDownDegrades", func(t *testing.T) {
		down := NewContentService(brokenStore{}, &logger)
		assert.Empty(t, down.GetServices(ctx))
		assert.Empty(t, down.GetAddons(ctx))
		assert.Empty(t, down.GetFAQs(ctx, ""))
		assert.Empty(t, down.GetTestimonials(ctx, false))
		assert.Empty(t, down.GetLocations(ctx))

		_, err := down.GetServiceBySlug(ctx, "standard")
		assert.Error(t, err)
	})
}

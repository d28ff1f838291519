package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := zerolog.New(io.Discard)
	return NewClient(srv.URL, 5*time.Second, &logger)
}

func TestClientList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/collections/bookings/records", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, `user = "u1"`, q.Get("filter"))
		assert.Equal(t, "-created", q.Get("sort"))
		assert.Equal(t, "2", q.Get("page"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"page": 2, "perPage": 20, "totalItems": 41, "totalPages": 3,
			"items": []map[string]any{{"id": "bk1", "total": 180.0}},
		})
	})

	res, err := c.List(context.Background(), "bookings", 2, 20, ListOptions{
		Filter: `user = "u1"`,
		Sort:   "-created",
	})
	require.NoError(t, err)
	assert.Equal(t, 41, res.TotalItems)
	assert.Equal(t, 3, res.TotalPages)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 180.0, res.Items[0].GetFloat("total"))
}

func TestClientListAllPages(t *testing.T) {
	page := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		page++
		items := []map[string]any{{"id": "a"}}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"page": page, "perPage": listAllBatchSize, "totalItems": 2, "totalPages": 2,
			"items": items,
		})
	})

	items, err := c.ListAll(context.Background(), "bookings", ListOptions{})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, page)
}

func TestClientCreateAndAuth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "token123", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pending_review", body["status"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "bk1", "status": "pending_review"})
	})
	c.SetToken("token123")

	rec, err := c.Create(context.Background(), "bookings", map[string]any{"status": "pending_review"})
	require.NoError(t, err)
	assert.Equal(t, "bk1", rec.GetString("id"))
}

func TestClientNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 404, "message": "The requested resource wasn't found."})
	})

	_, err := c.GetOne(context.Background(), "bookings", "missing", ListOptions{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientValidationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code":    400,
			"message": "Failed to create record.",
			"data": map[string]any{
				"scheduledDate": map[string]any{"code": "validation_required", "message": "Cannot be blank."},
				"address":       map[string]any{"code": "validation_required", "message": "Cannot be blank."},
			},
		})
	})

	_, err := c.Create(context.Background(), "bookings", map[string]any{})
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "address: Cannot be blank.")
	assert.Contains(t, verr.Error(), "scheduledDate: Cannot be blank.")
}

func TestClientStoreErrorSurfaced(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 403, "message": "Only admins can perform this action."})
	})

	_, err := c.Update(context.Background(), "bookings", "bk1", map[string]any{"status": "approved"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Only admins can perform this action.")
}

// Package store defines the generic record-store boundary: collection
// CRUD with store-native filter strings and change-notification
// subscriptions. The hosted backend is reached through Client; Memory
// provides the same contract in-process for tests.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"noblejade/internal/models"
)

// Event actions delivered to subscribers.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ErrNotFound is returned by GetOne/GetFirst/Update/Delete when no
// record matches.
var ErrNotFound = errors.New("record not found")

// ListOptions narrows a list or get call. Filter is a store-native
// expression; callers interpolate values themselves and must
// pre-sanitize untrusted input.
type ListOptions struct {
	Filter string
	Sort   string
	Expand string
	Fields string
}

// ListResult is one page of records.
type ListResult struct {
	Page       int          `json:"page"`
	PerPage    int          `json:"perPage"`
	TotalItems int          `json:"totalItems"`
	TotalPages int          `json:"totalPages"`
	Items      []models.Raw `json:"items"`
}

// Event is one change notification.
type Event struct {
	Action string     `json:"action"`
	Record models.Raw `json:"record"`
}

// EventHandler reacts to a change notification.
type EventHandler func(Event)

// Subscription is a live change feed; Unsubscribe stops delivery.
type Subscription interface {
	Unsubscribe()
}

// RecordStore is the only boundary the services talk through.
type RecordStore interface {
	List(ctx context.Context, collection string, page, perPage int, opts ListOptions) (ListResult, error)
	ListAll(ctx context.Context, collection string, opts ListOptions) ([]models.Raw, error)
	GetOne(ctx context.Context, collection, id string, opts ListOptions) (models.Raw, error)
	GetFirst(ctx context.Context, collection, filter string, opts ListOptions) (models.Raw, error)
	Create(ctx context.Context, collection string, data map[string]any) (models.Raw, error)
	Update(ctx context.Context, collection, id string, data map[string]any) (models.Raw, error)
	Delete(ctx context.Context, collection, id string) error
	Subscribe(ctx context.Context, collection, target string, fn EventHandler) (Subscription, error)
}

// ValidationError carries field-level messages from store-side schema
// rejection, joined into a single message string.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	if e.Message != "" {
		return e.Message + " (" + strings.Join(parts, "; ") + ")"
	}
	return strings.Join(parts, "; ")
}

// Package realtime reconciles change notifications into client-visible
// lists. The merge itself is a pure reduction so it can be tested
// without any network dependency.
package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"noblejade/internal/models"
	"noblejade/internal/store"
)

// Identifiable lets the reducer match records by identity.
type Identifiable interface {
	Identity() string
}

// Apply merges one change event into a list: create prepends, update
// replaces the matching item in place, delete removes it. Anything
// else returns the list unchanged. Create events are not re-checked
// against the query filter that produced the initial list, so a
// filtered list can accumulate non-matching items; callers relying on
// strict scoping must filter in the decode step.
func Apply[T Identifiable](list []T, action string, item T) []T {
	switch action {
	case store.ActionCreate:
		out := make([]T, 0, len(list)+1)
		out = append(out, item)
		return append(out, list...)
	case store.ActionUpdate:
		out := make([]T, len(list))
		copy(out, list)
		for i := range out {
			if out[i].Identity() == item.Identity() {
				out[i] = item
				break
			}
		}
		return out
	case store.ActionDelete:
		out := make([]T, 0, len(list))
		for _, existing := range list {
			if existing.Identity() != item.Identity() {
				out = append(out, existing)
			}
		}
		return out
	default:
		return list
	}
}

// ListMirror keeps an ordered list in sync with a collection. The
// initial fetch and the subscription are separate exchanges, so an
// event landing between them can be missed or duplicated; no
// de-duplication is attempted beyond the Apply merge rule.
type ListMirror[T Identifiable] struct {
	store      store.RecordStore
	collection string
	opts       store.ListOptions
	decode     func(models.Raw) T
	logger     *zerolog.Logger

	mu    sync.RWMutex
	items []T
	sub   store.Subscription
}

func NewListMirror[T Identifiable](
	st store.RecordStore,
	collection string,
	opts store.ListOptions,
	decode func(models.Raw) T,
	logger *zerolog.Logger,
) *ListMirror[T] {
	return &ListMirror[T]{
		store:      st,
		collection: collection,
		opts:       opts,
		decode:     decode,
		logger:     logger,
	}
}

// Start performs the initial fetch and subscribes to changes.
func (m *ListMirror[T]) Start(ctx context.Context) error {
	raws, err := m.store.ListAll(ctx, m.collection, m.opts)
	if err != nil {
		return err
	}

	items := make([]T, 0, len(raws))
	for _, raw := range raws {
		items = append(items, m.decode(raw))
	}

	m.mu.Lock()
	m.items = items
	m.mu.Unlock()

	sub, err := m.store.Subscribe(ctx, m.collection, "*", m.onEvent)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sub = sub
	m.mu.Unlock()
	return nil
}

func (m *ListMirror[T]) onEvent(e store.Event) {
	item := m.decode(e.Record)
	m.mu.Lock()
	m.items = Apply(m.items, e.Action, item)
	m.mu.Unlock()
}

// Snapshot returns a copy of the current list.
func (m *ListMirror[T]) Snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Close stops event delivery. The last snapshot stays readable.
func (m *ListMirror[T]) Close() {
	m.mu.Lock()
	sub := m.sub
	m.sub = nil
	m.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}

// RecordMirror tracks a single record. A delete leaves it at the last
// known value with Live reporting false.
type RecordMirror[T any] struct {
	store      store.RecordStore
	collection string
	id         string
	opts       store.ListOptions
	decode     func(models.Raw) T
	logger     *zerolog.Logger

	mu      sync.RWMutex
	current T
	live    bool
	sub     store.Subscription
}

func NewRecordMirror[T any](
	st store.RecordStore,
	collection, id string,
	opts store.ListOptions,
	decode func(models.Raw) T,
	logger *zerolog.Logger,
) *RecordMirror[T] {
	return &RecordMirror[T]{
		store:      st,
		collection: collection,
		id:         id,
		opts:       opts,
		decode:     decode,
		logger:     logger,
	}
}

func (m *RecordMirror[T]) Start(ctx context.Context) error {
	raw, err := m.store.GetOne(ctx, m.collection, m.id, m.opts)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.current = m.decode(raw)
	m.live = true
	m.mu.Unlock()

	sub, err := m.store.Subscribe(ctx, m.collection, m.id, m.onEvent)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sub = sub
	m.mu.Unlock()
	return nil
}

func (m *RecordMirror[T]) onEvent(e store.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch e.Action {
	case store.ActionUpdate, store.ActionCreate:
		m.current = m.decode(e.Record)
		m.live = true
	case store.ActionDelete:
		m.live = false
	}
}

// Current returns the latest value and whether the record still exists.
func (m *RecordMirror[T]) Current() (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.live
}

func (m *RecordMirror[T]) Close() {
	m.mu.Lock()
	sub := m.sub
	m.sub = nil
	m.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}

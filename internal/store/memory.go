package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"noblejade/internal/models"
)

// UpdateRule vets a patch against the current record before it is
// applied, the way the hosted backend's collection rules do. Returning
// an error rejects the write.
type UpdateRule func(old models.Raw, patch map[string]any) error

// CreateRule vets a record payload before insertion.
type CreateRule func(data map[string]any) error

// Memory is an in-process RecordStore with synchronous subscription
// fan-out. It backs the test suite's store-level fixtures.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]models.Raw
	order       map[string][]string
	updateRules map[string]UpdateRule
	createRules map[string]CreateRule

	subMu   sync.RWMutex
	subs    map[int64]*memorySub
	nextSub int64

	now func() time.Time
}

type memorySub struct {
	id         int64
	store      *Memory
	collection string
	target     string
	fn         EventHandler
}

func (s *memorySub) Unsubscribe() {
	s.store.subMu.Lock()
	delete(s.store.subs, s.id)
	s.store.subMu.Unlock()
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]models.Raw),
		order:       make(map[string][]string),
		updateRules: make(map[string]UpdateRule),
		createRules: make(map[string]CreateRule),
		subs:        make(map[int64]*memorySub),
		now:         time.Now,
	}
}

// SetUpdateRule installs a business rule for a collection's updates.
func (m *Memory) SetUpdateRule(collection string, rule UpdateRule) {
	m.mu.Lock()
	m.updateRules[collection] = rule
	m.mu.Unlock()
}

// SetCreateRule installs a business rule for a collection's creates.
func (m *Memory) SetCreateRule(collection string, rule CreateRule) {
	m.mu.Lock()
	m.createRules[collection] = rule
	m.mu.Unlock()
}

func (m *Memory) List(ctx context.Context, collection string, page, perPage int, opts ListOptions) (ListResult, error) {
	matched, err := m.matching(collection, opts)
	if err != nil {
		return ListResult{}, err
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = models.DefaultPageSize
	}

	total := len(matched)
	totalPages := (total + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return ListResult{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
		Items:      matched[start:end],
	}, nil
}

func (m *Memory) ListAll(ctx context.Context, collection string, opts ListOptions) ([]models.Raw, error) {
	return m.matching(collection, opts)
}

func (m *Memory) matching(collection string, opts ListOptions) ([]models.Raw, error) {
	match, err := ParseFilter(opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Raw
	for _, id := range m.order[collection] {
		rec := m.collections[collection][id]
		if match(rec) {
			out = append(out, cloneRaw(rec))
		}
	}
	applySort(out, opts.Sort)
	return out, nil
}

func (m *Memory) GetOne(ctx context.Context, collection, id string, opts ListOptions) (models.Raw, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return cloneRaw(rec), nil
}

func (m *Memory) GetFirst(ctx context.Context, collection, filter string, opts ListOptions) (models.Raw, error) {
	opts.Filter = filter
	items, err := m.matching(collection, opts)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s (%s): %w", collection, filter, ErrNotFound)
	}
	return items[0], nil
}

func (m *Memory) Create(ctx context.Context, collection string, data map[string]any) (models.Raw, error) {
	m.mu.Lock()
	if rule, ok := m.createRules[collection]; ok {
		if err := rule(data); err != nil {
			m.mu.Unlock()
			return nil, err
		}
	}

	rec := make(models.Raw, len(data)+3)
	for k, v := range data {
		rec[k] = v
	}
	id := newRecordID()
	now := m.now().UTC().Format(time.RFC3339)
	rec["id"] = id
	rec["created"] = now
	rec["updated"] = now

	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]models.Raw)
	}
	m.collections[collection][id] = rec
	m.order[collection] = append(m.order[collection], id)
	m.mu.Unlock()

	m.publish(collection, Event{Action: ActionCreate, Record: cloneRaw(rec)})
	return cloneRaw(rec), nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, data map[string]any) (models.Raw, error) {
	m.mu.Lock()
	rec, ok := m.collections[collection][id]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	if rule, ok := m.updateRules[collection]; ok {
		if err := rule(cloneRaw(rec), data); err != nil {
			m.mu.Unlock()
			return nil, err
		}
	}

	for k, v := range data {
		if v == nil {
			delete(rec, k)
			continue
		}
		rec[k] = v
	}
	rec["updated"] = m.now().UTC().Format(time.RFC3339)
	m.mu.Unlock()

	m.publish(collection, Event{Action: ActionUpdate, Record: cloneRaw(rec)})
	return cloneRaw(rec), nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	rec, ok := m.collections[collection][id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	delete(m.collections[collection], id)
	ids := m.order[collection]
	for i, existing := range ids {
		if existing == id {
			m.order[collection] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	m.publish(collection, Event{Action: ActionDelete, Record: cloneRaw(rec)})
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, collection, target string, fn EventHandler) (Subscription, error) {
	if target == "" {
		target = "*"
	}
	m.subMu.Lock()
	m.nextSub++
	sub := &memorySub{id: m.nextSub, store: m, collection: collection, target: target, fn: fn}
	m.subs[sub.id] = sub
	m.subMu.Unlock()
	return sub, nil
}

// publish fans out synchronously; handler ordering follows
// subscription order.
func (m *Memory) publish(collection string, event Event) {
	m.subMu.RLock()
	var targets []*memorySub
	for _, sub := range m.subs {
		if sub.collection != collection {
			continue
		}
		if sub.target != "*" && sub.target != event.Record.GetString("id") {
			continue
		}
		targets = append(targets, sub)
	}
	m.subMu.RUnlock()

	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })
	for _, sub := range targets {
		sub.fn(event)
	}
}

func cloneRaw(r models.Raw) models.Raw {
	out := make(models.Raw, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// newRecordID mimics the backend's 15 char lowercase record ids.
func newRecordID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:15]
}

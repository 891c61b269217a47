package listing

import (
	"context"
	"strings"
	"sync"
)

// DataSource owns the canonical records of one entity type. Implementations
// live in this package (MemorySource), in repositories (Postgres), in caching
// (a Redis decorator) and in client (the REST API).
type DataSource[T Record] interface {
	// Query returns the page of records matching q, with the page clamped to
	// the last valid page.
	Query(ctx context.Context, q QueryState) (Page[T], error)
	Get(ctx context.Context, id int64) (T, error)
	// Insert stores item under a fresh id and returns the stored record.
	Insert(ctx context.Context, item T) (T, error)
	// Replace shallow-merges partial over the stored record.
	Replace(ctx context.Context, id int64, partial map[string]any) (T, error)
	Remove(ctx context.Context, id int64) error
	// FindByKey looks up a record whose field equals value, ignoring case.
	FindByKey(ctx context.Context, field, value string) (T, bool, error)
}

// MemorySource is an in-memory DataSource. New records go to the front of
// the collection.
type MemorySource[T Record] struct {
	mu     sync.RWMutex
	schema Schema[T]
	items  []T
	nextID int64
}

// NewMemorySource copies seed and starts id assignment after its largest id.
func NewMemorySource[T Record](schema Schema[T], seed []T) *MemorySource[T] {
	items := make([]T, len(seed))
	copy(items, seed)
	var maxID int64
	for _, item := range items {
		if id := item.RecordID(); id > maxID {
			maxID = id
		}
	}
	return &MemorySource[T]{schema: schema, items: items, nextID: maxID + 1}
}

func (m *MemorySource[T]) Query(ctx context.Context, q QueryState) (Page[T], error) {
	if err := ctx.Err(); err != nil {
		return Page[T]{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Derive(m.items, m.schema, q), nil
}

func (m *MemorySource[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexOf(id)
	if i < 0 {
		return zero, &NotFoundError{Kind: m.schema.Label, ID: id}
	}
	return m.items[i], nil
}

func (m *MemorySource[T]) Insert(ctx context.Context, item T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, err := Merge(item, map[string]any{m.schema.IDField: m.nextID})
	if err != nil {
		return zero, err
	}
	m.nextID++
	m.items = append([]T{stored}, m.items...)
	return stored, nil
}

func (m *MemorySource[T]) Replace(ctx context.Context, id int64, partial map[string]any) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return zero, &NotFoundError{Kind: m.schema.Label, ID: id}
	}
	fields := make(map[string]any, len(partial))
	for k, v := range partial {
		if k == m.schema.IDField {
			continue
		}
		fields[k] = v
	}
	merged, err := Merge(m.items[i], fields)
	if err != nil {
		return zero, err
	}
	m.items[i] = merged
	return merged, nil
}

func (m *MemorySource[T]) Remove(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return &NotFoundError{Kind: m.schema.Label, ID: id}
	}
	m.items = append(m.items[:i:i], m.items[i+1:]...)
	return nil
}

func (m *MemorySource[T]) FindByKey(ctx context.Context, field, value string) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	want := strings.TrimSpace(value)
	for _, item := range m.items {
		v, ok := item.FieldValue(field)
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(FieldString(v)), want) {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Len returns the number of stored records.
func (m *MemorySource[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *MemorySource[T]) indexOf(id int64) int {
	for i, item := range m.items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}

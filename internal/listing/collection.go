package listing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Collection applies a Schema's rules to a DataSource: query validation,
// struct and schema validation, case-insensitive uniqueness and timestamps.
// It holds no view state and is safe for concurrent use.
type Collection[T Record] struct {
	schema Schema[T]
	source DataSource[T]
	log    *zap.Logger
	rec    Recorder
	now    func() time.Time
}

type collectionOptions struct {
	log *zap.Logger
	rec Recorder
	now func() time.Time
}

type Option func(*collectionOptions)

func WithLogger(l *zap.Logger) Option {
	return func(o *collectionOptions) { o.log = l }
}

func WithRecorder(r Recorder) Option {
	return func(o *collectionOptions) { o.rec = r }
}

// WithClock overrides the clock used to stamp created and modified dates.
func WithClock(now func() time.Time) Option {
	return func(o *collectionOptions) { o.now = now }
}

func NewCollection[T Record](schema Schema[T], source DataSource[T], opts ...Option) *Collection[T] {
	o := collectionOptions{log: zap.NewNop(), rec: NopRecorder, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{
		schema: schema,
		source: source,
		log:    o.log.With(zap.String("kind", schema.Kind)),
		rec:    o.rec,
		now:    o.now,
	}
}

func (c *Collection[T]) Schema() Schema[T] { return c.schema }

// Query returns the page of records matching q. Ordering and filter fields
// must be whitelisted by the schema. A page past the end is clamped to the
// last page.
func (c *Collection[T]) Query(ctx context.Context, q QueryState) (Page[T], error) {
	q = q.Normalize()
	if q.Ordering.Field != "" && !c.schema.CanSort(q.Ordering.Field) {
		return Page[T]{}, &ValidationError{Field: "ordering", Msg: fmt.Sprintf("cannot sort by %q", q.Ordering.Field)}
	}
	for field := range q.ActiveFilters() {
		if !c.schema.CanFilter(field) {
			return Page[T]{}, &ValidationError{Field: field, Msg: "is not a filterable field"}
		}
	}

	start := time.Now()
	page, err := c.source.Query(ctx, q)
	if err == nil && page.TotalCount > 0 && len(page.Items) == 0 && q.Page > page.TotalPages {
		q.Page = page.TotalPages
		page, err = c.source.Query(ctx, q)
	}
	c.rec.QueryObserved(c.schema.Kind, time.Since(start), err)
	if err != nil {
		c.log.Debug("query failed", zap.String("query", q.Fingerprint()), zap.Error(err))
		return Page[T]{}, err
	}
	if page.PageSize == 0 {
		page.PageSize = q.PageSize
	}
	if page.TotalPages == 0 {
		page.TotalPages = TotalPages(page.TotalCount, page.PageSize)
	}
	return page, nil
}

func (c *Collection[T]) Get(ctx context.Context, id int64) (T, error) {
	return c.source.Get(ctx, id)
}

// Create validates item, rejects a duplicate unique key, defaults the
// creation timestamp and inserts. The DataSource assigns the id.
func (c *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	created, err := c.create(ctx, item)
	c.rec.MutationObserved(c.schema.Kind, OpCreate, err)
	if err != nil {
		c.log.Info("create rejected", zap.Error(err))
		return created, err
	}
	c.log.Info("created", zap.Int64("id", created.RecordID()))
	return created, nil
}

func (c *Collection[T]) create(ctx context.Context, item T) (T, error) {
	var zero T
	if err := c.validate(item); err != nil {
		return zero, err
	}
	if err := c.checkUnique(ctx, item, 0); err != nil {
		return zero, err
	}

	now := c.now().UTC()
	stamps := map[string]any{}
	if c.schema.CreatedField != "" {
		if v, ok := item.FieldValue(c.schema.CreatedField); !ok || FieldString(v) == "" {
			stamps[c.schema.CreatedField] = now
		}
	}
	if c.schema.ModifiedField != "" {
		if v, ok := item.FieldValue(c.schema.ModifiedField); !ok || FieldString(v) == "" {
			stamps[c.schema.ModifiedField] = now
		}
	}
	if len(stamps) > 0 {
		stamped, err := Merge(item, stamps)
		if err != nil {
			return zero, err
		}
		item = stamped
	}
	return c.source.Insert(ctx, item)
}

// Update shallow-merges partial over the stored record. The id field is
// ignored and the modified timestamp is set.
func (c *Collection[T]) Update(ctx context.Context, id int64, partial map[string]any) (T, error) {
	updated, err := c.update(ctx, id, partial)
	c.rec.MutationObserved(c.schema.Kind, OpUpdate, err)
	if err != nil {
		c.log.Info("update rejected", zap.Int64("id", id), zap.Error(err))
		return updated, err
	}
	c.log.Info("updated", zap.Int64("id", id))
	return updated, nil
}

func (c *Collection[T]) update(ctx context.Context, id int64, partial map[string]any) (T, error) {
	var zero T
	fields := make(map[string]any, len(partial)+1)
	for k, v := range partial {
		if k == c.schema.IDField {
			continue
		}
		fields[k] = v
	}

	current, err := c.source.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	merged, err := Merge(current, fields)
	if err != nil {
		return zero, err
	}
	if err := c.validate(merged); err != nil {
		return zero, err
	}
	if c.schema.UniqueValue(merged) != c.schema.UniqueValue(current) {
		if err := c.checkUnique(ctx, merged, id); err != nil {
			return zero, err
		}
	}
	if c.schema.ModifiedField != "" {
		fields[c.schema.ModifiedField] = c.now().UTC()
	}
	return c.source.Replace(ctx, id, fields)
}

func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	err := c.source.Remove(ctx, id)
	c.rec.MutationObserved(c.schema.Kind, OpDelete, err)
	if err != nil {
		c.log.Info("delete failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	c.log.Info("deleted", zap.Int64("id", id))
	return nil
}

// ItemFailure is one failed id of a bulk operation.
type ItemFailure struct {
	ID      int64   `json:"id"`
	Failure Failure `json:"failure"`
	Error   string  `json:"error"`
	Err     error   `json:"-"`
}

// BulkResult aggregates a bulk delete. One failure never stops the batch.
type BulkResult struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Deleted   []int64       `json:"deleted"`
	Failed    []ItemFailure `json:"failed,omitempty"`
}

// BulkDelete deletes each id in turn and aggregates the outcome.
func (c *Collection[T]) BulkDelete(ctx context.Context, ids []int64) BulkResult {
	res := BulkResult{Total: len(ids), Deleted: make([]int64, 0, len(ids))}
	for _, id := range ids {
		err := c.Delete(ctx, id)
		if err != nil {
			res.Failed = append(res.Failed, ItemFailure{ID: id, Failure: FailureOf(err), Error: Message(err), Err: err})
		} else {
			res.Succeeded++
			res.Deleted = append(res.Deleted, id)
		}
	}
	c.log.Info("bulk delete finished", zap.Int("total", res.Total), zap.Int("succeeded", res.Succeeded))
	return res
}

// Matching returns every record matching q's search and filters in q's
// order, ignoring q's page window.
func (c *Collection[T]) Matching(ctx context.Context, q QueryState) ([]T, error) {
	q = q.Normalize()
	q.PageSize = MaxPageSize
	var out []T
	for page := 1; ; page++ {
		q.Page = page
		p, err := c.Query(ctx, q)
		if err != nil {
			return nil, err
		}
		if p.Page != page {
			break
		}
		out = append(out, p.Items...)
		if page >= p.TotalPages || len(out) >= p.TotalCount {
			break
		}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (c *Collection[T]) validate(item T) error {
	if err := ValidateStruct(item); err != nil {
		return err
	}
	if c.schema.Validate != nil {
		return c.schema.Validate(item)
	}
	return nil
}

func (c *Collection[T]) checkUnique(ctx context.Context, item T, self int64) error {
	if c.schema.UniqueField == "" {
		return nil
	}
	v, _ := item.FieldValue(c.schema.UniqueField)
	value := strings.TrimSpace(FieldString(v))
	if value == "" {
		return nil
	}
	existing, found, err := c.source.FindByKey(ctx, c.schema.UniqueField, value)
	if err != nil {
		return err
	}
	if found && existing.RecordID() != self {
		return &DuplicateError{Kind: c.schema.Label, Field: c.schema.UniqueField, Value: value}
	}
	return nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"assetdesk/internal/listing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repositories use. pgxmock pools
// satisfy it too.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// tableSpec maps an entity onto a table whose column names equal the
// entity's JSON field names. columns[0] is the id column.
type tableSpec[T listing.Record] struct {
	table   string
	schema  listing.Schema[T]
	columns []string
	// text lists the character columns; they sort byte-wise.
	text []string
	scan func(row pgx.Row) (T, error)
	// values returns the non-id columns in the order of columns[1:].
	values func(T) []any
}

type tableRepo[T listing.Record] struct {
	db   DBTX
	spec tableSpec[T]
}

func (r *tableRepo[T]) idColumn() string { return r.spec.columns[0] }

func (r *tableRepo[T]) selectList() string { return strings.Join(r.spec.columns, ", ") }

func (r *tableRepo[T]) hasColumn(name string) bool {
	for _, c := range r.spec.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Query counts the matching rows first so the page can be clamped before
// LIMIT/OFFSET is applied.
func (r *tableRepo[T]) Query(ctx context.Context, q listing.QueryState) (listing.Page[T], error) {
	q = q.Normalize()
	where, args, err := r.where(q)
	if err != nil {
		return listing.Page[T]{}, err
	}

	var total int
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", r.spec.table, where)
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return listing.Page[T]{}, fmt.Errorf("count %s: %w", r.spec.table, err)
	}

	pages := listing.TotalPages(total, q.PageSize)
	page := listing.ClampPage(q.Page, pages)

	n := len(args)
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		r.selectList(), r.spec.table, where, r.orderBy(q.Ordering), n+1, n+2)
	args = append(args, q.PageSize, (page-1)*q.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return listing.Page[T]{}, fmt.Errorf("list %s: %w", r.spec.table, err)
	}
	defer rows.Close()

	items := make([]T, 0, q.PageSize)
	for rows.Next() {
		item, err := r.spec.scan(rows)
		if err != nil {
			return listing.Page[T]{}, fmt.Errorf("scan %s: %w", r.spec.table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return listing.Page[T]{}, fmt.Errorf("list %s: %w", r.spec.table, err)
	}

	return listing.Page[T]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   q.PageSize,
		TotalPages: pages,
	}, nil
}

// where builds the search and filter clause. Filters are applied in sorted
// key order so the generated SQL is stable.
func (r *tableRepo[T]) where(q listing.QueryState) (string, []any, error) {
	var conds []string
	var args []any

	if q.Search != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(q.Search))+"%")
		parts := make([]string, 0, len(r.spec.schema.SearchFields))
		for _, f := range r.spec.schema.SearchFields {
			parts = append(parts, fmt.Sprintf("LOWER(CAST(%s AS TEXT)) LIKE $%d", f, len(args)))
		}
		conds = append(conds, "("+strings.Join(parts, " OR ")+")")
	}

	filters := q.ActiveFilters()
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !r.spec.schema.CanFilter(k) || !r.hasColumn(k) {
			return "", nil, &listing.ValidationError{Field: k, Msg: "is not a filterable field"}
		}
		args = append(args, filters[k])
		conds = append(conds, fmt.Sprintf("CAST(%s AS TEXT) = $%d", k, len(args)))
	}

	if len(conds) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// orderBy sorts missing values lowest in both directions and breaks ties by
// id ascending. Text columns use the "C" collation so rows come back in the
// same byte order listing.SortRecords produces, whatever the database locale.
func (r *tableRepo[T]) orderBy(o listing.Ordering) string {
	if o.Field == "" || !r.spec.schema.CanSort(o.Field) || !r.hasColumn(o.Field) {
		o = r.spec.schema.DefaultOrdering
	}
	if o.Field == "" {
		return r.idColumn() + " ASC"
	}
	key := o.Field
	if slices.Contains(r.spec.text, o.Field) {
		key += ` COLLATE "C"`
	}
	clause := key + " ASC NULLS FIRST"
	if o.Direction == listing.Descending {
		clause = key + " DESC NULLS LAST"
	}
	if o.Field == r.idColumn() {
		return clause
	}
	return clause + ", " + r.idColumn() + " ASC"
}

func (r *tableRepo[T]) Get(ctx context.Context, id int64) (T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", r.selectList(), r.spec.table, r.idColumn())
	item, err := r.spec.scan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return item, r.notFound(err, id, "get")
	}
	return item, nil
}

func (r *tableRepo[T]) Insert(ctx context.Context, item T) (T, error) {
	cols := r.spec.columns[1:]
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.spec.table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), r.selectList())

	created, err := r.spec.scan(r.db.QueryRow(ctx, query, r.spec.values(item)...))
	if err != nil {
		return created, r.conflict(err, item, "insert")
	}
	return created, nil
}

func (r *tableRepo[T]) Replace(ctx context.Context, id int64, partial map[string]any) (T, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return current, err
	}
	fields := make(map[string]any, len(partial))
	for k, v := range partial {
		if k == r.idColumn() {
			continue
		}
		fields[k] = v
	}
	merged, err := listing.Merge(current, fields)
	if err != nil {
		return merged, err
	}

	cols := r.spec.columns[1:]
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		r.spec.table, strings.Join(sets, ", "), r.idColumn(), len(cols)+1, r.selectList())
	args := append(r.spec.values(merged), id)

	updated, err := r.spec.scan(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return updated, r.notFound(err, id, "update")
		}
		return updated, r.conflict(err, merged, "update")
	}
	return updated, nil
}

func (r *tableRepo[T]) Remove(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", r.spec.table, r.idColumn())
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.spec.table, err)
	}
	if tag.RowsAffected() == 0 {
		return &listing.NotFoundError{Kind: r.spec.schema.Label, ID: id}
	}
	return nil
}

func (r *tableRepo[T]) FindByKey(ctx context.Context, field, value string) (T, bool, error) {
	var zero T
	if !r.hasColumn(field) {
		return zero, false, &listing.ValidationError{Field: field, Msg: "is not a column"}
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(CAST(%s AS TEXT)) = LOWER($1) LIMIT 1",
		r.selectList(), r.spec.table, field)
	item, err := r.spec.scan(r.db.QueryRow(ctx, query, strings.TrimSpace(value)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("find %s by %s: %w", r.spec.table, field, err)
	}
	return item, true, nil
}

func (r *tableRepo[T]) notFound(err error, id int64, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &listing.NotFoundError{Kind: r.spec.schema.Label, ID: id}
	}
	return fmt.Errorf("%s %s: %w", op, r.spec.table, err)
}

// conflict turns a unique violation into a DuplicateError.
func (r *tableRepo[T]) conflict(err error, item T, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		v, _ := item.FieldValue(r.spec.schema.UniqueField)
		return &listing.DuplicateError{
			Kind:  r.spec.schema.Label,
			Field: r.spec.schema.UniqueField,
			Value: listing.FieldString(v),
		}
	}
	return fmt.Errorf("%s %s: %w", op, r.spec.table, err)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

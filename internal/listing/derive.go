package listing

import (
	"sort"
	"strings"
	"time"
)

// Derive applies q to items: search, equality filters, stable sort, then the
// page window. The page is clamped to the last valid page. items is not
// modified.
func Derive[T Record](items []T, schema Schema[T], q QueryState) Page[T] {
	q = q.Normalize()
	matched := Filter(items, q.Search, schema.SearchFields, q.ActiveFilters())
	SortRecords(matched, q.Ordering)
	return Paginate(matched, q.Page, q.PageSize)
}

// Filter returns the records matching search (case-folded substring over
// searchFields) and every filter (exact match on the string form).
func Filter[T Record](items []T, search string, searchFields []string, filters map[string]string) []T {
	term := strings.ToLower(search)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if term != "" && !matchesSearch(item, term, searchFields) {
			continue
		}
		if !matchesFilters(item, filters) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesSearch[T Record](item T, term string, fields []string) bool {
	for _, f := range fields {
		v, ok := item.FieldValue(f)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(FieldString(v)), term) {
			return true
		}
	}
	return false
}

func matchesFilters[T Record](item T, filters map[string]string) bool {
	for field, want := range filters {
		if want == "" {
			continue
		}
		v, _ := item.FieldValue(field)
		if FieldString(v) != want {
			return false
		}
	}
	return true
}

// SortRecords sorts items in place by o. The sort is stable, so records with
// equal keys keep their relative order in both directions.
func SortRecords[T Record](items []T, o Ordering) {
	if o.Field == "" {
		return
	}
	desc := o.Direction == Descending
	sort.SliceStable(items, func(i, j int) bool {
		a, _ := items[i].FieldValue(o.Field)
		b, _ := items[j].FieldValue(o.Field)
		c := compareValues(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// compareValues orders numbers numerically and times chronologically. Any
// other pairing, including a missing value, falls back to byte-wise string
// comparison with missing rendered as "".
func compareValues(a, b any) int {
	if x, ok := numeric(a); ok {
		if y, ok := numeric(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	if x, ok := timeOf(a); ok {
		if y, ok := timeOf(b); ok {
			return x.Compare(y)
		}
	}
	return strings.Compare(FieldString(a), FieldString(b))
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case *int64:
		if x == nil {
			return 0, false
		}
		return float64(*x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

func timeOf(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return *x, true
	}
	return time.Time{}, false
}

// Paginate slices the already filtered and sorted set. page is clamped.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := TotalPages(total, size)
	page = ClampPage(page, pages)

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	window := make([]T, end-start)
	copy(window, items[start:end])
	return Page[T]{
		Items:      window,
		TotalCount: total,
		Page:       page,
		PageSize:   size,
		TotalPages: pages,
	}
}

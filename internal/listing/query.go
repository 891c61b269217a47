// Package listing implements the list-management pipeline shared by every
// master-data collection in assetdesk: search, filter, order, paginate and
// mutate, with the visible page re-derived after each change.
//
// A Collection applies a Schema's rules (validation, uniqueness, timestamps)
// on top of a DataSource. A Controller wraps a Collection with the state of
// one view (the current QueryState and its ResultState) and reports what
// happened on an event channel.
package listing

import (
	"fmt"
	"sort"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 1000
)

// Direction is the sort direction of an Ordering.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts "asc"/"desc" in any case; anything else is descending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Ascending)) {
		return Ascending
	}
	return Descending
}

// Ordering is a single-key sort.
type Ordering struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// String renders the ordering in REST form: "field" or "-field" for descending.
func (o Ordering) String() string {
	if o.Field == "" {
		return ""
	}
	if o.Direction == Descending {
		return "-" + o.Field
	}
	return o.Field
}

// ParseOrdering is the inverse of Ordering.String.
func ParseOrdering(s string) Ordering {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ordering{}
	}
	if strings.HasPrefix(s, "-") {
		return Ordering{Field: strings.TrimPrefix(s, "-"), Direction: Descending}
	}
	return Ordering{Field: s, Direction: Ascending}
}

// QueryState describes which subset of a collection is visible. It is a value
// type: setters on a Controller build a new QueryState rather than mutating
// the current one.
type QueryState struct {
	Search   string            `json:"search"`
	Filters  map[string]string `json:"filters,omitempty"`
	Ordering Ordering          `json:"ordering"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// NewQueryState returns page 1 at the default page size with the given ordering.
func NewQueryState(ordering Ordering) QueryState {
	return QueryState{
		Ordering: ordering,
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// Clone returns a copy that shares no memory with q.
func (q QueryState) Clone() QueryState {
	out := q
	out.Filters = q.ActiveFilters()
	return out
}

// ActiveFilters returns the filters that actually apply: entries with an
// empty value are dropped.
func (q QueryState) ActiveFilters() map[string]string {
	if len(q.Filters) == 0 {
		return nil
	}
	out := make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		if v == "" {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// WithFilters merges partial into the filters. An empty value removes the key.
func (q QueryState) WithFilters(partial map[string]string) QueryState {
	out := q.Clone()
	merged := make(map[string]string, len(out.Filters)+len(partial))
	for k, v := range out.Filters {
		merged[k] = v
	}
	for k, v := range partial {
		if v == "" {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	if len(merged) == 0 {
		merged = nil
	}
	out.Filters = merged
	return out
}

// Equal reports structural equality. Filters with empty values are ignored.
func (q QueryState) Equal(o QueryState) bool {
	if q.Search != o.Search || q.Ordering != o.Ordering || q.Page != o.Page || q.PageSize != o.PageSize {
		return false
	}
	a, b := q.ActiveFilters(), o.ActiveFilters()
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// Normalize clamps the pagination window into its valid range.
func (q QueryState) Normalize() QueryState {
	out := q.Clone()
	if out.Page < 1 {
		out.Page = 1
	}
	if out.PageSize < 1 {
		out.PageSize = DefaultPageSize
	}
	if out.PageSize > MaxPageSize {
		out.PageSize = MaxPageSize
	}
	if out.Ordering.Field != "" && out.Ordering.Direction != Ascending {
		out.Ordering.Direction = Descending
	}
	return out
}

// Offset is the index of the first row of the page.
func (q QueryState) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// Fingerprint is a deterministic string form of q, used as a cache key.
func (q QueryState) Fingerprint() string {
	filters := q.ActiveFilters()
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "s=%q;o=%s;p=%d;n=%d", q.Search, q.Ordering.String(), q.Page, q.PageSize)
	for _, k := range keys {
		fmt.Fprintf(&b, ";f:%s=%q", k, filters[k])
	}
	return b.String()
}

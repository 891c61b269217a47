package common

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"assetdesk/internal/listing"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	RequestIDKey contextKey = "request_id"
)

// GetUserIDFromContext returns the authenticated subject, if any.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// List query parameters. Every other parameter is an equality filter.
const (
	ParamSearch   = "search"
	ParamOrdering = "ordering"
	ParamPage     = "page"
	ParamPageSize = "page_size"
)

// ListParams is the schema-facing part of ParseListQuery.
type ListParams struct {
	Initial   listing.QueryState
	CanFilter func(field string) bool
	// Reserved parameters belong to the endpoint and are not filters.
	Reserved []string
}

// ParseListQuery builds a QueryState from URL query parameters:
// search, ordering ("-field" for descending), page, page_size and one
// parameter per filter field. The search term is trimmed of surrounding
// whitespace. An empty filter value leaves it unset.
func ParseListQuery(values url.Values, p ListParams) (listing.QueryState, error) {
	q := p.Initial.Clone()
	q.Search = strings.TrimSpace(values.Get(ParamSearch))

	if raw := strings.TrimSpace(values.Get(ParamOrdering)); raw != "" {
		q.Ordering = listing.ParseOrdering(raw)
	}
	var err error
	if q.Page, err = positiveInt(values, ParamPage, q.Page); err != nil {
		return q, err
	}
	if q.PageSize, err = positiveInt(values, ParamPageSize, q.PageSize); err != nil {
		return q, err
	}

	filters := map[string]string{}
	for key, vals := range values {
		if isReserved(key, p.Reserved) {
			continue
		}
		if p.CanFilter == nil || !p.CanFilter(key) {
			return q, &listing.ValidationError{Field: key, Msg: "is not a filterable field"}
		}
		if len(vals) > 0 {
			filters[key] = strings.TrimSpace(vals[len(vals)-1])
		}
	}
	if len(filters) > 0 {
		q = q.WithFilters(filters)
	}
	return q.Normalize(), nil
}

func positiveInt(values url.Values, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &listing.ValidationError{Field: key, Msg: "must be a positive integer"}
	}
	return n, nil
}

func isReserved(key string, extra []string) bool {
	switch key {
	case ParamSearch, ParamOrdering, ParamPage, ParamPageSize:
		return true
	}
	for _, r := range extra {
		if r == key {
			return true
		}
	}
	return false
}

// EncodeListQuery is the inverse of ParseListQuery.
func EncodeListQuery(q listing.QueryState) url.Values {
	values := url.Values{}
	if q.Search != "" {
		values.Set(ParamSearch, q.Search)
	}
	if q.Ordering.Field != "" {
		values.Set(ParamOrdering, q.Ordering.String())
	}
	if q.Page > 0 {
		values.Set(ParamPage, strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set(ParamPageSize, strconv.Itoa(q.PageSize))
	}
	for k, v := range q.ActiveFilters() {
		values.Set(k, v)
	}
	return values
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"assetdesk/internal/common"
	"assetdesk/internal/listing"
)

// Source is a listing.DataSource backed by the collection endpoint
// /v1/{kind}.
type Source[T listing.Record] struct {
	client *Client
	schema listing.Schema[T]
}

func NewSource[T listing.Record](c *Client, schema listing.Schema[T]) *Source[T] {
	return &Source[T]{client: c, schema: schema}
}

func (s *Source[T]) path(id int64) string {
	if id == 0 {
		return "/" + s.schema.Kind
	}
	return "/" + s.schema.Kind + "/" + strconv.FormatInt(id, 10)
}

func (s *Source[T]) Query(ctx context.Context, q listing.QueryState) (listing.Page[T], error) {
	var page listing.Page[T]
	res, err := s.client.do(ctx, s.schema.Kind, listing.OpQuery, http.MethodGet, s.path(0), common.EncodeListQuery(q.Normalize()), nil)
	if err != nil {
		return page, err
	}
	if res.status != http.StatusOK {
		return page, apiError(s.schema.Kind, s.schema.Label, listing.OpQuery, 0, res)
	}
	if err := json.Unmarshal(res.body, &page); err != nil {
		return page, fmt.Errorf("decode %s page: %w", s.schema.Kind, err)
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

func (s *Source[T]) Get(ctx context.Context, id int64) (T, error) {
	return s.record(ctx, listing.OpQuery, http.MethodGet, id, nil, http.StatusOK)
}

func (s *Source[T]) Insert(ctx context.Context, item T) (T, error) {
	return s.record(ctx, listing.OpCreate, http.MethodPost, 0, item, http.StatusCreated)
}

func (s *Source[T]) Replace(ctx context.Context, id int64, partial map[string]any) (T, error) {
	return s.record(ctx, listing.OpUpdate, http.MethodPatch, id, partial, http.StatusOK)
}

func (s *Source[T]) Remove(ctx context.Context, id int64) error {
	res, err := s.client.do(ctx, s.schema.Kind, listing.OpDelete, http.MethodDelete, s.path(id), nil, nil)
	if err != nil {
		return err
	}
	if res.status != http.StatusNoContent && res.status != http.StatusOK {
		return apiError(s.schema.Kind, s.schema.Label, listing.OpDelete, id, res)
	}
	return nil
}

// FindByKey searches for value and scans the results for an exact
// case-insensitive match on field. The search term narrows the scan to the
// records that could match.
func (s *Source[T]) FindByKey(ctx context.Context, field, value string) (T, bool, error) {
	var zero T
	value = strings.TrimSpace(value)
	q := listing.NewQueryState(listing.Ordering{Field: s.schema.IDField, Direction: listing.Ascending})
	q.PageSize = listing.MaxPageSize
	if slices.Contains(s.schema.SearchFields, field) {
		q.Search = value
	}
	for {
		page, err := s.Query(ctx, q)
		if err != nil {
			return zero, false, err
		}
		for _, item := range page.Items {
			v, ok := item.FieldValue(field)
			if ok && strings.EqualFold(listing.FieldString(v), value) {
				return item, true, nil
			}
		}
		if page.Page >= page.TotalPages {
			return zero, false, nil
		}
		q.Page = page.Page + 1
	}
}

func (s *Source[T]) record(ctx context.Context, op, method string, id int64, payload any, want int) (T, error) {
	var item T
	res, err := s.client.do(ctx, s.schema.Kind, op, method, s.path(id), nil, payload)
	if err != nil {
		return item, err
	}
	if res.status != want {
		return item, apiError(s.schema.Kind, s.schema.Label, op, id, res)
	}
	if err := json.Unmarshal(res.body, &item); err != nil {
		return item, fmt.Errorf("decode %s: %w", s.schema.Label, err)
	}
	return item, nil
}

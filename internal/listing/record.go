package listing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is implemented by every entity a Collection manages. FieldValue is
// keyed by the entity's JSON field names and reports false for a missing or
// null value.
type Record interface {
	RecordID() int64
	FieldValue(field string) (any, bool)
}

// Schema parametrizes a Collection for one entity type.
type Schema[T Record] struct {
	// Kind is the REST path segment, e.g. "asset-categories".
	Kind string
	// Label and Plural are used in user-facing messages.
	Label  string
	Plural string

	IDField       string
	CreatedField  string
	ModifiedField string

	SearchFields []string
	// UniqueField is compared case-insensitively. Empty disables the check.
	UniqueField string
	Sortable    []string
	Filterable  []string

	DefaultOrdering Ordering

	// Validate runs after struct tag validation.
	Validate func(T) error
}

// InitialQuery is the QueryState a fresh view starts with.
func (s Schema[T]) InitialQuery() QueryState {
	return NewQueryState(s.DefaultOrdering)
}

func (s Schema[T]) CanSort(field string) bool {
	return contains(s.Sortable, field)
}

func (s Schema[T]) CanFilter(field string) bool {
	return contains(s.Filterable, field)
}

// UniqueValue returns the normalized uniqueness key of item.
func (s Schema[T]) UniqueValue(item T) string {
	if s.UniqueField == "" {
		return ""
	}
	v, _ := item.FieldValue(s.UniqueField)
	return strings.ToLower(strings.TrimSpace(FieldString(v)))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// FieldString renders a field value the way search and equality filters see it.
func FieldString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case *int64:
		if x == nil {
			return ""
		}
		return strconv.FormatInt(*x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.UTC().Format(time.RFC3339)
	case *time.Time:
		if x == nil || x.IsZero() {
			return ""
		}
		return x.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Merge shallow-merges partial over current, keyed by JSON field name. Keys
// that do not name a field of T are rejected with a ValidationError.
func Merge[T any](current T, partial map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(current)
	if err != nil {
		return out, fmt.Errorf("encode current: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return out, fmt.Errorf("decode current: %w", err)
	}
	for k, v := range partial {
		b, err := json.Marshal(v)
		if err != nil {
			return out, &ValidationError{Field: k, Msg: "value cannot be encoded"}
		}
		fields[k] = b
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return out, fmt.Errorf("encode merged: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(merged))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, decodeError(err)
	}
	return out, nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		return &ValidationError{Field: typeErr.Field, Msg: fmt.Sprintf("must be a %s", typeErr.Type.String())}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return &ValidationError{Field: field, Msg: "unknown field"}
	default:
		return &ValidationError{Msg: err.Error()}
	}
}

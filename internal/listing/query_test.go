package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrdering(t *testing.T) {
	tests := []struct {
		in   string
		want Ordering
	}{
		{"", Ordering{}},
		{"name", Ordering{Field: "name", Direction: Ascending}},
		{"-addeddate", Ordering{Field: "addeddate", Direction: Descending}},
		{"  -qty ", Ordering{Field: "qty", Direction: Descending}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseOrdering(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.want.Field != "" {
				assert.Equal(t, got, ParseOrdering(got.String()))
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, Ascending, ParseDirection("ASC"))
	assert.Equal(t, Descending, ParseDirection("desc"))
	assert.Equal(t, Descending, ParseDirection("sideways"))
}

func TestQueryStateEqualIgnoresEmptyFilters(t *testing.T) {
	a := NewQueryState(Ordering{Field: "name", Direction: Ascending})
	b := a.Clone()
	b.Filters = map[string]string{"category": ""}
	assert.True(t, a.Equal(b))

	b.Filters["category"] = "computer"
	assert.False(t, a.Equal(b))
}

func TestQueryStateCloneIsIndependent(t *testing.T) {
	a := NewQueryState(Ordering{})
	a.Filters = map[string]string{"category": "computer"}
	b := a.Clone()
	b.Filters["category"] = "accessory"
	assert.Equal(t, "computer", a.Filters["category"])
}

func TestWithFilters(t *testing.T) {
	q := NewQueryState(Ordering{}).WithFilters(map[string]string{"category": "computer", "qty": "1"})
	assert.Equal(t, map[string]string{"category": "computer", "qty": "1"}, q.Filters)

	q = q.WithFilters(map[string]string{"qty": ""})
	assert.Equal(t, map[string]string{"category": "computer"}, q.Filters)

	q = q.WithFilters(map[string]string{"category": ""})
	assert.Nil(t, q.Filters)
}

func TestNormalize(t *testing.T) {
	q := QueryState{Page: -3, PageSize: 0}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)

	q = QueryState{Page: 2, PageSize: 5000}.Normalize()
	assert.Equal(t, MaxPageSize, q.PageSize)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, MaxPageSize, q.Offset())
}

func TestFingerprintIsOrderIndependent(t *testing.T) {
	a := NewQueryState(Ordering{Field: "name", Direction: Descending})
	a.Filters = map[string]string{"a": "1", "b": "2", "c": ""}
	b := NewQueryState(Ordering{Field: "name", Direction: Descending})
	b.Filters = map[string]string{"b": "2", "a": "1"}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Search = "x"
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestTotalPagesAndClamp(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 3, TotalPages(30, 10))

	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 3, ClampPage(9, 3))
	assert.Equal(t, 2, ClampPage(2, 3))
	assert.Equal(t, 1, ClampPage(4, 0))
}

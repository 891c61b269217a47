package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CollectionTestSuite struct {
	suite.Suite
	ctx  context.Context
	coll *Collection[gadget]
	src  *MemorySource[gadget]
	rec  *countingRecorder
}

func (s *CollectionTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.rec = &countingRecorder{}
	s.coll, s.src = newGadgetCollection(seedGadgets(10), WithRecorder(s.rec))
}

func TestCollectionTestSuite(t *testing.T) {
	suite.Run(t, new(CollectionTestSuite))
}

func (s *CollectionTestSuite) TestCreateRoundTrip() {
	seen := map[int64]bool{}
	for _, g := range seedGadgets(10) {
		seen[g.ID] = true
	}

	created, err := s.coll.Create(s.ctx, gadget{Name: "Docking Station", Category: "accessory", Qty: 3})
	s.Require().NoError(err)
	s.False(seen[created.ID], "id %d reused", created.ID)
	s.Equal(int64(11), created.ID)
	s.False(created.AddedDate.IsZero())

	page, err := s.coll.Query(s.ctx, NewQueryState(gadgetSchema.DefaultOrdering))
	s.Require().NoError(err)
	s.Equal(11, page.TotalCount)
	s.Equal("Docking Station", page.Items[0].Name)
	s.Equal("accessory", page.Items[0].Category)
	s.Equal(int64(3), page.Items[0].Qty)
	s.Equal(1, s.rec.mutations["create:ok"])
}

func (s *CollectionTestSuite) TestCreateKeepsSuppliedTimestamp() {
	created, err := s.coll.Create(s.ctx, gadget{Name: "Old Printer", AddedDate: baseTime})
	s.Require().NoError(err)
	s.True(created.AddedDate.Equal(baseTime))
}

func (s *CollectionTestSuite) TestCreateIDsAreMonotonic() {
	a, err := s.coll.Create(s.ctx, gadget{Name: "One"})
	s.Require().NoError(err)
	s.Require().NoError(s.coll.Delete(s.ctx, a.ID))
	b, err := s.coll.Create(s.ctx, gadget{Name: "Two"})
	s.Require().NoError(err)
	s.Greater(b.ID, a.ID)
}

func (s *CollectionTestSuite) TestCreateDuplicateIsRejected() {
	_, err := s.coll.Create(s.ctx, gadget{Name: "  laptop 001 "})
	s.Require().Error(err)
	s.ErrorIs(err, ErrDuplicate)
	s.ErrorIs(err, ErrValidation)
	s.Equal(FailureDuplicate, FailureOf(err))
	s.Equal(10, s.src.Len())
}

func (s *CollectionTestSuite) TestCreateValidation() {
	_, err := s.coll.Create(s.ctx, gadget{Category: "accessory"})
	var ve *ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Equal("name", ve.Field)
	s.Equal("name is required", ve.Error())

	_, err = s.coll.Create(s.ctx, gadget{Name: "Negative", Qty: -1})
	s.Require().ErrorAs(err, &ve)
	s.Equal("qty", ve.Field)
	s.Equal(10, s.src.Len())
}

func (s *CollectionTestSuite) TestUpdateMergesAndStamps() {
	updated, err := s.coll.Update(s.ctx, 2, map[string]any{"category": "computer", "gadgetid": 99})
	s.Require().NoError(err)
	s.Equal(int64(2), updated.ID)
	s.Equal("computer", updated.Category)
	s.Equal("Widget 002", updated.Name)
	s.Require().NotNil(updated.ModifiedDate)

	got, err := s.coll.Get(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal(updated, got)
}

func (s *CollectionTestSuite) TestUpdateOwnNameIsNotDuplicate() {
	_, err := s.coll.Update(s.ctx, 2, map[string]any{"name": "WIDGET 002"})
	s.NoError(err)
}

func (s *CollectionTestSuite) TestUpdateToExistingNameIsDuplicate() {
	_, err := s.coll.Update(s.ctx, 2, map[string]any{"name": "Laptop 001"})
	s.ErrorIs(err, ErrDuplicate)
	got, _ := s.coll.Get(s.ctx, 2)
	s.Equal("Widget 002", got.Name)
}

func (s *CollectionTestSuite) TestUpdateUnknownFieldIsValidationError() {
	_, err := s.coll.Update(s.ctx, 2, map[string]any{"colour": "red"})
	var ve *ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Equal("colour", ve.Field)
}

func (s *CollectionTestSuite) TestUpdateMissing() {
	_, err := s.coll.Update(s.ctx, 404, map[string]any{"name": "x"})
	s.ErrorIs(err, ErrNotFound)
}

func (s *CollectionTestSuite) TestDeleteExclusivity() {
	s.Require().NoError(s.coll.Delete(s.ctx, 4))
	for _, q := range []QueryState{
		NewQueryState(gadgetSchema.DefaultOrdering),
		{Search: "laptop", Page: 1, PageSize: 100},
		{Filters: map[string]string{"category": "computer"}, Ordering: Ordering{Field: "name", Direction: Ascending}, Page: 1, PageSize: 2},
	} {
		all, err := s.coll.Matching(s.ctx, q)
		s.Require().NoError(err)
		for _, g := range all {
			s.NotEqual(int64(4), g.ID)
		}
	}
	s.ErrorIs(s.coll.Delete(s.ctx, 4), ErrNotFound)
}

func (s *CollectionTestSuite) TestBulkDeletePartialFailure() {
	res := s.coll.BulkDelete(s.ctx, []int64{1, 999})
	s.Equal(2, res.Total)
	s.Equal(1, res.Succeeded)
	s.Equal([]int64{1}, res.Deleted)
	s.Require().Len(res.Failed, 1)
	s.Equal(int64(999), res.Failed[0].ID)
	s.Equal(FailureNotFound, res.Failed[0].Failure)
	s.Equal(9, s.src.Len())
}

func (s *CollectionTestSuite) TestQueryRejectsUnknownOrderingAndFilter() {
	q := NewQueryState(Ordering{Field: "secret", Direction: Ascending})
	_, err := s.coll.Query(s.ctx, q)
	s.ErrorIs(err, ErrValidation)

	q = NewQueryState(gadgetSchema.DefaultOrdering).WithFilters(map[string]string{"name": "x"})
	_, err = s.coll.Query(s.ctx, q)
	s.ErrorIs(err, ErrValidation)
}

func (s *CollectionTestSuite) TestMatchingSpansPages() {
	coll, _ := newGadgetCollection(seedGadgets(2500))
	q := NewQueryState(Ordering{Field: "gadgetid", Direction: Ascending})
	q.Search = "widget"
	all, err := coll.Matching(s.ctx, q)
	s.Require().NoError(err)
	s.Len(all, 1750)
	s.Equal(int64(2), all[0].ID)
}

func TestMergeTypeMismatch(t *testing.T) {
	_, err := Merge(gadget{ID: 1, Name: "a"}, map[string]any{"qty": "many"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "qty", ve.Field)
}

func TestMemorySourceInsertPrepends(t *testing.T) {
	src := NewMemorySource(gadgetSchema, seedGadgets(3))
	g, err := src.Insert(context.Background(), gadget{Name: "new"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), g.ID)

	page, err := src.Query(context.Background(), QueryState{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, "new", page.Items[0].Name)
}

func TestMemorySourceHonoursCancelledContext(t *testing.T) {
	src := NewMemorySource(gadgetSchema, seedGadgets(3))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := src.Query(ctx, NewQueryState(Ordering{}))
	assert.ErrorIs(t, err, context.Canceled)
}

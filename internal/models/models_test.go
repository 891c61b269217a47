package models

import (
	"testing"
	"time"

	"assetdesk/internal/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDataIsValid(t *testing.T) {
	for _, c := range SeedAssetCategories() {
		assert.NoError(t, listing.ValidateStruct(c), c.CategoryName)
	}
	for _, at := range SeedAssetTypes() {
		assert.NoError(t, listing.ValidateStruct(at), at.TypeName)
	}
	for _, m := range SeedManufacturers() {
		assert.NoError(t, listing.ValidateStruct(m), m.ManufacturerName)
	}
	for _, u := range SeedBusinessUnits() {
		assert.NoError(t, listing.ValidateStruct(u), u.UnitName)
	}
	for _, a := range SeedAssets() {
		assert.NoError(t, listing.ValidateStruct(a), a.AssetName)
		assert.NoError(t, AssetSchema.Validate(a), a.AssetName)
	}
}

func TestSeedAssetsLaptopSearch(t *testing.T) {
	q := AssetSchema.InitialQuery()
	q.Search = "laptop"
	page := listing.Derive(SeedAssets(), AssetSchema, q)
	assert.Equal(t, 3, page.TotalCount)

	q.Search = ""
	assert.Equal(t, 10, listing.Derive(SeedAssets(), AssetSchema, q).TotalCount)
}

func TestAssetFilterByReference(t *testing.T) {
	q := AssetSchema.InitialQuery().WithFilters(map[string]string{"manufacturerid": "1"})
	page := listing.Derive(SeedAssets(), AssetSchema, q)
	assert.Equal(t, 3, page.TotalCount)
	for _, a := range page.Items {
		require.NotNil(t, a.ManufacturerID)
		assert.Equal(t, int64(1), *a.ManufacturerID)
	}
}

func TestAssetValidation(t *testing.T) {
	future := time.Now().AddDate(1, 0, 0)
	err := AssetSchema.Validate(Asset{AssetName: "x", SerialNumber: "y", PurchaseDate: &future})
	assert.ErrorIs(t, err, listing.ErrValidation)

	err = listing.ValidateStruct(Asset{AssetName: "x", SerialNumber: "y", Status: "lost"})
	var ve *listing.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)

	err = listing.ValidateStruct(Manufacturer{ManufacturerName: "Acme", ContactEmail: "not-an-email"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "contactemail", ve.Field)
}

func TestSchemasAreConsistent(t *testing.T) {
	assertSchema(t, AssetCategorySchema, SeedAssetCategories())
	assertSchema(t, AssetTypeSchema, SeedAssetTypes())
	assertSchema(t, ManufacturerSchema, SeedManufacturers())
	assertSchema(t, BusinessUnitSchema, SeedBusinessUnits())
	assertSchema(t, AssetSchema, SeedAssets())
}

func assertSchema[T listing.Record](t *testing.T, s listing.Schema[T], seed []T) {
	t.Helper()
	require.NotEmpty(t, seed)
	item := seed[0]
	_, ok := item.FieldValue(s.IDField)
	assert.True(t, ok, "%s id field", s.Kind)
	_, ok = item.FieldValue(s.CreatedField)
	assert.True(t, ok, "%s created field", s.Kind)
	for _, f := range s.SearchFields {
		_, ok := item.FieldValue(f)
		assert.True(t, ok, "%s search field %s", s.Kind, f)
	}
	assert.True(t, s.CanSort(s.DefaultOrdering.Field), s.Kind)

	seen := map[string]bool{}
	for _, r := range seed {
		key := s.UniqueValue(r)
		assert.False(t, seen[key], "%s duplicate %s", s.Kind, key)
		seen[key] = true
	}
}

func TestNewBulkOperationResult(t *testing.T) {
	res := listing.BulkResult{
		Total:     2,
		Succeeded: 1,
		Deleted:   []int64{1},
		Failed:    []listing.ItemFailure{{ID: 999, Failure: listing.FailureNotFound, Error: "asset 999 not found"}},
	}
	out := NewBulkOperationResult("assets", []int64{1, 999}, res, time.Now())
	assert.Equal(t, "partial", out.Status)
	assert.Equal(t, "Deleted 1 of 2 assets", out.Message)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, 1, out.Errors[0].ItemIndex)
	assert.Equal(t, "999", out.Errors[0].ItemID)
	assert.Equal(t, "not_found", out.Errors[0].Code)
	assert.NotEmpty(t, out.OperationID)
}

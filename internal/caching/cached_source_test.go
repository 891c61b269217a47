package caching

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"assetdesk/internal/listing"
	"assetdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	args := m.Called(ctx, prefix)
	return args.Int(0), args.Error(1)
}

func (m *MockCacheService) Publish(ctx context.Context, channel, message string) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

func (m *MockCacheService) Subscribe(ctx context.Context, channel string, handle func(message string)) error {
	args := m.Called(ctx, channel, handle)
	if msgs, ok := args.Get(0).([]string); ok {
		for _, msg := range msgs {
			handle(msg)
		}
	}
	return args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCacheService) Close() error {
	return m.Called().Error(0)
}

type CachedSourceTestSuite struct {
	suite.Suite
	cache   *MockCacheService
	memory  *listing.MemorySource[models.AssetCategory]
	source  *CachedSource[models.AssetCategory]
	context context.Context
}

func (suite *CachedSourceTestSuite) SetupTest() {
	suite.cache = new(MockCacheService)
	suite.memory = listing.NewMemorySource(models.AssetCategorySchema, models.SeedAssetCategories())
	suite.source = NewCachedSource[models.AssetCategory](suite.memory, suite.cache, models.KindAssetCategories, time.Minute, zap.NewNop())
	suite.context = context.Background()
}

func (suite *CachedSourceTestSuite) TearDownTest() {
	suite.cache.AssertExpectations(suite.T())
}

func TestCachedSourceTestSuite(t *testing.T) {
	suite.Run(t, new(CachedSourceTestSuite))
}

func (suite *CachedSourceTestSuite) TestQuery_MissStoresPage() {
	q := models.AssetCategorySchema.InitialQuery()
	key := QueryKey(models.KindAssetCategories, q)
	suite.True(strings.HasPrefix(key, "assetdesk:query:asset-categories:"))

	suite.cache.On("GetString", suite.context, key).Return("", nil)
	suite.cache.On("SetString", suite.context, key, mock.AnythingOfType("string"), time.Minute).Return(nil)

	page, err := suite.source.Query(suite.context, q)
	suite.Require().NoError(err)
	suite.Equal(len(models.SeedAssetCategories()), page.TotalCount)
}

func (suite *CachedSourceTestSuite) TestQuery_HitSkipsSource() {
	q := models.AssetCategorySchema.InitialQuery()
	cached := listing.Page[models.AssetCategory]{
		Items:      []models.AssetCategory{{AssetCategoryID: 99, CategoryName: "Cached"}},
		TotalCount: 1, Page: 1, PageSize: 10, TotalPages: 1,
	}
	raw, _ := json.Marshal(cached)
	suite.cache.On("GetString", suite.context, QueryKey(models.KindAssetCategories, q)).Return(string(raw), nil)

	page, err := suite.source.Query(suite.context, q)
	suite.Require().NoError(err)
	suite.Require().Len(page.Items, 1)
	suite.Equal("Cached", page.Items[0].CategoryName)
}

func (suite *CachedSourceTestSuite) TestQuery_CacheErrorsDoNotFail() {
	q := models.AssetCategorySchema.InitialQuery()
	key := QueryKey(models.KindAssetCategories, q)
	suite.cache.On("GetString", suite.context, key).Return("", errors.New("connection refused"))
	suite.cache.On("SetString", suite.context, key, mock.Anything, time.Minute).Return(errors.New("connection refused"))

	page, err := suite.source.Query(suite.context, q)
	suite.NoError(err)
	suite.NotEmpty(page.Items)
}

func (suite *CachedSourceTestSuite) TestMutationsInvalidate() {
	prefix := QueryKeyPrefix(models.KindAssetCategories)
	suite.cache.On("DeleteByPrefix", mock.Anything, prefix).Return(3, nil).Times(3)
	suite.cache.On("Publish", mock.Anything, InvalidateChannel, models.KindAssetCategories).Return(nil).Times(3)

	created, err := suite.source.Insert(suite.context, models.AssetCategory{CategoryName: "Printers", AddedDate: time.Now()})
	suite.Require().NoError(err)
	_, err = suite.source.Replace(suite.context, created.AssetCategoryID, map[string]any{"description": "Office printers"})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.source.Remove(suite.context, created.AssetCategoryID))
}

func (suite *CachedSourceTestSuite) TestFailedMutationDoesNotInvalidate() {
	err := suite.source.Remove(suite.context, 4242)
	suite.ErrorIs(err, listing.ErrNotFound)
	suite.cache.AssertNotCalled(suite.T(), "DeleteByPrefix", mock.Anything, mock.Anything)
}

func (suite *CachedSourceTestSuite) TestReadsPassThrough() {
	found, ok, err := suite.source.FindByKey(suite.context, "categoryname", "COMPUTERS")
	suite.Require().NoError(err)
	suite.True(ok)

	got, err := suite.source.Get(suite.context, found.AssetCategoryID)
	suite.Require().NoError(err)
	suite.Equal(found.CategoryName, got.CategoryName)
}

func TestListenInvalidations(t *testing.T) {
	cache := new(MockCacheService)
	ctx := context.Background()
	cache.On("Subscribe", ctx, InvalidateChannel, mock.Anything).Return([]string{"assets", "", "manufacturers"}, nil)
	cache.On("DeleteByPrefix", ctx, QueryKeyPrefix("assets")).Return(1, nil)
	cache.On("DeleteByPrefix", ctx, QueryKeyPrefix("manufacturers")).Return(0, errors.New("timeout"))

	var seen []string
	err := ListenInvalidations(ctx, cache, zap.NewNop(), func(kind string) { seen = append(seen, kind) })
	assert.NoError(t, err)
	assert.Equal(t, []string{"assets", "manufacturers"}, seen)
	cache.AssertExpectations(t)
}

func TestPurgeAll(t *testing.T) {
	cache := new(MockCacheService)
	cache.On("DeleteByPrefix", mock.Anything, "assetdesk:query:").Return(12, nil)
	n, err := PurgeAll(context.Background(), cache)
	assert.NoError(t, err)
	assert.Equal(t, 12, n)
	cache.AssertExpectations(t)
}

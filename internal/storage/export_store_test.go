package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) DeleteObject(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockObjectStore) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

type ExportStoreTestSuite struct {
	suite.Suite
	objects *MockObjectStore
	store   *ExportStore
	context context.Context
	now     time.Time
}

func (suite *ExportStoreTestSuite) SetupTest() {
	suite.objects = new(MockObjectStore)
	suite.store = NewExportStore(suite.objects, "assetdesk-exports", zap.NewNop())
	suite.now = time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	suite.store.now = func() time.Time { return suite.now }
	suite.context = context.Background()
}

func (suite *ExportStoreTestSuite) TearDownTest() {
	suite.objects.AssertExpectations(suite.T())
}

func TestExportStoreTestSuite(t *testing.T) {
	suite.Run(t, new(ExportStoreTestSuite))
}

func (suite *ExportStoreTestSuite) TestSave_Success() {
	isExport := mock.MatchedBy(func(name string) bool {
		return strings.HasPrefix(name, "exports/assets/2024/03/09/assets-20240309-100000-") && strings.HasSuffix(name, ".csv")
	})
	suite.objects.On("PutObject", suite.context, "assetdesk-exports", isExport, mock.Anything, int64(9), "text/csv").Return(nil).Once()
	suite.objects.On("GetPresignedURL", suite.context, "assetdesk-exports", isExport, DefaultURLExpiry).
		Return("https://minio.local/assetdesk-exports/x.csv?sig=1", nil).Once()

	up, err := suite.store.Save(suite.context, "assets", "assets-20240309-100000.csv", "text/csv", []byte("a,b\n1,2\n\n"))
	suite.Require().NoError(err)
	suite.Equal("https://minio.local/assetdesk-exports/x.csv?sig=1", up.URL)
	suite.Equal(9, up.Size)
	suite.Equal(suite.now.Add(DefaultURLExpiry), up.ExpiresAt)
}

func (suite *ExportStoreTestSuite) TestSave_UploadFails() {
	suite.objects.On("PutObject", suite.context, "assetdesk-exports", mock.Anything, mock.Anything, int64(1), "application/pdf").
		Return(errors.New("NoSuchBucket")).Once()

	_, err := suite.store.Save(suite.context, "assets", "assets.pdf", "application/pdf", []byte("x"))
	suite.Error(err)
	suite.Contains(err.Error(), "NoSuchBucket")
}

func (suite *ExportStoreTestSuite) TestSave_PresignFails() {
	suite.objects.On("PutObject", suite.context, "assetdesk-exports", mock.Anything, mock.Anything, int64(1), "text/csv").Return(nil).Once()
	suite.objects.On("GetPresignedURL", suite.context, "assetdesk-exports", mock.Anything, DefaultURLExpiry).Return("", errors.New("signature error")).Once()

	_, err := suite.store.Save(suite.context, "assets", "assets.csv", "text/csv", []byte("x"))
	suite.ErrorContains(err, "presign")
}

func (suite *ExportStoreTestSuite) TestInit() {
	suite.objects.On("EnsureBucketExists", suite.context, "assetdesk-exports").Return(errors.New("access denied")).Once()
	suite.ErrorContains(suite.store.Init(suite.context), "ensure bucket assetdesk-exports")
}

func (suite *ExportStoreTestSuite) TestObjectNamesAreUnique() {
	a := suite.store.ObjectName("manufacturers", "manufacturers.pdf")
	b := suite.store.ObjectName("manufacturers", "manufacturers.pdf")
	suite.NotEqual(a, b)
	suite.True(strings.HasSuffix(a, ".pdf"))
}

func TestNilStoreIsDisabled(t *testing.T) {
	var s *ExportStore
	_, err := s.Save(context.Background(), "assets", "a.csv", "text/csv", nil)
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, s.Init(context.Background()), ErrStorageDisabled)
}

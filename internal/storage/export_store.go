// Package storage keeps rendered exports in object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultURLExpiry is how long a presigned export link stays valid.
const DefaultURLExpiry = 24 * time.Hour

var ErrStorageDisabled = errors.New("export storage is not configured")

// Upload describes a stored export.
type Upload struct {
	Object    string    `json:"object"`
	URL       string    `json:"url"`
	Size      int       `json:"size"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ExportStore struct {
	store  ObjectStore
	bucket string
	expiry time.Duration
	log    *zap.Logger
	now    func() time.Time
}

func NewExportStore(store ObjectStore, bucket string, log *zap.Logger) *ExportStore {
	return &ExportStore{store: store, bucket: bucket, expiry: DefaultURLExpiry, log: log, now: time.Now}
}

// Init creates the bucket if needed.
func (s *ExportStore) Init(ctx context.Context) error {
	if s == nil {
		return ErrStorageDisabled
	}
	if err := s.store.EnsureBucketExists(ctx, s.bucket); err != nil {
		return fmt.Errorf("ensure bucket %s: %w", s.bucket, err)
	}
	return nil
}

// ObjectName files exports by kind and date and keeps names unique.
func (s *ExportStore) ObjectName(kind, fileName string) string {
	at := s.now().UTC()
	ext := path.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	return path.Join("exports", kind, at.Format("2006/01/02"), fmt.Sprintf("%s-%s%s", base, uuid.NewString()[:8], ext))
}

// Save uploads data and returns a presigned download link.
func (s *ExportStore) Save(ctx context.Context, kind, fileName, contentType string, data []byte) (Upload, error) {
	if s == nil {
		return Upload{}, ErrStorageDisabled
	}
	object := s.ObjectName(kind, fileName)
	if err := s.store.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return Upload{}, fmt.Errorf("upload %s: %w", object, err)
	}
	url, err := s.store.GetPresignedURL(ctx, s.bucket, object, s.expiry)
	if err != nil {
		return Upload{}, fmt.Errorf("presign %s: %w", object, err)
	}
	s.log.Info("Export stored",
		zap.String("bucket", s.bucket),
		zap.String("object", object),
		zap.Int("bytes", len(data)))
	return Upload{Object: object, URL: url, Size: len(data), ExpiresAt: s.now().Add(s.expiry)}, nil
}

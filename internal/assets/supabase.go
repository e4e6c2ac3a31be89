package assets

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	storage "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
	"bitacora-backend/internal/apperr"
)

// SupabaseUploader stores objects in a Supabase Storage bucket.
type SupabaseUploader struct {
	client  *storage.Client
	bucket  string
	baseURL string
	now     func() time.Time
}

func NewSupabaseUploader(supabaseURL, serviceKey, bucket string) (*SupabaseUploader, error) {
	baseURL := strings.TrimRight(supabaseURL, "/")
	client, err := supabase.NewClient(baseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize supabase client: %w", err)
	}
	if client.Storage == nil {
		return nil, fmt.Errorf("supabase client has no storage client")
	}

	return &SupabaseUploader{
		client:  client.Storage,
		bucket:  bucket,
		baseURL: baseURL,
		now:     time.Now,
	}, nil
}

func (s *SupabaseUploader) Upload(ctx context.Context, payload Payload, class Classification) (Object, error) {
	if len(payload.Data) == 0 {
		return Object{}, apperr.UploadFailed("empty payload", nil)
	}

	storagePath := ObjectKey(class, payload.Filename, s.now())
	contentType := ContentType(payload)
	upsert := false
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(payload.Data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return Object{}, apperr.UploadFailed("failed to upload file", err)
	}

	return Object{Key: storagePath, URL: s.PublicURL(storagePath)}, nil
}

func (s *SupabaseUploader) PublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, storagePath)
}

func (s *SupabaseUploader) Remove(ctx context.Context, key string) error {
	if _, err := s.client.RemoveFile(s.bucket, []string{key}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
	"bitacora-backend/internal/apperr"
)

// GCSUploader stores objects in a Google Cloud Storage bucket.
type GCSUploader struct {
	client        *storage.Client
	bucket        string
	publicBaseURL string
	now           func() time.Time
}

func NewGCSUploader(ctx context.Context, bucket, credentialsFile, publicBaseURL string) (*GCSUploader, error) {
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSUploader{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
	}, nil
}

func (g *GCSUploader) Upload(ctx context.Context, payload Payload, class Classification) (Object, error) {
	if len(payload.Data) == 0 {
		return Object{}, apperr.UploadFailed("empty payload", nil)
	}

	key := ObjectKey(class, payload.Filename, g.now())
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = ContentType(payload)
	if _, err := io.Copy(w, bytes.NewReader(payload.Data)); err != nil {
		_ = w.Close()
		return Object{}, apperr.UploadFailed("failed to write data to GCS", err)
	}
	if err := w.Close(); err != nil {
		return Object{}, apperr.UploadFailed("failed to close GCS writer", err)
	}

	return Object{Key: key, URL: g.PublicURL(key)}, nil
}

func (g *GCSUploader) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", g.publicBaseURL, g.bucket, key)
}

func (g *GCSUploader) Remove(ctx context.Context, key string) error {
	if err := g.client.Bucket(g.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, g.bucket, err)
	}
	return nil
}

func (g *GCSUploader) Close() error {
	return g.client.Close()
}

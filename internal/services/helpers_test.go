package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"bitacora-backend/internal/apperr"
	"bitacora-backend/internal/assets"
	"bitacora-backend/internal/database"
	"bitacora-backend/internal/logger"
	"bitacora-backend/internal/models"
	"bitacora-backend/internal/services"
)

// fakeUploader fails the calls listed in failOn (1-based) and records every
// object it stored or removed.
type fakeUploader struct {
	mu       sync.Mutex
	failOn   map[int]error
	calls    int
	uploaded []assets.Object
	removed  []string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{failOn: map[int]error{}}
}

func (f *fakeUploader) failCall(n int) *fakeUploader {
	f.failOn[n] = errors.New("bucket unavailable")
	return f
}

func (f *fakeUploader) Upload(ctx context.Context, payload assets.Payload, class assets.Classification) (assets.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if err, ok := f.failOn[f.calls]; ok {
		return assets.Object{}, err
	}
	key := assets.ObjectKey(class, payload.Filename, time.Now())
	obj := assets.Object{Key: key, URL: "https://cdn.test/" + key}
	f.uploaded = append(f.uploaded, obj)
	return obj, nil
}

func (f *fakeUploader) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, key)
	return nil
}

// flakyStore fails selected writes on top of a MemoryStore.
type flakyStore struct {
	*database.MemoryStore
	failProject   bool
	failMediaCall int
	mediaCalls    int
}

func (s *flakyStore) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	if s.failProject {
		return nil, apperr.StoreUnavailable("connection reset", nil)
	}
	return s.MemoryStore.CreateProject(ctx, p)
}

func (s *flakyStore) CreateMediaAsset(ctx context.Context, m *models.MediaAsset) (*models.MediaAsset, error) {
	s.mediaCalls++
	if s.mediaCalls == s.failMediaCall {
		return nil, apperr.StoreUnavailable("connection reset", nil)
	}
	return s.MemoryStore.CreateMediaAsset(ctx, m)
}

func newOrchestrator(t *testing.T) (*services.Orchestrator, *database.MemoryStore, *fakeUploader) {
	t.Helper()
	store := database.NewMemoryStore()
	uploader := newFakeUploader()
	return services.NewOrchestrator(store, uploader, logger.Nop()), store, uploader
}

func image(name string) assets.Payload {
	return assets.Payload{Filename: name, ContentType: "image/jpeg", Data: []byte("\xff\xd8\xff" + name)}
}

func mustCreateProject(t *testing.T, o *services.Orchestrator, title, startDate string) *models.Project {
	t.Helper()
	p, err := o.CreateProject(context.Background(), models.CreateProjectRequest{Title: title, StartDate: startDate})
	require.NoError(t, err)
	return p
}

func mustCreateClassLog(t *testing.T, o *services.Orchestrator, title, date string, projectID uuid.UUID) *models.ClassLogEntry {
	t.Helper()
	req := models.CreateClassLogRequest{Title: title, Date: date}
	if projectID != uuid.Nil {
		req.ProjectID = projectID.String()
	}
	e, err := o.CreateClassLogEntry(context.Background(), req)
	require.NoError(t, err)
	return e
}

func nullID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}

func newID() uuid.UUID {
	return uuid.New()
}

package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"bitacora-backend/internal/apperr"
	"bitacora-backend/internal/models"
)

type memoryState struct {
	projects  map[uuid.UUID]models.Project
	classLogs map[uuid.UUID]models.ClassLogEntry
	media     map[uuid.UUID]models.MediaAsset
	plans     map[uuid.UUID]models.PlanDocument
	planFiles map[uuid.UUID]models.PlanFile
	users     map[string]models.User
}

func newMemoryState() memoryState {
	return memoryState{
		projects:  make(map[uuid.UUID]models.Project),
		classLogs: make(map[uuid.UUID]models.ClassLogEntry),
		media:     make(map[uuid.UUID]models.MediaAsset),
		plans:     make(map[uuid.UUID]models.PlanDocument),
		planFiles: make(map[uuid.UUID]models.PlanFile),
		users:     make(map[string]models.User),
	}
}

func (s memoryState) clone() memoryState {
	out := newMemoryState()
	for k, v := range s.projects {
		out.projects[k] = v
	}
	for k, v := range s.classLogs {
		out.classLogs[k] = v
	}
	for k, v := range s.media {
		out.media[k] = v
	}
	for k, v := range s.plans {
		out.plans[k] = v
	}
	for k, v := range s.planFiles {
		out.planFiles[k] = v
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	return out
}

type memoryCore struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	state memoryState
	now   func() time.Time
	seq   time.Duration
}

// MemoryStore is an in-process Store with the same constraints as the
// Postgres schema. It backs tests and local development without a database.
//
// Transactions are serialized with every write made outside one, and roll
// back by restoring a snapshot. Reads outside a transaction may observe its
// uncommitted writes.
type MemoryStore struct {
	*memoryCore
	inTx bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{memoryCore: &memoryCore{state: newMemoryState(), now: time.Now}}
}

// writeGate holds txMu for a write made outside a transaction so a rollback
// cannot discard it. The returned func releases it.
func (s *MemoryStore) writeGate() func() {
	if s.inTx {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

// tick returns strictly increasing timestamps so creation order is stable.
// Caller holds mu.
func (s *MemoryStore) tick() time.Time {
	s.seq += time.Microsecond
	return s.now().UTC().Add(s.seq)
}

func (s *MemoryStore) WithTx(ctx context.Context, fn func(Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.state.clone()
	s.mu.Unlock()

	if err := fn(&MemoryStore{memoryCore: s.memoryCore, inTx: true}); err != nil {
		s.mu.Lock()
		s.state = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func textPatch(current string, patch *string) string {
	return models.Coalesce(current, patch)
}

func optionalTextPatch(current *string, patch *string) *string {
	if patch == nil || strings.TrimSpace(*patch) == "" {
		return current
	}
	v := *patch
	return &v
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

func ptrOf(s string) *string { return &s }

// Projects

func (s *MemoryStore) CreateProject(ctx context.Context, in *models.Project) (*models.Project, error) {
	defer s.writeGate()()
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(in.Title) == "" || in.StartDate.IsZero() {
		return nil, apperr.Validation("invalid project")
	}
	p := models.Project{
		ID:            in.ID,
		Title:         in.Title,
		Description:   in.Description,
		StartDate:     in.StartDate,
		CoverImageURL: blankToNil(in.CoverImageURL),
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, exists := s.state.projects[p.ID]; exists {
		return nil, apperr.Conflict("project already exists", nil)
	}
	p.CreatedAt = s.tick()
	p.UpdatedAt = p.CreatedAt
	s.state.projects[p.ID] = p
	return &p, nil
}

func (s *MemoryStore) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.state.projects[id]
	if !ok {
		return nil, apperr.NotFound("project not found")
	}
	return &p, nil
}

func (s *MemoryStore) UpdateProject(ctx context.Context, id uuid.UUID, patch models.ProjectPatch) (*models.Project, error) {
	defer s.writeGate()()
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.state.projects[id]
	if !ok {
		return nil, apperr.NotFound("project not found")
	}
	p.Title = textPatch(p.Title, patch.Title)
	p.Description = textPatch(p.Description, patch.Description)
	if patch.StartDate != nil && !patch.StartDate.IsZero() {
		p.StartDate = *patch.StartDate
	}
	p.CoverImageURL = optionalTextPatch(p.CoverImageURL, patch.CoverImageURL)
	p.UpdatedAt = s.tick()
	s.state.projects[id] = p
	return &p, nil
}

func (s *MemoryStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Project, 0, len(s.state.projects))
	for _, p := range s.state.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate.Time) {
			return out[i].StartDate.After(out[j].StartDate.Time)
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (s *MemoryStore) CountClassLogEntries(ctx context.Context, projectID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, e := range s.state.classLogs {
		if e.ProjectID.Valid && e.ProjectID.UUID == projectID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) CountMediaAssets(ctx context.Context, projectID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, m := range s.state.media {
		if m.ProjectID.Valid && m.ProjectID.UUID == projectID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) SetProjectCounts(ctx context.Context, id uuid.UUID, claseCount, imagenCount int) (*models.Project, error) {
	defer s.writeGate()()
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.state.projects[id]
	if !ok {
		return nil, apperr.NotFound("project not found")
	}
	p.ClaseCount = claseCount
	p.ImagenCount = imagenCount
	s.state.projects[id] = p
	return &p, nil
}

// Class logs

func (s *MemoryStore) projectRef(id uuid.NullUUID) error {
	if !id.Valid {
		return nil
	}
	if _, ok := s.state.projects[id.UUID]; !ok {
		return apperr.NotFound("referenced project not found")
	}
	return nil
}

func (s *MemoryStore) CreateClassLogEntry(ctx context.Context, in *models.ClassLogEntry) (*models.ClassLogEntry, error) {
	defer s.writeGate()()
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(in.Title) == "" || in.Date.IsZero() {
		return nil, apperr.Validation("invalid class log entry")
	}
	if err := s.projectRef(in.ProjectID); err != nil {
		return nil, err
	}
	e := models.ClassLogEntry{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		ProjectID:   in.ProjectID,
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = s.tick()
	e.UpdatedAt = e.CreatedAt
	s.state.classLogs[e.ID] = e
	return &e, nil
}

func (s *MemoryStore) GetClassLogEntry(ctx context.Context, id uuid.UUID) (*models.ClassLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.state.classLogs[id]
	if !ok {
		return nil, apperr.NotFound("class log entry not found")
	}
	return &e, nil
}

func (s *MemoryStore) UpdateClassLogEntry(ctx context.Context, id uuid.UUID, patch models.ClassLogPatch) (*models.ClassLogEntry, error) {
	defer s.writeGate()()
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.state.classLogs[id]
	if !ok {
		return nil, apperr.NotFound("class log entry not found")
	}
	if err := s.projectRef(patch.ProjectID.ID); patch.ProjectID.Set && err != nil {
		return nil, err
	}
	e.Title = textPatch(e.Title, patch.Title)
	e.Description = textPatch(e.Description, patch.Description)
	if patch.Date != nil && !patch.Date.IsZero() {
		e.Date = *patch.Date
	}
	e.ProjectID = patch.ProjectID.Apply(e.ProjectID)
	e.UpdatedAt = s.tick()
	s.state.classLogs[id] = e
	return &e, nil
}

func (s *MemoryStore) ListClassLogEntries(ctx context.Context) ([]models.ClassLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ClassLogEntry, 0, len(s.state.classLogs))
	for _, e := range s.state.classLogs {
		if e.ProjectID.Valid {
			if p, ok := s.state.projects[e.ProjectID.UUID]; ok {
				e.ProjectTitle = ptrOf(p.Title)
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Media

func (s *MemoryStore) CreateMediaAsset(ctx context.Context, in *models.MediaAsset) (*models.MediaAsset, error) {
	defer s.writeGate()()
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(in.MediaURL) == "" || !in.Kind.Valid() {
		return nil, apperr.Validation("invalid media asset")
	}
	if in.ProjectID.Valid == in.ClassLogID.Valid {
		return nil, apperr.Validation("media asset must belong to exactly one of a project or a class log entry")
	}
	if err := s.projectRef(in.ProjectID); err != nil {
		return nil, err
	}
	if in.ClassLogID.Valid {
		if _, ok := s.state.classLogs[in.ClassLogID.UUID]; !ok {
			return nil, apperr.NotFound("referenced class log entry not found")
		}
	}
	m := models.MediaAsset{
		ID:          in.ID,
		MediaURL:    in.MediaURL,
		Title:       blankToNil(in.Title),
		Description: in.Description,
		Kind:        in.Kind,
		ProjectID:   in.ProjectID,
		ClassLogID:  in.ClassLogID,
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = s.tick()
	s.state.media[m.ID] = m
	return &m, nil
}

func (s *MemoryStore) GetMediaAsset(ctx context.Context, id uuid.UUID) (*models.MediaAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.state.media[id]
	if !ok {
		return nil, apperr.NotFound("media asset not found")
	}
	return &m, nil
}

func (s *MemoryStore) UpdateMediaAssetMetadata(ctx context.Context, id uuid.UUID, patch models.MediaPatch) (*models.MediaAsset, error) {
	defer s.writeGate()()
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.state.media[id]
	if !ok {
		return nil, apperr.NotFound("media asset not found")
	}
	m.Title = optionalTextPatch(m.Title, patch.Title)
	m.Description = textPatch(m.Description, patch.Description)
	s.state.media[id] = m
	return &m, nil
}

func (s *MemoryStore) ListMediaAssets(ctx context.Context, filter models.MediaFilter) ([]models.MediaAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.MediaAsset, 0)
	for _, m := range s.state.media {
		if !filter.Matches(m) {
			continue
		}
		if m.ProjectID.Valid {
			if p, ok := s.state.projects[m.ProjectID.UUID]; ok {
				m.ProjectTitle = ptrOf(p.Title)
			}
		}
		if m.ClassLogID.Valid {
			if c, ok := s.state.classLogs[m.ClassLogID.UUID]; ok {
				m.ClassLogTitle = ptrOf(c.Title)
			}
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Plans

func (s *MemoryStore) CreatePlanDocument(ctx context.Context, in *models.PlanDocument) (*models.PlanDocument, error) {
	defer s.writeGate()()
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("invalid plan document")
	}
	if err := s.projectRef(in.ProjectID); err != nil {
		return nil, err
	}
	d := models.PlanDocument{
		ID:            in.ID,
		Title:         in.Title,
		Description:   in.Description,
		CoverImageURL: blankToNil(in.CoverImageURL),
		ProjectID:     in.ProjectID,
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = s.tick()
	d.UpdatedAt = d.CreatedAt
	s.state.plans[d.ID] = d
	return &d, nil
}

func (s *MemoryStore) GetPlanDocument(ctx context.Context, id uuid.UUID) (*models.PlanDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.state.plans[id]
	if !ok {
		return nil, apperr.NotFound("plan document not found")
	}
	return &d, nil
}

func (s *MemoryStore) UpdatePlanDocument(ctx context.Context, id uuid.UUID, patch models.PlanDocumentPatch) (*models.PlanDocument, error) {
	defer s.writeGate()()
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.state.plans[id]
	if !ok {
		return nil, apperr.NotFound("plan document not found")
	}
	if err := s.projectRef(patch.ProjectID.ID); patch.ProjectID.Set && err != nil {
		return nil, err
	}
	d.Title = textPatch(d.Title, patch.Title)
	d.Description = textPatch(d.Description, patch.Description)
	d.CoverImageURL = optionalTextPatch(d.CoverImageURL, patch.CoverImageURL)
	d.ProjectID = patch.ProjectID.Apply(d.ProjectID)
	d.UpdatedAt = s.tick()
	s.state.plans[id] = d
	return &d, nil
}

func (s *MemoryStore) ListPlanDocuments(ctx context.Context) ([]models.PlanDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.PlanDocument, 0, len(s.state.plans))
	for _, d := range s.state.plans {
		if d.ProjectID.Valid {
			if p, ok := s.state.projects[d.ProjectID.UUID]; ok {
				d.ProjectTitle = ptrOf(p.Title)
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CreatePlanFile(ctx context.Context, in *models.PlanFile) (*models.PlanFile, error) {
	defer s.writeGate()()
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(in.FileURL) == "" {
		return nil, apperr.Validation("invalid plan file")
	}
	if _, ok := s.state.plans[in.PlanDocumentID]; !ok {
		return nil, apperr.NotFound("referenced plan document not found")
	}
	f := models.PlanFile{
		ID:             in.ID,
		PlanDocumentID: in.PlanDocumentID,
		FileURL:        in.FileURL,
		FileKind:       in.FileKind,
		Title:          blankToNil(in.Title),
		Description:    blankToNil(in.Description),
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = s.tick()
	s.state.planFiles[f.ID] = f
	return &f, nil
}

func (s *MemoryStore) UpdatePlanFileMetadata(ctx context.Context, id uuid.UUID, patch models.PlanFilePatch) (*models.PlanFile, error) {
	defer s.writeGate()()
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.state.planFiles[id]
	if !ok {
		return nil, apperr.NotFound("plan file not found")
	}
	f.Title = optionalTextPatch(f.Title, patch.Title)
	f.Description = optionalTextPatch(f.Description, patch.Description)
	s.state.planFiles[id] = f
	return &f, nil
}

func (s *MemoryStore) ListPlanFiles(ctx context.Context, planDocumentID uuid.UUID) ([]models.PlanFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.PlanFile, 0)
	for _, f := range s.state.planFiles {
		if f.PlanDocumentID == planDocumentID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Users

func (s *MemoryStore) CreateUser(ctx context.Context, in *models.User) (*models.User, error) {
	defer s.writeGate()()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.state.users[in.Name]; exists {
		return nil, apperr.Conflict("user already exists", nil)
	}
	return s.insertUser(in), nil
}

func (s *MemoryStore) EnsureUser(ctx context.Context, in *models.User) (bool, error) {
	defer s.writeGate()()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.state.users[in.Name]; exists {
		return false, nil
	}
	s.insertUser(in)
	return true, nil
}

// insertUser assumes mu is held and the name is free.
func (s *MemoryStore) insertUser(in *models.User) *models.User {
	u := *in
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = models.RoleViewer
	}
	u.CreatedAt = s.tick()
	s.state.users[u.Name] = u
	return &u
}

func (s *MemoryStore) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.state.users[name]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return &u, nil
}

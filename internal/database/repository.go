package database

import (
	"context"

	"github.com/google/uuid"
	"bitacora-backend/internal/models"
)

// Repository is the set of single-row primitives the orchestrator composes.
// Updates follow coalesce semantics and report NotFound when no row matched.
type Repository interface {
	CreateProject(ctx context.Context, p *models.Project) (*models.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, patch models.ProjectPatch) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)

	CountClassLogEntries(ctx context.Context, projectID uuid.UUID) (int, error)
	CountMediaAssets(ctx context.Context, projectID uuid.UUID) (int, error)
	SetProjectCounts(ctx context.Context, id uuid.UUID, claseCount, imagenCount int) (*models.Project, error)

	CreateClassLogEntry(ctx context.Context, e *models.ClassLogEntry) (*models.ClassLogEntry, error)
	GetClassLogEntry(ctx context.Context, id uuid.UUID) (*models.ClassLogEntry, error)
	UpdateClassLogEntry(ctx context.Context, id uuid.UUID, patch models.ClassLogPatch) (*models.ClassLogEntry, error)
	ListClassLogEntries(ctx context.Context) ([]models.ClassLogEntry, error)

	CreateMediaAsset(ctx context.Context, m *models.MediaAsset) (*models.MediaAsset, error)
	GetMediaAsset(ctx context.Context, id uuid.UUID) (*models.MediaAsset, error)
	UpdateMediaAssetMetadata(ctx context.Context, id uuid.UUID, patch models.MediaPatch) (*models.MediaAsset, error)
	ListMediaAssets(ctx context.Context, filter models.MediaFilter) ([]models.MediaAsset, error)

	CreatePlanDocument(ctx context.Context, d *models.PlanDocument) (*models.PlanDocument, error)
	GetPlanDocument(ctx context.Context, id uuid.UUID) (*models.PlanDocument, error)
	UpdatePlanDocument(ctx context.Context, id uuid.UUID, patch models.PlanDocumentPatch) (*models.PlanDocument, error)
	ListPlanDocuments(ctx context.Context) ([]models.PlanDocument, error)

	CreatePlanFile(ctx context.Context, f *models.PlanFile) (*models.PlanFile, error)
	UpdatePlanFileMetadata(ctx context.Context, id uuid.UUID, patch models.PlanFilePatch) (*models.PlanFile, error)
	ListPlanFiles(ctx context.Context, planDocumentID uuid.UUID) ([]models.PlanFile, error)

	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	// EnsureUser inserts u unless a user with the same name exists and
	// reports whether it inserted.
	EnsureUser(ctx context.Context, u *models.User) (bool, error)
	GetUserByName(ctx context.Context, name string) (*models.User, error)
}

// Store is a Repository that can also group statements into a transaction.
type Store interface {
	Repository
	// WithTx runs fn against a transaction-bound Repository. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

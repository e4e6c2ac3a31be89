package services

import (
	"context"

	"github.com/google/uuid"
	"bitacora-backend/internal/database"
	"bitacora-backend/internal/logger"
	"bitacora-backend/internal/models"
)

// Recounter recomputes a project's derived child counts from the child
// tables. The result depends only on the current child rows, so repeated
// calls converge.
type Recounter struct {
	log *logger.Logger
}

func NewRecounter(log *logger.Logger) *Recounter {
	return &Recounter{log: log.With("component", "Recounter")}
}

// RecomputeProjectCounts runs against repo so callers can place it inside
// the transaction of the write that changed the children. repo must be
// transaction-bound: the project row is locked before counting, so a
// concurrent writer's recount waits for this one to commit and then counts
// its rows too.
func (r *Recounter) RecomputeProjectCounts(ctx context.Context, repo database.Repository, projectID uuid.UUID) (*models.Project, error) {
	if _, err := repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	claseCount, err := repo.CountClassLogEntries(ctx, projectID)
	if err != nil {
		return nil, err
	}
	imagenCount, err := repo.CountMediaAssets(ctx, projectID)
	if err != nil {
		return nil, err
	}

	project, err := repo.SetProjectCounts(ctx, projectID, claseCount, imagenCount)
	if err != nil {
		return nil, err
	}

	r.log.Debug("recounted project",
		"project_id", projectID.String(),
		"clase_count", claseCount,
		"imagen_count", imagenCount,
	)
	return project, nil
}

package services

import (
	"context"

	"github.com/google/uuid"
	"bitacora-backend/internal/apperr"
	"bitacora-backend/internal/database"
	"bitacora-backend/internal/models"
)

// CreateClassLogEntry inserts the entry and, when it is linked to a
// project, recounts that project in the same transaction.
func (o *Orchestrator) CreateClassLogEntry(ctx context.Context, req models.CreateClassLogRequest) (*models.ClassLogEntry, error) {
	trim(&req.Title, &req.Description, &req.Date, &req.ProjectID)
	if err := checkStruct(o.validate, &req); err != nil {
		return nil, err
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}
	projectID, err := parseOptionalUUID("project_id", req.ProjectID)
	if err != nil {
		return nil, err
	}

	var created *models.ClassLogEntry
	err = o.store.WithTx(ctx, func(repo database.Repository) error {
		entry, err := repo.CreateClassLogEntry(ctx, &models.ClassLogEntry{
			ID:          uuid.New(),
			Title:       req.Title,
			Description: req.Description,
			Date:        date,
			ProjectID:   projectID,
		})
		if err != nil {
			return err
		}
		created = entry
		return o.recountAll(ctx, repo, entry.ProjectID)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (o *Orchestrator) GetClassLogEntry(ctx context.Context, id uuid.UUID) (*models.ClassLogEntry, error) {
	return o.store.GetClassLogEntry(ctx, id)
}

func (o *Orchestrator) ListClassLogEntries(ctx context.Context) ([]models.ClassLogEntry, error) {
	return o.store.ListClassLogEntries(ctx)
}

// UpdateClassLogEntry applies a coalesce update. When the project link
// changes, both the previous and the new project are recounted before the
// transaction commits; an unchanged link triggers no recount.
func (o *Orchestrator) UpdateClassLogEntry(ctx context.Context, id uuid.UUID, patch models.ClassLogPatch) (*models.ClassLogEntry, error) {
	var updated *models.ClassLogEntry
	err := o.store.WithTx(ctx, func(repo database.Repository) error {
		current, err := repo.GetClassLogEntry(ctx, id)
		if err != nil {
			return err
		}

		entry, err := repo.UpdateClassLogEntry(ctx, id, patch)
		if err != nil {
			return err
		}
		updated = entry

		if !patch.ProjectID.Changes(current.ProjectID) {
			return nil
		}
		o.log.Info("class log entry reassigned",
			"entry_id", id.String(),
			"from_project", nullUUIDString(current.ProjectID),
			"to_project", nullUUIDString(entry.ProjectID),
		)
		return o.recountAll(ctx, repo, current.ProjectID, entry.ProjectID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func nullUUIDString(id uuid.NullUUID) string {
	if !id.Valid {
		return ""
	}
	return id.UUID.String()
}

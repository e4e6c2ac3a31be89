package services

import (
	"context"

	"github.com/google/uuid"
	"bitacora-backend/internal/apperr"
	"bitacora-backend/internal/assets"
	"bitacora-backend/internal/database"
	"bitacora-backend/internal/models"
)

// CreateMediaAsset links a media row to exactly one owner: a project or a
// class-log entry. The media URL is either given or obtained by uploading
// payload. A project-owned asset recounts its project in the same
// transaction as the insert.
func (o *Orchestrator) CreateMediaAsset(ctx context.Context, req models.CreateMediaRequest, payload *assets.Payload) (*models.MediaAsset, error) {
	trim(&req.MediaURL, &req.Title, &req.Description, &req.Kind, &req.ProjectID, &req.ClassLogID)
	if err := checkStruct(o.validate, &req); err != nil {
		return nil, err
	}
	projectID, err := parseOptionalUUID("project_id", req.ProjectID)
	if err != nil {
		return nil, err
	}
	classLogID, err := parseOptionalUUID("class_log_id", req.ClassLogID)
	if err != nil {
		return nil, err
	}
	if projectID.Valid == classLogID.Valid {
		return nil, apperr.Validation("exactly one of project_id or class_log_id is required")
	}
	if payload == nil && req.MediaURL == "" {
		return nil, apperr.Validation("media_url or a file is required")
	}

	kind := models.MediaKind(req.Kind)
	var obj assets.Object
	mediaURL := req.MediaURL
	if payload != nil {
		class := assets.ClassGallery
		if classLogID.Valid {
			class = assets.ClassClassLog
		}
		obj, err = o.upload(ctx, *payload, class)
		if err != nil {
			return nil, err
		}
		mediaURL = obj.URL
		if kind == "" {
			kind = models.MediaKindFromContentType(assets.ContentType(*payload))
		}
	}
	if kind == "" {
		kind = models.MediaKindImage
	}

	var created *models.MediaAsset
	err = o.store.WithTx(ctx, func(repo database.Repository) error {
		media, err := repo.CreateMediaAsset(ctx, &models.MediaAsset{
			ID:          uuid.New(),
			MediaURL:    mediaURL,
			Title:       optionalString(req.Title),
			Description: req.Description,
			Kind:        kind,
			ProjectID:   projectID,
			ClassLogID:  classLogID,
		})
		if err != nil {
			return err
		}
		created = media
		return o.recountAll(ctx, repo, media.ProjectID)
	})
	if err != nil {
		o.discard(ctx, obj)
		return nil, err
	}
	return created, nil
}

func (o *Orchestrator) UpdateMediaAssetMetadata(ctx context.Context, id uuid.UUID, patch models.MediaPatch) (*models.MediaAsset, error) {
	return o.store.UpdateMediaAssetMetadata(ctx, id, patch)
}

func (o *Orchestrator) ListMediaAssets(ctx context.Context, filter models.MediaFilter) ([]models.MediaAsset, error) {
	return o.store.ListMediaAssets(ctx, filter)
}

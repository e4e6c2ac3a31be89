package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"bitacora-backend/internal/apperr"
	"bitacora-backend/internal/assets"
	"bitacora-backend/internal/models"
)

// CreatePlanDocument inserts a plan, uploading cover first when given.
func (o *Orchestrator) CreatePlanDocument(ctx context.Context, req models.CreatePlanDocumentRequest, cover *assets.Payload) (*models.PlanDocument, error) {
	trim(&req.Title, &req.Description, &req.CoverImageURL, &req.ProjectID)
	if err := checkStruct(o.validate, &req); err != nil {
		return nil, err
	}
	projectID, err := parseOptionalUUID("project_id", req.ProjectID)
	if err != nil {
		return nil, err
	}

	doc := &models.PlanDocument{
		ID:            uuid.New(),
		Title:         req.Title,
		Description:   req.Description,
		CoverImageURL: optionalString(req.CoverImageURL),
		ProjectID:     projectID,
	}

	var obj assets.Object
	if cover != nil {
		obj, err = o.upload(ctx, *cover, assets.ClassCover)
		if err != nil {
			return nil, err
		}
		doc.CoverImageURL = &obj.URL
	}

	created, err := o.store.CreatePlanDocument(ctx, doc)
	if err != nil {
		o.discard(ctx, obj)
		return nil, err
	}
	return created, nil
}

func (o *Orchestrator) GetPlanDocument(ctx context.Context, id uuid.UUID) (*models.PlanDocument, error) {
	return o.store.GetPlanDocument(ctx, id)
}

func (o *Orchestrator) ListPlanDocuments(ctx context.Context) ([]models.PlanDocument, error) {
	return o.store.ListPlanDocuments(ctx)
}

// UpdatePlanDocument requires a title on every update; other fields coalesce.
func (o *Orchestrator) UpdatePlanDocument(ctx context.Context, id uuid.UUID, patch models.PlanDocumentPatch) (*models.PlanDocument, error) {
	if patch.Title == nil || strings.TrimSpace(*patch.Title) == "" {
		return nil, apperr.Validation("title is required")
	}
	return o.store.UpdatePlanDocument(ctx, id, patch)
}

// CreatePlanFile attaches a file to a plan. The file URL is either given
// or obtained by uploading payload.
func (o *Orchestrator) CreatePlanFile(ctx context.Context, planID uuid.UUID, req models.CreatePlanFileRequest, payload *assets.Payload) (*models.PlanFile, error) {
	trim(&req.FileURL, &req.FileKind, &req.Title, &req.Description)
	if err := checkStruct(o.validate, &req); err != nil {
		return nil, err
	}
	if payload == nil && req.FileURL == "" {
		return nil, apperr.Validation("file_url or a file is required")
	}
	if payload == nil && req.FileKind == "" {
		return nil, apperr.Validation("file_kind is required")
	}

	if _, err := o.store.GetPlanDocument(ctx, planID); err != nil {
		return nil, err
	}

	file := &models.PlanFile{
		ID:             uuid.New(),
		PlanDocumentID: planID,
		FileURL:        req.FileURL,
		FileKind:       req.FileKind,
		Title:          optionalString(req.Title),
		Description:    optionalString(req.Description),
	}

	var obj assets.Object
	if payload != nil {
		var err error
		obj, err = o.upload(ctx, *payload, assets.ClassPlanFile)
		if err != nil {
			return nil, err
		}
		file.FileURL = obj.URL
		if file.FileKind == "" {
			file.FileKind = assets.ContentType(*payload)
		}
		if file.Title == nil {
			file.Title = optionalString(payload.Filename)
		}
	}

	created, err := o.store.CreatePlanFile(ctx, file)
	if err != nil {
		o.discard(ctx, obj)
		return nil, err
	}
	return created, nil
}

func (o *Orchestrator) UpdatePlanFileMetadata(ctx context.Context, id uuid.UUID, patch models.PlanFilePatch) (*models.PlanFile, error) {
	return o.store.UpdatePlanFileMetadata(ctx, id, patch)
}

// ListPlanFilesForDocument returns the plan's files in upload order.
func (o *Orchestrator) ListPlanFilesForDocument(ctx context.Context, planID uuid.UUID) ([]models.PlanFile, error) {
	if _, err := o.store.GetPlanDocument(ctx, planID); err != nil {
		return nil, err
	}
	return o.store.ListPlanFiles(ctx, planID)
}

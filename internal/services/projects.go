package services

import (
	"context"

	"github.com/google/uuid"
	"bitacora-backend/internal/apperr"
	"bitacora-backend/internal/assets"
	"bitacora-backend/internal/database"
	"bitacora-backend/internal/models"
)

func (o *Orchestrator) newProject(req *models.CreateProjectRequest) (*models.Project, error) {
	trim(&req.Title, &req.Description, &req.StartDate, &req.CoverImageURL)
	if err := checkStruct(o.validate, req); err != nil {
		return nil, err
	}
	startDate, err := models.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}
	return &models.Project{
		ID:            uuid.New(),
		Title:         req.Title,
		Description:   req.Description,
		StartDate:     startDate,
		CoverImageURL: optionalString(req.CoverImageURL),
	}, nil
}

// CreateProject inserts a project with no children; counts start at zero.
func (o *Orchestrator) CreateProject(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	project, err := o.newProject(&req)
	if err != nil {
		return nil, err
	}
	created, err := o.store.CreateProject(ctx, project)
	if err != nil {
		return nil, err
	}
	o.log.Info("created project", "project_id", created.ID.String())
	return created, nil
}

// CreateProjectWithAssets uploads the optional cover, inserts the project,
// mirrors an uploaded cover as a gallery row and then uploads and links each
// extra file in order.
//
// Only the project insert decides success. Once it is persisted, a failing
// child step stops the remaining children and the result is returned with
// Incomplete set; the error is not returned. Objects uploaded without a row
// referencing them are removed best-effort.
func (o *Orchestrator) CreateProjectWithAssets(ctx context.Context, req models.CreateProjectRequest, cover *assets.Payload, extras []assets.Payload) (*models.ProjectCreated, error) {
	project, err := o.newProject(&req)
	if err != nil {
		return nil, err
	}

	var coverObj *assets.Object
	if cover != nil {
		obj, err := o.upload(ctx, *cover, assets.ClassCover)
		if err != nil {
			return nil, err
		}
		coverObj = &obj
		project.CoverImageURL = &obj.URL
	}

	created, err := o.store.CreateProject(ctx, project)
	if err != nil {
		if coverObj != nil {
			o.discard(ctx, *coverObj)
		}
		return nil, err
	}
	log := o.log.With("project_id", created.ID.String())
	log.Info("created project", "extra_files", len(extras), "cover_uploaded", coverObj != nil)

	result := &models.ProjectCreated{Project: created, Media: make([]models.MediaAsset, 0, len(extras)+1)}
	projectRef := uuid.NullUUID{UUID: created.ID, Valid: true}

	fail := func(filename string, err error) {
		log.Error("project child step failed", "filename", filename, "error", err)
		result.Incomplete = true
		result.FailedFile = filename
		result.Error = publicMessage(err)
	}

	// The cover object stays even if its gallery row fails: the project
	// row already references it.
	if coverObj != nil {
		media, err := o.store.CreateMediaAsset(ctx, &models.MediaAsset{
			MediaURL:  coverObj.URL,
			Kind:      models.MediaKindFromContentType(assets.ContentType(*cover)),
			ProjectID: projectRef,
		})
		if err != nil {
			fail(cover.Filename, err)
		} else {
			result.Media = append(result.Media, *media)
		}
	}

	// Sequential on purpose: upload order is display order.
	for _, payload := range extras {
		if result.Incomplete {
			break
		}
		obj, err := o.upload(ctx, payload, assets.ClassGallery)
		if err != nil {
			fail(payload.Filename, err)
			break
		}
		media, err := o.store.CreateMediaAsset(ctx, &models.MediaAsset{
			MediaURL:  obj.URL,
			Kind:      models.MediaKindFromContentType(assets.ContentType(payload)),
			ProjectID: projectRef,
		})
		if err != nil {
			o.discard(ctx, obj)
			fail(payload.Filename, err)
			break
		}
		result.Media = append(result.Media, *media)
	}

	if len(result.Media) > 0 {
		recounted, err := o.recount(ctx, created.ID)
		if err != nil {
			// Counts converge on the next recount of this project.
			log.Warn("recount after project creation failed", "error", err)
		} else {
			result.Project = recounted
		}
	}

	return result, nil
}

func (o *Orchestrator) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return o.store.GetProject(ctx, id)
}

func (o *Orchestrator) ListProjectsWithCounts(ctx context.Context) ([]models.Project, error) {
	return o.store.ListProjects(ctx)
}

// UpdateProject applies a coalesce update and then recomputes both counts
// from the child tables, even when no field changed.
func (o *Orchestrator) UpdateProject(ctx context.Context, id uuid.UUID, patch models.ProjectPatch) (*models.Project, error) {
	var updated *models.Project
	err := o.store.WithTx(ctx, func(repo database.Repository) error {
		if _, err := repo.UpdateProject(ctx, id, patch); err != nil {
			return err
		}
		recounted, err := o.recounter.RecomputeProjectCounts(ctx, repo, id)
		if err != nil {
			return err
		}
		updated = recounted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

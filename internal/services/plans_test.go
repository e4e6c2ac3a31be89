package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"bitacora-backend/internal/apperr"
	"bitacora-backend/internal/assets"
	"bitacora-backend/internal/models"
)

func TestCreatePlanDocument_WithCover(t *testing.T) {
	o, _, uploader := newOrchestrator(t)
	ctx := context.Background()

	project := mustCreateProject(t, o, "Robotics", "2024-03-01")
	cover := image("plan.png")
	doc, err := o.CreatePlanDocument(ctx, models.CreatePlanDocumentRequest{
		Title:     "Semester plan",
		ProjectID: project.ID.String(),
	}, &cover)
	require.NoError(t, err)
	require.NotNil(t, doc.CoverImageURL)
	assert.Equal(t, uploader.uploaded[0].URL, *doc.CoverImageURL)
	assert.Equal(t, nullID(project.ID), doc.ProjectID)

	docs, err := o.ListPlanDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.NotNil(t, docs[0].ProjectTitle)
	assert.Equal(t, "Robotics", *docs[0].ProjectTitle)
}

func TestCreatePlanDocument_MissingProjectRemovesCover(t *testing.T) {
	o, _, uploader := newOrchestrator(t)

	cover := image("plan.png")
	_, err := o.CreatePlanDocument(context.Background(), models.CreatePlanDocumentRequest{
		Title:     "Semester plan",
		ProjectID: newID().String(),
	}, &cover)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	require.Len(t, uploader.uploaded, 1)
	assert.Equal(t, []string{uploader.uploaded[0].Key}, uploader.removed)
}

func TestUpdatePlanDocument(t *testing.T) {
	o, _, _ := newOrchestrator(t)
	ctx := context.Background()

	project := mustCreateProject(t, o, "Robotics", "2024-03-01")
	doc, err := o.CreatePlanDocument(ctx, models.CreatePlanDocumentRequest{
		Title:       "Semester plan",
		Description: "Draft",
		ProjectID:   project.ID.String(),
	}, nil)
	require.NoError(t, err)

	_, err = o.UpdatePlanDocument(ctx, doc.ID, models.PlanDocumentPatch{Description: models.StringPtr("Final")})
	assert.ErrorIs(t, err, apperr.ErrValidation, "title is required on update")

	updated, err := o.UpdatePlanDocument(ctx, doc.ID, models.PlanDocumentPatch{
		Title:     models.StringPtr("Semester plan v2"),
		ProjectID: models.ClearID(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Semester plan v2", updated.Title)
	assert.Equal(t, "Draft", updated.Description)
	assert.False(t, updated.ProjectID.Valid)

	_, err = o.UpdatePlanDocument(ctx, newID(), models.PlanDocumentPatch{Title: models.StringPtr("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPlanFiles_UploadAndList(t *testing.T) {
	o, _, uploader := newOrchestrator(t)
	ctx := context.Background()

	doc, err := o.CreatePlanDocument(ctx, models.CreatePlanDocumentRequest{Title: "Semester plan"}, nil)
	require.NoError(t, err)

	pdf := assets.Payload{Filename: "syllabus.pdf", Data: []byte("%PDF-1.7")}
	first, err := o.CreatePlanFile(ctx, doc.ID, models.CreatePlanFileRequest{}, &pdf)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", first.FileKind)
	require.NotNil(t, first.Title)
	assert.Equal(t, "syllabus.pdf", *first.Title)
	assert.Equal(t, uploader.uploaded[0].URL, first.FileURL)
	assert.Contains(t, uploader.uploaded[0].Key, string(assets.ClassPlanFile)+"/")

	second, err := o.CreatePlanFile(ctx, doc.ID, models.CreatePlanFileRequest{
		FileURL:  "https://example.com/rubric",
		FileKind: "link",
		Title:    "Rubric",
	}, nil)
	require.NoError(t, err)

	files, err := o.ListPlanFilesForDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, first.ID, files[0].ID)
	assert.Equal(t, second.ID, files[1].ID)

	updated, err := o.UpdatePlanFileMetadata(ctx, second.ID, models.PlanFilePatch{Description: models.StringPtr("Grading")})
	require.NoError(t, err)
	require.NotNil(t, updated.Title)
	assert.Equal(t, "Rubric", *updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Grading", *updated.Description)
}

func TestPlanFiles_Errors(t *testing.T) {
	o, _, uploader := newOrchestrator(t)
	ctx := context.Background()

	_, err := o.ListPlanFilesForDocument(ctx, newID())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	pdf := assets.Payload{Filename: "syllabus.pdf", Data: []byte("%PDF-1.7")}
	_, err = o.CreatePlanFile(ctx, newID(), models.CreatePlanFileRequest{}, &pdf)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Zero(t, uploader.calls, "nothing is uploaded for a missing plan")

	doc, err := o.CreatePlanDocument(ctx, models.CreatePlanDocumentRequest{Title: "Semester plan"}, nil)
	require.NoError(t, err)
	_, err = o.CreatePlanFile(ctx, doc.ID, models.CreatePlanFileRequest{FileKind: "pdf"}, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

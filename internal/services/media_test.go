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

func TestCreateMediaAsset_RequiresExactlyOneOwner(t *testing.T) {
	o, _, _ := newOrchestrator(t)
	ctx := context.Background()

	project := mustCreateProject(t, o, "Robotics", "2024-03-01")
	entry := mustCreateClassLog(t, o, "Class 1", "2024-03-05", project.ID)

	_, err := o.CreateMediaAsset(ctx, models.CreateMediaRequest{MediaURL: "https://cdn.test/a.jpg"}, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = o.CreateMediaAsset(ctx, models.CreateMediaRequest{
		MediaURL:   "https://cdn.test/a.jpg",
		ProjectID:  project.ID.String(),
		ClassLogID: entry.ID.String(),
	}, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateMediaAsset_ProjectOwnedRecounts(t *testing.T) {
	o, _, _ := newOrchestrator(t)
	ctx := context.Background()

	project := mustCreateProject(t, o, "Robotics", "2024-03-01")
	media, err := o.CreateMediaAsset(ctx, models.CreateMediaRequest{
		MediaURL:  "https://cdn.test/a.mp4",
		Kind:      "video",
		Title:     "Demo",
		ProjectID: project.ID.String(),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MediaKindVideo, media.Kind)
	require.NotNil(t, media.Title)
	assert.Equal(t, "Demo", *media.Title)

	fetched, err := o.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.ImagenCount)
}

func TestCreateMediaAsset_ClassLogUpload(t *testing.T) {
	o, _, uploader := newOrchestrator(t)
	ctx := context.Background()

	project := mustCreateProject(t, o, "Robotics", "2024-03-01")
	entry := mustCreateClassLog(t, o, "Class 1", "2024-03-05", project.ID)

	payload := assets.Payload{Filename: "clip.mp4", Data: []byte("....ftypmp42")}
	media, err := o.CreateMediaAsset(ctx, models.CreateMediaRequest{ClassLogID: entry.ID.String()}, &payload)
	require.NoError(t, err)
	require.Len(t, uploader.uploaded, 1)
	assert.Equal(t, uploader.uploaded[0].URL, media.MediaURL)
	assert.Contains(t, uploader.uploaded[0].Key, string(assets.ClassClassLog)+"/")
	assert.Equal(t, models.MediaKindVideo, media.Kind)

	// class-log media does not count toward the project's gallery
	fetched, err := o.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fetched.ImagenCount)

	listed, err := o.ListMediaAssets(ctx, models.MediaFilter{ClassLogID: nullID(entry.ID)})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].ClassLogTitle)
	assert.Equal(t, "Class 1", *listed[0].ClassLogTitle)
}

func TestCreateMediaAsset_MissingOwnerRemovesUpload(t *testing.T) {
	o, _, uploader := newOrchestrator(t)

	payload := image("a.jpg")
	_, err := o.CreateMediaAsset(context.Background(), models.CreateMediaRequest{ProjectID: newID().String()}, &payload)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	require.Len(t, uploader.uploaded, 1)
	assert.Equal(t, []string{uploader.uploaded[0].Key}, uploader.removed)
}

func TestCreateMediaAsset_NeedsURLOrFile(t *testing.T) {
	o, _, _ := newOrchestrator(t)
	project := mustCreateProject(t, o, "Robotics", "2024-03-01")

	_, err := o.CreateMediaAsset(context.Background(), models.CreateMediaRequest{ProjectID: project.ID.String()}, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateMediaAssetMetadata_Coalesce(t *testing.T) {
	o, _, _ := newOrchestrator(t)
	ctx := context.Background()

	project := mustCreateProject(t, o, "Robotics", "2024-03-01")
	media, err := o.CreateMediaAsset(ctx, models.CreateMediaRequest{
		MediaURL:    "https://cdn.test/a.jpg",
		Title:       "Front",
		Description: "Chassis",
		ProjectID:   project.ID.String(),
	}, nil)
	require.NoError(t, err)

	updated, err := o.UpdateMediaAssetMetadata(ctx, media.ID, models.MediaPatch{Description: models.StringPtr("Chassis v2")})
	require.NoError(t, err)
	require.NotNil(t, updated.Title)
	assert.Equal(t, "Front", *updated.Title)
	assert.Equal(t, "Chassis v2", updated.Description)
	assert.Equal(t, media.MediaURL, updated.MediaURL)

	_, err = o.UpdateMediaAssetMetadata(ctx, newID(), models.MediaPatch{Title: models.StringPtr("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

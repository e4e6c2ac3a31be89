package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"bitacora-backend/internal/models"
)

func TestMedia_CreateAndFilter(t *testing.T) {
	env := newTestEnv(t)
	a := createProject(t, env, "A")
	b := createProject(t, env, "B")

	w := env.doJSON(t, "POST", "/api/v1/media", env.admin, models.CreateMediaRequest{
		MediaURL:  "https://cdn.test/a.jpg",
		ProjectID: a.ID.String(),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body, contentType := multipartBody(t,
		map[string]string{"project_id": b.ID.String(), "title": "Demo"},
		formFile{field: "file", filename: "demo.mp4", contentType: "video/mp4", data: []byte("....ftypmp42")},
	)
	w = env.do(t, "POST", "/api/v1/media", env.admin, body, contentType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var uploaded models.MediaAsset
	decode(t, w, &uploaded)
	assert.Equal(t, models.MediaKindVideo, uploaded.Kind)

	w = env.do(t, "GET", "/api/v1/media?project_id="+b.ID.String(), env.viewer, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list models.MediaListResponse
	decode(t, w, &list)
	require.Len(t, list.Media, 1)
	assert.Equal(t, uploaded.ID, list.Media[0].ID)
	require.NotNil(t, list.Media[0].ProjectTitle)
	assert.Equal(t, "B", *list.Media[0].ProjectTitle)

	w = env.do(t, "GET", "/api/v1/media", env.viewer, nil, "")
	decode(t, w, &list)
	assert.Len(t, list.Media, 2)

	w = env.do(t, "GET", "/api/v1/media?project_id=bogus", env.viewer, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(t, "PATCH", "/api/v1/media/"+uploaded.ID.String(), env.admin, models.MediaPatch{Description: models.StringPtr("Run 3")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &uploaded)
	assert.Equal(t, "Run 3", uploaded.Description)
	require.NotNil(t, uploaded.Title)
	assert.Equal(t, "Demo", *uploaded.Title)
}

func TestMedia_OwnerRequired(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, "POST", "/api/v1/media", env.admin, models.CreateMediaRequest{MediaURL: "https://cdn.test/a.jpg"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "validation_error", resp.Error)
}

package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"bitacora-backend/internal/models"
)

func TestPlans_DocumentAndFiles(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Semester plan"},
		formFile{field: "cover", filename: "plan.png", contentType: "image/png", data: []byte("\x89PNG\r\n\x1a\n")},
	)
	w := env.do(t, "POST", "/api/v1/plans", env.admin, body, contentType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var doc models.PlanDocument
	decode(t, w, &doc)
	require.NotNil(t, doc.CoverImageURL)
	planPath := "/api/v1/plans/" + doc.ID.String()

	body, contentType = multipartBody(t, nil,
		formFile{field: "file", filename: "syllabus.pdf", contentType: "application/pdf", data: []byte("%PDF-1.7")},
	)
	w = env.do(t, "POST", planPath+"/files", env.admin, body, contentType)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var file models.PlanFile
	decode(t, w, &file)
	assert.Equal(t, "application/pdf", file.FileKind)

	w = env.doJSON(t, "POST", planPath+"/files", env.admin, models.CreatePlanFileRequest{
		FileURL:  "https://example.com/rubric",
		FileKind: "link",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, "GET", planPath+"/files", env.viewer, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var files models.PlanFileListResponse
	decode(t, w, &files)
	require.Len(t, files.Files, 2)
	assert.Equal(t, file.ID, files.Files[0].ID)

	w = env.doJSON(t, "PATCH", "/api/v1/plan-files/"+file.ID.String(), env.admin, models.PlanFilePatch{Title: models.StringPtr("Syllabus")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.doJSON(t, "PATCH", planPath, env.admin, map[string]interface{}{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(t, "PATCH", planPath, env.admin, map[string]interface{}{"title": "Semester plan v2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, "GET", planPath, env.viewer, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &doc)
	assert.Equal(t, "Semester plan v2", doc.Title)

	w = env.do(t, "GET", "/api/v1/plans", env.viewer, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var plans models.PlanListResponse
	decode(t, w, &plans)
	assert.Len(t, plans.Plans, 1)
}

func TestPlans_MissingDocument(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/api/v1/plans/6f1c2b1e-4a57-4b9e-9d7e-3f0f3b1a2c4d/files", env.viewer, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

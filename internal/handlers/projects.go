package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"bitacora-backend/internal/logger"
	"bitacora-backend/internal/models"
	"bitacora-backend/internal/services"
)

type ProjectsHandler struct {
	orchestrator   *services.Orchestrator
	maxUploadBytes int64
	log            *logger.Logger
}

func NewProjectsHandler(orchestrator *services.Orchestrator, maxUploadBytes int64, log *logger.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		orchestrator:   orchestrator,
		maxUploadBytes: maxUploadBytes,
		log:            log.With("handler", "projects"),
	}
}

// CreateProject godoc
// @Summary     Create a project
// @Description Creates a project from JSON, or from a multipart form with an optional
// @Description cover and any number of gallery files. Files are uploaded in order; the
// @Description first failing file stops the rest and the response is marked incomplete.
// @Tags        projects
// @Accept      json,mpfd
// @Produce     json
// @Security    Bearer
// @Param       title      formData string true  "Project title"
// @Param       start_date formData string true  "Start date (YYYY-MM-DD)"
// @Param       cover      formData file   false "Cover image"
// @Param       files      formData file   false "Gallery files"
// @Success     201 {object} models.ProjectCreated
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /projects [post]
func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest

	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body", err)
			return
		}
		project, err := h.orchestrator.CreateProject(c.Request.Context(), req)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusCreated, models.ProjectCreated{Project: project, Media: []models.MediaAsset{}})
		return
	}

	form, err := parseMultipart(c, h.maxUploadBytes)
	if err != nil {
		multipartFailed(c, err)
		return
	}
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid form fields", err)
		return
	}
	cover, err := formFile(form, "cover", "cover_image")
	if err != nil {
		badRequest(c, "failed to read cover", err)
		return
	}
	extras, err := formFiles(form, "files", "images", "media")
	if err != nil {
		badRequest(c, "failed to read files", err)
		return
	}

	result, err := h.orchestrator.CreateProjectWithAssets(c.Request.Context(), req, cover, extras)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListProjects godoc
// @Summary     List projects
// @Description Lists projects with their class-log and media counts, newest start date first
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.ProjectListResponse
// @Router      /projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	projects, err := h.orchestrator.ListProjectsWithCounts(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectListResponse{Projects: projects})
}

// GetProject godoc
// @Summary     Get a project
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Success     200 {object} models.Project
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id} [get]
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	project, err := h.orchestrator.GetProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// UpdateProject godoc
// @Summary     Update a project
// @Description Empty or missing fields keep their stored values. Counts are recomputed.
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path string              true "Project ID (UUID)"
// @Param       request    body models.ProjectPatch true "Fields to change"
// @Success     200 {object} models.Project
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id} [patch]
func (h *ProjectsHandler) UpdateProject(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	var patch models.ProjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	project, err := h.orchestrator.UpdateProject(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"bitacora-backend/internal/assets"
	"bitacora-backend/internal/logger"
	"bitacora-backend/internal/models"
	"bitacora-backend/internal/services"
)

type MediaHandler struct {
	orchestrator   *services.Orchestrator
	maxUploadBytes int64
	log            *logger.Logger
}

func NewMediaHandler(orchestrator *services.Orchestrator, maxUploadBytes int64, log *logger.Logger) *MediaHandler {
	return &MediaHandler{
		orchestrator:   orchestrator,
		maxUploadBytes: maxUploadBytes,
		log:            log.With("handler", "media"),
	}
}

// CreateMediaAsset godoc
// @Summary     Create a media asset
// @Description Links media to exactly one of a project or a class-log entry. Send
// @Description media_url as JSON, or upload the file as multipart.
// @Tags        media
// @Accept      json,mpfd
// @Produce     json
// @Security    Bearer
// @Param       file         formData file   false "Media file"
// @Param       project_id   formData string false "Owning project"
// @Param       class_log_id formData string false "Owning class-log entry"
// @Success     201 {object} models.MediaAsset
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /media [post]
func (h *MediaHandler) CreateMediaAsset(c *gin.Context) {
	var req models.CreateMediaRequest
	var payload *assets.Payload

	if isMultipart(c) {
		form, err := parseMultipart(c, h.maxUploadBytes)
		if err != nil {
			multipartFailed(c, err)
			return
		}
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, "invalid form fields", err)
			return
		}
		payload, err = formFile(form, "file", "media", "image")
		if err != nil {
			badRequest(c, "failed to read file", err)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	media, err := h.orchestrator.CreateMediaAsset(c.Request.Context(), req, payload)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, media)
}

// ListMediaAssets godoc
// @Summary     List media assets
// @Description Oldest first. Filter by project_id or class_log_id.
// @Tags        media
// @Produce     json
// @Security    Bearer
// @Param       project_id   query string false "Project ID (UUID)"
// @Param       class_log_id query string false "Class-log entry ID (UUID)"
// @Success     200 {object} models.MediaListResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /media [get]
func (h *MediaHandler) ListMediaAssets(c *gin.Context) {
	var filter models.MediaFilter
	if s := c.Query("project_id"); s != "" {
		id, err := models.ParseOptionalID(s)
		if err != nil || !id.ID.Valid {
			badRequest(c, "invalid project id", nil)
			return
		}
		filter.ProjectID = id.ID
	}
	if s := c.Query("class_log_id"); s != "" {
		id, err := models.ParseOptionalID(s)
		if err != nil || !id.ID.Valid {
			badRequest(c, "invalid class log id", nil)
			return
		}
		filter.ClassLogID = id.ID
	}

	media, err := h.orchestrator.ListMediaAssets(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.MediaListResponse{Media: media})
}

// UpdateMediaAsset godoc
// @Summary     Update media metadata
// @Tags        media
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       media_id path string            true "Media ID (UUID)"
// @Param       request  body models.MediaPatch true "Fields to change"
// @Success     200 {object} models.MediaAsset
// @Failure     404 {object} models.ErrorResponse
// @Router      /media/{media_id} [patch]
func (h *MediaHandler) UpdateMediaAsset(c *gin.Context) {
	id, ok := pathID(c, "media_id")
	if !ok {
		return
	}
	var patch models.MediaPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	media, err := h.orchestrator.UpdateMediaAssetMetadata(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

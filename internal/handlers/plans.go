package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"bitacora-backend/internal/assets"
	"bitacora-backend/internal/logger"
	"bitacora-backend/internal/models"
	"bitacora-backend/internal/services"
)

type PlansHandler struct {
	orchestrator   *services.Orchestrator
	maxUploadBytes int64
	log            *logger.Logger
}

func NewPlansHandler(orchestrator *services.Orchestrator, maxUploadBytes int64, log *logger.Logger) *PlansHandler {
	return &PlansHandler{
		orchestrator:   orchestrator,
		maxUploadBytes: maxUploadBytes,
		log:            log.With("handler", "plans"),
	}
}

// CreatePlanDocument godoc
// @Summary     Create a plan document
// @Tags        plans
// @Accept      json,mpfd
// @Produce     json
// @Security    Bearer
// @Param       title formData string true  "Plan title"
// @Param       cover formData file   false "Cover image"
// @Success     201 {object} models.PlanDocument
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /plans [post]
func (h *PlansHandler) CreatePlanDocument(c *gin.Context) {
	var req models.CreatePlanDocumentRequest
	var cover *assets.Payload

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
		cover, err = formFile(form, "cover", "cover_image")
		if err != nil {
			badRequest(c, "failed to read cover", err)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	doc, err := h.orchestrator.CreatePlanDocument(c.Request.Context(), req, cover)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// ListPlanDocuments godoc
// @Summary     List plan documents
// @Tags        plans
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.PlanListResponse
// @Router      /plans [get]
func (h *PlansHandler) ListPlanDocuments(c *gin.Context) {
	docs, err := h.orchestrator.ListPlanDocuments(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.PlanListResponse{Plans: docs})
}

// GetPlanDocument godoc
// @Summary     Get a plan document
// @Tags        plans
// @Produce     json
// @Security    Bearer
// @Param       plan_id path string true "Plan ID (UUID)"
// @Success     200 {object} models.PlanDocument
// @Failure     404 {object} models.ErrorResponse
// @Router      /plans/{plan_id} [get]
func (h *PlansHandler) GetPlanDocument(c *gin.Context) {
	id, ok := pathID(c, "plan_id")
	if !ok {
		return
	}
	doc, err := h.orchestrator.GetPlanDocument(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// UpdatePlanDocument godoc
// @Summary     Update a plan document
// @Description title is required on every update.
// @Tags        plans
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       plan_id path string                   true "Plan ID (UUID)"
// @Param       request body models.PlanDocumentPatch true "Fields to change"
// @Success     200 {object} models.PlanDocument
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /plans/{plan_id} [patch]
func (h *PlansHandler) UpdatePlanDocument(c *gin.Context) {
	id, ok := pathID(c, "plan_id")
	if !ok {
		return
	}
	var patch models.PlanDocumentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	doc, err := h.orchestrator.UpdatePlanDocument(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// CreatePlanFile godoc
// @Summary     Attach a file to a plan
// @Tags        plans
// @Accept      json,mpfd
// @Produce     json
// @Security    Bearer
// @Param       plan_id path     string true  "Plan ID (UUID)"
// @Param       file    formData file   false "Plan file"
// @Success     201 {object} models.PlanFile
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /plans/{plan_id}/files [post]
func (h *PlansHandler) CreatePlanFile(c *gin.Context) {
	planID, ok := pathID(c, "plan_id")
	if !ok {
		return
	}

	var req models.CreatePlanFileRequest
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
		payload, err = formFile(form, "file")
		if err != nil {
			badRequest(c, "failed to read file", err)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	file, err := h.orchestrator.CreatePlanFile(c.Request.Context(), planID, req, payload)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, file)
}

// ListPlanFiles godoc
// @Summary     List a plan's files
// @Tags        plans
// @Produce     json
// @Security    Bearer
// @Param       plan_id path string true "Plan ID (UUID)"
// @Success     200 {object} models.PlanFileListResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /plans/{plan_id}/files [get]
func (h *PlansHandler) ListPlanFiles(c *gin.Context) {
	planID, ok := pathID(c, "plan_id")
	if !ok {
		return
	}
	files, err := h.orchestrator.ListPlanFilesForDocument(c.Request.Context(), planID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.PlanFileListResponse{Files: files})
}

// UpdatePlanFile godoc
// @Summary     Update plan file metadata
// @Tags        plans
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       file_id path string               true "File ID (UUID)"
// @Param       request body models.PlanFilePatch true "Fields to change"
// @Success     200 {object} models.PlanFile
// @Failure     404 {object} models.ErrorResponse
// @Router      /plan-files/{file_id} [patch]
func (h *PlansHandler) UpdatePlanFile(c *gin.Context) {
	id, ok := pathID(c, "file_id")
	if !ok {
		return
	}
	var patch models.PlanFilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	file, err := h.orchestrator.UpdatePlanFileMetadata(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

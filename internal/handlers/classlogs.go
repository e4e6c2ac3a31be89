package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"bitacora-backend/internal/logger"
	"bitacora-backend/internal/models"
	"bitacora-backend/internal/services"
)

type ClassLogsHandler struct {
	orchestrator *services.Orchestrator
	log          *logger.Logger
}

func NewClassLogsHandler(orchestrator *services.Orchestrator, log *logger.Logger) *ClassLogsHandler {
	return &ClassLogsHandler{orchestrator: orchestrator, log: log.With("handler", "class_logs")}
}

// CreateClassLogEntry godoc
// @Summary     Create a class-log entry
// @Tags        class-logs
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateClassLogRequest true "Entry"
// @Success     201 {object} models.ClassLogEntry
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /class-logs [post]
func (h *ClassLogsHandler) CreateClassLogEntry(c *gin.Context) {
	var req models.CreateClassLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	entry, err := h.orchestrator.CreateClassLogEntry(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListClassLogEntries godoc
// @Summary     List class-log entries
// @Description Newest date first, with the linked project's title
// @Tags        class-logs
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.ClassLogListResponse
// @Router      /class-logs [get]
func (h *ClassLogsHandler) ListClassLogEntries(c *gin.Context) {
	entries, err := h.orchestrator.ListClassLogEntries(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.ClassLogListResponse{Entries: entries})
}

// UpdateClassLogEntry godoc
// @Summary     Update a class-log entry
// @Description project_id may be a UUID to move the entry, or null / "none" to unlink it.
// @Tags        class-logs
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       entry_id path string               true "Entry ID (UUID)"
// @Param       request  body models.ClassLogPatch true "Fields to change"
// @Success     200 {object} models.ClassLogEntry
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /class-logs/{entry_id} [patch]
func (h *ClassLogsHandler) UpdateClassLogEntry(c *gin.Context) {
	id, ok := pathID(c, "entry_id")
	if !ok {
		return
	}
	var patch models.ClassLogPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	entry, err := h.orchestrator.UpdateClassLogEntry(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/core"
	"github.com/etuition/etuition-server/internal/middleware"
	"github.com/etuition/etuition-server/internal/models"
	"github.com/etuition/etuition-server/internal/store"
)

type ApplicationHandler struct {
	applications *core.ApplicationService
	logger       *zap.Logger
}

func NewApplicationHandler(applications *core.ApplicationService, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, logger: logger}
}

// Create handles POST /applications and POST /hiring-requests.
func (h *ApplicationHandler) Create(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	var a models.Application
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid application payload"})
		return
	}
	id, err := h.applications.Create(c.Request.Context(), identity, &a)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insertedId": id})
}

// ListByTutor handles GET /hiring-requests/:email. Owner-scoped.
func (h *ApplicationHandler) ListByTutor(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	list, err := h.applications.ListByTutor(c.Request.Context(), identity, c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListByStudent handles GET /hiring-requests-by-student/:email.
// Owner-scoped.
func (h *ApplicationHandler) ListByStudent(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	list, err := h.applications.ListByStudent(c.Request.Context(), identity, c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// SetStatus handles PATCH /applications/status/:id and
// PATCH /hiring-requests/status/:id.
func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}
	if err := h.applications.SetStatus(c.Request.Context(), identity, c.Param("id"), req.Status); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

// Cancel handles DELETE /applications/:id and DELETE /cancel-tuition/:id.
func (h *ApplicationHandler) Cancel(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	if err := h.applications.Cancel(c.Request.Context(), identity, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": 1})
}

// Terminate handles DELETE /terminate-contract/:id. A missing
// application deletes nothing and notifies nobody.
func (h *ApplicationHandler) Terminate(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	err := h.applications.Terminate(c.Request.Context(), identity, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"deletedCount": 0, "message": "Application not found"})
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": 1})
}

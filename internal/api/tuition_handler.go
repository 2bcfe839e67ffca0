package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/core"
	"github.com/etuition/etuition-server/internal/middleware"
	"github.com/etuition/etuition-server/internal/models"
)

type TuitionHandler struct {
	tuitions *core.TuitionService
	logger   *zap.Logger
}

func NewTuitionHandler(tuitions *core.TuitionService, logger *zap.Logger) *TuitionHandler {
	return &TuitionHandler{tuitions: tuitions, logger: logger}
}

// List handles GET /tuitions. Without a filter only approved postings
// are returned. With a studentEmail filter the caller must be that
// student (or an admin), which is what makes pending and rejected
// postings visible to their owner.
func (h *TuitionHandler) List(c *gin.Context) {
	email := c.Query("studentEmail")
	if email == "" {
		list, err := h.tuitions.ListApproved(c.Request.Context())
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access: No token provided"})
		return
	}
	list, err := h.tuitions.ListByStudent(c.Request.Context(), identity, email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get handles GET /tuition/:id.
func (h *TuitionHandler) Get(c *gin.Context) {
	t, err := h.tuitions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Create handles POST /tuitions.
func (h *TuitionHandler) Create(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	var t models.Tuition
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid tuition payload"})
		return
	}
	id, err := h.tuitions.Create(c.Request.Context(), identity, &t)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insertedId": id})
}

// Update handles PATCH /tuition/:id. Owner-or-admin.
func (h *TuitionHandler) Update(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	var upd models.TuitionUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid tuition payload"})
		return
	}
	if err := h.tuitions.Update(c.Request.Context(), identity, c.Param("id"), upd); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

// Delete handles DELETE /tuitions/:id. Owner-or-admin.
func (h *TuitionHandler) Delete(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	if err := h.tuitions.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": 1})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus handles PATCH /tuitions/status/:id. Admin moderation.
func (h *TuitionHandler) SetStatus(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}
	if err := h.tuitions.SetStatus(c.Request.Context(), identity, c.Param("id"), req.Status); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/core"
	"github.com/etuition/etuition-server/internal/middleware"
	"github.com/etuition/etuition-server/internal/models"
)

type UserHandler struct {
	users  *core.UserService
	logger *zap.Logger
}

func NewUserHandler(users *core.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// Role handles GET /users/role/:email.
func (h *UserHandler) Role(c *gin.Context) {
	role, err := h.users.Role(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

// Register handles POST /users. Registration is idempotent per email:
// a repeat call answers with the "User exists" sentinel instead of
// creating a second document.
func (h *UserHandler) Register(c *gin.Context) {
	var u models.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user payload"})
		return
	}
	id, err := h.users.Register(c.Request.Context(), &u)
	if errors.Is(err, core.ErrUserExists) {
		c.JSON(http.StatusOK, gin.H{"message": "User exists"})
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insertedId": id})
}

// Get handles GET /user/:id.
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// ChangeRole handles PATCH /users/:id. Admin-only.
func (h *UserHandler) ChangeRole(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}
	if err := h.users.ChangeRole(c.Request.Context(), identity, c.Param("id"), req.Role); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

// Delete handles DELETE /users/:id. Admin-only.
func (h *UserHandler) Delete(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	if err := h.users.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": 1})
}

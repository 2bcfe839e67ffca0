package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/auth"
)

// AuthHandler issues bearer tokens for client-asserted emails. The
// token only proves "this caller once held this email"; everything
// privileged is re-checked against the users collection downstream.
type AuthHandler struct {
	tokens *auth.TokenService
	logger *zap.Logger
}

func NewAuthHandler(tokens *auth.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, logger: logger}
}

type issueTokenRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IssueToken handles POST /jwt.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req issueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email required"})
		return
	}
	token, err := h.tokens.Issue(req.Email, req.Role)
	if err != nil {
		h.logger.Error("issuing token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "JWT generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

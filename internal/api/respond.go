package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/core"
	"github.com/etuition/etuition-server/internal/store"
)

// respondError maps policy-layer errors onto the HTTP taxonomy. Store
// and provider failures surface as generic 500s; detail goes to the
// log only.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, core.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden access"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, core.ErrAlreadyApplied):
		c.JSON(http.StatusBadRequest, gin.H{"message": "You have already applied for this tuition"})
	case errors.Is(err, core.ErrInvalidTransition), errors.Is(err, core.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

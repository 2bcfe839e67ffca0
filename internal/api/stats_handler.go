package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/auth"
	"github.com/etuition/etuition-server/internal/core"
	"github.com/etuition/etuition-server/internal/middleware"
)

type StatsHandler struct {
	stats  *core.StatsService
	logger *zap.Logger
}

func NewStatsHandler(stats *core.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, logger: logger}
}

// Admin handles GET /admin/analytics and GET /admin-stats.
func (h *StatsHandler) Admin(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	analytics, err := h.stats.Admin(c.Request.Context(), identity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// TutorRevenue handles GET /tutor-revenue/:email. Owner-scoped.
func (h *StatsHandler) TutorRevenue(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	rep, err := h.stats.TutorRevenue(c.Request.Context(), identity, c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// StudentExpenses handles GET /student-expenses/:email. Owner-scoped.
func (h *StatsHandler) StudentExpenses(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	rep, err := h.stats.StudentExpenses(c.Request.Context(), identity, c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// Profile handles GET /user-stats/:email. The route carries
// OptionalAuth: anonymous callers and strangers get the public
// projection, the owner (or an admin) the full document with stats.
func (h *StatsHandler) Profile(c *gin.Context) {
	var identity *auth.Identity
	if id, ok := middleware.CurrentIdentity(c); ok {
		identity = &id
	}
	view, err := h.stats.Profile(c.Request.Context(), identity, c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

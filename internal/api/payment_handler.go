package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/etuition/etuition-server/internal/core"
	"github.com/etuition/etuition-server/internal/middleware"
)

type PaymentHandler struct {
	payments *core.PaymentService
	logger   *zap.Logger
}

func NewPaymentHandler(payments *core.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

type createIntentRequest struct {
	Salary float64 `json:"salary"`
}

// CreateIntent handles POST /create-payment-intent.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req createIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Salary <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Salary"})
		return
	}
	secret, err := h.payments.CreateIntent(c.Request.Context(), req.Salary)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
}

type recordPaymentRequest struct {
	AppID string `json:"appId"`
}

// Record handles POST /payments: one transactional settle covering the
// payment insert and the application flip to paid.
func (h *PaymentHandler) Record(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AppID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "appId required"})
		return
	}
	p, err := h.payments.Settle(c.Request.Context(), identity, req.AppID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p, "message": "Payment recorded"})
}

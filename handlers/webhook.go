// File: handlers/webhook.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	transactionRepo "studyspace/database/repository/transaction"
	"studyspace/models"
	"studyspace/services/payment"
	"studyspace/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler is the gateway-facing boundary of payment reconciliation.
type WebhookHandler struct {
	Service         payment.WebhookService
	Transactions    transactionRepo.TransactionRepository
	SignatureHeader string
	Timeout         time.Duration
	now             func() time.Time
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(svc payment.WebhookService, txRepo transactionRepo.TransactionRepository, signatureHeader string, timeout time.Duration) *WebhookHandler {
	return &WebhookHandler{
		Service:         svc,
		Transactions:    txRepo,
		SignatureHeader: signatureHeader,
		Timeout:         timeout,
		now:             time.Now,
	}
}

// HandleWebhook answers 400 on a bad signature, 500 on any unexpected failure
// and 200 for processed or deliberately ignored events so the gateway stops retrying.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	logger := getLogger(c)
	start := time.Now()
	event := "unknown"

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while processing webhook", zap.Any("panic", r), zap.Stack("stack"))
			utils.WebhookEvents.WithLabelValues(event, "error").Inc()
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.WebhookAck{
				Success: false,
				Message: "Webhook processing failed",
				Error:   fmt.Sprint(r),
			})
		}
	}()

	body, err := c.GetRawData()
	if err != nil {
		logger.Warn("failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.WebhookAck{Success: false, Message: "Unable to read request body"})
		return
	}
	signature := c.GetHeader(h.SignatureHeader)

	ctx := c.Request.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	kind, result, err := h.Service.Process(ctx, body, signature)
	if kind != "" {
		event = kind
	}
	utils.WebhookDuration.WithLabelValues(event).Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, payment.ErrInvalidSignature):
		logger.Warn("webhook signature verification failed",
			zap.Bool("signaturePresent", signature != ""),
			zap.Int("bodyBytes", len(body)),
		)
		utils.WebhookEvents.WithLabelValues(event, "rejected").Inc()
		c.JSON(http.StatusBadRequest, models.WebhookAck{Success: false, Message: "Invalid signature"})
		return
	case err != nil:
		logger.Error("webhook processing failed",
			zap.String("event", event),
			zap.Int("bodyBytes", len(body)),
			zap.Error(err),
		)
		utils.WebhookEvents.WithLabelValues(event, "error").Inc()
		c.JSON(http.StatusInternalServerError, models.WebhookAck{
			Success: false,
			Message: "Webhook processing failed",
			Error:   err.Error(),
		})
		return
	}

	utils.WebhookEvents.WithLabelValues(event, string(result)).Inc()
	c.JSON(http.StatusOK, models.WebhookAck{Success: true, Message: result.Message()})
}

// RecentTransactions lists gateway-touched transactions from the last day for the admin console.
func (h *WebhookHandler) RecentTransactions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	since := h.now().Add(-utils.AuditWindow)
	activity, err := h.Transactions.RecentGatewayActivity(ctx, since, utils.AuditLimit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch webhook logs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(activity),
		"data":    activity,
	})
}

// File: handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Payment gateway endpoints
	RazorpayWebhookHandler gin.HandlerFunc
	WebhookLogsHandler     gin.HandlerFunc

	// Admin console
	AdminJWTSecret []byte
	AdminRateLimit int

	// Ops
	HealthHandler gin.HandlerFunc
}

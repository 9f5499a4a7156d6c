package routes

import (
	"net/http"
	"time"

	"studyspace/handlers"
	"studyspace/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterPaymentRoutes registers the gateway webhook and its admin audit listing.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	razorpay := r.Group("/api/payments/razorpay")
	{
		// Called by the gateway; authenticated by body signature, not by token.
		razorpay.POST("/webhook", hb.RazorpayWebhookHandler)

		logs := razorpay.Group("/webhook/logs")
		logs.Use(middleware.RateLimitMiddleware(hb.AdminRateLimit))
		logs.Use(middleware.JWTAuthAdminMiddleware(hb.AdminJWTSecret))
		logs.GET("", hb.WebhookLogsHandler)
	}
}

// RegisterOpsRoutes registers health and metrics endpoints.
func RegisterOpsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	health := hb.HealthHandler
	if health == nil {
		health = func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }
	}
	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Razorpay-Signature", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterPaymentRoutes(r, hb)
	RegisterOpsRoutes(r, hb)
}

package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the error body of non-gateway endpoints.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// requestLogger prefers the request-scoped logger set by the request middleware.
func requestLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get("logger"); ok {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return GetLogger()
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestLogger(c).Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message:   "Internal Server Error",
					Details:   "An unexpected error occurred. Please try again later.",
					RequestID: c.GetString("requestId"),
				})
			}
		}()
		c.Next()
	}
}

// JSONError logs the failure and sends a standardized JSON error response.
func JSONError(c *gin.Context, status int, message string, err error) {
	fields := []zap.Field{zap.Int("status", status)}
	details := ""
	if err != nil {
		fields = append(fields, zap.Error(err))
		details = err.Error()
	}
	if status >= http.StatusInternalServerError {
		requestLogger(c).Error(message, fields...)
	} else {
		requestLogger(c).Warn(message, fields...)
	}
	c.JSON(status, ErrorResponse{Message: message, Details: details, RequestID: c.GetString("requestId")})
}

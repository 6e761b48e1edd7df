package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/config"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/dto"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader     = "X-Request-ID"
	contextKeyRequestID = "request_id"
)

// RequestIDFromContext returns the id set by the requestID middleware, or "".
func RequestIDFromContext(c *gin.Context) string {
	v, ok := c.Get(contextKeyRequestID)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

// requestID propagates X-Request-ID, generating one when the client sent none.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(contextKeyRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"request_id", RequestIDFromContext(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "err", c.Errors.String())
		}

		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			log.Error(ctx, "request", args...)
		case status >= http.StatusBadRequest:
			log.Warn(ctx, "request", args...)
		default:
			log.Info(ctx, "request", args...)
		}
	}
}

func recovery(log logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		log.Error(c.Request.Context(), "panic recovered", "request_id", RequestIDFromContext(c), "panic", rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	})
}

// corsMiddleware allows the configured origins. "*" (or no valid origin)
// allows any origin without credentials.
func corsMiddleware(cfg config.CORSConfig, log logging.Logger) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, o := range cfg.AllowedOrigins() {
		switch {
		case o == "*":
			c.AllowAllOrigins = true
		case strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://"):
			c.AllowOrigins = append(c.AllowOrigins, strings.TrimRight(o, "/"))
		default:
			log.Warn(context.Background(), "ignoring invalid CORS origin", "origin", o)
		}
	}
	if c.AllowAllOrigins || len(c.AllowOrigins) == 0 {
		c.AllowAllOrigins = true
		c.AllowOrigins = nil
		c.AllowCredentials = false
	}
	return cors.New(c)
}

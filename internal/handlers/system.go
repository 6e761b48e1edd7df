package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/dto"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	version string
	ping    func(ctx context.Context) error
}

// NewSystemHandler returns the root/health/version handlers. ping may be nil.
func NewSystemHandler(version string, ping func(ctx context.Context) error) *SystemHandler {
	return &SystemHandler{version: version, ping: ping}
}

// Root is the service banner.
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.RootResponse{Message: "AI Todo App API", Version: h.version})
}

// Health reports "healthy" while the database answers a ping, else 503.
func (h *SystemHandler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "unhealthy"})
			return
		}
	}
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "healthy"})
}

func (h *SystemHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, dto.VersionResponse{Version: h.version})
}

package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/dto"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/service"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors to HTTP responses. The error is also
// attached to the context for the access log.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrSubtaskNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Subtask not found"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Todo not found"})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
}

// bindOptionalJSON binds the body into dst, accepting an empty body.
func bindOptionalJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "invalid " + name + ": must be a positive integer"})
		return 0, false
	}
	return id, true
}

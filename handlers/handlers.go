package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"gallery/archive"
	"gallery/models"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Error string `json:"error"`
}

type IDsRequest struct {
	IDs []string `form:"ids" json:"ids" binding:"required"`
}

var (
	// Predefined responses
	OKResponse            = Response{}
	InternalErrorResponse = Response{"internal error"}
)

// ErrorStatus maps an error to the HTTP status reported to the client
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, archive.ErrNothingToPackage):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInvalidScope), errors.Is(err, archive.ErrEmptyScope):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ErrorResponse writes err as a JSON error. Server faults are logged and not shown to the client.
func ErrorResponse(c *gin.Context, err error) {
	status := ErrorStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.JSON(status, InternalErrorResponse)
		return
	}
	c.JSON(status, Response{err.Error()})
}

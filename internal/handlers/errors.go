package handlers

import (
	"errors"
	"net/http"

	"github.com/dimitrije/squadup/internal/services"
	"github.com/dimitrije/squadup/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

const (
	CodeValidation   = "VALIDATION"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeForbidden    = "FORBIDDEN"
	CodeInvalidState = "INVALID_STATE"
	CodeInternal     = "INTERNAL"
)

// statusFor maps a service error kind onto an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch services.Kind(err) {
	case services.ErrValidation:
		return http.StatusBadRequest, CodeValidation
	case services.ErrNotFound:
		return http.StatusNotFound, CodeNotFound
	case services.ErrConflict:
		return http.StatusConflict, CodeConflict
	case services.ErrForbidden:
		return http.StatusForbidden, CodeForbidden
	case services.ErrInvalidState:
		return http.StatusConflict, CodeInvalidState
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// respondError writes err as a JSON error body. Domain errors carry their own
// message; anything else is logged and hidden behind a generic one.
func respondError(c *drift.Context, logger *zap.Logger, err error) {
	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		message = "internal server error"
	}
	_ = c.JSON(status, dto.ErrorResponse{Error: message, Code: code})
}

func badRequest(c *drift.Context, message string) {
	_ = c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: message, Code: CodeValidation})
}

var errNotAuthenticated = errors.New("not authenticated")

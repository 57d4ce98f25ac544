package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdf-chat-backend/internal/apperrors"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// RespondWithError sends a standardized error response
func RespondWithError(c *gin.Context, statusCode int, errorCode, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		ErrorCode: errorCode,
		Message:   message,
		Details:   details,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error
func RespondWithBadRequest(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, "bad_request", message, details)
}

// RespondWithInternalError sends a 500 Internal Server Error
func RespondWithInternalError(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusInternalServerError, "internal_error", message, details)
}

// RespondWithAppError translates a tagged pipeline error into a response.
// Validation and not-found kinds report 400 with the message as-is (asking
// before any upload is a 400 on this API, not a 404); every other error
// reports 500 with internalPrefix prepended to the raw error text.
func RespondWithAppError(c *gin.Context, err error, internalPrefix string) {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindNotFound:
		RespondWithBadRequest(c, err.Error(), nil)
	default:
		RespondWithInternalError(c, internalPrefix+err.Error(), nil)
	}
}

package httperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Unavailable(c *gin.Context, code, message string) {
	Write(c, http.StatusServiceUnavailable, code, message)
}

// FromError maps the business taxonomy onto HTTP statuses. Unknown errors
// become 500 with the given fallback code.
func FromError(c *gin.Context, err error, fallbackCode string) {
	switch CodeOf(err) {
	case CodeInvalidInput:
		BadRequest(c, CodeInvalidInput, err.Error())
	case CodeSlotConflict:
		Conflict(c, CodeSlotConflict, "This time slot is no longer available. Please select a different time.")
	case CodeUpstreamUnavailable:
		if errors.Is(err, context.DeadlineExceeded) {
			Write(c, http.StatusGatewayTimeout, CodeUpstreamUnavailable, "Calendar did not respond in time. Please try again later.")
			return
		}
		Unavailable(c, CodeUpstreamUnavailable, "Calendar is temporarily unavailable. Please try again later.")
	case CodeConfiguration:
		Internal(c, CodeConfiguration, "Calendar not configured.")
	default:
		Internal(c, fallbackCode, "Internal server error.")
	}
}

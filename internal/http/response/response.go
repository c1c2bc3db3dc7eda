package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/yungbote/netinv-backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAppError maps the service sentinels to a status and code. Unmapped
// errors become a 500 without their text.
func RespondAppError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperr.ErrNotReady):
		RespondError(c, http.StatusNotFound, "not_ready", err)
	case errors.Is(err, apperr.ErrUnsupportedFormat):
		RespondError(c, http.StatusUnsupportedMediaType, "unsupported_format", err)
	case errors.Is(err, apperr.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, apperr.ErrAtCapacity):
		c.Header("Retry-After", "30")
		RespondError(c, http.StatusTooManyRequests, "at_capacity", err)
	default:
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal error"))
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

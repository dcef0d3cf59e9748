package httperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
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

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

// conflictCodes are business failures caused by concurrent writers; the
// client may retry them.
var conflictCodes = map[string]bool{
	"stale_appointment":   true,
	"booking_in_progress": true,
	"stale_invoice":       true,
}

// Respond maps an error returned by a use case to its HTTP representation.
// Unknown errors become 500 with the supplied fallback code.
func Respond(c *gin.Context, err error, fallbackCode string) {
	var (
		transition InvalidTransitionError
		validation ValidationError
		conflict   ConflictError
		business   BusinessError
	)

	switch {
	case errors.As(err, &transition):
		Conflict(c, "invalid_transition", transition.Error())
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, HTTPError{
			Code:    "validation_failed",
			Message: validation.Error(),
			Field:   validation.Field,
		})
	case errors.As(err, &conflict):
		Conflict(c, "time_conflict", conflict.Error())
	case errors.As(err, &business):
		status := http.StatusBadRequest
		if strings.HasSuffix(business.Code, "_not_found") {
			status = http.StatusNotFound
		}
		if conflictCodes[business.Code] {
			status = http.StatusConflict
		}
		Write(c, status, business.Code, business.Code)
	default:
		Internal(c, fallbackCode, "internal error")
	}
}

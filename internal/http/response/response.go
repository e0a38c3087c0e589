package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akdamba/portal-backend/internal/pkg/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code, message string) {
	if message == "" {
		message = "Der opstod en fejl. Prøv venligst igen."
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: message,
			Code:    code,
		},
	})
}

// RespondAPIError maps a service-layer error onto the wire. Only the
// user-facing Message leaves the process; the cause stays in the logs.
func RespondAPIError(c *gin.Context, err *apierr.Error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	message := ""
	if err != nil {
		if err.Status != 0 {
			status = err.Status
		}
		if err.Code != "" {
			code = err.Code
		}
		message = err.Message
	}
	RespondError(c, status, code, message)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

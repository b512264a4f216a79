package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadlink/pkg/errors"
	"nomadlink/pkg/response"
)

// writeError maps domain errors onto the HTTP statuses the API promises.
// Anything unrecognised becomes a 500 with no internal detail exposed.
func writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	message := "internal error"

	switch code {
	case errors.CodeValidation, errors.CodeNonceMismatch, errors.CodeDuplicateAccount:
		status = http.StatusBadRequest
		message = err.Error()
	case errors.CodeAddressMismatch, errors.CodeSignatureInvalid, errors.CodeInvalidCredentials:
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.CodeNonceExpired:
		status = http.StatusForbidden
		message = err.Error()
	case errors.CodeAccountNotFound, errors.CodeAlertNotFound, errors.CodeKYCNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case errors.CodeUsernameGeneration:
		status = http.StatusInternalServerError
		message = err.Error()
	}

	response.Fail(c, status, code, message)
}

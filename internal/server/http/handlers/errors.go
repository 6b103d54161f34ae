package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/banksampah/internal/domain/errors"
	"github.com/polkiloo/banksampah/internal/server/http/dto"
)

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrUnknownAccount):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrDuplicateAccount):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, domainErrors.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: message})
}

// mutationStatus returns ok for a saved mutation, 503 when it is applied but not saved,
// and false when err rejected the mutation.
func mutationStatus(err error, ok int) (int, bool) {
	if err == nil {
		return ok, true
	}
	if errors.Is(err, domainErrors.ErrPersistenceWrite) {
		return http.StatusServiceUnavailable, true
	}
	return 0, false
}

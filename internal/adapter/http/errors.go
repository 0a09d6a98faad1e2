package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

// writeError maps engine error kinds onto HTTP statuses. Everything retryable
// is 503; financial disagreements are client errors and must not be retried
// unmodified.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, usecase.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, usecase.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrAlreadyPaid),
		errors.Is(err, usecase.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, usecase.ErrPaymentNotCompleted):
		status = http.StatusPaymentRequired
	case errors.Is(err, usecase.ErrEmptyOrder),
		errors.Is(err, usecase.ErrUnknownProduct),
		errors.Is(err, usecase.ErrTotalMismatch),
		errors.Is(err, usecase.ErrAmountMismatch),
		errors.Is(err, usecase.ErrInvalidRegistration),
		errors.Is(err, domain.ErrInvalidQuantity):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrUpstreamUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// internal/interfaces/http/handlers/response.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
)

// respondError translates a service error into a JSON response.
// Unknown errors become a generic 500 and are attached to the context for the request log.
func respondError(c *gin.Context, err error) {
	var (
		validation *apperr.ValidationError
		policy     *apperr.PolicyViolation
		declined   *apperr.PaymentDeclined
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"field":   validation.Field,
			"details": validation.Reason,
		})
	case errors.As(err, &policy):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Password does not meet the policy",
			"rule":  policy.Rule,
		})
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
	case errors.Is(err, apperr.ErrAuthentication):
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperr.ErrAuthentication.Error()})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrDuplicateAccount):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &declined):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": declined.Message})
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timeout"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// respondBindError reports a request body or query that failed to bind.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    data,
	})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hello-jai/banking-management-system/internal/service"
)

// writeServiceError maps service failures onto HTTP status codes. Every
// handler shares one error set, so the mapping lives in one place.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAccountLocked):
		c.JSON(http.StatusLocked, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAuthenticationFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCustomerExists),
		errors.Is(err, service.ErrCustomerHasAccounts):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrSameAccount),
		errors.Is(err, service.ErrInvalidAccountType),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrInvalidCustomer):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

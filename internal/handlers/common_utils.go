package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"swapdesk/internal/handlers/business"
)

// respondError maps business error kinds onto HTTP responses. Validation
// and not-found errors surface their specific message; everything else gets
// a generic message while the cause is logged for operators.
func respondError(c *gin.Context, err error) {
	switch {
	case business.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case business.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		var unexpected *business.UnexpectedError
		if errors.As(err, &unexpected) {
			log.Errorf("Unexpected error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, unexpected.Cause)
		} else {
			log.Errorf("Unexpected error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// requireUserID reads the authenticated user id injected by the upstream
// API gateway. Requests without it are rejected.
func requireUserID(c *gin.Context) (string, bool) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return "", false
	}
	return userID, true
}

package handlers

import (
	"DentServe/repositories"
	"DentServe/services"
	"errors"
	"log"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses. The
// caller is responsible for user-visible messaging; nothing is retried
// automatically.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAmountOutOfRange):
		c.JSON(422, gin.H{"error": "amount out of range"})
	case errors.Is(err, services.ErrValidationRejected):
		c.JSON(400, gin.H{"error": err.Error()})
	case errors.Is(err, repositories.ErrHasDependents):
		c.JSON(409, gin.H{"error": "record has dependent records"})
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(404, gin.H{"error": "record not found"})
	case errors.Is(err, repositories.ErrStoreUnavailable):
		log.Printf("store unavailable: %v", err)
		c.JSON(503, gin.H{"error": "service temporarily unavailable"})
	default:
		log.Printf("unhandled error: %v", err)
		c.JSON(500, gin.H{"error": err.Error()})
	}
}

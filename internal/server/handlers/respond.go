package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kasetgo/kaset/internal/domain/models"
)

// respondError maps typed domain errors onto HTTP statuses. Everything the
// core raises is recoverable at the call site; only unknown errors become 500s.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		validationErr *models.ValidationError
		stateErr      *models.InvalidStateError
		notFoundErr   *models.NotFoundError
		depErr        *models.DependencyError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"error": stateErr.Error()})
	case errors.As(err, &depErr):
		logger.Error("dependency failure", zap.String("dependency", depErr.Dependency), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream dependency unavailable"})
	default:
		logger.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// Context keys set by the auth middleware.
const (
	ContextUserID = "auth_user_id"
	ContextRole   = "auth_role"
)

func currentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

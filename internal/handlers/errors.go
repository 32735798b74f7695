package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/enrudae/TutorToolkit/internal/apperrors"
)

// respondError переводит ошибки бизнес-логики в стабильные коды ответов
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "code": "validation_error"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "code": "not_found"})
	case errors.Is(err, apperrors.ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": "Приглашение использовано другим студентом.", "code": "already_claimed"})
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied", "code": "permission_denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

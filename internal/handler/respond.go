package handler

import (
	"net/http"
	"time"

	"internhub/internal/apperr"
	"internhub/internal/identity"
	"internhub/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// StatusFor сопоставляет вид ошибки с HTTP статусом
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindPermissionDenied:
		return http.StatusForbidden
	case apperr.KindInvalidTransition:
		return http.StatusUnprocessableEntity
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotAuthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError отвечает {"error": ...}; текст внутренних ошибок наружу не уходит
func respondError(c *gin.Context, err error) {
	status := StatusFor(apperr.KindOf(err))
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

func currentActor(c *gin.Context) (identity.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	}
	return actor, ok
}

func parseIDParam(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID format"})
		return uuid.Nil, false
	}
	return id, true
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func formatOptionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

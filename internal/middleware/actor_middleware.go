package middleware

import (
	"context"
	"errors"
	"net/http"

	"internhub/internal/apperr"
	"internhub/internal/identity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActorKey хранит identity.Actor текущего запроса
const ActorKey = "actor"

type ActorResolver interface {
	ResolveActor(ctx context.Context, session identity.Session) (identity.Actor, error)
}

// ActorMiddleware превращает ID пользователя из токена в актора с ролью.
// Должен стоять после JWTAuthMiddleware.
func ActorMiddleware(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(UserIDKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		userID, ok := value.(uuid.UUID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
			return
		}

		actor, err := resolver.ResolveActor(c.Request.Context(), identity.Session{UserID: userID})
		if err != nil {
			if errors.Is(err, apperr.ErrNotAuthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.Message(err)})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user"})
			return
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}

// CurrentActor достает актора, установленного ActorMiddleware
func CurrentActor(c *gin.Context) (identity.Actor, bool) {
	value, exists := c.Get(ActorKey)
	if !exists {
		return identity.Actor{}, false
	}
	actor, ok := value.(identity.Actor)
	return actor, ok
}

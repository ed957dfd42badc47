package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"internhub/internal/apperr"
	"internhub/internal/identity"
	"internhub/internal/middleware"
	"internhub/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveActor(ctx context.Context, session identity.Session) (identity.Actor, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(identity.Actor), args.Error(1)
}

func setupActorRouter(resolver middleware.ActorResolver, userID interface{}) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != nil {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	})
	r.Use(middleware.ActorMiddleware(resolver))
	r.GET("/whoami", func(c *gin.Context) {
		actor, ok := middleware.CurrentActor(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no actor"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role})
	})
	return r
}

func TestActorMiddleware_Resolved(t *testing.T) {
	userID := uuid.New()
	resolver := new(MockResolver)
	resolver.On("ResolveActor", mock.Anything, identity.Session{UserID: userID}).
		Return(identity.Actor{ID: userID, Role: model.RoleEmployer}, nil)

	resp := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	setupActorRouter(resolver, userID).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"role":"employer"`)
	resolver.AssertExpectations(t)
}

func TestActorMiddleware_UnknownProfile(t *testing.T) {
	userID := uuid.New()
	resolver := new(MockResolver)
	resolver.On("ResolveActor", mock.Anything, identity.Session{UserID: userID}).
		Return(identity.Actor{}, apperr.NotAuthenticated("profile not found"))

	resp := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	setupActorRouter(resolver, userID).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "profile not found")
}

func TestActorMiddleware_StorageFailure(t *testing.T) {
	userID := uuid.New()
	resolver := new(MockResolver)
	resolver.On("ResolveActor", mock.Anything, identity.Session{UserID: userID}).
		Return(identity.Actor{}, apperr.Internal("failed to access profile", errors.New("db down")))

	resp := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	setupActorRouter(resolver, userID).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestActorMiddleware_NoUserID(t *testing.T) {
	resolver := new(MockResolver)

	resp := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	setupActorRouter(resolver, nil).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	resolver.AssertNotCalled(t, "ResolveActor", mock.Anything, mock.Anything)
}

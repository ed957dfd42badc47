package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"internhub/internal/auth"
	"internhub/internal/dashboard"
	"internhub/internal/handler"
	"internhub/internal/identity"
	"internhub/internal/lifecycle"
	"internhub/internal/logging"
	"internhub/internal/middleware"
	"internhub/internal/model"
	"internhub/internal/repository"
	"internhub/internal/repository/memory"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

// api поднимает все маршруты поверх движка и хранилища в памяти
type api struct {
	router *gin.Engine
	repos  repository.Store
	tokens *auth.TokenManager
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := memory.New().Repositories()
	clock := func() time.Time { return fixedNow }
	log := logging.Discard()
	engine := lifecycle.New(repos, lifecycle.WithClock(clock), lifecycle.WithLogger(log))
	dash := dashboard.NewService(repos, clock, log, nil)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	internships := handler.NewInternshipHandler(engine)
	applications := handler.NewApplicationHandler(engine)
	tasks := handler.NewTaskHandler(engine)
	dashboards := handler.NewDashboardHandler(dash)
	users := handler.NewUserHandler(repos.Profiles, tokens)
	profiles := handler.NewProfileHandler(engine)

	r := gin.New()
	r.POST("/register", users.Register)
	r.POST("/login", users.Login)

	protected := r.Group("/")
	protected.Use(middleware.JWTAuthMiddleware(tokens), middleware.ActorMiddleware(identity.NewResolver(repos.Profiles)))
	{
		protected.GET("/me", users.Me)
		protected.PATCH("/me", profiles.UpdateMe)
		protected.PATCH("/profiles/:id", profiles.UpdateProfile)
		protected.POST("/internships", internships.CreateInternship)
		protected.GET("/internships", internships.ListOpenInternships)
		protected.GET("/internships/:id", internships.GetInternship)
		protected.PATCH("/internships/:id", internships.UpdateInternship)
		protected.POST("/internships/:id/status", internships.ChangeStatus)
		protected.POST("/internships/:id/applications", applications.SubmitApplication)
		protected.GET("/internships/:id/applications", applications.ListInternshipApplications)
		protected.GET("/internships/:id/tasks", tasks.ListInternshipTasks)
		protected.GET("/applications", applications.ListMyApplications)
		protected.GET("/applications/:id", applications.GetApplication)
		protected.POST("/applications/:id/review", applications.ReviewApplication)
		protected.POST("/tasks", tasks.CreateTask)
		protected.GET("/tasks/:id", tasks.GetTask)
		protected.POST("/tasks/:id/transition", tasks.TransitionTask)
		protected.POST("/tasks/:id/progress", tasks.UpdateProgress)
		protected.GET("/dashboard/employer", dashboards.Employer)
		protected.GET("/dashboard/student", dashboards.Student)
	}

	return &api{router: r, repos: repos, tokens: tokens}
}

// user создает профиль напрямую в хранилище и возвращает его токен
func (a *api) user(t *testing.T, role model.Role) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	require.NoError(t, a.repos.Profiles.Create(context.Background(), &model.Profile{
		ID:             id,
		Email:          id.String() + "@example.com",
		HashedPassword: "x",
		FullName:       string(role) + " user",
		Role:           role,
	}))
	token, err := a.tokens.GenerateToken(id.String())
	require.NoError(t, err)
	return id, token
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reader = bytes.NewBuffer(jsonBody)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	a.router.ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

func errorOf(t *testing.T, resp *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, resp)["error"]
}

func publishedInternship() handler.InternshipRequest {
	return handler.InternshipRequest{
		Title:               "Backend intern",
		Description:         "Go services",
		Location:            "Remote",
		Status:              "published",
		Vacancies:           2,
		ApplicationDeadline: "2024-02-01",
		StartDate:           "2024-02-10",
		EndDate:             "2024-05-10",
		SkillsRequired:      []string{"go", "sql"},
	}
}

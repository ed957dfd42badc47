package server

import (
	"net/http"

	"internhub/internal/auth"
	"internhub/internal/dashboard"
	"internhub/internal/handler"
	"internhub/internal/identity"
	"internhub/internal/lifecycle"
	"internhub/internal/metrics"
	"internhub/internal/middleware"
	"internhub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps are the collaborators the router is assembled from. A nil Limiter
// disables rate limiting.
type Deps struct {
	Store   repository.Store
	Engine  *lifecycle.Engine
	Stats   *dashboard.Service
	Tokens  *auth.TokenManager
	Metrics *metrics.Metrics
	Limiter middleware.Limiter
	Log     logrus.FieldLogger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware(d.Metrics), requestLogger(d.Log))

	// Initialize handlers
	userHandler := handler.NewUserHandler(d.Store.Profiles, d.Tokens)
	profileHandler := handler.NewProfileHandler(d.Engine)
	internshipHandler := handler.NewInternshipHandler(d.Engine)
	applicationHandler := handler.NewApplicationHandler(d.Engine)
	taskHandler := handler.NewTaskHandler(d.Engine)
	dashboardHandler := handler.NewDashboardHandler(d.Stats)

	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if d.Limiter != nil {
		limit = middleware.RateLimitMiddleware(d.Limiter, d.Metrics, d.Log)
	}

	// Ambient routes
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	public := r.Group("/")
	public.Use(limit)
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
	}

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(
		middleware.JWTAuthMiddleware(d.Tokens),
		limit,
		middleware.ActorMiddleware(identity.NewResolver(d.Store.Profiles)),
	)
	{
		authorized.GET("/me", userHandler.Me)
		authorized.PATCH("/me", profileHandler.UpdateMe)
		authorized.PATCH("/profiles/:id", profileHandler.UpdateProfile)

		// Internship routes
		authorized.POST("/internships", internshipHandler.CreateInternship)
		authorized.GET("/internships", internshipHandler.ListOpenInternships)
		authorized.GET("/internships/:id", internshipHandler.GetInternship)
		authorized.PATCH("/internships/:id", internshipHandler.UpdateInternship)
		authorized.POST("/internships/:id/status", internshipHandler.ChangeStatus)
		authorized.POST("/internships/:id/applications", applicationHandler.SubmitApplication)
		authorized.GET("/internships/:id/applications", applicationHandler.ListInternshipApplications)
		authorized.GET("/internships/:id/tasks", taskHandler.ListInternshipTasks)

		// Application routes
		authorized.GET("/applications", applicationHandler.ListMyApplications)
		authorized.GET("/applications/:id", applicationHandler.GetApplication)
		authorized.POST("/applications/:id/review", applicationHandler.ReviewApplication)

		// Task routes
		authorized.POST("/tasks", taskHandler.CreateTask)
		authorized.GET("/tasks/:id", taskHandler.GetTask)
		authorized.POST("/tasks/:id/transition", taskHandler.TransitionTask)
		authorized.POST("/tasks/:id/progress", taskHandler.UpdateProgress)

		// Dashboard routes
		authorized.GET("/dashboard/employer", dashboardHandler.Employer)
		authorized.GET("/dashboard/student", dashboardHandler.Student)
	}

	return r
}

// requestLogger пишет по строке на запрос и ошибки, добавленные хендлерами
func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})
		if len(c.Errors) > 0 {
			entry.WithError(c.Errors.Last()).Error("request failed")
			return
		}
		entry.Debug("request handled")
	}
}

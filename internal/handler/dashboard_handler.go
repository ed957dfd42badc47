package handler

import (
	"context"
	"net/http"

	"internhub/internal/dashboard"
	"internhub/internal/identity"

	"github.com/gin-gonic/gin"
)

type DashboardService interface {
	GetEmployerDashboard(ctx context.Context, actor identity.Actor) (*dashboard.EmployerDashboard, error)
	GetStudentDashboard(ctx context.Context, actor identity.Actor) (*dashboard.StudentDashboard, error)
}

type DashboardHandler struct {
	service DashboardService
}

func NewDashboardHandler(service DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Employer возвращает сводку работодателя. Список degraded перечисляет
// показатели, которые не удалось посчитать.
func (h *DashboardHandler) Employer(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.service.GetEmployerDashboard(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Student возвращает сводку студента
func (h *DashboardHandler) Student(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.service.GetStudentDashboard(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

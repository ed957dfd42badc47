package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"internhub/internal/identity"
	"internhub/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApplicationService interface {
	SubmitApplication(ctx context.Context, actor identity.Actor, internshipID uuid.UUID, coverLetter *string) (*model.Application, error)
	ReviewApplication(ctx context.Context, actor identity.Actor, applicationID uuid.UUID, target model.ApplicationStatus, notes *string) (*model.Application, error)
	GetApplication(ctx context.Context, actor identity.Actor, applicationID uuid.UUID) (*model.Application, error)
	ListApplicationsForInternship(ctx context.Context, actor identity.Actor, internshipID uuid.UUID) ([]model.Application, error)
	ListMyApplications(ctx context.Context, actor identity.Actor) ([]model.Application, error)
}

type ApplicationHandler struct {
	service ApplicationService
}

func NewApplicationHandler(service ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// ApplicationRequest представляет запрос на подачу заявки
type ApplicationRequest struct {
	CoverLetter *string `json:"cover_letter"`
}

// ReviewRequest представляет запрос на рассмотрение заявки
type ReviewRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

// ApplicationResponse представляет ответ с данными заявки
type ApplicationResponse struct {
	ID           string  `json:"id"`
	InternshipID string  `json:"internship_id"`
	StudentID    string  `json:"student_id"`
	Status       string  `json:"status"`
	CoverLetter  *string `json:"cover_letter,omitempty"`
	AppliedAt    string  `json:"applied_at"`
	ReviewedBy   *string `json:"reviewed_by,omitempty"`
	ReviewedAt   *string `json:"reviewed_at,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func toApplicationResponse(a *model.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:           a.ID.String(),
		InternshipID: a.InternshipID.String(),
		StudentID:    a.StudentID.String(),
		Status:       string(a.Status),
		CoverLetter:  a.CoverLetter,
		AppliedAt:    a.AppliedAt.Format(time.RFC3339),
		ReviewedBy:   formatOptionalID(a.ReviewedBy),
		ReviewedAt:   formatOptionalTime(a.ReviewedAt),
		Notes:        a.Notes,
	}
}

func toApplicationResponses(apps []model.Application) []ApplicationResponse {
	response := make([]ApplicationResponse, 0, len(apps))
	for i := range apps {
		response = append(response, toApplicationResponse(&apps[i]))
	}
	return response
}

// SubmitApplication подает заявку студента на стажировку
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	internshipID, ok := parseIDParam(c, "internship")
	if !ok {
		return
	}

	// Тело запроса необязательно
	var req ApplicationRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
	}

	application, err := h.service.SubmitApplication(c.Request.Context(), actor, internshipID, req.CoverLetter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toApplicationResponse(application))
}

// ReviewApplication меняет статус заявки
func (h *ApplicationHandler) ReviewApplication(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "application")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	application, err := h.service.ReviewApplication(c.Request.Context(), actor, id, model.ApplicationStatus(req.Status), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toApplicationResponse(application))
}

// GetApplication возвращает заявку по ID
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "application")
	if !ok {
		return
	}

	application, err := h.service.GetApplication(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toApplicationResponse(application))
}

// ListInternshipApplications возвращает заявки на стажировку
func (h *ApplicationHandler) ListInternshipApplications(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	internshipID, ok := parseIDParam(c, "internship")
	if !ok {
		return
	}

	apps, err := h.service.ListApplicationsForInternship(c.Request.Context(), actor, internshipID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toApplicationResponses(apps))
}

// ListMyApplications возвращает заявки текущего студента
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	apps, err := h.service.ListMyApplications(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toApplicationResponses(apps))
}

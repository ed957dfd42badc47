package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"internhub/internal/identity"
	"internhub/internal/lifecycle"
	"internhub/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxOpenInternships = 100

type InternshipService interface {
	CreateInternship(ctx context.Context, actor identity.Actor, input lifecycle.NewInternship) (*model.Internship, error)
	UpdateInternship(ctx context.Context, actor identity.Actor, internshipID uuid.UUID, changes lifecycle.InternshipChanges) (*model.Internship, error)
	ChangeInternshipStatus(ctx context.Context, actor identity.Actor, internshipID uuid.UUID, target model.InternshipStatus) (*model.Internship, error)
	GetInternship(ctx context.Context, actor identity.Actor, internshipID uuid.UUID) (*model.Internship, error)
	ListOpenInternships(ctx context.Context, query lifecycle.OpenInternshipQuery) ([]model.Internship, error)
}

type InternshipHandler struct {
	service InternshipService
}

func NewInternshipHandler(service InternshipService) *InternshipHandler {
	return &InternshipHandler{service: service}
}

// InternshipRequest представляет запрос на создание стажировки
type InternshipRequest struct {
	EmployerID          string   `json:"employer_id" binding:"omitempty,uuid"`
	Title               string   `json:"title" binding:"required"`
	Description         string   `json:"description"`
	Location            string   `json:"location"`
	Status              string   `json:"status"`
	Vacancies           int      `json:"vacancies"`
	ApplicationDeadline string   `json:"application_deadline" binding:"required"`
	StartDate           string   `json:"start_date" binding:"required"`
	EndDate             string   `json:"end_date" binding:"required"`
	SkillsRequired      []string `json:"skills_required"`
}

// InternshipUpdateRequest представляет частичное изменение стажировки.
// Отсутствующие поля не меняются
type InternshipUpdateRequest struct {
	Title               *string  `json:"title"`
	Description         *string  `json:"description"`
	Location            *string  `json:"location"`
	Vacancies           *int     `json:"vacancies"`
	ApplicationDeadline *string  `json:"application_deadline"`
	StartDate           *string  `json:"start_date"`
	EndDate             *string  `json:"end_date"`
	SkillsRequired      []string `json:"skills_required"`
}

// InternshipStatusRequest представляет запрос на смену статуса стажировки
type InternshipStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// InternshipResponse представляет ответ с данными стажировки
type InternshipResponse struct {
	ID                  string   `json:"id"`
	EmployerID          string   `json:"employer_id"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Location            string   `json:"location"`
	Status              string   `json:"status"`
	Vacancies           int      `json:"vacancies"`
	ApplicationDeadline string   `json:"application_deadline"`
	StartDate           string   `json:"start_date"`
	EndDate             string   `json:"end_date"`
	SkillsRequired      []string `json:"skills_required"`
	CreatedAt           string   `json:"created_at"`
}

func toInternshipResponse(i *model.Internship) InternshipResponse {
	skills := []string(i.SkillsRequired)
	if skills == nil {
		skills = []string{}
	}
	return InternshipResponse{
		ID:                  i.ID.String(),
		EmployerID:          i.EmployerID.String(),
		Title:               i.Title,
		Description:         i.Description,
		Location:            i.Location,
		Status:              string(i.Status),
		Vacancies:           i.Vacancies,
		ApplicationDeadline: formatDate(i.ApplicationDeadline),
		StartDate:           formatDate(i.StartDate),
		EndDate:             formatDate(i.EndDate),
		SkillsRequired:      skills,
		CreatedAt:           i.CreatedAt.Format(time.RFC3339),
	}
}

// CreateInternship создает стажировку от имени работодателя
func (h *InternshipHandler) CreateInternship(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req InternshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	input := lifecycle.NewInternship{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		Status:         model.InternshipStatus(req.Status),
		Vacancies:      req.Vacancies,
		SkillsRequired: req.SkillsRequired,
	}
	if req.EmployerID != "" {
		input.EmployerID = uuid.MustParse(req.EmployerID)
	}

	dates := []struct {
		raw  string
		dst  *time.Time
		name string
	}{
		{req.ApplicationDeadline, &input.ApplicationDeadline, "application_deadline"},
		{req.StartDate, &input.StartDate, "start_date"},
		{req.EndDate, &input.EndDate, "end_date"},
	}
	for _, d := range dates {
		parsed, err := time.Parse(dateLayout, d.raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + d.name + " format, expected YYYY-MM-DD"})
			return
		}
		*d.dst = parsed
	}

	internship, err := h.service.CreateInternship(c.Request.Context(), actor, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toInternshipResponse(internship))
}

// ListOpenInternships возвращает опубликованные стажировки с открытым приемом заявок
func (h *InternshipHandler) ListOpenInternships(c *gin.Context) {
	query := lifecycle.OpenInternshipQuery{
		Search: c.Query("q"),
		Limit:  maxOpenInternships,
	}
	if raw := c.Query("skills"); raw != "" {
		for _, skill := range strings.Split(raw, ",") {
			if skill = strings.TrimSpace(skill); skill != "" {
				query.Skills = append(query.Skills, skill)
			}
		}
	}

	internships, err := h.service.ListOpenInternships(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]InternshipResponse, 0, len(internships))
	for i := range internships {
		response = append(response, toInternshipResponse(&internships[i]))
	}
	c.JSON(http.StatusOK, response)
}

// GetInternship возвращает стажировку по ID
func (h *InternshipHandler) GetInternship(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "internship")
	if !ok {
		return
	}

	internship, err := h.service.GetInternship(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toInternshipResponse(internship))
}

// UpdateInternship изменяет поля черновика или опубликованной стажировки
func (h *InternshipHandler) UpdateInternship(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "internship")
	if !ok {
		return
	}

	var req InternshipUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	changes := lifecycle.InternshipChanges{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		Vacancies:      req.Vacancies,
		SkillsRequired: req.SkillsRequired,
	}
	dates := []struct {
		raw  *string
		dst  **time.Time
		name string
	}{
		{req.ApplicationDeadline, &changes.ApplicationDeadline, "application_deadline"},
		{req.StartDate, &changes.StartDate, "start_date"},
		{req.EndDate, &changes.EndDate, "end_date"},
	}
	for _, d := range dates {
		if d.raw == nil {
			continue
		}
		parsed, err := time.Parse(dateLayout, *d.raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + d.name + " format, expected YYYY-MM-DD"})
			return
		}
		*d.dst = &parsed
	}

	internship, err := h.service.UpdateInternship(c.Request.Context(), actor, id, changes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toInternshipResponse(internship))
}

// ChangeStatus публикует или закрывает стажировку
func (h *InternshipHandler) ChangeStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "internship")
	if !ok {
		return
	}

	var req InternshipStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	internship, err := h.service.ChangeInternshipStatus(c.Request.Context(), actor, id, model.InternshipStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toInternshipResponse(internship))
}

package handler

import (
	"context"
	"net/http"
	"time"

	"internhub/internal/identity"
	"internhub/internal/lifecycle"
	"internhub/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskService interface {
	CreateTask(ctx context.Context, actor identity.Actor, input lifecycle.NewTask) (*model.Task, error)
	TransitionTask(ctx context.Context, actor identity.Actor, taskID uuid.UUID, target model.TaskStatus) (*model.Task, error)
	UpdateProgress(ctx context.Context, actor identity.Actor, taskID uuid.UUID, percentage int) (*model.Task, error)
	GetTask(ctx context.Context, actor identity.Actor, taskID uuid.UUID) (*model.Task, error)
	ListTasksForInternship(ctx context.Context, actor identity.Actor, internshipID uuid.UUID) ([]model.Task, error)
}

type TaskHandler struct {
	service TaskService
}

func NewTaskHandler(service TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// TaskRequest представляет запрос на создание задачи
type TaskRequest struct {
	InternshipID string     `json:"internship_id" binding:"required,uuid"`
	AssignedTo   string     `json:"assigned_to" binding:"required,uuid"`
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	Priority     string     `json:"priority"`
	ParentTaskID *string    `json:"parent_task_id" binding:"omitempty,uuid"`
	DueDate      *time.Time `json:"due_date"`
}

// TaskTransitionRequest представляет запрос на смену статуса задачи
type TaskTransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// TaskProgressRequest представляет запрос на обновление прогресса задачи
type TaskProgressRequest struct {
	Progress *int `json:"progress_percentage" binding:"required"`
}

// TaskResponse представляет ответ с данными задачи
type TaskResponse struct {
	ID                 string  `json:"id"`
	InternshipID       string  `json:"internship_id"`
	CreatedBy          string  `json:"created_by"`
	AssignedTo         string  `json:"assigned_to"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Status             string  `json:"status"`
	Priority           string  `json:"priority"`
	ProgressPercentage int     `json:"progress_percentage"`
	ParentTaskID       *string `json:"parent_task_id,omitempty"`
	DueDate            *string `json:"due_date,omitempty"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

func toTaskResponse(t *model.Task) TaskResponse {
	return TaskResponse{
		ID:                 t.ID.String(),
		InternshipID:       t.InternshipID.String(),
		CreatedBy:          t.CreatedBy.String(),
		AssignedTo:         t.AssignedTo.String(),
		Title:              t.Title,
		Description:        t.Description,
		Status:             string(t.Status),
		Priority:           string(t.Priority),
		ProgressPercentage: t.ProgressPercentage,
		ParentTaskID:       formatOptionalID(t.ParentTaskID),
		DueDate:            formatOptionalTime(t.DueDate),
		CreatedAt:          t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          t.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateTask создает задачу для участника стажировки
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Формат UUID уже проверен биндингом
	input := lifecycle.NewTask{
		InternshipID: uuid.MustParse(req.InternshipID),
		AssignedTo:   uuid.MustParse(req.AssignedTo),
		Title:        req.Title,
		Description:  req.Description,
		Priority:     model.TaskPriority(req.Priority),
		DueDate:      req.DueDate,
	}
	if req.ParentTaskID != nil {
		parent := uuid.MustParse(*req.ParentTaskID)
		input.ParentTaskID = &parent
	}

	task, err := h.service.CreateTask(c.Request.Context(), actor, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// GetTask возвращает задачу по ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "task")
	if !ok {
		return
	}

	task, err := h.service.GetTask(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// ListInternshipTasks возвращает задачи стажировки
func (h *TaskHandler) ListInternshipTasks(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	internshipID, ok := parseIDParam(c, "internship")
	if !ok {
		return
	}

	tasks, err := h.service.ListTasksForInternship(c.Request.Context(), actor, internshipID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, toTaskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, response)
}

// TransitionTask переводит задачу в новый статус
func (h *TaskHandler) TransitionTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "task")
	if !ok {
		return
	}

	var req TaskTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	task, err := h.service.TransitionTask(c.Request.Context(), actor, id, model.TaskStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// UpdateProgress обновляет процент выполнения задачи
func (h *TaskHandler) UpdateProgress(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "task")
	if !ok {
		return
	}

	var req TaskProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	task, err := h.service.UpdateProgress(c.Request.Context(), actor, id, *req.Progress)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

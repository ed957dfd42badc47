package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"internhub/internal/apperr"
	"internhub/internal/authz"
	"internhub/internal/identity"
	"internhub/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type NewTask struct {
	InternshipID uuid.UUID
	AssignedTo   uuid.UUID
	Title        string
	Description  string
	// Priority defaults to medium.
	Priority     model.TaskPriority
	ParentTaskID *uuid.UUID
	DueDate      *time.Time
}

// CreateTask adds a todo task to the internship for one of its active
// members.
func (e *Engine) CreateTask(ctx context.Context, actor identity.Actor, input NewTask) (*model.Task, error) {
	internship, err := e.store.Internships.GetByID(ctx, input.InternshipID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(actor, authz.TaskCreate, authz.Resource{Internship: internship}); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = model.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown priority %q", priority))
	}

	if err := e.validateAssignee(ctx, internship.ID, input.AssignedTo); err != nil {
		return nil, err
	}
	if input.ParentTaskID != nil {
		if err := e.validateParent(ctx, internship.ID, *input.ParentTaskID); err != nil {
			return nil, err
		}
	}

	now := e.now()
	task := &model.Task{
		InternshipID: internship.ID,
		CreatedBy:    actor.ID,
		AssignedTo:   input.AssignedTo,
		Title:        title,
		Description:  input.Description,
		Status:       model.TaskStatusTodo,
		Priority:     priority,
		ParentTaskID: input.ParentTaskID,
		DueDate:      input.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.store.Tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"task_id":       task.ID,
		"internship_id": internship.ID,
		"assigned_to":   task.AssignedTo,
	}).Info("task created")
	return task, nil
}

func (e *Engine) validateAssignee(ctx context.Context, internshipID, assigneeID uuid.UUID) error {
	assignee, err := e.store.Profiles.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Validation("assignee does not exist")
		}
		return err
	}
	if assignee.Role != model.RoleStudent {
		return apperr.Validation("tasks can only be assigned to students")
	}

	member, err := e.isMember(ctx, internshipID, assignee.ID)
	if err != nil {
		return err
	}
	if !member {
		return apperr.Validation("assignee is not a member of this internship")
	}
	return nil
}

// validateParent walks the parent chain by id. Every ancestor must belong to
// the same internship and the chain must end without revisiting a task.
func (e *Engine) validateParent(ctx context.Context, internshipID, parentID uuid.UUID) error {
	seen := make(map[uuid.UUID]bool)
	next := &parentID
	for next != nil {
		if seen[*next] {
			return apperr.Validation("parent task chain contains a cycle")
		}
		seen[*next] = true

		parent, err := e.store.Tasks.GetByID(ctx, *next)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.Validation("parent task does not exist")
			}
			return err
		}
		if parent.InternshipID != internshipID {
			return apperr.Validation("parent task belongs to another internship")
		}
		next = parent.ParentTaskID
	}
	return nil
}

// TransitionTask moves a task to target. Reaching done sets progress to 100.
func (e *Engine) TransitionTask(ctx context.Context, actor identity.Actor, taskID uuid.UUID, target model.TaskStatus) (*model.Task, error) {
	if !target.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown task status %q", target))
	}

	task, internship, err := e.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(actor, authz.TaskTransition, authz.Resource{Internship: internship, Task: task}); err != nil {
		return nil, err
	}

	current := task.State()
	if !TaskTransitionAllowed(current.Status, target) {
		return nil, apperr.InvalidTransition(string(current.Status), string(target))
	}

	next := model.TaskState{Status: target, ProgressPercentage: current.ProgressPercentage}
	if target == model.TaskStatusDone {
		next.ProgressPercentage = 100
	}
	if err := e.written("task", e.store.Tasks.UpdateStateIf(ctx, task.ID, current, next)); err != nil {
		return nil, err
	}
	task.Status = next.Status
	task.ProgressPercentage = next.ProgressPercentage
	task.UpdatedAt = e.now()
	e.metrics.RecordTransition("task", string(current.Status), string(target))

	e.log.WithFields(logrus.Fields{
		"task_id":  task.ID,
		"actor_id": actor.ID,
		"from":     current.Status,
		"to":       target,
	}).Info("task transitioned")
	return task, nil
}

// UpdateProgress sets a task's completion percentage. Values outside
// [0, 100] are rejected, not clamped, and done tasks are frozen.
func (e *Engine) UpdateProgress(ctx context.Context, actor identity.Actor, taskID uuid.UUID, percentage int) (*model.Task, error) {
	if percentage < 0 || percentage > 100 {
		return nil, apperr.Validation("progress must be between 0 and 100")
	}

	task, internship, err := e.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(actor, authz.TaskProgress, authz.Resource{Internship: internship, Task: task}); err != nil {
		return nil, err
	}
	if task.Status == model.TaskStatusDone {
		return nil, apperr.New(apperr.KindInvalidTransition, "progress of a done task cannot change", nil)
	}

	current := task.State()
	next := model.TaskState{Status: current.Status, ProgressPercentage: percentage}
	if err := e.written("task", e.store.Tasks.UpdateStateIf(ctx, task.ID, current, next)); err != nil {
		return nil, err
	}
	task.ProgressPercentage = percentage
	task.UpdatedAt = e.now()

	e.log.WithFields(logrus.Fields{
		"task_id":  task.ID,
		"actor_id": actor.ID,
		"progress": percentage,
	}).Debug("task progress updated")
	return task, nil
}

func (e *Engine) GetTask(ctx context.Context, actor identity.Actor, taskID uuid.UUID) (*model.Task, error) {
	task, internship, err := e.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	res := authz.Resource{Internship: internship, Task: task}
	if actor.Role == model.RoleStudent {
		if res.Member, err = e.isMember(ctx, internship.ID, actor.ID); err != nil {
			return nil, err
		}
	}
	if err := authz.Check(actor, authz.TaskRead, res); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasksForInternship returns the internship's tasks in creation order.
// Open to the employer, admins and active members.
func (e *Engine) ListTasksForInternship(ctx context.Context, actor identity.Actor, internshipID uuid.UUID) ([]model.Task, error) {
	internship, err := e.store.Internships.GetByID(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	res := authz.Resource{Internship: internship}
	if actor.Role == model.RoleStudent {
		if res.Member, err = e.isMember(ctx, internship.ID, actor.ID); err != nil {
			return nil, err
		}
	}
	if err := authz.Check(actor, authz.TaskRead, res); err != nil {
		return nil, err
	}
	return e.store.Tasks.Find(ctx, model.TaskFilter{InternshipID: &internship.ID, Order: model.TaskOrderCreated})
}

func (e *Engine) loadTask(ctx context.Context, taskID uuid.UUID) (*model.Task, *model.Internship, error) {
	task, err := e.store.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	internship, err := e.store.Internships.GetByID(ctx, task.InternshipID)
	if err != nil {
		return nil, nil, err
	}
	return task, internship, nil
}

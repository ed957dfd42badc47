package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

// OpenTaskStatuses are the non-terminal task states.
var OpenTaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusReview}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	default:
		return false
	}
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

type Task struct {
	ID                 uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	InternshipID       uuid.UUID    `gorm:"type:uuid;not null;index"`
	CreatedBy          uuid.UUID    `gorm:"type:uuid;not null"`
	AssignedTo         uuid.UUID    `gorm:"type:uuid;not null;index"`
	Title              string       `gorm:"not null"`
	Description        string
	Status             TaskStatus   `gorm:"type:text;not null"`
	Priority           TaskPriority `gorm:"type:text;not null"`
	ProgressPercentage int          `gorm:"not null"`
	ParentTaskID       *uuid.UUID   `gorm:"type:uuid;index"`
	DueDate            *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TaskState is the part of a task guarded by conditional updates.
type TaskState struct {
	Status             TaskStatus
	ProgressPercentage int
}

func (t *Task) State() TaskState {
	return TaskState{Status: t.Status, ProgressPercentage: t.ProgressPercentage}
}

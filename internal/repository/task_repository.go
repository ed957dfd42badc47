package repository

import (
	"context"

	"internhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return wrapError(r.db.WithContext(ctx).Create(task).Error, "task")
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, wrapError(err, "task")
	}
	return &task, nil
}

// Find lists tasks matching the filter in the requested order
func (r *TaskRepository) Find(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	var tasks []model.Task
	query := applyTaskFilter(r.db.WithContext(ctx).Model(&model.Task{}), filter)

	switch filter.Order {
	case model.TaskOrderDueSoonest:
		query = query.Order("due_date ASC NULLS LAST").Order("created_at ASC")
	default:
		query = query.Order("created_at ASC")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Find(&tasks).Error; err != nil {
		return nil, wrapError(err, "task")
	}
	return tasks, nil
}

// Count counts tasks matching the filter
func (r *TaskRepository) Count(ctx context.Context, filter model.TaskFilter) (int64, error) {
	var count int64
	err := applyTaskFilter(r.db.WithContext(ctx).Model(&model.Task{}), filter).Count(&count).Error
	return count, wrapError(err, "task")
}

// UpdateStateIf moves a task to next only while it is still in expected
func (r *TaskRepository) UpdateStateIf(ctx context.Context, id uuid.UUID, expected, next model.TaskState) error {
	return conditionalUpdate(ctx, r.db, &model.Task{}, "task", id,
		"status = ? AND progress_percentage = ?", []interface{}{expected.Status, expected.ProgressPercentage},
		map[string]interface{}{
			"status":              next.Status,
			"progress_percentage": next.ProgressPercentage,
		},
	)
}

func applyTaskFilter(query *gorm.DB, filter model.TaskFilter) *gorm.DB {
	if filter.InternshipID != nil {
		query = query.Where("internship_id = ?", *filter.InternshipID)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	return query
}

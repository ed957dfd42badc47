package repository

import (
	"context"

	"internhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, application *model.Application) error {
	return wrapError(r.db.WithContext(ctx).Create(application).Error, "application")
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var application model.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&application).Error; err != nil {
		return nil, wrapError(err, "application")
	}
	return &application, nil
}

func (r *ApplicationRepository) Find(ctx context.Context, filter model.ApplicationFilter) ([]model.Application, error) {
	var applications []model.Application
	err := applyApplicationFilter(r.db.WithContext(ctx).Model(&model.Application{}), filter).
		Order("applied_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, wrapError(err, "application")
	}
	return applications, nil
}

func (r *ApplicationRepository) Count(ctx context.Context, filter model.ApplicationFilter) (int64, error) {
	var count int64
	err := applyApplicationFilter(r.db.WithContext(ctx).Model(&model.Application{}), filter).Count(&count).Error
	return count, wrapError(err, "application")
}

// UpdateReviewIf records a review only while the application is still in the
// expected status.
func (r *ApplicationRepository) UpdateReviewIf(ctx context.Context, id uuid.UUID, expected model.ApplicationStatus, review model.ApplicationReview) error {
	return conditionalUpdate(ctx, r.db, &model.Application{}, "application", id,
		"status = ?", []interface{}{expected},
		map[string]interface{}{
			"status":      review.Status,
			"reviewed_by": review.ReviewedBy,
			"reviewed_at": review.ReviewedAt,
			"notes":       review.Notes,
		},
	)
}

func applyApplicationFilter(query *gorm.DB, filter model.ApplicationFilter) *gorm.DB {
	if filter.InternshipID != nil {
		query = query.Where("internship_id = ?", *filter.InternshipID)
	}
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.EmployerID != nil {
		query = query.Where("internship_id IN (SELECT id FROM internships WHERE employer_id = ?)", *filter.EmployerID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	return query
}

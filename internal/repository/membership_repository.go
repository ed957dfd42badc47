package repository

import (
	"context"
	"errors"

	"internhub/internal/model"

	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Ensure(ctx context.Context, membership *model.Membership) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Membership
		err := tx.Where("internship_id = ? AND student_id = ?", membership.InternshipID, membership.StudentID).
			First(&existing).Error

		if err == nil {
			if existing.Status != membership.Status {
				existing.Status = membership.Status
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
			}
			*membership = existing
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(membership).Error
	})
	return wrapError(err, "membership")
}

func (r *MembershipRepository) Find(ctx context.Context, filter model.MembershipFilter) ([]model.Membership, error) {
	var memberships []model.Membership
	err := applyMembershipFilter(r.db.WithContext(ctx).Model(&model.Membership{}), filter).
		Order("joined_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, wrapError(err, "membership")
	}
	return memberships, nil
}

func (r *MembershipRepository) Count(ctx context.Context, filter model.MembershipFilter) (int64, error) {
	var count int64
	err := applyMembershipFilter(r.db.WithContext(ctx).Model(&model.Membership{}), filter).Count(&count).Error
	return count, wrapError(err, "membership")
}

func applyMembershipFilter(query *gorm.DB, filter model.MembershipFilter) *gorm.DB {
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

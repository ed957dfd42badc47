package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"internhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return wrapError(r.db.WithContext(ctx).Create(profile).Error, "profile")
}

// FindByEmail returns nil, nil when no profile uses the address.
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError(err, "profile")
	}
	return &profile, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, wrapError(err, "profile")
	}
	return &profile, nil
}

// UpdateDetailsIf writes the editable columns only while the row still has
// the expected updated_at.
func (r *ProfileRepository) UpdateDetailsIf(ctx context.Context, id uuid.UUID, expected time.Time, details model.ProfileDetails) error {
	return conditionalUpdate(ctx, r.db, &model.Profile{}, "profile", id,
		"updated_at = ?", []interface{}{expected},
		map[string]interface{}{
			"full_name":    details.FullName,
			"company_name": details.CompanyName,
			"college_name": details.CollegeName,
			"skills":       details.Skills,
			"bio":          details.Bio,
			"location":     details.Location,
			"updated_at":   details.UpdatedAt,
		},
	)
}
